package resolver

import (
	"github.com/tracefold/graphpub/pkg/errors"
	"github.com/tracefold/graphpub/pkg/graph"
)

// options configures a Builder.
type options struct {
	space graph.ID
}

func defaultOptions() *options {
	return &options{}
}

// Option is a function that configures a Builder.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns builder options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithSpace scopes entity name searches to a target space.
func WithSpace(space graph.ID) Option {
	return func(o *options) error {
		if space.IsZero() {
			return &errors.ValidationError{
				Field:   "space",
				Message: "cannot be empty",
			}
		}
		o.space = space
		return nil
	}
}
