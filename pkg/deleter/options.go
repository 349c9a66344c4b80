package deleter

import (
	"github.com/tracefold/graphpub/pkg/errors"
	"github.com/tracefold/graphpub/pkg/graph"
)

// options configures a Deleter.
type options struct {
	space      graph.ID
	windowSize int
}

func defaultOptions() *options {
	return &options{windowSize: DefaultWindowSize}
}

// Option is a function that configures a Deleter.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns deleter options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithSpace scopes detail fetches to a target space.
func WithSpace(space graph.ID) Option {
	return func(o *options) error {
		o.space = space
		return nil
	}
}

// WithWindowSize sets how many detail fetches run concurrently per window.
func WithWindowSize(n int) Option {
	return func(o *options) error {
		if n < 1 {
			return &errors.ValidationError{
				Field:   "windowSize",
				Value:   n,
				Message: "must be at least 1",
			}
		}
		o.windowSize = n
		return nil
	}
}
