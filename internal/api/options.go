package api

import (
	"github.com/tracefold/graphpub/pkg/errors"
	"github.com/tracefold/graphpub/pkg/graph"
)

type options struct {
	sharedSpaces []graph.ID
}

// Option configures the client.
type Option func(*options) error

func newOptions(opts ...Option) (*options, error) {
	o := &options{}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithSharedSpaces adds spaces that entity searches consult in addition to
// the primary space. The primary space wins on a name collision.
func WithSharedSpaces(ids ...graph.ID) Option {
	return func(o *options) error {
		for _, id := range ids {
			if id == "" {
				return &errors.ValidationError{
					Field:   "sharedSpaces",
					Message: "shared space id must not be empty",
				}
			}
		}
		o.sharedSpaces = append(o.sharedSpaces, ids...)
		return nil
	}
}
