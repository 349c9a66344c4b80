package batch

import "github.com/tracefold/graphpub/pkg/graph"

// options configures a Builder.
type options struct {
	uploader graph.MediaUploader
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

// WithMediaUploader sets the media-upload collaborator. Without one, covers
// are dropped with a warning.
func WithMediaUploader(uploader graph.MediaUploader) Option {
	return func(o *options) error {
		o.uploader = uploader
		return nil
	}
}
