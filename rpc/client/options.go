package client

import "time"

// SetOption customizes a single set operation
type SetOption func(*setOptions)

type setOptions struct {
	contentType *string
	ttl         *time.Duration
}

// WithContentType overrides the content type inferred from the value.
// An empty string keeps the inferred content type.
func WithContentType(contentType string) SetOption {
	return func(o *setOptions) {
		o.contentType = &contentType
	}
}

// WithTTL sets how long the value is kept, in whole seconds.
// Fractions of a second are dropped, a ttl under one second is rejected
// with ErrInvalidTTL. Without it the server applies its default retention window.
func WithTTL(ttl time.Duration) SetOption {
	return func(o *setOptions) {
		o.ttl = &ttl
	}
}
