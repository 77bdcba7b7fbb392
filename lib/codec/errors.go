package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrContentTypeMismatch is matched by every *ContentTypeMismatchError.
	ErrContentTypeMismatch = errors.New("cloudkv: content type mismatch")
	// ErrInvalidUTF8 is returned when a value read as string is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("cloudkv: value is not valid UTF-8")
)

// ContentTypeMismatchError is returned by Decode when the stored content type
// is not the structured sentinel and the target type is not one of the raw forms.
type ContentTypeMismatchError struct {
	ContentType string
	Target      string
}

func (e *ContentTypeMismatchError) Error() string {
	return fmt.Sprintf("cloudkv: content type was %q, not %q, and target type %s is not []byte, string or *bytes.Buffer",
		e.ContentType, StructuredContentType, e.Target)
}

func (e *ContentTypeMismatchError) Is(target error) bool {
	return target == ErrContentTypeMismatch
}

// ValidationError is returned when a structured payload does not conform to
// the target type.
type ValidationError struct {
	Target string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("cloudkv: validation of %s failed: %v", e.Target, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
