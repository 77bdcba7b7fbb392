package common

import (
	"errors"
	"fmt"
)

// Usage errors are detected locally, no request is sent
var (
	ErrUsage          = errors.New("cloudkv: usage error")
	ErrEmptyKey       = usageError("key cannot be empty")
	ErrNoWriteToken   = usageError("namespace write token not provided")
	ErrNotInitialized = usageError("client not initialized, call Open first")
	ErrInvalidConfig  = usageError("invalid configuration")
	ErrInvalidTTL     = usageError("ttl must be at least one second")
)

// usageErr is a usage error that matches ErrUsage
type usageErr struct {
	msg string
}

func usageError(msg string) error {
	return &usageErr{msg: "cloudkv: " + msg}
}

func (e *usageErr) Error() string { return e.msg }

func (e *usageErr) Is(target error) bool { return target == ErrUsage }

// --------------------------------------------------------------------------
// Response Error
// --------------------------------------------------------------------------

// ResponseError is returned for every response with a non 2xx status code
type ResponseError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *ResponseError) Error() string {
	return fmt.Sprintf("cloudkv: unexpected %d response: %s", e.StatusCode, e.Body)
}

// CheckStatus returns a *ResponseError if statusCode is not a success code
func CheckStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	return &ResponseError{StatusCode: statusCode, Body: string(body)}
}

// IsStatus reports whether err is a *ResponseError with the given status code
func IsStatus(err error, statusCode int) bool {
	var respErr *ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == statusCode
}
