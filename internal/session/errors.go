package session

import (
	"fmt"

	"github.com/pkg/errors"
)

var ErrAuthorizationDenied = errors.New("authorization denied")

// RequestFailedError wraps a platform failure on insert or read.
type RequestFailedError struct {
	Op    string
	Cause error
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Op, e.Cause)
}

func (e *RequestFailedError) Unwrap() error {
	return e.Cause
}
