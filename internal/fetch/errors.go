// internal/fetch/errors.go
package fetch

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific failure class
type ErrorCode string

const (
	CodeTransport  ErrorCode = "TRANSPORT"
	CodeHTTPStatus ErrorCode = "HTTP_STATUS"
	CodeIndexQuery ErrorCode = "INDEX_QUERY"
	CodeParse      ErrorCode = "PARSE"
)

// Sentinels for errors.Is; matching is by Code only
var (
	ErrTransport  = &FetchError{Code: CodeTransport}
	ErrHTTPStatus = &FetchError{Code: CodeHTTPStatus}
	ErrIndexQuery = &FetchError{Code: CodeIndexQuery}
	ErrParse      = &FetchError{Code: CodeParse}
)

// FetchError wraps errors with the URL and failure class
type FetchError struct {
	Code       ErrorCode
	Message    string
	URL        string
	StatusCode int
	Underlying error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *FetchError) Unwrap() error {
	return e.Underlying
}

// Is checks if the error matches the target
func (e *FetchError) Is(target error) bool {
	if t, ok := target.(*FetchError); ok {
		return e.Code == t.Code
	}
	return errors.Is(e.Underlying, target)
}

// NewFetchError creates a new FetchError
func NewFetchError(code ErrorCode, url, message string, err error) *FetchError {
	return &FetchError{
		Code:       code,
		Message:    message,
		URL:        url,
		Underlying: err,
	}
}

// WithStatus records the last HTTP status seen
func (e *FetchError) WithStatus(code int) *FetchError {
	e.StatusCode = code
	return e
}
