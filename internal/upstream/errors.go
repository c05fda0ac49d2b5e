package upstream

import (
	"errors"
	"fmt"
)

// Error kinds shared by every upstream call. Match them with errors.Is.
var (
	ErrNetwork  = errors.New("network error")
	ErrNotFound = errors.New("not found")
	ErrFormat   = errors.New("format error")
)

// Error describes a failed call to one of the upstream services.
type Error struct {
	Kind       error  // one of ErrNetwork, ErrNotFound, ErrFormat
	Service    string // e.g. "ncbi esearch"
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Service, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NotFound builds a not-found error for service.
func NotFound(service, url string, err error) *Error {
	return &Error{Kind: ErrNotFound, Service: service, URL: url, Err: err}
}

// Format builds a format error for service.
func Format(service, url string, err error) *Error {
	return &Error{Kind: ErrFormat, Service: service, URL: url, Err: err}
}
