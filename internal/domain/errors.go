package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration signals a missing or invalid construction argument.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrInvalidArgument signals a bad call argument (empty document type, nil request).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrSearch signals a failure of the hosted search service.
	ErrSearch = errors.New("search service failure")
)

// SearchError is the single error kind surfaced for remote search failures.
// It carries the service application id and the search scope for diagnostics.
type SearchError struct {
	Message string
	AppID   string
	Scope   string
	Err     error
}

func (e *SearchError) Error() string {
	msg := fmt.Sprintf("%s. Search service name: %s, Scope: %s", e.Message, e.AppID, e.Scope)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both ErrSearch and the underlying cause to errors.Is / errors.As.
func (e *SearchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrSearch}
	}
	return []error{ErrSearch, e.Err}
}

// NewSearchError wraps err with the operation message and service context.
func NewSearchError(message, appID, scope string, err error) error {
	return &SearchError{Message: message, AppID: appID, Scope: scope, Err: err}
}
