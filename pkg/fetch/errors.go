package fetch

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
)

// Kind classifies a transport failure.
type Kind int

const (
	// KindNetwork means no response was received at all.
	KindNetwork Kind = iota + 1

	// KindHTTPStatus means a response was received but its status code
	// signals failure (non-2xx).
	KindHTTPStatus

	// KindDecode means a response was received but its body could not be
	// decoded.
	KindDecode

	// KindUnknown covers anything not otherwise classified.
	KindUnknown
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTPStatus:
		return "http_status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is a classified transport failure.
type Error struct {
	// Kind is the failure classification.
	Kind Kind

	// Status is the HTTP status code; only set for KindHTTPStatus.
	Status int

	// Locator is the resource locator the request was issued against.
	Locator string

	// wrapped is the underlying error, if any.
	wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("fetch %s: unexpected status %d", e.Locator, e.Status)
	case KindNetwork:
		return fmt.Sprintf("fetch %s: network failure: %v", e.Locator, e.wrapped)
	case KindDecode:
		return fmt.Sprintf("fetch %s: decode failure: %v", e.Locator, e.wrapped)
	default:
		return fmt.Sprintf("fetch %s: %v", e.Locator, e.wrapped)
	}
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.wrapped
}

// Classify normalizes an arbitrary error into a classified *Error.
// Errors that are already classified pass through unchanged. nil stays nil.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &Error{Kind: KindNetwork, Locator: urlErr.URL, wrapped: err}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &Error{Kind: KindDecode, wrapped: err}
	}

	return &Error{Kind: KindUnknown, wrapped: err}
}

// KindOf returns the classification of err, or 0 for nil.
func KindOf(err error) Kind {
	if err == nil {
		return 0
	}
	return Classify(err).Kind
}
