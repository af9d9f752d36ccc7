package client

import (
	"errors"
	"net/http"
)

var (
	// ErrRequestFailed matches every failure returned by the API client.
	ErrRequestFailed = errors.New("request failed")
	// ErrUnauthorized matches failures caused by an HTTP 401.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnavailable matches transport failures: network errors, timeouts and
	// undecodable response bodies.
	ErrUnavailable = errors.New("server unavailable")
)

// FailureKind classifies a RequestFailedError.
type FailureKind int

const (
	TransportFailure FailureKind = iota
	UnauthorizedFailure
	ApplicationFailure
)

func (k FailureKind) String() string {
	switch k {
	case TransportFailure:
		return "transport"
	case UnauthorizedFailure:
		return "unauthorized"
	case ApplicationFailure:
		return "application"
	default:
		return "unknown"
	}
}

// RequestFailedError is the single failure shape produced by the client.
//
// Message is what a UI shows: the server's `message` field when the response
// carried one, otherwise the generic "request failed". Status is zero unless
// the failure came from a non-2xx response. Err holds the underlying transport
// or decode error.
type RequestFailedError struct {
	Kind    FailureKind
	Status  int
	Message string
	Err     error
}

func (e *RequestFailedError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *RequestFailedError) Unwrap() error {
	return e.Err
}

func (e *RequestFailedError) Is(target error) bool {
	switch target {
	case ErrRequestFailed:
		return true
	case ErrUnauthorized:
		return e.Kind == UnauthorizedFailure
	case ErrUnavailable:
		return e.Kind == TransportFailure
	}
	return false
}

const genericFailureMessage = "request failed"

func transportError(err error) *RequestFailedError {
	return &RequestFailedError{Kind: TransportFailure, Message: genericFailureMessage, Err: err}
}

func statusError(status int, message string) *RequestFailedError {
	kind := ApplicationFailure
	if status == http.StatusUnauthorized {
		kind = UnauthorizedFailure
	}
	if message == "" {
		message = genericFailureMessage
	}
	return &RequestFailedError{Kind: kind, Status: status, Message: message}
}

// FailureMessage returns the user-facing message of err: the Message of a
// RequestFailedError, or err.Error() for anything else.
func FailureMessage(err error) string {
	var rf *RequestFailedError
	if errors.As(err, &rf) {
		return rf.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
