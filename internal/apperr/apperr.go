// Package apperr defines the closed set of error kinds the note operations report.
//
// Store adapters wrap backend failures as KindStoreUnavailable so the caller sees
// the store's own text. Anything left unclassified is KindUnknown and its detail
// stays in the server log.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the caller.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindStoreUnavailable
)

// InternalMessage is what callers see for KindUnknown errors.
const InternalMessage = "Internal Server Error"

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindStoreUnavailable:
		return "store_unavailable"
	default:
		return "unknown"
	}
}

// Error carries a Kind alongside the failing operation.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op == "" {
		return msg
	}
	return e.Op + ": " + msg
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an error of the given kind with a caller-safe message.
func New(kind Kind, op, message string) error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Validation reports a malformed request or configuration.
func Validation(op, message string) error {
	return &Error{Kind: KindValidation, Op: op, Message: message}
}

// NotFound reports a missing metadata record.
func NotFound(op, message string) error {
	return &Error{Kind: KindNotFound, Op: op, Message: message}
}

// Store wraps a failure reported by a metadata or blob store. A nil err yields nil.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindStoreUnavailable, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// HTTPStatus maps a kind to the response status code.
func HTTPStatus(k Kind) int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text that may be shown to a caller.
// Store errors expose the store's own message; unknown errors never leak detail.
func PublicMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return InternalMessage
	}
	switch e.Kind {
	case KindValidation, KindNotFound:
		return e.Message
	case KindStoreUnavailable:
		if e.Err != nil {
			return e.Err.Error()
		}
		return e.Message
	default:
		return InternalMessage
	}
}
