package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a service failure so callers can match on it without
// inspecting error text.
type ErrorKind int

const (
	KindInvalidInput ErrorKind = iota
	KindConflict
	KindNotFound
	KindStorage
	KindThumbnail
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindStorage:
		return "storage"
	case KindThumbnail:
		return "thumbnail"
	default:
		return "unknown"
	}
}

// Error is the tagged error type returned by the catalog services. Kind
// identifies the failure class, Op the operation that produced it.
type Error struct {
	Kind ErrorKind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the ErrorKind from err; ok is false when err is not a
// service error.
func KindOf(err error) (ErrorKind, bool) {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind, true
	}
	return 0, false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

func invalidInput(op, msg string) *Error {
	return &Error{Kind: KindInvalidInput, Op: op, Msg: msg}
}

func conflict(op, msg string, err error) *Error {
	return &Error{Kind: KindConflict, Op: op, Msg: msg, Err: err}
}

func notFound(op, msg string) *Error {
	return &Error{Kind: KindNotFound, Op: op, Msg: msg}
}

func storageErr(op, msg string, err error) *Error {
	return &Error{Kind: KindStorage, Op: op, Msg: msg, Err: err}
}
