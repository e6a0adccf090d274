package vectordb

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure that crosses the VectorDatabase contract.
type ErrorKind int

const (
	// KindOther covers errors the adapter raises itself (validation, missing fields).
	KindOther ErrorKind = iota
	// KindNotFound means the addressed resource is absent or incompatible.
	KindNotFound
	// KindBackend wraps an error reported by the underlying engine or its transport.
	KindBackend
	// KindUnimplemented means the adapter does not support the operation.
	KindUnimplemented
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindBackend:
		return "BackendError"
	case KindUnimplemented:
		return "Unimplemented"
	default:
		return "Other"
	}
}

// Sentinels matched by errors.Is against any *Error of the same kind.
var (
	ErrNotFound      = errors.New("vectordb: not found")
	ErrBackend       = errors.New("vectordb: backend error")
	ErrOther         = errors.New("vectordb: error")
	ErrUnimplemented = errors.New("vectordb: unimplemented")
)

// Error is the single error type returned by VectorDatabase implementations.
// Backend errors keep the native error in Err so it stays available to
// errors.As for diagnostics, but callers only need Kind to branch.
type Error struct {
	Kind    ErrorKind
	Backend string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindBackend && e.Err != nil:
		if e.Message != "" {
			return fmt.Sprintf("%s: %s: %v", e.Backend, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Backend, e.Err)
	case e.Kind == KindUnimplemented:
		if e.Message == "" {
			return "unimplemented"
		}
		return e.Message + " is not implemented"
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindBackend:
		return ErrBackend
	case KindUnimplemented:
		return ErrUnimplemented
	default:
		return ErrOther
	}
}

// NewNotFoundError returns a KindNotFound error.
func NewNotFoundError(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// NewBackendError wraps a native engine error. A nil err yields nil.
func NewBackendError(backend string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindBackend, Backend: backend, Err: err}
}

// WrapBackendError is NewBackendError with an operation message.
func WrapBackendError(backend string, err error, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindBackend, Backend: backend, Message: fmt.Sprintf(format, args...), Err: err}
}

// NewOtherError returns a KindOther error. The message is never empty.
func NewOtherError(format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	if msg == "" {
		msg = "unspecified error"
	}
	return &Error{Kind: KindOther, Message: msg}
}

// NewUnimplementedError marks operation as unsupported by the adapter.
func NewUnimplementedError(operation string) *Error {
	return &Error{Kind: KindUnimplemented, Message: operation}
}

// KindOf classifies err. Errors that are not *Error are reported as KindOther.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindOther
}

// IsNotFoundError checks if the error is classified as not found.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsBackendError checks if the error came from the underlying engine.
func IsBackendError(err error) bool {
	return errors.Is(err, ErrBackend)
}

// IsUnimplementedError checks if the operation is unsupported.
func IsUnimplementedError(err error) bool {
	return errors.Is(err, ErrUnimplemented)
}
