package container

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a container was rejected. Every validation
// failure carries exactly one kind.
type ErrorKind string

const (
	KindUnreadable ErrorKind = "unreadable_input"
	KindSignature  ErrorKind = "signature_mismatch"
	KindTruncated  ErrorKind = "truncated"
	KindMalformed  ErrorKind = "malformed_chunk"
	KindOrder      ErrorKind = "structural_order"
	KindFlags      ErrorKind = "flag_mismatch"
)

// Error is a classified validation failure. Tag names the offending chunk
// when one is involved. Err is the I/O cause of an unreadable input.
type Error struct {
	Kind ErrorKind
	Tag  string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Tag != "" {
		return fmt.Sprintf("%s: %s chunk: %s", e.Kind, e.Tag, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind, so kind sentinels
// below work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && t.Tag == "" && t.Msg == ""
}

// Kind sentinels for errors.Is.
var (
	ErrUnreadable = &Error{Kind: KindUnreadable}
	ErrSignature  = &Error{Kind: KindSignature}
	ErrTruncated  = &Error{Kind: KindTruncated}
	ErrMalformed  = &Error{Kind: KindMalformed}
	ErrOrder      = &Error{Kind: KindOrder}
	ErrFlags      = &Error{Kind: KindFlags}
)

func newError(kind ErrorKind, tag uint32, format string, args ...any) *Error {
	e := &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
	if tag != 0 {
		e.Tag = FourCCString(tag)
	}
	return e
}

// KindOf returns the kind of err, or "" if err is not a validation error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err is a validation error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
