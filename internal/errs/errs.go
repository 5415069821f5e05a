// Package errs classifies pipeline errors into a small set of failure
// kinds, wrapping causes with github.com/pkg/errors so callers keep a
// stack trace across transform boundaries without losing errors.Is/As
// compatibility.
package errs

import "github.com/pkg/errors"

// Kind classifies why an operation failed.
type Kind int

const (
	InvalidArgument Kind = iota
	Unsupported
	Codec
	Corrupt
	ResourceExhausted
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid argument"
	case Unsupported:
		return "unsupported operation"
	case Codec:
		return "codec failure"
	case Corrupt:
		return "corrupt stream"
	case ResourceExhausted:
		return "resource exhausted"
	default:
		return "unknown"
	}
}

// Error pairs a Kind with a wrapped cause.
type Error struct {
	Kind  Kind
	cause error
}

func (e *Error) Error() string { return e.Kind.String() + ": " + e.cause.Error() }

func (e *Error) Unwrap() error { return e.cause }

// New builds a Kind-classified error from a message.
func New(k Kind, msg string) error {
	return &Error{Kind: k, cause: errors.New(msg)}
}

// Wrap classifies err as Kind k, preserving it as the unwrap target and
// attaching a pkg/errors stack trace if err doesn't already carry one.
func Wrap(k Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: k, cause: errors.Wrap(err, msg)}
}

// Wrapf is Wrap with formatting.
func Wrapf(k Kind, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: k, cause: errors.Wrapf(err, format, args...)}
}

// Is reports whether err (or any error in its chain) was classified as k.
func Is(err error, k Kind) bool {
	var e *Error
	for err != nil {
		if ae, ok := err.(*Error); ok {
			e = ae
			break
		}
		err = errors.Unwrap(err)
	}
	return e != nil && e.Kind == k
}
