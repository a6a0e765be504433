// Package renderr defines the error taxonomy shared by the render pipeline.
// Every failure a caller can observe is one of a small set of kinds so the
// tool boundary can decide how to present it.
package renderr

import (
	"errors"
	"fmt"
)

// Kind classifies a render failure
type Kind int

const (
	// KindInput covers malformed JSON, a non-array top level, unknown element
	// types and scenes without drawable elements. Never retried.
	KindInput Kind = iota + 1
	// KindInitialization means the rendering surface did not become ready.
	KindInitialization
	// KindTimeout means the rendered content did not become visible in time.
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input error"
	case KindInitialization:
		return "initialization error"
	case KindTimeout:
		return "render timeout"
	default:
		return "unknown error"
	}
}

// Error is a classified render failure
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Input returns an InputError with a formatted message
func Input(format string, args ...any) error {
	return &Error{Kind: KindInput, Msg: fmt.Sprintf(format, args...)}
}

// WrapInput classifies err as an InputError
func WrapInput(err error, msg string) error {
	return &Error{Kind: KindInput, Msg: msg, Err: err}
}

// Initialization classifies err as an InitializationError
func Initialization(err error, msg string) error {
	return &Error{Kind: KindInitialization, Msg: msg, Err: err}
}

// Timeout classifies err as a RenderTimeoutError
func Timeout(err error, msg string) error {
	return &Error{Kind: KindTimeout, Msg: msg, Err: err}
}

// Is reports whether any error in err's chain is a render error of kind k
func Is(err error, k Kind) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind == k
	}
	return false
}

// KindOf returns the kind of the first render error in err's chain, or 0
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return 0
}
