package jvmfmt

import (
	"errors"
	"fmt"
)

// Kind classifies failures reported to the user. Every error that reaches a
// report line carries one of these.
type Kind int

const (
	KindOther Kind = iota
	KindParseError
	KindNotFound
	KindInvalidFormat
	KindInvalidPath
	KindInvalidDescriptor
	KindRuleCheckFailed
)

func (k Kind) String() string {
	switch k {
	case KindParseError:
		return "Parser Error"
	case KindNotFound:
		return "Not Found"
	case KindInvalidFormat:
		return "Invalid Format"
	case KindInvalidPath:
		return "Invalid Path"
	case KindInvalidDescriptor:
		return "Invalid Descriptor Syntax"
	case KindRuleCheckFailed:
		return "Rule Check Failed"
	default:
		return "Other"
	}
}

// Error is a classified failure. Err, when set, is the sentinel or
// underlying cause and is reachable through errors.Is.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// Errorf builds an Error whose message is formatted from format and args.
func Errorf(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: cause}
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return e.Msg + ": " + e.Err.Error()
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of the first *Error in err's chain, or KindOther.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindOther
}

// Message returns the user-facing message of err: the Msg of the first
// *Error in its chain when set, else err.Error().
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return err.Error()
}
