// Package errors defines the fatal error taxonomy for the rule compiler.
// Every error raised while reading the rule file carries the input line
// number it occurred at; errors with no input line carry 0.
package errors

import "fmt"

// Kind identifies one of the fatal error categories a compile can raise.
type Kind string

const (
	// KindInputOpen: the rule file could not be opened.
	KindInputOpen Kind = "input_open"
	// KindXMLParse: malformed XML or unexpected end of input.
	KindXMLParse Kind = "xml_parse"
	// KindUnexpectedElement: an element appears where the grammar forbids it.
	KindUnexpectedElement Kind = "unexpected_element"
	// KindForbiddenAction: select/remove inside repeat or def-seq.
	KindForbiddenAction Kind = "forbidden_action"
	// KindBadRepeatBounds: from<0, upto<0, or from>upto.
	KindBadRepeatBounds Kind = "bad_repeat_bounds"
	// KindUnknownSequence: seq name="X" with X not previously defined.
	KindUnknownSequence Kind = "unknown_sequence"
	// KindMalformedBody: non-blank text between elements.
	KindMalformedBody Kind = "malformed_body"
)

// CompileError is the single error type returned by every fatal condition
// in the compiler. Line is the line the XML reader was on, or 0 when no
// input line applies (the file could not be opened, the compile was
// cancelled, the configuration is invalid).
type CompileError struct {
	Kind       Kind
	Line       int
	Message    string
	Underlying error
}

// New creates a CompileError with no underlying cause.
func New(kind Kind, line int, format string, args ...any) *CompileError {
	return &CompileError{Kind: kind, Line: line, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a CompileError wrapping an underlying error.
func Wrap(kind Kind, line int, err error, format string, args ...any) *CompileError {
	return &CompileError{Kind: kind, Line: line, Message: fmt.Sprintf(format, args...), Underlying: err}
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Line > 0 {
		if e.Underlying != nil {
			return fmt.Sprintf("error (%d): %s: %v", e.Line, e.Message, e.Underlying)
		}
		return fmt.Sprintf("error (%d): %s", e.Line, e.Message)
	}
	if e.Underlying != nil {
		return fmt.Sprintf("error: %s: %v", e.Message, e.Underlying)
	}
	return fmt.Sprintf("error: %s", e.Message)
}

// Unwrap allows errors.Is/errors.As to see through to the underlying cause.
func (e *CompileError) Unwrap() error {
	return e.Underlying
}

// Is reports whether target is a *CompileError with the same Kind, so
// callers can write errors.Is(err, &CompileError{Kind: KindXMLParse}).
func (e *CompileError) Is(target error) bool {
	t, ok := target.(*CompileError)
	if !ok {
		return false
	}
	if t.Kind == "" {
		return false
	}
	return e.Kind == t.Kind
}
