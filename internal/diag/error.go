package diag

import (
	"errors"
	"fmt"

	"dhlc/internal/source"
)

// Error is the fail-fast result of a compiler pass.
type Error struct {
	Code Code
	// Name is the offending identifier, module or key; may be empty.
	Name    string
	Span    source.Span
	Message string
}

// Errorf builds an *Error with a formatted message.
func Errorf(code Code, span source.Span, name, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Name:    name,
		Span:    span,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *Error) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %s", e.Code.ID(), e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code.ID(), e.Message, e.Name)
}

// Diagnostic converts the error into an error-severity diagnostic.
func (e *Error) Diagnostic() Diagnostic {
	return Diagnostic{
		Severity: SevError,
		Code:     e.Code,
		Message:  e.Message,
		Primary:  e.Span,
	}
}

// AsError unwraps err to the first *Error in its chain.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsCode reports whether err wraps an *Error carrying code.
func IsCode(err error, code Code) bool {
	de, ok := AsError(err)
	return ok && de.Code == code
}
