package blueprint

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownPath reports a pointer that does not resolve inside the
	// form's state shape.
	ErrUnknownPath = errors.New("blueprint: unknown path")
	// ErrNotArray reports an array operation against a non-array path.
	ErrNotArray = errors.New("blueprint: path is not a tracked array")
	// ErrNoTransport reports a submit attempt on a form constructed without
	// a requester.
	ErrNoTransport = errors.New("blueprint: no transport configured")
	// ErrValidationFailed reports a submit that was stopped by validation.
	ErrValidationFailed = errors.New("blueprint: validation failed")
)

// FieldError is one validation message attached to a field path.
type FieldError struct {
	Path    string
	Message string
}

// FieldErrors is an ordered collection of validation messages implementing
// error.
type FieldErrors []FieldError

// Error summarizes the first few entries.
func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := len(fe)
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s", fe[i].Message, fe[i].Path)
	}
	if len(fe) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(fe))
	}
	return b.String()
}

// AsFieldErrors extracts FieldErrors from an error chain.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
