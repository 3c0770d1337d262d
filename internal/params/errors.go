package params

import (
	"errors"
	"fmt"

	"textconf/internal/diag"
	"textconf/internal/source"
)

var (
	// ErrEmptyName is returned when the text before ':' / '=' is empty.
	ErrEmptyName = errors.New("empty name")
	// ErrEmptyDefault is returned in strict mode for "{a=}".
	ErrEmptyDefault = errors.New("empty default")
	// ErrMissingDefault is returned in strict mode when there is no '='.
	ErrMissingDefault = errors.New("missing default")
	// ErrMalformed covers missing braces and repeated '=' in strict mode.
	ErrMalformed = errors.New("malformed brace syntax")
	// ErrDuplicateName fails a whole collection.
	ErrDuplicateName = errors.New("duplicate name")
)

// ParseError describes why a single placeholder was rejected.
type ParseError struct {
	Err  error
	Text string      // placeholder text as written
	Span source.Span // placeholder span, braces included when known
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("placeholder %q: %v", e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DuplicateError reports the second definition of a name.
type DuplicateError struct {
	Name   string
	First  source.Span
	Second source.Span
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate parameter name %q", e.Name)
}

func (e *DuplicateError) Unwrap() error { return ErrDuplicateName }

// Code maps parser errors to diagnostic codes.
func Code(err error) diag.Code {
	switch {
	case errors.Is(err, ErrEmptyName):
		return diag.ParEmptyName
	case errors.Is(err, ErrEmptyDefault):
		return diag.ParEmptyDefault
	case errors.Is(err, ErrMissingDefault):
		return diag.ParMissingDefault
	case errors.Is(err, ErrMalformed):
		return diag.ParMalformed
	case errors.Is(err, ErrDuplicateName):
		return diag.ColDuplicateName
	}
	return diag.UnknownCode
}
