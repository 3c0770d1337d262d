package diag

import (
	"textconf/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// TextEdit replaces the bytes of Span with NewText.
// A non-empty OldText guards the edit: it is applied only if Span still holds OldText.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

// FixApplicability tells the fix engine how much a fix can be trusted.
type FixApplicability uint8

const (
	FixApplicabilityAlwaysSafe FixApplicability = iota
	FixApplicabilitySafeWithHeuristics
	FixApplicabilityManualReview
)

func (a FixApplicability) String() string {
	switch a {
	case FixApplicabilityAlwaysSafe:
		return "always-safe"
	case FixApplicabilitySafeWithHeuristics:
		return "safe-with-heuristics"
	case FixApplicabilityManualReview:
		return "manual-review"
	}
	return "unknown"
}

type Fix struct {
	ID            string
	Title         string
	Applicability FixApplicability
	Edits         []TextEdit
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithFix(f Fix) Diagnostic {
	d.Fixes = append(d.Fixes, f)
	return d
}
