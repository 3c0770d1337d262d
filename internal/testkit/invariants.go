// Package testkit holds structural checks shared by tests and fuzz harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"textconf/internal/params"
	"textconf/internal/source"
)

// CheckSpanInvariants verifies scanner output for sf:
// 1) every span is at least "{}" long, within content and points to sf
// 2) spans start with '{', end with '}' and hold no whitespace
// 3) spans are sorted and do not overlap
func CheckSpanInvariants(sf *source.File, spans []source.Span) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var prev source.Span
	for i, sp := range spans {
		if sp.File != sf.ID {
			return fmt.Errorf("span %v points to file %d, want %d", sp, sp.File, sf.ID)
		}
		if sp.Len() < 2 {
			return fmt.Errorf("span %v is shorter than a brace pair", sp)
		}
		if sp.End > lenContent {
			return fmt.Errorf("span %v ends beyond content: %d > %d", sp, sp.End, lenContent)
		}
		text := sp.Text(sf.Content)
		if text[0] != '{' || text[len(text)-1] != '}' {
			return fmt.Errorf("span %v is not braced: %q", sp, text)
		}
		for j := 1; j < len(text)-1; j++ {
			switch text[j] {
			case ' ', '\t', '\n', '\r', '\v', '\f', '{', '}':
				return fmt.Errorf("span %v holds %q at %d", sp, text[j], j)
			}
		}
		if i > 0 && sp.Start < prev.End {
			return fmt.Errorf("span %v overlaps or precedes %v", sp, prev)
		}
		prev = sp
	}
	return nil
}

// CheckParamInvariants verifies that every parameter's parts lie inside its
// span in order (name, format, default) and match the parsed strings.
func CheckParamInvariants(sf *source.File, list []params.Parameter) error {
	for _, p := range list {
		if p.Name == "" {
			return fmt.Errorf("parameter at %v has an empty name", p.Span)
		}
		parts := []struct {
			what string
			sp   source.Span
		}{{"name", p.NameSpan}, {"format", p.FormatSpan}, {"default", p.DefaultSpan}}
		at := p.Span.Start + 1
		for _, part := range parts {
			if part.sp.Start < at || part.sp.End >= p.Span.End {
				return fmt.Errorf("%s span %v of %q is out of order within %v", part.what, part.sp, p.Name, p.Span)
			}
			at = part.sp.End
		}
		if got := p.NameSpan.Text(sf.Content); got != p.Name {
			return fmt.Errorf("name span holds %q, want %q", got, p.Name)
		}
		if p.HasFormat() && p.FormatSpan.Text(sf.Content) != ":"+p.Format {
			return fmt.Errorf("format span of %q holds %q", p.Name, p.FormatSpan.Text(sf.Content))
		}
		if p.HasDefault() && p.DefaultSpan.Text(sf.Content) != "="+p.Default {
			return fmt.Errorf("default span of %q holds %q", p.Name, p.DefaultSpan.Text(sf.Content))
		}
	}
	return nil
}
