package fix

import (
	"errors"
	"testing"

	"textconf/internal/diag"
	"textconf/internal/source"
)

func edit(start, end uint32, text string) diag.TextEdit {
	return diag.TextEdit{Span: source.Span{Start: start, End: end}, NewText: text}
}

func TestApplyEdits(t *testing.T) {
	content := []byte("{a}{b=2}{c:.2f=3.0}")
	tests := []struct {
		name  string
		edits []diag.TextEdit
		want  string
	}{
		{"none", nil, "{a}{b=2}{c:.2f=3.0}"},
		{"replace", []diag.TextEdit{edit(3, 8, "{p.b}")}, "{a}{p.b}{c:.2f=3.0}"},
		{"unsorted", []diag.TextEdit{edit(8, 19, "{c}"), edit(0, 3, "")}, "{b=2}{c}"},
		{"insert", []diag.TextEdit{edit(4, 4, "p.")}, "{a}{p.b=2}{c:.2f=3.0}"},
		{"insert then replace", []diag.TextEdit{edit(3, 8, "X"), edit(3, 3, "<")}, "{a}<X{c:.2f=3.0}"},
		{"adjacent", []diag.TextEdit{edit(0, 3, "A"), edit(3, 8, "B")}, "AB{c:.2f=3.0}"},
		{"tail insert", []diag.TextEdit{edit(19, 19, "!")}, "{a}{b=2}{c:.2f=3.0}!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyEdits(content, tt.edits)
			if err != nil {
				t.Fatalf("ApplyEdits: %v", err)
			}
			if string(got) != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
	if string(content) != "{a}{b=2}{c:.2f=3.0}" {
		t.Fatal("input was modified")
	}
}

func TestApplyEditsErrors(t *testing.T) {
	content := []byte("abcdef")
	tests := []struct {
		name  string
		edits []diag.TextEdit
		want  error
	}{
		{"overlap", []diag.TextEdit{edit(0, 3, "x"), edit(2, 4, "y")}, ErrConflict},
		{"insert inside", []diag.TextEdit{edit(1, 4, "x"), edit(2, 2, "y")}, ErrConflict},
		{"out of range", []diag.TextEdit{edit(4, 9, "")}, ErrOutOfRange},
		{"inverted", []diag.TextEdit{edit(4, 2, "")}, ErrOutOfRange},
		{"guard", []diag.TextEdit{{Span: source.Span{Start: 0, End: 1}, OldText: "z"}}, ErrGuard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ApplyEdits(content, tt.edits); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSpansConflict(t *testing.T) {
	tests := []struct {
		a, b diag.TextEdit
		want bool
	}{
		{edit(1, 1, ""), edit(1, 1, ""), false},
		{edit(1, 1, ""), edit(1, 3, ""), false},
		{edit(2, 2, ""), edit(1, 3, ""), true},
		{edit(3, 3, ""), edit(1, 3, ""), false},
		{edit(0, 2, ""), edit(2, 4, ""), false},
		{edit(0, 3, ""), edit(2, 4, ""), true},
	}
	for _, tt := range tests {
		if got := spansConflict(tt.a, tt.b); got != tt.want {
			t.Errorf("spansConflict(%v, %v) = %v, want %v", tt.a.Span, tt.b.Span, got, tt.want)
		}
	}
}
