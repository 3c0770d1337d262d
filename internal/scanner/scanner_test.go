package scanner

import (
	"slices"
	"testing"

	"textconf/internal/source"
)

func texts(text string) []string {
	var out []string
	for _, sp := range SpansOf(text) {
		out = append(out, text[sp.Start:sp.End])
	}
	return out
}

func TestScanner(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"plain text", "hello world", nil},
		{"single", "{a}", []string{"{a}"}},
		{"surrounded", "x{a}y{b=2}z", []string{"{a}", "{b=2}"}},
		{"escaped", "Hello, {name}! Your score is {{score}}.", []string{"{name}"}},
		{"restart on inner open", "{a{x}b{y}c}", []string{"{x}", "{y}"}},
		{"mixed escapes", "a{{{x}}}b{{{y}}}c{{z}}d{{{{z}}}}", []string{"{x}", "{y}"}},
		{"half escape", "{{a}", nil},
		{"unmatched open", "tail {a", nil},
		{"stray close", "} {a} }", []string{"{a}"}},
		{"space abandons", "{a b} {c}", []string{"{c}"}},
		{"tab abandons", "{a\tb}", nil},
		{"newline abandons", "{a\n}{b}", []string{"{b}"}},
		{"empty braces", "{}", []string{"{}"}},
		{"format and default", "{c.d:.2f=3.0}", []string{"{c.d:.2f=3.0}"}},
		{"list default", "{xs=[1,2]}", []string{"{xs=[1,2]}"}},
		{"adjacent", "{a}{b}{c}", []string{"{a}", "{b}", "{c}"}},
		{"utf8 around", "ключ {имя=знач} конец", []string{"{имя=знач}"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := texts(tt.in)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("scan(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestScannerSpans(t *testing.T) {
	got := SpansOf("ab{x}c{{d}}{e=1}")
	want := []source.Span{{Start: 2, End: 5}, {Start: 11, End: 16}}
	if !slices.Equal(got, want) {
		t.Fatalf("spans = %v, want %v", got, want)
	}
}

func TestScannerIdempotent(t *testing.T) {
	in := "{a}{b=2} {{c}} {d:.2f=1.5}"
	first := SpansOf(in)
	second := SpansOf(in)
	if !slices.Equal(first, second) {
		t.Fatalf("scan is not repeatable: %v vs %v", first, second)
	}
}

func TestScannerFileID(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("skip", nil)
	id := fs.AddVirtual("mem", []byte("{a}"))
	spans := Spans(fs.Get(id))
	if len(spans) != 1 || spans[0].File != id {
		t.Fatalf("spans = %v, want one span in file %d", spans, id)
	}
}

func TestAllStopsEarly(t *testing.T) {
	n := 0
	for range FromString("{a}{b}{c}").All() {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Fatalf("iterated %d spans, want 2", n)
	}
}

func TestNextAfterEnd(t *testing.T) {
	s := FromString("{a}")
	if _, ok := s.Next(); !ok {
		t.Fatal("expected first span")
	}
	for range 2 {
		if sp, ok := s.Next(); ok {
			t.Fatalf("unexpected span %v after end", sp)
		}
	}
}
