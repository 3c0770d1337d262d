package diag

import (
	"testing"

	"textconf/internal/source"
)

func TestCodeID(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{ParEmptyName, "PAR1001"},
		{ColDuplicateName, "COL2001"},
		{GenUnknownTarget, "GEN3001"},
		{IOLoadFileError, "IO4001"},
		{CfgUnknownKey, "CFG5002"},
		{DocStale, "DOC7002"},
		{UnknownCode, "E0000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Errorf("Code(%d).ID() = %q, want %q", tt.code, got, tt.want)
		}
	}
	if got := Code(999).Title(); got != "Unknown error" {
		t.Errorf("unknown code title = %q", got)
	}
}

func TestBagLimitSortDedup(t *testing.T) {
	b := NewBag(3)
	sp := func(start uint32) source.Span { return source.Span{Start: start, End: start + 1} }

	b.Add(NewError(ParMalformed, sp(5), "late"))
	b.Add(New(SevWarning, ParIgnoredDefault, sp(1), "warn"))
	b.Add(NewError(ParEmptyName, sp(1), "err"))
	if b.Add(NewError(ParEmptyName, sp(9), "over")) {
		t.Fatal("expected limit to reject the fourth diagnostic")
	}
	if b.Dropped() != 1 {
		t.Fatalf("Dropped = %d, want 1", b.Dropped())
	}

	b.Sort()
	got := []Code{b.Items()[0].Code, b.Items()[1].Code, b.Items()[2].Code}
	want := []Code{ParEmptyName, ParIgnoredDefault, ParMalformed}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if !b.HasErrors() {
		t.Fatal("HasErrors = false")
	}

	u := NewBag(0)
	u.Add(NewError(ParEmptyName, sp(1), "x"))
	u.Add(NewError(ParEmptyName, sp(1), "x"))
	u.Add(NewError(ParEmptyName, sp(1), "y"))
	u.Dedup()
	if u.Len() != 2 {
		t.Fatalf("Dedup left %d items, want 2", u.Len())
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	var got []Diagnostic
	r := ReporterFunc(func(d Diagnostic) { got = append(got, d) })

	b := ReportError(r, ColDuplicateName, source.Span{Start: 5, End: 10}, "duplicate name 'a'").
		WithNote(source.Span{Start: 0, End: 5}, "first defined here").
		WithFix(Fix{Title: "drop", Edits: []TextEdit{{Span: source.Span{Start: 5, End: 10}}}})
	b.Emit()
	b.Emit()

	if len(got) != 1 {
		t.Fatalf("emitted %d diagnostics, want 1", len(got))
	}
	if len(got[0].Notes) != 1 || len(got[0].Fixes) != 1 {
		t.Fatalf("notes/fixes lost: %+v", got[0])
	}

	var nilBuilder *ReportBuilder
	nilBuilder.WithNote(source.Span{}, "x").Emit()
	ReportWarning(nil, ParIgnoredFormat, source.Span{}, "no reporter").Emit()
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	d := NewError(ParMalformed, source.Span{Start: 1, End: 4}, "bad")
	r.Report(d)
	r.Report(d)
	r.Report(d.WithNote(source.Span{}, "same key"))
	if bag.Len() != 1 {
		t.Fatalf("bag has %d items, want 1", bag.Len())
	}
}

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")
	file := fs.Add("/workspace/conf/app.tc", []byte("{a=1}\n{a=2}\n"), 0)

	diags := []Diagnostic{
		NewError(ColDuplicateName, source.Span{File: file, Start: 6, End: 11}, "duplicate name 'a'\nsecond line").
			WithNote(source.Span{File: file, Start: 0, End: 5}, "first defined here"),
		New(SevWarning, ParIgnoredDefault, source.Span{File: file, Start: 0, End: 5}, "empty default"),
	}

	want := "note COL2001 conf/app.tc:1:1 first defined here\n" +
		"warning PAR1005 conf/app.tc:1:1 empty default\n" +
		"error COL2001 conf/app.tc:2:1 duplicate name 'a' second line"
	if got := FormatShortDiagnostics(diags, fs, true); got != want {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
	if got := FormatShortDiagnostics(nil, fs, true); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}
