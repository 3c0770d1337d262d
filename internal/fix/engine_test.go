package fix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"textconf/internal/diag"
	"textconf/internal/source"
)

func loadTemp(t *testing.T, content string) (*source.FileSet, source.FileID, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.tc")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSet()
	fs.SetBaseDir(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	return fs, id, path
}

func TestApplyAllWritesFile(t *testing.T) {
	fs, id, path := loadTemp(t, "{a=} {b:}")
	diags := []diag.Diagnostic{
		diag.New(diag.SevWarning, diag.ParIgnoredDefault, source.Span{File: id, Start: 0, End: 4}, "empty default").
			WithFix(DeleteSpan("remove '='", source.Span{File: id, Start: 2, End: 3}, "=")),
		diag.New(diag.SevWarning, diag.ParIgnoredFormat, source.Span{File: id, Start: 5, End: 9}, "empty format").
			WithFix(DeleteSpan("remove ':'", source.Span{File: id, Start: 7, End: 8}, ":")),
		diag.New(diag.SevWarning, diag.ParInfo, source.Span{File: id, Start: 5, End: 9}, "manual").
			WithFix(ReplaceSpan("rename", source.Span{File: id, Start: 6, End: 7}, "c", "b",
				WithApplicability(diag.FixApplicabilityManualReview))),
	}

	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 2 || len(res.Skipped) != 1 {
		t.Fatalf("applied %d, skipped %d; want 2 and 1", len(res.Applied), len(res.Skipped))
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "{a} {b}" {
		t.Fatalf("file content = %q", got)
	}
	if len(res.FileChanges) != 1 || res.FileChanges[0].Path != "conf.tc" || res.FileChanges[0].EditCount != 2 {
		t.Fatalf("unexpected file changes %+v", res.FileChanges)
	}
}

func TestApplyOnceAndByID(t *testing.T) {
	fs, id, _ := loadTemp(t, "{a=}")
	d := diag.New(diag.SevWarning, diag.ParIgnoredDefault, source.Span{File: id, Start: 0, End: 4}, "x").
		WithFix(DeleteSpan("remove '='", source.Span{File: id, Start: 2, End: 3}, "=", WithID("drop-eq")))

	res, err := Apply(fs, []diag.Diagnostic{d}, ApplyOptions{Mode: ApplyModeID, TargetID: "missing"})
	if !errors.Is(err, ErrNoFixes) || len(res.Skipped) != 1 {
		t.Fatalf("expected missing id to be skipped, got %v %+v", err, res)
	}

	res, err = Apply(fs, []diag.Diagnostic{d}, ApplyOptions{Mode: ApplyModeID, TargetID: "drop-eq", DryRun: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if string(res.FileChanges[0].Content) != "{a}" {
		t.Fatalf("dry run content = %q", res.FileChanges[0].Content)
	}
}

func TestApplySkipsConflicts(t *testing.T) {
	fs, id, _ := loadTemp(t, "abcdef")
	sp := source.Span{File: id, Start: 0, End: 6}
	diags := []diag.Diagnostic{
		diag.NewError(diag.ParMalformed, sp, "one").WithFix(ReplaceSpan("first", source.Span{File: id, Start: 0, End: 3}, "X", "")),
		diag.NewError(diag.ParMalformed, sp, "two").WithFix(ReplaceSpan("second", source.Span{File: id, Start: 2, End: 4}, "Y", "")),
	}
	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 || len(res.Skipped) != 1 {
		t.Fatalf("applied %d skipped %d", len(res.Applied), len(res.Skipped))
	}
	if string(res.FileChanges[0].Content) != "Xdef" {
		t.Fatalf("content = %q", res.FileChanges[0].Content)
	}
}

func TestApplyVirtualSkipped(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("<stdin>", []byte("{a=}"))
	d := diag.New(diag.SevWarning, diag.ParIgnoredDefault, source.Span{File: id, Start: 0, End: 4}, "x").
		WithFix(DeleteSpan("remove '='", source.Span{File: id, Start: 2, End: 3}, "="))
	res, err := Apply(fs, []diag.Diagnostic{d}, ApplyOptions{Mode: ApplyModeOnce})
	if !errors.Is(err, ErrNoFixes) || len(res.Skipped) != 1 {
		t.Fatalf("virtual files must not be written: %v %+v", err, res)
	}
}
