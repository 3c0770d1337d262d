package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"textconf/internal/diag"
	"textconf/internal/observ"
	"textconf/internal/params"
	"textconf/internal/project"
	"textconf/internal/source"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	helloTemplate = "Hello {name=World}, {n=3}!\n"
	helloOutput   = helloTemplate + "---\nHello {name}, {n}!\n---\n" +
		"from dataclasses import dataclass\n\n\n@dataclass\nclass Config:\n" +
		"    name: str = \"World\"\n    n: int = 3\n"
)

func analyze(t *testing.T, content string, s project.Settings) (*Analysis, *diag.Bag, error) {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("doc.tc", []byte(content)))
	bag := diag.NewBag(32)
	a, err := Analyze(context.Background(), f, AnalyzeOptions{
		Settings: s,
		Reporter: &diag.BagReporter{Bag: bag},
	})
	return a, bag, err
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestAnalyze(t *testing.T) {
	a, bag, err := analyze(t, helloTemplate, project.DefaultSettings())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if bag.Len() != 0 {
		t.Errorf("unexpected diagnostics: %v", codes(bag))
	}
	if a.Source != "Hello {name}, {n}!\n" {
		t.Errorf("Source = %q", a.Source)
	}
	if len(a.Fields) != 2 {
		t.Errorf("got %d fields", len(a.Fields))
	}
	if got := string(a.Output); got != helloOutput {
		t.Errorf("Output =\n%s\nwant\n%s", got, helloOutput)
	}
	if !a.Changed {
		t.Error("fresh document must be reported as changed")
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"lf", helloTemplate},
		{"crlf", "x {a=1}\r\ny {b.c=true}\r\n"},
		{"stale sections", helloTemplate + "---\nold\n---\nold code\n"},
		{"no trailing newline", "v={v=1.5}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, _, err := analyze(t, tt.content, project.DefaultSettings())
			if err != nil {
				t.Fatal(err)
			}
			second, _, err := analyze(t, string(first.Output), project.DefaultSettings())
			if err != nil {
				t.Fatal(err)
			}
			if second.Changed {
				t.Errorf("second run changed the document:\n%q\n%q", first.Output, second.Output)
			}
		})
	}
}

func TestAnalyzeCRLF(t *testing.T) {
	a, _, err := analyze(t, "x {a=1}\r\n", project.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	want := "x {a=1}\r\n---\r\nx {a}\r\n---\r\nfrom dataclasses import dataclass\r\n\r\n\r\n@dataclass\r\nclass Config:\r\n    a: int = 1\r\n"
	if got := string(a.Output); got != want {
		t.Errorf("Output = %q\nwant %q", got, want)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		target  error
		code    diag.Code
	}{
		{"duplicate", "{a=1} {a=2}\n", params.ErrDuplicateName, diag.ColDuplicateName},
		{"too many sections", "a\n---\nb\n---\nc\n---\nd\n", ErrTooManySections, diag.DocTooManyParts},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, bag, err := analyze(t, tt.content, project.DefaultSettings())
			if !errors.Is(err, tt.target) {
				t.Fatalf("err = %v, want %v", err, tt.target)
			}
			if a != nil {
				t.Error("failed analysis must not return output")
			}
			if !bag.HasErrors() || bag.Items()[0].Code != tt.code {
				t.Errorf("codes = %v, want %v", codes(bag), tt.code)
			}
		})
	}
}

func TestAnalyzeWarnings(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    diag.Code
	}{
		{"no fields", "plain text {ref}\n", diag.ColNoFields},
		{"empty default", "{a=} {b=1}\n", diag.ParIgnoredDefault},
		{"bad placeholder", "{=1} {b=1}\n", diag.ParEmptyName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, bag, err := analyze(t, tt.content, project.DefaultSettings())
			if err != nil {
				t.Fatalf("warnings must not fail the document: %v", err)
			}
			if a == nil || len(a.Output) == 0 {
				t.Fatal("expected output")
			}
			if bag.HasErrors() || bag.Len() == 0 || bag.Items()[0].Code != tt.want {
				t.Errorf("codes = %v, want %v", codes(bag), tt.want)
			}
		})
	}
}

func TestAnalyzeLongLines(t *testing.T) {
	s := project.DefaultSettings()
	s.MaxWidth = 10
	_, bag, err := analyze(t, "{a=1}\n", s)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.GenLongLine && d.Severity == diag.SevInfo {
			found = true
		}
	}
	if !found {
		t.Errorf("expected GEN3003 info, got %v", codes(bag))
	}
}

func TestAnalyzeSettings(t *testing.T) {
	s := project.DefaultSettings()
	s.Prefix = "cfg."
	s.ClassName = "Settings"
	s.Separator = "%%"
	a, _, err := analyze(t, "{a=1}\n%%\nstale\n", s)
	if err != nil {
		t.Fatal(err)
	}
	want := "{a=1}\n%%\n{cfg.a}\n%%\nfrom dataclasses import dataclass\n\n\n@dataclass\nclass Settings:\n    a: int = 1\n"
	if got := string(a.Output); got != want {
		t.Errorf("Output = %q\nwant %q", got, want)
	}
}

func TestAnalyzeTimer(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("doc.tc", []byte(helloTemplate)))
	timer := observ.NewTimer()
	if _, err := Analyze(context.Background(), f, AnalyzeOptions{Settings: project.DefaultSettings(), Timer: timer}); err != nil {
		t.Fatal(err)
	}
	names := map[string]bool{}
	for _, p := range timer.Report().Phases {
		names[p.Name] = true
	}
	for _, want := range []string{"split", "collect", "group", "generate"} {
		if !names[want] {
			t.Errorf("missing phase %q in %v", want, names)
		}
	}
}

func TestAnalyzeUnknownTarget(t *testing.T) {
	s := project.DefaultSettings()
	s.Target = "cobol"
	_, bag, err := analyze(t, helloTemplate, s)
	if err == nil {
		t.Fatal("expected error")
	}
	if got := codes(bag); len(got) != 1 || got[0] != diag.GenUnknownTarget {
		t.Errorf("codes = %v", got)
	}
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// Документы в testdata хранятся уже сгенерированными: повторный прогон ничего не меняет.
func TestTestdataUpToDate(t *testing.T) {
	files, err := CollectFiles(context.Background(), []string{filepath.Join("..", "..", "testdata")})
	if err != nil {
		t.Fatal(err)
	}
	for _, path := range files {
		t.Run(filepath.Base(path), func(t *testing.T) {
			fs := source.NewFileSet()
			id, err := fs.Load(path)
			if err != nil {
				t.Fatal(err)
			}
			bag := diag.NewBag(32)
			a, err := Analyze(context.Background(), fs.Get(id), AnalyzeOptions{
				Settings: project.DefaultSettings(),
				Reporter: &diag.BagReporter{Bag: bag},
			})
			if err != nil {
				t.Fatalf("Analyze: %v (%v)", err, codes(bag))
			}
			if a.Changed {
				t.Errorf("%s is stale, regenerated:\n%s", path, a.Output)
			}
		})
	}
}

func TestAnalyzeInvalidPython(t *testing.T) {
	content := "{class=1} {z=007} {ok=2}\n"
	a, bag, err := analyze(t, content, project.DefaultSettings())
	if err != nil {
		t.Fatalf("invalid python must warn, not fail: %v", err)
	}
	if a == nil || bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", codes(bag))
	}
	var got []string
	for _, d := range bag.Items() {
		if d.Code == diag.GenInvalidCode && d.Severity == diag.SevWarning {
			got = append(got, d.Primary.Text([]byte(content)))
		}
	}
	if diff := cmp.Diff([]string{"{class=1}", "{z=007}"}, got); diff != "" {
		t.Errorf("GEN3004 spans mismatch (-want +got):\n%s", diff)
	}

	s := project.DefaultSettings()
	s.Target = "yaml"
	_, bag, err = analyze(t, content, s)
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range bag.Items() {
		if d.Code == diag.GenInvalidCode {
			t.Errorf("yaml target has no python checks, got %v", codes(bag))
		}
	}
}
