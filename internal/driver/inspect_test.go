package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/vmihailenco/msgpack/v5"

	"textconf/internal/diag"
	"textconf/internal/fix"
	"textconf/internal/source"
)

const inspectDoc = "{a=1} {db.host=x} {ref} {b=}\n---\nold\n"

func inspect(t *testing.T, content string, opts InspectOptions) *InspectResult {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("doc.tc", []byte(content))
	res, err := Inspect(context.Background(), fs, id, diag.NewBag(32), opts)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestInspect(t *testing.T) {
	res := inspect(t, inspectDoc, InspectOptions{ClassName: "Config"})
	if res.Sections != 2 || len(res.Spans) != 4 || len(res.Params) != 4 {
		t.Fatalf("sections=%d spans=%d params=%d", res.Sections, len(res.Spans), len(res.Params))
	}
	if got := res.Spans[1]; got.Text != "{db.host=x}" || got.Line != 1 || got.Col != 7 {
		t.Errorf("span = %+v", got)
	}
	if got := res.Params[0]; got.Name != "a" || got.Kind != "int" {
		t.Errorf("param = %+v", got)
	}
	if got := res.Params[2]; got.Name != "ref" || got.Kind != "" {
		t.Errorf("reference param = %+v", got)
	}
	if len(res.Fields) != 2 {
		t.Errorf("fields = %v", res.Fields)
	}
	var types []string
	for _, g := range res.Groups {
		types = append(types, g.Type)
	}
	if diff := cmp.Diff([]string{"Db", "Config"}, types); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Code != diag.ParIgnoredDefault.ID() {
		t.Errorf("diagnostics = %+v", res.Diagnostics)
	}
}

func TestInspectStrict(t *testing.T) {
	res := inspect(t, "{a=1} {a=2} {ref}\n", InspectOptions{Strict: true, ClassName: "Config"})
	if len(res.Groups) != 0 {
		t.Errorf("duplicates must block grouping, got %+v", res.Groups)
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Code != diag.ColDuplicateName.ID() {
		t.Errorf("diagnostics = %+v", res.Diagnostics)
	}

	res = inspect(t, "{a} {a=1}\n", InspectOptions{Strict: true, ClassName: "Config"})
	if len(res.Diagnostics) != 0 {
		t.Errorf("a reference does not clash with a default: %+v", res.Diagnostics)
	}
}

func TestEncodeInspect(t *testing.T) {
	res := inspect(t, inspectDoc, InspectOptions{ClassName: "Config"})

	var buf bytes.Buffer
	if err := EncodeInspect(&buf, res, "json"); err != nil {
		t.Fatal(err)
	}
	var generic map[string]any
	if err := json.Unmarshal(buf.Bytes(), &generic); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if generic["sections"] != float64(2) {
		t.Errorf("sections = %v", generic["sections"])
	}

	buf.Reset()
	if err := EncodeInspect(&buf, res, "msgpack"); err != nil {
		t.Fatal(err)
	}
	var decoded InspectResult
	if err := msgpack.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(*res, decoded, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("msgpack round trip (-want +got):\n%s", diff)
	}

	buf.Reset()
	if err := EncodeInspect(&buf, res, "text"); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"doc.tc: 2 section(s), 4 placeholder(s)", "params:", "fields:", "groups:", "PAR1005"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("text output lacks %q:\n%s", want, buf.String())
		}
	}

	if err := EncodeInspect(&buf, res, "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestFixSource(t *testing.T) {
	tests := []struct {
		name    string
		content string
		mode    fix.ApplyMode
		want    string
	}{
		{"all", "{a=} {b:}\n", fix.ApplyModeAll, "{a} {b}\n"},
		{"once", "{a=} {b:}\n", fix.ApplyModeOnce, "{a} {b:}\n"},
		{"template only", "{a=}\n---\n{a=}\n", fix.ApplyModeAll, "{a}\n---\n{a=}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, res, err := FixSource("doc.tc", []byte(tt.content), FixOptions{Apply: fix.ApplyOptions{Mode: tt.mode}})
			if err != nil {
				t.Fatal(err)
			}
			if len(res.FileChanges) != 1 {
				t.Fatalf("changes = %+v", res.FileChanges)
			}
			if got := string(res.FileChanges[0].Content); got != tt.want {
				t.Errorf("content = %q, want %q", got, tt.want)
			}
		})
	}

	if _, _, err := FixSource("doc.tc", []byte("{a=1}\n"), FixOptions{}); !errors.Is(err, fix.ErrNoFixes) {
		t.Errorf("err = %v, want ErrNoFixes", err)
	}
}

func TestFixPaths(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.tc": "{a=} {b=1}\n",
		"b.tc": "{c:=2}\n",
	})
	_, res, err := FixPaths(context.Background(), []string{dir}, FixOptions{Apply: fix.ApplyOptions{Mode: fix.ApplyModeAll}})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Applied) != 2 {
		t.Errorf("applied = %+v", res.Applied)
	}
	if got := readFile(t, filepath.Join(dir, "a.tc")); got != "{a} {b=1}\n" {
		t.Errorf("a.tc = %q", got)
	}
	if got := readFile(t, filepath.Join(dir, "b.tc")); got != "{c=2}\n" {
		t.Errorf("b.tc = %q", got)
	}
}
