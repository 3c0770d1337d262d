package driver

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"textconf/internal/codegen"
	"textconf/internal/diag"
	"textconf/internal/observ"
	"textconf/internal/project"
	"textconf/internal/record"
	"textconf/internal/source"
	"textconf/internal/trace"
)

// AnalyzeOptions configures Analyze.
type AnalyzeOptions struct {
	Settings  project.Settings
	Generator codegen.Generator // nil: разрешается по Settings.Target
	Reporter  diag.Reporter
	Timer     *observ.Timer
}

// Analysis is the result of regenerating one document.
type Analysis struct {
	Document *Document
	Fields   []record.Field
	Model    *record.Model
	Source   string // шаблон после rewrite
	Code     []byte
	Output   []byte // документ целиком
	Changed  bool
}

// Analyze runs the whole per-document chain: split, collect, rewrite, group,
// generate, join. Diagnostics go to opts.Reporter; the returned error is the
// first failure that stopped the chain. A failed document yields no output.
func Analyze(ctx context.Context, f *source.File, opts AnalyzeOptions) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r := opts.Reporter
	s := opts.Settings

	gen := opts.Generator
	if gen == nil {
		var err error
		gen, err = codegen.Lookup(s.Target, codegen.Options{MaxWidth: s.MaxWidth, Indent: s.Indent})
		if err != nil {
			diag.ReportError(r, diag.GenUnknownTarget, source.Span{File: f.ID}, err.Error()).Emit()
			return nil, err
		}
	}

	done := opts.Timer.Track("split")
	doc, err := SplitDocument(f, s.Separator)
	done("")
	if err != nil {
		diag.ReportError(r, diag.DocTooManyParts, doc.Separators[MaxSections-1], err.Error()).
			WithNote(doc.Separators[0], "first separator").
			Emit()
		return nil, err
	}
	tmpl := doc.TemplateFile(f)

	_, sp := trace.Start(ctx, trace.ScopePass, "collect")
	done = opts.Timer.Track("collect")
	fl, err := record.FromFile(tmpl, record.Options{Prefix: s.Prefix, Reporter: r})
	done("")
	sp.End("")
	if err != nil {
		return nil, err
	}
	if len(fl.Fields) == 0 {
		diag.ReportWarning(r, diag.ColNoFields, source.Span{File: f.ID},
			"no placeholder with a default; the generated record is empty").Emit()
	}

	done = opts.Timer.Track("group")
	model, err := record.Build(fl.Fields, s.ClassName, r)
	done("")
	if err != nil {
		return nil, err
	}

	_, sp = trace.Start(ctx, trace.ScopePass, "generate")
	done = opts.Timer.Track("generate")
	code, err := gen.Generate(model)
	done(gen.Name())
	sp.WithExtra("target", gen.Name()).End("")
	if err != nil {
		diag.ReportError(r, diag.GenFailed, source.Span{File: f.ID}, fmt.Sprintf("%s generation failed: %v", gen.Name(), err)).Emit()
		return nil, fmt.Errorf("generate %s: %w", gen.Name(), err)
	}
	reportLongLines(r, f.ID, code, s.MaxWidth)
	if checker, ok := gen.(codegen.Checker); ok {
		for _, issue := range checker.Check(model) {
			diag.ReportWarning(r, diag.GenInvalidCode, issue.Span, issue.Message).Emit()
		}
	}

	out := doc.Join(s.Separator, fl.Source, string(code))
	return &Analysis{
		Document: doc,
		Fields:   fl.Fields,
		Model:    model,
		Source:   fl.Source,
		Code:     code,
		Output:   out,
		Changed:  !bytes.Equal(out, f.Content),
	}, nil
}

func reportLongLines(r diag.Reporter, id source.FileID, code []byte, maxWidth int) {
	if maxWidth <= 0 {
		return
	}
	var long []int
	for i, line := range strings.Split(string(code), "\n") {
		if runewidth.StringWidth(line) > maxWidth {
			long = append(long, i+1)
		}
	}
	if len(long) == 0 {
		return
	}
	nums := make([]string, len(long))
	for i, n := range long {
		nums[i] = strconv.Itoa(n)
	}
	diag.NewReportBuilder(r, diag.SevInfo, diag.GenLongLine, source.Span{File: id},
		fmt.Sprintf("%d generated line(s) exceed max_width %d: %s", len(long), maxWidth, strings.Join(nums, ", "))).
		Emit()
}
