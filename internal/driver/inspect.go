package driver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/vmihailenco/msgpack/v5"

	"textconf/internal/diag"
	"textconf/internal/diagfmt"
	"textconf/internal/params"
	"textconf/internal/record"
	"textconf/internal/scanner"
	"textconf/internal/source"
	"textconf/internal/types"
)

// InspectOptions configures Inspect.
type InspectOptions struct {
	Strict    bool // strict-разбор и проверка уникальности
	Separator string
	ClassName string
}

// SpanInfo is one scanned placeholder.
type SpanInfo struct {
	Start uint32 `json:"start" msgpack:"start"`
	End   uint32 `json:"end" msgpack:"end"`
	Line  uint32 `json:"line" msgpack:"line"`
	Col   uint32 `json:"col" msgpack:"col"`
	Text  string `json:"text" msgpack:"text"`
}

// ParamInfo is one parsed placeholder.
type ParamInfo struct {
	Name    string `json:"name" msgpack:"name"`
	Format  string `json:"format,omitempty" msgpack:"format,omitempty"`
	Default string `json:"default,omitempty" msgpack:"default,omitempty"`
	Kind    string `json:"kind,omitempty" msgpack:"kind,omitempty"`
	Line    uint32 `json:"line" msgpack:"line"`
	Col     uint32 `json:"col" msgpack:"col"`
}

// GroupInfo is one record type of the grouped model.
type GroupInfo struct {
	Path    string   `json:"path" msgpack:"path"`
	Type    string   `json:"type" msgpack:"type"`
	Members []string `json:"members" msgpack:"members"`
}

// InspectResult is everything textconf knows about a document's template.
type InspectResult struct {
	Path        string                   `json:"path" msgpack:"path"`
	Sections    int                      `json:"sections" msgpack:"sections"`
	Spans       []SpanInfo               `json:"spans" msgpack:"spans"`
	Params      []ParamInfo              `json:"params" msgpack:"params"`
	Fields      []string                 `json:"fields" msgpack:"fields"`
	Groups      []GroupInfo              `json:"groups,omitempty" msgpack:"groups,omitempty"`
	Diagnostics []diagfmt.DiagnosticJSON `json:"diagnostics" msgpack:"diagnostics"`
}

// Inspect scans, parses and groups the template of file id without generating code.
// Diagnostics are collected into bag and copied into the result.
func Inspect(ctx context.Context, fs *source.FileSet, id source.FileID, bag *diag.Bag, opts InspectOptions) (*InspectResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Separator == "" {
		opts.Separator = "---"
	}
	f := fs.Get(id)
	r := &diag.BagReporter{Bag: bag}
	res := &InspectResult{Path: fs.DisplayPath(id)}

	doc, err := SplitDocument(f, opts.Separator)
	if err != nil {
		diag.ReportError(r, diag.DocTooManyParts, doc.Separators[MaxSections-1], err.Error()).Emit()
	}
	res.Sections = len(doc.Sections)
	tmpl := doc.TemplateFile(f)

	for sp := range scanner.New(tmpl).All() {
		pos, _ := fs.Resolve(sp)
		res.Spans = append(res.Spans, SpanInfo{Start: sp.Start, End: sp.End, Line: pos.Line, Col: pos.Col, Text: sp.Text(f.Content)})
	}

	mode := params.Permissive
	if opts.Strict {
		mode = params.Strict
	}
	list := params.Collect(tmpl, params.Options{Mode: mode, Reporter: r})
	var collectErr error
	if opts.Strict {
		collectErr = params.CheckUnique(params.WithDefaults(list), r)
	}

	var fields []record.Field
	for _, p := range list {
		pos, _ := fs.Resolve(p.Span)
		info := ParamInfo{Name: p.Name, Format: p.Format, Default: p.Default, Line: pos.Line, Col: pos.Col}
		if p.HasDefault() {
			info.Kind = types.Infer(p.Default).String()
			if fld, err := record.NewField(p); err == nil {
				fields = append(fields, fld)
				res.Fields = append(res.Fields, fld.String())
			}
		}
		res.Params = append(res.Params, info)
	}

	if collectErr == nil {
		if model, err := record.Build(fields, opts.ClassName, r); err == nil {
			for _, idx := range model.PostOrder() {
				g := &model.Groups[idx]
				gi := GroupInfo{Path: g.Path, Type: g.TypeName, Members: make([]string, 0, len(g.Members))}
				for _, m := range g.Members {
					gi.Members = append(gi.Members, m.Key)
				}
				res.Groups = append(res.Groups, gi)
			}
		}
	}

	bag.Sort()
	res.Diagnostics = diagfmt.BuildDiagnosticsOutput(bag, fs, diagfmt.JSONOpts{
		IncludePositions: true,
		IncludeNotes:     true,
		IncludeFixes:     true,
	}).Diagnostics
	return res, nil
}

// EncodeInspect writes res as text, json or msgpack.
func EncodeInspect(w io.Writer, res *InspectResult, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "msgpack":
		return msgpack.NewEncoder(w).Encode(res)
	case "text", "":
		return writeInspectText(w, res)
	default:
		return fmt.Errorf("unknown inspect format %q (expected text|json|msgpack)", format)
	}
}

func writeInspectText(w io.Writer, res *InspectResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s: %d section(s), %d placeholder(s)\n", res.Path, res.Sections, len(res.Spans))
	if len(res.Params) > 0 {
		fmt.Fprintln(tw, "\nparams:")
		for _, p := range res.Params {
			fmt.Fprintf(tw, "  %d:%d\t%s\t%s\t%s\t%s\n", p.Line, p.Col, p.Name, dash(p.Format), dash(p.Default), dash(p.Kind))
		}
	}
	if len(res.Fields) > 0 {
		fmt.Fprintln(tw, "\nfields:")
		for _, f := range res.Fields {
			fmt.Fprintf(tw, "  %s\n", f)
		}
	}
	if len(res.Groups) > 1 {
		fmt.Fprintln(tw, "\ngroups:")
		for _, g := range res.Groups {
			path := g.Path
			if path == "" {
				path = "(root)"
			}
			fmt.Fprintf(tw, "  %s\t%s\t%v\n", path, g.Type, g.Members)
		}
	}
	for _, d := range res.Diagnostics {
		fmt.Fprintf(tw, "%s %s %d:%d %s\n", d.Severity, d.Code, d.Location.StartLine, d.Location.StartCol, d.Message)
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
