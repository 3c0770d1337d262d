package driver

import (
	"context"
	"errors"

	"textconf/internal/diag"
	"textconf/internal/fix"
	"textconf/internal/params"
	"textconf/internal/source"
)

// FixOptions configures FixPaths.
type FixOptions struct {
	Apply          fix.ApplyOptions
	Separator      string
	MaxDiagnostics int
}

// FixPaths collects placeholder diagnostics from the templates under paths and
// applies their fixes. Only the template section of each document is considered.
func FixPaths(ctx context.Context, paths []string, opts FixOptions) (*source.FileSet, *fix.ApplyResult, error) {
	files, err := CollectFiles(ctx, paths)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSet()
	var loadErrs []error
	var diags []diag.Diagnostic
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return fileSet, nil, err
		}
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrs = append(loadErrs, err)
			continue
		}
		diags = append(diags, fixableDiagnostics(fileSet.Get(id), opts)...)
	}
	if err := errors.Join(loadErrs...); err != nil {
		return fileSet, nil, err
	}

	res, err := fix.Apply(fileSet, diags, opts.Apply)
	return fileSet, res, err
}

// FixSource is FixPaths over an in-memory document; the result is never written.
func FixSource(name string, data []byte, opts FixOptions) (*source.FileSet, *fix.ApplyResult, error) {
	fileSet := source.NewFileSet()
	id := fileSet.AddVirtual(name, data)
	opts.Apply.DryRun = true
	res, err := fix.Apply(fileSet, fixableDiagnostics(fileSet.Get(id), opts), opts.Apply)
	return fileSet, res, err
}

func fixableDiagnostics(f *source.File, opts FixOptions) []diag.Diagnostic {
	sep := opts.Separator
	if sep == "" {
		sep = "---"
	}
	// документ с лишними секциями всё равно можно чинить по шаблону
	doc, _ := SplitDocument(f, sep)
	bag := diag.NewBag(opts.MaxDiagnostics)
	params.Collect(doc.TemplateFile(f), params.Options{Mode: params.Permissive, Reporter: &diag.BagReporter{Bag: bag}})
	return bag.Items()
}
