package driver

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"textconf/internal/codegen"
	"textconf/internal/diag"
	"textconf/internal/observ"
	"textconf/internal/pipeline"
	"textconf/internal/project"
	"textconf/internal/source"
	"textconf/internal/trace"
)

// GenOptions configures GeneratePaths and GenerateSource.
type GenOptions struct {
	Settings       project.Settings
	Check          bool // ничего не пишет, Changed показывает, изменился бы файл
	Stdout         bool // результат в GenResult.Output, файлы не трогаются
	MaxDiagnostics int
	Sink           pipeline.ProgressSink
	Timer          *observ.Timer
	Cache          *DiskCache
}

// GenResult captures the outcome for a single document.
type GenResult struct {
	Path    string
	FileID  source.FileID
	Changed bool
	Cached  bool
	Fields  int
	Output  []byte
	Bag     *diag.Bag
	Err     error
}

// Failed reports whether the document produced no usable output.
func (r *GenResult) Failed() bool {
	return r.Err != nil || (r.Bag != nil && r.Bag.HasErrors())
}

type genRun struct {
	opts GenOptions
	fs   *source.FileSet
	gen  codegen.Generator
}

func newGenRun(fs *source.FileSet, opts GenOptions) (*genRun, error) {
	gen, err := codegen.Lookup(opts.Settings.Target, codegen.Options{
		MaxWidth: opts.Settings.MaxWidth,
		Indent:   opts.Settings.Indent,
	})
	if err != nil {
		return nil, err
	}
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = 256
	}
	return &genRun{opts: opts, fs: fs, gen: gen}, nil
}

// GeneratePaths regenerates every document found under paths. Documents are
// loaded up front, then processed in parallel by Settings.Jobs workers
// (GOMAXPROCS when 0). A failing document does not stop the others; the
// returned error is reserved for setup failures and cancellation.
func GeneratePaths(ctx context.Context, paths []string, opts GenOptions) (*source.FileSet, []GenResult, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "gen", trace.CurrentSpan(ctx))
	defer span.End("")

	files, err := CollectFiles(ctx, paths)
	if err != nil {
		return nil, nil, err
	}

	fileSet := source.NewFileSet()
	if wd, err := os.Getwd(); err == nil {
		fileSet.SetBaseDir(wd)
	}
	run, err := newGenRun(fileSet, opts)
	if err != nil {
		return fileSet, nil, err
	}

	results := make([]GenResult, len(files))
	done := opts.Timer.Track("load")
	for i, path := range files {
		pipeline.Emit(opts.Sink, pipeline.Event{File: path, Stage: pipeline.StageLoad, Status: pipeline.StatusQueued})
		results[i].Path = path
		// FileSet не потокобезопасен, поэтому загрузка последовательная
		id, err := fileSet.Load(path)
		if err != nil {
			results[i].Err = err
			continue
		}
		results[i].FileID = id
	}
	done(strconv.Itoa(len(files)) + " files")

	jobs := opts.Settings.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i := range results {
		if results[i].Err != nil {
			pipeline.Emit(opts.Sink, pipeline.Event{File: results[i].Path, Stage: pipeline.StageLoad, Status: pipeline.StatusError, Err: results[i].Err})
			continue
		}
		g.Go(func() error {
			// индекс i уникален для горутины, мьютекс не нужен
			return run.process(gctx, &results[i], span.ID())
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	span.WithExtra("files", strconv.Itoa(len(files)))
	return fileSet, results, nil
}

// GenerateSource regenerates an in-memory document (stdin). Nothing is written.
func GenerateSource(ctx context.Context, name string, data []byte, opts GenOptions) (*source.FileSet, GenResult, error) {
	fileSet := source.NewFileSet()
	opts.Stdout = true
	opts.Cache = nil
	run, err := newGenRun(fileSet, opts)
	if err != nil {
		return fileSet, GenResult{}, err
	}
	res := GenResult{Path: name, FileID: fileSet.AddVirtual(name, data)}
	if err := run.process(ctx, &res, trace.CurrentSpan(ctx)); err != nil {
		return fileSet, res, err
	}
	return fileSet, res, nil
}

func (r *genRun) process(ctx context.Context, res *GenResult, parent uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	sink := r.opts.Sink
	emit := func(stage pipeline.Stage, status pipeline.Status) {
		pipeline.Emit(sink, pipeline.Event{File: res.Path, Stage: stage, Status: status, Changed: res.Changed, Err: res.Err, Elapsed: time.Since(start)})
	}

	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "file", parent)
	defer func() { span.WithExtra("changed", strconv.FormatBool(res.Changed)).End(res.Path) }()

	res.Bag = diag.NewBag(r.opts.MaxDiagnostics)
	f := r.fs.Get(res.FileID)

	emit(pipeline.StageAnalyze, pipeline.StatusWorking)
	output, hit := r.fromCache(f, res)
	if !hit {
		a, err := Analyze(ctx, f, AnalyzeOptions{
			Settings:  r.opts.Settings,
			Generator: r.gen,
			Reporter:  &diag.BagReporter{Bag: res.Bag},
			Timer:     r.opts.Timer,
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			res.Err = err
			emit(pipeline.StageAnalyze, pipeline.StatusError)
			return nil
		}
		output = a.Output
		res.Fields = len(a.Fields)
		r.toCache(f, res, output)
	}
	res.Changed = !bytes.Equal(output, f.Content)

	switch {
	case r.opts.Check:
		if res.Changed {
			diag.ReportWarning(&diag.BagReporter{Bag: res.Bag}, diag.DocStale, source.Span{File: f.ID},
				"generated sections are out of date; run textconf gen").Emit()
		}
	case r.opts.Stdout:
		res.Output = output
	case res.Changed:
		emit(pipeline.StageWrite, pipeline.StatusWorking)
		if err := writeFile(f.Path, output); err != nil {
			res.Err = err
			diag.ReportError(&diag.BagReporter{Bag: res.Bag}, diag.IOWriteFileError, source.Span{File: f.ID},
				fmt.Sprintf("failed to write %s: %v", f.Path, err)).Emit()
			emit(pipeline.StageWrite, pipeline.StatusError)
			return nil
		}
	}
	emit(pipeline.StageGenerate, pipeline.StatusDone)
	return nil
}

// fromCache only serves documents that analysed cleanly before.
func (r *genRun) fromCache(f *source.File, res *GenResult) ([]byte, bool) {
	if r.opts.Cache == nil {
		return nil, false
	}
	key, err := CacheKey(f.Hash, r.opts.Settings)
	if err != nil {
		return nil, false
	}
	var payload GenPayload
	if ok, err := r.opts.Cache.Get(key, &payload); err != nil || !ok || payload.Target != r.gen.Name() {
		return nil, false
	}
	res.Cached = true
	res.Fields = payload.Fields
	return payload.Output, true
}

func (r *genRun) toCache(f *source.File, res *GenResult, output []byte) {
	if r.opts.Cache == nil || res.Bag.Len() > 0 {
		return
	}
	key, err := CacheKey(f.Hash, r.opts.Settings)
	if err != nil {
		return
	}
	// кэш не должен ломать генерацию
	_ = r.opts.Cache.Put(key, &GenPayload{Target: r.gen.Name(), Fields: res.Fields, Output: output})
}

func writeFile(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	return os.WriteFile(path, data, mode.Perm())
}
