package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"textconf/internal/diagfmt"
	"textconf/internal/driver"
	"textconf/internal/observ"
	"textconf/internal/source"
)

var genCmd = &cobra.Command{
	Use:   "gen [flags] <path|glob> [path|glob...]",
	Short: "Regenerate the rewritten source and record sections of documents",
	Long: `gen processes textconf documents: a template optionally followed by
generated sections, each after a separator line:

    template
    ---
    rewritten source
    ---
    generated code

Directories are walked for *.tc files. With --stdin a single document is read
from stdin and the result is written to stdout.`,
	RunE: runGen,
}

func init() {
	genCmd.Flags().Bool("check", false, "report documents whose generated sections are stale; exit 1 if any")
	genCmd.Flags().Bool("stdin", false, "read a document from stdin and write the result to stdout")
	genCmd.Flags().Bool("stdout", false, "print regenerated documents to stdout instead of rewriting files")
	genCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	genCmd.Flags().String("format", "text", "output format (text|short|json)")
	genCmd.Flags().Bool("cache", false, "reuse results from the on-disk generation cache")
	settingFlags(genCmd.Flags())
}

func runGen(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	check, err := flags.GetBool("check")
	if err != nil {
		return err
	}
	fromStdin, err := flags.GetBool("stdin")
	if err != nil {
		return err
	}
	toStdout, err := flags.GetBool("stdout")
	if err != nil {
		return err
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return err
	}
	useCache, err := flags.GetBool("cache")
	if err != nil {
		return err
	}
	format, err := readOutputFormat(cmd, "text", "short", "json")
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}

	switch {
	case fromStdin && len(args) > 0:
		return fmt.Errorf("gen: --stdin does not take paths")
	case !fromStdin && len(args) == 0:
		return fmt.Errorf("gen: expected at least one path (or --stdin)")
	case toStdout && check:
		return fmt.Errorf("gen: --stdout cannot be used with --check")
	case (toStdout || fromStdin) && format == "json":
		return fmt.Errorf("gen: json output cannot be combined with --stdout or --stdin")
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	var timer *observ.Timer
	if showTimings {
		timer = observ.NewTimer()
	}
	opts := driver.GenOptions{
		Settings:       settings,
		Check:          check,
		Stdout:         toStdout,
		MaxDiagnostics: maxDiagnostics(cmd),
		Timer:          timer,
		Sink:           runProgress,
	}

	if fromStdin {
		return runGenStdin(cmd, opts, format)
	}

	if useCache {
		cache, err := driver.OpenDiskCache("textconf")
		if err != nil {
			return fmt.Errorf("gen: open cache: %w", err)
		}
		opts.Cache = cache
	}

	showProgress, err := progressView(uiValue, format, isQuiet(cmd), opts)
	if err != nil {
		return err
	}

	var (
		fileSet *source.FileSet
		results []driver.GenResult
	)
	if showProgress {
		files, err := driver.CollectFiles(cmd.Context(), args)
		if err != nil {
			return err
		}
		fileSet, results, err = runGenWithUI(cmd.Context(), "textconf gen", files, opts)
		if err != nil {
			return err
		}
	} else {
		fileSet, results, err = driver.GeneratePaths(cmd.Context(), args, opts)
		if err != nil {
			return err
		}
	}

	var failed bool
	if format == "json" {
		failed, err = renderGenJSON(cmd.OutOrStdout(), fileSet, results, check, timer)
		if err != nil {
			return err
		}
	} else {
		failed = renderGenText(cmd, fileSet, results, opts, format)
		if timer != nil {
			fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
		}
	}
	if failed {
		return errFailed
	}
	return nil
}

func runGenStdin(cmd *cobra.Command, opts driver.GenOptions, format string) error {
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("gen: read stdin: %w", err)
	}
	fileSet, res, err := driver.GenerateSource(cmd.Context(), "<stdin>", data, opts)
	if err != nil {
		return err
	}
	printDiagnostics(cmd, cmd.ErrOrStderr(), res.Bag, fileSet, format)
	if opts.Timer != nil {
		fmt.Fprint(cmd.ErrOrStderr(), opts.Timer.Summary())
	}
	if res.Failed() {
		return errFailed
	}
	if opts.Check {
		if res.Changed {
			return errFailed
		}
		return nil
	}
	_, err = cmd.OutOrStdout().Write(res.Output)
	return err
}

// renderGenText prints diagnostics to stderr and per-file outcomes to stdout.
// It reports whether the command must exit with status 1.
func renderGenText(cmd *cobra.Command, fileSet *source.FileSet, results []driver.GenResult, opts driver.GenOptions, format string) bool {
	quiet := isQuiet(cmd)
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	var failed, stale bool
	for i := range results {
		res := &results[i]
		printDiagnostics(cmd, stderr, res.Bag, fileSet, format)
		if res.Failed() {
			failed = true
			// ошибки без диагностики (например, чтение файла) печатаем отдельно
			if res.Bag == nil || !res.Bag.HasErrors() {
				fmt.Fprintf(stderr, "textconf: %s: %v\n", res.Path, res.Err)
			}
			continue
		}
		switch {
		case opts.Stdout:
			_, _ = stdout.Write(res.Output)
		case opts.Check:
			if res.Changed {
				stale = true
				if !quiet {
					fmt.Fprintln(stdout, res.Path)
				}
			}
		case res.Changed && !quiet:
			fmt.Fprintf(stdout, "regenerated %s\n", res.Path)
		}
	}
	return failed || stale
}

type genFileJSON struct {
	Path        string                     `json:"path"`
	Changed     bool                       `json:"changed"`
	Cached      bool                       `json:"cached,omitempty"`
	Fields      int                        `json:"fields"`
	Error       string                     `json:"error,omitempty"`
	Diagnostics *diagfmt.DiagnosticsOutput `json:"diagnostics,omitempty"`
}

type genJSON struct {
	Check   bool           `json:"check"`
	Files   []genFileJSON  `json:"files"`
	Timings *observ.Report `json:"timings,omitempty"`
}

func renderGenJSON(w io.Writer, fileSet *source.FileSet, results []driver.GenResult, check bool, timer *observ.Timer) (bool, error) {
	payload := genJSON{Check: check, Files: make([]genFileJSON, 0, len(results))}
	var failed bool
	for i := range results {
		res := &results[i]
		jr := genFileJSON{
			Path:        res.Path,
			Changed:     res.Changed,
			Cached:      res.Cached,
			Fields:      res.Fields,
			Diagnostics: jsonDiagnostics(res.Bag, fileSet),
		}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		}
		if res.Failed() || (check && res.Changed) {
			failed = true
		}
		payload.Files = append(payload.Files, jr)
	}
	if timer != nil {
		report := timer.Report()
		payload.Timings = &report
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return failed, enc.Encode(payload)
}
