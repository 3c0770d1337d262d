package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"textconf/internal/pipeline"
	"textconf/internal/version"
)

// errFailed means the failure was already reported; main only sets the exit code.
var errFailed = errors.New("textconf: failed")

var rootCmd = &cobra.Command{
	Use:   "textconf",
	Short: "Generate typed config records from brace templates",
	Long: `textconf reads templates with {name=default} placeholders, rewrites them
into plain {name} references and generates a typed record of the defaults.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupRoot,
}

// cleanupTracing and cleanupProfiling are set by setupRoot and called once the command returns.
var (
	cleanupTracing   = func(failed bool) {}
	cleanupProfiling = func() {}
)

// runProgress counts documents of the running command; the trace heartbeat reports it.
var runProgress = pipeline.NewCounter()

func main() {
	rootCmd.Version = version.Get().Version

	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics per document")
	rootCmd.PersistentFlags().String("config", "", "path to textconf.toml (default: nearest one upwards)")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	rootCmd.PersistentFlags().Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval (0 disables)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write heap profile to file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write Go runtime trace to file")

	err := execute()
	if err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "textconf: %v\n", err)
		}
		os.Exit(1)
	}
}

// execute runs the root command and always finishes tracing and profiling.
// A panic dumps the trace ring before it propagates.
func execute() (err error) {
	defer func() {
		if r := recover(); r != nil {
			cleanupTracing(true)
			cleanupProfiling()
			panic(r)
		}
	}()
	err = rootCmd.Execute()
	cleanupTracing(err != nil)
	cleanupProfiling()
	return err
}

func setupRoot(cmd *cobra.Command, _ []string) error {
	if err := setupColor(cmd); err != nil {
		return err
	}
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	cleanupTracing = cleanup
	stopProf, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	cleanupProfiling = stopProf
	return nil
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
