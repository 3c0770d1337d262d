package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"textconf/internal/diag"
	"textconf/internal/diagfmt"
	"textconf/internal/source"
)

func readColorMode(cmd *cobra.Command) (string, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return "", err
	}
	switch mode = strings.ToLower(strings.TrimSpace(mode)); mode {
	case "auto", "on", "off":
		return mode, nil
	}
	return "", fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
}

// setupColor validates --color and configures fatih/color globally.
func setupColor(cmd *cobra.Command) error {
	if _, err := readColorMode(cmd); err != nil {
		return err
	}
	color.NoColor = !useColor(cmd)
	return nil
}

func useColor(cmd *cobra.Command) bool {
	mode, err := readColorMode(cmd)
	if err != nil {
		return false
	}
	switch mode {
	case "on":
		return true
	case "off":
		return false
	}
	return isTerminal(os.Stderr) && os.Getenv("NO_COLOR") == ""
}

func isQuiet(cmd *cobra.Command) bool {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	return err == nil && quiet
}

func maxDiagnostics(cmd *cobra.Command) int {
	n, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil || n <= 0 {
		return 100
	}
	return n
}

func readOutputFormat(cmd *cobra.Command, allowed ...string) (string, error) {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return "", err
	}
	format = strings.ToLower(strings.TrimSpace(format))
	for _, a := range allowed {
		if format == a {
			return format, nil
		}
	}
	return "", fmt.Errorf("unsupported output format %q (expected %s)", format, strings.Join(allowed, "|"))
}

// printDiagnostics renders bag in the text or short form.
func printDiagnostics(cmd *cobra.Command, w io.Writer, bag *diag.Bag, fs *source.FileSet, format string) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	bag.Sort()
	if format == "short" {
		if err := diagfmt.Short(w, bag, fs, true); err != nil {
			fmt.Fprintf(os.Stderr, "textconf: %v\n", err)
		}
		return
	}
	diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
		Color:     useColor(cmd),
		ShowNotes: true,
		ShowFixes: true,
	})
}

func jsonDiagnostics(bag *diag.Bag, fs *source.FileSet) *diagfmt.DiagnosticsOutput {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	bag.Sort()
	out := diagfmt.BuildDiagnosticsOutput(bag, fs, diagfmt.JSONOpts{
		IncludePositions: true,
		IncludeNotes:     true,
		IncludeFixes:     true,
	})
	return &out
}
