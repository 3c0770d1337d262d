package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"textconf/internal/driver"
	"textconf/internal/pipeline"
	"textconf/internal/source"
	"textconf/internal/ui"
)

// progressView decides whether gen renders the bubbletea progress view.
//
//   - never with --stdout or a non-text --format: stdout carries the documents or the report;
//   - never with --quiet;
//   - "on" forces it otherwise;
//   - "auto" also skips it for --check, whose stale path list is meant for scripts, and
//     needs both stdout and stderr on a terminal.
func progressView(value, format string, quiet bool, opts driver.GenOptions) (bool, error) {
	mode := strings.ToLower(strings.TrimSpace(value))
	switch mode {
	case "", "auto", "on", "off":
	default:
		return false, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
	switch {
	case mode == "off", quiet, opts.Stdout, format != "text":
		return false, nil
	case mode == "on":
		return true, nil
	case opts.Check:
		return false, nil
	}
	return isTerminal(os.Stdout) && isTerminal(os.Stderr), nil
}

type genOutcome struct {
	fs      *source.FileSet
	results []driver.GenResult
	err     error
}

// runGenWithUI runs GeneratePaths in the background and renders its progress
// events until the run finishes.
func runGenWithUI(ctx context.Context, title string, files []string, opts driver.GenOptions) (*source.FileSet, []driver.GenResult, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan genOutcome, 1)

	go func() {
		runOpts := opts
		runOpts.Sink = pipeline.Tee{pipeline.ChannelSink{Ch: events}, opts.Sink}
		fs, results, err := driver.GeneratePaths(ctx, files, runOpts)
		outcomeCh <- genOutcome{fs: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, opts.Check, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// UI мог выйти раньше: дочитываем события, чтобы воркеры не заблокировались
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
