package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textconf/internal/diag"
	"textconf/internal/driver"
	"textconf/internal/fix"
	"textconf/internal/trace"
)

// newSettingsCmd builds a root with --config and a child carrying the setting flags.
func newSettingsCmd(t *testing.T, config string, args ...string) *cobra.Command {
	t.Helper()
	root := &cobra.Command{Use: "textconf"}
	root.PersistentFlags().String("config", "", "")
	child := &cobra.Command{Use: "gen"}
	settingFlags(child.Flags())
	root.AddCommand(child)
	if config != "" {
		require.NoError(t, root.PersistentFlags().Set("config", config))
	}
	require.NoError(t, child.ParseFlags(args))
	return child
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "textconf.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSettingsPrecedence(t *testing.T) {
	config := writeConfig(t, "class_name = \"FromFile\"\nmax_width = 80\nprefix = \"cfg.\"\n")

	settings, err := loadSettings(newSettingsCmd(t, config))
	require.NoError(t, err)
	assert.Equal(t, "FromFile", settings.ClassName)
	assert.Equal(t, 80, settings.MaxWidth)
	assert.Equal(t, "cfg.", settings.Prefix)
	assert.Equal(t, "python", settings.Target, "untouched keys keep defaults")

	settings, err = loadSettings(newSettingsCmd(t, config, "--name", "FromFlag", "--max-width", "0", "--target", "yaml"))
	require.NoError(t, err)
	assert.Equal(t, "FromFlag", settings.ClassName)
	assert.Equal(t, 0, settings.MaxWidth)
	assert.Equal(t, "yaml", settings.Target)
	assert.Equal(t, "cfg.", settings.Prefix, "flags override only what they set")
}

func TestLoadSettingsRejectsFlags(t *testing.T) {
	config := writeConfig(t, "")
	tests := []struct {
		name string
		args []string
	}{
		{"negative width", []string{"--max-width", "-1"}},
		{"negative jobs", []string{"--jobs", "-2"}},
		{"indent zero", []string{"--indent", "0"}},
		{"indent too big", []string{"--indent", "17"}},
		{"empty name", []string{"--name", ""}},
		{"empty separator", []string{"--separator", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadSettings(newSettingsCmd(t, config, tt.args...))
			require.Error(t, err)
			assert.False(t, errors.Is(err, errFailed))
		})
	}
}

func TestReadOutputFormat(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	cmd.Flags().String("format", "text", "")

	require.NoError(t, cmd.Flags().Set("format", " JSON "))
	got, err := readOutputFormat(cmd, "text", "json")
	require.NoError(t, err)
	assert.Equal(t, "json", got)

	require.NoError(t, cmd.Flags().Set("format", "xml"))
	_, err = readOutputFormat(cmd, "text", "json")
	require.ErrorContains(t, err, "text|json")
}

func TestHandleApplyResult(t *testing.T) {
	t.Run("no fixes", func(t *testing.T) {
		var out bytes.Buffer
		err := handleApplyResult(&out, &fix.ApplyResult{}, fix.ErrNoFixes, false)
		require.NoError(t, err)
		assert.Equal(t, "No applicable fixes found.\n", out.String())
	})

	t.Run("dry run prints content", func(t *testing.T) {
		res := &fix.ApplyResult{
			Applied: []fix.AppliedFix{{
				ID: "drop-empty-default", Title: "remove empty default", Path: "a.tc",
				EditCount: 1, Applicability: diag.FixApplicabilityAlwaysSafe,
			}},
			FileChanges: []fix.FileChange{{Path: "a.tc", EditCount: 1, Content: []byte("{a}")}},
		}
		var out bytes.Buffer
		require.NoError(t, handleApplyResult(&out, res, nil, true))
		assert.Contains(t, out.String(), "Would apply 1 fix(es):")
		assert.Contains(t, out.String(), "=== a.tc (1 edits)\n{a}\n")
	})

	t.Run("write lists files and skips", func(t *testing.T) {
		res := &fix.ApplyResult{
			FileChanges: []fix.FileChange{{Path: "b.tc", EditCount: 2}},
			Skipped:     []fix.SkippedFix{{Reason: "conflicting edits"}},
		}
		var out bytes.Buffer
		require.NoError(t, handleApplyResult(&out, res, nil, false))
		assert.Contains(t, out.String(), "Updated files:\n  b.tc (2 edits)\n")
		assert.Contains(t, out.String(), "  [(unnamed)]: conflicting edits\n")
	})

	t.Run("other errors pass through", func(t *testing.T) {
		boom := errors.New("boom")
		err := handleApplyResult(&bytes.Buffer{}, &fix.ApplyResult{}, boom, false)
		assert.ErrorIs(t, err, boom)
		assert.ErrorIs(t, handleApplyResult(&bytes.Buffer{}, nil, boom, false), boom)
	})
}

func TestProgressView(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		format string
		quiet  bool
		opts   driver.GenOptions
		want   bool
	}{
		{"off", "off", "text", false, driver.GenOptions{}, false},
		{"on", "on", "text", false, driver.GenOptions{}, true},
		{"on with check", "ON", "text", false, driver.GenOptions{Check: true}, true},
		{"on with stdout", "on", "text", false, driver.GenOptions{Stdout: true}, false},
		{"on with json", "on", "json", false, driver.GenOptions{}, false},
		{"on with quiet", "on", "text", true, driver.GenOptions{}, false},
		{"auto with check", "auto", "text", false, driver.GenOptions{Check: true}, false},
		// go test pipes stdout, so auto never finds a terminal here
		{"auto without terminal", "", "text", false, driver.GenOptions{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := progressView(tt.value, tt.format, tt.quiet, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	_, err := progressView("sometimes", "text", false, driver.GenOptions{})
	require.ErrorContains(t, err, "auto|on|off")
}

func newTraceCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	root := &cobra.Command{Use: "textconf"}
	flags := root.PersistentFlags()
	flags.String("trace", "", "")
	flags.String("trace-level", "off", "")
	flags.String("trace-format", "auto", "")
	flags.String("trace-mode", "stream", "")
	flags.Duration("trace-heartbeat", 0, "")
	require.NoError(t, flags.Parse(args))
	root.SetContext(context.Background())
	return root
}

func TestSetupTracingErrorLevelDumpsOnFailure(t *testing.T) {
	for _, failed := range []bool{false, true} {
		out := filepath.Join(t.TempDir(), "trace.log")
		cmd := newTraceCmd(t, "--trace", out, "--trace-level", "error")
		cleanup, err := setupTracing(cmd)
		require.NoError(t, err)

		_, span := trace.Start(cmd.Context(), trace.ScopeFile, "analyze")
		span.End("broken.tc")
		cleanup(failed)

		data, err := os.ReadFile(out)
		if !failed {
			assert.True(t, os.IsNotExist(err), "a successful run leaves no trace file")
			continue
		}
		require.NoError(t, err)
		assert.Contains(t, string(data), "broken.tc")
	}
}
