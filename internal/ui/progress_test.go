package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"textconf/internal/pipeline"
)

func TestApplyEvent(t *testing.T) {
	m := newProgressModel("gen", []string{"a.tc", "b.tc", "c.tc", "d.tc"}, false, nil)
	events := []pipeline.Event{
		{File: "a.tc", Stage: pipeline.StageAnalyze, Status: pipeline.StatusWorking},
		{File: "a.tc", Stage: pipeline.StageWrite, Status: pipeline.StatusWorking},
		{File: "a.tc", Stage: pipeline.StageGenerate, Status: pipeline.StatusDone, Changed: true},
		{File: "b.tc", Stage: pipeline.StageGenerate, Status: pipeline.StatusDone},
		{File: "c.tc", Stage: pipeline.StageAnalyze, Status: pipeline.StatusError, Err: errors.New("boom")},
		{File: "d.tc", Stage: pipeline.StageAnalyze, Status: pipeline.StatusWorking},
		{File: "unknown.tc", Stage: pipeline.StageAnalyze, Status: pipeline.StatusWorking},
	}
	for _, ev := range events {
		m.applyEvent(ev)
	}

	want := []string{"updated", "up to date", "error", "analyzing"}
	for i, item := range m.items {
		if item.status != want[i] {
			t.Errorf("%s: status %q, want %q", item.path, item.status, want[i])
		}
	}
	if got, want := m.fraction(), (3+0.3)/4; got != want {
		t.Errorf("fraction = %v, want %v", got, want)
	}
	if got := m.summary(); got != "3/4, 1 failed" {
		t.Errorf("summary = %q", got)
	}
}

func TestFinishedIsSticky(t *testing.T) {
	m := newProgressModel("gen", []string{"a.tc"}, true, nil)
	m.applyEvent(pipeline.Event{File: "a.tc", Stage: pipeline.StageGenerate, Status: pipeline.StatusDone, Changed: true})
	m.applyEvent(pipeline.Event{File: "a.tc", Stage: pipeline.StageAnalyze, Status: pipeline.StatusWorking})
	if got := m.items[0].status; got != "stale" {
		t.Errorf("status = %q, want stale", got)
	}
}

func TestViewListsFiles(t *testing.T) {
	m := newProgressModel("textconf gen", []string{"a.tc", "b.tc"}, false, nil)
	m.done = true
	view := m.View()
	for _, want := range []string{"done: textconf gen (0/2)", "queued", "a.tc", "b.tc"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
	if newProgressModel("x", nil, false, nil).View() != "" {
		t.Error("empty model must render nothing")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"abcdefghij", 6, "abc..."},
		{"abcdef", 3, "abc"},
		{"日本語のパス", 7, "日本..."},
		{"any", 0, "any"},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.width)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
		if tt.width > 0 && runewidth.StringWidth(got) > tt.width {
			t.Errorf("truncate(%q, %d) is too wide", tt.in, tt.width)
		}
	}
}
