package fix

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"textconf/internal/diag"
	"textconf/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota
	ApplyModeAll
	ApplyModeID
)

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
	// DryRun computes new contents without writing files.
	DryRun bool
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID            string
	Title         string
	Code          diag.Code
	Applicability diag.FixApplicability
	Path          string
	EditCount     int
}

// SkippedFix captures a skipped or failed fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	EditCount int
	Content   []byte
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	diag diag.Diagnostic
	fix  diag.Fix
}

// Apply collects fixes from diagnostics, selects a subset according to opts,
// applies them file by file and writes the results (unless DryRun).
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	candidates, skips := gatherCandidates(diagnostics)
	result.Skipped = append(result.Skipped, skips...)

	selected, skips := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, skips...)
	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	// по файлам: правки накапливаются, конфликтующие с уже принятыми пропускаются
	perFile := make(map[source.FileID][]diag.TextEdit)
	var order []source.FileID
	for _, cand := range selected {
		fileID := cand.diag.Primary.File
		file := fs.Get(fileID)
		if file.Flags&source.FileVirtual != 0 && !opts.DryRun {
			result.Skipped = append(result.Skipped, SkippedFix{ID: cand.fix.ID, Title: cand.fix.Title, Reason: "target file is virtual"})
			continue
		}
		merged := append(slices.Clone(perFile[fileID]), cand.fix.Edits...)
		if _, err := ApplyEdits(file.Content, merged); err != nil {
			result.Skipped = append(result.Skipped, SkippedFix{ID: cand.fix.ID, Title: cand.fix.Title, Reason: err.Error()})
			continue
		}
		if _, seen := perFile[fileID]; !seen {
			order = append(order, fileID)
		}
		perFile[fileID] = merged
		result.Applied = append(result.Applied, AppliedFix{
			ID:            cand.fix.ID,
			Title:         cand.fix.Title,
			Code:          cand.diag.Code,
			Applicability: cand.fix.Applicability,
			Path:          fs.DisplayPath(fileID),
			EditCount:     len(cand.fix.Edits),
		})
	}

	for _, fileID := range order {
		file := fs.Get(fileID)
		content, err := ApplyEdits(file.Content, perFile[fileID])
		if err != nil {
			return result, err
		}
		if !opts.DryRun {
			mode := os.FileMode(0o644)
			if info, statErr := os.Stat(file.Path); statErr == nil {
				mode = info.Mode()
			}
			if err := os.WriteFile(file.Path, content, mode); err != nil {
				return result, fmt.Errorf("write %s: %w", file.Path, err)
			}
		}
		result.FileChanges = append(result.FileChanges, FileChange{
			Path:      fs.DisplayPath(fileID),
			EditCount: len(perFile[fileID]),
			Content:   content,
		})
	}
	slices.SortStableFunc(result.FileChanges, func(a, b FileChange) int {
		switch {
		case a.Path < b.Path:
			return -1
		case a.Path > b.Path:
			return 1
		}
		return 0
	})

	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	return result, nil
}

// gatherCandidates flattens fixes of all diagnostics, assigning ids to
// anonymous fixes: CODE-file-start-index.
func gatherCandidates(diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	var (
		cands []candidate
		skips []SkippedFix
	)
	seen := make(map[string]struct{})
	for _, d := range diagnostics {
		for idx, f := range d.Fixes {
			if len(f.Edits) == 0 {
				skips = append(skips, SkippedFix{ID: f.ID, Title: f.Title, Reason: "fix has no edits"})
				continue
			}
			if f.ID == "" {
				f.ID = fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, idx)
			}
			if _, dup := seen[f.ID]; dup {
				skips = append(skips, SkippedFix{ID: f.ID, Title: f.Title, Reason: "duplicate fix id"})
				continue
			}
			seen[f.ID] = struct{}{}
			cands = append(cands, candidate{diag: d, fix: f})
		}
	}
	slices.SortStableFunc(cands, func(a, b candidate) int {
		pa, pb := a.diag.Primary, b.diag.Primary
		switch {
		case pa.File != pb.File:
			return int(pa.File) - int(pb.File)
		case pa.Start != pb.Start:
			return int(pa.Start) - int(pb.Start)
		}
		return int(a.diag.Code) - int(b.diag.Code)
	})
	return cands, skips
}

func selectCandidates(candidates []candidate, opts ApplyOptions) ([]candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeID:
		for _, cand := range candidates {
			if cand.fix.ID == opts.TargetID {
				return []candidate{cand}, nil
			}
		}
		return nil, []SkippedFix{{ID: opts.TargetID, Reason: "fix id not found"}}
	case ApplyModeAll:
		selected := make([]candidate, 0, len(candidates))
		var skipped []SkippedFix
		for _, cand := range candidates {
			if cand.fix.Applicability == diag.FixApplicabilityAlwaysSafe {
				selected = append(selected, cand)
				continue
			}
			skipped = append(skipped, SkippedFix{
				ID:     cand.fix.ID,
				Title:  cand.fix.Title,
				Reason: fmt.Sprintf("applicability is %s", cand.fix.Applicability),
			})
		}
		return selected, skipped
	case ApplyModeOnce:
		for _, cand := range candidates {
			if cand.fix.Applicability == diag.FixApplicabilityAlwaysSafe {
				return []candidate{cand}, nil
			}
		}
		if len(candidates) > 0 {
			return candidates[:1], nil
		}
	}
	return nil, nil
}
