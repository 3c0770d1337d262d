package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DocumentExt is the extension collected when walking directories.
const DocumentExt = ".tc"

// ErrNoDocuments is returned when the given paths match no document.
var ErrNoDocuments = errors.New("no textconf documents found")

// CollectFiles expands paths into a sorted, de-duplicated file list.
// Directories are walked for *.tc files; glob patterns are expanded; plain
// files are taken as is whatever their extension.
func CollectFiles(ctx context.Context, paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	addFile := func(path string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	walk := func(p string) error {
		info, err := os.Stat(p)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			addFile(p)
			return nil
		}
		return filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) == DocumentExt {
				addFile(path)
			}
			return nil
		})
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !isGlob(p) {
			if err := walk(p); err != nil {
				return nil, err
			}
			continue
		}
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		for _, m := range matches {
			if err := walk(m); err != nil {
				return nil, err
			}
		}
	}

	sort.Strings(files)
	if len(files) == 0 {
		return nil, ErrNoDocuments
	}
	return files, nil
}

func isGlob(p string) bool {
	return strings.ContainsAny(p, "*?[")
}
