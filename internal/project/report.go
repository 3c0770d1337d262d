package project

import (
	"bufio"
	"bytes"
	"errors"
	"os"
	"strings"

	"fortio.org/safecast"

	"textconf/internal/diag"
	"textconf/internal/source"
)

// Code maps the failure to its CFG diagnostic code.
func (e *ConfigError) Code() diag.Code {
	switch {
	case errors.Is(e.Err, ErrUnknownKey):
		return diag.CfgUnknownKey
	case errors.Is(e.Err, ErrInvalidValue):
		return diag.CfgInvalidValue
	}
	return diag.CfgInvalid
}

// ReportError turns a *ConfigError into a diagnostic pointing into the
// config file, which is added to fs. It returns false for other errors.
func ReportError(fs *source.FileSet, err error, r diag.Reporter) bool {
	var ce *ConfigError
	if !errors.As(err, &ce) {
		return false
	}
	// #nosec G304 -- path comes from the command line or FindConfig
	data, readErr := os.ReadFile(ce.Path)
	if readErr != nil {
		data = nil
	}
	id := fs.Add(ce.Path, data, 0)
	diag.ReportError(r, ce.Code(), ce.span(id, data), ce.message()).Emit()
	return true
}

func (e *ConfigError) span(id source.FileID, data []byte) source.Span {
	start, end := 0, 0
	switch {
	case e.Line > 0:
		start, end = lineBounds(data, e.Line)
		// позиция из парсера, если она действительно на этой строке
		if e.Len > 0 && e.Offset >= start && e.Offset+e.Len <= end {
			start, end = e.Offset, e.Offset+e.Len
		}
	case e.Key != "":
		start, end = keyBounds(data, e.Key)
	}
	s, err := safecast.Conv[uint32](start)
	if err != nil {
		return source.Span{File: id}
	}
	en, err := safecast.Conv[uint32](end)
	if err != nil {
		return source.Span{File: id}
	}
	return source.Span{File: id, Start: s, End: en}
}

// lineBounds returns the byte range of the 1-based line n without its line break.
func lineBounds(data []byte, n int) (start, end int) {
	for line := 1; line < n; line++ {
		i := bytes.IndexByte(data[start:], '\n')
		if i < 0 {
			return len(data), len(data)
		}
		start += i + 1
	}
	end = len(data)
	if i := bytes.IndexByte(data[start:], '\n'); i >= 0 {
		end = start + i
	}
	if end > start && data[end-1] == '\r' {
		end--
	}
	return start, end
}

// keyBounds finds the first "key =" assignment and returns the range of key.
// Dotted keys are matched by their last segment.
func keyBounds(data []byte, key string) (start, end int) {
	if i := strings.LastIndexByte(key, '.'); i >= 0 {
		key = key[i+1:]
	}
	off := 0
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimLeft(line, " \t")
		if rest, ok := strings.CutPrefix(trimmed, key); ok && strings.HasPrefix(strings.TrimLeft(rest, " \t"), "=") {
			start = off + len(line) - len(trimmed)
			return start, start + len(key)
		}
		off += len(line) + 1
	}
	return 0, 0
}
