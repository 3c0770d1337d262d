package fuzztests

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
	maxFuzzInput = 1 << 16  // 64 KiB
)

var builtinSeeds = []string{
	"",
	"{}",
	"{{}}",
	"{a}",
	"{a=1}",
	"{a:.2f=1.5}",
	"{a=}",
	"{a:}",
	"{=1}",
	"{:x}",
	"{a=1=2}",
	"{a b=1}",
	"{a{b=1}c}",
	"{{{x=1}}}",
	"{a.b.c=true} {a.b=1}",
	"{a=1} {a=2}",
	"{a=[1,2]} {b=[]} {c=['x',\"y\"]}",
	"x {a=1}\r\n---\r\nold\r\n",
	"{a=1}\n---\n---\n---\n",
	"{\n}",
	"日本{名前=値}",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
	addReadmeSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// все *.tc из testdata
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".tc" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

// addReadmeSeeds adds every ```textconf block of README.md.
func addReadmeSeeds(f *testing.F) {
	// #nosec G304 -- path is a fixed repository location
	data, err := os.ReadFile(filepath.Join("..", "..", "README.md"))
	if err != nil {
		return
	}
	var block [][]byte
	inBlock := false
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		trimmed := strings.TrimSpace(string(line))
		if strings.HasPrefix(trimmed, "```textconf") {
			inBlock = true
			block = block[:0]
			continue
		}
		if strings.HasPrefix(trimmed, "```") {
			if inBlock {
				if snippet := clampSeed(bytes.Join(block, []byte{'\n'})); len(snippet) > 0 {
					f.Add(snippet)
				}
			}
			inBlock = false
			block = block[:0]
			continue
		}
		if inBlock {
			block = append(block, line)
		}
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
