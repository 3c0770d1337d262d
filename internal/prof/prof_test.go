package prof

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionWritesFiles(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		CPUProfile:   filepath.Join(dir, "cpu.out"),
		MemProfile:   filepath.Join(dir, "mem.out"),
		RuntimeTrace: filepath.Join(dir, "trace.out"),
	}
	require.True(t, opts.Enabled())

	s, err := Start(opts)
	require.NoError(t, err)
	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop(), "second Stop is a no-op")

	for _, p := range []string{opts.CPUProfile, opts.MemProfile, opts.RuntimeTrace} {
		info, err := os.Stat(p)
		require.NoError(t, err, p)
		require.NotZero(t, info.Size(), p)
	}
}

func TestStartBadPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no", "such", "dir", "cpu.out")
	_, err := Start(Options{CPUProfile: missing})
	require.Error(t, err)

	// the failed start must not leave a CPU profile running
	s, err := Start(Options{CPUProfile: filepath.Join(t.TempDir(), "cpu.out")})
	require.NoError(t, err)
	require.NoError(t, s.Stop())
}

func TestNilSession(t *testing.T) {
	var s *Session
	require.NoError(t, s.Stop())
	require.False(t, Options{}.Enabled())
}
