package project

import (
	"crypto/sha256"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Digest is a fixed 256-bit hash, compatible with source.File.Hash.
type Digest [32]byte

// Combine hashes content followed by deps: H(content || dep1 || dep2 ...).
// The order of deps matters.
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Digest hashes the settings that affect generated output; Jobs is excluded.
func (s Settings) Digest() (Digest, error) {
	data, err := msgpack.Marshal(&s)
	if err != nil {
		return Digest{}, fmt.Errorf("settings digest: %w", err)
	}
	return sha256.Sum256(data), nil
}
