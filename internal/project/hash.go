package project

import (
	"crypto/sha256"
	"encoding/binary"
)

// Digest is a fixed 256-bit hash, compatible with source.File.Hash.
type Digest [32]byte

// Combine hashes content followed by parts in order: H(content || p1 || p2 ...).
func Combine(content Digest, parts ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range parts {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Digest folds every allocator parameter into a digest so cached
// graphs are invalidated when placement would change.
func (l LayoutConfig) Digest() Digest {
	var buf [6 * 8]byte
	for i, v := range []int64{l.StepX, l.StepY, l.Grid, l.Jitter, l.WrapX} {
		binary.LittleEndian.PutUint64(buf[i*8:], uint64(v))
	}
	binary.LittleEndian.PutUint64(buf[40:], l.Seed)
	return sha256.Sum256(buf[:])
}
