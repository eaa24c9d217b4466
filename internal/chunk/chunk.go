// Package chunk splits files into ordinal-named chunk files and merges them
// back, verifying the result against a content digest.
//
// A chunk directory holds files named "1".."N" and nothing else. Each chunk
// is a contiguous byte range of the source; concatenating them in ascending
// ordinal order reproduces the source exactly.
package chunk

import (
	"log/slog"
	"strconv"
)

// DefaultMaxSize caps the size of a single chunk.
const DefaultMaxSize int64 = 5 * 1024 * 1024 // 5 MiB

// Ref describes one chunk of a source file.
type Ref struct {
	Ordinal int   `json:"ordinal"`
	Offset  int64 `json:"offset"`
	Size    int64 `json:"size"`
}

// Name is the chunk's file name inside the chunk directory.
func (r Ref) Name() string { return strconv.Itoa(r.Ordinal) }

// ProgressFunc is called after each chunk is written or appended.
type ProgressFunc func(ordinal, total int)

// EffectiveSize clamps a requested chunk size to max. Non-positive requests
// fall back to max.
func EffectiveSize(requested, max int64) int64 {
	if max <= 0 {
		max = DefaultMaxSize
	}
	if requested <= 0 || requested > max {
		return max
	}
	return requested
}

// Plan lays out ceil(length/size) chunks. Every chunk but the last is
// exactly size bytes. A zero length yields no chunks.
func Plan(length, size int64) []Ref {
	if length <= 0 || size <= 0 {
		return nil
	}
	n := (length + size - 1) / size
	refs := make([]Ref, 0, n)
	for i := int64(0); i < n; i++ {
		offset := i * size
		refs = append(refs, Ref{
			Ordinal: int(i) + 1,
			Offset:  offset,
			Size:    min(size, length-offset),
		})
	}
	return refs
}

// ParseOrdinal accepts only canonical positive decimal names ("7", not "07").
func ParseOrdinal(name string) (int, bool) {
	n, err := strconv.Atoi(name)
	if err != nil || n < 1 || strconv.Itoa(n) != name {
		return 0, false
	}
	return n, true
}

func loggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}
