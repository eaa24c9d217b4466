// Package digest computes content digests used to verify chunk reassembly.
//
// Every call builds its own hasher, so a Digester can be shared between
// goroutines. Digests are always rendered as lowercase hex.
package digest

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"sort"
	"strings"

	"github.com/keshon/bsplit/internal/fs"
	"github.com/zeebo/blake3"
	"github.com/zeebo/xxh3"
)

const (
	XXH3   = "xxh3"
	BLAKE3 = "blake3"
	SHA256 = "sha256"
	MD5    = "md5"

	Default = XXH3
)

const streamBufSize = 64 * 1024

// ErrUnknownAlgorithm is returned by New for unsupported algorithm names.
var ErrUnknownAlgorithm = errors.New("unknown digest algorithm")

var constructors = map[string]func() hash.Hash{
	XXH3:   func() hash.Hash { return &xxh3Hasher128{xxh3.New()} },
	BLAKE3: func() hash.Hash { return blake3.New() },
	SHA256: sha256.New,
	MD5:    md5.New,
}

// Algorithms lists supported algorithm names in sorted order.
func Algorithms() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Digester computes digests with one algorithm.
type Digester struct {
	algorithm string
	newHash   func() hash.Hash
}

// New returns a Digester for the named algorithm. An empty name selects Default.
func New(algorithm string) (*Digester, error) {
	name := strings.ToLower(strings.TrimSpace(algorithm))
	if name == "" {
		name = Default
	}
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
	return &Digester{algorithm: name, newHash: ctor}, nil
}

// Algorithm returns the canonical algorithm name.
func (d *Digester) Algorithm() string { return d.algorithm }

// HexLen is the length of a rendered digest.
func (d *Digester) HexLen() int { return d.newHash().Size() * 2 }

// Bytes digests an in-memory buffer.
func (d *Digester) Bytes(data []byte) string {
	h := d.newHash()
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Reader digests everything remaining in r.
func (d *Digester) Reader(r io.Reader) (string, error) {
	h := d.newHash()
	buf := make([]byte, streamBufSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// File streams the file at path through the hasher.
func (d *Digester) File(fsys fs.FS, path string) (string, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %q for hashing: %w", path, err)
	}
	defer f.Close()

	sum, err := d.Reader(f)
	if err != nil {
		return "", fmt.Errorf("hash %q: %w", path, err)
	}
	return sum, nil
}

// Normalize returns the canonical form of a caller-supplied digest.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Equal reports whether two digests denote the same value.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// xxh3Hasher128 makes xxh3's streaming hasher produce the 128-bit sum.
type xxh3Hasher128 struct {
	*xxh3.Hasher
}

func (h *xxh3Hasher128) Sum(b []byte) []byte {
	sum := h.Hasher.Sum128().Bytes()
	return append(b, sum[:]...)
}

func (h *xxh3Hasher128) Size() int { return 16 }
