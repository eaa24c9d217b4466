package chunk

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/keshon/bsplit/internal/fs"
)

// Splitter partitions a source file into ordinal chunk files.
type Splitter struct {
	FS           fs.FS
	MaxChunkSize int64 // DefaultMaxSize when zero
	Logger       *slog.Logger
	OnChunk      ProgressFunc
}

// NewSplitter creates a Splitter with the default chunk cap.
func NewSplitter(fsys fs.FS, logger *slog.Logger) *Splitter {
	return &Splitter{FS: fsys, MaxChunkSize: DefaultMaxSize, Logger: logger}
}

// SplitResult describes a completed split.
type SplitResult struct {
	Source     string `json:"source"`
	Dir        string `json:"dir"`
	Length     int64  `json:"length"`
	ChunkSize  int64  `json:"chunk_size"`
	Chunks     []Ref  `json:"chunks"`
	StaleFiles int    `json:"stale_files"`
}

// Split writes src into dir as chunks of at most size bytes (clamped to the
// cap). Existing chunk files are replaced and ordinals beyond the new chunk
// count are removed, so rerunning into the same directory is safe. A crash
// mid-split leaves chunks 1..k behind; rerunning overwrites them.
func (s *Splitter) Split(src, dir string, size int64) (*SplitResult, error) {
	log := loggerOrDiscard(s.Logger)

	if src == "" {
		return nil, invalidArg("source path is empty")
	}
	fi, err := s.FS.Stat(src)
	if err != nil {
		if s.FS.IsNotExist(err) {
			return nil, invalidArg("source %q does not exist", src)
		}
		return nil, ioErr("stat source", src, 0, err)
	}
	if fi.IsDir() {
		return nil, invalidArg("source %q is a directory", src)
	}

	if dir == "" {
		return nil, invalidArg("chunk directory path is empty")
	}
	if s.FS.Exists(dir) && !s.FS.IsDir(dir) {
		return nil, invalidArg("chunk directory %q is not a directory", dir)
	}
	if err := s.FS.MkdirAll(dir, 0o755); err != nil {
		return nil, ioErr("create chunk dir", dir, 0, err)
	}

	chunkSize := EffectiveSize(size, s.MaxChunkSize)
	refs := Plan(fi.Size(), chunkSize)

	res := &SplitResult{
		Source:    src,
		Dir:       dir,
		Length:    fi.Size(),
		ChunkSize: chunkSize,
		Chunks:    refs,
	}

	stale, err := s.pruneStale(dir, len(refs))
	if err != nil {
		return nil, err
	}
	res.StaleFiles = stale

	if len(refs) == 0 {
		log.Info("split complete", "source", src, "dir", dir, "chunks", 0)
		return res, nil
	}

	in, err := s.FS.OpenReaderAt(src)
	if err != nil {
		return nil, ioErr("open source", src, 0, err)
	}
	defer in.Close()

	for _, ref := range refs {
		if err := s.writeChunk(in, dir, ref); err != nil {
			return nil, err
		}
		log.Debug("chunk written", "source", src, "ordinal", ref.Ordinal, "offset", ref.Offset, "size", ref.Size)
		if s.OnChunk != nil {
			s.OnChunk(ref.Ordinal, len(refs))
		}
	}

	log.Info("split complete", "source", src, "dir", dir, "chunks", len(refs), "chunk_size", chunkSize)
	return res, nil
}

func (s *Splitter) writeChunk(in fs.ReaderAtCloser, dir string, ref Ref) error {
	path := filepath.Join(dir, ref.Name())

	if s.FS.Exists(path) {
		if err := s.FS.Remove(path); err != nil {
			return ioErr("remove stale chunk", path, ref.Ordinal, err)
		}
	}

	out, err := s.FS.Create(path)
	if err != nil {
		return ioErr("create chunk", path, ref.Ordinal, err)
	}
	if _, err := fs.Transfer(in, ref.Offset, ref.Size, out); err != nil {
		out.Close()
		return ioErr("write chunk", path, ref.Ordinal, err)
	}
	if err := out.Close(); err != nil {
		return ioErr("close chunk", path, ref.Ordinal, err)
	}
	return nil
}

// pruneStale removes ordinal files numbered above count. Other entries are
// left alone.
func (s *Splitter) pruneStale(dir string, count int) (int, error) {
	entries, err := s.FS.ReadDir(dir)
	if err != nil {
		return 0, ioErr("list chunk dir", dir, 0, err)
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		n, ok := ParseOrdinal(e.Name())
		if !ok || n <= count {
			continue
		}
		p := filepath.Join(dir, e.Name())
		if err := s.FS.Remove(p); err != nil {
			return removed, ioErr("remove stale chunk", p, n, err)
		}
		removed++
	}
	if removed > 0 {
		loggerOrDiscard(s.Logger).Debug("removed stale chunks", "dir", dir, "count", removed)
	}
	return removed, nil
}

func (r *SplitResult) String() string {
	return fmt.Sprintf("%d chunks of up to %d bytes from %q (%d bytes)", len(r.Chunks), r.ChunkSize, r.Source, r.Length)
}
