// Package session tracks split/merge round trips. Each session owns a chunk
// directory <root>/<id> and a ledger record holding the source digest, so a
// later assemble needs nothing but the id.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/keshon/bsplit/internal/chunk"
	"github.com/keshon/bsplit/internal/digest"
	"github.com/keshon/bsplit/internal/fs"
	"github.com/keshon/bsplit/internal/logging"
)

type State string

const (
	StateSplit    State = "split"
	StateMerged   State = "merged"
	StateMismatch State = "mismatch"
)

// ErrAlreadyMerged is returned when assembling a session whose chunks were
// already consumed by a verified merge.
var ErrAlreadyMerged = errors.New("session already merged")

// Record is the ledger entry of one session.
type Record struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Size      int64     `json:"size"`
	ChunkSize int64     `json:"chunk_size"`
	Chunks    int       `json:"chunks"`
	Digest    string    `json:"digest"`
	Algorithm string    `json:"algorithm"`
	State     State     `json:"state"`
	Target    string    `json:"target,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Manager runs sessions against a root directory.
type Manager struct {
	Root     string
	FS       fs.FS
	Ledger   Ledger
	Digest   *digest.Digester
	Splitter *chunk.Splitter
	Logger   *slog.Logger

	// OnChunk is handed to the splitter and merger of each operation.
	OnChunk chunk.ProgressFunc

	now func() time.Time
}

// NewManager wires a Manager with the default chunk cap.
func NewManager(root string, fsys fs.FS, ledger Ledger, d *digest.Digester, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Manager{
		Root:     root,
		FS:       fsys,
		Ledger:   ledger,
		Digest:   d,
		Splitter: chunk.NewSplitter(fsys, logger),
		Logger:   logger,
		now:      time.Now,
	}
}

// Dir is the chunk directory of session id.
func (m *Manager) Dir(id string) string {
	return filepath.Join(m.Root, id)
}

// Start digests src, splits it into a fresh session directory and records
// the session. A failed split leaves no directory and no record behind.
func (m *Manager) Start(src string, chunkSize int64) (*Record, error) {
	sum, err := m.Digest.File(m.FS, src)
	if err != nil {
		return nil, fmt.Errorf("digest source %q: %w", src, err)
	}

	id := uuid.NewString()
	dir := m.Dir(id)

	sp := *m.Splitter
	sp.OnChunk = m.OnChunk
	res, err := sp.Split(src, dir, chunkSize)
	if err != nil {
		m.discard(dir)
		return nil, err
	}

	now := m.now()
	rec := &Record{
		ID:        id,
		Source:    src,
		Size:      res.Length,
		ChunkSize: res.ChunkSize,
		Chunks:    len(res.Chunks),
		Digest:    sum,
		Algorithm: m.Digest.Algorithm(),
		State:     StateSplit,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.Ledger.Put(rec); err != nil {
		m.discard(dir)
		return nil, fmt.Errorf("record session %s: %w", id, err)
	}
	m.Logger.Info("session started", "id", id, "source", src, "chunks", rec.Chunks)
	return rec, nil
}

// discard removes the chunk directory of a session that was never recorded.
func (m *Manager) discard(dir string) {
	if err := m.FS.RemoveAll(dir); err != nil {
		m.Logger.Warn("cleanup failed", "dir", dir, "error", err)
	}
}

// Assemble merges the chunks of session id into target and verifies it
// against the recorded digest. A mismatch is reported through the
// Verification and the StateMismatch record, not as an error.
func (m *Manager) Assemble(id, target string) (*Record, *chunk.Verification, error) {
	rec, err := m.Ledger.Get(id)
	if err != nil {
		return nil, nil, err
	}
	if rec.State == StateMerged {
		return rec, nil, fmt.Errorf("%w: %s", ErrAlreadyMerged, id)
	}

	d := m.Digest
	if rec.Algorithm != d.Algorithm() {
		if d, err = digest.New(rec.Algorithm); err != nil {
			return rec, nil, err
		}
	}

	var v *chunk.Verification
	if rec.Chunks == 0 {
		v, err = m.assembleEmpty(rec, target, d)
	} else {
		mg := chunk.NewMerger(m.FS, d, m.Logger)
		mg.OnChunk = m.OnChunk
		v, err = mg.Merge(m.Dir(id), target, rec.Digest)
	}
	if err != nil {
		return rec, nil, err
	}

	rec.Target = target
	rec.UpdatedAt = m.now()
	rec.State = StateMerged
	if !v.Verified {
		rec.State = StateMismatch
	}
	if err := m.Ledger.Put(rec); err != nil {
		return rec, v, fmt.Errorf("record session %s: %w", id, err)
	}
	return rec, v, nil
}

// assembleEmpty handles sessions of an empty source, whose directory holds
// no chunks for the merger to read.
func (m *Manager) assembleEmpty(rec *Record, target string, d *digest.Digester) (*chunk.Verification, error) {
	if err := m.FS.WriteFile(target, nil, 0o644); err != nil {
		return nil, fmt.Errorf("write target %q: %w", target, err)
	}
	actual, err := d.File(m.FS, target)
	if err != nil {
		return nil, err
	}
	v := &chunk.Verification{
		Target:   target,
		Expected: rec.Digest,
		Actual:   actual,
		Verified: digest.Equal(actual, rec.Digest),
	}
	if v.Verified {
		if err := m.FS.RemoveAll(m.Dir(rec.ID)); err != nil {
			return v, fmt.Errorf("remove chunk dir: %w", err)
		}
	}
	return v, nil
}

// Get returns the record of session id.
func (m *Manager) Get(id string) (*Record, error) {
	return m.Ledger.Get(id)
}

// List returns every session, oldest first.
func (m *Manager) List() ([]*Record, error) {
	return m.Ledger.List()
}

// Drop deletes the chunk directory and the record of session id.
func (m *Manager) Drop(id string) error {
	if _, err := m.Ledger.Get(id); err != nil {
		return err
	}
	if err := m.FS.RemoveAll(m.Dir(id)); err != nil {
		return fmt.Errorf("remove chunk dir of %s: %w", id, err)
	}
	if err := m.Ledger.Delete(id); err != nil {
		return err
	}
	m.Logger.Info("session dropped", "id", id)
	return nil
}
