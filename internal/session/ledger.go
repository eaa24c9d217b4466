package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
)

var sessionsBucket = []byte("sessions")

// ErrNotFound is returned for unknown session ids.
var ErrNotFound = errors.New("session not found")

// Ledger persists session records.
type Ledger interface {
	Put(rec *Record) error
	Get(id string) (*Record, error)
	List() ([]*Record, error)
	Delete(id string) error
	Close() error
}

// BoltLedger is a Ledger stored in a bbolt database, one JSON value per
// session keyed by id.
type BoltLedger struct {
	db *bolt.DB
}

// OpenLedger opens or creates the ledger at path. A second process holding
// the file makes this fail after a short timeout.
func OpenLedger(path string) (*BoltLedger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open ledger %q: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init ledger %q: %w", path, err)
	}
	return &BoltLedger{db: db}, nil
}

func (l *BoltLedger) Put(rec *Record) error {
	encoded, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return l.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Put([]byte(rec.ID), encoded)
	})
}

func (l *BoltLedger) Get(id string) (*Record, error) {
	var rec Record
	err := l.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(sessionsBucket).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns every record, oldest first.
func (l *BoltLedger) List() ([]*Record, error) {
	var out []*Record
	err := l.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).ForEach(func(k, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("decode session %s: %w", k, err)
			}
			out = append(out, &rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (l *BoltLedger) Delete(id string) error {
	return l.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(sessionsBucket)
		if b.Get([]byte(id)) == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return b.Delete([]byte(id))
	})
}

func (l *BoltLedger) Close() error {
	return l.db.Close()
}
