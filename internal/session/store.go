package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrNoRecord is returned by Store.Load when nothing is persisted.
var ErrNoRecord = errors.New("no stored session")

// Record is what survives a restart.
type Record struct {
	Token  string `json:"token"`
	UserID int64  `json:"userId,omitempty"`
}

// Store persists the session record.
type Store interface {
	Load() (Record, error)
	Save(Record) error
	Clear() error
}

// FileStore keeps the record as JSON in a single file with mode 0600.
type FileStore struct {
	Path string
}

// Load implements Store.
func (f FileStore) Load() (Record, error) {
	data, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return Record{}, ErrNoRecord
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to read session: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("invalid session file: %w", err)
	}
	if rec.Token == "" {
		return Record{}, ErrNoRecord
	}
	return rec, nil
}

// Save implements Store. The parent directory is created with mode 0700.
func (f FileStore) Save(rec Record) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.Path, data, 0600)
}

// Clear implements Store. Clearing a missing file is not an error.
func (f FileStore) Clear() error {
	if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu  sync.Mutex
	rec *Record
}

// NewMemoryStore returns a MemoryStore, optionally seeded with a token.
func NewMemoryStore(token string) *MemoryStore {
	m := &MemoryStore{}
	if token != "" {
		m.rec = &Record{Token: token}
	}
	return m
}

// Load implements Store.
func (m *MemoryStore) Load() (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rec == nil {
		return Record{}, ErrNoRecord
	}
	return *m.rec, nil
}

// Save implements Store.
func (m *MemoryStore) Save(rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = &rec
	return nil
}

// Clear implements Store.
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = nil
	return nil
}
