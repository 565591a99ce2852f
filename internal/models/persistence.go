package models

import (
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// SaveDir is where named snapshots are written.
var SaveDir = ".saves"

const snapshotFile = "snapshot.yaml"

// Save writes the snapshot under SaveDir/name.
func (s *Snapshot) Save(name string) error {
	dir := filepath.Join(SaveDir, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, snapshotFile), data, 0644)
}

// LoadSnapshot reads a snapshot written by Save.
func LoadSnapshot(name string) (*Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(SaveDir, name, snapshotFile))
	if err != nil {
		return nil, err
	}
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSaves returns the names of saved snapshots.
func ListSaves() ([]string, error) {
	if _, err := os.Stat(SaveDir); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(SaveDir)
	if err != nil {
		return nil, err
	}

	var saves []string
	for _, entry := range entries {
		if entry.IsDir() {
			// snapshot.yaml marks a valid save
			if _, err := os.Stat(filepath.Join(SaveDir, entry.Name(), snapshotFile)); err == nil {
				saves = append(saves, entry.Name())
			}
		}
	}
	return saves, nil
}

// Store carries the snapshot between rounds within one process. The game
// loop writes it; the debug server reads it from another goroutine.
type Store struct {
	mu   sync.RWMutex
	snap *Snapshot
}

// NewStore returns an empty store.
func NewStore() *Store { return &Store{} }

// Put replaces the held snapshot with a copy of s.
func (st *Store) Put(s Snapshot) {
	s.Entries = append([]SnapshotEntry(nil), s.Entries...)
	st.mu.Lock()
	st.snap = &s
	st.mu.Unlock()
}

// Get returns a copy of the held snapshot.
func (st *Store) Get() (Snapshot, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if st.snap == nil {
		return Snapshot{}, false
	}
	s := *st.snap
	s.Entries = append([]SnapshotEntry(nil), s.Entries...)
	return s, true
}

// Clear drops the snapshot, as on "new game".
func (st *Store) Clear() {
	st.mu.Lock()
	st.snap = nil
	st.mu.Unlock()
}
