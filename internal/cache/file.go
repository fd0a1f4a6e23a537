package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps the resolution memo in a single JSON file. Loads
// happen once at construction; every Put rewrites the file.
type FileStore struct {
	path    string
	entries map[string]Entry
	mu      sync.RWMutex
}

// NewFileStore opens or creates a file-backed store at path. A
// corrupt file is discarded and the store starts fresh.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:    path,
		entries: make(map[string]Entry),
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read cache: %w", err)
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &s.entries); err != nil {
				s.entries = make(map[string]Entry)
			}
		}
	}

	return s, nil
}

func (s *FileStore) Get(_ context.Context, ean string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[ean]
	return entry, ok, nil
}

func (s *FileStore) Put(_ context.Context, ean string, entry Entry) error {
	s.mu.Lock()
	s.entries[ean] = entry
	s.mu.Unlock()
	return s.save()
}

// Clear removes every entry and truncates the backing file
func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.entries = make(map[string]Entry)
	s.mu.Unlock()
	return s.save()
}

// Len reports the number of cached resolutions
func (s *FileStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *FileStore) save() error {
	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
	}

	s.mu.RLock()
	data, err := json.MarshalIndent(s.entries, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	// Write-then-rename so a crash mid-write cannot leave a truncated
	// cache behind.
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "cache-*.json")
	if err != nil {
		return fmt.Errorf("create temp cache: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cache: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("chmod cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace cache: %w", err)
	}
	return nil
}
