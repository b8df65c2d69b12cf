package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"vocabquiz/internal/stats"
)

// FileStore writes one JSON file per session under Dir. Files older than
// TTL, unreadable JSON and inconsistent counters are removed on load.
type FileStore struct {
	Dir string
	TTL time.Duration

	mu sync.Mutex
}

// NewFileStore returns a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string, ttl time.Duration) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create sessions directory: %w", err)
	}
	return &FileStore{Dir: dir, TTL: ttl}, nil
}

// path returns the session file for id, refusing anything that is not a
// UUID or that would resolve outside Dir.
func (s *FileStore) path(id string) (string, error) {
	if !ValidID(id) {
		return "", ErrInvalidID
	}
	p := filepath.Join(s.Dir, id+".json")

	absDir, err := filepath.Abs(s.Dir)
	if err != nil {
		return "", err
	}
	absPath, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(absPath, filepath.Clean(absDir)+string(filepath.Separator)) {
		return "", ErrInvalidID
	}
	return p, nil
}

func (s *FileStore) Load(_ context.Context, id string) (stats.Stats, error) {
	p, err := s.path(id)
	if err != nil {
		return stats.Stats{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return stats.Stats{}, ErrNotFound
		}
		return stats.Stats{}, err
	}
	if s.TTL > 0 && time.Since(info.ModTime()) > s.TTL {
		_ = os.Remove(p)
		return stats.Stats{}, ErrNotFound
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return stats.Stats{}, err
	}
	var st stats.Stats
	if err := json.Unmarshal(data, &st); err != nil || !st.Valid() {
		_ = os.Remove(p)
		return stats.Stats{}, ErrNotFound
	}

	now := time.Now()
	_ = os.Chtimes(p, now, now)
	return st, nil
}

func (s *FileStore) Save(_ context.Context, id string, st stats.Stats) error {
	p, err := s.path(id)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return os.Rename(tmp, p)
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	p, err := s.path(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Cleanup removes session files last modified more than maxAge ago.
func (s *FileStore) Cleanup(maxAge time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.Dir, entry.Name())); err != nil {
				errs = append(errs, err)
				continue
			}
			removed++
		}
	}
	return removed, errors.Join(errs...)
}
