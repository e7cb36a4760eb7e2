package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const entryExt = ".json"

// Cache errors.
var (
	ErrNotFound   = errors.New("cache entry not found")
	ErrExpired    = errors.New("cache entry expired")
	ErrInvalidKey = errors.New("cache key cannot be empty")
	ErrDisabled   = errors.New("cache is disabled")
	ErrNoDir      = errors.New("cache directory cannot be empty")
)

// FileStore caches pages as JSON files in a single directory.
type FileStore struct {
	dir     string
	enabled bool
	ttl     time.Duration
	maxSize int64

	mu sync.RWMutex
}

// NewFileStore creates a store under dir. A disabled store accepts every call
// and returns ErrDisabled. maxSizeMB of 0 means unlimited.
func NewFileStore(dir string, enabled bool, ttl time.Duration, maxSizeMB int) (*FileStore, error) {
	if !enabled {
		return &FileStore{}, nil
	}
	if dir == "" {
		return nil, ErrNoDir
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &FileStore{
		dir:     dir,
		enabled: true,
		ttl:     ttl,
		maxSize: int64(maxSizeMB) * bytesPerMB,
	}, nil
}

// Enabled reports whether the store caches anything.
func (s *FileStore) Enabled() bool {
	return s != nil && s.enabled
}

// Dir returns the cache directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Get returns the live entry for key.
func (s *FileStore) Get(key string) (*CacheEntry, error) {
	if !s.Enabled() {
		return nil, ErrDisabled
	}
	if key == "" {
		return nil, ErrInvalidKey
	}

	s.mu.RLock()
	path := s.path(key)
	data, err := os.ReadFile(path)
	s.mu.RUnlock()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading cache file: %w", err)
	}

	var entry CacheEntry
	if err = json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decoding cache entry: %w", err)
	}
	if entry.IsExpired() {
		s.mu.Lock()
		_ = os.Remove(path)
		s.mu.Unlock()
		return nil, ErrExpired
	}
	return &entry, nil
}

// Set stores data under key with the store TTL, replacing any existing entry.
func (s *FileStore) Set(key string, data json.RawMessage) error {
	if !s.Enabled() {
		return ErrDisabled
	}
	if key == "" {
		return ErrInvalidKey
	}

	raw, err := json.Marshal(NewCacheEntry(key, data, s.ttl))
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(key)
	tmp := path + ".tmp"
	if err = os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	if err = os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming cache file: %w", err)
	}
	if s.maxSize > 0 {
		return s.pruneLocked()
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (s *FileStore) Delete(key string) error {
	if !s.Enabled() {
		return ErrDisabled
	}
	if key == "" {
		return ErrInvalidKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting cache file: %w", err)
	}
	return nil
}

// DeletePrefix removes every entry whose key starts with prefix and returns
// how many were removed.
func (s *FileStore) DeletePrefix(prefix string) (int, error) {
	if !s.Enabled() {
		return 0, ErrDisabled
	}
	if prefix == "" {
		return 0, ErrInvalidKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.entryNamesLocked()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, name := range names {
		if !strings.HasPrefix(name, sanitize(prefix)) {
			continue
		}
		if err = os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, fmt.Errorf("removing cache file %s: %w", name, err)
		}
		removed++
	}
	return removed, nil
}

// Clear removes all entries and returns how many were removed.
func (s *FileStore) Clear() (int, error) {
	if !s.Enabled() {
		return 0, ErrDisabled
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.entryNamesLocked()
	if err != nil {
		return 0, err
	}
	for i, name := range names {
		if err = os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return i, fmt.Errorf("removing cache file %s: %w", name, err)
		}
	}
	return len(names), nil
}

// CleanupExpired removes expired entries and returns how many were removed.
// Unreadable files are skipped.
func (s *FileStore) CleanupExpired() (int, error) {
	if !s.Enabled() {
		return 0, ErrDisabled
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.entryNamesLocked()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, name := range names {
		path := filepath.Join(s.dir, name)
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			continue
		}
		var entry CacheEntry
		if json.Unmarshal(data, &entry) != nil {
			continue
		}
		if entry.IsExpired() && os.Remove(path) == nil {
			removed++
		}
	}
	return removed, nil
}

// Count returns the number of entries on disk, expired ones included.
func (s *FileStore) Count() (int, error) {
	if !s.Enabled() {
		return 0, ErrDisabled
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	names, err := s.entryNamesLocked()
	return len(names), err
}

// Size returns the total bytes used by entries.
func (s *FileStore) Size() (int64, error) {
	if !s.Enabled() {
		return 0, ErrDisabled
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	files, err := s.statLocked()
	if err != nil {
		return 0, err
	}
	var total int64
	for _, f := range files {
		total += f.size
	}
	return total, nil
}

type fileStat struct {
	name    string
	size    int64
	modTime time.Time
}

// pruneLocked removes the oldest entries until the store fits maxSize.
func (s *FileStore) pruneLocked() error {
	files, err := s.statLocked()
	if err != nil {
		return err
	}
	var total int64
	for _, f := range files {
		total += f.size
	}
	if total <= s.maxSize {
		return nil
	}
	sort.Slice(files, func(i, j int) bool { return files[i].modTime.Before(files[j].modTime) })
	for _, f := range files {
		if total <= s.maxSize {
			break
		}
		if rmErr := os.Remove(filepath.Join(s.dir, f.name)); rmErr == nil {
			total -= f.size
		}
	}
	return nil
}

func (s *FileStore) statLocked() ([]fileStat, error) {
	names, err := s.entryNamesLocked()
	if err != nil {
		return nil, err
	}
	files := make([]fileStat, 0, len(names))
	for _, name := range names {
		info, statErr := os.Stat(filepath.Join(s.dir, name))
		if statErr != nil {
			continue
		}
		files = append(files, fileStat{name: name, size: info.Size(), modTime: info.ModTime()})
	}
	return files, nil
}

func (s *FileStore) entryNamesLocked() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading cache directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != entryExt {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, sanitize(key)+entryExt)
}

// sanitize keeps keys safe as file names.
func sanitize(key string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, key)
}
