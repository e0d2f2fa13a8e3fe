package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

type document struct {
	Version int               `json:"version"`
	Entries map[string]string `json:"entries"`
}

// JSONStore keeps every entry in one JSON file, rewritten atomically on each change.
// An empty path keeps the entries in memory only.
type JSONStore struct {
	path     string
	capacity int

	mu  sync.RWMutex
	doc *document
}

func NewJSONStore(path string, capacity int) *JSONStore {
	return &JSONStore{path: path, capacity: capacity}
}

// NewMemoryStore returns a loaded store that never touches disk.
func NewMemoryStore(capacity int) *JSONStore {
	return &JSONStore{
		capacity: capacity,
		doc:      &document{Version: 1, Entries: map[string]string{}},
	}
}

func (s *JSONStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		s.doc = &document{Version: 1, Entries: map[string]string{}}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.doc = &document{Version: 1, Entries: map[string]string{}}
	return s.save()
}

func (s *JSONStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc != nil {
		return nil
	}
	if s.path == "" {
		s.doc = &document{Version: 1, Entries: map[string]string{}}
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Entries == nil {
		doc.Entries = map[string]string{}
	}
	s.doc = doc
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

// save writes to a temp file and renames it over the store.
func (s *JSONStore) save() error {
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return "", false, ErrNotLoaded
	}
	v, ok := s.doc.Entries[key]
	return v, ok, nil
}

func (s *JSONStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ErrNotLoaded
	}

	prev := 0
	old, existed := s.doc.Entries[key]
	if existed {
		prev = EntrySize(key, old)
	}
	if err := CheckQuota(key, s.usage(), prev, EntrySize(key, value), s.capacity); err != nil {
		return err
	}

	s.doc.Entries[key] = value
	if err := s.save(); err != nil {
		if existed {
			s.doc.Entries[key] = old
		} else {
			delete(s.doc.Entries, key)
		}
		return err
	}
	return nil
}

func (s *JSONStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ErrNotLoaded
	}
	old, ok := s.doc.Entries[key]
	if !ok {
		return nil
	}
	delete(s.doc.Entries, key)
	if err := s.save(); err != nil {
		s.doc.Entries[key] = old
		return err
	}
	return nil
}

func (s *JSONStore) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return nil, ErrNotLoaded
	}
	keys := make([]string, 0, len(s.doc.Entries))
	for k := range s.doc.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *JSONStore) All() (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return nil, ErrNotLoaded
	}
	out := make(map[string]string, len(s.doc.Entries))
	for k, v := range s.doc.Entries {
		out[k] = v
	}
	return out, nil
}

func (s *JSONStore) Usage() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return 0, ErrNotLoaded
	}
	return s.usage(), nil
}

func (s *JSONStore) usage() int {
	n := 0
	for k, v := range s.doc.Entries {
		n += EntrySize(k, v)
	}
	return n
}

func (s *JSONStore) Capacity() int {
	return s.capacity
}

func (s *JSONStore) GetConfigPath() string {
	if s.path == "" {
		return ":memory:"
	}
	return s.path
}
