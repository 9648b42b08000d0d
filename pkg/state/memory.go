package state

import (
	"sort"
	"sync"
)

// MemoryStore is the in-memory Store used by tests and as the base for the
// file-backed store. The mutex is belt-and-braces; a reconciliation pass is
// single-threaded.
type MemoryStore struct {
	mu    sync.RWMutex
	flags map[string]bool
	data  map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		flags: make(map[string]bool),
		data:  make(map[string]string),
	}
}

func (s *MemoryStore) SetFlag(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags[name] = true
	return nil
}

func (s *MemoryStore) ClearFlag(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flags, name)
	return nil
}

func (s *MemoryStore) HasFlag(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flags[name]
}

func (s *MemoryStore) Flags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.flags))
	for name := range s.flags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}
