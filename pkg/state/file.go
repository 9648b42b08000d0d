package state

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// FileStore persists flags and key-value facts as a JSON document:
//
//	{"flags": {"etcd.available": true}, "data": {"sdn_subnet": "10.1.2.0/24"}}
//
// Every mutation rewrites the file through a temp-file rename so a crash
// never leaves a truncated document. Reads are served from the in-memory
// raw JSON, refreshed on Open.
type FileStore struct {
	mu   sync.Mutex
	path string
	raw  []byte
}

// Open loads (or initializes) the state file at path.
func Open(path string) (*FileStore, error) {
	s := &FileStore{path: path, raw: []byte(`{"flags":{},"data":{}}`)}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if !gjson.ValidBytes(data) {
			return nil, errors.Errorf("state file %s is not valid JSON", path)
		}
		s.raw = data
	case os.IsNotExist(err):
		// First run; the file appears on the first mutation.
	default:
		return nil, errors.Wrapf(err, "failed to read state file %s", path)
	}
	return s, nil
}

func (s *FileStore) flush() error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".state-*")
	if err != nil {
		return errors.Wrap(err, "failed to create temp state file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(s.raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "failed to write state file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "failed to close state file")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "failed to replace state file %s", s.path)
	}
	return nil
}

func (s *FileStore) setPath(path string, value interface{}) error {
	raw, err := sjson.SetBytes(s.raw, path, value)
	if err != nil {
		return errors.Wrapf(err, "failed to update state path %s", path)
	}
	s.raw = raw
	return s.flush()
}

func (s *FileStore) SetFlag(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setPath("flags."+escapeKey(name), true)
}

func (s *FileStore) ClearFlag(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := sjson.DeleteBytes(s.raw, "flags."+escapeKey(name))
	if err != nil {
		return errors.Wrapf(err, "failed to clear flag %s", name)
	}
	s.raw = raw
	return s.flush()
}

func (s *FileStore) HasFlag(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gjson.GetBytes(s.raw, "flags."+escapeKey(name)).Bool()
}

func (s *FileStore) Flags() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var names []string
	gjson.GetBytes(s.raw, "flags").ForEach(func(key, value gjson.Result) bool {
		if value.Bool() {
			names = append(names, key.String())
		}
		return true
	})
	sort.Strings(names)
	return names
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setPath("data."+escapeKey(key), value)
}

func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := gjson.GetBytes(s.raw, "data."+escapeKey(key))
	if !res.Exists() {
		return "", false
	}
	return res.String(), true
}

// escapeKey protects dots in flag names like "kube-apiserver.available" from
// being treated as path separators by gjson/sjson.
func escapeKey(key string) string {
	out := make([]byte, 0, len(key))
	for i := 0; i < len(key); i++ {
		if key[i] == '.' || key[i] == '*' || key[i] == '?' || key[i] == '\\' {
			out = append(out, '\\')
		}
		out = append(out, key[i])
	}
	return string(out)
}
