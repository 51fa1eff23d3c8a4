package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileKV is a KV persisted as a single JSON object on disk. It is loaded
// once at open and rewritten atomically on every Set. Safe for concurrent
// use within one process; two processes writing the same file is
// last-write-wins on the whole value, not a merge.
type FileKV struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

// OpenFileKV loads (or lazily creates) the KV file at path. A missing or
// unreadable file starts empty rather than failing.
func OpenFileKV(path string) (*FileKV, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	kv := &FileKV{path: path, data: make(map[string]string)}
	b, err := os.ReadFile(path)
	if err != nil {
		return kv, nil
	}
	if err := json.Unmarshal(b, &kv.data); err != nil {
		kv.data = make(map[string]string)
	}
	return kv, nil
}

func (f *FileKV) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

func (f *FileKV) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	b, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace cache: %w", err)
	}
	return nil
}

// MemKV is an in-memory KV for tests.
type MemKV struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemKV() *MemKV {
	return &MemKV{data: make(map[string]string)}
}

func (m *MemKV) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *MemKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}
