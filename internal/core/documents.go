// AngelaMos | 2026
// documents.go

package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

const documentMode fs.FileMode = 0o644

// DocumentStore persists whole named JSON documents. Load returns
// ErrNotFound when the document has never been written.
type DocumentStore interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
	Ping(ctx context.Context) error
}

type FileDocuments struct {
	dir string
}

func NewFileDocuments(dir string) (*FileDocuments, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileDocuments{dir: dir}, nil
}

func (d *FileDocuments) Path(name string) string {
	return filepath.Join(d.dir, name+".json")
}

func (d *FileDocuments) Load(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(d.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return data, nil
}

// Save writes to a temp file in the same directory and renames it over the
// target, so readers never observe a partially written document.
func (d *FileDocuments) Save(_ context.Context, name string, data []byte) error {
	tmp, err := os.CreateTemp(d.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(documentMode); err != nil {
		_ = tmp.Close()        //nolint:errcheck // cleanup on chmod failure
		_ = os.Remove(tmpName) //nolint:errcheck // cleanup on chmod failure
		return fmt.Errorf("save %s: %w", name, err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()        //nolint:errcheck // cleanup on write failure
		_ = os.Remove(tmpName) //nolint:errcheck // cleanup on write failure
		return fmt.Errorf("save %s: %w", name, err)
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()        //nolint:errcheck // cleanup on sync failure
		_ = os.Remove(tmpName) //nolint:errcheck // cleanup on sync failure
		return fmt.Errorf("save %s: %w", name, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName) //nolint:errcheck // cleanup on close failure
		return fmt.Errorf("save %s: %w", name, err)
	}

	if err := os.Rename(tmpName, d.Path(name)); err != nil {
		_ = os.Remove(tmpName) //nolint:errcheck // cleanup on rename failure
		return fmt.Errorf("save %s: %w", name, err)
	}

	return nil
}

func (d *FileDocuments) Ping(_ context.Context) error {
	info, err := os.Stat(d.dir)
	if err != nil {
		return fmt.Errorf("data dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data dir %s is not a directory", d.dir)
	}
	return nil
}

type MemoryDocuments struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemoryDocuments() *MemoryDocuments {
	return &MemoryDocuments{docs: make(map[string][]byte)}
}

func (m *MemoryDocuments) Load(_ context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.docs[name]
	if !ok {
		return nil, fmt.Errorf("load %s: %w", name, ErrNotFound)
	}

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MemoryDocuments) Save(_ context.Context, name string, data []byte) error {
	stored := make([]byte, len(data))
	copy(stored, data)

	m.mu.Lock()
	m.docs[name] = stored
	m.mu.Unlock()
	return nil
}

func (m *MemoryDocuments) Ping(_ context.Context) error {
	return nil
}
