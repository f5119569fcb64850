package bundle

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"sync"
)

// OutputFileSystem is where a Compiler writes its assets.
type OutputFileSystem interface {
	MkdirAll(dir string, perm fs.FileMode) error
	WriteFile(name string, data []byte, perm fs.FileMode) error
}

// OSFileSystem writes to the local filesystem.
type OSFileSystem struct{}

// MkdirAll implements the OutputFileSystem interface.
func (OSFileSystem) MkdirAll(dir string, perm fs.FileMode) error {
	return os.MkdirAll(filepath.FromSlash(dir), perm)
}

// WriteFile implements the OutputFileSystem interface.
func (OSFileSystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(filepath.FromSlash(name), data, perm)
}

// MemFS is an in-memory OutputFileSystem.
type MemFS struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMemFS creates an empty MemFS.
func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

// MkdirAll implements the OutputFileSystem interface.
func (*MemFS) MkdirAll(string, fs.FileMode) error {
	return nil
}

// WriteFile implements the OutputFileSystem interface.
func (m *MemFS) WriteFile(name string, data []byte, _ fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[path.Clean(name)] = append([]byte(nil), data...)

	return nil
}

// ReadFile returns the contents of a written file.
func (m *MemFS) ReadFile(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.files[path.Clean(name)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	return append([]byte(nil), data...), nil
}

// Names returns the sorted names of all written files.
func (m *MemFS) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.files))

	for name := range m.files {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
