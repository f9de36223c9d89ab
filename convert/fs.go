package convert

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
)

// FS is the file access used by a Converter. Paths are slash-separated and
// relative to the FS root.
type FS interface {
	ReadFile(name string) ([]byte, error)
	// WriteFile creates or truncates name, creating parent directories.
	WriteFile(name string, data []byte) error
}

// DirFS is an FS rooted at a directory on disk.
type DirFS string

// ReadFile implements FS.
func (d DirFS) ReadFile(name string) ([]byte, error) {
	p := d.join(name)
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p, err)
	}
	return data, nil
}

// WriteFile implements FS.
func (d DirFS) WriteFile(name string, data []byte) error {
	p := d.join(name)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", p, err)
	}
	if err := os.WriteFile(p, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", p, err)
	}
	return nil
}

func (d DirFS) join(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(string(d), filepath.FromSlash(name))
}

// MemFS is an in-memory FS.
type MemFS struct {
	files map[string][]byte
}

// NewMemFS returns an empty in-memory FS.
func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

// ReadFile implements FS.
func (m *MemFS) ReadFile(name string) ([]byte, error) {
	data, ok := m.files[path.Clean(name)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

// WriteFile implements FS.
func (m *MemFS) WriteFile(name string, data []byte) error {
	m.files[path.Clean(name)] = append([]byte(nil), data...)
	return nil
}

// Names returns all stored file names, sorted.
func (m *MemFS) Names() []string {
	names := make([]string, 0, len(m.files))
	for n := range m.files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
