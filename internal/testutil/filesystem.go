package testutil

import (
	"fmt"
	"path/filepath"
	"sort"

	"igpages/internal/archive"
)

// MockFilesystem is an in-memory filesystem for testing. It records every
// write so tests can assert on the produced output tree.
type MockFilesystem struct {
	files     map[string][]byte
	dirs      map[string]bool
	failWrite map[string]bool
	failMkdir map[string]bool
}

// NewMockFilesystem creates a new empty mock filesystem.
func NewMockFilesystem() *MockFilesystem {
	return &MockFilesystem{
		files:     make(map[string][]byte),
		dirs:      make(map[string]bool),
		failWrite: make(map[string]bool),
		failMkdir: make(map[string]bool),
	}
}

// AddFile adds a file to the mock filesystem.
func (m *MockFilesystem) AddFile(path string, content []byte) {
	m.files[path] = content
}

// FailWrite makes WriteFile to the given path return an error.
func (m *MockFilesystem) FailWrite(path string) {
	m.failWrite[path] = true
}

// FailMkdir makes MkdirAll of the given path return an error.
func (m *MockFilesystem) FailMkdir(path string) {
	m.failMkdir[path] = true
}

func (m *MockFilesystem) Exists(path string) bool {
	_, ok := m.files[path]
	return ok
}

func (m *MockFilesystem) Glob(pattern string) ([]string, error) {
	var matches []string
	for path := range m.files {
		ok, err := filepath.Match(pattern, path)
		if err != nil {
			return nil, err
		}
		if ok {
			matches = append(matches, path)
		}
	}
	sort.Strings(matches)
	return matches, nil
}

func (m *MockFilesystem) MkdirAll(path string) error {
	if m.failMkdir[path] {
		return fmt.Errorf("mkdir %s: injected failure", path)
	}
	m.dirs[path] = true
	return nil
}

func (m *MockFilesystem) WriteFile(path string, data []byte) error {
	if m.failWrite[path] {
		return fmt.Errorf("write %s: injected failure", path)
	}
	m.files[path] = data
	return nil
}

func (m *MockFilesystem) CopyFile(src, dst string) error {
	content, ok := m.files[src]
	if !ok {
		return fmt.Errorf("copy %s: file not found", src)
	}
	m.files[dst] = content
	return nil
}

// ReadFile returns the content of a file, or nil if absent.
func (m *MockFilesystem) ReadFile(path string) []byte {
	return m.files[path]
}

// Paths returns all file paths in the mock filesystem, sorted.
func (m *MockFilesystem) Paths() []string {
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Compile-time check that MockFilesystem implements archive.Filesystem
var _ archive.Filesystem = (*MockFilesystem)(nil)
