package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"igpages/internal/archive"
)

// OSFilesystem is the real filesystem implementation of archive.Filesystem.
type OSFilesystem struct{}

// NewOSFilesystem creates a filesystem that operates on the real filesystem.
func NewOSFilesystem() *OSFilesystem {
	return &OSFilesystem{}
}

// Exists reports whether a regular file exists at path.
func (f *OSFilesystem) Exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// Glob returns the names of files matching the shell pattern.
func (f *OSFilesystem) Glob(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}

// MkdirAll creates the directory path along with any missing parents.
func (f *OSFilesystem) MkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

// WriteFile writes data to path, replacing any existing file.
func (f *OSFilesystem) WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

// CopyFile copies the file at src to dst, replacing any existing file.
func (f *OSFilesystem) CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return out.Close()
}

// Compile-time check that OSFilesystem implements archive.Filesystem
var _ archive.Filesystem = (*OSFilesystem)(nil)
