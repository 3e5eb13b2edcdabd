package archive

// Filesystem abstracts the file operations the pipeline performs, so tests
// can run against an in-memory tree. Reads are media/profile-picture
// existence probes; writes are the rendered output tree.
type Filesystem interface {
	// Exists reports whether a regular file exists at path.
	Exists(path string) bool

	// Glob returns the names of files matching the shell pattern.
	Glob(pattern string) ([]string, error)

	// MkdirAll creates the directory path along with any missing parents.
	MkdirAll(path string) error

	// WriteFile writes data to path, replacing any existing file.
	WriteFile(path string, data []byte) error

	// CopyFile copies the file at src to dst, replacing any existing file.
	CopyFile(src, dst string) error
}
