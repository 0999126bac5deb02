// Package hostfs provides the OS-backed FileResolver for any front-end
// driving the preprocess package; the package tests use an in-memory
// resolver instead.
package hostfs

import (
	"fmt"
	"os"
	"path/filepath"
)

// OSResolver resolves #include paths against the real filesystem, relative
// to Dir when a path is not already absolute.
type OSResolver struct {
	// Dir is the base directory #include paths are resolved against. Empty
	// means the process working directory.
	Dir string
}

// NewOSResolver returns a resolver rooted at dir.
func NewOSResolver(dir string) *OSResolver {
	return &OSResolver{Dir: dir}
}

// Canonical returns an absolute, cleaned path uniquely identifying the file
// named by path, suitable for cycle detection in an include stack.
func (r *OSResolver) Canonical(path string) (string, error) {
	p := path
	if !filepath.IsAbs(p) && r.Dir != "" {
		p = filepath.Join(r.Dir, p)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("hostfs: resolve %s: %w", path, err)
	}
	return filepath.Clean(abs), nil
}

// ReadFile reads the named file's contents after resolving it the same way
// Canonical does.
func (r *OSResolver) ReadFile(path string) (string, error) {
	canon, err := r.Canonical(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(canon)
	if err != nil {
		return "", fmt.Errorf("hostfs: read %s: %w", path, err)
	}
	return string(data), nil
}
