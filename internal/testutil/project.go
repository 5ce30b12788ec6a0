package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Project is a throwaway on-disk project layout for workflow tests.
type Project struct {
	Dir string
	t   *testing.T
}

// NewProject creates a temp project root.
func NewProject(t *testing.T) *Project {
	t.Helper()
	return &Project{Dir: t.TempDir(), t: t}
}

// WriteFile writes content at a path relative to the project root, creating
// parent directories.
func (p *Project) WriteFile(rel, content string) *Project {
	p.t.Helper()
	full := filepath.Join(p.Dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		p.t.Fatalf("mkdir %s: %v", rel, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		p.t.Fatalf("write %s: %v", rel, err)
	}
	return p
}

// Exists reports whether a path relative to the project root exists.
func (p *Project) Exists(rel string) bool {
	_, err := os.Stat(filepath.Join(p.Dir, filepath.FromSlash(rel)))
	return err == nil
}
