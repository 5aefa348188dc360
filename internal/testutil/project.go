// Package testutil provides helpers for building throwaway lence projects
// in tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Project is a temporary project directory with the conventional layout.
type Project struct {
	t   *testing.T
	Dir string
}

// NewProject creates an empty project under t.TempDir.
func NewProject(t *testing.T) *Project {
	t.Helper()
	dir := t.TempDir()
	for _, sub := range []string{"pages", "config", "data", "static"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			t.Fatalf("failed to create %s: %v", sub, err)
		}
	}
	return &Project{t: t, Dir: dir}
}

// WritePage writes a markdown page relative to pages/.
func (p *Project) WritePage(relPath, content string) {
	p.t.Helper()
	p.write(filepath.Join("pages", relPath), content)
}

// WriteConfig writes a file relative to config/.
func (p *Project) WriteConfig(name, content string) {
	p.t.Helper()
	p.write(filepath.Join("config", name), content)
}

// WriteData writes a file relative to data/ and returns its absolute path.
func (p *Project) WriteData(name, content string) string {
	p.t.Helper()
	p.write(filepath.Join("data", name), content)
	return filepath.Join(p.Dir, "data", name)
}

// PagesDir returns the pages directory.
func (p *Project) PagesDir() string {
	return filepath.Join(p.Dir, "pages")
}

func (p *Project) write(relPath, content string) {
	p.t.Helper()
	full := filepath.Join(p.Dir, relPath)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		p.t.Fatalf("failed to create directory for %s: %v", relPath, err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		p.t.Fatalf("failed to write %s: %v", relPath, err)
	}
}
