// Package config loads project configuration: the data sources and the
// optional explicit menu, both YAML files under the project's config/
// directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/lencelabs/lence/internal/pages"
)

// Source is one configured data source.
type Source struct {
	// Kind of file backing the source: "csv" or "parquet".
	Kind string `yaml:"type"`
	// Path to the data file, relative to the project directory unless
	// absolute.
	Path string `yaml:"path"`
	// Description is free-form text shown in the source listing.
	Description string `yaml:"description"`
}

// Config is the full project configuration.
type Config struct {
	// Sources maps source names to their definitions.
	Sources map[string]Source
	// Menu is an explicit sidebar menu. When empty, the menu is derived
	// from the pages directory instead.
	Menu []pages.MenuItem
}

// Project describes a lence project directory and its conventional layout.
type Project struct {
	Dir string
}

// NewProject returns a project rooted at dir, resolved to an absolute path.
func NewProject(dir string) (Project, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Project{}, fmt.Errorf("failed to resolve project directory: %w", err)
	}
	return Project{Dir: abs}, nil
}

// PagesDir returns the markdown pages directory.
func (p Project) PagesDir() string { return filepath.Join(p.Dir, "pages") }

// ConfigDir returns the configuration directory.
func (p Project) ConfigDir() string { return filepath.Join(p.Dir, "config") }

// DataDir returns the data files directory.
func (p Project) DataDir() string { return filepath.Join(p.Dir, "data") }

// StaticDir returns the project's static assets directory.
func (p Project) StaticDir() string { return filepath.Join(p.Dir, "static") }

// ResolveDataPath resolves a source path against the project directory.
func (p Project) ResolveDataPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.Dir, path)
}

type sourcesFile struct {
	Sources map[string]Source `yaml:"sources"`
}

type menuFile struct {
	Menu []pages.MenuItem `yaml:"menu"`
}

// Load loads the project configuration. Missing config files yield an empty
// configuration; malformed YAML is an error.
func Load(p Project) (*Config, error) {
	var sf sourcesFile
	if err := loadYAML(filepath.Join(p.ConfigDir(), "sources.yaml"), &sf); err != nil {
		return nil, err
	}
	if sf.Sources == nil {
		sf.Sources = map[string]Source{}
	}

	var mf menuFile
	if err := loadYAML(filepath.Join(p.ConfigDir(), "menu.yaml"), &mf); err != nil {
		return nil, err
	}

	return &Config{Sources: sf.Sources, Menu: mf.Menu}, nil
}

// loadYAML decodes a YAML file into out, treating a missing file as empty.
func loadYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
