package cli

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/lencelabs/lence/internal/catalog"
	"github.com/lencelabs/lence/internal/config"
	"github.com/lencelabs/lence/internal/registry"
	"github.com/lencelabs/lence/internal/service"
)

// app is one fully wired lence project: configuration, catalog with
// registered sources, registry snapshot store, and the query service.
// Everything is constructed explicitly here rather than reached through
// globals, so tests can build isolated instances.
type app struct {
	project config.Project
	cfg     *config.Config
	catalog *catalog.Catalog
	store   *registry.Store
	svc     *service.Service
	logger  *slog.Logger
}

// loadApp builds an app for the project directory.
func loadApp(projectDir string, mode service.Mode) (*app, error) {
	project, err := config.NewProject(projectDir)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(project.PagesDir()); os.IsNotExist(err) {
		return nil, fmt.Errorf("no pages/ directory found in %s\n\nRun 'lence init' to create a new project, or specify a valid project path", project.Dir)
	}

	cfg, err := config.Load(project)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cat, err := catalog.Open("")
	if err != nil {
		return nil, err
	}

	// Deterministic registration order.
	names := make([]string, 0, len(cfg.Sources))
	for name := range cfg.Sources {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		src := cfg.Sources[name]
		if err := cat.Register(name, src.Kind, project.ResolveDataPath(src.Path), src.Description); err != nil {
			cat.Close()
			return nil, fmt.Errorf("configuration error: %w", err)
		}
	}

	store := registry.NewStore()
	snap, err := registry.BuildFromDir(project.PagesDir())
	if err != nil {
		cat.Close()
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	store.Replace(snap)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	return &app{
		project: project,
		cfg:     cfg,
		catalog: cat,
		store:   store,
		svc:     service.New(store, cat, mode),
		logger:  logger,
	}, nil
}

// Close releases the app's resources.
func (a *app) Close() {
	a.catalog.Close()
}
