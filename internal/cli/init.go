package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lencelabs/lence/internal/config"
	"github.com/lencelabs/lence/internal/ui"
	"github.com/lencelabs/lence/internal/webui"
)

const exampleIndexPage = `# Welcome to Lence

This is your first page. Edit ` + "`pages/index.md`" + ` to customize it.

## Getting Started

1. Add data files to the ` + "`data/`" + ` directory
2. Configure data sources in ` + "`config/sources.yaml`" + `
3. Create pages in the ` + "`pages/`" + ` directory

## Example Query

Once a source is configured, embed a named query like this (replace
` + "`example`" + ` with your source name):

` + "````" + `
` + "```" + `sql query=hello source=example
SELECT * FROM example LIMIT 10
` + "```" + `
` + "````" + `
`

const exampleSourcesYAML = `# Data sources configuration
# Add your data sources here

sources: {}
  # example:
  #   type: csv
  #   path: data/example.csv
  #   description: Example data source
`

const exampleMenuYAML = `# Sidebar menu configuration
#
# Remove this file (or leave menu empty) to derive the menu from the
# pages directory instead.

menu:
  - title: Home
    path: /
`

var initCmd = &cobra.Command{
	Use:   "init [project]",
	Short: "Initialize a new Lence project",
	Long: `Initialize a new Lence project.

Creates the basic directory structure with example files.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectDir := "."
		if len(args) > 0 {
			projectDir = args[0]
		}

		project, err := config.NewProject(projectDir)
		if err != nil {
			return err
		}

		for _, dir := range []string{project.PagesDir(), project.DataDir(), project.ConfigDir(), project.StaticDir()} {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create %s: %w", dir, err)
			}
		}

		files := []struct {
			path    string
			content string
		}{
			{filepath.Join(project.PagesDir(), "index.md"), exampleIndexPage},
			{filepath.Join(project.ConfigDir(), "sources.yaml"), exampleSourcesYAML},
			{filepath.Join(project.ConfigDir(), "menu.yaml"), exampleMenuYAML},
		}
		for _, f := range files {
			if _, err := os.Stat(f.path); err == nil {
				continue // Never overwrite existing project files.
			}
			if err := os.WriteFile(f.path, []byte(f.content), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", f.path, err)
			}
		}

		// Seed the project's SPA shell from the bundled template.
		indexPath := filepath.Join(project.StaticDir(), "index.html")
		if _, err := os.Stat(indexPath); os.IsNotExist(err) {
			data, err := webui.FS.ReadFile("index.html")
			if err == nil {
				if err := os.WriteFile(indexPath, data, 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", indexPath, err)
				}
			}
		}

		fmt.Printf("Initialized Lence project at: %s\n", ui.Styled(ui.Accent, project.Dir))
		fmt.Println()
		fmt.Println("Next steps:")
		fmt.Println("  1. Add data files to data/")
		fmt.Println("  2. Configure sources in config/sources.yaml")
		fmt.Println("  3. Edit pages in pages/")
		fmt.Println("  4. Run 'lence dev' to start the development server")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
