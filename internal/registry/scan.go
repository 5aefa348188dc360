package registry

import (
	"fmt"
	"os"

	"github.com/lencelabs/lence/internal/pages"
	"github.com/lencelabs/lence/internal/parser"
)

// BuildFromDir scans a pages directory and builds a registry snapshot from
// every query block embedded in it. Pages are keyed by their URL path as
// returned by pages.Discover ("/", "/sales", "/sales/dashboard").
func BuildFromDir(pagesDir string) (*Snapshot, error) {
	discovered, err := pages.Discover(pagesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to discover pages: %w", err)
	}

	corpus := make(map[string][]Block, len(discovered))
	for urlPath, filePath := range discovered {
		content, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read page %s: %w", urlPath, err)
		}

		qblocks := parser.ExtractQueryBlocks(string(content))
		blocks := make([]Block, 0, len(qblocks))
		for _, qb := range qblocks {
			blocks = append(blocks, Block{Name: qb.Name, Source: qb.Source, SQL: qb.SQL})
		}
		corpus[urlPath] = blocks
	}

	return Build(corpus)
}
