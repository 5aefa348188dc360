// Package pages handles discovery of markdown pages and the navigation menu
// derived from them.
package pages

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/lencelabs/lence/internal/parser"
)

// Discover walks a pages directory and returns a mapping from URL path to
// markdown file path. index.md files collapse onto their directory: the root
// index.md becomes "/", sales/index.md becomes "/sales".
func Discover(pagesDir string) (map[string]string, error) {
	found := make(map[string]string)

	if _, err := os.Stat(pagesDir); os.IsNotExist(err) {
		return found, nil
	}

	err := filepath.WalkDir(pagesDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}

		rel, err := filepath.Rel(pagesDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		var urlPath string
		switch {
		case rel == "index.md":
			urlPath = "/"
		case path.Base(rel) == "index.md":
			urlPath = "/" + path.Dir(rel)
		default:
			urlPath = "/" + strings.TrimSuffix(rel, ".md")
		}

		found[urlPath] = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	return found, nil
}

// Resolve maps a request path to a markdown file. It tries the direct file
// first (demo -> demo.md), then the directory index (sales -> sales/index.md).
// Paths that escape the pages directory never resolve.
func Resolve(pagesDir, reqPath string) (string, bool) {
	reqPath = strings.Trim(reqPath, "/")
	if reqPath == "" {
		reqPath = "index"
	}

	clean := path.Clean(reqPath)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", false
	}

	file := filepath.Join(pagesDir, filepath.FromSlash(clean))
	if filepath.Ext(file) == "" {
		file += ".md"
	}
	if info, err := os.Stat(file); err == nil && !info.IsDir() {
		return file, true
	}

	dir := filepath.Join(pagesDir, filepath.FromSlash(clean))
	index := filepath.Join(dir, "index.md")
	if info, err := os.Stat(index); err == nil && !info.IsDir() {
		return index, true
	}

	return "", false
}

// Title returns the page title: the frontmatter title when present,
// otherwise one derived from the URL path.
func Title(filePath, urlPath string) string {
	if content, err := os.ReadFile(filePath); err == nil {
		if fm, err := parser.ParseFrontmatter(string(content)); err == nil && fm != nil && fm.Title != "" {
			return fm.Title
		}
	}
	return derivedTitle(urlPath)
}

// derivedTitle converts the last URL segment to title case.
func derivedTitle(urlPath string) string {
	if urlPath == "/" {
		return "Home"
	}
	seg := path.Base(urlPath)
	seg = strings.NewReplacer("-", " ", "_", " ").Replace(seg)

	words := strings.Fields(seg)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
