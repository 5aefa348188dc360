package pages

import (
	"sort"
	"strings"
)

// MenuItem is one entry in the sidebar menu. Section entries carry children;
// a section may also have its own path when an index page exists for it.
type MenuItem struct {
	Title    string     `json:"title" yaml:"title"`
	Path     string     `json:"path,omitempty" yaml:"path,omitempty"`
	Children []MenuItem `json:"children,omitempty" yaml:"children,omitempty"`
}

// BuildMenu derives a hierarchical menu from the pages directory.
//
// Pages group by their top-level directory. A directory's index.md provides
// the section title (sales/index.md titles the "Sales" section); directories
// without one fall back to a title derived from the directory name. Entries
// sort by path within a section and by key at the top level.
func BuildMenu(pagesDir string) ([]MenuItem, error) {
	all, err := Discover(pagesDir)
	if err != nil {
		return nil, err
	}

	// First pass: top-level segments that contain nested pages are sections.
	sections := make(map[string]bool)
	for urlPath := range all {
		parts := splitPath(urlPath)
		if len(parts) > 1 {
			sections[parts[0]] = true
		}
	}

	type node struct {
		item     MenuItem
		children []MenuItem
	}
	root := make(map[string]*node)

	paths := make([]string, 0, len(all))
	for urlPath := range all {
		paths = append(paths, urlPath)
	}
	sort.Strings(paths)

	for _, urlPath := range paths {
		title := Title(all[urlPath], urlPath)
		parts := splitPath(urlPath)

		switch {
		case len(parts) == 0: // root "/"
			root["/"] = &node{item: MenuItem{Title: title, Path: urlPath}}
		case len(parts) == 1:
			seg := parts[0]
			if sections[seg] {
				// Section index page: it titles the section.
				if n, ok := root[seg]; ok {
					n.item.Title = title
					n.item.Path = urlPath
				} else {
					root[seg] = &node{item: MenuItem{Title: title, Path: urlPath}}
				}
			} else {
				root[seg] = &node{item: MenuItem{Title: title, Path: urlPath}}
			}
		default:
			seg := parts[0]
			if _, ok := root[seg]; !ok {
				root[seg] = &node{item: MenuItem{Title: derivedTitle("/" + seg)}}
			}
			root[seg].children = append(root[seg].children, MenuItem{Title: title, Path: urlPath})
		}
	}

	keys := make([]string, 0, len(root))
	for k := range root {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	menu := make([]MenuItem, 0, len(keys))
	for _, k := range keys {
		n := root[k]
		item := n.item
		if len(n.children) > 0 {
			sort.Slice(n.children, func(i, j int) bool {
				return n.children[i].Path < n.children[j].Path
			})
			item.Children = n.children
		}
		menu = append(menu, item)
	}

	return menu, nil
}

// splitPath splits a URL path into its non-empty segments.
func splitPath(urlPath string) []string {
	var parts []string
	for _, p := range strings.Split(urlPath, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
