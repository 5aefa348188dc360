// Package parser handles parsing markdown pages: YAML frontmatter and the
// fenced SQL query blocks embedded in page bodies.
package parser

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter represents parsed frontmatter data.
type Frontmatter struct {
	// Title is the title field (if present).
	Title string

	// Fields are all decoded frontmatter fields, including title.
	Fields map[string]any

	// EndLine is the line where frontmatter ends (1-indexed).
	EndLine int
}

// FrontmatterBounds returns the closing frontmatter line index. It only
// detects frontmatter when the first line is '---'. If frontmatter is
// present but unclosed, endLine is -1.
func FrontmatterBounds(lines []string) (endLine int, ok bool) {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return -1, false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return i, true
		}
	}
	return -1, true
}

// ParseFrontmatter parses YAML frontmatter from markdown content.
// Returns nil if no frontmatter is found or it is unclosed.
func ParseFrontmatter(content string) (*Frontmatter, error) {
	lines := strings.Split(content, "\n")

	endLine, ok := FrontmatterBounds(lines)
	if !ok || endLine == -1 {
		return nil, nil
	}

	raw := strings.Join(lines[1:endLine], "\n")

	var fields map[string]any
	if err := yaml.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter as YAML: %w", err)
	}
	// YAML decodes an empty document into a nil map; the frontmatter is
	// still "present" because it affects body line offsets.
	if fields == nil {
		fields = map[string]any{}
	}

	fm := &Frontmatter{
		Fields:  fields,
		EndLine: endLine + 1, // 1-indexed
	}
	if title, ok := fields["title"].(string); ok {
		fm.Title = title
	}

	return fm, nil
}
