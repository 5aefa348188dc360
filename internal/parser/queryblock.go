package parser

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// QueryBlock is one embedded query extracted from a page body: a fenced
// code block whose info string names the query and its data source, e.g.
//
//	```sql query=top source=orders
//	SELECT * FROM orders WHERE region = ${inputs.region.value}
//	```
//
// Fenced sql blocks without a query= attribute are display-only listings
// and are not extracted. Placeholder-like text outside sql fences (inline
// code, other languages, prose) never reaches the registry.
type QueryBlock struct {
	Name   string
	Source string
	SQL    string
	Line   int // 1-indexed line of the opening fence
}

// ExtractQueryBlocks parses markdown content with goldmark and returns all
// embedded query blocks in document order.
func ExtractQueryBlocks(content string) []QueryBlock {
	source := []byte(content)

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	lineStarts := computeLineStarts(content)

	var blocks []QueryBlock
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		fence, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		var info string
		if fence.Info != nil {
			info = string(fence.Info.Segment.Value(source))
		}
		name, src, ok := parseQueryInfo(info)
		if !ok {
			return ast.WalkContinue, nil
		}

		var sb strings.Builder
		line := 1
		if l := fence.Lines(); l.Len() > 0 {
			// Opening fence is the line before the first content line.
			if n := offsetToLine(lineStarts, l.At(0).Start); n > 1 {
				line = n - 1
			}
		}
		for i := 0; i < fence.Lines().Len(); i++ {
			seg := fence.Lines().At(i)
			sb.Write(seg.Value(source))
		}

		blocks = append(blocks, QueryBlock{
			Name:   name,
			Source: src,
			SQL:    strings.TrimRight(sb.String(), "\n"),
			Line:   line,
		})

		return ast.WalkContinue, nil
	})

	return blocks
}

// parseQueryInfo parses a fence info string of the form
// "sql query=<name> source=<source>". Attribute order is free; unknown
// attributes are ignored. Returns ok=false for non-sql fences and for sql
// fences without a query attribute.
func parseQueryInfo(info string) (name, source string, ok bool) {
	fields := strings.Fields(info)
	if len(fields) == 0 || fields[0] != "sql" {
		return "", "", false
	}
	for _, f := range fields[1:] {
		k, v, found := strings.Cut(f, "=")
		if !found {
			continue
		}
		switch k {
		case "query":
			name = v
		case "source":
			source = v
		}
	}
	if name == "" {
		return "", "", false
	}
	return name, source, true
}

// computeLineStarts computes the byte offset of each line start.
func computeLineStarts(content string) []int {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' && i+1 < len(content) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// offsetToLine converts a byte offset to a 1-indexed line number.
func offsetToLine(lineStarts []int, offset int) int {
	for i := len(lineStarts) - 1; i >= 0; i-- {
		if lineStarts[i] <= offset {
			return i + 1
		}
	}
	return 1
}
