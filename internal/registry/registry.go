package registry

import (
	"fmt"
	"sort"
	"sync/atomic"
)

// Definition is the immutable record of one named, parameterized SQL template
// bound to a page and a source. Params is derived from SQL once at build time
// and never mutated afterward.
type Definition struct {
	// Page is the logical path of the document declaring the query.
	Page string
	// Name is the query name, unique within its page.
	Name string
	// Source names a catalog entry. It may be unresolved at build time;
	// resolution is deferred to execution.
	Source string
	// SQL is the raw template text, including placeholder tokens.
	SQL string
	// Params are the distinct placeholder names in first-occurrence order.
	Params []string
}

// Block is one embedded query as segmented out of a page by the markdown
// parser: the registry never sees raw markdown.
type Block struct {
	Name   string
	Source string
	SQL    string
}

type key struct {
	page string
	name string
}

// Snapshot is one immutable build of the (page, name) -> Definition mapping.
// It is shared by concurrent readers without locking; a rebuild produces a
// brand-new Snapshot rather than mutating this one.
type Snapshot struct {
	defs map[key]*Definition
}

// Build constructs a snapshot from segmented query blocks, keyed by page
// path. A duplicate (page, name) pair is a corpus-consistency failure that
// aborts the whole build; nothing is silently overwritten.
func Build(pages map[string][]Block) (*Snapshot, error) {
	defs := make(map[key]*Definition)

	// Deterministic build order so duplicate reports are stable.
	paths := make([]string, 0, len(pages))
	for page := range pages {
		paths = append(paths, page)
	}
	sort.Strings(paths)

	for _, page := range paths {
		for _, block := range pages[page] {
			k := key{page: page, name: block.Name}
			if _, exists := defs[k]; exists {
				return nil, fmt.Errorf("duplicate query %q on page %q", block.Name, page)
			}
			defs[k] = &Definition{
				Page:   page,
				Name:   block.Name,
				Source: block.Source,
				SQL:    block.SQL,
				Params: ExtractParams(block.SQL),
			}
		}
	}

	return &Snapshot{defs: defs}, nil
}

// Get looks up a definition by exact (page, name) key. Absence is an
// expected outcome, not an error.
func (s *Snapshot) Get(page, name string) (*Definition, bool) {
	def, ok := s.defs[key{page: page, name: name}]
	return def, ok
}

// Len returns the number of definitions in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.defs)
}

// Store holds the currently active snapshot. Replace swaps the shared
// reference atomically, so requests that already loaded a snapshot keep
// reading it to completion and never observe a partial rebuild.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore returns a store serving an empty snapshot.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(&Snapshot{defs: make(map[key]*Definition)})
	return s
}

// Load returns the active snapshot.
func (s *Store) Load() *Snapshot {
	return s.current.Load()
}

// Replace installs a new snapshot wholesale.
func (s *Store) Replace(snap *Snapshot) {
	s.current.Store(snap)
}
