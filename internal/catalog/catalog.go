// Package catalog manages the DuckDB connection and the named data sources
// registered on it.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	_ "github.com/marcboeker/go-duckdb/v2"
)

// Source kinds supported at registration time.
const (
	KindCSV     = "csv"
	KindParquet = "parquet"
)

// identPattern restricts source names to plain SQL identifiers, since the
// name is embedded in the CREATE VIEW statement.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Info describes one registered source.
type Info struct {
	Name        string
	Kind        string
	Description string
}

// Column is one column of a query result.
type Column struct {
	Name string
	Type string
}

// Result holds the tabular output of one query: column metadata in the
// engine's positional order plus row-major data.
type Result struct {
	Columns []Column
	Rows    [][]any
}

// Catalog wraps a DuckDB connection with named source registration.
//
// Query execution is safe under concurrent read-only use; registration
// mutates the set of views and takes the write lock, so it is serialized
// against in-flight queries.
type Catalog struct {
	mu      sync.RWMutex
	db      *sql.DB
	sources map[string]Info
}

// Open opens a DuckDB database. An empty path opens an in-memory database.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Catalog{db: db, sources: make(map[string]Info)}, nil
}

// Register makes a file-backed source available for queries by creating a
// view over it. An unsupported kind or a non-identifier name is a
// configuration error raised here, not at query time.
func (c *Catalog) Register(name, kind, location, description string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("invalid source name %q: must be a plain identifier", name)
	}

	var reader string
	switch kind {
	case KindCSV:
		reader = "read_csv_auto"
	case KindParquet:
		reader = "read_parquet"
	default:
		return fmt.Errorf("unsupported source type %q for source %q", kind, name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	stmt := fmt.Sprintf("CREATE OR REPLACE VIEW %s AS SELECT * FROM %s(%s)",
		name, reader, quoteLiteral(location))
	if _, err := c.db.Exec(stmt); err != nil {
		return fmt.Errorf("failed to register source %q: %w", name, err)
	}

	c.sources[name] = Info{Name: name, Kind: kind, Description: description}
	return nil
}

// Execute runs SQL text and returns the full result set.
func (c *Catalog) Execute(ctx context.Context, query string) (*Result, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	columns := make([]Column, len(types))
	for i, t := range types {
		columns[i] = Column{Name: t.Name(), Type: t.DatabaseTypeName()}
	}

	result := &Result{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		result.Rows = append(result.Rows, normalizeRow(values))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// Has reports whether a source with the given name is registered.
func (c *Catalog) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.sources[name]
	return ok
}

// List returns all registered sources sorted by name.
func (c *Catalog) List() []Info {
	c.mu.RLock()
	defer c.mu.RUnlock()

	infos := make([]Info, 0, len(c.sources))
	for _, info := range c.sources {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Describe returns metadata for one source.
func (c *Catalog) Describe(name string) (Info, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.sources[name]
	return info, ok
}

// Close closes the underlying connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// quoteLiteral renders s as a single-quoted SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// normalizeRow converts driver-specific scan results into plain values that
// encode cleanly as JSON ([]byte to string in particular).
func normalizeRow(values []any) []any {
	for i, v := range values {
		if b, ok := v.([]byte); ok {
			values[i] = string(b)
		}
	}
	return values
}
