package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lencelabs/lence/internal/catalog"
	"github.com/lencelabs/lence/internal/registry"
)

// Mode selects how query definitions are resolved.
type Mode int

const (
	// ModeServe resolves definitions through the registry only. Inline
	// source/sql fields in requests are ignored even when present.
	ModeServe Mode = iota

	// ModeEdit additionally accepts inline source+sql for queries that are
	// not registered yet, enabling live authoring.
	ModeEdit
)

// SourceCatalog is the catalog surface the service consumes.
type SourceCatalog interface {
	Has(name string) bool
	Execute(ctx context.Context, sql string) (*catalog.Result, error)
	List() []catalog.Info
	Describe(name string) (catalog.Info, bool)
}

// Service handles query requests against a registry snapshot store and a
// source catalog. It borrows definitions from the registry per request and
// never mutates them.
type Service struct {
	store   *registry.Store
	catalog SourceCatalog
	mode    Mode
}

// New constructs a Service.
func New(store *registry.Store, cat SourceCatalog, mode Mode) *Service {
	return &Service{store: store, catalog: cat, mode: mode}
}

// Request is one query execution request. Source and SQL are only meaningful
// in edit mode.
type Request struct {
	Page   string
	Query  string
	Params map[string]any
	Source string
	SQL    string
}

// ColumnInfo is column metadata in the engine's positional order.
type ColumnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Result is the shaped tabular response.
type Result struct {
	Columns  []ColumnInfo `json:"columns"`
	Data     [][]any      `json:"data"`
	RowCount int          `json:"row_count"`
}

// SourceInfo describes one registered data source.
type SourceInfo struct {
	Name        string `json:"name"`
	Kind        string `json:"type"`
	Description string `json:"description"`
}

// Execute runs one request to completion: resolve, validate, interpolate,
// execute, shape. It is terminal on the first failure and synchronous;
// cancellation and timeouts belong to the enclosing request layer via ctx.
func (s *Service) Execute(ctx context.Context, req Request) (*Result, error) {
	def, err := s.resolve(req)
	if err != nil {
		return nil, err
	}

	if !s.catalog.Has(def.Source) {
		return nil, NewError(KindNotFound, fmt.Sprintf("unknown source: %q", def.Source))
	}

	values, err := validateParams(def, req.Params)
	if err != nil {
		return nil, err
	}

	sql, err := registry.Interpolate(def, values)
	if err != nil {
		return nil, NewError(KindInvalidParameters, err.Error())
	}

	result, err := s.catalog.Execute(ctx, sql)
	if err != nil {
		return nil, NewError(KindQueryExecutionFailed, err.Error())
	}

	return shapeResult(result)
}

// resolve produces the query definition for a request: a registry lookup,
// or in edit mode an ad-hoc definition built from the request itself.
func (s *Service) resolve(req Request) (*registry.Definition, error) {
	page := normalizePage(req.Page)

	if s.mode == ModeEdit && req.Source != "" && req.SQL != "" {
		return &registry.Definition{
			Page:   page,
			Name:   req.Query,
			Source: req.Source,
			SQL:    req.SQL,
			Params: registry.ExtractParams(req.SQL),
		}, nil
	}

	def, ok := s.store.Load().Get(page, req.Query)
	if !ok {
		return nil, NewError(KindNotFound,
			fmt.Sprintf("query not found: %q on page %q", req.Query, page))
	}
	return def, nil
}

// validateParams checks the request's parameter names against the
// definition and converts the values into the closed Value domain. All
// offending names are reported together in one failure.
func validateParams(def *registry.Definition, params map[string]any) (map[string]registry.Value, error) {
	declared := make(map[string]bool, len(def.Params))
	for _, name := range def.Params {
		declared[name] = true
	}

	var missing, extra []string
	for _, name := range def.Params {
		if _, ok := params[name]; !ok {
			missing = append(missing, name)
		}
	}
	for name := range params {
		if !declared[name] {
			extra = append(extra, name)
		}
	}
	if len(missing) > 0 || len(extra) > 0 {
		sort.Strings(missing)
		sort.Strings(extra)
		var parts []string
		if len(missing) > 0 {
			parts = append(parts, "missing parameters: "+strings.Join(missing, ", "))
		}
		if len(extra) > 0 {
			parts = append(parts, "unexpected parameters: "+strings.Join(extra, ", "))
		}
		return nil, NewError(KindInvalidParameters, strings.Join(parts, "; "))
	}

	values := make(map[string]registry.Value, len(params))
	var invalid []string
	for name, raw := range params {
		v, err := registry.ValueFromJSON(raw)
		if err != nil {
			invalid = append(invalid, fmt.Sprintf("%s (%v)", name, err))
			continue
		}
		values[name] = v
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return nil, NewError(KindInvalidParameters,
			"invalid parameter values: "+strings.Join(invalid, "; "))
	}

	return values, nil
}

// shapeResult converts an engine result into the response shape, checking
// the fixed-width row invariant rather than assuming it.
func shapeResult(res *catalog.Result) (*Result, error) {
	columns := make([]ColumnInfo, len(res.Columns))
	for i, c := range res.Columns {
		columns[i] = ColumnInfo{Name: c.Name, Type: c.Type}
	}

	data := res.Rows
	if data == nil {
		data = [][]any{}
	}
	for i, row := range data {
		if len(row) != len(columns) {
			return nil, NewError(KindQueryExecutionFailed,
				fmt.Sprintf("row %d has %d values for %d columns", i, len(row), len(columns)))
		}
	}

	return &Result{Columns: columns, Data: data, RowCount: len(data)}, nil
}

// ListSources returns all registered sources.
func (s *Service) ListSources() []SourceInfo {
	infos := s.catalog.List()
	out := make([]SourceInfo, len(infos))
	for i, info := range infos {
		out[i] = SourceInfo{Name: info.Name, Kind: info.Kind, Description: info.Description}
	}
	return out
}

// DescribeSource returns metadata for one source.
func (s *Service) DescribeSource(name string) (SourceInfo, error) {
	info, ok := s.catalog.Describe(name)
	if !ok {
		return SourceInfo{}, NewError(KindNotFound, fmt.Sprintf("source not found: %q", name))
	}
	return SourceInfo{Name: info.Name, Kind: info.Kind, Description: info.Description}, nil
}

// normalizePage maps request page values onto registry page keys: pages are
// keyed by URL path, but clients may omit the leading slash.
func normalizePage(page string) string {
	if page == "" {
		return "/"
	}
	if !strings.HasPrefix(page, "/") {
		return "/" + page
	}
	return page
}
