package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lencelabs/lence/internal/catalog"
	"github.com/lencelabs/lence/internal/config"
	"github.com/lencelabs/lence/internal/registry"
	"github.com/lencelabs/lence/internal/service"
	"github.com/lencelabs/lence/internal/testutil"
)

type fakeCatalog struct {
	sources map[string]catalog.Info
	result  *catalog.Result
	lastSQL string
}

func (f *fakeCatalog) Has(name string) bool {
	_, ok := f.sources[name]
	return ok
}

func (f *fakeCatalog) Execute(_ context.Context, sql string) (*catalog.Result, error) {
	f.lastSQL = sql
	if f.result != nil {
		return f.result, nil
	}
	return &catalog.Result{Columns: []catalog.Column{{Name: "n", Type: "INTEGER"}}}, nil
}

func (f *fakeCatalog) List() []catalog.Info {
	out := make([]catalog.Info, 0, len(f.sources))
	for _, info := range f.sources {
		out = append(out, info)
	}
	return out
}

func (f *fakeCatalog) Describe(name string) (catalog.Info, bool) {
	info, ok := f.sources[name]
	return info, ok
}

// newTestServer builds a server over a temp project with one page carrying a
// parameterized query, backed by a fake catalog.
func newTestServer(t *testing.T) (*httptest.Server, *fakeCatalog) {
	t.Helper()

	p := testutil.NewProject(t)
	p.WritePage("sales.md", "---\ntitle: Sales\n---\n# Sales\n\n"+
		"```sql query=top source=orders_src\n"+
		"SELECT * FROM orders WHERE region = ${inputs.region.value} LIMIT ${inputs.limit.value}\n"+
		"```\n")

	project, err := config.NewProject(p.Dir)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(project)
	if err != nil {
		t.Fatal(err)
	}

	store := registry.NewStore()
	snap, err := registry.BuildFromDir(project.PagesDir())
	if err != nil {
		t.Fatal(err)
	}
	store.Replace(snap)

	cat := &fakeCatalog{
		sources: map[string]catalog.Info{
			"orders_src": {Name: "orders_src", Kind: "csv", Description: "orders"},
		},
	}
	svc := service.New(store, cat, service.ModeServe)
	logger := slog.New(slog.NewTextHandler(&strings.Builder{}, nil))

	ts := httptest.NewServer(New(project, cfg, svc, logger).Handler())
	t.Cleanup(ts.Close)
	return ts, cat
}

func postQuery(t *testing.T, ts *httptest.Server, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/query", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatal(err)
	}
	return resp, decoded
}

func TestQueryEndpoint(t *testing.T) {
	ts, cat := newTestServer(t)
	cat.result = &catalog.Result{
		Columns: []catalog.Column{{Name: "id", Type: "INTEGER"}},
		Rows:    [][]any{{int64(1)}, {int64(2)}},
	}

	resp, body := postQuery(t, ts,
		`{"page": "sales", "query": "top", "params": {"region": "west", "limit": 10}}`)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
	}
	if cat.lastSQL != "SELECT * FROM orders WHERE region = 'west' LIMIT 10" {
		t.Errorf("executed SQL = %q", cat.lastSQL)
	}
	if body["row_count"] != float64(2) {
		t.Errorf("row_count = %v", body["row_count"])
	}
	if data, ok := body["data"].([]any); !ok || len(data) != 2 {
		t.Errorf("data = %v", body["data"])
	}
}

func TestQueryEndpointErrors(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{
			name:       "unknown query",
			body:       `{"page": "sales", "query": "nope", "params": {}}`,
			wantStatus: http.StatusNotFound,
			wantError:  service.KindNotFound,
		},
		{
			name:       "missing parameter",
			body:       `{"page": "sales", "query": "top", "params": {"region": "west"}}`,
			wantStatus: http.StatusBadRequest,
			wantError:  service.KindInvalidParameters,
		},
		{
			name:       "malformed body",
			body:       `{"page": `,
			wantStatus: http.StatusBadRequest,
			wantError:  service.KindInvalidParameters,
		},
		{
			name:       "inline sql rejected outside edit mode",
			body:       `{"page": "sales", "query": "adhoc", "source": "orders_src", "sql": "SELECT 1"}`,
			wantStatus: http.StatusNotFound,
			wantError:  service.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := postQuery(t, ts, tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %v)", resp.StatusCode, tt.wantStatus, body)
			}
			if body["error"] != tt.wantError {
				t.Errorf("error = %v, want %v", body["error"], tt.wantError)
			}
		})
	}
}

func TestQueryEndpointIntegerParams(t *testing.T) {
	ts, cat := newTestServer(t)

	resp, _ := postQuery(t, ts,
		`{"page": "sales", "query": "top", "params": {"region": "east", "limit": 25}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	// 25 must not arrive as 25.0 in the SQL.
	if !strings.HasSuffix(cat.lastSQL, "LIMIT 25") {
		t.Errorf("executed SQL = %q", cat.lastSQL)
	}
}

func TestSourcesEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/sources")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var list []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0]["name"] != "orders_src" || list[0]["type"] != "csv" {
		t.Errorf("sources = %v", list)
	}

	resp2, err := http.Get(ts.URL + "/api/sources/orders_src")
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		t.Errorf("describe status = %d", resp2.StatusCode)
	}

	resp3, err := http.Get(ts.URL + "/api/sources/missing")
	if err != nil {
		t.Fatal(err)
	}
	defer resp3.Body.Close()
	if resp3.StatusCode != http.StatusNotFound {
		t.Errorf("missing source status = %d", resp3.StatusCode)
	}
}

func TestMenuEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/config/menu")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var menu []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&menu); err != nil {
		t.Fatal(err)
	}
	if len(menu) != 1 || menu[0]["title"] != "Sales" || menu[0]["path"] != "/sales" {
		t.Errorf("menu = %v", menu)
	}
}

func TestPageEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	for _, path := range []string{"/pages/sales", "/pages/sales.md"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s status = %d", path, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/markdown") {
			t.Errorf("%s Content-Type = %q", path, ct)
		}
		resp.Body.Close()
	}

	resp, err := http.Get(ts.URL + "/pages/missing")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing page status = %d", resp.StatusCode)
	}
}

func TestSPAFallback(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/sales/whatever")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
}
