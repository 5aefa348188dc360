package registry

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestEncodeSQL(t *testing.T) {
	tests := []struct {
		name    string
		value   Value
		want    string
		wantErr bool
	}{
		{name: "plain string", value: String("west"), want: "'west'"},
		{name: "string with quote", value: String("O'Brien"), want: "'O''Brien'"},
		{name: "string with only quotes", value: String("'''"), want: "''''''''"},
		{name: "empty string", value: String(""), want: "''"},
		{name: "integer", value: Number("10"), want: "10"},
		{name: "negative integer", value: Number("-3"), want: "-3"},
		{name: "float", value: Number("2.5"), want: "2.5"},
		{name: "exponent", value: Number("1e6"), want: "1e6"},
		{name: "true", value: Bool(true), want: "TRUE"},
		{name: "false", value: Bool(false), want: "FALSE"},
		{name: "null", value: Null(), want: "NULL"},
		{name: "list of strings", value: List([]Value{String("a"), String("b")}), want: "'a', 'b'"},
		{name: "list of numbers", value: List([]Value{Number("1"), Number("2")}), want: "1, 2"},
		{name: "mixed list", value: List([]Value{Number("1"), String("x"), Null()}), want: "1, 'x', NULL"},
		{name: "empty list rejected", value: List(nil), wantErr: true},
		{name: "nested list rejected", value: List([]Value{List([]Value{String("a")})}), wantErr: true},
		{name: "bad number rejected", value: Number("1; DROP TABLE t"), wantErr: true},
		{name: "number with leading plus rejected", value: Number("+1"), wantErr: true},
		{name: "number with control chars rejected", value: Number("1\n2"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.value.EncodeSQL()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("EncodeSQL() = %q, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("EncodeSQL() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("EncodeSQL() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Encoded strings must always be closed literals, whatever the input.
func TestEncodeSQLStringAlwaysClosed(t *testing.T) {
	inputs := []string{
		"O'Brien",
		"'; DROP TABLE orders; --",
		"' OR '1'='1",
		"back\\slash",
		"multi\nline",
	}

	for _, in := range inputs {
		enc, err := String(in).EncodeSQL()
		if err != nil {
			t.Fatalf("EncodeSQL(%q) error: %v", in, err)
		}
		if !strings.HasPrefix(enc, "'") || !strings.HasSuffix(enc, "'") {
			t.Errorf("EncodeSQL(%q) = %q, not quote-delimited", in, enc)
		}
		// Strip the delimiters; every interior quote must be doubled.
		interior := enc[1 : len(enc)-1]
		if strings.Count(strings.ReplaceAll(interior, "''", ""), "'") != 0 {
			t.Errorf("EncodeSQL(%q) = %q contains an unescaped quote", in, enc)
		}
	}
}

func TestValueFromJSON(t *testing.T) {
	tests := []struct {
		name     string
		raw      any
		wantKind ValueKind
		wantErr  bool
	}{
		{name: "string", raw: "west", wantKind: KindString},
		{name: "json number", raw: json.Number("10"), wantKind: KindNumber},
		{name: "float64", raw: 3.5, wantKind: KindNumber},
		{name: "int", raw: 42, wantKind: KindNumber},
		{name: "bool", raw: true, wantKind: KindBool},
		{name: "nil", raw: nil, wantKind: KindNull},
		{name: "list", raw: []any{"a", json.Number("1")}, wantKind: KindList},
		{name: "nested list rejected", raw: []any{[]any{"a"}}, wantErr: true},
		{name: "map rejected", raw: map[string]any{"k": "v"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ValueFromJSON(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ValueFromJSON error: %v", err)
			}
			if v.Kind() != tt.wantKind {
				t.Errorf("kind = %v, want %v", v.Kind(), tt.wantKind)
			}
		})
	}
}

// Integers decoded via json.Decoder.UseNumber must render without a decimal
// point, so LIMIT ${inputs.limit.value} stays valid SQL.
func TestValueFromJSONIntegerRendering(t *testing.T) {
	v, err := ValueFromJSON(json.Number("10"))
	if err != nil {
		t.Fatal(err)
	}
	enc, err := v.EncodeSQL()
	if err != nil {
		t.Fatal(err)
	}
	if enc != "10" {
		t.Errorf("encoded = %q, want %q", enc, "10")
	}
}
