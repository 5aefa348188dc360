package registry

import (
	"reflect"
	"testing"
)

func TestExtractParams(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []string
	}{
		{
			name: "single placeholder",
			sql:  "SELECT * FROM t WHERE id = ${inputs.id.value}",
			want: []string{"id"},
		},
		{
			name: "no placeholders",
			sql:  "no placeholders",
			want: nil,
		},
		{
			name: "first occurrence order",
			sql:  "SELECT ${inputs.b.value}, ${inputs.a.value}, ${inputs.b.value}",
			want: []string{"b", "a"},
		},
		{
			name: "duplicates collapse",
			sql:  "WHERE x = ${inputs.x.value} OR y = ${inputs.x.value}",
			want: []string{"x"},
		},
		{
			name: "missing value suffix is not a placeholder",
			sql:  "SELECT ${inputs.id}",
			want: nil,
		},
		{
			name: "bad name characters are not a placeholder",
			sql:  "SELECT ${inputs.my-param.value}",
			want: nil,
		},
		{
			name: "name must not start with a digit",
			sql:  "SELECT ${inputs.1st.value}",
			want: nil,
		},
		{
			name: "underscore names",
			sql:  "SELECT ${inputs._private.value}, ${inputs.snake_case.value}",
			want: []string{"_private", "snake_case"},
		},
		{
			name: "placeholder inside string literal is still extracted",
			sql:  "SELECT '${inputs.x.value}'",
			want: []string{"x"},
		},
		{
			name: "empty template",
			sql:  "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractParams(tt.sql)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractParams(%q) = %v, want %v", tt.sql, got, tt.want)
			}
		})
	}
}

func TestExtractParamsIdempotent(t *testing.T) {
	sql := "SELECT * FROM t WHERE a = ${inputs.a.value} AND b = ${inputs.b.value}"

	first := ExtractParams(sql)
	second := ExtractParams(sql)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("extraction not stable: %v vs %v", first, second)
	}
}
