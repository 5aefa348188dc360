package registry

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ValueKind identifies the variant held by a Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindBool
	KindList
)

// Value is a dynamically-typed parameter value supplied by a request.
// The variants are closed: anything outside this set is rejected during
// conversion, never silently passed into SQL text.
type Value struct {
	kind ValueKind
	str  string
	num  json.Number
	b    bool
	list []Value
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a numeric value.
func Number(n json.Number) Value { return Value{kind: KindNumber, num: n} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// List returns a list value.
func List(items []Value) Value { return Value{kind: KindList, list: items} }

// Kind returns the variant of this value.
func (v Value) Kind() ValueKind { return v.kind }

// ValueFromJSON converts a JSON-decoded parameter value into a Value.
// Numbers decoded with json.Decoder.UseNumber keep their original lexical
// form, so integers render as integers after interpolation.
func ValueFromJSON(raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return Null(), nil
	case string:
		return String(v), nil
	case bool:
		return Bool(v), nil
	case json.Number:
		return Number(v), nil
	case float64:
		// Decoded without UseNumber; format the shortest round-trip form.
		return Number(json.Number(strconv.FormatFloat(v, 'g', -1, 64))), nil
	case int:
		return Number(json.Number(strconv.Itoa(v))), nil
	case int64:
		return Number(json.Number(strconv.FormatInt(v, 10))), nil
	case []any:
		items := make([]Value, 0, len(v))
		for _, item := range v {
			iv, err := ValueFromJSON(item)
			if err != nil {
				return Value{}, err
			}
			if iv.kind == KindList {
				return Value{}, fmt.Errorf("nested lists are not supported")
			}
			items = append(items, iv)
		}
		return List(items), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", raw)
	}
}

// numericLiteral is the full lexical form a number must take to be embedded
// as a bare SQL literal. json.Number values from a decoder always match,
// but hand-constructed values are checked too.
var numericLiteral = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// EncodeSQL renders the value as a literal-safe SQL fragment.
//
// Strings become single-quoted literals with embedded quotes doubled, so the
// output is always a closed string literal regardless of the input. Numbers
// are validated against the numeric-literal grammar before being embedded
// bare. Lists render as a comma-separated sequence of scalar encodings; an
// empty list has no well-defined SQL shape and is rejected.
func (v Value) EncodeSQL() (string, error) {
	switch v.kind {
	case KindNull:
		return "NULL", nil
	case KindString:
		return "'" + strings.ReplaceAll(v.str, "'", "''") + "'", nil
	case KindNumber:
		if !numericLiteral.MatchString(v.num.String()) {
			return "", fmt.Errorf("invalid numeric literal %q", v.num.String())
		}
		return v.num.String(), nil
	case KindBool:
		if v.b {
			return "TRUE", nil
		}
		return "FALSE", nil
	case KindList:
		if len(v.list) == 0 {
			return "", fmt.Errorf("empty list values are not supported")
		}
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			if item.kind == KindList {
				return "", fmt.Errorf("nested lists are not supported")
			}
			enc, err := item.EncodeSQL()
			if err != nil {
				return "", err
			}
			parts[i] = enc
		}
		return strings.Join(parts, ", "), nil
	default:
		return "", fmt.Errorf("unsupported value kind %d", v.kind)
	}
}
