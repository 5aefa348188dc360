package registry

import (
	"fmt"
	"strings"
)

// Interpolate substitutes parameter values into the definition's SQL template.
//
// Only exact ${inputs.<name>.value} tokens are replaced; identifiers,
// literals, and comments written by the page author pass through untouched.
// Substituted text is always a literal-safe encoding (see Value.EncodeSQL),
// which is the sole injection boundary: the backing view is addressed by
// name, not by a prepared-statement bind.
func Interpolate(def *Definition, values map[string]Value) (string, error) {
	matches := placeholderPattern.FindAllStringSubmatchIndex(def.SQL, -1)
	if len(matches) == 0 {
		return def.SQL, nil
	}

	var sb strings.Builder
	last := 0
	for _, m := range matches {
		name := def.SQL[m[2]:m[3]]
		value, ok := values[name]
		if !ok {
			return "", fmt.Errorf("no value for parameter %q", name)
		}
		enc, err := value.EncodeSQL()
		if err != nil {
			return "", fmt.Errorf("parameter %q: %w", name, err)
		}
		sb.WriteString(def.SQL[last:m[0]])
		sb.WriteString(enc)
		last = m[1]
	}
	sb.WriteString(def.SQL[last:])

	return sb.String(), nil
}
