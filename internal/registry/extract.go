// Package registry discovers query definitions embedded in a page corpus
// and interpolates caller-supplied parameter values into their SQL templates.
package registry

import "regexp"

// placeholderPattern matches exactly one placeholder token.
// Anything that doesn't match (missing `.value`, bad name characters)
// is left alone and surfaces as a SQL error at execution time.
var placeholderPattern = regexp.MustCompile(`\$\{inputs\.([A-Za-z_][A-Za-z0-9_]*)\.value\}`)

// ExtractParams scans a SQL template for ${inputs.<name>.value} tokens and
// returns the distinct parameter names in first-occurrence order.
//
// Extraction is pure: it only reads the template text, so running it twice
// (or on text that already went through interpolation) gives the same answer.
func ExtractParams(sql string) []string {
	var params []string
	seen := make(map[string]bool)

	for _, m := range placeholderPattern.FindAllStringSubmatch(sql, -1) {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		params = append(params, name)
	}

	return params
}
