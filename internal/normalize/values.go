// Package normalize holds small value and file helpers shared by the
// conversion pipeline.
package normalize

import "strings"

// IsBlank reports whether a raw input value carries no data. Values made only
// of whitespace are blank.
func IsBlank(v string) bool {
	return strings.TrimSpace(v) == ""
}

// Present returns the value of key in row and whether it is present and not
// blank.
func Present(row map[string]string, key string) (string, bool) {
	v, ok := row[key]
	if !ok || IsBlank(v) {
		return "", false
	}
	return v, true
}
