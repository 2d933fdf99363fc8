// Package escape makes raw input values safe for NAACCR XML text content.
package escape

import "strings"

// NewlineSentinel stands for a line break inside a value, so multi-line text
// survives a line-oriented input format.
const NewlineSentinel = "::"

// Replacement is one entry of the escaping table.
type Replacement struct {
	Old string
	New string
}

var table = [...]Replacement{
	{"&", "&amp;"},
	{"<", "&lt;"},
	{">", "&gt;"},
	{`"`, "&quot;"},
	{"'", "&apos;"},
	{NewlineSentinel, "\n"},
}

// Both replacers scan the original string once, so entities introduced by
// one replacement are never escaped again.
var (
	replacer     = newReplacer(true)
	attrReplacer = newReplacer(false)
)

func newReplacer(withSentinel bool) *strings.Replacer {
	pairs := make([]string, 0, 2*len(table))
	for _, r := range table {
		if r.Old == NewlineSentinel && !withSentinel {
			continue
		}
		pairs = append(pairs, r.Old, r.New)
	}
	return strings.NewReplacer(pairs...)
}

// Table returns a copy of the escaping table in application order.
func Table() []Replacement {
	out := make([]Replacement, len(table))
	copy(out, table[:])
	return out
}

// Value escapes the five reserved markup characters and expands the newline
// sentinel.
func Value(raw string) string {
	return replacer.Replace(raw)
}

// Attr escapes an attribute value. The newline sentinel is left alone.
func Attr(raw string) string {
	return attrReplacer.Replace(raw)
}
