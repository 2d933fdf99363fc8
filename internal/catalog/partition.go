package catalog

import (
	"strings"

	"github.com/gyeh/naaccrconv/internal/model"
)

// Partition holds one source-key mapping per hierarchy level.
type Partition struct {
	Root    *model.ScopedFieldMap
	Patient *model.ScopedFieldMap
	Tumor   *model.ScopedFieldMap
}

// PartitionFields splits the resolved fields by scope. An empty field list
// yields three empty maps.
func PartitionFields(fields []model.FieldDescriptor) Partition {
	p := Partition{
		Root:    model.NewScopedFieldMap(),
		Patient: model.NewScopedFieldMap(),
		Tumor:   model.NewScopedFieldMap(),
	}
	for _, f := range fields {
		p.For(f.Scope).Put(f.SourceKey, f.NaaccrID)
	}
	return p
}

// For returns the mapping of scope s.
func (p Partition) For(s model.Scope) *model.ScopedFieldMap {
	switch s {
	case model.ScopeRoot:
		return p.Root
	case model.ScopePatient:
		return p.Patient
	default:
		return p.Tumor
	}
}

// Scope returns the scope a source key is mapped in.
func (p Partition) Scope(sourceKey string) (model.Scope, bool) {
	for _, s := range model.AllScopes {
		if _, ok := p.For(s).Get(sourceKey); ok {
			return s, true
		}
	}
	return 0, false
}

// ParseFieldList splits a comma-separated allow-list, trimming entries and
// dropping empty ones. It returns nil for a blank list.
func ParseFieldList(list string) []string {
	var out []string
	for _, s := range strings.Split(list, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
