package model

import "fmt"

// Scope is the level of the NAACCR XML hierarchy a field is written into.
type Scope int

const (
	ScopeRoot Scope = iota
	ScopePatient
	ScopeTumor
)

// AllScopes lists the scopes in document order.
var AllScopes = []Scope{ScopeRoot, ScopePatient, ScopeTumor}

// String returns the XML element name of the scope.
func (s Scope) String() string {
	switch s {
	case ScopeRoot:
		return "NaaccrData"
	case ScopePatient:
		return "Patient"
	case ScopeTumor:
		return "Tumor"
	}
	return fmt.Sprintf("Scope(%d)", int(s))
}

// ParseScope maps a dictionary parentXmlElement value to its Scope.
func ParseScope(element string) (Scope, error) {
	for _, s := range AllScopes {
		if s.String() == element {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unsupported parent XML element %q", element)
}
