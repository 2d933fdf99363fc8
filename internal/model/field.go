package model

// GroupingColumn is the column whose value delimits patients in the input.
const GroupingColumn = "patientIdNumber"

// MaxSourceKeyLength is the SAS variable-name limit applied to NAACCR ids
// when they are used as column headers.
const MaxSourceKeyLength = 32

// FieldDescriptor describes one catalog field: where its value comes from in
// the tabular input and where it goes in the document.
type FieldDescriptor struct {
	NaaccrID  string // canonical output identifier
	SourceKey string // input column header (truncated NaaccrID)
	Number    int    // NAACCR item number, 0 when unknown
	Scope     Scope
}

// TruncateID returns the source key used for a NAACCR id.
func TruncateID(naaccrID string) string {
	if len(naaccrID) > MaxSourceKeyLength {
		return naaccrID[:MaxSourceKeyLength]
	}
	return naaccrID
}

// Row maps a header name to the raw value read for one input record. A
// missing key means the column is absent or null for that record.
type Row map[string]string

// ScopedFieldMap maps source keys to NAACCR ids for a single scope. It keeps
// the catalog order so documents are written deterministically.
type ScopedFieldMap struct {
	keys  []string
	index map[string]int
	ids   []string
}

// NewScopedFieldMap returns an empty map.
func NewScopedFieldMap() *ScopedFieldMap {
	return &ScopedFieldMap{index: make(map[string]int)}
}

// Put maps sourceKey to naaccrID. A repeated sourceKey overwrites the
// previous id but keeps its original position.
func (m *ScopedFieldMap) Put(sourceKey, naaccrID string) {
	if i, ok := m.index[sourceKey]; ok {
		m.ids[i] = naaccrID
		return
	}
	m.index[sourceKey] = len(m.keys)
	m.keys = append(m.keys, sourceKey)
	m.ids = append(m.ids, naaccrID)
}

// Get returns the NAACCR id mapped to sourceKey.
func (m *ScopedFieldMap) Get(sourceKey string) (string, bool) {
	i, ok := m.index[sourceKey]
	if !ok {
		return "", false
	}
	return m.ids[i], true
}

// Len returns the number of mapped source keys.
func (m *ScopedFieldMap) Len() int {
	return len(m.keys)
}

// Each calls fn for every mapping in insertion order.
func (m *ScopedFieldMap) Each(fn func(sourceKey, naaccrID string)) {
	for i, k := range m.keys {
		fn(k, m.ids[i])
	}
}
