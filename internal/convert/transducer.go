package convert

import (
	"errors"
	"io"

	"github.com/gyeh/naaccrconv/internal/catalog"
	"github.com/gyeh/naaccrconv/internal/emit"
	"github.com/gyeh/naaccrconv/internal/model"
	"github.com/gyeh/naaccrconv/internal/normalize"
	"github.com/gyeh/naaccrconv/internal/rows"
)

// Fixed root element attributes.
const (
	SpecificationVersion = "1.3"
	Namespace            = "http://naaccr.org/naaccrxml"
)

// BaseDictionaryURI returns the base dictionary reference of a NAACCR version.
func BaseDictionaryURI(version string) string {
	return "http://naaccr.org/naaccrxml/naaccr-dictionary-" + version + ".xml"
}

// DocumentInfo carries the values of the root element attributes.
type DocumentInfo struct {
	NaaccrVersion string
	RecordType    string
}

func (d DocumentInfo) rootAttrs() []emit.Attr {
	return []emit.Attr{
		{Name: "baseDictionaryUri", Value: BaseDictionaryURI(d.NaaccrVersion)},
		{Name: "recordType", Value: d.RecordType},
		{Name: "specificationVersion", Value: SpecificationVersion},
		{Name: "xmlns", Value: Namespace},
	}
}

// Stats counts what a transducer run wrote.
type Stats struct {
	Rows         int64
	Patients     int64
	Tumors       int64
	ItemsByScope map[model.Scope]int64
	ItemsByField map[string]int64
}

type state int

const (
	stateStart state = iota
	stateStreaming
	stateFinished
)

var errReused = errors.New("transducer already ran")

// Transducer turns a row sequence clustered by patientIdNumber into a
// NaaccrData document. A Transducer runs once.
type Transducer struct {
	em     *emit.Emitter
	fields catalog.Partition
	info   DocumentInfo

	state       state
	currentKey  string
	haveKey     bool
	rootEmitted bool
	stats       Stats
}

// NewTransducer returns a transducer writing to em.
func NewTransducer(em *emit.Emitter, fields catalog.Partition, info DocumentInfo) *Transducer {
	return &Transducer{
		em:     em,
		fields: fields,
		info:   info,
		stats: Stats{
			ItemsByScope: make(map[model.Scope]int64),
			ItemsByField: make(map[string]int64),
		},
	}
}

// Run consumes src until it is exhausted or fails. Elements are closed at the
// end only if they were opened; on failure nothing more is written.
func (t *Transducer) Run(src rows.Source) (Stats, error) {
	if t.state != stateStart {
		return t.stats, errReused
	}
	t.state = stateStreaming
	defer func() { t.state = stateFinished }()

	for {
		row, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return t.stats, err
		}
		if err := t.consume(row, src.Line()); err != nil {
			return t.stats, err
		}
	}

	if t.haveKey {
		t.em.Close()
	}
	if t.rootEmitted {
		t.em.Close()
	}
	return t.stats, t.em.Err()
}

func (t *Transducer) consume(row model.Row, line int) error {
	key, ok := normalize.Present(row, model.GroupingColumn)
	if !ok {
		return &model.FormatError{Line: line, Msg: "grouping key required"}
	}
	t.stats.Rows++

	if !t.rootEmitted {
		t.em.Declaration()
		t.em.Open(model.ScopeRoot.String(), t.info.rootAttrs()...)
		t.rootEmitted = true
		t.writeItems(model.ScopeRoot, row)
	}

	if !t.haveKey || key != t.currentKey {
		if t.haveKey {
			t.em.Close()
		}
		t.em.Open(model.ScopePatient.String())
		t.stats.Patients++
		t.writeItems(model.ScopePatient, row)
		t.currentKey, t.haveKey = key, true
	}

	t.em.Open(model.ScopeTumor.String())
	t.stats.Tumors++
	t.writeItems(model.ScopeTumor, row)
	t.em.Close()

	return t.em.Err()
}

func (t *Transducer) writeItems(scope model.Scope, row model.Row) {
	t.fields.For(scope).Each(func(sourceKey, naaccrID string) {
		v, ok := normalize.Present(row, sourceKey)
		if !ok {
			return
		}
		t.em.Item(naaccrID, v)
		t.stats.ItemsByScope[scope]++
		t.stats.ItemsByField[naaccrID]++
	})
}
