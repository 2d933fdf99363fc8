// Package catalog resolves the NAACCR field catalog that drives a
// conversion and partitions it by hierarchy level.
package catalog

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/oleg578/swiftcsv"

	"github.com/gyeh/naaccrconv/internal/model"
)

//go:embed data/base-fields.csv
var embedded embed.FS

// SupportedVersions lists the NAACCR versions a base catalog is known for.
var SupportedVersions = []string{"140", "150", "160", "180", "210", "220", "230", "240"}

// RecordTypes lists the NAACCR record types: Abstract, Modified,
// Confidential and Incidence.
var RecordTypes = []string{"A", "M", "C", "I"}

// Request selects the fields of one conversion run.
type Request struct {
	Version        string
	RecordType     string
	DictionaryPath string   // optional user dictionary
	Fields         []string // optional allow-list of NAACCR ids
}

// Resolver returns the ordered field list for a request.
type Resolver interface {
	Resolve(req Request) ([]model.FieldDescriptor, error)
}

// FileResolver reads the base catalog from Dir, or from the embedded copy
// when Dir is empty, and appends the items of the request's user dictionary.
type FileResolver struct {
	Dir string
}

// item is one catalog entry before filtering.
type item struct {
	id           string
	num          int
	parent       string
	recordTypes  string
	sinceVersion int
}

// Resolve implements Resolver.
func (r FileResolver) Resolve(req Request) ([]model.FieldDescriptor, error) {
	if !slices.Contains(SupportedVersions, req.Version) {
		return nil, &model.ResolutionError{Msg: fmt.Sprintf("unsupported NAACCR version %q", req.Version)}
	}
	if !slices.Contains(RecordTypes, req.RecordType) {
		return nil, &model.ResolutionError{Msg: fmt.Sprintf("unsupported record type %q", req.RecordType)}
	}
	version, _ := strconv.Atoi(req.Version)

	items, err := r.baseItems(req.Version)
	if err != nil {
		return nil, err
	}
	if req.DictionaryPath != "" {
		custom, err := readDictionary(req.DictionaryPath)
		if err != nil {
			return nil, &model.ResolutionError{Msg: "read dictionary " + req.DictionaryPath, Err: err}
		}
		items = append(items, custom...)
	}

	var allowed map[string]bool
	if len(req.Fields) > 0 {
		allowed = make(map[string]bool, len(req.Fields))
		for _, f := range req.Fields {
			allowed[f] = true
		}
	}

	fields := make([]model.FieldDescriptor, 0, len(items))
	for _, it := range items {
		if it.sinceVersion > version || !hasRecordType(it.recordTypes, req.RecordType) {
			continue
		}
		if allowed != nil && !allowed[it.id] {
			continue
		}
		scope, err := model.ParseScope(it.parent)
		if err != nil {
			return nil, &model.ResolutionError{Msg: "item " + it.id, Err: err}
		}
		fields = append(fields, model.FieldDescriptor{
			NaaccrID:  it.id,
			SourceKey: model.TruncateID(it.id),
			Number:    it.num,
			Scope:     scope,
		})
	}
	return fields, nil
}

func (r FileResolver) baseItems(version string) ([]item, error) {
	var (
		data []byte
		err  error
		name string
	)
	if r.Dir != "" {
		name = filepath.Join(r.Dir, "naaccr-"+version+"-fields.csv")
		data, err = os.ReadFile(name)
	} else {
		name = "data/base-fields.csv"
		data, err = embedded.ReadFile(name)
	}
	if err != nil {
		return nil, &model.ResolutionError{Msg: "base catalog unavailable", Err: err}
	}
	items, err := parseCatalogCSV(bytes.NewReader(data), baseColumns)
	if err != nil {
		return nil, &model.ResolutionError{Msg: "parse base catalog " + name, Err: err}
	}
	return items, nil
}

// columnNames lists the accepted CSV headers for each item attribute, tried
// in order. Only id and parent are required.
type columnNames struct {
	id, num, parent, recordTypes, since []string
}

var baseColumns = columnNames{
	id:          []string{"naaccrId"},
	num:         []string{"naaccrNum"},
	parent:      []string{"parentXmlElement"},
	recordTypes: []string{"recordTypes"},
	since:       []string{"sinceVersion"},
}

func parseCatalogCSV(src io.Reader, cols columnNames) ([]item, error) {
	recs, err := swiftcsv.NewReader(src).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("no header line")
	}
	idx := make(map[string]int, len(recs[0]))
	for i, h := range recs[0] {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	col := func(names []string) int {
		for _, name := range names {
			if i, ok := idx[strings.ToLower(name)]; ok {
				return i
			}
		}
		return -1
	}
	idCol, numCol, parentCol := col(cols.id), col(cols.num), col(cols.parent)
	rtCol, sinceCol := col(cols.recordTypes), col(cols.since)
	if idCol < 0 || parentCol < 0 {
		return nil, fmt.Errorf("missing %q or %q column", cols.id[0], cols.parent[0])
	}

	items := make([]item, 0, len(recs)-1)
	for n, rec := range recs[1:] {
		get := func(i int) string {
			if i < 0 || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		it := item{id: get(idCol), parent: get(parentCol), recordTypes: get(rtCol)}
		if it.id == "" {
			return nil, fmt.Errorf("line %d: empty item id", n+2)
		}
		if v := get(numCol); v != "" {
			if it.num, err = strconv.Atoi(v); err != nil {
				return nil, fmt.Errorf("line %d: invalid item number %q", n+2, v)
			}
		}
		if v := get(sinceCol); v != "" {
			if it.sinceVersion, err = strconv.Atoi(v); err != nil {
				return nil, fmt.Errorf("line %d: invalid version %q", n+2, v)
			}
		}
		items = append(items, it)
	}
	return items, nil
}

// hasRecordType reports whether the comma-separated list contains rt. An
// empty list applies to every record type.
func hasRecordType(list, rt string) bool {
	if strings.TrimSpace(list) == "" {
		return true
	}
	for _, s := range strings.Split(list, ",") {
		if strings.TrimSpace(s) == rt {
			return true
		}
	}
	return false
}
