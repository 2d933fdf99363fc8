package convert

import (
	"io"

	"github.com/gyeh/naaccrconv/internal/catalog"
	"github.com/gyeh/naaccrconv/internal/model"
	"github.com/gyeh/naaccrconv/internal/normalize"
	"github.com/gyeh/naaccrconv/internal/rows"
)

const maxReopened = 10

// Inspection is the result of a dry run over an input.
type Inspection struct {
	Header           []string
	Mapped           map[model.Scope][]string // headers per scope, in header order
	Unmapped         []string
	Rows             int64
	Patients         int64 // patient elements a conversion would write
	DistinctPatients int64
	// Reopened lists grouping keys seen again after their patient closed,
	// meaning the input is not clustered. At most ten are kept.
	Reopened []string
}

// Clustered reports whether every patient's rows were contiguous.
func (in *Inspection) Clustered() bool {
	return in.Patients == in.DistinctPatients
}

// Inspect reads src without writing anything and reports how it would be
// converted. It fails on the same input errors a conversion would.
func Inspect(src rows.Source, part catalog.Partition) (*Inspection, error) {
	in := &Inspection{
		Header: src.Header(),
		Mapped: make(map[model.Scope][]string),
	}
	for _, h := range in.Header {
		if s, ok := part.Scope(h); ok {
			in.Mapped[s] = append(in.Mapped[s], h)
		} else if h != model.GroupingColumn {
			in.Unmapped = append(in.Unmapped, h)
		}
	}

	seen := make(map[string]bool)
	var (
		current string
		started bool
	)
	for {
		row, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return in, err
		}
		key, ok := normalize.Present(row, model.GroupingColumn)
		if !ok {
			return in, &model.FormatError{Line: src.Line(), Msg: "grouping key required"}
		}
		in.Rows++
		if started && key == current {
			continue
		}
		in.Patients++
		if seen[key] {
			if len(in.Reopened) < maxReopened {
				in.Reopened = append(in.Reopened, key)
			}
		} else {
			seen[key] = true
			in.DistinctPatients++
		}
		current, started = key, true
	}
	return in, nil
}
