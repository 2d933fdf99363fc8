package db

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gyeh/naaccrconv/internal/model"
)

// FieldCountColumns is the COPY column order of naaccr.run_field_counts.
var FieldCountColumns = []string{"run_id", "naaccr_id", "scope", "items"}

// FieldCountSource implements pgx.CopyFromSource over the per-field item
// counts of one run.
type FieldCountSource struct {
	runID  uuid.UUID
	fields []model.FieldUsage
	idx    int
}

// NewFieldCountSource creates a CopyFromSource for the given run.
func NewFieldCountSource(runID uuid.UUID, fields []model.FieldUsage) *FieldCountSource {
	return &FieldCountSource{runID: runID, fields: fields, idx: -1}
}

// Next advances to the next count. Returns false when all are consumed.
func (s *FieldCountSource) Next() bool {
	s.idx++
	return s.idx < len(s.fields)
}

// Values returns the current count in FieldCountColumns order.
func (s *FieldCountSource) Values() ([]any, error) {
	f := s.fields[s.idx]
	return []any{s.runID, f.NaaccrID, f.Scope.String(), f.Items}, nil
}

func (s *FieldCountSource) Err() error {
	return nil
}

var _ pgx.CopyFromSource = (*FieldCountSource)(nil)
