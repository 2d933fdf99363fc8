package model

import (
	"time"

	"github.com/google/uuid"
)

// ConversionSummary captures metrics from a single conversion run.
type ConversionSummary struct {
	RunID         uuid.UUID
	InputPath     string
	InputSHA256   string
	OutputPath    string
	NaaccrVersion string
	RecordType    string
	RowsRead      int64
	Patients      int64
	Tumors        int64
	ItemsByScope  map[Scope]int64
	ItemsByField  map[string]int64
	Fields        []FieldUsage // catalog order, fields with no items omitted
	Skipped       bool // input already converted, nothing written
	DurationRead  time.Duration
	DurationTotal time.Duration
}

// FieldUsage is the number of items written for one NAACCR id during a run.
type FieldUsage struct {
	NaaccrID string
	Scope    Scope
	Items    int64
}

// RunInfo identifies a conversion run for the ledger.
type RunInfo struct {
	ID            uuid.UUID
	InputPath     string
	InputSHA256   string
	InputSize     int64
	OutputPath    string
	NaaccrVersion string
	RecordType    string
}
