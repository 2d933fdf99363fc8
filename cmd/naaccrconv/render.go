package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/gyeh/naaccrconv/internal/convert"
	"github.com/gyeh/naaccrconv/internal/ledger"
	"github.com/gyeh/naaccrconv/internal/model"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	return t
}

type planReport struct {
	InputPath     string
	InputSHA256   string
	InputSize     int64
	NaaccrVersion string
	RecordType    string
	CatalogFields int
	Inspection    *convert.Inspection
}

func renderPlan(w io.Writer, r planReport) {
	in := r.Inspection
	clustered := "yes"
	if !in.Clustered() {
		clustered = "no (reopened: " + strings.Join(in.Reopened, ", ") + ")"
	}

	t := newTable(w)
	t.SetTitle("naaccrconv plan")
	t.AppendRows([]table.Row{
		{"Input", r.InputPath},
		{"SHA-256", r.InputSHA256},
		{"Size", fmt.Sprintf("%d bytes", r.InputSize)},
		{"Version / record type", r.NaaccrVersion + " / " + r.RecordType},
		{"Catalog fields", r.CatalogFields},
		{"Rows (tumors)", in.Rows},
		{"Patient elements", in.Patients},
		{"Distinct patients", in.DistinctPatients},
		{"Clustered", clustered},
	})
	t.Render()
	fmt.Fprintln(w)

	m := newTable(w)
	m.AppendHeader(table.Row{"Column", "Maps to"})
	for _, s := range model.AllScopes {
		for _, h := range in.Mapped[s] {
			m.AppendRow(table.Row{h, s.String()})
		}
	}
	for _, h := range in.Unmapped {
		m.AppendRow(table.Row{h, "(ignored)"})
	}
	m.Render()
}

func renderFields(w io.Writer, fields []model.FieldDescriptor) {
	t := newTable(w)
	t.AppendHeader(table.Row{"#", "NAACCR ID", "Item #", "Column", "Scope"})
	for i, f := range fields {
		t.AppendRow(table.Row{i + 1, f.NaaccrID, f.Number, f.SourceKey, f.Scope.String()})
	}
	t.AppendFooter(table.Row{"", "", "", "Total", len(fields)})
	t.Render()
}

func renderRuns(w io.Writer, runs []ledger.Run) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Run", "Started", "Input", "Version", "Type", "Status", "Rows", "Patients", "Tumors", "Error"})
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.ID.String()[:8], r.StartedAt.Format(time.DateTime), r.InputPath,
			r.NaaccrVersion, r.RecordType, r.Status, r.RowsRead, r.Patients, r.Tumors, r.Error,
		})
	}
	t.Render()
}
