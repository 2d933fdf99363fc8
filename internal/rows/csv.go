package rows

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/oleg578/swiftcsv"

	"github.com/gyeh/naaccrconv/internal/model"
)

const utf8BOM = "\ufeff"

// CSVSource reads RFC 4180 CSV. Quoted fields may carry delimiters and
// newlines.
type CSVSource struct {
	reader *swiftcsv.Reader
	header []string
	line   int
	next   int
	closer io.Closer
}

// NewCSV reads the header from src and returns a source positioned on the
// first data row.
func NewCSV(src io.Reader) (*CSVSource, error) {
	r := swiftcsv.NewReader(src)
	header, err := r.Read()
	if err == io.EOF {
		return nil, &model.FormatError{Msg: "no header line"}
	}
	if err != nil {
		return nil, &model.FormatError{Line: 1, Msg: "malformed header", Err: err}
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}
	return &CSVSource{
		reader: r,
		header: header,
		line:   1,
		next:   2 + embeddedNewlines(header),
	}, nil
}

// Header implements Source.
func (s *CSVSource) Header() []string {
	return s.header
}

// Line implements Source.
func (s *CSVSource) Line() int {
	return s.line
}

// Next implements Source.
func (s *CSVSource) Next() (model.Row, error) {
	rec, err := s.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	s.line = s.next
	if errors.Is(err, swiftcsv.ErrorFieldCount) {
		return nil, &model.FormatError{
			Line: s.line,
			Msg:  fmt.Sprintf("expected %d fields, got %d", len(s.header), len(rec)),
		}
	}
	if err != nil {
		var pe *swiftcsv.ParseError
		if errors.As(err, &pe) {
			return nil, &model.FormatError{Line: pe.Line, Msg: "malformed record", Err: pe.Err}
		}
		return nil, &model.FormatError{Line: s.line, Msg: "read record", Err: err}
	}
	s.next += 1 + embeddedNewlines(rec)

	row := make(model.Row, len(s.header))
	for i, h := range s.header {
		row[h] = rec[i]
	}
	return row, nil
}

// Close implements Source.
func (s *CSVSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func embeddedNewlines(fields []string) int {
	n := 0
	for _, f := range fields {
		n += strings.Count(f, "\n")
	}
	return n
}
