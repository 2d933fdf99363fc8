package rows

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/naaccrconv/internal/model"
)

const parquetBatchSize = 256

// ParquetSource reads a flat Parquet file. Leaf column paths are the header;
// null values are left out of the row. Row N of the file is reported as line
// N+1 so line numbers agree with the equivalent CSV.
type ParquetSource struct {
	file   *os.File
	reader *parquet.Reader
	header []string
	buf    []parquet.Row
	n, pos int
	rowNum int
	done   bool
}

// OpenParquet opens a Parquet file and validates its columns.
func OpenParquet(path string) (*ParquetSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat parquet file: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		f.Close()
		return nil, &model.FormatError{Msg: "invalid parquet file", Err: err}
	}

	cols := pf.Schema().Columns()
	if len(cols) == 0 {
		f.Close()
		return nil, &model.FormatError{Msg: "no header line"}
	}
	header := make([]string, len(cols))
	for i, path := range cols {
		header[i] = strings.Join(path, ".")
	}
	if err := checkHeader(header); err != nil {
		f.Close()
		return nil, err
	}

	return &ParquetSource{
		file:   f,
		reader: parquet.NewReader(pf),
		header: header,
		buf:    make([]parquet.Row, parquetBatchSize),
	}, nil
}

// Header implements Source.
func (s *ParquetSource) Header() []string {
	return s.header
}

// Line implements Source.
func (s *ParquetSource) Line() int {
	return s.rowNum + 1
}

// Next implements Source.
func (s *ParquetSource) Next() (model.Row, error) {
	for s.pos >= s.n {
		if s.done {
			return nil, io.EOF
		}
		n, err := s.reader.ReadRows(s.buf)
		s.n, s.pos = n, 0
		if err == io.EOF {
			s.done = true
		} else if err != nil {
			return nil, &model.FormatError{Line: s.rowNum + 2, Msg: "read parquet rows", Err: err}
		}
	}

	values := s.buf[s.pos]
	s.pos++
	s.rowNum++

	row := make(model.Row, len(s.header))
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		col := v.Column()
		if col < 0 || col >= len(s.header) {
			continue
		}
		row[s.header[col]] = valueString(v)
	}
	return row, nil
}

// Close implements Source.
func (s *ParquetSource) Close() error {
	if err := s.reader.Close(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

func valueString(v parquet.Value) string {
	switch v.Kind() {
	case parquet.Boolean:
		return strconv.FormatBool(v.Boolean())
	case parquet.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case parquet.Float:
		return strconv.FormatFloat(float64(v.Float()), 'f', -1, 32)
	case parquet.Double:
		return strconv.FormatFloat(v.Double(), 'f', -1, 64)
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	}
	return v.String()
}
