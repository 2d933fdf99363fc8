// Package rows reads tabular input as a lazy, non-restartable sequence of
// header-aligned rows.
package rows

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/encoding/charmap"

	"github.com/gyeh/naaccrconv/internal/model"
)

// Source yields input rows one at a time.
type Source interface {
	// Header returns the column names, in input order.
	Header() []string
	// Next returns the next row, or io.EOF once the input is exhausted.
	Next() (model.Row, error)
	// Line returns the 1-based input line on which the last row started.
	// The header is line 1.
	Line() int
	// Close releases the underlying input.
	Close() error
}

// Options controls how Open reads a file.
type Options struct {
	// Encoding of CSV input: "utf-8" (default), "windows-1252" or "iso-8859-1".
	Encoding string
}

// Open opens path according to its extension: ".parquet" files are read
// with the Parquet reader, everything else as CSV, gunzipped first when the
// name ends in ".gz".
func Open(path string, opts Options) (Source, error) {
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return OpenParquet(path)
	}

	dec, err := decoderFor(opts.Encoding)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	closers := closeAll{f}

	var r io.Reader = f
	if strings.EqualFold(filepath.Ext(path), ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, &model.FormatError{Msg: "invalid gzip input", Err: err}
		}
		closers = append(closers, zr)
		r = zr
	}
	if dec != nil {
		r = dec.NewDecoder().Reader(r)
	}

	src, err := NewCSV(r)
	if err != nil {
		closers.Close()
		return nil, err
	}
	src.closer = closers
	return src, nil
}

func decoderFor(name string) (*charmap.Charmap, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1, nil
	}
	return nil, fmt.Errorf("unsupported input encoding %q", name)
}

// checkHeader verifies the grouping column is present.
func checkHeader(header []string) error {
	if !slices.Contains(header, model.GroupingColumn) {
		return &model.FormatError{Msg: fmt.Sprintf("missing grouping column %q", model.GroupingColumn)}
	}
	return nil
}

// closeAll closes in reverse order and joins the errors.
type closeAll []io.Closer

func (c closeAll) Close() error {
	var errs []error
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
