package emit

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/naaccrconv/internal/model"
)

func TestEmitterNesting(t *testing.T) {
	var buf bytes.Buffer
	e := New(&buf)

	e.Declaration()
	e.Open("NaaccrData", Attr{Name: "recordType", Value: "I"})
	e.Item("registryId", "0000001234")
	e.Open("Patient")
	e.Item("nameLast", "O'Brien & Sons")
	e.Open("Tumor")
	assert.Equal(t, 3, e.Depth())
	e.Item("textRemarks", "a::b")
	e.Close()
	e.Close()
	e.Close()
	require.NoError(t, e.Finish())

	want := `<?xml version="1.0" encoding="UTF-8"?>

<NaaccrData recordType="I">
    <Item naaccrId="registryId">0000001234</Item>
    <Patient>
        <Item naaccrId="nameLast">O&apos;Brien &amp; Sons</Item>
        <Tumor>
            <Item naaccrId="textRemarks">a
b</Item>
        </Tumor>
    </Patient>
</NaaccrData>
`
	assert.Equal(t, want, buf.String())
	assert.Equal(t, 0, e.Depth())
}

func TestEmitterCloseWithoutOpen(t *testing.T) {
	e := New(io.Discard)
	e.Close()
	var se *model.SinkError
	require.ErrorAs(t, e.Finish(), &se)
	assert.Equal(t, "close element", se.Op)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestEmitterStickyWriteError(t *testing.T) {
	e := New(failingWriter{})
	e.Open("NaaccrData")
	e.Item("registryId", "1")
	e.Close()

	err := e.Finish()
	var se *model.SinkError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, err.Error(), "disk full")

	assert.Equal(t, err, e.Finish(), "finish is idempotent")
}

func TestEmitterWriteAfterFinish(t *testing.T) {
	var buf bytes.Buffer
	e := New(&buf)
	require.NoError(t, e.Finish())
	e.Open("NaaccrData")
	assert.ErrorIs(t, e.Err(), os.ErrClosed)
}

func TestCreateGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xml.gz")
	e, err := Create(path)
	require.NoError(t, err)
	e.Open("NaaccrData")
	e.Close()
	require.NoError(t, e.Finish())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	data, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, "<NaaccrData>\n</NaaccrData>\n", string(data))
}

func TestCreateInMissingDirectory(t *testing.T) {
	_, err := Create(filepath.Join(t.TempDir(), "missing", "out.xml"))
	var se *model.SinkError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
