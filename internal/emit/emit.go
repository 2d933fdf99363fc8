// Package emit writes NAACCR XML markup to an output stream.
package emit

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/gyeh/naaccrconv/internal/escape"
	"github.com/gyeh/naaccrconv/internal/model"
)

const indent = "    "

// Attr is an element attribute. Values are escaped when written.
type Attr struct {
	Name  string
	Value string
}

// Emitter writes elements in call order. The first write error is kept and
// every later call becomes a no-op; Finish reports it.
type Emitter struct {
	w        *bufio.Writer
	closers  []io.Closer
	stack    []string
	err      error
	finished bool
}

// New returns an Emitter writing to w. Finish flushes but does not close w.
func New(w io.Writer) *Emitter {
	return &Emitter{w: bufio.NewWriter(w)}
}

// Create creates the file at path. Paths ending in ".gz" are
// gzip-compressed.
func Create(path string) (*Emitter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, &model.SinkError{Op: "create output", Err: err}
	}
	e := &Emitter{closers: []io.Closer{f}}
	if strings.EqualFold(filepath.Ext(path), ".gz") {
		zw := gzip.NewWriter(f)
		e.closers = append(e.closers, zw)
		e.w = bufio.NewWriter(zw)
	} else {
		e.w = bufio.NewWriter(f)
	}
	return e, nil
}

// Declaration writes the XML declaration followed by a blank line.
func (e *Emitter) Declaration() {
	e.write("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n\n")
}

// Open starts a new element nested in the current one.
func (e *Emitter) Open(name string, attrs ...Attr) {
	var b strings.Builder
	b.WriteString(strings.Repeat(indent, len(e.stack)))
	b.WriteByte('<')
	b.WriteString(name)
	for _, a := range attrs {
		fmt.Fprintf(&b, " %s=\"%s\"", a.Name, escape.Attr(a.Value))
	}
	b.WriteString(">\n")
	e.write(b.String())
	e.stack = append(e.stack, name)
}

// Item writes a data item of the current element. The raw value is escaped.
func (e *Emitter) Item(naaccrID, raw string) {
	e.write(strings.Repeat(indent, len(e.stack)) +
		"<Item naaccrId=\"" + escape.Attr(naaccrID) + "\">" + escape.Value(raw) + "</Item>\n")
}

// Close ends the innermost open element.
func (e *Emitter) Close() {
	if len(e.stack) == 0 {
		e.setErr(&model.SinkError{Op: "close element", Err: errors.New("no open element")})
		return
	}
	name := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	e.write(strings.Repeat(indent, len(e.stack)) + "</" + name + ">\n")
}

// Depth returns the number of open elements.
func (e *Emitter) Depth() int {
	return len(e.stack)
}

// Err returns the first error encountered.
func (e *Emitter) Err() error {
	return e.err
}

// Finish flushes buffered output and closes the sink. It is safe to call
// more than once; only the first call does work.
func (e *Emitter) Finish() error {
	if e.finished {
		return e.err
	}
	e.finished = true
	if err := e.w.Flush(); err != nil {
		e.setErr(&model.SinkError{Op: "flush output", Err: err})
	}
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil {
			e.setErr(&model.SinkError{Op: "close output", Err: err})
		}
	}
	return e.err
}

func (e *Emitter) write(s string) {
	if e.err != nil {
		return
	}
	if e.finished {
		e.setErr(&model.SinkError{Op: "write output", Err: os.ErrClosed})
		return
	}
	if _, err := e.w.WriteString(s); err != nil {
		e.setErr(&model.SinkError{Op: "write output", Err: err})
	}
}

func (e *Emitter) setErr(err error) {
	if e.err == nil {
		e.err = err
	}
}
