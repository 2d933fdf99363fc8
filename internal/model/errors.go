package model

import "fmt"

// FormatError reports malformed input: a bad header, a row of the wrong
// width, or a missing grouping value. Line is the 1-based input line, or 0
// when the error is not tied to a line.
type FormatError struct {
	Line int
	Msg  string
	Err  error
}

func (e *FormatError) Error() string {
	msg := e.Msg
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", msg, e.Err)
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// ResolutionError reports a field catalog that could not be resolved.
type ResolutionError struct {
	Msg string
	Err error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// SinkError reports a failure writing or closing the output document.
type SinkError struct {
	Op  string
	Err error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}
