package exitcode

import (
	"errors"

	"github.com/gyeh/naaccrconv/internal/model"
)

const (
	Success         = 0
	UsageError      = 1
	ResolutionError = 2
	FormatError     = 3
	IOError         = 4
	DBError         = 5
)

// For maps a failed run's error to its exit code. Errors of no known kind
// are I/O failures.
func For(err error) int {
	var (
		re *model.ResolutionError
		fe *model.FormatError
	)
	switch {
	case err == nil:
		return Success
	case errors.As(err, &re):
		return ResolutionError
	case errors.As(err, &fe):
		return FormatError
	}
	return IOError
}
