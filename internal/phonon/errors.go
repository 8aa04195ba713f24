package phonon

import (
	"errors"
	"fmt"
)

var (
	ErrNoDatasets       = errors.New("no band files to render")
	ErrMissingField     = errors.New("missing required field")
	ErrMalformed        = errors.New("malformed band file")
	ErrBranchOutOfRange = errors.New("branch index out of range")
	ErrPathMismatch     = errors.New("q-point path differs from reference dataset")
)

// FileError ties a render failure to the band file and field that caused it.
type FileError struct {
	Path  string
	Field string
	Err   error
}

func (e *FileError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Field, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }
