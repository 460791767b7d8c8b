package saves

import (
	"errors"
	"fmt"
)

// ErrNotFound is reported when neither a save nor any of its backups exist.
var ErrNotFound = errors.New("save not found")

// ReadError is a missing or corrupt save file.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string { return fmt.Sprintf("read %s: %v", e.Path, e.Err) }
func (e *ReadError) Unwrap() error { return e.Err }

// WriteError is a disk or encoding failure while saving. Existing backups are left untouched.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write %s: %v", e.Path, e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }

// LoadError is returned once the primary file and every backup slot failed.
type LoadError struct {
	Name     string
	Attempts []error
}

func (e *LoadError) Error() string {
	if len(e.Attempts) == 0 {
		return fmt.Sprintf("load %s: no candidates", e.Name)
	}
	return fmt.Sprintf("load %s: %d candidates failed, last: %v", e.Name, len(e.Attempts), e.Attempts[len(e.Attempts)-1])
}

func (e *LoadError) Unwrap() []error { return e.Attempts }
