package fsops

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"
)

// Closed set of mutation failure kinds, constructed at the filesystem-call
// boundary. Callers classify with errors.Is.
var (
	ErrPermission    = errors.New("permission denied")
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrCrossDevice   = errors.New("cross-device rename")
	ErrIO            = errors.New("i/o failure")
)

// Classify wraps an OS-level error with one of the failure kinds plus the
// action and offending path.
func Classify(action, path string, err error) error {
	kind := ErrIO
	switch {
	case errors.Is(err, fs.ErrPermission):
		kind = ErrPermission
	case errors.Is(err, fs.ErrNotExist):
		kind = ErrNotFound
	case errors.Is(err, fs.ErrExist):
		kind = ErrAlreadyExists
	case isCrossDevice(err):
		kind = ErrCrossDevice
	}
	return fmt.Errorf("%w: %s %s: %w", kind, action, path, err)
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	return errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV)
}
