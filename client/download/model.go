package download

import (
	"errors"
	"fmt"
)

var (
	// ErrIO is matched by every *IOError.
	ErrIO = errors.New("download error")

	ErrMkdir     = errors.New("failed to create directory")
	ErrWriteFile = errors.New("failed to write file")

	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// IOError reports a filesystem failure while saving a download.
// errors.Is matches both ErrIO and Kind.
type IOError struct {
	Kind error
	Path string
	Err  error
}

func (e *IOError) Error() string {
	msg := fmt.Sprintf("%v: %v %s", ErrIO, e.Kind, e.Path)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *IOError) Is(target error) bool {
	return target == ErrIO || target == e.Kind
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Error reports a downloaded body that failed verification.
type Error struct {
	Detail string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}
