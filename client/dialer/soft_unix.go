//go:build unix

package dialer

import (
	"errors"

	"golang.org/x/sys/unix"
)

var transientErrnos = []error{
	unix.EMFILE,
	unix.ENFILE,
	unix.ENOBUFS,
	unix.ENOMEM,
	unix.EAGAIN,
}

// isTransientErrno reports whether err is a resource shortage worth
// retrying.
func isTransientErrno(err error) bool {
	for _, errno := range transientErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
