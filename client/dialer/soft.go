package dialer

import (
	"errors"
	"net"
)

// isSoft reports whether a failed dial should be retried. A failed name
// lookup carries no socket errno, so it counts as soft together with
// transient resource shortages.
func isSoft(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	return isTransientErrno(err)
}
