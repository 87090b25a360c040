//go:build !unix

package dialer

func isTransientErrno(error) bool {
	return false
}
