package download

import (
	"errors"
	"hash"
	"strings"
)

// Option defines optional settings for downloading files.
//
// WithChecksum enables checksum validation of the downloaded body
// before it is written. h is a hash.Hash instance (e.g. sha256.New()),
// and expected is the hex-encoded expected checksum string.
//
// WithSkipExisting causes Handle to return the destination path
// without fetching when the file already exists.
type Option func(*options) error

type options struct {
	checksum     *checksumVerifier
	skipExisting bool
}

func WithChecksum(h hash.Hash, expected string) Option {
	return func(opts *options) error {
		if h == nil {
			return errors.New("hash must not be nil")
		}

		if expected == "" {
			return errors.New("expected checksum must not be empty")
		}

		opts.checksum = &checksumVerifier{hash: h, expected: strings.ToLower(expected)}
		return nil
	}
}

func WithSkipExisting() Option {
	return func(opts *options) error {
		opts.skipExisting = true
		return nil
	}
}
