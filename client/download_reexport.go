package client

import (
	"hash"

	"github.com/adamwoolhether/sockhttp/client/download"
)

// Type aliases re-export user-facing types from [download].
type (
	// DownloadOption configures [Client.Download].
	DownloadOption = download.Option

	// IOError reports a failure to create the target folder or write
	// the downloaded file.
	IOError = download.IOError

	// DownloadError wraps a sentinel error with additional detail.
	DownloadError = download.Error

	// Filesystem is the gateway [Client.Download] saves through.
	Filesystem = download.Filesystem
)

var (
	// ErrDownloadIO is matched by every [IOError].
	ErrDownloadIO = download.ErrIO

	// ErrMkdir indicates the target folder could not be created.
	ErrMkdir = download.ErrMkdir

	// ErrWriteFile indicates the downloaded body could not be written.
	ErrWriteFile = download.ErrWriteFile

	// ErrChecksumMismatch indicates the body checksum did not match the expected value.
	ErrChecksumMismatch = download.ErrChecksumMismatch
)

// WithChecksum enables checksum validation of the downloaded body.
// h is a [hash.Hash] instance (e.g. sha256.New()), and expected is the
// hex-encoded expected checksum string.
func WithChecksum(h hash.Hash, expected string) DownloadOption {
	return download.WithChecksum(h, expected)
}

// WithSkipExisting causes a download to return the destination path
// without fetching when the file already exists.
func WithSkipExisting() DownloadOption { return download.WithSkipExisting() }
