// Package contentcoding decodes response bodies according to their
// Content-Encoding header.
package contentcoding

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
)

const (
	Gzip    = "gzip"
	Deflate = "deflate"
)

// gzipHeaderLen is the fixed part of a gzip member header (RFC 1952).
// Optional header fields are not skipped.
const gzipHeaderLen = 10

var ErrShortGzipHeader = errors.New("gzip body shorter than its header")

// Decode returns body decoded for the given Content-Encoding. gzip is
// inflated after skipping the 10-byte header, deflate is read as a zlib
// stream. Any other encoding returns body unchanged.
func Decode(encoding string, body []byte) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case Gzip:
		if len(body) < gzipHeaderLen {
			return nil, ErrShortGzipHeader
		}
		r := flate.NewReader(bytes.NewReader(body[gzipHeaderLen:]))
		defer r.Close()
		return readAll(Gzip, r)

	case Deflate:
		r, err := zlib.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("deflate: %w", err)
		}
		defer r.Close()
		return readAll(Deflate, r)

	default:
		return body, nil
	}
}

func readAll(name string, r io.Reader) ([]byte, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return b, nil
}
