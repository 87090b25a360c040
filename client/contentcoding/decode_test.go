package contentcoding_test

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"

	"github.com/adamwoolhether/sockhttp/client/contentcoding"
)

const plain = "The quick brown fox jumps over the lazy dog. The quick brown fox jumps again."

func gzipped(t *testing.T, s string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(s)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func zlibbed(t *testing.T, s string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write([]byte(s)); err != nil {
		t.Fatalf("zlib write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zlib close: %v", err)
	}
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	testCases := []struct {
		name     string
		encoding string
		body     []byte
	}{
		{name: "gzip", encoding: "gzip", body: gzipped(t, plain)},
		{name: "gzip mixed case", encoding: " GZip ", body: gzipped(t, plain)},
		{name: "deflate", encoding: "deflate", body: zlibbed(t, plain)},
		{name: "identity", encoding: "identity", body: []byte(plain)},
		{name: "absent", encoding: "", body: []byte(plain)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := contentcoding.Decode(tc.encoding, tc.body)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != plain {
				t.Errorf("exp %q; got %q", plain, got)
			}
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		encoding string
		body     []byte
	}{
		{name: "gzip too short", encoding: "gzip", body: []byte{0x1f, 0x8b}},
		{name: "gzip garbage", encoding: "gzip", body: []byte("0123456789not-deflate-data")},
		{name: "deflate garbage", encoding: "deflate", body: []byte("definitely not zlib")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := contentcoding.Decode(tc.encoding, tc.body); err == nil {
				t.Error("exp error, got nil")
			}
		})
	}
}
