package download

import (
	"encoding/hex"
	"fmt"
	"hash"
)

// checksumVerifier enables checksum validation of the downloaded body.
type checksumVerifier struct {
	hash     hash.Hash
	expected string
}

func (v *checksumVerifier) Verify(body []byte) error {
	if v == nil {
		return nil
	}

	v.hash.Reset()
	v.hash.Write(body)

	actual := hex.EncodeToString(v.hash.Sum(nil))
	if actual != v.expected {
		return &Error{
			Err:    ErrChecksumMismatch,
			Detail: fmt.Sprintf("expected %s, got %s", v.expected, actual),
		}
	}

	return nil
}
