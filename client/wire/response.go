package wire

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedResponse is returned when the status line cannot be parsed.
var ErrMalformedResponse = errors.New("malformed response")

// statusPrefixLen is the length of "HTTP/1.x ".
const statusPrefixLen = 9

var headBodySep = []byte("\r\n\r\n")

// Response is the parsed result of one request.
type Response struct {
	StatusCode int
	Status     string
	Header     *Header
	Body       []byte

	// DecodeErr is set when the Content-Encoding could not be decoded.
	// Body is empty in that case.
	DecodeErr error
}

// HeaderValue returns a response header, ignoring the case of name.
func (r *Response) HeaderValue(name string) (string, bool) {
	if r == nil {
		return "", false
	}
	return r.Header.Lookup(strings.ToLower(name))
}

// ParseResponse splits raw on the first blank line into the header
// block and the body, then parses the header block. When no blank line
// is present the whole buffer is treated as the header block.
func ParseResponse(raw []byte) (*Response, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}

	head, body := raw, []byte(nil)
	if i := bytes.Index(raw, headBodySep); i >= 0 {
		head, body = raw[:i], raw[i+len(headBodySep):]
	}

	resp, err := ParseHead(string(head))
	if err != nil {
		return nil, err
	}
	resp.Body = body

	return resp, nil
}

// ParseHead parses a status line followed by "Name: Value" lines.
// Names are lower-cased, values trimmed, and a repeated name keeps the
// last value. Lines without a colon are ignored.
func ParseHead(head string) (*Response, error) {
	lines := strings.Split(head, "\r\n")

	status := lines[0]
	if len(status) < statusPrefixLen || !strings.HasPrefix(status, "HTTP/") {
		return nil, fmt.Errorf("%w: status line %q", ErrMalformedResponse, status)
	}

	code, reason, _ := strings.Cut(status[statusPrefixLen:], " ")
	statusCode, err := strconv.Atoi(code)
	if err != nil {
		return nil, fmt.Errorf("%w: status code %q", ErrMalformedResponse, code)
	}

	resp := &Response{
		StatusCode: statusCode,
		Status:     reason,
		Header:     NewHeader(),
	}

	for _, line := range lines[1:] {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		resp.Header.Set(strings.ToLower(name), strings.TrimSpace(value))
	}

	return resp, nil
}
