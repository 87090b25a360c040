package wire

import (
	"bufio"
	"encoding/base64"
	"io"
	"strings"
)

const (
	MethodGet     = "GET"
	MethodPost    = "POST"
	MethodPut     = "PUT"
	MethodDelete  = "DELETE"
	MethodHead    = "HEAD"
	MethodOptions = "OPTIONS"
	MethodTrace   = "TRACE"
)

// AcceptEncoding is sent when compression is enabled.
const AcceptEncoding = "gzip, deflate"

// Request is a single request hop as it will be written to the socket.
type Request struct {
	Method string
	URL    string
	Target Target

	UserAgent   string
	Compression bool
	Header      *Header
	Body        []byte
}

// Write serializes r as an HTTP/1.1 message, e.g.:
//
//	GET /path?q=1 HTTP/1.1\r\n
//	Host: www.example.com\r\n
//	User-Agent: sockhttp\r\n
//	X-Custom: value\r\n
//	Connection: close\r\n
//	\r\n
//	<body>
func (r *Request) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(r.Method)
	bw.WriteByte(' ')
	bw.WriteString(r.Target.RequestURI())
	bw.WriteString(" HTTP/1.1\r\n")

	writeField(bw, "Host", r.Target.HostHeader())
	writeField(bw, "User-Agent", r.UserAgent)

	if r.Target.User != "" {
		creds := r.Target.User + ":" + r.Target.Password
		writeField(bw, "Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(creds)))
	}

	if r.Compression {
		writeField(bw, "Accept-Encoding", AcceptEncoding)
	}

	for k, v := range r.Header.All() {
		if r.Compression && strings.EqualFold(k, "Accept-Encoding") {
			continue
		}
		writeField(bw, k, v)
	}

	bw.WriteString("Connection: close\r\n\r\n")

	if len(r.Body) > 0 {
		bw.Write(r.Body)
	}

	return bw.Flush()
}

// writeField relies on the bufio.Writer keeping the first error, which
// Flush reports.
func writeField(bw *bufio.Writer, name, value string) {
	bw.WriteString(name)
	bw.WriteString(": ")
	bw.WriteString(value)
	bw.WriteString("\r\n")
}
