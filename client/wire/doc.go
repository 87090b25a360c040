// Package wire holds the plain-text HTTP/1.1 framing used by the client:
// URL splitting, request serialization and response parsing.
//
// Only "Connection: close" semantics are supported. The request is
// written in one pass and the response is read until the peer closes
// the connection, so neither keep-alive nor chunked transfer decoding
// is handled here.
package wire
