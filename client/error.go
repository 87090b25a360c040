package client

import (
	"errors"
	"fmt"

	"github.com/adamwoolhether/sockhttp/client/dialer"
	"github.com/adamwoolhether/sockhttp/client/wire"
)

// ErrProtocol is matched by every *ProtocolError.
var ErrProtocol = errors.New("http client error")

// Kinds of *ProtocolError, matched with errors.Is.
var (
	ErrEmptyURL          = wire.ErrEmptyURL
	ErrInvalidURL        = wire.ErrInvalidURL
	ErrUnsupportedScheme = wire.ErrUnsupportedScheme
	ErrMalformedResponse = wire.ErrMalformedResponse
	ErrConnect           = dialer.ErrConnect
	ErrRetriesExhausted  = dialer.ErrRetriesExhausted

	ErrIO               = errors.New("socket i/o failed")
	ErrMissingLocation  = errors.New("redirect without location")
	ErrTooManyRedirects = errors.New("too many redirects")
	ErrStatus           = errors.New("unsuccessful status")
)

// ProtocolError is returned by Get, Post and Download for every failure
// of the request itself. Kind is one of the Err* values above.
type ProtocolError struct {
	Kind       error
	URL        string
	StatusCode int
	Msg        string
	Err        error
}

func (e *ProtocolError) Error() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Kind.Error()
	}
}

func (e *ProtocolError) Is(target error) bool {
	return target == ErrProtocol || target == e.Kind
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

func urlError(rawURL string, err error) *ProtocolError {
	perr := &ProtocolError{URL: rawURL, Err: err}

	switch {
	case errors.Is(err, wire.ErrEmptyURL):
		perr.Kind = ErrEmptyURL
		perr.Msg = "URL is empty."
	case errors.Is(err, wire.ErrUnsupportedScheme):
		perr.Kind = ErrUnsupportedScheme
	default:
		perr.Kind = ErrInvalidURL
	}

	return perr
}

func connectError(rawURL string, err error) *ProtocolError {
	kind := ErrConnect
	if errors.Is(err, dialer.ErrRetriesExhausted) {
		kind = ErrRetriesExhausted
	}
	return &ProtocolError{Kind: kind, URL: rawURL, Err: err}
}

func ioError(rawURL, op string, err error) *ProtocolError {
	return &ProtocolError{
		Kind: ErrIO,
		URL:  rawURL,
		Msg:  fmt.Sprintf("%s %s: %v", op, rawURL, err),
		Err:  err,
	}
}

func statusError(rawURL string, resp *Response) *ProtocolError {
	return &ProtocolError{
		Kind:       ErrStatus,
		URL:        rawURL,
		StatusCode: resp.StatusCode,
		Msg:        fmt.Sprintf("Call failed with HTTP status %d: %s", resp.StatusCode, resp.Status),
	}
}
