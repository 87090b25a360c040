package client

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/sockhttp/client/contentcoding"
	"github.com/adamwoolhether/sockhttp/client/dialer"
	"github.com/adamwoolhether/sockhttp/client/wire"
)

// Get requests rawURL, following redirects.
func (c *Client) Get(ctx context.Context, rawURL string) (*Response, error) {
	return c.call(ctx, wire.MethodGet, rawURL, nil, "")
}

// Post sends data to rawURL, following redirects with the same body.
//
// A string or []byte is sent as is. A *Fields, map[string]any,
// map[string]string or url.Values is JSON encoded when contentType is
// application/json or text/json and form encoded otherwise. An empty
// contentType means application/x-www-form-urlencoded.
func (c *Client) Post(ctx context.Context, rawURL string, data any, contentType string) (*Response, error) {
	if contentType == "" {
		contentType = FormContentType
	}

	body, err := encodePayload(data, contentType)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}

	return c.call(ctx, wire.MethodPost, rawURL, body, contentType)
}

// call runs one logical request: every hop until a final response.
func (c *Client) call(ctx context.Context, method, rawURL string, body []byte, contentType string) (*Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sentBody || c.cfg.StrictHeaderReset {
		c.headers = wire.NewHeader()
	}
	c.sentBody = len(body) > 0
	c.resp = nil

	if method == wire.MethodPost {
		c.headers.Set("Content-Type", contentType)
		c.headers.Set("Content-Length", strconv.Itoa(len(body)))
	}

	ctx, span := c.tracer.Start(ctx, "sockhttp.call",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.full", rawURL),
		),
	)
	defer span.End()

	resp, err := c.follow(ctx, method, rawURL, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	return resp, nil
}

func (c *Client) follow(ctx context.Context, method, rawURL string, body []byte) (*Response, error) {
	budget := dialer.NewBudget(c.cfg.MaxConnectRetries)
	var redirects int

	current := rawURL
	for {
		target, err := wire.ParseURL(current)
		if err != nil {
			return nil, urlError(current, err)
		}

		resp, err := c.hop(ctx, method, current, target, body, budget)
		if err != nil {
			return nil, err
		}
		c.resp = resp

		switch resp.StatusCode {
		case http.StatusMovedPermanently, http.StatusFound:
			location, ok := resp.HeaderValue("Location")
			if !ok || location == "" {
				return nil, &ProtocolError{
					Kind:       ErrMissingLocation,
					URL:        current,
					StatusCode: resp.StatusCode,
					Msg:        fmt.Sprintf("Got a HTTP status %d with no Location.", resp.StatusCode),
				}
			}

			redirects++
			if redirects >= c.cfg.MaxRedirects {
				return nil, &ProtocolError{
					Kind:       ErrTooManyRedirects,
					URL:        current,
					StatusCode: resp.StatusCode,
					Msg:        fmt.Sprintf("Reached number of maximum redirects (%d)", c.cfg.MaxRedirects),
				}
			}

			next, err := resolveLocation(current, location)
			if err != nil {
				return nil, urlError(location, err)
			}

			c.logger.Debug("following redirect", "status", resp.StatusCode, "from", current, "to", next)
			current = next
			continue
		}

		if resp.StatusCode >= http.StatusBadRequest {
			perr := statusError(current, resp)
			c.logger.Warn(perr.Msg, "url", current, "status", resp.StatusCode)
			return nil, perr
		}

		return resp, nil
	}
}

// hop opens a connection, writes the request and reads the response
// until the peer closes the connection.
func (c *Client) hop(ctx context.Context, method, rawURL string, target wire.Target, body []byte, budget *dialer.Budget) (*Response, error) {
	ctx, span := c.tracer.Start(ctx, "sockhttp.hop",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("server.address", target.Host),
			attribute.Int("server.port", target.Port),
		),
	)
	defer span.End()

	connector := dialer.Connector{
		Dialer:     c.dialer,
		TLSConfig:  c.tlsConfig,
		Timeout:    c.cfg.Timeout,
		RetryPause: c.cfg.RetryPause,
	}

	conn, err := connector.Connect(ctx, target, budget)
	if err != nil {
		perr := connectError(rawURL, err)
		c.logger.Log(ctx, LevelCritical, perr.Error(), "url", rawURL)
		span.RecordError(perr)
		span.SetStatus(codes.Error, perr.Error())
		return nil, perr
	}
	defer conn.Close()

	rw := &idleConn{Conn: conn, timeout: c.cfg.Timeout}
	stop := context.AfterFunc(ctx, rw.cancel)
	defer stop()

	header := c.headers.Clone()
	otel.GetTextMapPropagator().Inject(ctx, header)

	req := wire.Request{
		Method:      method,
		URL:         rawURL,
		Target:      target,
		UserAgent:   c.cfg.UserAgent,
		Compression: c.cfg.Compression,
		Header:      header,
		Body:        body,
	}

	if err := req.Write(rw); err != nil {
		return nil, ioError(rawURL, "writing request to", contextCause(ctx, err))
	}

	raw, err := io.ReadAll(rw)
	if err != nil {
		return nil, ioError(rawURL, "reading response from", contextCause(ctx, err))
	}

	resp, err := wire.ParseResponse(raw)
	if err != nil {
		return nil, &ProtocolError{Kind: ErrMalformedResponse, URL: rawURL, Err: err}
	}

	if encoding, ok := resp.HeaderValue("Content-Encoding"); ok {
		decoded, err := contentcoding.Decode(encoding, resp.Body)
		if err != nil {
			c.logger.Warn("decoding response body", "url", rawURL, "encoding", encoding, "error", err)
			decoded = nil
			resp.DecodeErr = err
		}
		resp.Body = decoded
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	return resp, nil
}

// resolveLocation resolves a Location header against the URL that
// returned it, so relative redirects keep scheme and host.
func resolveLocation(current, location string) (string, error) {
	base, err := url.Parse(current)
	if err != nil {
		return "", err
	}

	ref, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("%w: %w", wire.ErrInvalidURL, err)
	}

	return base.ResolveReference(ref).String(), nil
}

// contextCause prefers the context error when a deadline set by the
// cancellation hook caused err.
func contextCause(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ctxErr, err)
	}
	return err
}

// idleConn refreshes the deadline before every read and write, so the
// timeout bounds idle time rather than the whole exchange. Once
// cancelled the deadline stays in the past.
type idleConn struct {
	net.Conn
	timeout time.Duration

	mu       sync.Mutex
	canceled bool
}

func (c *idleConn) cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.canceled = true
	c.Conn.SetDeadline(time.Now())
}

func (c *idleConn) arm(set func(time.Time) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.canceled {
		return os.ErrDeadlineExceeded
	}
	if c.timeout > 0 {
		return set(time.Now().Add(c.timeout))
	}
	return nil
}

func (c *idleConn) Read(p []byte) (int, error) {
	if err := c.arm(c.Conn.SetReadDeadline); err != nil {
		return 0, err
	}
	return c.Conn.Read(p)
}

func (c *idleConn) Write(p []byte) (int, error) {
	if err := c.arm(c.Conn.SetWriteDeadline); err != nil {
		return 0, err
	}
	return c.Conn.Write(p)
}
