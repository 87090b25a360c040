package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/adamwoolhether/sockhttp/client/dialer"
	"github.com/adamwoolhether/sockhttp/client/download"
	"github.com/adamwoolhether/sockhttp/client/throttle"
	"github.com/adamwoolhether/sockhttp/client/wire"
	"github.com/adamwoolhether/sockhttp/internal/validate"
)

// Client issues HTTP/1.1 requests over a fresh socket per hop.
//
// Headers added with AddHeader and the last response are instance state,
// so calls on one Client are serialized.
type Client struct {
	mu sync.Mutex

	cfg       Config
	dialer    dialer.ContextDialer
	tlsConfig *tls.Config
	fs        download.Filesystem
	logger    *slog.Logger
	tracer    trace.Tracer

	headers  *wire.Header
	sentBody bool
	resp     *Response
}

func Build(optFns ...Option) (*Client, error) {
	opts := options{cfg: DefaultConfig()}
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	if err := validate.Check(opts.cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	client := &Client{
		cfg:       opts.cfg,
		dialer:    &net.Dialer{},
		tlsConfig: opts.tlsConfig,
		logger:    slog.Default(),
		tracer:    noop.NewTracerProvider().Tracer("no-op tracer"),
		headers:   wire.NewHeader(),
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	if opts.tracer != nil {
		client.tracer = opts.tracer
	}

	if opts.dialer != nil {
		client.dialer = opts.dialer
	}

	if opts.throttle != nil {
		d, err := throttle.NewDialer(opts.throttle.RPS, opts.throttle.Burst, func() *slog.Logger { return client.logger }, client.dialer)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		client.dialer = d
	}

	client.fs = download.OSFilesystem{Logger: client.logger}
	if opts.fs != nil {
		client.fs = opts.fs
	}

	return client, nil
}

// Config returns a copy of the current settings.
func (c *Client) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.cfg
}

// AddHeader sets name for the following calls, replacing any value set
// before. The header stays until a call that sent a body has finished,
// or until the next call when strict header reset is enabled.
func (c *Client) AddHeader(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.headers.Set(name, value)
}

func (c *Client) SetTimeout(d time.Duration) error {
	return c.updateConfig(func(cfg *Config) { cfg.Timeout = d })
}

func (c *Client) SetMaxRedirects(n int) error {
	return c.updateConfig(func(cfg *Config) { cfg.MaxRedirects = n })
}

func (c *Client) SetMaxConnectRetries(n int) error {
	return c.updateConfig(func(cfg *Config) { cfg.MaxConnectRetries = n })
}

func (c *Client) SetCompression(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cfg.Compression = on
}

// updateConfig applies fn to a copy of the config and keeps it only if
// the result validates.
func (c *Client) updateConfig(fn func(*Config)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cfg := c.cfg
	fn(&cfg)

	if err := validate.Check(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	c.cfg = cfg

	return nil
}

// ResponseHeader returns a header of the last response. name is matched
// case-insensitively.
func (c *Client) ResponseHeader(name string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.resp.HeaderValue(name)
}

// ResponseHeaders returns a copy of all headers of the last response
// with lower-cased names, or nil before the first response.
func (c *Client) ResponseHeaders() *wire.Header {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.resp == nil {
		return nil
	}
	return c.resp.Header.Clone()
}

// ResponseBody returns a copy of the decoded body of the last response.
func (c *Client) ResponseBody() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.resp == nil {
		return nil
	}
	return bytes.Clone(c.resp.Body)
}

func (c *Client) ResponseStatusCode() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.resp == nil {
		return 0
	}
	return c.resp.StatusCode
}

func (c *Client) ResponseStatusMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.resp == nil {
		return ""
	}
	return c.resp.Status
}

// Download GETs source and saves the body as targetFolder/targetFileName.
// An empty targetFolder means /tmp, an empty targetFileName a generated
// unique name. The saved path is returned.
//
// Request failures are *ProtocolError, filesystem failures *IOError.
func (c *Client) Download(ctx context.Context, source, targetFolder, targetFileName string, opts ...DownloadOption) (string, error) {
	fetch := func(ctx context.Context, url string) ([]byte, error) {
		resp, err := c.Get(ctx, url)
		if err != nil {
			return nil, err
		}
		return resp.Body, nil
	}

	path, err := download.Handle(ctx, c.fs, fetch, source, targetFolder, targetFileName, c.logger, opts...)
	if err != nil {
		var ioErr *IOError
		if errors.As(err, &ioErr) {
			c.logger.Log(ctx, LevelCritical, ioErr.Error(), "path", ioErr.Path)
		}
		return "", err
	}

	return path, nil
}
