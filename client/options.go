package client

import (
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/sockhttp/client/dialer"
	"github.com/adamwoolhether/sockhttp/client/download"
	"github.com/adamwoolhether/sockhttp/client/throttle"
)

// Option is a functional option for configuring a [Client] via [Build].
type Option func(*options) error
type options struct {
	cfg       Config
	dialer    dialer.ContextDialer
	tlsConfig *tls.Config
	throttle  *throttle.Config
	fs        download.Filesystem
	logger    *slog.Logger
	tracer    trace.Tracer
}

// WithTimeout bounds connecting and every socket read and write.
// Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		o.cfg.Timeout = d
		return nil
	}
}

// WithMaxRedirects sets how many 301/302 hops a call may take before
// it fails with ErrTooManyRedirects.
func WithMaxRedirects(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return errors.New("max redirects must not be negative")
		}
		o.cfg.MaxRedirects = n
		return nil
	}
}

// WithMaxConnectRetries sets how many soft connect failures a call
// tolerates across all of its hops.
func WithMaxConnectRetries(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return errors.New("max connect retries must not be negative")
		}
		o.cfg.MaxConnectRetries = n
		return nil
	}
}

// WithRetryPause sets the wait between soft connect retries.
func WithRetryPause(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return errors.New("retry pause must not be negative")
		}
		o.cfg.RetryPause = d
		return nil
	}
}

// WithCompression sends "Accept-Encoding: gzip, deflate".
func WithCompression() Option {
	return func(o *options) error {
		o.cfg.Compression = true
		return nil
	}
}

// WithUserAgent replaces the User-Agent sent on every request.
func WithUserAgent(ua string) Option {
	return func(o *options) error {
		if ua == "" {
			return errors.New("user agent must not be empty")
		}
		o.cfg.UserAgent = ua
		return nil
	}
}

// WithStrictHeaderReset clears headers added with [Client.AddHeader] at
// the start of every call. By default they are only cleared after a
// call that sent a body.
func WithStrictHeaderReset() Option {
	return func(o *options) error {
		o.cfg.StrictHeaderReset = true
		return nil
	}
}

// WithDialer replaces the [net.Dialer] used to open connections.
func WithDialer(d dialer.ContextDialer) Option {
	return func(o *options) error {
		if d == nil {
			return errors.New("dialer must not be nil")
		}
		o.dialer = d
		return nil
	}
}

// WithTLSConfig sets the base TLS configuration for https targets.
// ServerName is always overwritten with the target host.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return errors.New("tls config must not be nil")
		}
		o.tlsConfig = cfg
		return nil
	}
}

// WithThrottle enables token-bucket rate limiting of connects with the
// given connects per second and burst capacity.
func WithThrottle(rps, burst int) Option {
	return func(o *options) error {
		if rps <= 0 || burst <= 0 {
			return fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, throttle.ErrMustNotBeZero)
		}
		o.throttle = &throttle.Config{RPS: rps, Burst: burst}
		return nil
	}
}

// WithFilesystem replaces the filesystem [Client.Download] saves through.
func WithFilesystem(fs download.Filesystem) Option {
	return func(o *options) error {
		if fs == nil {
			return errors.New("filesystem must not be nil")
		}
		o.fs = fs
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// WithTracer injects the tracer used for call and hop spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) error {
		o.tracer = tracer
		return nil
	}
}
