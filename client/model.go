package client

import (
	"log/slog"
	"time"

	"github.com/adamwoolhether/sockhttp/client/dialer"
	"github.com/adamwoolhether/sockhttp/client/wire"
)

const (
	// DefaultTimeout stands in for the platform default socket timeout.
	DefaultTimeout = 60 * time.Second

	DefaultMaxRedirects      = 3
	DefaultMaxConnectRetries = 3
	DefaultUserAgent         = "sockhttp HTTP Client"
)

// LevelCritical sits above slog.LevelError and is used for connection
// and download failures.
const LevelCritical = slog.Level(12)

const (
	FormContentType = "application/x-www-form-urlencoded"
	JSONContentType = "application/json"
)

// Response is the result of the last hop of a call.
type Response = wire.Response

// Config holds the long-lived settings of a Client.
type Config struct {
	Timeout           time.Duration `json:"timeout" validate:"gte=0"`
	Compression       bool          `json:"compression"`
	MaxRedirects      int           `json:"maxRedirects" validate:"gte=0"`
	MaxConnectRetries int           `json:"maxConnectRetries" validate:"gte=0"`
	UserAgent         string        `json:"userAgent" validate:"required"`
	StrictHeaderReset bool          `json:"strictHeaderReset"`
	RetryPause        time.Duration `json:"retryPause" validate:"gte=0"`
}

// DefaultConfig returns the settings used when no option overrides them.
func DefaultConfig() Config {
	return Config{
		Timeout:           DefaultTimeout,
		MaxRedirects:      DefaultMaxRedirects,
		MaxConnectRetries: DefaultMaxConnectRetries,
		UserAgent:         DefaultUserAgent,
		RetryPause:        dialer.DefaultRetryPause,
	}
}
