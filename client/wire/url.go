package wire

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

const (
	SchemeHTTP  = "http"
	SchemeHTTPS = "https"

	DefaultPort    = 80
	DefaultTLSPort = 443
)

var (
	ErrEmptyURL          = errors.New("url is empty")
	ErrInvalidURL        = errors.New("invalid url")
	ErrUnsupportedScheme = errors.New("unsupported scheme")
)

// Target is the parsed form of a request URL.
type Target struct {
	Scheme   string
	Host     string
	Port     int
	Path     string
	Query    string
	User     string
	Password string
	TLS      bool
}

// Address returns host:port for dialing.
func (t Target) Address() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// RequestURI returns the path and, if set, the query joined by '?'.
func (t Target) RequestURI() string {
	if t.Query == "" {
		return t.Path
	}
	return t.Path + "?" + t.Query
}

// HostHeader returns the Host header value. The port is only appended
// when it differs from the scheme default. IPv6 hosts are bracketed.
func (t Target) HostHeader() string {
	if t.Port == defaultPort(t.Scheme) {
		if strings.Contains(t.Host, ":") {
			return "[" + t.Host + "]"
		}
		return t.Host
	}
	return t.Address()
}

// ParseURL splits raw into its request components. The path defaults
// to "/", the port defaults per scheme, and https always implies TLS.
// The fragment is dropped.
func ParseURL(raw string) (Target, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Target{}, ErrEmptyURL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	t := Target{
		Scheme: strings.ToLower(u.Scheme),
		Host:   u.Hostname(),
		Path:   u.EscapedPath(),
		Query:  u.RawQuery,
	}

	switch t.Scheme {
	case SchemeHTTP:
	case SchemeHTTPS:
		t.TLS = true
	default:
		return Target{}, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	if t.Host == "" {
		return Target{}, fmt.Errorf("%w: missing host in %q", ErrInvalidURL, raw)
	}

	if t.Path == "" {
		t.Path = "/"
	}

	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil || port <= 0 || port > 65535 {
			return Target{}, fmt.Errorf("%w: port %q", ErrInvalidURL, p)
		}
		t.Port = port
	} else {
		t.Port = defaultPort(t.Scheme)
	}

	if u.User != nil {
		t.User = u.User.Username()
		t.Password, _ = u.User.Password()
	}

	return t, nil
}

func defaultPort(scheme string) int {
	if scheme == SchemeHTTPS {
		return DefaultTLSPort
	}
	return DefaultPort
}
