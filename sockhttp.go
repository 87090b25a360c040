// Package sockhttp exposes the client builder.
package sockhttp

import (
	"github.com/adamwoolhether/sockhttp/client"
)

// NewClient instantiates a new *Client with the provided options.
// If not specified, a plain net.Dialer, a 60s timeout and up to 3
// redirects and 3 connect retries are used.
func NewClient(opts ...client.Option) (*client.Client, error) {
	return client.Build(opts...)
}
