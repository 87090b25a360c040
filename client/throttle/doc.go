// Package throttle provides a dialer that rate-limits outbound
// connections using a token-bucket algorithm from
// [golang.org/x/time/rate].
//
// # Usage
//
// Wrap an existing dialer with [NewDialer]:
//
//	d, err := throttle.NewDialer(
//		10, // connects per second
//		5,  // burst capacity
//		func() *slog.Logger { return slog.Default() },
//		&net.Dialer{},
//	)
//
// When the rate limit is exceeded, dials block until a token becomes
// available or the context is cancelled. Each request hop of the client
// opens a fresh connection, so limiting connects limits requests.
package throttle
