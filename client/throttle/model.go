package throttle

import (
	"context"
	"errors"
	"log/slog"
	"net"

	"golang.org/x/time/rate"
)

var (
	ErrMustNotBeZero = errors.New("must be greater than zero")
	ErrWaitingFailed = errors.New("limiter waiting failed")
	ErrContextEnded  = errors.New("throttle context ended")
)

// Config defines the throttler's
// connects per second and burst rate.
type Config struct {
	RPS   int
	Burst int
}

// ContextDialer is the dialing side of a connection, as implemented
// by *net.Dialer.
type ContextDialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// throttle is a ContextDialer, using the time/rate token
// bucket limiter to restrict outbound connects.
type throttle struct {
	limiter *rate.Limiter
	rps     int
	burst   int
	next    ContextDialer
	logFn   func() *slog.Logger
}
