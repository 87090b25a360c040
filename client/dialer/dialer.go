package dialer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/adamwoolhether/sockhttp/client/wire"
)

// DefaultRetryPause is the wait between soft connect retries.
const DefaultRetryPause = 500 * time.Microsecond

var (
	ErrConnect          = errors.New("connect failed")
	ErrRetriesExhausted = errors.New("socket initialization failed")
)

// ContextDialer is satisfied by *net.Dialer.
type ContextDialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// DialerFunc adapts a function to ContextDialer.
type DialerFunc func(ctx context.Context, network, address string) (net.Conn, error)

func (f DialerFunc) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	return f(ctx, network, address)
}

// RetriesExhaustedError is returned once the Budget is used up by soft
// failures. Last holds the last transient error, if any.
type RetriesExhaustedError struct {
	Retries int
	Last    error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("Socket initialization failed after %d retries.", e.Retries)
}

func (e *RetriesExhaustedError) Is(target error) bool {
	return target == ErrRetriesExhausted
}

func (e *RetriesExhaustedError) Unwrap() error {
	return e.Last
}

// Budget counts soft retries across every hop of one logical call.
type Budget struct {
	max  int
	used int
}

// NewBudget allows up to max retries.
func NewBudget(max int) *Budget {
	return &Budget{max: max}
}

// Used reports how many retries have been spent.
func (b *Budget) Used() int {
	return b.used
}

func (b *Budget) take() bool {
	if b.used >= b.max {
		return false
	}
	b.used++
	return true
}

// Connector dials the target of a request hop.
type Connector struct {
	// Dialer defaults to a zero net.Dialer.
	Dialer ContextDialer
	// TLSConfig is cloned per connection with ServerName set to the host.
	TLSConfig *tls.Config
	// Timeout bounds the dial and the TLS handshake. Zero means no limit.
	Timeout time.Duration
	// RetryPause is the wait before each soft retry.
	RetryPause time.Duration
}

// Connect returns an open connection to target, wrapped in TLS when the
// target requires it. Every soft failure spends one retry from budget.
func (c *Connector) Connect(ctx context.Context, target wire.Target, budget *Budget) (net.Conn, error) {
	if budget == nil {
		budget = NewBudget(0)
	}

	for {
		conn, err := c.dial(ctx, target)
		if conn != nil && err == nil {
			return conn, nil
		}

		if err != nil && !isSoft(err) {
			return nil, fmt.Errorf("%w: %s: %w", ErrConnect, target.Address(), err)
		}

		if !budget.take() {
			return nil, &RetriesExhaustedError{Retries: budget.max, Last: err}
		}

		if err := pause(ctx, c.RetryPause); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrConnect, target.Address(), err)
		}
	}
}

func (c *Connector) dial(ctx context.Context, target wire.Target) (net.Conn, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	d := c.Dialer
	if d == nil {
		d = &net.Dialer{}
	}

	conn, err := d.DialContext(ctx, "tcp", target.Address())
	if err != nil || conn == nil || !target.TLS {
		return conn, err
	}

	config := c.TLSConfig.Clone()
	if config == nil {
		config = &tls.Config{}
	}
	config.ServerName = target.Host

	tc := tls.Client(conn, config)
	if err := tc.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tc, nil
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
