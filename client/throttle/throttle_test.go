package throttle

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// pipeDialer hands out in-memory connections and counts dials.
type pipeDialer struct {
	calls atomic.Int32
}

func (d *pipeDialer) DialContext(context.Context, string, string) (net.Conn, error) {
	d.calls.Add(1)
	c1, c2 := net.Pipe()
	c2.Close()
	return c1, nil
}

func TestNewDialer_Validation(t *testing.T) {
	testCases := []struct {
		name   string
		rps    int
		burst  int
		expErr error
	}{
		{
			name:   "Invalid RPS (zero)",
			rps:    0,
			burst:  10,
			expErr: ErrMustNotBeZero,
		},
		{
			name:   "Invalid RPS (negative)",
			rps:    -5,
			burst:  10,
			expErr: ErrMustNotBeZero,
		},
		{
			name:   "Invalid Burst (zero)",
			rps:    10,
			burst:  0,
			expErr: ErrMustNotBeZero,
		},
		{
			name:   "Invalid Burst (negative)",
			rps:    10,
			burst:  -5,
			expErr: ErrMustNotBeZero,
		},
		{
			name:  "Valid input",
			rps:   10,
			burst: 20,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := NewDialer(tc.rps, tc.burst, func() *slog.Logger { return nil }, &pipeDialer{})

			if tc.expErr != nil {
				if !errors.Is(err, tc.expErr) {
					t.Errorf("exp err %v; got: %v", tc.expErr, err)
				}
			} else {
				if err != nil {
					t.Errorf("exp nil err, got: %v", err)
				}

				if d == nil {
					t.Error("exp non-nil ContextDialer")
				}
			}
		})
	}
}

func TestThrottleDialer_Behavior(t *testing.T) {
	checkWaitingFailed := func(t *testing.T, err error, caseName string) {
		if !errors.Is(err, ErrWaitingFailed) {
			t.Errorf("%s should have returned ErrWaitingFailed, got: %v", caseName, err)
		}
	}
	checkContextEnded := func(t *testing.T, err error, caseName string) {
		if !errors.Is(err, context.Canceled) {
			t.Errorf("%s should have returned context.Canceled, got %v", caseName, err)
		}
		if !errors.Is(err, ErrContextEnded) {
			t.Errorf("%s should have returned ErrContextEnded, got: %v", caseName, err)
		}
	}
	checkFast := func(t *testing.T, duration time.Duration, threshold time.Duration, caseName string) {
		if duration > threshold {
			t.Errorf("[%s] should be fast (< %v); but took %v", caseName, threshold, duration)
		}
	}
	checkSlowedDown := func(t *testing.T, duration time.Duration, minThreshold time.Duration, caseName string) {
		if duration < minThreshold {
			t.Errorf("[%s] execution should be slowed down by throttle (>= %v), but took %v", caseName, minThreshold, duration)
		}
	}

	testCases := []struct {
		name             string
		rps              int
		burst            int
		numDials         int
		dialTimeout      time.Duration
		cancelContextIdx int // Index of dial to pre-cancel context for (-1 means none)
		expectErrs       int
		errorCheck       func(t *testing.T, err error, caseName string)
		timingCheck      func(t *testing.T, duration time.Duration, caseName string)
	}{
		{
			name:             "High Limits - Concurrent Load",
			rps:              10000,
			burst:            100,
			numDials:         50,
			cancelContextIdx: -1,
			timingCheck: func(t *testing.T, duration time.Duration, caseName string) {
				checkFast(t, duration, 200*time.Millisecond, caseName)
			},
		},
		{
			name:             "Low Limit - Exceed Burst & Timeout Waiting",
			rps:              5,
			burst:            2,
			numDials:         5, // 2 use burst, the rest would wait >= 200ms
			dialTimeout:      50 * time.Millisecond,
			cancelContextIdx: -1,
			expectErrs:       3,
			errorCheck:       checkWaitingFailed,
		},
		{
			name:             "Low Limit - Exceed Burst - Succeed Waiting",
			rps:              10,
			burst:            5,
			numDials:         8, // 5 use burst, 3 need to wait (up to 100ms each)
			dialTimeout:      500 * time.Millisecond,
			cancelContextIdx: -1,
			timingCheck: func(t *testing.T, duration time.Duration, caseName string) {
				// (8-5 dials) / 10 RPS = 0.3 seconds, less one interval of slack
				minDuration := time.Duration(float64(time.Second) * float64(8-5-1) / float64(10))
				checkSlowedDown(t, duration, minDuration, caseName)
			},
		},
		{
			name:             "Pre-Cancelled Context Fails Early",
			rps:              20,
			burst:            10,
			numDials:         1,
			dialTimeout:      time.Second,
			cancelContextIdx: 0,
			expectErrs:       1,
			errorCheck:       checkContextEnded,
			timingCheck: func(t *testing.T, duration time.Duration, caseName string) {
				checkFast(t, duration, 50*time.Millisecond, caseName)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			next := &pipeDialer{}

			d, err := NewDialer(tc.rps, tc.burst, func() *slog.Logger { return nil }, next)
			if err != nil {
				t.Fatal(err)
			}

			var wg sync.WaitGroup
			errs := make([]error, tc.numDials)

			start := time.Now()

			for i := range tc.numDials {
				wg.Go(func() {
					ctx := t.Context()
					cancel := context.CancelFunc(func() {})

					switch {
					case i == tc.cancelContextIdx:
						ctx, cancel = context.WithCancel(ctx)
						cancel()
					case tc.dialTimeout > 0:
						ctx, cancel = context.WithTimeout(ctx, tc.dialTimeout)
					}
					defer cancel()

					conn, err := d.DialContext(ctx, "tcp", "example.test:80")
					errs[i] = err
					if conn != nil {
						conn.Close()
					}
				})
			}

			wg.Wait()
			duration := time.Since(start)

			failed := 0
			for i, err := range errs {
				if err != nil {
					failed++
					t.Logf("Dial %d failed with: %v", i, err)
					if tc.errorCheck != nil {
						tc.errorCheck(t, err, tc.name)
					}
				}
			}

			if tc.expectErrs != failed {
				t.Errorf("expected %d failed dials; got %d", tc.expectErrs, failed)
			}

			if exp, got := int32(tc.numDials-failed), next.calls.Load(); exp != got {
				t.Errorf("[%s] Unexpected number of dials reached the next dialer; exp %d, got %d", tc.name, exp, got)
			}

			if tc.timingCheck != nil {
				tc.timingCheck(t, duration, tc.name)
			}
		})
	}
}

func TestThrottleDialer_LogsExhaustion(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	d, err := NewDialer(100, 1, func() *slog.Logger { return logger }, &pipeDialer{})
	if err != nil {
		t.Fatal(err)
	}

	for range 2 {
		conn, err := d.DialContext(t.Context(), "tcp", "example.test:80")
		if err != nil {
			t.Fatalf("dial: %v", err)
		}
		conn.Close()
	}

	out := buf.String()
	if !strings.Contains(out, "throttle tokens exhausted") {
		t.Errorf("exp exhaustion log, got: %s", out)
	}
	if !strings.Contains(out, "throttle wait complete") {
		t.Errorf("exp wait complete log, got: %s", out)
	}
}
