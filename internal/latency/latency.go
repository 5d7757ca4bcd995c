// Package latency simulates mock-API response delays behind an
// injectable boundary so core logic never sleeps on its own.
package latency

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Simulator delays named operations by a configured duration and can
// additionally throttle overall call throughput. The zero value resolves
// every call immediately, which is the substitute tests should use.
type Simulator struct {
	mu       sync.RWMutex
	delays   map[string]time.Duration
	fallback time.Duration
	limiter  *rate.Limiter
}

// New creates a simulator with per-operation delays and a fallback for
// operations not listed.
func New(delays map[string]time.Duration, fallback time.Duration) *Simulator {
	copied := make(map[string]time.Duration, len(delays))
	for op, d := range delays {
		copied[op] = d
	}
	return &Simulator{delays: copied, fallback: fallback}
}

// WithLimiter caps call throughput at n calls per second with the given
// burst, on top of the fixed delays.
func (s *Simulator) WithLimiter(perSecond float64, burst int) *Simulator {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	return s
}

// SetDelay overrides the delay for one operation.
func (s *Simulator) SetDelay(op string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.delays == nil {
		s.delays = make(map[string]time.Duration)
	}
	s.delays[op] = d
}

func (s *Simulator) delayFor(op string) (time.Duration, *rate.Limiter) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.delays[op]; ok {
		return d, s.limiter
	}
	return s.fallback, s.limiter
}

// Wait blocks for the operation's configured delay, honoring ctx
// cancellation. A nil simulator or zero delay returns immediately.
func (s *Simulator) Wait(ctx context.Context, op string) error {
	if s == nil {
		return nil
	}

	d, limiter := s.delayFor(op)
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
	}
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
