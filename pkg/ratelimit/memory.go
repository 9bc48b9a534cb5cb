package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const cleanupInterval = 5 * time.Minute

// Memory is a per-key token bucket limiter held in process memory.
type Memory struct {
	cfg   Config
	rate  rate.Limit
	burst int
	now   func() time.Time

	limiters sync.Map // map[string]*rate.Limiter

	mu          sync.Mutex
	lastCleanup time.Time
}

// MemoryOption configures a Memory limiter.
type MemoryOption func(*Memory)

// WithNow sets the time source. Tests use it to step time deterministically.
func WithNow(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		if now != nil {
			m.now = now
		}
	}
}

func NewMemory(cfg Config, opts ...MemoryOption) (*Memory, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = cfg.RequestsPerWindow
	}

	m := &Memory{
		cfg:   cfg,
		rate:  rate.Limit(float64(cfg.RequestsPerWindow) / cfg.Window.Seconds()),
		burst: burst,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.lastCleanup = m.now()
	return m, nil
}

func (m *Memory) Allow(_ context.Context, key string) (Decision, error) {
	now := m.now()
	lim := m.limiter(key, now)

	d := Decision{Limit: m.cfg.RequestsPerWindow}
	if lim.AllowN(now, 1) {
		d.Allowed = true
		d.Remaining = max(int(lim.TokensAt(now)), 0)
		return d, nil
	}

	// Ask when the next token lands without consuming it.
	r := lim.ReserveN(now, 1)
	d.RetryAfter = r.DelayFrom(now)
	r.CancelAt(now)
	return d, nil
}

func (m *Memory) limiter(key string, now time.Time) *rate.Limiter {
	if lim, ok := m.limiters.Load(key); ok {
		return lim.(*rate.Limiter)
	}
	m.maybeCleanup(now)
	actual, _ := m.limiters.LoadOrStore(key, rate.NewLimiter(m.rate, m.burst))
	return actual.(*rate.Limiter)
}

// maybeCleanup drops limiters whose bucket has refilled, as those keys have
// been idle for at least a full window.
func (m *Memory) maybeCleanup(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if now.Sub(m.lastCleanup) < cleanupInterval {
		return
	}
	m.lastCleanup = now

	m.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).TokensAt(now) >= float64(m.burst) {
			m.limiters.Delete(key)
		}
		return true
	})
}

// Len returns the number of tracked keys.
func (m *Memory) Len() int {
	n := 0
	m.limiters.Range(func(any, any) bool {
		n++
		return true
	})
	return n
}
