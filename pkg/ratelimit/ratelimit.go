// Package ratelimit throttles attempts per key. Keys are usually a client IP,
// an account identifier, or both.
//
// Limiter is the injected strategy: NewMemory keeps token buckets in process,
// NewRedis keeps fixed-window counters in Redis so several replicas share one
// budget.
package ratelimit

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"
)

// Config defines a limit of RequestsPerWindow per Window. Burst only applies
// to the in-memory token bucket.
type Config struct {
	RequestsPerWindow int
	Window            time.Duration
	Burst             int
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter records an attempt for key and reports whether it is within budget.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

var ErrInvalidConfig = errors.New("ratelimit: invalid config")

func (c Config) validate() error {
	if c.RequestsPerWindow <= 0 || c.Window <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// Profiles. Each can be overridden with RATELIMIT_<NAME>_REQUESTS,
// RATELIMIT_<NAME>_WINDOW_SEC and RATELIMIT_<NAME>_BURST.
var (
	// Strict guards password and code verification.
	Strict = Config{RequestsPerWindow: 5, Window: time.Minute, Burst: 5}

	// Moderate guards authenticated admin operations.
	Moderate = Config{RequestsPerWindow: 20, Window: time.Minute, Burst: 20}

	Lenient = Config{RequestsPerWindow: 100, Window: time.Minute, Burst: 100}

	// Public guards unauthenticated read-only endpoints.
	Public = Config{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000}
)

func init() {
	Strict = ParseFromEnv("STRICT", Strict)
	Moderate = ParseFromEnv("MODERATE", Moderate)
	Lenient = ParseFromEnv("LENIENT", Lenient)
	Public = ParseFromEnv("PUBLIC", Public)
}

// ParseFromEnv overlays RATELIMIT_{prefix}_{REQUESTS,WINDOW_SEC,BURST} onto def.
// Missing or non-positive values keep the default.
func ParseFromEnv(prefix string, def Config) Config {
	cfg := def
	if v, ok := positiveEnv("RATELIMIT_" + prefix + "_REQUESTS"); ok {
		cfg.RequestsPerWindow = v
	}
	if v, ok := positiveEnv("RATELIMIT_" + prefix + "_WINDOW_SEC"); ok {
		cfg.Window = time.Duration(v) * time.Second
	}
	if v, ok := positiveEnv("RATELIMIT_" + prefix + "_BURST"); ok {
		cfg.Burst = v
	}
	return cfg
}

func positiveEnv(name string) (int, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
