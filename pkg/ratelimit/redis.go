package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindow increments the counter and starts its expiry on the first hit.
// Returns the new count and the remaining TTL in milliseconds.
var fixedWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {n, ttl}
`)

// Redis is a fixed-window limiter shared across replicas through Redis.
type Redis struct {
	client redis.Scripter
	cfg    Config
	prefix string
}

// NewRedis returns a limiter storing counters under prefix+key.
func NewRedis(client redis.Scripter, cfg Config, prefix string) (*Redis, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if prefix == "" {
		prefix = "ratelimit:"
	}
	return &Redis{client: client, cfg: cfg, prefix: prefix}, nil
}

func (l *Redis) Allow(ctx context.Context, key string) (Decision, error) {
	res, err := fixedWindow.Run(ctx, l.client, []string{l.prefix + key}, l.cfg.Window.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit: redis: %w", err)
	}
	if len(res) != 2 {
		return Decision{}, fmt.Errorf("ratelimit: redis: unexpected reply %v", res)
	}

	count, ttl := res[0], time.Duration(res[1])*time.Millisecond
	d := Decision{
		Limit:     l.cfg.RequestsPerWindow,
		Remaining: max(l.cfg.RequestsPerWindow-int(count), 0),
	}
	if count <= int64(l.cfg.RequestsPerWindow) {
		d.Allowed = true
		return d, nil
	}
	d.RetryAfter = ttl
	return d, nil
}
