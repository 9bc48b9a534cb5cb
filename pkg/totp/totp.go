package totp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"io"
	"time"
)

const (
	Digits     = 6
	Period     = 30
	Algorithm  = "SHA1"
	SecretSize = 20

	// Skew is the number of steps either side of the current one that
	// verification accepts.
	Skew = 1

	modulus = 1_000_000
)

// Engine generates and verifies codes against an injected clock.
type Engine struct {
	clock  Clock
	random io.Reader
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source. The default is SystemClock.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithRandom sets the source used by GenerateSecret. The default is crypto/rand.
func WithRandom(r io.Reader) Option {
	return func(e *Engine) {
		if r != nil {
			e.random = r
		}
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{
		clock:  SystemClock{},
		random: rand.Reader,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GenerateSecret returns 20 random bytes encoded as unpadded Base32 (32 characters).
func (e *Engine) GenerateSecret() (string, error) {
	key := make([]byte, SecretSize)
	if _, err := io.ReadFull(e.random, key); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRandomSource, err)
	}
	return encodeSecret(key), nil
}

// GenerateCode returns the code for the current step shifted by windowOffset steps.
func (e *Engine) GenerateCode(secret string, windowOffset int) (string, error) {
	return CodeAt(secret, e.clock.Now(), windowOffset)
}

// VerifyCode reports whether candidate matches the current step or one of its
// neighbours. Malformed input of any kind yields false.
func (e *Engine) VerifyCode(secret, candidate string) bool {
	_, ok := e.Match(secret, candidate)
	return ok
}

// Match is VerifyCode that also returns the time step the candidate matched.
func (e *Engine) Match(secret, candidate string) (int64, bool) {
	if !wellFormed(candidate) {
		return 0, false
	}
	key, err := decodeSecret(secret)
	if err != nil {
		return 0, false
	}

	current := Counter(e.clock.Now())
	matched := int64(0)
	found := 0
	for offset := -Skew; offset <= Skew; offset++ {
		step := current + int64(offset)
		code := formatCode(hotp(key, step))
		// Every window is compared so timing does not reveal which one matched.
		eq := subtle.ConstantTimeCompare([]byte(code), []byte(candidate))
		if eq == 1 && found == 0 {
			matched = step
			found = 1
		}
	}
	return matched, found == 1
}

// Now returns the engine clock's current instant.
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

// CodeAt returns the code for the step containing t shifted by windowOffset steps.
func CodeAt(secret string, t time.Time, windowOffset int) (string, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return "", err
	}
	return formatCode(hotp(key, Counter(t)+int64(windowOffset))), nil
}

// Counter returns floor(unix seconds / Period) for t.
func Counter(t time.Time) int64 {
	secs := t.Unix()
	c := secs / Period
	if secs%Period < 0 {
		c--
	}
	return c
}

// hotp is the RFC 4226 value for counter before reduction to Digits.
func hotp(key []byte, counter int64) uint32 {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], uint64(counter))

	mac := hmac.New(sha1.New, key)
	mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	return binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7fffffff
}

func formatCode(v uint32) string {
	return fmt.Sprintf("%0*d", Digits, v%modulus)
}

func wellFormed(candidate string) bool {
	if len(candidate) != Digits {
		return false
	}
	for i := 0; i < len(candidate); i++ {
		if candidate[i] < '0' || candidate[i] > '9' {
			return false
		}
	}
	return true
}
