package totp

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/pquerna/otp"
	pqtotp "github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Base32 of the ASCII seed "12345678901234567890" from RFC 6238 Appendix B.
const rfcSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func engineAt(t time.Time) *Engine {
	return New(WithClock(FixedClock(t)))
}

func TestCodeAt_RFC6238Vectors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		unix int64
		want string
	}{
		{59, "287082"},
		{1111111109, "081804"},
		{1111111111, "050471"},
		{1234567890, "005924"},
		{2000000000, "279037"},
		{20000000000, "353130"},
	}

	for _, tc := range cases {
		got, err := CodeAt(rfcSecret, time.Unix(tc.unix, 0), 0)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "T=%d", tc.unix)

		got, err = engineAt(time.Unix(tc.unix, 0)).GenerateCode(rfcSecret, 0)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "T=%d", tc.unix)
	}
}

func TestGenerateCode_MatchesIndependentImplementation(t *testing.T) {
	t.Parallel()

	eng := New()
	opts := pqtotp.ValidateOpts{
		Period:    Period,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}

	for i := 0; i < 20; i++ {
		secret, err := eng.GenerateSecret()
		require.NoError(t, err)

		at := time.Unix(1_700_000_000+int64(i)*7919, 0)
		want, err := pqtotp.GenerateCodeCustom(secret, at, opts)
		require.NoError(t, err)

		got, err := CodeAt(secret, at, 0)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestGenerateCode_Deterministic(t *testing.T) {
	t.Parallel()

	eng := engineAt(time.Unix(1_700_000_000, 0))
	a, err := eng.GenerateCode(rfcSecret, 0)
	require.NoError(t, err)
	b, err := eng.GenerateCode(rfcSecret, 0)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateCode_Format(t *testing.T) {
	t.Parallel()

	eng := New()
	for i := 0; i < 50; i++ {
		secret, err := eng.GenerateSecret()
		require.NoError(t, err)
		for _, off := range []int{-1, 0, 1} {
			code, err := eng.GenerateCode(secret, off)
			require.NoError(t, err)
			require.Len(t, code, 6)
			require.True(t, wellFormed(code), code)
		}
	}
}

func TestGenerateCode_WindowOffset(t *testing.T) {
	t.Parallel()

	now := time.Unix(1111111111, 0)
	eng := engineAt(now)

	prev, err := eng.GenerateCode(rfcSecret, -1)
	require.NoError(t, err)
	want, err := CodeAt(rfcSecret, now.Add(-Period*time.Second), 0)
	require.NoError(t, err)
	assert.Equal(t, want, prev)

	next, err := eng.GenerateCode(rfcSecret, 1)
	require.NoError(t, err)
	want, err = CodeAt(rfcSecret, now.Add(Period*time.Second), 0)
	require.NoError(t, err)
	assert.Equal(t, want, next)
}

func TestGenerateCode_InvalidSecret(t *testing.T) {
	t.Parallel()

	eng := New()
	for _, secret := range []string{"", "A", "ABC1", "JBSWY3DP!", "====", "0OO"} {
		_, err := eng.GenerateCode(secret, 0)
		assert.ErrorIs(t, err, ErrInvalidSecret, "secret %q", secret)
	}
}

func TestGenerateCode_LenientDecoding(t *testing.T) {
	t.Parallel()

	at := time.Unix(59, 0)
	want, err := CodeAt(rfcSecret, at, 0)
	require.NoError(t, err)

	lower, err := CodeAt(strings.ToLower(rfcSecret), at, 0)
	require.NoError(t, err)
	assert.Equal(t, want, lower)

	padded, err := CodeAt(rfcSecret+"======", at, 0)
	require.NoError(t, err)
	assert.Equal(t, want, padded)
}

func TestGenerateSecret(t *testing.T) {
	t.Parallel()

	eng := New()
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		secret, err := eng.GenerateSecret()
		require.NoError(t, err)
		require.Len(t, secret, 32)
		require.NotContains(t, secret, "=")

		key, err := decodeSecret(secret)
		require.NoError(t, err)
		require.Len(t, key, SecretSize)

		_, dup := seen[secret]
		require.False(t, dup)
		seen[secret] = struct{}{}
	}
}

func TestGenerateSecret_RoundTrip(t *testing.T) {
	t.Parallel()

	raw := bytes.Repeat([]byte{0xA5}, SecretSize)
	eng := New(WithRandom(bytes.NewReader(raw)))

	secret, err := eng.GenerateSecret()
	require.NoError(t, err)

	key, err := decodeSecret(secret)
	require.NoError(t, err)
	assert.Equal(t, raw, key)
}

func TestGenerateSecret_RandomFailure(t *testing.T) {
	t.Parallel()

	eng := New(WithRandom(iotest.ErrReader(errors.New("entropy exhausted"))))
	secret, err := eng.GenerateSecret()
	require.ErrorIs(t, err, ErrRandomSource)
	assert.Empty(t, secret)
}

func TestVerifyCode_DriftTolerance(t *testing.T) {
	t.Parallel()

	// Step aligned instant.
	base := time.Unix(1_700_000_010-1_700_000_010%Period, 0)
	code, err := CodeAt(rfcSecret, base, 0)
	require.NoError(t, err)

	cases := []struct {
		name  string
		delta time.Duration
		want  bool
	}{
		{"same step", 0, true},
		{"late in step", 29 * time.Second, true},
		{"previous step", -30 * time.Second, true},
		{"next step", 59 * time.Second, true},
		{"two steps ahead", 60 * time.Second, false},
		{"T+61", 61 * time.Second, false},
		{"two steps behind", -31 * time.Second, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			eng := engineAt(base.Add(tc.delta))
			assert.Equal(t, tc.want, eng.VerifyCode(rfcSecret, code))
		})
	}
}

func TestVerifyCode_RejectsGarbage(t *testing.T) {
	t.Parallel()

	now := time.Unix(59, 0)
	eng := engineAt(now)

	for off := -Skew; off <= Skew; off++ {
		c, err := CodeAt(rfcSecret, now, off)
		require.NoError(t, err)
		if c == "000000" {
			t.Skip("fixture secret produces 000000 in the window")
		}
	}

	for _, candidate := range []string{"", "abcdef", "000000", "12345", "1234567", " 287082", "28708a"} {
		assert.False(t, eng.VerifyCode(rfcSecret, candidate), "candidate %q", candidate)
	}
}

func TestVerifyCode_InvalidSecretIsFalse(t *testing.T) {
	t.Parallel()

	eng := engineAt(time.Unix(59, 0))
	assert.False(t, eng.VerifyCode("not base32!", "287082"))
	assert.False(t, eng.VerifyCode("", "287082"))
}

func TestMatch_ReturnsStep(t *testing.T) {
	t.Parallel()

	now := time.Unix(1111111111, 0)
	eng := engineAt(now)
	current := Counter(now)

	for off := -1; off <= 1; off++ {
		code, err := eng.GenerateCode(rfcSecret, off)
		require.NoError(t, err)

		step, ok := eng.Match(rfcSecret, code)
		require.True(t, ok)
		assert.Equal(t, current+int64(off), step)
	}
}

func TestCounter(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(0), Counter(time.Unix(0, 0)))
	assert.Equal(t, int64(0), Counter(time.Unix(29, 0)))
	assert.Equal(t, int64(1), Counter(time.Unix(30, 0)))
	assert.Equal(t, int64(-1), Counter(time.Unix(-1, 0)))
	assert.Equal(t, int64(37037037), Counter(time.Unix(1111111111, 0)))
}

func TestEnrollmentScenario(t *testing.T) {
	t.Parallel()

	t0 := time.Unix(1_750_000_000, 0)
	now := t0
	eng := New(WithClock(ClockFunc(func() time.Time { return now })))

	secret, err := eng.GenerateSecret()
	require.NoError(t, err)

	code, err := eng.GenerateCode(secret, 0)
	require.NoError(t, err)

	now = t0.Add(15 * time.Second)
	assert.True(t, eng.VerifyCode(secret, code))

	now = t0.Add(95 * time.Second)
	assert.False(t, eng.VerifyCode(secret, code))

	uri, err := BuildProvisioningURI(secret, "Acme", "admin@acme.test")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "otpauth://totp/Acme:admin%40acme.test?"), uri)
	assert.Contains(t, uri, "secret="+secret)
}
