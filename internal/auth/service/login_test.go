package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/assetshield/adminauth/pkg/ratelimit"
	"github.com/assetshield/adminauth/pkg/totp"
	"github.com/stretchr/testify/require"
)

// mfaChallenge logs in with the right password and returns the challenge error.
func mfaChallenge(t *testing.T, f *fixture, email string) error {
	t.Helper()
	_, err := f.login.Login(context.Background(), email, testPassword)
	var mfa *MFARequiredError
	require.True(t, errors.As(err, &mfa), "expected a second factor challenge, got %v", err)
	require.NotEmpty(t, mfa.ChallengeToken)
	require.Equal(t, []string{"totp", "recovery_code"}, mfa.Methods)
	require.Equal(t, 300, mfa.ExpiresIn)
	return err
}

func challengeToken(t *testing.T, f *fixture, email string) string {
	t.Helper()
	return mfaChallenge(t, f, email).(*MFARequiredError).ChallengeToken
}

func TestLogin_PasswordOnly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	a := f.createAdmin(t, "ops@example.com")

	session, err := f.login.Login(ctx, "  OPS@example.com ", testPassword)
	require.NoError(t, err)
	require.Equal(t, "Bearer", session.TokenType)
	require.Equal(t, []string{"pwd"}, session.AMR)

	claims, err := f.keys.Verifier.Verify(session.AccessToken)
	require.NoError(t, err)
	require.Equal(t, a.ID, claims.Subject)
	require.False(t, claims.HasAMR("mfa"))
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	f.createAdmin(t, "ops@example.com")

	_, err := f.login.Login(ctx, "ops@example.com", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.login.Login(ctx, "nobody@example.com", testPassword)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_WithTOTP(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	a := f.createAdmin(t, "ops@example.com")
	secret, _ := f.enableTOTP(t, a.ID)

	token := challengeToken(t, f, a.Email)
	session, err := f.login.CompleteLogin(ctx, token, "totp", f.code(t, secret))
	require.NoError(t, err)
	require.Equal(t, []string{"pwd", "otp", "mfa"}, session.AMR)

	claims, err := f.keys.Verifier.Verify(session.AccessToken)
	require.NoError(t, err)
	require.True(t, claims.HasAMR("mfa"))
	require.Equal(t, a.Email, claims.Email)

	// The challenge is single use.
	_, err = f.login.CompleteLogin(ctx, token, "totp", f.code(t, secret))
	require.ErrorIs(t, err, ErrInvalidChallenge)
}

func TestCompleteLogin_RejectsReplayedCode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	a := f.createAdmin(t, "ops@example.com")
	secret, _ := f.enableTOTP(t, a.ID)

	code := f.code(t, secret)
	_, err := f.login.CompleteLogin(ctx, challengeToken(t, f, a.Email), "totp", code)
	require.NoError(t, err)

	// Same code, fresh challenge, still inside the drift window.
	f.clock.Advance(10 * time.Second)
	_, err = f.login.CompleteLogin(ctx, challengeToken(t, f, a.Email), "totp", code)
	require.ErrorIs(t, err, ErrInvalidCode)

	// A code from an older step than the last accepted one is refused too.
	f.clock.Advance(totp.Period * time.Second)
	_, err = f.login.CompleteLogin(ctx, challengeToken(t, f, a.Email), "totp", code)
	require.ErrorIs(t, err, ErrInvalidCode)

	// The next step's code works.
	_, err = f.login.CompleteLogin(ctx, challengeToken(t, f, a.Email), "totp", f.code(t, secret))
	require.NoError(t, err)
}

func TestCompleteLogin_ConcurrentSameCode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	a := f.createAdmin(t, "ops@example.com")
	secret, _ := f.enableTOTP(t, a.ID)

	const n = 4
	tokens := make([]string, n)
	for i := range tokens {
		tokens[i] = challengeToken(t, f, a.Email)
	}
	code := f.code(t, secret)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for _, tok := range tokens {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.login.CompleteLogin(ctx, tok, "totp", code); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, wins)
}

func TestCompleteLogin_DriftWindow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	a := f.createAdmin(t, "ops@example.com")
	secret, _ := f.enableTOTP(t, a.ID)

	// Skip ahead so the previous step is newer than the confirming one.
	f.clock.Advance(2 * totp.Period * time.Second)

	tooOld, err := totp.CodeAt(secret, f.clock.Now(), -2)
	require.NoError(t, err)
	_, err = f.login.CompleteLogin(ctx, challengeToken(t, f, a.Email), "totp", tooOld)
	require.ErrorIs(t, err, ErrInvalidCode)

	prev, err := totp.CodeAt(secret, f.clock.Now(), -1)
	require.NoError(t, err)
	_, err = f.login.CompleteLogin(ctx, challengeToken(t, f, a.Email), "totp", prev)
	require.NoError(t, err)
}

func TestCompleteLogin_MaxAttempts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	a := f.createAdmin(t, "ops@example.com")
	secret, _ := f.enableTOTP(t, a.ID)

	wrong, err := totp.CodeAt(secret, f.clock.Now(), 7)
	require.NoError(t, err)

	token := challengeToken(t, f, a.Email)
	for range MaxChallengeAttempts - 1 {
		_, err := f.login.CompleteLogin(ctx, token, "totp", wrong)
		require.ErrorIs(t, err, ErrInvalidCode)
	}
	_, err = f.login.CompleteLogin(ctx, token, "totp", wrong)
	require.ErrorIs(t, err, ErrTooManyAttempts)

	// The challenge is gone, even for the right code.
	_, err = f.login.CompleteLogin(ctx, token, "totp", f.code(t, secret))
	require.ErrorIs(t, err, ErrInvalidChallenge)
}

func TestCompleteLogin_GarbageCode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	a := f.createAdmin(t, "ops@example.com")
	f.enableTOTP(t, a.ID)

	token := challengeToken(t, f, a.Email)
	for _, code := range []string{"", "12345", "1234567", "abcdef", "12 456"} {
		_, err := f.login.CompleteLogin(ctx, token, "totp", code)
		require.Error(t, err)
	}
}

func TestCompleteLogin_ExpiredChallenge(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	a := f.createAdmin(t, "ops@example.com")
	secret, _ := f.enableTOTP(t, a.ID)

	token := challengeToken(t, f, a.Email)
	f.clock.Advance(DefaultChallengeTTL)

	_, err := f.login.CompleteLogin(ctx, token, "totp", f.code(t, secret))
	require.ErrorIs(t, err, ErrInvalidChallenge)
}

func TestCompleteLogin_RecoveryCode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	a := f.createAdmin(t, "ops@example.com")
	_, codes := f.enableTOTP(t, a.ID)

	// Case and separators are ignored.
	typed := strings.ToLower(strings.ReplaceAll(codes[0], "-", " "))
	session, err := f.login.CompleteLogin(ctx, challengeToken(t, f, a.Email), "recovery_code", typed)
	require.NoError(t, err)
	require.Equal(t, []string{"pwd", "rec", "mfa"}, session.AMR)

	_, err = f.login.CompleteLogin(ctx, challengeToken(t, f, a.Email), "recovery_code", codes[0])
	require.ErrorIs(t, err, ErrInvalidCode, "recovery codes are single use")

	remaining, err := f.mfa.RecoveryCodesRemaining(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, recoveryCodeCount-1, remaining)
}

func TestCompleteLogin_UnsupportedMethod(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	a := f.createAdmin(t, "ops@example.com")
	f.enableTOTP(t, a.ID)

	_, err := f.login.CompleteLogin(context.Background(), challengeToken(t, f, a.Email), "sms", "123456")
	require.ErrorIs(t, err, ErrUnsupportedMethod)
}

func TestCompleteLogin_SecondFactorRemovedAfterChallenge(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	a := f.createAdmin(t, "ops@example.com")
	secret, recovery := f.enableTOTP(t, a.ID)

	totpToken := challengeToken(t, f, a.Email)
	recoveryToken := challengeToken(t, f, a.Email)
	require.NoError(t, f.mfa.DisableTOTP(ctx, a.ID, f.code(t, secret)))
	f.clock.Advance(totp.Period * time.Second)

	_, err := f.login.CompleteLogin(ctx, totpToken, "totp", f.code(t, secret))
	require.ErrorIs(t, err, ErrInvalidChallenge)
	_, err = f.login.CompleteLogin(ctx, recoveryToken, "recovery_code", recovery[0])
	require.ErrorIs(t, err, ErrInvalidChallenge)

	// The challenge was dropped.
	_, err = f.login.CompleteLogin(ctx, totpToken, "totp", f.code(t, secret))
	require.ErrorIs(t, err, ErrInvalidChallenge)
}

func TestCompleteLogin_AttemptLimiterSpansChallenges(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	a := f.createAdmin(t, "ops@example.com")
	b := f.createAdmin(t, "guard@example.com")
	secret, _ := f.enableTOTP(t, a.ID)
	f.enableTOTP(t, b.ID)

	limiter, err := ratelimit.NewMemory(ratelimit.Config{RequestsPerWindow: 3, Window: time.Hour, Burst: 3},
		ratelimit.WithNow(f.clock.Now))
	require.NoError(t, err)
	f.login.AttemptLimiter = limiter

	// Fresh challenges do not reset the per-admin budget.
	for range 3 {
		_, err := f.login.CompleteLogin(ctx, challengeToken(t, f, a.Email), "recovery_code", "AAAAA-AAAAA")
		require.ErrorIs(t, err, ErrInvalidCode)
	}
	token := challengeToken(t, f, a.Email)
	_, err = f.login.CompleteLogin(ctx, token, "totp", f.code(t, secret))
	require.ErrorIs(t, err, ErrRateLimited)

	// A limited attempt does not count against the challenge, and other
	// admins keep their own budget.
	_, err = f.login.CompleteLogin(ctx, challengeToken(t, f, b.Email), "recovery_code", "AAAAA-AAAAA")
	require.ErrorIs(t, err, ErrInvalidCode)

	f.clock.Advance(time.Hour)
	_, err = f.login.CompleteLogin(ctx, challengeToken(t, f, a.Email), "totp", f.code(t, secret))
	require.NoError(t, err)
}
