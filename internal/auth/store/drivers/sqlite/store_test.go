package sqlite_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/assetshield/adminauth/internal/auth/domain"
	"github.com/assetshield/adminauth/internal/auth/store"
	"github.com/assetshield/adminauth/internal/auth/store/drivers/sqlite"
	"github.com/assetshield/adminauth/pkg/cryptox"
	"github.com/assetshield/adminauth/pkg/idx"
	"github.com/assetshield/adminauth/pkg/jwtx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "adminauth.db") + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite"
	s, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedAdmin(t *testing.T, s store.Store, email string) domain.Admin {
	t.Helper()
	a := domain.Admin{
		ID:           idx.New().String(),
		Email:        email,
		DisplayName:  "Site Ops",
		PasswordHash: "$pbkdf2-sha256$i=1$c2FsdA$aGFzaA",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.Admins().CreateAdmin(context.Background(), a))
	return a
}

func TestApplyMigrations_Idempotent(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestAdmins_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	empty, err := s.Admins().IsEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, empty)

	a := seedAdmin(t, s, "ops@example.com")

	got, err := s.Admins().GetAdminByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Email, got.Email)
	assert.Equal(t, a.PasswordHash, got.PasswordHash)
	assert.True(t, got.CreatedAt.Equal(now))
	assert.Nil(t, got.TOTPSecret)
	assert.False(t, got.MFAEnabled())

	got, err = s.Admins().GetAdminByEmail(ctx, "OPS@Example.com")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	empty, err = s.Admins().IsEmpty(ctx)
	require.NoError(t, err)
	assert.False(t, empty)
}

func TestAdmins_DuplicateEmail(t *testing.T) {
	s := newStore(t)
	seedAdmin(t, s, "ops@example.com")

	err := s.Admins().CreateAdmin(context.Background(), domain.Admin{
		ID:           idx.New().String(),
		Email:        "Ops@example.com",
		DisplayName:  "Other",
		PasswordHash: "x",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestAdmins_NotFound(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.Admins().GetAdminByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	err = s.Admins().UpdatePasswordHash(ctx, "missing", "h", now)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestAdmins_TOTPLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	a := seedAdmin(t, s, "ops@example.com")

	require.NoError(t, s.Admins().SetPendingTOTPSecret(ctx, a.ID, "v1.sealed", now))
	got, err := s.Admins().GetAdminByID(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.TOTPSecret)
	assert.True(t, got.EnrollmentPending())
	assert.False(t, got.MFAEnabled())

	require.NoError(t, s.Admins().EnableTOTP(ctx, a.ID, 100, now))
	got, err = s.Admins().GetAdminByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, got.MFAEnabled())
	require.NotNil(t, got.TOTPLastStep)
	assert.Equal(t, int64(100), *got.TOTPLastStep)

	// Enabled accounts cannot be re-enrolled or re-enabled.
	require.ErrorIs(t, s.Admins().SetPendingTOTPSecret(ctx, a.ID, "v1.other", now), store.ErrNotFound)
	require.ErrorIs(t, s.Admins().EnableTOTP(ctx, a.ID, 101, now), store.ErrNotFound)

	require.NoError(t, s.Admins().DisableTOTP(ctx, a.ID, now))
	got, err = s.Admins().GetAdminByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, got.TOTPSecret)
	assert.Nil(t, got.TOTPEnabledAt)
	assert.Nil(t, got.TOTPLastStep)
}

func TestAdmins_AdvanceTOTPStep(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	a := seedAdmin(t, s, "ops@example.com")
	require.NoError(t, s.Admins().SetPendingTOTPSecret(ctx, a.ID, "v1.sealed", now))
	require.NoError(t, s.Admins().EnableTOTP(ctx, a.ID, 100, now))

	ok, err := s.Admins().AdvanceTOTPStep(ctx, a.ID, 100, now)
	require.NoError(t, err)
	assert.False(t, ok, "same step must not be accepted twice")

	ok, err = s.Admins().AdvanceTOTPStep(ctx, a.ID, 99, now)
	require.NoError(t, err)
	assert.False(t, ok, "older step must not be accepted")

	ok, err = s.Admins().AdvanceTOTPStep(ctx, a.ID, 101, now)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAdmins_AdvanceTOTPStep_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	a := seedAdmin(t, s, "ops@example.com")
	require.NoError(t, s.Admins().SetPendingTOTPSecret(ctx, a.ID, "v1.sealed", now))
	require.NoError(t, s.Admins().EnableTOTP(ctx, a.ID, 100, now))

	const workers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.Admins().AdvanceTOTPStep(ctx, a.ID, 101, now)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, accepted)
}

func TestRecoveryCodes(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	a := seedAdmin(t, s, "ops@example.com")

	for _, h := range []string{"h1", "h2", "h3"} {
		require.NoError(t, s.RecoveryCodes().CreateRecoveryCode(ctx, a.ID, h, now))
	}
	require.ErrorIs(t, s.RecoveryCodes().CreateRecoveryCode(ctx, a.ID, "h1", now), store.ErrAlreadyExists)

	n, err := s.RecoveryCodes().CountRecoveryCodes(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	ok, err := s.RecoveryCodes().ConsumeRecoveryCode(ctx, a.ID, "h2")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.RecoveryCodes().ConsumeRecoveryCode(ctx, a.ID, "h2")
	require.NoError(t, err)
	assert.False(t, ok, "a recovery code is single use")

	require.NoError(t, s.RecoveryCodes().DeleteAllRecoveryCodes(ctx, a.ID))
	n, err = s.RecoveryCodes().CountRecoveryCodes(ctx, a.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLoginChallenges(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	a := seedAdmin(t, s, "ops@example.com")

	live := domain.LoginChallenge{ID: idx.New().String(), AdminID: a.ID, CreatedAt: now, ExpiresAt: now.Add(5 * time.Minute)}
	stale := domain.LoginChallenge{ID: idx.New().String(), AdminID: a.ID, CreatedAt: now.Add(-10 * time.Minute), ExpiresAt: now.Add(-5 * time.Minute)}
	require.NoError(t, s.LoginChallenges().CreateLoginChallenge(ctx, live))
	require.NoError(t, s.LoginChallenges().CreateLoginChallenge(ctx, stale))

	got, err := s.LoginChallenges().GetLoginChallenge(ctx, live.ID, now)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.AdminID)
	assert.Zero(t, got.Attempts)
	assert.True(t, got.ExpiresAt.Equal(live.ExpiresAt))

	_, err = s.LoginChallenges().GetLoginChallenge(ctx, stale.ID, now)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.LoginChallenges().GetLoginChallenge(ctx, live.ID, live.ExpiresAt)
	require.ErrorIs(t, err, store.ErrNotFound, "a challenge is dead at its expiry instant")

	got, err = s.LoginChallenges().IncrementLoginChallengeAttempts(ctx, live.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Attempts)

	n, err := s.LoginChallenges().DeleteExpiredLoginChallenges(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, s.LoginChallenges().DeleteLoginChallenge(ctx, live.ID))
	_, err = s.LoginChallenges().GetLoginChallenge(ctx, live.ID, now)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	a := seedAdmin(t, s, "ops@example.com")

	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.RecoveryCodes().CreateRecoveryCode(ctx, a.ID, "h1", now))
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	n, err := s.RecoveryCodes().CountRecoveryCodes(ctx, a.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	err = s.WithTx(ctx, func(tx store.Tx) error {
		return tx.WithTx(ctx, func(store.Tx) error { return nil })
	})
	require.Error(t, err, "nested transactions are refused")
}

func TestSigningKeys_CreateAndList(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	keys, err := s.SigningKeys().ListSigningKeys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	older := domain.SigningKey{ID: idx.New().String(), Kid: "kid-a", Algorithm: "EdDSA", PrivateKeySealed: "v1.a", CreatedAt: now}
	newer := domain.SigningKey{ID: idx.New().String(), Kid: "kid-b", Algorithm: "EdDSA", PrivateKeySealed: "v1.b", CreatedAt: now.Add(time.Minute)}
	require.NoError(t, s.SigningKeys().CreateSigningKey(ctx, newer))
	require.NoError(t, s.SigningKeys().CreateSigningKey(ctx, older))

	dup := older
	dup.ID = idx.New().String()
	require.ErrorIs(t, s.SigningKeys().CreateSigningKey(ctx, dup), store.ErrAlreadyExists)

	keys, err = s.SigningKeys().ListSigningKeys(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Equal(t, older, keys[0])
	assert.Equal(t, newer, keys[1])
}

func TestKeyStoreAdapter_PersistsSessionKeys(t *testing.T) {
	s := newStore(t)
	sealer, err := cryptox.NewSealer([]byte("master"))
	require.NoError(t, err)

	opts := jwtx.PersistentKeyManagerOptions{
		KeyManagerOptions: jwtx.KeyManagerOptions{Issuer: "adminauth", NumKeys: 2},
		Store:             store.NewKeyStoreAdapter(s),
		Sealer:            sealer,
	}
	first, err := jwtx.NewPersistentKeyManager(t.Context(), opts)
	require.NoError(t, err)

	second, err := jwtx.NewPersistentKeyManager(t.Context(), opts)
	require.NoError(t, err)
	assert.Equal(t, first.KeySet.PublicJWKS(), second.KeySet.PublicJWKS())
}
