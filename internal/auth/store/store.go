package store

import (
	"context"
	"errors"
	"time"

	"github.com/assetshield/adminauth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement it and
// expose sub-repositories so a transaction can hand out the same repos bound
// to the transaction.
type Store interface {
	Admins() Admins
	RecoveryCodes() RecoveryCodes
	LoginChallenges() LoginChallenges
	SigningKeys() SigningKeys

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Admins interface {
	GetAdminByID(ctx context.Context, id string) (domain.Admin, error)

	// GetAdminByEmail matches case-insensitively.
	GetAdminByEmail(ctx context.Context, email string) (domain.Admin, error)

	// CreateAdmin inserts a new admin. Returns ErrAlreadyExists when the
	// email is taken.
	CreateAdmin(ctx context.Context, a domain.Admin) error

	UpdatePasswordHash(ctx context.Context, adminID, newHash string, now time.Time) error

	// IsEmpty returns true if there are no admins.
	IsEmpty(ctx context.Context) (bool, error)

	// SetPendingTOTPSecret stores a sealed secret for an admin whose second
	// factor is not yet enabled. Returns ErrNotFound if the admin is missing
	// or already enabled.
	SetPendingTOTPSecret(ctx context.Context, adminID, sealedSecret string, now time.Time) error

	// EnableTOTP marks the pending secret as confirmed and records the step
	// of the confirming code.
	EnableTOTP(ctx context.Context, adminID string, step int64, now time.Time) error

	// DisableTOTP clears the secret, the enabled timestamp and the last step.
	DisableTOTP(ctx context.Context, adminID string, now time.Time) error

	// AdvanceTOTPStep records step as the last accepted step only if it is
	// newer than the stored one. It reports false when the step was already
	// used, which makes a replayed code fail even under concurrent requests.
	AdvanceTOTPStep(ctx context.Context, adminID string, step int64, now time.Time) (bool, error)
}

type RecoveryCodes interface {
	// CreateRecoveryCode stores the fingerprint of a recovery code.
	CreateRecoveryCode(ctx context.Context, adminID, codeHash string, now time.Time) error

	// ConsumeRecoveryCode deletes a matching code and reports whether one existed.
	ConsumeRecoveryCode(ctx context.Context, adminID, codeHash string) (bool, error)

	DeleteAllRecoveryCodes(ctx context.Context, adminID string) error

	CountRecoveryCodes(ctx context.Context, adminID string) (int, error)
}

type LoginChallenges interface {
	CreateLoginChallenge(ctx context.Context, c domain.LoginChallenge) error

	// GetLoginChallenge returns a challenge that has not expired at now.
	GetLoginChallenge(ctx context.Context, id string, now time.Time) (domain.LoginChallenge, error)

	// IncrementLoginChallengeAttempts bumps the failed attempt counter and
	// returns the updated challenge.
	IncrementLoginChallengeAttempts(ctx context.Context, id string) (domain.LoginChallenge, error)

	DeleteLoginChallenge(ctx context.Context, id string) error

	// DeleteExpiredLoginChallenges removes challenges past their expiry and
	// returns how many were removed.
	DeleteExpiredLoginChallenges(ctx context.Context, now time.Time) (int64, error)
}

type SigningKeys interface {
	// CreateSigningKey stores a key. Returns ErrAlreadyExists on a duplicate kid.
	CreateSigningKey(ctx context.Context, key domain.SigningKey) error

	// ListSigningKeys returns every stored key, oldest first.
	ListSigningKeys(ctx context.Context) ([]domain.SigningKey, error)
}
