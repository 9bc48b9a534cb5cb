package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/assetshield/adminauth/internal/auth/domain"
	"github.com/assetshield/adminauth/internal/auth/store"
	"github.com/assetshield/adminauth/pkg/cryptox"
	"github.com/assetshield/adminauth/pkg/totp"
)

// recoveryCodeCount is how many recovery codes an admin holds at a time.
const recoveryCodeCount = 10

// secondFactor checks TOTP codes for stored admins. It is shared by the login
// and the account management flows so both refuse replayed codes the same way.
type secondFactor struct {
	engine *totp.Engine
	sealer *cryptox.Sealer
}

// secret opens the sealed TOTP secret of an admin.
func (f secondFactor) secret(a domain.Admin) (string, error) {
	if a.TOTPSecret == nil || *a.TOTPSecret == "" {
		return "", ErrEnrollmentMissing
	}
	secret, err := f.sealer.OpenString(*a.TOTPSecret)
	if err != nil {
		return "", fmt.Errorf("open totp secret: %w", err)
	}
	return secret, nil
}

// accept verifies code against an enabled second factor and records its time
// step. A code whose step is not newer than the last accepted one is refused.
func (f secondFactor) accept(ctx context.Context, admins store.Admins, a domain.Admin, code string, now time.Time) error {
	if !a.MFAEnabled() {
		return ErrMFANotEnabled
	}
	secret, err := f.secret(a)
	if err != nil {
		return err
	}

	step, ok := f.engine.Match(secret, code)
	if !ok {
		return ErrInvalidCode
	}
	advanced, err := admins.AdvanceTOTPStep(ctx, a.ID, step, now)
	if err != nil {
		return fmt.Errorf("record totp step: %w", err)
	}
	if !advanced {
		return ErrInvalidCode
	}
	return nil
}

// newRecoveryCodes returns fresh plaintext codes and their fingerprints.
func newRecoveryCodes() ([]string, []string, error) {
	codes := make([]string, recoveryCodeCount)
	hashes := make([]string, recoveryCodeCount)
	for i := range recoveryCodeCount {
		code, err := cryptox.GenerateRecoveryCode()
		if err != nil {
			return nil, nil, err
		}
		codes[i] = code
		hashes[i] = recoveryFingerprint(code)
	}
	return codes, hashes, nil
}

func recoveryFingerprint(code string) string {
	return cryptox.FingerprintToken(cryptox.NormalizeRecoveryCode(code))
}

// replaceRecoveryCodes swaps all recovery codes of an admin inside tx.
func replaceRecoveryCodes(ctx context.Context, tx store.Tx, adminID string, hashes []string, now time.Time) error {
	if err := tx.RecoveryCodes().DeleteAllRecoveryCodes(ctx, adminID); err != nil {
		return fmt.Errorf("delete recovery codes: %w", err)
	}
	for _, h := range hashes {
		if err := tx.RecoveryCodes().CreateRecoveryCode(ctx, adminID, h, now); err != nil {
			return fmt.Errorf("store recovery code: %w", err)
		}
	}
	return nil
}

// getAdmin maps a missing admin to ErrAdminNotFound.
func getAdmin(ctx context.Context, admins store.Admins, id string) (domain.Admin, error) {
	a, err := admins.GetAdminByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Admin{}, ErrAdminNotFound
		}
		return domain.Admin{}, err
	}
	return a, nil
}
