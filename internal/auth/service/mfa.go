package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/assetshield/adminauth/internal/auth/domain"
	"github.com/assetshield/adminauth/internal/auth/store"
	"github.com/assetshield/adminauth/pkg/cryptox"
	"github.com/assetshield/adminauth/pkg/qrcode"
	"github.com/assetshield/adminauth/pkg/slogx"
	"github.com/assetshield/adminauth/pkg/totp"
)

// MFAService manages the authenticator app of an admin.
type MFAService struct {
	Store  store.Store
	Engine *totp.Engine
	Sealer *cryptox.Sealer
	Issuer string // shown in authenticator apps, e.g. "AssetShield"
}

func (s *MFAService) factor() secondFactor {
	return secondFactor{engine: s.Engine, sealer: s.Sealer}
}

// EnrollTOTP issues a new secret for the admin. The second factor is not
// enabled until ConfirmTOTP succeeds; calling it again replaces the pending
// secret.
func (s *MFAService) EnrollTOTP(ctx context.Context, adminID string) (domain.TOTPEnrollment, error) {
	l := slogx.FromContext(ctx)

	a, err := getAdmin(ctx, s.Store.Admins(), adminID)
	if err != nil {
		return domain.TOTPEnrollment{}, err
	}
	if a.MFAEnabled() {
		return domain.TOTPEnrollment{}, ErrMFAAlreadyEnabled
	}

	secret, err := s.Engine.GenerateSecret()
	if err != nil {
		return domain.TOTPEnrollment{}, fmt.Errorf("generate totp secret: %w", err)
	}
	uri, err := totp.BuildProvisioningURI(secret, s.Issuer, a.Email)
	if err != nil {
		return domain.TOTPEnrollment{}, fmt.Errorf("build provisioning uri: %w", err)
	}
	sealed, err := s.Sealer.SealString(secret)
	if err != nil {
		return domain.TOTPEnrollment{}, fmt.Errorf("seal totp secret: %w", err)
	}

	if err := s.Store.Admins().SetPendingTOTPSecret(ctx, a.ID, sealed, s.Engine.Now()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// enabled concurrently
			return domain.TOTPEnrollment{}, ErrMFAAlreadyEnabled
		}
		return domain.TOTPEnrollment{}, fmt.Errorf("store totp secret: %w", err)
	}

	l.Info("totp enrollment started", slog.String("admin_id", a.ID))
	return domain.TOTPEnrollment{
		Secret:  secret,
		URI:     uri,
		Issuer:  s.Issuer,
		Account: a.Email,
	}, nil
}

// ProvisioningQR renders the pending enrollment's URI as a PNG.
func (s *MFAService) ProvisioningQR(ctx context.Context, adminID string, size int) ([]byte, error) {
	a, err := getAdmin(ctx, s.Store.Admins(), adminID)
	if err != nil {
		return nil, err
	}
	if a.MFAEnabled() {
		return nil, ErrMFAAlreadyEnabled
	}
	if !a.EnrollmentPending() {
		return nil, ErrEnrollmentMissing
	}

	secret, err := s.factor().secret(a)
	if err != nil {
		return nil, err
	}
	uri, err := totp.BuildProvisioningURI(secret, s.Issuer, a.Email)
	if err != nil {
		return nil, err
	}
	return qrcode.PNG(uri, size)
}

// ConfirmTOTP checks the first code from the authenticator app, enables the
// second factor and returns the initial recovery codes.
func (s *MFAService) ConfirmTOTP(ctx context.Context, adminID, code string) ([]string, error) {
	l := slogx.FromContext(ctx)

	a, err := getAdmin(ctx, s.Store.Admins(), adminID)
	if err != nil {
		return nil, err
	}
	if a.MFAEnabled() {
		return nil, ErrMFAAlreadyEnabled
	}

	secret, err := s.factor().secret(a)
	if err != nil {
		return nil, err
	}
	step, ok := s.Engine.Match(secret, code)
	if !ok {
		l.Warn("totp confirmation failed", slog.String("admin_id", a.ID))
		return nil, ErrInvalidCode
	}

	codes, hashes, err := newRecoveryCodes()
	if err != nil {
		return nil, err
	}

	now := s.Engine.Now()
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Admins().EnableTOTP(ctx, a.ID, step, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrMFAAlreadyEnabled
			}
			return fmt.Errorf("enable totp: %w", err)
		}
		return replaceRecoveryCodes(ctx, tx, a.ID, hashes, now)
	})
	if err != nil {
		return nil, err
	}

	l.Info("totp enabled", slog.String("admin_id", a.ID))
	return codes, nil
}

// RegenerateRecoveryCodes replaces all recovery codes after checking a
// current TOTP code.
func (s *MFAService) RegenerateRecoveryCodes(ctx context.Context, adminID, code string) ([]string, error) {
	a, err := getAdmin(ctx, s.Store.Admins(), adminID)
	if err != nil {
		return nil, err
	}
	now := s.Engine.Now()
	if err := s.factor().accept(ctx, s.Store.Admins(), a, code, now); err != nil {
		return nil, err
	}

	codes, hashes, err := newRecoveryCodes()
	if err != nil {
		return nil, err
	}
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		return replaceRecoveryCodes(ctx, tx, a.ID, hashes, now)
	})
	if err != nil {
		return nil, err
	}

	slogx.FromContext(ctx).Info("recovery codes regenerated", slog.String("admin_id", a.ID))
	return codes, nil
}

// DisableTOTP removes the second factor and all recovery codes after checking
// a current TOTP code.
func (s *MFAService) DisableTOTP(ctx context.Context, adminID, code string) error {
	a, err := getAdmin(ctx, s.Store.Admins(), adminID)
	if err != nil {
		return err
	}
	now := s.Engine.Now()
	if err := s.factor().accept(ctx, s.Store.Admins(), a, code, now); err != nil {
		return err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RecoveryCodes().DeleteAllRecoveryCodes(ctx, a.ID); err != nil {
			return fmt.Errorf("delete recovery codes: %w", err)
		}
		if err := tx.Admins().DisableTOTP(ctx, a.ID, now); err != nil {
			return fmt.Errorf("disable totp: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("totp disabled", slog.String("admin_id", a.ID))
	return nil
}

// RecoveryCodesRemaining returns how many unused recovery codes the admin has.
func (s *MFAService) RecoveryCodesRemaining(ctx context.Context, adminID string) (int, error) {
	return s.Store.RecoveryCodes().CountRecoveryCodes(ctx, adminID)
}
