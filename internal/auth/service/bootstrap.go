package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"

	"github.com/assetshield/adminauth/internal/auth/domain"
	"github.com/assetshield/adminauth/internal/auth/store"
	"github.com/assetshield/adminauth/pkg/cryptox"
	"github.com/assetshield/adminauth/pkg/idx"
	"github.com/assetshield/adminauth/pkg/slogx"
	"github.com/assetshield/adminauth/pkg/totp"
)

var ErrBootstrapFailedToCreateAdmin = errors.New("failed to create admin")

type BootstrapService struct {
	Store  store.Store
	Engine *totp.Engine
	Token  string // pre-configured bootstrap token
}

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Admins().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// Bootstrap creates the first administrator. It only works while there are
// no admins and the token matches the configured one.
func (s *BootstrapService) Bootstrap(ctx context.Context, token string, req domain.BootstrapData) (string, error) {
	l := slogx.FromContext(ctx)

	if bootstrapped, err := s.IsBootstrapped(ctx); err != nil {
		return "", err
	} else if bootstrapped {
		l.Warn("attempted bootstrap on already-bootstrapped system")
		return "", ErrBootstrapAlready
	}

	if s.Token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.Token)) != 1 {
		l.Warn("unauthorized bootstrap attempt")
		return "", ErrBootstrapUnauthorized
	}

	passHash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		l.Error("failed to hash admin password", slog.Any("error", err))
		return "", ErrBootstrapFailedToCreateAdmin
	}

	now := s.Engine.Now()
	adminID := idx.NewAt(now).String()
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// re-check inside the tx so two racing bootstraps create one admin
		empty, err := tx.Admins().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return ErrBootstrapAlready
		}
		return tx.Admins().CreateAdmin(ctx, domain.Admin{
			ID:           adminID,
			Email:        req.Email,
			DisplayName:  req.DisplayName,
			PasswordHash: passHash,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	})
	if err != nil {
		if errors.Is(err, ErrBootstrapAlready) {
			return "", err
		}
		l.Error("failed to create admin", slog.String("admin_id", adminID), slog.Any("error", err))
		return "", ErrBootstrapFailedToCreateAdmin
	}

	l.Info("successfully bootstrapped system", slog.String("admin_id", adminID))
	return adminID, nil
}
