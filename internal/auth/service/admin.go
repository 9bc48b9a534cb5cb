package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/assetshield/adminauth/internal/auth/domain"
	"github.com/assetshield/adminauth/internal/auth/store"
	"github.com/assetshield/adminauth/pkg/cryptox"
	"github.com/assetshield/adminauth/pkg/idx"
	"github.com/assetshield/adminauth/pkg/slogx"
	"github.com/assetshield/adminauth/pkg/totp"
)

type AdminService struct {
	Store  store.Store
	Engine *totp.Engine
	Sealer *cryptox.Sealer
}

// GetAdmin fetches an admin by id.
func (s *AdminService) GetAdmin(ctx context.Context, adminID string) (domain.Admin, error) {
	return getAdmin(ctx, s.Store.Admins(), adminID)
}

// CreateAdmin adds an administrator with a password and no second factor.
func (s *AdminService) CreateAdmin(ctx context.Context, email, displayName, password string) (domain.Admin, error) {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.Admin{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.Engine.Now()
	a := domain.Admin{
		ID:           idx.NewAt(now).String(),
		Email:        strings.TrimSpace(email),
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Admins().CreateAdmin(ctx, a); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Admin{}, ErrEmailTaken
		}
		return domain.Admin{}, fmt.Errorf("create admin: %w", err)
	}

	slogx.FromContext(ctx).Info("admin created", slog.String("new_admin_id", a.ID))
	return a, nil
}

// ChangePassword replaces the admin's password. Admins with a second factor
// must also present a current TOTP code.
func (s *AdminService) ChangePassword(ctx context.Context, adminID, current, next, code string) error {
	a, err := getAdmin(ctx, s.Store.Admins(), adminID)
	if err != nil {
		return err
	}
	if err := cryptox.VerifyPassword(current, a.PasswordHash); err != nil {
		return ErrInvalidCredentials
	}

	now := s.Engine.Now()
	if a.MFAEnabled() {
		f := secondFactor{engine: s.Engine, sealer: s.Sealer}
		if err := f.accept(ctx, s.Store.Admins(), a, code, now); err != nil {
			return err
		}
	}

	hash, err := cryptox.HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.Store.Admins().UpdatePasswordHash(ctx, a.ID, hash, now); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	slogx.FromContext(ctx).Info("password changed", slog.String("admin_id", a.ID))
	return nil
}
