package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/assetshield/adminauth/internal/auth/domain"
	"github.com/assetshield/adminauth/internal/auth/store/drivers/sqlite/gen"
)

type adminsRepo struct {
	q *gen.Queries
}

func (r *adminsRepo) GetAdminByID(ctx context.Context, id string) (domain.Admin, error) {
	row, err := r.q.GetAdminByID(ctx, id)
	if err != nil {
		return domain.Admin{}, mapNotFound(err)
	}
	return mapAdmin(row), nil
}

func (r *adminsRepo) GetAdminByEmail(ctx context.Context, email string) (domain.Admin, error) {
	row, err := r.q.GetAdminByEmail(ctx, email)
	if err != nil {
		return domain.Admin{}, mapNotFound(err)
	}
	return mapAdmin(row), nil
}

func (r *adminsRepo) CreateAdmin(ctx context.Context, a domain.Admin) error {
	err := r.q.CreateAdmin(ctx, gen.CreateAdminParams{
		ID:           a.ID,
		Email:        a.Email,
		DisplayName:  a.DisplayName,
		PasswordHash: a.PasswordHash,
		CreatedAt:    utc(a.CreatedAt),
		UpdatedAt:    utc(a.UpdatedAt),
	})
	return mapConstraint(err)
}

func (r *adminsRepo) UpdatePasswordHash(ctx context.Context, adminID, newHash string, now time.Time) error {
	return requireRow(r.q.UpdateAdminPasswordHash(ctx, gen.UpdateAdminPasswordHashParams{
		PasswordHash: newHash,
		UpdatedAt:    utc(now),
		ID:           adminID,
	}))
}

func (r *adminsRepo) IsEmpty(ctx context.Context) (bool, error) {
	count, err := r.q.CountAdmins(ctx)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *adminsRepo) SetPendingTOTPSecret(ctx context.Context, adminID, sealedSecret string, now time.Time) error {
	return requireRow(r.q.SetAdminPendingTOTPSecret(ctx, gen.SetAdminPendingTOTPSecretParams{
		TotpSecret: sql.NullString{String: sealedSecret, Valid: sealedSecret != ""},
		UpdatedAt:  utc(now),
		ID:         adminID,
	}))
}

func (r *adminsRepo) EnableTOTP(ctx context.Context, adminID string, step int64, now time.Time) error {
	return requireRow(r.q.EnableAdminTOTP(ctx, gen.EnableAdminTOTPParams{
		TotpEnabledAt: sql.NullTime{Time: utc(now), Valid: true},
		TotpLastStep:  sql.NullInt64{Int64: step, Valid: true},
		UpdatedAt:     utc(now),
		ID:            adminID,
	}))
}

func (r *adminsRepo) DisableTOTP(ctx context.Context, adminID string, now time.Time) error {
	return requireRow(r.q.DisableAdminTOTP(ctx, gen.DisableAdminTOTPParams{
		UpdatedAt: utc(now),
		ID:        adminID,
	}))
}

func (r *adminsRepo) AdvanceTOTPStep(ctx context.Context, adminID string, step int64, now time.Time) (bool, error) {
	n, err := r.q.AdvanceAdminTOTPStep(ctx, gen.AdvanceAdminTOTPStepParams{
		TotpLastStep:   sql.NullInt64{Int64: step, Valid: true},
		UpdatedAt:      utc(now),
		ID:             adminID,
		TotpLastStep_2: sql.NullInt64{Int64: step, Valid: true},
	})
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
