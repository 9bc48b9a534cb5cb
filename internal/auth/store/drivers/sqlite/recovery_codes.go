package sqlite

import (
	"context"
	"time"

	"github.com/assetshield/adminauth/internal/auth/store/drivers/sqlite/gen"
)

type recoveryCodesRepo struct {
	q *gen.Queries
}

func (r *recoveryCodesRepo) CreateRecoveryCode(ctx context.Context, adminID, codeHash string, now time.Time) error {
	return mapConstraint(r.q.CreateRecoveryCode(ctx, gen.CreateRecoveryCodeParams{
		AdminID:   adminID,
		CodeHash:  codeHash,
		CreatedAt: utc(now),
	}))
}

func (r *recoveryCodesRepo) ConsumeRecoveryCode(ctx context.Context, adminID, codeHash string) (bool, error) {
	n, err := r.q.DeleteRecoveryCode(ctx, gen.DeleteRecoveryCodeParams{
		AdminID:  adminID,
		CodeHash: codeHash,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *recoveryCodesRepo) DeleteAllRecoveryCodes(ctx context.Context, adminID string) error {
	return r.q.DeleteAllRecoveryCodes(ctx, adminID)
}

func (r *recoveryCodesRepo) CountRecoveryCodes(ctx context.Context, adminID string) (int, error) {
	count, err := r.q.CountRecoveryCodes(ctx, adminID)
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
