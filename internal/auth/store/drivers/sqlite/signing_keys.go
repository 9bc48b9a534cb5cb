package sqlite

import (
	"context"

	"github.com/assetshield/adminauth/internal/auth/domain"
	"github.com/assetshield/adminauth/internal/auth/store/drivers/sqlite/gen"
)

type signingKeysRepo struct {
	q *gen.Queries
}

func (r *signingKeysRepo) CreateSigningKey(ctx context.Context, key domain.SigningKey) error {
	return mapConstraint(r.q.CreateSigningKey(ctx, gen.CreateSigningKeyParams{
		ID:               key.ID,
		Kid:              key.Kid,
		Algorithm:        key.Algorithm,
		PrivateKeySealed: key.PrivateKeySealed,
		CreatedAt:        utc(key.CreatedAt),
	}))
}

func (r *signingKeysRepo) ListSigningKeys(ctx context.Context) ([]domain.SigningKey, error) {
	rows, err := r.q.ListSigningKeys(ctx)
	if err != nil {
		return nil, err
	}

	keys := make([]domain.SigningKey, len(rows))
	for i, row := range rows {
		keys[i] = domain.SigningKey{
			ID:               row.ID,
			Kid:              row.Kid,
			Algorithm:        row.Algorithm,
			PrivateKeySealed: row.PrivateKeySealed,
			CreatedAt:        row.CreatedAt.UTC(),
		}
	}
	return keys, nil
}
