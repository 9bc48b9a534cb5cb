package store

import (
	"context"

	"github.com/assetshield/adminauth/internal/auth/domain"
	"github.com/assetshield/adminauth/pkg/jwtx"
)

// KeyStoreAdapter lets jwtx persist signing keys through a Store.
type KeyStoreAdapter struct {
	store Store
}

func NewKeyStoreAdapter(store Store) *KeyStoreAdapter {
	return &KeyStoreAdapter{store: store}
}

func (a *KeyStoreAdapter) ListSigningKeys(ctx context.Context) ([]jwtx.SigningKeyRecord, error) {
	keys, err := a.store.SigningKeys().ListSigningKeys(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]jwtx.SigningKeyRecord, len(keys))
	for i, k := range keys {
		records[i] = jwtx.SigningKeyRecord{
			ID:               k.ID,
			Kid:              k.Kid,
			Algorithm:        k.Algorithm,
			PrivateKeySealed: k.PrivateKeySealed,
			CreatedAt:        k.CreatedAt,
		}
	}
	return records, nil
}

func (a *KeyStoreAdapter) CreateSigningKey(ctx context.Context, rec jwtx.SigningKeyRecord) error {
	return a.store.SigningKeys().CreateSigningKey(ctx, domain.SigningKey{
		ID:               rec.ID,
		Kid:              rec.Kid,
		Algorithm:        rec.Algorithm,
		PrivateKeySealed: rec.PrivateKeySealed,
		CreatedAt:        rec.CreatedAt,
	})
}
