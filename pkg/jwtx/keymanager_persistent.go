package jwtx

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/assetshield/adminauth/pkg/cryptox"
	"github.com/assetshield/adminauth/pkg/idx"
)

// SigningKeyRecord is a signing key as stored in the database. It mirrors
// the store's type so this package does not depend on it.
type SigningKeyRecord struct {
	ID               string
	Kid              string
	Algorithm        string
	PrivateKeySealed string // sealed PKCS8 PEM
	CreatedAt        time.Time
}

// KeyStore is the storage a persistent KeyManager needs.
type KeyStore interface {
	// ListSigningKeys returns every stored key, oldest first.
	ListSigningKeys(ctx context.Context) ([]SigningKeyRecord, error)

	CreateSigningKey(ctx context.Context, key SigningKeyRecord) error
}

// PersistentKeyManagerOptions configures a KeyManager backed by a KeyStore.
type PersistentKeyManagerOptions struct {
	KeyManagerOptions

	Store KeyStore

	// Sealer protects private keys at rest. It must use a stable master key,
	// otherwise stored keys cannot be opened after a restart.
	Sealer *cryptox.Sealer
}

// NewPersistentKeyManager loads the stored signing keys and tops them up to
// NumKeys. Every stored key is published in the JWKS so sessions issued
// before a restart keep verifying; the newest NumKeys keys sign.
func NewPersistentKeyManager(ctx context.Context, opts PersistentKeyManagerOptions) (*KeyManager, error) {
	if opts.Store == nil {
		return nil, errors.New("jwtx: Store is required for persistent key manager")
	}
	if opts.Sealer == nil {
		return nil, errors.New("jwtx: Sealer is required for persistent key manager")
	}

	km, n, err := newKeyManager(opts.KeyManagerOptions)
	if err != nil {
		return nil, err
	}

	records, err := opts.Store.ListSigningKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("jwtx: failed to load keys from database: %w", err)
	}

	signers := make([]Signer, 0, len(records))
	for _, rec := range records {
		signer, err := openSigner(opts.Sealer, rec)
		if err != nil {
			return nil, fmt.Errorf("jwtx: key %s: %w", rec.Kid, err)
		}
		if err := km.KeySet.AddSigner(signer); err != nil {
			return nil, fmt.Errorf("jwtx: failed to add key %s to keyset: %w", rec.Kid, err)
		}
		signers = append(signers, signer)
	}
	if len(signers) > n {
		signers = signers[len(signers)-n:]
	}
	km.signers = signers

	now := time.Now().UTC()
	if opts.Now != nil {
		now = opts.Now().UTC()
	}
	for km.NumSigners() < n {
		signer, key, err := generateSigner()
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to generate signer: %w", err)
		}
		sealed, err := sealKey(opts.Sealer, key)
		if err != nil {
			return nil, err
		}
		rec := SigningKeyRecord{
			ID:               idx.NewAt(now).String(),
			Kid:              signer.KID(),
			Algorithm:        AlgorithmEdDSA,
			PrivateKeySealed: sealed,
			CreatedAt:        now,
		}
		if err := opts.Store.CreateSigningKey(ctx, rec); err != nil {
			return nil, fmt.Errorf("jwtx: failed to store new key: %w", err)
		}
		if err := km.AddSigner(signer); err != nil {
			return nil, err
		}
	}
	return km, nil
}

func openSigner(sealer *cryptox.Sealer, rec SigningKeyRecord) (Signer, error) {
	if rec.Algorithm != AlgorithmEdDSA {
		return nil, fmt.Errorf("unsupported algorithm %q", rec.Algorithm)
	}
	pemKey, err := sealer.OpenString(rec.PrivateKeySealed)
	if err != nil {
		return nil, fmt.Errorf("failed to open private key: %w", err)
	}
	key, err := cryptox.ParseEd25519PEM([]byte(pemKey))
	if err != nil {
		return nil, err
	}
	return NewSignerEdDSA(rec.Kid, key)
}

func sealKey(sealer *cryptox.Sealer, key ed25519.PrivateKey) (string, error) {
	pemKey, err := cryptox.MarshalEd25519PEM(key)
	if err != nil {
		return "", err
	}
	sealed, err := sealer.SealString(string(pemKey))
	if err != nil {
		return "", fmt.Errorf("jwtx: failed to seal new key: %w", err)
	}
	return sealed, nil
}
