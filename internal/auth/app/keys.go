package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/assetshield/adminauth/internal/auth/store"
	"github.com/assetshield/adminauth/pkg/cryptox"
	"github.com/assetshield/adminauth/pkg/jwtx"
	"github.com/assetshield/adminauth/pkg/totp"
)

// ErrMasterKeyRequired is returned outside dev when no master key is configured.
var ErrMasterKeyRequired = errors.New("master key required")

// InitSealer loads the master key that protects TOTP secrets and signing keys
// at rest. The boolean result reports whether the key is ephemeral, which is
// only allowed when ENV=dev: data sealed under it is unreadable after a restart.
func InitSealer(cfg Config, logger *slog.Logger) (*cryptox.Sealer, bool, error) {
	material, ephemeral, err := cryptox.LoadMasterKey(cfg.MasterKeyPath)
	if err != nil {
		return nil, false, err
	}
	if ephemeral {
		if cfg.Env != EnvDev {
			return nil, false, fmt.Errorf("%w: set ADMINAUTH_MASTER_KEY_PATH or %s (ENV=%s)",
				ErrMasterKeyRequired, cryptox.MasterKeyEnv, cfg.Env)
		}
		logger.Warn("no master key configured, using an ephemeral key; enrolled authenticators will stop working after a restart",
			"hint", "set ADMINAUTH_MASTER_KEY_PATH or "+cryptox.MasterKeyEnv)
	}
	sealer, err := cryptox.NewSealer(material)
	if err != nil {
		return nil, false, err
	}
	return sealer, ephemeral, nil
}

// InitSessionKeys creates the KeyManager that signs admin sessions.
//
// Storage modes:
//   - "persistent": keys are sealed with the master key and stored in the
//     database. Sessions and the JWKS survive restarts.
//   - "ephemeral": keys live in memory and every session ends on restart.
//
// Persistent mode falls back to ephemeral keys when the master key itself is
// ephemeral, since stored keys could not be opened again.
func InitSessionKeys(
	ctx context.Context,
	cfg Config,
	db store.Store,
	sealer *cryptox.Sealer,
	ephemeralSealer bool,
	clock totp.Clock,
	logger *slog.Logger,
) (*jwtx.KeyManager, error) {
	opts := jwtx.KeyManagerOptions{
		Issuer:  cfg.Issuer,
		NumKeys: cfg.NumKeys,
		Now:     clock.Now,
	}

	if cfg.KeyStorage == KeyStoragePersistent && !ephemeralSealer {
		keyManager, err := jwtx.NewPersistentKeyManager(ctx, jwtx.PersistentKeyManagerOptions{
			KeyManagerOptions: opts,
			Store:             store.NewKeyStoreAdapter(db),
			Sealer:            sealer,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize persistent key manager: %w", err)
		}
		logger.Info("persistent signing keys loaded",
			"algorithm", jwtx.AlgorithmEdDSA,
			"num_keys", keyManager.NumSigners(),
			"published_keys", len(keyManager.KeySet.PublicJWKS().Keys),
		)
		return keyManager, nil
	}

	if cfg.KeyStorage == KeyStoragePersistent {
		logger.Warn("master key is ephemeral, session keys will not be persisted")
	}

	keyManager, err := jwtx.NewEphemeralKeyManager(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ephemeral key manager: %w", err)
	}
	logger.Info("generated ephemeral signing keys",
		"algorithm", jwtx.AlgorithmEdDSA,
		"num_keys", keyManager.NumSigners(),
	)
	logger.Warn("existing sessions are invalid after a restart with ephemeral keys")
	return keyManager, nil
}
