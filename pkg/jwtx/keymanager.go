package jwtx

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/assetshield/adminauth/pkg/cryptox"
)

// KeyManager owns the session signing keys for an instance.
type KeyManager struct {
	Verifier Verifier
	KeySet   *KeySet

	mu      sync.RWMutex
	signers []Signer
}

// KeyManagerOptions configures a KeyManager.
type KeyManagerOptions struct {
	// Issuer is the iss claim validated on every token. Required.
	Issuer string

	// Audience values validated on every token. Empty means no audience check.
	Audience []string

	// NumKeys is how many signing keys to generate. Defaults to 2, capped at 10.
	NumKeys int

	// Leeway allows for clock skew on exp and nbf.
	Leeway time.Duration

	// Now overrides the verifier's time source.
	Now func() time.Time
}

// NewEphemeralKeyManager generates Ed25519 keys that only live in memory.
// Sessions do not survive a restart.
func NewEphemeralKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	km, n, err := newKeyManager(opts)
	if err != nil {
		return nil, err
	}

	for i := range n {
		signer, _, err := generateSigner()
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to generate signer %d: %w", i+1, err)
		}
		if err := km.AddSigner(signer); err != nil {
			return nil, err
		}
	}
	return km, nil
}

// newKeyManager validates opts and returns an empty manager plus the number
// of signing keys it should hold.
func newKeyManager(opts KeyManagerOptions) (*KeyManager, int, error) {
	if opts.Issuer == "" {
		return nil, 0, errors.New("jwtx: Issuer is required")
	}

	n := opts.NumKeys
	if n <= 0 {
		n = 2
	}
	if n > 10 {
		n = 10
	}

	keyset := NewKeySet()
	return &KeyManager{
		KeySet:   keyset,
		Verifier: NewVerifierEdDSA(keyset, opts.Issuer, opts.Audience, WithLeeway(opts.Leeway), WithNow(opts.Now)),
	}, n, nil
}

// generateSigner creates a fresh Ed25519 signer with a random kid.
func generateSigner() (*EdDSASigner, ed25519.PrivateKey, error) {
	kid, err := generateRandomKeyID()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate key ID: %w", err)
	}
	key, err := cryptox.GenerateEd25519Key()
	if err != nil {
		return nil, nil, err
	}
	signer, err := NewSignerEdDSA(kid, key)
	if err != nil {
		return nil, nil, err
	}
	return signer, key, nil
}

// IsReady returns true if the KeyManager has keys loaded.
func (km *KeyManager) IsReady() bool {
	return km.KeySet.IsReady()
}

// GetSigner returns a randomly selected signer.
func (km *KeyManager) GetSigner() Signer {
	km.mu.RLock()
	defer km.mu.RUnlock()

	switch len(km.signers) {
	case 0:
		return nil
	case 1:
		return km.signers[0]
	}
	return km.signers[rand.IntN(len(km.signers))]
}

// NumSigners returns the number of active signing keys.
func (km *KeyManager) NumSigners() int {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return len(km.signers)
}

// AddSigner adds a signing key to both the active set and the KeySet.
func (km *KeyManager) AddSigner(signer Signer) error {
	if signer == nil {
		return errors.New("jwtx: signer cannot be nil")
	}
	if err := signer.Validate(); err != nil {
		return err
	}

	km.mu.Lock()
	defer km.mu.Unlock()

	if err := km.KeySet.AddSigner(signer); err != nil {
		return fmt.Errorf("jwtx: failed to add signer to keyset: %w", err)
	}
	km.signers = append(km.signers, signer)
	return nil
}

// Sign signs claims with one of the active keys.
func (km *KeyManager) Sign(claims Claims) (string, error) {
	s := km.GetSigner()
	if s == nil {
		return "", errors.New("jwtx: no signing keys")
	}
	return s.Sign(claims)
}

func generateRandomKeyID() (string, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", err
	}
	return "adminauth-" + token, nil
}
