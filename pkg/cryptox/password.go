package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

var (
	ErrPasswordMismatch  = errors.New("password does not match")
	ErrInvalidHashFormat = errors.New("invalid hash format")
)

// HashPassword derives a PBKDF2-SHA256 hash and encodes it as
// $pbkdf2-sha256$i=<iterations>$<salt>$<hash>.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := pbkdf2.Key([]byte(password+GetPepper()), salt, iterations, keyLength, sha256.New)

	return fmt.Sprintf(
		"$%s$i=%d$%s$%s",
		hashScheme,
		iterations,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifyPassword compares a plaintext password against an encoded hash in
// constant time. The iteration count is read from the hash so older hashes
// keep verifying after the default changes.
func VerifyPassword(password, encodedHash string) error {
	// ["", "pbkdf2-sha256", "i=N", "salt", "hash"]
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 5 || parts[0] != "" {
		return fmt.Errorf("%w: expected 5 parts", ErrInvalidHashFormat)
	}
	if parts[1] != hashScheme {
		return fmt.Errorf("%w: not %s", ErrInvalidHashFormat, hashScheme)
	}

	iters, err := strconv.Atoi(strings.TrimPrefix(parts[2], "i="))
	if err != nil || iters <= 0 || !strings.HasPrefix(parts[2], "i=") {
		return fmt.Errorf("%w: bad iteration count", ErrInvalidHashFormat)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return fmt.Errorf("%w: failed to decode salt: %v", ErrInvalidHashFormat, err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(expected) == 0 {
		return fmt.Errorf("%w: failed to decode hash", ErrInvalidHashFormat)
	}

	computed := pbkdf2.Key([]byte(password+GetPepper()), salt, iters, len(expected), sha256.New)
	if subtle.ConstantTimeCompare(computed, expected) == 1 {
		return nil
	}
	return ErrPasswordMismatch
}
