package domain

import "time"

// SigningKey is a session signing key kept in the database so sessions and
// the published JWKS survive a restart. The private key is a PKCS8 PEM sealed
// with the master key.
type SigningKey struct {
	ID               string // ULID
	Kid              string // key identifier in the JWKS
	Algorithm        string // EdDSA
	PrivateKeySealed string
	CreatedAt        time.Time
}
