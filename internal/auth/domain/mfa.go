package domain

import "time"

// Second factor methods accepted when completing a login.
const (
	MethodTOTP         = "totp"
	MethodRecoveryCode = "recovery_code"
)

// LoginChallenge is the pending state between a correct password and a
// correct second factor.
type LoginChallenge struct {
	ID        string // random token handed to the client
	AdminID   string
	Attempts  int // failed second factor attempts
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the challenge can no longer be completed.
func (c LoginChallenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// TOTPEnrollment is returned when an admin starts enrolling an authenticator.
type TOTPEnrollment struct {
	Secret  string // Base32, shown once for manual entry
	URI     string // otpauth:// provisioning URI
	Issuer  string
	Account string
}
