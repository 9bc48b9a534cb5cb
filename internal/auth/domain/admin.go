package domain

import "time"

// Admin is an operator account of the asset-protection console.
type Admin struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string // pbkdf2-sha256 encoded

	// TOTPSecret is the sealed Base32 secret. It is set as soon as enrollment
	// starts; TOTPEnabledAt is only set once the first code is confirmed.
	TOTPSecret    *string
	TOTPEnabledAt *time.Time

	// TOTPLastStep is the most recent time step accepted for this admin.
	// Codes at or before it are refused.
	TOTPLastStep *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MFAEnabled reports whether a confirmed second factor is on the account.
func (a Admin) MFAEnabled() bool {
	return a.TOTPEnabledAt != nil && a.TOTPSecret != nil && *a.TOTPSecret != ""
}

// EnrollmentPending reports whether a secret was issued but never confirmed.
func (a Admin) EnrollmentPending() bool {
	return a.TOTPEnabledAt == nil && a.TOTPSecret != nil && *a.TOTPSecret != ""
}

// Session is what a completed login hands back to the caller.
type Session struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   time.Duration `json:"expires_in"`
	AMR         []string      `json:"amr"`
}
