package adminsdk

import "time"

// Second factor methods accepted by CompleteLogin.
const (
	MethodTOTP         = "totp"
	MethodRecoveryCode = "recovery_code"
)

// BootstrapRequest creates the first administrator. The bootstrap token is
// sent in the X-Bootstrap-Token header.
type BootstrapRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type BootstrapResponse struct {
	AdminID string `json:"admin_id"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginMFARequest answers the challenge returned in MFARequiredError.
type LoginMFARequest struct {
	ChallengeToken string `json:"challenge_token"`
	Method         string `json:"method"`
	Code           string `json:"code"`
}

// SessionResponse is returned by a completed login.
type SessionResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int      `json:"expires_in"` // seconds
	AMR         []string `json:"amr"`
}

// AdminResponse describes the calling administrator.
type AdminResponse struct {
	ID                     string    `json:"id"`
	Email                  string    `json:"email"`
	DisplayName            string    `json:"display_name"`
	MFAEnabled             bool      `json:"mfa_enabled"`
	RecoveryCodesRemaining int       `json:"recovery_codes_remaining"`
	AMR                    []string  `json:"amr"`
	CreatedAt              time.Time `json:"created_at"`
}

type CreateAdminRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type CreateAdminResponse struct {
	ID string `json:"id"`
}

// ChangePasswordRequest needs Code when the admin has a second factor enabled.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	Code            string `json:"code,omitempty"`
}

// TOTPEnrollResponse carries a freshly issued, not yet confirmed secret.
type TOTPEnrollResponse struct {
	Secret  string `json:"secret"`
	URI     string `json:"otpauth_uri"`
	Issuer  string `json:"issuer"`
	Account string `json:"account"`
	QRCode  string `json:"qr_code"` // data:image/png;base64 URI
}

// TOTPCodeRequest carries a current code from the authenticator app.
type TOTPCodeRequest struct {
	Code string `json:"code"`
}

// RecoveryCodesResponse lists recovery codes. They are only ever shown once.
type RecoveryCodesResponse struct {
	RecoveryCodes []string `json:"recovery_codes"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks is the per-dependency status reported by /readyz.
type HealthChecks struct {
	Database  string `json:"database"`
	Signer    string `json:"signer"`
	RateLimit string `json:"rate_limit,omitempty"`
}
