package adminsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/assetshield/adminauth/pkg/httpx"
)

// Error codes written in the "error" field of every error body.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeValidation         = "validation_error"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeInvalidCode        = "invalid_code"
	ErrorCodeInvalidChallenge   = "invalid_challenge"
	ErrorCodeTooManyAttempts    = "too_many_attempts"
	ErrorCodeMFARequired        = "mfa_required"
	ErrorCodeMFAAlreadyEnabled  = "mfa_already_enabled"
	ErrorCodeMFANotEnabled      = "mfa_not_enabled"
	ErrorCodeEnrollmentMissing  = "enrollment_missing"
	ErrorCodeAlreadyBootstrap   = "already_bootstrapped"
	ErrorCodeUnauthorized       = "unauthorized"
	ErrorCodeInvalidToken       = "invalid_token"
	ErrorCodeInsufficientAuthn  = "insufficient_authentication"
	ErrorCodeConflict           = "conflict"
	ErrorCodeNotFound           = "not_found"
	ErrorCodeRateLimited        = "rate_limit_exceeded"
	ErrorCodeServerError        = "server_error"
)

// APIError is the error body shared by server and client. The server writes
// it with WriteError; the client returns it from every failed call.
type APIError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is matches on status and code so a parsed response compares equal to the
// predefined error it was written from.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode && e.Code == t.Code
}

// WriteError writes the error as a JSON response.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, e)
}

// NewAPIError creates an APIError with a custom description.
func NewAPIError(statusCode int, code, description string) *APIError {
	return &APIError{StatusCode: statusCode, Code: code, Description: description}
}

var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required fields",
	}

	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "invalid email or password",
	}

	ErrInvalidCode = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCode,
		Description: "the verification code is invalid or was already used",
	}

	ErrInvalidChallenge = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidChallenge,
		Description: "the login challenge is unknown or expired",
	}

	ErrTooManyAttempts = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeTooManyAttempts,
		Description: "too many failed attempts, start the login again",
	}

	ErrMFAAlreadyEnabled = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeMFAAlreadyEnabled,
		Description: "two-factor authentication is already enabled",
	}

	ErrMFANotEnabled = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeMFANotEnabled,
		Description: "two-factor authentication is not enabled",
	}

	ErrEnrollmentMissing = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeEnrollmentMissing,
		Description: "no pending enrollment, start one first",
	}

	ErrAlreadyBootstrapped = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeAlreadyBootstrap,
		Description: "the service already has an administrator",
	}

	ErrUnauthorized = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeUnauthorized,
		Description: "unauthorized",
	}

	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "the session token is missing, invalid or expired",
	}

	ErrInsufficientAuthentication = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeInsufficientAuthn,
		Description: "this action requires a session established with a second factor",
	}

	ErrEmailTaken = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeConflict,
		Description: "an administrator with this email already exists",
	}

	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "not found",
	}

	ErrRateLimited = &APIError{
		StatusCode:  http.StatusTooManyRequests,
		Code:        ErrorCodeRateLimited,
		Description: "too many requests",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// ValidationError reports per-field problems with a request body.
type ValidationError struct {
	Fields map[string]string `json:"details"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}

// WriteError writes the validation error as 400 Bad Request.
func (e *ValidationError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, http.StatusBadRequest, map[string]any{
		"error":             ErrorCodeValidation,
		"error_description": "request validation failed",
		"details":           e.Fields,
	})
}

// MFARequiredError is returned when the password was correct but the admin has
// a second factor enabled. It is written as 409 Conflict because the request
// is valid but the account state demands another step.
type MFARequiredError struct {
	// ChallengeToken identifies the pending login for CompleteLogin.
	ChallengeToken string `json:"challenge_token"`

	// Methods lists the accepted second factors, e.g. ["totp","recovery_code"].
	Methods []string `json:"methods"`

	// ExpiresIn is the challenge lifetime in seconds.
	ExpiresIn int `json:"expires_in"`
}

func (e *MFARequiredError) Error() string {
	return fmt.Sprintf("second factor required: available methods=%v", e.Methods)
}

// WriteError writes the challenge as 409 Conflict.
func (e *MFARequiredError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, http.StatusConflict, map[string]any{
		"error":             ErrorCodeMFARequired,
		"error_description": "a second factor is required to complete this login",
		"challenge_token":   e.ChallengeToken,
		"methods":           e.Methods,
		"expires_in":        e.ExpiresIn,
	})
}

// parseErrorResponse turns a non-2xx response body into a typed error.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp struct {
		Error            string            `json:"error"`
		ErrorDescription string            `json:"error_description"`
		Details          map[string]string `json:"details"`
		MFARequiredError
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		switch {
		case resp.StatusCode == http.StatusConflict && errResp.Error == ErrorCodeMFARequired:
			mfa := errResp.MFARequiredError
			return &mfa
		case errResp.Error == ErrorCodeValidation:
			return &ValidationError{Fields: errResp.Details}
		}
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
