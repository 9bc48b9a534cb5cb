package service

import (
	"errors"

	"github.com/assetshield/adminauth/pkg/adminsdk"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidCode        = errors.New("invalid verification code")
	ErrInvalidChallenge   = errors.New("invalid or expired login challenge")
	ErrTooManyAttempts    = errors.New("too many failed attempts")
	ErrUnsupportedMethod  = errors.New("unsupported second factor method")
	ErrRateLimited        = errors.New("too many second factor attempts for this admin")
	ErrMFANotEnabled      = errors.New("two-factor authentication not enabled")
	ErrMFAAlreadyEnabled  = errors.New("two-factor authentication already enabled")
	ErrEnrollmentMissing  = errors.New("no pending two-factor enrollment")
	ErrEmailTaken         = errors.New("email already in use")
	ErrAdminNotFound      = errors.New("admin not found")

	ErrBootstrapAlready      = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
)

// MFARequiredError is the SDK type so handlers can write it unchanged.
type MFARequiredError = adminsdk.MFARequiredError
