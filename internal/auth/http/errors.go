package http

import (
	"errors"
	"net/http"

	"github.com/assetshield/adminauth/internal/auth/service"
	"github.com/assetshield/adminauth/pkg/adminsdk"
	"github.com/assetshield/adminauth/pkg/httpx"
	"github.com/assetshield/adminauth/pkg/slogx"
)

// writeServiceError maps service sentinels to their API error. Anything
// unrecognised is logged and reported as a server error.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var mfaRequired *service.MFARequiredError
	if errors.As(err, &mfaRequired) {
		mfaRequired.WriteError(w)
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		adminsdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrInvalidCode):
		adminsdk.ErrInvalidCode.WriteError(w)
	case errors.Is(err, service.ErrInvalidChallenge):
		adminsdk.ErrInvalidChallenge.WriteError(w)
	case errors.Is(err, service.ErrTooManyAttempts):
		adminsdk.ErrTooManyAttempts.WriteError(w)
	case errors.Is(err, service.ErrRateLimited):
		adminsdk.ErrRateLimited.WriteError(w)
	case errors.Is(err, service.ErrUnsupportedMethod):
		adminsdk.NewAPIError(http.StatusBadRequest, adminsdk.ErrorCodeInvalidRequest,
			"method must be totp or recovery_code").WriteError(w)
	case errors.Is(err, service.ErrMFAAlreadyEnabled):
		adminsdk.ErrMFAAlreadyEnabled.WriteError(w)
	case errors.Is(err, service.ErrMFANotEnabled):
		adminsdk.ErrMFANotEnabled.WriteError(w)
	case errors.Is(err, service.ErrEnrollmentMissing):
		adminsdk.ErrEnrollmentMissing.WriteError(w)
	case errors.Is(err, service.ErrEmailTaken):
		adminsdk.ErrEmailTaken.WriteError(w)
	case errors.Is(err, service.ErrAdminNotFound):
		adminsdk.ErrNotFound.WriteError(w)
	case errors.Is(err, service.ErrBootstrapAlready):
		adminsdk.ErrAlreadyBootstrapped.WriteError(w)
	case errors.Is(err, service.ErrBootstrapUnauthorized):
		adminsdk.ErrUnauthorized.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "path", r.URL.Path, "err", err)
		adminsdk.ErrServerError.WriteError(w)
	}
}

// requireAdminID returns the authenticated admin or writes 401.
func requireAdminID(w http.ResponseWriter, r *http.Request) (string, bool) {
	adminID := httpx.AdminIDFromContext(r.Context())
	if adminID == "" {
		adminsdk.ErrInvalidToken.WriteError(w)
		return "", false
	}
	return adminID, true
}
