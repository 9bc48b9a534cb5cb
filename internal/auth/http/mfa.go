package http

import (
	"net/http"
	"strconv"

	"github.com/assetshield/adminauth/internal/auth/service"
	"github.com/assetshield/adminauth/pkg/adminsdk"
	"github.com/assetshield/adminauth/pkg/httpx"
	"github.com/assetshield/adminauth/pkg/qrcode"
	"github.com/assetshield/adminauth/pkg/slogx"
)

const (
	minQRSize = 128
	maxQRSize = 1024
)

// MFAHandler handles all MFA-related endpoints.
type MFAHandler struct {
	MFAService *service.MFAService
}

// HandleEnroll handles POST /v1/mfa/totp/enroll
//
//	@Summary		Start TOTP enrollment
//	@Description	Generates a TOTP secret for the caller and returns it with its otpauth URI and a QR code. The secret is pending until confirmed at /v1/mfa/totp/verify.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	adminsdk.TOTPEnrollResponse	"Secret, provisioning URI and QR code"
//	@Failure		401	{object}	adminsdk.APIError			"Invalid or missing session token"
//	@Failure		409	{object}	adminsdk.APIError			"TOTP already enabled"
//	@Failure		500	{object}	adminsdk.APIError			"Internal server error"
//	@Router			/v1/mfa/totp/enroll [post].
func (h *MFAHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	adminID, ok := requireAdminID(w, r)
	if !ok {
		return
	}

	enrollment, err := h.MFAService.EnrollTOTP(ctx, adminID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	qr, err := qrcode.DataURI(enrollment.URI, qrcode.DefaultSize)
	if err != nil {
		log.Error("failed to render provisioning QR code", "admin_id", adminID, "err", err)
		adminsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, adminsdk.TOTPEnrollResponse{
		Secret:  enrollment.Secret,
		URI:     enrollment.URI,
		Issuer:  enrollment.Issuer,
		Account: enrollment.Account,
		QRCode:  qr,
	})
}

// HandleQR handles GET /v1/mfa/totp/qr.png
//
//	@Summary		Provisioning QR code
//	@Description	Renders the pending enrollment's otpauth URI as a PNG.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Produce		png
//	@Param			size	query		int					false	"Edge length in pixels (128-1024)"
//	@Success		200		{file}		binary				"PNG image"
//	@Failure		400		{object}	adminsdk.APIError	"Invalid size"
//	@Failure		401		{object}	adminsdk.APIError	"Invalid or missing session token"
//	@Failure		409		{object}	adminsdk.APIError	"No pending enrollment or TOTP already enabled"
//	@Router			/v1/mfa/totp/qr.png [get].
func (h *MFAHandler) HandleQR(w http.ResponseWriter, r *http.Request) {
	adminID, ok := requireAdminID(w, r)
	if !ok {
		return
	}

	size := qrcode.DefaultSize
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < minQRSize || n > maxQRSize {
			adminsdk.NewAPIError(http.StatusBadRequest, adminsdk.ErrorCodeInvalidRequest,
				"size must be between 128 and 1024").WriteError(w)
			return
		}
		size = n
	}

	png, err := h.MFAService.ProvisioningQR(r.Context(), adminID, size)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// HandleVerify handles POST /v1/mfa/totp/verify
//
//	@Summary		Confirm TOTP enrollment
//	@Description	Verifies the first code from the authenticator app, enables TOTP and returns recovery codes.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		adminsdk.TOTPCodeRequest		true	"TOTP code"
//	@Success		200		{object}	adminsdk.RecoveryCodesResponse	"Recovery codes (shown once)"
//	@Failure		400		{object}	adminsdk.APIError				"Invalid request body"
//	@Failure		401		{object}	adminsdk.APIError				"Invalid code or session token"
//	@Failure		409		{object}	adminsdk.APIError				"No pending enrollment or TOTP already enabled"
//	@Router			/v1/mfa/totp/verify [post].
func (h *MFAHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	adminID, ok := requireAdminID(w, r)
	if !ok {
		return
	}
	code, ok := decodeCode(w, r)
	if !ok {
		return
	}

	codes, err := h.MFAService.ConfirmTOTP(ctx, adminID, code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("TOTP enabled", "admin_id", adminID)
	httpx.WriteJSON(w, http.StatusOK, adminsdk.RecoveryCodesResponse{RecoveryCodes: codes})
}

// HandleRegenerateRecoveryCodes handles POST /v1/mfa/recovery-codes
//
//	@Summary		Regenerate recovery codes
//	@Description	Replaces all recovery codes. Requires a current TOTP code.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		adminsdk.TOTPCodeRequest		true	"TOTP code"
//	@Success		200		{object}	adminsdk.RecoveryCodesResponse	"New recovery codes (shown once)"
//	@Failure		400		{object}	adminsdk.APIError				"Invalid request body"
//	@Failure		401		{object}	adminsdk.APIError				"Invalid code or session token"
//	@Failure		409		{object}	adminsdk.APIError				"TOTP not enabled"
//	@Router			/v1/mfa/recovery-codes [post].
func (h *MFAHandler) HandleRegenerateRecoveryCodes(w http.ResponseWriter, r *http.Request) {
	adminID, ok := requireAdminID(w, r)
	if !ok {
		return
	}
	code, ok := decodeCode(w, r)
	if !ok {
		return
	}

	codes, err := h.MFAService.RegenerateRecoveryCodes(r.Context(), adminID, code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, adminsdk.RecoveryCodesResponse{RecoveryCodes: codes})
}

// HandleRemove handles DELETE /v1/mfa/totp
//
//	@Summary		Disable TOTP
//	@Description	Disables TOTP and deletes all recovery codes. Requires a current TOTP code.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	adminsdk.TOTPCodeRequest	true	"TOTP code"
//	@Success		204		"TOTP disabled"
//	@Failure		400		{object}	adminsdk.APIError	"Invalid request body"
//	@Failure		401		{object}	adminsdk.APIError	"Invalid code or session token"
//	@Failure		409		{object}	adminsdk.APIError	"TOTP not enabled"
//	@Router			/v1/mfa/totp [delete].
func (h *MFAHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	adminID, ok := requireAdminID(w, r)
	if !ok {
		return
	}
	code, ok := decodeCode(w, r)
	if !ok {
		return
	}

	if err := h.MFAService.DisableTOTP(ctx, adminID, code); err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("TOTP disabled", "admin_id", adminID)
	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}

func decodeCode(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req adminsdk.TOTPCodeRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil || req.Code == "" {
		adminsdk.NewAPIError(http.StatusBadRequest, adminsdk.ErrorCodeInvalidRequest,
			"code is required").WriteError(w)
		return "", false
	}
	return req.Code, true
}
