package http

import (
	"net/http"
	"strings"

	"github.com/assetshield/adminauth/internal/auth/service"
	"github.com/assetshield/adminauth/pkg/adminsdk"
	"github.com/assetshield/adminauth/pkg/httpx"
	"github.com/assetshield/adminauth/pkg/slogx"
)

// AdminHandler serves the administrator account endpoints.
type AdminHandler struct {
	AdminService *service.AdminService
	MFAService   *service.MFAService
}

// HandleMe handles GET /v1/admin/me
//
//	@Summary		Current administrator
//	@Description	Returns the calling administrator, whether TOTP is enabled and how the session was established.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	adminsdk.AdminResponse	"Administrator"
//	@Failure		401	{object}	adminsdk.APIError		"Invalid or missing session token"
//	@Failure		404	{object}	adminsdk.APIError		"Administrator no longer exists"
//	@Router			/v1/admin/me [get].
func (h *AdminHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	adminID, ok := requireAdminID(w, r)
	if !ok {
		return
	}

	a, err := h.AdminService.GetAdmin(ctx, adminID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	remaining, err := h.MFAService.RecoveryCodesRemaining(ctx, adminID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var amr []string
	if claims, ok := httpx.ClaimsFromContext(ctx); ok {
		amr = claims.AMR
	}

	httpx.WriteJSON(w, http.StatusOK, adminsdk.AdminResponse{
		ID:                     a.ID,
		Email:                  a.Email,
		DisplayName:            a.DisplayName,
		MFAEnabled:             a.MFAEnabled(),
		RecoveryCodesRemaining: remaining,
		AMR:                    amr,
		CreatedAt:              a.CreatedAt,
	})
}

// HandleCreate handles POST /v1/admins
//
//	@Summary		Create an administrator
//	@Description	Creates another administrator. The caller's session must have passed a second factor.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		adminsdk.CreateAdminRequest		true	"New administrator"
//	@Success		201		{object}	adminsdk.CreateAdminResponse	"ID of the created administrator"
//	@Failure		400		{object}	adminsdk.APIError				"Invalid request body or validation failed"
//	@Failure		401		{object}	adminsdk.APIError				"Invalid or missing session token"
//	@Failure		403		{object}	adminsdk.APIError				"Session did not pass a second factor"
//	@Failure		409		{object}	adminsdk.APIError				"Email already in use"
//	@Router			/v1/admins [post].
func (h *AdminHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req adminsdk.CreateAdminRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		adminsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if errs := req.Validate(); errs != nil {
		(&adminsdk.ValidationError{Fields: errs}).WriteError(w)
		return
	}

	a, err := h.AdminService.CreateAdmin(ctx, strings.TrimSpace(req.Email), strings.TrimSpace(req.DisplayName), req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("admin created", "admin_id", a.ID, "created_by", httpx.AdminIDFromContext(ctx))
	httpx.WriteJSON(w, http.StatusCreated, adminsdk.CreateAdminResponse{ID: a.ID})
}

// HandleChangePassword handles POST /v1/admin/password
//
//	@Summary		Change password
//	@Description	Changes the caller's password. Admins with TOTP enabled must also send a current code.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	adminsdk.ChangePasswordRequest	true	"Current and new password"
//	@Success		204		"Password changed"
//	@Failure		400		{object}	adminsdk.APIError	"Invalid request body or validation failed"
//	@Failure		401		{object}	adminsdk.APIError	"Wrong current password or code"
//	@Router			/v1/admin/password [post].
func (h *AdminHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	adminID, ok := requireAdminID(w, r)
	if !ok {
		return
	}

	var req adminsdk.ChangePasswordRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		adminsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if errs := req.Validate(); errs != nil {
		(&adminsdk.ValidationError{Fields: errs}).WriteError(w)
		return
	}

	if err := h.AdminService.ChangePassword(r.Context(), adminID, req.CurrentPassword, req.NewPassword, req.Code); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
