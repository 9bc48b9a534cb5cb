package http

import (
	"net/http"
	"strings"

	"github.com/assetshield/adminauth/internal/auth/domain"
	"github.com/assetshield/adminauth/internal/auth/service"
	"github.com/assetshield/adminauth/pkg/adminsdk"
	"github.com/assetshield/adminauth/pkg/httpx"
	"github.com/assetshield/adminauth/pkg/slogx"
)

// BootstrapTokenHeader carries the one-time bootstrap token.
const BootstrapTokenHeader = "X-Bootstrap-Token"

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP handles the bootstrap endpoint for initial system setup.
//
//	@Summary		Bootstrap the first administrator
//	@Description	Creates the first administrator. Only available when a bootstrap token is configured and only while no administrators exist.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			X-Bootstrap-Token	header		string						true	"Bootstrap token"
//	@Param			request				body		adminsdk.BootstrapRequest	true	"First administrator"
//	@Success		201					{object}	adminsdk.BootstrapResponse	"ID of the created administrator"
//	@Failure		400					{object}	adminsdk.APIError			"Invalid request body or validation failed"
//	@Failure		401					{object}	adminsdk.APIError			"Missing or invalid bootstrap token"
//	@Failure		404					{object}	adminsdk.APIError			"Bootstrap not enabled"
//	@Failure		409					{object}	adminsdk.APIError			"System already bootstrapped"
//	@Failure		500					{object}	adminsdk.APIError			"Internal server error"
//	@Router			/v1/bootstrap [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())
	l.Info("Starting to bootstrap")

	if h.BootstrapService.Token == "" {
		adminsdk.NewAPIError(http.StatusNotFound, adminsdk.ErrorCodeNotFound,
			"bootstrap endpoint is not enabled").WriteError(w)
		return
	}

	token := r.Header.Get(BootstrapTokenHeader)
	if token == "" {
		adminsdk.NewAPIError(http.StatusUnauthorized, adminsdk.ErrorCodeUnauthorized,
			"bootstrap token is required in "+BootstrapTokenHeader+" header").WriteError(w)
		return
	}

	var req adminsdk.BootstrapRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		adminsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if errs := req.Validate(); errs != nil {
		(&adminsdk.ValidationError{Fields: errs}).WriteError(w)
		return
	}

	adminID, err := h.BootstrapService.Bootstrap(r.Context(), token, domain.BootstrapData{
		Email:       strings.TrimSpace(req.Email),
		DisplayName: strings.TrimSpace(req.DisplayName),
		Password:    req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, adminsdk.BootstrapResponse{AdminID: adminID})
}
