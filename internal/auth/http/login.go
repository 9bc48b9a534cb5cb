package http

import (
	"net/http"
	"strings"

	"github.com/assetshield/adminauth/internal/auth/domain"
	"github.com/assetshield/adminauth/internal/auth/service"
	"github.com/assetshield/adminauth/pkg/adminsdk"
	"github.com/assetshield/adminauth/pkg/httpx"
)

// LoginHandler serves the two login steps.
type LoginHandler struct {
	LoginService *service.LoginService
}

// HandleLogin handles POST /v1/login
//
//	@Summary		Log in with email and password
//	@Description	Checks the password. Admins without a second factor receive a session. Admins with TOTP enabled receive 409 mfa_required with a challenge token for /v1/login/mfa.
//	@Tags			Login
//	@Accept			json
//	@Produce		json
//	@Param			request	body		adminsdk.LoginRequest			true	"Credentials"
//	@Success		200		{object}	adminsdk.SessionResponse		"Session token"
//	@Failure		400		{object}	adminsdk.APIError				"Invalid request body"
//	@Failure		401		{object}	adminsdk.APIError				"Invalid credentials"
//	@Failure		409		{object}	adminsdk.MFARequiredError		"Second factor required"
//	@Failure		429		{object}	adminsdk.APIError				"Rate limit exceeded"
//	@Router			/v1/login [post].
func (h *LoginHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req adminsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		adminsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		adminsdk.NewAPIError(http.StatusBadRequest, adminsdk.ErrorCodeInvalidRequest,
			"email and password are required").WriteError(w)
		return
	}

	sess, err := h.LoginService.Login(r.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sessionResponse(sess))
}

// HandleLoginMFA handles POST /v1/login/mfa
//
//	@Summary		Complete a login with a second factor
//	@Description	Answers the challenge from /v1/login with a TOTP code or a recovery code. Each challenge allows five wrong answers and each TOTP code is accepted once.
//	@Tags			Login
//	@Accept			json
//	@Produce		json
//	@Param			request	body		adminsdk.LoginMFARequest	true	"Challenge answer"
//	@Success		200		{object}	adminsdk.SessionResponse	"Session token"
//	@Failure		400		{object}	adminsdk.APIError			"Invalid request body or method"
//	@Failure		401		{object}	adminsdk.APIError			"Invalid code, unknown or expired challenge, or too many attempts"
//	@Failure		429		{object}	adminsdk.APIError			"Rate limit exceeded"
//	@Router			/v1/login/mfa [post].
func (h *LoginHandler) HandleLoginMFA(w http.ResponseWriter, r *http.Request) {
	var req adminsdk.LoginMFARequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		adminsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.ChallengeToken == "" || req.Code == "" {
		adminsdk.NewAPIError(http.StatusBadRequest, adminsdk.ErrorCodeInvalidRequest,
			"challenge_token and code are required").WriteError(w)
		return
	}
	method := req.Method
	if method == "" {
		method = adminsdk.MethodTOTP
	}

	sess, err := h.LoginService.CompleteLogin(r.Context(), req.ChallengeToken, method, req.Code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sessionResponse(sess))
}

func sessionResponse(s domain.Session) adminsdk.SessionResponse {
	return adminsdk.SessionResponse{
		AccessToken: s.AccessToken,
		TokenType:   s.TokenType,
		ExpiresIn:   int(s.ExpiresIn.Seconds()),
		AMR:         s.AMR,
	}
}
