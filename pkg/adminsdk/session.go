package adminsdk

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Me returns the calling administrator.
func (s *Session) Me(ctx context.Context) (*AdminResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/admin/me", nil)
	if err != nil {
		return nil, err
	}

	var out AdminResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword replaces the caller's password.
func (s *Session) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/admin/password", req)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// CreateAdmin adds another administrator.
func (s *Session) CreateAdmin(ctx context.Context, req CreateAdminRequest) (*CreateAdminResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/admins", req)
	if err != nil {
		return nil, err
	}

	var out CreateAdminResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// EnrollTOTP issues a new, unconfirmed authenticator secret.
func (s *Session) EnrollTOTP(ctx context.Context) (*TOTPEnrollResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/mfa/totp/enroll", nil)
	if err != nil {
		return nil, err
	}

	var out TOTPEnrollResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProvisioningQR fetches the PNG QR code of the pending enrollment.
func (s *Session) ProvisioningQR(ctx context.Context) ([]byte, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/mfa/totp/qr.png", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if err := parseErrorResponse(resp, body); err != nil {
			return nil, err
		}
	}
	return body, nil
}

// ConfirmTOTP confirms the pending enrollment with a current code and returns
// the initial recovery codes.
func (s *Session) ConfirmTOTP(ctx context.Context, code string) (*RecoveryCodesResponse, error) {
	return s.codeRequest(ctx, "/v1/mfa/totp/verify", code)
}

// RegenerateRecoveryCodes replaces all recovery codes. Needs a current code.
func (s *Session) RegenerateRecoveryCodes(ctx context.Context, code string) (*RecoveryCodesResponse, error) {
	return s.codeRequest(ctx, "/v1/mfa/recovery-codes", code)
}

// DisableTOTP removes the second factor. Needs a current code.
func (s *Session) DisableTOTP(ctx context.Context, code string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/v1/mfa/totp", TOTPCodeRequest{Code: code})
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

func (s *Session) codeRequest(ctx context.Context, path, code string) (*RecoveryCodesResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, path, TOTPCodeRequest{Code: code})
	if err != nil {
		return nil, err
	}

	var out RecoveryCodesResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
