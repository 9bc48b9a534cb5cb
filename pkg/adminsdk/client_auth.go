package adminsdk

import (
	"context"
	"net/http"
)

// Bootstrap creates the first administrator using the deployment's bootstrap token.
func (c *Client) Bootstrap(ctx context.Context, token string, req BootstrapRequest) (*BootstrapResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/bootstrap", req, map[string]string{
		"X-Bootstrap-Token": token,
	})
	if err != nil {
		return nil, err
	}

	var out BootstrapResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login checks the password. For an admin with two-factor authentication the
// returned error is a *MFARequiredError carrying the challenge to complete.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/login", LoginRequest{
		Email:    email,
		Password: password,
	}, nil)
	if err != nil {
		return nil, err
	}

	var out SessionResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &Session{client: c, token: out}, nil
}

// CompleteLogin answers a login challenge with a TOTP or recovery code.
func (c *Client) CompleteLogin(ctx context.Context, challengeToken, method, code string) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/login/mfa", LoginMFARequest{
		ChallengeToken: challengeToken,
		Method:         method,
		Code:           code,
	}, nil)
	if err != nil {
		return nil, err
	}

	var out SessionResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &Session{client: c, token: out}, nil
}

// Health calls /livez.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// Readiness calls /readyz.
func (c *Client) Readiness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *Client) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}
