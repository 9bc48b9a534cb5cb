package adminsdk

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, write func(http.ResponseWriter)) error {
	t.Helper()
	rec := httptest.NewRecorder()
	write(rec)
	resp := rec.Result()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return parseErrorResponse(resp, body)
}

func TestAPIError_RoundTrip(t *testing.T) {
	t.Parallel()

	err := roundTrip(t, ErrInvalidCode.WriteError)
	require.ErrorIs(t, err, ErrInvalidCode)
	require.NotErrorIs(t, err, ErrInvalidCredentials)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestMFARequiredError_RoundTrip(t *testing.T) {
	t.Parallel()

	sent := &MFARequiredError{
		ChallengeToken: "01JCHALLENGE",
		Methods:        []string{MethodTOTP, MethodRecoveryCode},
		ExpiresIn:      300,
	}
	err := roundTrip(t, sent.WriteError)

	var got *MFARequiredError
	require.True(t, errors.As(err, &got))
	require.Equal(t, sent, got)
}

func TestValidationError_RoundTrip(t *testing.T) {
	t.Parallel()

	sent := &ValidationError{Fields: map[string]string{"email": "required"}}
	err := roundTrip(t, sent.WriteError)

	var got *ValidationError
	require.True(t, errors.As(err, &got))
	require.Equal(t, sent.Fields, got.Fields)
}

func TestParseErrorResponse_NonJSON(t *testing.T) {
	t.Parallel()

	err := roundTrip(t, func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.Equal(t, ErrorCodeServerError, apiErr.Code)
}

func TestParseErrorResponse_Success(t *testing.T) {
	t.Parallel()

	err := roundTrip(t, func(w http.ResponseWriter) { w.WriteHeader(http.StatusOK) })
	require.NoError(t, err)
}
