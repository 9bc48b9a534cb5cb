package slogx

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RedactsSensitiveAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Service: "adminauth", Env: "test", Level: "debug", Output: &buf})
	t.Cleanup(func() { slog.SetDefault(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))) })

	logger.Info("mfa_verify",
		"secret", "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ",
		"totp_code", "287082",
		"candidate_code", "94287082",
		"Password", "hunter2",
		"admin_id", "01J000",
		"code", "invalid_code",
	)

	out := buf.String()
	assert.NotContains(t, out, "GEZDGNBVGY3TQOJQ")
	assert.NotContains(t, out, "287082")
	assert.NotContains(t, out, "hunter2")
	assert.Contains(t, out, "01J000")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, redacted, entry["secret"])
	assert.Equal(t, redacted, entry["candidate_code"])
	assert.Equal(t, "adminauth", entry["service"])

	// Only credential-specific keys are masked; an error code is not.
	assert.Equal(t, "invalid_code", entry["code"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}

func TestFromContext_Default(t *testing.T) {
	assert.Equal(t, slog.Default(), FromContext(context.Background()))
}

func TestHTTPMiddleware(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{ReplaceAttr: Redact}))

	var ctxLogger *slog.Logger
	h := HTTPMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxLogger = FromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/login", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.NotNil(t, ctxLogger)
	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))

	line := strings.TrimSpace(buf.String())
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "http_request", entry["msg"])
	assert.Equal(t, "req-123", entry["req_id"])
	assert.EqualValues(t, http.StatusTeapot, entry["status"])
}

func TestHTTPMiddleware_GeneratesRequestID(t *testing.T) {
	base := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	h := HTTPMiddleware(base)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Len(t, rec.Header().Get(RequestIDHeader), 26)
}
