package httpx_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/assetshield/adminauth/pkg/httpx"
	"github.com/assetshield/adminauth/pkg/ratelimit"
	"github.com/stretchr/testify/require"
)

func TestIPKeyExtractor(t *testing.T) {
	t.Run("extracts from RemoteAddr", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		require.Equal(t, "192.168.1.1", httpx.IPKeyExtractor(req))
	})

	t.Run("ignores forwarding headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Forwarded-For", "203.0.113.1")
		req.Header.Set("X-Real-IP", "203.0.113.2")
		require.Equal(t, "192.168.1.1", httpx.IPKeyExtractor(req))
	})
}

func TestClientIPKeyExtractor(t *testing.T) {
	trusted, err := httpx.ParseTrustedProxies([]string{"10.0.0.0/8", "192.168.1.1"})
	require.NoError(t, err)
	extract := httpx.ClientIPKeyExtractor(trusted)

	request := func(remote string, headers ...string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remote + ":12345"
		for i := 0; i+1 < len(headers); i += 2 {
			req.Header.Add(headers[i], headers[i+1])
		}
		return req
	}

	t.Run("untrusted peer cannot spoof", func(t *testing.T) {
		req := request("198.51.100.7", "X-Forwarded-For", "203.0.113.1", "X-Real-IP", "203.0.113.2")
		require.Equal(t, "198.51.100.7", extract(req))
	})

	t.Run("trusted peer forwards client", func(t *testing.T) {
		req := request("10.1.2.3", "X-Forwarded-For", "203.0.113.1")
		require.Equal(t, "203.0.113.1", extract(req))
	})

	t.Run("rightmost untrusted hop wins", func(t *testing.T) {
		// The client prepended a fake hop; the proxies appended the real one.
		req := request("10.1.2.3", "X-Forwarded-For", "1.1.1.1, 203.0.113.9, 10.0.0.5")
		require.Equal(t, "203.0.113.9", extract(req))
	})

	t.Run("multiple header lines", func(t *testing.T) {
		req := request("192.168.1.1", "X-Forwarded-For", "1.1.1.1", "X-Forwarded-For", "203.0.113.4")
		require.Equal(t, "203.0.113.4", extract(req))
	})

	t.Run("X-Real-IP from trusted peer", func(t *testing.T) {
		req := request("10.1.2.3", "X-Real-IP", "203.0.113.2")
		require.Equal(t, "203.0.113.2", extract(req))
	})

	t.Run("no headers falls back to peer", func(t *testing.T) {
		require.Equal(t, "10.1.2.3", extract(request("10.1.2.3")))
	})

	t.Run("no trusted proxies", func(t *testing.T) {
		req := request("10.1.2.3", "X-Forwarded-For", "203.0.113.1")
		require.Equal(t, "10.1.2.3", httpx.ClientIPKeyExtractor(nil)(req))
	})
}

func TestParseTrustedProxies(t *testing.T) {
	got, err := httpx.ParseTrustedProxies([]string{" 10.0.0.0/8 ", "", "::1", "172.16.5.4/12"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "10.0.0.0/8", got[0].String())
	require.Equal(t, "::1/128", got[1].String())
	require.Equal(t, "172.16.0.0/12", got[2].String())

	_, err = httpx.ParseTrustedProxies([]string{"not-an-ip"})
	require.Error(t, err)
	_, err = httpx.ParseTrustedProxies([]string{"10.0.0.0/99"})
	require.Error(t, err)
}

func TestJSONFieldKeyExtractor(t *testing.T) {
	body := `{"email":"Admin@Acme.test","password":"pw"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/login", strings.NewReader(body))

	require.Equal(t, "admin@acme.test", httpx.JSONFieldKeyExtractor("email")(req))

	// Body is still readable by the handler.
	rest, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	require.Equal(t, body, string(rest))

	bad := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`not json`))
	require.Equal(t, "", httpx.JSONFieldKeyExtractor("email")(bad))

	wrongType := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":42}`))
	require.Equal(t, "", httpx.JSONFieldKeyExtractor("email")(wrongType))
}

func TestCompositeKeyExtractor(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@acme.test"}`))
	req.RemoteAddr = "192.168.1.1:12345"

	key := httpx.CompositeKeyExtractor(":", httpx.IPKeyExtractor, httpx.JSONFieldKeyExtractor("email"))(req)
	require.Equal(t, "192.168.1.1:a@acme.test", key)

	empty := httptest.NewRequest(http.MethodGet, "/", nil)
	empty.RemoteAddr = "192.168.1.1:12345"
	key = httpx.CompositeKeyExtractor(":", httpx.IPKeyExtractor, httpx.AdminIDKeyExtractor)(empty)
	require.Equal(t, "192.168.1.1", key)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
}

func serve(h http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = ip + ":12345"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit(t *testing.T) {
	t.Run("blocks requests over limit", func(t *testing.T) {
		lim, err := ratelimit.NewMemory(ratelimit.Config{RequestsPerWindow: 3, Window: time.Minute, Burst: 3})
		require.NoError(t, err)
		h := httpx.RateLimit(lim, "test", httpx.IPKeyExtractor)(okHandler())

		for i := range 3 {
			rec := serve(h, "192.168.1.1")
			require.Equal(t, http.StatusOK, rec.Code, "request %d should succeed", i+1)
			require.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
		}

		rec := serve(h, "192.168.1.1")
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.Equal(t, "20", rec.Header().Get("Retry-After"))
		require.Contains(t, rec.Body.String(), "rate_limit_exceeded")
	})

	t.Run("different keys are tracked separately", func(t *testing.T) {
		lim, err := ratelimit.NewMemory(ratelimit.Config{RequestsPerWindow: 1, Window: time.Minute})
		require.NoError(t, err)
		h := httpx.RateLimit(lim, "test", httpx.IPKeyExtractor)(okHandler())

		require.Equal(t, http.StatusOK, serve(h, "192.168.1.1").Code)
		require.Equal(t, http.StatusTooManyRequests, serve(h, "192.168.1.1").Code)
		require.Equal(t, http.StatusOK, serve(h, "192.168.1.2").Code)
	})

	t.Run("scopes do not share budgets", func(t *testing.T) {
		lim, err := ratelimit.NewMemory(ratelimit.Config{RequestsPerWindow: 1, Window: time.Minute})
		require.NoError(t, err)
		a := httpx.RateLimit(lim, "login", httpx.IPKeyExtractor)(okHandler())
		b := httpx.RateLimit(lim, "mfa", httpx.IPKeyExtractor)(okHandler())

		require.Equal(t, http.StatusOK, serve(a, "192.168.1.1").Code)
		require.Equal(t, http.StatusOK, serve(b, "192.168.1.1").Code)
	})

	t.Run("backend failure fails open", func(t *testing.T) {
		h := httpx.RateLimit(failingLimiter{}, "test", httpx.IPKeyExtractor)(okHandler())
		require.Equal(t, http.StatusOK, serve(h, "192.168.1.1").Code)
	})

	t.Run("missing key allows", func(t *testing.T) {
		lim, err := ratelimit.NewMemory(ratelimit.Config{RequestsPerWindow: 1, Window: time.Minute})
		require.NoError(t, err)
		h := httpx.RateLimit(lim, "test", httpx.AdminIDKeyExtractor)(okHandler())
		for range 3 {
			require.Equal(t, http.StatusOK, serve(h, "192.168.1.1").Code)
		}
	})
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (ratelimit.Decision, error) {
	return ratelimit.Decision{}, errors.New("redis down")
}
