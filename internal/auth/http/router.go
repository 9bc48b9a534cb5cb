package http

import (
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/assetshield/adminauth/internal/auth/service"
	"github.com/assetshield/adminauth/internal/auth/store"
	"github.com/assetshield/adminauth/pkg/httpx"
	"github.com/assetshield/adminauth/pkg/jwtx"
	"github.com/assetshield/adminauth/pkg/ratelimit"
	"github.com/assetshield/adminauth/pkg/slogx"

	_ "github.com/assetshield/adminauth/api/adminauth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Limiters holds one limiter per rate limit profile.
type Limiters struct {
	Strict   ratelimit.Limiter
	Moderate ratelimit.Limiter
	Lenient  ratelimit.Limiter
	Public   ratelimit.Limiter
}

// NewMemoryLimiters builds in-process limiters for the standard profiles.
func NewMemoryLimiters() (Limiters, error) {
	var (
		l   Limiters
		err error
	)
	if l.Strict, err = ratelimit.NewMemory(ratelimit.Strict); err != nil {
		return l, err
	}
	if l.Moderate, err = ratelimit.NewMemory(ratelimit.Moderate); err != nil {
		return l, err
	}
	if l.Lenient, err = ratelimit.NewMemory(ratelimit.Lenient); err != nil {
		return l, err
	}
	if l.Public, err = ratelimit.NewMemory(ratelimit.Public); err != nil {
		return l, err
	}
	return l, nil
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	issuer       string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	limiters     Limiters

	store            store.Store
	LoginService     *service.LoginService
	AdminService     *service.AdminService
	MFAService       *service.MFAService
	BootstrapService *service.BootstrapService

	// RateLimitPing reports the health of an external limiter backend.
	// Nil means the limiter is in-process.
	RateLimitPing PingFunc

	// TrustedProxies may set X-Forwarded-For. Empty means the direct peer
	// address is always the client.
	TrustedProxies []netip.Prefix
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	issuer, buildVersion string,
	st store.Store,
	limiters Limiters,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		issuer:       issuer,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		limiters:     limiters,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerLogin()
	r.registerAdmins()
	r.registerMFA()
	r.registerSystem()
	r.registerBootstrap()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			AssetShield Admin Authentication API
//	@version		0.1.0
//	@description	Administrator login for the AssetShield console with password and TOTP second factor.
//	@description
//	@description				Session tokens are EdDSA signed JWTs and can be verified using the JWKS endpoint.
//
//	@contact.name				AssetShield Platform Team
//	@contact.url				https://github.com/assetshield/adminauth
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) clientIP() httpx.KeyExtractor {
	return httpx.ClientIPKeyExtractor(r.TrustedProxies)
}

func (r *Router) registerLogin() {
	h := &LoginHandler{LoginService: r.LoginService}

	// POST /login - moderate per client IP, strict per account so rotating
	// source addresses can't spray one email
	r.Mux.Handle("POST /v1/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimit(r.limiters.Moderate, "login_ip", r.clientIP()),
			httpx.RateLimit(r.limiters.Strict, "login_account", httpx.JSONFieldKeyExtractor("email")),
		),
	)

	// POST /login/mfa - strict by IP. The service also limits attempts per
	// admin and each challenge caps its own attempts.
	r.Mux.Handle("POST /v1/login/mfa",
		httpx.Chain(http.HandlerFunc(h.HandleLoginMFA),
			httpx.RateLimit(r.limiters.Strict, "login_mfa", r.clientIP()),
		),
	)

	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimit(r.limiters.Public, "jwks", r.clientIP()),
		),
	)
}

func (r *Router) registerAdmins() {
	h := &AdminHandler{
		AdminService: r.AdminService,
		MFAService:   r.MFAService,
	}

	secureMe := httpx.Chain(http.HandlerFunc(h.HandleMe),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimit(r.limiters.Moderate, "admin_me", httpx.AdminIDKeyExtractor),
	)

	securePassword := httpx.Chain(http.HandlerFunc(h.HandleChangePassword),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimit(r.limiters.Strict, "admin_password", httpx.AdminIDKeyExtractor),
	)

	// Creating admins needs a session that passed a second factor.
	secureCreate := httpx.Chain(http.HandlerFunc(h.HandleCreate),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAMR(jwtx.AMRMFA),
		httpx.RateLimit(r.limiters.Moderate, "admin_create", httpx.AdminIDKeyExtractor),
	)

	r.Mux.Handle("GET /v1/admin/me", secureMe)
	r.Mux.Handle("POST /v1/admin/password", securePassword)
	r.Mux.Handle("POST /v1/admins", secureCreate)
}

func (r *Router) registerMFA() {
	h := &MFAHandler{MFAService: r.MFAService}

	securedEnroll := httpx.Chain(http.HandlerFunc(h.HandleEnroll),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimit(r.limiters.Moderate, "mfa_enroll", httpx.AdminIDKeyExtractor),
	)

	securedQR := httpx.Chain(http.HandlerFunc(h.HandleQR),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimit(r.limiters.Moderate, "mfa_qr", httpx.AdminIDKeyExtractor),
	)

	// POST /mfa/totp/verify - strict, codes are only 6 digits
	securedVerify := httpx.Chain(http.HandlerFunc(h.HandleVerify),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimit(r.limiters.Strict, "mfa_verify", httpx.AdminIDKeyExtractor),
	)

	securedRegenerate := httpx.Chain(http.HandlerFunc(h.HandleRegenerateRecoveryCodes),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimit(r.limiters.Moderate, "mfa_recovery", httpx.AdminIDKeyExtractor),
	)

	securedRemove := httpx.Chain(http.HandlerFunc(h.HandleRemove),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimit(r.limiters.Moderate, "mfa_remove", httpx.AdminIDKeyExtractor),
	)

	r.Mux.Handle("POST /v1/mfa/totp/enroll", securedEnroll)
	r.Mux.Handle("GET /v1/mfa/totp/qr.png", securedQR)
	r.Mux.Handle("POST /v1/mfa/totp/verify", securedVerify)
	r.Mux.Handle("POST /v1/mfa/recovery-codes", securedRegenerate)
	r.Mux.Handle("DELETE /v1/mfa/totp", securedRemove)
}

func (r *Router) registerSystem() {
	// Monitoring systems poll these frequently.
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimit(r.limiters.Lenient, "livez", r.clientIP()),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys, r.RateLimitPing),
			httpx.RateLimit(r.limiters.Lenient, "readyz", r.clientIP()),
		),
	)
}

func (r *Router) registerBootstrap() {
	h := &BootstrapHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(h,
			httpx.RateLimit(r.limiters.Strict, "bootstrap", r.clientIP()),
		),
	)
}
