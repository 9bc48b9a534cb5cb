package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/assetshield/adminauth/internal/auth/domain"
	"github.com/assetshield/adminauth/internal/auth/store"
	"github.com/assetshield/adminauth/pkg/cryptox"
	"github.com/assetshield/adminauth/pkg/idx"
	"github.com/assetshield/adminauth/pkg/jwtx"
	"github.com/assetshield/adminauth/pkg/ratelimit"
	"github.com/assetshield/adminauth/pkg/slogx"
	"github.com/assetshield/adminauth/pkg/totp"
)

const (
	// MaxChallengeAttempts is how many wrong second factors a login
	// challenge survives.
	MaxChallengeAttempts = 5

	DefaultChallengeTTL = 5 * time.Minute
)

// dummyHash is verified against when the email is unknown so both failure
// paths cost one PBKDF2 derivation.
const dummyHash = "$pbkdf2-sha256$i=100000$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// LoginService runs the two step admin login.
type LoginService struct {
	Store      store.Store
	Engine     *totp.Engine
	Sealer     *cryptox.Sealer
	KeyManager *jwtx.KeyManager

	// AttemptLimiter bounds second factor attempts per admin across all of
	// their challenges. Optional.
	AttemptLimiter ratelimit.Limiter

	Issuer       string
	Audience     []string
	SessionTTL   time.Duration
	ChallengeTTL time.Duration
}

func (s *LoginService) challengeTTL() time.Duration {
	if s.ChallengeTTL <= 0 {
		return DefaultChallengeTTL
	}
	return s.ChallengeTTL
}

func (s *LoginService) sessionTTL() time.Duration {
	if s.SessionTTL <= 0 {
		return jwtx.DefaultSessionTTL
	}
	return s.SessionTTL
}

// Login checks email and password. Admins without a second factor get a
// session straight away; the others get a *MFARequiredError carrying a
// challenge token for CompleteLogin.
func (s *LoginService) Login(ctx context.Context, email, password string) (domain.Session, error) {
	l := slogx.FromContext(ctx)

	a, err := s.Store.Admins().GetAdminByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = cryptox.VerifyPassword(password, dummyHash)
			l.Warn("login failed: unknown email")
			return domain.Session{}, ErrInvalidCredentials
		}
		return domain.Session{}, err
	}

	if err := cryptox.VerifyPassword(password, a.PasswordHash); err != nil {
		l.Warn("login failed: bad password", slog.String("admin_id", a.ID))
		return domain.Session{}, ErrInvalidCredentials
	}

	if !a.MFAEnabled() {
		return s.issueSession(ctx, a, []string{jwtx.AMRPassword})
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.Session{}, fmt.Errorf("generate challenge token: %w", err)
	}
	now := s.Engine.Now()
	challenge := domain.LoginChallenge{
		ID:        token,
		AdminID:   a.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.challengeTTL()),
	}
	if err := s.Store.LoginChallenges().CreateLoginChallenge(ctx, challenge); err != nil {
		return domain.Session{}, fmt.Errorf("create login challenge: %w", err)
	}

	l.Info("password accepted, second factor required", slog.String("admin_id", a.ID))
	return domain.Session{}, &MFARequiredError{
		ChallengeToken: challenge.ID,
		Methods:        []string{domain.MethodTOTP, domain.MethodRecoveryCode},
		ExpiresIn:      int(s.challengeTTL().Seconds()),
	}
}

// CompleteLogin finishes a challenged login with a TOTP or recovery code.
// Each wrong code counts against the challenge; after MaxChallengeAttempts
// the challenge is deleted.
func (s *LoginService) CompleteLogin(ctx context.Context, challengeToken, method, code string) (domain.Session, error) {
	l := slogx.FromContext(ctx)
	now := s.Engine.Now()

	if method != domain.MethodTOTP && method != domain.MethodRecoveryCode {
		return domain.Session{}, ErrUnsupportedMethod
	}

	challenge, err := s.Store.LoginChallenges().GetLoginChallenge(ctx, challengeToken, now)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Session{}, ErrInvalidChallenge
		}
		return domain.Session{}, err
	}

	if challenge.Attempts >= MaxChallengeAttempts {
		_ = s.Store.LoginChallenges().DeleteLoginChallenge(ctx, challenge.ID)
		l.Warn("login challenge exceeded max attempts",
			slog.String("admin_id", challenge.AdminID),
			slog.Int("attempts", challenge.Attempts),
		)
		return domain.Session{}, ErrTooManyAttempts
	}

	if err := s.allowAttempt(ctx, challenge.AdminID); err != nil {
		return domain.Session{}, err
	}

	a, err := getAdmin(ctx, s.Store.Admins(), challenge.AdminID)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return domain.Session{}, ErrInvalidChallenge
		}
		return domain.Session{}, err
	}

	// The second factor was removed after the challenge was issued.
	if !a.MFAEnabled() {
		_ = s.Store.LoginChallenges().DeleteLoginChallenge(ctx, challenge.ID)
		l.Warn("login challenge for admin without second factor", slog.String("admin_id", a.ID))
		return domain.Session{}, ErrInvalidChallenge
	}

	var amr []string
	switch method {
	case domain.MethodTOTP:
		err = secondFactor{engine: s.Engine, sealer: s.Sealer}.accept(ctx, s.Store.Admins(), a, code, now)
		amr = []string{jwtx.AMRPassword, jwtx.AMROTP, jwtx.AMRMFA}
	case domain.MethodRecoveryCode:
		err = s.consumeRecoveryCode(ctx, a, code)
		amr = []string{jwtx.AMRPassword, jwtx.AMRRecovery, jwtx.AMRMFA}
	}

	if err != nil {
		if !errors.Is(err, ErrInvalidCode) {
			return domain.Session{}, err
		}
		updated, incErr := s.Store.LoginChallenges().IncrementLoginChallengeAttempts(ctx, challenge.ID)
		if incErr != nil {
			l.Error("failed to increment challenge attempts", slog.Any("error", incErr))
			return domain.Session{}, ErrInvalidCode
		}
		l.Warn("second factor rejected",
			slog.String("admin_id", a.ID),
			slog.String("method", method),
			slog.Int("attempts", updated.Attempts),
		)
		if updated.Attempts >= MaxChallengeAttempts {
			_ = s.Store.LoginChallenges().DeleteLoginChallenge(ctx, challenge.ID)
			return domain.Session{}, ErrTooManyAttempts
		}
		return domain.Session{}, ErrInvalidCode
	}

	if err := s.Store.LoginChallenges().DeleteLoginChallenge(ctx, challenge.ID); err != nil {
		return domain.Session{}, fmt.Errorf("delete login challenge: %w", err)
	}
	return s.issueSession(ctx, a, amr)
}

// allowAttempt charges one second factor attempt to adminID. A failing
// limiter backend lets the attempt through; each challenge still caps its own.
func (s *LoginService) allowAttempt(ctx context.Context, adminID string) error {
	if s.AttemptLimiter == nil {
		return nil
	}
	d, err := s.AttemptLimiter.Allow(ctx, "login_mfa_admin:"+adminID)
	if err != nil {
		slogx.FromContext(ctx).Warn("second factor limiter unavailable, allowing attempt", slog.Any("error", err))
		return nil
	}
	if !d.Allowed {
		slogx.FromContext(ctx).Warn("second factor attempts rate limited", slog.String("admin_id", adminID))
		return ErrRateLimited
	}
	return nil
}

func (s *LoginService) consumeRecoveryCode(ctx context.Context, a domain.Admin, code string) error {
	ok, err := s.Store.RecoveryCodes().ConsumeRecoveryCode(ctx, a.ID, recoveryFingerprint(code))
	if err != nil {
		return fmt.Errorf("consume recovery code: %w", err)
	}
	if !ok {
		return ErrInvalidCode
	}
	slogx.FromContext(ctx).Warn("recovery code used", slog.String("admin_id", a.ID))
	return nil
}

func (s *LoginService) issueSession(ctx context.Context, a domain.Admin, amr []string) (domain.Session, error) {
	now := s.Engine.Now()
	ttl := s.sessionTTL()

	claims := jwtx.NewSessionClaims(
		a.ID,
		idx.NewAt(now).String(),
		amr,
		ttl,
		s.Issuer,
		s.Audience,
		a.Email,
		a.DisplayName,
		now,
	)
	token, err := s.KeyManager.Sign(claims)
	if err != nil {
		return domain.Session{}, fmt.Errorf("sign session: %w", err)
	}

	slogx.FromContext(ctx).Info("admin logged in",
		slog.String("admin_id", a.ID),
		slog.Any("amr", amr),
	)
	return domain.Session{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   ttl,
		AMR:         amr,
	}, nil
}
