package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/assetshield/adminauth/pkg/httpx"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Rate limit backends.
const (
	RateLimitMemory = "memory"
	RateLimitRedis  = "redis"
)

// Session key storage modes.
const (
	KeyStoragePersistent = "persistent"
	KeyStorageEphemeral  = "ephemeral"
)

// EnvDev is the only environment allowed to run without a master key.
const EnvDev = "dev"

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Issuer         string `env:"ADMINAUTH_ISSUER" envDefault:"assetshield-adminauth"` // iss claim on session tokens
	TOTPIssuer     string `env:"ADMINAUTH_TOTP_ISSUER" envDefault:"AssetShield"`      // label shown in authenticator apps
	BootstrapToken string `env:"BOOTSTRAP_TOKEN"`                                     // Optional: enables POST /v1/bootstrap

	DatabaseFile  string `env:"ADMINAUTH_DATABASE_FILE" envDefault:"adminauth.db"`
	PepperFile    string `env:"ADMINAUTH_PEPPER_FILE" envDefault:"pepper"`
	MasterKeyPath string `env:"ADMINAUTH_MASTER_KEY_PATH"` // Optional: falls back to ADMINAUTH_MASTER_KEY, then an ephemeral key
	NumKeys       int    `env:"ADMINAUTH_NUM_KEYS" envDefault:"2"`
	KeyStorage    string `env:"ADMINAUTH_KEY_STORAGE" envDefault:"persistent"` // persistent or ephemeral

	Env       string `env:"ENV" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	Port      int    `env:"PORT" envDefault:"8080"`

	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"10m"`
	SessionTTL           time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	ChallengeTTL         time.Duration `env:"CHALLENGE_TTL" envDefault:"5m"`

	RateLimitBackend string   `env:"RATELIMIT_BACKEND" envDefault:"memory"`
	RedisURL         string   `env:"REDIS_URL"`
	TrustedProxies   []string `env:"TRUSTED_PROXIES" envSeparator:","` // IPs or CIDRs allowed to set X-Forwarded-For
}

// LoadConfig reads an optional .env file and then the environment.
func LoadConfig() (Config, error) {
	// The .env file is optional.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.RateLimitBackend {
	case RateLimitMemory:
	case RateLimitRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("%w: REDIS_URL is required when RATELIMIT_BACKEND=redis", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: RATELIMIT_BACKEND must be %q or %q", ErrInvalidConfig, RateLimitMemory, RateLimitRedis)
	}
	switch c.KeyStorage {
	case KeyStoragePersistent, KeyStorageEphemeral:
	default:
		return fmt.Errorf("%w: ADMINAUTH_KEY_STORAGE must be %q or %q", ErrInvalidConfig, KeyStoragePersistent, KeyStorageEphemeral)
	}
	if _, err := httpx.ParseTrustedProxies(c.TrustedProxies); err != nil {
		return fmt.Errorf("%w: TRUSTED_PROXIES: %w", ErrInvalidConfig, err)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: PORT out of range", ErrInvalidConfig)
	}
	if c.SessionTTL <= 0 || c.ChallengeTTL <= 0 {
		return fmt.Errorf("%w: SESSION_TTL and CHALLENGE_TTL must be positive", ErrInvalidConfig)
	}
	return nil
}
