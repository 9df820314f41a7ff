package app

import (
	"errors"
	"fmt"
	"net/netip"
	"reflect"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/snazzyfellas/auth/pkg/httpx"
	"github.com/snazzyfellas/auth/pkg/jwtx"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is read once at startup and handed to every component by value.
type Config struct {
	JWTSecret  string `env:"JWT_SECRET,required,notEmpty"`
	Issuer     string `env:"AUTH_ISSUER"  envDefault:"https://auth.snazzyfellas.com"`
	ListenAddr string `env:"LISTEN_ADDR"  envDefault:":8080"`

	DatabaseDriver string `env:"AUTH_DATABASE_DRIVER" envDefault:"sqlite"`
	DatabaseFile   string `env:"AUTH_DATABASE_FILE"   envDefault:"auth.db"`
	DatabaseURL    string `env:"AUTH_DATABASE_URL"`
	RedisURL       string `env:"AUTH_REDIS_URL"`
	PepperFile     string `env:"AUTH_PEPPER_FILE"     envDefault:"pepper"`

	CodeTTL         time.Duration `env:"AUTH_CODE_TTL"          envDefault:"5m"`
	SessionTTL      time.Duration `env:"AUTH_SESSION_TTL"       envDefault:"720h"`
	SessionCacheTTL time.Duration `env:"AUTH_SESSION_CACHE_TTL" envDefault:"5m"`
	StoreTimeout    time.Duration `env:"AUTH_STORE_TIMEOUT"     envDefault:"5s"`

	AdminPanel bool   `env:"ADMIN_PANEL" envDefault:"false"`
	AdminToken string `env:"ADMIN_TOKEN"`

	OTelEndpoint string `env:"OTEL_ENDPOINT"`

	Env       string `env:"ENV"        envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`

	// TrustedProxies are the CIDRs allowed to name the client through
	// X-Forwarded-For or X-Real-IP. Empty keys rate limits on the peer.
	TrustedProxies []netip.Prefix `env:"AUTH_TRUSTED_PROXIES" envSeparator:","`

	// RateLimits is filled from the RATELIMIT_* variables.
	RateLimits httpx.RateLimits
}

// LoadConfig parses the environment and validates the result.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", withEnvKeys(err))
	}
	cfg.RateLimits = httpx.RateLimitsFromEnv()
	cfg.RateLimits.TrustedProxies = cfg.TrustedProxies

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// withEnvKeys rewrites field parse failures to name the variable an operator
// has to fix instead of the Go field.
func withEnvKeys(err error) error {
	errs := []error{err}
	var agg env.AggregateError
	if errors.As(err, &agg) {
		errs = agg.Errors
	}

	out := make([]error, 0, len(errs))
	for _, e := range errs {
		var pe env.ParseError
		if !errors.As(e, &pe) {
			out = append(out, e)
			continue
		}
		out = append(out, fmt.Errorf("%s: invalid %s value: %w", envKey(pe.Name), pe.Type, pe.Err))
	}
	return errors.Join(out...)
}

// envKey returns the variable bound to a Config field, or the field name.
func envKey(field string) string {
	f, ok := reflect.TypeOf(Config{}).FieldByName(field)
	if !ok {
		return field
	}
	key, _, _ := strings.Cut(f.Tag.Get("env"), ",")
	if key == "" {
		return field
	}
	return key
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var errs []error

	if len(c.JWTSecret) < jwtx.MinSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", jwtx.MinSecretLength))
	}
	if strings.TrimSpace(c.Issuer) == "" {
		errs = append(errs, errors.New("AUTH_ISSUER must not be empty"))
	}

	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			errs = append(errs, errors.New("AUTH_DATABASE_FILE is required for the sqlite driver"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("AUTH_DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("AUTH_DATABASE_DRIVER %q is not one of sqlite, postgres", c.DatabaseDriver))
	}

	for name, d := range map[string]time.Duration{
		"AUTH_CODE_TTL":         c.CodeTTL,
		"AUTH_SESSION_TTL":      c.SessionTTL,
		"AUTH_STORE_TIMEOUT":    c.StoreTimeout,
		"HOUSEKEEPING_INTERVAL": c.HousekeepingInterval,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	if c.SessionCacheTTL < 0 {
		errs = append(errs, errors.New("AUTH_SESSION_CACHE_TTL must not be negative"))
	}

	if c.AdminPanel && c.AdminToken == "" {
		errs = append(errs, errors.New("ADMIN_TOKEN is required when ADMIN_PANEL is enabled"))
	}

	if c.LogFormat != "json" && c.LogFormat != "text" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT %q is not one of json, text", c.LogFormat))
	}

	return errors.Join(errs...)
}
