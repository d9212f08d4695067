package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port         string   `env:"PORT,          default=8080"`
	Env          string   `env:"ENV,           default=development"`
	LogLevel     string   `env:"LOG_LEVEL,     default=info"`
	AllowOrigins []string `env:"ALLOW_ORIGINS, default=http://localhost:5173"`

	Auth         AuthConfig
	Mongo        MongoConfig
	Redis        RedisConfig
	InitialAdmin InitialAdminConfig
}

type AuthConfig struct {
	AccessTokenSecret string        `env:"ACCESS_TOKEN_SECRET, required"`
	AccessTokenExpiry time.Duration `env:"ACCESS_TOKEN_EXPIRY, default=24h"`
	BcryptCost        int           `env:"BCRYPT_COST,         default=16"`
	RecoveryTokenTTL  time.Duration `env:"RECOVERY_TOKEN_TTL,  default=30m"`
	CookieSecure      bool          `env:"COOKIE_SECURE,       default=true"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=tailor_admin"`
}

// RedisConfig locates the session denylist. REDIS_URL overrides the other keys.
type RedisConfig struct {
	URL      string `env:"REDIS_URL"`
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// InitialAdminConfig seeds the first administrator account. All three fields
// must be set for seeding to run.
type InitialAdminConfig struct {
	Name     string `env:"INITIAL_ADMIN_NAME"`
	Email    string `env:"INITIAL_ADMIN_EMAIL"`
	Password string `env:"INITIAL_ADMIN_PASSWORD"`
}

func (a InitialAdminConfig) Enabled() bool {
	return a.Name != "" && a.Email != "" && a.Password != ""
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load reads configuration through the given lookuper, or the process
// environment when it is nil.
func Load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	if lookuper == nil {
		lookuper = envconfig.OsLookuper()
	}

	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.AccessTokenExpiry <= 0 {
		return errors.New("ACCESS_TOKEN_EXPIRY must be positive")
	}
	if c.Auth.RecoveryTokenTTL <= 0 {
		return errors.New("RECOVERY_TOKEN_TTL must be positive")
	}
	return nil
}
