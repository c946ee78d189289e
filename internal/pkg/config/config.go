package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	Seed  SeedConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	SessionSecret  string        `env:"SESSION_SECRET, required"`
	SessionCookie  string        `env:"SESSION_COOKIE, default=aitools_session"`
	SessionTTL     time.Duration `env:"SESSION_TTL, default=2h"`
	CookieSecure   bool          `env:"COOKIE_SECURE, default=false"`
	HomePath       string        `env:"AUTH_HOME_PATH, default=/dashboard"`
	LoginRateLimit float64       `env:"LOGIN_RATE_LIMIT, default=5"`
	LoginRateBurst int           `env:"LOGIN_RATE_BURST, default=5"`
	PasswordMinLen int           `env:"PASSWORD_MIN_LENGTH, default=8"`
	AuditWorkers   int           `env:"AUDIT_WORKERS, default=4"`
}

// SeedConfig names the owner account created at startup when absent.
type SeedConfig struct {
	OwnerEmail    string `env:"SEED_OWNER_EMAIL"`
	OwnerPassword string `env:"SEED_OWNER_PASSWORD"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=aitools"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=0"`
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads a .env file when present, then configuration from environment
// variables using go-envconfig.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		panic(fmt.Sprintf("config: failed to read .env: %v", err))
	}

	cfg, err := load(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	if len(cfg.Auth.SessionSecret) < 32 {
		return nil, errors.New("SESSION_SECRET must be at least 32 characters")
	}
	return &cfg, nil
}
