package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Store backends accepted by STORE_BACKEND.
const (
	StoreFile   = "file"
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Backend BackendConfig
	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type BackendConfig struct {
	URL     string        `env:"BACKEND_URL,     default=http://localhost:3139"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT, default=10s"`
}

type SessionConfig struct {
	// TokenTTL applies when the backend token carries no exp claim.
	TokenTTL  time.Duration `env:"TOKEN_TTL,       default=2h"`
	Store     string        `env:"STORE_BACKEND,   default=file"`
	Path      string        `env:"STORE_PATH,      default=.invoicer/session.json"`
	Namespace string        `env:"STORE_NAMESPACE, default=invoicer"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=invoicer"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads configuration through l and checks the values envconfig
// cannot express.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Session.Store {
	case StoreFile, StoreMemory, StoreRedis, StoreMongo:
	default:
		return fmt.Errorf("STORE_BACKEND: unknown store %q", c.Session.Store)
	}
	if c.Session.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL: must be positive, got %s", c.Session.TokenTTL)
	}
	if c.Session.Namespace == "" {
		return fmt.Errorf("STORE_NAMESPACE: must not be empty")
	}
	return nil
}

// IsProduction reports whether logs should be emitted as plain JSON.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
