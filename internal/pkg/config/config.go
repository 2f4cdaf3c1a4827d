package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// MinJWTSecretLength is the shortest signing secret Validate accepts.
const MinJWTSecretLength = 32

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT    JWTConfig
	Auth   AuthConfig
	Files  FilesConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Worker WorkerConfig
}

type JWTConfig struct {
	Secret   string        `env:"JWT_SECRET, required"`
	Issuer   string        `env:"JWT_ISSUER,   default=tasklist-api"`
	Audience string        `env:"JWT_AUDIENCE, default=tasklist-clients"`
	TTL      time.Duration `env:"JWT_TTL,      default=1h"`
}

type AuthConfig struct {
	BcryptCost       int           `env:"BCRYPT_COST,        default=10"`
	LoginMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	LoginWindow      time.Duration `env:"LOGIN_WINDOW,       default=15m"`
}

type FilesConfig struct {
	Dir            string `env:"FILES_DIR,        default=./files"`
	Prefix         string `env:"FILES_PREFIX,     default=/files"`
	AvatarMaxBytes int64  `env:"AVATAR_MAX_BYTES, default=3145728"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=tasklist"`
}

type RedisConfig struct {
	Addr       string `env:"REDIS_ADDR,        default=localhost:6379"`
	Password   string `env:"REDIS_PASSWORD"`
	DB         int    `env:"REDIS_DB,          default=0"`
	PoolSize   int    `env:"REDIS_POOL_SIZE,   default=10"`
	ClientName string `env:"REDIS_CLIENT_NAME, default=tasklist-api"`
}

type WorkerConfig struct {
	CleanupWorkers int `env:"CLEANUP_WORKERS, default=2"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot express as tags.
func (c *Config) Validate() error {
	var errs []error
	if len(c.JWT.Secret) < MinJWTSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d characters", MinJWTSecretLength))
	}
	if c.JWT.TTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if c.Files.AvatarMaxBytes <= 0 {
		errs = append(errs, errors.New("AVATAR_MAX_BYTES must be positive"))
	}
	if c.Files.Prefix == "" || c.Files.Prefix[0] != '/' {
		errs = append(errs, errors.New("FILES_PREFIX must start with /"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
