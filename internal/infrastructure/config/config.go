package config

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendMemory = "memory"

	RecordFormatPlain  = "plain"
	RecordFormatSigned = "signed"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Session SessionConfig
	Chat    ChatConfig
	Storage StorageConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type SessionConfig struct {
	Key           string        `env:"SESSION_KEY,    default=quantiva_user"`
	SignInLatency time.Duration `env:"SIGNIN_LATENCY, default=1s"`
	DenyEmails    []string      `env:"DENY_EMAILS"`
	RecordFormat  string        `env:"RECORD_FORMAT,  default=plain"`
	RecordSecret  string        `env:"RECORD_SECRET"`
	RecordTTL     time.Duration `env:"RECORD_TTL,     default=720h"`
}

type ChatConfig struct {
	ReplyDelay time.Duration `env:"CHAT_REPLY_DELAY, default=1s"`
	Workers    int           `env:"CHAT_WORKERS,     default=4"`
}

type StorageConfig struct {
	Backend    string `env:"STORAGE_BACKEND, default=sqlite"`
	SQLitePath string `env:"SQLITE_PATH,     default=data/quantiva.db"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=quantiva"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
// It panics on invalid configuration; there is nothing to run without it.
func Load(logger zerolog.Logger) *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		logger.Error().Err(err).Msg("failed to load configuration")
		panic(err)
	}
	return cfg
}

// LoadFrom processes and validates configuration from lookuper.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment reports whether the process runs outside production.
func (c *Config) IsDevelopment() bool {
	return c.Env != "production"
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendRedis, BackendMongo, BackendMemory:
	default:
		return fmt.Errorf("config: unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}

	switch c.Session.RecordFormat {
	case RecordFormatPlain:
	case RecordFormatSigned:
		if c.Session.RecordSecret == "" {
			return fmt.Errorf("config: RECORD_SECRET is required when RECORD_FORMAT=%s", RecordFormatSigned)
		}
	default:
		return fmt.Errorf("config: unknown RECORD_FORMAT %q", c.Session.RecordFormat)
	}

	if c.Session.SignInLatency < 0 || c.Chat.ReplyDelay < 0 {
		return fmt.Errorf("config: latencies must not be negative")
	}
	return nil
}
