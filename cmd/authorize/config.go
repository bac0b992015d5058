package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/kaoden/goidc-authorize/pkg/goidc"
)

const (
	storageMemory  = "memory"
	storageSQLite  = "sqlite"
	storageMongoDB = "mongodb"
)

// config holds the settings of the server, read from environment variables.
type config struct {
	Addr     string `env:"GOIDC_ADDR"      envDefault:":8080"`
	Issuer   string `env:"GOIDC_ISSUER,required,notEmpty"`
	JWKSFile string `env:"GOIDC_JWKS_FILE" envDefault:"jwks.json"`
	LogLevel string `env:"GOIDC_LOG_LEVEL" envDefault:"info"`

	// Storage selects where clients, credentials and consents are kept.
	// One of "memory", "sqlite" or "mongodb".
	Storage       string `env:"GOIDC_STORAGE"          envDefault:"memory"`
	SQLiteDSN     string `env:"GOIDC_SQLITE_DSN"       envDefault:"goidc.db"`
	MongoDBURI    string `env:"GOIDC_MONGODB_URI"`
	MongoDatabase string `env:"GOIDC_MONGODB_DATABASE" envDefault:"goidc"`
	// RedisURL moves authorization codes and access tokens to Redis when set.
	RedisURL string `env:"GOIDC_REDIS_URL"`

	// ClientsJSON is a JSON array of clients registered at startup.
	ClientsJSON string `env:"GOIDC_CLIENTS"`
	// UserHeader carries the ID of the user authenticated by the proxy in front
	// of the server.
	UserHeader string `env:"GOIDC_USER_HEADER" envDefault:"X-User-ID"`
	// ConsentKey signs consent challenges. It must be shared by every
	// instance behind the same issuer, a random key is used when empty.
	ConsentKey string `env:"GOIDC_CONSENT_KEY"`

	AuthorizationCodeTTL time.Duration `env:"GOIDC_CODE_TTL"     envDefault:"10m"`
	IDTokenTTL           time.Duration `env:"GOIDC_ID_TOKEN_TTL" envDefault:"10m"`
	TokenTTL             time.Duration `env:"GOIDC_TOKEN_TTL"    envDefault:"1h"`
	ConsentTTL           time.Duration `env:"GOIDC_CONSENT_TTL"  envDefault:"2160h"`
}

func loadConfig() (config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.Storage {
	case storageMemory, storageSQLite, storageMongoDB:
	default:
		return config{}, fmt.Errorf("unknown storage %q", cfg.Storage)
	}

	if cfg.Storage == storageMongoDB && cfg.MongoDBURI == "" {
		return config{}, fmt.Errorf("GOIDC_MONGODB_URI is required for the mongodb storage")
	}

	return cfg, nil
}

func (cfg config) clients() ([]*goidc.Client, error) {
	if cfg.ClientsJSON == "" {
		return nil, nil
	}

	var clients []*goidc.Client
	if err := json.Unmarshal([]byte(cfg.ClientsJSON), &clients); err != nil {
		return nil, fmt.Errorf("parse GOIDC_CLIENTS: %w", err)
	}
	return clients, nil
}

func (cfg config) logLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (cfg config) consentChallengeKey() []byte {
	if cfg.ConsentKey == "" {
		return nil
	}
	return []byte(cfg.ConsentKey)
}
