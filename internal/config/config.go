// Package config loads process configuration from defaults, an optional
// YAML file, and environment variables.
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config contains process configuration.
type Config struct {
	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath is the SQLite database file, or ":memory:".
	DBPath string `koanf:"db_path"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// RefreshInterval is how often the state snapshot is rebuilt.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// Backup settings. Backups are disabled unless both backup_dir and
	// backup_passphrase are set.
	BackupDir           string        `koanf:"backup_dir"`
	BackupPassphrase    string        `koanf:"backup_passphrase"`
	BackupInterval      time.Duration `koanf:"backup_interval"`
	BackupRetentionDays int           `koanf:"backup_retention_days"`

	// S3-compatible mirror for backups.
	S3Endpoint  string `koanf:"s3_endpoint"`
	S3Bucket    string `koanf:"s3_bucket"`
	S3Region    string `koanf:"s3_region"`
	S3AccessKey string `koanf:"s3_access_key"`
	S3SecretKey string `koanf:"s3_secret_key"`

	// VAPID keys for web push. Push is disabled when empty.
	VAPIDPublicKey  string `koanf:"vapid_public_key"`
	VAPIDPrivateKey string `koanf:"vapid_private_key"`
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		Addr:                ":8080",
		DBPath:              "choremander.db",
		LogLevel:            "info",
		RefreshInterval:     30 * time.Second,
		BackupInterval:      24 * time.Hour,
		BackupRetentionDays: 30,
		S3Region:            "us-east-1",
	}
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if CHOREMANDER_CONFIG is set
//  3. env (prefix CHOREMANDER_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("CHOREMANDER_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: CHOREMANDER_ADDR, CHOREMANDER_DB_PATH, ...
	// Map env keys like CHOREMANDER_DB_PATH -> db_path (flat keys).
	envProvider := env.Provider("CHOREMANDER_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "choremander_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	if cfg.DBPath == "" {
		return nil, errors.New("db_path must not be empty")
	}
	return &cfg, nil
}
