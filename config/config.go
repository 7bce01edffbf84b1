package config

import (
	"encoding/base64"
	"os"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "TASKWARD_"

// Config holds the application settings. Values are layered: built-in
// defaults, then an optional YAML file, then TASKWARD_* environment
// variables.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	Debug    bool           `koanf:"debug"`
}

type ServerConfig struct {
	Addr string `koanf:"addr"`
}

type DatabaseConfig struct {
	DSN string `koanf:"dsn"`
}

type AuthConfig struct {
	Secret     string        `koanf:"secret"`
	TTL        time.Duration `koanf:"ttl"`
	BcryptCost int           `koanf:"bcryptcost"`
}

// SigningKey returns the token signing secret as raw bytes. Secrets may
// be provided base64 encoded; anything that does not decode is used
// verbatim.
func (c AuthConfig) SigningKey() []byte {
	if decoded, err := base64.StdEncoding.DecodeString(c.Secret); err == nil {
		return decoded
	}
	return []byte(c.Secret)
}

func defaults() map[string]any {
	return map[string]any{
		"server.addr":     ":8080",
		"database.dsn":    "file:taskward.db?cache=shared&_pragma=foreign_keys(1)",
		"auth.ttl":        "24h",
		"auth.bcryptcost": 12,
		"debug":           false,
	}
}

// Load builds the Config from defaults, the optional YAML file at path,
// and the environment.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load config defaults")
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse config file").
					WithMetadata(map[string]any{
						"path": path,
					})
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".",
		)
	}), nil); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load environment config")
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return goerrors.New("auth secret is required", goerrors.CategoryValidation).
			WithTextCode("MISSING_AUTH_SECRET")
	}

	if c.Auth.TTL <= 0 {
		return goerrors.New("auth token ttl must be positive", goerrors.CategoryValidation).
			WithTextCode("INVALID_AUTH_TTL")
	}

	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return goerrors.New("auth bcrypt cost out of range", goerrors.CategoryValidation).
			WithTextCode("INVALID_BCRYPT_COST")
	}

	return nil
}
