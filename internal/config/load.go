package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/markview/internal/foundation/errors"
)

// envFiles are loaded, when present, before the configuration is expanded.
var envFiles = []string{".env", ".env.local"}

// Load reads the configuration file at path, expands ${VAR} references,
// applies defaults and validates the result.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the command line
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.ConfigError("configuration file not found").
				WithCause(err).
				WithContext("path", path).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read configuration file").
			Fatal().
			WithContext("path", path).
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err := ApplyDefaults(cfg, ""); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML configuration after environment expansion. Unknown keys
// are rejected. Defaults are not applied.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid configuration").
			Fatal().
			WithContext("reason", err.Error()).
			Build()
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is given: the bundled
// stylesheets and the working directory served at "/".
func Default() (*Config, error) {
	cfg := &Config{}
	if err := ApplyDefaults(cfg, ""); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvFiles loads .env and .env.local without overriding variables that
// are already set.
func loadEnvFiles() {
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			slog.Warn("Failed to load environment file", "file", name, "error", err)
			continue
		}
		slog.Debug("Loaded environment variables", "file", name)
	}
}
