package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/docanchors/internal/foundation/errors"
)

// Environment variables that override file values.
const (
	EnvLogLevel  = "DOCANCHORS_LOG_LEVEL"
	EnvLogFormat = "DOCANCHORS_LOG_FORMAT"
	EnvWorkers   = "DOCANCHORS_WORKERS"
	EnvInclude   = "DOCANCHORS_TRANSFORMS"
)

// envFiles are loaded in order when present. godotenv never overrides
// variables that are already set, so earlier files win.
var envFiles = []string{".env.local", ".env"}

func loadEnvFiles() error {
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "failed to load environment file").
				WithContext("path", name).
				Build()
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = LogLevel(v)
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = LogFormat(v)
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "invalid "+EnvWorkers).
				WithContext("value", v).
				Build()
		}
		cfg.Workers = n
	}
	if v := os.Getenv(EnvInclude); v != "" {
		var include []string
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				include = append(include, name)
			}
		}
		cfg.Transforms.Include = include
	}
	return nil
}
