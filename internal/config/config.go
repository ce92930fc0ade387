package config

import (
	"os"
	"runtime"
	"sort"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docanchors/internal/foundation/errors"
	"git.home.luguber.info/inful/docanchors/internal/transforms"
)

// Config is the docanchors configuration file.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Transforms TransformsConfig `yaml:"transforms"`
	// Workers bounds how many documents are processed at once.
	Workers int `yaml:"workers"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// TransformsConfig selects and orders transforms.
type TransformsConfig struct {
	// Include restricts the pipeline to these transforms. Empty means all.
	Include []string `yaml:"include,omitempty"`
	// Priorities overrides registered priorities by transform name.
	Priorities map[string]int `yaml:"priorities,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
		Workers: runtime.NumCPU(),
	}
}

// Load reads path on top of Default, loads .env files, applies
// environment overrides and validates the result. An empty path skips the
// file.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.NewError(errors.CategoryNotFound, "configuration file not found").
					WithContext("path", path).
					Build()
			}
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read configuration file").
				WithContext("path", path).
				Build()
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse configuration file").
				WithContext("path", path).
				Build()
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply installs the priority overrides on reg and checks that the selected
// pipeline still satisfies every transform dependency.
func (c *Config) Apply(reg *transforms.Registry) error {
	names := make([]string, 0, len(c.Transforms.Priorities))
	for name := range c.Transforms.Priorities {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := reg.SetPriority(name, c.Transforms.Priorities[name]); err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "invalid transform priority override").
				WithContext("transform", name).
				Build()
		}
	}
	if _, err := reg.Pipeline(c.Transforms.Include); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid transform selection").Build()
	}
	return nil
}
