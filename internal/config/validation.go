package config

import (
	"git.home.luguber.info/inful/docanchors/internal/foundation/errors"
)

// Normalize canonicalises enum spellings, filling empty values with defaults.
func (c *Config) Normalize() error {
	if c.Logging.Level == "" {
		c.Logging.Level = LogLevelInfo
	}
	if c.Logging.Format == "" {
		c.Logging.Format = LogFormatText
	}
	level, err := logLevels.parse(c.Logging.Level)
	if err != nil {
		return err
	}
	format, err := logFormats.parse(c.Logging.Format)
	if err != nil {
		return err
	}
	c.Logging.Level = level
	c.Logging.Format = format
	return nil
}

// Validate checks values that Normalize cannot repair.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return errors.ConfigError("workers must be at least 1").
			WithContext("workers", c.Workers).
			Build()
	}
	seen := make(map[string]struct{}, len(c.Transforms.Include))
	for _, name := range c.Transforms.Include {
		if name == "" {
			return errors.ConfigError("transforms.include contains an empty name").Build()
		}
		if _, dup := seen[name]; dup {
			return errors.ConfigError("transforms.include lists a transform twice").
				WithContext("transform", name).
				Build()
		}
		seen[name] = struct{}{}
	}
	for name := range c.Transforms.Priorities {
		if name == "" {
			return errors.ConfigError("transforms.priorities contains an empty name").Build()
		}
	}
	return nil
}
