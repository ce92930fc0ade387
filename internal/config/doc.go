// Package config loads the docanchors YAML configuration, optional .env
// files and DOCANCHORS_* environment overrides.
package config
