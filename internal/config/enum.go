package config

import (
	"sort"
	"strings"

	"git.home.luguber.info/inful/docanchors/internal/foundation/errors"
)

// enum maps case-insensitive spellings onto typed values.
type enum[T ~string] struct {
	field  string
	values map[string]T
	keys   []string
}

func newEnum[T ~string](field string, values map[string]T) *enum[T] {
	e := &enum[T]{field: field, values: make(map[string]T, len(values))}
	for k, v := range values {
		key := normalizeKey(k)
		e.values[key] = v
		e.keys = append(e.keys, key)
	}
	sort.Strings(e.keys)
	return e
}

func (e *enum[T]) parse(raw T) (T, error) {
	if v, ok := e.values[normalizeKey(string(raw))]; ok {
		return v, nil
	}
	var zero T
	return zero, errors.ConfigError("invalid "+e.field).
		WithContext("value", string(raw)).
		WithContext("valid", strings.Join(e.keys, ", ")).
		Build()
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
