// Package errors provides the classified error primitives used across docanchors.
//
// Errors carry a category (what failed), a severity (how badly) and structured
// context. Document pipeline failures are reported through these types so the
// CLI can pick exit codes and log the context without parsing messages.
//
// Example usage:
//
//	err := errors.InternalError("target refid missing from section ids").
//		WithContext("refid", refid).
//		WithContext("ids", section.IDs.Values()).
//		Build()
package errors
