package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyDocument   = "document"
	KeyTransform  = "transform"
	KeyPriority   = "priority"
	KeySection    = "section"
	KeyRefID      = "refid"
	KeyIDs        = "ids"
	KeyChanges    = "changes"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Document(path string) slog.Attr  { return slog.String(KeyDocument, path) }
func Transform(name string) slog.Attr { return slog.String(KeyTransform, name) }
func Priority(p int) slog.Attr        { return slog.Int(KeyPriority, p) }
func Section(id string) slog.Attr     { return slog.String(KeySection, id) }
func RefID(id string) slog.Attr       { return slog.String(KeyRefID, id) }
func IDs(ids []string) slog.Attr      { return slog.Any(KeyIDs, ids) }
func Changes(n int) slog.Attr         { return slog.Int(KeyChanges, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
