package transforms

import (
	"log/slog"

	"github.com/yuin/goldmark/parser"
)

// Per-document pipeline state lives in the goldmark parser.Context so that
// transforms stay stateless and documents can be processed in parallel.
var (
	errKey     = parser.NewContextKey()
	skipKey    = parser.NewContextKey()
	changesKey = parser.NewContextKey()
	loggerKey  = parser.NewContextKey()
)

// Err returns the first transform error recorded for this document.
func Err(pc parser.Context) error {
	if pc == nil {
		return nil
	}
	err, _ := pc.Get(errKey).(error)
	return err
}

func setErr(pc parser.Context, err error) {
	if Err(pc) == nil {
		pc.Set(errKey, err)
	}
}

// Skip marks transforms that must not run for this document.
func Skip(pc parser.Context, names ...string) {
	if len(names) == 0 {
		return
	}
	skipped, _ := pc.Get(skipKey).(map[string]struct{})
	if skipped == nil {
		skipped = make(map[string]struct{}, len(names))
		pc.Set(skipKey, skipped)
	}
	for _, name := range names {
		skipped[name] = struct{}{}
	}
}

// Skipped reports whether name was marked with Skip.
func Skipped(pc parser.Context, name string) bool {
	if pc == nil {
		return false
	}
	skipped, _ := pc.Get(skipKey).(map[string]struct{})
	_, ok := skipped[name]
	return ok
}

// AddChanges records that transform name changed n nodes in this document.
func AddChanges(pc parser.Context, name string, n int) {
	if pc == nil || n <= 0 {
		return
	}
	changes, _ := pc.Get(changesKey).(map[string]int)
	if changes == nil {
		changes = make(map[string]int)
		pc.Set(changesKey, changes)
	}
	changes[name] += n
}

// Changes returns the count recorded by AddChanges for name.
func Changes(pc parser.Context, name string) int {
	if pc == nil {
		return 0
	}
	changes, _ := pc.Get(changesKey).(map[string]int)
	return changes[name]
}

// AllChanges returns a copy of every recorded change count.
func AllChanges(pc parser.Context) map[string]int {
	out := make(map[string]int)
	if pc == nil {
		return out
	}
	changes, _ := pc.Get(changesKey).(map[string]int)
	for k, v := range changes {
		out[k] = v
	}
	return out
}

// WithLogger attaches a document-scoped logger.
func WithLogger(pc parser.Context, logger *slog.Logger) {
	pc.Set(loggerKey, logger)
}

// Logger returns the document-scoped logger, or slog.Default().
func Logger(pc parser.Context) *slog.Logger {
	if pc != nil {
		if l, ok := pc.Get(loggerKey).(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return slog.Default()
}
