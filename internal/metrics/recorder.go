package metrics

import "time"

// ResultLabel enumerates transform result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultSkipped ResultLabel = "skipped"
	ResultFailed  ResultLabel = "failed"
)

// DocumentOutcome labels the final status of one processed document.
type DocumentOutcome string

const (
	OutcomeSuccess DocumentOutcome = "success"
	OutcomeFailed  DocumentOutcome = "failed"
)

// Recorder defines observability hooks for transform and document metrics.
// Implementations must be safe for concurrent use; the CLI processes documents in parallel.
type Recorder interface {
	ObserveTransformDuration(transform string, d time.Duration)
	IncTransformResult(transform string, result ResultLabel)
	AddChanges(transform string, n int)
	IncDocumentOutcome(outcome DocumentOutcome)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveTransformDuration(string, time.Duration) {}
func (NoopRecorder) IncTransformResult(string, ResultLabel)         {}
func (NoopRecorder) AddChanges(string, int)                         {}
func (NoopRecorder) IncDocumentOutcome(DocumentOutcome)             {}
