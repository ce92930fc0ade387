package metrics

import (
	"testing"
	"time"
)

// Compile-time interface checks.
var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveTransformDuration("prefer_section_target", time.Millisecond)
	r.IncTransformResult("prefer_section_target", ResultSuccess)
	r.AddChanges("prefer_section_target", 2)
	r.IncDocumentOutcome(OutcomeSuccess)
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var p *PrometheusRecorder
	p.ObserveTransformDuration("x", time.Millisecond)
	p.IncTransformResult("x", ResultFailed)
	p.AddChanges("x", 1)
	p.IncDocumentOutcome(OutcomeFailed)
}
