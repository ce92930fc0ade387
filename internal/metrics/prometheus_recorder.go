package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	transformDuration *prom.HistogramVec
	transformResults  *prom.CounterVec
	changes           *prom.CounterVec
	documents         *prom.CounterVec
}

// NewPrometheusRecorder constructs the collectors and registers them on reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		transformDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "docanchors",
			Name:      "transform_duration_seconds",
			Help:      "Duration of individual tree transforms per document",
			Buckets:   []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01, .05},
		}, []string{"transform"}),
		transformResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docanchors",
			Name:      "transform_results_total",
			Help:      "Transform runs by result",
		}, []string{"transform", "result"}),
		changes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docanchors",
			Name:      "transform_changes_total",
			Help:      "Nodes changed by each transform",
		}, []string{"transform"}),
		documents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docanchors",
			Name:      "documents_total",
			Help:      "Processed documents by outcome",
		}, []string{"outcome"}),
	}
	reg.MustRegister(pr.transformDuration, pr.transformResults, pr.changes, pr.documents)
	return pr
}

func (p *PrometheusRecorder) ObserveTransformDuration(transform string, d time.Duration) {
	if p == nil {
		return
	}
	p.transformDuration.WithLabelValues(transform).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncTransformResult(transform string, result ResultLabel) {
	if p == nil {
		return
	}
	p.transformResults.WithLabelValues(transform, string(result)).Inc()
}

func (p *PrometheusRecorder) AddChanges(transform string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.changes.WithLabelValues(transform).Add(float64(n))
}

func (p *PrometheusRecorder) IncDocumentOutcome(outcome DocumentOutcome) {
	if p == nil {
		return
	}
	p.documents.WithLabelValues(string(outcome)).Inc()
}
