// Package metrics provides observability hooks for the document pipeline.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection needs no nil checks at call sites:
//
//	reg := transforms.NewRegistry()
//	reg.SetRecorder(metrics.NewPrometheusRecorder(promRegistry))
//
// The Prometheus implementation registers its collectors on the registry it
// is given; WriteText renders that registry in the text exposition format for
// the CLI's --metrics flag.
package metrics
