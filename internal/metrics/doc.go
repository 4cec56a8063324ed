// Package metrics provides request metrics for Markview.
//
// Components receive a Recorder through dependency injection. NoopRecorder is the
// default and does nothing, so callers never need nil checks:
//
//	srv := pages.NewServer(resolver, pages.Options{Recorder: metrics.NoopRecorder{}})
//
// When monitoring.metrics.enabled is set, the site is assembled with a
// PrometheusRecorder and HTTPHandler serves the registry on monitoring.metrics.path.
package metrics
