package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "markview"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	pageDuration *prom.HistogramVec
	pageResults  *prom.CounterVec
	stylesheets  *prom.CounterVec
}

// NewPrometheusRecorder constructs the page metrics and registers them on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		pageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "page_duration_seconds",
			Help:      "Time spent resolving, reading and rendering a page",
			Buckets:   prom.DefBuckets,
		}, []string{"route"}),
		pageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "page_results_total",
			Help:      "Page requests by route and terminal outcome",
		}, []string{"route", "result"}),
		stylesheets: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stylesheet_requests_total",
			Help:      "Stylesheet requests by lookup result",
		}, []string{"result"}),
	}
	reg.MustRegister(pr.pageDuration, pr.pageResults, pr.stylesheets)
	return pr
}

func (p *PrometheusRecorder) IncPageResult(route string, result ResultLabel) {
	if p == nil || p.pageResults == nil {
		return
	}
	p.pageResults.WithLabelValues(route, string(result)).Inc()
}

func (p *PrometheusRecorder) ObservePageDuration(route string, d time.Duration) {
	if p == nil || p.pageDuration == nil {
		return
	}
	p.pageDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStylesheetRequest(found bool) {
	if p == nil || p.stylesheets == nil {
		return
	}
	res := "missing"
	if found {
		res = "found"
	}
	p.stylesheets.WithLabelValues(res).Inc()
}
