package metrics

import "time"

// ResultLabel enumerates terminal page outcomes for counters.
type ResultLabel string

const (
	ResultRendered    ResultLabel = "rendered"
	ResultNotFound    ResultLabel = "not_found"
	ResultReadError   ResultLabel = "read_error"
	ResultRenderError ResultLabel = "render_error"
	ResultTemplate    ResultLabel = "template_error"
	ResultCanceled    ResultLabel = "canceled"
)

// Recorder defines observability hooks for page and stylesheet requests.
// Implementations must be safe for concurrent use.
type Recorder interface {
	IncPageResult(route string, result ResultLabel)
	ObservePageDuration(route string, d time.Duration)
	IncStylesheetRequest(found bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncPageResult(string, ResultLabel)        {}
func (NoopRecorder) ObservePageDuration(string, time.Duration) {}
func (NoopRecorder) IncStylesheetRequest(bool)                {}
