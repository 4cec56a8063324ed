package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/markview/internal/foundation/errors"
	"git.home.luguber.info/inful/markview/internal/server/responses"
	"git.home.luguber.info/inful/markview/internal/version"
)

// SiteInfo is the view of the running site the monitoring handlers need.
type SiteInfo interface {
	RouteCount() int
	StylesheetCount() int
}

// MonitoringHandlers contains monitoring-related HTTP handlers.
type MonitoringHandlers struct {
	site         SiteInfo
	startTime    time.Time
	now          func() time.Time
	errorAdapter *errors.HTTPErrorAdapter
}

// NewMonitoringHandlers creates a new monitoring handlers instance.
func NewMonitoringHandlers(site SiteInfo, logger *slog.Logger) *MonitoringHandlers {
	return &MonitoringHandlers{
		site:         site,
		startTime:    time.Now(),
		now:          time.Now,
		errorAdapter: errors.NewHTTPErrorAdapter(logger),
	}
}

// HandleHealthCheck handles the health check endpoint.
func (h *MonitoringHandlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		err := errors.ValidationError("invalid HTTP method").
			WithContext("method", r.Method).
			WithContext("allowed_method", "GET").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	now := h.now()
	health := &responses.HealthResponse{
		Status:    "healthy",
		Timestamp: now.UTC(),
		Version:   version.Version,
		Uptime:    now.Sub(h.startTime).Seconds(),
	}
	if h.site != nil {
		health.Routes = h.site.RouteCount()
		health.Stylesheets = h.site.StylesheetCount()
	}

	if err := writeJSON(w, r, http.StatusOK, health); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write health response").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}
