package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/markview/internal/logfields"
	"git.home.luguber.info/inful/markview/internal/observability"
)

// writeJSON encodes v into a buffer first so a failed encode never leaves a
// partial response; the caller reports the returned encode error. Body write
// failures are only logged since the status line is already out. Pretty output is
// selected with ?pretty=1 or ?pretty=true. HEAD requests get headers only.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if p := r.URL.Query().Get("pretty"); p == "1" || p == "true" {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return nil
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		observability.Logger(r.Context(), slog.Default()).
			Error("failed writing JSON response body", logfields.Error(err))
	}
	return nil
}
