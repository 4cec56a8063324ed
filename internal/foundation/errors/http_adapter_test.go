package errors

import (
	"bytes"
	"encoding/json"
	stdErrors "errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPErrorAdapter_StatusCodeFor(t *testing.T) {
	adapter := NewHTTPErrorAdapter(slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: http.StatusOK},
		{name: "not found", err: NotFoundError("no route").Build(), expected: http.StatusNotFound},
		{name: "filesystem", err: FileSystemError("EACCES").Build(), expected: http.StatusInternalServerError},
		{name: "render", err: RenderError("bad").Build(), expected: http.StatusInternalServerError},
		{name: "template", err: TemplateError("bad").Build(), expected: http.StatusInternalServerError},
		{name: "validation", err: ValidationError("bad method").Build(), expected: http.StatusBadRequest},
		{name: "unclassified error", err: stdErrors.New("unknown error"), expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adapter.StatusCodeFor(tt.err)
			if got != tt.expected {
				t.Errorf("StatusCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHTTPErrorAdapter_WriteStatus(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelInfo}))
	adapter := NewHTTPErrorAdapter(logger)

	t.Run("not found is quiet", func(t *testing.T) {
		logs.Reset()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/missing.md", nil)

		status := adapter.WriteStatus(w, r, NotFoundError("no such file").Build())

		if status != http.StatusNotFound || w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d/%d", status, w.Code)
		}
		if w.Body.String() != "Not Found" {
			t.Errorf("expected status text body, got %q", w.Body.String())
		}
		if logs.Len() != 0 {
			t.Errorf("expected no log output at info level, got %q", logs.String())
		}
	})

	t.Run("filesystem failure is logged", func(t *testing.T) {
		logs.Reset()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/a.md", nil)

		err := WrapError(stdErrors.New("permission denied"), CategoryFileSystem, "read source file").
			WithContext("file", "/docs/a.md").
			Build()
		adapter.WriteStatus(w, r, err)

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
		out := logs.String()
		if !strings.Contains(out, "level=ERROR") || !strings.Contains(out, "permission denied") {
			t.Errorf("expected an error log entry with the cause, got %q", out)
		}
		if !strings.Contains(out, "file=/docs/a.md") {
			t.Errorf("expected context in log entry, got %q", out)
		}
	})
}

func TestHTTPErrorAdapter_WriteErrorResponse(t *testing.T) {
	adapter := NewHTTPErrorAdapter(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	adapter.WriteErrorResponse(w, r, ValidationError("invalid HTTP method").WithContext("method", "POST").Build())

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %v, want application/json", ct)
	}
	var response HTTPErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if response.Code != string(CategoryValidation) || response.Details["method"] != "POST" {
		t.Errorf("unexpected payload: %+v", response)
	}
}

func TestHTTPErrorAdapter_FormatErrorResponse(t *testing.T) {
	adapter := NewHTTPErrorAdapter(nil)

	if got := adapter.FormatErrorResponse(stdErrors.New("plain")); got.Error != "plain" || got.Code != "" {
		t.Errorf("unexpected payload for plain error: %+v", got)
	}
	got := adapter.FormatErrorResponse(RenderError("conversion failed").Build())
	if got.Error != "conversion failed" || got.Code != "render" {
		t.Errorf("unexpected payload for classified error: %+v", got)
	}
}
