package css

import (
	"bytes"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"syscall"
	"time"

	"git.home.luguber.info/inful/markview/internal/foundation/errors"
	"git.home.luguber.info/inful/markview/internal/logfields"
	"git.home.luguber.info/inful/markview/internal/metrics"
)

const contentType = "text/css; charset=utf-8"

// Handler serves registry entries by name. It expects to be mounted behind
// http.StripPrefix so that the request path is "/{name}".
type Handler struct {
	reg      *Registry
	recorder metrics.Recorder
	logger   *slog.Logger
	errors   *errors.HTTPErrorAdapter
	// bundled entries have no file modification time; startup time stands in.
	modTime time.Time
}

// NewHandler returns the stylesheet endpoint for reg.
func NewHandler(reg *Registry, recorder metrics.Recorder, logger *slog.Logger) *Handler {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		reg:      reg,
		recorder: recorder,
		logger:   logger,
		errors:   errors.NewHTTPErrorAdapter(logger),
		modTime:  time.Now(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/")
	entry, ok := h.reg.Lookup(name)
	h.recorder.IncStylesheetRequest(ok)
	if !ok {
		h.logger.Debug("Unknown stylesheet", logfields.Stylesheet(name))
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", contentType)
	if entry.IsBundled() {
		http.ServeContent(w, r, entry.Name, h.modTime, bytes.NewReader(entry.Content))
		return
	}
	h.serveFile(w, r, entry)
}

// serveFile serves a file-backed entry. http.ServeFile is avoided because it
// applies its own request-path rules, such as redirecting ".../index.html".
func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request, entry Entry) {
	f, err := os.Open(entry.Path)
	if err != nil {
		h.fail(w, r, entry, err)
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err == nil && info.IsDir() {
		err = syscall.EISDIR
	}
	if err != nil {
		h.fail(w, r, entry, err)
		return
	}
	http.ServeContent(w, r, entry.Name, info.ModTime(), f)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, entry Entry, err error) {
	w.Header().Del("Content-Type")
	var cerr *errors.ClassifiedError
	if stderrors.Is(err, fs.ErrNotExist) || stderrors.Is(err, syscall.ENOTDIR) || stderrors.Is(err, syscall.EISDIR) {
		cerr = errors.NotFoundError("stylesheet file not found").WithCause(err).Build()
	} else {
		cerr = errors.FileSystemError("failed to open stylesheet").WithCause(err).Build()
	}
	h.errors.WriteStatus(w, r, cerr.
		WithContext(logfields.KeyStylesheet, entry.Name).
		WithContext(logfields.KeyFile, entry.Path))
}
