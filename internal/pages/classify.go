package pages

import (
	"errors"
	"io/fs"
	"net/http"
	"syscall"

	ferrors "git.home.luguber.info/inful/markview/internal/foundation/errors"
)

// Classify maps a source read failure onto the error taxonomy. Missing files,
// paths through a regular file (ENOTDIR) and directories (EISDIR) are
// ordinary misses. Every other failure is an unexpected filesystem error.
// Errors that are already classified are returned unchanged.
func Classify(err error) *ferrors.ClassifiedError {
	if err == nil {
		return nil
	}
	if c, ok := ferrors.AsClassified(err); ok {
		return c
	}
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) || errors.Is(err, syscall.EISDIR) {
		return ferrors.NotFoundError("source file not found").WithCause(err).Build()
	}
	return ferrors.FileSystemError("failed to read source file").WithCause(err).Build()
}

var statusAdapter = ferrors.NewHTTPErrorAdapter(nil)

// StatusFor returns the HTTP status a read failure surfaces as.
func StatusFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return statusAdapter.StatusCodeFor(Classify(err))
}
