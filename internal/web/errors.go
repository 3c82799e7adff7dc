package web

// errors.go renders every failure the same way: the technical error is
// logged with the request ID, and the client gets the coded message from
// core.MapError as JSON for API callers or as a page otherwise.

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/nudge/internal/core"
	"github.com/JonMunkholm/nudge/internal/history"
	"github.com/JonMunkholm/nudge/internal/ingest"
	"github.com/JonMunkholm/nudge/internal/logging"
	"github.com/JonMunkholm/nudge/internal/nudge"
)

// ErrorResponse is the JSON body of an API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

func respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	msg := core.MapError(err)

	log := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	}
	if status >= http.StatusInternalServerError {
		log.Error("request error", attrs...)
	} else {
		log.Warn("request error", attrs...)
	}

	if wantsJSON(r) {
		writeJSON(w, status, ErrorResponse{
			Error:   msg.Message,
			Message: msg.Message,
			Action:  msg.Action,
			Code:    msg.Code,
		})
		return
	}
	render(w, r, status, errorPage(msg))
}

// statusFor picks the HTTP status for a run or lookup error.
func statusFor(err error) int {
	var te *nudge.TimestampError
	switch {
	case errors.Is(err, ingest.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrTooManyRuns):
		return http.StatusServiceUnavailable
	case errors.Is(err, history.ErrNotFound), errors.Is(err, history.ErrUnknownTable):
		return http.StatusNotFound
	case errors.As(err, &te),
		errors.Is(err, nudge.ErrNoRecords),
		errors.Is(err, nudge.ErrNoHeader):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrNoFile),
		errors.Is(err, core.ErrUnsupportedFileType),
		errors.Is(err, ingest.ErrEmptyFile),
		errors.Is(err, ingest.ErrInvalidCSV):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// wantsJSON reports whether the client should get a JSON error body.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
