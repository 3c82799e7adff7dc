package web

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/nudge/internal/core"
	"github.com/JonMunkholm/nudge/internal/history"
	"github.com/JonMunkholm/nudge/internal/ingest"
)

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"runs":   s.service.Status(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Status())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	runs, err := s.service.List(r.Context(), defaultListLimit)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	render(w, r, http.StatusOK, indexPage(runs, nil))
}

// handleRunForm accepts the upload form and redirects to the result page.
// Failures re-render the form with the error.
func (s *Server) handleRunForm(w http.ResponseWriter, r *http.Request) {
	run, err := s.runUpload(w, r)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusServiceUnavailable {
			w.Header().Set("Retry-After", "30")
		}
		runs, _ := s.service.List(r.Context(), defaultListLimit)
		render(w, r, status, indexPage(runs, errorAlert(core.MapError(err))))
		return
	}
	http.Redirect(w, r, runPath(run.ID), http.StatusSeeOther)
}

func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.runUpload(w, r)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusServiceUnavailable {
			w.Header().Set("Retry-After", "30")
		}
		respondError(w, r, err, status)
		return
	}
	w.Header().Set("Location", "/api"+runPath(run.ID))
	writeJSON(w, http.StatusCreated, run.Header())
}

// runUpload reads the "file" form field and classifies it.
func (s *Server) runUpload(w http.ResponseWriter, r *http.Request) (*history.Run, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Run.MaxFileSize+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: request exceeds %d bytes", ingest.ErrFileTooLarge, tooLarge.Limit)
		}
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) || errors.Is(err, multipart.ErrMessageTooLarge) {
			return nil, core.ErrNoFile
		}
		return nil, fmt.Errorf("%w: %v", core.ErrNoFile, err)
	}
	defer file.Close()

	ctx := withRequestMetadata(r.Context(), r)
	return s.service.Run(ctx, header.Filename, file)
}

func (s *Server) handleRunPage(w http.ResponseWriter, r *http.Request) {
	run, err := s.service.Get(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	render(w, r, http.StatusOK, runPage(run))
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   "invalid limit",
				Message: "limit must be a positive integer",
				Code:    "REQ001",
			})
			return
		}
		limit = min(n, maxListLimit)
	}

	runs, err := s.service.List(r.Context(), limit)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	if runs == nil {
		runs = []history.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.service.Get(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, run.Header())
}

// handleDownload serves one output table as a CSV attachment.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name, body, err := s.service.Download(r.Context(), chi.URLParam(r, "runID"), chi.URLParam(r, "table"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	w.Header().Set("Cache-Control", "no-store")
	http.ServeContent(w, r, name, time.Time{}, bytes.NewReader(body))
}
