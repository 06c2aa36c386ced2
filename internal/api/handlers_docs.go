package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/doxadoc/internal/outline"
	"github.com/dgallion1/doxadoc/internal/pipeline"
)

// finishedResult writes the error response and returns nil unless the job
// exists and has completed.
func (s *Server) finishedResult(w http.ResponseWriter, r *http.Request) *pipeline.Result {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return nil
	}
	res := job.Result()
	if res == nil {
		snap := job.Snapshot()
		jsonError(w, "job is "+string(snap.Status), http.StatusConflict)
		return nil
	}
	return res
}

// handleDocument returns the rendered AsciiDoc.
func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	res := s.finishedResult(w, r)
	if res == nil {
		return
	}
	w.Header().Set("Content-Type", "text/asciidoc; charset=utf-8")
	w.Write([]byte(res.Document))
}

// handleOutline returns the group outline and the conversion warnings.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	res := s.finishedResult(w, r)
	if res == nil {
		return
	}
	entries := res.Outline
	if entries == nil {
		entries = []outline.Entry{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   chi.URLParam(r, "jobID"),
		"outline":  entries,
		"warnings": res.Warnings,
	})
}
