package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alfredjeanlab/qastream/internal/faq"
	"github.com/alfredjeanlab/qastream/internal/reconcile"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health) must include
// a valid Authorization: Bearer <token> header.
func (s *Server) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	mux.HandleFunc("GET /v1/links/{question_id}", s.handleGetLinks)
	mux.HandleFunc("POST /v1/questions/{question_id}/resync", s.handleResync)
	return AuthMiddleware(authToken, mux)
}

// handleHealth handles GET /v1/health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGetLinks handles GET /v1/links/{question_id}.
func (s *Server) handleGetLinks(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("question_id")
	if err := requireID("question_id", id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	set, err := s.links.GetLinks(r.Context(), id)
	if err != nil {
		s.logger.Error("server: get links failed", "question_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to get links")
		return
	}
	if set.IsEmpty() {
		writeError(w, http.StatusNotFound, "question has no links")
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// handleResync handles POST /v1/questions/{question_id}/resync.
func (s *Server) handleResync(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("question_id")
	if err := requireID("question_id", id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err := s.engine.Resync(r.Context(), id)
	switch {
	case err == nil:
	case errors.Is(err, reconcile.ErrSocialAbsent):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case faq.IsNotFound(err):
		writeError(w, http.StatusNotFound, "question not found")
		return
	default:
		s.logger.Error("server: resync failed", "question_id", id, "err", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	set, err := s.links.GetLinks(r.Context(), id)
	if err != nil {
		s.logger.Error("server: get links failed", "question_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to get links")
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
