package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"promptquest/internal/domain"
	"promptquest/internal/domain/ports/adapter"
	"promptquest/internal/usecase"
)

type turnRequest struct {
	SessionID string                 `json:"session_id"`
	Prompt    string                 `json:"prompt"`
	Params    adapter.SamplingParams `json:"params"`
}

type turnResponse struct {
	SessionID string `json:"session_id"`
	*usecase.TurnResult
}

func (s *Server) turnHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	// First turn of a fresh browser tab arrives without a session id.
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	result, err := s.play.ProcessTurn(ctx, req.SessionID, req.Prompt, req.Params)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument):
			http.Error(w, "Prompt must not be empty", http.StatusBadRequest)
		case errors.Is(err, domain.ErrLedgerLockBusy):
			http.Error(w, "All model slots are busy, try again shortly", http.StatusServiceUnavailable)
		default:
			s.log.Error().Err(err).Msg("turn failed")
			http.Error(w, "Failed to process turn", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, turnResponse{SessionID: req.SessionID, TurnResult: result})
}

func (s *Server) sessionHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view, err := s.play.Session(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		s.log.Error().Err(err).Msg("session lookup failed")
		http.Error(w, "Failed to get session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) sessionResetHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.play.ResetSession(r.Context(), id); err != nil {
		s.log.Error().Err(err).Msg("session reset failed")
		http.Error(w, "Failed to reset session", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) healthzHandler(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// ===== Admin =====

type adminLoginRequest struct {
	APIKey string `json:"api_key"`
}

func (s *Server) adminLoginHandler(w http.ResponseWriter, r *http.Request) {
	if s.apiKey == "" {
		s.log.Error().Msg("Admin API key is not configured")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.APIKey != s.apiKey {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	token, err := s.auth.Mint(w)
	if err != nil {
		http.Error(w, "Failed to mint session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) adminStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.play.Stats(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("stats failed")
		http.Error(w, "Failed to get stats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) adminResetHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.play.ResetAll(r.Context()); err != nil {
		s.log.Error().Err(err).Msg("global reset failed")
		http.Error(w, "Failed to reset progress", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
