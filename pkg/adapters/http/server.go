// Package http exposes the pipeline over a JSON API. Handlers are thin:
// decode, run, encode. The engine guarantees a run never propagates an
// error, so request failures here are strictly protocol-level.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lmeira/codemend/internal/logging"
	"github.com/lmeira/codemend/pkg/domain"
)

// Engine is the pipeline surface the server needs.
type Engine interface {
	Run(ctx context.Context, prompt, requirements string) (domain.Report, domain.State)
}

// GenerateRequest is the body of POST /api/generate.
type GenerateRequest struct {
	Prompt       string `json:"prompt"`
	Requirements string `json:"requirements,omitempty"`
}

// GenerateResponse mirrors the terminal state of a run.
type GenerateResponse struct {
	Success               bool                  `json:"success"`
	RunID                 string                `json:"run_id"`
	WorkflowStatus        domain.WorkflowStatus `json:"workflow_status"`
	FinalResult           string                `json:"final_result"`
	GeneratedCode         string                `json:"generated_code"`
	ExecutionResults      domain.ExecutionResult `json:"execution_results"`
	SyntaxErrors          []string              `json:"syntax_errors"`
	RectificationAttempts int                   `json:"rectification_attempts"`
	ErrorAnalysis         *domain.ErrorAnalysis `json:"error_analysis,omitempty"`
}

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	Status      string `json:"status"`
	Backend     string `json:"execution_backend"`
	ActiveRuns  int64  `json:"active_runs"`
	RunsStarted int64  `json:"runs_started"`
}

// Server hosts the pipeline behind chi.
type Server struct {
	engine  Engine
	backend string
	logger  *slog.Logger

	activeRuns  atomic.Int64
	runsStarted atomic.Int64
}

// ServerOption configures the Server.
type ServerOption func(*Server)

// WithLogger sets a structured logger for the handlers.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates the HTTP surface. backendName is reported by
// GET /api/status so clients know which isolation level is active.
func NewServer(engine Engine, backendName string, opts ...ServerOption) *Server {
	s := &Server{
		engine:  engine,
		backend: backendName,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the router with CORS enabled.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Post("/api/generate", s.handleGenerate)
	r.Get("/api/status", s.handleStatus)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var body GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("generate: invalid request body", "err", err)
		return
	}
	if body.Prompt == "" {
		http.Error(w, "prompt is required", http.StatusBadRequest)
		return
	}

	s.runsStarted.Add(1)
	s.activeRuns.Add(1)
	defer s.activeRuns.Add(-1)

	rep, state := s.engine.Run(r.Context(), body.Prompt, body.Requirements)

	var analysis *domain.ErrorAnalysis
	if state.Analysis.Kind != "" {
		a := state.Analysis
		analysis = &a
	}

	resp := GenerateResponse{
		Success:               rep.Status == domain.StatusCompleted,
		RunID:                 rep.RunID,
		WorkflowStatus:        rep.Status,
		FinalResult:           rep.FinalResult,
		GeneratedCode:         state.ActiveCode(),
		ExecutionResults:      state.Execution,
		SyntaxErrors:          state.SyntaxErrors,
		RectificationAttempts: state.RectificationAttempts,
		ErrorAnalysis:         analysis,
	}

	writeJSON(w, s.logger, http.StatusOK, resp)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, StatusResponse{
		Status:      "ok",
		Backend:     s.backend,
		ActiveRuns:  s.activeRuns.Load(),
		RunsStarted: s.runsStarted.Load(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "err", err)
	}
}
