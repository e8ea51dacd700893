// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"psyfield-core/abx"
	"psyfield-core/pipeline"
	"psyfield/internal/config"
	"psyfield/internal/output"
	"psyfield/internal/preset"
)

// Server exposes the simulation pipeline over HTTP. Each simulate request
// runs in its own goroutine with its own Runtime; per-stage events are
// fanned out to WebSocket subscribers tagged with the run ID.
type Server struct {
	Router http.Handler
	cfg    config.Config
	hub    *Hub
	sem    chan struct{} // bounds concurrent runs, nil = unlimited
}

// runEvent is the WebSocket wire shape for one pipeline stage.
type runEvent struct {
	Type   string `json:"type"` // "step" | "done" | "error"
	RunID  string `json:"run_id"`
	Index  int    `json:"index,omitempty"`
	Engine string `json:"engine,omitempty"`
	Digest string `json:"digest,omitempty"`
	Error  string `json:"error,omitempty"`
}

func New(cfg config.Config) *Server {
	mux := http.NewServeMux()
	hub := NewHub()
	go hub.run()

	s := &Server{cfg: cfg, hub: hub}
	if cfg.MaxConcurrentRuns > 0 {
		s.sem = make(chan struct{}, cfg.MaxConcurrentRuns)
	}

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/api/simulate", s.handleSimulate)
	mux.HandleFunc("/api/presets", s.handlePresets)

	// CORS for local dev.
	s.Router = withCORS(mux)
	return s
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	serveWS(s.hub, w, r)
}

// simulateRequest extends the pipeline request with an optional preset
// name; a named preset supplies the sequence when none is given inline.
type simulateRequest struct {
	pipeline.Request
	Preset string `json:"preset,omitempty"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Preset != "" {
		if len(req.Sequence) > 0 {
			http.Error(w, "preset conflicts with sequence", http.StatusBadRequest)
			return
		}
		p, err := preset.Lookup(req.Preset)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		req.Sequence = p.Steps()
	}
	if err := pipeline.Validate(req.Request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if s.sem != nil {
		select {
		case s.sem <- struct{}{}:
			defer func() { <-s.sem }()
		default:
			http.Error(w, "too many concurrent runs", http.StatusTooManyRequests)
			return
		}
	}

	runID := uuid.NewString()
	ctx := r.Context()
	if s.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RunTimeout)
		defer cancel()
	}

	res, err := pipeline.RunObserved(ctx, req.Request, func(e pipeline.StepEvent) {
		s.hub.broadcastJSON(runEvent{
			Type: "step", RunID: runID,
			Index: e.Index, Engine: e.Engine, Digest: e.Digest,
		})
	})
	if err != nil {
		s.hub.broadcastJSON(runEvent{Type: "error", RunID: runID, Error: err.Error()})
		status := http.StatusInternalServerError
		var verr *abx.ValidationError
		if errors.As(err, &verr) {
			status = http.StatusBadRequest
		} else if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		log.Printf("simulate %s: %v", runID, err)
		http.Error(w, err.Error(), status)
		return
	}
	s.hub.broadcastJSON(runEvent{Type: "done", RunID: runID})

	rep := output.NewReport(req.Request, res)
	rep.RunID = runID
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rep)
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(preset.Builtins())
}
