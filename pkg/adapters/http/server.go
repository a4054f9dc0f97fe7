package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/anilink"
	"github.com/aretw0/anilink/pkg/domain"
	"github.com/aretw0/anilink/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is what the HTTP adapter needs from the core.
type Registry interface {
	ports.Registry
	ports.Lister
}

// Server exposes a Registry as a JSON API.
type Server struct {
	Registry Registry
	Streams  *StreamManager
	Gatherer prometheus.Gatherer
}

// HandlerOption configures the handler.
type HandlerOption func(*Server)

// WithStreams enables GET /subjects/{id}/events.
// The same StreamManager's Hooks must be installed on the registry.
func WithStreams(sm *StreamManager) HandlerOption {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithGatherer exposes GET /metrics.
func WithGatherer(g prometheus.Gatherer) HandlerOption {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// SubjectRequest is the body of PUT /subjects/{id}.
type SubjectRequest struct {
	Action string `json:"action"`
}

// StateRequest is the body of PUT /subjects/{id}/state.
type StateRequest struct {
	State string `json:"state"`
}

// StateResponse reports the state of one subject.
type StateResponse struct {
	ID    string `json:"id"`
	State string `json:"state"`
}

// ErrorResponse is returned for every non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// NewHandler creates a new HTTP handler for the registry.
func NewHandler(reg Registry, opts ...HandlerOption) http.Handler {
	server := &Server{Registry: reg}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)

	r.Route("/subjects", func(r chi.Router) {
		r.Get("/", server.ListSubjects)
		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", server.Connect)
			r.Delete("/", server.Disconnect)
			r.Get("/state", server.GetState)
			r.Put("/state", server.SetState)
			if server.Streams != nil {
				r.Get("/events", server.SubscribeEvents)
			}
		})
	})

	if server.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(server.Gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

// ListSubjects handles GET /subjects.
func (s *Server) ListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := s.Registry.List(r.Context())
	if err != nil {
		writeError(w, err)
		slog.Error("List failed", "error", err)
		return
	}
	if subjects == nil {
		subjects = []domain.Subject{}
	}
	writeJSON(w, http.StatusOK, subjects)
}

// Connect handles PUT /subjects/{id}.
func (s *Server) Connect(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body SubjectRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		slog.Warn("Connect: Invalid request body", "error", err)
		return
	}

	if body.Action == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "missing action"})
		return
	}

	if err := s.Registry.Connect(r.Context(), id, body.Action); err != nil {
		writeError(w, err)
		slog.Error("Connect failed", "subject_id", id, "error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Disconnect handles DELETE /subjects/{id}.
func (s *Server) Disconnect(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Registry.Disconnect(r.Context(), id); err != nil {
		writeError(w, err)
		slog.Error("Disconnect failed", "subject_id", id, "error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetState handles GET /subjects/{id}/state.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	state, err := s.Registry.GetState(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StateResponse{ID: id, State: state})
}

// SetState handles PUT /subjects/{id}/state.
func (s *Server) SetState(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body StateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		slog.Warn("SetState: Invalid request body", "error", err)
		return
	}

	state, err := s.Registry.SetState(r.Context(), id, body.State)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StateResponse{ID: id, State: state})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "anilink-http",
		"version": anilink.Version,
	})
}

// SubscribeEvents handles GET /subjects/{id}/events (SSE).
// Each accepted or rejected transition of the subject is pushed as a JSON event.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		slog.Error("SubscribeEvents: Streaming not supported")
		return
	}

	id := chi.URLParam(r, "id")
	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	slog.Info("SSE: Subscribing to subject transitions", "subject_id", id)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			slog.Info("SSE Client Disconnected", "subject_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition"
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusUnprocessableEntity, "invalid_state"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, ""
	default:
		return http.StatusInternalServerError, ""
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, kind := statusFor(err)
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Kind: kind})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "error", err)
	}
}
