// Package http serves an engine over HTTP: the rendered page, the current
// snapshot, a Server-Sent Events stream of snapshot diffs and the recorded trace.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/aretw0/pagestate"
	"github.com/aretw0/pagestate/internal/logging"
	"github.com/aretw0/pagestate/internal/presentation/graph"
	"github.com/aretw0/pagestate/pkg/domain"
	"github.com/aretw0/pagestate/pkg/ports"
	"github.com/aretw0/pagestate/pkg/runner"
	"github.com/aretw0/pagestate/pkg/view"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultTraceLimit bounds /traces when no limit is given.
const DefaultTraceLimit = 100

// Engine is the engine surface the server reads from.
type Engine interface {
	ID() string
	Render(tree ...view.Node) []view.Node
	Snapshot() *domain.Snapshot
}

// Server serves one engine.
type Server struct {
	Engine  Engine
	Streams *StreamManager

	tree     []view.Node
	title    string
	sink     ports.TraceSink
	gatherer prometheus.Gatherer
	logger   *slog.Logger

	mu   sync.Mutex
	last *domain.Snapshot
}

// Ensure Server can be attached to a runner.
var _ runner.Output = (*Server)(nil)

// Option configures the Server.
type Option func(*Server)

// WithTree sets the page rendered at "/".
func WithTree(tree ...view.Node) Option {
	return func(s *Server) {
		s.tree = tree
	}
}

// WithTitle sets the HTML document title.
func WithTitle(title string) Option {
	return func(s *Server) {
		s.title = title
	}
}

// WithTraceSink enables /traces and /graph.
func WithTraceSink(sink ports.TraceSink) Option {
	return func(s *Server) {
		s.sink = sink
	}
}

// WithGatherer enables /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a Server for engine.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		Engine:  engine,
		Streams: NewStreamManager(),
		title:   "pagestate",
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.logger
	return s
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/", s.GetPage)
	r.Get("/state", s.GetState)
	r.Get("/events", s.SubscribeEvents)
	r.Get("/traces", s.GetTraces)
	r.Get("/graph", s.GetGraph)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	return NewServer(engine, opts...).Handler()
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Write implements runner.Output: it broadcasts the diff between the
// previous frame's snapshot and this one.
func (s *Server) Write(_ context.Context, frame runner.Frame) error {
	s.mu.Lock()
	diff := domain.Diff(s.last, frame.Snapshot)
	s.last = frame.Snapshot
	s.mu.Unlock()

	if diff == nil {
		s.logger.Debug("no diff calculated", "generation", frame.Snapshot.Generation)
		return nil
	}
	data, err := json.Marshal(diff)
	if err != nil {
		return fmt.Errorf("encode diff: %w", err)
	}
	s.Streams.Broadcast(diff.MachineID, string(data))
	return nil
}

// GetPage handles GET / by rendering the page against the current registry.
func (s *Server) GetPage(w http.ResponseWriter, r *http.Request) {
	nodes := s.Engine.Render(s.tree...)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.RenderDocument(w, s.title, nodes); err != nil {
		s.logger.Error("page render failed", "error", err)
	}
}

// GetState handles GET /state.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Engine.Snapshot())
}

// GetTraces handles GET /traces?limit=N.
func (s *Server) GetTraces(w http.ResponseWriter, r *http.Request) {
	events, ok := s.recent(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, events)
}

// GetGraph handles GET /graph, drawing the recorded trace as Mermaid.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	events, ok := s.recent(w, r)
	if !ok {
		return
	}
	overlay := &graph.GraphOverlay{Active: s.Engine.Snapshot().Names()}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(events, overlay))
}

func (s *Server) recent(w http.ResponseWriter, r *http.Request) ([]domain.TraceEvent, bool) {
	if s.sink == nil {
		http.Error(w, "Tracing not enabled", http.StatusNotFound)
		return nil, false
	}

	limit := DefaultTraceLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return nil, false
		}
		limit = n
	}

	events, err := s.sink.Recent(r.Context(), s.Engine.ID(), limit)
	if errors.Is(err, domain.ErrTraceNotFound) {
		return []domain.TraceEvent{}, true
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Trace error: %v", err), http.StatusInternalServerError)
		s.logger.Error("trace read failed", "error", err)
		return nil, false
	}
	return events, true
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":        "pagestate-http",
		"version":    strings.TrimSpace(pagestate.Version),
		"machine_id": s.Engine.ID(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

// SubscribeEvents handles the GET /events request (SSE).
// The optional watch parameter ("current", "members", "context") filters
// which diffs are forwarded.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	machineID := s.Engine.ID()
	s.logger.Info("SSE client subscribed", "machine_id", machineID)

	ch, cancel := s.Streams.Subscribe(machineID)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	var watchList []string
	if watch := r.URL.Query().Get("watch"); watch != "" {
		watchList = strings.Split(watch, ",")
	}

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE client disconnected", "machine_id", machineID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watchList) > 0 && !watched(msg, watchList) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func watched(msg string, fields []string) bool {
	var diff domain.StateDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return true
	}
	for _, field := range fields {
		switch strings.TrimSpace(field) {
		case "current":
			if diff.Current != nil {
				return true
			}
		case "members":
			if len(diff.Entered) > 0 || len(diff.Exited) > 0 {
				return true
			}
		case "context":
			if len(diff.Context) > 0 {
				return true
			}
		}
	}
	return false
}
