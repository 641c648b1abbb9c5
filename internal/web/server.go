// Package web serves the agent's status and metrics over HTTP.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gamesense/internal/agent"
	"gamesense/internal/cache"
	"gamesense/internal/igdb"
	"gamesense/internal/resolver"
)

// Resolver is the subset of the resolver the API exposes.
type Resolver interface {
	Resolve(ctx context.Context, title string) (*resolver.Record, error)
}

// StatusProvider reports the agent's current presence snapshot.
type StatusProvider interface {
	Status() agent.Status
}

// Server handles HTTP requests.
type Server struct {
	status   StatusProvider
	resolver Resolver
	store    *cache.Store
	mux      *http.ServeMux
}

// NewServer creates the status server. store may be nil to disable the cache
// listing endpoint.
func NewServer(status StatusProvider, res Resolver, store *cache.Store) *Server {
	s := &Server{
		status:   status,
		resolver: res,
		store:    store,
		mux:      http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/status", s.handleStatus)
	s.mux.HandleFunc("/api/resolve", s.handleResolve)
	s.mux.HandleFunc("/api/cache", s.handleCache)
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.Handle("/metrics", promhttp.Handler())
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.status.Status())
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		http.Error(w, "missing title parameter", http.StatusBadRequest)
		return
	}

	rec, err := s.resolver.Resolve(r.Context(), title)
	switch {
	case errors.Is(err, resolver.ErrNoMatch):
		http.Error(w, "no matching game", http.StatusNotFound)
	case errors.Is(err, igdb.ErrAuth):
		http.Error(w, "catalog credentials rejected", http.StatusBadGateway)
	case err != nil:
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		writeJSON(w, rec)
	}
}

func (s *Server) handleCache(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "cache not available", http.StatusNotFound)
		return
	}
	entries, err := s.store.Entries(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"entries": entries})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
