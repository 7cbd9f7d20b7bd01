// Package httpapi exposes shiftsolve's debug and metrics surface:
// liveness, cache occupancy, a cache flush (the one route that changes
// state), job status, and Prometheus exposition.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/staffjoy/shiftsolve/internal/shiftsolve"
	"github.com/staffjoy/shiftsolve/internal/taskqueue"
)

// JobStatusLookup reports the last-known status of a job by ID.
type JobStatusLookup interface {
	Get(id uuid.UUID) (taskqueue.Status, bool)
}

// Server wires the debug HTTP surface's handlers to their collaborators.
type Server struct {
	cache    *shiftsolve.MemoryCache
	statuses JobStatusLookup
	registry *prometheus.Registry
	logger   *slog.Logger
}

// New builds a Server. registry must already have any Collectors
// registered (internal/metrics.Collectors.MustRegister).
func New(cache *shiftsolve.MemoryCache, statuses JobStatusLookup, registry *prometheus.Registry, logger *slog.Logger) *Server {
	return &Server{cache: cache, statuses: statuses, registry: registry, logger: logger}
}

// Router builds the httprouter.Router serving this Server's routes.
func (s *Server) Router() *httprouter.Router {
	router := httprouter.New()
	router.GET("/healthz", s.handleHealthz)
	router.GET("/cache/stats", s.handleCacheStats)
	router.POST("/cache/flush", s.handleCacheFlush)
	router.GET("/jobs/:id", s.handleJobStatus)
	router.Handler(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return router
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type cacheStatsResponse struct {
	Entries int `json:"entries"`
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, cacheStatsResponse{Entries: s.cache.Len()})
}

func (s *Server) handleCacheFlush(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.cache.Flush()
	writeJSON(w, http.StatusOK, map[string]string{"status": "flushed"})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := uuid.Parse(ps.ByName("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid job id"})
		return
	}

	status, ok := s.statuses.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown job id"})
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// The response is already committed at this point; nothing left
		// to do but let the client observe a truncated body.
		return
	}
}
