package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"promptyoself/internal/domain"
	"promptyoself/internal/scheduler"
	"promptyoself/internal/store"
)

// Server exposes the schedule operations over HTTP for serve mode. It is a
// thin JSON layer over the same store and executor the CLI uses.
type Server struct {
	r        *chi.Mux
	repo     store.Repository
	executor *scheduler.Executor
}

func NewServer(repo store.Repository, executor *scheduler.Executor) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)

	s := &Server{r: r, repo: repo, executor: executor}

	r.Get("/health", s.health)
	r.Post("/api/schedules", s.createSchedule)
	r.Get("/api/schedules", s.listSchedules)
	r.Get("/api/schedules/{id}", s.getSchedule)
	r.Delete("/api/schedules/{id}", s.cancelSchedule)
	r.Post("/api/execute", s.execute)

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) createSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduler.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sched, err := scheduler.BuildSchedule(req, time.Now())
	if err != nil {
		writeErr(w, err)
		return
	}

	id, err := s.repo.Create(r.Context(), sched)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status":   "success",
		"id":       id,
		"next_run": sched.NextRun.Format(time.RFC3339),
	})
}

func (s *Server) listSchedules(w http.ResponseWriter, r *http.Request) {
	recipient := r.URL.Query().Get("recipient")
	includeInactive := r.URL.Query().Get("all") == "true"

	schedules, err := s.repo.List(r.Context(), recipient, includeInactive)
	if err != nil {
		writeErr(w, err)
		return
	}
	if schedules == nil {
		schedules = []domain.Schedule{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "success",
		"schedules": schedules,
		"count":     len(schedules),
	})
}

func (s *Server) getSchedule(w http.ResponseWriter, r *http.Request) {
	sched, err := s.repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sched)
}

func (s *Server) cancelSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ok, err := s.repo.Deactivate(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	if !ok {
		writeErr(w, &domain.NotFoundError{ID: id})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "success",
		"cancelled_id": id,
	})
}

func (s *Server) execute(w http.ResponseWriter, r *http.Request) {
	results, err := s.executor.Tick(r.Context(), time.Now())
	if err != nil {
		writeErr(w, err)
		return
	}
	if results == nil {
		results = []domain.ExecutionResult{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "success",
		"executed": results,
		"count":    len(results),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeErr(w http.ResponseWriter, err error) {
	var (
		vErr  *domain.ValidationError
		nfErr *domain.NotFoundError
	)
	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, vErr.Error())
	case errors.As(err, &nfErr):
		writeError(w, http.StatusNotFound, nfErr.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
