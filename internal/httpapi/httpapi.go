// Package httpapi exposes the race state over HTTP for remote surfaces: a
// results screen polling a course, or a timing client at the finish line
// posting arrivals from another machine.
package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/opencourse/opencourse/internal/race"
	"github.com/opencourse/opencourse/internal/store"
)

// Server routes HTTP requests onto one store and timing service.
type Server struct {
	store *store.Store
	svc   *race.Service
}

// NewServer creates a server over the given store and service.
func NewServer(st *store.Store, svc *race.Service) *Server {
	return &Server{store: st, svc: svc}
}

// Handler returns the routed handler with request logging to logDst.
func (s *Server) Handler(logDst io.Writer) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/courses", s.listCourses).Methods(http.MethodGet)
	r.HandleFunc("/courses/{id}", s.getCourse).Methods(http.MethodGet)
	r.HandleFunc("/courses/{id}/results", s.listResults).Methods(http.MethodGet)
	r.HandleFunc("/courses/{id}/arrivals", s.postArrival).Methods(http.MethodPost)
	return handlers.LoggingHandler(logDst, r)
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) listCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.store.Courses(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

func (s *Server) getCourse(w http.ResponseWriter, r *http.Request) {
	course, err := s.store.Course(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if course == nil {
		http.Error(w, "course not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

func (s *Server) listResults(w http.ResponseWriter, r *http.Request) {
	courseID := mux.Vars(r)["id"]
	course, err := s.store.Course(r.Context(), courseID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if course == nil {
		http.Error(w, "course not found", http.StatusNotFound)
		return
	}
	results, err := s.store.ResultsByCourse(r.Context(), courseID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// ArrivalRequest is the payload for recording an arrival remotely. An
// empty bib records an unresolved arrival, exactly as at the desk.
type ArrivalRequest struct {
	Bib string `json:"bib"`
}

func (s *Server) postArrival(w http.ResponseWriter, r *http.Request) {
	var req ArrivalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := s.svc.RecordArrival(r.Context(), mux.Vars(r)["id"], req.Bib)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// statusFor maps the timing-core error taxonomy onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case race.IsNotFound(err):
		return http.StatusNotFound
	case race.IsUnknownBib(err):
		return http.StatusUnprocessableEntity
	case race.IsValidation(err), race.IsFormat(err):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
