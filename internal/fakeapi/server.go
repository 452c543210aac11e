// Package fakeapi is an in-memory stand-in for the shorts processing service.
// Each status request advances a job one step through a scripted run, which
// makes client behavior reproducible in tests and local demos.
package fakeapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/cuivienor/clipdeck/internal/model"
)

// Script is the sequence of snapshots a job walks through. Phase1 should end
// in review; Phase2 should end in done or error.
type Script struct {
	Phase1     []model.StatusSnapshot
	Phase2     []model.StatusSnapshot
	Transcript []model.TranscriptSegment
}

// Failure is an injected non-2xx response
type Failure struct {
	Code    int
	Message string // empty sends a body without an "error" field
}

type job struct {
	id        string
	url       string
	phase     int
	step      int
	last      model.Status
	continued bool
}

// Server implements the processing service HTTP contract
type Server struct {
	router *mux.Router

	mu             sync.Mutex
	script         Script
	jobs           map[string]*job
	ids            []string
	strictURLs     bool
	failProcess    *Failure
	failStatus     *Failure
	failContinue   *Failure
	failTranscript *Failure
	statusCalls    map[string]int
	continueCalls  map[string]int
	media          []byte
	files          map[string][]byte
}

// Option configures a Server
type Option func(*Server)

// WithScript replaces the default run
func WithScript(s Script) Option {
	return func(srv *Server) { srv.script = s }
}

// WithIDs makes the server hand out the given job ids in order before
// falling back to random ones
func WithIDs(ids ...string) Option {
	return func(srv *Server) { srv.ids = append(srv.ids, ids...) }
}

// WithStrictURLs rejects URLs that are not YouTube links, like the real service
func WithStrictURLs() Option {
	return func(srv *Server) { srv.strictURLs = true }
}

// WithFile registers downloadable content for a clip filename
func WithFile(filename string, content []byte) Option {
	return func(srv *Server) { srv.files[filename] = content }
}

// New creates a fake service
func New(opts ...Option) *Server {
	s := &Server{
		script:        DefaultScript(),
		jobs:          make(map[string]*job),
		statusCalls:   make(map[string]int),
		continueCalls: make(map[string]int),
		media:         []byte("fake-mp4-preview"),
		files:         make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/process", s.handleProcess).Methods("POST")
	api.HandleFunc("/status/{id}", s.handleStatus).Methods("GET")
	api.HandleFunc("/continue/{id}", s.handleContinue).Methods("POST")
	api.HandleFunc("/preview/{id}", s.handlePreview).Methods("GET")
	api.HandleFunc("/transcript/{id}", s.handleTranscript).Methods("GET")
	api.HandleFunc("/download/{id}/{filename}", s.handleDownload).Methods("GET")
	s.router = r

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// FailProcess makes job creation fail
func (s *Server) FailProcess(f *Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failProcess = f
}

// FailStatus makes status requests fail; nil restores normal behavior
func (s *Server) FailStatus(f *Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = f
}

// FailContinue makes continue requests fail
func (s *Server) FailContinue(f *Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failContinue = f
}

// FailTranscript makes transcript requests fail
func (s *Server) FailTranscript(f *Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failTranscript = f
}

// StatusCalls returns how many status requests a job received
func (s *Server) StatusCalls(jobID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusCalls[jobID]
}

// ContinueCalls returns how many continue requests a job received
func (s *Server) ContinueCalls(jobID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.continueCalls[jobID]
}

// URL returns the video URL a job was created with
func (s *Server) URL(jobID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[jobID]; ok {
		return j.url
	}
	return ""
}

func (s *Server) nextID() string {
	if len(s.ids) > 0 {
		id := s.ids[0]
		s.ids = s.ids[1:]
		return id
	}
	return uuid.New().String()[:8]
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failProcess != nil {
		writeFailure(w, s.failProcess)
		return
	}

	url := strings.TrimSpace(req.URL)
	if url == "" {
		writeError(w, http.StatusBadRequest, "Please provide a YouTube URL.")
		return
	}
	if s.strictURLs && !strings.Contains(url, "youtube.com") && !strings.Contains(url, "youtu.be") {
		writeError(w, http.StatusBadRequest, "Please provide a valid YouTube URL.")
		return
	}

	id := s.nextID()
	s.jobs[id] = &job{id: id, url: url, phase: 1}
	writeJSON(w, http.StatusOK, map[string]string{"job_id": id})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()

	s.statusCalls[id]++
	if s.failStatus != nil {
		writeFailure(w, s.failStatus)
		return
	}

	j, ok := s.jobs[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Job not found.")
		return
	}

	steps := s.script.Phase1
	if j.phase == 2 {
		steps = s.script.Phase2
	}
	if len(steps) == 0 {
		writeError(w, http.StatusInternalServerError, "Empty script.")
		return
	}

	idx := j.step
	if idx >= len(steps) {
		idx = len(steps) - 1
	}
	snap := steps[idx]
	j.last = snap.Status
	if j.step < len(steps)-1 {
		j.step++
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleContinue(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()

	s.continueCalls[id]++
	if s.failContinue != nil {
		writeFailure(w, s.failContinue)
		return
	}

	j, ok := s.jobs[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Job not found.")
		return
	}
	if j.phase != 1 || j.continued || j.last != model.StatusReview {
		writeError(w, http.StatusBadRequest, "Job is not in review stage.")
		return
	}

	j.phase = 2
	j.step = 0
	j.continued = true
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	_, ok := s.jobs[id]
	media := s.media
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "Job not found.")
		return
	}
	w.Header().Set("Content-Type", "video/mp4")
	_, _ = w.Write(media)
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failTranscript != nil {
		writeFailure(w, s.failTranscript)
		return
	}
	if _, ok := s.jobs[id]; !ok {
		writeError(w, http.StatusNotFound, "Job not found.")
		return
	}

	segments := s.script.Transcript
	if segments == nil {
		segments = []model.TranscriptSegment{}
	}
	writeJSON(w, http.StatusOK, model.Transcript{Segments: segments, Total: len(segments)})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	s.mu.Lock()
	_, ok := s.jobs[vars["id"]]
	content, found := s.files[vars["filename"]]
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "Job not found.")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "File not found.")
		return
	}
	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+vars["filename"]+"\"")
	_, _ = w.Write(content)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func writeFailure(w http.ResponseWriter, f *Failure) {
	if f.Message == "" {
		writeJSON(w, f.Code, map[string]string{})
		return
	}
	writeError(w, f.Code, f.Message)
}
