// Package apitest provides an in-memory HR-analytics backend for tests.
//
// It implements the REST surface the client consumes over plain maps, so
// client, session, and CLI tests can run against a real HTTP server
// (httptest) without the actual analytics service. Failure toggles let
// tests exercise the fallback and degraded paths deliberately.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/me/hrpulse/pkg/model"
)

// Server is a fake HR-analytics backend.
type Server struct {
	mu sync.Mutex

	users  map[string]*account      // keyed by email
	tokens map[string]string        // token -> email
	files  map[string]model.UploadedFile
	jobs   map[string]*model.Job
	polls  map[string]int

	// LastAnalysisBody captures the raw JSON body of the most recent
	// /analysis/start call, for asserting the forwarded field set.
	LastAnalysisBody map[string]any
	// LastSearchURL captures the most recent employee-search request URI.
	LastSearchURL string

	// FailPrimaryListing makes /api/v1/search/jobs answer 500 so tests
	// can observe the fallback to /analysis/jobs.
	FailPrimaryListing bool
	// FailAllListings makes both listing endpoints answer 500.
	FailAllListings bool
	// FailHealth makes /health answer 503.
	FailHealth bool
	// OmitLoginUser strips the user object from login responses, the
	// shape of older backend versions.
	OmitLoginUser bool
	// OmitLoginToken answers login with 200 but no access_token.
	OmitLoginToken bool

	// RunningPolls is how many status polls a job spends in "running"
	// before completing.
	RunningPolls int

	router   chi.Router
	upgrader websocket.Upgrader
}

type account struct {
	user     model.User
	password string
}

// New creates a fake backend with one approved admin
// (admin@example.com / admin-pw) pre-seeded.
func New() *Server {
	s := &Server{
		users:        map[string]*account{},
		tokens:       map[string]string{},
		files:        map[string]model.UploadedFile{},
		jobs:         map[string]*model.Job{},
		polls:        map[string]int{},
		RunningPolls: 1,
		upgrader:     websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
	}
	s.SeedUser("admin@example.com", "Admin", "admin-pw", model.RoleAdmin, true)
	s.routes()
	return s
}

// Handler returns the HTTP handler, for httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.router
}

// SeedUser registers an account directly, bypassing the approval flow.
func (s *Server) SeedUser(email, name, password string, role model.Role, approved bool) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := model.User{
		ID:         "user_" + uuid.New().String()[:8],
		Email:      email,
		Name:       name,
		Role:       role,
		IsApproved: approved,
		CreatedAt:  time.Now().UTC(),
	}
	s.users[email] = &account{user: u, password: password}
	return &u
}

// SeedJob inserts a job in the given state.
func (s *Server) SeedJob(jobID string, status model.JobStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[jobID] = &model.Job{JobID: jobID, Status: status, CreatedAt: time.Now().UTC()}
}

func (s *Server) routes() {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth)
	r.Post("/api/upload", s.handleUpload)
	r.Post("/analysis/start", s.handleStart)
	r.Get("/analysis/jobs", s.handleListJobs)
	r.Get("/analysis/status/{jobID}", s.handleStatus)
	r.Get("/analysis/results/{jobID}", s.handleResults)
	r.Get("/analysis/download/{jobID}/{format}", s.handleDownload)
	r.Get("/api/v1/search/employee/{jobID}", s.handleSearch)
	r.Get("/api/v1/search/jobs", s.handleSearchJobs)
	r.Post("/user/register", s.handleRegister)
	r.Post("/user/login", s.handleLogin)
	r.Get("/user/me", s.handleMe)
	r.Get("/user/pending", s.handlePending)
	r.Post("/user/approve", s.handleApprove)
	r.Get("/ws/{clientID}", s.handleWS)

	s.router = r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.FailHealth {
		writeDetail(w, http.StatusServiceUnavailable, "analysis engine offline")
		return
	}
	writeJSON(w, http.StatusOK, model.Health{
		Status:  "healthy",
		Version: "0.1.0",
		Components: map[string]string{
			"database": "up",
			"analysis": "up",
		},
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeDetail(w, http.StatusBadRequest, "expected multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(header.Filename, ".csv") && !strings.HasSuffix(header.Filename, ".xlsx") {
		writeDetail(w, http.StatusUnprocessableEntity, "unsupported file type")
		return
	}

	uploaded := model.UploadedFile{
		FileID:   "file_" + uuid.New().String()[:8],
		Filename: header.Filename,
		Size:     header.Size,
	}
	s.mu.Lock()
	s.files[uploaded.FileID] = uploaded
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, uploaded)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mu.Lock()
	s.LastAnalysisBody = body
	fileID, _ := body["file_id"].(string)
	if _, ok := s.files[fileID]; !ok {
		s.mu.Unlock()
		writeDetail(w, http.StatusNotFound, fmt.Sprintf("file '%s' not found", fileID))
		return
	}

	job := &model.Job{
		JobID:     "job_" + uuid.New().String()[:8],
		Status:    model.JobQueued,
		FileID:    fileID,
		CreatedAt: time.Now().UTC(),
	}
	s.jobs[job.JobID] = job
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, job)
}

// handleStatus advances the job one step per poll:
// queued -> running (RunningPolls times) -> completed.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	s.mu.Lock()
	job, ok := s.jobs[jobID]
	if !ok {
		s.mu.Unlock()
		writeDetail(w, http.StatusNotFound, fmt.Sprintf("job '%s' not found", jobID))
		return
	}
	if !job.Status.Terminal() {
		s.polls[jobID]++
		switch {
		case s.polls[jobID] <= s.RunningPolls:
			job.Status = model.JobRunning
			job.Progress = 100 * s.polls[jobID] / (s.RunningPolls + 1)
		default:
			job.Status = model.JobCompleted
			job.Progress = 100
			job.CompletedAt = time.Now().UTC()
		}
	}
	snapshot := *job
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	s.mu.Lock()
	job, ok := s.jobs[jobID]
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, fmt.Sprintf("job '%s' not found", jobID))
		return
	}
	if job.Status != model.JobCompleted {
		writeDetail(w, http.StatusConflict, "analysis not completed yet")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"job_id": jobID,
		"summary": map[string]any{
			"headcount":      42,
			"attrition_rate": 0.07,
		},
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	format := chi.URLParam(r, "format")

	s.mu.Lock()
	_, ok := s.jobs[jobID]
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, fmt.Sprintf("job '%s' not found", jobID))
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="report-%s.%s"`, jobID, format))
	w.Write([]byte("binary-report-" + format))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	s.mu.Lock()
	s.LastSearchURL = r.URL.RequestURI()
	_, ok := s.jobs[jobID]
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, fmt.Sprintf("job '%s' not found", jobID))
		return
	}

	all := []model.Employee{
		{UID: "E001", Name: "Kim", Grade: "A", Department: "Engineering"},
		{UID: "E002", Name: "Lee", Grade: "B", Department: "Sales"},
		{UID: "E003", Name: "Park", Grade: "A", Department: "Finance"},
	}

	uid := r.URL.Query().Get("uid")
	grade := r.URL.Query().Get("grade")

	var matched []model.Employee
	for _, e := range all {
		if uid != "" && e.UID != uid {
			continue
		}
		if grade != "" && e.Grade != grade {
			continue
		}
		matched = append(matched, e)
	}

	writeJSON(w, http.StatusOK, model.SearchResult{
		JobID:     jobID,
		Employees: matched,
		Total:     len(matched),
	})
}

func (s *Server) listJobs() []model.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	jobs := make([]model.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		jobs = append(jobs, *j)
	}
	return jobs
}

func (s *Server) handleSearchJobs(w http.ResponseWriter, r *http.Request) {
	if s.FailPrimaryListing || s.FailAllListings {
		writeDetail(w, http.StatusInternalServerError, "search index unavailable")
		return
	}
	jobs := s.listJobs()
	writeJSON(w, http.StatusOK, map[string]any{"jobs": jobs, "total": len(jobs)})
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	if s.FailAllListings {
		writeDetail(w, http.StatusInternalServerError, "job store unavailable")
		return
	}
	jobs := s.listJobs()
	writeJSON(w, http.StatusOK, map[string]any{"jobs": jobs, "total": len(jobs)})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" || body.Password == "" {
		writeDetail(w, http.StatusBadRequest, "email and password are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[body.Email]; exists {
		writeDetail(w, http.StatusConflict, "email already registered")
		return
	}
	s.users[body.Email] = &account{
		user: model.User{
			ID:        "user_" + uuid.New().String()[:8],
			Email:     body.Email,
			Name:      body.Name,
			Role:      model.RoleViewer,
			CreatedAt: time.Now().UTC(),
		},
		password: body.Password,
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "registered, awaiting approval"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.users[body.Email]
	if !ok || acct.password != body.Password {
		writeDetail(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if s.OmitLoginToken {
		writeJSON(w, http.StatusOK, map[string]string{"token_type": "bearer"})
		return
	}

	token := "tok_" + uuid.New().String()
	s.tokens[token] = body.Email

	resp := map[string]any{"access_token": token, "token_type": "bearer"}
	if !s.OmitLoginUser {
		resp["user"] = acct.user
	}
	writeJSON(w, http.StatusOK, resp)
}

// bearerUser resolves the Authorization header to an account.
func (s *Server) bearerUser(r *http.Request) *account {
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.tokens[token]
	if !ok {
		return nil
	}
	return s.users[email]
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	acct := s.bearerUser(r)
	if acct == nil {
		writeDetail(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, acct.user)
}

func (s *Server) handlePending(w http.ResponseWriter, r *http.Request) {
	acct := s.bearerUser(r)
	if acct == nil {
		writeDetail(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if !acct.user.IsAdmin() {
		writeDetail(w, http.StatusForbidden, "admin access required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	pending := []model.User{}
	for _, a := range s.users {
		if !a.user.IsApproved {
			pending = append(pending, a.user)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": pending})
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	acct := s.bearerUser(r)
	if acct == nil {
		writeDetail(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if !acct.user.IsAdmin() {
		writeDetail(w, http.StatusForbidden, "admin access required")
		return
	}

	var body struct {
		UserID  string `json:"user_id"`
		Approve bool   `json:"approve"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.users {
		if a.user.ID == body.UserID {
			a.user.IsApproved = body.Approve
			writeJSON(w, http.StatusOK, a.user)
			return
		}
	}
	writeDetail(w, http.StatusNotFound, fmt.Sprintf("user '%s' not found", body.UserID))
}

// handleWS accepts the diagnostic ping and echoes a pong.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	var msg map[string]any
	if err := conn.ReadJSON(&msg); err != nil {
		return
	}
	conn.WriteJSON(map[string]any{
		"type":      "pong",
		"client_id": chi.URLParam(r, "clientID"),
		"channels":  r.URL.Query().Get("channels"),
	})
}
