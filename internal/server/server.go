// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/agentberlin/bluespider/internal/app"
	"github.com/agentberlin/bluespider/internal/types"
	"github.com/agentberlin/bluespider/internal/version"
	"gorm.io/gorm"
)

// Server represents the HTTP server
type Server struct {
	app    *app.App
	mux    *http.ServeMux
	logger *slog.Logger
}

// NewServer creates a new HTTP server. A nil logger discards request logs.
func NewServer(coreApp *app.App, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		app:    coreApp,
		mux:    http.NewServeMux(),
		logger: logger.With("component", "http"),
	}

	s.registerRoutes()

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	s.logger.Info("request", "method", r.Method, "path", r.URL.Path)
	s.mux.ServeHTTP(w, r)
}

// registerRoutes registers all HTTP routes
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/v1/version", s.handleGetVersion)
	s.mux.HandleFunc("GET /api/v1/discover", s.handleDiscover)
	s.mux.HandleFunc("GET /api/v1/projects", s.handleProjects)
	s.mux.HandleFunc("DELETE /api/v1/projects/{id}", s.handleDeleteProject)
	s.mux.HandleFunc("GET /api/v1/projects/{id}/crawls", s.handleProjectCrawls)
	s.mux.HandleFunc("GET /api/v1/crawls/{id}", s.handleGetCrawl)
	s.mux.HandleFunc("DELETE /api/v1/crawls/{id}", s.handleDeleteCrawl)
	s.mux.HandleFunc("GET /api/v1/crawls/{id}/resources", s.handleCrawlResources)
	s.mux.HandleFunc("POST /api/v1/crawl", s.handleStartCrawl)
	s.mux.HandleFunc("POST /api/v1/stop-crawl/{id}", s.handleStopCrawl)
	s.mux.HandleFunc("GET /api/v1/active-crawls", s.handleActiveCrawls)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps app errors to HTTP status codes
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, app.ErrNoActiveCrawl):
		status = http.StatusNotFound
	case errors.Is(err, app.ErrCrawlInProgress):
		status = http.StatusConflict
	case errors.Is(err, app.ErrNoStore):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid ID"})
		return 0, false
	}
	return uint(id), true
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGetVersion returns the application version
func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": version.CurrentVersion})
}

// handleDiscover handles GET /api/v1/discover?url=...&depth=...
func (s *Server) handleDiscover(w http.ResponseWriter, r *http.Request) {
	depth := 0
	if raw := r.URL.Query().Get("depth"); raw != "" {
		var err error
		if depth, err = strconv.Atoi(raw); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid depth"})
			return
		}
	}

	result, err := s.app.Discover(r.Context(), r.URL.Query().Get("url"), depth)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleProjects handles GET /api/v1/projects
func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.app.GetProjects()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// handleDeleteProject handles DELETE /api/v1/projects/{id}
func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.app.DeleteProjectByID(projectID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleProjectCrawls handles GET /api/v1/projects/{id}/crawls
func (s *Server) handleProjectCrawls(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r)
	if !ok {
		return
	}
	crawls, err := s.app.GetCrawls(projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, crawls)
}

// handleGetCrawl handles GET /api/v1/crawls/{id}
func (s *Server) handleGetCrawl(w http.ResponseWriter, r *http.Request) {
	crawlID, ok := pathID(w, r)
	if !ok {
		return
	}
	crawl, err := s.app.GetCrawl(crawlID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, crawl)
}

// handleDeleteCrawl handles DELETE /api/v1/crawls/{id}
func (s *Server) handleDeleteCrawl(w http.ResponseWriter, r *http.Request) {
	crawlID, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.app.DeleteCrawlByID(crawlID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCrawlResources handles GET /api/v1/crawls/{id}/resources?query=&method=&limit=
func (s *Server) handleCrawlResources(w http.ResponseWriter, r *http.Request) {
	crawlID, ok := pathID(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		var err error
		if limit, err = strconv.Atoi(raw); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
	}

	resources, err := s.app.GetCrawlResources(crawlID, q.Get("query"), q.Get("method"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resources)
}

// handleStartCrawl handles POST /api/v1/crawl with a CrawlRequest body
func (s *Server) handleStartCrawl(w http.ResponseWriter, r *http.Request) {
	var req types.CrawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	progress, err := s.app.StartCrawl(req)
	if err != nil {
		if errors.Is(err, app.ErrCrawlInProgress) || errors.Is(err, app.ErrNoStore) {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusAccepted, progress)
}

// handleStopCrawl handles POST /api/v1/stop-crawl/{id}
func (s *Server) handleStopCrawl(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.app.StopCrawl(projectID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "stopping"})
}

// handleActiveCrawls handles GET /api/v1/active-crawls
func (s *Server) handleActiveCrawls(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.GetActiveCrawls())
}
