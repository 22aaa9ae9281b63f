package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wricardo/mars-rover/mission/input"
	"github.com/wricardo/mars-rover/mission/service"
	"github.com/wricardo/mars-rover/transport/websocket"
)

// maxBodyBytes bounds every request body
const maxBodyBytes = 1 << 20

// Error codes returned alongside input's validation codes
const (
	codeInvalidRequest  = "invalid_request"
	codeInvalidScenario = "invalid_scenario"
	codeNotFound        = "not_found"
	codeUnavailable     = "mission_log_disabled"
	codeInternal        = "internal"
)

// Server represents the REST API server
type Server struct {
	service service.MissionService
	hub     *websocket.Hub
	metrics http.Handler
	router  *mux.Router
	logger  zerolog.Logger
}

// Option configures a Server
type Option func(*Server)

// WithMetricsHandler serves h on /metrics
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// NewServer creates a new API server
func NewServer(missionService service.MissionService, hub *websocket.Hub, opts ...Option) *Server {
	s := &Server{
		service: missionService,
		hub:     hub,
		router:  mux.NewRouter(),
		logger:  log.With().Str("component", "api").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.Use(s.recoverer, s.requestLogger)

	api := s.router.PathPrefix("/api").Subrouter()

	// One-shot missions
	api.HandleFunc("/missions", s.handleExecuteMission).Methods("POST")
	api.HandleFunc("/missions", s.handleListMissions).Methods("GET")
	api.HandleFunc("/missions/batch", s.handleExecuteBatch).Methods("POST")
	api.HandleFunc("/missions/{id}", s.handleGetMission).Methods("GET")

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Rover operations
	api.HandleFunc("/sessions/{id}/state", s.handleGetRoverState).Methods("GET")
	api.HandleFunc("/sessions/{id}/commands", s.handleSendCommands).Methods("POST")
	api.HandleFunc("/sessions/{id}/reset", s.handleReset).Methods("POST")
	api.HandleFunc("/sessions/{id}/history", s.handleGetHistory).Methods("GET")

	// Scenarios
	api.HandleFunc("/scenarios", s.handleListScenarios).Methods("GET")
	api.HandleFunc("/scenarios", s.handleSaveScenario).Methods("POST")
	api.HandleFunc("/scenarios/{name}", s.handleGetScenario).Methods("GET")
	api.HandleFunc("/scenarios/{name}/run", s.handleRunScenario).Methods("POST")

	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics).Methods("GET")
	}
	if s.hub != nil {
		s.router.HandleFunc("/ws", s.handleWebSocket)
	}
}

// Mount serves h for every path under prefix
func (s *Server) Mount(prefix string, h http.Handler) {
	s.router.PathPrefix(prefix).Handler(h)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]string{"error": message, "code": code})
}

// respondServiceError maps service and validation errors to a status and code
func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	status, code := classifyError(err)
	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).Msg("request failed")
	}
	respondError(w, status, code, err.Error())
}

func classifyError(err error) (int, string) {
	switch {
	case input.IsValidationError(err):
		return http.StatusBadRequest, input.ErrorCode(err)
	case errors.Is(err, service.ErrInvalidScenario):
		return http.StatusBadRequest, codeInvalidScenario
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrScenarioNotFound),
		errors.Is(err, service.ErrMissionNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, service.ErrMissionLogDisabled):
		return http.StatusServiceUnavailable, codeUnavailable
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

func queryBool(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}

func queryInt(r *http.Request, name string, def int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(name)); err == nil && v > 0 {
		return v
	}
	return def
}

// Mission Handlers

func (s *Server) handleExecuteMission(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "Invalid request body")
		return
	}

	result, err := s.service.ExecuteMission(r.Context(), body, service.ExecuteOptions{
		Source: service.SourceAPI,
		Trace:  queryBool(r, "trace"),
	})
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleExecuteBatch(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "Invalid request body")
		return
	}

	result, err := s.service.ExecuteBatch(r.Context(), body, service.ExecuteOptions{
		Source: service.SourceBatch,
		Trace:  queryBool(r, "trace"),
	})
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, result.Output+"\n")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleListMissions(w http.ResponseWriter, r *http.Request) {
	missions, err := s.service.ListMissions(r.Context(), queryInt(r, "limit", 0))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(missions),
		"missions": missions,
	})
}

func (s *Server) handleGetMission(w http.ResponseWriter, r *http.Request) {
	mission, err := s.service.GetMission(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, mission)
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req service.SessionRequest

	body, err := readBody(w, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "Invalid request body")
		return
	}
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			respondError(w, http.StatusBadRequest, input.ErrorCode(input.ErrInvalidInputFormat), "Invalid request body")
			return
		}
	}

	session, err := s.service.CreateSession(r.Context(), req)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort") // "created", "accessed" (default)
	order := query.Get("order") // "asc", "desc" (default)

	if sortBy != "created" {
		sortBy = "accessed"
	}
	if order != "asc" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(sessions)
	if limit := queryInt(r, "limit", total); limit < total {
		sessions = sessions[:limit]
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.service.GetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		s.respondServiceError(w, err)
		return
	}

	if s.hub != nil {
		s.hub.BroadcastEvent(sessionID, websocket.EventDeleted, nil)
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Rover Operation Handlers

func (s *Server) handleGetRoverState(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.GetRoverState(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleSendCommands(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Commands string `json:"commands"`
		Reset    bool   `json:"reset,omitempty"`
	}

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "Invalid request body")
		return
	}

	result, err := s.service.SendCommands(r.Context(), sessionID, req.Commands, req.Reset)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	if s.hub != nil {
		s.hub.BroadcastToSession(sessionID, result.State)
	}

	s.logger.Debug().
		Str("session", sessionID).
		Str("from", result.Start.Report()).
		Str("to", result.Report).
		Int("moves", result.Summary.Moves).
		Int("blocked", result.Summary.Blocked).
		Msg("commands executed")

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.Reset(r.Context(), sessionID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	if s.hub != nil {
		s.hub.Broadcast(&websocket.Message{SessionID: sessionID, State: state, Event: websocket.EventReset})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Rover reset successfully",
		"state":   state,
	})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	opts := service.HistoryOptions{
		Page:  queryInt(r, "page", 1),
		Limit: queryInt(r, "limit", 20),
		Order: "desc",
	}
	if order := r.URL.Query().Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}

	history, err := s.service.GetCommandHistory(r.Context(), mux.Vars(r)["id"], opts)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// Scenario Handlers

// scenarioRequest is a mission payload plus the scenario's metadata
type scenarioRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Expected    string `json:"expected,omitempty"`
	input.Payload
}

func (s *Server) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	scenarios, err := s.service.ListScenarios(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, scenarios)
}

func (s *Server) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	config, err := s.service.LoadScenario(r.Context(), scenarioName(r))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, config)
}

func (s *Server) handleSaveScenario(w http.ResponseWriter, r *http.Request) {
	var req scenarioRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "Invalid request body")
		return
	}

	if req.ID == "" {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "Scenario id is required")
		return
	}

	config, err := input.Validate(&req.Payload)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	config.Name = req.Name
	config.Description = req.Description
	config.Expected = strings.TrimSpace(req.Expected)

	if err := s.service.SaveScenario(r.Context(), req.ID, config); err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "Scenario saved successfully",
		"scenario_id": req.ID,
	})
}

func (s *Server) handleRunScenario(w http.ResponseWriter, r *http.Request) {
	run, err := s.service.RunScenario(r.Context(), scenarioName(r), service.ExecuteOptions{
		Source: service.SourceScenario,
		Trace:  queryBool(r, "trace"),
	})
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, run)
}

// scenarioName returns the {name} variable without a file extension
func scenarioName(r *http.Request) string {
	name := mux.Vars(r)["name"]
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "session parameter required")
		return
	}

	state, err := s.service.GetRoverState(r.Context(), sessionID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.hub.ServeWS(w, r, sessionID, state)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// statusRecorder captures the response status for logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// Unwrap lets http.ResponseController and the websocket upgrader reach the
// underlying writer
func (rec *statusRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Upgraded connections must see the original writer
		if r.URL.Path == "/ws" {
			next.ServeHTTP(w, r)
			return
		}

		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		level := zerolog.DebugLevel
		if rec.status >= http.StatusInternalServerError {
			level = zerolog.WarnLevel
		}
		s.logger.WithLevel(level).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(started)).
			Msg("request")
	})
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				s.logger.Error().Interface("panic", v).Str("path", r.URL.Path).Msg("handler panic")
				respondError(w, http.StatusInternalServerError, codeInternal, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
