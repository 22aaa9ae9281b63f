package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wricardo/mars-rover/mission/engine"
	"github.com/wricardo/mars-rover/mission/input"
	"github.com/wricardo/mars-rover/mission/missionlog"
)

const tracerName = "github.com/wricardo/mars-rover/mission/service"

// Option configures the mission service
type Option func(*missionServiceImpl)

// WithMissionLog records every one-shot mission in log
func WithMissionLog(l MissionLog) Option {
	return func(s *missionServiceImpl) { s.missions = l }
}

// WithMetrics reports observations to m
func WithMetrics(m Metrics) Option {
	return func(s *missionServiceImpl) { s.metrics = m }
}

// WithTracer overrides the tracer taken from the global provider
func WithTracer(t trace.Tracer) Option {
	return func(s *missionServiceImpl) { s.tracer = t }
}

// missionServiceImpl implements the MissionService interface
type missionServiceImpl struct {
	sessions  SessionManager
	scenarios ScenarioManager
	missions  MissionLog
	metrics   Metrics
	tracer    trace.Tracer
	logger    zerolog.Logger
	mu        sync.RWMutex
}

// NewMissionService creates a new mission service instance
func NewMissionService(sessions SessionManager, scenarios ScenarioManager, opts ...Option) MissionService {
	s := &missionServiceImpl{
		sessions:  sessions,
		scenarios: scenarios,
		tracer:    otel.Tracer(tracerName),
		logger:    log.With().Str("component", "service").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExecuteMission validates a JSON payload and runs it on a fresh rover
func (s *missionServiceImpl) ExecuteMission(ctx context.Context, payload []byte, opts ExecuteOptions) (*MissionResult, error) {
	ctx, span := s.tracer.Start(ctx, "MissionService.ExecuteMission")
	defer span.End()

	config, err := input.Decode(payload)
	if err != nil {
		s.rejected(span, err)
		return nil, err
	}

	return s.runMission(ctx, span, config, withDefaultSource(opts, SourceAPI)), nil
}

// ExecuteBatch runs every rover of a classic text input in order
func (s *missionServiceImpl) ExecuteBatch(ctx context.Context, text []byte, opts ExecuteOptions) (*BatchResult, error) {
	ctx, span := s.tracer.Start(ctx, "MissionService.ExecuteBatch")
	defer span.End()

	configs, err := input.DecodeText(text)
	if err != nil {
		s.rejected(span, err)
		return nil, err
	}

	opts = withDefaultSource(opts, SourceBatch)
	result := &BatchResult{Results: make([]*MissionResult, 0, len(configs))}
	reports := make([]string, 0, len(configs))
	for _, config := range configs {
		r := s.runMission(ctx, span, config, opts)
		result.Results = append(result.Results, r)
		reports = append(reports, r.Report)
	}
	result.Output = strings.Join(reports, "\n")
	span.SetAttributes(attribute.Int("mission.rovers", len(configs)))

	return result, nil
}

// ListMissions returns the most recent logged missions
func (s *missionServiceImpl) ListMissions(ctx context.Context, limit int) ([]*missionlog.Record, error) {
	if s.missions == nil {
		return nil, ErrMissionLogDisabled
	}
	return s.missions.List(ctx, limit)
}

// GetMission returns one logged mission
func (s *missionServiceImpl) GetMission(ctx context.Context, id string) (*missionlog.Record, error) {
	if s.missions == nil {
		return nil, ErrMissionLogDisabled
	}
	rec, err := s.missions.Get(ctx, id)
	if errors.Is(err, missionlog.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrMissionNotFound, id)
	}
	return rec, err
}

// runMission executes config on its own rover, records it and builds the result
func (s *missionServiceImpl) runMission(ctx context.Context, span trace.Span, config *engine.MissionConfig, opts ExecuteOptions) *MissionResult {
	started := time.Now()
	start := config.StartRover()
	steps, final := engine.Trace(start, config.Plateau, config.Commands)
	summary := engine.Summarize(steps)
	elapsed := time.Since(started)

	result := &MissionResult{
		Name:     config.Name,
		Report:   final.Report(),
		Plateau:  config.Plateau,
		Start:    start,
		Rover:    final,
		Commands: config.Commands,
		Summary:  summary,
	}
	if opts.Trace {
		result.Steps = steps
	}

	span.SetAttributes(
		attribute.String("mission.source", opts.Source),
		attribute.String("mission.plateau", config.Plateau.String()),
		attribute.String("mission.start", start.Report()),
		attribute.String("mission.report", result.Report),
		attribute.Int("mission.commands", len(steps)),
		attribute.Int("mission.blocked", summary.Blocked),
	)

	if s.metrics != nil {
		s.metrics.ObserveMission(opts.Source, summary, elapsed)
	}

	if s.missions != nil {
		rec := missionlog.NewRecord(opts.Source, config, &engine.ExecutionResult{
			Commands: config.Commands,
			Before:   start,
			Rover:    final,
			Report:   result.Report,
			Summary:  summary,
		})
		if err := s.missions.Append(ctx, rec); err != nil {
			s.logger.Warn().Err(err).Str("report", result.Report).Msg("failed to log mission")
		} else {
			result.ID = rec.ID
		}
	}

	s.logger.Debug().
		Str("source", opts.Source).
		Str("start", start.Report()).
		Str("report", result.Report).
		Int("blocked", summary.Blocked).
		Int("ignored", summary.Ignored).
		Msg("mission executed")

	return result
}

// rejected records a validation failure on the span and in metrics
func (s *missionServiceImpl) rejected(span trace.Span, err error) {
	code := input.ErrorCode(err)
	span.RecordError(err)
	span.SetStatus(codes.Error, code)
	if s.metrics != nil {
		s.metrics.ObserveValidationFailure(code)
	}
	s.logger.Debug().Err(err).Str("code", code).Msg("mission rejected")
}

func withDefaultSource(opts ExecuteOptions, source string) ExecuteOptions {
	if opts.Source == "" {
		opts.Source = source
	}
	return opts
}

// CreateSession lands a rover for a new session
func (s *missionServiceImpl) CreateSession(ctx context.Context, req SessionRequest) (*SessionInfo, error) {
	_, span := s.tracer.Start(ctx, "MissionService.CreateSession")
	defer span.End()

	config, err := s.resolveSessionConfig(req)
	if err != nil {
		if input.IsValidationError(err) {
			s.rejected(span, err)
		}
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.updateSessionGauge()

	span.SetAttributes(attribute.String("session.id", sess.ID))
	s.logger.Info().Str("session", sess.ID).Str("scenario", config.Name).Str("rover", sess.Engine.GetRover().Report()).Msg("session created")

	return newSessionInfo(sess), nil
}

func (s *missionServiceImpl) resolveSessionConfig(req SessionRequest) (*engine.MissionConfig, error) {
	if req.TopRightCorner != nil || req.RoverPosition != nil {
		direction := req.RoverDirection
		movements := ""
		config, err := input.Validate(&input.Payload{
			TopRightCorner: req.TopRightCorner,
			RoverPosition:  req.RoverPosition,
			RoverDirection: &direction,
			Movements:      &movements,
		})
		if err != nil {
			return nil, err
		}
		config.Name = "custom"
		config.Description = "Rover landed from explicit coordinates"
		return config, nil
	}

	if req.Scenario == "" {
		config := *s.scenarios.GetDefault()
		return &config, nil
	}

	loaded, err := s.scenarios.LoadScenario(req.Scenario)
	if err != nil {
		if errors.Is(err, ErrScenarioNotFound) {
			available, listErr := s.scenarios.ListScenarios()
			if listErr == nil && len(available) > 0 {
				ids := make([]string, 0, len(available))
				for _, sc := range available {
					ids = append(ids, sc.ScenarioID)
				}
				return nil, fmt.Errorf("%w: '%s'. Available scenarios: %v", ErrScenarioNotFound, req.Scenario, ids)
			}
		}
		return nil, fmt.Errorf("failed to load scenario %s: %w", req.Scenario, err)
	}

	config := *loaded
	config.Name = req.Scenario
	return &config, nil
}

// GetSession retrieves session information
func (s *missionServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	// getSession records the access, so this takes the write lock
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return newSessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *missionServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, newSessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *missionServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	s.updateSessionGauge()
	s.logger.Info().Str("session", sessionID).Msg("session deleted")
	return nil
}

// SendCommands runs a command string against a session rover
func (s *missionServiceImpl) SendCommands(ctx context.Context, sessionID, commands string, reset bool) (*CommandResult, error) {
	_, span := s.tracer.Start(ctx, "MissionService.SendCommands",
		trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	events := []MissionEvent{}
	if reset {
		state := sess.Engine.Reset()
		events = append(events, MissionEvent{
			Type:      "reset",
			Message:   fmt.Sprintf("Rover reset to %s", state.Report),
			Timestamp: time.Now(),
			Position:  state.Rover.Position,
		})
	}

	started := time.Now()
	exec := sess.Engine.Execute(commands)
	if s.metrics != nil {
		s.metrics.ObserveMission(SourceSession, exec.Summary, time.Since(started))
	}
	events = append(events, extractCommandEvents(exec)...)

	if err := s.sessions.Save(sess.ID); err != nil {
		s.logger.Warn().Err(err).Str("session", sess.ID).Msg("failed to persist session")
	}

	span.SetAttributes(
		attribute.String("mission.report", exec.Report),
		attribute.Int("mission.commands", len(exec.Steps)),
	)

	state := sess.Engine.GetState()
	return &CommandResult{
		Report:         exec.Report,
		Rover:          exec.Rover,
		Start:          exec.Before,
		Summary:        exec.Summary,
		Steps:          exec.Steps,
		Events:         events,
		Message:        state.Message,
		CanMoveForward: sess.Engine.CanMove(),
		State:          state,
	}, nil
}

// extractCommandEvents summarises an execution as events
func extractCommandEvents(exec *engine.ExecutionResult) []MissionEvent {
	events := []MissionEvent{}
	now := time.Now()

	if exec.Summary.Moves > 0 {
		events = append(events, MissionEvent{
			Type:      "moved",
			Message:   fmt.Sprintf("Rover moved %d cell(s) to (%d,%d)", exec.Summary.Moves, exec.Rover.Position.X, exec.Rover.Position.Y),
			Timestamp: now,
			Position:  exec.Rover.Position,
		})
	}

	for _, step := range exec.Steps {
		if step.Outcome != engine.OutcomeBlocked {
			continue
		}
		target := step.From.Step(step.Heading)
		events = append(events, MissionEvent{
			Type:      "blocked",
			Message:   fmt.Sprintf("Command %d: move %s to (%d,%d) is off the plateau", step.Index+1, step.Heading.Name(), target.X, target.Y),
			Timestamp: now,
			Position:  step.From,
		})
	}

	if exec.Summary.Ignored > 0 {
		events = append(events, MissionEvent{
			Type:      "ignored",
			Message:   fmt.Sprintf("%d unknown command(s) ignored", exec.Summary.Ignored),
			Timestamp: now,
			Position:  exec.Rover.Position,
		})
	}

	return events
}

// Reset returns the session rover to its landing position
func (s *missionServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.MissionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	state := sess.Engine.Reset()
	if err := s.sessions.Save(sess.ID); err != nil {
		s.logger.Warn().Err(err).Str("session", sess.ID).Msg("failed to persist session")
	}
	return state, nil
}

// GetRoverState returns the current state of a session rover
func (s *missionServiceImpl) GetRoverState(ctx context.Context, sessionID string) (*engine.MissionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetState(), nil
}

// GetCommandHistory returns paginated command history
func (s *missionServiceImpl) GetCommandHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetCommandHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	commands := []engine.CommandHistoryEntry{}
	// Pages past the last one are empty and never compute an offset
	if opts.Page <= totalPages {
		start := (opts.Page - 1) * opts.Limit
		end := start + opts.Limit
		if end > total {
			end = total
		}

		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				commands = append(commands, history[i])
			}
		} else {
			commands = append(commands, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Commands:      commands,
		TotalCommands: total,
		Page:          opts.Page,
		PageSize:      opts.Limit,
		TotalPages:    totalPages,
		HasNext:       opts.Page < totalPages,
		HasPrevious:   opts.Page > 1,
	}, nil
}

// ListScenarios returns available scenarios
func (s *missionServiceImpl) ListScenarios(ctx context.Context) ([]*ScenarioInfo, error) {
	return s.scenarios.ListScenarios()
}

// LoadScenario loads a specific scenario
func (s *missionServiceImpl) LoadScenario(ctx context.Context, name string) (*engine.MissionConfig, error) {
	return s.scenarios.LoadScenario(name)
}

// SaveScenario writes a scenario to disk
func (s *missionServiceImpl) SaveScenario(ctx context.Context, name string, config *engine.MissionConfig) error {
	if err := s.scenarios.SaveScenario(name, config); err != nil {
		return err
	}
	s.logger.Info().Str("scenario", name).Msg("scenario saved")
	return nil
}

// RunScenario replays a scenario's commands as a one-shot mission and checks
// the expected report when the scenario has one
func (s *missionServiceImpl) RunScenario(ctx context.Context, name string, opts ExecuteOptions) (*ScenarioRun, error) {
	ctx, span := s.tracer.Start(ctx, "MissionService.RunScenario",
		trace.WithAttributes(attribute.String("scenario", name)))
	defer span.End()

	loaded, err := s.scenarios.LoadScenario(name)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	config := *loaded
	if config.Name == "" {
		config.Name = name
	}

	result := s.runMission(ctx, span, &config, withDefaultSource(opts, SourceScenario))
	run := &ScenarioRun{
		Scenario: name,
		Result:   result,
		Expected: config.Expected,
		Checked:  config.Expected != "",
	}
	run.Passed = !run.Checked || strings.EqualFold(strings.TrimSpace(config.Expected), result.Report)
	if !run.Passed {
		span.SetStatus(codes.Error, "unexpected report")
	}

	return run, nil
}

func (s *missionServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}
	if err := s.sessions.UpdateLastAccessed(sess.ID); err != nil {
		s.logger.Debug().Err(err).Str("session", sess.ID).Msg("failed to update last access")
	}
	return sess, nil
}

func (s *missionServiceImpl) updateSessionGauge() {
	if s.metrics != nil {
		s.metrics.SetActiveSessions(s.sessions.Count())
	}
}

func newSessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ScenarioName:   sess.Config.Name,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		State:          sess.Engine.GetState(),
		Config:         sess.Config,
	}
}
