package service

import (
	"context"
	"time"

	"github.com/wricardo/mars-rover/mission/engine"
	"github.com/wricardo/mars-rover/mission/missionlog"
)

// MissionService defines all mission-related operations
type MissionService interface {
	// One-shot missions
	ExecuteMission(ctx context.Context, payload []byte, opts ExecuteOptions) (*MissionResult, error)
	ExecuteBatch(ctx context.Context, text []byte, opts ExecuteOptions) (*BatchResult, error)
	ListMissions(ctx context.Context, limit int) ([]*missionlog.Record, error)
	GetMission(ctx context.Context, id string) (*missionlog.Record, error)

	// Session Management
	CreateSession(ctx context.Context, req SessionRequest) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Rover Operations
	SendCommands(ctx context.Context, sessionID, commands string, reset bool) (*CommandResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.MissionState, error)

	// Rover State
	GetRoverState(ctx context.Context, sessionID string) (*engine.MissionState, error)
	GetCommandHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Scenarios
	ListScenarios(ctx context.Context) ([]*ScenarioInfo, error)
	LoadScenario(ctx context.Context, name string) (*engine.MissionConfig, error)
	SaveScenario(ctx context.Context, name string, config *engine.MissionConfig) error
	RunScenario(ctx context.Context, name string, opts ExecuteOptions) (*ScenarioRun, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.MissionConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.MissionConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
	Count() int
}

// ScenarioManager loads and stores scenario files
type ScenarioManager interface {
	LoadScenario(name string) (*engine.MissionConfig, error)
	ListScenarios() ([]*ScenarioInfo, error)
	GetDefault() *engine.MissionConfig
	SaveScenario(name string, config *engine.MissionConfig) error
}

// MissionLog keeps executed one-shot missions
type MissionLog interface {
	Append(ctx context.Context, r *missionlog.Record) error
	Get(ctx context.Context, id string) (*missionlog.Record, error)
	List(ctx context.Context, limit int) ([]*missionlog.Record, error)
}

// Metrics receives mission observations
type Metrics interface {
	ObserveMission(source string, summary engine.Summary, elapsed time.Duration)
	ObserveValidationFailure(code string)
	SetActiveSessions(n int)
}

// Session represents an active rover session
type Session struct {
	ID             string
	Engine         *engine.MissionEngine
	Config         *engine.MissionConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
