package session

import (
	"time"

	"github.com/wricardo/mars-rover/mission/engine"
	"github.com/wricardo/mars-rover/mission/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData is the JSON document written for each session. The
// full config is kept so custom landings survive a restart.
type PersistedSessionData struct {
	ID             string                `json:"id"`
	CreatedAt      time.Time             `json:"created_at"`
	LastAccessedAt time.Time             `json:"last_accessed_at"`
	Config         *engine.MissionConfig `json:"config"`
	State          *engine.MissionState  `json:"state"`
}
