package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wricardo/mars-rover/mission/engine"
	"github.com/wricardo/mars-rover/mission/service"
)

var (
	ErrSessionNotFound      = service.ErrSessionNotFound
	ErrSessionAlreadyExists = service.ErrSessionAlreadyExists
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// maxGenerateAttempts bounds retries when a generated ID is already taken
const maxGenerateAttempts = 16

var validSessionID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Manager handles rover session lifecycle
type Manager struct {
	sessions    map[string]*service.Session
	persistence SessionPersistence
	logger      zerolog.Logger
	mu          sync.RWMutex
}

// NewManager creates a new session manager
func NewManager() *Manager {
	return NewManagerWithPersistence(nil)
}

// NewManagerWithPersistence creates a new session manager with persistence
func NewManagerWithPersistence(persistence SessionPersistence) *Manager {
	return &Manager{
		sessions:    make(map[string]*service.Session),
		persistence: persistence,
		logger:      log.With().Str("component", "session").Logger(),
	}
}

// Create creates a new session with the given ID and configuration. An empty
// ID asks the manager to generate one.
func (m *Manager) Create(id string, config *engine.MissionConfig) (*service.Session, error) {
	if id != "" && !validSessionID.MatchString(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}

	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id, err = m.generateUniqueID()
		if err != nil {
			return nil, err
		}
	} else if m.sessionExists(id) {
		return nil, ErrSessionAlreadyExists
	}

	now := time.Now()
	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      now,
		LastAccessedAt: now,
	}

	m.sessions[strings.ToLower(id)] = session

	// Persistence failures never fail creation
	if m.persistence != nil {
		if err := m.persistence.Save(session); err != nil {
			m.logger.Warn().Err(err).Str("session", id).Msg("failed to persist session")
		}
	}

	return session, nil
}

// Get retrieves a session by ID (case-insensitive), falling back to persistence
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	session, exists := m.sessions[strings.ToLower(id)]
	m.mu.RUnlock()

	if exists {
		return session, nil
	}

	if m.persistence != nil && validSessionID.MatchString(id) && m.persistence.Exists(id) {
		loaded, err := m.persistence.Load(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load persisted session: %w", err)
		}

		m.mu.Lock()
		defer m.mu.Unlock()
		// Another caller may have loaded it meanwhile
		if existing, ok := m.sessions[strings.ToLower(id)]; ok {
			return existing, nil
		}
		m.sessions[strings.ToLower(id)] = loaded
		return loaded, nil
	}

	return nil, ErrSessionNotFound
}

// GetOrCreate gets an existing session or creates a new one
func (m *Manager) GetOrCreate(id string, config *engine.MissionConfig) (*service.Session, error) {
	session, err := m.Get(id)
	if err == nil {
		return session, nil
	}

	if errors.Is(err, ErrSessionNotFound) {
		return m.Create(id, config)
	}

	return nil, err
}

// List returns all in-memory sessions
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}

	return result
}

// Delete removes a session from memory and from persistence
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lowerID := strings.ToLower(id)
	_, inMemory := m.sessions[lowerID]
	delete(m.sessions, lowerID)

	if m.persistence != nil && validSessionID.MatchString(id) && m.persistence.Exists(id) {
		if err := m.persistence.Delete(id); err != nil {
			return fmt.Errorf("failed to delete persisted session: %w", err)
		}
		return nil
	}

	if !inMemory {
		return ErrSessionNotFound
	}

	return nil
}

// DeleteFromMemory removes a session from memory only (not from persistence)
func (m *Manager) DeleteFromMemory(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lowerID := strings.ToLower(id)
	if _, exists := m.sessions[lowerID]; !exists {
		return ErrSessionNotFound
	}
	delete(m.sessions, lowerID)
	return nil
}

// UpdateLastAccessed updates the last accessed time for a session
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return ErrSessionNotFound
	}

	session.LastAccessedAt = time.Now()

	if m.persistence != nil {
		if err := m.persistence.Save(session); err != nil {
			m.logger.Warn().Err(err).Str("session", id).Msg("failed to persist session after access update")
		}
	}

	return nil
}

// Save saves a specific session to persistence
func (m *Manager) Save(id string) error {
	if m.persistence == nil {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return ErrSessionNotFound
	}

	return m.persistence.Save(session)
}

// CleanupExpiredSessions removes sessions that haven't been accessed in the
// given duration from memory. Persisted copies stay on disk.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for id, session := range m.sessions {
		if session.LastAccessedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}

	return removed
}

// Count returns the number of in-memory sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// generateUniqueID returns a 4-character hex ID not yet in use. Callers hold m.mu.
func (m *Manager) generateUniqueID() (string, error) {
	buf := make([]byte, 2)
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate session ID: %w", err)
		}
		id := hex.EncodeToString(buf)
		if !m.sessionExists(id) && (m.persistence == nil || !m.persistence.Exists(id)) {
			return id, nil
		}
	}
	return "", fmt.Errorf("failed to generate a free session ID after %d attempts", maxGenerateAttempts)
}

// sessionExists checks if a session exists (case-insensitive). Callers hold m.mu.
func (m *Manager) sessionExists(id string) bool {
	_, exists := m.sessions[strings.ToLower(id)]
	return exists
}

// LoadPersistedSessions loads all persisted sessions into memory
func (m *Manager) LoadPersistedSessions() error {
	if m.persistence == nil {
		return nil
	}

	sessionIDs, err := m.persistence.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list persisted sessions: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	loadedCount := 0
	for _, id := range sessionIDs {
		if _, exists := m.sessions[strings.ToLower(id)]; exists {
			continue
		}

		session, err := m.persistence.Load(id)
		if err != nil {
			m.logger.Warn().Err(err).Str("session", id).Msg("failed to load persisted session")
			continue
		}

		m.sessions[strings.ToLower(id)] = session
		loadedCount++
	}

	if loadedCount > 0 {
		m.logger.Info().Int("count", loadedCount).Msg("loaded persisted sessions")
	}

	return nil
}

// SaveAllSessions saves all in-memory sessions to persistence
func (m *Manager) SaveAllSessions() error {
	if m.persistence == nil {
		return nil
	}

	// Held for the whole pass: UpdateLastAccessed writes under the same lock
	m.mu.RLock()
	defer m.mu.RUnlock()

	errorCount := 0
	for _, session := range m.sessions {
		if err := m.persistence.Save(session); err != nil {
			m.logger.Warn().Err(err).Str("session", session.ID).Msg("failed to save session")
			errorCount++
		}
	}

	if errorCount > 0 {
		return fmt.Errorf("failed to save %d sessions", errorCount)
	}

	return nil
}
