package scenario

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wricardo/mars-rover/mission/engine"
	"github.com/wricardo/mars-rover/mission/service"
)

var (
	ErrScenarioNotFound = service.ErrScenarioNotFound
	ErrInvalidScenario  = service.ErrInvalidScenario
)

// DefaultScenarioID is loaded as the default when present
const DefaultScenarioID = "classic"

var validScenarioID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Manager handles scenario loading and caching
type Manager struct {
	dir             string
	defaultScenario *engine.MissionConfig
	scenarios       map[string]*engine.MissionConfig
	logger          zerolog.Logger
	mu              sync.RWMutex
}

// NewManager creates a new scenario manager reading from dir
func NewManager(dir string) (*Manager, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("scenario directory does not exist: %s", dir)
		}
		return nil, fmt.Errorf("failed to stat scenario directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scenario path is not a directory: %s", dir)
	}

	m := &Manager{
		dir:       dir,
		scenarios: make(map[string]*engine.MissionConfig),
		logger:    log.With().Str("component", "scenario").Logger(),
	}

	m.loadDefaultScenario()
	return m, nil
}

// Dir returns the directory scenarios are read from
func (m *Manager) Dir() string {
	return m.dir
}

// LoadScenario loads a scenario by ID
func (m *Manager) LoadScenario(name string) (*engine.MissionConfig, error) {
	id := scenarioID(name)
	if !validScenarioID.MatchString(id) {
		return nil, fmt.Errorf("%w: %q", ErrScenarioNotFound, name)
	}

	m.mu.RLock()
	if config, exists := m.scenarios[id]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.scenarios[id]; exists {
		return config, nil
	}

	path, err := m.findFile(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	file, err := decodeFile(path, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidScenario, filepath.Base(path), err)
	}

	config, err := file.toConfig(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidScenario, filepath.Base(path), err)
	}

	m.scenarios[id] = config
	return config, nil
}

// findFile returns the first existing file for id, trying each extension
func (m *Manager) findFile(id string) (string, error) {
	for _, ext := range extensions {
		path := filepath.Join(m.dir, id+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrScenarioNotFound, id)
}

// ListScenarios returns information about every valid scenario, sorted by ID
func (m *Manager) ListScenarios() ([]*service.ScenarioInfo, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	seen := make(map[string]bool)
	scenarios := []*service.ScenarioInfo{}

	for _, entry := range entries {
		if entry.IsDir() || !IsScenarioFile(entry.Name()) {
			continue
		}

		id := scenarioID(entry.Name())
		if seen[id] {
			continue
		}
		seen[id] = true

		config, err := m.LoadScenario(id)
		if err != nil {
			m.logger.Warn().Err(err).Str("file", entry.Name()).Msg("skipping invalid scenario")
			continue
		}

		scenarios = append(scenarios, &service.ScenarioInfo{
			Filename:    entry.Name(),
			ScenarioID:  id,
			Name:        config.Name,
			Description: config.Description,
			Plateau:     config.Plateau,
			Start:       config.StartRover().Report(),
			Commands:    config.Commands,
			Expected:    config.Expected,
		})
	}

	sort.Slice(scenarios, func(i, j int) bool {
		return scenarios[i].ScenarioID < scenarios[j].ScenarioID
	})

	return scenarios, nil
}

// GetDefault returns the default scenario
func (m *Manager) GetDefault() *engine.MissionConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultScenario
}

// SetDefault sets the default scenario by ID
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadScenario(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultScenario = config
	return nil
}

// RefreshCache drops every cached scenario and reloads the default
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.scenarios = make(map[string]*engine.MissionConfig)
	m.mu.Unlock()

	m.loadDefaultScenario()
}

// Invalidate drops one scenario from the cache
func (m *Manager) Invalidate(name string) {
	m.mu.Lock()
	delete(m.scenarios, scenarioID(name))
	m.mu.Unlock()
}

// loadDefaultScenario picks classic, then the first valid file, then the
// built-in classic mission
func (m *Manager) loadDefaultScenario() {
	config, err := m.LoadScenario(DefaultScenarioID)
	if err != nil {
		scenarios, listErr := m.ListScenarios()
		if listErr != nil || len(scenarios) == 0 {
			config = engine.ClassicMission()
		} else if config, err = m.LoadScenario(scenarios[0].ScenarioID); err != nil {
			config = engine.ClassicMission()
		}
	}

	m.mu.Lock()
	m.defaultScenario = config
	m.mu.Unlock()
}

// SaveScenario writes a scenario to disk as JSON and caches it
func (m *Manager) SaveScenario(name string, config *engine.MissionConfig) error {
	id := scenarioID(name)
	if !validScenarioID.MatchString(id) {
		return fmt.Errorf("%w: invalid scenario ID %q", ErrInvalidScenario, name)
	}
	if err := engine.ValidateMissionConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}

	stored := *config
	if stored.Name == "" || stored.Name == engine.DefaultMissionName {
		stored.Name = id
	}

	data, err := fromConfig(&stored).Encode(".json")
	if err != nil {
		return fmt.Errorf("failed to marshal scenario: %w", err)
	}

	path := filepath.Join(m.dir, id+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write scenario file: %w", err)
	}

	m.mu.Lock()
	m.scenarios[id] = &stored
	m.mu.Unlock()

	return nil
}

// scenarioID strips any known extension from name
func scenarioID(name string) string {
	base := filepath.Base(name)
	if IsScenarioFile(base) {
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return name
}
