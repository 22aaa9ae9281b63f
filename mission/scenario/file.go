package scenario

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wricardo/mars-rover/mission/engine"
	"github.com/wricardo/mars-rover/mission/input"
)

// File is the on-disk form of a scenario
type File struct {
	Name          string `json:"name" yaml:"name"`
	Description   string `json:"description,omitempty" yaml:"description,omitempty"`
	input.Payload `yaml:",inline"`
	Expected      string `json:"expected,omitempty" yaml:"expected,omitempty"`
}

// Supported scenario file extensions, in lookup order
var extensions = []string{".json", ".yaml", ".yml"}

// IsScenarioFile reports whether name has a scenario file extension
func IsScenarioFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// decodeFile parses data according to the file extension of path
func decodeFile(path string, data []byte) (*File, error) {
	var f File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse json: %w", err)
		}
	}
	return &f, nil
}

// ReadFile decodes and validates a single scenario file
func ReadFile(path string) (*engine.MissionConfig, error) {
	if !IsScenarioFile(path) {
		return nil, fmt.Errorf("%w: unsupported extension %q", ErrInvalidScenario, filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	f, err := decodeFile(path, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}

	config, err := f.toConfig(scenarioID(filepath.Base(path)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	return config, nil
}

// toConfig validates a scenario file and converts it to an engine config
func (f *File) toConfig(id string) (*engine.MissionConfig, error) {
	config, err := input.Validate(&f.Payload)
	if err != nil {
		return nil, err
	}

	config.Name = f.Name
	if config.Name == "" {
		config.Name = id
	}
	config.Description = f.Description
	config.Expected = strings.TrimSpace(f.Expected)
	return config, nil
}

// fromConfig builds the file form of config
func fromConfig(config *engine.MissionConfig) *File {
	return &File{
		Name:        config.Name,
		Description: config.Description,
		Payload:     *input.FromConfig(config),
		Expected:    config.Expected,
	}
}

// Encode renders the scenario as YAML or JSON depending on ext
func (f *File) Encode(ext string) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return yaml.Marshal(f)
	default:
		return json.MarshalIndent(f, "", "  ")
	}
}
