package simulation

import (
	"bytes"
	"fmt"
	"os"

	"agent-sim/model"

	"gopkg.in/yaml.v3"
)

const (
	ModelWealth = "wealth"
	ModelVirus  = "virus"
)

// ScenarioMetadata describes one run. Loaded from YAML via
// LoadScenarioMetadata(path).
type ScenarioMetadata struct {
	UniqueName        string `yaml:"name"`
	ModelType         string `yaml:"model"`
	Seed              int64  `yaml:"seed"`
	MaxSimulationStep int    `yaml:"max_steps"`
	StopWhenResolved  bool   `yaml:"stop_when_resolved"`
	GraphFile         string `yaml:"graph_file,omitempty"`

	Wealth model.WealthModelParams `yaml:"wealth"`
	Virus  model.VirusModelParams  `yaml:"virus"`
}

// DefaultScenarioMetadata returns a virus run with the model defaults
func DefaultScenarioMetadata() *ScenarioMetadata {
	return &ScenarioMetadata{
		UniqueName:        "run",
		ModelType:         ModelVirus,
		Seed:              42,
		MaxSimulationStep: 200,
		StopWhenResolved:  true,
		Wealth:            *model.DefaultWealthModelParams(),
		Virus:             *model.DefaultVirusModelParams(),
	}
}

// LoadScenarioMetadata reads a YAML scenario over the defaults.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadScenarioMetadata(path string) (*ScenarioMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	metadata := DefaultScenarioMetadata()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(metadata); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return metadata, nil
}

// Validate checks the run settings and the parameters of the selected model
func (m *ScenarioMetadata) Validate() error {
	if m.UniqueName == "" {
		return &model.ConfigurationError{Field: "name", Value: m.UniqueName, Reason: "must not be empty"}
	}
	if m.MaxSimulationStep <= 0 {
		return &model.ConfigurationError{Field: "max_steps", Value: m.MaxSimulationStep, Reason: "must be positive"}
	}

	switch m.ModelType {
	case ModelWealth:
		if err := m.Wealth.Validate(); err != nil {
			return fmt.Errorf("wealth: %w", err)
		}
	case ModelVirus:
		if m.GraphFile != "" {
			// num_nodes comes from the graph file
			return nil
		}
		if err := m.Virus.Validate(); err != nil {
			return fmt.Errorf("virus: %w", err)
		}
	default:
		return &model.ConfigurationError{Field: "model", Value: m.ModelType, Reason: "must be wealth or virus"}
	}
	return nil
}

// Params returns the parameters of the selected model as a flat map
func (m *ScenarioMetadata) Params() map[string]any {
	if m.ModelType == ModelWealth {
		return m.Wealth.ToMap()
	}
	return m.Virus.ToMap()
}
