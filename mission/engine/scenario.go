package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// RoverSpec describes a rover to register when a scenario starts
type RoverSpec struct {
	Name      string    `json:"name" yaml:"name"`
	Position  Point     `json:"position" yaml:"position"`
	Direction Direction `json:"direction" yaml:"direction"`
}

// ScenarioMessages holds the status lines shown to players. Empty fields fall back to defaults.
type ScenarioMessages struct {
	Welcome         string `json:"welcome,omitempty" yaml:"welcome,omitempty"`
	Moved           string `json:"moved,omitempty" yaml:"moved,omitempty"`
	BlockedBoundary string `json:"blocked_boundary,omitempty" yaml:"blocked_boundary,omitempty"`
	BlockedRover    string `json:"blocked_rover,omitempty" yaml:"blocked_rover,omitempty"`
}

// Scenario is a plateau layout with its initial rovers, loaded from JSON or YAML
type Scenario struct {
	Name        string           `json:"name" yaml:"name"`
	Description string           `json:"description" yaml:"description"`
	Corners     []Point          `json:"corners" yaml:"corners"`
	Rovers      []RoverSpec      `json:"rovers" yaml:"rovers"`
	Messages    ScenarioMessages `json:"messages,omitempty" yaml:"messages,omitempty"`
}

// Default status messages
const (
	DefaultWelcome         = "Plateau ready. Rovers standing by."
	DefaultMoved           = "%s moved to (%d,%d)"
	DefaultBlockedBoundary = "%s held position: edge of plateau ahead"
	DefaultBlockedRover    = "%s held position: path blocked by %s"
)

// ValidateScenario checks that a scenario describes a plateau whose initial rovers register cleanly
func ValidateScenario(scenario *Scenario) error {
	if scenario == nil {
		return fmt.Errorf("scenario validation: scenario is nil")
	}
	if scenario.Name == "" {
		return fmt.Errorf("scenario validation: name is required")
	}
	if len(scenario.Corners) != 2 {
		return fmt.Errorf("scenario validation: exactly 2 corners required, got %d", len(scenario.Corners))
	}

	for _, format := range []struct {
		field, value string
		verbs        int
	}{
		{"messages.moved", scenario.Messages.Moved, 3},
		{"messages.blocked_boundary", scenario.Messages.BlockedBoundary, 1},
		{"messages.blocked_rover", scenario.Messages.BlockedRover, 2},
	} {
		if format.value != "" && strings.Count(format.value, "%") < format.verbs {
			return fmt.Errorf("scenario validation: %s needs %d format verbs", format.field, format.verbs)
		}
	}

	if _, err := NewPlateauFromScenario(scenario); err != nil {
		return fmt.Errorf("scenario validation: %w", err)
	}
	return nil
}

// NewPlateauFromScenario builds a plateau and registers the scenario's rovers in order
func NewPlateauFromScenario(scenario *Scenario) (*Plateau, error) {
	if len(scenario.Corners) != 2 {
		return nil, fmt.Errorf("exactly 2 corners required, got %d", len(scenario.Corners))
	}
	plateau := NewPlateau(scenario.Corners[0], scenario.Corners[1])
	for i, spec := range scenario.Rovers {
		if spec.Name == "" {
			return nil, fmt.Errorf("rover %d: name is required", i+1)
		}
		if !spec.Direction.IsValid() {
			return nil, fmt.Errorf("rover %q: invalid direction", spec.Name)
		}
		if err := plateau.AddRover(spec.Name, spec.Position, spec.Direction); err != nil {
			return nil, fmt.Errorf("rover %d: %w", i+1, err)
		}
	}
	return plateau, nil
}

// DecodeScenario parses scenario data. ext selects YAML for ".yaml"/".yml", JSON otherwise.
func DecodeScenario(data []byte, ext string) (*Scenario, error) {
	var scenario Scenario
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &scenario); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &scenario); err != nil {
			return nil, err
		}
	}
	return &scenario, nil
}

// LoadScenario loads and validates a scenario file
func LoadScenario(filename string) (*Scenario, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	scenario, err := DecodeScenario(data, filepath.Ext(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to parse scenario '%s': %w", filename, err)
	}

	if err := ValidateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario '%s': %w", filename, err)
	}
	return scenario, nil
}

// DefaultScenario is the two-rover layout used when no scenario files are available
func DefaultScenario() *Scenario {
	return &Scenario{
		Name:        "default",
		Description: "Two rovers on a 6x6 plateau",
		Corners:     []Point{{X: 0, Y: 0}, {X: 5, Y: 5}},
		Rovers: []RoverSpec{
			{Name: "R1", Position: Point{X: 1, Y: 2}, Direction: North},
			{Name: "R2", Position: Point{X: 3, Y: 3}, Direction: East},
		},
	}
}

// welcome returns the scenario's welcome line or the default
func (s *Scenario) welcome() string {
	if s != nil && s.Messages.Welcome != "" {
		return s.Messages.Welcome
	}
	return DefaultWelcome
}

// describe formats the status line for a step outcome
func (s *Scenario) describe(outcome StepOutcome) string {
	var msgs ScenarioMessages
	if s != nil {
		msgs = s.Messages
	}
	switch outcome.Result {
	case StepMoved:
		return fmt.Sprintf(orDefault(msgs.Moved, DefaultMoved), outcome.Rover, outcome.To.X, outcome.To.Y)
	case StepBlockedRover:
		return fmt.Sprintf(orDefault(msgs.BlockedRover, DefaultBlockedRover), outcome.Rover, outcome.BlockedBy)
	default:
		return fmt.Sprintf(orDefault(msgs.BlockedBoundary, DefaultBlockedBoundary), outcome.Rover)
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
