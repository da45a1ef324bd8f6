package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/mcp-training/marsrover/mission/engine"
	"github.com/wricardo/mcp-training/marsrover/mission/service"
	"gopkg.in/yaml.v3"
)

// Sentinels are shared with the service layer so transports can map them
var (
	ErrConfigNotFound = service.ErrScenarioNotFound
	ErrInvalidConfig  = service.ErrInvalidScenario
)

// scenarioExtensions lists the accepted file extensions in lookup order
var scenarioExtensions = []string{".json", ".yaml", ".yml"}

// Manager handles scenario loading and caching
type Manager struct {
	configDir       string
	defaultScenario *engine.Scenario
	configs         map[string]*engine.Scenario
	mu              sync.RWMutex
}

// NewManager creates a new scenario manager
func NewManager(configDir string) (*Manager, error) {
	// Ensure config directory exists
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.Scenario),
	}

	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default scenario: %w", err)
	}

	return m, nil
}

// LoadConfig loads a scenario by ID (file name without extension)
func (m *Manager) LoadConfig(name string) (*engine.Scenario, error) {
	name = trimScenarioExt(name)
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, ErrConfigNotFound
	}

	m.mu.RLock()
	if scenario, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return scenario, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if scenario, exists := m.configs[name]; exists {
		return scenario, nil
	}

	path, err := m.findFile(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := engine.DecodeScenario(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}

	if err := engine.ValidateScenario(scenario); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	m.configs[name] = scenario
	return scenario, nil
}

// ListConfigs returns information about all loadable scenarios, sorted by ID
func (m *Manager) ListConfigs() ([]*service.ScenarioInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var configs []*service.ScenarioInfo
	seen := make(map[string]bool)

	for _, entry := range entries {
		if entry.IsDir() || !hasScenarioExt(entry.Name()) {
			continue
		}

		id := trimScenarioExt(entry.Name())
		if seen[id] {
			continue
		}

		scenario, err := m.LoadConfig(id)
		if err != nil {
			// Skip invalid scenarios
			continue
		}
		seen[id] = true

		info := &service.ScenarioInfo{
			Filename:    entry.Name(),
			ScenarioID:  id,
			Name:        scenario.Name,
			Description: scenario.Description,
			RoverCount:  len(scenario.Rovers),
		}
		if plateau, err := engine.NewPlateauFromScenario(scenario); err == nil {
			info.Southwest = plateau.Southwest()
			info.Northeast = plateau.Northeast()
		}
		configs = append(configs, info)
	}

	sort.Slice(configs, func(i, j int) bool {
		return configs[i].ScenarioID < configs[j].ScenarioID
	})
	return configs, nil
}

// GetDefault returns the default scenario
func (m *Manager) GetDefault() *engine.Scenario {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultScenario
}

// SetDefault sets the default scenario by ID
func (m *Manager) SetDefault(name string) error {
	scenario, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultScenario = scenario
	return nil
}

// RefreshCache drops cached scenarios and reloads the default from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*engine.Scenario)
	m.mu.Unlock()

	return m.loadDefaultConfig()
}

// SaveConfig validates and writes a scenario. A ".yaml"/".yml" suffix on name selects YAML.
func (m *Manager) SaveConfig(name string, scenario *engine.Scenario) error {
	if err := engine.ValidateScenario(scenario); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".yaml" && ext != ".yml" {
		ext = ".json"
	}
	id := trimScenarioExt(name)
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return fmt.Errorf("%w: bad scenario id %q", ErrInvalidConfig, name)
	}

	var data []byte
	var err error
	if ext == ".json" {
		data, err = json.MarshalIndent(scenario, "", "  ")
	} else {
		data, err = yaml.Marshal(scenario)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal scenario: %w", err)
	}

	configPath := filepath.Join(m.configDir, id+ext)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write scenario file: %w", err)
	}

	m.mu.Lock()
	m.configs[id] = scenario
	m.mu.Unlock()

	return nil
}

// loadDefaultConfig picks "classic", then the first valid scenario, then the built-in default
func (m *Manager) loadDefaultConfig() error {
	scenario, err := m.LoadConfig("classic")
	if err != nil {
		configs, listErr := m.ListConfigs()
		if listErr != nil || len(configs) == 0 {
			scenario = engine.DefaultScenario()
		} else if scenario, err = m.LoadConfig(configs[0].ScenarioID); err != nil {
			scenario = engine.DefaultScenario()
		}
	}

	m.mu.Lock()
	m.defaultScenario = scenario
	m.mu.Unlock()
	return nil
}

// findFile locates the scenario file for id. Caller holds m.mu.
func (m *Manager) findFile(id string) (string, error) {
	for _, ext := range scenarioExtensions {
		path := filepath.Join(m.configDir, id+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", ErrConfigNotFound
}

func hasScenarioExt(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, candidate := range scenarioExtensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

func trimScenarioExt(name string) string {
	if hasScenarioExt(name) {
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}
