package session

import (
	"fmt"
	"time"

	"github.com/wricardo/mcp-training/marsrover/mission/engine"
	"github.com/wricardo/mcp-training/marsrover/mission/service"
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

// PersistedSessionData is the stored form of a session.
// The scenario is embedded so a session survives its scenario file being edited or removed.
type PersistedSessionData struct {
	ID             string               `json:"id"`
	ScenarioID     string               `json:"scenario_id"`
	Scenario       *engine.Scenario     `json:"scenario,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	LastAccessedAt time.Time            `json:"last_accessed_at"`
	State          *engine.MissionState `json:"state"`
}

// newPersistedData captures a session for storage
func newPersistedData(session *service.Session) PersistedSessionData {
	return PersistedSessionData{
		ID:             session.ID,
		ScenarioID:     session.ScenarioID,
		Scenario:       session.Scenario,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		State:          session.Engine.GetState().Clone(),
	}
}

// restore rebuilds a live session. Restoring re-registers every rover, so a
// stored state that breaks plateau invariants is rejected.
func (data PersistedSessionData) restore(configs service.ConfigManager) (*service.Session, error) {
	scenario := data.Scenario
	if scenario == nil {
		if configs == nil {
			return nil, fmt.Errorf("session %s has no embedded scenario", data.ID)
		}
		loaded, err := configs.LoadConfig(data.ScenarioID)
		if err != nil {
			return nil, fmt.Errorf("failed to load scenario '%s': %w", data.ScenarioID, err)
		}
		scenario = loaded
	}

	missionEngine, err := engine.NewEngine(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to create mission engine: %w", err)
	}

	if data.State != nil {
		if err := missionEngine.SetState(data.State); err != nil {
			return nil, fmt.Errorf("failed to set mission state: %w", err)
		}
	}

	return &service.Session{
		ID:             data.ID,
		ScenarioID:     data.ScenarioID,
		Engine:         missionEngine,
		Scenario:       scenario,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
	}, nil
}
