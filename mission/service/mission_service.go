package service

import (
	"context"
	"time"

	"github.com/wricardo/mcp-training/marsrover/mission/engine"
)

// MissionService defines all mission-related operations
type MissionService interface {
	// Session Management
	CreateSession(ctx context.Context, scenarioID string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Rover Operations
	AddRover(ctx context.Context, sessionID string, req AddRoverRequest) (*engine.MissionState, error)
	Move(ctx context.Context, sessionID, rover string, reset bool) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, rovers []string, opts BulkMoveOptions) (*BulkMoveResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.MissionState, error)

	// Mission State
	GetMissionState(ctx context.Context, sessionID string) (*engine.MissionState, error)
	GetRoverPosition(ctx context.Context, sessionID, rover string) (*RoverInfo, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Scenarios
	ListScenarios(ctx context.Context) ([]*ScenarioInfo, error)
	LoadScenario(ctx context.Context, scenarioID string) (*engine.Scenario, error)
	SaveScenario(ctx context.Context, scenarioID string, scenario *engine.Scenario) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, scenarioID string, scenario *engine.Scenario) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id, scenarioID string, scenario *engine.Scenario) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles scenario loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.Scenario, error)
	ListConfigs() ([]*ScenarioInfo, error)
	GetDefault() *engine.Scenario
	SaveConfig(name string, scenario *engine.Scenario) error
}

// Session represents an active mission on its own plateau
type Session struct {
	ID             string
	ScenarioID     string
	Engine         *engine.Engine
	Scenario       *engine.Scenario
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
