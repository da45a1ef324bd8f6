package service

import (
	"time"

	"github.com/wricardo/mcp-training/marsrover/mission/engine"
)

// SessionInfo provides information about a mission session
type SessionInfo struct {
	ID             string               `json:"id"`
	ScenarioID     string               `json:"scenario_id"`
	CreatedAt      time.Time            `json:"created_at"`
	LastAccessedAt time.Time            `json:"last_accessed_at"`
	State          *engine.MissionState `json:"state"`
	Scenario       *engine.Scenario     `json:"scenario"`
}

// AddRoverRequest registers a rover on a running session
type AddRoverRequest struct {
	Name      string       `json:"name"`
	Position  engine.Point `json:"position"`
	Direction string       `json:"direction"`
}

// MoveResult contains the result of a single step request.
// Success is true for blocked steps too; Moved tells whether the rover changed cell.
type MoveResult struct {
	Success     bool                 `json:"success"`
	Moved       bool                 `json:"moved"`
	Outcome     *engine.StepOutcome  `json:"outcome,omitempty"`
	AttemptedTo *AttemptInfo         `json:"attempted_to,omitempty"`
	State       *engine.MissionState `json:"state"`
	Message     string               `json:"message"`
	Events      []MissionEvent       `json:"events,omitempty"`
}

// BulkMoveOptions controls a bulk move request
type BulkMoveOptions struct {
	Reset       bool `json:"reset"`
	StopOnBlock bool `json:"stop_on_block"`
}

// BulkMoveResult contains the result of multiple step requests
type BulkMoveResult struct {
	// Summary
	RequestedMoves int                  `json:"requested_moves"`
	MovesExecuted  int                  `json:"moves_executed"`
	MovedCount     int                  `json:"moved_count"`
	BlockedCount   int                  `json:"blocked_count"`
	Success        bool                 `json:"success"`
	State          *engine.MissionState `json:"state"`
	Events         []MissionEvent       `json:"events"`
	StoppedReason  string               `json:"stopped_reason,omitempty"`
	StopReasonCode string               `json:"stop_reason_code,omitempty"` // blocked_boundary|blocked_rover
	StoppedOnMove  int                  `json:"stopped_on_move,omitempty"`  // 1-based
	Truncated      bool                 `json:"truncated,omitempty"`
	Limit          int                  `json:"limit,omitempty"`

	// Per-step trace for this call only
	Steps []engine.StepOutcome `json:"steps,omitempty"`

	// First blocked target
	AttemptedTo *AttemptInfo `json:"attempted_to,omitempty"`

	Message       string   `json:"message,omitempty"`
	PossibleMoves []string `json:"possible_moves"`
}

// AttemptInfo details the target cell of a blocked step
type AttemptInfo struct {
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Reason    string `json:"reason"`
	InBounds  bool   `json:"in_bounds"`
	BlockedBy string `json:"blocked_by,omitempty"`
}

// RoverInfo describes a single rover and whether its next step is open
type RoverInfo struct {
	Name      string           `json:"name"`
	Position  engine.Point     `json:"position"`
	Direction engine.Direction `json:"direction"`
	CanMove   bool             `json:"can_move"`
	NextCell  *engine.Point    `json:"next_cell,omitempty"`
}

// MissionEvent represents something that happened during a request
type MissionEvent struct {
	Type      string        `json:"type"` // "move", "blocked", "reset", "rover_added"
	Rover     string        `json:"rover,omitempty"`
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
	Position  *engine.Point `json:"position,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
	Rover string `json:"rover"` // optional filter
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ScenarioInfo provides information about a scenario file
type ScenarioInfo struct {
	Filename    string       `json:"filename"`
	ScenarioID  string       `json:"scenario_id"` // The identifier to use for session creation
	Name        string       `json:"name"`        // Display name
	Description string       `json:"description"`
	RoverCount  int          `json:"rover_count"`
	Southwest   engine.Point `json:"southwest"`
	Northeast   engine.Point `json:"northeast"`
}
