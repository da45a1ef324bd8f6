package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Engine wraps a plateau with its scenario and move history.
// Engine is not safe for concurrent use; the service layer serializes calls.
// The plateau itself guards its rover state independently.
type Engine struct {
	scenario *Scenario
	plateau  *Plateau
	state    *MissionState
}

// NewEngine creates an engine with the scenario's rovers registered
func NewEngine(scenario *Scenario) (*Engine, error) {
	if err := ValidateScenario(scenario); err != nil {
		return nil, err
	}

	plateau, err := NewPlateauFromScenario(scenario)
	if err != nil {
		return nil, err
	}

	return &Engine{
		scenario: scenario,
		plateau:  plateau,
		state:    newMissionState(scenario),
	}, nil
}

// NewEngineWithDefaults creates an engine running DefaultScenario
func NewEngineWithDefaults() *Engine {
	engine, err := NewEngine(DefaultScenario())
	if err != nil {
		// DefaultScenario is static and valid
		panic(err)
	}
	return engine
}

func newMissionState(scenario *Scenario) *MissionState {
	return &MissionState{
		ScenarioName: scenario.Name,
		Message:      scenario.welcome(),
		MoveHistory:  []MoveHistoryEntry{},
		CurrentMoves: []MoveHistoryEntry{},
	}
}

// GetPlateau returns the underlying plateau
func (e *Engine) GetPlateau() *Plateau {
	return e.plateau
}

// GetScenario returns the scenario the engine was built from
func (e *Engine) GetScenario() *Scenario {
	return e.scenario
}

// GetState returns the current mission state with a fresh rover snapshot
func (e *Engine) GetState() *MissionState {
	e.state.Southwest = e.plateau.Southwest()
	e.state.Northeast = e.plateau.Northeast()
	e.state.Rovers = e.plateau.Rovers()
	if grid, err := e.RenderGrid(); err == nil {
		e.state.Grid = grid
	} else {
		e.state.Grid = nil
	}
	return e.state
}

// SetState restores a persisted state. Rovers are re-registered so a corrupt
// state that breaks plateau invariants is rejected.
func (e *Engine) SetState(state *MissionState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}

	plateau := NewPlateau(state.Southwest, state.Northeast)
	for _, rover := range state.Rovers {
		if err := plateau.AddRover(rover.Name, rover.Position, rover.Direction); err != nil {
			return fmt.Errorf("failed to restore rover %q: %w", rover.Name, err)
		}
	}

	if state.MoveHistory == nil {
		state.MoveHistory = []MoveHistoryEntry{}
	}
	if state.CurrentMoves == nil {
		state.CurrentMoves = []MoveHistoryEntry{}
	}

	e.plateau = plateau
	e.state = state
	return nil
}

// Reset rebuilds the plateau from the scenario. Rovers added after the start are dropped.
func (e *Engine) Reset() *MissionState {
	// Preserve cumulative history and totals across resets
	prevHistory := e.state.MoveHistory
	prevTotal := e.state.TotalMoves

	plateau, err := NewPlateauFromScenario(e.scenario)
	if err != nil {
		// The scenario was validated in NewEngine
		panic(err)
	}
	e.plateau = plateau
	e.state = newMissionState(e.scenario)
	e.state.MoveHistory = prevHistory
	e.state.TotalMoves = prevTotal

	return e.GetState()
}

// AddRover registers a new rover on the running plateau
func (e *Engine) AddRover(name string, position Point, direction Direction) error {
	if name == "" {
		return fmt.Errorf("rover name is required")
	}
	if err := e.plateau.AddRover(name, position, direction); err != nil {
		return err
	}
	e.state.Message = fmt.Sprintf("%s deployed at (%d,%d) facing %s", name, position.X, position.Y, direction)
	return nil
}

// Move steps the named rover and records the attempt in history
func (e *Engine) Move(name string) (StepOutcome, error) {
	outcome, err := e.plateau.Step(name)
	if err != nil {
		return outcome, err
	}

	e.state.Message = e.scenario.describe(outcome)
	e.addMoveToHistory(outcome)
	return outcome, nil
}

// BulkMove steps each named rover once, in order. Unknown names are rejected before any step.
func (e *Engine) BulkMove(names []string) ([]StepOutcome, error) {
	for _, name := range names {
		if _, err := e.plateau.RoverPosition(name); err != nil {
			return nil, err
		}
	}

	outcomes := make([]StepOutcome, 0, len(names))
	for _, name := range names {
		outcome, err := e.Move(name)
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// RoverPosition returns the named rover's position
func (e *Engine) RoverPosition(name string) (Point, error) {
	return e.plateau.RoverPosition(name)
}

// GetPossibleMoves returns the rovers whose next step would succeed, in registration order
func (e *Engine) GetPossibleMoves() []string {
	possible := []string{}
	for _, rover := range e.plateau.Rovers() {
		if ok, err := e.plateau.CanStep(rover.Name); err == nil && ok {
			possible = append(possible, rover.Name)
		}
	}
	return possible
}

// GetMoveHistory returns the complete move history
func (e *Engine) GetMoveHistory() []MoveHistoryEntry {
	return e.state.MoveHistory
}

// GetLastMove returns the last move made, or nil if no moves
func (e *Engine) GetLastMove() *MoveHistoryEntry {
	if len(e.state.MoveHistory) == 0 {
		return nil
	}
	return &e.state.MoveHistory[len(e.state.MoveHistory)-1]
}

// RenderGrid draws the plateau north-up
func (e *Engine) RenderGrid() ([]string, error) {
	return RenderGrid(e.plateau.Southwest(), e.plateau.Northeast(), e.plateau.Rovers())
}

// addMoveToHistory appends to both the cumulative and current-segment histories
func (e *Engine) addMoveToHistory(outcome StepOutcome) {
	entry := MoveHistoryEntry{
		ID:         uuid.NewString(),
		Rover:      outcome.Rover,
		Direction:  outcome.Direction,
		From:       outcome.From,
		To:         outcome.To,
		Result:     outcome.Result,
		BlockedBy:  outcome.BlockedBy,
		Timestamp:  time.Now().Unix(),
		MoveNumber: e.state.TotalMoves + 1,
	}
	e.state.MoveHistory = append(e.state.MoveHistory, entry)
	e.state.TotalMoves++

	e.state.CurrentMoves = append(e.state.CurrentMoves, entry)
	e.state.CurrentMovesCount++
}
