package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/marsrover/mission/engine"
)

// missionServiceImpl implements the MissionService interface
type missionServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.Mutex
}

// NewMissionService creates a new mission service instance
func NewMissionService(sessions SessionManager, configs ConfigManager) MissionService {
	return &missionServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getScenarioID returns the scenario_id for a display name, used for consistent API responses
func (s *missionServiceImpl) getScenarioID(name string) string {
	available, err := s.configs.ListConfigs()
	if err == nil {
		for _, info := range available {
			if info.Name == name {
				return info.ScenarioID
			}
		}
	}
	return "default"
}

// CreateSession creates a new mission session
func (s *missionServiceImpl) CreateSession(ctx context.Context, scenarioID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var scenario *engine.Scenario
	var err error
	if scenarioID != "" {
		scenario, err = s.configs.LoadConfig(scenarioID)
		if err != nil {
			if errors.Is(err, ErrScenarioNotFound) {
				available, listErr := s.configs.ListConfigs()
				if listErr == nil && len(available) > 0 {
					ids := make([]string, 0, len(available))
					for _, info := range available {
						ids = append(ids, info.ScenarioID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available scenarios: %v", ErrScenarioNotFound, scenarioID, ids)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/scenarios to list available scenarios", ErrScenarioNotFound, scenarioID)
			}
			return nil, fmt.Errorf("failed to load scenario %s: %w", scenarioID, err)
		}
	} else {
		scenario = s.configs.GetDefault()
		scenarioID = s.getScenarioID(scenario.Name)
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", scenarioID, scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *missionServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions, oldest first
func (s *missionServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessions.List()
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})

	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *missionServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// AddRover registers a rover on the session's plateau
func (s *missionServiceImpl) AddRover(ctx context.Context, sessionID string, req AddRoverRequest) (*engine.MissionState, error) {
	direction, err := engine.ParseDirection(req.Direction)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if req.Name == "" {
		return nil, fmt.Errorf("%w: rover name is required", ErrInvalidRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	if err := sess.Engine.AddRover(req.Name, req.Position, direction); err != nil {
		return nil, err
	}

	s.save(sessionID, "rover added")
	return sess.Engine.GetState().Clone(), nil
}

// Move steps a single rover
func (s *missionServiceImpl) Move(ctx context.Context, sessionID, rover string, reset bool) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	if err := checkRover(sess.Engine, rover, reset); err != nil {
		return nil, err
	}

	events := []MissionEvent{}
	if reset {
		sess.Engine.Reset()
		events = append(events, resetEvent())
	}

	outcome, err := sess.Engine.Move(rover)
	if err != nil {
		return nil, err
	}

	state := sess.Engine.GetState().Clone()
	result := &MoveResult{
		Success: true,
		Moved:   outcome.Moved(),
		Outcome: &outcome,
		State:   state,
		Message: state.Message,
		Events:  append(events, moveEvent(outcome, state.Message)),
	}
	if !outcome.Moved() {
		result.AttemptedTo = attemptInfo(sess.Engine.GetPlateau(), outcome)
	}

	s.save(sessionID, "move")
	return result, nil
}

// BulkMove steps each named rover once, in order
func (s *missionServiceImpl) BulkMove(ctx context.Context, sessionID string, rovers []string, opts BulkMoveOptions) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	result := &BulkMoveResult{
		RequestedMoves: len(rovers),
		Events:         make([]MissionEvent, 0),
		Success:        true,
	}

	// Limit moves to prevent abuse
	if len(rovers) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		rovers = rovers[:engine.MaxBulkMoves]
	}

	// Reject the whole batch before any reset or step if a name is unknown
	for _, name := range rovers {
		if err := checkRover(sess.Engine, name, opts.Reset); err != nil {
			return nil, err
		}
	}

	if opts.Reset {
		sess.Engine.Reset()
		result.Events = append(result.Events, resetEvent())
	}

	for i, name := range rovers {
		outcome, err := sess.Engine.Move(name)
		if err != nil {
			return nil, err
		}

		result.MovesExecuted++
		result.Steps = append(result.Steps, outcome)
		result.Events = append(result.Events, moveEvent(outcome, sess.Engine.GetState().Message))

		if outcome.Moved() {
			result.MovedCount++
			continue
		}

		result.BlockedCount++
		if result.AttemptedTo == nil {
			result.AttemptedTo = attemptInfo(sess.Engine.GetPlateau(), outcome)
		}
		if opts.StopOnBlock {
			result.StoppedReason = fmt.Sprintf("move %d blocked: %s", i+1, name)
			result.StopReasonCode = string(outcome.Result)
			result.StoppedOnMove = i + 1
			break
		}
	}

	result.State = sess.Engine.GetState().Clone()
	result.Message = result.State.Message
	result.PossibleMoves = sess.Engine.GetPossibleMoves()

	s.save(sessionID, "bulk moves")
	return result, nil
}

// Reset restores a session's plateau to its scenario
func (s *missionServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.MissionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	state := sess.Engine.Reset().Clone()
	s.save(sessionID, "reset")
	return state, nil
}

// GetMissionState retrieves the current mission state
func (s *missionServiceImpl) GetMissionState(ctx context.Context, sessionID string) (*engine.MissionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetState().Clone(), nil
}

// GetRoverPosition returns a rover's position and whether its next step is open
func (s *missionServiceImpl) GetRoverPosition(ctx context.Context, sessionID, rover string) (*RoverInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	plateau := sess.Engine.GetPlateau()
	r, err := plateau.Rover(rover)
	if err != nil {
		return nil, err
	}

	info := &RoverInfo{Name: r.Name, Position: r.Position, Direction: r.Direction}
	info.CanMove, _ = plateau.CanStep(rover)
	if next, ok := r.Position.Step(r.Direction); ok && plateau.Contains(next) {
		info.NextCell = &next
	}
	return info, nil
}

// GetMoveHistory returns paginated move history
func (s *missionServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetMoveHistory()
	if opts.Rover != "" {
		filtered := make([]engine.MoveHistoryEntry, 0, len(history))
		for _, entry := range history {
			if entry.Rover == opts.Rover {
				filtered = append(filtered, entry)
			}
		}
		history = filtered
	}
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	moves := []engine.MoveHistoryEntry{}
	if start < total {
		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				moves = append(moves, history[i])
			}
		} else {
			moves = append(moves, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListScenarios returns available scenarios
func (s *missionServiceImpl) ListScenarios(ctx context.Context) ([]*ScenarioInfo, error) {
	return s.configs.ListConfigs()
}

// LoadScenario loads a specific scenario
func (s *missionServiceImpl) LoadScenario(ctx context.Context, scenarioID string) (*engine.Scenario, error) {
	return s.configs.LoadConfig(scenarioID)
}

// SaveScenario validates and saves a scenario to disk
func (s *missionServiceImpl) SaveScenario(ctx context.Context, scenarioID string, scenario *engine.Scenario) error {
	return s.configs.SaveConfig(scenarioID, scenario)
}

// getSession looks a session up and touches its access time. Caller holds s.mu.
func (s *missionServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// checkRover returns ErrUnknownRover if name will not be on the plateau when
// the move runs. After a reset only the scenario's rovers exist.
func checkRover(eng *engine.Engine, name string, reset bool) error {
	if !reset {
		_, err := eng.RoverPosition(name)
		return err
	}
	for _, spec := range eng.GetScenario().Rovers {
		if spec.Name == name {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", engine.ErrUnknownRover, name)
}

// save persists a session after a mutation; failures are logged, not returned
func (s *missionServiceImpl) save(sessionID, after string) {
	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: Failed to persist session %s after %s: %v", sessionID, after, err)
	}
}

func sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ScenarioID:     sess.ScenarioID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		State:          sess.Engine.GetState().Clone(),
		Scenario:       sess.Scenario,
	}
}

func resetEvent() MissionEvent {
	return MissionEvent{
		Type:      "reset",
		Message:   "Mission reset to initial deployment",
		Timestamp: time.Now(),
	}
}

func moveEvent(outcome engine.StepOutcome, message string) MissionEvent {
	eventType := "move"
	if !outcome.Moved() {
		eventType = "blocked"
	}
	position := outcome.To
	return MissionEvent{
		Type:      eventType,
		Rover:     outcome.Rover,
		Message:   message,
		Timestamp: time.Now(),
		Position:  &position,
	}
}

// attemptInfo describes the cell a blocked rover tried to enter
func attemptInfo(plateau *engine.Plateau, outcome engine.StepOutcome) *AttemptInfo {
	return &AttemptInfo{
		X:         outcome.Attempted.X,
		Y:         outcome.Attempted.Y,
		Reason:    string(outcome.Result),
		InBounds:  outcome.Result != engine.StepBlockedBoundary && plateau.Contains(outcome.Attempted),
		BlockedBy: outcome.BlockedBy,
	}
}
