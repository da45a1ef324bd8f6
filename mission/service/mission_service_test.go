package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/marsrover/mission/engine"
	"github.com/wricardo/mcp-training/marsrover/mission/service"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
	saves    int
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id, scenarioID string, scenario *engine.Scenario) (*service.Session, error) {
	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	eng, err := engine.NewEngine(scenario)
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		ScenarioID:     scenarioID,
		Engine:         eng,
		Scenario:       scenario,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, service.ErrSessionNotFound
	}
	return session, nil
}

func (m *MockSessionManager) GetOrCreate(id, scenarioID string, scenario *engine.Scenario) (*service.Session, error) {
	if session, exists := m.sessions[id]; exists {
		return session, nil
	}
	return m.Create(id, scenarioID, scenario)
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return service.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return service.ErrSessionNotFound
}

func (m *MockSessionManager) Save(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return service.ErrSessionNotFound
	}
	m.saves++
	return nil
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.Scenario
}

// newTestScenario returns a 5x5 plateau where R1 runs into R2 after one step
// and R3 faces the eastern edge.
func newTestScenario() *engine.Scenario {
	return &engine.Scenario{
		Name:        "test",
		Description: "Test scenario",
		Corners:     []engine.Point{{X: 0, Y: 0}, {X: 4, Y: 4}},
		Rovers: []engine.RoverSpec{
			{Name: "R1", Position: engine.Point{X: 0, Y: 0}, Direction: engine.North},
			{Name: "R2", Position: engine.Point{X: 0, Y: 2}, Direction: engine.South},
			{Name: "R3", Position: engine.Point{X: 4, Y: 4}, Direction: engine.East},
		},
	}
}

func NewMockConfigManager() *MockConfigManager {
	scenario := newTestScenario()
	return &MockConfigManager{
		configs: map[string]*engine.Scenario{
			"test": scenario,
		},
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.Scenario, error) {
	scenario, exists := m.configs[name]
	if !exists {
		return nil, service.ErrScenarioNotFound
	}
	return scenario, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ScenarioInfo, error) {
	result := make([]*service.ScenarioInfo, 0, len(m.configs))
	for id, scenario := range m.configs {
		result = append(result, &service.ScenarioInfo{
			Filename:    id + ".json",
			ScenarioID:  id,
			Name:        scenario.Name,
			Description: scenario.Description,
			RoverCount:  len(scenario.Rovers),
		})
	}
	return result, nil
}

func (m *MockConfigManager) GetDefault() *engine.Scenario {
	return m.configs["test"]
}

func (m *MockConfigManager) SaveConfig(name string, scenario *engine.Scenario) error {
	if err := engine.ValidateScenario(scenario); err != nil {
		return fmt.Errorf("%w: %v", service.ErrInvalidScenario, err)
	}
	m.configs[name] = scenario
	return nil
}

func newTestService(t *testing.T) (service.MissionService, *MockSessionManager, string) {
	t.Helper()
	sessions := NewMockSessionManager()
	svc := service.NewMissionService(sessions, NewMockConfigManager())

	info, err := svc.CreateSession(context.Background(), "test")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	return svc, sessions, info.ID
}

// Test cases
func TestMissionService_CreateSession(t *testing.T) {
	ctx := context.Background()
	svc := service.NewMissionService(NewMockSessionManager(), NewMockConfigManager())

	tests := []struct {
		name       string
		scenarioID string
		wantID     string
		wantErr    error
	}{
		{
			name:       "create with default scenario",
			scenarioID: "",
			wantID:     "test",
		},
		{
			name:       "create with specific scenario",
			scenarioID: "test",
			wantID:     "test",
		},
		{
			name:       "create with unknown scenario",
			scenarioID: "nonexistent",
			wantErr:    service.ErrScenarioNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := svc.CreateSession(ctx, tt.scenarioID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("CreateSession() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateSession() unexpected error: %v", err)
			}
			if info.ScenarioID != tt.wantID {
				t.Errorf("CreateSession() scenario_id = %s, want %s", info.ScenarioID, tt.wantID)
			}
			if info.State == nil || len(info.State.Rovers) != 3 {
				t.Errorf("CreateSession() expected 3 rovers in state, got %+v", info.State)
			}
		})
	}
}

func TestMissionService_Move(t *testing.T) {
	ctx := context.Background()
	svc, sessions, sessionID := newTestService(t)

	// R1 advances into the free cell
	res, err := svc.Move(ctx, sessionID, "R1", false)
	if err != nil {
		t.Fatalf("Move R1 failed: %v", err)
	}
	if !res.Success || !res.Moved {
		t.Errorf("Expected R1 to move, got success=%v moved=%v", res.Success, res.Moved)
	}
	if res.Outcome.To != (engine.Point{X: 0, Y: 1}) {
		t.Errorf("Expected R1 at (0,1), got %v", res.Outcome.To)
	}
	if res.AttemptedTo != nil {
		t.Errorf("Expected no attempted_to on a successful step, got %+v", res.AttemptedTo)
	}

	// R1 is now directly south of R2
	res, err = svc.Move(ctx, sessionID, "R1", false)
	if err != nil {
		t.Fatalf("Blocked move should not error: %v", err)
	}
	if !res.Success || res.Moved {
		t.Errorf("Expected blocked success, got success=%v moved=%v", res.Success, res.Moved)
	}
	if res.AttemptedTo == nil || res.AttemptedTo.Reason != string(engine.StepBlockedRover) || res.AttemptedTo.BlockedBy != "R2" {
		t.Errorf("Expected attempted_to blocked by R2, got %+v", res.AttemptedTo)
	}
	if !res.AttemptedTo.InBounds {
		t.Error("Rover-blocked target should be in bounds")
	}

	// R3 faces the east edge
	res, err = svc.Move(ctx, sessionID, "R3", false)
	if err != nil {
		t.Fatalf("Move R3 failed: %v", err)
	}
	if res.Moved || res.AttemptedTo == nil || res.AttemptedTo.Reason != string(engine.StepBlockedBoundary) || res.AttemptedTo.InBounds {
		t.Errorf("Expected boundary block for R3, got %+v", res.AttemptedTo)
	}

	// Move with reset starts from the scenario again
	res, err = svc.Move(ctx, sessionID, "R1", true)
	if err != nil {
		t.Fatalf("Move with reset failed: %v", err)
	}
	if !res.Moved || len(res.Events) != 2 || res.Events[0].Type != "reset" {
		t.Errorf("Expected reset then move events, got %+v", res.Events)
	}

	if _, err := svc.Move(ctx, sessionID, "ghost", false); !errors.Is(err, engine.ErrUnknownRover) {
		t.Errorf("Expected ErrUnknownRover, got %v", err)
	}
	if _, err := svc.Move(ctx, "nonexistent", "R1", false); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}

	if sessions.saves != 4 {
		t.Errorf("Expected 4 auto-saves, got %d", sessions.saves)
	}
}

func TestMissionService_FailedResetMoveLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	svc, sessions, sessionID := newTestService(t)

	if _, err := svc.Move(ctx, sessionID, "R1", false); err != nil {
		t.Fatalf("Move R1 failed: %v", err)
	}
	// R4 exists now but not in the scenario, so a reset would remove it
	if _, err := svc.AddRover(ctx, sessionID, service.AddRoverRequest{Name: "R4", Position: engine.Point{X: 2, Y: 2}, Direction: "W"}); err != nil {
		t.Fatalf("AddRover failed: %v", err)
	}

	before, err := svc.GetMissionState(ctx, sessionID)
	if err != nil {
		t.Fatalf("GetMissionState failed: %v", err)
	}
	before = before.Clone()
	history, err := svc.GetMoveHistory(ctx, sessionID, service.HistoryOptions{})
	if err != nil {
		t.Fatalf("GetMoveHistory failed: %v", err)
	}
	savesBefore := sessions.saves

	attempts := []struct {
		name string
		run  func() error
	}{
		{"move unknown", func() error { _, err := svc.Move(ctx, sessionID, "ghost", true); return err }},
		{"move added rover", func() error { _, err := svc.Move(ctx, sessionID, "R4", true); return err }},
		{"bulk with unknown", func() error {
			_, err := svc.BulkMove(ctx, sessionID, []string{"R1", "ghost"}, service.BulkMoveOptions{Reset: true})
			return err
		}},
		{"bulk with added rover", func() error {
			_, err := svc.BulkMove(ctx, sessionID, []string{"R4"}, service.BulkMoveOptions{Reset: true})
			return err
		}},
	}

	for _, tt := range attempts {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, engine.ErrUnknownRover) {
				t.Fatalf("Expected ErrUnknownRover, got %v", err)
			}

			after, err := svc.GetMissionState(ctx, sessionID)
			if err != nil {
				t.Fatalf("GetMissionState failed: %v", err)
			}
			if after.TotalMoves != before.TotalMoves {
				t.Errorf("Expected %d total moves, got %d", before.TotalMoves, after.TotalMoves)
			}
			if len(after.Rovers) != len(before.Rovers) {
				t.Fatalf("Expected %d rovers, got %d", len(before.Rovers), len(after.Rovers))
			}
			for i, rover := range after.Rovers {
				if rover.Position != before.Rovers[i].Position {
					t.Errorf("%s moved from %v to %v", rover.Name, before.Rovers[i].Position, rover.Position)
				}
			}

			got, err := svc.GetMoveHistory(ctx, sessionID, service.HistoryOptions{})
			if err != nil {
				t.Fatalf("GetMoveHistory failed: %v", err)
			}
			if got.TotalMoves != history.TotalMoves {
				t.Errorf("Expected %d history entries, got %d", history.TotalMoves, got.TotalMoves)
			}
			if sessions.saves != savesBefore {
				t.Errorf("Expected no saves, got %d", sessions.saves-savesBefore)
			}
		})
	}

	// A scenario rover with reset still works and drops the added rover
	res, err := svc.Move(ctx, sessionID, "R1", true)
	if err != nil {
		t.Fatalf("Move with reset failed: %v", err)
	}
	if !res.Moved || len(res.State.Rovers) != 3 {
		t.Errorf("Expected R1 to move on the reset plateau of 3 rovers, got moved=%v rovers=%d", res.Moved, len(res.State.Rovers))
	}
}

func TestMissionService_BulkMove(t *testing.T) {
	ctx := context.Background()
	svc, _, sessionID := newTestService(t)

	tests := []struct {
		name        string
		rovers      []string
		opts        service.BulkMoveOptions
		executed    int
		moved       int
		blocked     int
		stopCode    string
		wantErr     error
		wantTrimmed bool
	}{
		{
			name:     "continues past blocks",
			rovers:   []string{"R1", "R1", "R3", "R2"},
			opts:     service.BulkMoveOptions{Reset: true},
			executed: 4,
			moved:    1,
			blocked:  3,
		},
		{
			name:     "stops on first block",
			rovers:   []string{"R1", "R1", "R3"},
			opts:     service.BulkMoveOptions{Reset: true, StopOnBlock: true},
			executed: 2,
			moved:    1,
			blocked:  1,
			stopCode: string(engine.StepBlockedRover),
		},
		{
			name:   "empty list",
			rovers: []string{},
		},
		{
			name:    "unknown rover rejects the batch",
			rovers:  []string{"R1", "ghost"},
			opts:    service.BulkMoveOptions{Reset: true},
			wantErr: engine.ErrUnknownRover,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.BulkMove(ctx, sessionID, tt.rovers, tt.opts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("BulkMove() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("BulkMove() unexpected error: %v", err)
			}
			if result.RequestedMoves != len(tt.rovers) {
				t.Errorf("RequestedMoves = %d, want %d", result.RequestedMoves, len(tt.rovers))
			}
			if result.MovesExecuted != tt.executed || result.MovedCount != tt.moved || result.BlockedCount != tt.blocked {
				t.Errorf("executed/moved/blocked = %d/%d/%d, want %d/%d/%d",
					result.MovesExecuted, result.MovedCount, result.BlockedCount, tt.executed, tt.moved, tt.blocked)
			}
			if result.StopReasonCode != tt.stopCode {
				t.Errorf("StopReasonCode = %q, want %q", result.StopReasonCode, tt.stopCode)
			}
			if len(result.Steps) != tt.executed {
				t.Errorf("Expected %d steps, got %d", tt.executed, len(result.Steps))
			}
		})
	}

	// The failed batch above must not have moved R1
	state, err := svc.Reset(ctx, sessionID)
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if _, err := svc.BulkMove(ctx, sessionID, []string{"R1", "ghost"}, service.BulkMoveOptions{}); err == nil {
		t.Fatal("Expected error for unknown rover")
	}
	after, _ := svc.GetRoverPosition(ctx, sessionID, "R1")
	if after.Position != state.Rovers[0].Position {
		t.Errorf("R1 moved during a rejected batch: %v", after.Position)
	}
}

func TestMissionService_BulkMoveTruncates(t *testing.T) {
	ctx := context.Background()
	svc, _, sessionID := newTestService(t)

	rovers := make([]string, engine.MaxBulkMoves+10)
	for i := range rovers {
		rovers[i] = "R3"
	}

	result, err := svc.BulkMove(ctx, sessionID, rovers, service.BulkMoveOptions{})
	if err != nil {
		t.Fatalf("BulkMove failed: %v", err)
	}
	if !result.Truncated || result.Limit != engine.MaxBulkMoves || result.MovesExecuted != engine.MaxBulkMoves {
		t.Errorf("Expected truncation at %d, got truncated=%v executed=%d", engine.MaxBulkMoves, result.Truncated, result.MovesExecuted)
	}
}

func TestMissionService_AddRover(t *testing.T) {
	ctx := context.Background()
	svc, _, sessionID := newTestService(t)

	tests := []struct {
		name    string
		req     service.AddRoverRequest
		wantErr error
	}{
		{"valid", service.AddRoverRequest{Name: "R4", Position: engine.Point{X: 2, Y: 2}, Direction: "W"}, nil},
		{"duplicate", service.AddRoverRequest{Name: "R1", Position: engine.Point{X: 3, Y: 3}, Direction: "N"}, engine.ErrDuplicateName},
		{"out of bounds", service.AddRoverRequest{Name: "R5", Position: engine.Point{X: 9, Y: 9}, Direction: "N"}, engine.ErrOutOfBounds},
		{"occupied", service.AddRoverRequest{Name: "R6", Position: engine.Point{X: 0, Y: 0}, Direction: "N"}, engine.ErrPositionOccupied},
		{"bad direction", service.AddRoverRequest{Name: "R7", Position: engine.Point{X: 1, Y: 1}, Direction: "up"}, service.ErrInvalidRequest},
		{"missing name", service.AddRoverRequest{Position: engine.Point{X: 1, Y: 1}, Direction: "N"}, service.ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, err := svc.AddRover(ctx, sessionID, tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("AddRover() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("AddRover() unexpected error: %v", err)
			}
			if len(state.Rovers) != 4 || state.Rovers[3].Name != "R4" {
				t.Errorf("Expected R4 registered last, got %+v", state.Rovers)
			}
		})
	}
}

func TestMissionService_GetRoverPosition(t *testing.T) {
	ctx := context.Background()
	svc, _, sessionID := newTestService(t)

	info, err := svc.GetRoverPosition(ctx, sessionID, "R1")
	if err != nil {
		t.Fatalf("GetRoverPosition failed: %v", err)
	}
	if !info.CanMove || info.NextCell == nil || *info.NextCell != (engine.Point{X: 0, Y: 1}) {
		t.Errorf("Expected R1 free to step to (0,1), got %+v", info)
	}

	info, _ = svc.GetRoverPosition(ctx, sessionID, "R3")
	if info.CanMove || info.NextCell != nil {
		t.Errorf("Expected R3 stuck at the edge, got %+v", info)
	}

	if _, err := svc.GetRoverPosition(ctx, sessionID, "ghost"); !errors.Is(err, engine.ErrUnknownRover) {
		t.Errorf("Expected ErrUnknownRover, got %v", err)
	}
}

func TestMissionService_GetMoveHistory(t *testing.T) {
	ctx := context.Background()
	svc, _, sessionID := newTestService(t)

	_, err := svc.BulkMove(ctx, sessionID, []string{"R1", "R3", "R1", "R2"}, service.BulkMoveOptions{})
	if err != nil {
		t.Fatalf("Failed to make moves: %v", err)
	}

	tests := []struct {
		name      string
		sessionID string
		opts      service.HistoryOptions
		wantCount int
		wantFirst string
		wantTotal int
		wantErr   bool
	}{
		{
			name:      "default options are newest first",
			sessionID: sessionID,
			opts:      service.HistoryOptions{},
			wantCount: 4,
			wantFirst: "R2",
			wantTotal: 4,
		},
		{
			name:      "ascending with pagination",
			sessionID: sessionID,
			opts:      service.HistoryOptions{Page: 2, Limit: 3, Order: "asc"},
			wantCount: 1,
			wantFirst: "R2",
			wantTotal: 4,
		},
		{
			name:      "descending second page",
			sessionID: sessionID,
			opts:      service.HistoryOptions{Page: 2, Limit: 2, Order: "desc"},
			wantCount: 2,
			wantFirst: "R3",
			wantTotal: 4,
		},
		{
			name:      "filtered by rover",
			sessionID: sessionID,
			opts:      service.HistoryOptions{Rover: "R1", Order: "asc"},
			wantCount: 2,
			wantFirst: "R1",
			wantTotal: 2,
		},
		{
			name:      "page past the end",
			sessionID: sessionID,
			opts:      service.HistoryOptions{Page: 5, Limit: 2},
			wantCount: 0,
			wantTotal: 4,
		},
		{
			name:      "invalid session",
			sessionID: "nonexistent",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.GetMoveHistory(ctx, tt.sessionID, tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetMoveHistory() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if result.Moves == nil {
				t.Fatal("GetMoveHistory() returned nil moves slice")
			}
			if len(result.Moves) != tt.wantCount || result.TotalMoves != tt.wantTotal {
				t.Errorf("Expected %d of %d moves, got %d of %d", tt.wantCount, tt.wantTotal, len(result.Moves), result.TotalMoves)
			}
			if tt.wantFirst != "" && len(result.Moves) > 0 && result.Moves[0].Rover != tt.wantFirst {
				t.Errorf("Expected first move by %s, got %s", tt.wantFirst, result.Moves[0].Rover)
			}
		})
	}
}

func TestMissionService_ListAndDeleteSessions(t *testing.T) {
	ctx := context.Background()
	svc := service.NewMissionService(NewMockSessionManager(), NewMockConfigManager())

	var ids []string
	for i := 0; i < 3; i++ {
		info, err := svc.CreateSession(ctx, "test")
		if err != nil {
			t.Fatalf("Failed to create session %d: %v", i, err)
		}
		ids = append(ids, info.ID)
	}

	sessionList, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(sessionList) != 3 {
		t.Errorf("ListSessions() returned %d sessions, want 3", len(sessionList))
	}

	if err := svc.DeleteSession(ctx, ids[0]); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if err := svc.DeleteSession(ctx, ids[0]); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound on second delete, got %v", err)
	}
	if _, err := svc.GetSession(ctx, ids[0]); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected deleted session to be gone, got %v", err)
	}
}

func TestMissionService_Reset(t *testing.T) {
	ctx := context.Background()
	svc, _, sessionID := newTestService(t)

	if _, err := svc.Move(ctx, sessionID, "R1", false); err != nil {
		t.Fatalf("Failed to move: %v", err)
	}
	if _, err := svc.AddRover(ctx, sessionID, service.AddRoverRequest{Name: "R4", Position: engine.Point{X: 3, Y: 3}, Direction: "S"}); err != nil {
		t.Fatalf("Failed to add rover: %v", err)
	}

	state, err := svc.Reset(ctx, sessionID)
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	if len(state.Rovers) != 3 {
		t.Errorf("Expected rovers added after start to be dropped, got %d rovers", len(state.Rovers))
	}
	if state.Rovers[0].Position != (engine.Point{X: 0, Y: 0}) {
		t.Errorf("Expected R1 back at origin, got %v", state.Rovers[0].Position)
	}
	if state.TotalMoves != 1 || state.CurrentMovesCount != 0 {
		t.Errorf("Expected cumulative total 1 and empty segment, got %d/%d", state.TotalMoves, state.CurrentMovesCount)
	}
}

func TestMissionService_Scenarios(t *testing.T) {
	ctx := context.Background()
	svc := service.NewMissionService(NewMockSessionManager(), NewMockConfigManager())

	custom := newTestScenario()
	custom.Name = "custom"
	if err := svc.SaveScenario(ctx, "custom", custom); err != nil {
		t.Fatalf("SaveScenario() error = %v", err)
	}

	loaded, err := svc.LoadScenario(ctx, "custom")
	if err != nil || loaded.Name != "custom" {
		t.Fatalf("LoadScenario() = %v, %v", loaded, err)
	}

	list, err := svc.ListScenarios(ctx)
	if err != nil || len(list) != 2 {
		t.Errorf("Expected 2 scenarios, got %d (err=%v)", len(list), err)
	}

	bad := newTestScenario()
	bad.Corners = nil
	if err := svc.SaveScenario(ctx, "bad", bad); !errors.Is(err, service.ErrInvalidScenario) {
		t.Errorf("Expected ErrInvalidScenario, got %v", err)
	}
}
