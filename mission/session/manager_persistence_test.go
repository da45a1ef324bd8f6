package session

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/marsrover/mission/config"
	"github.com/wricardo/mcp-training/marsrover/mission/service"
)

func TestManagerWithPersistence(t *testing.T) {
	backends := []struct {
		name string
		open func(t *testing.T, configManager *config.Manager) SessionPersistence
	}{
		{
			name: "file",
			open: func(t *testing.T, configManager *config.Manager) SessionPersistence {
				p, err := NewFilePersistence(t.TempDir(), configManager)
				if err != nil {
					t.Fatalf("Failed to create file persistence: %v", err)
				}
				return p
			},
		},
		{
			name: "sqlite",
			open: func(t *testing.T, configManager *config.Manager) SessionPersistence {
				p, err := NewSQLitePersistence(filepath.Join(t.TempDir(), "sessions.db"), configManager)
				if err != nil {
					t.Fatalf("Failed to create sqlite persistence: %v", err)
				}
				t.Cleanup(func() { p.Close() })
				return p
			},
		},
	}

	for _, backend := range backends {
		t.Run(backend.name, func(t *testing.T) {
			configManager, err := config.NewManager("../../configs")
			if err != nil {
				t.Fatalf("Failed to create config manager: %v", err)
			}
			persistence := backend.open(t, configManager)
			manager := NewManagerWithPersistence(persistence)
			scenario := configManager.GetDefault()

			t.Run("Create Session Auto-Saves", func(t *testing.T) {
				session, err := manager.Create("auto1", "classic", scenario)
				if err != nil {
					t.Fatalf("Failed to create session: %v", err)
				}
				if !persistence.Exists(session.ID) {
					t.Error("Session should be auto-saved on creation")
				}
			})

			t.Run("Get Session Loads from Persistence", func(t *testing.T) {
				manager2 := NewManagerWithPersistence(persistence)

				session, err := manager2.Get("AUTO1")
				if err != nil {
					t.Fatalf("Failed to get session from persistence: %v", err)
				}
				if session.ID != "auto1" {
					t.Errorf("Expected ID auto1, got %s", session.ID)
				}

				cached, err := manager2.Get("auto1")
				if err != nil || cached != session {
					t.Error("Session should be cached in memory after loading from persistence")
				}
			})

			t.Run("Save Method Persists Changes", func(t *testing.T) {
				session, err := manager.Get("auto1")
				if err != nil {
					t.Fatalf("Failed to get session: %v", err)
				}

				outcome, err := session.Engine.Move("R1")
				if err != nil || !outcome.Moved() {
					t.Fatalf("Expected R1 to move, got %+v (err=%v)", outcome, err)
				}

				if err := manager.Save("auto1"); err != nil {
					t.Fatalf("Failed to save session: %v", err)
				}

				manager3 := NewManagerWithPersistence(persistence)
				loaded, err := manager3.Get("auto1")
				if err != nil {
					t.Fatalf("Failed to load session after manual save: %v", err)
				}

				pos, _ := loaded.Engine.RoverPosition("R1")
				if pos != outcome.To {
					t.Errorf("Rover position should be persisted, got %v want %v", pos, outcome.To)
				}
				if len(loaded.Engine.GetMoveHistory()) != 1 {
					t.Error("Move history should be persisted")
				}
				if loaded.ScenarioID != "classic" {
					t.Errorf("Expected scenario ID classic, got %s", loaded.ScenarioID)
				}
			})

			t.Run("Delete Removes from Persistence", func(t *testing.T) {
				session, err := manager.Create("delete_test", "classic", scenario)
				if err != nil {
					t.Fatalf("Failed to create session: %v", err)
				}

				if err := manager.Delete(session.ID); err != nil {
					t.Fatalf("Failed to delete session: %v", err)
				}
				if persistence.Exists(session.ID) {
					t.Error("Session should be removed from persistence on delete")
				}
				if _, err := manager.Get(session.ID); err == nil {
					t.Error("Should not be able to get deleted session")
				}
			})

			t.Run("Load Persisted Sessions on Startup", func(t *testing.T) {
				ids := []string{"startup1", "startup2", "startup3"}
				for _, id := range ids {
					if _, err := manager.Create(id, "classic", scenario); err != nil {
						t.Fatalf("Failed to create session %s: %v", id, err)
					}
				}

				manager4 := NewManagerWithPersistence(persistence)
				if err := manager4.LoadPersistedSessions(); err != nil {
					t.Fatalf("Failed to load persisted sessions: %v", err)
				}

				for _, id := range ids {
					if _, err := manager4.Get(id); err != nil {
						t.Errorf("Failed to get session %s after loading persisted sessions: %v", id, err)
					}
				}
				// auto1 plus the three startup sessions
				if manager4.Count() != 4 {
					t.Errorf("Expected 4 sessions, got %d", manager4.Count())
				}
			})

			t.Run("Update Last Accessed Persists", func(t *testing.T) {
				session, err := manager.Get("startup1")
				if err != nil {
					t.Fatalf("Failed to get session: %v", err)
				}

				originalTime := session.LastAccessedAt
				time.Sleep(10 * time.Millisecond)

				if err := manager.UpdateLastAccessed("startup1"); err != nil {
					t.Fatalf("Failed to update last accessed: %v", err)
				}

				manager5 := NewManagerWithPersistence(persistence)
				loaded, err := manager5.Get("startup1")
				if err != nil {
					t.Fatalf("Failed to load session: %v", err)
				}
				if !loaded.LastAccessedAt.After(originalTime) {
					t.Error("Last accessed time should be updated and persisted")
				}
			})

			t.Run("Save All Sessions", func(t *testing.T) {
				if err := manager.SaveAllSessions(); err != nil {
					t.Fatalf("SaveAllSessions failed: %v", err)
				}
			})

			t.Run("Cleanup Keeps Persisted Copy", func(t *testing.T) {
				session, _ := manager.Get("startup2")
				session.LastAccessedAt = time.Now().Add(-48 * time.Hour)
				if removed := manager.CleanupExpiredSessions(24 * time.Hour); removed != 1 {
					t.Errorf("Expected 1 evicted session, got %d", removed)
				}
				if _, err := manager.Get("startup2"); err != nil {
					t.Errorf("Evicted session should reload from persistence: %v", err)
				}
			})
		})
	}
}

// rejectingPersistence stores nothing and fails every save
type rejectingPersistence struct {
	saves int
}

func (p *rejectingPersistence) Save(session *service.Session) error {
	p.saves++
	return errors.New("disk full")
}

func (p *rejectingPersistence) Load(id string) (*service.Session, error) {
	return nil, ErrSessionNotFound
}

func (p *rejectingPersistence) Delete(id string) error { return ErrSessionNotFound }

func (p *rejectingPersistence) ListAll() ([]string, error) { return nil, nil }

func (p *rejectingPersistence) Exists(id string) bool { return false }

func TestManagerCreate_PersistFailure(t *testing.T) {
	persistence := &rejectingPersistence{}
	manager := NewManagerWithPersistence(persistence)

	session, err := manager.Create("ab12", "test", createTestScenario())
	if err == nil {
		t.Fatal("Expected error when the store rejects the session")
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Expected store error to be wrapped, got %v", err)
	}
	if session != nil {
		t.Errorf("Expected no session, got %+v", session)
	}
	if persistence.saves != 1 {
		t.Errorf("Expected 1 save attempt, got %d", persistence.saves)
	}

	// Nothing is left in memory for a store sync to find
	if manager.Count() != 0 || len(manager.List()) != 0 {
		t.Errorf("Expected no sessions in memory, got %d", manager.Count())
	}
	if _, err := manager.Get("ab12"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}

	// The ID is free again once the store recovers
	manager = NewManager()
	if _, err := manager.Create("ab12", "test", createTestScenario()); err != nil {
		t.Errorf("Create without persistence failed: %v", err)
	}
}
