package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/mcp-training/marsrover/mission/config"
	"github.com/wricardo/mcp-training/marsrover/mission/session"
	"github.com/wricardo/mcp-training/marsrover/transport/mcp"
)

// withFlags points the configuration flags at test directories for one test
func withFlags(t *testing.T, cfgDir, storeKind string) {
	t.Helper()
	origConfig, origSessions, origStore := *configDir, *sessionsDir, *store
	*configDir = cfgDir
	*sessionsDir = t.TempDir()
	*store = storeKind
	t.Cleanup(func() {
		*configDir, *sessionsDir, *store = origConfig, origSessions, origStore
	})
}

func TestConstants(t *testing.T) {
	if Version != "1.0.0" {
		t.Errorf("Expected version 1.0.0, got %s", Version)
	}
	if AppName != "Mars Rover Mission Server" {
		t.Errorf("Unexpected app name %s", AppName)
	}
}

func TestFlagDefaults(t *testing.T) {
	if *port <= 0 || *port > 65535 {
		t.Errorf("Invalid default port: %d", *port)
	}
	if *host == "" {
		t.Error("Host should have a default value")
	}
	if *configDir == "" {
		t.Error("Config directory should have a default value")
	}
	if *store != "file" && os.Getenv("SESSION_STORE") == "" {
		t.Errorf("Expected file store by default, got %s", *store)
	}
}

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("MARSROVER_TEST_VALUE", "from-env")

	if got := envOrDefault("MARSROVER_TEST_VALUE", "fallback"); got != "from-env" {
		t.Errorf("Expected env value, got %s", got)
	}
	if got := envOrDefault("MARSROVER_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("Expected fallback, got %s", got)
	}
}

func TestInitializeServices(t *testing.T) {
	for _, kind := range []string{"file", "sqlite"} {
		t.Run(kind, func(t *testing.T) {
			withFlags(t, "configs", kind)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			svc, err := initializeServices(ctx)
			if err != nil {
				t.Fatalf("Failed to initialize services: %v", err)
			}

			info, err := svc.mission.CreateSession(ctx, "classic")
			if err != nil {
				t.Fatalf("CreateSession failed: %v", err)
			}
			if _, err := svc.mission.Move(ctx, info.ID, "R1", false); err != nil {
				t.Fatalf("Move failed: %v", err)
			}
			svc.Close()

			// A fresh process sees the persisted session
			restarted, err := initializeServices(ctx)
			if err != nil {
				t.Fatalf("Failed to reinitialize services: %v", err)
			}
			defer restarted.Close()

			state, err := restarted.mission.GetMissionState(ctx, info.ID)
			if err != nil {
				t.Fatalf("Session %s not restored: %v", info.ID, err)
			}
			if state.TotalMoves != 1 {
				t.Errorf("Expected 1 move after restart, got %d", state.TotalMoves)
			}
		})
	}
}

func TestInitializeServices_Errors(t *testing.T) {
	t.Run("invalid config dir", func(t *testing.T) {
		withFlags(t, "/non/existent/path", "file")
		if _, err := initializeServices(context.Background()); err == nil {
			t.Error("Expected error for non-existent config directory")
		}
	})

	t.Run("unknown store", func(t *testing.T) {
		withFlags(t, "configs", "etcd")
		_, err := initializeServices(context.Background())
		if err == nil || !strings.Contains(err.Error(), "unknown session store") {
			t.Errorf("Expected unknown store error, got %v", err)
		}
	})
}

func TestPruneOrphanedSessions(t *testing.T) {
	configs, err := config.NewManager("configs")
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}
	dir := t.TempDir()
	persistence, err := session.NewFilePersistence(dir, configs)
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}
	manager := session.NewManagerWithPersistence(persistence)

	kept, err := manager.Create("keep", "classic", configs.GetDefault())
	if err != nil {
		t.Fatal(err)
	}
	gone, err := manager.Create("gone", "classic", configs.GetDefault())
	if err != nil {
		t.Fatal(err)
	}

	if err := os.Remove(filepath.Join(dir, gone.ID+".json")); err != nil {
		t.Fatalf("Failed to remove session file: %v", err)
	}

	if pruned := pruneOrphanedSessions(manager, persistence); pruned != 1 {
		t.Errorf("Expected 1 pruned session, got %d", pruned)
	}
	if _, err := manager.Get(kept.ID); err != nil {
		t.Errorf("Kept session should remain: %v", err)
	}
	if manager.Count() != 1 {
		t.Errorf("Expected 1 session in memory, got %d", manager.Count())
	}
}

func TestMCPHTTPHandler(t *testing.T) {
	handler := mcpHTTPHandler(mcp.NewClient("http://127.0.0.1:1"))

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest("GET", "/mcp", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET, got %d", w.Code)
	}

	body := `{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`
	w = httptest.NewRecorder()
	handler(w, httptest.NewRequest("POST", "/mcp", bytes.NewBufferString(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	for _, tool := range []string{"move_rover", "bulk_move", "describe_cell"} {
		if !strings.Contains(w.Body.String(), tool) {
			t.Errorf("Expected tool %s in tools/list response", tool)
		}
	}
}

// trackedBody records whether the response body was closed
type trackedBody struct {
	io.Reader
	closed bool
}

func (b *trackedBody) Close() error {
	b.closed = true
	return nil
}

type stubTransport struct {
	status int
	body   *trackedBody
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return &http.Response{StatusCode: s.status, Body: s.body, Header: make(http.Header), Request: req}, nil
}

func TestAPIAvailable(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{"healthy", http.StatusOK, true},
		{"not found still answers", http.StatusNotFound, true},
		{"server error", http.StatusInternalServerError, false},
		{"unavailable", http.StatusServiceUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := &trackedBody{Reader: strings.NewReader(`{"status":"healthy"}`)}
			client := &http.Client{Transport: &stubTransport{status: tt.status, body: body}}

			if got := apiAvailable(client, "http://api.test"); got != tt.want {
				t.Errorf("apiAvailable() = %v, want %v", got, tt.want)
			}
			if !body.closed {
				t.Error("Expected response body to be closed")
			}
		})
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	url := server.URL
	if !apiAvailable(server.Client(), url) {
		t.Error("Expected live server to be available")
	}
	server.Close()

	if apiAvailable(&http.Client{}, url) {
		t.Error("Expected closed server to be unavailable")
	}
}
