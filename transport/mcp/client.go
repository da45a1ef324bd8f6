package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/mcp-training/marsrover/mission/engine"
	"github.com/wricardo/mcp-training/marsrover/mission/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Mars Rover Mission",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Mars Rover Mission - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Rovers sit on a rectangular plateau. Each rover faces N, E, S or W and can only
step one cell forward in that direction. A step that would leave the plateau or
enter an occupied cell is refused and the rover holds position.

AVAILABLE TOOLS:
- create_session: Start a mission from a scenario
- list_sessions / get_session: Inspect running missions
- mission_state: Plateau bounds, rovers and grid
- add_rover: Deploy another rover
- move_rover: Step one rover - requires intent explanation
- bulk_move: Step rovers in order - requires intent explanation
- rover_position: One rover's position and whether it can move
- reset_mission: Restore the initial deployment
- move_history: View past steps
- list_scenarios: Available plateau layouts
- mission_instructions: Full rules
- describe_cell: What occupies a cell and which rover is nearest

NOTE: The 'intent' parameter on move tools serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

func sessionProp() map[string]interface{} {
	return stringProp("Session ID")
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new mission session with optional scenario selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"scenario_id": stringProp("Scenario ID from list_scenarios (optional)"),
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active mission sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": stringProp("Session ID to retrieve"),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Mission operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "mission_state",
		Description: "Get the plateau, every rover and an ASCII grid (north at the top)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleMissionState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "add_rover",
		Description: "Deploy a rover. Fails if the name is taken, the cell is off the plateau, or the cell is occupied.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"name":       stringProp("Unique rover name"),
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate (grows eastward)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate (grows northward)",
				},
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"N", "E", "S", "W"},
					"description": "Facing direction",
				},
			},
			Required: []string{"session_id", "name", "x", "y", "direction"},
		},
	}, c.handleAddRover)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_rover",
		Description: "Step a rover one cell forward in the direction it faces",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"rover":      stringProp("Rover name"),
				"intent":     stringProp("Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)"),
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before moving",
				},
			},
			Required: []string{"session_id", "rover"},
		},
	}, c.handleMoveRover)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: fmt.Sprintf("Step rovers in order, one step per entry (max %d)", engine.MaxBulkMoves),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"rovers": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
					},
					"description": "Rover names; repeat a name to step it again",
				},
				"intent": stringProp("Brief explanation of the intent behind this sequence (serves as a rubber duck to help explain your reasoning)"),
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before moving",
				},
				"stop_on_block": map[string]interface{}{
					"type":        "boolean",
					"description": "Stop at the first refused step",
				},
			},
			Required: []string{"session_id", "rovers"},
		},
	}, c.handleBulkMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "rover_position",
		Description: "Get a rover's position, heading, and whether its next step is open",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"rover":      stringProp("Rover name"),
			},
			Required: []string{"session_id", "rover"},
		},
	}, c.handleRoverPosition)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_mission",
		Description: "Reset the mission to the scenario's initial deployment",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"rover": stringProp("Only show this rover's steps (optional)"),
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_scenarios",
		Description: "List available plateau scenarios",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListScenarios)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "mission_instructions",
		Description: "Get the full mission rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleMissionInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Describe one plateau cell: whether it is inside the plateau, which rover occupies it, and the nearest rover",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate of the cell",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate of the cell",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads a JSON number argument
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	scenarioID, _ := args["scenario_id"].(string)

	body := map[string]string{}
	if scenarioID != "" {
		body["scenario_id"] = scenarioID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nScenario: %s\n\n%s", session.ID, session.ScenarioID, formatMissionState(session.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		rovers := 0
		if s.State != nil {
			rovers = len(s.State.Rovers)
		}
		fmt.Fprintf(&b, "- %s (Scenario: %s, Rovers: %d, Created: %s)\n",
			s.ID, s.ScenarioID, rovers, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleMissionState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var state engine.MissionState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMissionState(&state)), nil
}

func (c *Client) handleAddRover(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	name, _ := args["name"].(string)
	direction, _ := args["direction"].(string)
	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")
	if !okX || !okY {
		return mcp.NewToolResultError("x and y must be integers"), nil
	}

	body := service.AddRoverRequest{
		Name:      name,
		Position:  engine.Point{X: x, Y: y},
		Direction: direction,
	}

	var response struct {
		Message string               `json:"message"`
		State   *engine.MissionState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/rovers"), body, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", response.Message, formatMissionState(response.State))), nil
}

func (c *Client) handleMoveRover(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	rover, _ := args["rover"].(string)
	reset, _ := args["reset"].(bool)

	// intent is for the caller's benefit only

	body := map[string]interface{}{
		"rover": rover,
		"reset": reset,
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	roversRaw, _ := args["rovers"].([]interface{})
	reset, _ := args["reset"].(bool)
	stopOnBlock, _ := args["stop_on_block"].(bool)

	rovers := make([]string, 0, len(roversRaw))
	for _, r := range roversRaw {
		if name, ok := r.(string); ok {
			rovers = append(rovers, name)
		}
	}

	body := map[string]interface{}{
		"rovers":        rovers,
		"reset":         reset,
		"stop_on_block": stopOnBlock,
	}

	var result service.BulkMoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/bulk-move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkMoveResult(sessionID, &result)), nil
}

func (c *Client) handleRoverPosition(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	rover, _ := args["rover"].(string)

	var info service.RoverInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/rovers/"+url.PathEscape(rover)), nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRoverInfo(&info)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Message string               `json:"message"`
		State   *engine.MissionState `json:"state"`
	}

	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", response.Message, formatMissionState(response.State))), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	params := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		params.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", fmt.Sprint(limit))
	}
	if rover, _ := args["rover"].(string); rover != "" {
		params.Set("rover", rover)
	}

	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatHistory(&history)

	// Also show the segment since the last reset
	var state engine.MissionState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err == nil {
		result += "\n" + formatCurrentSegment(&state)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListScenarios(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var scenarios []service.ScenarioInfo
	if err := c.apiCall(ctx, "GET", "/api/scenarios", nil, &scenarios); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Scenarios:\n\n")
	for _, s := range scenarios {
		width, height := engine.Span(s.Southwest, s.Northeast)
		fmt.Fprintf(&b, "• %s (id: %s)\n  %s\n  Plateau: %s to %s (%dx%d), Rovers: %d\n\n",
			s.Name, s.ScenarioID, s.Description, s.Southwest, s.Northeast, width, height, s.RoverCount)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleMissionInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := fmt.Sprintf(`Mars Rover Mission - Complete Instructions

THE PLATEAU:
• A rectangle of cells between a south-west and a north-east corner, both inclusive
• X grows to the east, Y grows to the north
• The grid view prints north at the top and west on the left

ROVERS:
• Each rover has a unique name, a cell and a heading (N, E, S, W)
• Headings never change; there are no turn commands
• Two rovers never share a cell

MOVEMENT RULES:
• A move advances the rover one cell in the direction it faces
• N = (0,+1), E = (+1,0), S = (0,-1), W = (-1,0)
• If the target cell is off the plateau, the rover holds position (blocked_boundary)
• If another rover stands on the target cell, the rover holds position (blocked_rover)
• A held position is NOT an error: the call succeeds and reports moved=false
• Moving an unknown rover IS an error

DEPLOYMENT RULES (add_rover), checked in this order:
1. The name must be unused
2. The cell must be on the plateau
3. The cell must be free

GRID LEGEND:
• . - Empty cell
• ^ > v < - Rover facing N, E, S, W

STRATEGY NOTES:
• Check rover_position before moving: can_move tells you if the next step is open
• Rovers facing each other in the same lane block one another permanently
• Order matters in bulk_move: moving the leading rover first clears the lane
• Use stop_on_block to catch the first refused step in a long sequence
• bulk_move accepts at most %d entries per call

SESSION MANAGEMENT:
• Each session has a unique 4-character ID and its own plateau
• reset_mission restores the scenario deployment; rovers added later are removed
• History is cumulative across resets; the current segment restarts at zero

Good luck, mission control!`, engine.MaxBulkMoves)

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")
	if !okX || !okY {
		return mcp.NewToolResultError("x and y must be integers"), nil
	}

	var state engine.MissionState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(describeCell(&state, engine.Point{X: x, Y: y})), nil
}

// Formatting helpers

func describeCell(state *engine.MissionState, cell engine.Point) string {
	inside := cell.X >= state.Southwest.X && cell.X <= state.Northeast.X &&
		cell.Y >= state.Southwest.Y && cell.Y <= state.Northeast.Y

	var b strings.Builder
	fmt.Fprintf(&b, "Cell %s:\n", cell)
	fmt.Fprintf(&b, "On plateau: %v (plateau %s to %s)\n", inside, state.Southwest, state.Northeast)

	occupant := ""
	for _, r := range state.Rovers {
		if r.Position == cell {
			occupant = r.Name
			fmt.Fprintf(&b, "Occupied by: %s facing %s\n", r.Name, r.Direction)
		}
	}
	switch {
	case !inside:
		b.WriteString("Status: OFF PLATEAU - rovers cannot enter\n")
	case occupant != "":
		b.WriteString("Status: OCCUPIED - other rovers cannot enter\n")
	default:
		b.WriteString("Status: FREE\n")
	}

	if nearest, distance, ok := engine.FindNearestRover(state.Rovers, cell, occupant); ok {
		fmt.Fprintf(&b, "Nearest other rover: %s at %s, %d steps away (Manhattan)\n", nearest.Name, nearest.Position, distance)
	}

	// Rovers that would step into this cell next
	for _, r := range state.Rovers {
		if next, ok := r.Position.Step(r.Direction); ok && next == cell {
			fmt.Fprintf(&b, "Next step target of: %s\n", r.Name)
		}
	}
	return b.String()
}

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nScenario: %s\nCreated: %s\nLast accessed: %s\n\n%s",
		session.ID, session.ScenarioID,
		session.CreatedAt.Format(time.RFC3339), session.LastAccessedAt.Format(time.RFC3339),
		formatMissionState(session.State))
}

func formatMissionState(state *engine.MissionState) string {
	if state == nil {
		return "Mission state unavailable"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Scenario: %s\n", state.ScenarioName)
	fmt.Fprintf(&b, "Plateau: %s to %s\n", state.Southwest, state.Northeast)
	fmt.Fprintf(&b, "Moves: %d (since reset: %d)\n", state.TotalMoves, state.CurrentMovesCount)
	if state.Message != "" {
		fmt.Fprintf(&b, "Status: %s\n", state.Message)
	}

	b.WriteString("\nRovers:\n")
	if len(state.Rovers) == 0 {
		b.WriteString("(none)\n")
	}
	for _, r := range state.Rovers {
		fmt.Fprintf(&b, "- %s at %s facing %s\n", r.Name, r.Position, r.Direction)
	}

	grid := state.Grid
	if grid == nil {
		grid, _ = engine.RenderGrid(state.Southwest, state.Northeast, state.Rovers)
	}
	if grid != nil {
		fmt.Fprintf(&b, "\nGrid (north up, x from %d):\n", state.Southwest.X)
		for i, row := range grid {
			fmt.Fprintf(&b, "%4d %s\n", state.Northeast.Y-i, row)
		}
	} else {
		b.WriteString("\n(plateau too large to draw)\n")
	}
	return b.String()
}

func formatRoverInfo(info *service.RoverInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s at %s facing %s\n", info.Name, info.Position, info.Direction)
	if info.CanMove {
		fmt.Fprintf(&b, "Next step: open to %s\n", *info.NextCell)
	} else if info.NextCell != nil {
		fmt.Fprintf(&b, "Next step: blocked, %s is occupied\n", *info.NextCell)
	} else {
		b.WriteString("Next step: blocked, edge of plateau ahead\n")
	}
	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Moved {
		b.WriteString("✓ Moved\n")
	} else {
		b.WriteString("✗ Held position\n")
	}
	if o := result.Outcome; o != nil {
		fmt.Fprintf(&b, "%s facing %s: %s -> %s (%s)\n", o.Rover, o.Direction, o.From, o.To, o.Result)
	}
	if a := result.AttemptedTo; a != nil {
		fmt.Fprintf(&b, "Attempted (%d,%d): %s", a.X, a.Y, a.Reason)
		if a.BlockedBy != "" {
			fmt.Fprintf(&b, " by %s", a.BlockedBy)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(formatMissionState(result.State))
	return b.String()
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session %s: executed %d/%d steps (moved %d, held %d)\n",
		sessionID, result.MovesExecuted, result.RequestedMoves, result.MovedCount, result.BlockedCount)
	if result.Truncated {
		fmt.Fprintf(&b, "Request truncated to %d steps\n", result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped: %s (code %s, step %d)\n", result.StoppedReason, result.StopReasonCode, result.StoppedOnMove)
	}

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for i, step := range result.Steps {
			fmt.Fprintf(&b, "%d. %s\n", i+1, formatStepLine(step))
		}
	}

	if len(result.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "\nRovers that can move next: %s\n", strings.Join(result.PossibleMoves, ", "))
	} else {
		b.WriteString("\nNo rover can move next\n")
	}

	b.WriteString("\n")
	b.WriteString(formatMissionState(result.State))
	return b.String()
}

func formatStepLine(step engine.StepOutcome) string {
	if step.Moved() {
		return fmt.Sprintf("%s %s -> %s ✓", step.Rover, step.From, step.To)
	}
	if step.BlockedBy != "" {
		return fmt.Sprintf("%s held at %s: %s blocked by %s ✗", step.Rover, step.From, step.Attempted, step.BlockedBy)
	}
	return fmt.Sprintf("%s held at %s: %s off plateau ✗", step.Rover, step.From, step.Attempted)
}

func formatHistoryEntry(entry engine.MoveHistoryEntry) string {
	status := "✓"
	if entry.Result != engine.StepMoved {
		status = "✗ " + string(entry.Result)
		if entry.BlockedBy != "" {
			status += " by " + entry.BlockedBy
		}
	}
	return fmt.Sprintf("%s %s %s -> %s %s", entry.Rover, entry.Direction.Letter(), entry.From, entry.To, status)
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d), Total (cumulative): %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, move := range history.Moves {
		fmt.Fprintf(&b, "#%d %s\n", move.MoveNumber, formatHistoryEntry(move))
	}

	return b.String()
}

func formatCurrentSegment(state *engine.MissionState) string {
	if state == nil {
		return "Current Segment: unavailable"
	}
	header := fmt.Sprintf("Current Move Segment, Moves: %d\n\n", state.CurrentMovesCount)
	if len(state.CurrentMoves) == 0 {
		return header + "(no moves in current segment)"
	}
	var b strings.Builder
	b.WriteString(header)
	for i, move := range state.CurrentMoves {
		fmt.Fprintf(&b, "%d. %s\n", i+1, formatHistoryEntry(move))
	}
	return b.String()
}
