// Package mcp exposes rover missions as Model Context Protocol tools.
//
// Client is a thin proxy: every tool call becomes a request against the REST
// API, so MCP agents, browsers and scripts all observe the same sessions.
//
// MCP Tools:
//   - create_session, list_sessions, get_session: session lifecycle
//   - mission_state: plateau bounds, rovers and an ASCII grid
//   - add_rover: deploy a rover (name, x, y, direction)
//   - move_rover: step one rover; reports whether it moved and why not
//   - bulk_move: step rovers in order, optionally stopping on the first block
//   - rover_position: position, heading and next-cell status
//   - reset_mission: restore the scenario deployment
//   - move_history: paginated history, optionally filtered by rover
//   - list_scenarios: available plateau layouts
//   - mission_instructions: full rules text
//   - describe_cell: occupancy of one cell and the nearest rover
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
