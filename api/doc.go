// Package api provides the HTTP REST API for rover missions.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a session ({"scenario_id": "classic"}, empty body for the default)
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Mission Operations:
//   - GET /api/sessions/{id}/state - Current mission state
//   - POST /api/sessions/{id}/rovers - Register a rover ({"name", "position": {"x","y"}, "direction"})
//   - GET /api/sessions/{id}/rovers/{name} - Rover position and next cell
//   - POST /api/sessions/{id}/move - Step one rover ({"rover": "R1", "reset": false})
//   - POST /api/sessions/{id}/bulk-move - Step rovers in order ({"rovers": [...], "reset", "stop_on_block"})
//   - POST /api/sessions/{id}/reset - Restore the scenario's initial deployment
//   - GET /api/sessions/{id}/history - Paginated moves (?page&limit&order&rover)
//
// Scenarios:
//   - GET /api/scenarios - List scenario files
//   - POST /api/scenarios - Save a scenario (bare, or {"scenario_id", "scenario"})
//   - GET /api/scenarios/{name} - Load a scenario
//
// Other:
//   - GET /api/health
//   - GET /ws?session={id} - WebSocket state stream
//
// A blocked step is a 200 response with "moved": false and an
// "attempted_to" block naming the reason (blocked_boundary or blocked_rover).
//
// Error Handling:
//
// Errors are returned as {"error": "message"} with a status derived from
// the error chain: 404 for unknown sessions, rovers and scenarios, 409 for a
// duplicate rover name or an occupied cell, 422 for positions outside the
// plateau and invalid scenarios, 400 for malformed requests.
package api
