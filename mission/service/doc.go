// Package service provides the business logic layer for rover missions.
//
// The service package implements:
//   - Multi-session mission management
//   - Scenario loading and saving
//   - Rover registration, single steps and bulk steps
//   - Paginated move history
//
// Core Interfaces:
//
// MissionService is the main service interface used by every transport.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager loads and saves scenario files.
//
// The service layer sits between the transports (HTTP/WebSocket/MCP) and the
// engine. Each session owns its own Engine and plateau; the service serializes
// calls so the engine's history and the plateau stay in step.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	missionService := service.NewMissionService(sessionMgr, configMgr)
//
//	info, err := missionService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := missionService.Move(ctx, info.ID, "R1", false)
//
// A blocked step is not an error: MoveResult.Success stays true and
// MoveResult.Moved reports whether the rover actually changed cell.
package service
