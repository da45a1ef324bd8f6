// Package engine provides the plateau and rover model for the Mars Rover mission.
//
// The engine package implements:
//   - Points and the four cardinal directions with their unit steps
//   - The Plateau aggregate: bounds, rover registration and single-cell moves
//   - Scenario loading and validation (JSON or YAML)
//   - Move history and serializable mission state
//
// Core Types:
//
// Plateau owns the bounds and the rovers registered on it and is the only
// authority on whether a step is valid. Engine wraps a Plateau with the
// Scenario it was built from and keeps a move history for sessions.
//
// Usage:
//
//	plateau := engine.NewPlateau(engine.NewPoint(0, 0), engine.NewPoint(5, 5))
//	if err := plateau.AddRover("R1", engine.NewPoint(1, 2), engine.North); err != nil {
//		log.Fatal(err)
//	}
//
//	// Blocked or off-grid steps are not errors; the rover just stays put.
//	if err := plateau.MoveRover("R1"); err != nil {
//		log.Fatal(err)
//	}
//	pos, _ := plateau.RoverPosition("R1")
//
// Movement Rules:
//
// A rover advances one cell in its facing direction when the target cell is
// inside the plateau and not held by another rover. Registration fails with
// ErrDuplicateName, ErrOutOfBounds or ErrPositionOccupied, checked in that
// order. Moving or querying an unregistered name fails with ErrUnknownRover.
package engine
