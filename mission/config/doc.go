// Package config provides scenario management for the Mars Rover mission.
//
// The config package handles:
//   - Loading scenarios from JSON or YAML files
//   - Scenario validation through the engine package
//   - Default scenario selection
//   - Scenario discovery and listing
//
// Scenario Format:
//
// Scenarios live in the configs directory as <id>.json, <id>.yaml or <id>.yml.
// Each scenario defines:
//   - Two opposite plateau corners, in any order
//   - The rovers registered at start, with position and direction
//   - Optional status message templates
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	scenario, err := manager.LoadConfig("classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// List available scenarios
//	scenarios, err := manager.ListConfigs()
//
// Defaults:
//
// The default scenario is "classic" when present, otherwise the first valid
// scenario in the directory, otherwise engine.DefaultScenario.
package config
