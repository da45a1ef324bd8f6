// Package validate checks scenario files before they are served. It reports
// every problem it finds in a file rather than stopping at the first:
//   - JSON or YAML structure and required fields
//   - Corner count
//   - Rover names, directions, bounds and overlaps
//   - Message templates carrying enough format verbs
//
// Valid files also get informational lines: plateau size, rover count and
// which rovers can take their first step.
package validate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/mcp-training/marsrover/mission/engine"
)

// ValidationResult captures the outcome of validating a single file.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Info   []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// File loads and validates a single scenario file.
func File(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	scenario, err := engine.DecodeScenario(data, filepath.Ext(filePath))
	if err != nil {
		result.fail("Invalid %s: %v", formatName(filePath), err)
		return result
	}

	checkScenario(scenario, &result)
	return result
}

// Scenario validates an already decoded scenario. name labels the result.
func Scenario(name string, scenario *engine.Scenario) ValidationResult {
	result := ValidationResult{File: name, Valid: true}
	checkScenario(scenario, &result)
	return result
}

func checkScenario(scenario *engine.Scenario, result *ValidationResult) {
	if scenario.Name == "" {
		result.fail("name is required")
	}

	if len(scenario.Corners) != 2 {
		result.fail("Exactly 2 corners required, got %d", len(scenario.Corners))
		return
	}

	plateau := engine.NewPlateau(scenario.Corners[0], scenario.Corners[1])
	for i, spec := range scenario.Rovers {
		label := fmt.Sprintf("rover %d", i+1)
		if spec.Name != "" {
			label = fmt.Sprintf("rover %d (%s)", i+1, spec.Name)
		}
		if spec.Name == "" {
			result.fail("%s: name is required", label)
			continue
		}
		if !spec.Direction.IsValid() {
			result.fail("%s: invalid direction", label)
			continue
		}
		if err := plateau.AddRover(spec.Name, spec.Position, spec.Direction); err != nil {
			result.fail("%s: %v", label, err)
		}
	}

	// Remaining checks (message templates) are delegated to the engine
	if result.Valid {
		if err := engine.ValidateScenario(scenario); err != nil {
			result.fail("%v", err)
		}
	}

	if !result.Valid {
		return
	}

	sw, ne := plateau.Southwest(), plateau.Northeast()
	width, height := engine.Span(sw, ne)

	ready := []string{}
	for _, rover := range plateau.Rovers() {
		if ok, err := plateau.CanStep(rover.Name); err == nil && ok {
			ready = append(ready, rover.Name)
		}
	}
	readyText := "none"
	if len(ready) > 0 {
		readyText = strings.Join(ready, ", ")
	}

	result.Info = append(result.Info,
		fmt.Sprintf("Name: %s", scenario.Name),
		fmt.Sprintf("Plateau: %s-%s (%dx%d)", sw, ne, width, height),
		fmt.Sprintf("Rovers: %d", plateau.Count()),
		fmt.Sprintf("Ready to move: %s", readyText),
	)
}

func formatName(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		return "YAML"
	default:
		return "JSON"
	}
}

// Dir validates every scenario file in dir, sorted by file name.
func Dir(dir string) ([]ValidationResult, error) {
	var files []string
	for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("error finding scenario files: %w", err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		results = append(results, File(file))
	}
	return results, nil
}

// Report prints a concise report of results to w and returns true when all are valid.
func Report(w io.Writer, results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "VALID")
			for _, info := range result.Info {
				fmt.Fprintln(w, "  ✓ "+info)
			}
		} else {
			fmt.Fprintln(w, "INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Fprintln(w, "  ✗ "+err)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "All scenarios are valid!")
	} else {
		fmt.Fprintln(w, "Some scenarios have errors")
	}
	return allValid
}
