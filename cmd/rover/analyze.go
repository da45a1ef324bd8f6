package main

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/marsrover/mission/config"
	"github.com/wricardo/mcp-training/marsrover/mission/engine"
)

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "print movement heuristics for scenarios (all of --config-dir when none are given)",
		ArgsUsage: "[scenario...]",
		Action:    analyzeScenarios,
	}
}

func analyzeScenarios(ctx context.Context, cmd *cli.Command) error {
	names := cmd.Args().Slice()
	if len(names) == 0 {
		configs, err := config.NewManager(cmd.String("config-dir"))
		if err != nil {
			return err
		}
		infos, err := configs.ListConfigs()
		if err != nil {
			return err
		}
		for _, info := range infos {
			names = append(names, info.ScenarioID)
		}
	}

	out := stdout(cmd)
	for i, name := range names {
		label, scenario, err := loadScenario(cmd, name)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "=== Analyzing %s ===\n", label)
		if err := analyzeScenario(out, scenario); err != nil {
			return err
		}
	}
	return nil
}

func analyzeScenario(out io.Writer, scenario *engine.Scenario) error {
	plateau, err := engine.NewPlateauFromScenario(scenario)
	if err != nil {
		return err
	}
	sw, ne := plateau.Southwest(), plateau.Northeast()
	width, height := engine.Span(sw, ne)
	rovers := plateau.Rovers()

	fmt.Fprintf(out, "Name: %s\n", scenario.Name)
	fmt.Fprintf(out, "Plateau: %s-%s (%dx%d)\n", sw, ne, width, height)
	fmt.Fprintf(out, "Rovers: %d\n", len(rovers))

	for _, rover := range rovers {
		free, blocker := clearAhead(rover, sw, ne, rovers)
		then := "the edge"
		if blocker != "" {
			then = blocker
		}
		fmt.Fprintf(out, "  %s at %s facing %s: %d free %s ahead, then %s\n",
			rover.Name, rover.Position, rover.Direction, free, plural(free, "cell", "cells"), then)
	}

	var (
		pairA, pairB string
		best         uint64
		paired       bool
	)
	for _, rover := range rovers {
		nearest, distance, ok := engine.FindNearestRover(rovers, rover.Position, rover.Name)
		if ok && (!paired || distance < best) {
			pairA, pairB, best, paired = rover.Name, nearest.Name, distance, true
		}
	}
	if paired {
		fmt.Fprintf(out, "Nearest pair: %s and %s, %d apart\n", pairA, pairB, best)
	}
	return nil
}

// clearAhead counts the free cells in front of rover before the plateau edge
// or the first rover in its path. Distances are unsigned so plateaus spanning
// the int range do not overflow.
func clearAhead(rover engine.Rover, sw, ne engine.Point, rovers []engine.Rover) (uint64, string) {
	pos := rover.Position

	var free uint64
	switch rover.Direction {
	case engine.North:
		free = uint64(ne.Y) - uint64(pos.Y)
	case engine.East:
		free = uint64(ne.X) - uint64(pos.X)
	case engine.South:
		free = uint64(pos.Y) - uint64(sw.Y)
	case engine.West:
		free = uint64(pos.X) - uint64(sw.X)
	}

	blocker := ""
	for _, other := range rovers {
		if other.Name == rover.Name {
			continue
		}
		var distance uint64
		onPath := false
		switch rover.Direction {
		case engine.North:
			onPath = other.Position.X == pos.X && other.Position.Y > pos.Y
			distance = uint64(other.Position.Y) - uint64(pos.Y)
		case engine.East:
			onPath = other.Position.Y == pos.Y && other.Position.X > pos.X
			distance = uint64(other.Position.X) - uint64(pos.X)
		case engine.South:
			onPath = other.Position.X == pos.X && other.Position.Y < pos.Y
			distance = uint64(pos.Y) - uint64(other.Position.Y)
		case engine.West:
			onPath = other.Position.Y == pos.Y && other.Position.X < pos.X
			distance = uint64(pos.X) - uint64(other.Position.X)
		}
		if onPath && distance-1 < free {
			free = distance - 1
			blocker = other.Name
		}
	}
	return free, blocker
}

func plural(n uint64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
