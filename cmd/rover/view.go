package main

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/marsrover/mission/engine"
	"github.com/wricardo/mcp-training/marsrover/mission/render"
)

// newScreen is replaced in tests with a simulation screen
var newScreen = tcell.NewScreen

func viewCommand() *cli.Command {
	return &cli.Command{
		Name:      "view",
		Usage:     "step a scenario's rovers interactively in the terminal",
		ArgsUsage: "<scenario>",
		Action:    viewScenario,
	}
}

func viewScenario(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("view expects exactly one scenario")
	}

	_, scenario, err := loadScenario(cmd, cmd.Args().First())
	if err != nil {
		return err
	}
	eng, err := engine.NewEngine(scenario)
	if err != nil {
		return err
	}

	screen, err := newScreen()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}

	render.NewViewer(screen, eng).Run()
	screen.Fini()

	state := eng.GetState()
	out := stdout(cmd)
	fmt.Fprintf(out, "%s after %d moves:\n", state.ScenarioName, state.TotalMoves)
	for _, rover := range state.Rovers {
		fmt.Fprintf(out, "  %s %d %d %s\n", rover.Name, rover.Position.X, rover.Position.Y, rover.Direction.Letter())
	}
	return nil
}
