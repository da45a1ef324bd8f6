package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/marsrover/mission/engine"
	"github.com/wricardo/mcp-training/marsrover/mission/render"
	"github.com/wricardo/mcp-training/marsrover/transport/websocket"
)

const defaultServer = "http://localhost:8080"

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "follow a live session on a mission server",
		ArgsUsage: "<session-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Usage:   "mission server base URL",
				Value:   defaultServer,
				Sources: cli.EnvVars("ROVER_SERVER"),
			},
		},
		Action: watchSession,
	}
}

func watchSession(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("watch expects exactly one session ID")
	}
	sessionID := cmd.Args().First()

	sub, err := websocket.Subscribe(ctx, cmd.String("server"), sessionID)
	if err != nil {
		return err
	}
	defer sub.Close()

	screen, err := newScreen()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}

	states := make(chan *engine.MissionState)
	errc := make(chan error, 1)
	go func() {
		defer close(states)
		for {
			msg, err := sub.Next()
			if err != nil {
				if !websocket.IsNormalClose(err) {
					errc <- err
				}
				return
			}
			if msg.MissionState != nil {
				states <- msg.MissionState
			}
		}
	}()

	last := render.Watch(screen, "session "+sessionID, states)
	screen.Fini()

	// Unblock the reader if the user quit first
	sub.Close()
	for range states {
	}

	if last == nil {
		select {
		case err := <-errc:
			return fmt.Errorf("session %s: %w", sessionID, err)
		default:
			return fmt.Errorf("session %s: no mission state received", sessionID)
		}
	}

	out := stdout(cmd)
	fmt.Fprintf(out, "%s after %d moves:\n", last.ScenarioName, last.TotalMoves)
	for _, rover := range last.Rovers {
		fmt.Fprintf(out, "  %s %d %d %s\n", rover.Name, rover.Position.X, rover.Position.Y, rover.Direction.Letter())
	}
	return nil
}
