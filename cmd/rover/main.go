// Command rover is the offline companion to the mission server. It runs
// command scripts against a fresh plateau, validates and analyzes scenario
// files, opens an interactive terminal view of a scenario and follows live
// sessions on a running server.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/marsrover/mission/config"
	"github.com/wricardo/mcp-training/marsrover/mission/engine"
)

const version = "1.0.0"

func main() {
	app := newApp(os.Stdout, os.Stderr)
	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newApp builds the command tree writing to stdout and stderr
func newApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "rover",
		Usage:     "run rover scripts and inspect mission scenarios",
		Version:   version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Usage:   "directory containing scenario files",
				Value:   "configs",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
		},
		Commands: []*cli.Command{
			runCommand(),
			validateCommand(),
			analyzeCommand(),
			viewCommand(),
			watchCommand(),
		},
	}
}

// stdout returns the writer configured on the root command
func stdout(cmd *cli.Command) io.Writer {
	return cmd.Root().Writer
}

// loadScenario accepts a scenario file path or a scenario ID from --config-dir
func loadScenario(cmd *cli.Command, arg string) (string, *engine.Scenario, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		scenario, err := engine.LoadScenario(arg)
		if err != nil {
			return "", nil, err
		}
		return filepath.Base(arg), scenario, nil
	}

	configs, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return "", nil, err
	}
	scenario, err := configs.LoadConfig(arg)
	if err != nil {
		return "", nil, fmt.Errorf("scenario %q: %w", arg, err)
	}
	return arg, scenario, nil
}
