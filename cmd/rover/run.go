package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/marsrover/mission/engine"
	"github.com/wricardo/mcp-training/marsrover/mission/script"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "execute a rover command script",
		ArgsUsage: "<script>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "strict", Usage: "stop at the first failing command"},
			&cli.BoolFlag{Name: "grid", Usage: "draw the final plateau"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "print final positions only"},
		},
		Action: runScript,
	}
}

func runScript(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("run expects exactly one script file")
	}
	path := cmd.Args().First()

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	parsed, err := script.Parse(filepath.Base(path), f)
	if err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	report, runErr := script.Execute(ctx, parsed, script.Options{Strict: cmd.Bool("strict")})
	out := stdout(cmd)

	if !cmd.Bool("quiet") {
		for _, outcome := range report.Outcomes {
			fmt.Fprintln(out, outcome)
		}
		fmt.Fprintln(out)
	}

	if report.Plateau != nil {
		fmt.Fprintf(out, "Final positions on %s-%s:\n", report.Plateau.Southwest(), report.Plateau.Northeast())
		for _, rover := range report.Rovers() {
			fmt.Fprintf(out, "  %s %d %d %s\n", rover.Name, rover.Position.X, rover.Position.Y, rover.Direction.Letter())
		}

		if cmd.Bool("grid") {
			lines, err := engine.RenderGrid(report.Plateau.Southwest(), report.Plateau.Northeast(), report.Rovers())
			if err != nil {
				fmt.Fprintf(out, "\n%v\n", err)
			} else {
				fmt.Fprintln(out)
				for i, line := range lines {
					fmt.Fprintf(out, "%4d %s\n", report.Plateau.Northeast().Y-i, line)
				}
			}
		}
	}

	if runErr != nil {
		return runErr
	}
	if failed := report.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d commands failed", len(failed), len(report.Outcomes))
	}
	return nil
}
