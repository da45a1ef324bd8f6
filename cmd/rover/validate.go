package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/marsrover/validate"
)

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "validate scenario files (all of --config-dir when none are given)",
		ArgsUsage: "[files...]",
		Action:    validateScenarios,
	}
}

func validateScenarios(ctx context.Context, cmd *cli.Command) error {
	var results []validate.ValidationResult

	if cmd.Args().Len() == 0 {
		dir := cmd.String("config-dir")
		if _, err := os.Stat(dir); err != nil {
			return fmt.Errorf("config directory does not exist: %s", dir)
		}
		all, err := validate.Dir(dir)
		if err != nil {
			return err
		}
		results = all
	} else {
		for _, file := range cmd.Args().Slice() {
			results = append(results, validate.File(file))
		}
	}

	if len(results) == 0 {
		return fmt.Errorf("no scenario files found")
	}

	if !validate.Report(stdout(cmd), results) {
		return fmt.Errorf("validation failed")
	}
	return nil
}
