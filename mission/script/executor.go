package script

import (
	"context"
	"errors"
	"fmt"

	"github.com/wricardo/mcp-training/marsrover/mission/engine"
)

var (
	ErrNoPlateau      = errors.New("no plateau declared")
	ErrPlateauDefined = errors.New("plateau already declared")
)

// Options control script execution
type Options struct {
	// Strict stops at the first failing command
	Strict bool
}

// Outcome is the result of one executed command
type Outcome struct {
	Command Command

	// Steps holds one entry per attempted step of a move. A move stops
	// early at its first blocked step, since nothing else moves meanwhile.
	Steps []engine.StepOutcome

	// Rover is the rover after a rover or position command
	Rover *engine.Rover

	Err error
}

// Moved counts the steps that changed the rover's position
func (o Outcome) Moved() int {
	moved := 0
	for _, step := range o.Steps {
		if step.Moved() {
			moved++
		}
	}
	return moved
}

// Blocked returns the step that stopped a move, if any
func (o Outcome) Blocked() (engine.StepOutcome, bool) {
	if len(o.Steps) == 0 {
		return engine.StepOutcome{}, false
	}
	last := o.Steps[len(o.Steps)-1]
	return last, !last.Moved()
}

// String renders a one-line report of the outcome
func (o Outcome) String() string {
	prefix := fmt.Sprintf("line %d: %s", o.Command.Line, o.Command)
	if o.Err != nil {
		return fmt.Sprintf("%s: error: %v", prefix, o.Err)
	}

	switch o.Command.Kind {
	case KindPlateau:
		sw, ne := normalize(o.Command.Corners)
		return fmt.Sprintf("%s: plateau %s-%s", prefix, sw, ne)

	case KindRover:
		return fmt.Sprintf("%s: registered %s at %s facing %s", prefix, o.Rover.Name, o.Rover.Position, o.Rover.Direction)

	case KindMove:
		summary := fmt.Sprintf("%s: moved %d of %d", prefix, o.Moved(), o.Command.Count)
		if len(o.Steps) > 0 {
			summary += fmt.Sprintf(", now at %s", o.Steps[len(o.Steps)-1].To)
		}
		if blocked, ok := o.Blocked(); ok {
			switch blocked.Result {
			case engine.StepBlockedRover:
				summary += fmt.Sprintf(" (blocked by %s at %s)", blocked.BlockedBy, blocked.Attempted)
			default:
				summary += " (edge of plateau ahead)"
			}
		}
		return summary

	case KindPosition:
		return fmt.Sprintf("%s: %s at %s facing %s", prefix, o.Rover.Name, o.Rover.Position, o.Rover.Direction)
	}
	return prefix
}

// Report collects the outcomes of a script run
type Report struct {
	Script   *Script
	Plateau  *engine.Plateau
	Outcomes []Outcome
}

// Failed returns the outcomes that ended in an error
func (r *Report) Failed() []Outcome {
	var failed []Outcome
	for _, outcome := range r.Outcomes {
		if outcome.Err != nil {
			failed = append(failed, outcome)
		}
	}
	return failed
}

// Rovers returns the final rover snapshots in registration order
func (r *Report) Rovers() []engine.Rover {
	if r.Plateau == nil {
		return nil
	}
	return r.Plateau.Rovers()
}

// Execute runs the script against a fresh plateau declared by its first plateau command.
// Failing commands are recorded in the report. With Options.Strict the first failure
// is also returned as a *LineError and execution stops.
func Execute(ctx context.Context, script *Script, opts Options) (*Report, error) {
	report := &Report{Script: script}

	for _, cmd := range script.Commands {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		outcome := report.apply(cmd)
		report.Outcomes = append(report.Outcomes, outcome)

		if outcome.Err != nil && opts.Strict {
			return report, &LineError{Line: cmd.Line, Err: outcome.Err}
		}
	}
	return report, nil
}

func (r *Report) apply(cmd Command) Outcome {
	outcome := Outcome{Command: cmd}

	if cmd.Kind == KindPlateau {
		if r.Plateau != nil {
			outcome.Err = ErrPlateauDefined
			return outcome
		}
		r.Plateau = engine.NewPlateau(cmd.Corners[0], cmd.Corners[1])
		return outcome
	}

	if r.Plateau == nil {
		outcome.Err = ErrNoPlateau
		return outcome
	}

	switch cmd.Kind {
	case KindRover:
		if err := r.Plateau.AddRover(cmd.Rover, cmd.Position, cmd.Direction); err != nil {
			outcome.Err = err
			return outcome
		}
		outcome.Rover = r.snapshot(cmd.Rover)

	case KindMove:
		for i := 0; i < cmd.Count; i++ {
			step, err := r.Plateau.Step(cmd.Rover)
			if err != nil {
				outcome.Err = err
				return outcome
			}
			outcome.Steps = append(outcome.Steps, step)
			if !step.Moved() {
				break
			}
		}

	case KindPosition:
		rover, err := r.Plateau.Rover(cmd.Rover)
		if err != nil {
			outcome.Err = err
			return outcome
		}
		outcome.Rover = &rover
	}
	return outcome
}

func (r *Report) snapshot(name string) *engine.Rover {
	rover, err := r.Plateau.Rover(name)
	if err != nil {
		return nil
	}
	return &rover
}

func normalize(corners [2]engine.Point) (engine.Point, engine.Point) {
	p := engine.NewPlateau(corners[0], corners[1])
	return p.Southwest(), p.Northeast()
}
