package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wricardo/mcp-training/marsrover/mission/engine"
)

// MaxRepeat bounds the step count of a single move command
const MaxRepeat = 10000

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrArguments      = errors.New("wrong number of arguments")
	ErrBadValue       = errors.New("bad value")
)

// Kind names a script command
type Kind string

const (
	KindPlateau  Kind = "plateau"
	KindRover    Kind = "rover"
	KindMove     Kind = "move"
	KindPosition Kind = "position"
)

// Command is one parsed script line
type Command struct {
	Line int
	Kind Kind

	// plateau
	Corners [2]engine.Point

	// rover, move, position
	Rover string

	// rover
	Position  engine.Point
	Direction engine.Direction

	// move
	Count int
}

// String renders the command in script syntax
func (c Command) String() string {
	switch c.Kind {
	case KindPlateau:
		return fmt.Sprintf("plateau %d %d %d %d", c.Corners[0].X, c.Corners[0].Y, c.Corners[1].X, c.Corners[1].Y)
	case KindRover:
		return fmt.Sprintf("rover %s %d %d %s", c.Rover, c.Position.X, c.Position.Y, c.Direction.Letter())
	case KindMove:
		if c.Count == 1 {
			return fmt.Sprintf("move %s", c.Rover)
		}
		return fmt.Sprintf("move %s %d", c.Rover, c.Count)
	case KindPosition:
		return fmt.Sprintf("position %s", c.Rover)
	}
	return string(c.Kind)
}

// Script is an ordered list of commands
type Script struct {
	Name     string
	Commands []Command
}

// LineError ties an error to a script line
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Parse reads a script. Blank lines and text after '#' are ignored.
// Every malformed line is reported; the returned error joins them in line order.
func Parse(name string, r io.Reader) (*Script, error) {
	script := &Script{Name: name}
	var errs []error

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		cmd, err := parseCommand(fields)
		if err != nil {
			errs = append(errs, &LineError{Line: lineNo, Err: err})
			continue
		}
		cmd.Line = lineNo
		script.Commands = append(script.Commands, cmd)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read script %s: %w", name, err)
	}

	if len(errs) > 0 {
		return script, errors.Join(errs...)
	}
	return script, nil
}

// ParseString is Parse over an in-memory script
func ParseString(name, text string) (*Script, error) {
	return Parse(name, strings.NewReader(text))
}

func parseCommand(fields []string) (Command, error) {
	kind := Kind(strings.ToLower(fields[0]))
	args := fields[1:]

	switch kind {
	case KindPlateau:
		if len(args) != 4 {
			return Command{}, fmt.Errorf("%w: plateau X1 Y1 X2 Y2", ErrArguments)
		}
		coords, err := parseInts(args)
		if err != nil {
			return Command{}, err
		}
		return Command{
			Kind: kind,
			Corners: [2]engine.Point{
				engine.NewPoint(coords[0], coords[1]),
				engine.NewPoint(coords[2], coords[3]),
			},
		}, nil

	case KindRover:
		if len(args) != 4 {
			return Command{}, fmt.Errorf("%w: rover NAME X Y DIRECTION", ErrArguments)
		}
		coords, err := parseInts(args[1:3])
		if err != nil {
			return Command{}, err
		}
		direction, err := engine.ParseDirection(args[3])
		if err != nil {
			return Command{}, fmt.Errorf("%w: %v", ErrBadValue, err)
		}
		return Command{
			Kind:      kind,
			Rover:     args[0],
			Position:  engine.NewPoint(coords[0], coords[1]),
			Direction: direction,
		}, nil

	case KindMove:
		if len(args) != 1 && len(args) != 2 {
			return Command{}, fmt.Errorf("%w: move NAME [COUNT]", ErrArguments)
		}
		count := 1
		if len(args) == 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 || n > MaxRepeat {
				return Command{}, fmt.Errorf("%w: count %q must be between 1 and %d", ErrBadValue, args[1], MaxRepeat)
			}
			count = n
		}
		return Command{Kind: kind, Rover: args[0], Count: count}, nil

	case KindPosition:
		if len(args) != 1 {
			return Command{}, fmt.Errorf("%w: position NAME", ErrArguments)
		}
		return Command{Kind: kind, Rover: args[0]}, nil
	}

	return Command{}, fmt.Errorf("%w %q", ErrUnknownCommand, fields[0])
}

func parseInts(args []string) ([]int, error) {
	values := make([]int, len(args))
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrBadValue, arg)
		}
		values[i] = n
	}
	return values, nil
}
