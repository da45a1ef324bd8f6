package engine

import (
	"fmt"
	"math"
	"strings"
)

const (
	// Validation constants
	MaxBulkMoves        = 50
	MaxRenderSize       = 80
	WebSocketBufferSize = 256
)

// Point represents a grid cell. Points are compared by value.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// NewPoint creates a point from its coordinates
func NewPoint(x, y int) Point {
	return Point{X: x, Y: y}
}

// String returns the point as "(x,y)"
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Step returns the neighbouring cell in the given direction.
// ok is false if the step would overflow int or the direction is invalid.
func (p Point) Step(d Direction) (next Point, ok bool) {
	dx, dy := d.Delta()
	if dx == 0 && dy == 0 {
		return p, false
	}
	if (dx > 0 && p.X == math.MaxInt) || (dx < 0 && p.X == math.MinInt) {
		return p, false
	}
	if (dy > 0 && p.Y == math.MaxInt) || (dy < 0 && p.Y == math.MinInt) {
		return p, false
	}
	return Point{X: p.X + dx, Y: p.Y + dy}, true
}

// Direction is the fixed facing of a rover
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// AllDirections returns the four directions clockwise from North
func AllDirections() []Direction {
	return []Direction{North, East, South, West}
}

// IsValid reports whether d is one of the four cardinal directions
func (d Direction) IsValid() bool {
	return d >= North && d <= West
}

// Delta returns the unit step for the direction. North increases Y.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, 1
	case East:
		return 1, 0
	case South:
		return 0, -1
	case West:
		return -1, 0
	default:
		return 0, 0
	}
}

// String returns the full direction name
func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	default:
		return "Unknown"
	}
}

// Letter returns the single-letter form used in scripts and scenario files
func (d Direction) Letter() string {
	switch d {
	case North:
		return "N"
	case East:
		return "E"
	case South:
		return "S"
	case West:
		return "W"
	default:
		return "?"
	}
}

// Glyph returns the arrow used when rendering a rover facing d
func (d Direction) Glyph() rune {
	switch d {
	case North:
		return '^'
	case East:
		return '>'
	case South:
		return 'v'
	case West:
		return '<'
	default:
		return '?'
	}
}

// ParseDirection accepts a letter or a full name, case-insensitive
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "n", "north":
		return North, nil
	case "e", "east":
		return East, nil
	case "s", "south":
		return South, nil
	case "w", "west":
		return West, nil
	}
	return 0, fmt.Errorf("invalid direction %q: expected one of N, E, S, W", s)
}

// MarshalText encodes the direction as its letter
func (d Direction) MarshalText() ([]byte, error) {
	if !d.IsValid() {
		return nil, fmt.Errorf("invalid direction %d", int(d))
	}
	return []byte(d.Letter()), nil
}

// UnmarshalText decodes a letter or full direction name
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Rover is a snapshot of a registered rover
type Rover struct {
	Name      string    `json:"name" yaml:"name"`
	Position  Point     `json:"position" yaml:"position"`
	Direction Direction `json:"direction" yaml:"direction"`
}

// StepResult classifies the outcome of a single step
type StepResult string

const (
	StepMoved           StepResult = "moved"
	StepBlockedBoundary StepResult = "blocked_boundary"
	StepBlockedRover    StepResult = "blocked_rover"
)

// StepOutcome describes what happened when a rover was asked to step.
// A blocked step is still a successful call.
type StepOutcome struct {
	Rover     string     `json:"rover"`
	Direction Direction  `json:"direction"`
	From      Point      `json:"from"`
	To        Point      `json:"to"`
	Attempted Point      `json:"attempted"`
	Result    StepResult `json:"result"`
	BlockedBy string     `json:"blocked_by,omitempty"`
}

// Moved reports whether the rover changed position
func (o StepOutcome) Moved() bool {
	return o.Result == StepMoved
}

// MissionState is the serializable state of a plateau and its history
type MissionState struct {
	ScenarioName string             `json:"scenario_name"`
	Southwest    Point              `json:"southwest"`
	Northeast    Point              `json:"northeast"`
	Rovers       []Rover            `json:"rovers"`
	Message      string             `json:"message"`
	MoveHistory  []MoveHistoryEntry `json:"move_history"`
	TotalMoves   int                `json:"total_moves"`

	// CurrentMoves tracks only the moves since the last reset. MoveHistory stays cumulative.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`

	// Computed helper view, only filled when the plateau is small enough to draw
	Grid []string `json:"grid,omitempty"`
}

// MoveHistoryEntry records a single step request
type MoveHistoryEntry struct {
	ID         string     `json:"id"`
	Rover      string     `json:"rover"`
	Direction  Direction  `json:"direction"`
	From       Point      `json:"from"`
	To         Point      `json:"to"`
	Result     StepResult `json:"result"`
	BlockedBy  string     `json:"blocked_by,omitempty"`
	Timestamp  int64      `json:"timestamp"`
	MoveNumber int        `json:"move_number"`
}

// Clone returns a deep copy safe to hand to another goroutine
func (s *MissionState) Clone() *MissionState {
	if s == nil {
		return nil
	}
	clone := *s
	clone.Rovers = append([]Rover(nil), s.Rovers...)
	clone.MoveHistory = append([]MoveHistoryEntry{}, s.MoveHistory...)
	clone.CurrentMoves = append([]MoveHistoryEntry{}, s.CurrentMoves...)
	if s.Grid != nil {
		clone.Grid = append([]string(nil), s.Grid...)
	}
	return &clone
}
