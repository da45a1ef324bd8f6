package engine

import (
	"fmt"
	"sync"
)

// Plateau is a bounded rectangular grid hosting named rovers.
// All rover access goes through a single mutex so that an occupancy check and
// the position update that follows it are observed together.
type Plateau struct {
	southwest Point
	northeast Point

	mu     sync.Mutex
	rovers map[string]*Rover
	order  []string
}

// NewPlateau creates a plateau from two opposite corners given in any order
func NewPlateau(a, b Point) *Plateau {
	return &Plateau{
		southwest: Point{X: min(a.X, b.X), Y: min(a.Y, b.Y)},
		northeast: Point{X: max(a.X, b.X), Y: max(a.Y, b.Y)},
		rovers:    make(map[string]*Rover),
	}
}

// Southwest returns the lower-left corner
func (p *Plateau) Southwest() Point {
	return p.southwest
}

// Northeast returns the upper-right corner
func (p *Plateau) Northeast() Point {
	return p.northeast
}

// Contains reports whether point lies within the plateau, bounds inclusive
func (p *Plateau) Contains(point Point) bool {
	return p.southwest.X <= point.X && point.X <= p.northeast.X &&
		p.southwest.Y <= point.Y && point.Y <= p.northeast.Y
}

// Occupied reports whether a registered rover currently sits on point
func (p *Plateau) Occupied(point Point) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, found := p.occupantLocked(point)
	return found
}

// Occupant returns the name of the rover on point, if any
func (p *Plateau) Occupant(point Point) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.occupantLocked(point)
}

// AddRover registers a rover. Checks run in a fixed order: name, bounds, occupancy.
func (p *Plateau) AddRover(name string, position Point, direction Direction) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.rovers[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	if !p.Contains(position) {
		return fmt.Errorf("%w: %s not within %s-%s", ErrOutOfBounds, position, p.southwest, p.northeast)
	}
	if occupant, found := p.occupantLocked(position); found {
		return fmt.Errorf("%w: %s held by %q", ErrPositionOccupied, position, occupant)
	}
	if !direction.IsValid() {
		return fmt.Errorf("invalid direction %d", int(direction))
	}

	p.rovers[name] = &Rover{Name: name, Position: position, Direction: direction}
	p.order = append(p.order, name)
	return nil
}

// MoveRover advances the named rover one cell in its facing direction.
// A step off the plateau or into another rover is refused without error.
func (p *Plateau) MoveRover(name string) error {
	_, err := p.Step(name)
	return err
}

// Step is MoveRover with a report of what happened
func (p *Plateau) Step(name string) (StepOutcome, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	rover, exists := p.rovers[name]
	if !exists {
		return StepOutcome{}, fmt.Errorf("%w: %q", ErrUnknownRover, name)
	}

	outcome := StepOutcome{
		Rover:     name,
		Direction: rover.Direction,
		From:      rover.Position,
		To:        rover.Position,
	}

	next, ok := rover.Position.Step(rover.Direction)
	outcome.Attempted = next
	if !ok || !p.Contains(next) {
		outcome.Result = StepBlockedBoundary
		return outcome, nil
	}
	if occupant, found := p.occupantLocked(next); found {
		outcome.Result = StepBlockedRover
		outcome.BlockedBy = occupant
		return outcome, nil
	}

	rover.Position = next
	outcome.To = next
	outcome.Result = StepMoved
	return outcome, nil
}

// CanStep reports whether the rover's next step would succeed, without moving it
func (p *Plateau) CanStep(name string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	rover, exists := p.rovers[name]
	if !exists {
		return false, fmt.Errorf("%w: %q", ErrUnknownRover, name)
	}
	next, ok := rover.Position.Step(rover.Direction)
	if !ok || !p.Contains(next) {
		return false, nil
	}
	_, blocked := p.occupantLocked(next)
	return !blocked, nil
}

// RoverPosition returns a copy of the rover's current position
func (p *Plateau) RoverPosition(name string) (Point, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	rover, exists := p.rovers[name]
	if !exists {
		return Point{}, fmt.Errorf("%w: %q", ErrUnknownRover, name)
	}
	return rover.Position, nil
}

// Rover returns a snapshot of the named rover
func (p *Plateau) Rover(name string) (Rover, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	rover, exists := p.rovers[name]
	if !exists {
		return Rover{}, fmt.Errorf("%w: %q", ErrUnknownRover, name)
	}
	return *rover, nil
}

// Rovers returns snapshots of all rovers in registration order
func (p *Plateau) Rovers() []Rover {
	p.mu.Lock()
	defer p.mu.Unlock()

	result := make([]Rover, 0, len(p.order))
	for _, name := range p.order {
		result = append(result, *p.rovers[name])
	}
	return result
}

// Count returns the number of registered rovers
func (p *Plateau) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.rovers)
}

// occupantLocked scans the rovers for one on point. Caller holds p.mu.
func (p *Plateau) occupantLocked(point Point) (string, bool) {
	for name, rover := range p.rovers {
		if rover.Position == point {
			return name, true
		}
	}
	return "", false
}
