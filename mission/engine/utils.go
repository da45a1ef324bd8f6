package engine

import (
	"fmt"
	"math"
	"strings"
)

// ManhattanDistance calculates the Manhattan distance between two points.
// It saturates at math.MaxUint64 for points at opposite ends of the int range.
func ManhattanDistance(from, to Point) uint64 {
	distance := axisDistance(from.X, to.X) + axisDistance(from.Y, to.Y)
	if distance < axisDistance(from.X, to.X) {
		return math.MaxUint64
	}
	return distance
}

func axisDistance(a, b int) uint64 {
	if a > b {
		return uint64(a) - uint64(b)
	}
	return uint64(b) - uint64(a)
}

// Span returns the number of columns and rows covered by the corners.
// The counts are unsigned so plateaus spanning most of the int range do not overflow.
func Span(southwest, northeast Point) (width, height uint64) {
	width = uint64(northeast.X) - uint64(southwest.X) + 1
	height = uint64(northeast.Y) - uint64(southwest.Y) + 1
	return width, height
}

// RenderGrid draws rows from north to south. Empty cells are '.', rovers show their heading glyph.
// Plateaus larger than MaxRenderSize on either axis are refused.
func RenderGrid(southwest, northeast Point, rovers []Rover) ([]string, error) {
	width, height := Span(southwest, northeast)
	if width == 0 || height == 0 || width > MaxRenderSize || height > MaxRenderSize {
		return nil, fmt.Errorf("plateau %s-%s too large to render (max %dx%d)", southwest, northeast, MaxRenderSize, MaxRenderSize)
	}

	cells := make([][]rune, height)
	for row := range cells {
		cells[row] = []rune(strings.Repeat(".", int(width)))
	}
	for _, rover := range rovers {
		col := rover.Position.X - southwest.X
		row := northeast.Y - rover.Position.Y
		if row < 0 || row >= int(height) || col < 0 || col >= int(width) {
			continue
		}
		cells[row][col] = rover.Direction.Glyph()
	}

	lines := make([]string, 0, height)
	for _, row := range cells {
		lines = append(lines, string(row))
	}
	return lines, nil
}

// FindNearestRover returns the rover closest to point, other than exclude
func FindNearestRover(rovers []Rover, point Point, exclude string) (Rover, uint64, bool) {
	var (
		nearest     Rover
		minDistance uint64
		found       bool
	)
	for _, rover := range rovers {
		if rover.Name == exclude {
			continue
		}
		distance := ManhattanDistance(point, rover.Position)
		if !found || distance < minDistance {
			minDistance = distance
			nearest = rover
			found = true
		}
	}
	return nearest, minDistance, found
}
