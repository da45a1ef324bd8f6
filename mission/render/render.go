package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/wricardo/mcp-training/marsrover/mission/engine"
)

// Width of the row label column left of the grid
const gutterWidth = 5

var (
	styleTitle    = tcell.StyleDefault.Bold(true)
	styleEmpty    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleRover    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleSelected = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	styleLabel    = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleHelp     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Frame is one screenful of mission state
type Frame struct {
	Title     string
	Southwest engine.Point
	Northeast engine.Point
	Rovers    []engine.Rover
	Selected  string
	Status    string
	Help      string
}

// FrameFromState builds a frame from a mission state snapshot
func FrameFromState(state *engine.MissionState) Frame {
	return Frame{
		Title:     fmt.Sprintf("%s  %s-%s  moves: %d", state.ScenarioName, state.Southwest, state.Northeast, state.TotalMoves),
		Southwest: state.Southwest,
		Northeast: state.Northeast,
		Rovers:    state.Rovers,
		Status:    state.Message,
	}
}

// Draw clears the screen and paints the frame: the title on the first row,
// the plateau north-up with row labels, then the status line and one line per rover.
func Draw(screen tcell.Screen, frame Frame) {
	screen.Clear()

	row := 0
	drawText(screen, 0, row, styleTitle, frame.Title)
	row += 2

	lines, err := engine.RenderGrid(frame.Southwest, frame.Northeast, frame.Rovers)
	if err != nil {
		drawText(screen, 0, row, styleEmpty, "(plateau too large to draw)")
		row++
	} else {
		selected, hasSelected := selectedPosition(frame)
		for i, line := range lines {
			y := frame.Northeast.Y - i
			drawText(screen, 0, row, styleLabel, fmt.Sprintf("%4d ", y))
			for j, cell := range line {
				style := styleEmpty
				if cell != '.' {
					style = styleRover
					if hasSelected && selected == engine.NewPoint(frame.Southwest.X+j, y) {
						style = styleSelected
					}
				}
				screen.SetContent(gutterWidth+j, row, cell, nil, style)
			}
			row++
		}
	}
	row++

	if frame.Status != "" {
		drawText(screen, 0, row, styleStatus, frame.Status)
		row++
	}

	for _, rover := range frame.Rovers {
		marker := " "
		if rover.Name == frame.Selected {
			marker = "*"
		}
		drawText(screen, 0, row, tcell.StyleDefault, fmt.Sprintf("%s %s %s %c", marker, rover.Name, rover.Position, rover.Direction.Glyph()))
		row++
	}

	if frame.Help != "" {
		row++
		drawText(screen, 0, row, styleHelp, frame.Help)
	}

	screen.Show()
}

func selectedPosition(frame Frame) (engine.Point, bool) {
	for _, rover := range frame.Rovers {
		if rover.Name == frame.Selected {
			return rover.Position, true
		}
	}
	return engine.Point{}, false
}

// drawText writes s starting at (x, y). Cells past the screen edge are dropped by tcell.
func drawText(screen tcell.Screen, x, y int, style tcell.Style, s string) {
	for _, r := range s {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}
