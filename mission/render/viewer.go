package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/wricardo/mcp-training/marsrover/mission/engine"
)

const helpLine = "tab: next rover  enter/space: step  r: reset  q: quit"

// Viewer is an interactive terminal view of one engine
type Viewer struct {
	screen   tcell.Screen
	engine   *engine.Engine
	selected int
	status   string
}

// NewViewer creates a viewer. The caller owns screen initialization and Fini.
func NewViewer(screen tcell.Screen, eng *engine.Engine) *Viewer {
	return &Viewer{screen: screen, engine: eng}
}

// Selected returns the name of the rover the next step applies to
func (v *Viewer) Selected() string {
	rovers := v.engine.GetPlateau().Rovers()
	if len(rovers) == 0 {
		return ""
	}
	return rovers[v.selected%len(rovers)].Name
}

// Draw paints the current state
func (v *Viewer) Draw() {
	state := v.engine.GetState()
	frame := FrameFromState(state)
	frame.Selected = v.Selected()
	frame.Help = helpLine
	if v.status != "" {
		frame.Status = v.status
	}
	Draw(v.screen, frame)
}

// HandleEvent applies one input event. It returns false when the viewer should exit.
func (v *Viewer) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if isQuit(ev) {
			return false
		}
		switch ev.Key() {
		case tcell.KeyTab:
			v.cycle(1)
		case tcell.KeyBacktab:
			v.cycle(-1)
		case tcell.KeyEnter:
			v.step()
		case tcell.KeyRune:
			switch ev.Rune() {
			case ' ':
				v.step()
			case 'r', 'R':
				v.engine.Reset()
				v.selected = 0
				v.status = "Mission reset"
			case 'n':
				v.cycle(1)
			case 'p':
				v.cycle(-1)
			}
		}

	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

// Run draws and handles events until the user quits or the screen is finalized
func (v *Viewer) Run() {
	for {
		v.Draw()
		ev := v.screen.PollEvent()
		if ev == nil {
			return
		}
		if !v.HandleEvent(ev) {
			return
		}
	}
}

func (v *Viewer) cycle(delta int) {
	count := v.engine.GetPlateau().Count()
	if count == 0 {
		return
	}
	v.selected = ((v.selected+delta)%count + count) % count
	v.status = fmt.Sprintf("Selected %s", v.Selected())
}

func (v *Viewer) step() {
	name := v.Selected()
	if name == "" {
		v.status = "No rovers on the plateau"
		return
	}
	if _, err := v.engine.Move(name); err != nil {
		v.status = err.Error()
		return
	}
	// The engine's message describes the step
	v.status = ""
}

func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}
