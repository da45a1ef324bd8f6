package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/wricardo/mcp-training/marsrover/mission/engine"
)

const watchHelp = "q: quit"

// Watch draws every state received on states until the channel is closed or
// the user quits. It returns the last state drawn, nil if none arrived.
func Watch(screen tcell.Screen, title string, states <-chan *engine.MissionState) *engine.MissionState {
	events := make(chan tcell.Event)
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	var last *engine.MissionState
	draw := func() {
		if last == nil {
			screen.Clear()
			drawText(screen, 0, 0, styleTitle, title)
			drawText(screen, 0, 2, styleEmpty, "Waiting for mission state...")
			drawText(screen, 0, 4, styleHelp, watchHelp)
			screen.Show()
			return
		}
		frame := FrameFromState(last)
		frame.Title = title + "  " + frame.Title
		frame.Help = watchHelp
		Draw(screen, frame)
	}
	draw()

	for {
		select {
		case state, ok := <-states:
			if !ok {
				return last
			}
			last = state
			draw()

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if isQuit(ev) {
					return last
				}
			case *tcell.EventResize:
				screen.Sync()
				draw()
			}
		}
	}
}
