// Package render draws mission state on a terminal with tcell.
//
// Draw paints a single Frame and is usable with any tcell.Screen, including
// tcell's simulation screen in tests. Viewer adds a key-driven loop over an
// engine.Engine for stepping rovers by hand.
package render
