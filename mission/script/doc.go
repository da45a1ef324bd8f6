// Package script parses and runs rover command scripts.
//
// A script is line oriented. Text after '#' is a comment.
//
//	plateau X1 Y1 X2 Y2     declare the plateau (corners in any order)
//	rover NAME X Y DIR      register a rover facing N, E, S or W
//	move NAME [COUNT]       step a rover COUNT times (default 1)
//	position NAME           report a rover's position
//
// Parse reports every malformed line as a *LineError. Execute runs the
// commands against a fresh engine.Plateau and records a typed Outcome for
// each; a blocked step is an outcome, not an error.
package script
