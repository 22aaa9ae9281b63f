// Package engine provides the rover movement logic for the Mars Rover mission server.
//
// The engine package implements:
//   - The Direction heading enum and its rotation algebra
//   - Position and Plateau value types with an inclusive bounds test
//   - The tolerant command walk that moves a rover across a plateau
//   - MissionEngine, which owns one rover for the lifetime of a session
//
// Core Types:
//
// ExecuteMovements is the pure core: it applies a command string to a Rover,
// one rune at a time. Unknown runes are skipped and moves that would leave the
// plateau are dropped, so the walk never fails. Trace performs the same walk
// and records every step.
//
// MissionEngine wraps a rover with a MissionConfig and keeps a command history
// across executions and resets, the way a session needs it.
//
// Usage:
//
//	rover := engine.Rover{Position: engine.Position{X: 1, Y: 2}, Direction: engine.North}
//	engine.ExecuteMovements(&rover, engine.Plateau{MaxX: 5, MaxY: 5}, "LMLMLMLMM")
//	fmt.Println(rover.Report()) // 1 3 N
//
// Input validation lives in the input package. Everything here assumes the
// plateau is non-negative and the starting position is on it.
package engine
