// Package navigation owns the position and heading of a single walker
// and the transitions that mutate them.
package navigation

import (
	"fmt"

	"gridwalk/internal/grid"
	"gridwalk/internal/model"
)

// Engine is the per-walker state machine. Transitions are synchronous
// and total: every call leaves a complete valid state behind. The engine
// is not goroutine-safe; callers serialize access to it.
type Engine struct {
	grid     *grid.Model
	position model.Position
	heading  model.Heading
	status   string
}

// New creates an engine at the given starting position facing north
func New(g *grid.Model, start model.Position) *Engine {
	return &Engine{
		grid:     g,
		position: g.Clamp(start),
		heading:  model.HeadingNorth,
		status:   "ready",
	}
}

// Position returns the current grid position
func (e *Engine) Position() model.Position {
	return e.position
}

// Heading returns the current facing direction
func (e *Engine) Heading() model.Heading {
	return e.heading
}

// Status returns the human-readable outcome of the last transition
func (e *Engine) Status() string {
	return e.status
}

// Label returns the intersection name of the current position
func (e *Engine) Label() model.Label {
	return e.grid.Describe(e.position)
}

// MoveForward advances one block along the current heading. A blocked
// move leaves the position unchanged and only updates the status line.
func (e *Engine) MoveForward() bool {
	return e.advance(e.heading, "moving toward")
}

// MoveBackward steps one block opposite to the current heading. The
// heading itself does not change.
func (e *Engine) MoveBackward() bool {
	return e.advance(e.heading.Opposite(), "backing toward")
}

// TurnLeft rotates the heading one quarter turn counterclockwise and,
// when the block in the new direction is open, advances into it.
// Turning and moving are a single coupled action.
func (e *Engine) TurnLeft() bool {
	e.heading = e.heading.RotateLeft()
	return e.advance(e.heading, "moving toward")
}

// TurnRight rotates the heading one quarter turn clockwise and, when
// open, advances into the new direction
func (e *Engine) TurnRight() bool {
	e.heading = e.heading.RotateRight()
	return e.advance(e.heading, "moving toward")
}

// advance attempts a single-block step in the given direction. Returns
// false when the step was blocked by the grid bounds.
func (e *Engine) advance(direction model.Heading, verb string) bool {
	candidate := e.position.Step(direction)
	if !e.grid.Contains(candidate) {
		e.status = fmt.Sprintf("blocked toward %s", direction)
		return false
	}

	e.position = candidate
	e.status = fmt.Sprintf("%s %s", verb, e.grid.Describe(candidate))
	return true
}
