// Package input turns raw pointer samples into clicks and drags.
package input

import (
	"fmt"
	"time"
)

// State of the pointer machine.
type State int

const (
	Idle State = iota
	Pressed
	Dragging
	Released
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pressed:
		return "pressed"
	case Dragging:
		return "dragging"
	case Released:
		return "released"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Sample is one pointer reading.
type Sample struct {
	X, Y int
	Down bool
	At   time.Time
}

// EventKind classifies pointer events.
type EventKind int

const (
	Click EventKind = iota
	DragStart
	DragMove
	Drop
)

func (k EventKind) String() string {
	switch k {
	case Click:
		return "click"
	case DragStart:
		return "drag-start"
	case DragMove:
		return "drag-move"
	case Drop:
		return "drop"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is emitted on state transitions. For DragStart, X and Y are where
// the press began; otherwise they are the current position.
type Event struct {
	Kind EventKind
	X, Y int
}

// Pointer is the Idle -> Pressed -> Dragging -> Released machine. A press
// becomes a drag once the pointer moves DragDistance cells from where it was
// pressed, or is held for HoldDuration.
type Pointer struct {
	DragDistance int
	HoldDuration time.Duration

	state          State
	pressX, pressY int
	pressAt        time.Time
	lastX, lastY   int
}

// NewPointer returns a machine with the given thresholds.
func NewPointer(dragDistance int, hold time.Duration) *Pointer {
	return &Pointer{DragDistance: dragDistance, HoldDuration: hold}
}

// State returns the current state.
func (p *Pointer) State() State { return p.state }

// Feed advances the machine with one sample and returns the events it
// produced.
func (p *Pointer) Feed(s Sample) []Event {
	if p.state == Released {
		p.state = Idle
	}
	switch p.state {
	case Idle:
		if s.Down {
			p.state = Pressed
			p.pressX, p.pressY, p.pressAt = s.X, s.Y, s.At
			p.lastX, p.lastY = s.X, s.Y
		}
		return nil

	case Pressed:
		if !s.Down {
			p.state = Released
			return []Event{{Kind: Click, X: s.X, Y: s.Y}}
		}
		if !p.crossed(s) {
			return nil
		}
		p.state = Dragging
		p.lastX, p.lastY = s.X, s.Y
		evs := []Event{{Kind: DragStart, X: p.pressX, Y: p.pressY}}
		if s.X != p.pressX || s.Y != p.pressY {
			evs = append(evs, Event{Kind: DragMove, X: s.X, Y: s.Y})
		}
		return evs

	case Dragging:
		if !s.Down {
			p.state = Released
			return []Event{{Kind: Drop, X: s.X, Y: s.Y}}
		}
		if s.X == p.lastX && s.Y == p.lastY {
			return nil
		}
		p.lastX, p.lastY = s.X, s.Y
		return []Event{{Kind: DragMove, X: s.X, Y: s.Y}}
	}
	return nil
}

// Reset returns the machine to Idle, abandoning any press or drag.
func (p *Pointer) Reset() { p.state = Idle }

func (p *Pointer) crossed(s Sample) bool {
	if p.HoldDuration > 0 && !s.At.IsZero() && s.At.Sub(p.pressAt) >= p.HoldDuration {
		return true
	}
	dx, dy := abs(s.X-p.pressX), abs(s.Y-p.pressY)
	return max(dx, dy) >= max(p.DragDistance, 1)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
