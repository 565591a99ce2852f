package models

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// RevealState is an item's display state. Transitions only move forward:
// Hidden, then Searching, then Revealed.
type RevealState int

const (
	Revealed RevealState = iota
	Hidden
	Searching
)

func (s RevealState) String() string {
	switch s {
	case Revealed:
		return "revealed"
	case Hidden:
		return "hidden"
	case Searching:
		return "searching"
	default:
		return fmt.Sprintf("RevealState(%d)", int(s))
	}
}

func (s RevealState) rank() int {
	switch s {
	case Hidden:
		return 0
	case Searching:
		return 1
	default:
		return 2
	}
}

// Item is a placed (or held) instance of a Definition.
type Item struct {
	ID      uuid.UUID
	Def     *Definition
	Rotated bool
	Pos     Point
	// GridID is the grid currently holding the item, empty while held or
	// after removal.
	GridID string
	// Counted is set once the item's attributes are in the running totals,
	// so an item kept across rounds is only added once.
	Counted bool

	state     RevealState
	destroyed bool
}

// NewItem creates a revealed instance of def.
func NewItem(def *Definition) *Item {
	return &Item{ID: uuid.New(), Def: def, state: Revealed}
}

// Size is the footprint accounting for rotation.
func (it *Item) Size() Size {
	if it.Rotated {
		return Size{W: it.Def.Size.H, H: it.Def.Size.W}
	}
	return it.Def.Size
}

// Rect is the item's recorded footprint at its anchor.
func (it *Item) Rect() Rect {
	s := it.Size()
	return Rect{X: it.Pos.X, Y: it.Pos.Y, W: s.W, H: s.H}
}

// Rotate swaps the effective width and height.
func (it *Item) Rotate() { it.Rotated = !it.Rotated }

// State returns the reveal state.
func (it *Item) State() RevealState { return it.state }

// SetState moves the item forward to s. Backward moves are ignored and
// reported as false.
func (it *Item) SetState(s RevealState) bool {
	if s.rank() < it.state.rank() {
		slog.Error("refusing backward reveal transition", "item", it.ID, "from", it.state, "to", s)
		return false
	}
	it.state = s
	return true
}

// Hide marks a freshly spawned item as awaiting reveal.
func (it *Item) Hide() { it.state = Hidden }

// ResetState sets the state unconditionally; used when rebuilding grids from
// a snapshot.
func (it *Item) ResetState(s RevealState) { it.state = s }

// Destroy marks the item as gone. Anything still referring to it, such as
// the reveal queue, must skip it.
func (it *Item) Destroy() {
	it.destroyed = true
	it.GridID = ""
}

// Destroyed reports whether Destroy was called.
func (it *Item) Destroyed() bool { return it.destroyed }

func (it *Item) String() string {
	return fmt.Sprintf("%s@(%d,%d)", it.Def, it.Pos.X, it.Pos.Y)
}
