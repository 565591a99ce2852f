package engine

import "github.com/tatianab/grid-bazaar/internal/models"

// EventKind identifies what happened.
type EventKind int

const (
	EventPlaced EventKind = iota
	EventDisplaced
	EventRelocated
	EventCombined
	EventDestroyed
	EventRefreshed
	EventGenerated
	EventSearching
	EventRevealed
	EventPhase
)

func (k EventKind) String() string {
	switch k {
	case EventPlaced:
		return "placed"
	case EventDisplaced:
		return "displaced"
	case EventRelocated:
		return "relocated"
	case EventCombined:
		return "combined"
	case EventDestroyed:
		return "destroyed"
	case EventRefreshed:
		return "refreshed"
	case EventGenerated:
		return "generated"
	case EventSearching:
		return "searching"
	case EventRevealed:
		return "revealed"
	case EventPhase:
		return "phase"
	}
	return "unknown"
}

// Event describes one state change.
type Event struct {
	Kind   EventKind
	Item   *models.Item
	Grid   string
	Phase  Phase
	Detail string
}

// Listener receives engine events synchronously, on the caller's goroutine.
type Listener interface {
	OnEvent(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

func (f ListenerFunc) OnEvent(ev Event) { f(ev) }

func (e *Engine) emit(ev Event) {
	for _, l := range e.listeners {
		l.OnEvent(ev)
	}
}
