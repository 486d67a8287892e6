package core

import "fmt"

// EventType represents the kind of mutation applied to the store.
type EventType string

const (
	EventLoaded     EventType = "LOADED"
	EventAdded      EventType = "ADDED"
	EventUpdated    EventType = "UPDATED"
	EventDeleted    EventType = "DELETED"
	EventSelected   EventType = "SELECTED"
	EventReset      EventType = "RESET"
	EventDraft      EventType = "DRAFT"
	// EventIdentified follows EventLoaded when notes loaded without an ID were given one.
	EventIdentified EventType = "IDENTIFIED"
)

// Mutates reports whether the event changed the note collection itself.
func (t EventType) Mutates() bool {
	switch t {
	case EventAdded, EventUpdated, EventDeleted, EventIdentified:
		return true
	}
	return false
}

// Event describes a change in the store.
// Index is the affected position at the time of the change, -1 when none.
type Event struct {
	Type      EventType
	Index     int
	ID        string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	if e.ID == "" {
		return string(e.Type)
	}
	return fmt.Sprintf("%s %s@%d", e.Type, e.ID, e.Index)
}

// Listener receives store events. It runs on the goroutine that mutated the store,
// after the store lock is released, so it may read the store but should not block.
type Listener func(Event)
