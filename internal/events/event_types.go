package events

import "time"

// EventType labels audit-relevant occurrences in the session and placement lifecycles.
type EventType string

const (
	EventUserLoggedIn     EventType = "user.logged_in"
	EventUserLoggedOut    EventType = "user.logged_out"
	EventSessionRefreshed EventType = "session.refreshed"
	EventRefreshRejected  EventType = "session.refresh_rejected"
	EventPlacementSaved   EventType = "placement.saved"
	EventPlacementDeleted EventType = "placement.deleted"
)

// Event carries the type plus a loose payload for audit consumers.
type Event struct {
	Type       EventType
	OccurredAt time.Time
	Payload    map[string]any
}

// NewEvent builds an event stamped with the current time.
func NewEvent(eventType EventType, payload map[string]any) Event {
	return Event{Type: eventType, OccurredAt: time.Now(), Payload: payload}
}
