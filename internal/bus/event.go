package bus

import "time"

// Event represents a domain event published on the bus.
//
// Kinds are dot-namespaced: "feed.changed", "feed.filters_changed",
// "feed.error", "inbox.changed", "connections.changed", "chat.updated",
// "session.status_changed". Subscribers filter by namespace prefix.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}
