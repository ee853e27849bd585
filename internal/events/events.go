// Package events propagates schedule-change notifications between instances.
//
// Every instance keeps its own in-process result cache. A write on one
// instance must flush the caches on all of them, so writes publish a
// schedule-changed event to a Pub/Sub topic and every instance subscribes
// to its own subscription on that topic.
package events

import (
	"encoding/json"
	"time"
)

// Event types.
const (
	// TypeScheduleChanged signals that locations or transportations were
	// modified and cached route results must be discarded.
	TypeScheduleChanged = "schedule.changed"
)

// Event is the wire format for schedule notifications.
type Event struct {
	Type       string    `json:"type"`
	Reason     string    `json:"reason,omitempty"`
	EntityID   string    `json:"entityId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Marshal encodes the event for publishing.
func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
