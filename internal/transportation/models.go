// Package transportation provides transportation edge management and the
// index-backed schedule queries the route search is built on.
package transportation

import (
	"errors"
	"time"

	"github.com/flightroutes/flightroutes/internal/location"
)

// Repository errors.
var (
	ErrTransportationNotFound = errors.New("transportation not found")
	ErrDuplicateEdge          = errors.New("transportation already exists for origin, destination and type")
)

// Kind is the closed set of transportation types.
type Kind string

// Transportation kinds. FLIGHT is the only kind allowed as the middle
// segment of an itinerary; all others are intra-city ground transfers.
const (
	KindFlight Kind = "FLIGHT"
	KindBus    Kind = "BUS"
	KindSubway Kind = "SUBWAY"
	KindUber   Kind = "UBER"
)

// Kinds lists every valid transportation kind.
var Kinds = []Kind{KindFlight, KindBus, KindSubway, KindUber}

// Valid reports whether k is a known transportation kind.
func (k Kind) Valid() bool {
	switch k {
	case KindFlight, KindBus, KindSubway, KindUber:
		return true
	}
	return false
}

// IsFlight reports whether k is the flight kind.
func (k Kind) IsFlight() bool {
	return k == KindFlight
}

// Edge represents a scheduled transportation segment between two locations.
// At most one edge exists per (origin, destination, kind) triple; the
// uniqueness is owned by the store.
type Edge struct {
	ID            string
	Origin        location.Location
	Destination   location.Location
	Kind          Kind
	OperatingDays []int // ISO weekdays, Monday=1..Sunday=7
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OperatesOn reports whether the edge runs on the given ISO weekday.
func (e *Edge) OperatesOn(weekday int) bool {
	for _, d := range e.OperatingDays {
		if d == weekday {
			return true
		}
	}
	return false
}
