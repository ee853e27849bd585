// Package route implements the route-composition search: expanding location
// codes into flight endpoints, matching ground transfers to flights by city
// and weekly schedule, and enumerating every legal itinerary.
package route

import (
	"errors"
	"time"

	"github.com/flightroutes/flightroutes/internal/transportation"
)

// Search errors.
var (
	// ErrSameLocation is returned when origin and destination codes resolve
	// to the same location.
	ErrSameLocation = errors.New("origin and destination cannot be the same location")

	// ErrStoreUnavailable is returned when the schedule store failed or timed
	// out. The search never retries; retry policy belongs to the caller.
	ErrStoreUnavailable = errors.New("schedule store unavailable")
)

// Itinerary is one legal route: an optional intra-city ground transfer, the
// flight, and an optional intra-city ground transfer at the far end. It is a
// pure value constructed fresh per query; it never aliases store state.
//
// Invariants hold by construction: the flight segment is the only FLIGHT
// kind, and each ground segment stays within the city of the flight endpoint
// it connects to.
type Itinerary struct {
	Before *transportation.Edge
	Flight transportation.Edge
	After  *transportation.Edge

	OriginName      string
	DestinationName string
}

// ISOWeekday returns the ISO weekday of t, Monday=1 through Sunday=7.
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
