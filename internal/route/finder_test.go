package route_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/flightroutes/flightroutes/internal/location"
	"github.com/flightroutes/flightroutes/internal/route"
	"github.com/flightroutes/flightroutes/internal/transportation"
)

// Fixture dates: 2026-03-02 is a Monday, 2026-03-04 a Wednesday,
// 2026-03-06 a Friday.
var (
	monday    = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	tuesday   = time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	wednesday = time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	friday    = time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	locationRepo       *location.InMemoryRepository
	transportationRepo *transportation.InMemoryRepository
	finder             *route.Finder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	locationRepo := location.NewInMemoryRepository()
	transportationRepo := transportation.NewInMemoryRepository(locationRepo)
	resolver := location.NewService(locationRepo, nil)
	finder := route.NewFinder(resolver, transportationRepo, zerolog.New(io.Discard))

	return &fixture{
		locationRepo:       locationRepo,
		transportationRepo: transportationRepo,
		finder:             finder,
	}
}

func (f *fixture) addLocation(t *testing.T, id, name, city, code string, anchor bool) *location.Location {
	t.Helper()
	loc := &location.Location{
		ID:       id,
		Name:     name,
		Country:  "Turkey",
		City:     city,
		Code:     code,
		IsAnchor: anchor,
	}
	if err := f.locationRepo.Create(context.Background(), loc); err != nil {
		t.Fatalf("creating location %s: %v", code, err)
	}
	return loc
}

func (f *fixture) addEdge(t *testing.T, id string, origin, destination *location.Location, kind transportation.Kind, days []int) {
	t.Helper()
	err := f.transportationRepo.Create(context.Background(), &transportation.Edge{
		ID:            id,
		Origin:        *origin,
		Destination:   *destination,
		Kind:          kind,
		OperatingDays: days,
	})
	if err != nil {
		t.Fatalf("creating edge %s: %v", id, err)
	}
}

// standardFixture builds the Istanbul/New York network used by most tests:
//
//	IST, SAW   anchors in Istanbul; CCIST the Istanbul hub
//	JFK, EWR   anchors in New York; CCNYC the New York hub
//	flights    IST->JFK {Mon,Wed}, SAW->JFK {Mon}, IST->EWR {Fri}
//	transfers  CCIST->IST UBER daily, CCIST->IST BUS {Mon},
//	           CCIST->SAW SUBWAY {Mon}, JFK->CCNYC BUS {Mon,Wed}
func standardFixture(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)

	ist := f.addLocation(t, "loc_ist", "Istanbul Airport", "Istanbul", "IST", true)
	saw := f.addLocation(t, "loc_saw", "Sabiha Gokcen Airport", "Istanbul", "SAW", true)
	ccist := f.addLocation(t, "loc_ccist", "Istanbul City Center", "Istanbul", "CCIST", false)
	jfk := f.addLocation(t, "loc_jfk", "John F. Kennedy Airport", "New York", "JFK", true)
	ewr := f.addLocation(t, "loc_ewr", "Newark Airport", "New York", "EWR", true)
	ccnyc := f.addLocation(t, "loc_ccnyc", "New York City Center", "New York", "CCNYC", false)

	f.addEdge(t, "trn_f1", ist, jfk, transportation.KindFlight, []int{1, 3})
	f.addEdge(t, "trn_f2", saw, jfk, transportation.KindFlight, []int{1})
	f.addEdge(t, "trn_f3", ist, ewr, transportation.KindFlight, []int{5})
	f.addEdge(t, "trn_g1", ccist, ist, transportation.KindUber, []int{1, 2, 3, 4, 5, 6, 7})
	f.addEdge(t, "trn_g2", ccist, ist, transportation.KindBus, []int{1})
	f.addEdge(t, "trn_g3", ccist, saw, transportation.KindSubway, []int{1})
	f.addEdge(t, "trn_g4", jfk, ccnyc, transportation.KindBus, []int{1, 3})

	return f
}

func TestFinder_AnchorToAnchor_DirectFlight(t *testing.T) {
	f := standardFixture(t)

	itineraries, err := f.finder.FindItineraries(context.Background(), "IST", "JFK", monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(itineraries) != 1 {
		t.Fatalf("expected 1 itinerary, got %d", len(itineraries))
	}
	it := itineraries[0]
	if it.Before != nil || it.After != nil {
		t.Error("anchor endpoints must not carry ground transfers")
	}
	if it.Flight.ID != "trn_f1" {
		t.Errorf("expected flight trn_f1, got %s", it.Flight.ID)
	}
	if it.OriginName != "Istanbul Airport" || it.DestinationName != "John F. Kennedy Airport" {
		t.Errorf("unexpected endpoint names: %q -> %q", it.OriginName, it.DestinationName)
	}
}

func TestFinder_HubOrigin_CrossProduct(t *testing.T) {
	f := standardFixture(t)

	// Monday: flight IST->JFK reachable via UBER and BUS, flight SAW->JFK
	// via SUBWAY. 2 + 1 itineraries.
	itineraries, err := f.finder.FindItineraries(context.Background(), "CCIST", "JFK", monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(itineraries) != 3 {
		t.Fatalf("expected 3 itineraries, got %d", len(itineraries))
	}

	type leg struct{ flight, before string }
	want := []leg{
		{"trn_f1", "trn_g1"},
		{"trn_f1", "trn_g2"},
		{"trn_f2", "trn_g3"},
	}
	for i, w := range want {
		it := itineraries[i]
		if it.Flight.ID != w.flight {
			t.Errorf("itinerary %d: expected flight %s, got %s", i, w.flight, it.Flight.ID)
		}
		if it.Before == nil || it.Before.ID != w.before {
			t.Errorf("itinerary %d: expected transfer %s, got %+v", i, w.before, it.Before)
		}
		if it.Before != nil && it.Before.Kind == transportation.KindFlight {
			t.Errorf("itinerary %d: ground segment must not be a flight", i)
		}
		if it.After != nil {
			t.Errorf("itinerary %d: anchor destination must not carry an after transfer", i)
		}
	}
}

func TestFinder_HubOrigin_TransferScheduleFiltersFlights(t *testing.T) {
	f := standardFixture(t)

	// Wednesday: only IST->JFK flies, and only the daily UBER reaches IST.
	itineraries, err := f.finder.FindItineraries(context.Background(), "CCIST", "JFK", wednesday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(itineraries) != 1 {
		t.Fatalf("expected 1 itinerary, got %d", len(itineraries))
	}
	if itineraries[0].Before.ID != "trn_g1" {
		t.Errorf("expected transfer trn_g1, got %s", itineraries[0].Before.ID)
	}
}

func TestFinder_HubDestination_AfterTransfers(t *testing.T) {
	f := standardFixture(t)

	itineraries, err := f.finder.FindItineraries(context.Background(), "IST", "CCNYC", monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// IST->JFK then JFK->CCNYC bus. IST->EWR does not fly on Monday.
	if len(itineraries) != 1 {
		t.Fatalf("expected 1 itinerary, got %d", len(itineraries))
	}
	it := itineraries[0]
	if it.Before != nil {
		t.Error("anchor origin must not carry a before transfer")
	}
	if it.After == nil || it.After.ID != "trn_g4" {
		t.Errorf("expected after transfer trn_g4, got %+v", it.After)
	}
}

func TestFinder_HubDestination_NoQualifyingTransferDropsFlight(t *testing.T) {
	f := standardFixture(t)

	// Friday: IST->EWR flies, but no ground transfer leaves EWR toward the
	// city, so the flight contributes nothing.
	itineraries, err := f.finder.FindItineraries(context.Background(), "IST", "CCNYC", friday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(itineraries) != 0 {
		t.Fatalf("expected no itineraries, got %d", len(itineraries))
	}
}

func TestFinder_NoFlightOnRequestedDay(t *testing.T) {
	f := standardFixture(t)

	itineraries, err := f.finder.FindItineraries(context.Background(), "IST", "JFK", tuesday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(itineraries) != 0 {
		t.Fatalf("expected no itineraries, got %d", len(itineraries))
	}
}

func TestFinder_SameLocation(t *testing.T) {
	f := standardFixture(t)

	_, err := f.finder.FindItineraries(context.Background(), "IST", "IST", monday)
	if !errors.Is(err, route.ErrSameLocation) {
		t.Fatalf("expected ErrSameLocation, got %v", err)
	}

	_, err = f.finder.FindAvailableWeekdays(context.Background(), "IST", "IST")
	if !errors.Is(err, route.ErrSameLocation) {
		t.Fatalf("expected ErrSameLocation, got %v", err)
	}
}

func TestFinder_UnknownLocation(t *testing.T) {
	f := standardFixture(t)

	_, err := f.finder.FindItineraries(context.Background(), "XXX", "JFK", monday)
	if !errors.Is(err, location.ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}

	_, err = f.finder.FindItineraries(context.Background(), "IST", "XXX", monday)
	if !errors.Is(err, location.ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
}

func TestFinder_EmptyHubResolvesToEmptyResult(t *testing.T) {
	f := standardFixture(t)
	// A hub in a city with no anchors is unreachable, not an error.
	f.addLocation(t, "loc_ccgho", "Ghost Town Center", "Ghost Town", "CCGH", false)

	itineraries, err := f.finder.FindItineraries(context.Background(), "CCGH", "JFK", monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(itineraries) != 0 {
		t.Fatalf("expected no itineraries, got %d", len(itineraries))
	}

	days, err := f.finder.FindAvailableWeekdays(context.Background(), "CCGH", "JFK")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 0 {
		t.Fatalf("expected no days, got %v", days)
	}
}

func TestFinder_AvailableWeekdays_UnionOverAnchorSets(t *testing.T) {
	f := standardFixture(t)

	days, err := f.finder.FindAvailableWeekdays(context.Background(), "CCIST", "JFK")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// IST->JFK {1,3} union SAW->JFK {1}; the IST->EWR Friday flight does
	// not reach JFK.
	want := []int{1, 3}
	if len(days) != len(want) {
		t.Fatalf("expected days %v, got %v", want, days)
	}
	for i := range want {
		if days[i] != want[i] {
			t.Fatalf("expected days %v, got %v", want, days)
		}
	}
}

func TestFinder_Deterministic(t *testing.T) {
	f := standardFixture(t)

	first, err := f.finder.FindItineraries(context.Background(), "CCIST", "JFK", monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for run := 0; run < 5; run++ {
		again, err := f.finder.FindItineraries(context.Background(), "CCIST", "JFK", monday)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("run %d: expected %d itineraries, got %d", run, len(first), len(again))
		}
		for i := range first {
			if again[i].Flight.ID != first[i].Flight.ID {
				t.Fatalf("run %d: itinerary order changed", run)
			}
		}
	}
}

// failingStore fails every query.
type failingStore struct{}

var errBoom = errors.New("boom")

func (failingStore) FindFlights(context.Context, []string, []string, int) ([]*transportation.Edge, error) {
	return nil, errBoom
}

func (failingStore) GroundTransfersTo(context.Context, string, string, int) ([]*transportation.Edge, error) {
	return nil, errBoom
}

func (failingStore) GroundTransfersFrom(context.Context, string, string, int) ([]*transportation.Edge, error) {
	return nil, errBoom
}

func (failingStore) UnionOperatingDays(context.Context, []string, []string) ([]int, error) {
	return nil, errBoom
}

func TestFinder_StoreFailureMapsToUnavailable(t *testing.T) {
	f := standardFixture(t)
	resolver := location.NewService(f.locationRepo, nil)
	finder := route.NewFinder(resolver, failingStore{}, zerolog.New(io.Discard))

	_, err := finder.FindItineraries(context.Background(), "IST", "JFK", monday)
	if !errors.Is(err, route.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}

	_, err = finder.FindAvailableWeekdays(context.Background(), "IST", "JFK")
	if !errors.Is(err, route.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestISOWeekday(t *testing.T) {
	tests := []struct {
		date time.Time
		want int
	}{
		{monday, 1},
		{wednesday, 3},
		{friday, 5},
		{time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), 7}, // Sunday
	}
	for _, tt := range tests {
		if got := route.ISOWeekday(tt.date); got != tt.want {
			t.Errorf("ISOWeekday(%s) = %d, want %d", tt.date.Format("2006-01-02"), got, tt.want)
		}
	}
}
