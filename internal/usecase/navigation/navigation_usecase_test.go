package navigation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gdugdh24/confhub-backend/internal/domain"
	"github.com/gdugdh24/confhub-backend/internal/testfixtures"
	"github.com/google/uuid"
)

type fixture struct {
	store  *testfixtures.Store
	clock  *testfixtures.Clock
	uc     *NavigationUseCase
	tenant uuid.UUID
	event  uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := testfixtures.NewClock(time.Time{})
	store := testfixtures.NewStore(clock)
	f := &fixture{store: store, clock: clock, uc: NewNavigationUseCase(store, clock.Now, nil), tenant: uuid.New()}
	f.event = store.AddEvent(domain.Event{TenantID: f.tenant, Name: "Expo"}).ID
	return f
}

func (f *fixture) beacon(name string, x, y float64, floor int) *domain.Beacon {
	b := beacon(name, x, y, floor)
	b.TenantID, b.EventID = f.tenant, f.event
	return f.store.AddBeacon(*b)
}

func TestEventBeaconsOrderedByFloorAndName(t *testing.T) {
	f := newFixture(t)
	f.beacon("Sala B", 0, 0, 1)
	f.beacon("Sala A", 0, 0, 1)
	f.beacon("Registro", 0, 0, 0)

	got, err := f.uc.EventBeacons(context.Background(), f.tenant, f.event)
	if err != nil {
		t.Fatalf("EventBeacons: %v", err)
	}
	names := []string{got[0].Name, got[1].Name, got[2].Name}
	if names[0] != "Registro" || names[1] != "Sala A" || names[2] != "Sala B" {
		t.Fatalf("order = %v", names)
	}
}

func TestUpsertBeacon(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.UpsertBeacon(ctx, f.tenant, f.event, &BeaconRequest{Name: " "})
	var v *domain.ValidationError
	if !errors.As(err, &v) || v.Fields["uuid"] == "" || v.Fields["name"] == "" {
		t.Fatalf("err = %v, want uuid and name errors", err)
	}

	created, err := f.uc.UpsertBeacon(ctx, f.tenant, f.event, &BeaconRequest{UUID: "f7826da6", Major: 1, Minor: 2, Name: "Escalera Norte", X: ptr(40.0), Y: ptr(30.0), Floor: ptr(0)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == uuid.Nil || created.TenantID != f.tenant {
		t.Fatalf("created = %+v", created)
	}

	updated, err := f.uc.UpsertBeacon(ctx, f.tenant, f.event, &BeaconRequest{ID: &created.ID, UUID: "f7826da6", Name: "Escalera Sur"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID || updated.Name != "Escalera Sur" {
		t.Fatalf("updated = %+v", updated)
	}

	missing := uuid.New()
	if _, err := f.uc.UpsertBeacon(ctx, f.tenant, f.event, &BeaconRequest{ID: &missing, UUID: "x", Name: "x"}); !errors.Is(err, domain.ErrBeaconNotFound) {
		t.Fatalf("update missing err = %v", err)
	}
	if _, err := f.uc.UpsertBeacon(ctx, f.tenant, uuid.New(), &BeaconRequest{UUID: "x", Name: "x"}); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("create on missing event err = %v", err)
	}
}

func TestHeatmapBucketsRecentPositions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.beacon("Sala A", 0, 0, 0)
	attendee := f.store.AddAttendee(domain.Attendee{TenantID: f.tenant, EventID: f.event, Name: "Ana", Email: "ana@example.com"}).ID

	old := f.clock.Now()
	f.store.AddLocation(domain.AttendeeLocation{AttendeeID: attendee, BeaconID: &b.ID, X: 1, Y: 1, Timestamp: old})
	f.clock.Advance(10 * time.Minute)

	for _, pos := range []LocationUpdate{
		{BeaconID: &b.ID, X: 12, Y: 3, Floor: 0},
		{BeaconID: &b.ID, X: 19.9, Y: 9.9, Floor: 0},
		{BeaconID: &b.ID, X: 12, Y: 3, Floor: 1},
		{BeaconID: &b.ID, X: 2, Y: 25, Floor: 0},
		{X: 50, Y: 50, Floor: 0},
	} {
		if err := f.uc.UpdateLocation(ctx, f.tenant, attendee, &pos); err != nil {
			t.Fatalf("UpdateLocation: %v", err)
		}
	}

	zones, err := f.uc.Heatmap(ctx, f.tenant, f.event)
	if err != nil {
		t.Fatalf("Heatmap: %v", err)
	}
	want := []domain.HeatZone{
		{X: 0, Y: 20, Floor: 0, Count: 1},
		{X: 10, Y: 0, Floor: 0, Count: 2},
		{X: 10, Y: 0, Floor: 1, Count: 1},
	}
	if len(zones) != len(want) {
		t.Fatalf("zones = %+v", zones)
	}
	for i := range want {
		if zones[i] != want[i] {
			t.Fatalf("zones[%d] = %+v, want %+v", i, zones[i], want[i])
		}
	}
}

func TestUpdateLocationUnknownAttendee(t *testing.T) {
	f := newFixture(t)
	err := f.uc.UpdateLocation(context.Background(), f.tenant, uuid.New(), &LocationUpdate{})
	if !errors.Is(err, domain.ErrAttendeeNotFound) {
		t.Fatalf("err = %v", err)
	}
	if len(f.store.Locations()) != 0 {
		t.Fatal("location recorded for unknown attendee")
	}
}

func TestNearbyPOIs(t *testing.T) {
	f := newFixture(t)
	f.beacon("Cafetería", 30, 40, 0)
	f.beacon("Lejos", 100, 100, 0)
	f.beacon("Otro piso", 1, 1, 1)
	f.store.AddBeacon(domain.Beacon{TenantID: f.tenant, EventID: f.event, Name: "Sin coordenadas", Floor: ptr(0)})

	got, err := f.uc.NearbyPOIs(context.Background(), f.tenant, f.event, domain.Point{Floor: 0}, 0)
	if err != nil {
		t.Fatalf("NearbyPOIs: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Cafetería" {
		t.Fatalf("nearby = %+v", got)
	}

	got, _ = f.uc.NearbyPOIs(context.Background(), f.tenant, f.event, domain.Point{Floor: 0}, 49.9)
	if len(got) != 0 {
		t.Fatalf("radius 49.9 returned %d beacons", len(got))
	}
}

func TestRouteUsesEventBeacons(t *testing.T) {
	f := newFixture(t)
	f.beacon("Escalera Norte", 40, 30, 0)

	route, err := f.uc.Route(context.Background(), f.tenant, f.event, domain.Point{}, domain.Point{X: 100, Y: 50, Floor: 1})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if len(route.Path) != 4 {
		t.Fatalf("len(path) = %d", len(route.Path))
	}
}

func TestCurrentSessionByRoom(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := f.clock.Now()
	f.store.AddSession(domain.Session{TenantID: f.tenant, EventID: f.event, Title: "Keynote", Room: ptr("Auditorio"), StartTime: now, EndTime: now.Add(time.Hour)})

	s, err := f.uc.CurrentSessionByRoom(ctx, f.tenant, f.event, "Auditorio")
	if err != nil || s == nil || s.Title != "Keynote" {
		t.Fatalf("session = %+v, err = %v", s, err)
	}

	f.clock.Advance(time.Hour)
	s, err = f.uc.CurrentSessionByRoom(ctx, f.tenant, f.event, "Auditorio")
	if err != nil || s != nil {
		t.Fatalf("after end: session = %+v, err = %v", s, err)
	}
}
