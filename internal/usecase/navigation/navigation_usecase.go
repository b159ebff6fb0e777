package navigation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/gdugdh24/confhub-backend/internal/domain"
	"github.com/gdugdh24/confhub-backend/internal/logging"
	"github.com/gdugdh24/confhub-backend/internal/repository"
	"github.com/google/uuid"
)

const (
	// HeatmapWindow is how far back positions count toward the heatmap.
	HeatmapWindow = 5 * time.Minute
	// HeatZoneSize is the side of a heatmap zone.
	HeatZoneSize = 10.0
	// DefaultPOIRadius applies when NearbyPOIs gets a non-positive radius.
	DefaultPOIRadius = 50.0
)

type NavigationUseCase struct {
	tx     repository.TxManager
	now    func() time.Time
	logger *slog.Logger
}

// NewNavigationUseCase wires the use case; a nil now uses time.Now.
func NewNavigationUseCase(tx repository.TxManager, now func() time.Time, logger *slog.Logger) *NavigationUseCase {
	if now == nil {
		now = time.Now
	}
	return &NavigationUseCase{tx: tx, now: now, logger: logger}
}

// BeaconRequest creates a beacon, or updates it when ID is set.
type BeaconRequest struct {
	ID       *uuid.UUID `json:"id"`
	UUID     string     `json:"uuid" binding:"required"`
	Major    int        `json:"major" binding:"gte=0,lte=65535"`
	Minor    int        `json:"minor" binding:"gte=0,lte=65535"`
	Name     string     `json:"name" binding:"required,max=100"`
	Location *string    `json:"location"`
	X        *float64   `json:"x"`
	Y        *float64   `json:"y"`
	Floor    *int       `json:"floor"`
	RoomID   *string    `json:"room_id"`
}

// LocationUpdate is a position reported by the mobile app.
type LocationUpdate struct {
	BeaconID *uuid.UUID `json:"beacon_id"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Floor    int        `json:"floor"`
	Accuracy float64    `json:"accuracy" binding:"gte=0"`
}

func (uc *NavigationUseCase) EventBeacons(ctx context.Context, tenantID, eventID uuid.UUID) ([]*domain.Beacon, error) {
	var beacons []*domain.Beacon
	err := uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		var err error
		beacons, err = store.Beacons().ListByEvent(ctx, eventID)
		return err
	})
	return beacons, err
}

func (uc *NavigationUseCase) UpsertBeacon(ctx context.Context, tenantID, eventID uuid.UUID, req *BeaconRequest) (*domain.Beacon, error) {
	v := &domain.ValidationError{}
	if strings.TrimSpace(req.UUID) == "" {
		v.Add("uuid", "is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		v.Add("name", "is required")
	}
	if (req.X == nil) != (req.Y == nil) {
		v.Add("x", "x and y must be set together")
	}
	if v.HasErrors() {
		return nil, v
	}

	beacon := &domain.Beacon{
		EventID:  eventID,
		UUID:     req.UUID,
		Major:    req.Major,
		Minor:    req.Minor,
		Name:     strings.TrimSpace(req.Name),
		Location: req.Location,
		X:        req.X,
		Y:        req.Y,
		Floor:    req.Floor,
		RoomID:   req.RoomID,
	}
	err := uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		if req.ID != nil {
			beacon.ID = *req.ID
			return store.Beacons().Update(ctx, beacon)
		}
		if _, err := store.Events().GetByID(ctx, eventID); err != nil {
			return err
		}
		return store.Beacons().Create(ctx, beacon)
	})
	if err != nil {
		return nil, err
	}

	logging.Component(ctx, uc.logger, "navigation", "upsert_beacon").
		Info("beacon saved", "beacon_id", beacon.ID, "event_id", eventID, "updated", req.ID != nil)
	return beacon, nil
}

// UpdateLocation stores a position for the attendee.
func (uc *NavigationUseCase) UpdateLocation(ctx context.Context, tenantID, attendeeID uuid.UUID, req *LocationUpdate) error {
	return uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		if _, err := store.Attendees().GetByID(ctx, attendeeID); err != nil {
			return err
		}
		loc := &domain.AttendeeLocation{
			AttendeeID: attendeeID,
			BeaconID:   req.BeaconID,
			X:          req.X,
			Y:          req.Y,
			Floor:      req.Floor,
			Accuracy:   req.Accuracy,
		}
		if err := store.Locations().Record(ctx, loc); err != nil {
			return fmt.Errorf("record location: %w", err)
		}
		return nil
	})
}

// Heatmap counts recent positions per zone, ordered by floor, x, y.
func (uc *NavigationUseCase) Heatmap(ctx context.Context, tenantID, eventID uuid.UUID) ([]domain.HeatZone, error) {
	var locations []*domain.AttendeeLocation
	err := uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		var err error
		locations, err = store.Locations().RecentByEvent(ctx, eventID, uc.now().Add(-HeatmapWindow))
		return err
	})
	if err != nil {
		return nil, err
	}
	return bucket(locations), nil
}

func bucket(locations []*domain.AttendeeLocation) []domain.HeatZone {
	type key struct {
		x, y  float64
		floor int
	}
	counts := make(map[key]int)
	for _, l := range locations {
		k := key{
			x:     math.Floor(l.X/HeatZoneSize) * HeatZoneSize,
			y:     math.Floor(l.Y/HeatZoneSize) * HeatZoneSize,
			floor: l.Floor,
		}
		counts[k]++
	}

	zones := make([]domain.HeatZone, 0, len(counts))
	for k, n := range counts {
		zones = append(zones, domain.HeatZone{X: k.x, Y: k.y, Floor: k.floor, Count: n})
	}
	sort.Slice(zones, func(i, j int) bool {
		a, b := zones[i], zones[j]
		if a.Floor != b.Floor {
			return a.Floor < b.Floor
		}
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})
	return zones
}

// NearbyPOIs returns beacons on the same floor within radius of at.
func (uc *NavigationUseCase) NearbyPOIs(ctx context.Context, tenantID, eventID uuid.UUID, at domain.Point, radius float64) ([]*domain.Beacon, error) {
	if radius <= 0 {
		radius = DefaultPOIRadius
	}
	var beacons []*domain.Beacon
	err := uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		var err error
		beacons, err = store.Beacons().ListByFloor(ctx, eventID, at.Floor)
		return err
	})
	if err != nil {
		return nil, err
	}

	nearby := make([]*domain.Beacon, 0, len(beacons))
	for _, b := range beacons {
		p, ok := b.Point()
		if ok && Distance(at, p) <= radius {
			nearby = append(nearby, b)
		}
	}
	return nearby, nil
}

// Route computes a path between two points of the event venue.
func (uc *NavigationUseCase) Route(ctx context.Context, tenantID, eventID uuid.UUID, from, to domain.Point) (*Route, error) {
	beacons, err := uc.EventBeacons(ctx, tenantID, eventID)
	if err != nil {
		return nil, err
	}
	route := FindRoute(from, to, beacons)
	logging.Component(ctx, uc.logger, "navigation", "route").
		Debug("route computed", "event_id", eventID, "waypoints", len(route.Path), "distance", route.TotalDistance)
	return &route, nil
}

// CurrentSessionByRoom returns the session running in room now, or nil.
func (uc *NavigationUseCase) CurrentSessionByRoom(ctx context.Context, tenantID, eventID uuid.UUID, room string) (*domain.Session, error) {
	var session *domain.Session
	err := uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		var err error
		session, err = store.Sessions().CurrentInRoom(ctx, eventID, room, uc.now())
		if errors.Is(err, domain.ErrSessionNotFound) {
			session, err = nil, nil
		}
		return err
	})
	return session, err
}
