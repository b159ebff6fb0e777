package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gdugdh24/confhub-backend/internal/domain"
	"github.com/gdugdh24/confhub-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const beaconColumns = `id, tenant_id, event_id, uuid, major, minor, name, location, x, y, floor, room_id, created_at`

type beaconRepository struct {
	q sqlx.ExtContext
}

func NewBeaconRepository(q sqlx.ExtContext) repository.BeaconRepository {
	return &beaconRepository{q: q}
}

func (r *beaconRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.Beacon, error) {
	var beacons []*domain.Beacon
	query := `SELECT ` + beaconColumns + ` FROM beacons WHERE event_id = $1 ORDER BY floor, name`
	err := sqlx.SelectContext(ctx, r.q, &beacons, query, eventID)
	return beacons, err
}

func (r *beaconRepository) ListByFloor(ctx context.Context, eventID uuid.UUID, floor int) ([]*domain.Beacon, error) {
	var beacons []*domain.Beacon
	query := `SELECT ` + beaconColumns + ` FROM beacons WHERE event_id = $1 AND floor = $2 ORDER BY name`
	err := sqlx.SelectContext(ctx, r.q, &beacons, query, eventID, floor)
	return beacons, err
}

func (r *beaconRepository) Create(ctx context.Context, b *domain.Beacon) error {
	query := `
		INSERT INTO beacons (event_id, uuid, major, minor, name, location, x, y, floor, room_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, tenant_id, created_at
	`
	return r.q.QueryRowxContext(
		ctx, query,
		b.EventID, b.UUID, b.Major, b.Minor, b.Name, b.Location, b.X, b.Y, b.Floor, b.RoomID,
	).Scan(&b.ID, &b.TenantID, &b.CreatedAt)
}

func (r *beaconRepository) Update(ctx context.Context, b *domain.Beacon) error {
	query := `
		UPDATE beacons
		SET uuid = $1, major = $2, minor = $3, name = $4, location = $5,
		    x = $6, y = $7, floor = $8, room_id = $9
		WHERE id = $10 AND event_id = $11
		RETURNING tenant_id, created_at
	`
	err := r.q.QueryRowxContext(
		ctx, query,
		b.UUID, b.Major, b.Minor, b.Name, b.Location, b.X, b.Y, b.Floor, b.RoomID,
		b.ID, b.EventID,
	).Scan(&b.TenantID, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrBeaconNotFound
	}
	return err
}

type locationRepository struct {
	q sqlx.ExtContext
}

func NewLocationRepository(q sqlx.ExtContext) repository.LocationRepository {
	return &locationRepository{q: q}
}

func (r *locationRepository) Record(ctx context.Context, l *domain.AttendeeLocation) error {
	query := `
		INSERT INTO attendee_locations (attendee_id, beacon_id, x, y, floor, accuracy)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, timestamp
	`
	return r.q.QueryRowxContext(ctx, query, l.AttendeeID, l.BeaconID, l.X, l.Y, l.Floor, l.Accuracy).
		Scan(&l.ID, &l.Timestamp)
}

func (r *locationRepository) RecentByEvent(ctx context.Context, eventID uuid.UUID, since time.Time) ([]*domain.AttendeeLocation, error) {
	var locations []*domain.AttendeeLocation
	query := `
		SELECT l.id, l.attendee_id, l.beacon_id, l.x, l.y, l.floor, l.accuracy, l.timestamp
		FROM attendee_locations l
		JOIN beacons b ON b.id = l.beacon_id
		WHERE b.event_id = $1 AND l.timestamp > $2
	`
	err := sqlx.SelectContext(ctx, r.q, &locations, query, eventID, since)
	return locations, err
}
