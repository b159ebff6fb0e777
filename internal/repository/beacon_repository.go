package repository

import (
	"context"
	"time"

	"github.com/gdugdh24/confhub-backend/internal/domain"
	"github.com/google/uuid"
)

type BeaconRepository interface {
	// ListByEvent returns beacons ordered by floor then name.
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.Beacon, error)
	ListByFloor(ctx context.Context, eventID uuid.UUID, floor int) ([]*domain.Beacon, error)
	Create(ctx context.Context, beacon *domain.Beacon) error
	Update(ctx context.Context, beacon *domain.Beacon) error
}

type LocationRepository interface {
	Record(ctx context.Context, location *domain.AttendeeLocation) error
	// RecentByEvent returns positions reported through the event's beacons since the given time.
	RecentByEvent(ctx context.Context, eventID uuid.UUID, since time.Time) ([]*domain.AttendeeLocation, error)
}
