package repository

import (
	"context"

	"github.com/google/uuid"
)

// Store gives access to repositories that share one tenant-scoped transaction.
type Store interface {
	Events() EventRepository
	Attendees() AttendeeRepository
	Sessions() SessionRepository
	Agenda() AgendaRepository
	Matches() MatchRepository
	Beacons() BeaconRepository
	Locations() LocationRepository
	Points() PointsRepository
	Analytics() AnalyticsRepository
}

// TxManager runs fn inside a transaction whose row-level security scope is
// the given tenant. Nothing set inside it outlives the transaction.
type TxManager interface {
	WithTenant(ctx context.Context, tenantID uuid.UUID, fn func(Store) error) error
}
