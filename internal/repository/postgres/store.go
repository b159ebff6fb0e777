package postgres

import (
	"context"
	"fmt"

	"github.com/gdugdh24/confhub-backend/internal/domain"
	"github.com/gdugdh24/confhub-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Database hands out tenant-scoped transactions over a shared pool.
type Database struct {
	db *sqlx.DB
}

var _ repository.TxManager = (*Database)(nil)

func NewDatabase(db *sqlx.DB) *Database {
	return &Database{db: db}
}

// WithTenant begins a transaction, sets app.current_tenant_id for that
// transaction only and runs fn with repositories bound to it. The row-level
// security policies read the setting; it is discarded on commit or rollback.
func (d *Database) WithTenant(ctx context.Context, tenantID uuid.UUID, fn func(repository.Store) error) error {
	if tenantID == uuid.Nil {
		return domain.ErrTenantRequired
	}

	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `SELECT set_config('app.current_tenant_id', $1, true)`, tenantID.String()); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("set tenant context: %w", err)
	}

	if err := fn(newStore(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type store struct {
	q sqlx.ExtContext
}

var _ repository.Store = (*store)(nil)

func newStore(q sqlx.ExtContext) *store {
	return &store{q: q}
}

func (s *store) Events() repository.EventRepository       { return NewEventRepository(s.q) }
func (s *store) Attendees() repository.AttendeeRepository { return NewAttendeeRepository(s.q) }
func (s *store) Sessions() repository.SessionRepository   { return NewSessionRepository(s.q) }
func (s *store) Agenda() repository.AgendaRepository      { return NewAgendaRepository(s.q) }
func (s *store) Matches() repository.MatchRepository      { return NewMatchRepository(s.q) }
func (s *store) Beacons() repository.BeaconRepository     { return NewBeaconRepository(s.q) }
func (s *store) Locations() repository.LocationRepository { return NewLocationRepository(s.q) }
func (s *store) Points() repository.PointsRepository      { return NewPointsRepository(s.q) }
func (s *store) Analytics() repository.AnalyticsRepository {
	return NewAnalyticsRepository(s.q)
}
