package analytics

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/gdugdh24/confhub-backend/internal/domain"
	"github.com/gdugdh24/confhub-backend/internal/infrastructure/cache"
	"github.com/gdugdh24/confhub-backend/internal/logging"
	"github.com/gdugdh24/confhub-backend/internal/repository"
	"github.com/google/uuid"
)

const (
	DefaultLeaderboardLimit = 10
	DefaultActivityLimit    = 20
)

type AnalyticsUseCase struct {
	tx         repository.TxManager
	cache      cache.Cache
	metricsTTL time.Duration
	logger     *slog.Logger
}

// NewAnalyticsUseCase wires the use case. A nil cache or a zero ttl
// disables metrics caching.
func NewAnalyticsUseCase(tx repository.TxManager, c cache.Cache, metricsTTL time.Duration, logger *slog.Logger) *AnalyticsUseCase {
	return &AnalyticsUseCase{tx: tx, cache: c, metricsTTL: metricsTTL, logger: logger}
}

// Dashboard is everything the organizer overview shows at once.
type Dashboard struct {
	Metrics            *domain.EventMetrics       `json:"metrics"`
	RegistrationsByDay []domain.DailyCount        `json:"registrations_by_day"`
	SessionAttendance  []domain.SessionAttendance `json:"session_attendance"`
	TicketDistribution []domain.TicketCount       `json:"ticket_distribution"`
	CheckinsByHour     []domain.HourlyCount       `json:"checkins_by_hour"`
	Leaderboard        []domain.LeaderboardEntry  `json:"leaderboard"`
	RecentActivity     []domain.Activity          `json:"recent_activity"`
}

func (uc *AnalyticsUseCase) cacheEnabled() bool {
	return uc.cache != nil && uc.metricsTTL > 0
}

// Metrics returns the headline numbers, served from cache when fresh.
func (uc *AnalyticsUseCase) Metrics(ctx context.Context, tenantID, eventID uuid.UUID) (*domain.EventMetrics, error) {
	logger := logging.Component(ctx, uc.logger, "analytics", "metrics", "event_id", eventID)
	key := cache.MetricsKey(tenantID, eventID)

	if uc.cacheEnabled() {
		var cached domain.EventMetrics
		hit, err := uc.cache.Get(ctx, key, &cached)
		if err != nil {
			logger.Warn("metrics cache read failed", "error", err)
		}
		if hit {
			return &cached, nil
		}
	}

	var metrics *domain.EventMetrics
	err := uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		var err error
		metrics, err = store.Analytics().Metrics(ctx, eventID)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.CheckinRate = percent(metrics.TotalCheckins, metrics.TotalRegistrations)

	if uc.cacheEnabled() {
		if err := uc.cache.Set(ctx, key, metrics, uc.metricsTTL); err != nil {
			logger.Warn("metrics cache write failed", "error", err)
		}
	}
	return metrics, nil
}

func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

func (uc *AnalyticsUseCase) RegistrationsByDay(ctx context.Context, tenantID, eventID uuid.UUID) ([]domain.DailyCount, error) {
	var out []domain.DailyCount
	err := uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		var err error
		out, err = store.Analytics().RegistrationsByDay(ctx, eventID)
		return err
	})
	return out, err
}

// SessionAttendance lists agenda sign-ups per session with occupancy as a
// percentage of capacity; sessions without capacity have no occupancy.
func (uc *AnalyticsUseCase) SessionAttendance(ctx context.Context, tenantID, eventID uuid.UUID) ([]domain.SessionAttendance, error) {
	var out []domain.SessionAttendance
	err := uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		var err error
		out, err = store.Analytics().SessionAttendance(ctx, eventID)
		return err
	})
	if err != nil {
		return nil, err
	}
	withOccupancy(out)
	return out, nil
}

func withOccupancy(rows []domain.SessionAttendance) {
	for i := range rows {
		if c := rows[i].Capacity; c != nil && *c > 0 {
			rate := percent(rows[i].RegisteredCount, *c)
			rows[i].OccupancyRate = &rate
		}
	}
}

func (uc *AnalyticsUseCase) TicketDistribution(ctx context.Context, tenantID, eventID uuid.UUID) ([]domain.TicketCount, error) {
	var out []domain.TicketCount
	err := uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		var err error
		out, err = store.Analytics().TicketDistribution(ctx, eventID)
		return err
	})
	return out, err
}

func (uc *AnalyticsUseCase) CheckinsByHour(ctx context.Context, tenantID, eventID uuid.UUID) ([]domain.HourlyCount, error) {
	var out []domain.HourlyCount
	err := uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		var err error
		out, err = store.Analytics().CheckinsByHour(ctx, eventID)
		return err
	})
	return out, err
}

func (uc *AnalyticsUseCase) Leaderboard(ctx context.Context, tenantID, eventID uuid.UUID, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	var out []domain.LeaderboardEntry
	err := uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		var err error
		out, err = store.Analytics().Leaderboard(ctx, eventID, limit)
		return err
	})
	return out, err
}

func (uc *AnalyticsUseCase) RecentActivity(ctx context.Context, tenantID, eventID uuid.UUID, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	var out []domain.Activity
	err := uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		var err error
		out, err = store.Analytics().RecentActivity(ctx, eventID, limit)
		return err
	})
	return out, err
}

// Dashboard gathers every panel; metrics may come from cache, the rest
// share one transaction.
func (uc *AnalyticsUseCase) Dashboard(ctx context.Context, tenantID, eventID uuid.UUID) (*Dashboard, error) {
	metrics, err := uc.Metrics(ctx, tenantID, eventID)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{Metrics: metrics}
	err = uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		a := store.Analytics()
		var err error
		if d.RegistrationsByDay, err = a.RegistrationsByDay(ctx, eventID); err != nil {
			return err
		}
		if d.SessionAttendance, err = a.SessionAttendance(ctx, eventID); err != nil {
			return err
		}
		if d.TicketDistribution, err = a.TicketDistribution(ctx, eventID); err != nil {
			return err
		}
		if d.CheckinsByHour, err = a.CheckinsByHour(ctx, eventID); err != nil {
			return err
		}
		if d.Leaderboard, err = a.Leaderboard(ctx, eventID, DefaultLeaderboardLimit); err != nil {
			return err
		}
		d.RecentActivity, err = a.RecentActivity(ctx, eventID, DefaultActivityLimit)
		return err
	})
	if err != nil {
		return nil, err
	}
	withOccupancy(d.SessionAttendance)
	return d, nil
}
