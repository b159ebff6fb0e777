package agenda

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gdugdh24/confhub-backend/internal/domain"
	"github.com/gdugdh24/confhub-backend/internal/infrastructure/events"
	"github.com/gdugdh24/confhub-backend/internal/logging"
	"github.com/gdugdh24/confhub-backend/internal/repository"
	"github.com/google/uuid"
)

type AgendaUseCase struct {
	tx        repository.TxManager
	publisher events.Publisher
	logger    *slog.Logger
}

func NewAgendaUseCase(tx repository.TxManager, publisher events.Publisher, logger *slog.Logger) *AgendaUseCase {
	if publisher == nil {
		publisher = &events.NoopPublisher{}
	}
	return &AgendaUseCase{tx: tx, publisher: publisher, logger: logger}
}

// AgendaDay is one UTC calendar day of the event agenda.
type AgendaDay struct {
	Date     string            `json:"date"`
	Sessions []*domain.Session `json:"sessions"`
}

// CreateSessionRequest is what organizers submit to add a session.
type CreateSessionRequest struct {
	Title       string             `json:"title" binding:"required,max=200"`
	Description *string            `json:"description"`
	StartTime   time.Time          `json:"start_time" binding:"required"`
	EndTime     time.Time          `json:"end_time" binding:"required"`
	Room        *string            `json:"room"`
	Track       *string            `json:"track"`
	Capacity    *int               `json:"capacity"`
	Type        domain.SessionType `json:"type"`
}

// EventAgenda lists the event's sessions by start time with their speakers.
func (uc *AgendaUseCase) EventAgenda(ctx context.Context, tenantID, eventID uuid.UUID) ([]*domain.Session, error) {
	var sessions []*domain.Session
	err := uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		var err error
		sessions, err = store.Sessions().ListByEvent(ctx, eventID)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		ids := make([]uuid.UUID, len(sessions))
		for i, s := range sessions {
			ids[i] = s.ID
		}
		speakers, err := store.Sessions().SpeakersFor(ctx, ids)
		if err != nil {
			return fmt.Errorf("load speakers: %w", err)
		}
		for _, s := range sessions {
			s.Speakers = speakers[s.ID]
		}
		return nil
	})
	return sessions, err
}

// EventAgendaGrouped buckets EventAgenda by UTC date, days ascending.
func (uc *AgendaUseCase) EventAgendaGrouped(ctx context.Context, tenantID, eventID uuid.UUID) ([]AgendaDay, error) {
	sessions, err := uc.EventAgenda(ctx, tenantID, eventID)
	if err != nil {
		return nil, err
	}
	return groupByDay(sessions), nil
}

// groupByDay expects sessions ordered by start time.
func groupByDay(sessions []*domain.Session) []AgendaDay {
	var days []AgendaDay
	for _, s := range sessions {
		date := s.StartTime.UTC().Format("2006-01-02")
		if n := len(days); n > 0 && days[n-1].Date == date {
			days[n-1].Sessions = append(days[n-1].Sessions, s)
			continue
		}
		days = append(days, AgendaDay{Date: date, Sessions: []*domain.Session{s}})
	}
	return days
}

// AddToPersonalAgenda puts a session on the attendee's agenda unless it
// overlaps one already there. The check and the insert share one transaction
// and a per-attendee lock.
func (uc *AgendaUseCase) AddToPersonalAgenda(ctx context.Context, tenantID, attendeeID, sessionID uuid.UUID) (*domain.AgendaEntry, error) {
	logger := logging.Component(ctx, uc.logger, "agenda", "add", "attendee_id", attendeeID, "session_id", sessionID)

	var entry *domain.AgendaEntry
	err := uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		session, err := store.Sessions().GetByID(ctx, sessionID)
		if err != nil {
			return err
		}
		attendee, err := store.Attendees().GetByID(ctx, attendeeID)
		if err != nil {
			return err
		}
		if attendee.EventID != session.EventID {
			return domain.ErrSessionNotFound
		}

		if err := store.Agenda().LockAttendee(ctx, attendeeID); err != nil {
			return fmt.Errorf("lock agenda: %w", err)
		}
		personal, err := store.Agenda().Personal(ctx, attendeeID)
		if err != nil {
			return fmt.Errorf("load personal agenda: %w", err)
		}
		current := make([]*domain.Session, 0, len(personal))
		for _, p := range personal {
			if p.Session.ID == sessionID {
				return domain.ErrAlreadyInAgenda
			}
			current = append(current, p.Session)
		}

		loc := time.UTC
		if event, err := store.Events().GetByID(ctx, session.EventID); err == nil {
			loc = event.Location()
		}
		if conflict := FindConflict(session, current, loc); conflict != nil {
			return conflict
		}

		entry = &domain.AgendaEntry{AttendeeID: attendeeID, SessionID: sessionID, Status: domain.AgendaConfirmed}
		return store.Agenda().Add(ctx, entry)
	})
	if err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			logger.Info("agenda conflict", "with_session_id", conflict.With.ID)
		} else {
			logger.Warn("add to agenda failed", "error", err, "kind", domain.ErrorKind(err))
		}
		return nil, err
	}

	uc.publish(ctx, logger, events.TopicAgendaAdded, events.AgendaChanged{TenantID: tenantID, AttendeeID: attendeeID, SessionID: sessionID})
	return entry, nil
}

func (uc *AgendaUseCase) RemoveFromPersonalAgenda(ctx context.Context, tenantID, attendeeID, sessionID uuid.UUID) error {
	err := uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		return store.Agenda().Remove(ctx, attendeeID, sessionID)
	})
	if err != nil {
		return err
	}
	logger := logging.Component(ctx, uc.logger, "agenda", "remove", "attendee_id", attendeeID, "session_id", sessionID)
	uc.publish(ctx, logger, events.TopicAgendaRemoved, events.AgendaChanged{TenantID: tenantID, AttendeeID: attendeeID, SessionID: sessionID})
	return nil
}

// PersonalAgenda returns the attendee's sessions by start time.
func (uc *AgendaUseCase) PersonalAgenda(ctx context.Context, tenantID, attendeeID uuid.UUID) ([]*domain.PersonalSession, error) {
	var out []*domain.PersonalSession
	err := uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		if _, err := store.Attendees().GetByID(ctx, attendeeID); err != nil {
			return err
		}
		var err error
		out, err = store.Agenda().Personal(ctx, attendeeID)
		return err
	})
	return out, err
}

// Recommendations suggests up to five sessions matching the attendee's interests.
func (uc *AgendaUseCase) Recommendations(ctx context.Context, tenantID, eventID, attendeeID uuid.UUID) ([]Recommendation, error) {
	var out []Recommendation
	err := uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		attendee, err := store.Attendees().GetByID(ctx, attendeeID)
		if err != nil {
			return err
		}
		if attendee.EventID != eventID {
			return domain.ErrAttendeeNotFound
		}
		if len(attendee.Interests) == 0 {
			return nil
		}
		sessions, err := store.Sessions().ListByEvent(ctx, eventID)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		personal, err := store.Agenda().Personal(ctx, attendeeID)
		if err != nil {
			return fmt.Errorf("load personal agenda: %w", err)
		}
		added := make(map[uuid.UUID]struct{}, len(personal))
		for _, p := range personal {
			added[p.Session.ID] = struct{}{}
		}
		out = Recommend(attendee.Interests, sessions, added)
		return nil
	})
	return out, err
}

// CreateSession adds a session to an event. Type defaults to talk.
func (uc *AgendaUseCase) CreateSession(ctx context.Context, tenantID, eventID uuid.UUID, req *CreateSessionRequest) (*domain.Session, error) {
	if req.Type == "" {
		req.Type = domain.SessionTalk
	}
	if err := validateSession(req); err != nil {
		return nil, err
	}

	session := &domain.Session{
		EventID:     eventID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Room:        req.Room,
		Track:       req.Track,
		Capacity:    req.Capacity,
		Type:        req.Type,
	}
	err := uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		if _, err := store.Events().GetByID(ctx, eventID); err != nil {
			return err
		}
		return store.Sessions().Create(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	logging.Component(ctx, uc.logger, "agenda", "create_session").
		Info("session created", "session_id", session.ID, "event_id", eventID)
	return session, nil
}

func validateSession(req *CreateSessionRequest) error {
	v := &domain.ValidationError{}
	if strings.TrimSpace(req.Title) == "" {
		v.Add("title", "is required")
	}
	if !req.StartTime.Before(req.EndTime) {
		v.Add("end_time", "must be after start_time")
	}
	if !req.Type.Valid() {
		v.Add("type", "must be one of talk, workshop, networking, break")
	}
	if req.Capacity != nil && *req.Capacity <= 0 {
		v.Add("capacity", "must be positive")
	}
	if v.HasErrors() {
		return v
	}
	return nil
}

// MarkAttended flags an agenda entry as attended and awards points once.
func (uc *AgendaUseCase) MarkAttended(ctx context.Context, tenantID, attendeeID, sessionID uuid.UUID) error {
	return uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		if err := store.Agenda().LockAttendee(ctx, attendeeID); err != nil {
			return fmt.Errorf("lock agenda: %w", err)
		}
		personal, err := store.Agenda().Personal(ctx, attendeeID)
		if err != nil {
			return fmt.Errorf("load personal agenda: %w", err)
		}
		var entry *domain.PersonalSession
		for _, p := range personal {
			if p.Session.ID == sessionID {
				entry = p
				break
			}
		}
		if entry == nil {
			return domain.ErrAgendaEntryNotFound
		}
		if entry.Status == domain.AgendaAttended {
			return nil
		}

		if err := store.Agenda().SetStatus(ctx, attendeeID, sessionID, domain.AgendaAttended); err != nil {
			return err
		}
		points := &domain.PointsEntry{
			AttendeeID: attendeeID,
			EventID:    entry.Session.EventID,
			Points:     domain.ActionPoints[domain.ActionSessionAttend],
			Action:     domain.ActionSessionAttend,
		}
		if err := store.Points().Award(ctx, points); err != nil {
			return fmt.Errorf("award points: %w", err)
		}
		return nil
	})
}

func (uc *AgendaUseCase) publish(ctx context.Context, logger *slog.Logger, topic string, event any) {
	if err := uc.publisher.Publish(ctx, topic, event); err != nil {
		logger.Warn("publish event", "topic", topic, "error", err)
	}
}
