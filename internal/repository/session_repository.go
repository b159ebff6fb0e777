package repository

import (
	"context"
	"time"

	"github.com/gdugdh24/confhub-backend/internal/domain"
	"github.com/google/uuid"
)

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	// ListByEvent returns the event's sessions ordered by start time.
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.Session, error)
	SpeakersFor(ctx context.Context, sessionIDs []uuid.UUID) (map[uuid.UUID][]*domain.Speaker, error)
	CurrentInRoom(ctx context.Context, eventID uuid.UUID, room string, at time.Time) (*domain.Session, error)
}

type AgendaRepository interface {
	Add(ctx context.Context, entry *domain.AgendaEntry) error
	Remove(ctx context.Context, attendeeID, sessionID uuid.UUID) error
	// Personal returns the attendee's agenda ordered by session start.
	Personal(ctx context.Context, attendeeID uuid.UUID) ([]*domain.PersonalSession, error)
	// LockAttendee serializes agenda writes for one attendee until the transaction ends.
	LockAttendee(ctx context.Context, attendeeID uuid.UUID) error
	SetStatus(ctx context.Context, attendeeID, sessionID uuid.UUID, status domain.AgendaStatus) error
}
