package events

import (
	"context"

	"github.com/google/uuid"
)

// Event topic constants
const (
	TopicAttendeeRegistered = "confhub.attendee.registered"
	TopicAttendeeCheckedIn  = "confhub.attendee.checked_in"
	TopicAttendeeCancelled  = "confhub.attendee.cancelled"
	TopicAgendaAdded        = "confhub.agenda.added"
	TopicAgendaRemoved      = "confhub.agenda.removed"
	TopicMatchAccepted      = "confhub.match.accepted"
	TopicMatchMet           = "confhub.match.met"
)

type AttendeeRegistered struct {
	TenantID   uuid.UUID `json:"tenant_id"`
	EventID    uuid.UUID `json:"event_id"`
	AttendeeID uuid.UUID `json:"attendee_id"`
	TicketType string    `json:"ticket_type"`
}

type AttendeeCheckedIn struct {
	TenantID   uuid.UUID `json:"tenant_id"`
	EventID    uuid.UUID `json:"event_id"`
	AttendeeID uuid.UUID `json:"attendee_id"`
}

type AttendeeCancelled struct {
	TenantID   uuid.UUID `json:"tenant_id"`
	EventID    uuid.UUID `json:"event_id"`
	AttendeeID uuid.UUID `json:"attendee_id"`
}

type AgendaChanged struct {
	TenantID   uuid.UUID `json:"tenant_id"`
	AttendeeID uuid.UUID `json:"attendee_id"`
	SessionID  uuid.UUID `json:"session_id"`
}

type MatchChanged struct {
	TenantID    uuid.UUID `json:"tenant_id"`
	EventID     uuid.UUID `json:"event_id"`
	MatchID     uuid.UUID `json:"match_id"`
	Attendee1ID uuid.UUID `json:"attendee1_id"`
	Attendee2ID uuid.UUID `json:"attendee2_id"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
