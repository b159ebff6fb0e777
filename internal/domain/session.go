package domain

import (
	"time"

	"github.com/google/uuid"
)

type SessionType string

const (
	SessionTalk       SessionType = "talk"
	SessionWorkshop   SessionType = "workshop"
	SessionNetworking SessionType = "networking"
	SessionBreak      SessionType = "break"
)

func (t SessionType) Valid() bool {
	switch t {
	case SessionTalk, SessionWorkshop, SessionNetworking, SessionBreak:
		return true
	}
	return false
}

// Session is a time-boxed agenda entry. StartTime is always before EndTime.
type Session struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	TenantID    uuid.UUID   `json:"tenant_id" db:"tenant_id"`
	EventID     uuid.UUID   `json:"event_id" db:"event_id"`
	Title       string      `json:"title" db:"title"`
	Description *string     `json:"description" db:"description"`
	StartTime   time.Time   `json:"start_time" db:"start_time"`
	EndTime     time.Time   `json:"end_time" db:"end_time"`
	Room        *string     `json:"room" db:"room"`
	Track       *string     `json:"track" db:"track"`
	Capacity    *int        `json:"capacity" db:"capacity"`
	Type        SessionType `json:"type" db:"type"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`

	Speakers []*Speaker `json:"speakers,omitempty" db:"-"`
}

type Speaker struct {
	ID       uuid.UUID `json:"id" db:"id"`
	EventID  uuid.UUID `json:"event_id" db:"event_id"`
	Name     string    `json:"name" db:"name"`
	Bio      *string   `json:"bio" db:"bio"`
	Title    *string   `json:"title" db:"title"`
	Company  *string   `json:"company" db:"company"`
	LinkedIn *string   `json:"linkedin" db:"linkedin"`
}

type AgendaStatus string

const (
	AgendaInterested AgendaStatus = "interested"
	AgendaConfirmed  AgendaStatus = "confirmed"
	AgendaAttended   AgendaStatus = "attended"
)

// AgendaEntry ties an attendee to a session on their personal agenda.
type AgendaEntry struct {
	ID         uuid.UUID    `json:"id" db:"id"`
	AttendeeID uuid.UUID    `json:"attendee_id" db:"attendee_id"`
	SessionID  uuid.UUID    `json:"session_id" db:"session_id"`
	Status     AgendaStatus `json:"status" db:"status"`
	CreatedAt  time.Time    `json:"created_at" db:"created_at"`
}

// PersonalSession is a session as it appears on someone's agenda.
type PersonalSession struct {
	Session *Session     `json:"session"`
	Status  AgendaStatus `json:"status"`
}
