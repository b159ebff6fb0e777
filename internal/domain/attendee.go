package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type AttendeeStatus string

const (
	AttendeeRegistered AttendeeStatus = "registered"
	AttendeeCheckedIn  AttendeeStatus = "checked_in"
	AttendeeCancelled  AttendeeStatus = "cancelled"
)

// TicketType values accepted at registration.
const (
	TicketGeneral = "general"
	TicketVIP     = "vip"
	TicketSpeaker = "speaker"
	TicketSponsor = "sponsor"
)

// MaxInterests bounds the interest tags on a profile.
const MaxInterests = 5

// Attendee is a registration in one event together with its networking profile.
type Attendee struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	TenantID    uuid.UUID      `json:"tenant_id" db:"tenant_id"`
	EventID     uuid.UUID      `json:"event_id" db:"event_id"`
	UserID      *uuid.UUID     `json:"user_id,omitempty" db:"user_id"`
	Email       string         `json:"email" db:"email"`
	Name        string         `json:"name" db:"name"`
	Company     *string        `json:"company" db:"company"`
	Title       *string        `json:"title" db:"title"`
	Phone       *string        `json:"phone,omitempty" db:"phone"`
	TicketType  string         `json:"ticket_type" db:"ticket_type"`
	Status      AttendeeStatus `json:"status" db:"status"`
	CheckedInAt *time.Time     `json:"checked_in_at,omitempty" db:"checked_in_at"`
	QRCode      string         `json:"qr_code" db:"qr_code"`
	Bio         *string        `json:"bio" db:"bio"`
	Interests   pq.StringArray `json:"interests" db:"interests"`
	LinkedIn    *string        `json:"linkedin" db:"linkedin"`
	LookingFor  *string        `json:"looking_for" db:"looking_for"`
	Offering    *string        `json:"offering" db:"offering"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// Profile is the part of an attendee the match scorer looks at.
type Profile struct {
	Interests  []string
	LookingFor string
	Offering   string
}

func (a *Attendee) Profile() Profile {
	p := Profile{Interests: a.Interests}
	if a.LookingFor != nil {
		p.LookingFor = *a.LookingFor
	}
	if a.Offering != nil {
		p.Offering = *a.Offering
	}
	return p
}

// RegistrationStats counts attendees of an event.
type RegistrationStats struct {
	Total     int           `json:"total"`
	CheckedIn int           `json:"checked_in"`
	ByType    []TicketCount `json:"by_type"`
}

type TicketCount struct {
	TicketType string `json:"ticket_type" db:"ticket_type"`
	Count      int    `json:"count" db:"count"`
}
