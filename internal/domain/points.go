package domain

import (
	"time"

	"github.com/google/uuid"
)

// Point actions and the amount awarded for each.
const (
	ActionCheckIn       = "check_in"
	ActionSessionAttend = "session_attend"
	ActionNetworking    = "networking"
	ActionMet           = "met"
)

var ActionPoints = map[string]int{
	ActionCheckIn:       10,
	ActionSessionAttend: 5,
	ActionNetworking:    5,
	ActionMet:           10,
}

type PointsEntry struct {
	ID         uuid.UUID `json:"id" db:"id"`
	AttendeeID uuid.UUID `json:"attendee_id" db:"attendee_id"`
	EventID    uuid.UUID `json:"event_id" db:"event_id"`
	Points     int       `json:"points" db:"points"`
	Action     string    `json:"action" db:"action"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
