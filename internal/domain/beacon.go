package domain

import (
	"time"

	"github.com/google/uuid"
)

// Beacon is a named indoor point used for positioning and wayfinding.
type Beacon struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	EventID   uuid.UUID `json:"event_id" db:"event_id"`
	UUID      string    `json:"uuid" db:"uuid"`
	Major     int       `json:"major" db:"major"`
	Minor     int       `json:"minor" db:"minor"`
	Name      string    `json:"name" db:"name"`
	Location  *string   `json:"location" db:"location"`
	X         *float64  `json:"x" db:"x"`
	Y         *float64  `json:"y" db:"y"`
	Floor     *int      `json:"floor" db:"floor"`
	RoomID    *string   `json:"room_id" db:"room_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Point is a planar coordinate on a floor.
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Floor int     `json:"floor"`
}

// Point reports the beacon position, or false if it has no coordinates.
func (b *Beacon) Point() (Point, bool) {
	if b.X == nil || b.Y == nil {
		return Point{}, false
	}
	p := Point{X: *b.X, Y: *b.Y}
	if b.Floor != nil {
		p.Floor = *b.Floor
	}
	return p, true
}

type AttendeeLocation struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	AttendeeID uuid.UUID  `json:"attendee_id" db:"attendee_id"`
	BeaconID   *uuid.UUID `json:"beacon_id" db:"beacon_id"`
	X          float64    `json:"x" db:"x"`
	Y          float64    `json:"y" db:"y"`
	Floor      int        `json:"floor" db:"floor"`
	Accuracy   float64    `json:"accuracy" db:"accuracy"`
	Timestamp  time.Time  `json:"timestamp" db:"timestamp"`
}
