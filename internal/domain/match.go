package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// MatchSideStatus is one attendee's action on a networking pair.
type MatchSideStatus string

const (
	SidePending MatchSideStatus = "pending"
	SideLiked   MatchSideStatus = "liked"
	SidePassed  MatchSideStatus = "passed"
)

// MatchStatus is the aggregate state of a pair.
type MatchStatus string

const (
	MatchPending  MatchStatus = "pending"
	MatchAccepted MatchStatus = "accepted"
	MatchRejected MatchStatus = "rejected"
	MatchMet      MatchStatus = "met"
)

// Match is a networking pair. Attendee1 is whoever acted first.
type Match struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	TenantID        uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	EventID         uuid.UUID       `json:"event_id" db:"event_id"`
	Attendee1ID     uuid.UUID       `json:"attendee1_id" db:"attendee_1_id"`
	Attendee2ID     uuid.UUID       `json:"attendee2_id" db:"attendee_2_id"`
	Score           float64         `json:"match_score" db:"match_score"`
	Status          MatchStatus     `json:"status" db:"status"`
	Attendee1Status MatchSideStatus `json:"attendee1_status" db:"attendee_1_status"`
	Attendee2Status MatchSideStatus `json:"attendee2_status" db:"attendee_2_status"`
	Icebreakers     pq.StringArray  `json:"icebreakers,omitempty" db:"icebreakers"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

func (m *Match) HasAttendee(attendeeID uuid.UUID) bool {
	return m.Attendee1ID == attendeeID || m.Attendee2ID == attendeeID
}

func (m *Match) OtherAttendeeID(attendeeID uuid.UUID) (uuid.UUID, bool) {
	if m.Attendee1ID == attendeeID {
		return m.Attendee2ID, true
	}
	if m.Attendee2ID == attendeeID {
		return m.Attendee1ID, true
	}
	return uuid.Nil, false
}

// SideOf returns a pointer to the status field owned by attendeeID.
func (m *Match) SideOf(attendeeID uuid.UUID) *MatchSideStatus {
	switch attendeeID {
	case m.Attendee1ID:
		return &m.Attendee1Status
	case m.Attendee2ID:
		return &m.Attendee2Status
	}
	return nil
}

// NetworkingStats summarizes an attendee's networking activity in one event.
type NetworkingStats struct {
	TotalMatches int `json:"total_matches" db:"total_matches"`
	PeopleMet    int `json:"people_met" db:"people_met"`
	PendingLikes int `json:"pending_likes" db:"pending_likes"`
}
