package domain

import "time"

type EventMetrics struct {
	TotalRegistrations     int `json:"total_registrations"`
	TotalCheckins          int `json:"total_checkins"`
	CheckinRate            int `json:"checkin_rate"`
	TotalMatches           int `json:"total_matches"`
	TotalSessions          int `json:"total_sessions"`
	AvgSessionsPerAttendee int `json:"avg_sessions_per_attendee"`
	TotalPointsAwarded     int `json:"total_points_awarded"`
}

type DailyCount struct {
	Date  string `json:"date" db:"date"`
	Count int    `json:"count" db:"count"`
}

type HourlyCount struct {
	Hour  int `json:"hour" db:"hour"`
	Count int `json:"count" db:"count"`
}

type SessionAttendance struct {
	SessionID       string  `json:"session_id" db:"session_id"`
	Title           string  `json:"title" db:"title"`
	Room            *string `json:"room" db:"room"`
	Capacity        *int    `json:"capacity" db:"capacity"`
	RegisteredCount int     `json:"registered_count" db:"registered_count"`
	OccupancyRate   *int    `json:"occupancy_rate" db:"-"`
}

type LeaderboardEntry struct {
	AttendeeID      string  `json:"attendee_id" db:"attendee_id"`
	TotalPoints     int     `json:"total_points" db:"total_points"`
	AttendeeName    string  `json:"attendee_name" db:"attendee_name"`
	AttendeeCompany *string `json:"attendee_company" db:"attendee_company"`
}

type Activity struct {
	Type      string    `json:"type" db:"type"`
	Name      string    `json:"name" db:"name"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	Detail    string    `json:"detail" db:"detail"`
}

// HeatZone is a 10x10 bucket of recent attendee positions.
type HeatZone struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Floor int     `json:"floor"`
	Count int     `json:"count"`
}
