package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrTenantRequired = errors.New("tenant id is required")

	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("forbidden")

	ErrEventNotFound     = errors.New("event not found")
	ErrEventFull         = errors.New("event is full")
	ErrAttendeeNotFound  = errors.New("attendee not found")
	ErrAttendeeExists    = errors.New("email already registered for this event")
	ErrAttendeeCancelled = errors.New("attendee registration is cancelled")

	ErrSessionNotFound     = errors.New("session not found")
	ErrAgendaEntryNotFound = errors.New("agenda entry not found")
	ErrAlreadyInAgenda     = errors.New("session already in personal agenda")
	ErrScheduleConflict    = errors.New("schedule conflict")

	ErrMatchNotFound          = errors.New("match not found")
	ErrCannotMatchSelf        = errors.New("cannot like or pass yourself")
	ErrInvalidMatchTransition = errors.New("invalid match transition")

	ErrBeaconNotFound = errors.New("beacon not found")

	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError carries per-field messages for malformed input.
type ValidationError struct {
	Fields map[string]string
}

func (v *ValidationError) Error() string {
	if v == nil || len(v.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is(err, ErrInvalidInput) match validation failures.
func (v *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// Add records a field message.
func (v *ValidationError) Add(field, message string) {
	if v.Fields == nil {
		v.Fields = make(map[string]string)
	}
	v.Fields[field] = message
}

// HasErrors reports whether any field was recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.Fields) > 0
}

// ConflictError reports a personal agenda overlap with the first
// conflicting session found.
type ConflictError struct {
	With    *Session
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) Unwrap() error {
	return ErrScheduleConflict
}

// ErrorKind maps an error to a stable label used for logging and status codes.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrEventNotFound),
		errors.Is(err, ErrAttendeeNotFound),
		errors.Is(err, ErrSessionNotFound),
		errors.Is(err, ErrAgendaEntryNotFound),
		errors.Is(err, ErrMatchNotFound),
		errors.Is(err, ErrBeaconNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrCannotMatchSelf),
		errors.Is(err, ErrTenantRequired):
		return "validation"
	case errors.Is(err, ErrScheduleConflict),
		errors.Is(err, ErrAlreadyInAgenda),
		errors.Is(err, ErrAttendeeExists),
		errors.Is(err, ErrEventFull),
		errors.Is(err, ErrAttendeeCancelled),
		errors.Is(err, ErrInvalidMatchTransition):
		return "conflict"
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidToken):
		return "unauthorized"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	}
	return "internal"
}
