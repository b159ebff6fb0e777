package networking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/gdugdh24/confhub-backend/internal/domain"
	"github.com/gdugdh24/confhub-backend/internal/infrastructure/events"
	"github.com/gdugdh24/confhub-backend/internal/infrastructure/gemini"
	"github.com/gdugdh24/confhub-backend/internal/logging"
	"github.com/gdugdh24/confhub-backend/internal/repository"
	"github.com/google/uuid"
)

const (
	// MinSuggestionScore drops weak suggestions.
	MinSuggestionScore     = 0.2
	DefaultSuggestionLimit = 10

	icebreakerTimeout = 10 * time.Second
)

// IcebreakerGenerator writes conversation openers for a new mutual match.
type IcebreakerGenerator interface {
	GenerateIcebreakers(ctx context.Context, a, b *domain.Attendee) ([]string, error)
}

type NetworkingUseCase struct {
	tx          repository.TxManager
	publisher   events.Publisher
	icebreakers IcebreakerGenerator
	fallback    IcebreakerGenerator
	logger      *slog.Logger
}

// NewNetworkingUseCase wires the use case. icebreakers may be nil, in which
// case openers are built from the profiles alone.
func NewNetworkingUseCase(
	tx repository.TxManager,
	publisher events.Publisher,
	icebreakers IcebreakerGenerator,
	logger *slog.Logger,
) *NetworkingUseCase {
	if publisher == nil {
		publisher = &events.NoopPublisher{}
	}
	return &NetworkingUseCase{
		tx:          tx,
		publisher:   publisher,
		icebreakers: icebreakers,
		fallback:    gemini.Fallback{},
		logger:      logger,
	}
}

// ActionResult is the outcome of a like or pass.
type ActionResult struct {
	Match    *domain.Match `json:"match"`
	IsMutual bool          `json:"is_mutual"`
}

// Suggestion is a potential match ranked by Score.
type Suggestion struct {
	Attendee *domain.Attendee `json:"attendee"`
	Score    float64          `json:"score"`
}

// MutualMatch pairs an accepted or met match with the other attendee.
type MutualMatch struct {
	Match *domain.Match    `json:"match"`
	Other *domain.Attendee `json:"other"`
}

// Like records that attendeeID likes targetID. When the target already liked
// the attendee the pair becomes accepted.
func (uc *NetworkingUseCase) Like(ctx context.Context, tenantID, eventID, attendeeID, targetID uuid.UUID) (*ActionResult, error) {
	logger := logging.Component(ctx, uc.logger, "networking", "like",
		"event_id", eventID, "attendee_id", attendeeID, "target_id", targetID)

	var (
		result   *ActionResult
		pair     [2]*domain.Attendee
		accepted bool
	)
	err := uc.act(ctx, tenantID, eventID, attendeeID, targetID, func(store repository.Store, a, b *domain.Attendee, match *domain.Match) error {
		pair = [2]*domain.Attendee{a, b}

		if match == nil {
			match = &domain.Match{
				EventID:         eventID,
				Attendee1ID:     a.ID,
				Attendee2ID:     b.ID,
				Score:           Score(a.Profile(), b.Profile()),
				Status:          domain.MatchPending,
				Attendee1Status: domain.SideLiked,
				Attendee2Status: domain.SidePending,
			}
			if err := store.Matches().Create(ctx, match); err != nil {
				return fmt.Errorf("create match: %w", err)
			}
			result = &ActionResult{Match: match}
			return nil
		}

		// Met and rejected are terminal; liking again changes nothing.
		switch match.Status {
		case domain.MatchMet:
			result = &ActionResult{Match: match, IsMutual: true}
			return nil
		case domain.MatchRejected:
			result = &ActionResult{Match: match}
			return nil
		}

		before := match.Status
		*match.SideOf(a.ID) = domain.SideLiked
		match.Status = aggregate(match)
		if err := store.Matches().Update(ctx, match); err != nil {
			return fmt.Errorf("update match: %w", err)
		}

		accepted = before != domain.MatchAccepted && match.Status == domain.MatchAccepted
		if accepted {
			for _, id := range []uuid.UUID{match.Attendee1ID, match.Attendee2ID} {
				if err := award(ctx, store, eventID, id, domain.ActionNetworking); err != nil {
					return err
				}
			}
		}
		result = &ActionResult{Match: match, IsMutual: match.Status == domain.MatchAccepted}
		return nil
	})
	if err != nil {
		logger.Warn("like failed", "error", err, "kind", domain.ErrorKind(err))
		return nil, err
	}

	if accepted {
		logger.Info("mutual match", "match_id", result.Match.ID)
		uc.publish(ctx, logger, events.TopicMatchAccepted, matchEvent(tenantID, result.Match))
		if icebreakers := uc.enrich(ctx, logger, tenantID, result.Match, pair[0], pair[1]); len(icebreakers) > 0 {
			result.Match.Icebreakers = icebreakers
		}
	}
	return result, nil
}

// Pass records that attendeeID is not interested in targetID. The pair is
// rejected and will not be suggested again.
func (uc *NetworkingUseCase) Pass(ctx context.Context, tenantID, eventID, attendeeID, targetID uuid.UUID) (*ActionResult, error) {
	var result *ActionResult
	err := uc.act(ctx, tenantID, eventID, attendeeID, targetID, func(store repository.Store, a, b *domain.Attendee, match *domain.Match) error {
		if match == nil {
			match = &domain.Match{
				EventID:         eventID,
				Attendee1ID:     a.ID,
				Attendee2ID:     b.ID,
				Score:           Score(a.Profile(), b.Profile()),
				Status:          domain.MatchRejected,
				Attendee1Status: domain.SidePassed,
				Attendee2Status: domain.SidePending,
			}
			if err := store.Matches().Create(ctx, match); err != nil {
				return fmt.Errorf("create match: %w", err)
			}
			result = &ActionResult{Match: match}
			return nil
		}

		if match.Status == domain.MatchMet {
			return fmt.Errorf("pass on met match %s: %w", match.ID, domain.ErrInvalidMatchTransition)
		}
		*match.SideOf(a.ID) = domain.SidePassed
		match.Status = domain.MatchRejected
		if err := store.Matches().Update(ctx, match); err != nil {
			return fmt.Errorf("update match: %w", err)
		}
		result = &ActionResult{Match: match}
		return nil
	})
	if err != nil {
		logging.Component(ctx, uc.logger, "networking", "pass", "attendee_id", attendeeID, "target_id", targetID).
			Warn("pass failed", "error", err, "kind", domain.ErrorKind(err))
		return nil, err
	}
	return result, nil
}

type pairAction func(store repository.Store, a, b *domain.Attendee, match *domain.Match) error

// act loads both attendees, serializes on the pair and hands the existing
// match, if any, to fn inside one tenant transaction.
func (uc *NetworkingUseCase) act(ctx context.Context, tenantID, eventID, attendeeID, targetID uuid.UUID, fn pairAction) error {
	if attendeeID == targetID {
		return domain.ErrCannotMatchSelf
	}
	return uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		a, err := eventAttendee(ctx, store, eventID, attendeeID)
		if err != nil {
			return err
		}
		b, err := eventAttendee(ctx, store, eventID, targetID)
		if err != nil {
			return err
		}

		if err := store.Matches().LockPair(ctx, eventID, a.ID, b.ID); err != nil {
			return fmt.Errorf("lock pair: %w", err)
		}
		match, err := store.Matches().GetByPair(ctx, eventID, a.ID, b.ID)
		if errors.Is(err, domain.ErrMatchNotFound) {
			match, err = nil, nil
		}
		if err != nil {
			return fmt.Errorf("find match: %w", err)
		}
		return fn(store, a, b, match)
	})
}

func eventAttendee(ctx context.Context, store repository.Store, eventID, id uuid.UUID) (*domain.Attendee, error) {
	a, err := store.Attendees().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.EventID != eventID || a.Status == domain.AttendeeCancelled {
		return nil, domain.ErrAttendeeNotFound
	}
	return a, nil
}

// aggregate derives the pair status from both sides.
func aggregate(m *domain.Match) domain.MatchStatus {
	switch {
	case m.Attendee1Status == domain.SidePassed || m.Attendee2Status == domain.SidePassed:
		return domain.MatchRejected
	case m.Attendee1Status == domain.SideLiked && m.Attendee2Status == domain.SideLiked:
		return domain.MatchAccepted
	}
	return domain.MatchPending
}

func award(ctx context.Context, store repository.Store, eventID, attendeeID uuid.UUID, action string) error {
	entry := &domain.PointsEntry{
		AttendeeID: attendeeID,
		EventID:    eventID,
		Points:     domain.ActionPoints[action],
		Action:     action,
	}
	if err := store.Points().Award(ctx, entry); err != nil {
		return fmt.Errorf("award %s points: %w", action, err)
	}
	return nil
}

// MarkAsMet moves an accepted match to met. Only a participant may do so.
func (uc *NetworkingUseCase) MarkAsMet(ctx context.Context, tenantID, attendeeID, matchID uuid.UUID) (*domain.Match, error) {
	var match *domain.Match
	err := uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		m, err := store.Matches().GetByID(ctx, matchID)
		if err != nil {
			return err
		}
		if !m.HasAttendee(attendeeID) {
			return domain.ErrMatchNotFound
		}
		if err := store.Matches().LockPair(ctx, m.EventID, m.Attendee1ID, m.Attendee2ID); err != nil {
			return fmt.Errorf("lock pair: %w", err)
		}
		// The first read may predate a transition committed while waiting.
		if m, err = store.Matches().GetByID(ctx, matchID); err != nil {
			return err
		}
		if m.Status != domain.MatchAccepted {
			return fmt.Errorf("mark %s match as met: %w", m.Status, domain.ErrInvalidMatchTransition)
		}

		m.Status = domain.MatchMet
		if err := store.Matches().Update(ctx, m); err != nil {
			return fmt.Errorf("update match: %w", err)
		}
		for _, id := range []uuid.UUID{m.Attendee1ID, m.Attendee2ID} {
			if err := award(ctx, store, m.EventID, id, domain.ActionMet); err != nil {
				return err
			}
		}
		match = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger := logging.Component(ctx, uc.logger, "networking", "mark_as_met", "match_id", matchID)
	uc.publish(ctx, logger, events.TopicMatchMet, matchEvent(tenantID, match))
	return match, nil
}

// Suggestions ranks the event's other active attendees that have no match
// row with attendeeID yet.
func (uc *NetworkingUseCase) Suggestions(ctx context.Context, tenantID, eventID, attendeeID uuid.UUID, limit int) ([]Suggestion, error) {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	var out []Suggestion
	err := uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		me, err := eventAttendee(ctx, store, eventID, attendeeID)
		if err != nil {
			return err
		}
		others, err := store.Attendees().ListActive(ctx, eventID)
		if err != nil {
			return fmt.Errorf("list attendees: %w", err)
		}
		existing, err := store.Matches().ListForAttendee(ctx, eventID, attendeeID)
		if err != nil {
			return fmt.Errorf("list matches: %w", err)
		}

		seen := make(map[uuid.UUID]struct{}, len(existing)+1)
		seen[me.ID] = struct{}{}
		for _, m := range existing {
			if other, ok := m.OtherAttendeeID(attendeeID); ok {
				seen[other] = struct{}{}
			}
		}

		profile := me.Profile()
		for _, other := range others {
			if _, ok := seen[other.ID]; ok {
				continue
			}
			if score := Score(profile, other.Profile()); score > MinSuggestionScore {
				out = append(out, Suggestion{Attendee: other, Score: score})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MutualMatches lists accepted and met matches of attendeeID.
func (uc *NetworkingUseCase) MutualMatches(ctx context.Context, tenantID, eventID, attendeeID uuid.UUID) ([]MutualMatch, error) {
	var out []MutualMatch
	err := uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		matches, err := store.Matches().ListByStatus(ctx, eventID, attendeeID, domain.MatchAccepted, domain.MatchMet)
		if err != nil {
			return fmt.Errorf("list matches: %w", err)
		}
		for _, m := range matches {
			otherID, _ := m.OtherAttendeeID(attendeeID)
			other, err := store.Attendees().GetByID(ctx, otherID)
			if err != nil {
				return fmt.Errorf("load attendee %s: %w", otherID, err)
			}
			out = append(out, MutualMatch{Match: m, Other: other})
		}
		return nil
	})
	return out, err
}

func (uc *NetworkingUseCase) Stats(ctx context.Context, tenantID, eventID, attendeeID uuid.UUID) (*domain.NetworkingStats, error) {
	var stats *domain.NetworkingStats
	err := uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		var err error
		stats, err = store.Matches().Stats(ctx, eventID, attendeeID)
		return err
	})
	return stats, err
}

// enrich stores icebreakers for a fresh mutual match. Failures are logged and
// never fail the like.
func (uc *NetworkingUseCase) enrich(ctx context.Context, logger *slog.Logger, tenantID uuid.UUID, match *domain.Match, a, b *domain.Attendee) []string {
	genCtx, cancel := context.WithTimeout(ctx, icebreakerTimeout)
	defer cancel()

	var (
		icebreakers []string
		err         error
	)
	if uc.icebreakers != nil {
		icebreakers, err = uc.icebreakers.GenerateIcebreakers(genCtx, a, b)
		if err != nil {
			logger.Warn("icebreaker generation failed, using fallback", "error", err)
		}
	}
	if len(icebreakers) == 0 {
		icebreakers, _ = uc.fallback.GenerateIcebreakers(genCtx, a, b)
	}

	err = uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		return store.Matches().SetIcebreakers(ctx, match.ID, icebreakers)
	})
	if err != nil {
		logger.Error("store icebreakers", "error", err)
		return nil
	}
	return icebreakers
}

func (uc *NetworkingUseCase) publish(ctx context.Context, logger *slog.Logger, topic string, event any) {
	if err := uc.publisher.Publish(ctx, topic, event); err != nil {
		logger.Warn("publish event", "topic", topic, "error", err)
	}
}

func matchEvent(tenantID uuid.UUID, m *domain.Match) events.MatchChanged {
	return events.MatchChanged{
		TenantID:    tenantID,
		EventID:     m.EventID,
		MatchID:     m.ID,
		Attendee1ID: m.Attendee1ID,
		Attendee2ID: m.Attendee2ID,
	}
}
