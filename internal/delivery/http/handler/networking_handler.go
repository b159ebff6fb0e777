package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gdugdh24/confhub-backend/internal/usecase/networking"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NetworkingHandler struct {
	networkingUseCase *networking.NetworkingUseCase
}

func NewNetworkingHandler(networkingUseCase *networking.NetworkingUseCase) *NetworkingHandler {
	return &NetworkingHandler{networkingUseCase: networkingUseCase}
}

// SwipeRequest names the attendee being liked or passed.
type SwipeRequest struct {
	TargetID uuid.UUID `json:"target_id" binding:"required"`
}

// Like handles POST /events/:event_id/networking/:attendee_id/like
// @Summary Like attendee
// @Description Becomes a mutual match when the target already liked the caller
// @Tags networking
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param event_id path string true "Event ID"
// @Param attendee_id path string true "Acting attendee ID"
// @Param request body SwipeRequest true "Target"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Failure 409 {object} Response
// @Router /events/{event_id}/networking/{attendee_id}/like [post]
func (h *NetworkingHandler) Like(c *gin.Context) {
	h.swipe(c, h.networkingUseCase.Like)
}

// Pass handles POST /events/:event_id/networking/:attendee_id/pass
func (h *NetworkingHandler) Pass(c *gin.Context) {
	h.swipe(c, h.networkingUseCase.Pass)
}

type swipeFunc func(ctx context.Context, tenantID, eventID, attendeeID, targetID uuid.UUID) (*networking.ActionResult, error)

func (h *NetworkingHandler) swipe(c *gin.Context, fn swipeFunc) {
	tenant, ids, ok := scope(c, "event_id", "attendee_id")
	if !ok {
		return
	}
	var req SwipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	result, err := fn(c.Request.Context(), tenant, ids[0], ids[1], req.TargetID)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

// Suggestions handles GET /events/:event_id/networking/:attendee_id/suggestions
// @Summary Networking suggestions
// @Tags networking
// @Security BearerAuth
// @Produce json
// @Param event_id path string true "Event ID"
// @Param attendee_id path string true "Attendee ID"
// @Param limit query int false "Maximum suggestions (default 10)"
// @Success 200 {object} Response
// @Router /events/{event_id}/networking/{attendee_id}/suggestions [get]
func (h *NetworkingHandler) Suggestions(c *gin.Context) {
	tenant, ids, ok := scope(c, "event_id", "attendee_id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	suggestions, err := h.networkingUseCase.Suggestions(c.Request.Context(), tenant, ids[0], ids[1], limit)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, suggestions)
}

func (h *NetworkingHandler) Matches(c *gin.Context) {
	tenant, ids, ok := scope(c, "event_id", "attendee_id")
	if !ok {
		return
	}
	matches, err := h.networkingUseCase.MutualMatches(c.Request.Context(), tenant, ids[0], ids[1])
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, matches)
}

func (h *NetworkingHandler) Stats(c *gin.Context) {
	tenant, ids, ok := scope(c, "event_id", "attendee_id")
	if !ok {
		return
	}
	stats, err := h.networkingUseCase.Stats(c.Request.Context(), tenant, ids[0], ids[1])
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, stats)
}

// MarkAsMet handles POST /attendees/:attendee_id/matches/:match_id/met
// @Summary Mark match as met
// @Tags networking
// @Security BearerAuth
// @Produce json
// @Param attendee_id path string true "Attendee ID"
// @Param match_id path string true "Match ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Failure 409 {object} Response
// @Router /attendees/{attendee_id}/matches/{match_id}/met [post]
func (h *NetworkingHandler) MarkAsMet(c *gin.Context) {
	tenant, ids, ok := scope(c, "attendee_id", "match_id")
	if !ok {
		return
	}
	match, err := h.networkingUseCase.MarkAsMet(c.Request.Context(), tenant, ids[0], ids[1])
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, match)
}
