package handler

import (
	"net/http"
	"strconv"

	"github.com/gdugdh24/confhub-backend/internal/usecase/analytics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AnalyticsHandler struct {
	analyticsUseCase *analytics.AnalyticsUseCase
}

func NewAnalyticsHandler(analyticsUseCase *analytics.AnalyticsUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsUseCase: analyticsUseCase}
}

// Dashboard handles GET /events/:event_id/analytics
// @Summary Organizer dashboard
// @Tags analytics
// @Security BearerAuth
// @Produce json
// @Param event_id path string true "Event ID"
// @Success 200 {object} analytics.Dashboard
// @Failure 403 {object} Response
// @Router /events/{event_id}/analytics [get]
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	h.serve(c, func(tenant, event uuid.UUID) (any, error) {
		return h.analyticsUseCase.Dashboard(c.Request.Context(), tenant, event)
	})
}

func (h *AnalyticsHandler) Metrics(c *gin.Context) {
	h.serve(c, func(tenant, event uuid.UUID) (any, error) {
		return h.analyticsUseCase.Metrics(c.Request.Context(), tenant, event)
	})
}

func (h *AnalyticsHandler) RegistrationsByDay(c *gin.Context) {
	h.serve(c, func(tenant, event uuid.UUID) (any, error) {
		return h.analyticsUseCase.RegistrationsByDay(c.Request.Context(), tenant, event)
	})
}

func (h *AnalyticsHandler) SessionAttendance(c *gin.Context) {
	h.serve(c, func(tenant, event uuid.UUID) (any, error) {
		return h.analyticsUseCase.SessionAttendance(c.Request.Context(), tenant, event)
	})
}

func (h *AnalyticsHandler) TicketDistribution(c *gin.Context) {
	h.serve(c, func(tenant, event uuid.UUID) (any, error) {
		return h.analyticsUseCase.TicketDistribution(c.Request.Context(), tenant, event)
	})
}

func (h *AnalyticsHandler) CheckinsByHour(c *gin.Context) {
	h.serve(c, func(tenant, event uuid.UUID) (any, error) {
		return h.analyticsUseCase.CheckinsByHour(c.Request.Context(), tenant, event)
	})
}

// Leaderboard handles GET /events/:event_id/analytics/leaderboard?limit=
func (h *AnalyticsHandler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	h.serve(c, func(tenant, event uuid.UUID) (any, error) {
		return h.analyticsUseCase.Leaderboard(c.Request.Context(), tenant, event, limit)
	})
}

// Activity handles GET /events/:event_id/analytics/activity?limit=
func (h *AnalyticsHandler) Activity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	h.serve(c, func(tenant, event uuid.UUID) (any, error) {
		return h.analyticsUseCase.RecentActivity(c.Request.Context(), tenant, event, limit)
	})
}

func (h *AnalyticsHandler) serve(c *gin.Context, fn func(tenant, event uuid.UUID) (any, error)) {
	tenant, ids, ok := scope(c, "event_id")
	if !ok {
		return
	}
	data, err := fn(tenant, ids[0])
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, data)
}
