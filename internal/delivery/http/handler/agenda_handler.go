package handler

import (
	"net/http"
	"strconv"

	"github.com/gdugdh24/confhub-backend/internal/usecase/agenda"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AgendaHandler struct {
	agendaUseCase *agenda.AgendaUseCase
}

func NewAgendaHandler(agendaUseCase *agenda.AgendaUseCase) *AgendaHandler {
	return &AgendaHandler{agendaUseCase: agendaUseCase}
}

type AddToAgendaRequest struct {
	SessionID uuid.UUID `json:"session_id" binding:"required"`
}

// EventAgenda handles GET /events/:event_id/agenda
// @Summary Event agenda
// @Description Sessions with speakers, optionally grouped by day
// @Tags agenda
// @Security BearerAuth
// @Produce json
// @Param event_id path string true "Event ID"
// @Param grouped query bool false "Group sessions by day"
// @Success 200 {object} Response
// @Router /events/{event_id}/agenda [get]
func (h *AgendaHandler) EventAgenda(c *gin.Context) {
	tenant, ids, ok := scope(c, "event_id")
	if !ok {
		return
	}
	grouped, _ := strconv.ParseBool(c.Query("grouped"))

	var (
		data any
		err  error
	)
	if grouped {
		data, err = h.agendaUseCase.EventAgendaGrouped(c.Request.Context(), tenant, ids[0])
	} else {
		data, err = h.agendaUseCase.EventAgenda(c.Request.Context(), tenant, ids[0])
	}
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, data)
}

// CreateSession handles POST /events/:event_id/sessions
// @Summary Create session
// @Tags agenda
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param event_id path string true "Event ID"
// @Param request body agenda.CreateSessionRequest true "Session"
// @Success 201 {object} Response
// @Failure 400 {object} Response
// @Failure 403 {object} Response
// @Router /events/{event_id}/sessions [post]
func (h *AgendaHandler) CreateSession(c *gin.Context) {
	tenant, ids, ok := scope(c, "event_id")
	if !ok {
		return
	}
	var req agenda.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	session, err := h.agendaUseCase.CreateSession(c.Request.Context(), tenant, ids[0], &req)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, session)
}

func (h *AgendaHandler) PersonalAgenda(c *gin.Context) {
	tenant, ids, ok := scope(c, "attendee_id")
	if !ok {
		return
	}
	sessions, err := h.agendaUseCase.PersonalAgenda(c.Request.Context(), tenant, ids[0])
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, sessions)
}

// AddToAgenda handles POST /attendees/:attendee_id/agenda
// @Summary Add session to personal agenda
// @Description Fails with 409 when the session overlaps one already on the agenda
// @Tags agenda
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param attendee_id path string true "Attendee ID"
// @Param request body AddToAgendaRequest true "Session"
// @Success 201 {object} Response
// @Failure 404 {object} Response
// @Failure 409 {object} Response
// @Router /attendees/{attendee_id}/agenda [post]
func (h *AgendaHandler) AddToAgenda(c *gin.Context) {
	tenant, ids, ok := scope(c, "attendee_id")
	if !ok {
		return
	}
	var req AddToAgendaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	entry, err := h.agendaUseCase.AddToPersonalAgenda(c.Request.Context(), tenant, ids[0], req.SessionID)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, entry)
}

func (h *AgendaHandler) RemoveFromAgenda(c *gin.Context) {
	tenant, ids, ok := scope(c, "attendee_id", "session_id")
	if !ok {
		return
	}
	if err := h.agendaUseCase.RemoveFromPersonalAgenda(c.Request.Context(), tenant, ids[0], ids[1]); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

func (h *AgendaHandler) MarkAttended(c *gin.Context) {
	tenant, ids, ok := scope(c, "attendee_id", "session_id")
	if !ok {
		return
	}
	if err := h.agendaUseCase.MarkAttended(c.Request.Context(), tenant, ids[0], ids[1]); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

// Recommendations handles GET /events/:event_id/recommendations/:attendee_id
func (h *AgendaHandler) Recommendations(c *gin.Context) {
	tenant, ids, ok := scope(c, "event_id", "attendee_id")
	if !ok {
		return
	}
	recs, err := h.agendaUseCase.Recommendations(c.Request.Context(), tenant, ids[0], ids[1])
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, recs)
}
