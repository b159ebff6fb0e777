package handler

import (
	"net/http"

	"github.com/gdugdh24/confhub-backend/internal/usecase/registration"
	"github.com/gin-gonic/gin"
)

type RegistrationHandler struct {
	registrationUseCase *registration.RegistrationUseCase
}

func NewRegistrationHandler(registrationUseCase *registration.RegistrationUseCase) *RegistrationHandler {
	return &RegistrationHandler{registrationUseCase: registrationUseCase}
}

// Register handles POST /events/:event_id/attendees
// @Summary Register attendee
// @Tags registration
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param event_id path string true "Event ID"
// @Param request body registration.RegisterRequest true "Registration form"
// @Success 201 {object} Response
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Failure 409 {object} Response
// @Router /events/{event_id}/attendees [post]
func (h *RegistrationHandler) Register(c *gin.Context) {
	tenant, ids, ok := scope(c, "event_id")
	if !ok {
		return
	}
	var req registration.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	attendee, err := h.registrationUseCase.Register(c.Request.Context(), tenant, ids[0], &req)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, attendee)
}

// Stats handles GET /events/:event_id/registration-stats
func (h *RegistrationHandler) Stats(c *gin.Context) {
	tenant, ids, ok := scope(c, "event_id")
	if !ok {
		return
	}
	stats, err := h.registrationUseCase.Stats(c.Request.Context(), tenant, ids[0])
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, stats)
}

// ByQR handles GET /qr/:code
// @Summary Find attendee by badge code
// @Tags registration
// @Security BearerAuth
// @Produce json
// @Param code path string true "QR code, e.g. EVT-1A2B3C4D"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /qr/{code} [get]
func (h *RegistrationHandler) ByQR(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}
	attendee, err := h.registrationUseCase.AttendeeByQR(c.Request.Context(), tenant, c.Param("code"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, attendee)
}

func (h *RegistrationHandler) Get(c *gin.Context) {
	tenant, ids, ok := scope(c, "attendee_id")
	if !ok {
		return
	}
	attendee, err := h.registrationUseCase.Attendee(c.Request.Context(), tenant, ids[0])
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, attendee)
}

// CheckIn handles POST /attendees/:attendee_id/check-in
// @Summary Check in attendee
// @Tags registration
// @Security BearerAuth
// @Produce json
// @Param attendee_id path string true "Attendee ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Failure 409 {object} Response
// @Router /attendees/{attendee_id}/check-in [post]
func (h *RegistrationHandler) CheckIn(c *gin.Context) {
	tenant, ids, ok := scope(c, "attendee_id")
	if !ok {
		return
	}
	attendee, err := h.registrationUseCase.CheckIn(c.Request.Context(), tenant, ids[0])
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, attendee)
}

func (h *RegistrationHandler) Cancel(c *gin.Context) {
	tenant, ids, ok := scope(c, "attendee_id")
	if !ok {
		return
	}
	attendee, err := h.registrationUseCase.Cancel(c.Request.Context(), tenant, ids[0])
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, attendee)
}

// UpdateProfile handles PUT /attendees/:attendee_id/profile
// @Summary Update networking profile
// @Tags registration
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param attendee_id path string true "Attendee ID"
// @Param request body registration.ProfileUpdate true "Fields to change"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /attendees/{attendee_id}/profile [put]
func (h *RegistrationHandler) UpdateProfile(c *gin.Context) {
	tenant, ids, ok := scope(c, "attendee_id")
	if !ok {
		return
	}
	var req registration.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	attendee, err := h.registrationUseCase.UpdateProfile(c.Request.Context(), tenant, ids[0], &req)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, attendee)
}

// Badge handles GET /attendees/:attendee_id/badge and answers a PNG.
func (h *RegistrationHandler) Badge(c *gin.Context) {
	tenant, ids, ok := scope(c, "attendee_id")
	if !ok {
		return
	}
	png, err := h.registrationUseCase.BadgePNG(c.Request.Context(), tenant, ids[0])
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
