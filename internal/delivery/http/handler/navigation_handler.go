package handler

import (
	"net/http"
	"strconv"

	"github.com/gdugdh24/confhub-backend/internal/domain"
	"github.com/gdugdh24/confhub-backend/internal/usecase/navigation"
	"github.com/gin-gonic/gin"
)

type NavigationHandler struct {
	navigationUseCase *navigation.NavigationUseCase
}

func NewNavigationHandler(navigationUseCase *navigation.NavigationUseCase) *NavigationHandler {
	return &NavigationHandler{navigationUseCase: navigationUseCase}
}

// RouteRequest holds the two ends of a route.
type RouteRequest struct {
	From domain.Point `json:"from"`
	To   domain.Point `json:"to"`
}

func (h *NavigationHandler) Beacons(c *gin.Context) {
	tenant, ids, ok := scope(c, "event_id")
	if !ok {
		return
	}
	beacons, err := h.navigationUseCase.EventBeacons(c.Request.Context(), tenant, ids[0])
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, beacons)
}

// UpsertBeacon handles PUT /events/:event_id/beacons
// @Summary Create or update beacon
// @Description Updates when id is present, creates otherwise
// @Tags navigation
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param event_id path string true "Event ID"
// @Param request body navigation.BeaconRequest true "Beacon"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /events/{event_id}/beacons [put]
func (h *NavigationHandler) UpsertBeacon(c *gin.Context) {
	tenant, ids, ok := scope(c, "event_id")
	if !ok {
		return
	}
	var req navigation.BeaconRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	beacon, err := h.navigationUseCase.UpsertBeacon(c.Request.Context(), tenant, ids[0], &req)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, beacon)
}

// UpdateLocation handles POST /attendees/:attendee_id/location
// @Summary Report attendee position
// @Tags navigation
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param attendee_id path string true "Attendee ID"
// @Param request body navigation.LocationUpdate true "Position"
// @Success 200 {object} Response
// @Failure 429 {object} Response
// @Router /attendees/{attendee_id}/location [post]
func (h *NavigationHandler) UpdateLocation(c *gin.Context) {
	tenant, ids, ok := scope(c, "attendee_id")
	if !ok {
		return
	}
	var req navigation.LocationUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := h.navigationUseCase.UpdateLocation(c.Request.Context(), tenant, ids[0], &req); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

func (h *NavigationHandler) Heatmap(c *gin.Context) {
	tenant, ids, ok := scope(c, "event_id")
	if !ok {
		return
	}
	zones, err := h.navigationUseCase.Heatmap(c.Request.Context(), tenant, ids[0])
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, zones)
}

// NearbyPOIs handles GET /events/:event_id/pois?x=&y=&floor=&radius=
func (h *NavigationHandler) NearbyPOIs(c *gin.Context) {
	tenant, ids, ok := scope(c, "event_id")
	if !ok {
		return
	}
	x, errX := strconv.ParseFloat(c.Query("x"), 64)
	y, errY := strconv.ParseFloat(c.Query("y"), 64)
	floor, errF := strconv.Atoi(c.DefaultQuery("floor", "0"))
	if errX != nil || errY != nil || errF != nil {
		badRequest(c, "x, y and floor must be numbers")
		return
	}
	radius, _ := strconv.ParseFloat(c.Query("radius"), 64)

	pois, err := h.navigationUseCase.NearbyPOIs(c.Request.Context(), tenant, ids[0], domain.Point{X: x, Y: y, Floor: floor}, radius)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, pois)
}

// Route handles POST /events/:event_id/route
// @Summary Indoor route
// @Description Straight line on one floor; across floors through the first stairs or elevator beacon
// @Tags navigation
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param event_id path string true "Event ID"
// @Param request body RouteRequest true "Route ends"
// @Success 200 {object} navigation.Route
// @Router /events/{event_id}/route [post]
func (h *NavigationHandler) Route(c *gin.Context) {
	tenant, ids, ok := scope(c, "event_id")
	if !ok {
		return
	}
	var req RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	route, err := h.navigationUseCase.Route(c.Request.Context(), tenant, ids[0], req.From, req.To)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, route)
}

// CurrentSession handles GET /events/:event_id/rooms/:room/session
func (h *NavigationHandler) CurrentSession(c *gin.Context) {
	tenant, ids, ok := scope(c, "event_id")
	if !ok {
		return
	}
	session, err := h.navigationUseCase.CurrentSessionByRoom(c.Request.Context(), tenant, ids[0], c.Param("room"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, session)
}
