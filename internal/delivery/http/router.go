package http

import (
	"log/slog"

	"github.com/gdugdh24/confhub-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/confhub-backend/internal/delivery/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	Registration *handler.RegistrationHandler
	Agenda       *handler.AgendaHandler
	Networking   *handler.NetworkingHandler
	Navigation   *handler.NavigationHandler
	Analytics    *handler.AnalyticsHandler
}

type Router struct {
	handlers       Handlers
	authMiddleware *middleware.AuthMiddleware
	rateLimiter    *middleware.RateLimiter
	logger         *slog.Logger
}

func NewRouter(
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
	logger *slog.Logger,
) *Router {
	return &Router{
		handlers:       handlers,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
		logger:         logger,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(r.logger))

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	h := r.handlers
	organizer := r.authMiddleware.RequireOrganizer()

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.GET("/me", r.authMiddleware.RequireAuth(), h.Auth.Me)
		}

		protected := v1.Group("")
		protected.Use(r.authMiddleware.RequireAuth())

		protected.GET("/qr/:code", organizer, h.Registration.ByQR)

		events := protected.Group("/events/:event_id")
		{
			events.POST("/attendees", h.Registration.Register)
			events.GET("/registration-stats", organizer, h.Registration.Stats)

			events.GET("/agenda", h.Agenda.EventAgenda)
			events.POST("/sessions", organizer, h.Agenda.CreateSession)
			events.GET("/recommendations/:attendee_id", h.Agenda.Recommendations)

			events.GET("/beacons", h.Navigation.Beacons)
			events.PUT("/beacons", organizer, h.Navigation.UpsertBeacon)
			events.GET("/heatmap", organizer, h.Navigation.Heatmap)
			events.GET("/pois", h.Navigation.NearbyPOIs)
			events.POST("/route", h.Navigation.Route)
			events.GET("/rooms/:room/session", h.Navigation.CurrentSession)

			networking := events.Group("/networking/:attendee_id")
			{
				networking.POST("/like", h.Networking.Like)
				networking.POST("/pass", h.Networking.Pass)
				networking.GET("/suggestions", h.Networking.Suggestions)
				networking.GET("/matches", h.Networking.Matches)
				networking.GET("/stats", h.Networking.Stats)
			}

			analytics := events.Group("/analytics", organizer)
			{
				analytics.GET("", h.Analytics.Dashboard)
				analytics.GET("/metrics", h.Analytics.Metrics)
				analytics.GET("/registrations", h.Analytics.RegistrationsByDay)
				analytics.GET("/sessions", h.Analytics.SessionAttendance)
				analytics.GET("/tickets", h.Analytics.TicketDistribution)
				analytics.GET("/checkins", h.Analytics.CheckinsByHour)
				analytics.GET("/leaderboard", h.Analytics.Leaderboard)
				analytics.GET("/activity", h.Analytics.Activity)
			}
		}

		attendees := protected.Group("/attendees/:attendee_id")
		{
			attendees.GET("", h.Registration.Get)
			attendees.POST("/check-in", organizer, h.Registration.CheckIn)
			attendees.POST("/cancel", h.Registration.Cancel)
			attendees.PUT("/profile", h.Registration.UpdateProfile)
			attendees.GET("/badge", h.Registration.Badge)

			attendees.GET("/agenda", h.Agenda.PersonalAgenda)
			attendees.POST("/agenda", h.Agenda.AddToAgenda)
			attendees.DELETE("/agenda/:session_id", h.Agenda.RemoveFromAgenda)
			attendees.POST("/agenda/:session_id/attended", h.Agenda.MarkAttended)

			attendees.POST("/location", r.rateLimiter.Limit(), h.Navigation.UpdateLocation)
			attendees.POST("/matches/:match_id/met", h.Networking.MarkAsMet)
		}
	}

	return router
}
