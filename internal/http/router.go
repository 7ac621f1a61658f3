// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wanderplan/internal/http/handlers"
	"wanderplan/internal/http/middleware"
	"wanderplan/internal/modules/planner"
)

type RouterDeps struct {
	Planner *planner.Service
	MapsKey string
	Log     *zap.Logger
	// Limiter guards itinerary submissions; nil disables rate limiting.
	Limiter *middleware.RateLimiter
}

func NewRouter(deps RouterDeps) *gin.Engine {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.Logging(log), middleware.Recovery(log))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	optionsHandler := handlers.NewOptionsHandler(deps.Planner, log)
	r.GET("/api/options", optionsHandler.Get)

	sessionHandler := handlers.NewSessionHandler(deps.Planner, deps.MapsKey, log)
	bookingHandler := handlers.NewBookingHandler(deps.Planner, log)

	sessions := r.Group("/api/sessions")
	sessions.POST("", sessionHandler.Create)
	sessions.GET("/:id", sessionHandler.Get)
	sessions.GET("/:id/ws", sessionHandler.Watch)
	sessions.POST("/:id/reset", sessionHandler.Reset)
	sessions.POST("/:id/days/:day/toggle", sessionHandler.ToggleDay)
	sessions.GET("/:id/itinerary.pdf", sessionHandler.PDF)
	sessions.POST("/:id/booking", bookingHandler.Submit)

	submit := []gin.HandlerFunc{}
	if deps.Limiter != nil {
		submit = append(submit, deps.Limiter.Limit())
	}
	submit = append(submit, sessionHandler.Submit)
	sessions.POST("/:id/itinerary", submit...)

	return r
}
