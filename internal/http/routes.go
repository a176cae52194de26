package http

import (
	"time"

	"liars_dice/internal/config"
	"liars_dice/internal/http/handlers"
	"liars_dice/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes mounts health, metrics and the v1 API. A nil cfg uses the
// defaults of config.Load.
func RegisterRoutes(r *gin.Engine, h *handlers.Handler, health *handlers.HealthHandler, cfg *config.Config) {
	apiRateLimit, apiRateWindow := 10, time.Minute
	gameRateLimit, gameRateWindow := 60, time.Minute
	if cfg != nil {
		apiRateLimit = cfg.APIRateLimit
		apiRateWindow = time.Duration(cfg.APIRateWindow) * time.Second
		gameRateLimit = cfg.GameRateLimit
		gameRateWindow = time.Duration(cfg.GameRateWindow) * time.Second
	}

	r.Use(middleware.Metrics())

	// Health checks (no rate limiting)
	r.GET("/health", health.Health)
	r.GET("/healthz", health.Liveness)
	r.GET("/readyz", health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(apiRateLimit, apiRateWindow))

	v1.GET("/rules", h.Rules)
	v1.GET("/personas", h.ListPersonas)
	v1.GET("/personas/:name", h.GetPersona)
	v1.GET("/defeated/:difficulty", h.ListDefeated)

	auth := v1.Group("")
	auth.Use(middleware.JWT())
	{
		auth.GET("/me", h.Me)
		auth.GET("/me/matches", h.MyMatches)
		auth.GET("/me/ledger", h.MyLedger)

		// Game rate limiter middleware (per player, not per IP)
		auth.POST("/matches/simulate", middleware.GameRateLimit(gameRateLimit, gameRateWindow), h.Simulate)
	}
}
