package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sabongline/derby/internal/api/handler"
	"github.com/sabongline/derby/internal/config"
	"github.com/sabongline/derby/internal/service"
	"github.com/sabongline/derby/internal/ws"
)

// RouterDeps bundles every dependency needed to build the router.
// Populated once in main() and passed to SetupRouter.
type RouterDeps struct {
	EventSvc      *service.EventService
	SchedulingSvc *service.SchedulingService
	SettlementSvc *service.SettlementService
	StandingsSvc  *service.StandingsService
	Hub           *ws.Hub
	Cfg           *config.Config
}

// SetupRouter creates and configures the main Gin engine with all routes,
// middleware and CORS rules.
func SetupRouter(deps RouterDeps) *gin.Engine {
	if deps.Cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	// ── CORS ─────────────────────────────────────────────────────────────────
	r.Use(corsMiddleware(deps.Cfg))

	// ── Health check ─────────────────────────────────────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ── Handlers ─────────────────────────────────────────────────────────────
	eventH := handler.NewEventHandler(deps.EventSvc, deps.StandingsSvc)
	fightH := handler.NewFightHandler(deps.SchedulingSvc)
	settlementH := handler.NewSettlementHandler(deps.SettlementSvc)

	api := r.Group("/api/v1")
	{
		// ── Events & registry ────────────────────────────────────────────────
		events := api.Group("/events")
		{
			events.POST("", eventH.Create)
			events.GET("", eventH.List)
			events.GET("/:id", eventH.Get)
			events.PATCH("/:id/status", eventH.UpdateStatus)
			events.POST("/:id/participants", eventH.RegisterParticipant)
			events.GET("/:id/participants", eventH.ListParticipants)
			events.GET("/:id/fights", fightH.ListCard)
			events.GET("/:id/standings", eventH.Standings)
		}

		// ── Participants ─────────────────────────────────────────────────────
		participants := api.Group("/participants")
		{
			participants.POST("/:id/cocks", eventH.RegisterCock)
			participants.GET("/:id/cocks", eventH.ListCocks)
		}

		// ── Fights ───────────────────────────────────────────────────────────
		fights := api.Group("/fights")
		{
			fights.POST("", fightH.Create)
			fights.POST("/:id/start", fightH.Start)
			fights.POST("/:id/cancel", fightH.Cancel)
			fights.POST("/:id/settle", settlementH.Settle)
			fights.GET("/:id/settlement", settlementH.GetByFight)
		}

		// ── Settlements ──────────────────────────────────────────────────────
		settlements := api.Group("/settlements")
		{
			settlements.GET("/:id", settlementH.Get)
			settlements.POST("/:id/verify", settlementH.Verify)
			settlements.DELETE("/:id", settlementH.Revert)
		}
	}

	// ── WebSocket ─────────────────────────────────────────────────────────────
	if deps.Hub != nil {
		r.GET("/ws", func(c *gin.Context) {
			deps.Hub.ServeWs(c.Writer, c.Request)
		})
	}

	return r
}

// ── CORS helper ───────────────────────────────────────────────────────────────

// corsMiddleware returns a gin middleware that sets appropriate CORS headers.
// In development all origins are allowed; in production only configured origins.
func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if !cfg.IsProd() {
			c.Header("Access-Control-Allow-Origin", "*")
		} else if origin != "" {
			for _, o := range cfg.Server.AllowedOrigins {
				if o == "*" || o == origin {
					c.Header("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
