package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/spinball/internal/api/handlers"
	"github.com/playmatatu/spinball/internal/config"
	"github.com/playmatatu/spinball/internal/game"
	"github.com/playmatatu/spinball/internal/middleware"
	"github.com/playmatatu/spinball/internal/profiles"
	"github.com/playmatatu/spinball/internal/ws"
)

// Deps bundles what the routes need. DB, Profiles and Admins may be nil when
// the server runs without postgres; the admin routes are then not mounted.
type Deps struct {
	Config   *config.Config
	Matches  *game.MatchManager
	Hub      *ws.Hub
	DB       *sqlx.DB
	Profiles profiles.Store
	Admins   handlers.AdminAuthenticator
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, d Deps) {
	cfg := d.Config

	router.Use(middleware.CORSMiddleware(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			// Aggressive no-cache for development
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] Aggressive no-cache headers enabled for all routes")
	}

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck(d.Matches))
		v1.GET("/config", handlers.GetConfig(cfg))

		// Match endpoints
		v1.POST("/matches", handlers.CreateMatch(d.Matches, d.Profiles, cfg))
		v1.GET("/matches", handlers.ListMatches(d.Matches))

		match := v1.Group("/matches/:id", handlers.LoadMatch(d.Matches))
		{
			match.GET("", handlers.GetMatch())
			if d.Hub != nil {
				match.GET("/ws", middleware.WebSocketCORSCheck(cfg), d.Hub.ServeMatch())
			}

			control := match.Group("", middleware.ControlTokenMiddleware(cfg))
			{
				control.POST("/running", handlers.SetRunning(d.Matches))
				control.POST("/toggle", handlers.ToggleRunning(d.Matches))
				control.POST("/reset", handlers.ResetMatch(d.Matches))
				control.POST("/rotation-speed", handlers.SetRotationSpeed(d.Matches))
				control.POST("/settings", handlers.ApplySetting(d.Matches))
				control.POST("/bodies/:body/name", handlers.RenameBody(d.Matches))
				control.DELETE("", handlers.DeleteMatch(d.Matches))
			}
		}

		// Admin endpoints
		if d.Profiles != nil && d.Admins != nil {
			adminGroup := v1.Group("/admin", handlers.AdminAuthMiddleware(d.Admins))
			{
				adminGroup.GET("/profiles", handlers.ListProfiles(d.Profiles))
				adminGroup.POST("/profiles", handlers.CreateProfile(d.Profiles, d.Admins))
				adminGroup.DELETE("/profiles/:id", handlers.DeleteProfile(d.Profiles, d.Admins))
				if d.DB != nil {
					adminGroup.GET("/audit", handlers.GetAdminAuditLogs(d.DB))
				}
			}
		} else {
			log.Println("[ADMIN] Postgres not configured; admin routes disabled")
		}
	}
}
