package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/spinball/internal/game"
)

var startTime = time.Now()

const version = "1.0.0"

// HealthCheck returns server health status
func HealthCheck(mm *game.MatchManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":        "ok",
			"service":       "spinball-api",
			"version":       version,
			"uptime":        time.Since(startTime).String(),
			"live_matches":  mm.GetActiveMatchCount(),
			"tick_rate_hz":  game.TickRate,
			"field_radius":  game.FieldRadius,
			"goal_arc_size": game.GoalArcWidth,
		})
	}
}
