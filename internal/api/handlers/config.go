package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/spinball/internal/config"
	"github.com/playmatatu/spinball/internal/game"
)

// GetConfig returns the match defaults and limits a settings screen needs
func GetConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		defaults := game.SettingsFromConfig(cfg)
		c.JSON(http.StatusOK, gin.H{
			"defaults":           defaults,
			"rotation_speed_min": game.RotationSpeedMin,
			"rotation_speed_max": game.RotationSpeedMax,
			"max_name_length":    game.MaxNameLength,
			"tick_rate":          cfg.TickRate,
			"max_matches":        cfg.MaxMatches,
		})
	}
}
