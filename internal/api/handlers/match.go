package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/spinball/internal/auth"
	"github.com/playmatatu/spinball/internal/config"
	"github.com/playmatatu/spinball/internal/game"
	"github.com/playmatatu/spinball/internal/profiles"
)

// CreateMatchRequest starts a match. Omitted fields fall back to the
// profile (when given) and then to the configured defaults.
type CreateMatchRequest struct {
	Team1Name     *string  `json:"team1_name"`
	Team2Name     *string  `json:"team2_name"`
	RotationSpeed *float64 `json:"rotation_speed"`
	MatchDuration *float64 `json:"match_duration_seconds"`
	ProfileID     *int     `json:"profile_id"`
}

// CreateMatch registers a new match and returns its control token
func CreateMatch(mm *game.MatchManager, store profiles.Store, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateMatchRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
				return
			}
		}

		settings := game.SettingsFromConfig(cfg)
		if req.ProfileID != nil {
			if store == nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "settings profiles are not available"})
				return
			}
			p, err := store.Get(c.Request.Context(), *req.ProfileID)
			if err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "settings profile not found"})
				return
			}
			settings = profiles.ToSettings(*p)
		}
		if req.Team1Name != nil {
			settings.SetTeamName(0, *req.Team1Name)
		}
		if req.Team2Name != nil {
			settings.SetTeamName(1, *req.Team2Name)
		}
		if req.RotationSpeed != nil {
			settings.RotationSpeed = *req.RotationSpeed
		}
		if req.MatchDuration != nil {
			settings.MatchDuration = *req.MatchDuration
		}

		m, err := mm.CreateMatch(settings)
		if err != nil {
			log.Printf("[MATCH] CreateMatch failed: %v", err)
			respondError(c, err)
			return
		}

		ttl := time.Duration(cfg.ControlTokenHours) * time.Hour
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		token, exp, err := auth.IssueControlToken(cfg.JWTSecret, m.ID, ttl)
		if err != nil {
			log.Printf("[MATCH] Failed to issue control token for %s: %v", m.ID, err)
			mm.RemoveMatch(m.ID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue control token"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"match_id":      m.ID,
			"control_token": token,
			"expires_at":    exp.Format(time.RFC3339),
			"snapshot":      m.Snapshot(),
		})
	}
}

// ListMatches returns every live match
func ListMatches(mm *game.MatchManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		matches := mm.ListMatches()
		c.JSON(http.StatusOK, gin.H{"matches": matches, "total": len(matches)})
	}
}

// LoadMatch resolves :id and stores the match in the context
func LoadMatch(mm *game.MatchManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, err := mm.GetMatch(c.Param("id"))
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		c.Set(ctxMatchKey, m)
		c.Next()
	}
}

// GetMatch returns the current snapshot
func GetMatch() gin.HandlerFunc {
	return func(c *gin.Context) {
		m := matchFromContext(c)
		c.JSON(http.StatusOK, gin.H{
			"snapshot": m.Snapshot(),
			"settings": m.Settings(),
			"result":   resultOf(m),
		})
	}
}

// DeleteMatch ends and removes a match
func DeleteMatch(mm *game.MatchManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := mm.RemoveMatch(id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "match_id": id})
	}
}

func resultOf(m *game.Match) string {
	s := m.Snapshot()
	if s.Status != game.StatusEnded {
		return ""
	}
	return s.Result()
}
