package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/spinball/internal/game"
)

// Intent handlers run behind LoadMatch and the control token middleware.
// Each one applies a single input to the match and answers with the
// resulting snapshot.

func respondSnapshot(c *gin.Context, mm *game.MatchManager, m *game.Match, extra gin.H) {
	mm.Touch(m.ID)
	body := gin.H{"snapshot": m.Snapshot()}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// SetRunning starts or pauses a match
func SetRunning(mm *game.MatchManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Running *bool `json:"running" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "running is required"})
			return
		}
		m := matchFromContext(c)
		changed := m.SetRunning(*req.Running)
		respondSnapshot(c, mm, m, gin.H{"changed": changed})
	}
}

// ToggleRunning flips play and pause
func ToggleRunning(mm *game.MatchManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		m := matchFromContext(c)
		changed := m.ToggleRunning()
		respondSnapshot(c, mm, m, gin.H{"changed": changed})
	}
}

// ResetMatch returns a match to kickoff
func ResetMatch(mm *game.MatchManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		m := matchFromContext(c)
		m.Reset()
		respondSnapshot(c, mm, m, nil)
	}
}

// SetRotationSpeed stores a clamped rotation speed
func SetRotationSpeed(mm *game.MatchManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Value *float64 `json:"value" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "value is required"})
			return
		}
		m := matchFromContext(c)
		stored := m.SetRotationSpeed(*req.Value)
		respondSnapshot(c, mm, m, gin.H{"rotation_speed": stored})
	}
}

// ApplySetting applies raw text to one setting. Invalid text is ignored and
// reported through "applied".
func ApplySetting(mm *game.MatchManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Field string `json:"field" binding:"required"`
			Value string `json:"value"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "field is required"})
			return
		}
		field, err := game.ParseSettingField(req.Field)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		m := matchFromContext(c)
		applied := m.ApplySetting(field, req.Value)
		respondSnapshot(c, mm, m, gin.H{"applied": applied, "settings": m.Settings()})
	}
}

// RenameBody changes a team name
func RenameBody(mm *game.MatchManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIntParam(c, "body")
		if !ok {
			return
		}
		var req struct {
			Name string `json:"name" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}
		m := matchFromContext(c)
		if err := m.RenameBody(id, req.Name); err != nil {
			respondError(c, err)
			return
		}
		respondSnapshot(c, mm, m, nil)
	}
}
