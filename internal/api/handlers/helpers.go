package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/spinball/internal/game"
)

// Context keys set by middleware.
const (
	ctxMatchKey      = "match"
	ctxAdminPhoneKey = "admin_phone"
)

// respondError maps a domain error to a status code.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, game.ErrMatchNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "match not found"})
	case errors.Is(err, game.ErrTooManyMatches):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, game.ErrInvalidConfiguration), errors.Is(err, game.ErrUnknownBody):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// parseIntParam reads a positive integer path parameter.
func parseIntParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return v, true
}

// matchFromContext returns the match loaded by LoadMatch.
func matchFromContext(c *gin.Context) *game.Match {
	m, _ := c.MustGet(ctxMatchKey).(*game.Match)
	return m
}
