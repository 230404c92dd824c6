package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/spinball/internal/models"
	"github.com/playmatatu/spinball/internal/profiles"
)

// AdminAuthenticator validates operator credentials and records their actions.
type AdminAuthenticator interface {
	Authenticate(phone, token, ip string) (*models.AdminAccount, error)
	Audit(adminPhone, ip, route, action string, details map[string]interface{}, success bool)
}

// AdminAuthMiddleware checks the X-Admin-Phone and X-Admin-Token headers
func AdminAuthMiddleware(admins AdminAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		phone := strings.TrimSpace(c.GetHeader("X-Admin-Phone"))
		token := strings.TrimSpace(c.GetHeader("X-Admin-Token"))
		if phone == "" || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin credentials required"})
			return
		}

		acc, err := admins.Authenticate(phone, token, c.ClientIP())
		if err != nil {
			log.Printf("[ADMIN] Authentication failed for %s: %v", phone, err)
			admins.Audit(phone, c.ClientIP(), c.FullPath(), "authenticate", nil, false)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid admin credentials"})
			return
		}

		c.Set(ctxAdminPhoneKey, acc.Phone)
		c.Next()
	}
}

// ListProfiles returns all saved settings profiles
func ListProfiles(store profiles.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := store.List(c.Request.Context())
		if err != nil {
			log.Printf("[DB] Failed to list settings profiles: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profiles"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"profiles": list, "total": len(list)})
	}
}

// CreateProfile saves a new settings profile
func CreateProfile(store profiles.Store, admins AdminAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminPhone := c.GetString(ctxAdminPhoneKey)

		var p models.SettingsProfile
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if err := profiles.Normalize(&p); err != nil {
			admins.Audit(adminPhone, c.ClientIP(), c.FullPath(), "create_profile", map[string]interface{}{"name": p.Name}, false)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		p.CreatedBy = adminPhone

		if err := store.Create(c.Request.Context(), &p); err != nil {
			admins.Audit(adminPhone, c.ClientIP(), c.FullPath(), "create_profile", map[string]interface{}{"name": p.Name}, false)
			if errors.Is(err, profiles.ErrDuplicateName) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			log.Printf("[DB] Failed to create settings profile %q: %v", p.Name, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save profile"})
			return
		}

		admins.Audit(adminPhone, c.ClientIP(), c.FullPath(), "create_profile", map[string]interface{}{"id": p.ID, "name": p.Name}, true)
		c.JSON(http.StatusCreated, gin.H{"profile": p})
	}
}

// DeleteProfile removes a settings profile
func DeleteProfile(store profiles.Store, admins AdminAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminPhone := c.GetString(ctxAdminPhoneKey)
		id, ok := parseIntParam(c, "id")
		if !ok {
			return
		}

		if err := store.Delete(c.Request.Context(), id); err != nil {
			admins.Audit(adminPhone, c.ClientIP(), c.FullPath(), "delete_profile", map[string]interface{}{"id": id}, false)
			if errors.Is(err, profiles.ErrProfileNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			log.Printf("[DB] Failed to delete settings profile %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete profile"})
			return
		}

		admins.Audit(adminPhone, c.ClientIP(), c.FullPath(), "delete_profile", map[string]interface{}{"id": id}, true)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
