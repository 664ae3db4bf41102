package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/selotroca/selotroca-backend/internal/models"
	"github.com/selotroca/selotroca-backend/internal/services"
)

// Context keys set by the auth middlewares.
const (
	ContextProfile   = "profile"
	ContextSession   = "session"
	ContextAdminUser = "adminUser"
)

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// SessionAuthMiddleware resolves the bearer token to a profile and aborts
// with 401 when the session is missing or expired.
func SessionAuthMiddleware(auth services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "code": services.CodeUnauthorized})
			c.Abort()
			return
		}

		profile, session, err := auth.ValidateSession(c.Request.Context(), token)
		if err != nil {
			code := services.CodeSessionExpired
			if de, ok := services.AsDomainError(err); ok {
				code = de.Code
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired", "code": code})
			c.Abort()
			return
		}

		c.Set(ContextProfile, profile)
		c.Set(ContextSession, session)
		c.Next()
	}
}

// AdminAuthMiddleware extends SessionAuthMiddleware with an isAdmin check.
func AdminAuthMiddleware(auth services.AuthService) gin.HandlerFunc {
	sessionAuth := SessionAuthMiddleware(auth)
	return func(c *gin.Context) {
		sessionAuth(c)
		if c.IsAborted() {
			return
		}

		profile := MustProfile(c)
		if !profile.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required", "code": services.CodeForbidden})
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalSessionAuthMiddleware sets the profile when a valid token is
// present and continues silently otherwise.
func OptionalSessionAuthMiddleware(auth services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if profile, session, err := auth.ValidateSession(c.Request.Context(), token); err == nil {
				c.Set(ContextProfile, profile)
				c.Set(ContextSession, session)
			}
		}
		c.Next()
	}
}

// BackofficeAuthMiddleware validates a back-office JWT and sets the account.
func BackofficeAuthMiddleware(backoffice services.BackofficeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "code": services.CodeUnauthorized})
			c.Abort()
			return
		}

		user, err := backoffice.ValidateToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "code": services.CodeUnauthorized})
			c.Abort()
			return
		}

		c.Set(ContextAdminUser, user)
		c.Next()
	}
}

// MustProfile returns the authenticated profile set by the session
// middlewares. Only call behind SessionAuthMiddleware or AdminAuthMiddleware.
func MustProfile(c *gin.Context) *models.Profile {
	return c.MustGet(ContextProfile).(*models.Profile)
}

// ProfileFromContext returns the profile when OptionalSessionAuthMiddleware
// resolved one.
func ProfileFromContext(c *gin.Context) (*models.Profile, bool) {
	value, ok := c.Get(ContextProfile)
	if !ok {
		return nil, false
	}
	profile, ok := value.(*models.Profile)
	return profile, ok
}

// MustAdminUser returns the back-office account set by
// BackofficeAuthMiddleware.
func MustAdminUser(c *gin.Context) *models.AdminUser {
	return c.MustGet(ContextAdminUser).(*models.AdminUser)
}
