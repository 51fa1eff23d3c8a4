package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/Parthajit/Timer-Tools/internal/models"
	"github.com/Parthajit/Timer-Tools/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CurrentUserKey is the gin context key holding the resolved *models.User.
const CurrentUserKey = "currentUser"

// extractToken pulls a JWT from the Authorization header, the ?token=
// query parameter (downloads cannot set headers), or the tt_token cookie.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}
	if token := c.Query("token"); token != "" {
		return token
	}
	if cookie, err := c.Cookie("tt_token"); err == nil {
		return cookie
	}
	return ""
}

func resolveUser(jwtSecret string, db *gorm.DB, tokenStr string) *models.User {
	claims, err := util.ParseToken(jwtSecret, tokenStr)
	if err != nil || claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
		return nil
	}
	var user models.User
	if err := db.First(&user, "id = ?", claims.UserID).Error; err != nil {
		return nil
	}
	return &user
}

// AuthMiddleware rejects requests without a valid token and puts the
// current user into the context.
func AuthMiddleware(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not signed in")
			c.Abort()
			return
		}

		user := resolveUser(jwtSecret, db, tokenStr)
		if user == nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "session expired, please sign in again")
			c.Abort()
			return
		}

		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves a current user when a valid token is
// present but lets anonymous requests through. Session recording and the
// dashboard accept anonymous callers and use the local cache for them.
func OptionalAuthMiddleware(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr := extractToken(c); tokenStr != "" {
			if user := resolveUser(jwtSecret, db, tokenStr); user != nil {
				c.Set(CurrentUserKey, user)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user from the context, or nil for
// anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(CurrentUserKey)
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}
