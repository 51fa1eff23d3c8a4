package handler

import (
	"net/http"

	"github.com/Parthajit/Timer-Tools/internal/middleware"
	"github.com/Parthajit/Timer-Tools/internal/util"

	"github.com/gin-gonic/gin"
)

// GetMe returns the signed-in user (requires AuthMiddleware).
func GetMe(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not signed in")
		return
	}

	util.Success(c, util.Response{
		"user": gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"email":      user.Email,
			"created_at": user.CreatedAt,
		},
	})
}
