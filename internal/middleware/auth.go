package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medminder/internal/app"
	"medminder/internal/auth"
	"medminder/internal/utils"
)

const (
	userIDKey    = "userID"
	usernameKey  = "username"
	workspaceKey = "workspace"
)

// AuthMiddleware requires a valid session token whose subject is the
// current user, and attaches that user's workspace to the context.
func AuthMiddleware(secret string, sessions *auth.Session, workspaces *app.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			deny(c, "Authorization required")
			return
		}

		claims, err := utils.ValidateToken(tokenString, secret)
		if err != nil {
			deny(c, "Invalid token: "+err.Error())
			return
		}

		current, ok, err := sessions.Current(c.Request.Context())
		if err != nil {
			logger.Error("Failed to read current user", zap.Error(err))
			utils.InternalServerError(c, "Failed to read session")
			c.Abort()
			return
		}
		if !ok || current.ID != claims.UserID {
			deny(c, "Session ended")
			return
		}

		ws, err := workspaces.Activate(c.Request.Context(), current.ID)
		if err != nil {
			logger.Error("Failed to activate workspace", zap.String("user_id", current.ID), zap.Error(err))
			utils.InternalServerError(c, "Failed to load application state")
			c.Abort()
			return
		}

		// Set user information in context for downstream handlers
		c.Set(userIDKey, current.ID)
		c.Set(usernameKey, current.Username)
		c.Set(workspaceKey, ws)

		c.Next()
	}
}

// tokenFromRequest prefers the session cookie and falls back to a bearer
// header for API clients.
func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(utils.SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
		return parts[1]
	}
	return ""
}

// deny sends browsers to the login page and API clients a 401.
func deny(c *gin.Context, message string) {
	if utils.WantsHTML(c) {
		c.Redirect(http.StatusSeeOther, "/login")
	} else {
		utils.Unauthorized(c, message)
	}
	c.Abort()
}

// GetUserIDFromContext returns the authenticated user id.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return "", false
	}
	idStr, ok := userID.(string)
	return idStr, ok
}

// GetUsernameFromContext returns the authenticated username.
func GetUsernameFromContext(c *gin.Context) string {
	return c.GetString(usernameKey)
}

// GetWorkspace returns the authenticated user's workspace.
func GetWorkspace(c *gin.Context) (*app.Workspace, bool) {
	v, exists := c.Get(workspaceKey)
	if !exists {
		return nil, false
	}
	ws, ok := v.(*app.Workspace)
	return ws, ok
}
