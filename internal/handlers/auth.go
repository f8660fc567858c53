package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medminder/internal/app"
	"medminder/internal/auth"
	"medminder/internal/config"
	apperrors "medminder/internal/errors"
	"medminder/internal/i18n"
	"medminder/internal/middleware"
	"medminder/internal/models"
	"medminder/internal/utils"
	"medminder/internal/view"
)

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	Sessions   *auth.Session
	Workspaces *app.Manager
	Renderer   *view.Renderer
	Cfg        *config.Config
	Logger     *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sessions *auth.Session, workspaces *app.Manager, renderer *view.Renderer, cfg *config.Config, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{Sessions: sessions, Workspaces: workspaces, Renderer: renderer, Cfg: cfg, Logger: logger}
}

// LoginResponse represents the response body for successful login.
type LoginResponse struct {
	AccessToken string             `json:"accessToken"`
	User        models.CurrentUser `json:"user"`
}

// LoginPage renders the login form, or the registration form with
// ?register=1. A logged-in user is sent to the app.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if _, ok, err := h.Sessions.Current(c.Request.Context()); err == nil && ok {
		if cookie, err := c.Cookie(utils.SessionCookie); err == nil && cookie != "" {
			c.Redirect(http.StatusSeeOther, "/")
			return
		}
	}

	html, err := h.Renderer.RenderLogin(view.LoginPage{
		Lang:     i18n.Match(c.GetHeader("Accept-Language")),
		Register: c.Query("register") != "",
		Error:    utils.TakeFlash(c, utils.FlashErrorCookie),
	})
	if err != nil {
		h.Logger.Error("Failed to render login page", zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to render page")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// Register handles user registration. A new user is logged in at once.
func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterInput
	if err := c.ShouldBind(&req); err != nil {
		utils.ErrorTo(c, http.StatusBadRequest, "/login?register=1", "Invalid request payload: "+err.Error())
		return
	}

	user, err := h.Sessions.Register(c.Request.Context(), req)
	if err != nil {
		utils.ErrorTo(c, utils.StatusFor(err), "/login?register=1", apperrors.UserMessage(err, "Registration failed."))
		return
	}
	h.startSession(c, user, http.StatusCreated, "User registered successfully")
}

// Login handles user login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginInput
	if err := c.ShouldBind(&req); err != nil {
		utils.ErrorTo(c, http.StatusBadRequest, "/login", "Invalid request payload: "+err.Error())
		return
	}

	user, err := h.Sessions.Login(c.Request.Context(), req)
	if err != nil {
		utils.ErrorTo(c, utils.StatusFor(err), "/login", apperrors.UserMessage(err, "Login failed."))
		return
	}
	h.startSession(c, user, http.StatusOK, "Login successful")
}

func (h *AuthHandler) startSession(c *gin.Context, user models.CurrentUser, status int, message string) {
	ttl := time.Duration(h.Cfg.Auth.JWTExpirationMinutes) * time.Minute
	token, err := utils.GenerateToken(user, h.Cfg.Auth.JWTSecret, ttl)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate token: "+err.Error())
		return
	}

	// only the current user keeps a live workspace
	if _, err := h.Workspaces.Switch(c.Request.Context(), user.ID); err != nil {
		h.Logger.Error("Failed to activate workspace", zap.String("user_id", user.ID), zap.Error(err))
		utils.InternalServerError(c, "Failed to load application state")
		return
	}

	c.SetCookie(
		utils.SessionCookie,    // Name
		token,                  // Value
		int(ttl.Seconds()),     // Max age in seconds
		"/",                    // Path
		"",                     // Domain (empty means current domain)
		!h.Cfg.IsDevelopment(), // Secure (true in prod, false in dev)
		true,                   // HTTP only
	)

	utils.Respond(c, status, "/", message, LoginResponse{AccessToken: token, User: user})
}

// Logout clears the current user and ends the workspace. The user's data
// stays stored.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	if err := h.Sessions.Logout(c.Request.Context()); err != nil {
		utils.InternalServerError(c, "Failed to log out: "+err.Error())
		return
	}
	h.Workspaces.Deactivate(userID)

	// Clear the session cookie
	c.SetCookie(utils.SessionCookie, "", -1, "/", "", !h.Cfg.IsDevelopment(), true)

	utils.Respond(c, http.StatusOK, "/login", "Logout successful", nil)
}
