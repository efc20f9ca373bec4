package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"markmycampus/internal/app"
	"markmycampus/internal/config"
	"markmycampus/internal/session"
	"markmycampus/internal/transport/http/response"
)

type AuthHandler struct {
	authService *app.AuthService
	sessions    session.Store
	cookie      config.SessionConfig
	sessionTTL  time.Duration
	log         logrus.FieldLogger
}

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func NewAuthHandler(authService *app.AuthService, sessions session.Store, cookie config.SessionConfig, sessionTTL time.Duration, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		cookie:      cookie,
		sessionTTL:  sessionTTL,
		log:         log,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, app.ErrMissingCredentials.Error())
		return
	}

	result, err := h.authService.Register(c.Request.Context(), app.RegisterInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(c, h.log, err, "Registration failed")
		return
	}

	h.startSession(c, result.Token)
	response.OK(c, gin.H{
		"token":    result.Token,
		"userId":   result.User.ID,
		"username": result.User.Username,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, app.ErrMissingCredentials.Error())
		return
	}

	result, err := h.authService.Login(c.Request.Context(), app.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(c, h.log, err, "Login failed")
		return
	}

	h.startSession(c, result.Token)
	response.OK(c, gin.H{
		"token":    result.Token,
		"userId":   result.User.ID,
		"username": result.User.Username,
	})
}

// Logout always succeeds; a missing or unknown session is not an error for the client.
func (h *AuthHandler) Logout(c *gin.Context) {
	if id, err := c.Cookie(h.cookie.CookieName); err == nil && id != "" {
		if err := h.sessions.Delete(c.Request.Context(), id); err != nil {
			h.log.WithError(err).Warn("delete session failed")
		}
	}
	h.setCookie(c, "", -1)
	response.Message(c, "Logged out successfully")
}

// startSession does not fail the request: the token in the body stays usable without a cookie.
func (h *AuthHandler) startSession(c *gin.Context, token string) {
	id, err := h.sessions.Create(c.Request.Context(), token)
	if err != nil {
		h.log.WithError(err).Error("create session failed")
		return
	}
	h.setCookie(c, id, int(h.sessionTTL.Seconds()))
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, value, maxAge, "/", "", h.cookie.Secure, true)
}
