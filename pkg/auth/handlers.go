package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"travelbooking/pkg/apperror"
	"travelbooking/pkg/logger"
)

const (
	sessionName   = "travel_auth"
	stateKey      = "oauth_state"
	nonceKey      = "oauth_nonce"
	sessionMaxAge = 600
)

type LoginHandler struct {
	provider Provider
	jwt      *JWTManager
	logger   logger.Logger
	secure   bool
	secret   []byte
}

// NewLoginHandler serves the redirect-based login for provider. The short
// lived login session is a cookie signed with secret, which must not be the
// JWT signing key.
func NewLoginHandler(provider Provider, jm *JWTManager, secret string, secureCookies bool, log logger.Logger) *LoginHandler {
	return &LoginHandler{
		provider: provider,
		jwt:      jm,
		logger:   log,
		secure:   secureCookies,
		secret:   []byte(secret),
	}
}

func (h *LoginHandler) RegisterRoutes(router gin.IRouter) {
	store := cookie.NewStore(h.secret)
	store.Options(sessions.Options{
		Path:     "/auth",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	g := router.Group("/auth", sessions.Sessions(sessionName, store))
	g.GET("/"+h.provider.Name(), h.Login)
	g.GET("/callback/"+h.provider.Name(), h.Callback)
}

// Login godoc
// @Summary      Start Google login
// @Tags         auth
// @Success      307
// @Router       /auth/google [get]
func (h *LoginHandler) Login(c *gin.Context) {
	state, err := randomString(32)
	if err != nil {
		apperror.Render(c, apperror.Internal("failed to start login").WithErr(err))
		return
	}
	nonce, err := randomString(32)
	if err != nil {
		apperror.Render(c, apperror.Internal("failed to start login").WithErr(err))
		return
	}

	session := sessions.Default(c)
	session.Set(stateKey, state)
	session.Set(nonceKey, nonce)
	if err := session.Save(); err != nil {
		h.logger.Error("failed to save login session", logger.Field{Key: "err", Value: err})
		apperror.Render(c, apperror.Internal("failed to start login"))
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, h.provider.AuthURL(state, nonce))
}

// Callback godoc
// @Summary      Google login callback, returns a bearer token
// @Tags         auth
// @Produce      json
// @Param        code  query string true "Authorization code"
// @Param        state query string true "State"
// @Success      200 {object} map[string]interface{}
// @Failure      401 {object} map[string]string
// @Router       /auth/callback/google [get]
func (h *LoginHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		apperror.Render(c, apperror.Validation("missing code or state"))
		return
	}

	session := sessions.Default(c)
	expected, _ := session.Get(stateKey).(string)
	nonce, _ := session.Get(nonceKey).(string)
	session.Delete(stateKey)
	session.Delete(nonceKey)
	if err := session.Save(); err != nil {
		h.logger.Error("failed to clear login session", logger.Field{Key: "err", Value: err})
	}

	if expected == "" || expected != state {
		h.logger.Warn("login state mismatch", logger.Field{Key: "client_ip", Value: c.ClientIP()})
		apperror.Render(c, apperror.Unauthorized("invalid login state"))
		return
	}

	user, err := h.provider.Exchange(c.Request.Context(), code, nonce)
	if err != nil {
		h.logger.Warn("login exchange failed", logger.Field{Key: "err", Value: err})
		apperror.Render(c, apperror.Unauthorized("login failed"))
		return
	}

	token, err := h.jwt.GenerateToken(Identity{ID: user.ID, Email: user.Email, Name: user.Name})
	if err != nil {
		apperror.Render(c, apperror.Internal("failed to issue token").WithErr(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Authenticated as: %s (%s)", user.Name, user.Email),
		"token":   token,
		"user":    user,
	})
}

func randomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
