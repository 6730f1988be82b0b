package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/droplogic/connect4/internal/config"
	"github.com/droplogic/connect4/internal/repository/postgres"
	"github.com/droplogic/connect4/internal/service/session"
	"github.com/droplogic/connect4/pkg/httputil"
)

type OAuthHandler struct {
	UserRepo    *postgres.UserRepo
	Config      *config.OAuthConfig
	AuthService *session.AuthService
	ConnManager Disconnector
}

func NewOAuthHandler(userRepo *postgres.UserRepo, cfg *config.OAuthConfig, authService *session.AuthService, cm Disconnector) *OAuthHandler {
	return &OAuthHandler{
		UserRepo:    userRepo,
		Config:      cfg,
		AuthService: authService,
		ConnManager: cm,
	}
}

// GoogleLogin redirects the user to Google's consent screen.
func (h *OAuthHandler) GoogleLogin(c *gin.Context) {
	url := h.Config.GoogleLoginConfig.AuthCodeURL("state")
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallback exchanges the code, then logs the user in, creating
// the account on first sign-in.
func (h *OAuthHandler) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	token, err := h.Config.GoogleLoginConfig.Exchange(context.Background(), code)
	if err != nil {
		log.Error().Err(err).Msg("oauth token exchange failed")
		c.Redirect(http.StatusTemporaryRedirect, config.AppConfig.FrontendURL+"/login?error=auth_failed")
		return
	}

	userInfo, err := config.GetGoogleUserInfo(token.AccessToken)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch google user info")
		c.Redirect(http.StatusTemporaryRedirect, config.AppConfig.FrontendURL+"/login?error=user_info_failed")
		return
	}

	user, err := h.UserRepo.GetUserByEmail(userInfo.Email)
	if err != nil {
		log.Error().Err(err).Msg("user lookup failed")
		c.Redirect(http.StatusTemporaryRedirect, config.AppConfig.FrontendURL+"/login?error=auth_failed")
		return
	}

	if user == nil {
		user, err = h.createGoogleUser(userInfo)
		if err != nil {
			log.Error().Err(err).Str("email", userInfo.Email).Msg("failed to create google user")
			c.Redirect(http.StatusTemporaryRedirect, config.AppConfig.FrontendURL+"/login?error=auth_failed")
			return
		}
	} else if !user.GoogleID.Valid {
		// Password account signing in with Google for the first time.
		if err := h.UserRepo.UpdateUserGoogleID(userInfo.Email, userInfo.ID); err != nil {
			log.Error().Err(err).Str("email", userInfo.Email).Msg("failed to link google id")
		}
	}

	if h.ConnManager != nil {
		h.ConnManager.DisconnectUser(user.ID, "logged in from another device")
	}

	jwtToken, err := h.AuthService.StartSession(user.ID, user.Username)
	if err != nil {
		log.Error().Err(err).Msg("failed to start oauth session")
		c.Redirect(http.StatusTemporaryRedirect, config.AppConfig.FrontendURL+"/login?error=auth_failed")
		return
	}

	httputil.SetAuthCookie(c.Writer, jwtToken)
	c.Redirect(http.StatusTemporaryRedirect, config.AppConfig.FrontendURL)
}

// createGoogleUser derives a unique username from the email local part.
func (h *OAuthHandler) createGoogleUser(info *config.GoogleUser) (*postgres.User, error) {
	base := strings.SplitN(info.Email, "@", 2)[0]
	if len(base) < 3 {
		base = "player" + base
	}

	username := base
	for i := 1; ; i++ {
		existing, err := h.UserRepo.GetUserByUsername(username)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			break
		}
		username = fmt.Sprintf("%s%d", base, i)
	}

	return h.UserRepo.CreateGoogleUser(username, info.Email, info.ID)
}
