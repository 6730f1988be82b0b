package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/droplogic/connect4/internal/repository/postgres"
	"github.com/droplogic/connect4/internal/service/session"
	"github.com/droplogic/connect4/pkg/auth"
	"github.com/droplogic/connect4/pkg/httputil"
)

// Disconnector lets the auth layer drop a user's live websocket when
// their credentials change.
type Disconnector interface {
	DisconnectUser(userID int64, reason string)
}

type AuthHandler struct {
	UserRepo    *postgres.UserRepo
	AuthService *session.AuthService
	ConnManager Disconnector
}

func NewAuthHandler(userRepo *postgres.UserRepo, authService *session.AuthService, cm Disconnector) *AuthHandler {
	return &AuthHandler{UserRepo: userRepo, AuthService: authService, ConnManager: cm}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if len(req.Username) < 3 || len(req.Username) > 32 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username must be 3-32 characters"})
		return
	}

	if existing, err := h.UserRepo.GetUserByUsername(req.Username); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	} else if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
		return
	}
	if existing, err := h.UserRepo.GetUserByEmail(req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	} else if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.UserRepo.CreateUser(req.Username, req.Email, hash)
	if err != nil {
		log.Error().Err(err).Str("username", req.Username).Msg("failed to create user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	token, err := h.AuthService.StartSession(user.ID, user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start session"})
		return
	}

	httputil.SetAuthCookie(c.Writer, token)
	c.JSON(http.StatusCreated, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.UserRepo.GetUserByUsername(req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	if user == nil || !user.PasswordHash.Valid || !auth.CheckPassword(user.PasswordHash.String, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	// One live session per user: kick any existing websocket before the
	// new session deactivates its backing record.
	if h.ConnManager != nil {
		h.ConnManager.DisconnectUser(user.ID, "logged in from another device")
	}

	token, err := h.AuthService.StartSession(user.ID, user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start session"})
		return
	}

	httputil.SetAuthCookie(c.Writer, token)
	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID := c.GetString("session_id")
	if sessionID != "" {
		if err := h.AuthService.EndSession(sessionID); err != nil {
			log.Error().Err(err).Msg("failed to end session")
		}
	}
	httputil.ClearAuthCookie(c.Writer)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetInt64("user_id")
	user, err := h.UserRepo.GetUserByID(userID)
	if err != nil || user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          user.ID,
		"username":    user.Username,
		"email":       user.Email,
		"gamesPlayed": user.GamesPlayed,
		"gamesWon":    user.GamesWon,
		"createdAt":   user.CreatedAt,
	})
}

func (h *AuthHandler) Leaderboard(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 10
	}

	entries, err := h.UserRepo.GetLeaderboard(limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch leaderboard")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch leaderboard"})
		return
	}

	c.JSON(http.StatusOK, entries)
}
