package websocket

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/droplogic/connect4/internal/config"
	"github.com/droplogic/connect4/internal/domain"
	"github.com/droplogic/connect4/internal/service/game"
	"github.com/droplogic/connect4/internal/service/session"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

type Handler struct {
	ConnManager    *ConnectionManager
	SessionManager *game.SessionManager
	AuthService    *session.AuthService

	upgrader websocket.Upgrader
}

func NewHandler(cm *ConnectionManager, sm *game.SessionManager, authService *session.AuthService) *Handler {
	return &Handler{
		ConnManager:    cm,
		SessionManager: sm,
		AuthService:    authService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range config.AppConfig.AllowedOrigins {
					if allowed == origin {
						return true
					}
				}
				return false
			},
		},
	}
}

// HandleWebSocket upgrades the request and runs the read loop. The first
// message must carry a valid JWT; everything after that is routed by
// message type.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	var userID int64
	var username string
	authenticated := false

	for {
		var message domain.ClientMessage
		if err := conn.ReadJSON(&message); err != nil {
			if authenticated {
				log.Info().Int64("userId", userID).Err(err).Msg("websocket closed")
				h.ConnManager.RemoveConnection(userID, conn)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		if !authenticated {
			if message.JWT == "" {
				sendError(conn, "not_authenticated", "authentication required")
				continue
			}
			claims, err := h.AuthService.ValidateToken(message.JWT)
			if err != nil {
				sendError(conn, "invalid_token", "invalid or expired token")
				continue
			}

			userID = claims.UserID
			username = claims.Username
			authenticated = true
			h.ConnManager.AddConnection(userID, username, conn)
			go h.keepAlive(userID, conn)

			log.Info().Int64("userId", userID).Str("username", username).Msg("websocket authenticated")
		}

		h.route(message, userID, username)
	}
}

func (h *Handler) route(message domain.ClientMessage, userID int64, username string) {
	switch message.Type {
	case "auth":
		// Connection registered above, nothing more to do.
	case "new_game":
		h.handleNewGame(message, userID, username)
	case "make_move":
		h.handleMove(message, userID)
	case "resign":
		h.handleResign(userID)
	default:
		h.ConnManager.SendMessage(userID, domain.ServerMessage{
			Type:    "error",
			Reason:  "unknown_message_type",
			Message: "unknown message type",
		})
	}
}

func (h *Handler) handleNewGame(message domain.ClientMessage, userID int64, username string) {
	difficulty := message.Difficulty
	if _, ok := config.AppConfig.EngineDepths[difficulty]; !ok {
		difficulty = "medium"
	}
	depth := config.AppConfig.EngineDepth(difficulty)
	h.SessionManager.CreateSession(userID, username, difficulty, depth, h.ConnManager)
}

func (h *Handler) handleMove(message domain.ClientMessage, userID int64) {
	gameSession, exists := h.SessionManager.GetSessionByUserID(userID)
	if !exists {
		h.ConnManager.SendMessage(userID, domain.ServerMessage{
			Type:    "error",
			Reason:  "no_active_game",
			Message: "no active game found",
		})
		return
	}

	if err := gameSession.HandleMove(userID, message.Column, h.ConnManager); err != nil {
		h.ConnManager.SendMessage(userID, domain.ServerMessage{
			Type:    "error",
			Reason:  "invalid_move",
			Message: err.Error(),
		})
	}
}

func (h *Handler) handleResign(userID int64) {
	gameSession, exists := h.SessionManager.GetSessionByUserID(userID)
	if !exists {
		return
	}
	if err := gameSession.HandleResign(userID, h.ConnManager); err != nil {
		log.Debug().Int64("userId", userID).Err(err).Msg("resign rejected")
	}
}

// keepAlive pings until the socket is replaced or closed. The read loop's
// pong handler extends the read deadline.
func (h *Handler) keepAlive(userID int64, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		if !h.ConnManager.ping(userID, conn) {
			return
		}
	}
}

func sendError(conn *websocket.Conn, reason, message string) {
	conn.WriteJSON(domain.ServerMessage{Type: "error", Reason: reason, Message: message})
}
