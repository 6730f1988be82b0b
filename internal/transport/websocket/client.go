package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/droplogic/connect4/internal/domain"
)

type connection struct {
	username string
	conn     *websocket.Conn
	writeMu  sync.Mutex
}

// ConnectionManager tracks one live websocket per user.
type ConnectionManager struct {
	connections map[int64]*connection
	mu          sync.RWMutex
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{connections: make(map[int64]*connection)}
}

// AddConnection registers the socket, closing any previous one the user
// had open.
func (cm *ConnectionManager) AddConnection(userID int64, username string, conn *websocket.Conn) {
	cm.mu.Lock()
	old, exists := cm.connections[userID]
	cm.connections[userID] = &connection{username: username, conn: conn}
	cm.mu.Unlock()

	if exists {
		old.close("logged in from another device")
	}
}

// RemoveConnection drops the mapping only when the stored socket is
// still the given one, so a replaced connection's deferred cleanup does
// not evict its successor.
func (cm *ConnectionManager) RemoveConnection(userID int64, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if current, exists := cm.connections[userID]; exists && current.conn == conn {
		delete(cm.connections, userID)
	}
}

func (cm *ConnectionManager) SendMessage(userID int64, message domain.ServerMessage) error {
	cm.mu.RLock()
	c, exists := cm.connections[userID]
	cm.mu.RUnlock()

	if !exists {
		return fmt.Errorf("no connection for user %d", userID)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// DisconnectUser closes the user's socket with a reason and removes it.
func (cm *ConnectionManager) DisconnectUser(userID int64, reason string) {
	cm.mu.Lock()
	c, exists := cm.connections[userID]
	if exists {
		delete(cm.connections, userID)
	}
	cm.mu.Unlock()

	if exists {
		log.Info().Int64("userId", userID).Str("reason", reason).Msg("disconnecting user")
		c.close(reason)
	}
}

// ping writes a ping frame when conn is still the user's registered
// socket. Returns false once the socket is gone or replaced.
func (cm *ConnectionManager) ping(userID int64, conn *websocket.Conn) bool {
	cm.mu.RLock()
	c, exists := cm.connections[userID]
	cm.mu.RUnlock()

	if !exists || c.conn != conn {
		return false
	}

	c.writeMu.Lock()
	err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
	c.writeMu.Unlock()
	return err == nil
}

func (c *connection) close(reason string) {
	c.writeMu.Lock()
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason))
	c.writeMu.Unlock()
	c.conn.Close()
}
