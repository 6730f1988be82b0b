package uid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateGameID returns a random 128-bit hex identifier for a game.
func GenerateGameID() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// GenerateSessionID returns a cryptographically random 256-bit session ID.
func GenerateSessionID() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate session ID: %v", err)
	}
	return hex.EncodeToString(bytes), nil
}
