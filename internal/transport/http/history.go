package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/droplogic/connect4/internal/repository/postgres"
)

type HistoryHandler struct {
	GameRepo *postgres.GameRepo
}

func NewHistoryHandler(gameRepo *postgres.GameRepo) *HistoryHandler {
	return &HistoryHandler{GameRepo: gameRepo}
}

type gameHistoryItem struct {
	ID         string    `json:"id"`
	Opponent   string    `json:"opponent"`
	Difficulty string    `json:"difficulty"`
	Result     string    `json:"result"` // "win", "loss", "draw"
	EndReason  string    `json:"endReason"`
	MovesCount int       `json:"movesCount"`
	Duration   int       `json:"durationSeconds"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (h *HistoryHandler) GetHistory(c *gin.Context) {
	userID := c.GetInt64("user_id")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	games, err := h.GameRepo.GetUserGameHistory(userID, limit)
	if err != nil {
		log.Error().Err(err).Int64("userId", userID).Msg("failed to fetch game history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history"})
		return
	}

	history := make([]gameHistoryItem, 0, len(games))
	for _, g := range games {
		history = append(history, gameHistoryItem{
			ID:         g.GameID,
			Opponent:   g.EngineName,
			Difficulty: g.Difficulty,
			Result:     resultFor(g.Winner),
			EndReason:  g.Reason,
			MovesCount: g.TotalMoves,
			Duration:   g.DurationSeconds,
			CreatedAt:  g.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, history)
}

func (h *HistoryHandler) GetGameDetails(c *gin.Context) {
	gameID := c.Param("id")
	userID := c.GetInt64("user_id")

	game, board, err := h.GameRepo.GetGameByID(gameID)
	if err != nil {
		log.Error().Err(err).Str("gameId", gameID).Msg("failed to fetch game")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch game"})
		return
	}
	if game == nil || game.PlayerID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":              game.GameID,
		"opponent":        game.EngineName,
		"difficulty":      game.Difficulty,
		"result":          resultFor(game.Winner),
		"endReason":       game.Reason,
		"movesCount":      game.TotalMoves,
		"durationSeconds": game.DurationSeconds,
		"createdAt":       game.CreatedAt,
		"finishedAt":      game.FinishedAt,
		"board":           board,
	})
}

func resultFor(winner string) string {
	switch winner {
	case "player":
		return "win"
	case "engine":
		return "loss"
	}
	return "draw"
}
