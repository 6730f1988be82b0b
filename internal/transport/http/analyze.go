package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/droplogic/connect4/internal/config"
	"github.com/droplogic/connect4/internal/domain"
	"github.com/droplogic/connect4/internal/solver"
)

const maxAnalyzeDepth = 10

// AnalyzeHandler evaluates arbitrary positions for the frontend's
// analysis board.
type AnalyzeHandler struct{}

func NewAnalyzeHandler() *AnalyzeHandler {
	return &AnalyzeHandler{}
}

type analyzeRequest struct {
	Board  [][]int `json:"board" binding:"required"`
	ToMove int     `json:"toMove" binding:"required"`
	Depth  int     `json:"depth"`
}

type analyzeResponse struct {
	Column     *int `json:"column"`
	MovesToWin *int `json:"movesToWin,omitempty"`
	Score      int  `json:"score"`
	GameOver   bool `json:"gameOver"`
}

func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	board, err := domain.FromGrid(req.Board, domain.PlayerID(req.ToMove))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	depth := req.Depth
	if depth <= 0 {
		depth = config.AppConfig.EngineDepth("hard")
	}
	if depth > maxAnalyzeDepth {
		depth = maxAnalyzeDepth
	}

	resp := analyzeResponse{
		Score:    solver.Evaluate(board),
		GameOver: board.IsGameOver(),
	}

	// Each request gets its own engine so concurrent analyses never
	// share a transposition table.
	if result, ok := solver.New().FindBestMove(board, depth); ok {
		column := result.Column
		resp.Column = &column
		if result.Forced {
			moves := result.MovesToWin
			resp.MovesToWin = &moves
		}
	}

	c.JSON(http.StatusOK, resp)
}
