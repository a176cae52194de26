package handlers

import (
	"errors"
	"net/http"

	"liars_dice/internal/domain"
	"liars_dice/internal/service"

	"github.com/gin-gonic/gin"
)

// SimulateRequest configures an autopilot match for the caller's seat.
type SimulateRequest struct {
	Players    int      `json:"players" binding:"required,min=2,max=64"`
	Ante       int64    `json:"ante" binding:"required,min=1"`
	Difficulty string   `json:"difficulty"`
	Names      []string `json:"names"`
}

// SimulateResponse is the settled outcome.
type SimulateResponse struct {
	MatchID          string     `json:"match_id"`
	Ante             int64      `json:"ante"`
	Pot              int64      `json:"pot"`
	Payout           int64      `json:"payout"`
	Delta            int64      `json:"delta"`
	Balance          int64      `json:"balance"`
	Survivors        []string   `json:"survivors"`
	EliminationOrder []string   `json:"elimination_order"`
	Teams            [][]string `json:"teams"`
	TeamBonus        bool       `json:"team_bonus"`
	Defeated         []string   `json:"defeated"`
	Rounds           int        `json:"rounds"`
}

// Simulate plays a full match with the player's seat on autopilot.
func (h *Handler) Simulate(c *gin.Context) {
	player, ok := getPlayer(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "player not found"})
		return
	}

	var req SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	difficulty := domain.DifficultyMedium
	if req.Difficulty != "" {
		d, err := domain.ParseDifficulty(req.Difficulty)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		difficulty = d
	}

	out, err := h.Matches.Simulate(c.Request.Context(), service.MatchRequest{
		Player:     player,
		Players:    req.Players,
		Ante:       req.Ante,
		Difficulty: difficulty,
		Names:      req.Names,
	})
	switch {
	case errors.Is(err, service.ErrInsufficientBalance):
		c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient balance"})
		return
	case errors.Is(err, service.ErrInvalidAnte), errors.Is(err, service.ErrTooFewPlayers):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, service.ErrPlayerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "match failed"})
		return
	}

	res := out.Result
	c.JSON(http.StatusOK, SimulateResponse{
		MatchID:          out.MatchID,
		Ante:             out.Ante,
		Pot:              res.Pot,
		Payout:           out.Payout,
		Delta:            out.Delta,
		Balance:          out.Balance,
		Survivors:        res.Survivors,
		EliminationOrder: res.EliminationOrder,
		Teams:            res.Teams,
		TeamBonus:        res.Payout.TeamBonus,
		Defeated:         out.Defeated,
		Rounds:           res.Rounds,
	})
}
