package handlers

import (
	"net/http"

	"liars_dice/internal/domain"
	"liars_dice/internal/game"

	"github.com/gin-gonic/gin"
)

// Rules describes the table rules and the ante limits of this server.
func (h *Handler) Rules(c *gin.Context) {
	limits := h.Matches.Limits()
	c.JSON(http.StatusOK, gin.H{
		"faces":                []int{domain.MinFace, domain.MaxFace},
		"min_opening_quantity": game.MinOpeningQuantity,
		"bid_format":           "<quantity> <face>",
		"partners": gin.H{
			"pairs_below":   game.TriplesFromPlayers,
			"triples_below": game.QuadsFromPlayers,
		},
		"max_winners": "partners per team + 1",
		"splits": gin.H{
			"2": game.SplitFor(2),
			"3": game.SplitFor(3),
			"4": game.SplitFor(4),
		},
		"team_bonus":   game.TeamBonusSplit,
		"difficulties": domain.Difficulties,
		"min_ante":     limits.MinAnte,
		"max_ante":     limits.MaxAnte,
	})
}
