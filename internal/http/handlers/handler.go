package handlers

import (
	"context"
	"time"

	"liars_dice/internal/domain"
	"liars_dice/internal/http/middleware"
	"liars_dice/internal/repository"
	"liars_dice/internal/service"

	"github.com/gin-gonic/gin"
)

// MatchHistory is the read side of the match history repository.
type MatchHistory interface {
	GetByPlayer(ctx context.Context, player string, limit int) ([]*domain.MatchRecord, error)
	GetPlayerStats(ctx context.Context, player string, since time.Time) (*repository.PlayerStats, error)
}

type Handler struct {
	Personas repository.PersonaStore
	Defeated repository.DefeatedStore
	Wallet   service.Wallet
	Matches  *service.MatchService
	History  MatchHistory // nil when there is no database
}

func NewHandler(personas repository.PersonaStore, defeated repository.DefeatedStore, wallet service.Wallet, matches *service.MatchService, history MatchHistory) *Handler {
	return &Handler{
		Personas: personas,
		Defeated: defeated,
		Wallet:   wallet,
		Matches:  matches,
		History:  history,
	}
}

// getPlayer извлекает имя игрока из контекста Gin
func getPlayer(c *gin.Context) (string, bool) {
	return middleware.Player(c)
}
