package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"liars_dice/internal/logger"
	"liars_dice/internal/service"

	"github.com/gin-gonic/gin"
)

const statsWindow = 30 * 24 * time.Hour

func (h *Handler) Me(c *gin.Context) {
	player, ok := getPlayer(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "player not found"})
		return
	}

	ctx := c.Request.Context()
	balance, err := h.Wallet.GetBalance(ctx, player)
	if errors.Is(err, service.ErrPlayerNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	resp := gin.H{
		"player": player,
		"gold":   balance,
	}
	if h.History != nil {
		stats, err := h.History.GetPlayerStats(ctx, player, time.Now().Add(-statsWindow))
		if err != nil {
			logger.Warn("failed to load player stats", "player", player, "error", err)
		} else {
			resp["stats"] = stats
		}
	}
	c.JSON(http.StatusOK, resp)
}

// MyMatches returns the player's most recent matches, newest first.
func (h *Handler) MyMatches(c *gin.Context) {
	player, ok := getPlayer(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "player not found"})
		return
	}
	if h.History == nil {
		c.JSON(http.StatusOK, gin.H{"matches": []any{}})
		return
	}

	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	records, err := h.History.GetByPlayer(c.Request.Context(), player, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if records == nil {
		c.JSON(http.StatusOK, gin.H{"matches": []any{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": records})
}

// MyLedger returns the player's recent gold movements.
func (h *Handler) MyLedger(c *gin.Context) {
	player, ok := getPlayer(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "player not found"})
		return
	}

	entries, err := h.Wallet.GetLedger(c.Request.Context(), player, 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if entries == nil {
		c.JSON(http.StatusOK, gin.H{"ledger": []any{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ledger": entries})
}
