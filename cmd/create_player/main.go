package main

import (
	"context"
	"flag"
	"fmt"

	"liars_dice/internal/config"
	"liars_dice/internal/db"
	"liars_dice/internal/domain"
	"liars_dice/internal/logger"
	"liars_dice/internal/repository"
	"liars_dice/internal/service"
)

func main() {
	name := flag.String("name", "Knight", "player name")
	gold := flag.Int64("gold", 0, "starting gold (defaults to STARTING_GOLD)")
	flag.Parse()

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL not set")
	}
	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}
	if *gold <= 0 {
		*gold = cfg.StartingGold
	}

	pool := db.Connect(cfg.DatabaseURL)
	defer pool.Close()

	repo := repository.NewPlayerRepository(pool)
	ctx := context.Background()

	p := &domain.Player{Name: *name, Gold: *gold}
	if err := repo.Create(ctx, p); err != nil {
		logger.Fatal("create player failed", "error", err)
	}
	logger.Info("player ready", "id", p.ID, "name", p.Name, "gold", p.Gold, "created_at", p.CreatedAt)

	service.InitJWT(cfg.JWTSecret)
	token, err := service.GenerateJWT(p.Name)
	if err != nil {
		logger.Fatal("failed to generate token", "error", err)
	}
	fmt.Println(token)
}
