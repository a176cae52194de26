package repository

import (
	"context"
	"errors"

	"liars_dice/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrPlayerNotFound = errors.New("player not found")

type PlayerRepository struct {
	db *pgxpool.Pool
}

func NewPlayerRepository(db *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) GetByName(ctx context.Context, name string) (*domain.Player, error) {
	var p domain.Player
	err := r.db.QueryRow(ctx,
		`SELECT id, name, gold, created_at FROM players WHERE name = $1`,
		name,
	).Scan(&p.ID, &p.Name, &p.Gold, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a player with its starting gold. An existing name is
// returned unchanged.
func (r *PlayerRepository) Create(ctx context.Context, p *domain.Player) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO players (name, gold)
		 VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id, gold, created_at`,
		p.Name, p.Gold,
	).Scan(&p.ID, &p.Gold, &p.CreatedAt)
}
