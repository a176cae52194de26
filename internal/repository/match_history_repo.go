package repository

import (
	"context"
	"encoding/json"
	"time"

	"liars_dice/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MatchHistoryRepository struct {
	db *pgxpool.Pool
}

func NewMatchHistoryRepository(db *pgxpool.Pool) *MatchHistoryRepository {
	return &MatchHistoryRepository{db: db}
}

// Create сохраняет запись матча в историю
func (r *MatchHistoryRepository) Create(ctx context.Context, rec *domain.MatchRecord) error {
	detailsJSON, err := json.Marshal(rec.Details)
	if err != nil {
		detailsJSON = []byte("{}")
	}
	orderJSON, _ := json.Marshal(nonNil(rec.EliminationOrder))
	survivorsJSON, _ := json.Marshal(nonNil(rec.Survivors))

	return r.db.QueryRow(ctx,
		`INSERT INTO match_history
			(match_id, player, mode, difficulty, result, players, ante, pot, payout, rounds,
			 elimination_order, survivors, details)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id, created_at`,
		rec.MatchID,
		rec.Player,
		rec.Mode,
		rec.Difficulty,
		rec.Result,
		rec.Players,
		rec.Ante,
		rec.Pot,
		rec.Payout,
		rec.Rounds,
		orderJSON,
		survivorsJSON,
		detailsJSON,
	).Scan(&rec.ID, &rec.CreatedAt)
}

// GetByPlayer возвращает историю матчей игрока
func (r *MatchHistoryRepository) GetByPlayer(ctx context.Context, player string, limit int) ([]*domain.MatchRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, match_id, player, mode, difficulty, result, players, ante, pot, payout, rounds,
				elimination_order, survivors, details, created_at
		 FROM match_history
		 WHERE player = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		player, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanRows(rows)
}

// PlayerStats - статистика игрока
type PlayerStats struct {
	Player      string `json:"player"`
	Matches     int    `json:"matches"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	Resigned    int    `json:"resigned"`
	TotalAnte   int64  `json:"total_ante"`
	TotalPayout int64  `json:"total_payout"`
}

// GetPlayerStats returns aggregates over matches since the given time.
func (r *MatchHistoryRepository) GetPlayerStats(ctx context.Context, player string, since time.Time) (*PlayerStats, error) {
	stats := &PlayerStats{Player: player}

	err := r.db.QueryRow(ctx,
		`SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE result = 'win'),
			COUNT(*) FILTER (WHERE result = 'lose'),
			COUNT(*) FILTER (WHERE result = 'resigned'),
			COALESCE(SUM(ante), 0),
			COALESCE(SUM(payout), 0)
		 FROM match_history
		 WHERE player = $1 AND created_at >= $2`,
		player, since,
	).Scan(&stats.Matches, &stats.Wins, &stats.Losses, &stats.Resigned, &stats.TotalAnte, &stats.TotalPayout)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *MatchHistoryRepository) scanRows(rows pgx.Rows) ([]*domain.MatchRecord, error) {
	var result []*domain.MatchRecord

	for rows.Next() {
		var (
			rec                                  domain.MatchRecord
			orderJSON, survivorsJSON, detailsRaw []byte
		)

		if err := rows.Scan(
			&rec.ID, &rec.MatchID, &rec.Player, &rec.Mode, &rec.Difficulty, &rec.Result,
			&rec.Players, &rec.Ante, &rec.Pot, &rec.Payout, &rec.Rounds,
			&orderJSON, &survivorsJSON, &detailsRaw, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}

		_ = json.Unmarshal(orderJSON, &rec.EliminationOrder)
		_ = json.Unmarshal(survivorsJSON, &rec.Survivors)
		if len(detailsRaw) > 0 {
			_ = json.Unmarshal(detailsRaw, &rec.Details)
		}

		result = append(result, &rec)
	}

	return result, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
