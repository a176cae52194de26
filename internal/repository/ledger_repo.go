package repository

import (
	"context"
	"encoding/json"

	"liars_dice/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LedgerRepository records every gold movement.
type LedgerRepository struct {
	db *pgxpool.Pool
}

func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// GetByPlayer returns recent ledger entries for a player
func (r *LedgerRepository) GetByPlayer(ctx context.Context, player string, limit int) ([]*domain.LedgerEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, player, type, amount, meta, created_at
		 FROM gold_ledger
		 WHERE player = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		player, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanRows(rows)
}

// CreateWithTx inserts an entry inside an existing database transaction
func (r *LedgerRepository) CreateWithTx(ctx context.Context, dbTx pgx.Tx, e *domain.LedgerEntry) error {
	metaJSON, err := json.Marshal(e.Meta)
	if err != nil {
		metaJSON = []byte("{}")
	}

	return dbTx.QueryRow(ctx,
		`INSERT INTO gold_ledger (player, type, amount, meta)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		e.Player, e.Type, e.Amount, metaJSON,
	).Scan(&e.ID, &e.CreatedAt)
}

func (r *LedgerRepository) scanRows(rows pgx.Rows) ([]*domain.LedgerEntry, error) {
	var result []*domain.LedgerEntry

	for rows.Next() {
		var (
			e        domain.LedgerEntry
			metaJSON []byte
		)

		if err := rows.Scan(&e.ID, &e.Player, &e.Type, &e.Amount, &metaJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		if len(metaJSON) > 0 {
			_ = json.Unmarshal(metaJSON, &e.Meta)
		}

		result = append(result, &e)
	}

	return result, rows.Err()
}
