package repository

import (
	"context"

	"liars_dice/internal/domain"
	"liars_dice/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgPersonaStore keeps persona memory in the personas table.
type PgPersonaStore struct {
	db *pgxpool.Pool
}

func NewPgPersonaStore(db *pgxpool.Pool) *PgPersonaStore {
	return &PgPersonaStore{db: db}
}

const personaColumns = `name, bluffs_caught, defended_success, bluffs_made, bluff_success, truths_made, truth_success`

func (s *PgPersonaStore) Load(ctx context.Context, names []string) domain.Memory {
	rows, err := s.db.Query(ctx,
		`SELECT `+personaColumns+` FROM personas WHERE name = ANY($1)`,
		names,
	)
	if err != nil {
		logger.Warn("persona memory query failed, starting fresh", "error", err)
		return domain.NewMemory(names...)
	}
	defer rows.Close()

	found, err := scanPersonas(rows)
	if err != nil {
		logger.Warn("persona memory scan failed, starting fresh", "error", err)
		return domain.NewMemory(names...)
	}
	return pick(found, names)
}

// Save upserts every entry in one transaction.
func (s *PgPersonaStore) Save(ctx context.Context, mem domain.Memory) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for name, st := range mem {
		batch.Queue(
			`INSERT INTO personas (`+personaColumns+`, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, now())
			 ON CONFLICT (name) DO UPDATE SET
				bluffs_caught = EXCLUDED.bluffs_caught,
				defended_success = EXCLUDED.defended_success,
				bluffs_made = EXCLUDED.bluffs_made,
				bluff_success = EXCLUDED.bluff_success,
				truths_made = EXCLUDED.truths_made,
				truth_success = EXCLUDED.truth_success,
				updated_at = now()`,
			name, st.BluffsCaught, st.DefendedSuccess, st.BluffsMade, st.BluffSuccess, st.TruthsMade, st.TruthSuccess,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PgPersonaStore) All(ctx context.Context) (domain.Memory, error) {
	rows, err := s.db.Query(ctx, `SELECT `+personaColumns+` FROM personas ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPersonas(rows)
}

func scanPersonas(rows pgx.Rows) (domain.Memory, error) {
	mem := domain.Memory{}
	for rows.Next() {
		var (
			name string
			st   domain.PersonaStats
		)
		if err := rows.Scan(&name, &st.BluffsCaught, &st.DefendedSuccess, &st.BluffsMade,
			&st.BluffSuccess, &st.TruthsMade, &st.TruthSuccess); err != nil {
			return nil, err
		}
		mem[name] = st
	}
	return mem, rows.Err()
}
