package service

import (
	"context"
	"errors"
	"sync"

	"liars_dice/internal/domain"
	"liars_dice/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrInvalidAmount       = errors.New("invalid amount")
)

// Wallet holds players' gold. Debit and Credit return the new balance.
type Wallet interface {
	GetBalance(ctx context.Context, player string) (int64, error)
	Debit(ctx context.Context, player string, amount int64, entryType string, meta map[string]interface{}) (int64, error)
	Credit(ctx context.Context, player string, amount int64, entryType string, meta map[string]interface{}) (int64, error)
	GetLedger(ctx context.Context, player string, limit int) ([]*domain.LedgerEntry, error)
}

// BalanceService handles all balance operations against PostgreSQL.
type BalanceService struct {
	db         *pgxpool.Pool
	ledgerRepo *repository.LedgerRepository
}

// NewBalanceService creates a new balance service
func NewBalanceService(db *pgxpool.Pool) *BalanceService {
	return &BalanceService{
		db:         db,
		ledgerRepo: repository.NewLedgerRepository(db),
	}
}

// GetBalance returns player's current gold
func (s *BalanceService) GetBalance(ctx context.Context, player string) (int64, error) {
	var balance int64
	err := s.db.QueryRow(ctx, `SELECT gold FROM players WHERE name = $1`, player).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrPlayerNotFound
		}
		return 0, err
	}
	return balance, nil
}

// Debit deducts amount from player's gold (antes)
func (s *BalanceService) Debit(ctx context.Context, player string, amount int64, entryType string, meta map[string]interface{}) (newBalance int64, err error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock and check balance
	var balance int64
	err = tx.QueryRow(ctx, `SELECT gold FROM players WHERE name = $1 FOR UPDATE`, player).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrPlayerNotFound
		}
		return 0, err
	}

	if balance < amount {
		return 0, ErrInsufficientBalance
	}

	err = tx.QueryRow(ctx, `UPDATE players SET gold = gold - $1 WHERE name = $2 RETURNING gold`, amount, player).Scan(&newBalance)
	if err != nil {
		return 0, err
	}

	entry := &domain.LedgerEntry{
		Player: player,
		Type:   entryType,
		Amount: -amount,
		Meta:   meta,
	}
	if err = s.ledgerRepo.CreateWithTx(ctx, tx, entry); err != nil {
		return 0, err
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, err
	}

	return newBalance, nil
}

// Credit adds amount to player's gold (payouts, refunds)
func (s *BalanceService) Credit(ctx context.Context, player string, amount int64, entryType string, meta map[string]interface{}) (newBalance int64, err error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `UPDATE players SET gold = gold + $1 WHERE name = $2 RETURNING gold`, amount, player).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrPlayerNotFound
		}
		return 0, err
	}

	entry := &domain.LedgerEntry{
		Player: player,
		Type:   entryType,
		Amount: amount,
		Meta:   meta,
	}
	if err = s.ledgerRepo.CreateWithTx(ctx, tx, entry); err != nil {
		return 0, err
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, err
	}

	return newBalance, nil
}

// GetLedger returns player's gold history
func (s *BalanceService) GetLedger(ctx context.Context, player string, limit int) ([]*domain.LedgerEntry, error) {
	return s.ledgerRepo.GetByPlayer(ctx, player, limit)
}

// MemoryWallet keeps balances in process. Players it has never seen start
// with the configured starting gold.
type MemoryWallet struct {
	mu       sync.Mutex
	starting int64
	gold     map[string]int64
	ledger   []domain.LedgerEntry
}

func NewMemoryWallet(startingGold int64) *MemoryWallet {
	return &MemoryWallet{starting: startingGold, gold: map[string]int64{}}
}

func (w *MemoryWallet) balance(player string) int64 {
	if g, ok := w.gold[player]; ok {
		return g
	}
	w.gold[player] = w.starting
	return w.starting
}

func (w *MemoryWallet) GetBalance(_ context.Context, player string) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.balance(player), nil
}

func (w *MemoryWallet) Debit(_ context.Context, player string, amount int64, entryType string, meta map[string]interface{}) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.balance(player) < amount {
		return 0, ErrInsufficientBalance
	}
	w.gold[player] -= amount
	w.ledger = append(w.ledger, domain.LedgerEntry{Player: player, Type: entryType, Amount: -amount, Meta: meta})
	return w.gold[player], nil
}

func (w *MemoryWallet) Credit(_ context.Context, player string, amount int64, entryType string, meta map[string]interface{}) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	w.gold[player] = w.balance(player) + amount
	w.ledger = append(w.ledger, domain.LedgerEntry{Player: player, Type: entryType, Amount: amount, Meta: meta})
	return w.gold[player], nil
}

// Ledger returns a copy of every entry recorded so far.
func (w *MemoryWallet) Ledger() []domain.LedgerEntry {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]domain.LedgerEntry(nil), w.ledger...)
}

// GetLedger returns the player's newest entries first, like the database ledger.
func (w *MemoryWallet) GetLedger(_ context.Context, player string, limit int) ([]*domain.LedgerEntry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var out []*domain.LedgerEntry
	for i := len(w.ledger) - 1; i >= 0 && len(out) < limit; i-- {
		if w.ledger[i].Player == player {
			e := w.ledger[i]
			out = append(out, &e)
		}
	}
	return out, nil
}
