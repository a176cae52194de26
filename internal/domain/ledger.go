package domain

import "time"

// Ledger entry kinds.
const (
	LedgerAnte   = "ante"
	LedgerPayout = "payout"
	LedgerRefund = "refund"
)

// LedgerEntry is one gold movement on a player's balance.
type LedgerEntry struct {
	ID        int64                  `db:"id" json:"id"`
	Player    string                 `db:"player" json:"player"`
	Type      string                 `db:"type" json:"type"`
	Amount    int64                  `db:"amount" json:"amount"`
	Meta      map[string]interface{} `db:"meta" json:"meta,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}
