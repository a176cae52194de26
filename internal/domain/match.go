package domain

import "time"

// MatchResult - итог матча для игрока
type MatchResult string

const (
	MatchResultWin      MatchResult = "win"
	MatchResultLose     MatchResult = "lose"
	MatchResultResigned MatchResult = "resigned"
)

// MatchMode distinguishes a hand-played table from an autopilot simulation.
type MatchMode string

const (
	MatchModeConsole  MatchMode = "console"
	MatchModeSimulate MatchMode = "simulate"
)

// MatchRecord - запись истории матча
type MatchRecord struct {
	ID               int64                  `db:"id" json:"id"`
	MatchID          string                 `db:"match_id" json:"match_id"`
	Player           string                 `db:"player" json:"player"`
	Mode             MatchMode              `db:"mode" json:"mode"`
	Difficulty       Difficulty             `db:"difficulty" json:"difficulty"`
	Result           MatchResult            `db:"result" json:"result"`
	Players          int                    `db:"players" json:"players"`
	Ante             int64                  `db:"ante" json:"ante"`
	Pot              int64                  `db:"pot" json:"pot"`
	Payout           int64                  `db:"payout" json:"payout"`
	Rounds           int                    `db:"rounds" json:"rounds"`
	EliminationOrder []string               `db:"elimination_order" json:"elimination_order"`
	Survivors        []string               `db:"survivors" json:"survivors"`
	Details          map[string]interface{} `db:"details" json:"details,omitempty"`
	CreatedAt        time.Time              `db:"created_at" json:"created_at"`
}
