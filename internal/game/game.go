package game

import (
	"context"
	"errors"

	"liars_dice/internal/domain"
)

var (
	// ErrInvariant marks a broken engine invariant. It is a programming
	// error, never a user-recoverable condition.
	ErrInvariant = errors.New("match invariant violated")
	ErrResigned  = errors.New("human resigned")
)

// Phase is the state of the round state machine.
type Phase int

const (
	PhaseRoundStart Phase = iota
	PhaseBidding
	PhaseResolution
	PhaseRoundEnd
	PhaseMatchEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseRoundStart:
		return "round_start"
	case PhaseBidding:
		return "bidding"
	case PhaseResolution:
		return "resolution"
	case PhaseRoundEnd:
		return "round_end"
	case PhaseMatchEnd:
		return "match_end"
	default:
		return "unknown"
	}
}

// TurnView is everything an AI participant may look at on its turn.
// The memory records are shared with the engine and must not be modified.
type TurnView struct {
	Self         string
	Dice         domain.Hand
	Partners     []string
	PartnerDice  map[string]domain.Hand
	Current      *domain.Bid
	TotalDice    int
	PlayersLeft  int
	MaxWinners   int
	MatchMemory  domain.Memory
	GlobalMemory domain.Memory
	Difficulty   domain.Difficulty
}

// Decider picks the action of an AI participant.
type Decider interface {
	Decide(view TurnView) domain.Decision
}

// DeciderFunc adapts a function to Decider.
type DeciderFunc func(view TurnView) domain.Decision

func (f DeciderFunc) Decide(view TurnView) domain.Decision { return f(view) }

type ActionKind int

const (
	ActionRaise ActionKind = iota + 1
	ActionCall
	ActionResign
)

// HumanAction is what the human typed. Input is the raw "<quantity> <face>"
// text of a raise; the engine parses and validates it.
type HumanAction struct {
	Kind  ActionKind
	Input string
}

// HumanView is the table as the human sees it on its turn.
type HumanView struct {
	Self        string
	Dice        domain.Hand
	Partners    []string
	PartnerDice map[string]domain.Hand
	Current     *domain.Bid
	PlayersLeft int
	TotalDice   int
	Rotation    []string
	MaxWinners  int
	// Persona memory as the AI seats see it. Read-only for the human.
	MatchMemory  domain.Memory
	GlobalMemory domain.Memory
	// Retry is set when the previous action on this turn was rejected.
	Retry string
}

// Human is the interactive participant. Act blocks until the player acts;
// an error (usually a cancelled ctx) abandons the match like a resignation.
// KeepWatching is asked before every AI turn once the human is out; false
// leaves the table.
type Human interface {
	Act(ctx context.Context, view HumanView) (HumanAction, error)
	KeepWatching(ctx context.Context) bool
}

// MemoryStore persists persona memory across matches. Load never fails:
// a missing or unreadable record yields zero counters for every name.
type MemoryStore interface {
	Load(ctx context.Context, names []string) domain.Memory
	Save(ctx context.Context, mem domain.Memory) error
}

// Result is the outcome of a match as seen by its caller.
type Result struct {
	MatchID          string
	Human            string
	Players          []string
	Survivors        []string
	EliminationOrder []string
	// Defeated lists the opponents eliminated in a match the human survived.
	Defeated   []string
	Teams      [][]string
	Pot        int64
	Ante       int64
	Payout     Payout
	Resigned   bool
	Rounds     int
	Turns      int
	Calls      int
	Difficulty domain.Difficulty
}

// HumanSurvived reports whether the human is among the survivors.
func (r *Result) HumanSurvived() bool {
	for _, s := range r.Survivors {
		if s == r.Human {
			return true
		}
	}
	return false
}
