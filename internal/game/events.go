package game

import "liars_dice/internal/domain"

type EventKind string

const (
	EventMatchStarted     EventKind = "match_started"
	EventRoundStarted     EventKind = "round_started"
	EventDiceRolled       EventKind = "dice_rolled"
	EventTurnStarted      EventKind = "turn_started"
	EventBidPlaced        EventKind = "bid_placed"
	EventBidRejected      EventKind = "bid_rejected"
	EventBluffCalled      EventKind = "bluff_called"
	EventDiceRevealed     EventKind = "dice_revealed"
	EventPlayerEliminated EventKind = "player_eliminated"
	EventHumanResigned    EventKind = "human_resigned"
	EventMatchEnded       EventKind = "match_ended"
)

// Event is something that happened at the table. Payload holds one of the
// *Payload structs below, matching Kind.
type Event struct {
	Kind    EventKind
	MatchID string
	Round   int
	Payload any
}

// EventSink receives events in the order they happen. Publish is called from
// the match goroutine and must not block for long.
type EventSink interface {
	Publish(Event)
}

// SinkFunc adapts a function to EventSink.
type SinkFunc func(Event)

func (f SinkFunc) Publish(e Event) { f(e) }

type discardSink struct{}

func (discardSink) Publish(Event) {}

type MatchStartedPayload struct {
	Players    []string
	Human      string
	Ante       int64
	Pot        int64
	MaxWinners int
	Difficulty domain.Difficulty
}

type RoundStartedPayload struct {
	Starter     string
	Rotation    []string
	PlayersLeft int
	TotalDice   int
}

// DiceRolledPayload carries only what the human may see.
type DiceRolledPayload struct {
	Player      string
	Dice        domain.Hand
	PartnerDice map[string]domain.Hand
}

type TurnStartedPayload struct {
	Player   string
	Rotation []string
	Current  *domain.Bid
}

type BidPlacedPayload struct {
	Bid     domain.Bid
	Opening bool
}

type BidRejectedPayload struct {
	Player string
	Input  string
	Reason string
}

type BluffCalledPayload struct {
	Caller string
	Bid    domain.Bid
}

type DiceRevealedPayload struct {
	Hands  map[string]domain.Hand
	Bid    domain.Bid
	Actual int
}

type PlayerEliminatedPayload struct {
	Player string
	// Bluffing is true when the bidder was caught, false when the caller was wrong.
	Bluffing    bool
	PlayersLeft int
}

type HumanResignedPayload struct {
	Watching bool
}

type MatchEndedPayload struct {
	Survivors        []string
	EliminationOrder []string
	Teams            [][]string
	Payout           Payout
}
