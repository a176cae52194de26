package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"liars_dice/internal/domain"
)

type scriptedHuman struct {
	act     func(view HumanView) HumanAction
	watch   func() bool
	prompts int
}

func (h *scriptedHuman) Act(_ context.Context, view HumanView) (HumanAction, error) {
	h.prompts++
	return h.act(view), nil
}

func (h *scriptedHuman) KeepWatching(context.Context) bool {
	if h.watch == nil {
		return true
	}
	return h.watch()
}

type recordingStore struct {
	base  domain.Memory
	saves []domain.Memory
}

func (s *recordingStore) Load(_ context.Context, names []string) domain.Memory {
	return domain.Merge(domain.NewMemory(names...), s.base)
}

func (s *recordingStore) Save(_ context.Context, mem domain.Memory) error {
	s.saves = append(s.saves, mem.Clone())
	return nil
}

func (s *recordingStore) last() domain.Memory {
	if len(s.saves) == 0 {
		return nil
	}
	return s.saves[len(s.saves)-1]
}

type eventLog []Event

func (l *eventLog) Publish(e Event) { *l = append(*l, e) }

func (l eventLog) ofKind(kind EventKind) []Event {
	var out []Event
	for _, e := range l {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// allOnes rolls every die as a 1.
var allOnes = RollerFunc(func(n int) domain.Hand {
	h := make(domain.Hand, n)
	for i := range h {
		h[i] = 1
	}
	return h
})

// opener opens "2 1" and calls anything else.
func opener(view TurnView) domain.Decision {
	if view.Current == nil {
		return domain.Open(domain.Bid{Quantity: 2, Face: 1})
	}
	return domain.Call(view.Current.Bidder)
}

func callingHuman() *scriptedHuman {
	return &scriptedHuman{act: func(view HumanView) HumanAction {
		if view.Current == nil {
			return HumanAction{Kind: ActionRaise, Input: "2 1"}
		}
		return HumanAction{Kind: ActionCall}
	}}
}

func opponentNames(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("Opponent %d", i+1)
	}
	return out
}

func TestMatchOneEliminationPerRound(t *testing.T) {
	for _, size := range []int{2, 3, 8, 18, 32} {
		t.Run(fmt.Sprintf("table_%d", size), func(t *testing.T) {
			var events eventLog
			m, err := NewMatch(Config{
				ID:         "m1",
				Human:      "Knight",
				Opponents:  opponentNames(size - 1),
				Difficulty: domain.DifficultyMedium,
				Ante:       10,
			}, callingHuman(), DeciderFunc(opener),
				WithRand(rand.New(rand.NewSource(int64(size)))),
				WithSink(&events),
				WithStore(&recordingStore{}),
			)
			if err != nil {
				t.Fatalf("NewMatch: %v", err)
			}

			res, err := m.Run(context.Background())
			if err != nil {
				t.Fatalf("Run: %v", err)
			}

			winners := MaxWinners(size)
			if len(res.Survivors) != winners {
				t.Fatalf("survivors = %d, want %d", len(res.Survivors), winners)
			}
			if res.Rounds != size-winners || len(res.EliminationOrder) != size-winners {
				t.Fatalf("rounds = %d, eliminated = %d, want %d each", res.Rounds, len(res.EliminationOrder), size-winners)
			}

			left := size
			for _, e := range events.ofKind(EventPlayerEliminated) {
				p := e.Payload.(PlayerEliminatedPayload)
				left--
				if p.PlayersLeft != left {
					t.Fatalf("round %d left %d players, want %d", e.Round, p.PlayersLeft, left)
				}
			}
			if res.Pot != int64(size)*10 {
				t.Fatalf("pot = %d", res.Pot)
			}
			if m.Phase() != PhaseMatchEnd {
				t.Fatalf("phase = %s", m.Phase())
			}
		})
	}
}

func TestMatchRejectsInvalidHumanInput(t *testing.T) {
	inputs := []HumanAction{
		{Kind: ActionCall},
		{Kind: ActionRaise, Input: "three fours"},
		{Kind: ActionRaise, Input: "1 4"},
		{Kind: ActionRaise, Input: "2 7"},
		{Kind: ActionRaise, Input: "13 4"},
		{Kind: ActionRaise, Input: "2 4"},
	}
	human := &scriptedHuman{}
	human.act = func(view HumanView) HumanAction {
		if human.prompts <= len(inputs) {
			return inputs[human.prompts-1]
		}
		return HumanAction{Kind: ActionCall}
	}

	var events eventLog
	m, err := NewMatch(Config{
		Human:      "Knight",
		Opponents:  []string{"Bob", "Lucy"},
		Difficulty: domain.DifficultyEasy,
		Ante:       5,
	}, human, DeciderFunc(opener),
		WithSeating([]string{"Knight", "Bob", "Lucy"}),
		WithSink(&events),
		WithRoller(allOnes),
	)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var reasons []string
	for _, e := range events.ofKind(EventBidRejected) {
		reasons = append(reasons, e.Payload.(BidRejectedPayload).Reason)
	}
	want := []string{"no_bid_to_call", "bad_format", "opening_too_low", "face_out_of_range", "exceeds_table"}
	if fmt.Sprint(reasons) != fmt.Sprint(want) {
		t.Fatalf("reasons = %v, want %v", reasons, want)
	}

	placed := events.ofKind(EventBidPlaced)
	first := placed[0].Payload.(BidPlacedPayload)
	if !first.Opening || first.Bid.Bidder != "Knight" || first.Bid.Quantity != 2 || first.Bid.Face != 4 {
		t.Fatalf("first accepted bid = %+v", first)
	}
	// rejected attempts never consume the turn
	if turns := events.ofKind(EventTurnStarted); turns[1].Payload.(TurnStartedPayload).Player != "Bob" {
		t.Fatalf("second turn went to %v", turns[1].Payload)
	}
}

func TestMatchRetroactiveCredit(t *testing.T) {
	human := &scriptedHuman{act: func(view HumanView) HumanAction {
		return HumanAction{Kind: ActionRaise, Input: "2 6"}
	}}
	ai := DeciderFunc(func(view TurnView) domain.Decision {
		if view.Self == "Bob" {
			return domain.Raise(domain.Bid{Quantity: 3, Face: 1})
		}
		return domain.Call(view.Current.Bidder)
	})
	store := &recordingStore{base: domain.Memory{"Bob": {TruthsMade: 4}}}

	m, err := NewMatch(Config{
		Human:      "Knight",
		Opponents:  []string{"Bob", "Lucy"},
		Difficulty: domain.DifficultyHard,
		Ante:       1,
	}, human, ai,
		WithSeating([]string{"Knight", "Bob", "Lucy"}),
		WithRoller(allOnes),
		WithStore(store),
	)
	if err != nil {
		t.Fatal(err)
	}
	res, err := m.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.EliminationOrder) != 1 || res.EliminationOrder[0] != "Lucy" {
		t.Fatalf("elimination order = %v, want [Lucy]", res.EliminationOrder)
	}

	mem := m.MatchMemory()
	if got := mem.Stats("Knight"); got != (domain.PersonaStats{BluffsMade: 1, BluffSuccess: 1}) {
		t.Fatalf("superseded bluff credit = %+v", got)
	}
	if got := mem.Stats("Bob"); got != (domain.PersonaStats{DefendedSuccess: 1, TruthsMade: 1, TruthSuccess: 1}) {
		t.Fatalf("defended bid credit = %+v", got)
	}
	if got := mem.Stats("Lucy"); !got.IsZero() {
		t.Fatalf("caller should have no bid credit, got %+v", got)
	}

	saved := store.last()
	if saved == nil {
		t.Fatal("memory was not saved at match end")
	}
	if saved.Stats("Bob").TruthsMade != 5 {
		t.Fatalf("saved Bob truths = %d, want 4 global + 1 match", saved.Stats("Bob").TruthsMade)
	}
}

func TestMatchBluffCaught(t *testing.T) {
	human := &scriptedHuman{act: func(view HumanView) HumanAction {
		return HumanAction{Kind: ActionCall}
	}}
	ai := DeciderFunc(func(view TurnView) domain.Decision {
		if view.Current == nil {
			return domain.Open(domain.Bid{Quantity: 2, Face: 6})
		}
		return domain.Call(view.Current.Bidder)
	})
	m, err := NewMatch(Config{
		Human:      "Knight",
		Opponents:  []string{"Bob", "Lucy"},
		Difficulty: domain.DifficultyMedium,
		Ante:       1,
	}, human, ai,
		WithSeating([]string{"Bob", "Knight", "Lucy"}),
		WithRoller(allOnes),
	)
	if err != nil {
		t.Fatal(err)
	}
	res, err := m.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.EliminationOrder[0] != "Bob" {
		t.Fatalf("bluffer should be out, got %v", res.EliminationOrder)
	}
	if got := m.MatchMemory().Stats("Bob"); got != (domain.PersonaStats{BluffsCaught: 1, BluffsMade: 1}) {
		t.Fatalf("caught bluff credit = %+v", got)
	}
}

func TestMatchStarterFollowsCaller(t *testing.T) {
	human := &scriptedHuman{act: func(view HumanView) HumanAction {
		if view.Current == nil {
			return HumanAction{Kind: ActionRaise, Input: "2 1"}
		}
		return HumanAction{Kind: ActionCall}
	}}
	ai := DeciderFunc(func(view TurnView) domain.Decision {
		switch {
		case view.Current == nil:
			return domain.Open(domain.Bid{Quantity: 2, Face: 1})
		case view.Self == "a":
			return domain.Raise(domain.Bid{Quantity: view.Current.Quantity + 1, Face: 1})
		default:
			return domain.Call(view.Current.Bidder)
		}
	})

	var events eventLog
	m, err := NewMatch(Config{
		Human:      "h",
		Opponents:  []string{"a", "b", "c"},
		Difficulty: domain.DifficultyMedium,
		Ante:       1,
	}, human, ai,
		WithSeating([]string{"h", "a", "b", "c"}),
		WithPartners(NewPartners([][]string{{"h", "c"}, {"a", "b"}})),
		WithRoller(allOnes),
		WithSink(&events),
	)
	if err != nil {
		t.Fatal(err)
	}
	res, err := m.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	// Round 1: h opens, a raises, b calls a true bid and leaves.
	// Round 2 starts after the caller b, at c.
	rounds := events.ofKind(EventRoundStarted)
	if len(rounds) != 2 {
		t.Fatalf("rounds = %d, want 2", len(rounds))
	}
	if s := rounds[0].Payload.(RoundStartedPayload).Starter; s != "h" {
		t.Fatalf("round 1 starter = %s, want h", s)
	}
	if s := rounds[1].Payload.(RoundStartedPayload).Starter; s != "c" {
		t.Fatalf("round 2 starter = %s, want c", s)
	}
	if res.EliminationOrder[0] != "b" {
		t.Fatalf("elimination order = %v", res.EliminationOrder)
	}
}

func TestMatchResignFlushesMemory(t *testing.T) {
	human := &scriptedHuman{act: func(view HumanView) HumanAction {
		return HumanAction{Kind: ActionResign}
	}}
	ai := DeciderFunc(func(view TurnView) domain.Decision {
		return domain.Open(domain.Bid{Quantity: 3, Face: 1})
	})
	store := &recordingStore{}
	var events eventLog

	m, err := NewMatch(Config{
		Human:      "Knight",
		Opponents:  []string{"Bob", "Lucy", "Tom"},
		Difficulty: domain.DifficultyEasy,
		Ante:       10,
	}, human, ai,
		WithSeating([]string{"Bob", "Knight", "Lucy", "Tom"}),
		WithRoller(allOnes),
		WithStore(store),
		WithSink(&events),
	)
	if err != nil {
		t.Fatal(err)
	}
	res, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("resignation should not be an error: %v", err)
	}
	if !res.Resigned {
		t.Fatal("result not marked resigned")
	}
	if res.Payout.HumanDelta != 0 || len(res.Payout.Shares) != 0 {
		t.Fatalf("resignation must skip payout, got %+v", res.Payout)
	}
	if len(events.ofKind(EventHumanResigned)) != 1 || len(events.ofKind(EventMatchEnded)) != 0 {
		t.Fatal("expected a resignation and no match end")
	}
	saved := store.last()
	if saved == nil {
		t.Fatal("memory not flushed on resignation")
	}
	// Bob's standing bid is scored against the dice on the way out.
	if got := saved.Stats("Bob"); got.TruthsMade != 1 || got.TruthSuccess != 1 {
		t.Fatalf("Bob = %+v", got)
	}
}

func TestMatchQuitWhileWatching(t *testing.T) {
	human := callingHuman()
	watched := 0
	human.watch = func() bool {
		watched++
		return watched < 2
	}
	ai := DeciderFunc(func(view TurnView) domain.Decision {
		if view.Current == nil {
			return domain.Open(domain.Bid{Quantity: 2, Face: 1})
		}
		return domain.Raise(domain.Bid{Quantity: view.Current.Quantity + 1, Face: 1})
	})
	m, err := NewMatch(Config{
		Human:      "Knight",
		Opponents:  opponentNames(5),
		Difficulty: domain.DifficultyEasy,
		Ante:       1,
	}, human, ai,
		WithSeating(append([]string{"Opponent 1", "Knight"}, opponentNames(5)[1:]...)),
		WithRoller(allOnes),
	)
	if err != nil {
		t.Fatal(err)
	}
	res, err := m.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	// Knight calls a true "2 1" and is out in round 1, then quits.
	if !res.Resigned || res.EliminationOrder[0] != "Knight" {
		t.Fatalf("result = %+v", res)
	}
	if watched != 2 {
		t.Fatalf("watch prompts = %d, want 2", watched)
	}
}

func TestMatchCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := &recordingStore{}
	m, err := NewMatch(Config{
		Human:      "Knight",
		Opponents:  []string{"Bob", "Lucy"},
		Difficulty: domain.DifficultyEasy,
		Ante:       1,
	}, callingHuman(), DeciderFunc(opener), WithStore(store))
	if err != nil {
		t.Fatal(err)
	}
	res, err := m.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if res == nil || !res.Resigned {
		t.Fatal("cancelled match should report resigned")
	}
	if len(store.saves) != 1 {
		t.Fatalf("saves = %d, want 1", len(store.saves))
	}
}

func TestMatchInvariantViolation(t *testing.T) {
	tests := []struct {
		name string
		ai   DeciderFunc
	}{
		{"bid exceeds table", func(TurnView) domain.Decision {
			return domain.Open(domain.Bid{Quantity: 40, Face: 3})
		}},
		{"call without bid", func(TurnView) domain.Decision {
			return domain.Call("Knight")
		}},
		{"raise without bid", func(TurnView) domain.Decision {
			return domain.Raise(domain.Bid{Quantity: 2, Face: 3})
		}},
		{"zero decision", func(TurnView) domain.Decision {
			return domain.Decision{}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &recordingStore{}
			m, err := NewMatch(Config{
				Human:      "Knight",
				Opponents:  []string{"Bob", "Lucy"},
				Difficulty: domain.DifficultyHard,
				Ante:       1,
			}, callingHuman(), tt.ai,
				WithSeating([]string{"Bob", "Knight", "Lucy"}),
				WithStore(store),
			)
			if err != nil {
				t.Fatal(err)
			}
			_, err = m.Run(context.Background())
			if !errors.Is(err, ErrInvariant) {
				t.Fatalf("err = %v, want ErrInvariant", err)
			}
			if len(store.saves) != 0 {
				t.Fatal("aborted match must not save memory")
			}
		})
	}
}

func TestMatchAutosave(t *testing.T) {
	store := &recordingStore{}
	m, err := NewMatch(Config{
		Human:         "Knight",
		Opponents:     opponentNames(7),
		Difficulty:    domain.DifficultyMedium,
		Ante:          10,
		AutosaveTurns: 1,
	}, callingHuman(), DeciderFunc(opener),
		WithRand(rand.New(rand.NewSource(3))),
		WithStore(store),
	)
	if err != nil {
		t.Fatal(err)
	}
	res, err := m.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(store.saves) != res.Turns+1 {
		t.Fatalf("saves = %d, want one per turn plus the final save (%d)", len(store.saves), res.Turns+1)
	}
	// Snapshots never double count: the final save equals the last autosave
	// plus whatever the final round resolved.
	final := store.last()
	var made int64
	for _, s := range final {
		made += s.TruthsMade + s.BluffsMade
	}
	if made > int64(res.Turns) {
		t.Fatalf("saved %d bids for %d turns", made, res.Turns)
	}
}

// Eight seats, pairs, ante 10. The human's team bids true 1s, the others
// bluff on 6s and call everything, so every round removes an opponent.
func TestMatchTeamBonusScenario(t *testing.T) {
	team := map[string]bool{"Knight": true, "Lucy": true}
	teamMove := func(self string, current *domain.Bid) domain.Decision {
		switch {
		case current == nil:
			return domain.Open(domain.Bid{Quantity: 2, Face: 1})
		case team[current.Bidder]:
			return domain.Raise(domain.Bid{Quantity: current.Quantity + 1, Face: 1})
		default:
			return domain.Call(current.Bidder)
		}
	}
	ai := DeciderFunc(func(view TurnView) domain.Decision {
		if team[view.Self] {
			return teamMove(view.Self, view.Current)
		}
		if view.Current == nil {
			return domain.Open(domain.Bid{Quantity: 2, Face: 6})
		}
		return domain.Call(view.Current.Bidder)
	})
	human := &scriptedHuman{act: func(view HumanView) HumanAction {
		d := teamMove("Knight", view.Current)
		if d.Kind == domain.DecisionCall {
			return HumanAction{Kind: ActionCall}
		}
		return HumanAction{Kind: ActionRaise, Input: fmt.Sprintf("%d %d", d.Bid.Quantity, d.Bid.Face)}
	}}

	opponents := []string{"Lucy", "Jerry", "Bob", "Mark", "Tom", "Alice", "Sam"}
	m, err := NewMatch(Config{
		Human:      "Knight",
		Opponents:  opponents,
		Difficulty: domain.DifficultyMedium,
		Ante:       10,
	}, human, ai,
		WithRand(rand.New(rand.NewSource(42))),
		WithPartners(NewPartners([][]string{{"Knight", "Lucy"}, {"Jerry", "Bob"}, {"Mark", "Tom"}, {"Alice", "Sam"}})),
		WithRoller(allOnes),
	)
	if err != nil {
		t.Fatal(err)
	}
	res, err := m.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Pot != 80 {
		t.Fatalf("pot = %d, want 80", res.Pot)
	}
	if len(res.Survivors) != 2 || !team[res.Survivors[0]] || !team[res.Survivors[1]] {
		t.Fatalf("survivors = %v", res.Survivors)
	}
	if !res.Payout.TeamBonus || res.Payout.HumanDelta != 60 {
		t.Fatalf("payout = %+v, want team bonus of 60", res.Payout)
	}
	if len(res.Defeated) != 6 {
		t.Fatalf("defeated = %v", res.Defeated)
	}
}

func TestMatchHumanViewCarriesMemory(t *testing.T) {
	store := &recordingStore{base: domain.Memory{"Bob": {BluffsMade: 7, BluffsCaught: 3}}}
	var first *HumanView
	human := &scriptedHuman{act: func(view HumanView) HumanAction {
		if first == nil {
			v := view
			first = &v
		}
		if view.Current == nil {
			return HumanAction{Kind: ActionRaise, Input: "2 1"}
		}
		return HumanAction{Kind: ActionCall}
	}}
	m, err := NewMatch(Config{
		ID:         "m1",
		Human:      "Knight",
		Opponents:  []string{"Bob", "Lucy"},
		Difficulty: domain.DifficultyMedium,
		Ante:       1,
	}, human, DeciderFunc(opener),
		WithSeating([]string{"Knight", "Bob", "Lucy"}),
		WithRoller(allOnes),
		WithStore(store),
	)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if first == nil {
		t.Fatal("human never acted")
	}
	if first.MaxWinners != MaxWinners(3) {
		t.Fatalf("MaxWinners = %d, want %d", first.MaxWinners, MaxWinners(3))
	}
	if got := first.GlobalMemory["Bob"].BluffsMade; got != 7 {
		t.Fatalf("global bluffs for Bob = %d, want 7", got)
	}
	if first.MatchMemory == nil {
		t.Fatal("match memory missing from the human view")
	}
}
