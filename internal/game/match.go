package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"liars_dice/internal/domain"
	"liars_dice/internal/logger"
)

// DefaultAutosaveTurns is how often memory is flushed during a match.
const DefaultAutosaveTurns = 25

// Config describes one match. Opponents must already be padded to the
// desired table size; Human must not appear among them.
type Config struct {
	ID            string
	Human         string
	Opponents     []string
	Difficulty    domain.Difficulty
	Ante          int64
	AutosaveTurns int
}

type Option func(*Match)

// WithRand sets the randomness used for seating and partners.
func WithRand(rng *rand.Rand) Option {
	return func(m *Match) { m.rng = rng }
}

func WithRoller(r Roller) Option {
	return func(m *Match) { m.roller = r }
}

func WithSink(s EventSink) Option {
	return func(m *Match) { m.sink = s }
}

func WithStore(s MemoryStore) Option {
	return func(m *Match) { m.store = s }
}

// WithSeating fixes the seat order instead of shuffling it.
func WithSeating(seats []string) Option {
	return func(m *Match) { m.seating = append([]string(nil), seats...) }
}

// WithPartners fixes the teams instead of drawing them.
func WithPartners(p Partners) Option {
	return func(m *Match) { m.partners = &p }
}

// Match is the round state machine of a single Liar's Dice match.
// A Match is not safe for concurrent use and can be run once.
type Match struct {
	cfg   Config
	human Human
	ai    Decider

	rng      *rand.Rand
	roller   Roller
	sink     EventSink
	store    MemoryStore
	seating  []string
	partners *Partners

	order      *TurnOrder
	maxWinners int
	pot        int64
	hands      map[string]domain.Hand
	phase      Phase

	current    *domain.Bid
	roundBids  []domain.Bid
	lastCaller string
	eliminated []string

	global     domain.Memory
	matchStats domain.Memory

	round int
	turns int
	calls int
	ran   bool
}

func NewMatch(cfg Config, human Human, ai Decider, opts ...Option) (*Match, error) {
	if cfg.Human == "" || human == nil {
		return nil, errors.New("match needs a human participant")
	}
	if ai == nil {
		return nil, errors.New("match needs a decider for AI participants")
	}
	if len(cfg.Opponents) < 1 {
		return nil, errors.New("match needs at least one opponent")
	}
	if !cfg.Difficulty.Valid() {
		return nil, domain.ErrUnknownDifficulty
	}
	seen := map[string]bool{cfg.Human: true}
	for _, n := range cfg.Opponents {
		if n == "" || seen[n] {
			return nil, fmt.Errorf("duplicate or empty participant name %q", n)
		}
		seen[n] = true
	}
	if cfg.AutosaveTurns == 0 {
		cfg.AutosaveTurns = DefaultAutosaveTurns
	}

	m := &Match{
		cfg:   cfg,
		human: human,
		ai:    ai,
		sink:  discardSink{},
		phase: PhaseRoundStart,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		m.rng = NewRand()
	}
	if m.roller == nil {
		m.roller = NewRandRoller(m.rng)
	}

	names := m.Players()
	if m.seating == nil {
		m.seating = append([]string(nil), names...)
		m.rng.Shuffle(len(m.seating), func(i, j int) { m.seating[i], m.seating[j] = m.seating[j], m.seating[i] })
	} else if len(m.seating) != len(names) {
		return nil, fmt.Errorf("seating has %d seats for %d players", len(m.seating), len(names))
	}
	if m.partners == nil {
		p := AssignPartners(m.rng, names)
		m.partners = &p
	}

	m.order = NewTurnOrder(m.seating)
	m.maxWinners = MaxWinners(len(names))
	m.pot = cfg.Ante * int64(len(names))
	m.hands = make(map[string]domain.Hand, len(names))
	m.matchStats = domain.NewMemory(names...)
	return m, nil
}

// Players returns the human followed by the opponents.
func (m *Match) Players() []string {
	return append([]string{m.cfg.Human}, m.cfg.Opponents...)
}

func (m *Match) Partners() Partners { return *m.partners }

func (m *Match) MaxWinners() int { return m.maxWinners }

func (m *Match) Pot() int64 { return m.pot }

func (m *Match) Phase() Phase { return m.phase }

// MatchMemory returns a copy of the counters accrued in this match so far.
func (m *Match) MatchMemory() domain.Memory { return m.matchStats.Clone() }

// Run plays the match to the end. A resignation is not an error: the result
// has Resigned set. A cancelled ctx behaves like a resignation and also
// returns ctx's error. Errors wrapping ErrInvariant abort without saving.
func (m *Match) Run(ctx context.Context) (*Result, error) {
	if m.ran {
		return nil, errors.New("match already played")
	}
	m.ran = true

	log := logger.With("match_id", m.cfg.ID, "difficulty", string(m.cfg.Difficulty))
	if m.store != nil {
		m.global = m.store.Load(ctx, m.Players())
	} else {
		m.global = domain.NewMemory(m.Players()...)
	}

	m.publish(EventMatchStarted, MatchStartedPayload{
		Players:    m.order.Seats(),
		Human:      m.cfg.Human,
		Ante:       m.cfg.Ante,
		Pot:        m.pot,
		MaxWinners: m.maxWinners,
		Difficulty: m.cfg.Difficulty,
	})
	log.Info("match started", "players", len(m.seating), "pot", m.pot, "max_winners", m.maxWinners)

	for m.order.ActiveCount() > m.maxWinners {
		err := m.playRound(ctx)
		if err == nil {
			continue
		}
		if errors.Is(err, ErrInvariant) {
			log.Error("match aborted", "round", m.round, "error", err)
			return nil, err
		}
		// Resignation or cancellation: keep what was learned, skip payout.
		m.creditRound(true)
		m.save(ctx, log)
		m.publish(EventHumanResigned, HumanResignedPayload{Watching: !m.order.IsActive(m.cfg.Human)})
		log.Info("match abandoned", "round", m.round, "reason", err)
		res := m.result()
		res.Resigned = true
		if errors.Is(err, ErrResigned) {
			return res, nil
		}
		return res, err
	}

	m.phase = PhaseMatchEnd
	res := m.result()
	res.Payout = CalculatePayout(res.Survivors, m.pot, m.cfg.Human, *m.partners)
	if res.HumanSurvived() {
		res.Defeated = append([]string(nil), m.eliminated...)
	}
	m.save(ctx, log)
	m.publish(EventMatchEnded, MatchEndedPayload{
		Survivors:        res.Survivors,
		EliminationOrder: res.EliminationOrder,
		Teams:            res.Teams,
		Payout:           res.Payout,
	})
	log.Info("match finished", "rounds", m.round, "survivors", res.Survivors, "human_delta", res.Payout.HumanDelta)
	return res, nil
}

func (m *Match) result() *Result {
	return &Result{
		MatchID:          m.cfg.ID,
		Human:            m.cfg.Human,
		Players:          m.order.Seats(),
		Survivors:        m.order.Active(),
		EliminationOrder: append([]string(nil), m.eliminated...),
		Teams:            m.partners.Teams(),
		Pot:              m.pot,
		Ante:             m.cfg.Ante,
		Rounds:           m.round,
		Turns:            m.turns,
		Calls:            m.calls,
		Difficulty:       m.cfg.Difficulty,
	}
}

// starter is the first active seat after the last caller, or the first
// active seat of the table in the opening round.
func (m *Match) starter() (string, error) {
	var (
		name string
		ok   bool
	)
	if m.lastCaller == "" {
		name, ok = m.order.FirstActiveFrom(0)
	} else {
		name, ok = m.order.NextActive(m.lastCaller)
	}
	if !ok {
		return "", fmt.Errorf("%w: no active participant to start round %d", ErrInvariant, m.round)
	}
	return name, nil
}

func (m *Match) playRound(ctx context.Context) error {
	m.round++
	m.phase = PhaseRoundStart
	m.current = nil
	m.roundBids = m.roundBids[:0]

	starter, err := m.starter()
	if err != nil {
		return err
	}
	for k := range m.hands {
		delete(m.hands, k)
	}
	for _, name := range m.order.Active() {
		m.hands[name] = m.roller.Roll(domain.DicePerHand)
	}

	m.publish(EventRoundStarted, RoundStartedPayload{
		Starter:     starter,
		Rotation:    m.order.Rotation(starter),
		PlayersLeft: m.order.ActiveCount(),
		TotalDice:   m.totalDice(),
	})
	if m.order.IsActive(m.cfg.Human) {
		_, partnerDice := m.visiblePartners(m.cfg.Human)
		m.publish(EventDiceRolled, DiceRolledPayload{
			Player:      m.cfg.Human,
			Dice:        m.hands[m.cfg.Human],
			PartnerDice: partnerDice,
		})
	}

	m.phase = PhaseBidding
	player := starter
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		called, err := m.takeTurn(ctx, player)
		if err != nil {
			return err
		}
		m.turns++
		if m.cfg.AutosaveTurns > 0 && m.turns%m.cfg.AutosaveTurns == 0 {
			m.save(ctx, logger.With("match_id", m.cfg.ID))
		}
		if called {
			return m.resolve(player)
		}
		next, ok := m.order.NextActive(player)
		if !ok {
			return fmt.Errorf("%w: turn order empty in round %d", ErrInvariant, m.round)
		}
		player = next
	}
}

// takeTurn runs one participant's turn and reports whether it called.
func (m *Match) takeTurn(ctx context.Context, player string) (bool, error) {
	rotation := m.order.Rotation(player)
	m.publish(EventTurnStarted, TurnStartedPayload{Player: player, Rotation: rotation, Current: m.currentCopy()})

	if player == m.cfg.Human {
		return m.humanTurn(ctx, rotation)
	}
	if !m.order.IsActive(m.cfg.Human) && !m.human.KeepWatching(ctx) {
		return false, ErrResigned
	}
	return m.aiTurn(player)
}

func (m *Match) humanTurn(ctx context.Context, rotation []string) (bool, error) {
	partners, partnerDice := m.visiblePartners(m.cfg.Human)
	view := HumanView{
		Self:         m.cfg.Human,
		Dice:         m.hands[m.cfg.Human],
		Partners:     partners,
		PartnerDice:  partnerDice,
		PlayersLeft:  m.order.ActiveCount(),
		TotalDice:    m.totalDice(),
		Rotation:     rotation,
		MaxWinners:   m.maxWinners,
		MatchMemory:  m.matchStats,
		GlobalMemory: m.global,
	}
	for {
		view.Current = m.currentCopy()
		action, err := m.human.Act(ctx, view)
		if err != nil {
			return false, err
		}

		switch action.Kind {
		case ActionResign:
			return false, ErrResigned
		case ActionCall:
			if m.current == nil {
				view.Retry = m.reject(action.Input, ErrNoBidToCall)
				continue
			}
			return true, nil
		case ActionRaise:
			bid, err := ParseBid(action.Input)
			if err == nil {
				err = ValidateBid(m.current, bid, m.totalDice())
			}
			if err != nil {
				view.Retry = m.reject(action.Input, err)
				continue
			}
			bid.Bidder = m.cfg.Human
			m.placeBid(bid)
			return false, nil
		default:
			view.Retry = m.reject(action.Input, ErrBadFormat)
		}
	}
}

func (m *Match) reject(input string, err error) string {
	reason := RejectReason(err)
	m.publish(EventBidRejected, BidRejectedPayload{Player: m.cfg.Human, Input: input, Reason: reason})
	return reason
}

func (m *Match) aiTurn(player string) (bool, error) {
	partners, partnerDice := m.visiblePartners(player)
	d := m.ai.Decide(TurnView{
		Self:         player,
		Dice:         m.hands[player],
		Partners:     partners,
		PartnerDice:  partnerDice,
		Current:      m.currentCopy(),
		TotalDice:    m.totalDice(),
		PlayersLeft:  m.order.ActiveCount(),
		MaxWinners:   m.maxWinners,
		MatchMemory:  m.matchStats,
		GlobalMemory: m.global,
		Difficulty:   m.cfg.Difficulty,
	})

	switch d.Kind {
	case domain.DecisionCall:
		if m.current == nil || d.Target != m.current.Bidder {
			return false, fmt.Errorf("%w: %s called %q with current bid %v", ErrInvariant, player, d.Target, m.current)
		}
		return true, nil
	case domain.DecisionOpen, domain.DecisionRaise:
		if (d.Kind == domain.DecisionOpen) != (m.current == nil) {
			return false, fmt.Errorf("%w: %s chose %s with current bid %v", ErrInvariant, player, d.Kind, m.current)
		}
		bid := d.Bid
		if err := ValidateBid(m.current, bid, m.totalDice()); err != nil {
			return false, fmt.Errorf("%w: %s bid %s: %v", ErrInvariant, player, bid, err)
		}
		bid.Bidder = player
		m.placeBid(bid)
		return false, nil
	default:
		return false, fmt.Errorf("%w: %s returned decision kind %d", ErrInvariant, player, d.Kind)
	}
}

func (m *Match) placeBid(bid domain.Bid) {
	opening := m.current == nil
	m.current = &bid
	m.roundBids = append(m.roundBids, bid)
	m.publish(EventBidPlaced, BidPlacedPayload{Bid: bid, Opening: opening})
}

// resolve settles a call on the current bid: exactly one participant leaves.
func (m *Match) resolve(caller string) error {
	m.phase = PhaseResolution
	m.calls++
	bid := *m.current

	m.publish(EventBluffCalled, BluffCalledPayload{Caller: caller, Bid: bid})
	actual := m.countFace(bid.Face)
	m.publish(EventDiceRevealed, DiceRevealedPayload{Hands: m.handsCopy(), Bid: bid, Actual: actual})

	var loser string
	bluffing := !bid.TrueAgainst(actual)
	if bluffing {
		loser = bid.Bidder
		m.matchStats.Update(bid.Bidder, func(s *domain.PersonaStats) {
			s.BluffsCaught++
			s.BluffsMade++
		})
	} else {
		loser = caller
		m.matchStats.Update(bid.Bidder, func(s *domain.PersonaStats) {
			s.DefendedSuccess++
			s.TruthsMade++
			s.TruthSuccess++
		})
	}
	m.creditRound(false)

	before := m.order.ActiveCount()
	if !m.order.Eliminate(loser) || m.order.ActiveCount() != before-1 {
		return fmt.Errorf("%w: round %d did not eliminate exactly one participant", ErrInvariant, m.round)
	}

	m.phase = PhaseRoundEnd
	m.eliminated = append(m.eliminated, loser)
	m.lastCaller = caller
	m.publish(EventPlayerEliminated, PlayerEliminatedPayload{
		Player:      loser,
		Bluffing:    bluffing,
		PlayersLeft: m.order.ActiveCount(),
	})
	logger.Debug("round resolved", "match_id", m.cfg.ID, "round", m.round, "bid", bid.String(),
		"actual", actual, "caller", caller, "eliminated", loser)
	return nil
}

// creditRound scores in hindsight the bids of this round that were never
// called. Superseded bids always qualify; the standing bid only when the
// round ends without a call.
func (m *Match) creditRound(includeCurrent bool) {
	bids := m.roundBids
	if !includeCurrent && len(bids) > 0 {
		bids = bids[:len(bids)-1]
	}
	for _, b := range bids {
		truth := b.TrueAgainst(m.countFace(b.Face))
		m.matchStats.Update(b.Bidder, func(s *domain.PersonaStats) {
			if truth {
				s.TruthsMade++
				s.TruthSuccess++
			} else {
				s.BluffsMade++
				s.BluffSuccess++
			}
		})
	}
	m.roundBids = m.roundBids[:0]
}

// save persists global+match without touching either, so repeated saves
// in one match never double count.
func (m *Match) save(ctx context.Context, log *slog.Logger) {
	if m.store == nil {
		return
	}
	if err := m.store.Save(context.WithoutCancel(ctx), domain.Merge(m.global, m.matchStats)); err != nil {
		log.Warn("failed to save persona memory", "error", err)
	}
}

func (m *Match) visiblePartners(name string) ([]string, map[string]domain.Hand) {
	var names []string
	dice := make(map[string]domain.Hand)
	for _, p := range m.partners.Of(name) {
		if m.order.IsActive(p) {
			names = append(names, p)
			dice[p] = m.hands[p]
		}
	}
	return names, dice
}

func (m *Match) totalDice() int {
	return domain.DicePerHand * m.order.ActiveCount()
}

func (m *Match) countFace(face int) int {
	active := m.order.Active()
	hands := make([]domain.Hand, 0, len(active))
	for _, name := range active {
		hands = append(hands, m.hands[name])
	}
	return domain.CountFace(face, hands...)
}

func (m *Match) handsCopy() map[string]domain.Hand {
	out := make(map[string]domain.Hand, len(m.hands))
	for _, name := range m.order.Active() {
		out[name] = append(domain.Hand(nil), m.hands[name]...)
	}
	return out
}

func (m *Match) currentCopy() *domain.Bid {
	if m.current == nil {
		return nil
	}
	b := *m.current
	return &b
}

func (m *Match) publish(kind EventKind, payload any) {
	m.sink.Publish(Event{Kind: kind, MatchID: m.cfg.ID, Round: m.round, Payload: payload})
}
