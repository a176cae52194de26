package service

import (
	"context"
	"errors"
	"fmt"
	mrand "math/rand"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"liars_dice/internal/bot"
	"liars_dice/internal/domain"
	"liars_dice/internal/game"
	"liars_dice/internal/logger"
	"liars_dice/internal/repository"
)

var (
	ErrTooFewPlayers = errors.New("a match needs at least 2 players")
	ErrInvalidAnte   = errors.New("invalid ante")
)

// Limits bounds the ante a player may put in.
type Limits struct {
	MinAnte int64
	MaxAnte int64
}

// MatchRequest configures one match for a player.
type MatchRequest struct {
	Player     string
	Players    int // total seats, the player included
	Ante       int64
	Difficulty domain.Difficulty
	Names      []string // optional opponent names, padded with "Opponent N"
	Mode       domain.MatchMode
}

// MatchOutcome is what the player walks away with.
type MatchOutcome struct {
	MatchID  string       `json:"match_id"`
	Result   *game.Result `json:"result"`
	Ante     int64        `json:"ante"`
	Payout   int64        `json:"payout"`
	Delta    int64        `json:"delta"`
	Balance  int64        `json:"balance"`
	Resigned bool         `json:"resigned"`
	Defeated []string     `json:"defeated"`
}

// HistoryRecorder stores finished matches.
type HistoryRecorder interface {
	Create(ctx context.Context, rec *domain.MatchRecord) error
}

// BrainFactory builds the decider for AI seats.
type BrainFactory func(rng *mrand.Rand) game.Decider

type MatchOption func(*MatchService)

func WithHistory(h HistoryRecorder) MatchOption {
	return func(s *MatchService) { s.history = h }
}

func WithLimits(l Limits) MatchOption {
	return func(s *MatchService) { s.limits = l }
}

func WithAutosaveTurns(n int) MatchOption {
	return func(s *MatchService) { s.autosave = n }
}

func WithBrainFactory(f BrainFactory) MatchOption {
	return func(s *MatchService) { s.brains = f }
}

// WithRandSource makes every match draw from rngs produced by f.
func WithRandSource(f func() *mrand.Rand) MatchOption {
	return func(s *MatchService) { s.newRand = f }
}

// WithMatchOptions passes extra options to every game.Match.
func WithMatchOptions(opts ...game.Option) MatchOption {
	return func(s *MatchService) { s.matchOpts = append(s.matchOpts, opts...) }
}

// MatchService runs matches: it takes the ante, plays the table, pays out
// and records what happened.
type MatchService struct {
	wallet    Wallet
	personas  repository.PersonaStore
	defeated  repository.DefeatedStore
	history   HistoryRecorder
	limits    Limits
	autosave  int
	brains    BrainFactory
	newRand   func() *mrand.Rand
	matchOpts []game.Option
}

func NewMatchService(wallet Wallet, personas repository.PersonaStore, defeated repository.DefeatedStore, opts ...MatchOption) *MatchService {
	s := &MatchService{
		wallet:   wallet,
		personas: personas,
		defeated: defeated,
		limits:   Limits{MinAnte: 1, MaxAnte: 1_000_000},
		autosave: game.DefaultAutosaveTurns,
		brains:   func(rng *mrand.Rand) game.Decider { return bot.NewBrain(rng) },
		newRand:  game.NewRand,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MatchService) Limits() Limits { return s.limits }

// Validate checks a request without touching any state.
func (s *MatchService) Validate(ctx context.Context, req MatchRequest) error {
	if !req.Difficulty.Valid() {
		return domain.ErrUnknownDifficulty
	}
	if req.Players < 2 {
		return ErrTooFewPlayers
	}
	if strings.TrimSpace(req.Player) == "" {
		return ErrPlayerNotFound
	}
	if req.Ante <= 0 || req.Ante < s.limits.MinAnte || (s.limits.MaxAnte > 0 && req.Ante > s.limits.MaxAnte) {
		return ErrInvalidAnte
	}
	balance, err := s.wallet.GetBalance(ctx, req.Player)
	if err != nil {
		return err
	}
	if balance < req.Ante {
		return ErrInsufficientBalance
	}
	return nil
}

// Play runs a full match with human in the player's seat. Events go to sink
// (nil discards them). A resignation returns an outcome with Resigned set
// and no error.
func (s *MatchService) Play(ctx context.Context, req MatchRequest, human game.Human, sink game.EventSink) (*MatchOutcome, error) {
	if err := s.Validate(ctx, req); err != nil {
		return nil, err
	}
	if req.Mode == "" {
		req.Mode = domain.MatchModeConsole
	}

	matchID := uuid.New().String()
	log := logger.With("match_id", matchID, "player", req.Player)
	rng := s.newRand()

	opponents := PadOpponents(req.Player, req.Names, req.Players-1)
	opts := []game.Option{game.WithRand(rng), game.WithStore(s.personas)}
	if sink != nil {
		opts = append(opts, game.WithSink(sink))
	}
	opts = append(opts, s.matchOpts...)

	m, err := game.NewMatch(game.Config{
		ID:            matchID,
		Human:         req.Player,
		Opponents:     opponents,
		Difficulty:    req.Difficulty,
		Ante:          req.Ante,
		AutosaveTurns: s.autosave,
	}, human, s.brains(rng), opts...)
	if err != nil {
		return nil, fmt.Errorf("set up match: %w", err)
	}

	meta := map[string]interface{}{"match_id": matchID, "difficulty": string(req.Difficulty)}
	balance, err := s.wallet.Debit(ctx, req.Player, req.Ante, domain.LedgerAnte, meta)
	if err != nil {
		return nil, err
	}

	res, runErr := m.Run(ctx)
	if runErr != nil && (res == nil || errors.Is(runErr, game.ErrInvariant)) {
		log.Error("match failed", "error", runErr)
		if _, err := s.wallet.Credit(context.WithoutCancel(ctx), req.Player, req.Ante, domain.LedgerRefund, meta); err != nil {
			log.Error("failed to refund ante", "error", err)
		}
		return nil, fmt.Errorf("match %s: %w", matchID, runErr)
	}

	out := &MatchOutcome{
		MatchID:  matchID,
		Result:   res,
		Ante:     req.Ante,
		Balance:  balance,
		Resigned: res.Resigned,
		Defeated: []string{},
	}

	// Past this point the match happened; bookkeeping must not be cut short.
	bg := context.WithoutCancel(ctx)
	if !res.Resigned && res.Payout.HumanDelta > 0 {
		out.Payout = res.Payout.HumanDelta
		if out.Balance, err = s.wallet.Credit(bg, req.Player, out.Payout, domain.LedgerPayout, meta); err != nil {
			log.Error("failed to credit payout", "amount", out.Payout, "error", err)
			return out, fmt.Errorf("credit payout: %w", err)
		}
	}
	out.Delta = out.Payout - req.Ante

	if len(res.Defeated) > 0 {
		out.Defeated = res.Defeated
		if err := s.defeated.Append(bg, req.Difficulty, res.Defeated); err != nil {
			log.Warn("failed to record defeated opponents", "error", err)
		}
	}

	s.record(bg, req, out)
	s.observe(req, out)
	log.Info("match settled", "result", string(resultOf(res)), "payout", out.Payout, "balance", out.Balance)
	return out, runErr
}

// Simulate plays a match with the player's seat on autopilot.
func (s *MatchService) Simulate(ctx context.Context, req MatchRequest) (*MatchOutcome, error) {
	req.Mode = domain.MatchModeSimulate
	pilot := bot.NewAutopilot(s.brains(s.newRand()), req.Difficulty)
	return s.Play(ctx, req, pilot, nil)
}

func (s *MatchService) record(ctx context.Context, req MatchRequest, out *MatchOutcome) {
	if s.history == nil {
		return
	}
	res := out.Result
	rec := &domain.MatchRecord{
		MatchID:          out.MatchID,
		Player:           req.Player,
		Mode:             req.Mode,
		Difficulty:       req.Difficulty,
		Result:           resultOf(res),
		Players:          len(res.Players),
		Ante:             out.Ante,
		Pot:              res.Pot,
		Payout:           out.Payout,
		Rounds:           res.Rounds,
		EliminationOrder: res.EliminationOrder,
		Survivors:        res.Survivors,
		Details: map[string]interface{}{
			"teams":      res.Teams,
			"team_bonus": res.Payout.TeamBonus,
			"leak":       res.Payout.Leak,
			"calls":      res.Calls,
			"turns":      res.Turns,
		},
	}
	if err := s.history.Create(ctx, rec); err != nil {
		logger.Warn("failed to record match history", "match_id", out.MatchID, "error", err)
	}
}

func (s *MatchService) observe(req MatchRequest, out *MatchOutcome) {
	d := string(req.Difficulty)
	MatchesTotal.WithLabelValues(d, string(resultOf(out.Result))).Inc()
	RoundsTotal.WithLabelValues(d).Add(float64(out.Result.Rounds))
	CallsTotal.WithLabelValues(d).Add(float64(out.Result.Calls))
	if out.Payout > 0 {
		PayoutGoldTotal.WithLabelValues(d).Add(float64(out.Payout))
	}
}

func resultOf(res *game.Result) domain.MatchResult {
	switch {
	case res.Resigned:
		return domain.MatchResultResigned
	case res.HumanSurvived():
		return domain.MatchResultWin
	default:
		return domain.MatchResultLose
	}
}

// PadOpponents returns exactly n opponent names: the given names in order
// (blank, duplicate and player-named entries skipped), then "Opponent N"
// fillers that do not clash with names already taken.
func PadOpponents(player string, names []string, n int) []string {
	taken := map[string]bool{player: true}
	out := make([]string, 0, n)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if len(out) == n {
			break
		}
		if name == "" || taken[name] {
			continue
		}
		taken[name] = true
		out = append(out, name)
	}
	for i := len(out) + 1; len(out) < n; i++ {
		name := "Opponent " + strconv.Itoa(i)
		if taken[name] {
			continue
		}
		taken[name] = true
		out = append(out, name)
	}
	return out
}
