package console

import (
	"fmt"
	"io"
	"math/rand"
	"sort"
	"strings"
	"time"

	"liars_dice/internal/domain"
	"liars_dice/internal/game"
)

const (
	green = "\033[32m"
	reset = "\033[0m"

	minPause = 350 * time.Millisecond
	maxPause = 750 * time.Millisecond
)

// Renderer prints table events for a human reader. It implements
// game.EventSink.
type Renderer struct {
	out   io.Writer
	rng   *rand.Rand
	color bool
	// scale multiplies the NPC pause; 0 disables pacing.
	scale float64
	sleep func(time.Duration)

	human      string
	seats      []string
	roundTotal int
}

type RendererOption func(*Renderer)

func WithColor(on bool) RendererOption {
	return func(r *Renderer) { r.color = on }
}

// WithPacing scales the 0.35-0.75s pause before NPC lines; delayMS is the
// TURN_DELAY_MS setting, 1000 meaning unscaled.
func WithPacing(delayMS int) RendererOption {
	return func(r *Renderer) { r.scale = float64(delayMS) / 1000 }
}

func WithSleep(f func(time.Duration)) RendererOption {
	return func(r *Renderer) { r.sleep = f }
}

func NewRenderer(out io.Writer, rng *rand.Rand, opts ...RendererOption) *Renderer {
	r := &Renderer{out: out, rng: rng, scale: 1, sleep: time.Sleep}
	if r.rng == nil {
		r.rng = game.NewRand()
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Renderer) Publish(e game.Event) {
	switch p := e.Payload.(type) {
	case game.MatchStartedPayload:
		r.human = p.Human
		r.seats = p.Players
		r.printf("\nYou sit at a crowded tavern table with %d players.\n", len(p.Players))
		r.printf("Total pot is %d gold coins, each player adds %d to the pot. Top %d split the pot.\n", p.Pot, p.Ante, p.MaxWinners)
		r.printf("Difficulty: %s\n", p.Difficulty)
	case game.RoundStartedPayload:
		r.roundTotal = p.TotalDice
		r.printf("\n===== Round %d =====\n", e.Round)
		r.printf("%s\n", turnOrderLine(p.Rotation, p.Starter, r.color))
		r.printf("Players Left: %d | Total Dice: %d\n", p.PlayersLeft, p.TotalDice)
	case game.DiceRolledPayload:
		partners := make([]string, 0, len(p.PartnerDice))
		for name := range p.PartnerDice {
			partners = append(partners, name)
		}
		sort.Strings(partners)
		r.printf("Your Dice: %v | %s\n", []int(p.Dice), partnerLine(partners, p.PartnerDice))
	case game.TurnStartedPayload:
		if p.Current == nil {
			r.printf("\n%s starts the round.\n", p.Player)
		}
	case game.BidPlacedPayload:
		r.bidPlaced(p)
	case game.BidRejectedPayload:
		r.printf("%s\n", r.rejection(p.Reason))
	case game.BluffCalledPayload:
		if p.Caller == r.human {
			r.printf("\nYou call %s's bid of %s!\n", p.Bid.Bidder, p.Bid)
		} else {
			r.pause()
			r.printf("\n%s\n", pickLine(r.rng, callTalk, talkVars{Name: p.Caller}))
		}
	case game.DiceRevealedPayload:
		r.printf("\n--- ALL DICE REVEALED ---\n")
		for _, name := range r.order(p.Hands) {
			r.printf("%s: %v\n", name, []int(p.Hands[name]))
		}
		r.printf("--------------------------\n")
		r.printf("The bid was %s, there are %d %d's.\n", p.Bid, p.Actual, p.Bid.Face)
	case game.PlayerEliminatedPayload:
		if p.Bluffing {
			r.printf("%s was bluffing and is OUT!\n", p.Player)
		} else {
			r.printf("%s loses the bluff and is OUT!\n", p.Player)
		}
	case game.HumanResignedPayload:
		r.printf("\nYou leave the table early, no final payouts are calculated.\n")
	case game.MatchEndedPayload:
		r.matchEnded(p)
	}
}

func (r *Renderer) bidPlaced(p game.BidPlacedPayload) {
	b := p.Bid
	if b.Bidder == r.human {
		r.printf("%s bids %d dice of %d's.\n", b.Bidder, b.Quantity, b.Face)
		return
	}
	r.pause()
	vars := talkVars{Name: b.Bidder, Qty: b.Quantity, Face: b.Face, Target: r.human}
	if p.Opening {
		r.printf("\n%s\n", pickLine(r.rng, openingTalk, vars))
		r.printf("%s opens with %s.\n", b.Bidder, b)
		return
	}
	r.printf("\n%s\n", pickLine(r.rng, raiseTalk, vars))
}

func (r *Renderer) matchEnded(p game.MatchEndedPayload) {
	r.printf("\nFinal %d survivors split the pot!\n\n", len(p.Survivors))
	for _, s := range p.Payout.Shares {
		if s.Player == r.human {
			if p.Payout.TeamBonus {
				r.printf("%s survives with a partner, team bonus! %s gets %d gold (%d%%).\n", s.Player, s.Player, s.Gold, s.Percent)
			} else {
				r.printf("%s gets %d gold.\n", s.Player, s.Gold)
			}
			continue
		}
		r.printf("%s takes %d gold.\n", s.Player, s.Gold)
	}

	r.printf("\nPartners this match:\n")
	for _, team := range p.Teams {
		r.printf("%s\n", strings.Join(team, " <-> "))
	}

	r.printf("\nGame Over.\n\n")
	r.printf("Elimination order, first out -> last out:\n")
	if len(p.EliminationOrder) == 0 {
		r.printf("No eliminations recorded.\n")
	} else {
		r.printf("%s\n", strings.Join(p.EliminationOrder, ", "))
	}
}

func (r *Renderer) rejection(reason string) string {
	switch reason {
	case game.ErrBadFormat.Error():
		return "Invalid format, example: 3 4"
	case game.ErrFaceRange.Error():
		return fmt.Sprintf("Face must be %d-%d.", domain.MinFace, domain.MaxFace)
	case game.ErrOpeningTooLow.Error():
		return fmt.Sprintf("Minimum opening bid is %d of a kind.", game.MinOpeningQuantity)
	case game.ErrNotHigher.Error():
		return "Bid must be higher than current."
	case game.ErrExceedsTable.Error():
		return fmt.Sprintf("Quantity too high, max is %d.", r.roundTotal)
	case game.ErrNoBidToCall.Error():
		return "No bid to call bluff on."
	default:
		return "Invalid bid."
	}
}

// order lists the revealed hands in seating order.
func (r *Renderer) order(hands map[string]domain.Hand) []string {
	out := make([]string, 0, len(hands))
	for _, name := range r.seats {
		if _, ok := hands[name]; ok {
			out = append(out, name)
		}
	}
	if len(out) == len(hands) {
		return out
	}
	out = out[:0]
	for name := range hands {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (r *Renderer) pause() {
	if r.scale <= 0 {
		return
	}
	d := minPause + time.Duration(r.rng.Int63n(int64(maxPause-minPause)+1))
	r.sleep(time.Duration(float64(d) * r.scale))
}

func (r *Renderer) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

// turnOrderLine joins the rotation, highlighting current.
func turnOrderLine(rotation []string, current string, color bool) string {
	parts := make([]string, len(rotation))
	for i, name := range rotation {
		switch {
		case name != current:
			parts[i] = name
		case color:
			parts[i] = green + name + reset
		default:
			parts[i] = "*" + name + "*"
		}
	}
	return strings.Join(parts, " -> ")
}

func partnerLine(partners []string, dice map[string]domain.Hand) string {
	if len(partners) == 0 {
		return "Partner -: []"
	}
	parts := make([]string, len(partners))
	for i, name := range partners {
		parts[i] = fmt.Sprintf("%s: %v", name, []int(dice[name]))
	}
	label := "Partner"
	if len(partners) > 1 {
		label = "Partners"
	}
	return label + " " + strings.Join(parts, ", ")
}
