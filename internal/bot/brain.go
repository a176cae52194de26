package bot

import (
	"math"
	"math/rand"

	"liars_dice/internal/domain"
	"liars_dice/internal/game"
)

// Call chance shape, shared by every tier.
const (
	baseCallChance    = 0.08
	marginWeight      = 0.10
	quarterPenalty    = 0.15
	absoluteThreshold = 8
	absolutePenalty   = 0.12
	absoluteStep      = 0.03
	largeTable        = 40
	largeTableDampen  = 0.5
	partnerProtection = 0.6
	recklessPenalty   = 0.25
	plausibleAbove    = 0.4
	minCallChance     = 0.02
	maxCallChance     = 0.95

	trueModeChance   = 0.7
	openingDivisor   = 16
	conservativeMin  = 9
	maxIncrement     = 2
	baseFaceKeep     = 0.65
	faceKeepPerConf  = 0.2
	lowBidQuantity   = 3
	noIncreaseChance = 0.1
)

// Brain is the AI decision engine. It is stateless apart from its random
// source, so one Brain can drive every AI seat of a match.
type Brain struct {
	rng *rand.Rand
}

func NewBrain(rng *rand.Rand) *Brain {
	if rng == nil {
		rng = game.NewRand()
	}
	return &Brain{rng: rng}
}

// Decide implements game.Decider.
func (b *Brain) Decide(v game.TurnView) domain.Decision {
	t := TuningFor(v.Difficulty)
	self := domain.Blend(v.MatchMemory, v.GlobalMemory, v.Self, GlobalWeight)
	if v.Current == nil {
		return domain.Open(b.openingBid(v, t, self))
	}
	if b.rng.Float64() < b.CallChance(v, t) {
		return domain.Call(v.Current.Bidder)
	}
	if bid, ok := b.raise(v, t, self); ok {
		return domain.Raise(bid)
	}
	return domain.Call(v.Current.Bidder)
}

func (b *Brain) openingBid(v game.TurnView, t Tuning, self domain.WeightedStats) domain.Bid {
	face := v.Dice.Mode()
	if b.rng.Float64() >= trueModeChance {
		face = 2 + b.rng.Intn(4)
	}
	have := v.Dice.Count(face)
	if b.rng.Float64() < t.OpenPartnerChance {
		have += partnerCount(v, face)
	}

	confidence := 1 + (self.BluffSuccessRate()-0.5)*t.OpenConfidenceWeight
	qty := int(float64(have) + float64(b.rng.Intn(2))*confidence)
	floor := max(game.MinOpeningQuantity, v.TotalDice/openingDivisor)
	qty = min(max(qty, floor), v.TotalDice)
	return domain.Bid{Quantity: qty, Face: face}
}

// CallChance is the probability that the player in v challenges the
// current bid. It draws from the random source for the noisy estimates.
func (b *Brain) CallChance(v game.TurnView, t Tuning) float64 {
	bid := *v.Current
	own := v.Dice.Count(bid.Face)
	partnerHave := partnerCount(v, bid.Face)

	known := own
	if b.rng.Float64() < t.CallPartnerChance {
		known += partnerHave
	}
	unknown := v.TotalDice - len(v.Dice) - partnerDice(v)
	need := max(0, bid.Quantity-known)
	pTrue := game.ProbAtLeast(need, unknown)

	estimate := t.EstimateLow + b.rng.Float64()*(t.EstimateHigh-t.EstimateLow)
	perceived := known + int(float64(unknown)*estimate) + b.rng.Intn(3) - 1
	margin := bid.Quantity - perceived

	quarter := (v.TotalDice + 3) / 4
	chance := baseCallChance + marginWeight*float64(max(0, margin)) + t.DoubtWeight*(1-pTrue)
	if bid.Quantity > quarter {
		chance += quarterPenalty * float64(bid.Quantity-quarter)
	}
	if bid.Quantity > absoluteThreshold {
		chance += absolutePenalty + absoluteStep*float64(bid.Quantity-absoluteThreshold)
	}
	if v.TotalDice >= largeTable && float64(bid.Quantity) <= game.ExpectedCount(v.TotalDice) {
		chance *= largeTableDampen
	}
	chance *= t.CallScale

	opp := domain.Blend(v.MatchMemory, v.GlobalMemory, bid.Bidder, GlobalWeight)
	chance *= 1 + (opp.BluffRate()-0.5)*t.OppBluffWeight
	chance *= 1 - (opp.DefendSuccessRate()-0.5)*t.OppDefendWeight
	chance *= 1 - (opp.BluffSuccessRate()-0.5)*t.OppBluffSuccessWeight

	if isPartner(v, bid.Bidder) {
		chance *= partnerProtection
	}
	if own+partnerHave == 0 && bid.Quantity > quarter {
		chance += recklessPenalty
	}

	if v.MaxWinners > 0 && v.PlayersLeft <= v.MaxWinners+1 {
		switch {
		case bid.Quantity <= lowBidQuantity:
			chance *= t.EndgameLow
		case bid.Quantity > quarter:
			chance *= t.EndgameHigh
		default:
			chance *= t.EndgameMid
		}
	}
	if game.ProbAtLeast(bid.Quantity, v.TotalDice) > plausibleAbove {
		chance *= t.PlausibilityScale
	}
	return math.Max(minCallChance, math.Min(chance, maxCallChance))
}

// raise sizes a bid above the current one. It reports false when no legal
// raise exists.
func (b *Brain) raise(v game.TurnView, t Tuning, self domain.WeightedStats) (domain.Bid, bool) {
	cur := *v.Current
	confidence := 1 +
		(self.DefendSuccessRate()-0.5)*t.RaiseDefendWeight +
		(self.BluffSuccessRate()-0.5)*t.RaiseBluffWeight

	quarter := (v.TotalDice + 3) / 4
	conservative := cur.Quantity >= max(conservativeMin, quarter)
	teamHave := v.Dice.Count(cur.Face) + partnerCount(v, cur.Face)

	var step int
	switch {
	case teamHave >= 2 && !conservative:
		step = []int{1, 1, 2}[b.rng.Intn(3)]
	case conservative || b.rng.Float64() >= noIncreaseChance:
		step = 1
	}
	inc := min(max(1, int(math.Round(float64(step)*confidence))), maxIncrement)

	next := domain.Bid{Quantity: min(cur.Quantity+inc, v.TotalDice), Face: cur.Face}
	keep := math.Max(0.05, math.Min(0.95, baseFaceKeep+(confidence-1)*faceKeepPerConf))
	if b.rng.Float64() >= keep {
		next.Face = min(domain.MaxFace, cur.Face+b.rng.Intn(2))
	}
	if !next.Beats(cur) {
		// Quantity is capped by the table: only the face can move.
		if cur.Face >= domain.MaxFace {
			return domain.Bid{}, false
		}
		next = domain.Bid{Quantity: cur.Quantity, Face: cur.Face + 1}
	}
	if game.ValidateBid(&cur, next, v.TotalDice) != nil {
		return domain.Bid{}, false
	}
	return next, true
}

func partnerCount(v game.TurnView, face int) int {
	n := 0
	for _, h := range v.PartnerDice {
		n += h.Count(face)
	}
	return n
}

func partnerDice(v game.TurnView) int {
	n := 0
	for _, h := range v.PartnerDice {
		n += len(h)
	}
	return n
}

func isPartner(v game.TurnView, name string) bool {
	for _, p := range v.Partners {
		if p == name {
			return true
		}
	}
	return false
}
