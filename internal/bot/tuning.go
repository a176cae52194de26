package bot

import "liars_dice/internal/domain"

// GlobalWeight scales cross-session counters against this match's counters.
const GlobalWeight = 0.5

// Tuning is the complete set of knobs for one difficulty tier. Every tier
// runs the same formulas; only these numbers differ.
type Tuning struct {
	// Share of unknown dice a player assumes show the bid face, drawn
	// uniformly from [EstimateLow, EstimateHigh].
	EstimateLow  float64
	EstimateHigh float64

	OpenPartnerChance float64
	CallPartnerChance float64

	DoubtWeight float64 // weight of (1 - p_true) in the base call chance
	CallScale   float64

	OppBluffWeight        float64
	OppDefendWeight       float64
	OppBluffSuccessWeight float64

	OpenConfidenceWeight float64
	RaiseDefendWeight    float64
	RaiseBluffWeight     float64

	// Endgame multipliers, applied when at most one player above the winner
	// count is left: low bids (quantity <= 3), mid bids, bids above a quarter
	// of the dice.
	EndgameLow  float64
	EndgameMid  float64
	EndgameHigh float64

	// PlausibilityScale dampens calls on bids that are still likely true.
	PlausibilityScale float64
}

var tunings = map[domain.Difficulty]Tuning{
	domain.DifficultyEasy: {
		EstimateLow: 0.28, EstimateHigh: 0.45,
		OpenPartnerChance: 0.35, CallPartnerChance: 0.35,
		DoubtWeight: 0.45, CallScale: 0.65,
		OppBluffWeight: 0.55, OppDefendWeight: 0.35, OppBluffSuccessWeight: 0.15,
		OpenConfidenceWeight: 0.35, RaiseDefendWeight: 0.3, RaiseBluffWeight: 0.2,
		EndgameLow: 1, EndgameMid: 1, EndgameHigh: 1,
		PlausibilityScale: 1,
	},
	domain.DifficultyMedium: {
		EstimateLow: 0.45, EstimateHigh: 0.65,
		OpenPartnerChance: 0.75, CallPartnerChance: 0.35,
		DoubtWeight: 0.45, CallScale: 1.0,
		OppBluffWeight: 0.55, OppDefendWeight: 0.35, OppBluffSuccessWeight: 0.15,
		OpenConfidenceWeight: 0.35, RaiseDefendWeight: 0.3, RaiseBluffWeight: 0.2,
		EndgameLow: 0.45, EndgameMid: 0.7, EndgameHigh: 1.1,
		PlausibilityScale: 0.4,
	},
	domain.DifficultyHard: {
		EstimateLow: 0.65, EstimateHigh: 0.85,
		OpenPartnerChance: 1.0, CallPartnerChance: 0.5,
		DoubtWeight: 0.75, CallScale: 1.10,
		OppBluffWeight: 0.9, OppDefendWeight: 0.6, OppBluffSuccessWeight: 0.25,
		OpenConfidenceWeight: 0.6, RaiseDefendWeight: 0.5, RaiseBluffWeight: 0.35,
		EndgameLow: 0.35, EndgameMid: 0.6, EndgameHigh: 1.2,
		PlausibilityScale: 0.25,
	},
}

// TuningFor returns the knobs of tier d. Unknown tiers play as medium.
func TuningFor(d domain.Difficulty) Tuning {
	if t, ok := tunings[d]; ok {
		return t
	}
	return tunings[domain.DifficultyMedium]
}
