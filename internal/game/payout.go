package game

// Share is one survivor's cut of the pot.
type Share struct {
	Player  string `json:"player"`
	Percent int    `json:"percent"`
	Gold    int64  `json:"gold"`
}

// Payout is the distribution of a finished match's pot.
type Payout struct {
	Pot        int64   `json:"pot"`
	Shares     []Share `json:"shares"`
	HumanDelta int64   `json:"human_delta"`
	TeamBonus  bool    `json:"team_bonus"`
	// Leak is the floor-division remainder that nobody receives.
	Leak int64 `json:"leak"`
}

// CalculatePayout splits pot among survivors (in seat order). When the only
// two survivors are human and one of its partners the split is 75/25 in the
// human's favour; otherwise the percentage table for len(survivors) applies.
func CalculatePayout(survivors []string, pot int64, human string, partners Partners) Payout {
	out := Payout{Pot: pot}
	if len(survivors) == 0 || pot <= 0 {
		out.Leak = max(pot, 0)
		return out
	}

	percents := SplitFor(len(survivors))
	order := survivors
	if len(survivors) == 2 && partners.Are(survivors[0], survivors[1]) {
		switch human {
		case survivors[0]:
			order = []string{survivors[0], survivors[1]}
		case survivors[1]:
			order = []string{survivors[1], survivors[0]}
		}
		if order[0] == human {
			percents = TeamBonusSplit[:]
			out.TeamBonus = true
		}
	}

	var paid int64
	for i, name := range order {
		gold := pot * int64(percents[i]) / 100
		out.Shares = append(out.Shares, Share{Player: name, Percent: percents[i], Gold: gold})
		paid += gold
		if name == human {
			out.HumanDelta = gold
		}
	}
	out.Leak = pot - paid
	return out
}
