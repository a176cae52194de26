package game

import (
	"math/rand"
	"sort"
)

// Table sizes at which teams grow.
const (
	TriplesFromPlayers = 18
	QuadsFromPlayers   = 32
)

// PartnersPerTeam returns k, the number of partners each participant gets
// at a table of the given size.
func PartnersPerTeam(tableSize int) int {
	switch {
	case tableSize >= QuadsFromPlayers:
		return 3
	case tableSize >= TriplesFromPlayers:
		return 2
	default:
		return 1
	}
}

// MaxWinners is the number of survivors at which a match ends.
func MaxWinners(tableSize int) int {
	return PartnersPerTeam(tableSize) + 1
}

// SplitFor returns the payout percentages for an N-way split.
func SplitFor(winners int) []int {
	switch winners {
	case 2:
		return []int{50, 50}
	case 3:
		return []int{34, 33, 33}
	case 4:
		return []int{25, 25, 25, 25}
	default:
		if winners <= 1 {
			return []int{100}
		}
		out := make([]int, winners)
		for i := range out {
			out[i] = 100 / winners
		}
		return out
	}
}

// TeamBonusSplit is the human/partner split when exactly those two survive.
var TeamBonusSplit = [2]int{75, 25}

// Partners is the symmetric partner relation of a match. It is built once
// and never modified afterwards.
type Partners struct {
	of    map[string][]string
	teams [][]string
}

// AssignPartners shuffles names and groups them into teams sized by the
// table size. Leftovers are folded into an existing team: in pairs mode a
// lone leftover joins the first team, otherwise leftovers join the last.
func AssignPartners(rng *rand.Rand, names []string) Partners {
	shuffled := append([]string(nil), names...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	size := PartnersPerTeam(len(names)) + 1
	var teams [][]string
	for i := 0; i+size <= len(shuffled); i += size {
		teams = append(teams, append([]string(nil), shuffled[i:i+size]...))
	}
	if rest := shuffled[len(teams)*size:]; len(rest) > 0 {
		switch {
		case len(teams) == 0:
			teams = append(teams, append([]string(nil), rest...))
		case size == 2:
			teams[0] = append(teams[0], rest...)
		default:
			last := len(teams) - 1
			teams[last] = append(teams[last], rest...)
		}
	}
	return NewPartners(teams)
}

// NewPartners builds the relation from explicit teams. Every member of a
// team lists every other member of that team.
func NewPartners(teams [][]string) Partners {
	p := Partners{of: make(map[string][]string)}
	for _, team := range teams {
		members := append([]string(nil), team...)
		p.teams = append(p.teams, members)
		for _, a := range members {
			for _, b := range members {
				if a != b {
					p.of[a] = append(p.of[a], b)
				}
			}
		}
	}
	return p
}

// Of returns the partners of name in team order.
func (p Partners) Of(name string) []string {
	return append([]string(nil), p.of[name]...)
}

// Are reports whether a and b are partners.
func (p Partners) Are(a, b string) bool {
	for _, n := range p.of[a] {
		if n == b {
			return true
		}
	}
	return false
}

// Teams returns a copy of the teams, each sorted by name.
func (p Partners) Teams() [][]string {
	out := make([][]string, 0, len(p.teams))
	for _, t := range p.teams {
		team := append([]string(nil), t...)
		sort.Strings(team)
		out = append(out, team)
	}
	return out
}
