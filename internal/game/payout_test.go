package game

import "testing"

func TestCalculatePayoutTeamBonus(t *testing.T) {
	partners := NewPartners([][]string{{"Knight", "Lucy"}, {"Bob", "Tom"}})

	p := CalculatePayout([]string{"Lucy", "Knight"}, 100, "Knight", partners)
	if !p.TeamBonus {
		t.Fatal("expected team bonus")
	}
	if p.HumanDelta != 75 {
		t.Fatalf("human delta = %d, want 75", p.HumanDelta)
	}
	if p.Shares[1].Player != "Lucy" || p.Shares[1].Gold != 25 {
		t.Fatalf("partner share = %+v, want Lucy 25", p.Shares[1])
	}
	if p.Leak != 0 {
		t.Fatalf("leak = %d", p.Leak)
	}

	p = CalculatePayout([]string{"Knight", "Lucy"}, 80, "Knight", partners)
	if p.HumanDelta != 60 {
		t.Fatalf("human delta on pot 80 = %d, want 60", p.HumanDelta)
	}
}

func TestCalculatePayoutSplits(t *testing.T) {
	partners := NewPartners([][]string{{"a", "b"}, {"c", "d"}, {"e", "f", "g"}})

	tests := []struct {
		name      string
		survivors []string
		pot       int64
		human     string
		wantHuman int64
		wantLeak  int64
	}{
		{"opponents team survives", []string{"c", "d"}, 80, "a", 0, 0},
		{"human with non-partner", []string{"a", "c"}, 81, "a", 40, 1},
		{"partners without human", []string{"a", "b"}, 100, "x", 0, 0},
		{"three way", []string{"e", "a", "g"}, 100, "a", 33, 0},
		{"three way leak", []string{"a", "e", "g"}, 10, "a", 3, 1},
		{"four way", []string{"a", "b", "c", "d"}, 102, "d", 25, 2},
		{"empty", nil, 50, "a", 0, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := CalculatePayout(tt.survivors, tt.pot, tt.human, partners)
			if p.HumanDelta != tt.wantHuman {
				t.Errorf("human delta = %d, want %d", p.HumanDelta, tt.wantHuman)
			}
			if p.Leak != tt.wantLeak {
				t.Errorf("leak = %d, want %d", p.Leak, tt.wantLeak)
			}
			var sum int64
			for _, s := range p.Shares {
				sum += s.Gold
			}
			if sum > tt.pot {
				t.Errorf("shares sum %d exceeds pot %d", sum, tt.pot)
			}
			if sum+p.Leak != tt.pot {
				t.Errorf("shares %d + leak %d != pot %d", sum, p.Leak, tt.pot)
			}
		})
	}
}
