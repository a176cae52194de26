package domain

// PersonaStats holds the behavioral counters of one participant.
// All counters only ever grow.
type PersonaStats struct {
	BluffsCaught    int64 `json:"bluffs_caught" db:"bluffs_caught"`
	DefendedSuccess int64 `json:"defended_success" db:"defended_success"`
	BluffsMade      int64 `json:"bluffs_made" db:"bluffs_made"`
	BluffSuccess    int64 `json:"bluff_success" db:"bluff_success"`
	TruthsMade      int64 `json:"truths_made" db:"truths_made"`
	TruthSuccess    int64 `json:"truth_success" db:"truth_success"`
}

// Add merges o into s field by field.
func (s *PersonaStats) Add(o PersonaStats) {
	s.BluffsCaught += o.BluffsCaught
	s.DefendedSuccess += o.DefendedSuccess
	s.BluffsMade += o.BluffsMade
	s.BluffSuccess += o.BluffSuccess
	s.TruthsMade += o.TruthsMade
	s.TruthSuccess += o.TruthSuccess
}

func (s PersonaStats) IsZero() bool {
	return s == PersonaStats{}
}

// Valid reports whether every counter is non-negative.
func (s PersonaStats) Valid() bool {
	return s.BluffsCaught >= 0 && s.DefendedSuccess >= 0 && s.BluffsMade >= 0 &&
		s.BluffSuccess >= 0 && s.TruthsMade >= 0 && s.TruthSuccess >= 0
}

// Memory maps participant names to their counters.
type Memory map[string]PersonaStats

// NewMemory returns a record with an all-zero entry for every name.
func NewMemory(names ...string) Memory {
	m := make(Memory, len(names))
	for _, n := range names {
		m[n] = PersonaStats{}
	}
	return m
}

// Stats returns the counters for name; absent names read as zero history.
func (m Memory) Stats(name string) PersonaStats {
	return m[name]
}

// Update applies fn to the counters of name, creating the entry if needed.
func (m Memory) Update(name string, fn func(*PersonaStats)) {
	s := m[name]
	fn(&s)
	m[name] = s
}

// Clone returns an independent copy of the record.
func (m Memory) Clone() Memory {
	out := make(Memory, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Merge returns global + match, per name and per counter. Neither input
// is modified. Merge is commutative and associative, and merging an
// all-zero record changes nothing.
func Merge(global, match Memory) Memory {
	out := global.Clone()
	for name, s := range match {
		cur := out[name]
		cur.Add(s)
		out[name] = cur
	}
	return out
}

// WeightedStats is a blend of match-local and global counters.
type WeightedStats struct {
	BluffsCaught    float64
	DefendedSuccess float64
	BluffsMade      float64
	BluffSuccess    float64
	TruthsMade      float64
	TruthSuccess    float64
}

// Blend combines the match-local counters of name with its global counters
// scaled by globalWeight.
func Blend(match, global Memory, name string, globalWeight float64) WeightedStats {
	m, g := match.Stats(name), global.Stats(name)
	return WeightedStats{
		BluffsCaught:    float64(m.BluffsCaught) + globalWeight*float64(g.BluffsCaught),
		DefendedSuccess: float64(m.DefendedSuccess) + globalWeight*float64(g.DefendedSuccess),
		BluffsMade:      float64(m.BluffsMade) + globalWeight*float64(g.BluffsMade),
		BluffSuccess:    float64(m.BluffSuccess) + globalWeight*float64(g.BluffSuccess),
		TruthsMade:      float64(m.TruthsMade) + globalWeight*float64(g.TruthsMade),
		TruthSuccess:    float64(m.TruthSuccess) + globalWeight*float64(g.TruthSuccess),
	}
}

// BluffRate is the share of bids that turned out to be bluffs.
func (w WeightedStats) BluffRate() float64 {
	return safeRate(w.BluffsMade, w.TruthsMade+w.BluffsMade)
}

// BluffSuccessRate is the share of bluffs that were never caught.
func (w WeightedStats) BluffSuccessRate() float64 {
	return safeRate(w.BluffSuccess, w.BluffsMade)
}

// DefendSuccessRate is the share of called bids that held up.
func (w WeightedStats) DefendSuccessRate() float64 {
	return safeRate(w.DefendedSuccess, w.DefendedSuccess+w.BluffsCaught)
}

func safeRate(num, den float64) float64 {
	if den < 1 {
		den = 1
	}
	return num / den
}
