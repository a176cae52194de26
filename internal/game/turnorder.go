package game

// TurnOrder is the seating of a match: a fixed cyclic sequence of names plus
// the live set of participants still in play. Eliminating someone never
// reorders the seats.
type TurnOrder struct {
	seats  []string
	index  map[string]int
	active map[string]bool
}

func NewTurnOrder(seats []string) *TurnOrder {
	t := &TurnOrder{
		seats:  append([]string(nil), seats...),
		index:  make(map[string]int, len(seats)),
		active: make(map[string]bool, len(seats)),
	}
	for i, name := range t.seats {
		t.index[name] = i
		t.active[name] = true
	}
	return t
}

// Seats returns every seat in order, eliminated ones included.
func (t *TurnOrder) Seats() []string {
	return append([]string(nil), t.seats...)
}

// Active returns the participants still in play in seat order.
func (t *TurnOrder) Active() []string {
	out := make([]string, 0, len(t.active))
	for _, name := range t.seats {
		if t.active[name] {
			out = append(out, name)
		}
	}
	return out
}

func (t *TurnOrder) ActiveCount() int {
	return len(t.active)
}

func (t *TurnOrder) IsActive(name string) bool {
	return t.active[name]
}

// Eliminate removes name from play. It reports false when name was not active.
func (t *TurnOrder) Eliminate(name string) bool {
	if !t.active[name] {
		return false
	}
	delete(t.active, name)
	return true
}

// FirstActiveFrom scans forward from seat position pos (inclusive, modulo the
// table) and returns the first active participant.
func (t *TurnOrder) FirstActiveFrom(pos int) (string, bool) {
	n := len(t.seats)
	if n == 0 {
		return "", false
	}
	pos = ((pos % n) + n) % n
	for i := 0; i < n; i++ {
		name := t.seats[(pos+i)%n]
		if t.active[name] {
			return name, true
		}
	}
	return "", false
}

// NextActive returns the first active participant strictly after name.
// name itself may already be eliminated.
func (t *TurnOrder) NextActive(name string) (string, bool) {
	i, ok := t.index[name]
	if !ok {
		return t.FirstActiveFrom(0)
	}
	return t.FirstActiveFrom(i + 1)
}

// Rotation returns the active participants in turn order beginning at start.
func (t *TurnOrder) Rotation(start string) []string {
	i, ok := t.index[start]
	if !ok {
		return t.Active()
	}
	out := make([]string, 0, len(t.active))
	for k := 0; k < len(t.seats); k++ {
		name := t.seats[(i+k)%len(t.seats)]
		if t.active[name] {
			out = append(out, name)
		}
	}
	return out
}
