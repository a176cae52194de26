package domain

const (
	DiceSides   = 6
	DicePerHand = 4
	MinFace     = 1
	MaxFace     = 6
)

// Hand is the dice a participant holds for one round.
type Hand []int

// Count returns how many dice in the hand show face.
func (h Hand) Count(face int) int {
	n := 0
	for _, d := range h {
		if d == face {
			n++
		}
	}
	return n
}

// Mode returns the most frequent face, preferring the lower face on ties.
// An empty hand returns MinFace.
func (h Hand) Mode() int {
	best, bestCount := MinFace, -1
	for f := MinFace; f <= MaxFace; f++ {
		if c := h.Count(f); c > bestCount {
			best, bestCount = f, c
		}
	}
	return best
}

// CountFace counts face across several hands.
func CountFace(face int, hands ...Hand) int {
	n := 0
	for _, h := range hands {
		n += h.Count(face)
	}
	return n
}
