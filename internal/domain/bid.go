package domain

import "fmt"

// Bid claims that at least Quantity dice across the table show Face.
type Bid struct {
	Quantity int    `json:"quantity"`
	Face     int    `json:"face"`
	Bidder   string `json:"bidder,omitempty"`
}

// Beats reports whether b is strictly greater than prev under
// lexicographic (quantity, face) order. The bidder is ignored.
func (b Bid) Beats(prev Bid) bool {
	if b.Quantity != prev.Quantity {
		return b.Quantity > prev.Quantity
	}
	return b.Face > prev.Face
}

// TrueAgainst reports whether the bid holds for the revealed count of its face.
func (b Bid) TrueAgainst(actual int) bool {
	return actual >= b.Quantity
}

func (b Bid) String() string {
	return fmt.Sprintf("%d %d's", b.Quantity, b.Face)
}
