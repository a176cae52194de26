package game

import (
	"errors"
	"strconv"
	"strings"

	"liars_dice/internal/domain"
)

// MinOpeningQuantity is the smallest quantity allowed for a round's first bid.
const MinOpeningQuantity = 2

// Bid rejection reasons. Each carries a stable code for clients.
var (
	ErrBadFormat     = errors.New("bad_format")
	ErrFaceRange     = errors.New("face_out_of_range")
	ErrOpeningTooLow = errors.New("opening_too_low")
	ErrNotHigher     = errors.New("not_higher")
	ErrExceedsTable  = errors.New("exceeds_table")
	ErrNoBidToCall   = errors.New("no_bid_to_call")
)

// ValidateBid checks proposed against the current bid (nil for the opening
// bid of a round) and the dice in play. It is pure and never mutates state.
func ValidateBid(current *domain.Bid, proposed domain.Bid, totalDice int) error {
	if proposed.Quantity < 1 {
		return ErrBadFormat
	}
	if proposed.Face < domain.MinFace || proposed.Face > domain.MaxFace {
		return ErrFaceRange
	}
	if current == nil && proposed.Quantity < MinOpeningQuantity {
		return ErrOpeningTooLow
	}
	if current != nil && !proposed.Beats(*current) {
		return ErrNotHigher
	}
	if proposed.Quantity > totalDice {
		return ErrExceedsTable
	}
	return nil
}

// ParseBid reads "<quantity> <face>" as typed by a player.
// It only checks the shape of the input; use ValidateBid for game rules.
func ParseBid(input string) (domain.Bid, error) {
	fields := strings.Fields(input)
	if len(fields) != 2 {
		return domain.Bid{}, ErrBadFormat
	}
	qty, err := parsePositive(fields[0])
	if err != nil {
		return domain.Bid{}, err
	}
	face, err := parsePositive(fields[1])
	if err != nil {
		return domain.Bid{}, err
	}
	return domain.Bid{Quantity: qty, Face: face}, nil
}

func parsePositive(s string) (int, error) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, ErrBadFormat
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, ErrBadFormat
	}
	return n, nil
}

// RejectReason returns the client-facing code for a bid rejection error.
func RejectReason(err error) string {
	for _, known := range []error{ErrBadFormat, ErrFaceRange, ErrOpeningTooLow, ErrNotHigher, ErrExceedsTable, ErrNoBidToCall} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "invalid"
}
