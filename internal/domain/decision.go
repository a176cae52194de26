package domain

// DecisionKind tags the three actions a participant can take on its turn.
type DecisionKind int

const (
	DecisionOpen DecisionKind = iota + 1
	DecisionRaise
	DecisionCall
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionOpen:
		return "open"
	case DecisionRaise:
		return "raise"
	case DecisionCall:
		return "call"
	default:
		return "unknown"
	}
}

// Decision is one of Open(bid), Raise(bid) or Call(target).
// Bid is only meaningful for Open and Raise, Target only for Call.
type Decision struct {
	Kind   DecisionKind
	Bid    Bid
	Target string
}

func Open(b Bid) Decision {
	return Decision{Kind: DecisionOpen, Bid: b}
}

func Raise(b Bid) Decision {
	return Decision{Kind: DecisionRaise, Bid: b}
}

// Call challenges the current bid made by target.
func Call(target string) Decision {
	return Decision{Kind: DecisionCall, Target: target}
}
