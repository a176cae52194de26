package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"liars_dice/internal/game"
)

// Human reads the player's actions from a terminal.
type Human struct {
	out   io.Writer
	color bool
	lines *lineReader
}

func NewHuman(in io.Reader, out io.Writer, color bool) *Human {
	return &Human{out: out, color: color, lines: newLineReader(in)}
}

// Act shows the player's view and reads a menu choice, then a bid for
// "Up Bid". End of input resigns.
func (h *Human) Act(ctx context.Context, v game.HumanView) (game.HumanAction, error) {
	h.printView(v)
	for {
		choice, err := h.Ask(ctx, "Enter: ")
		if err == io.EOF {
			return game.HumanAction{Kind: game.ActionResign}, nil
		}
		if err != nil {
			return game.HumanAction{}, err
		}

		switch strings.ToLower(choice) {
		case "1":
			bid, err := h.Ask(ctx, "Enter Bid: ")
			if err == io.EOF {
				return game.HumanAction{Kind: game.ActionResign}, nil
			}
			if err != nil {
				return game.HumanAction{}, err
			}
			return game.HumanAction{Kind: game.ActionRaise, Input: bid}, nil
		case "2":
			return game.HumanAction{Kind: game.ActionCall}, nil
		case "q":
			return game.HumanAction{Kind: game.ActionResign}, nil
		default:
			fmt.Fprintln(h.out, "Invalid choice, enter 1 to Up Bid or 2 to Call Bluff.")
		}
	}
}

// KeepWatching asks whether to stay at the table after being knocked out.
func (h *Human) KeepWatching(ctx context.Context) bool {
	answer, err := h.Ask(ctx, "[Q] Quit now, or press Enter to keep watching: ")
	if err != nil {
		return false
	}
	return !strings.EqualFold(answer, "q")
}

func (h *Human) printView(v game.HumanView) {
	current := "No bids yet"
	if v.Current != nil {
		current = v.Current.String()
	}
	fmt.Fprintln(h.out, "\n---------------------------")
	if len(v.Rotation) > 0 {
		fmt.Fprintln(h.out, turnOrderLine(v.Rotation, v.Self, h.color))
	}
	fmt.Fprintf(h.out, "Your Dice: %v | %s\n", []int(v.Dice), partnerLine(v.Partners, v.PartnerDice))
	fmt.Fprintf(h.out, "Players Left: %d | Total Dice: %d\n", v.PlayersLeft, v.TotalDice)
	fmt.Fprintf(h.out, "Current Bid: %s\n", current)
	fmt.Fprintln(h.out, "[1] Up Bid")
	fmt.Fprintln(h.out, "[2] Call Bluff")
	fmt.Fprintln(h.out, "[Q] Leave the table")
}

// Ask prints msg and returns the next trimmed input line.
func (h *Human) Ask(ctx context.Context, msg string) (string, error) {
	fmt.Fprint(h.out, msg)
	line, err := h.lines.next(ctx)
	return strings.TrimSpace(line), err
}

// lineReader delivers lines from r on demand so a blocked read can be
// abandoned when ctx is done.
type lineReader struct {
	r     io.Reader
	once  sync.Once
	lines chan string
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: r, lines: make(chan string)}
}

func (l *lineReader) next(ctx context.Context) (string, error) {
	l.once.Do(func() { go l.pump() })
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-l.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	}
}

func (l *lineReader) pump() {
	defer close(l.lines)
	sc := bufio.NewScanner(l.r)
	for sc.Scan() {
		l.lines <- sc.Text()
	}
}
