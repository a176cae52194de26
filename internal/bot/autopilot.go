package bot

import (
	"context"
	"fmt"

	"liars_dice/internal/domain"
	"liars_dice/internal/game"
)

// Autopilot plays the human seat with an AI decider. Simulated matches use
// it so the player's seat follows the same rules as any other.
type Autopilot struct {
	decider    game.Decider
	difficulty domain.Difficulty
}

func NewAutopilot(decider game.Decider, difficulty domain.Difficulty) *Autopilot {
	return &Autopilot{decider: decider, difficulty: difficulty}
}

func (a *Autopilot) Act(ctx context.Context, view game.HumanView) (game.HumanAction, error) {
	if err := ctx.Err(); err != nil {
		return game.HumanAction{}, err
	}
	d := a.decider.Decide(game.TurnView{
		Self:         view.Self,
		Dice:         view.Dice,
		Partners:     view.Partners,
		PartnerDice:  view.PartnerDice,
		Current:      view.Current,
		TotalDice:    view.TotalDice,
		PlayersLeft:  view.PlayersLeft,
		MaxWinners:   view.MaxWinners,
		MatchMemory:  view.MatchMemory,
		GlobalMemory: view.GlobalMemory,
		Difficulty:   a.difficulty,
	})
	if d.Kind == domain.DecisionCall {
		return game.HumanAction{Kind: game.ActionCall}, nil
	}
	return game.HumanAction{
		Kind:  game.ActionRaise,
		Input: fmt.Sprintf("%d %d", d.Bid.Quantity, d.Bid.Face),
	}, nil
}

// KeepWatching always stays to the end so the match produces a result.
func (a *Autopilot) KeepWatching(context.Context) bool { return true }
