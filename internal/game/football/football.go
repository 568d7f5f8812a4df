// Package football implements the penalty-kick bet: goal or miss on a
// five-step shot.
package football

import (
	"fmt"

	"telegram-casino-bot/internal/game"
	"telegram-casino-bot/internal/pkg/random"
)

const (
	Miss = "miss"
	Goal = "goal"
)

// Goal is the likelier outcome of a penalty, so calling it pays less than
// calling the miss.
const (
	MissMultiplier = 1.8
	GoalMultiplier = 1.4
)

// Game implements game.Game for the penalty kick.
type Game struct {
	rng random.Source
}

// New creates the football game over the given randomness source.
func New(rng random.Source) *Game {
	return &Game{rng: rng}
}

func (g *Game) Name() string { return "Football" }

func (g *Game) Command() string { return "football" }

func (g *Game) Choices() []string { return []string{Miss, Goal} }

// Resolve takes the kick. Of the five slots, 1-3 miss and 4-5 score.
func (g *Game) Resolve(stake int64, choice string) (*game.Outcome, error) {
	var multiplier float64
	switch choice {
	case Miss:
		multiplier = MissMultiplier
	case Goal:
		multiplier = GoalMultiplier
	default:
		return nil, fmt.Errorf("%w: %s", game.ErrUnknownChoice, choice)
	}

	kick := g.rng.Intn(5) + 1
	landed := Miss
	if kick >= 4 {
		landed = Goal
	}

	out := &game.Outcome{Detail: landed}
	if landed == choice {
		out.Won = true
		out.Multiplier = multiplier
		out.Payout = game.Payout(stake, multiplier)
	}
	return out, nil
}
