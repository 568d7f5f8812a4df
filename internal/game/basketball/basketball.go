// Package basketball implements the free-throw bet: call where the ball
// lands on a five-step shot.
package basketball

import (
	"fmt"

	"telegram-casino-bot/internal/game"
	"telegram-casino-bot/internal/pkg/random"
)

const (
	Miss  = "miss"
	Goal  = "goal"
	Three = "three"
)

// Multipliers per called outcome. The three-pointer is the rarest slot and
// pays the most.
const (
	MissMultiplier  = 2.0
	GoalMultiplier  = 2.0
	ThreeMultiplier = 3.0
)

// Game implements game.Game for the basketball throw.
type Game struct {
	rng random.Source
}

// New creates the basketball game over the given randomness source.
func New(rng random.Source) *Game {
	return &Game{rng: rng}
}

func (g *Game) Name() string { return "Basketball" }

func (g *Game) Command() string { return "basketball" }

func (g *Game) Choices() []string { return []string{Miss, Goal, Three} }

// Resolve throws the ball. Of the five slots, 1-2 miss, 3-4 score a regular
// goal and 5 is the three-pointer.
func (g *Game) Resolve(stake int64, choice string) (*game.Outcome, error) {
	var multiplier float64
	switch choice {
	case Miss:
		multiplier = MissMultiplier
	case Goal:
		multiplier = GoalMultiplier
	case Three:
		multiplier = ThreeMultiplier
	default:
		return nil, fmt.Errorf("%w: %s", game.ErrUnknownChoice, choice)
	}

	throw := g.rng.Intn(5) + 1
	var landed string
	switch {
	case throw <= 2:
		landed = Miss
	case throw <= 4:
		landed = Goal
	default:
		landed = Three
	}

	out := &game.Outcome{Detail: landed}
	if landed == choice {
		out.Won = true
		out.Multiplier = multiplier
		out.Payout = game.Payout(stake, multiplier)
	}
	return out, nil
}
