// Package chance implements the die side bet: call the parity or the half
// a six-sided die lands in.
package chance

import (
	"fmt"

	"telegram-casino-bot/internal/game"
	"telegram-casino-bot/internal/pkg/random"
)

// Multiplier paid on a correct call.
const Multiplier = 1.8

const (
	Even = "even"
	Odd  = "odd"
	High = "high" // 4-6
	Low  = "low"  // 1-3
)

// Game implements game.Game for the die side bet.
type Game struct {
	rng random.Source
}

// New creates the die game over the given randomness source.
func New(rng random.Source) *Game {
	return &Game{rng: rng}
}

func (g *Game) Name() string { return "Dice" }

func (g *Game) Command() string { return "dice" }

func (g *Game) Choices() []string { return []string{Even, Odd, High, Low} }

// Resolve rolls the die and pays x1.8 on a correct call.
func (g *Game) Resolve(stake int64, choice string) (*game.Outcome, error) {
	roll := g.rng.Intn(6) + 1

	var won bool
	switch choice {
	case Even:
		won = roll%2 == 0
	case Odd:
		won = roll%2 == 1
	case High:
		won = roll >= 4
	case Low:
		won = roll <= 3
	default:
		return nil, fmt.Errorf("%w: %s", game.ErrUnknownChoice, choice)
	}

	out := &game.Outcome{Detail: fmt.Sprintf("rolled %d", roll)}
	if won {
		out.Won = true
		out.Multiplier = Multiplier
		out.Payout = game.Payout(stake, Multiplier)
	}
	return out, nil
}
