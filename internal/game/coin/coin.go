// Package coin implements the coin flip: pick a side, double or nothing.
package coin

import (
	"fmt"

	"telegram-casino-bot/internal/game"
	"telegram-casino-bot/internal/pkg/random"
)

// Multiplier paid on a correct call.
const Multiplier = 2.0

const (
	Heads = "heads"
	Tails = "tails"
)

// Game implements game.Game for the coin flip.
type Game struct {
	rng random.Source
}

// New creates the coin flip over the given randomness source.
func New(rng random.Source) *Game {
	return &Game{rng: rng}
}

func (g *Game) Name() string { return "Coin Flip" }

func (g *Game) Command() string { return "coin" }

func (g *Game) Choices() []string { return []string{Heads, Tails} }

// Resolve flips the coin and pays double on a correct call.
func (g *Game) Resolve(stake int64, choice string) (*game.Outcome, error) {
	if choice != Heads && choice != Tails {
		return nil, fmt.Errorf("%w: %s", game.ErrUnknownChoice, choice)
	}

	flip := Heads
	if g.rng.Intn(2) == 1 {
		flip = Tails
	}

	out := &game.Outcome{Detail: flip}
	if flip == choice {
		out.Won = true
		out.Multiplier = Multiplier
		out.Payout = game.Payout(stake, Multiplier)
	}
	return out, nil
}
