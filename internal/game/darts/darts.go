// Package darts implements the dartboard bet: call the ring a six-step
// throw lands in.
package darts

import (
	"fmt"

	"telegram-casino-bot/internal/game"
	"telegram-casino-bot/internal/pkg/random"
)

const (
	Miss     = "miss"
	Red      = "red"
	White    = "white"
	Bullseye = "bullseye"
)

// Multipliers per called ring.
const (
	MissMultiplier     = 2.5
	RedMultiplier      = 1.8
	WhiteMultiplier    = 1.8
	BullseyeMultiplier = 4.3
)

// Game implements game.Game for the dartboard throw.
type Game struct {
	rng random.Source
}

// New creates the darts game over the given randomness source.
func New(rng random.Source) *Game {
	return &Game{rng: rng}
}

func (g *Game) Name() string { return "Darts" }

func (g *Game) Command() string { return "darts" }

func (g *Game) Choices() []string { return []string{Miss, Red, White, Bullseye} }

// Resolve throws the dart. Of the six slots, 1 misses the board, 2 and 4
// land in red rings, 3 and 5 in white rings, 6 hits the bullseye. The
// bullseye is itself red, so a red bet wins on it too at the red price.
func (g *Game) Resolve(stake int64, choice string) (*game.Outcome, error) {
	var multiplier float64
	switch choice {
	case Miss:
		multiplier = MissMultiplier
	case Red:
		multiplier = RedMultiplier
	case White:
		multiplier = WhiteMultiplier
	case Bullseye:
		multiplier = BullseyeMultiplier
	default:
		return nil, fmt.Errorf("%w: %s", game.ErrUnknownChoice, choice)
	}

	throw := g.rng.Intn(6) + 1
	var landed string
	switch {
	case throw == 1:
		landed = Miss
	case throw == 6:
		landed = Bullseye
	case throw%2 == 0:
		landed = Red
	default:
		landed = White
	}

	won := landed == choice || (choice == Red && landed == Bullseye)

	out := &game.Outcome{Detail: landed}
	if won {
		out.Won = true
		out.Multiplier = multiplier
		out.Payout = game.Payout(stake, multiplier)
	}
	return out, nil
}
