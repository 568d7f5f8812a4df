// Package roulette implements a single-spin European roulette bet: an
// outside bet (color or parity) or a straight-up number.
package roulette

import (
	"fmt"
	"strconv"

	"telegram-casino-bot/internal/game"
	"telegram-casino-bot/internal/pkg/random"
)

const (
	// NumberMultiplier is paid on a straight-up hit.
	NumberMultiplier = 25.0

	// OutsideMultiplier is paid on a color or parity hit.
	OutsideMultiplier = 1.8

	wheelSize = 37 // 0-36
)

const (
	Red   = "red"
	Black = "black"
	Even  = "even"
	Odd   = "odd"
)

var redNumbers = map[int]struct{}{
	1: {}, 3: {}, 5: {}, 7: {}, 9: {}, 12: {}, 14: {}, 16: {}, 18: {},
	19: {}, 21: {}, 23: {}, 25: {}, 27: {}, 30: {}, 32: {}, 34: {}, 36: {},
}

// Game implements game.Game for roulette.
type Game struct {
	rng random.Source
}

// New creates the roulette game over the given randomness source.
func New(rng random.Source) *Game {
	return &Game{rng: rng}
}

func (g *Game) Name() string { return "Roulette" }

func (g *Game) Command() string { return "roulette" }

// Choices lists the outside bets; a straight-up bet is any number 0-36
// passed as its decimal string.
func (g *Game) Choices() []string { return []string{Red, Black, Even, Odd} }

// Resolve spins the wheel. Zero loses every outside bet.
func (g *Game) Resolve(stake int64, choice string) (*game.Outcome, error) {
	won := false
	mult := OutsideMultiplier

	spin := g.rng.Intn(wheelSize)
	_, red := redNumbers[spin]

	switch choice {
	case Red:
		won = red
	case Black:
		won = spin != 0 && !red
	case Even:
		won = spin != 0 && spin%2 == 0
	case Odd:
		won = spin%2 == 1
	default:
		n, err := strconv.Atoi(choice)
		if err != nil || n < 0 || n >= wheelSize {
			return nil, fmt.Errorf("%w: %s", game.ErrUnknownChoice, choice)
		}
		won = spin == n
		mult = NumberMultiplier
	}

	color := Black
	if red {
		color = Red
	}
	if spin == 0 {
		color = "green"
	}

	out := &game.Outcome{Detail: fmt.Sprintf("%d %s", spin, color)}
	if won {
		out.Won = true
		out.Multiplier = mult
		out.Payout = game.Payout(stake, mult)
	}
	return out, nil
}
