// Package rps implements rock-paper-scissors against the house.
package rps

import (
	"fmt"

	"telegram-casino-bot/internal/game"
	"telegram-casino-bot/internal/pkg/random"
)

// Multiplier paid on a win. A draw refunds the stake.
const Multiplier = 2.0

const (
	Rock     = "rock"
	Paper    = "paper"
	Scissors = "scissors"
)

var beats = map[string]string{
	Rock:     Scissors,
	Paper:    Rock,
	Scissors: Paper,
}

// Game implements game.Game for rock-paper-scissors.
type Game struct {
	rng random.Source
}

// New creates the game over the given randomness source.
func New(rng random.Source) *Game {
	return &Game{rng: rng}
}

func (g *Game) Name() string { return "Rock Paper Scissors" }

func (g *Game) Command() string { return "rps" }

func (g *Game) Choices() []string { return []string{Rock, Paper, Scissors} }

// Resolve draws the house hand. A win pays double, a draw refunds the
// stake, a loss pays nothing.
func (g *Game) Resolve(stake int64, choice string) (*game.Outcome, error) {
	if _, ok := beats[choice]; !ok {
		return nil, fmt.Errorf("%w: %s", game.ErrUnknownChoice, choice)
	}

	hands := []string{Rock, Paper, Scissors}
	house := hands[g.rng.Intn(len(hands))]

	out := &game.Outcome{Detail: house}
	switch {
	case choice == house:
		out.Push = true
		out.Multiplier = 1.0
		out.Payout = stake
	case beats[choice] == house:
		out.Won = true
		out.Multiplier = Multiplier
		out.Payout = game.Payout(stake, Multiplier)
	}
	return out, nil
}
