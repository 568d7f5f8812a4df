// Package game defines the single-shot games: one command, one draw, one
// settlement, no persistent session.
package game

import "errors"

var (
	// ErrUnknownGame is returned when no game is registered for a command.
	ErrUnknownGame = errors.New("unknown game")

	// ErrUnknownChoice is returned when the player's pick is not one of the
	// game's choices.
	ErrUnknownChoice = errors.New("unknown choice")
)

// Outcome is the result of a single resolved play. Payout is the gross
// return in cents: zero on a loss, the stake back on a push, stake times
// multiplier on a win.
type Outcome struct {
	Won        bool
	Push       bool
	Multiplier float64
	Payout     int64
	Detail     string
}

// Game is a pure resolver: it draws its randomness, compares against the
// player's choice and reports the outcome. It never touches the ledger.
type Game interface {
	// Name is the display name shown to players.
	Name() string

	// Command is the bot command that triggers the game, without slash.
	Command() string

	// Choices lists the accepted choice strings.
	Choices() []string

	// Resolve plays one round for the given stake and choice.
	Resolve(stake int64, choice string) (*Outcome, error)
}
