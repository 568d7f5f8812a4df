// Package handler provides the Telegram command and callback handlers.
package handler

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"telegram-casino-bot/internal/engine"
	"telegram-casino-bot/internal/game"
	"telegram-casino-bot/internal/session"
)

// parseStake converts a dollar amount argument ("1", "0.5", "1.25") into
// cents. Fractions beyond cents are rejected rather than silently rounded.
func parseStake(arg string) (int64, error) {
	v, err := strconv.ParseFloat(strings.TrimPrefix(arg, "$"), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, fmt.Errorf("invalid amount %q", arg)
	}
	cents := v * 100
	if math.Abs(cents-math.Round(cents)) > 1e-9 {
		return 0, fmt.Errorf("amount %q has sub-cent precision", arg)
	}
	return int64(math.Round(cents)), nil
}

// formatMoney renders cents as dollars.
func formatMoney(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}

// errorReply maps engine and session errors onto player-facing messages.
// Unknown errors get a generic message so internals never leak into chat.
func errorReply(err error) string {
	switch {
	case errors.Is(err, engine.ErrInvalidStake):
		return "Invalid stake. Bets must be between $0.20 and $1000."
	case errors.Is(err, engine.ErrInsufficientFunds):
		return "Not enough balance for this bet."
	case errors.Is(err, session.ErrSessionExists):
		return "Finish your current game first."
	case errors.Is(err, session.ErrSessionNotFound):
		return "No active game. Start one first."
	case errors.Is(err, engine.ErrAlreadyRevealed):
		return "That cell is already open."
	case errors.Is(err, engine.ErrOutOfBounds):
		return "That cell is not on the board."
	case errors.Is(err, engine.ErrSessionResolved):
		return "This round is already over."
	case errors.Is(err, engine.ErrCashOutUnavailable):
		return "Open at least one cell before cashing out."
	case errors.Is(err, engine.ErrWrongFamily):
		return "That action does not apply to your current game."
	case errors.Is(err, engine.ErrNotLaunched):
		return "Launch the round first."
	case errors.Is(err, engine.ErrAlreadyLaunched):
		return "The round is already running."
	case errors.Is(err, game.ErrUnknownChoice):
		return "Unknown choice for this game."
	case errors.Is(err, game.ErrUnknownGame):
		return "Unknown game."
	default:
		return "Something went wrong. Please try again later."
	}
}
