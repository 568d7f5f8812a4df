package handler

import (
	"context"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v3"

	"telegram-casino-bot/internal/game"
	"telegram-casino-bot/internal/service"
)

// SingleHandler handles the single-shot games: one command resolves the
// whole round.
type SingleHandler struct {
	runner   *game.Runner
	accounts *service.AccountService
}

// NewSingleHandler creates a new SingleHandler.
func NewSingleHandler(runner *game.Runner, accounts *service.AccountService) *SingleHandler {
	return &SingleHandler{runner: runner, accounts: accounts}
}

// Handle returns the handler for one game command, e.g. /coin <stake>
// <choice>.
func (h *SingleHandler) Handle(command string) tele.HandlerFunc {
	return func(c tele.Context) error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}
		ctx := context.Background()

		if _, _, err := h.accounts.EnsureAccount(ctx, sender.ID, displayName(sender)); err != nil {
			return c.Reply(errorReply(err))
		}

		args := c.Args()
		if len(args) < 2 {
			g, ok := h.runner.Registry().Get(command)
			if !ok {
				return c.Reply(errorReply(game.ErrUnknownGame))
			}
			return c.Reply(fmt.Sprintf("Usage: /%s <stake> <%s>",
				command, strings.Join(g.Choices(), "|")))
		}

		stake, err := parseStake(args[0])
		if err != nil {
			return c.Reply("Invalid stake. Bets must be between $0.20 and $1000.")
		}
		choice := strings.ToLower(args[1])

		res, err := h.runner.Play(ctx, sender.ID, command, stake, choice)
		if err != nil {
			return c.Reply(errorReply(err))
		}

		switch {
		case res.Won:
			return c.Reply(fmt.Sprintf("%s - you win %s (x%.2f)!\nBalance: %s",
				res.Detail, formatMoney(res.Payout), res.Multiplier, formatMoney(res.Balance)))
		case res.Push:
			return c.Reply(fmt.Sprintf("%s - draw, stake returned.\nBalance: %s",
				res.Detail, formatMoney(res.Balance)))
		default:
			return c.Reply(fmt.Sprintf("%s - you lose.\nBalance: %s",
				res.Detail, formatMoney(res.Balance)))
		}
	}
}
