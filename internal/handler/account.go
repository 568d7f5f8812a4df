package handler

import (
	"context"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v3"

	"telegram-casino-bot/internal/service"
)

// AccountHandler handles account-related commands.
type AccountHandler struct {
	accounts *service.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accounts *service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

func displayName(sender *tele.User) string {
	if sender.Username != "" {
		return sender.Username
	}
	return strings.TrimSpace(sender.FirstName + " " + sender.LastName)
}

// HandleStart handles /start: creates the account on first contact.
func (h *AccountHandler) HandleStart(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	account, created, err := h.accounts.EnsureAccount(context.Background(), sender.ID, displayName(sender))
	if err != nil {
		return c.Reply(errorReply(err))
	}

	if created {
		return c.Reply(fmt.Sprintf(
			"Welcome, %s!\n\n"+
				"Balance: %s\n\n"+
				"Games:\n"+
				"/mines <stake> [mines] - minefield\n"+
				"/tower <stake> [dragons] - tower climb\n"+
				"/vault <stake> - vault floors\n"+
				"/crypt <stake> - crypt dig\n"+
				"/balloon <stake> - balloon pump\n"+
				"/crash <stake> - crash\n"+
				"/coin <stake> heads|tails\n"+
				"/dice <stake> even|odd|high|low\n"+
				"/rps <stake> rock|paper|scissors\n"+
				"/roulette <stake> <red|black|even|odd|0-36>\n\n"+
				"/balance, /my, /history, /top",
			account.DisplayName, formatMoney(account.Balance),
		))
	}

	return c.Reply(fmt.Sprintf("Welcome back, %s! Balance: %s",
		account.DisplayName, formatMoney(account.Balance)))
}

// HandleBalance handles /balance.
func (h *AccountHandler) HandleBalance(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	account, _, err := h.accounts.EnsureAccount(context.Background(), sender.ID, displayName(sender))
	if err != nil {
		return c.Reply(errorReply(err))
	}
	return c.Reply(fmt.Sprintf("Balance: %s", formatMoney(account.Balance)))
}

// HandleProfile handles /my: balance, level and lifetime stats.
func (h *AccountHandler) HandleProfile(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	ctx := context.Background()

	if _, _, err := h.accounts.EnsureAccount(ctx, sender.ID, displayName(sender)); err != nil {
		return c.Reply(errorReply(err))
	}

	profile, err := h.accounts.GetProfile(ctx, sender.ID)
	if err != nil {
		return c.Reply(errorReply(err))
	}

	a := profile.Account
	s := profile.Stats
	return c.Reply(fmt.Sprintf(
		"%s - level %d\n\n"+
			"Balance: %s\n"+
			"Wagered: %s across %d bets\n"+
			"Won: %s\n"+
			"Deposited: %s",
		a.DisplayName, a.Level,
		formatMoney(a.Balance),
		formatMoney(s.Wagered), s.Plays,
		formatMoney(s.Won),
		formatMoney(a.Deposited),
	))
}

// HandleHistory handles /history: the last ten ledger entries.
func (h *AccountHandler) HandleHistory(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	entries, err := h.accounts.History(context.Background(), sender.ID, 10)
	if err != nil {
		return c.Reply(errorReply(err))
	}
	if len(entries) == 0 {
		return c.Reply("No history yet.")
	}

	var b strings.Builder
	b.WriteString("Recent activity:\n")
	for _, e := range entries {
		sign := "+"
		if e.Amount < 0 {
			sign = "-"
		}
		desc := e.Type
		if e.Description != nil {
			desc = *e.Description
		}
		fmt.Fprintf(&b, "%s%s  %s\n", sign, formatMoney(abs(e.Amount)), desc)
	}
	return c.Reply(b.String())
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
