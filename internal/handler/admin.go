package handler

import (
	"context"
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v3"

	"telegram-casino-bot/internal/service"
)

// AdminHandler handles the balance correction commands. Admin access is
// enforced by middleware before these run.
type AdminHandler struct {
	admin *service.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

func parseAdminArgs(c tele.Context) (int64, int64, error) {
	args := c.Args()
	if len(args) < 2 {
		return 0, 0, fmt.Errorf("expected <telegram_id> <amount>")
	}
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad telegram id %q", args[0])
	}
	amount, err := parseStake(args[1])
	if err != nil {
		return 0, 0, err
	}
	return userID, amount, nil
}

// HandleAdd handles /admin_add <telegram_id> <amount>.
func (h *AdminHandler) HandleAdd(c tele.Context) error {
	userID, amount, err := parseAdminArgs(c)
	if err != nil {
		return c.Reply("Usage: /admin_add <telegram_id> <amount>")
	}

	balance, err := h.admin.AddBalance(context.Background(), userID, amount)
	if err != nil {
		return c.Reply(errorReply(err))
	}
	return c.Reply(fmt.Sprintf("Added %s to %d. New balance: %s",
		formatMoney(amount), userID, formatMoney(balance)))
}

// HandleSub handles /admin_sub <telegram_id> <amount>.
func (h *AdminHandler) HandleSub(c tele.Context) error {
	userID, amount, err := parseAdminArgs(c)
	if err != nil {
		return c.Reply("Usage: /admin_sub <telegram_id> <amount>")
	}

	balance, err := h.admin.SubBalance(context.Background(), userID, amount)
	if err != nil {
		return c.Reply(errorReply(err))
	}
	return c.Reply(fmt.Sprintf("Removed %s from %d. New balance: %s",
		formatMoney(amount), userID, formatMoney(balance)))
}

// HandleSet handles /admin_set <telegram_id> <amount>. Zero is allowed to
// wipe a balance.
func (h *AdminHandler) HandleSet(c tele.Context) error {
	var userID, amount int64
	if args := c.Args(); len(args) >= 2 && args[1] == "0" {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return c.Reply("Usage: /admin_set <telegram_id> <amount>")
		}
		userID = id
	} else {
		var err error
		userID, amount, err = parseAdminArgs(c)
		if err != nil {
			return c.Reply("Usage: /admin_set <telegram_id> <amount>")
		}
	}

	balance, err := h.admin.SetBalance(context.Background(), userID, amount)
	if err != nil {
		return c.Reply(errorReply(err))
	}
	return c.Reply(fmt.Sprintf("Balance of %d set to %s", userID, formatMoney(balance)))
}
