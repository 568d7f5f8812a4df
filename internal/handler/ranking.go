package handler

import (
	"context"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v3"

	"telegram-casino-bot/internal/service"
)

// RankingHandler handles the leaderboard command.
type RankingHandler struct {
	ranking *service.RankingService
}

// NewRankingHandler creates a new RankingHandler.
func NewRankingHandler(ranking *service.RankingService) *RankingHandler {
	return &RankingHandler{ranking: ranking}
}

var rankingTitles = map[string]string{
	service.RankByDeposit:  "Top depositors",
	service.RankByTurnover: "Top by turnover",
	service.RankByWins:     "Top by wins",
}

// HandleTop handles /top [deposit|turnover|wins], defaulting to turnover.
func (h *RankingHandler) HandleTop(c tele.Context) error {
	key := service.RankByTurnover
	if args := c.Args(); len(args) > 0 {
		key = strings.ToLower(args[0])
	}

	title, ok := rankingTitles[key]
	if !ok {
		return c.Reply("Usage: /top [deposit|turnover|wins]")
	}

	accounts, err := h.ranking.Top(context.Background(), key)
	if err != nil {
		return c.Reply(errorReply(err))
	}
	if len(accounts) == 0 {
		return c.Reply("Nobody on the board yet.")
	}

	var b strings.Builder
	b.WriteString(title + ":\n")
	for i, a := range accounts {
		var value string
		switch key {
		case service.RankByDeposit:
			value = formatMoney(a.Deposited)
		case service.RankByWins:
			value = fmt.Sprintf("%d wins", a.Wins)
		default:
			value = formatMoney(a.Turnover)
		}
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, a.DisplayName, value)
	}
	return c.Reply(b.String())
}
