package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"telegram-casino-bot/internal/engine"
	"telegram-casino-bot/internal/payout"
	"telegram-casino-bot/internal/service"
)

// Callback data prefixes for session games.
const (
	CallbackReveal  = "reveal:"
	CallbackCashOut = "cashout"
	CallbackLaunch  = "launch"
)

// Board layout constants for keyboard rendering.
const (
	minesColumns   = 5
	cryptColumns   = 5
	towerColumns   = 5
	vaultColumns   = 2
	crashEditEvery = 5 // edit the ticker message every N ticks
)

// SessionHandler drives the session games: the step-reveal boards and the
// crash round. It owns all board keyboards and the live crash message.
type SessionHandler struct {
	appCtx   context.Context
	coord    *engine.Coordinator
	accounts *service.AccountService
}

// NewSessionHandler creates a new SessionHandler. appCtx bounds the crash
// tickers: when it is cancelled, running rounds resolve and stop.
func NewSessionHandler(appCtx context.Context, coord *engine.Coordinator, accounts *service.AccountService) *SessionHandler {
	return &SessionHandler{appCtx: appCtx, coord: coord, accounts: accounts}
}

// open parses "<stake> [risk]" and opens a session of the given family.
func (h *SessionHandler) open(c tele.Context, family payout.Family, defaultRisk int) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	ctx := context.Background()

	if _, _, err := h.accounts.EnsureAccount(ctx, sender.ID, displayName(sender)); err != nil {
		return c.Reply(errorReply(err))
	}

	args := c.Args()
	if len(args) < 1 {
		return c.Reply(fmt.Sprintf("Usage: /%s <stake>", family))
	}
	stake, err := parseStake(args[0])
	if err != nil {
		return c.Reply("Invalid stake. Bets must be between $0.20 and $1000.")
	}

	risk := defaultRisk
	if len(args) > 1 {
		risk, err = strconv.Atoi(args[1])
		if err != nil {
			return c.Reply("The second argument must be a number.")
		}
	}

	upd, err := h.coord.Open(ctx, sender.ID, family, stake, risk)
	if err != nil {
		return c.Reply(errorReply(err))
	}

	if family == payout.FamilyCrash {
		return c.Reply(
			fmt.Sprintf("Crash: %s staked. Multiplier starts at x1.00. Launch when ready.", formatMoney(stake)),
			crashMarkup(false),
		)
	}
	return c.Reply(h.boardText(upd), h.boardMarkup(upd))
}

// HandleMines handles /mines <stake> [mines].
func (h *SessionHandler) HandleMines(c tele.Context) error {
	return h.open(c, payout.FamilyMines, 3)
}

// HandleTower handles /tower <stake> [dragons].
func (h *SessionHandler) HandleTower(c tele.Context) error {
	return h.open(c, payout.FamilyTower, 1)
}

// HandleVault handles /vault <stake>.
func (h *SessionHandler) HandleVault(c tele.Context) error {
	return h.open(c, payout.FamilyVault, 0)
}

// HandleCrypt handles /crypt <stake>.
func (h *SessionHandler) HandleCrypt(c tele.Context) error {
	return h.open(c, payout.FamilyCrypt, 0)
}

// HandleBalloon handles /balloon <stake>.
func (h *SessionHandler) HandleBalloon(c tele.Context) error {
	return h.open(c, payout.FamilyBalloon, 0)
}

// HandleCrash handles /crash <stake>.
func (h *SessionHandler) HandleCrash(c tele.Context) error {
	return h.open(c, payout.FamilyCrash, 0)
}

// HandleCallback routes the session callbacks: cell reveals, cash-outs and
// the crash launch.
func (h *SessionHandler) HandleCallback(c tele.Context, data string) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	ctx := context.Background()

	switch {
	case strings.HasPrefix(data, CallbackReveal):
		pos, err := strconv.Atoi(strings.TrimPrefix(data, CallbackReveal))
		if err != nil {
			return c.Respond(&tele.CallbackResponse{Text: "Bad button."})
		}
		upd, err := h.coord.Reveal(ctx, sender.ID, pos)
		if err != nil {
			return c.Respond(&tele.CallbackResponse{Text: errorReply(err)})
		}
		return h.renderUpdate(c, upd)

	case data == CallbackCashOut:
		upd, err := h.coord.CashOut(ctx, sender.ID)
		if err != nil {
			return c.Respond(&tele.CallbackResponse{Text: errorReply(err)})
		}
		return h.renderUpdate(c, upd)

	case data == CallbackLaunch:
		return h.launch(c, sender.ID)
	}

	return c.Respond(&tele.CallbackResponse{Text: "Unknown action."})
}

// launch starts the crash ticker and keeps the message fresh while the
// multiplier climbs.
func (h *SessionHandler) launch(c tele.Context, userID int64) error {
	bot := c.Bot()
	msg := c.Message()
	ticks := 0

	onTick := func(multiplier float64, cashValue int64) {
		ticks++
		if ticks%crashEditEvery != 0 {
			return
		}
		_, err := bot.Edit(msg,
			fmt.Sprintf("x%.2f - cash out for %s?", multiplier, formatMoney(cashValue)),
			crashMarkup(true))
		if err != nil {
			log.Debug().Err(err).Msg("Crash ticker edit failed")
		}
	}

	onResult := func(res *engine.GrowthUpdate) {
		var text string
		if res.Won {
			text = fmt.Sprintf("Cashed out at x%.2f: +%s\nBalance: %s",
				res.Multiplier, formatMoney(res.Payout), formatMoney(res.Balance))
		} else {
			text = fmt.Sprintf("Crashed at x%.2f. Stake lost.\nBalance: %s",
				res.CrashPoint, formatMoney(res.Balance))
		}
		if _, err := bot.Edit(msg, text); err != nil {
			log.Debug().Err(err).Msg("Crash result edit failed")
		}
	}

	if err := h.coord.Launch(h.appCtx, userID, onTick, onResult); err != nil {
		return c.Respond(&tele.CallbackResponse{Text: errorReply(err)})
	}
	return c.Edit("x1.00 - launched!", crashMarkup(true))
}

// renderUpdate redraws a step-reveal board, or replaces it with the final
// result when the session is over.
func (h *SessionHandler) renderUpdate(c tele.Context, upd *engine.Update) error {
	if !upd.Terminal {
		return c.Edit(h.boardText(upd), h.boardMarkup(upd))
	}

	var text string
	if upd.Won {
		text = fmt.Sprintf("%s: won %s at x%.2f!\nBalance: %s",
			upd.Family, formatMoney(upd.Payout), upd.Multiplier, formatMoney(upd.Balance))
	} else {
		text = fmt.Sprintf("%s: hit a hazard after %d steps. Stake lost.\nBalance: %s",
			upd.Family, upd.Step, formatMoney(upd.Balance))
	}
	return c.Edit(text)
}

func (h *SessionHandler) boardText(upd *engine.Update) string {
	return fmt.Sprintf("%s - stake %s\nStep %d, x%.2f (next x%.2f)\nCash out now for %s",
		upd.Family, formatMoney(upd.Stake),
		upd.Step, upd.Multiplier, upd.Next,
		formatMoney(upd.CashValue))
}

// boardMarkup builds the inline keyboard for the family's board state.
func (h *SessionHandler) boardMarkup(upd *engine.Update) *tele.ReplyMarkup {
	revealed := make(map[int]bool, len(upd.Revealed))
	for _, p := range upd.Revealed {
		revealed[p] = true
	}

	var rows [][]tele.InlineButton
	switch upd.Family {
	case payout.FamilyMines:
		rows = gridRows(engine.MinesCells, minesColumns, revealed)
	case payout.FamilyCrypt:
		rows = gridRows(engine.CryptCells, cryptColumns, revealed)
	case payout.FamilyTower:
		rows = columnRows(towerColumns)
	case payout.FamilyVault:
		rows = columnRows(vaultColumns)
	case payout.FamilyBalloon:
		rows = [][]tele.InlineButton{{
			{Text: "Pump", Data: CallbackReveal + "0"},
		}}
	}

	rows = append(rows, []tele.InlineButton{
		{Text: fmt.Sprintf("Cash out %s", formatMoney(upd.CashValue)), Data: CallbackCashOut},
	})
	return &tele.ReplyMarkup{InlineKeyboard: rows}
}

// gridRows renders a fixed board where opened cells stay visible.
func gridRows(cells, columns int, revealed map[int]bool) [][]tele.InlineButton {
	var rows [][]tele.InlineButton
	for start := 0; start < cells; start += columns {
		var row []tele.InlineButton
		for pos := start; pos < start+columns && pos < cells; pos++ {
			btn := tele.InlineButton{Text: "·", Data: CallbackReveal + strconv.Itoa(pos)}
			if revealed[pos] {
				btn.Text = "✓"
			}
			row = append(row, btn)
		}
		rows = append(rows, row)
	}
	return rows
}

// columnRows renders one row of column picks for the current floor.
func columnRows(columns int) [][]tele.InlineButton {
	row := make([]tele.InlineButton, columns)
	for i := range row {
		row[i] = tele.InlineButton{Text: strconv.Itoa(i + 1), Data: CallbackReveal + strconv.Itoa(i)}
	}
	return [][]tele.InlineButton{row}
}

func crashMarkup(launched bool) *tele.ReplyMarkup {
	if !launched {
		return &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{{
			{Text: "Launch", Data: CallbackLaunch},
		}}}
	}
	return &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{{
		{Text: "Cash out", Data: CallbackCashOut},
	}}}
}
