package engine

import (
	"context"

	"telegram-casino-bot/internal/payout"
	"telegram-casino-bot/internal/session"
)

// Coordinator is the single entry point the transport layer talks to. It
// dispatches by game family so handlers never touch an engine of the wrong
// kind.
type Coordinator struct {
	step     *StepReveal
	growth   *Growth
	registry *session.Registry
	ledger   Ledger
}

// NewCoordinator wires the engines behind one facade.
func NewCoordinator(step *StepReveal, growth *Growth, registry *session.Registry, ledger Ledger) *Coordinator {
	return &Coordinator{step: step, growth: growth, registry: registry, ledger: ledger}
}

// Open starts a session of the given family. Risk is ignored by families
// with a single payout table and by the growth game.
func (c *Coordinator) Open(ctx context.Context, userID int64, family payout.Family, stake int64, risk int) (*Update, error) {
	if family == payout.FamilyCrash {
		upd, err := c.growth.Open(ctx, userID, stake)
		if err != nil {
			return nil, err
		}
		return growthToUpdate(upd), nil
	}
	return c.step.Open(ctx, userID, family, stake, risk)
}

// Reveal opens a board position in the user's active step-reveal session.
func (c *Coordinator) Reveal(ctx context.Context, userID int64, pos int) (*Update, error) {
	return c.step.Reveal(ctx, userID, pos)
}

// Launch starts the ticker of a pending growth round.
func (c *Coordinator) Launch(ctx context.Context, userID int64, onTick func(multiplier float64, cashValue int64), onResult func(*GrowthUpdate)) error {
	return c.growth.Launch(ctx, userID, onTick, onResult)
}

// CashOut resolves the user's active session, whichever engine owns it.
func (c *Coordinator) CashOut(ctx context.Context, userID int64) (*Update, error) {
	sess, err := c.registry.Get(userID)
	if err != nil {
		return nil, err
	}
	if sess.Family == payout.FamilyCrash {
		upd, err := c.growth.CashOut(ctx, userID)
		if err != nil {
			return nil, err
		}
		return growthToUpdate(upd), nil
	}
	return c.step.CashOut(ctx, userID)
}

// View snapshots the user's active step-reveal session.
func (c *Coordinator) View(userID int64) (*Update, error) {
	return c.step.View(userID)
}

// ActiveFamily reports the family of the user's active session, or "" when
// none exists.
func (c *Coordinator) ActiveFamily(userID int64) payout.Family {
	sess, err := c.registry.Get(userID)
	if err != nil {
		return ""
	}
	return sess.Family
}

// Balance reads the user's current balance in cents.
func (c *Coordinator) Balance(ctx context.Context, userID int64) (int64, error) {
	return c.ledger.Balance(ctx, userID)
}

func growthToUpdate(g *GrowthUpdate) *Update {
	return &Update{
		Family:     payout.FamilyCrash,
		Stake:      g.Stake,
		Multiplier: g.Multiplier,
		CashValue:  g.CashValue,
		Terminal:   g.Terminal,
		Won:        g.Won,
		Payout:     g.Payout,
		Balance:    g.Balance,
	}
}
