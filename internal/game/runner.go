package game

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"telegram-casino-bot/internal/engine"
	"telegram-casino-bot/internal/model"
)

// Result couples the outcome of a play with its effect on the balance.
type Result struct {
	Outcome
	Game    string
	Stake   int64
	Balance int64
}

// Runner resolves a single-shot play and settles it against the ledger in
// one debit-then-credit step. The draw happens before the debit, but is
// discarded if the debit fails, so the player never pays for an unplayed
// round.
type Runner struct {
	registry *Registry
	ledger   engine.Ledger
	minStake int64
	maxStake int64
}

// NewRunner creates a Runner over the given registry and ledger.
func NewRunner(registry *Registry, ledger engine.Ledger, minStake, maxStake int64) *Runner {
	return &Runner{registry: registry, ledger: ledger, minStake: minStake, maxStake: maxStake}
}

// Play runs one round of the named game for the user.
func (r *Runner) Play(ctx context.Context, userID int64, command string, stake int64, choice string) (*Result, error) {
	g, ok := r.registry.Get(command)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGame, command)
	}
	if stake < r.minStake || stake > r.maxStake {
		return nil, fmt.Errorf("%w: %d", engine.ErrInvalidStake, stake)
	}

	outcome, err := g.Resolve(stake, choice)
	if err != nil {
		return nil, err
	}

	desc := fmt.Sprintf("%s stake, choice %s", g.Command(), choice)
	balance, err := r.ledger.Debit(ctx, userID, stake, model.TxTypeSingle, desc)
	if err != nil {
		return nil, err
	}

	if outcome.Payout > 0 {
		desc := fmt.Sprintf("%s %s x%.2f", g.Command(), outcome.Detail, outcome.Multiplier)
		balance, err = r.ledger.Credit(ctx, userID, outcome.Payout, model.TxTypePayout, desc)
		if err != nil {
			log.Error().
				Err(err).
				Int64("user_id", userID).
				Str("game", g.Command()).
				Int64("payout", outcome.Payout).
				Msg("Single-shot payout failed")
			return nil, err
		}
	}

	log.Info().
		Int64("user_id", userID).
		Str("game", g.Command()).
		Int64("stake", stake).
		Str("choice", choice).
		Int64("payout", outcome.Payout).
		Msg("Single-shot play settled")

	return &Result{
		Outcome: *outcome,
		Game:    g.Command(),
		Stake:   stake,
		Balance: balance,
	}, nil
}

// Games lists the registered game commands.
func (r *Runner) Games() []string {
	return r.registry.Commands()
}

// Registry exposes the underlying game registry.
func (r *Runner) Registry() *Registry {
	return r.registry
}
