package engine

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"telegram-casino-bot/internal/model"
	"telegram-casino-bot/internal/payout"
	"telegram-casino-bot/internal/session"
)

// Settlement resolves sessions to their terminal outcome. It is the only
// component that credits session payouts to the ledger and the only one
// that removes sessions from the registry.
//
// Exactly-once is guaranteed by construction: callers must win the session's
// Active->Resolved transition (Session.ResolveLocked) before invoking
// Settle, so at most one caller per session ever reaches the ledger.
type Settlement struct {
	ledger   Ledger
	registry *session.Registry
}

// NewSettlement creates a Settlement over the given ledger and registry.
func NewSettlement(ledger Ledger, registry *session.Registry) *Settlement {
	return &Settlement{ledger: ledger, registry: registry}
}

// Settle credits the payout (possibly zero) for a resolved session, removes
// it from the registry and returns the updated balance. A zero payout
// writes nothing to the ledger.
func (s *Settlement) Settle(ctx context.Context, sess *session.Session, payout int64) (int64, error) {
	s.registry.Remove(sess.OwnerID)

	var (
		balance int64
		err     error
	)
	if payout > 0 {
		desc := fmt.Sprintf("%s win x%.2f", sess.Family, float64(payout)/float64(sess.Stake))
		balance, err = s.ledger.Credit(ctx, sess.OwnerID, payout, model.TxTypePayout, desc)
	} else {
		balance, err = s.ledger.Balance(ctx, sess.OwnerID)
	}
	if err != nil {
		// The outcome is decided; losing the credit would destroy money.
		// Surface the error and let the caller retry the credit by balance
		// correction through admin tooling if it persists.
		log.Error().
			Err(err).
			Int64("user_id", sess.OwnerID).
			Str("family", string(sess.Family)).
			Int64("payout", payout).
			Msg("Settlement ledger write failed")
		return 0, err
	}

	log.Info().
		Int64("user_id", sess.OwnerID).
		Str("family", string(sess.Family)).
		Int64("stake", sess.Stake).
		Int64("payout", payout).
		Msg("Session settled")

	return balance, nil
}

// refundStake returns an escrowed stake whose session never became visible
// (the open lost the registry race after the debit landed). Failure is
// logged for admin correction; the caller still reports the original error.
func refundStake(ctx context.Context, ledger Ledger, userID, stake int64, family payout.Family) {
	desc := fmt.Sprintf("%s stake refund", family)
	if _, err := ledger.Credit(ctx, userID, stake, model.TxTypeRefund, desc); err != nil {
		log.Error().
			Err(err).
			Int64("user_id", userID).
			Int64("stake", stake).
			Str("family", string(family)).
			Msg("Stake refund failed")
	}
}
