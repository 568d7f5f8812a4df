// Package service provides the business logic between the Telegram layer
// and the repositories.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"telegram-casino-bot/internal/engine"
	"telegram-casino-bot/internal/model"
	"telegram-casino-bot/internal/pkg/lock"
	"telegram-casino-bot/internal/repository"
)

// LedgerService implements engine.Ledger over the account and ledger
// repositories. Every mutation runs under the user's lock, so balance
// update, history entry and counter bump form one serialized unit.
type LedgerService struct {
	accounts *repository.AccountRepository
	entries  *repository.LedgerRepository
	locks    *lock.UserLock
}

// NewLedgerService creates a new LedgerService instance.
func NewLedgerService(accounts *repository.AccountRepository, entries *repository.LedgerRepository, locks *lock.UserLock) *LedgerService {
	return &LedgerService{accounts: accounts, entries: entries, locks: locks}
}

// Debit withdraws the amount from the user's balance and appends a negative
// ledger entry. Stakes count towards the turnover leaderboard.
func (s *LedgerService) Debit(ctx context.Context, userID, amount int64, entryType, description string) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("debit amount must be positive, got %d", amount)
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	account, err := s.accounts.ApplyDelta(ctx, userID, -amount)
	if err != nil {
		return 0, translateRepoError(err)
	}

	s.record(ctx, userID, -amount, entryType, description)

	if entryType == model.TxTypeStake || entryType == model.TxTypeSingle {
		if err := s.accounts.AddCounters(ctx, userID, 0, amount, 0); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("Failed to bump turnover counter")
		}
	}

	return account.Balance, nil
}

// Credit deposits the amount onto the user's balance and appends a positive
// ledger entry. Payouts count towards the wins leaderboard, deposits
// towards the deposit leaderboard.
func (s *LedgerService) Credit(ctx context.Context, userID, amount int64, entryType, description string) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("credit amount must be positive, got %d", amount)
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	account, err := s.accounts.ApplyDelta(ctx, userID, amount)
	if err != nil {
		return 0, translateRepoError(err)
	}

	s.record(ctx, userID, amount, entryType, description)

	switch entryType {
	case model.TxTypePayout:
		if err := s.accounts.AddCounters(ctx, userID, 0, 0, 1); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("Failed to bump wins counter")
		}
	case model.TxTypeDeposit:
		if err := s.accounts.AddCounters(ctx, userID, amount, 0, 0); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("Failed to bump deposit counter")
		}
	case model.TxTypeRefund:
		// A refunded stake reverses the turnover its debit counted.
		if err := s.accounts.AddCounters(ctx, userID, 0, -amount, 0); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("Failed to reverse turnover counter")
		}
	}

	return account.Balance, nil
}

// Balance reads the user's current balance.
func (s *LedgerService) Balance(ctx context.Context, userID int64) (int64, error) {
	account, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		return 0, translateRepoError(err)
	}
	return account.Balance, nil
}

// record appends the history entry. The balance has already moved, so a
// failed append loses audit detail but never money; it is logged and the
// operation continues.
func (s *LedgerService) record(ctx context.Context, userID, amount int64, entryType, description string) {
	var desc *string
	if description != "" {
		desc = &description
	}
	if _, err := s.entries.Append(ctx, userID, amount, entryType, desc); err != nil {
		log.Error().
			Err(err).
			Int64("user_id", userID).
			Int64("amount", amount).
			Str("type", entryType).
			Msg("Failed to append ledger entry")
	}
}

// translateRepoError maps repository errors onto the engine's sentinels so
// the game layer never imports the storage layer's error set.
func translateRepoError(err error) error {
	switch {
	case errors.Is(err, repository.ErrInsufficientFunds):
		return fmt.Errorf("%w", engine.ErrInsufficientFunds)
	case errors.Is(err, repository.ErrAccountNotFound):
		return err
	default:
		return fmt.Errorf("%w: %v", engine.ErrStorageUnavailable, err)
	}
}
