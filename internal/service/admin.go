package service

import (
	"context"
	"fmt"

	"telegram-casino-bot/internal/model"
	"telegram-casino-bot/internal/pkg/lock"
	"telegram-casino-bot/internal/repository"
)

// AdminService implements the balance correction commands. Every correction
// leaves a ledger entry, so admin activity is as auditable as play.
type AdminService struct {
	accounts *repository.AccountRepository
	ledger   *LedgerService
	locks    *lock.UserLock
}

// NewAdminService creates a new AdminService instance.
func NewAdminService(accounts *repository.AccountRepository, ledger *LedgerService, locks *lock.UserLock) *AdminService {
	return &AdminService{accounts: accounts, ledger: ledger, locks: locks}
}

// AddBalance credits the amount onto the user's balance.
func (s *AdminService) AddBalance(ctx context.Context, telegramID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return s.ledger.Credit(ctx, telegramID, amount, model.TxTypeAdminAdd, "admin correction")
}

// SubBalance debits the amount from the user's balance. Fails rather than
// driving the balance negative.
func (s *AdminService) SubBalance(ctx context.Context, telegramID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return s.ledger.Debit(ctx, telegramID, amount, model.TxTypeAdminSub, "admin correction")
}

// SetBalance overwrites the balance with an exact value and records the
// implied delta in the ledger.
func (s *AdminService) SetBalance(ctx context.Context, telegramID, balance int64) (int64, error) {
	if balance < 0 {
		return 0, ErrInvalidAmount
	}

	s.locks.Lock(telegramID)
	defer s.locks.Unlock(telegramID)

	before, err := s.accounts.GetByID(ctx, telegramID)
	if err != nil {
		return 0, translateRepoError(err)
	}

	account, err := s.accounts.SetBalance(ctx, telegramID, balance)
	if err != nil {
		return 0, translateRepoError(err)
	}

	desc := fmt.Sprintf("admin set balance to %d", balance)
	s.ledger.record(ctx, telegramID, balance-before.Balance, model.TxTypeAdminSet, desc)

	return account.Balance, nil
}
