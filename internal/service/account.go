package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"telegram-casino-bot/internal/model"
	"telegram-casino-bot/internal/repository"
)

// Common errors for account operations.
var (
	ErrInvalidAmount = errors.New("amount must be positive")
)

// maxLevel caps account progression.
const maxLevel = 10

// turnoverPerLevel is the wagered turnover in cents needed per level.
const turnoverPerLevel = 100_000

// AccountService handles account lifecycle and profile queries.
type AccountService struct {
	accounts       *repository.AccountRepository
	entries        *repository.LedgerRepository
	ledger         *LedgerService
	initialBalance int64
}

// NewAccountService creates a new AccountService instance.
func NewAccountService(accounts *repository.AccountRepository, entries *repository.LedgerRepository, ledger *LedgerService, initialBalance int64) *AccountService {
	return &AccountService{
		accounts:       accounts,
		entries:        entries,
		ledger:         ledger,
		initialBalance: initialBalance,
	}
}

// EnsureAccount creates the account on first contact and keeps the display
// name fresh afterwards. Returns the account and whether it is new.
func (s *AccountService) EnsureAccount(ctx context.Context, telegramID int64, displayName string) (*model.Account, bool, error) {
	account, created, err := s.accounts.GetOrCreate(ctx, telegramID, displayName, s.initialBalance)
	if err != nil {
		return nil, false, fmt.Errorf("failed to ensure account: %w", err)
	}

	if created && s.initialBalance > 0 {
		welcome := "welcome balance"
		if _, err := s.entries.Append(ctx, telegramID, s.initialBalance, model.TxTypeDeposit, &welcome); err != nil {
			log.Error().Err(err).Int64("user_id", telegramID).Msg("Failed to record welcome balance")
		}
	}

	if !created && displayName != "" && account.DisplayName != displayName {
		if err := s.accounts.UpdateDisplayName(ctx, telegramID, displayName); err != nil {
			log.Warn().Err(err).Int64("user_id", telegramID).Msg("Failed to refresh display name")
		} else {
			account.DisplayName = displayName
		}
	}

	return account, created, nil
}

// GetAccount retrieves an account by Telegram ID.
func (s *AccountService) GetAccount(ctx context.Context, telegramID int64) (*model.Account, error) {
	return s.accounts.GetByID(ctx, telegramID)
}

// GetBalance retrieves the user's current balance in cents.
func (s *AccountService) GetBalance(ctx context.Context, telegramID int64) (int64, error) {
	return s.ledger.Balance(ctx, telegramID)
}

// Deposit credits a top-up onto the balance.
func (s *AccountService) Deposit(ctx context.Context, telegramID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return s.ledger.Credit(ctx, telegramID, amount, model.TxTypeDeposit, "deposit")
}

// Profile couples the account with its aggregated wagering statistics.
type Profile struct {
	Account *model.Account
	Stats   *repository.WagerStats
}

// GetProfile loads the account and its wager stats, refreshing the stored
// level when the turnover has crossed a threshold.
func (s *AccountService) GetProfile(ctx context.Context, telegramID int64) (*Profile, error) {
	account, err := s.accounts.GetByID(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	stats, err := s.entries.StatsForUser(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	if level := levelFor(account.Turnover); level != account.Level {
		if err := s.accounts.SetLevel(ctx, telegramID, level); err != nil {
			log.Warn().Err(err).Int64("user_id", telegramID).Msg("Failed to persist level")
		} else {
			account.Level = level
		}
	}

	return &Profile{Account: account, Stats: stats}, nil
}

// History returns the user's most recent ledger entries, newest first.
func (s *AccountService) History(ctx context.Context, telegramID int64, limit int) ([]*model.LedgerEntry, error) {
	return s.entries.GetByUserID(ctx, telegramID, limit)
}

// levelFor derives the account level from cumulative turnover: one level
// per $1000 wagered, capped at maxLevel.
func levelFor(turnover int64) int {
	level := 1 + int(turnover/turnoverPerLevel)
	if level > maxLevel {
		return maxLevel
	}
	return level
}
