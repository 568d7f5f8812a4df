// Package repository provides the data access layer over PostgreSQL.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"telegram-casino-bot/internal/model"
)

// Common errors for repository operations.
var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnknownRanking    = errors.New("unknown ranking key")
)

const accountColumns = `telegram_id, display_name, balance, level,
		cumulative_deposit, cumulative_turnover, cumulative_wins, created_at, updated_at`

// AccountRepository handles account persistence.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository instance.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func scanAccount(row pgx.Row) (*model.Account, error) {
	var a model.Account
	err := row.Scan(
		&a.TelegramID,
		&a.DisplayName,
		&a.Balance,
		&a.Level,
		&a.Deposited,
		&a.Turnover,
		&a.Wins,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create creates an account with the given starting balance in cents.
func (r *AccountRepository) Create(ctx context.Context, telegramID int64, displayName string, initialBalance int64) (*model.Account, error) {
	query := `
		INSERT INTO accounts (telegram_id, display_name, balance, level, created_at, updated_at)
		VALUES ($1, $2, $3, 1, NOW(), NOW())
		RETURNING ` + accountColumns

	a, err := scanAccount(r.pool.QueryRow(ctx, query, telegramID, displayName, initialBalance))
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return a, nil
}

// GetByID retrieves an account by Telegram ID.
// Returns ErrAccountNotFound if the account does not exist.
func (r *AccountRepository) GetByID(ctx context.Context, telegramID int64) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE telegram_id = $1`

	a, err := scanAccount(r.pool.QueryRow(ctx, query, telegramID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return a, nil
}

// GetOrCreate retrieves an account, creating it with the initial balance on
// first contact. The boolean reports whether a new account was created.
func (r *AccountRepository) GetOrCreate(ctx context.Context, telegramID int64, displayName string, initialBalance int64) (*model.Account, bool, error) {
	a, err := r.GetByID(ctx, telegramID)
	if err == nil {
		return a, false, nil
	}
	if !errors.Is(err, ErrAccountNotFound) {
		return nil, false, err
	}

	a, err = r.Create(ctx, telegramID, displayName, initialBalance)
	if err != nil {
		// Race with a concurrent first contact: the other insert won.
		a, err = r.GetByID(ctx, telegramID)
		if err != nil {
			return nil, false, err
		}
		return a, false, nil
	}
	return a, true, nil
}

// ApplyDelta atomically adds the (possibly negative) amount to the balance.
// The guard in the WHERE clause makes an overdraft impossible: the update
// matches no row and ErrInsufficientFunds is returned instead.
func (r *AccountRepository) ApplyDelta(ctx context.Context, telegramID int64, delta int64) (*model.Account, error) {
	query := `
		UPDATE accounts
		SET balance = balance + $2, updated_at = NOW()
		WHERE telegram_id = $1 AND balance + $2 >= 0
		RETURNING ` + accountColumns

	a, err := scanAccount(r.pool.QueryRow(ctx, query, telegramID, delta))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			exists, exErr := r.Exists(ctx, telegramID)
			if exErr != nil {
				return nil, exErr
			}
			if !exists {
				return nil, ErrAccountNotFound
			}
			return nil, ErrInsufficientFunds
		}
		return nil, fmt.Errorf("failed to apply balance delta: %w", err)
	}
	return a, nil
}

// SetBalance sets the balance to an exact value. Admin operations only.
func (r *AccountRepository) SetBalance(ctx context.Context, telegramID int64, balance int64) (*model.Account, error) {
	query := `
		UPDATE accounts
		SET balance = $2, updated_at = NOW()
		WHERE telegram_id = $1
		RETURNING ` + accountColumns

	a, err := scanAccount(r.pool.QueryRow(ctx, query, telegramID, balance))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to set balance: %w", err)
	}
	return a, nil
}

// AddCounters bumps the cumulative statistics used by the leaderboards.
// Zero arguments leave their counter untouched.
func (r *AccountRepository) AddCounters(ctx context.Context, telegramID int64, deposit, turnover, wins int64) error {
	const query = `
		UPDATE accounts
		SET cumulative_deposit = cumulative_deposit + $2,
		    cumulative_turnover = cumulative_turnover + $3,
		    cumulative_wins = cumulative_wins + $4,
		    updated_at = NOW()
		WHERE telegram_id = $1
	`

	tag, err := r.pool.Exec(ctx, query, telegramID, deposit, turnover, wins)
	if err != nil {
		return fmt.Errorf("failed to add counters: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// SetLevel persists a recomputed account level.
func (r *AccountRepository) SetLevel(ctx context.Context, telegramID int64, level int) error {
	const query = `UPDATE accounts SET level = $2, updated_at = NOW() WHERE telegram_id = $1`

	tag, err := r.pool.Exec(ctx, query, telegramID, level)
	if err != nil {
		return fmt.Errorf("failed to set level: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// Ranking keys accepted by TopBy, mapped to their order column.
var rankingColumns = map[string]string{
	"deposit":  "cumulative_deposit",
	"turnover": "cumulative_turnover",
	"wins":     "cumulative_wins",
	"balance":  "balance",
}

// TopBy returns the top accounts ordered by the given ranking key.
func (r *AccountRepository) TopBy(ctx context.Context, key string, limit int) ([]*model.Account, error) {
	column, ok := rankingColumns[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRanking, key)
	}

	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY ` + column + ` DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}
	return accounts, nil
}

// UpdateDisplayName refreshes the cached display name after a user renames
// themselves on Telegram.
func (r *AccountRepository) UpdateDisplayName(ctx context.Context, telegramID int64, displayName string) error {
	const query = `UPDATE accounts SET display_name = $2, updated_at = NOW() WHERE telegram_id = $1`

	tag, err := r.pool.Exec(ctx, query, telegramID, displayName)
	if err != nil {
		return fmt.Errorf("failed to update display name: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// Exists checks whether an account with the given Telegram ID exists.
func (r *AccountRepository) Exists(ctx context.Context, telegramID int64) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM accounts WHERE telegram_id = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, telegramID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check account existence: %w", err)
	}
	return exists, nil
}
