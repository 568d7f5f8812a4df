package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"telegram-casino-bot/internal/model"
)

// LedgerRepository handles ledger entry persistence.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository instance.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// Append records one balance change. Stake debits carry a negative amount,
// credits a positive one.
func (r *LedgerRepository) Append(ctx context.Context, userID int64, amount int64, entryType string, description *string) (*model.LedgerEntry, error) {
	const query = `
		INSERT INTO ledger_entries (user_id, amount, type, description, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, user_id, amount, type, description, created_at
	`

	var e model.LedgerEntry
	err := r.pool.QueryRow(ctx, query, userID, amount, entryType, description).Scan(
		&e.ID,
		&e.UserID,
		&e.Amount,
		&e.Type,
		&e.Description,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return &e, nil
}

// GetByUserID retrieves a user's most recent entries, newest first.
func (r *LedgerRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]*model.LedgerEntry, error) {
	const query = `
		SELECT id, user_id, amount, type, description, created_at
		FROM ledger_entries
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*model.LedgerEntry
	for rows.Next() {
		var e model.LedgerEntry
		err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.Amount,
			&e.Type,
			&e.Description,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entries: %w", err)
	}
	return entries, nil
}

// WagerStats summarizes a user's betting activity in cents.
type WagerStats struct {
	Wagered int64 // sum of stakes
	Won     int64 // sum of game credits
	Plays   int64 // number of stakes placed
}

// StatsForUser aggregates the user's game entries. Deposits and admin
// corrections are excluded.
func (r *LedgerRepository) StatsForUser(ctx context.Context, userID int64) (*WagerStats, error) {
	const query = `
		SELECT
			COALESCE(-SUM(amount) FILTER (WHERE amount < 0), 0),
			COALESCE(SUM(amount) FILTER (WHERE amount > 0), 0),
			COUNT(*) FILTER (WHERE amount < 0)
		FROM ledger_entries
		WHERE user_id = $1 AND type = ANY($2)
	`

	var s WagerStats
	err := r.pool.QueryRow(ctx, query, userID, model.GameEntryTypes()).Scan(&s.Wagered, &s.Won, &s.Plays)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate wager stats: %w", err)
	}
	return &s, nil
}
