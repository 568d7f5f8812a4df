// Package model defines the data models for the casino bot.
package model

import "time"

// Account represents a player's balance record. All monetary amounts are
// stored in cents to avoid floating point drift in the ledger.
type Account struct {
	TelegramID  int64     `db:"telegram_id"`
	DisplayName string    `db:"display_name"`
	Balance     int64     `db:"balance"`
	Level       int       `db:"level"`
	Deposited   int64     `db:"cumulative_deposit"`
	Turnover    int64     `db:"cumulative_turnover"`
	Wins        int64     `db:"cumulative_wins"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// LedgerEntry records a single balance change. Every stake debit, payout
// credit and admin adjustment appends exactly one entry.
type LedgerEntry struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	Amount      int64     `db:"amount"`
	Type        string    `db:"type"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// Ledger entry types for categorizing balance changes.
const (
	TxTypeStake    = "stake"      // Session stake debit (negative amount)
	TxTypePayout   = "payout"     // Session settlement credit
	TxTypeRefund   = "refund"     // Stake returned for a session that never opened
	TxTypeSingle   = "singleshot" // Single-shot game net result
	TxTypeDeposit  = "deposit"    // Balance top-up
	TxTypeAdminAdd = "admin_add"  // Admin added balance
	TxTypeAdminSub = "admin_sub"  // Admin subtracted balance
	TxTypeAdminSet = "admin_set"  // Admin set balance
)

// GameEntryTypes returns the entry types that count towards wagering
// statistics (stakes and payouts only, no deposits or admin corrections).
func GameEntryTypes() []string {
	return []string{TxTypeStake, TxTypePayout, TxTypeSingle}
}
