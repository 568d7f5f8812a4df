package engine

import "context"

// Ledger is the engines' view of the account store. All balance mutation in
// the system funnels through it; implementations serialize mutations per
// user and never let a balance go negative.
//
// Debit returns an error wrapping ErrInsufficientFunds when the amount
// exceeds the balance, and ErrStorageUnavailable on persistence failure; in
// both cases the operation has not happened.
type Ledger interface {
	Debit(ctx context.Context, userID, amount int64, entryType, description string) (newBalance int64, err error)
	Credit(ctx context.Context, userID, amount int64, entryType, description string) (newBalance int64, err error)
	Balance(ctx context.Context, userID int64) (int64, error)
}
