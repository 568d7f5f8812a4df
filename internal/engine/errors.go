package engine

import "errors"

// Recoverable errors reported to the caller. None of them leave partial
// state behind: no partial debit, no orphan session.
var (
	ErrInvalidStake       = errors.New("stake outside allowed bounds")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrAlreadyRevealed    = errors.New("position already revealed")
	ErrOutOfBounds        = errors.New("position outside the board")
	ErrSessionResolved    = errors.New("session already resolved")
	ErrCashOutUnavailable = errors.New("cash-out requires at least one reveal")
	ErrWrongFamily        = errors.New("action does not apply to this game family")
	ErrAlreadyLaunched    = errors.New("growth round already launched")
	ErrNotLaunched        = errors.New("growth round not launched yet")
	ErrStorageUnavailable = errors.New("account storage unavailable")
)
