package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"telegram-casino-bot/internal/payout"
	"telegram-casino-bot/internal/pkg/random"
	"telegram-casino-bot/internal/session"
)

type fakeEntry struct {
	userID      int64
	amount      int64
	entryType   string
	description string
}

// fakeLedger is an in-memory Ledger for engine tests. It mirrors the
// production contract: per-instance serialization, non-negative balances,
// sentinel errors on refusal.
type fakeLedger struct {
	mu        sync.Mutex
	balances  map[int64]int64
	entries   []fakeEntry
	fail       error
	creditFail error
	debitHold  func() // when set, called at the top of Debit before any state change
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{balances: make(map[int64]int64)}
}

func (f *fakeLedger) deposit(userID, amount int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[userID] += amount
}

func (f *fakeLedger) Debit(_ context.Context, userID, amount int64, entryType, description string) (int64, error) {
	f.mu.Lock()
	hold := f.debitHold
	f.mu.Unlock()
	if hold != nil {
		hold()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return 0, f.fail
	}
	if f.balances[userID] < amount {
		return 0, fmt.Errorf("debit %d: %w", amount, ErrInsufficientFunds)
	}
	f.balances[userID] -= amount
	f.entries = append(f.entries, fakeEntry{userID, -amount, entryType, description})
	return f.balances[userID], nil
}

func (f *fakeLedger) Credit(_ context.Context, userID, amount int64, entryType, description string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return 0, f.fail
	}
	if f.creditFail != nil {
		return 0, f.creditFail
	}
	f.balances[userID] += amount
	f.entries = append(f.entries, fakeEntry{userID, amount, entryType, description})
	return f.balances[userID], nil
}

func (f *fakeLedger) Balance(_ context.Context, userID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return 0, f.fail
	}
	return f.balances[userID], nil
}

func (f *fakeLedger) creditCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.entries {
		if e.amount > 0 {
			n++
		}
	}
	return n
}

func testConfig() Config {
	return Config{MinStake: 20, MaxStake: 100_000, BalloonPopChance: 0.15}
}

func newStepEngine(t *testing.T, led *fakeLedger) (*StepReveal, *session.Registry) {
	t.Helper()
	reg := session.NewRegistry()
	tables, err := payout.NewRegistry()
	require.NoError(t, err)
	eng := NewStepReveal(testConfig(), tables, led, reg, NewSettlement(led, reg), random.NewPRNG(1))
	return eng, reg
}

func newGrowthEngine(t *testing.T, led *fakeLedger) (*Growth, *session.Registry) {
	t.Helper()
	reg := session.NewRegistry()
	gc := GrowthConfig{HouseEdge: 0.05, TickInterval: 1, Step: 0.01, MaxMultiplier: 25.0}
	eng := NewGrowth(testConfig(), gc, led, reg, NewSettlement(led, reg), random.NewPRNG(1))
	return eng, reg
}
