package game_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-casino-bot/internal/engine"
	"telegram-casino-bot/internal/game"
)

// stubGame always resolves to the configured outcome.
type stubGame struct {
	command string
	outcome game.Outcome
}

func (s *stubGame) Name() string      { return s.command }
func (s *stubGame) Command() string   { return s.command }
func (s *stubGame) Choices() []string { return []string{"a", "b"} }

func (s *stubGame) Resolve(stake int64, choice string) (*game.Outcome, error) {
	if choice != "a" && choice != "b" {
		return nil, fmt.Errorf("%w: %s", game.ErrUnknownChoice, choice)
	}
	out := s.outcome
	return &out, nil
}

type memLedger struct {
	mu       sync.Mutex
	balances map[int64]int64
}

func newMemLedger() *memLedger { return &memLedger{balances: make(map[int64]int64)} }

func (m *memLedger) Debit(_ context.Context, userID, amount int64, _, _ string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.balances[userID] < amount {
		return 0, fmt.Errorf("debit: %w", engine.ErrInsufficientFunds)
	}
	m.balances[userID] -= amount
	return m.balances[userID], nil
}

func (m *memLedger) Credit(_ context.Context, userID, amount int64, _, _ string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[userID] += amount
	return m.balances[userID], nil
}

func (m *memLedger) Balance(_ context.Context, userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[userID], nil
}

func newRunner(t *testing.T, led *memLedger, games ...game.Game) *game.Runner {
	t.Helper()
	reg := game.NewRegistry()
	for _, g := range games {
		require.NoError(t, reg.Register(g))
	}
	return game.NewRunner(reg, led, 20, 100_000)
}

func TestRunnerSettlesWin(t *testing.T) {
	led := newMemLedger()
	led.balances[1] = 1000
	win := &stubGame{command: "win", outcome: game.Outcome{Won: true, Multiplier: 2.0, Payout: 200}}
	r := newRunner(t, led, win)

	res, err := r.Play(context.Background(), 1, "win", 100, "a")
	require.NoError(t, err)
	assert.True(t, res.Won)
	assert.Equal(t, int64(200), res.Payout)
	assert.Equal(t, int64(1100), res.Balance)
}

func TestRunnerSettlesLoss(t *testing.T) {
	led := newMemLedger()
	led.balances[1] = 1000
	lose := &stubGame{command: "lose"}
	r := newRunner(t, led, lose)

	res, err := r.Play(context.Background(), 1, "lose", 100, "a")
	require.NoError(t, err)
	assert.False(t, res.Won)
	assert.Equal(t, int64(900), res.Balance)
}

func TestRunnerRejectsUnknownGameAndStake(t *testing.T) {
	led := newMemLedger()
	led.balances[1] = 1000
	r := newRunner(t, led, &stubGame{command: "g"})

	_, err := r.Play(context.Background(), 1, "nope", 100, "a")
	assert.ErrorIs(t, err, game.ErrUnknownGame)

	_, err = r.Play(context.Background(), 1, "g", 19, "a")
	assert.ErrorIs(t, err, engine.ErrInvalidStake)

	_, err = r.Play(context.Background(), 1, "g", 100_001, "a")
	assert.ErrorIs(t, err, engine.ErrInvalidStake)

	// Nothing was charged for rejected plays.
	bal, err := led.Balance(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), bal)
}

func TestRunnerInsufficientFundsChargesNothing(t *testing.T) {
	led := newMemLedger()
	led.balances[1] = 50
	r := newRunner(t, led, &stubGame{command: "g"})

	_, err := r.Play(context.Background(), 1, "g", 100, "a")
	assert.ErrorIs(t, err, engine.ErrInsufficientFunds)

	bal, err := led.Balance(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(50), bal)
}

func TestRunnerRejectsBadChoiceBeforeDebit(t *testing.T) {
	led := newMemLedger()
	led.balances[1] = 1000
	r := newRunner(t, led, &stubGame{command: "g"})

	_, err := r.Play(context.Background(), 1, "g", 100, "zzz")
	assert.ErrorIs(t, err, game.ErrUnknownChoice)

	bal, err := led.Balance(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), bal)
}
