package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-casino-bot/internal/model"
	"telegram-casino-bot/internal/payout"
	"telegram-casino-bot/internal/session"
)

func TestStepRevealOpenRejectsStakeOutsideBounds(t *testing.T) {
	led := newFakeLedger()
	led.deposit(1, 1_000_000)
	eng, reg := newStepEngine(t, led)

	_, err := eng.Open(context.Background(), 1, payout.FamilyMines, 19, 3)
	assert.ErrorIs(t, err, ErrInvalidStake)

	_, err = eng.Open(context.Background(), 1, payout.FamilyMines, 100_001, 3)
	assert.ErrorIs(t, err, ErrInvalidStake)

	assert.Equal(t, 0, reg.Len())
}

func TestStepRevealOpenRejectsUnknownRisk(t *testing.T) {
	led := newFakeLedger()
	led.deposit(1, 1000)
	eng, reg := newStepEngine(t, led)

	_, err := eng.Open(context.Background(), 1, payout.FamilyMines, 100, 1)
	assert.ErrorIs(t, err, payout.ErrUnknownRiskParameter)
	assert.Equal(t, 0, reg.Len())
}

func TestStepRevealOpenInsufficientFundsLeavesNoSession(t *testing.T) {
	led := newFakeLedger()
	led.deposit(1, 50)
	eng, reg := newStepEngine(t, led)

	_, err := eng.Open(context.Background(), 1, payout.FamilyMines, 100, 3)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 0, reg.Len())

	bal, err := led.Balance(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(50), bal)
}

func TestStepRevealOpenIsExclusivePerUser(t *testing.T) {
	led := newFakeLedger()
	led.deposit(1, 1000)
	eng, reg := newStepEngine(t, led)

	_, err := eng.Open(context.Background(), 1, payout.FamilyMines, 100, 3)
	require.NoError(t, err)

	_, err = eng.Open(context.Background(), 1, payout.FamilyTower, 50, 2)
	assert.ErrorIs(t, err, session.ErrSessionExists)
	assert.Equal(t, 1, reg.Len())

	// The rejected open escrowed its stake and got it straight back.
	bal, err := led.Balance(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(900), bal)

	led.mu.Lock()
	last := led.entries[len(led.entries)-1]
	led.mu.Unlock()
	assert.Equal(t, model.TxTypeRefund, last.entryType)
	assert.Equal(t, int64(50), last.amount)
}

func TestStepRevealSessionInvisibleUntilStakeDebited(t *testing.T) {
	led := newFakeLedger()
	led.deposit(1, 1000)
	led.fail = errors.New("connection reset")

	entered := make(chan struct{})
	release := make(chan struct{})
	led.debitHold = func() {
		close(entered)
		<-release
	}

	eng, reg := newStepEngine(t, led)

	openErr := make(chan error, 1)
	go func() {
		_, err := eng.Open(context.Background(), 1, payout.FamilyBalloon, 100, 0)
		openErr <- err
	}()

	// The stake debit is in flight; the session must not be actionable,
	// so a cash-out cannot collect money the debit never delivered.
	<-entered
	_, err := eng.CashOut(context.Background(), 1)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
	_, err = eng.Reveal(context.Background(), 1, 0)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	close(release)
	require.Error(t, <-openErr)

	assert.Equal(t, 0, reg.Len())
	assert.Equal(t, 0, led.creditCount())

	led.mu.Lock()
	led.fail = nil
	led.mu.Unlock()
	bal, err := led.Balance(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), bal)
}

func TestStepRevealRevealThenCashOut(t *testing.T) {
	led := newFakeLedger()
	led.deposit(1, 1000)
	eng, reg := newStepEngine(t, led)

	upd, err := eng.Open(context.Background(), 1, payout.FamilyMines, 100, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, upd.Step)
	assert.Equal(t, 1.0, upd.Multiplier)
	assert.Equal(t, 1.15, upd.Next)
	assert.Equal(t, int64(900), upd.Balance)

	// Pin the layout so the test controls which cells are safe.
	sess, err := reg.Get(1)
	require.NoError(t, err)
	sess.Layout = &cellLayout{cells: MinesCells, hazards: map[int]struct{}{0: {}, 1: {}, 2: {}}}

	upd, err = eng.Reveal(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.False(t, upd.Terminal)
	assert.Equal(t, 1, upd.Step)
	assert.Equal(t, 1.15, upd.Multiplier)
	assert.Equal(t, int64(115), upd.CashValue)

	upd, err = eng.Reveal(context.Background(), 1, 6)
	require.NoError(t, err)
	assert.Equal(t, 2, upd.Step)
	assert.Equal(t, 1.33, upd.Multiplier)

	out, err := eng.CashOut(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, out.Terminal)
	assert.True(t, out.Won)
	assert.Equal(t, int64(133), out.Payout)
	assert.Equal(t, int64(1033), out.Balance)
	assert.Equal(t, 0, reg.Len())
}

func TestStepRevealHazardLosesStake(t *testing.T) {
	led := newFakeLedger()
	led.deposit(1, 1000)
	eng, reg := newStepEngine(t, led)

	_, err := eng.Open(context.Background(), 1, payout.FamilyMines, 100, 3)
	require.NoError(t, err)

	sess, err := reg.Get(1)
	require.NoError(t, err)
	sess.Layout = &cellLayout{cells: MinesCells, hazards: map[int]struct{}{7: {}, 8: {}, 9: {}}}

	upd, err := eng.Reveal(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.True(t, upd.Terminal)
	assert.False(t, upd.Won)
	assert.Equal(t, int64(0), upd.Payout)
	assert.Equal(t, int64(900), upd.Balance)
	assert.ElementsMatch(t, []int{7, 8, 9}, upd.Hazards)
	assert.Equal(t, 0, reg.Len())

	_, err = eng.Reveal(context.Background(), 1, 8)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestStepRevealRejectsDuplicateAndOutOfBounds(t *testing.T) {
	led := newFakeLedger()
	led.deposit(1, 1000)
	eng, reg := newStepEngine(t, led)

	_, err := eng.Open(context.Background(), 1, payout.FamilyMines, 100, 3)
	require.NoError(t, err)

	sess, err := reg.Get(1)
	require.NoError(t, err)
	sess.Layout = &cellLayout{cells: MinesCells, hazards: map[int]struct{}{0: {}, 1: {}, 2: {}}}

	_, err = eng.Reveal(context.Background(), 1, 25)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = eng.Reveal(context.Background(), 1, -1)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = eng.Reveal(context.Background(), 1, 5)
	require.NoError(t, err)
	_, err = eng.Reveal(context.Background(), 1, 5)
	assert.ErrorIs(t, err, ErrAlreadyRevealed)
}

func TestStepRevealCashOutNeedsAReveal(t *testing.T) {
	led := newFakeLedger()
	led.deposit(1, 1000)
	eng, _ := newStepEngine(t, led)

	_, err := eng.Open(context.Background(), 1, payout.FamilyMines, 100, 3)
	require.NoError(t, err)

	_, err = eng.CashOut(context.Background(), 1)
	assert.ErrorIs(t, err, ErrCashOutUnavailable)
}

func TestStepRevealBalloonCashOutAtZeroPumpsRefunds(t *testing.T) {
	led := newFakeLedger()
	led.deposit(1, 1000)
	eng, reg := newStepEngine(t, led)

	_, err := eng.Open(context.Background(), 1, payout.FamilyBalloon, 100, 0)
	require.NoError(t, err)

	out, err := eng.CashOut(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, out.Won)
	assert.Equal(t, int64(100), out.Payout)
	assert.Equal(t, int64(1000), out.Balance)
	assert.Equal(t, 0, reg.Len())
}

func TestStepRevealBalloonPopsAtPrecommittedStep(t *testing.T) {
	led := newFakeLedger()
	led.deposit(1, 1000)
	eng, reg := newStepEngine(t, led)

	_, err := eng.Open(context.Background(), 1, payout.FamilyBalloon, 100, 0)
	require.NoError(t, err)

	sess, err := reg.Get(1)
	require.NoError(t, err)
	sess.Layout = &popLayout{popStep: 3}

	upd, err := eng.Reveal(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, upd.Step)
	assert.Equal(t, 1.2, upd.Multiplier)

	upd, err = eng.Reveal(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, upd.Step)
	assert.Equal(t, 1.4, upd.Multiplier)

	upd, err = eng.Reveal(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.True(t, upd.Terminal)
	assert.False(t, upd.Won)
	assert.Equal(t, int64(900), upd.Balance)
}

func TestStepRevealTowerRowAdvancesPerFloor(t *testing.T) {
	led := newFakeLedger()
	led.deposit(1, 1000)
	eng, reg := newStepEngine(t, led)

	_, err := eng.Open(context.Background(), 1, payout.FamilyTower, 100, 1)
	require.NoError(t, err)

	sess, err := reg.Get(1)
	require.NoError(t, err)
	hazards := make([][]int, TowerFloors)
	for f := range hazards {
		hazards[f] = []int{0} // dragon always in the first column
	}
	sess.Layout = &rowLayout{width: TowerWidth, floors: TowerFloors, hazards: hazards}

	upd, err := eng.Reveal(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, upd.Step)
	assert.Equal(t, 1.2, upd.Multiplier)

	upd, err = eng.Reveal(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.True(t, upd.Terminal)
	assert.False(t, upd.Won)
}

func TestStepRevealCryptAutoWinsAfterTwoReveals(t *testing.T) {
	led := newFakeLedger()
	led.deposit(1, 1000)
	eng, reg := newStepEngine(t, led)

	_, err := eng.Open(context.Background(), 1, payout.FamilyCrypt, 100, 0)
	require.NoError(t, err)

	sess, err := reg.Get(1)
	require.NoError(t, err)
	hazards := make(map[int]struct{})
	for i := 5; i < 15; i++ {
		hazards[i] = struct{}{}
	}
	sess.Layout = &cellLayout{cells: CryptCells, hazards: hazards}

	upd, err := eng.Reveal(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.False(t, upd.Terminal)
	assert.Equal(t, 1.9, upd.Multiplier)

	upd, err = eng.Reveal(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.True(t, upd.Terminal)
	assert.True(t, upd.Won)
	assert.Equal(t, int64(390), upd.Payout)
	assert.Equal(t, int64(1290), upd.Balance)
	assert.Equal(t, 0, reg.Len())
}

func TestStepRevealViewSnapshotsWithoutMutating(t *testing.T) {
	led := newFakeLedger()
	led.deposit(1, 1000)
	eng, _ := newStepEngine(t, led)

	_, err := eng.Open(context.Background(), 1, payout.FamilyVault, 100, 0)
	require.NoError(t, err)

	v1, err := eng.View(1)
	require.NoError(t, err)
	v2, err := eng.View(1)
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
	assert.Equal(t, 0, v1.Step)
	assert.Equal(t, 1.9, v1.Next)
}
