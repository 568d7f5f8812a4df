package engine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-casino-bot/internal/session"
)

func launchSilently(t *testing.T, reg *session.Registry, userID int64) *session.Session {
	t.Helper()
	sess, err := reg.Get(userID)
	require.NoError(t, err)
	sess.Layout.(*growthLayout).launched = true
	return sess
}

func TestGrowthCashOutBeforeLaunchRejected(t *testing.T) {
	led := newFakeLedger()
	led.deposit(1, 1000)
	eng, _ := newGrowthEngine(t, led)

	_, err := eng.Open(context.Background(), 1, 100)
	require.NoError(t, err)

	_, err = eng.CashOut(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotLaunched)
}

func TestGrowthLaunchTwiceRejected(t *testing.T) {
	led := newFakeLedger()
	led.deposit(1, 1000)
	eng, reg := newGrowthEngine(t, led)

	_, err := eng.Open(context.Background(), 1, 100)
	require.NoError(t, err)
	launchSilently(t, reg, 1)

	err = eng.Launch(context.Background(), 1, nil, nil)
	assert.ErrorIs(t, err, ErrAlreadyLaunched)
}

func TestGrowthAdvancesUntilCrash(t *testing.T) {
	led := newFakeLedger()
	led.deposit(1, 1000)
	eng, reg := newGrowthEngine(t, led)

	_, err := eng.Open(context.Background(), 1, 100)
	require.NoError(t, err)
	sess := launchSilently(t, reg, 1)
	sess.SetCrashPoint(1.03)

	upd, done := eng.advance(sess)
	require.False(t, done)
	assert.Equal(t, 1.01, upd.Multiplier)
	assert.Equal(t, int64(101), upd.CashValue)

	upd, done = eng.advance(sess)
	require.False(t, done)
	assert.Equal(t, 1.02, upd.Multiplier)

	upd, done = eng.advance(sess)
	require.True(t, done)
	assert.True(t, upd.Terminal)
	assert.False(t, upd.Won)
	assert.Equal(t, 1.03, upd.CrashPoint)
	assert.Equal(t, int64(900), upd.Balance)
	assert.Equal(t, 0, reg.Len())
}

func TestGrowthImmediateCrashAtFloor(t *testing.T) {
	led := newFakeLedger()
	led.deposit(1, 1000)
	eng, reg := newGrowthEngine(t, led)

	_, err := eng.Open(context.Background(), 1, 100)
	require.NoError(t, err)
	sess := launchSilently(t, reg, 1)
	sess.SetCrashPoint(1.0)

	upd, done := eng.advance(sess)
	require.True(t, done)
	assert.False(t, upd.Won)
	assert.Equal(t, int64(900), upd.Balance)
}

func TestGrowthCashOutMidFlight(t *testing.T) {
	led := newFakeLedger()
	led.deposit(1, 2000)
	eng, reg := newGrowthEngine(t, led)

	_, err := eng.Open(context.Background(), 1, 500)
	require.NoError(t, err)
	sess := launchSilently(t, reg, 1)
	sess.SetCrashPoint(2.40)

	for i := 0; i < 110; i++ {
		_, done := eng.advance(sess)
		require.False(t, done)
	}
	assert.Equal(t, 2.10, sess.Multiplier())

	out, err := eng.CashOut(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, out.Won)
	assert.Equal(t, int64(1050), out.Payout)
	assert.Equal(t, int64(2550), out.Balance)
	assert.Equal(t, 0, reg.Len())

	_, err = eng.CashOut(context.Background(), 1)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestGrowthCrashAndCashOutAreMutuallyExclusive(t *testing.T) {
	for i := 0; i < 50; i++ {
		led := newFakeLedger()
		led.deposit(1, 1000)
		eng, reg := newGrowthEngine(t, led)

		_, err := eng.Open(context.Background(), 1, 100)
		require.NoError(t, err)
		sess := launchSilently(t, reg, 1)
		sess.SetCrashPoint(1.01)

		var wg sync.WaitGroup
		var cashErr error
		var crashed bool
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, cashErr = eng.CashOut(context.Background(), 1)
		}()
		go func() {
			defer wg.Done()
			_, crashed = eng.advance(sess)
		}()
		wg.Wait()

		if cashErr == nil {
			assert.False(t, crashed, "both crash and cash-out resolved the round")
		} else {
			assert.True(t, crashed)
		}
		assert.LessOrEqual(t, led.creditCount(), 1)
		assert.Equal(t, 0, reg.Len())
	}
}

func TestGrowthSessionInvisibleUntilStakeDebited(t *testing.T) {
	led := newFakeLedger()
	led.deposit(1, 1000)
	led.fail = errors.New("connection reset")

	entered := make(chan struct{})
	release := make(chan struct{})
	led.debitHold = func() {
		close(entered)
		<-release
	}

	eng, reg := newGrowthEngine(t, led)

	openErr := make(chan error, 1)
	go func() {
		_, err := eng.Open(context.Background(), 1, 100)
		openErr <- err
	}()

	<-entered
	_, err := eng.CashOut(context.Background(), 1)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
	err = eng.Launch(context.Background(), 1, nil, nil)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	close(release)
	require.Error(t, <-openErr)

	assert.Equal(t, 0, reg.Len())
	assert.Equal(t, 0, led.creditCount())
}

func TestGrowthShutdownSettlementFailureReportsRealBalance(t *testing.T) {
	led := newFakeLedger()
	led.deposit(1, 900)
	eng, reg := newGrowthEngine(t, led)

	_, err := eng.Open(context.Background(), 1, 100)
	require.NoError(t, err)
	sess := launchSilently(t, reg, 1)

	led.mu.Lock()
	led.creditFail = errors.New("connection reset")
	led.mu.Unlock()

	upd := eng.forceCashOut(sess)
	require.NotNil(t, upd)
	assert.True(t, upd.Terminal)
	// The payout credit failed but the player still sees their actual
	// balance rather than the zero value.
	assert.Equal(t, int64(800), upd.Balance)
}

func TestGrowthSecondOpenRefundsStake(t *testing.T) {
	led := newFakeLedger()
	led.deposit(1, 1000)
	eng, reg := newGrowthEngine(t, led)

	_, err := eng.Open(context.Background(), 1, 100)
	require.NoError(t, err)

	_, err = eng.Open(context.Background(), 1, 100)
	assert.ErrorIs(t, err, session.ErrSessionExists)
	assert.Equal(t, 1, reg.Len())

	bal, err := led.Balance(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(900), bal)
}

func TestGrowthCrashPointStaysInBounds(t *testing.T) {
	led := newFakeLedger()
	eng, _ := newGrowthEngine(t, led)

	for i := 0; i < 10_000; i++ {
		cp := eng.drawCrashPoint()
		require.GreaterOrEqual(t, cp, 1.0)
		require.LessOrEqual(t, cp, 25.0)
	}
}
