package engine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"telegram-casino-bot/internal/model"
	"telegram-casino-bot/internal/payout"
	"telegram-casino-bot/internal/pkg/random"
	"telegram-casino-bot/internal/session"
)

// GrowthConfig parameterizes the live-multiplier game.
type GrowthConfig struct {
	HouseEdge     float64
	TickInterval  time.Duration
	Step          float64
	MaxMultiplier float64
}

// growthLayout tags a session as belonging to the growth game and tracks
// whether its ticker has been started. Guarded by the session mutex.
type growthLayout struct {
	launched bool
}

// GrowthUpdate reports the state of a growth round. CrashPoint is disclosed
// only once the round is over.
type GrowthUpdate struct {
	Stake      int64
	Multiplier float64
	CashValue  int64
	Terminal   bool
	Won        bool
	Payout     int64
	Balance    int64
	CrashPoint float64
}

// Growth runs the crash-style game: the stake is committed up front, a
// hidden crash point is drawn, and after launch the multiplier climbs one
// step per tick until the player cashes out or the round crashes.
type Growth struct {
	cfg      Config
	growth   GrowthConfig
	ledger   Ledger
	registry *session.Registry
	settle   *Settlement
	rng      random.Source
}

// NewGrowth creates the growth engine.
func NewGrowth(cfg Config, growth GrowthConfig, ledger Ledger, registry *session.Registry, settle *Settlement, rng random.Source) *Growth {
	return &Growth{
		cfg:      cfg,
		growth:   growth,
		ledger:   ledger,
		registry: registry,
		settle:   settle,
		rng:      rng,
	}
}

// Open debits the stake and draws the crash point. The round does not move
// until Launch is called.
func (e *Growth) Open(ctx context.Context, userID int64, stake int64) (*GrowthUpdate, error) {
	if stake < e.cfg.MinStake || stake > e.cfg.MaxStake {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStake, stake)
	}

	sess := session.New(userID, payout.FamilyCrash, stake, 0, &growthLayout{})
	sess.SetCrashPoint(e.drawCrashPoint())

	// Escrow the stake before the session becomes visible: an unfunded
	// session must never be actionable.
	balance, err := e.ledger.Debit(ctx, userID, stake, model.TxTypeStake, "crash stake")
	if err != nil {
		return nil, err
	}

	if err := e.registry.Put(sess); err != nil {
		refundStake(ctx, e.ledger, userID, stake, payout.FamilyCrash)
		return nil, err
	}

	log.Info().
		Int64("user_id", userID).
		Int64("stake", stake).
		Msg("Growth round opened")

	return &GrowthUpdate{
		Stake:      stake,
		Multiplier: 1.0,
		CashValue:  stake,
		Balance:    balance,
	}, nil
}

// Launch starts the ticker for the user's pending growth round. onTick is
// called after every surviving tick, onResult exactly once when the round
// ends by crash, cash-out or context cancellation.
func (e *Growth) Launch(ctx context.Context, userID int64, onTick func(multiplier float64, cashValue int64), onResult func(*GrowthUpdate)) error {
	sess, err := e.registry.Get(userID)
	if err != nil {
		return err
	}

	layout, ok := sess.Layout.(*growthLayout)
	if !ok {
		return ErrWrongFamily
	}

	sess.Lock()
	if sess.ResolvedLocked() {
		sess.Unlock()
		return ErrSessionResolved
	}
	if layout.launched {
		sess.Unlock()
		return ErrAlreadyLaunched
	}
	layout.launched = true
	sess.Unlock()

	go e.run(ctx, sess, onTick, onResult)
	return nil
}

func (e *Growth) run(ctx context.Context, sess *session.Session, onTick func(float64, int64), onResult func(*GrowthUpdate)) {
	ticker := time.NewTicker(e.growth.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Shutdown mid-round: resolve in the player's favor at the
			// multiplier already reached rather than swallow the stake.
			if upd := e.forceCashOut(sess); upd != nil && onResult != nil {
				onResult(upd)
			}
			return
		case <-ticker.C:
		}

		upd, done := e.advance(sess)
		if done {
			if onResult != nil {
				onResult(upd)
			}
			return
		}
		if upd == nil {
			// Cashed out concurrently; the CashOut caller reports the result.
			return
		}
		if onTick != nil {
			onTick(upd.Multiplier, upd.CashValue)
		}
	}
}

// advance applies one tick. It returns (nil, false) when the session was
// already resolved by a concurrent cash-out, a non-terminal update when the
// round survives, and (update, true) when this tick crashed the round.
func (e *Growth) advance(sess *session.Session) (*GrowthUpdate, bool) {
	sess.Lock()

	if sess.ResolvedLocked() {
		sess.Unlock()
		return nil, false
	}

	m := sess.AdvanceLocked(e.growth.Step)
	cp := sess.CrashPoint()
	if m < cp {
		upd := &GrowthUpdate{
			Stake:      sess.Stake,
			Multiplier: m,
			CashValue:  scale(sess.Stake, m),
		}
		sess.Unlock()
		return upd, false
	}

	if !sess.ResolveLocked() {
		sess.Unlock()
		return nil, false
	}
	sess.Unlock()

	balance, err := e.settle.Settle(context.Background(), sess, 0)
	if err != nil {
		log.Error().Err(err).Int64("user_id", sess.OwnerID).Msg("Growth crash settlement failed")
		// Best effort: show the player a real balance, not the zero value.
		balance, _ = e.ledger.Balance(context.Background(), sess.OwnerID)
	}
	return &GrowthUpdate{
		Stake:      sess.Stake,
		Multiplier: cp,
		Terminal:   true,
		Won:        false,
		Balance:    balance,
		CrashPoint: cp,
	}, true
}

// CashOut resolves a launched round at the current multiplier. The session
// mutex arbitrates a simultaneous tick: exactly one of crash or cash-out
// wins.
func (e *Growth) CashOut(ctx context.Context, userID int64) (*GrowthUpdate, error) {
	sess, err := e.registry.Get(userID)
	if err != nil {
		return nil, err
	}

	layout, ok := sess.Layout.(*growthLayout)
	if !ok {
		return nil, ErrWrongFamily
	}

	sess.Lock()

	if sess.ResolvedLocked() {
		sess.Unlock()
		return nil, ErrSessionResolved
	}
	if !layout.launched {
		sess.Unlock()
		return nil, ErrNotLaunched
	}

	m := sess.MultiplierLocked()
	if !sess.ResolveLocked() {
		sess.Unlock()
		return nil, ErrSessionResolved
	}
	sess.Unlock()

	pay := scale(sess.Stake, m)
	balance, err := e.settle.Settle(ctx, sess, pay)
	if err != nil {
		return nil, err
	}

	return &GrowthUpdate{
		Stake:      sess.Stake,
		Multiplier: m,
		CashValue:  pay,
		Terminal:   true,
		Won:        true,
		Payout:     pay,
		Balance:    balance,
		CrashPoint: sess.CrashPoint(),
	}, nil
}

// forceCashOut is the shutdown path: best-effort resolution at the current
// multiplier. Returns nil if the session was already resolved.
func (e *Growth) forceCashOut(sess *session.Session) *GrowthUpdate {
	sess.Lock()
	m := sess.MultiplierLocked()
	if !sess.ResolveLocked() {
		sess.Unlock()
		return nil
	}
	sess.Unlock()

	pay := scale(sess.Stake, m)
	balance, err := e.settle.Settle(context.Background(), sess, pay)
	if err != nil {
		log.Error().Err(err).Int64("user_id", sess.OwnerID).Msg("Growth shutdown settlement failed")
		balance, _ = e.ledger.Balance(context.Background(), sess.OwnerID)
	}
	return &GrowthUpdate{
		Stake:      sess.Stake,
		Multiplier: m,
		CashValue:  pay,
		Terminal:   true,
		Won:        true,
		Payout:     pay,
		Balance:    balance,
	}
}

// drawCrashPoint samples the hidden bust multiplier. The distribution keeps
// the configured house edge: E[min(cashout, crash)] over all strategies is
// (1-edge) times the stake.
func (e *Growth) drawCrashPoint() float64 {
	u := e.rng.Float64()
	cp := (1 - e.growth.HouseEdge) / (1 - u)
	if cp < 1.0 {
		cp = 1.0
	}
	if cp > e.growth.MaxMultiplier {
		cp = e.growth.MaxMultiplier
	}
	return math.Round(cp*100) / 100
}

// scale converts a multiplier into a cent amount, rounding half away from
// zero.
func scale(stake int64, multiplier float64) int64 {
	return int64(math.Round(float64(stake) * multiplier))
}
