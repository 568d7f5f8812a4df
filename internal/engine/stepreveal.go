package engine

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"telegram-casino-bot/internal/model"
	"telegram-casino-bot/internal/payout"
	"telegram-casino-bot/internal/pkg/random"
	"telegram-casino-bot/internal/session"
)

// Config holds the stake bounds and family parameters shared by the
// engines. Amounts are cents.
type Config struct {
	MinStake         int64
	MaxStake         int64
	BalloonPopChance float64
}

// StepReveal runs the generic "open a cell, maybe lose, else the multiplier
// advances" state machine shared by the mines, tower, vault, crypt and
// balloon families.
type StepReveal struct {
	cfg      Config
	tables   *payout.Registry
	ledger   Ledger
	registry *session.Registry
	settle   *Settlement
	rng      random.Source
}

// NewStepReveal creates the step-reveal engine.
func NewStepReveal(cfg Config, tables *payout.Registry, ledger Ledger, registry *session.Registry, settle *Settlement, rng random.Source) *StepReveal {
	return &StepReveal{
		cfg:      cfg,
		tables:   tables,
		ledger:   ledger,
		registry: registry,
		settle:   settle,
		rng:      rng,
	}
}

// Update is a snapshot of a session after an operation. Terminal fields
// (Won, Payout, Hazards) are meaningful only when Terminal is set; Balance
// is reported after any ledger change.
type Update struct {
	Family     payout.Family
	Stake      int64
	Risk       int
	Step       int
	Multiplier float64
	Next       float64
	CashValue  int64
	Revealed   []int

	Terminal bool
	Won      bool
	Payout   int64
	Balance  int64
	Hazards  []int
}

// Open validates and debits the stake, samples a hazard layout and creates
// an Active session. No state is left behind on any failure path.
func (e *StepReveal) Open(ctx context.Context, userID int64, family payout.Family, stake int64, risk int) (*Update, error) {
	if stake < e.cfg.MinStake || stake > e.cfg.MaxStake {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStake, stake)
	}

	table, err := e.tables.Get(family, risk)
	if err != nil {
		return nil, err
	}

	layout, err := sampleLayout(family, risk, e.rng, e.cfg.BalloonPopChance)
	if err != nil {
		return nil, err
	}

	sess := session.New(userID, family, stake, risk, layout)

	// Escrow the stake before the session becomes visible: an unfunded
	// session must never be actionable. An open that then loses the
	// registry race gets its stake back.
	desc := fmt.Sprintf("%s stake, risk %d", family, risk)
	balance, err := e.ledger.Debit(ctx, userID, stake, model.TxTypeStake, desc)
	if err != nil {
		return nil, err
	}

	if err := e.registry.Put(sess); err != nil {
		refundStake(ctx, e.ledger, userID, stake, family)
		return nil, err
	}

	log.Info().
		Int64("user_id", userID).
		Str("family", string(family)).
		Int64("stake", stake).
		Int("risk", risk).
		Msg("Step-reveal session opened")

	return &Update{
		Family:     family,
		Stake:      stake,
		Risk:       risk,
		Step:       0,
		Multiplier: 1.0,
		Next:       table.At(1),
		CashValue:  stake,
		Balance:    balance,
	}, nil
}

// Reveal opens a position. Hitting a hazard resolves the session with
// payout 0 and discloses the full layout; reaching the board's maximum
// safe-step count auto-resolves as a win at the final multiplier.
func (e *StepReveal) Reveal(ctx context.Context, userID int64, pos int) (*Update, error) {
	sess, err := e.registry.Get(userID)
	if err != nil {
		return nil, err
	}

	table, err := e.tables.Get(sess.Family, sess.Risk)
	if err != nil {
		return nil, err
	}

	sess.Lock()

	if sess.ResolvedLocked() {
		sess.Unlock()
		return nil, ErrSessionResolved
	}

	step := sess.StepsLocked()
	hazard := false

	switch l := sess.Layout.(type) {
	case *cellLayout:
		if pos < 0 || pos >= l.cells {
			sess.Unlock()
			return nil, ErrOutOfBounds
		}
		if sess.HasRevealedLocked(pos) {
			sess.Unlock()
			return nil, ErrAlreadyRevealed
		}
		hazard = l.hazard(pos)
		if !hazard {
			sess.AddRevealLocked(pos)
		}

	case *rowLayout:
		if pos < 0 || pos >= l.width {
			sess.Unlock()
			return nil, ErrOutOfBounds
		}
		hazard = l.hazardAt(step, pos)
		if !hazard {
			sess.AddRevealLocked(step*l.width + pos)
		}

	case *popLayout:
		hazard = step+1 >= l.popStep
		if !hazard {
			sess.AddRevealLocked(step)
		}

	default:
		sess.Unlock()
		return nil, ErrWrongFamily
	}

	if hazard {
		if !sess.ResolveLocked() {
			sess.Unlock()
			return nil, ErrSessionResolved
		}
		missed := table.Payout(sess.Stake, step)
		revealed := sess.RevealedLocked()
		sess.Unlock()

		balance, err := e.settle.Settle(ctx, sess, 0)
		if err != nil {
			return nil, err
		}
		return &Update{
			Family:     sess.Family,
			Stake:      sess.Stake,
			Risk:       sess.Risk,
			Step:       step,
			Multiplier: table.At(step),
			CashValue:  missed,
			Revealed:   revealed,
			Terminal:   true,
			Won:        false,
			Payout:     0,
			Balance:    balance,
			Hazards:    discloseHazards(sess.Layout),
		}, nil
	}

	step = sess.StepsLocked()

	if step >= maxSafeSteps(sess.Family, sess.Risk) {
		// Board exhausted: auto-resolve as a win at the final multiplier.
		if !sess.ResolveLocked() {
			sess.Unlock()
			return nil, ErrSessionResolved
		}
		pay := table.Payout(sess.Stake, step)
		revealed := sess.RevealedLocked()
		sess.Unlock()

		balance, err := e.settle.Settle(ctx, sess, pay)
		if err != nil {
			return nil, err
		}
		return &Update{
			Family:     sess.Family,
			Stake:      sess.Stake,
			Risk:       sess.Risk,
			Step:       step,
			Multiplier: table.At(step),
			CashValue:  pay,
			Revealed:   revealed,
			Terminal:   true,
			Won:        true,
			Payout:     pay,
			Balance:    balance,
			Hazards:    discloseHazards(sess.Layout),
		}, nil
	}

	upd := &Update{
		Family:     sess.Family,
		Stake:      sess.Stake,
		Risk:       sess.Risk,
		Step:       step,
		Multiplier: table.At(step),
		Next:       table.At(step + 1),
		CashValue:  table.Payout(sess.Stake, step),
		Revealed:   sess.RevealedLocked(),
	}
	sess.Unlock()
	return upd, nil
}

// CashOut voluntarily resolves the session at the current multiplier.
// Board families require at least one successful reveal first.
func (e *StepReveal) CashOut(ctx context.Context, userID int64) (*Update, error) {
	sess, err := e.registry.Get(userID)
	if err != nil {
		return nil, err
	}

	if !isStepRevealLayout(sess.Layout) {
		return nil, ErrWrongFamily
	}

	table, err := e.tables.Get(sess.Family, sess.Risk)
	if err != nil {
		return nil, err
	}

	sess.Lock()

	if sess.ResolvedLocked() {
		sess.Unlock()
		return nil, ErrSessionResolved
	}

	step := sess.StepsLocked()
	if step == 0 && cashOutNeedsReveal(sess.Family) {
		sess.Unlock()
		return nil, ErrCashOutUnavailable
	}

	if !sess.ResolveLocked() {
		sess.Unlock()
		return nil, ErrSessionResolved
	}
	pay := table.Payout(sess.Stake, step)
	revealed := sess.RevealedLocked()
	sess.Unlock()

	balance, err := e.settle.Settle(ctx, sess, pay)
	if err != nil {
		return nil, err
	}

	return &Update{
		Family:     sess.Family,
		Stake:      sess.Stake,
		Risk:       sess.Risk,
		Step:       step,
		Multiplier: table.At(step),
		CashValue:  pay,
		Revealed:   revealed,
		Terminal:   true,
		Won:        true,
		Payout:     pay,
		Balance:    balance,
		Hazards:    discloseHazards(sess.Layout),
	}, nil
}

// View returns a read-only snapshot of the user's active step-reveal
// session for re-rendering.
func (e *StepReveal) View(userID int64) (*Update, error) {
	sess, err := e.registry.Get(userID)
	if err != nil {
		return nil, err
	}
	if !isStepRevealLayout(sess.Layout) {
		return nil, ErrWrongFamily
	}
	table, err := e.tables.Get(sess.Family, sess.Risk)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	step := sess.StepsLocked()
	return &Update{
		Family:     sess.Family,
		Stake:      sess.Stake,
		Risk:       sess.Risk,
		Step:       step,
		Multiplier: table.At(step),
		Next:       table.At(step + 1),
		CashValue:  table.Payout(sess.Stake, step),
		Revealed:   sess.RevealedLocked(),
	}, nil
}

func isStepRevealLayout(layout any) bool {
	switch layout.(type) {
	case *cellLayout, *rowLayout, *popLayout:
		return true
	}
	return false
}

// discloseHazards flattens a layout into board positions for display after
// the session resolves. The balloon has no board to disclose.
func discloseHazards(layout any) []int {
	switch l := layout.(type) {
	case *cellLayout:
		return l.positions()
	case *rowLayout:
		var out []int
		for floor, cols := range l.hazards {
			for _, c := range cols {
				out = append(out, floor*l.width+c)
			}
		}
		return out
	}
	return nil
}
