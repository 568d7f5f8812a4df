// Package payout holds the static multiplier tables for the step-reveal
// game families. Tables are immutable after load and validated for strict
// monotonicity and board-size bounds.
package payout

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// Family identifies a session-based game family.
type Family string

const (
	FamilyMines   Family = "mines"
	FamilyTower   Family = "tower"
	FamilyVault   Family = "vault"
	FamilyCrypt   Family = "crypt"
	FamilyBalloon Family = "balloon"

	// FamilyCrash has no precomputed table; its multiplier grows live
	// until the crash point.
	FamilyCrash Family = "crash"
)

// MaxMultiplier is the ceiling any table entry may reach.
const MaxMultiplier = 3_000_000.0

// Errors for table lookup and validation.
var (
	ErrUnknownRiskParameter = errors.New("no payout table for this risk parameter")
	ErrNotMonotonic         = errors.New("payout table is not strictly increasing")
	ErrTableTooLong         = errors.New("payout table exceeds board step bound")
	ErrMultiplierOutOfRange = errors.New("payout multiplier out of range")
)

// Table is an ordered sequence of multipliers indexed by successful step
// count. Step 0 is always 1.0 (the no-op multiplier before any reveal).
type Table struct {
	mults []float64
}

// At returns the multiplier after step successful reveals. Steps beyond the
// table are clamped to the final entry.
func (t *Table) At(step int) float64 {
	if step <= 0 {
		return 1.0
	}
	if step > len(t.mults) {
		step = len(t.mults)
	}
	return t.mults[step-1]
}

// Steps returns the number of multiplier steps in the table.
func (t *Table) Steps() int {
	return len(t.mults)
}

// Payout applies the multiplier for the given step count to a stake in
// cents, rounding to the nearest cent.
func (t *Table) Payout(stake int64, step int) int64 {
	return int64(math.Round(float64(stake) * t.At(step)))
}

// validate checks strict monotonicity, finiteness, the global ceiling and
// the board's maximum safe-step bound.
func validate(mults []float64, maxSteps int) error {
	if len(mults) == 0 {
		return fmt.Errorf("%w: empty table", ErrNotMonotonic)
	}
	if len(mults) > maxSteps {
		return fmt.Errorf("%w: %d entries, board allows %d", ErrTableTooLong, len(mults), maxSteps)
	}
	prev := 1.0
	for i, m := range mults {
		if math.IsNaN(m) || math.IsInf(m, 0) || m > MaxMultiplier {
			return fmt.Errorf("%w: entry %d = %v", ErrMultiplierOutOfRange, i, m)
		}
		if m <= prev {
			return fmt.Errorf("%w: entry %d = %v after %v", ErrNotMonotonic, i, m, prev)
		}
		prev = m
	}
	return nil
}

type tableKey struct {
	family Family
	risk   int
}

// Registry maps (game family, risk parameter) to a validated payout table.
// Families without a risk parameter are keyed with risk 0.
type Registry struct {
	mu     sync.RWMutex
	tables map[tableKey]*Table
}

// NewRegistry returns a registry preloaded with the built-in tables for
// every family. Construction fails if any table violates validation.
func NewRegistry() (*Registry, error) {
	r := &Registry{tables: make(map[tableKey]*Table)}

	for risk, mults := range minesTables {
		if err := r.add(FamilyMines, risk, mults, minesBoardCells-risk); err != nil {
			return nil, err
		}
	}
	for risk, mults := range towerTables {
		if err := r.add(FamilyTower, risk, mults, towerFloors); err != nil {
			return nil, err
		}
	}
	if err := r.add(FamilyVault, 0, vaultTable, vaultFloors); err != nil {
		return nil, err
	}
	if err := r.add(FamilyCrypt, 0, cryptTable, cryptMaxReveals); err != nil {
		return nil, err
	}
	if err := r.add(FamilyBalloon, 0, balloonTable(), balloonMaxPumps); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Registry) add(family Family, risk int, mults []float64, maxSteps int) error {
	if err := validate(mults, maxSteps); err != nil {
		return fmt.Errorf("table %s/%d: %w", family, risk, err)
	}
	r.tables[tableKey{family, risk}] = &Table{mults: mults}
	return nil
}

// Get returns the table for a family and risk parameter.
func (r *Registry) Get(family Family, risk int) (*Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tables[tableKey{family, risk}]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%d", ErrUnknownRiskParameter, family, risk)
	}
	return t, nil
}

// Risks returns the configured risk parameter values for a family, in no
// particular order.
func (r *Registry) Risks(family Family) []int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var risks []int
	for k := range r.tables {
		if k.family == family {
			risks = append(risks, k.risk)
		}
	}
	return risks
}
