package engine

import (
	"fmt"

	"telegram-casino-bot/internal/payout"
	"telegram-casino-bot/internal/pkg/random"
)

// Board dimensions per family. Positions are flat indices; row-based
// families encode a cell as floor*width+column.
const (
	MinesGridSize   = 5
	MinesCells      = MinesGridSize * MinesGridSize
	TowerFloors     = 10
	TowerWidth      = 5
	VaultFloors     = 10
	VaultWidth      = 2
	CryptCells      = 15
	CryptHazards    = 10
	CryptMaxReveals = 2
	BalloonMaxPumps = 45
)

// cellLayout marks hazard cells on a flat board (mines, crypt).
type cellLayout struct {
	cells   int
	hazards map[int]struct{}
}

func (l *cellLayout) hazard(pos int) bool {
	_, ok := l.hazards[pos]
	return ok
}

// positions returns the hazard cells for post-game disclosure.
func (l *cellLayout) positions() []int {
	out := make([]int, 0, len(l.hazards))
	for p := range l.hazards {
		out = append(out, p)
	}
	return out
}

// rowLayout marks hazard columns per floor (tower, vault). The player climbs
// floor by floor; a reveal names a column on the next floor.
type rowLayout struct {
	width   int
	floors  int
	hazards [][]int // hazard columns per floor
}

func (l *rowLayout) hazardAt(floor, column int) bool {
	for _, c := range l.hazards[floor] {
		if c == column {
			return true
		}
	}
	return false
}

// popLayout precommits the pump on which the balloon bursts (balloon).
// A popStep beyond the table means the balloon survives to the cap.
type popLayout struct {
	popStep int
}

// sampleLayout draws a hazard layout uniformly at random, independent of
// any player input.
func sampleLayout(family payout.Family, risk int, src random.Source, popChance float64) (any, error) {
	switch family {
	case payout.FamilyMines:
		if risk < 2 || risk > MinesCells-1 {
			return nil, fmt.Errorf("%w: %d mines", payout.ErrUnknownRiskParameter, risk)
		}
		return sampleCells(MinesCells, risk, src), nil

	case payout.FamilyCrypt:
		return sampleCells(CryptCells, CryptHazards, src), nil

	case payout.FamilyTower:
		if risk < 1 || risk > TowerWidth-1 {
			return nil, fmt.Errorf("%w: %d dragons", payout.ErrUnknownRiskParameter, risk)
		}
		return sampleRows(TowerFloors, TowerWidth, risk, src), nil

	case payout.FamilyVault:
		return sampleRows(VaultFloors, VaultWidth, 1, src), nil

	case payout.FamilyBalloon:
		return &popLayout{popStep: samplePopStep(src, popChance)}, nil

	default:
		return nil, fmt.Errorf("%w: %s", payout.ErrUnknownRiskParameter, family)
	}
}

func sampleCells(cells, hazards int, src random.Source) *cellLayout {
	l := &cellLayout{cells: cells, hazards: make(map[int]struct{}, hazards)}
	for _, p := range random.Sample(src, cells, hazards) {
		l.hazards[p] = struct{}{}
	}
	return l
}

func sampleRows(floors, width, perFloor int, src random.Source) *rowLayout {
	l := &rowLayout{width: width, floors: floors, hazards: make([][]int, floors)}
	for f := 0; f < floors; f++ {
		l.hazards[f] = random.Sample(src, width, perFloor)
	}
	return l
}

// samplePopStep draws the burst pump from a geometric distribution with the
// balloon's per-pump pop chance. A result beyond BalloonMaxPumps means the
// balloon holds to the multiplier cap.
func samplePopStep(src random.Source, popChance float64) int {
	step := 1
	for step <= BalloonMaxPumps && src.Float64() >= popChance {
		step++
	}
	return step
}

// maxSafeSteps returns the number of successful reveals that auto-resolves
// the session as a win.
func maxSafeSteps(family payout.Family, risk int) int {
	switch family {
	case payout.FamilyMines:
		return MinesCells - risk
	case payout.FamilyTower:
		return TowerFloors
	case payout.FamilyVault:
		return VaultFloors
	case payout.FamilyCrypt:
		return CryptMaxReveals
	case payout.FamilyBalloon:
		return BalloonMaxPumps
	default:
		return 0
	}
}

// cashOutNeedsReveal reports whether the family requires at least one
// successful reveal before cash-out is offered. Balloon allows collecting
// the bare stake back at 1.0x; every board family requires progress first.
func cashOutNeedsReveal(family payout.Family) bool {
	return family != payout.FamilyBalloon
}
