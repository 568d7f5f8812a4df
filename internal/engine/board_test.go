package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"telegram-casino-bot/internal/payout"
	"telegram-casino-bot/internal/pkg/random"
)

func TestSampleLayoutRejectsBadRisk(t *testing.T) {
	src := random.NewPRNG(1)

	for _, risk := range []int{0, 1, 25, 100} {
		_, err := sampleLayout(payout.FamilyMines, risk, src, 0.15)
		assert.ErrorIs(t, err, payout.ErrUnknownRiskParameter, "mines risk %d", risk)
	}
	for _, risk := range []int{0, 5} {
		_, err := sampleLayout(payout.FamilyTower, risk, src, 0.15)
		assert.ErrorIs(t, err, payout.ErrUnknownRiskParameter, "tower risk %d", risk)
	}
	_, err := sampleLayout(payout.Family("poker"), 0, src, 0.15)
	assert.ErrorIs(t, err, payout.ErrUnknownRiskParameter)
}

func TestSampleLayoutMinesHazardCount(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		risk := rapid.IntRange(2, MinesCells-1).Draw(t, "mines")
		seed := rapid.Int64().Draw(t, "seed")

		layout, err := sampleLayout(payout.FamilyMines, risk, random.NewPRNG(seed), 0.15)
		require.NoError(t, err)

		l := layout.(*cellLayout)
		if len(l.hazards) != risk {
			t.Fatalf("expected %d mines, got %d", risk, len(l.hazards))
		}
		for p := range l.hazards {
			if p < 0 || p >= MinesCells {
				t.Fatalf("mine at %d outside the board", p)
			}
		}
	})
}

func TestSampleLayoutRowFamilies(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		risk := rapid.IntRange(1, TowerWidth-1).Draw(t, "dragons")
		seed := rapid.Int64().Draw(t, "seed")
		src := random.NewPRNG(seed)

		layout, err := sampleLayout(payout.FamilyTower, risk, src, 0.15)
		require.NoError(t, err)
		tower := layout.(*rowLayout)
		if len(tower.hazards) != TowerFloors {
			t.Fatalf("tower has %d floors, want %d", len(tower.hazards), TowerFloors)
		}
		for f, cols := range tower.hazards {
			if len(cols) != risk {
				t.Fatalf("floor %d has %d dragons, want %d", f, len(cols), risk)
			}
			for _, c := range cols {
				if c < 0 || c >= TowerWidth {
					t.Fatalf("floor %d dragon in column %d", f, c)
				}
			}
		}

		layout, err = sampleLayout(payout.FamilyVault, 0, src, 0.15)
		require.NoError(t, err)
		vault := layout.(*rowLayout)
		for f, cols := range vault.hazards {
			if len(cols) != 1 {
				t.Fatalf("vault floor %d has %d dynamite cells, want 1", f, len(cols))
			}
		}
	})
}

func TestSampleLayoutCrypt(t *testing.T) {
	layout, err := sampleLayout(payout.FamilyCrypt, 0, random.NewPRNG(7), 0.15)
	require.NoError(t, err)

	l := layout.(*cellLayout)
	assert.Len(t, l.hazards, CryptHazards)
	assert.Equal(t, CryptCells, l.cells)
}

func TestSamplePopStepBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		chance := rapid.Float64Range(0.01, 0.99).Draw(t, "chance")

		step := samplePopStep(random.NewPRNG(seed), chance)
		if step < 1 || step > BalloonMaxPumps+1 {
			t.Fatalf("pop step %d out of range", step)
		}
	})

	// Certain pop bursts on the first pump; impossible pop survives to the cap.
	assert.Equal(t, 1, samplePopStep(random.NewPRNG(1), 1.0))
	assert.Equal(t, BalloonMaxPumps+1, samplePopStep(random.NewPRNG(1), 0.0))
}

func TestMaxSafeSteps(t *testing.T) {
	assert.Equal(t, 22, maxSafeSteps(payout.FamilyMines, 3))
	assert.Equal(t, TowerFloors, maxSafeSteps(payout.FamilyTower, 2))
	assert.Equal(t, VaultFloors, maxSafeSteps(payout.FamilyVault, 0))
	assert.Equal(t, CryptMaxReveals, maxSafeSteps(payout.FamilyCrypt, 0))
	assert.Equal(t, BalloonMaxPumps, maxSafeSteps(payout.FamilyBalloon, 0))
	assert.Equal(t, 0, maxSafeSteps(payout.FamilyCrash, 0))
}
