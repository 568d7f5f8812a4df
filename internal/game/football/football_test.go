package football

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-casino-bot/internal/game"
)

type fixedSource struct{ n int }

func (f fixedSource) Float64() float64 { return 0 }
func (f fixedSource) Intn(int) int     { return f.n }
func (f fixedSource) Perm(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}

func TestFootballResolve(t *testing.T) {
	tests := []struct {
		name   string
		kick   int // slot, 1-5
		choice string
		won    bool
		payout int64
	}{
		{"miss called, kick misses", 3, Miss, true, 180},
		{"miss called, kick scores", 4, Miss, false, 0},
		{"goal called, kick scores", 5, Goal, true, 140},
		{"goal called, kick misses", 1, Goal, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(fixedSource{n: tt.kick - 1})
			out, err := g.Resolve(100, tt.choice)
			require.NoError(t, err)
			assert.Equal(t, tt.won, out.Won)
			assert.Equal(t, tt.payout, out.Payout)
		})
	}
}

func TestFootballRejectsUnknownChoice(t *testing.T) {
	g := New(fixedSource{})
	_, err := g.Resolve(100, "corner")
	assert.ErrorIs(t, err, game.ErrUnknownChoice)
}
