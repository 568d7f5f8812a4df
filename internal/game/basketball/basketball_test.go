package basketball

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

func TestBasketballResolve(t *testing.T) {
	tests := []struct {
		name   string
		throw  int // slot, 1-5
		choice string
		won    bool
		payout int64
	}{
		{"miss called, ball misses", 1, Miss, true, 200},
		{"miss called, ball scores", 3, Miss, false, 0},
		{"goal called, slot 3 scores", 3, Goal, true, 200},
		{"goal called, slot 4 scores", 4, Goal, true, 200},
		{"goal called, three-pointer lands", 5, Goal, false, 0},
		{"three called, three-pointer lands", 5, Three, true, 300},
		{"three called, regular goal lands", 4, Three, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(fixedSource{n: tt.throw - 1})
			out, err := g.Resolve(100, tt.choice)
			require.NoError(t, err)
			assert.Equal(t, tt.won, out.Won)
			assert.Equal(t, tt.payout, out.Payout)
		})
	}
}

func TestBasketballRejectsUnknownChoice(t *testing.T) {
	g := New(fixedSource{})
	_, err := g.Resolve(100, "dunk")
	assert.ErrorIs(t, err, game.ErrUnknownChoice)
}
