// Package random isolates the bot's randomness behind a Source capability.
// Layout sampling uses a seeded PRNG; fairness-critical single-shot outcomes
// (coin flip, roulette spin) use the crypto source.
package random

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	mathrand "math/rand"
	"sync"
)

// Source produces uniform random values. Implementations must be safe for
// concurrent use.
type Source interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// Intn returns a uniform value in [0, n). Panics if n <= 0.
	Intn(n int) int
	// Perm returns a uniform random permutation of [0, n).
	Perm(n int) []int
}

// prng wraps math/rand with a mutex; rand.Rand itself is not goroutine safe.
type prng struct {
	mu sync.Mutex
	r  *mathrand.Rand
}

// NewPRNG returns a seeded pseudo-random Source for layout generation.
func NewPRNG(seed int64) Source {
	return &prng{r: mathrand.New(mathrand.NewSource(seed))}
}

func (p *prng) Float64() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.r.Float64()
}

func (p *prng) Intn(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.r.Intn(n)
}

func (p *prng) Perm(n int) []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.r.Perm(n)
}

// crypto draws from crypto/rand. Stateless, safe for concurrent use.
type crypto struct{}

// Crypto returns a cryptographically strong Source.
func Crypto() Source {
	return crypto{}
}

func (crypto) Float64() float64 {
	// 53 random bits mapped onto [0, 1)
	return float64(read64()>>11) / (1 << 53)
}

func (crypto) Intn(n int) int {
	if n <= 0 {
		panic("random: Intn with non-positive n")
	}
	// Rejection sampling to avoid modulo bias.
	max := ^uint64(0) - ^uint64(0)%uint64(n)
	for {
		v := read64()
		if v < max {
			return int(v % uint64(n))
		}
	}
}

func (c crypto) Perm(n int) []int {
	p := make([]int, n)
	for i := range p {
		j := c.Intn(i + 1)
		p[i] = p[j]
		p[j] = i
	}
	return p
}

func read64() uint64 {
	var buf [8]byte
	if _, err := cryptorand.Read(buf[:]); err != nil {
		// crypto/rand failing means the platform entropy source is broken;
		// there is no meaningful fallback for fairness-critical draws.
		panic("random: crypto source unavailable: " + err.Error())
	}
	return binary.BigEndian.Uint64(buf[:])
}

// Sample returns k distinct values drawn uniformly without replacement
// from [0, n).
func Sample(src Source, n, k int) []int {
	return src.Perm(n)[:k]
}
