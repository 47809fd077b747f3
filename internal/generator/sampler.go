package generator

import (
	"math"
	"math/rand/v2"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/godilite/supportsim/internal/catalog"
)

// Sampler is the single pseudo-random stream a run draws from. Numeric draws
// and fake text share one PCG source, so a seed fixes the whole output and
// every draw happens in program order.
type Sampler struct {
	rng  *rand.Rand
	fake *gofakeit.Faker
}

// NewSampler seeds a new sequential stream.
func NewSampler(seed uint64) *Sampler {
	src := rand.NewPCG(seed, seed)
	return &Sampler{
		rng:  rand.New(src),
		fake: gofakeit.NewFaker(src, false),
	}
}

// IntBetween draws uniformly from [lo, hi].
func (s *Sampler) IntBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.IntN(hi-lo+1)
}

// FloatBetween draws uniformly from [lo, hi).
func (s *Sampler) FloatBetween(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// Index draws uniformly from [0, n).
func (s *Sampler) Index(n int) int {
	return s.rng.IntN(n)
}

func (s *Sampler) Coin() bool {
	return s.rng.IntN(2) == 1
}

// Sample returns k distinct elements of items in draw order.
func (s *Sampler) Sample(items []string, k int) []string {
	pool := append([]string(nil), items...)
	out := make([]string, 0, k)
	for i := 0; i < k && len(pool) > 0; i++ {
		j := s.rng.IntN(len(pool))
		out = append(out, pool[j])
		pool = append(pool[:j], pool[j+1:]...)
	}
	return out
}

// Pick draws one value from a categorical distribution.
func Pick[T any](s *Sampler, w catalog.Weighted[T]) T {
	total := 0
	for _, wt := range w.Weights {
		total += wt
	}
	r := s.rng.IntN(total)
	for i, wt := range w.Weights {
		if r < wt {
			return w.Values[i]
		}
		r -= wt
	}
	return w.Values[len(w.Values)-1]
}

func round(value float64, precision int) float64 {
	p := math.Pow(10, float64(precision))
	return math.Round(value*p) / p
}
