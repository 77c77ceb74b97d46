// Package random wraps a seeded PCG stream with the draws the generator
// needs. A Source is not safe for concurrent use.
package random

import (
	"math/rand/v2"
)

// Source is a deterministic random stream.
type Source struct {
	r *rand.Rand
}

// New returns a Source seeded with seed. Two sources with the same seed
// produce the same sequence.
func New(seed uint64) *Source {
	return &Source{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// IntRange returns a uniform int in [lo, hi]. It returns lo when hi <= lo.
func (s *Source) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.r.IntN(hi-lo+1)
}

// Float64 returns a uniform float in [0, 1).
func (s *Source) Float64() float64 {
	return s.r.Float64()
}

// Uniform returns a uniform float in [lo, hi).
func (s *Source) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*s.r.Float64()
}

// Bernoulli reports true with probability p.
func (s *Source) Bernoulli(p float64) bool {
	return s.r.Float64() < p
}

// Exponential returns an exponentially distributed value with the given mean.
func (s *Source) Exponential(mean float64) float64 {
	return s.r.ExpFloat64() * mean
}

// Perm returns a random permutation of [0, n).
func (s *Source) Perm(n int) []int {
	return s.r.Perm(n)
}

// Choice returns a uniformly chosen element of items. items must not be empty.
func Choice[T any](s *Source, items []T) T {
	return items[s.r.IntN(len(items))]
}

// Weighted is one outcome of a categorical distribution.
type Weighted[T any] struct {
	Value  T
	Weight float64
}

// Pick draws from a categorical distribution. Weights need not sum to one.
func Pick[T any](s *Source, dist []Weighted[T]) T {
	var total float64
	for _, w := range dist {
		total += w.Weight
	}
	x := s.r.Float64() * total
	for _, w := range dist {
		if x < w.Weight {
			return w.Value
		}
		x -= w.Weight
	}
	return dist[len(dist)-1].Value
}

// Sample returns k distinct elements of items in random order. k is clamped
// to len(items). items is not modified.
func Sample[T any](s *Source, items []T, k int) []T {
	k = min(k, len(items))
	if k <= 0 {
		return nil
	}
	pool := append([]T(nil), items...)
	for i := 0; i < k; i++ {
		j := i + s.r.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}
