package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameSeedSameSequence(t *testing.T) {
	a, b := New(42), New(42)
	for range 100 {
		require.Equal(t, a.IntRange(0, 1000), b.IntRange(0, 1000))
		require.Equal(t, a.Float64(), b.Float64())
	}
}

func TestIntRangeInclusive(t *testing.T) {
	s := New(1)
	seen := map[int]bool{}
	for range 1000 {
		n := s.IntRange(1, 3)
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, 3)
		seen[n] = true
	}
	assert.Len(t, seen, 3)
	assert.Equal(t, 5, s.IntRange(5, 5))
	assert.Equal(t, 5, s.IntRange(5, 2))
}

func TestSampleDistinct(t *testing.T) {
	s := New(7)
	items := []string{"a", "b", "c", "d", "e"}
	for range 200 {
		got := Sample(s, items, 3)
		require.Len(t, got, 3)
		seen := map[string]bool{}
		for _, v := range got {
			assert.False(t, seen[v], "duplicate %s", v)
			seen[v] = true
		}
	}
	assert.Len(t, Sample(s, items, 10), 5)
	assert.Nil(t, Sample(s, items, 0))
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, items)
}

func TestPickFollowsWeights(t *testing.T) {
	s := New(3)
	dist := []Weighted[string]{{"x", 0.9}, {"y", 0.1}, {"z", 0}}
	counts := map[string]int{}
	for range 10000 {
		counts[Pick(s, dist)]++
	}
	assert.Zero(t, counts["z"])
	assert.InDelta(t, 9000, counts["x"], 300)
}

func TestExponentialMean(t *testing.T) {
	s := New(9)
	var sum float64
	const n = 20000
	for range n {
		v := s.Exponential(30)
		require.GreaterOrEqual(t, v, 0.0)
		sum += v
	}
	assert.InDelta(t, 30, sum/n, 1.5)
}
