// Package sampler provides the weighted-random primitives every generator is built on.
//
// A Sampler owns one *rand.Rand. It is not safe for concurrent use; give each generating
// goroutine its own Sampler.
package sampler

import (
	"math"
	"math/rand"
)

// OutlierProbability is the chance that SampleMagnitude ignores the bell shape and returns a
// value drawn uniformly from [mean, max].
const OutlierProbability = 0.02

type Sampler struct {
	rng *rand.Rand
}

func New(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

func NewSeeded(seed int64) *Sampler {
	return New(rand.New(rand.NewSource(seed)))
}

// Rand exposes the underlying source, e.g. for slices.Shuffle style helpers in callers.
func (s *Sampler) Rand() *rand.Rand {
	return s.rng
}

// SampleCategorical draws one value from the given weighted pairs. The probability of a value is
// its weight divided by the sum of all weights. Panics if pairs is empty.
func SampleCategorical[T any](s *Sampler, pairs Categorical[T]) T {
	return pairs[SampleIndex(s, pairs)].Value
}

// SampleIndex is SampleCategorical, returning the index of the chosen pair instead of its value.
func SampleIndex[T any](s *Sampler, pairs Categorical[T]) int {
	if len(pairs) == 0 {
		panic("sampler: categorical sample from an empty distribution")
	}
	cumulative := make([]float64, len(pairs))
	total := 0.0
	for i, p := range pairs {
		total += p.Weight
		cumulative[i] = total
	}
	draw := s.rng.Float64() * total
	for i, c := range cumulative {
		if draw <= c {
			return i
		}
	}
	return len(pairs) - 1
}

// SampleMagnitude draws an integer from the approximately normal distribution described by m.
// The result always lies in [m.Min, m.Max].
func (s *Sampler) SampleMagnitude(m Magnitude) int {
	if s.rng.Float64() < OutlierProbability {
		span := m.Max - m.Mean + 1
		if span < 1 {
			return m.Clamp(m.Mean)
		}
		return m.Clamp(m.Mean + s.rng.Intn(span))
	}
	g := 0.0
	for i := 0; i < 3; i++ {
		g += s.rng.Float64()*2 - 1
	}
	// Half-up rounding, so -0.5 rounds to 0 rather than -1.
	return m.Clamp(int(math.Floor(g*float64(m.StdDev) + float64(m.Mean) + 0.5)))
}

// Intn returns a uniform integer in [0, n). Returns 0 if n <= 0.
func (s *Sampler) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return s.rng.Intn(n)
}

// Chance returns true with probability p.
func (s *Sampler) Chance(p float64) bool {
	return s.rng.Float64() < p
}

// Pick returns a uniformly chosen element of items. Panics if items is empty.
func Pick[T any](s *Sampler, items []T) T {
	if len(items) == 0 {
		panic("sampler: Pick called with no items")
	}
	return items[s.rng.Intn(len(items))]
}

// Shuffle permutes items in place.
func Shuffle[T any](s *Sampler, items []T) {
	s.rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}
