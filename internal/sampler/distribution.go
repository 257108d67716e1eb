package sampler

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/oaeproject/model-loader/internal/common/modelerrors"
)

// Weighted is one (weight, value) pair of a categorical distribution.
type Weighted[T any] struct {
	Weight float64 `mapstructure:"weight" json:"weight"`
	Value  T       `mapstructure:"value" json:"value"`
}

func W[T any](weight float64, value T) Weighted[T] {
	return Weighted[T]{Weight: weight, Value: value}
}

// Categorical is an ordered list of weighted values. Weights must be positive but need not sum to 1.
type Categorical[T any] []Weighted[T]

// Validate checks that c can be sampled from. name is used in the returned errors.
func (c Categorical[T]) Validate(name string) error {
	if len(c) == 0 {
		return &modelerrors.ErrInvalidArgument{
			Name:    name,
			Value:   "[]",
			Message: "a categorical distribution needs at least one entry",
		}
	}
	var result *multierror.Error
	for i, p := range c {
		if p.Weight <= 0 {
			result = multierror.Append(result, &modelerrors.ErrInvalidArgument{
				Name:    fmt.Sprintf("%s[%d]", name, i),
				Value:   p.Weight,
				Message: "weights must be greater than zero",
			})
		}
	}
	return result.ErrorOrNil()
}

// Probability returns the normalised probability of the entry at index i.
func (c Categorical[T]) Probability(i int) float64 {
	total := 0.0
	for _, p := range c {
		total += p.Weight
	}
	if total == 0 {
		return 0
	}
	return c[i].Weight / total
}

// Magnitude describes an integer distribution by mean, standard deviation and hard bounds.
type Magnitude struct {
	Mean   int `mapstructure:"mean" json:"mean"`
	StdDev int `mapstructure:"stdDev" json:"stdDev"`
	Min    int `mapstructure:"min" json:"min"`
	Max    int `mapstructure:"max" json:"max"`
}

// M builds a Magnitude from the (mean, stdDev, min, max) tuple used by distribution profiles.
func M(mean, stdDev, min, max int) Magnitude {
	return Magnitude{Mean: mean, StdDev: stdDev, Min: min, Max: max}
}

func (m Magnitude) Clamp(v int) int {
	if v < m.Min {
		return m.Min
	}
	if v > m.Max {
		return m.Max
	}
	return v
}

func (m Magnitude) Validate(name string) error {
	var result *multierror.Error
	if m.Min > m.Max {
		result = multierror.Append(result, &modelerrors.ErrInvalidArgument{
			Name:    name,
			Value:   m,
			Message: fmt.Sprintf("min %d is greater than max %d", m.Min, m.Max),
		})
	}
	if m.StdDev < 0 {
		result = multierror.Append(result, &modelerrors.ErrInvalidArgument{
			Name:    name,
			Value:   m,
			Message: "stdDev must not be negative",
		})
	}
	return result.ErrorOrNil()
}
