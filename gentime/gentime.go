// Copyright © 2026 The transdist authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package gentime implements generation-time distributions:
// the probability of a given time gap
// between an infector and an infectee
// along a transmission chain.
//
// A distribution can be defined
// from the mean and standard deviation
// of a parametric family,
// or as an explicit probability vector
// over discrete time lags.
package gentime

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrDistribution is returned
// when a generation-time distribution is malformed,
// for example an explicit vector
// that does not sum to a positive value.
var ErrDistribution = errors.New("invalid generation time distribution")

// A Distribution is a generation-time distribution.
// Prob returns the probability density,
// or mass,
// of a transmission with the given time lag,
// in case-table time steps.
type Distribution interface {
	Prob(lag float64) float64
}

// Normal is a generation-time distribution
// from a normal density
// with the given mean and standard deviation.
type Normal struct {
	Mean float64
	SD   float64
}

// Prob returns the density of the given lag.
func (n Normal) Prob(lag float64) float64 {
	return distuv.Normal{Mu: n.Mean, Sigma: n.SD}.Prob(lag)
}

// Gamma is a generation-time distribution
// from a gamma density
// with the given mean and standard deviation.
type Gamma struct {
	Mean float64
	SD   float64
}

// Prob returns the density of the given lag.
func (g Gamma) Prob(lag float64) float64 {
	if lag <= 0 {
		return 0
	}
	a := (g.Mean / g.SD) * (g.Mean / g.SD)
	return distuv.Gamma{Alpha: a, Beta: g.Mean / (g.SD * g.SD)}.Prob(lag)
}

// Vector is an explicit generation-time distribution:
// element i is the probability
// of a transmission with a lag of i time steps.
type Vector []float64

// Prob returns the mass of the given lag,
// or zero outside the vector support.
func (v Vector) Prob(lag float64) float64 {
	i := int(math.Round(lag))
	if i < 0 || i >= len(v) {
		return 0
	}
	return v[i]
}

// Validate returns an error
// if the vector is empty,
// contains negative or non-finite values,
// or does not sum to a positive value.
func (v Vector) Validate() error {
	if len(v) == 0 {
		return fmt.Errorf("%w: empty vector", ErrDistribution)
	}
	var sum float64
	for i, p := range v {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return fmt.Errorf("%w: lag %d: invalid value %v", ErrDistribution, i, p)
		}
		if p < 0 {
			return fmt.Errorf("%w: lag %d: negative value %v", ErrDistribution, i, p)
		}
		sum += p
	}
	if sum <= 0 {
		return fmt.Errorf("%w: vector sum is %v", ErrDistribution, sum)
	}
	return nil
}
