// Copyright © 2026 The transdist authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package kernel implements the estimation
// of the mean and standard deviation
// of the transmission kernel:
// the distribution of the spatial distance
// traversed by a single transmission event.
//
// The estimate combines the observed distances
// between case pairs
// with the probability that each pair
// is separated by a given number
// of transmission generations,
// obtained by repeated sampling
// of latent transmission trees.
package kernel

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/shauntruelove/transdist/epi"
	"github.com/shauntruelove/transdist/gentime"
	"github.com/shauntruelove/transdist/infer/transtree"
	"github.com/shauntruelove/transdist/infer/wallinga"
)

// ErrInsufficientData is returned
// when the case table has fewer than two unique onset times,
// or no valid case pair survives the spatial
// and generation-separation filters.
var ErrInsufficientData = errors.New("insufficient data")

// Param is a collection of parameters
// for a transmission kernel estimate.
type Param struct {
	// GenTime is the generation-time distribution.
	GenTime gentime.Distribution

	// T1 is the earliest onset time included
	// in the estimation.
	T1 int

	// MaxSep is the maximum number
	// of transmission generations considered
	// between two cases.
	MaxSep int

	// MaxDist is the spatial cutoff:
	// case pairs farther apart are excluded.
	// Zero disables the cutoff.
	MaxDist float64

	// Reps is the number of transmission trees
	// sampled for the theta weights.
	// By default, 100 trees will be sampled.
	Reps int

	// Weights is an optional precomputed theta tensor.
	// It must match the unique onset times
	// of the filtered case table.
	Weights *transtree.Tensor

	// MeanEqualsSD selects the estimator
	// used by the bootstrap and temporal wrappers:
	// if true the point values,
	// derived under the assumption
	// that the kernel mean equals its standard deviation,
	// are used;
	// otherwise the bounded values are used.
	MeanEqualsSD bool

	// Seed for all random sampling.
	// The same seed with the same case table
	// always produces the same estimate.
	Seed uint64

	// Workers is the number of parallel workers.
	// Zero runs sequentially;
	// a negative value uses half the available CPUs.
	Workers int
}

func (p Param) reps() int {
	if p.Reps == 0 {
		return 100
	}
	return p.Reps
}

// An Estimate is a point estimate
// of the transmission kernel.
// Mu and Sigma are equal by derivation,
// which assumes the kernel mean
// equals its standard deviation;
// MuBound and SigmaBound are upper bounds
// valid when that assumption fails.
type Estimate struct {
	Mu         float64
	Sigma      float64
	MuBound    float64
	SigmaBound float64
}

// New computes a transmission kernel estimate
// for the given case table.
//
// The pipeline builds the Wallinga-Teunis weight matrix
// from the case onset times,
// expands it to a pairwise infector probability matrix,
// samples repeated transmission trees
// to estimate the generation separation
// of every time pair,
// and combines the observed pair distances
// into the weighted kernel estimate.
// Any failure while building these shared artifacts
// aborts the whole call.
func New(cases epi.Table, p Param) (Estimate, error) {
	cs := cases.Filter(p.T1)
	times := cs.Times()
	if len(times) < 2 {
		return Estimate{}, fmt.Errorf("%w: %d unique onset times", ErrInsufficientData, len(times))
	}

	w := p.Weights
	if w == nil {
		cm, err := wallinga.CaseMatrix(cs, p.GenTime, nil)
		if err != nil {
			return Estimate{}, err
		}
		w, err = transtree.Weights(cs, cm, transtree.Param{
			MaxSep:  p.MaxSep,
			Reps:    p.reps(),
			Seed:    p.Seed,
			Workers: p.Workers,
		})
		if err != nil {
			return Estimate{}, err
		}
	} else if !slices.Equal(w.Times(), times) {
		return Estimate{}, fmt.Errorf("theta weights: %w: tensor times do not match case times", wallinga.ErrShape)
	}

	index := make(map[int]int, len(times))
	for i, t := range times {
		index[t] = i
	}

	// observed mean distance and pair count
	// per ordered time pair
	u := len(times)
	sumDist := make([]float64, u*u)
	pairs := make([]float64, u*u)
	for i := range cs {
		for j := range cs {
			if cs[j].T <= cs[i].T {
				continue
			}
			d := cs.Dist(i, j)
			if p.MaxDist > 0 && d > p.MaxDist {
				continue
			}
			x := index[cs[i].T]*u + index[cs[j].T]
			sumDist[x] += d
			pairs[x]++
		}
	}

	var est, n float64
	for a := 0; a < u; a++ {
		for b := 0; b < u; b++ {
			np := pairs[a*u+b]
			if np == 0 {
				continue
			}
			s := w.Slice(a, b)
			if s == nil {
				continue
			}
			var exp float64
			for sep, ws := range s {
				exp += ws * math.Sqrt(2*math.Pi*float64(sep+1))
			}
			if exp <= 0 {
				continue
			}
			mu := sumDist[a*u+b] / np
			est += 2 * mu * np / exp
			n += np
		}
	}
	if n == 0 {
		return Estimate{}, fmt.Errorf("%w: no valid case pairs", ErrInsufficientData)
	}

	k := est / n
	return Estimate{
		Mu:         k,
		Sigma:      k,
		MuBound:    math.Sqrt2 * k,
		SigmaBound: math.Sqrt2 * k,
	}, nil
}

// point returns the estimator values
// selected by the MeanEqualsSD parameter.
func (e Estimate) point(meanEqualsSD bool) (mu, sigma float64) {
	if meanEqualsSD {
		return e.Mu, e.Sigma
	}
	return e.MuBound, e.SigmaBound
}
