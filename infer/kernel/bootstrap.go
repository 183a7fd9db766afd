// Copyright © 2026 The transdist authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package kernel

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/shauntruelove/transdist/epi"
	"gonum.org/v1/gonum/stat"
)

// BootParam is a collection of parameters
// for a bootstrap confidence interval.
type BootParam struct {
	// Iter is the number of bootstrap iterations.
	// By default, 1000 iterations will be run.
	Iter int

	// Low and High are the quantiles
	// of the reported confidence interval.
	// By default, 0.025 and 0.975 will be used.
	Low  float64
	High float64
}

func (bp BootParam) with() (BootParam, error) {
	if bp.Iter == 0 {
		bp.Iter = 1000
	}
	if bp.Low == 0 && bp.High == 0 {
		bp.Low, bp.High = 0.025, 0.975
	}
	if bp.Iter < 1 {
		return bp, fmt.Errorf("kernel: invalid bootstrap iterations: %d", bp.Iter)
	}
	if bp.Low <= 0 || bp.High >= 1 || bp.Low >= bp.High {
		return bp, fmt.Errorf("kernel: invalid bootstrap quantiles: %g, %g", bp.Low, bp.High)
	}
	return bp, nil
}

// A Boot is a kernel estimate
// with bootstrap confidence bounds.
type Boot struct {
	Estimate

	MuLow  float64
	MuHigh float64

	SigmaLow  float64
	SigmaHigh float64
}

// stream offset for the resampling sources,
// away from the tree-sampling streams
const resampleStream = 1 << 32

// Bootstrap computes a kernel estimate
// with confidence bounds
// from repeated resampling of the case table.
//
// Each iteration resamples the filtered table
// with replacement to the same size
// and reruns the whole estimation,
// including the transmission-tree sampling.
// The iterations are independent
// and run on the configured worker pool;
// a failure in any single iteration
// fails the whole call.
func Bootstrap(cases epi.Table, p Param, bp BootParam) (Boot, error) {
	bp, err := bp.with()
	if err != nil {
		return Boot{}, err
	}

	point, err := New(cases, p)
	if err != nil {
		return Boot{}, err
	}
	cs := cases.Filter(p.T1)

	mus := make([]float64, bp.Iter)
	sigmas := make([]float64, bp.Iter)
	err = runTrials(bp.Iter, p.Workers, func(it int) error {
		rng := rand.New(rand.NewPCG(p.Seed, resampleStream+uint64(it)))
		sub := p
		sub.Weights = nil
		sub.Workers = 0
		sub.Seed = p.Seed + uint64(it) + 1
		e, err := New(cs.Resample(rng), sub)
		if err != nil {
			return fmt.Errorf("bootstrap iteration %d: %w", it, err)
		}
		mus[it], sigmas[it] = e.point(p.MeanEqualsSD)
		return nil
	})
	if err != nil {
		return Boot{}, err
	}

	slices.Sort(mus)
	slices.Sort(sigmas)
	return Boot{
		Estimate:  point,
		MuLow:     stat.Quantile(bp.Low, stat.Empirical, mus, nil),
		MuHigh:    stat.Quantile(bp.High, stat.Empirical, mus, nil),
		SigmaLow:  stat.Quantile(bp.Low, stat.Empirical, sigmas, nil),
		SigmaHigh: stat.Quantile(bp.High, stat.Empirical, sigmas, nil),
	}, nil
}
