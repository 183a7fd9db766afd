// Copyright © 2026 The transdist authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package kernel

import (
	"errors"

	"github.com/shauntruelove/transdist/epi"
)

// A TimeEstimate is a kernel estimate
// for the cumulative window of cases
// up to an onset time.
// Ok reports whether the window
// had enough data for an estimate;
// when Ok is false all other values are meaningless.
type TimeEstimate struct {
	// T is the last onset time of the window.
	T int

	// Ok reports whether the window
	// produced an estimate.
	Ok bool

	Estimate

	// Bootstrap confidence bounds,
	// only set by TemporalBootstrap.
	MuLow  float64
	MuHigh float64

	SigmaLow  float64
	SigmaHigh float64
}

// Temporal computes a kernel estimate
// for each cumulative window of cases:
// one per unique onset time,
// in ascending order,
// over all cases at or before that time.
//
// A window without enough data
// is reported with Ok set to false;
// any other failure aborts the whole series.
// The windows are independent
// and run on the configured worker pool.
func Temporal(cases epi.Table, p Param) ([]TimeEstimate, error) {
	return temporalSeries(cases, p, func(sub epi.Table) (TimeEstimate, error) {
		e, err := New(sub, p)
		if err != nil {
			return TimeEstimate{}, err
		}
		return TimeEstimate{Ok: true, Estimate: e}, nil
	})
}

// TemporalBootstrap computes a kernel estimate
// with bootstrap confidence bounds
// for each cumulative window of cases,
// as Temporal does.
func TemporalBootstrap(cases epi.Table, p Param, bp BootParam) ([]TimeEstimate, error) {
	if _, err := bp.with(); err != nil {
		return nil, err
	}
	return temporalSeries(cases, p, func(sub epi.Table) (TimeEstimate, error) {
		b, err := Bootstrap(sub, p, bp)
		if err != nil {
			return TimeEstimate{}, err
		}
		return TimeEstimate{
			Ok:        true,
			Estimate:  b.Estimate,
			MuLow:     b.MuLow,
			MuHigh:    b.MuHigh,
			SigmaLow:  b.SigmaLow,
			SigmaHigh: b.SigmaHigh,
		}, nil
	})
}

func temporalSeries(cases epi.Table, p Param, estimate func(sub epi.Table) (TimeEstimate, error)) ([]TimeEstimate, error) {
	cs := cases.Filter(p.T1)
	times := cs.Times()

	series := make([]TimeEstimate, len(times))
	err := runTrials(len(times), p.Workers, func(k int) error {
		e, err := estimate(cs.Before(times[k]))
		if err != nil {
			if errors.Is(err, ErrInsufficientData) {
				series[k] = TimeEstimate{T: times[k]}
				return nil
			}
			return err
		}
		e.T = times[k]
		series[k] = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return series, nil
}
