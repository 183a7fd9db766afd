// Copyright © 2026 The transdist authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package wallinga implements Wallinga-Teunis weight matrices:
// the relative likelihood that one case infected another,
// derived only from the onset-time difference
// and the generation-time distribution.
package wallinga

import (
	"errors"
	"fmt"
	"math"

	"github.com/shauntruelove/transdist/epi"
	"github.com/shauntruelove/transdist/gentime"
	"gonum.org/v1/gonum/mat"
)

// ErrShape is returned
// when a caller-supplied weight matrix
// does not match the unique-time structure
// of the case table.
var ErrShape = errors.New("matrix shape mismatch")

type validator interface {
	Validate() error
}

// Matrix builds the time-indexed Wallinga-Teunis weight matrix
// for the given sorted unique onset times.
// The cell (a, b) is the relative likelihood
// that a case at times[a] infected a case at times[b],
// proportional to the generation-time probability
// of the time gap,
// and zero unless times[b] > times[a].
// Each column is normalized to sum to 1;
// a column with no valid infector time
// (the earliest time)
// is left as zero.
func Matrix(times []int, d gentime.Distribution) (*mat.Dense, error) {
	if v, ok := d.(validator); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}

	u := len(times)
	m := mat.NewDense(u, u, nil)
	for b := 1; b < u; b++ {
		for a := 0; a < b; a++ {
			if times[b] <= times[a] {
				continue
			}
			p := d.Prob(float64(times[b] - times[a]))
			if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
				return nil, fmt.Errorf("%w: invalid weight %v for lag %d", gentime.ErrDistribution, p, times[b]-times[a])
			}
			m.Set(a, b, p)
		}
	}
	normalizeColumns(m)
	return m, nil
}

// CaseMatrix expands a time-indexed weight matrix
// into the case-indexed pairwise infector probability matrix:
// the cell (i, j) is the probability
// that case i infected case j.
// Each case looks up the weight of its time bucket;
// cases sharing a source time receive an equal share,
// and each destination column is renormalized
// to sum to 1 when any valid infector exists.
//
// If wt is nil the time-indexed matrix is computed
// from the case times and the distribution;
// a supplied matrix must match the unique-time ordering
// of the table or the call fails with ErrShape.
func CaseMatrix(cases epi.Table, d gentime.Distribution, wt *mat.Dense) (*mat.Dense, error) {
	times := cases.Times()
	if wt == nil {
		var err error
		wt, err = Matrix(times, d)
		if err != nil {
			return nil, err
		}
	} else if r, c := wt.Dims(); r != len(times) || c != len(times) {
		return nil, fmt.Errorf("%w: got %dx%d matrix, want %dx%d", ErrShape, r, c, len(times), len(times))
	}

	index := make(map[int]int, len(times))
	for i, t := range times {
		index[t] = i
	}

	n := len(cases)
	m := mat.NewDense(n, n, nil)
	for j := 0; j < n; j++ {
		b := index[cases[j].T]
		for i := 0; i < n; i++ {
			if i == j {
				continue
			}
			m.Set(i, j, wt.At(index[cases[i].T], b))
		}
	}
	normalizeColumns(m)
	return m, nil
}

func normalizeColumns(m *mat.Dense) {
	r, c := m.Dims()
	for j := 0; j < c; j++ {
		var sum float64
		for i := 0; i < r; i++ {
			sum += m.At(i, j)
		}
		if sum <= 0 {
			continue
		}
		for i := 0; i < r; i++ {
			if v := m.At(i, j); v > 0 {
				m.Set(i, j, v/sum)
			}
		}
	}
}
