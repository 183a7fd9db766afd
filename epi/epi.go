// Copyright © 2026 The transdist authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package epi implements a table of observed cases
// of an infectious disease,
// each case with a spatial location
// and an onset time binned to a discrete step.
package epi

import (
	"math"
	"math/rand/v2"
	"slices"
)

// A Case is an observed infection event.
type Case struct {
	// Spatial coordinates of the case
	X float64
	Y float64

	// Onset time,
	// binned to a discrete time step
	T int
}

// A Table is an ordered collection of cases.
// The order of the cases is irrelevant,
// but each case keeps a stable index
// used to map the case into probability matrices.
//
// A table should be treated as read-only:
// operations that change the set of cases
// return a new table.
type Table []Case

// Times returns the sorted list
// of the unique onset times in the table.
func (tb Table) Times() []int {
	times := make([]int, 0, len(tb))
	for _, c := range tb {
		times = append(times, c.T)
	}
	slices.Sort(times)
	return slices.Compact(times)
}

// Filter returns a new table
// with the cases at, or after, time t1.
func (tb Table) Filter(t1 int) Table {
	nt := make(Table, 0, len(tb))
	for _, c := range tb {
		if c.T < t1 {
			continue
		}
		nt = append(nt, c)
	}
	return nt
}

// Before returns a new table
// with the cases at, or before, time t:
// the cumulative window ending at t.
func (tb Table) Before(t int) Table {
	nt := make(Table, 0, len(tb))
	for _, c := range tb {
		if c.T > t {
			continue
		}
		nt = append(nt, c)
	}
	return nt
}

// Dist returns the Euclidean distance
// between cases i and j.
func (tb Table) Dist(i, j int) float64 {
	return math.Hypot(tb[i].X-tb[j].X, tb[i].Y-tb[j].Y)
}

// Resample returns a new table of the same size,
// sampling cases with replacement
// using the given random source.
func (tb Table) Resample(rng *rand.Rand) Table {
	nt := make(Table, len(tb))
	for i := range nt {
		nt[i] = tb[rng.IntN(len(tb))]
	}
	return nt
}
