// Copyright © 2026 The transdist authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package wallinga_test

import (
	"errors"
	"math"
	"testing"

	"github.com/shauntruelove/transdist/epi"
	"github.com/shauntruelove/transdist/gentime"
	"github.com/shauntruelove/transdist/infer/wallinga"
	"gonum.org/v1/gonum/mat"
)

// Onset times [1 2 2 3 3]
// with generation times of one step (p = 2/3)
// or two steps (p = 1/3).
var cases = epi.Table{
	{X: 0, Y: 0, T: 1},
	{X: 1, Y: 0, T: 2},
	{X: 0, Y: 1, T: 2},
	{X: 2, Y: 0, T: 3},
	{X: 0, Y: 2, T: 3},
}

var genDist = gentime.Vector{0, 2.0 / 3, 1.0 / 3, 0, 0}

func TestMatrix(t *testing.T) {
	m, err := wallinga.Matrix(cases.Times(), genDist)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, c := m.Dims()
	if r != 3 || c != 3 {
		t.Fatalf("dimensions: got %dx%d, want 3x3", r, c)
	}

	// column for time 2:
	// only time 1 is a candidate infector
	if got := m.At(0, 1); math.Abs(got-1) > 1e-12 {
		t.Errorf("weight 1->2: got %.6f, want 1", got)
	}

	// column for time 3:
	// weight split between times 1 and 2
	// per the lag distribution
	if got := m.At(0, 2); math.Abs(got-1.0/3) > 1e-12 {
		t.Errorf("weight 1->3: got %.6f, want %.6f", got, 1.0/3)
	}
	if got := m.At(1, 2); math.Abs(got-2.0/3) > 1e-12 {
		t.Errorf("weight 2->3: got %.6f, want %.6f", got, 2.0/3)
	}

	checkColumns(t, m)
}

func TestMatrixNormal(t *testing.T) {
	times := []int{1, 3, 4, 7, 8, 15}
	m, err := wallinga.Matrix(times, gentime.Normal{Mean: 2, SD: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkColumns(t, m)
}

// checkColumns tests that each column
// sums to 1 or to 0,
// with no negative entries.
func checkColumns(t testing.TB, m *mat.Dense) {
	t.Helper()

	r, c := m.Dims()
	for j := 0; j < c; j++ {
		var sum float64
		for i := 0; i < r; i++ {
			v := m.At(i, j)
			if v < 0 {
				t.Errorf("column %d: negative entry %.6f at row %d", j, v, i)
			}
			sum += v
		}
		if sum != 0 && math.Abs(sum-1) > 1e-10 {
			t.Errorf("column %d: sum %.6f, want 1 or 0", j, sum)
		}
	}
}

func TestCaseMatrix(t *testing.T) {
	m, err := wallinga.CaseMatrix(cases, genDist, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, c := m.Dims()
	if r != len(cases) || c != len(cases) {
		t.Fatalf("dimensions: got %dx%d, want %dx%d", r, c, len(cases), len(cases))
	}
	checkColumns(t, m)

	// the seed case has no infector
	for i := range cases {
		if v := m.At(i, 0); v != 0 {
			t.Errorf("seed column: entry %.6f at row %d", v, i)
		}
	}

	// cases at time 2 only descend from the seed
	for _, j := range []int{1, 2} {
		if got := m.At(0, j); math.Abs(got-1) > 1e-12 {
			t.Errorf("case 0 -> case %d: got %.6f, want 1", j, got)
		}
	}

	// cases at time 3:
	// raw weights 1/3 for the seed
	// and 2/3 for each of the two cases at time 2,
	// renormalized over the column
	for _, j := range []int{3, 4} {
		if got := m.At(0, j); math.Abs(got-0.2) > 1e-12 {
			t.Errorf("case 0 -> case %d: got %.6f, want %.6f", j, got, 0.2)
		}
		for _, i := range []int{1, 2} {
			if got := m.At(i, j); math.Abs(got-0.4) > 1e-12 {
				t.Errorf("case %d -> case %d: got %.6f, want %.6f", i, j, got, 0.4)
			}
		}
	}
}

func TestCaseMatrixSupplied(t *testing.T) {
	wt, err := wallinga.Matrix(cases.Times(), genDist)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, err := wallinga.CaseMatrix(cases, genDist, wt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, err := wallinga.CaseMatrix(cases, genDist, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mat.EqualApprox(m, want, 1e-12) {
		t.Errorf("supplied matrix: expansion differs from recomputation")
	}

	bad := mat.NewDense(2, 2, nil)
	if _, err := wallinga.CaseMatrix(cases, genDist, bad); !errors.Is(err, wallinga.ErrShape) {
		t.Errorf("bad shape: got error %v, want %v", err, wallinga.ErrShape)
	}
}

func TestMatrixErrors(t *testing.T) {
	tests := map[string]gentime.Vector{
		"empty":    {},
		"zero sum": {0, 0, 0},
	}
	for name, v := range tests {
		if _, err := wallinga.Matrix(cases.Times(), v); !errors.Is(err, gentime.ErrDistribution) {
			t.Errorf("%s: got error %v, want %v", name, err, gentime.ErrDistribution)
		}
	}
}
