// Copyright © 2026 The transdist authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package epi_test

import (
	"bytes"
	"math"
	"math/rand/v2"
	"reflect"
	"strings"
	"testing"

	"github.com/shauntruelove/transdist/epi"
)

var cases = epi.Table{
	{X: 0, Y: 0, T: 1},
	{X: 1, Y: 0, T: 2},
	{X: 0, Y: 2, T: 2},
	{X: 3, Y: 4, T: 3},
	{X: -1, Y: 1, T: 3},
}

func TestTimes(t *testing.T) {
	got := cases.Times()
	want := []int{1, 2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("times: got %v, want %v", got, want)
	}
}

func TestFilter(t *testing.T) {
	got := cases.Filter(2)
	if len(got) != 4 {
		t.Errorf("filter: got %d cases, want %d", len(got), 4)
	}
	for _, c := range got {
		if c.T < 2 {
			t.Errorf("filter: case at time %d", c.T)
		}
	}
}

func TestBefore(t *testing.T) {
	got := cases.Before(2)
	if len(got) != 3 {
		t.Errorf("before: got %d cases, want %d", len(got), 3)
	}
	for _, c := range got {
		if c.T > 2 {
			t.Errorf("before: case at time %d", c.T)
		}
	}
}

func TestDist(t *testing.T) {
	tests := []struct {
		i, j int
		want float64
	}{
		{0, 1, 1},
		{0, 2, 2},
		{0, 3, 5},
		{1, 2, math.Sqrt(5)},
	}
	for _, test := range tests {
		got := cases.Dist(test.i, test.j)
		if math.Abs(got-test.want) > 1e-12 {
			t.Errorf("dist %d-%d: got %.6f, want %.6f", test.i, test.j, got, test.want)
		}
	}
}

func TestResample(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 0))
	got := cases.Resample(rng)
	if len(got) != len(cases) {
		t.Fatalf("resample: got %d cases, want %d", len(got), len(cases))
	}
	for i, c := range got {
		found := false
		for _, o := range cases {
			if c == o {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("resample: case %d: %v not in source table", i, c)
		}
	}

	rng = rand.New(rand.NewPCG(42, 0))
	again := cases.Resample(rng)
	if !reflect.DeepEqual(got, again) {
		t.Errorf("resample: same seed: got different tables")
	}
}

func TestRead(t *testing.T) {
	data := "# observed cases\nx\ty\tt\n0.0\t0.0\t1\n1.0\t0.0\t2\n0.0\t2.0\t2\n"
	got, err := epi.ReadTSV(strings.NewReader(data), "cases.tab")
	if err != nil {
		t.Fatalf("read: unexpected error: %v", err)
	}
	want := epi.Table{
		{X: 0, Y: 0, T: 1},
		{X: 1, Y: 0, T: 2},
		{X: 0, Y: 2, T: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("read: got %v, want %v", got, want)
	}
}

func TestReadErrors(t *testing.T) {
	tests := map[string]string{
		"missing field": "x\ty\n0.0\t0.0\n",
		"bad value":     "x\ty\tt\n0.0\tnone\t1\n",
	}
	for name, data := range tests {
		if _, err := epi.ReadTSV(strings.NewReader(data), "cases.tab"); err == nil {
			t.Errorf("%s: expecting error", name)
		}
	}
}

func TestTSV(t *testing.T) {
	var buf bytes.Buffer
	if err := cases.TSV(&buf); err != nil {
		t.Fatalf("write: unexpected error: %v", err)
	}
	got, err := epi.ReadTSV(strings.NewReader(buf.String()), "cases.tab")
	if err != nil {
		t.Fatalf("read: unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, cases) {
		t.Errorf("round trip: got %v, want %v", got, cases)
	}
}
