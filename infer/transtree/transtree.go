// Copyright © 2026 The transdist authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package transtree implements the sampling
// of latent transmission trees between observed cases,
// and the estimation of theta:
// the number of transmission generations
// separating two cases,
// as a probability tensor over time pairs.
package transtree

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/shauntruelove/transdist/epi"
	"gonum.org/v1/gonum/mat"
)

// A Tensor stores,
// for each ordered pair of unique onset times (i, j)
// and each candidate generation separation theta,
// the probability that a case at times[i]
// and a case at times[j]
// are separated by exactly theta transmission generations.
//
// For a fixed time pair the values sum to 1
// across theta when at least one valid chain exists;
// a pair with no sampled chain is undefined
// and reports NaN.
type Tensor struct {
	times  []int
	maxSep int
	v      []float64
}

// NewTensor creates an empty tensor
// for the given sorted unique times
// and a maximum generation separation.
// All slices start undefined.
func NewTensor(times []int, maxSep int) *Tensor {
	t := &Tensor{
		times:  slices.Clone(times),
		maxSep: maxSep,
		v:      make([]float64, len(times)*len(times)*maxSep),
	}
	for i := range t.v {
		t.v[i] = math.NaN()
	}
	return t
}

// Times returns the unique onset times of the tensor.
func (t *Tensor) Times() []int {
	return t.times
}

// MaxSep returns the maximum generation separation
// considered by the tensor.
func (t *Tensor) MaxSep() int {
	return t.maxSep
}

// At returns the probability
// that a case at times[i] and a case at times[j]
// are separated by sep generations,
// with sep between 1 and MaxSep.
// It returns NaN if the time pair is undefined.
func (t *Tensor) At(i, j, sep int) float64 {
	return t.v[(i*len(t.times)+j)*t.maxSep+sep-1]
}

// Slice returns the probabilities
// of the time pair (i, j)
// across all separations,
// or nil if the pair is undefined.
func (t *Tensor) Slice(i, j int) []float64 {
	s := t.v[(i*len(t.times)+j)*t.maxSep : (i*len(t.times)+j+1)*t.maxSep]
	if math.IsNaN(s[0]) {
		return nil
	}
	return slices.Clone(s)
}

func (t *Tensor) setSlice(i, j int, s []float64) {
	copy(t.v[(i*len(t.times)+j)*t.maxSep:], s)
}

// Sample draws one randomized transmission forest
// over the cases
// and returns the resulting theta tensor.
//
// Each case,
// except the ones with no valid infector,
// samples exactly one infector
// with probability proportional to the case's column
// in the pairwise probability matrix cm.
// Since an infector always precedes its infectee,
// the sampled parent pointers form a forest
// and every ancestor chain terminates.
// Chains are walked at most maxSep generations;
// a linkage beyond that bound is discarded.
func Sample(cases epi.Table, cm *mat.Dense, maxSep int, rng *rand.Rand) *Tensor {
	times := cases.Times()
	index := make(map[int]int, len(times))
	for i, t := range times {
		index[t] = i
	}

	parent := sampleForest(cases, cm, rng)

	u := len(times)
	counts := make([]float64, u*u*maxSep)
	for j := range cases {
		b := index[cases[j].T]
		a := parent[j]
		for sep := 1; sep <= maxSep && a >= 0; sep++ {
			counts[(index[cases[a].T]*u+b)*maxSep+sep-1]++
			a = parent[a]
		}
	}

	t := NewTensor(times, maxSep)
	slice := make([]float64, maxSep)
	for i := 0; i < u; i++ {
		for j := 0; j < u; j++ {
			var sum float64
			for sep := 0; sep < maxSep; sep++ {
				sum += counts[(i*u+j)*maxSep+sep]
			}
			if sum == 0 {
				continue
			}
			for sep := 0; sep < maxSep; sep++ {
				slice[sep] = counts[(i*u+j)*maxSep+sep] / sum
			}
			t.setSlice(i, j, slice)
		}
	}
	return t
}

// sampleForest samples one infector per case
// from the columns of the pairwise matrix.
// A case with no inbound probability mass
// is left unlinked,
// with a parent of -1.
func sampleForest(cases epi.Table, cm *mat.Dense, rng *rand.Rand) []int {
	n := len(cases)
	parent := make([]int, n)
	for j := 0; j < n; j++ {
		parent[j] = -1
		var sum float64
		for i := 0; i < n; i++ {
			sum += cm.At(i, j)
		}
		if sum <= 0 {
			continue
		}
		r := rng.Float64() * sum
		for i := 0; i < n; i++ {
			r -= cm.At(i, j)
			if r < 0 {
				parent[j] = i
				break
			}
		}
		if parent[j] < 0 {
			// guard against accumulated rounding
			for i := n - 1; i >= 0; i-- {
				if cm.At(i, j) > 0 {
					parent[j] = i
					break
				}
			}
		}
	}
	return parent
}

// Param is a collection of parameters
// for the aggregation of sampled transmission trees.
type Param struct {
	// MaxSep is the maximum number
	// of transmission generations considered
	// between two cases.
	MaxSep int

	// Reps is the number of independent
	// transmission trees to sample.
	Reps int

	// Seed for the random tree sampling.
	// Each repetition derives
	// its own independent random source.
	Seed uint64

	// Workers is the number of parallel workers
	// used for the sampling.
	// Zero runs the repetitions sequentially;
	// a negative value uses half the available CPUs.
	Workers int
}

// Weights samples Reps independent transmission trees
// and returns the average of their theta tensors.
// Each time-pair slice is averaged
// over the repetitions that produced a chain for the pair;
// a pair never reached stays undefined.
//
// The result is identical for any number of workers:
// every repetition draws from its own seeded source
// and the reduction is done in repetition order.
func Weights(cases epi.Table, cm *mat.Dense, p Param) (*Tensor, error) {
	if p.MaxSep < 1 {
		return nil, fmt.Errorf("transtree: invalid maximum separation: %d", p.MaxSep)
	}
	if p.Reps < 1 {
		return nil, fmt.Errorf("transtree: invalid number of repetitions: %d", p.Reps)
	}

	draws := make([]*Tensor, p.Reps)
	runTrials(p.Reps, p.Workers, func(rep int) {
		rng := rand.New(rand.NewPCG(p.Seed, uint64(rep)))
		draws[rep] = Sample(cases, cm, p.MaxSep, rng)
	})

	times := cases.Times()
	u := len(times)
	sum := make([]float64, u*u*p.MaxSep)
	num := make([]int, u*u)
	for _, d := range draws {
		for i := 0; i < u; i++ {
			for j := 0; j < u; j++ {
				s := d.Slice(i, j)
				if s == nil {
					continue
				}
				num[i*u+j]++
				for sep := 0; sep < p.MaxSep; sep++ {
					sum[(i*u+j)*p.MaxSep+sep] += s[sep]
				}
			}
		}
	}

	t := NewTensor(times, p.MaxSep)
	slice := make([]float64, p.MaxSep)
	for i := 0; i < u; i++ {
		for j := 0; j < u; j++ {
			if num[i*u+j] == 0 {
				continue
			}
			for sep := 0; sep < p.MaxSep; sep++ {
				slice[sep] = sum[(i*u+j)*p.MaxSep+sep] / float64(num[i*u+j])
			}
			t.setSlice(i, j, slice)
		}
	}
	return t, nil
}
