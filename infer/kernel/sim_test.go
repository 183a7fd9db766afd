// Copyright © 2026 The transdist authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package kernel_test

import (
	"math"
	"testing"

	"github.com/shauntruelove/transdist/epi"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// simEpidemic simulates a stochastic branching epidemic
// and returns the resulting case table.
//
// The epidemic starts with a single case at the origin.
// On each generation every case produces
// a Poisson(r) number of new cases;
// each new case is displaced from its infector
// by a Gaussian kernel with the given standard deviation
// on each coordinate,
// and its onset time is the infector time
// plus a normal generation-time draw,
// rounded to a step of at least one.
//
// Simulations that die out
// before reaching minCases
// are discarded and rerun with a new seed.
func simEpidemic(t testing.TB, r, genMean, genSD, kernSD float64, minCases, maxGen int, seed uint64) epi.Table {
	t.Helper()

	const maxCases = 5000
	for i := uint64(0); i < 200; i++ {
		src := rand.NewSource(seed + i)
		offspring := distuv.Poisson{Lambda: r, Src: src}
		kern := distuv.Normal{Mu: 0, Sigma: kernSD, Src: src}
		gt := distuv.Normal{Mu: genMean, Sigma: genSD, Src: src}

		all := epi.Table{{X: 0, Y: 0, T: 0}}
		cur := all
		for gen := 0; gen < maxGen && len(cur) > 0 && len(all) < maxCases; gen++ {
			var next epi.Table
			for _, c := range cur {
				for k := int(offspring.Rand()); k > 0; k-- {
					dt := int(math.Round(gt.Rand()))
					if dt < 1 {
						dt = 1
					}
					next = append(next, epi.Case{
						X: c.X + kern.Rand(),
						Y: c.Y + kern.Rand(),
						T: c.T + dt,
					})
				}
			}
			all = append(all, next...)
			cur = next
		}
		if len(all) >= minCases {
			return all
		}
	}
	t.Fatalf("simulation: unable to reach %d cases", minCases)
	return nil
}
