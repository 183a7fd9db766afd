// Copyright © 2026 The transdist authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package transtree

import (
	"runtime"
	"sync"
)

// runTrials runs n independent trials,
// each writing its own result slot.
// With zero workers the trials run sequentially
// in the calling goroutine;
// a negative worker count uses half the available CPUs.
func runTrials(n, workers int, trial func(i int)) {
	if workers < 0 {
		workers = runtime.NumCPU() / 2
		if workers < 1 {
			workers = 1
		}
	}
	if workers == 0 || n == 1 {
		for i := 0; i < n; i++ {
			trial(i)
		}
		return
	}

	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				trial(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}
