// Package parallel splits index ranges across CPU cores.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize splits [0, items) into one contiguous chunk per CPU core and
// runs fn on every chunk concurrently. It returns when all chunks are done.
// Chunks never overlap, so fn may write to disjoint slots of a shared slice.
func Parallelize(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for start := 0; start < items; start += chunkSize {
		end := start + chunkSize
		if end > items {
			end = items
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn(0, items) on the calling goroutine when
// work is at most threshold, and falls back to Parallelize otherwise.
func ParallelizeWithThreshold(items, work, threshold int, fn func(start, end int)) {
	if work <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}
