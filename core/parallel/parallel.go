// Package parallel splits index ranges across goroutines.
//
// Work is handed out as contiguous [start, end) chunks; callers write results
// into their own slots of a preallocated slice, so no locking is needed.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize divides items across runtime.NumCPU() workers and calls fn
// once per contiguous range [start, end).
func Parallelize(items int, fn func(start, end int)) {
	ParallelizeWithWorkers(items, runtime.NumCPU(), fn)
}

// ParallelizeWithWorkers is Parallelize with an explicit worker count.
// workers <= 0 means runtime.NumCPU(); workers == 1 runs fn(0, items) on the
// calling goroutine.
func ParallelizeWithWorkers(items, workers int, fn func(start, end int)) {
	if items <= 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > items {
		workers = items // No need for more workers than items
	}
	if workers == 1 {
		fn(0, items)
		return
	}

	// Ceiling division
	chunkSize := (items + workers - 1) / workers

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold performs parallelization only when the number of items exceeds the threshold.
// If below threshold, normal sequential processing is performed.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}

// ForEach calls fn(i) for every i in [0, items) using the given number of
// workers and returns the error of the lowest failing index, if any. Every
// index is visited even after a failure.
func ForEach(items, workers int, fn func(i int) error) error {
	if items <= 0 {
		return nil
	}
	errs := make([]error, items)
	ParallelizeWithWorkers(items, workers, func(start, end int) {
		for i := start; i < end; i++ {
			errs[i] = fn(i)
		}
	})
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
