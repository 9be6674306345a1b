// Package parallel provides chunked fan-out over index ranges for the
// per-point loops of the solver.
package parallel

import (
	"runtime"
	"sync"
)

// For runs fn over [0, n) split into contiguous chunks, one goroutine
// per chunk, and returns once every chunk has finished. Chunks never
// overlap, so fn may write to disjoint elements of a shared slice
// without locking. The final join orders all writes made inside fn
// before anything the caller does next.
//
// Ranges of at most minChunk elements run inline on the caller.
func For(n, minChunk int, fn func(start, end int)) {
	workers := runtime.NumCPU()
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
