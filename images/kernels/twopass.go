package kernels

import (
	"sync"

	"github.com/nvr-ai/go-satblur/images"
)

// buildTwoPass runs the column pass and then the row pass, each split over
// workers goroutines. parallelSpans returns only after every worker of a
// phase has finished, which is the barrier between the two passes.
func buildTwoPass(sat images.Grid[images.SatPixel], padded images.Grid[images.Pixel], workers int) {
	parallelSpans(1, sat.Cols, workers, func(lo, hi int) {
		for r := 1; r < sat.Rows; r++ {
			above := sat.Row(r - 1)
			cur := sat.Row(r)
			src := padded.Row(r)
			for c := lo; c < hi; c++ {
				cur[c] = above[c].AddPixel(src[c])
			}
		}
	})

	parallelSpans(1, sat.Rows, workers, func(lo, hi int) {
		for r := lo; r < hi; r++ {
			accumulateRow(sat.Row(r))
		}
	})
}

// parallelSpans splits [lo, hi) into at most n disjoint contiguous spans, runs
// fn for each span on its own goroutine and waits for all of them.
func parallelSpans(lo, hi, n int, fn func(lo, hi int)) {
	total := hi - lo
	if total <= 0 {
		return
	}
	n = max(1, min(n, total))
	if n == 1 {
		fn(lo, hi)
		return
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		start := lo + i*total/n
		end := lo + (i+1)*total/n
		if start == end {
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
