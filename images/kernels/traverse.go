package kernels

import "sync"

// Traverse calls fn for every cell of a rows x cols grid in row-major order.
//
// With parallel set, rows are split into chunks handled by separate goroutines.
// fn must then only write the cell it is called for and read from grids that
// nothing else writes during the traversal.
func Traverse(rows, cols int, parallel bool, fn func(row, col int)) {
	if rows == 0 || cols == 0 {
		return
	}
	rowTask := func(r int) {
		for c := 0; c < cols; c++ {
			fn(r, c)
		}
	}

	if !parallel || rows < 4 {
		for r := 0; r < rows; r++ {
			rowTask(r)
		}
		return
	}

	// Parallelize by splitting rows into chunks.
	chunk := chooseChunk(rows)
	var wg sync.WaitGroup
	for start := 0; start < rows; start += chunk {
		end := min(start+chunk, rows)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for r := s; r < e; r++ {
				rowTask(r)
			}
		}(start, end)
	}
	wg.Wait()
}

// chooseChunk picks a work chunk size that balances overhead and cache locality.
func chooseChunk(n int) int {
	switch {
	case n >= 2048:
		return 128
	case n >= 512:
		return 64
	default:
		return 32
	}
}
