package kernels

import (
	"sync"

	"github.com/nvr-ai/go-satblur/images"
)

// wavefront coordinates the two goroutines of StrategyWavefront.
//
// The producer owns every column-sum write and the consumer owns every row
// accumulation. A row belongs to the producer until it is certified through
// safeRow and to the consumer afterwards, so no cell is touched by both. The
// mutex guards safeRow only.
type wavefront struct {
	sat    images.Grid[images.SatPixel]
	padded images.Grid[images.Pixel]
	batch  int

	mu      sync.Mutex
	ready   *sync.Cond
	safeRow int // rows [1, safeRow] are column-complete; only grows
}

func buildWavefront(sat images.Grid[images.SatPixel], padded images.Grid[images.Pixel], batch int) {
	wf := &wavefront{sat: sat, padded: padded, batch: batch}
	wf.ready = sync.NewCond(&wf.mu)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		wf.produceColumns()
	}()
	go func() {
		defer wg.Done()
		wf.consumeRows()
	}()
	wg.Wait()
}

// publish certifies rows up to row and wakes the consumer.
func (wf *wavefront) publish(row int) {
	wf.mu.Lock()
	wf.safeRow = row
	wf.mu.Unlock()
	wf.ready.Signal()
}

// produceColumns writes column running sums top to bottom. The running sums
// live in a private accumulator row, so the producer never reads a row the
// consumer may already be rewriting.
func (wf *wavefront) produceColumns() {
	h, w := wf.sat.Rows, wf.sat.Cols
	acc := make([]images.SatPixel, w)

	for r := 1; r < h; r++ {
		src := wf.padded.Row(r)
		dst := wf.sat.Row(r)
		for c := 1; c < w; c++ {
			acc[c] = acc[c].AddPixel(src[c])
			dst[c] = acc[c]
		}
		if r%wf.batch == 0 {
			wf.publish(r)
		}
	}

	// Unconditional so the consumer's loop always terminates.
	wf.publish(h)
}

// consumeRows waits for certified rows and drains all of them per wake-up
// without taking the lock again.
func (wf *wavefront) consumeRows() {
	h := wf.sat.Rows

	for cur := 1; cur < h; {
		wf.mu.Lock()
		for wf.safeRow < cur {
			wf.ready.Wait()
		}
		limit := wf.safeRow
		wf.mu.Unlock()

		for ; cur <= limit && cur < h; cur++ {
			accumulateRow(wf.sat.Row(cur))
		}
	}
}
