package kernels

import (
	"sync"

	"github.com/nvr-ai/go-satblur/images"
)

// Pool lets callers reuse padded and SAT buffers across filter calls to reduce
// GC pressure when many frames are blurred back to back.
//
// A nil *Pool is valid and always allocates fresh buffers.
type Pool struct {
	pixels sync.Pool // *[]images.Pixel
	sats   sync.Pool // *[]images.SatPixel
}

// GetPixels returns a rows x cols pixel grid. Contents are unspecified.
func (p *Pool) GetPixels(rows, cols int) images.Grid[images.Pixel] {
	if p == nil {
		return images.NewGrid[images.Pixel](rows, cols)
	}
	return getGrid[images.Pixel](&p.pixels, rows, cols)
}

// PutPixels hands g's buffer back for reuse. g must not be used afterwards.
func (p *Pool) PutPixels(g images.Grid[images.Pixel]) {
	if p == nil || g.Data == nil {
		return
	}
	buf := g.Data
	p.pixels.Put(&buf)
}

// GetSAT returns a rows x cols table. Contents are unspecified.
func (p *Pool) GetSAT(rows, cols int) images.Grid[images.SatPixel] {
	if p == nil {
		return images.NewGrid[images.SatPixel](rows, cols)
	}
	return getGrid[images.SatPixel](&p.sats, rows, cols)
}

// PutSAT hands g's buffer back for reuse. g must not be used afterwards.
func (p *Pool) PutSAT(g images.Grid[images.SatPixel]) {
	if p == nil || g.Data == nil {
		return
	}
	buf := g.Data
	p.sats.Put(&buf)
}

func getGrid[T any](sp *sync.Pool, rows, cols int) images.Grid[T] {
	n := rows * cols
	if v := sp.Get(); v != nil {
		if buf := *(v.(*[]T)); cap(buf) >= n {
			return images.GridOf(buf[:n], rows, cols)
		}
	}
	return images.NewGrid[T](rows, cols)
}
