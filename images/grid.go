package images

import (
	"fmt"
	"unsafe"
)

// Grid is a row-major 2D view over a contiguous buffer of T.
//
// A Grid does not own Data; several grids may share one backing slice and the
// caller decides its lifetime. The same type serves the input image, the padded
// copy, and the summed-area table.
type Grid[T any] struct {
	Rows int
	Cols int
	Data []T
}

// NewGrid allocates a zeroed rows x cols grid.
func NewGrid[T any](rows, cols int) Grid[T] {
	return Grid[T]{Rows: rows, Cols: cols, Data: make([]T, rows*cols)}
}

// GridOf wraps data as a rows x cols grid. It panics if data is too short.
func GridOf[T any](data []T, rows, cols int) Grid[T] {
	if rows < 0 || cols < 0 || len(data) < rows*cols {
		panic(fmt.Sprintf("images: %d elements cannot back a %dx%d grid", len(data), rows, cols))
	}
	return Grid[T]{Rows: rows, Cols: cols, Data: data[:rows*cols]}
}

// At returns the element at (r, c).
func (g Grid[T]) At(r, c int) T {
	return g.Data[r*g.Cols+c]
}

// Set stores v at (r, c).
func (g Grid[T]) Set(r, c int, v T) {
	g.Data[r*g.Cols+c] = v
}

// Ptr returns a pointer to the element at (r, c) for in-place updates.
func (g Grid[T]) Ptr(r, c int) *T {
	return &g.Data[r*g.Cols+c]
}

// Row returns row r as a slice sharing the grid's backing buffer.
func (g Grid[T]) Row(r int) []T {
	off := r * g.Cols
	return g.Data[off : off+g.Cols : off+g.Cols]
}

// Len returns the number of cells in the grid.
func (g Grid[T]) Len() int {
	return g.Rows * g.Cols
}

// PixelsOf reinterprets an interleaved RGBA byte buffer as pixels without
// copying. Writes through the returned slice are visible in pix.
func PixelsOf(pix []byte) []Pixel {
	if len(pix) < Channels {
		return nil
	}
	return unsafe.Slice((*Pixel)(unsafe.Pointer(&pix[0])), len(pix)/Channels)
}

// PixelGrid views an RGBA byte buffer of the given dimensions as a pixel grid.
func PixelGrid(pix []byte, width, height int) Grid[Pixel] {
	return GridOf(PixelsOf(pix), height, width)
}
