package kernels

import (
	"math"

	"github.com/nvr-ai/go-satblur/images"
)

// WindowSum holds per-channel window totals wide enough for any kernel area.
type WindowSum struct {
	R, G, B, A uint64
}

func (s WindowSum) addPixel(p images.Pixel) WindowSum {
	return WindowSum{s.R + uint64(p.R), s.G + uint64(p.G), s.B + uint64(p.B), s.A + uint64(p.A)}
}

func widen(s images.SatPixel) WindowSum {
	return WindowSum{uint64(s.R), uint64(s.G), uint64(s.B), uint64(s.A)}
}

// ValidKernel reports whether size is a usable box kernel: positive and odd.
func ValidKernel(size int) bool {
	return size > 0 && size%2 == 1
}

// SATKernelFits reports whether every window sum of a size x size kernel fits
// in the 32-bit cells of a summed-area table.
func SATKernelFits(size int) bool {
	return size > 0 && uint64(size)*uint64(size)*math.MaxUint8 <= math.MaxUint32
}

// Radius returns n for a (2n+1) x (2n+1) kernel.
func Radius(kernelSize int) int {
	return (kernelSize - 1) / 2
}

// NaiveWindowSum returns the per-channel sum of the (2*radius+1)^2 window of
// padded centered on the padded position of (row, col). padded must carry a
// border of exactly radius.
func NaiveWindowSum(padded images.Grid[images.Pixel], radius, row, col int) WindowSum {
	var sum WindowSum
	span := 2*radius + 1
	for r := row; r < row+span; r++ {
		for _, p := range padded.Row(r)[col : col+span] {
			sum = sum.addPixel(p)
		}
	}
	return sum
}

// NaiveBlur writes the mean of the window around (row, col) into input.
//
// The window is read from padded only; input is being rewritten by the same
// traversal and must never be sampled. Division truncates and alpha is 255.
//
// Arguments:
//   - input: The live image, written at (row, col).
//   - padded: input padded by radius with clamp-to-edge borders.
//   - radius: The kernel radius n of a (2n+1) kernel.
//   - row, col: Coordinates in input.
func NaiveBlur(input, padded images.Grid[images.Pixel], radius, row, col int) {
	span := uint64(2*radius + 1)
	input.Set(row, col, average(NaiveWindowSum(padded, radius, row, col), span*span))
}

// SATWindowSum returns the per-channel sum of the window around (row, col)
// using four table lookups. The result is exact only when SATKernelFits holds
// for the kernel.
//
// sat must be built from input padded by radius+1. The extra border row and
// column host the zero sentinels, so the window occupies padded rows
// row+1 .. row+2*radius+1 and the cells just outside it are row and col.
func SATWindowSum(sat images.Grid[images.SatPixel], radius, row, col int) WindowSum {
	top, left := row, col
	bottom, right := row+2*radius+1, col+2*radius+1
	return widen(sat.At(bottom, right).
		Sub(sat.At(top, right)).
		Sub(sat.At(bottom, left)).
		Add(sat.At(top, left)))
}

// SATBlur writes the mean of the window around (row, col) into input, reading
// the window sum from sat in constant time. Channels are clamped to [0, 255]
// and alpha is 255.
func SATBlur(input images.Grid[images.Pixel], sat images.Grid[images.SatPixel], radius, row, col int) {
	span := uint64(2*radius + 1)
	input.Set(row, col, average(SATWindowSum(sat, radius, row, col), span*span))
}

func average(sum WindowSum, area uint64) images.Pixel {
	return images.Pixel{
		R: clampSum(sum.R / area),
		G: clampSum(sum.G / area),
		B: clampSum(sum.B / area),
		A: 255,
	}
}

func clampSum(v uint64) uint8 {
	if v > 255 {
		return 255
	}
	return uint8(v)
}
