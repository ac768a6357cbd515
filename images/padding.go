package images

import "fmt"

// Pad returns a copy of in grown by border cells on every side.
//
// The interior [border, border+Rows) x [border, border+Cols) equals in. Border
// cells repeat the nearest edge pixel (clamp-to-edge): left and right columns
// are filled first from the interior rows, then the top and bottom rows copy the
// first and last padded interior rows, which carries the corners along.
//
// Arguments:
//   - in: The source grid. It is not modified.
//   - border: The border width. Zero yields an identity copy.
//
// Returns:
//   - A newly allocated (Rows+2*border) x (Cols+2*border) grid.
func Pad(in Grid[Pixel], border int) Grid[Pixel] {
	if border < 0 {
		panic(fmt.Sprintf("images: negative border %d", border))
	}
	out := NewGrid[Pixel](in.Rows+2*border, in.Cols+2*border)
	PadInto(out, in, border)
	return out
}

// PadInto writes the padded form of in into dst, which must already be sized
// (in.Rows+2*border) x (in.Cols+2*border). Every cell of dst is overwritten.
func PadInto(dst, in Grid[Pixel], border int) {
	if dst.Rows != in.Rows+2*border || dst.Cols != in.Cols+2*border {
		panic(fmt.Sprintf("images: pad target %dx%d does not fit %dx%d with border %d",
			dst.Rows, dst.Cols, in.Rows, in.Cols, border))
	}
	if in.Rows == 0 || in.Cols == 0 {
		return
	}

	right := dst.Cols - border
	for r := 0; r < in.Rows; r++ {
		row := dst.Row(r + border)
		copy(row[border:right], in.Row(r))

		first, last := row[border], row[right-1]
		for c := 0; c < border; c++ {
			row[c] = first
			row[right+c] = last
		}
	}

	top := dst.Row(border)
	bottom := dst.Row(dst.Rows - border - 1)
	for r := 0; r < border; r++ {
		copy(dst.Row(r), top)
		copy(dst.Row(dst.Rows-border+r), bottom)
	}
}
