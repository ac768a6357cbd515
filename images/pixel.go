// Package images provides the pixel value types, grid views, and border padding
// used by the box blur kernels.
package images

// Channels is the number of interleaved channels in an RGBA pixel buffer.
const Channels = 4

// Pixel is a single 8-bit RGBA sample.
//
// Arithmetic on Pixel saturates each color channel independently to [0, 255].
// Alpha is carried from the receiver and is never touched by the blur math.
type Pixel struct {
	R, G, B, A uint8
}

// clamp8 saturates v to the [0, 255] range of a channel.
func clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Add returns p + o with each color channel saturated.
//
// Arguments:
//   - o: The pixel to add.
//
// Returns:
//   - The saturated sum, keeping the alpha of p.
func (p Pixel) Add(o Pixel) Pixel {
	return Pixel{
		R: clamp8(int(p.R) + int(o.R)),
		G: clamp8(int(p.G) + int(o.G)),
		B: clamp8(int(p.B) + int(o.B)),
		A: p.A,
	}
}

// AddScalar adds v to every color channel with saturation. A negative v
// subtracts, bottoming out at 0.
func (p Pixel) AddScalar(v int) Pixel {
	return Pixel{
		R: clamp8(int(p.R) + v),
		G: clamp8(int(p.G) + v),
		B: clamp8(int(p.B) + v),
		A: p.A,
	}
}

// Div divides every color channel by d, truncating. d must be positive.
func (p Pixel) Div(d int) Pixel {
	return Pixel{
		R: clamp8(int(p.R) / d),
		G: clamp8(int(p.G) / d),
		B: clamp8(int(p.B) / d),
		A: p.A,
	}
}

// SatPixel is one summed-area-table cell: a running sum per channel.
//
// Arithmetic wraps modulo 2^32. Window sums recovered by inclusion-exclusion
// stay exact as long as the window itself fits in 32 bits, even when the
// table's running totals overflow.
type SatPixel struct {
	R, G, B, A uint32
}

// AddPixel returns s with the channels of p added.
func (s SatPixel) AddPixel(p Pixel) SatPixel {
	return SatPixel{
		R: s.R + uint32(p.R),
		G: s.G + uint32(p.G),
		B: s.B + uint32(p.B),
		A: s.A + uint32(p.A),
	}
}

// Add returns s + o.
func (s SatPixel) Add(o SatPixel) SatPixel {
	return SatPixel{R: s.R + o.R, G: s.G + o.G, B: s.B + o.B, A: s.A + o.A}
}

// Sub returns s - o.
func (s SatPixel) Sub(o SatPixel) SatPixel {
	return SatPixel{R: s.R - o.R, G: s.G - o.G, B: s.B - o.B, A: s.A - o.A}
}
