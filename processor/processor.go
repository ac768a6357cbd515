// Package processor owns a decoded RGBA image and blurs it in place.
//
// A Processor starts empty. Load decodes an encoded image into its pixel
// buffer; ApplyFilter then rewrites that buffer with a box blur, either by
// direct window averaging or through a summed-area table.
package processor

import (
	"image"
	"time"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-satblur/codec"
	"github.com/nvr-ai/go-satblur/images"
	"github.com/nvr-ai/go-satblur/images/kernels"
)

// Processor holds one image and applies box blurs to it.
//
// A Processor is not safe for concurrent use.
type Processor struct {
	config *Config
	pool   *kernels.Pool
	img    *image.NRGBA
	format images.ImageFormat
}

// New creates an empty processor.
//
// Arguments:
//   - config: Processor configuration. nil selects DefaultConfig.
//
// Returns:
//   - A Processor with no image loaded.
//
// @example
//
//	p := processor.New(&processor.Config{Strategy: kernels.StrategyWavefront})
//	if _, _, err := p.Load(data); err != nil {
//	    return err
//	}
//	err := p.ApplyFilter(5, processor.ModeSAT)
func New(config *Config) *Processor {
	if config == nil {
		config = DefaultConfig()
	}
	p := &Processor{config: config}
	if config.ReuseBuffers {
		p.pool = &kernels.Pool{}
	}
	return p
}

// Load decodes data and replaces the current image with it.
//
// Arguments:
//   - data: Encoded image bytes.
//
// Returns:
//   - The width and height of the loaded image.
//   - A *DecodeError matching ErrDecode when data cannot be decoded. The
//     previous image stays loaded in that case.
func (p *Processor) Load(data []byte) (width, height int, err error) {
	img, format, err := codec.Decode(data, codec.DecodeOptions{MaxSide: p.config.MaxSide})
	if err != nil {
		Logger().Warn("failed to load image", "bytes", len(data), "error", err)
		return 0, 0, &DecodeError{Err: err}
	}

	p.img = img
	p.format = format
	Logger().Info("loaded image", "width", p.Width(), "height", p.Height(), "format", string(format))
	return p.Width(), p.Height(), nil
}

// LoadImage replaces the current image with a copy of img, for hosts that
// decode on their own.
func (p *Processor) LoadImage(img image.Image) (width, height int) {
	if n, ok := img.(*image.NRGBA); ok {
		img = cloneNRGBA(n)
	}
	p.img = codec.ToNRGBA(img)
	p.format = ""
	return p.Width(), p.Height()
}

func cloneNRGBA(n *image.NRGBA) *image.NRGBA {
	c := *n
	c.Pix = append([]byte(nil), n.Pix...)
	return &c
}

// ApplyFilter blurs the loaded image in place with a kernelSize x kernelSize
// box.
//
// The image is padded by (kernelSize-1)/2 with clamp-to-edge borders, plus one
// more row and column in ModeSAT for the table's zero sentinels. Every output
// pixel is computed from the padded copy, never from pixels already rewritten.
//
// Arguments:
//   - kernelSize: A positive odd kernel edge length.
//   - mode: ModeNaive or ModeSAT.
//
// Returns:
//   - ErrNotLoaded, ErrInvalidKernel or ErrInvalidMode (possibly wrapped); the
//     image is untouched on error.
func (p *Processor) ApplyFilter(kernelSize int, mode Mode) error {
	if p.img == nil {
		Logger().Warn("filter requested with no image loaded")
		return ErrNotLoaded
	}
	if !kernels.ValidKernel(kernelSize) {
		Logger().Warn("rejected kernel size", "kernel", kernelSize)
		return errors.Wrapf(ErrInvalidKernel, "got %d", kernelSize)
	}
	if mode != ModeNaive && mode != ModeSAT {
		return errors.Wrapf(ErrInvalidMode, "%d", int(mode))
	}
	if mode == ModeSAT && !kernels.SATKernelFits(kernelSize) {
		Logger().Warn("kernel too large for summed-area table", "kernel", kernelSize)
		return errors.Wrapf(ErrInvalidKernel, "%d overflows 32-bit table cells", kernelSize)
	}

	start := time.Now()
	w, h := p.Width(), p.Height()
	input := images.PixelGrid(p.img.Pix, w, h)
	radius := kernels.Radius(kernelSize)
	border := radius
	if mode == ModeSAT {
		border++
	}

	padded := p.pool.GetPixels(h+2*border, w+2*border)
	defer p.pool.PutPixels(padded)
	images.PadInto(padded, input, border)

	switch mode {
	case ModeSAT:
		sat := p.pool.GetSAT(padded.Rows, padded.Cols)
		defer p.pool.PutSAT(sat)

		kernels.BuildSATInto(sat, padded, p.config.Strategy, kernels.SATOptions{
			BatchSize: p.config.BatchSize,
			Workers:   p.config.Workers,
		})
		Logger().Debug("built summed-area table",
			"strategy", p.config.Strategy.String(),
			"rows", sat.Rows, "cols", sat.Cols,
			"elapsed", time.Since(start))
		if p.config.SATHook != nil {
			p.config.SATHook(sat)
		}

		kernels.Traverse(h, w, p.config.Parallel, func(r, c int) {
			kernels.SATBlur(input, sat, radius, r, c)
		})
	default:
		kernels.Traverse(h, w, p.config.Parallel, func(r, c int) {
			kernels.NaiveBlur(input, padded, radius, r, c)
		})
	}

	Logger().Debug("applied box blur",
		"mode", mode.String(), "kernel", kernelSize, "border", border,
		"width", w, "height", h, "elapsed", time.Since(start))
	return nil
}

// Width returns the image width, or 0 before the first successful Load.
func (p *Processor) Width() int {
	if p.img == nil {
		return 0
	}
	return p.img.Rect.Dx()
}

// Height returns the image height, or 0 before the first successful Load.
func (p *Processor) Height() int {
	if p.img == nil {
		return 0
	}
	return p.img.Rect.Dy()
}

// Pix returns the interleaved RGBA bytes of the image (width*height*4,
// non-premultiplied). The slice stays valid and in place until the next
// successful Load; ApplyFilter writes through it.
func (p *Processor) Pix() []byte {
	if p.img == nil {
		return nil
	}
	return p.img.Pix
}

// Image returns the loaded image sharing Pix, or nil when empty.
func (p *Processor) Image() *image.NRGBA {
	return p.img
}

// Format returns the format detected by the last successful Load.
func (p *Processor) Format() images.ImageFormat {
	return p.format
}
