// Package codec decodes encoded images into the flat, non-premultiplied RGBA
// buffers the blur kernels operate on, and encodes results back out.
package codec

import (
	"bytes"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/chai2010/webp"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"github.com/nvr-ai/go-satblur/images"
)

var (
	// ErrEmptyInput is returned when there are no bytes to decode.
	ErrEmptyInput = errors.New("codec: empty input")
	// ErrUnsupportedFormat is returned when the bytes match no known format.
	ErrUnsupportedFormat = errors.New("codec: unsupported image format")
)

// DecodeOptions configures Decode.
type DecodeOptions struct {
	// MaxSide, when positive, downscales images whose width or height exceeds
	// it, preserving the aspect ratio.
	MaxSide int `json:"max_side" yaml:"max_side"`
}

// Decode parses an encoded image and returns it as a tightly packed NRGBA
// image anchored at the origin.
//
// Arguments:
//   - data: The encoded image bytes (PNG, JPEG, GIF, BMP, TIFF or WebP).
//   - opt: Decode options.
//
// Returns:
//   - The decoded image, with Pix holding width*height*4 bytes.
//   - The detected format.
//   - error if the bytes cannot be decoded.
func Decode(data []byte, opt DecodeOptions) (*image.NRGBA, images.ImageFormat, error) {
	if len(data) == 0 {
		return nil, "", ErrEmptyInput
	}

	var (
		img    image.Image
		format images.ImageFormat
		err    error
	)
	if isWebP(data) {
		format = images.FormatWebP
		img, err = webp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, format, errors.Wrap(err, "failed to decode webp")
		}
	} else {
		var name string
		img, name, err = image.Decode(bytes.NewReader(data))
		if errors.Is(err, image.ErrFormat) {
			return nil, "", ErrUnsupportedFormat
		}
		if err != nil {
			return nil, images.ImageFormat(name), errors.Wrapf(err, "failed to decode %s", name)
		}
		format = images.ImageFormat(name)
	}

	if opt.MaxSide > 0 {
		b := img.Bounds()
		if b.Dx() > opt.MaxSide || b.Dy() > opt.MaxSide {
			img = resize.Thumbnail(uint(opt.MaxSide), uint(opt.MaxSide), img, resize.Lanczos3)
		}
	}

	return ToNRGBA(img), format, nil
}

// ToNRGBA returns img as a packed *image.NRGBA whose bounds start at the origin.
// Images already in that layout are returned as is; anything else is copied.
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == b.Dx()*images.Channels {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// isWebP sniffs the RIFF/WEBP container header.
func isWebP(data []byte) bool {
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP"
}

// EncodeOptions configures Encode.
type EncodeOptions struct {
	// Quality is used by lossy encoders (JPEG, WebP), in [1, 100]. Zero
	// selects lossless WebP and the JPEG default.
	Quality int `json:"quality" yaml:"quality"`
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format images.ImageFormat, opt EncodeOptions) error {
	var err error
	switch format {
	case images.FormatPNG:
		err = png.Encode(w, img)
	case images.FormatJPEG:
		q := jpeg.DefaultQuality
		if opt.Quality > 0 {
			q = opt.Quality
		}
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: q})
	case images.FormatGIF:
		err = gif.Encode(w, img, nil)
	case images.FormatBMP:
		err = bmp.Encode(w, img)
	case images.FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case images.FormatWebP:
		err = webp.Encode(w, img, &webp.Options{
			Lossless: opt.Quality <= 0,
			Quality:  float32(opt.Quality),
		})
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "cannot encode %q", format)
	}
	return errors.Wrapf(err, "failed to encode %s", format)
}
