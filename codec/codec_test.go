package codec

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-satblur/images"
)

func getTestImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 5), B: uint8(x + y), A: 255})
		}
	}
	return img
}

func encode(t *testing.T, img image.Image, f images.ImageFormat, opt EncodeOptions) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, f, opt), "encoding %s should succeed", f)
	return buf.Bytes()
}

func TestDecodeFormats(t *testing.T) {
	src := getTestImage(24, 16)

	tests := []struct {
		format images.ImageFormat
		opt    EncodeOptions
		exact  bool
	}{
		{images.FormatPNG, EncodeOptions{}, true},
		{images.FormatBMP, EncodeOptions{}, true},
		{images.FormatTIFF, EncodeOptions{}, true},
		{images.FormatWebP, EncodeOptions{}, true},
		{images.FormatJPEG, EncodeOptions{Quality: 90}, false},
		{images.FormatGIF, EncodeOptions{}, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			data := encode(t, src, tt.format, tt.opt)

			img, format, err := Decode(data, DecodeOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.format, format)
			assert.Equal(t, image.Rect(0, 0, 24, 16), img.Bounds())
			assert.Len(t, img.Pix, 24*16*images.Channels)
			if tt.exact {
				assert.Equal(t, src.Pix, img.Pix, "lossless round trip must preserve pixels")
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	_, _, err := Decode(nil, DecodeOptions{})
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, _, err = Decode([]byte("definitely not an image"), DecodeOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	png := encode(t, getTestImage(8, 8), images.FormatPNG, EncodeOptions{})
	_, _, err = Decode(png[:len(png)/2], DecodeOptions{})
	assert.Error(t, err, "truncated PNG must fail")
	assert.NotErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecodeMaxSide(t *testing.T) {
	data := encode(t, getTestImage(200, 100), images.FormatPNG, EncodeOptions{})

	img, _, err := Decode(data, DecodeOptions{MaxSide: 50})
	require.NoError(t, err)
	assert.Equal(t, 50, img.Bounds().Dx())
	assert.Equal(t, 25, img.Bounds().Dy())

	img, _, err = Decode(data, DecodeOptions{MaxSide: 400})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 200, 100), img.Bounds(), "small images are not upscaled")
}

func TestToNRGBA(t *testing.T) {
	src := getTestImage(10, 10)
	assert.Same(t, src, ToNRGBA(src), "packed NRGBA is returned unchanged")

	sub := src.SubImage(image.Rect(2, 3, 7, 9)).(*image.NRGBA)
	out := ToNRGBA(sub)
	require.Equal(t, image.Rect(0, 0, 5, 6), out.Bounds())
	assert.Equal(t, src.NRGBAAt(2, 3), out.NRGBAAt(0, 0))
	assert.Equal(t, src.NRGBAAt(6, 8), out.NRGBAAt(4, 5))

	gray := image.NewGray(image.Rect(0, 0, 2, 1))
	gray.Pix[1] = 200
	out = ToNRGBA(gray)
	assert.Equal(t, color.NRGBA{200, 200, 200, 255}, out.NRGBAAt(1, 0))
}

func TestEncodeUnknownFormat(t *testing.T) {
	err := Encode(&bytes.Buffer{}, getTestImage(1, 1), images.ImageFormat("xcf"), EncodeOptions{})
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}
