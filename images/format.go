package images

import (
	"path/filepath"
	"strings"
)

// ImageFormat represents supported image formats
type ImageFormat string

// Supported formats. The values match the names returned by image.Decode.
const (
	FormatJPEG ImageFormat = "jpeg"
	FormatWebP ImageFormat = "webp"
	FormatPNG  ImageFormat = "png"
	FormatGIF  ImageFormat = "gif"
	FormatBMP  ImageFormat = "bmp"
	FormatTIFF ImageFormat = "tiff"
)

// FormatFromPath guesses the format from a file extension. The second result is
// false when the extension is not recognized.
func FormatFromPath(path string) (ImageFormat, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return FormatJPEG, true
	case ".webp":
		return FormatWebP, true
	case ".png":
		return FormatPNG, true
	case ".gif":
		return FormatGIF, true
	case ".bmp":
		return FormatBMP, true
	case ".tif", ".tiff":
		return FormatTIFF, true
	default:
		return "", false
	}
}

// Ext returns the canonical file extension for f, including the dot.
func (f ImageFormat) Ext() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case FormatTIFF:
		return ".tif"
	default:
		return "." + string(f)
	}
}
