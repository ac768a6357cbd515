package util

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-satblur/images"
)

// ImageFile represents an image file.
type ImageFile struct {
	// Path is the path to the image file.
	Path string
	// Data is the raw bytes of the image file.
	Data []byte
	// Format is the format implied by the file extension.
	Format images.ImageFormat
	// Frame is the frame number for files named "frame-<n>", or -1.
	Frame int
}

// LoadImageFile reads a single image file.
func LoadImageFile(path string) (ImageFile, error) {
	format, ok := images.FormatFromPath(path)
	if !ok {
		return ImageFile{}, errors.Errorf("unsupported image extension %q", filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ImageFile{}, errors.Wrap(err, "failed to read image file")
	}
	return ImageFile{Path: path, Data: data, Format: format, Frame: frameNumber(path)}, nil
}

// LoadDirectoryImageFiles reads all image files from a directory.
//
// Arguments:
// - dir: Directory path containing image files.
//
// Returns:
// - []ImageFile: Files in frame order, then name order for unnumbered files.
// - error: Error if loading fails.
func LoadDirectoryImageFiles(dir string) ([]ImageFile, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list image directory")
	}

	var loaded []ImageFile
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		if _, ok := images.FormatFromPath(file.Name()); !ok {
			continue
		}
		img, err := LoadImageFile(filepath.Join(dir, file.Name()))
		if err != nil {
			return nil, err
		}
		loaded = append(loaded, img)
	}

	sort.Slice(loaded, func(i, j int) bool {
		a, b := loaded[i], loaded[j]
		if (a.Frame < 0) != (b.Frame < 0) {
			return a.Frame >= 0
		}
		if a.Frame != b.Frame {
			return a.Frame < b.Frame
		}
		return a.Path < b.Path
	})

	return loaded, nil
}

// frameNumber extracts n from "frame-<n>.<ext>".
func frameNumber(path string) int {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if !strings.HasPrefix(name, "frame-") {
		return -1
	}
	frame, err := strconv.Atoi(strings.TrimPrefix(name, "frame-"))
	if err != nil || frame < 0 {
		return -1
	}
	return frame
}
