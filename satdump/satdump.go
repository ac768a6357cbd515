// Package satdump writes summed-area tables as text for offline inspection.
//
// Each table row becomes one line. Cells are separated by ',' and the four
// channel sums of a cell by '|', as in "R|G|B|A,R|G|B|A". A path ending in ".zst" is written as a zstd
// stream.
package satdump

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-satblur/images"
)

// Write renders sat to w.
func Write(w io.Writer, sat images.Grid[images.SatPixel]) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 64)
	for r := 0; r < sat.Rows; r++ {
		for c, cell := range sat.Row(r) {
			buf = buf[:0]
			if c > 0 {
				buf = append(buf, ',')
			}
			buf = strconv.AppendUint(buf, uint64(cell.R), 10)
			buf = append(buf, '|')
			buf = strconv.AppendUint(buf, uint64(cell.G), 10)
			buf = append(buf, '|')
			buf = strconv.AppendUint(buf, uint64(cell.B), 10)
			buf = append(buf, '|')
			buf = strconv.AppendUint(buf, uint64(cell.A), 10)
			if _, err := bw.Write(buf); err != nil {
				return errors.Wrap(err, "failed to write SAT cell")
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return errors.Wrap(err, "failed to write SAT row")
		}
	}
	return errors.Wrap(bw.Flush(), "failed to flush SAT dump")
}

// WriteFile renders sat to path, compressing with zstd when path ends in ".zst".
func WriteFile(path string, sat images.Grid[images.SatPixel]) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create SAT dump")
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "failed to close SAT dump")
		}
	}()

	if !strings.HasSuffix(path, ".zst") {
		return Write(f, sat)
	}

	enc, err := zstd.NewWriter(f)
	if err != nil {
		return errors.Wrap(err, "failed to create zstd encoder")
	}
	if err := Write(enc, sat); err != nil {
		enc.Close()
		return err
	}
	return errors.Wrap(enc.Close(), "failed to finish zstd stream")
}

// Read parses a dump produced by Write back into a table.
func Read(r io.Reader) (images.Grid[images.SatPixel], error) {
	var (
		data []images.SatPixel
		rows int
		cols = -1
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for sc.Scan() {
		cells := strings.Split(sc.Text(), ",")
		if cols >= 0 && len(cells) != cols {
			return images.Grid[images.SatPixel]{}, errors.Errorf("row %d has %d cells, want %d", rows, len(cells), cols)
		}
		cols = len(cells)
		for c, cell := range cells {
			px, err := parseCell(cell)
			if err != nil {
				return images.Grid[images.SatPixel]{}, errors.Wrapf(err, "row %d cell %d", rows, c)
			}
			data = append(data, px)
		}
		rows++
	}
	if err := sc.Err(); err != nil {
		return images.Grid[images.SatPixel]{}, errors.Wrap(err, "failed to read SAT dump")
	}
	if rows == 0 {
		return images.Grid[images.SatPixel]{}, nil
	}
	return images.GridOf(data, rows, cols), nil
}

// ReadFile parses a dump file, transparently decompressing ".zst" files.
func ReadFile(path string) (images.Grid[images.SatPixel], error) {
	f, err := os.Open(path)
	if err != nil {
		return images.Grid[images.SatPixel]{}, errors.Wrap(err, "failed to open SAT dump")
	}
	defer f.Close()

	if !strings.HasSuffix(path, ".zst") {
		return Read(f)
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		return images.Grid[images.SatPixel]{}, errors.Wrap(err, "failed to create zstd decoder")
	}
	defer dec.Close()
	return Read(dec)
}

func parseCell(s string) (images.SatPixel, error) {
	parts := strings.Split(s, "|")
	if len(parts) != images.Channels {
		return images.SatPixel{}, errors.Errorf("cell %q has %d channels", s, len(parts))
	}
	var v [images.Channels]uint32
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return images.SatPixel{}, errors.Wrapf(err, "channel %d", i)
		}
		v[i] = uint32(n)
	}
	return images.SatPixel{R: v[0], G: v[1], B: v[2], A: v[3]}, nil
}
