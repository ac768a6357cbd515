package kernels

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-satblur/images"
)

// Strategy selects how a summed-area table is scheduled. Every strategy
// produces bit-identical tables; they differ only in how work is spread over
// goroutines.
type Strategy int

const (
	// StrategySerial computes the table with a single row-major scan.
	StrategySerial Strategy = iota
	// StrategyWavefront pipelines a column pass (producer) into a row pass
	// (consumer) running on a second goroutine.
	StrategyWavefront
	// StrategyTwoPass runs the column pass over disjoint column spans in
	// parallel, waits for all of them, then runs the row pass over disjoint
	// row spans.
	StrategyTwoPass
)

// DefaultBatchSize is the number of rows the wavefront producer completes
// between two publications of its safe row.
const DefaultBatchSize = 32

var strategyNames = map[Strategy]string{
	StrategySerial:    "serial",
	StrategyWavefront: "wavefront",
	StrategyTwoPass:   "two-pass",
}

// String returns the configuration name of the strategy.
func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy maps a configuration name to a Strategy. Matching is case
// insensitive and accepts "twopass" as well as "two-pass".
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "serial", "linear":
		return StrategySerial, nil
	case "wavefront", "pipeline":
		return StrategyWavefront, nil
	case "two-pass", "twopass", "barrier":
		return StrategyTwoPass, nil
	default:
		return 0, errors.Errorf("unknown SAT strategy %q", name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	if _, ok := strategyNames[s]; !ok {
		return nil, errors.Errorf("unknown SAT strategy %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// SATOptions tunes the concurrent strategies. Zero values select defaults.
type SATOptions struct {
	// BatchSize is the wavefront publication interval in rows.
	BatchSize int
	// Workers is the number of goroutines per two-pass phase.
	Workers int
}

func (o SATOptions) batchSize() int {
	if o.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return o.BatchSize
}

func (o SATOptions) workers() int {
	if o.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Workers
}

// BuildSAT computes the summed-area table of padded.
//
// Row 0 and column 0 of the result are zero sentinels. For every interior cell
//
//	sat[i,k] = padded[i,k] + sat[i-1,k] + sat[i,k-1] - sat[i-1,k-1]
//
// so sat[i,k] is the sum of padded over [1..i] x [1..k]. Callers pad with one
// extra border cell to give the sentinels room.
//
// Arguments:
//   - padded: The padded source grid. It is only read.
//   - s: The scheduling strategy.
//   - opt: Tuning for the concurrent strategies.
//
// Returns:
//   - A newly allocated table with the dimensions of padded.
func BuildSAT(padded images.Grid[images.Pixel], s Strategy, opt SATOptions) images.Grid[images.SatPixel] {
	sat := images.NewGrid[images.SatPixel](padded.Rows, padded.Cols)
	BuildSATInto(sat, padded, s, opt)
	return sat
}

// BuildSATInto is BuildSAT writing into a caller-supplied table of matching
// dimensions. Previous contents of sat are irrelevant; every cell is written.
func BuildSATInto(sat images.Grid[images.SatPixel], padded images.Grid[images.Pixel], s Strategy, opt SATOptions) {
	if sat.Rows != padded.Rows || sat.Cols != padded.Cols {
		panic(fmt.Sprintf("kernels: SAT %dx%d does not match padded grid %dx%d",
			sat.Rows, sat.Cols, padded.Rows, padded.Cols))
	}
	if sat.Rows == 0 || sat.Cols == 0 {
		return
	}

	clear(sat.Row(0))
	for r := 1; r < sat.Rows; r++ {
		*sat.Ptr(r, 0) = images.SatPixel{}
	}
	if sat.Rows == 1 || sat.Cols == 1 {
		return
	}

	switch s {
	case StrategySerial:
		buildSerial(sat, padded)
	case StrategyWavefront:
		buildWavefront(sat, padded, opt.batchSize())
	case StrategyTwoPass:
		buildTwoPass(sat, padded, opt.workers())
	default:
		panic(fmt.Sprintf("kernels: unknown SAT strategy %d", int(s)))
	}
}

// buildSerial applies the recurrence directly, one row at a time.
func buildSerial(sat images.Grid[images.SatPixel], padded images.Grid[images.Pixel]) {
	for i := 1; i < sat.Rows; i++ {
		above := sat.Row(i - 1)
		cur := sat.Row(i)
		src := padded.Row(i)
		for k := 1; k < sat.Cols; k++ {
			cur[k] = above[k].Add(cur[k-1]).Sub(above[k-1]).AddPixel(src[k])
		}
	}
}

// accumulateRow turns column sums in row into full prefix sums, left to right.
// Column 0 is the sentinel and is only read.
func accumulateRow(row []images.SatPixel) {
	for c := 1; c < len(row); c++ {
		row[c] = row[c].Add(row[c-1])
	}
}
