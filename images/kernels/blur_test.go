package kernels

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-satblur/images"
)

func TestKernelHelpers(t *testing.T) {
	for _, k := range []int{1, 3, 5, 21} {
		assert.True(t, ValidKernel(k), "%d", k)
	}
	for _, k := range []int{-3, -1, 0, 2, 4} {
		assert.False(t, ValidKernel(k), "%d", k)
	}
	assert.True(t, SATKernelFits(4103))
	assert.False(t, SATKernelFits(4105))
	assert.False(t, SATKernelFits(0))
	assert.Equal(t, 0, Radius(1))
	assert.Equal(t, 1, Radius(3))
	assert.Equal(t, 3, Radius(7))
}

func TestWindowSumsAgree(t *testing.T) {
	input := randomGrid(11, 8, 99)

	for _, kernel := range []int{1, 3, 5, 7, 9} {
		radius := Radius(kernel)
		padded := images.Pad(input, radius)
		satPadded := images.Pad(input, radius+1)

		for _, s := range allStrategies {
			sat := BuildSAT(satPadded, s, SATOptions{BatchSize: 2, Workers: 3})
			t.Run(fmt.Sprintf("k=%d/%s", kernel, s), func(t *testing.T) {
				for r := 0; r < input.Rows; r++ {
					for c := 0; c < input.Cols; c++ {
						want := NaiveWindowSum(padded, radius, r, c)
						got := SATWindowSum(sat, radius, r, c)
						require.Equal(t, want, got, "window at (%d,%d)", r, c)
					}
				}
			})
		}
	}
}

func TestNaiveBlurHugeKernelDoesNotWrap(t *testing.T) {
	white := images.Pixel{R: 255, G: 255, B: 255, A: 255}
	input := images.GridOf([]images.Pixel{white}, 1, 1)
	radius := Radius(4107)
	padded := images.Pad(input, radius)

	sum := NaiveWindowSum(padded, radius, 0, 0)
	assert.Equal(t, uint64(4107*4107*255), sum.R)

	NaiveBlur(input, padded, radius, 0, 0)
	assert.Equal(t, white, input.At(0, 0))
}

func TestNaiveBlurReadsOnlyPadded(t *testing.T) {
	// A single bright pixel spreads evenly over its 3x3 neighbourhood. Were the
	// blur sampling already-written output, later cells would differ.
	input := images.NewGrid[images.Pixel](5, 5)
	for i := range input.Data {
		input.Data[i] = images.Pixel{A: 255}
	}
	input.Set(2, 2, images.Pixel{R: 90, G: 180, B: 255, A: 255})
	padded := images.Pad(input, 1)

	Traverse(input.Rows, input.Cols, false, func(r, c int) {
		NaiveBlur(input, padded, 1, r, c)
	})

	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			want := images.Pixel{A: 255}
			if r >= 1 && r <= 3 && c >= 1 && c <= 3 {
				want = images.Pixel{R: 10, G: 20, B: 28, A: 255}
			}
			assert.Equal(t, want, input.At(r, c), "(%d,%d)", r, c)
		}
	}
}

func TestBlurKernelOneIsIdentity(t *testing.T) {
	input := randomGrid(6, 9, 1)
	for i := range input.Data {
		input.Data[i].A = 255
	}
	want := append([]images.Pixel(nil), input.Data...)

	naive := images.GridOf(append([]images.Pixel(nil), input.Data...), input.Rows, input.Cols)
	padded := images.Pad(naive, 0)
	Traverse(naive.Rows, naive.Cols, false, func(r, c int) { NaiveBlur(naive, padded, 0, r, c) })
	assert.Equal(t, want, naive.Data)

	viaSAT := images.GridOf(append([]images.Pixel(nil), input.Data...), input.Rows, input.Cols)
	sat := BuildSAT(images.Pad(viaSAT, 1), StrategySerial, SATOptions{})
	Traverse(viaSAT.Rows, viaSAT.Cols, false, func(r, c int) { SATBlur(viaSAT, sat, 0, r, c) })
	assert.Equal(t, want, viaSAT.Data)
}

func TestNaiveAndSATBlurProduceSameImage(t *testing.T) {
	for _, kernel := range []int{3, 5, 11} {
		radius := Radius(kernel)
		src := randomGrid(23, 17, int64(kernel))

		naive := images.GridOf(append([]images.Pixel(nil), src.Data...), src.Rows, src.Cols)
		padded := images.Pad(naive, radius)
		Traverse(naive.Rows, naive.Cols, false, func(r, c int) { NaiveBlur(naive, padded, radius, r, c) })

		viaSAT := images.GridOf(append([]images.Pixel(nil), src.Data...), src.Rows, src.Cols)
		sat := BuildSAT(images.Pad(viaSAT, radius+1), StrategyTwoPass, SATOptions{})
		Traverse(viaSAT.Rows, viaSAT.Cols, true, func(r, c int) { SATBlur(viaSAT, sat, radius, r, c) })

		assert.Equal(t, naive.Data, viaSAT.Data, "kernel %d", kernel)
	}
}

func TestTraverseVisitsEveryCellOnce(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		rows, cols := 300, 7
		var hits = make([]int32, rows*cols)
		var total atomic.Int64
		Traverse(rows, cols, parallel, func(r, c int) {
			atomic.AddInt32(&hits[r*cols+c], 1)
			total.Add(1)
		})
		assert.Equal(t, int64(rows*cols), total.Load())
		for i, h := range hits {
			require.Equal(t, int32(1), h, "cell %d parallel=%v", i, parallel)
		}
	}

	Traverse(0, 10, true, func(int, int) { t.Fatal("no cells to visit") })
}

func TestPoolReusesBuffers(t *testing.T) {
	var nilPool *Pool
	g := nilPool.GetPixels(3, 4)
	assert.Equal(t, 12, g.Len())
	nilPool.PutPixels(g)

	p := &Pool{}
	sat := p.GetSAT(4, 4)
	require.Equal(t, 16, sat.Len())
	p.PutSAT(sat)

	smaller := p.GetSAT(2, 3)
	assert.Equal(t, 2, smaller.Rows)
	assert.Equal(t, 3, smaller.Cols)
	assert.Len(t, smaller.Data, 6)

	pix := p.GetPixels(10, 10)
	assert.Len(t, pix.Data, 100)
	p.PutPixels(pix)
}
