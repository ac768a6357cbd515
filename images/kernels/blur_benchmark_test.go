package kernels

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/nvr-ai/go-satblur/images"
)

func genPixels(w, h int) images.Grid[images.Pixel] {
	g := images.NewGrid[images.Pixel](h, w)
	rng := rand.New(rand.NewSource(1))
	for i := range g.Data {
		g.Data[i] = images.Pixel{
			R: uint8(rng.Intn(256)),
			G: uint8(rng.Intn(256)),
			B: uint8(rng.Intn(256)),
			A: 255,
		}
	}
	return g
}

func BenchmarkBuildSAT_1080p(b *testing.B) {
	padded := images.Pad(genPixels(1920, 1080), 4)
	for _, s := range allStrategies {
		b.Run(s.String(), func(b *testing.B) {
			sat := images.NewGrid[images.SatPixel](padded.Rows, padded.Cols)
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				BuildSATInto(sat, padded, s, SATOptions{})
			}
		})
	}
}

func BenchmarkWavefrontBatch_1080p(b *testing.B) {
	padded := images.Pad(genPixels(1920, 1080), 4)
	sat := images.NewGrid[images.SatPixel](padded.Rows, padded.Cols)
	for _, batch := range []int{1, 8, 32, 128} {
		b.Run(fmt.Sprintf("batch=%d", batch), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				BuildSATInto(sat, padded, StrategyWavefront, SATOptions{BatchSize: batch})
			}
		})
	}
}

func BenchmarkNaive_640_k7(b *testing.B) {
	input := genPixels(640, 640)
	padded := images.Pad(input, 3)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Traverse(input.Rows, input.Cols, false, func(r, c int) { NaiveBlur(input, padded, 3, r, c) })
	}
}

func BenchmarkSAT_640_k7(b *testing.B) {
	input := genPixels(640, 640)
	sat := BuildSAT(images.Pad(input, 4), StrategySerial, SATOptions{})
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Traverse(input.Rows, input.Cols, false, func(r, c int) { SATBlur(input, sat, 3, r, c) })
	}
}

// The SAT path's cost is independent of the kernel; the naive path grows with k^2.
func BenchmarkSAT_1080p_k31_Parallel(b *testing.B) {
	input := genPixels(1920, 1080)
	pool := &Pool{}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		padded := pool.GetPixels(input.Rows+32, input.Cols+32)
		images.PadInto(padded, input, 16)
		sat := pool.GetSAT(padded.Rows, padded.Cols)
		BuildSATInto(sat, padded, StrategyTwoPass, SATOptions{})
		Traverse(input.Rows, input.Cols, true, func(r, c int) { SATBlur(input, sat, 15, r, c) })
		pool.PutSAT(sat)
		pool.PutPixels(padded)
	}
}
