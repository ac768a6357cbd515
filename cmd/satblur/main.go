// Command satblur box-blurs image files, either directly or through a
// summed-area table.
//
// Usage:
//
//	satblur -in photo.png -out blurred.png -kernel 9 -mode sat -strategy wavefront
//	satblur -in frames/ -out blurred/ -config blur.yaml
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-satblur/codec"
	"github.com/nvr-ai/go-satblur/images"
	"github.com/nvr-ai/go-satblur/images/kernels"
	"github.com/nvr-ai/go-satblur/processor"
	"github.com/nvr-ai/go-satblur/satdump"
	"github.com/nvr-ai/go-satblur/util"
)

// options are the command line settings that are not part of processor.Config.
type options struct {
	in      string
	out     string
	format  string
	quality int
	dumpSAT string
}

func main() {
	var (
		configFile = flag.String("config", "", "Path to YAML filter configuration")
		in         = flag.String("in", "", "Input image file or directory")
		out        = flag.String("out", "", "Output image file or directory")
		format     = flag.String("format", "", "Output format (png, jpeg, webp, bmp, tiff, gif); defaults to the input format")
		quality    = flag.Int("quality", 0, "JPEG/WebP quality (0: encoder default, lossless WebP)")
		kernel     = flag.Int("kernel", 3, "Box kernel size (positive, odd)")
		mode       = flag.String("mode", "naive", "Blur mode: naive or sat")
		strategy   = flag.String("strategy", "two-pass", "SAT strategy: serial, wavefront or two-pass")
		batch      = flag.Int("batch", kernels.DefaultBatchSize, "Wavefront rows per publication")
		workers    = flag.Int("workers", 0, "Goroutines per two-pass phase (0: GOMAXPROCS)")
		parallel   = flag.Bool("parallel", false, "Blur output rows in parallel")
		maxSide    = flag.Int("max-side", 0, "Downscale inputs larger than this before blurring (0: never)")
		dumpSAT    = flag.String("dump-sat", "", "Write the summed-area table to this file (.zst compresses)")
		verbose    = flag.Bool("v", false, "Enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	processor.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *in == "" || *out == "" {
		log.Fatal("Both -in and -out are required")
	}

	cfg := processor.DefaultConfig()
	if *configFile != "" {
		var err error
		cfg, err = processor.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	// Explicit flags win over the config file.
	var flagErr error
	flag.Visit(func(f *flag.Flag) {
		if flagErr != nil {
			return
		}
		switch f.Name {
		case "kernel":
			cfg.KernelSize = *kernel
		case "mode":
			cfg.Mode, flagErr = processor.ParseMode(*mode)
		case "strategy":
			cfg.Strategy, flagErr = kernels.ParseStrategy(*strategy)
		case "batch":
			cfg.BatchSize = *batch
		case "workers":
			cfg.Workers = *workers
		case "parallel":
			cfg.Parallel = *parallel
		case "max-side":
			cfg.MaxSide = *maxSide
		}
	})
	if flagErr != nil {
		log.Fatalf("Invalid flag: %v", flagErr)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	opts := options{in: *in, out: *out, format: *format, quality: *quality, dumpSAT: *dumpSAT}
	if err := run(cfg, opts); err != nil {
		log.Fatalf("satblur: %v", err)
	}
}

// run blurs a single file or every image in a directory.
func run(cfg *processor.Config, opts options) error {
	if opts.dumpSAT != "" && cfg.Mode != processor.ModeSAT {
		return errors.Errorf("-dump-sat needs -mode sat, got %s", cfg.Mode)
	}

	info, err := os.Stat(opts.in)
	if err != nil {
		return errors.Wrap(err, "failed to stat input")
	}

	if !info.IsDir() {
		file, err := util.LoadImageFile(opts.in)
		if err != nil {
			return err
		}
		return blurFile(cfg, file, opts.out, opts)
	}

	files, err := util.LoadDirectoryImageFiles(opts.in)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(opts.out, 0o755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}
	for _, file := range files {
		format, err := outputFormat(opts.format, "", file.Format)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(file.Path), filepath.Ext(file.Path)) + format.Ext()
		if err := blurFile(cfg, file, filepath.Join(opts.out, name), opts); err != nil {
			return errors.Wrapf(err, "failed on %s", file.Path)
		}
	}
	return nil
}

func blurFile(cfg *processor.Config, file util.ImageFile, outPath string, opts options) (err error) {
	format, err := outputFormat(opts.format, outPath, file.Format)
	if err != nil {
		return err
	}

	fileCfg := *cfg
	if opts.dumpSAT != "" {
		dumpPath := dumpPathFor(opts.dumpSAT, file.Path, opts.in)
		var dumpErr error
		fileCfg.SATHook = func(sat images.Grid[images.SatPixel]) {
			dumpErr = satdump.WriteFile(dumpPath, sat)
		}
		defer func() {
			if dumpErr != nil && err == nil {
				err = dumpErr
			}
		}()
	}

	p := processor.New(&fileCfg)
	w, h, err := p.Load(file.Data)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := p.ApplyFilter(cfg.KernelSize, cfg.Mode); err != nil {
		return err
	}
	elapsed := time.Since(start)

	var buf bytes.Buffer
	if err := codec.Encode(&buf, p.Image(), format, codec.EncodeOptions{Quality: opts.quality}); err != nil {
		return err
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(err, "failed to write output")
	}

	fmt.Printf("%s -> %s (%dx%d, %s k=%d, %v, md5 %s)\n",
		file.Path, outPath, w, h, cfg.Mode, cfg.KernelSize, elapsed, images.ComputeChecksum(p.Pix()))
	return nil
}

// outputFormat prefers the -format flag, then the output file extension, then
// the input format.
func outputFormat(flagValue, outPath string, input images.ImageFormat) (images.ImageFormat, error) {
	if flagValue == "" {
		if format, ok := images.FormatFromPath(outPath); ok {
			return format, nil
		}
		return input, nil
	}
	format, ok := images.FormatFromPath("x." + strings.ToLower(flagValue))
	if !ok {
		return "", errors.Errorf("unknown output format %q", flagValue)
	}
	return format, nil
}

// dumpPathFor keeps one dump per input when a directory is processed.
func dumpPathFor(dump, file, in string) string {
	if file == in {
		return dump
	}
	dir, base := filepath.Split(dump)
	stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	return filepath.Join(dir, stem+"."+base)
}
