package processor

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nvr-ai/go-satblur/images"
	"github.com/nvr-ai/go-satblur/images/kernels"
)

// Mode selects the blur implementation.
type Mode int

const (
	// ModeNaive averages every window directly from the padded image.
	ModeNaive Mode = iota
	// ModeSAT builds a summed-area table and reads each window in O(1).
	ModeSAT
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNaive:
		return "naive"
	case ModeSAT:
		return "sat"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps "naive" or "sat" (any case) to a Mode.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "naive":
		return ModeNaive, nil
	case "sat":
		return ModeSAT, nil
	default:
		return 0, errors.Wrapf(ErrInvalidMode, "%q", name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if m != ModeNaive && m != ModeSAT {
		return nil, errors.Wrapf(ErrInvalidMode, "%d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Config configures a Processor and the filter a host applies by default.
type Config struct {
	// KernelSize is the default box kernel edge length (odd, positive).
	KernelSize int `json:"kernel_size" yaml:"kernel_size"`
	// Mode is the default blur implementation.
	Mode Mode `json:"mode" yaml:"mode"`
	// Strategy schedules SAT construction in ModeSAT.
	Strategy kernels.Strategy `json:"strategy" yaml:"strategy"`
	// BatchSize is the wavefront publication interval in rows (0: default).
	BatchSize int `json:"batch_size" yaml:"batch_size"`
	// Workers is the goroutine count per two-pass phase (0: GOMAXPROCS).
	Workers int `json:"workers" yaml:"workers"`
	// Parallel splits the per-pixel traversal over goroutines.
	Parallel bool `json:"parallel" yaml:"parallel"`
	// MaxSide downscales loaded images larger than this (0: never).
	MaxSide int `json:"max_side" yaml:"max_side"`
	// ReuseBuffers keeps padded and SAT buffers in a pool between calls.
	ReuseBuffers bool `json:"reuse_buffers" yaml:"reuse_buffers"`
	// SATHook, when set, is called with every table before it is consumed.
	// The table is only valid for the duration of the call.
	SATHook func(sat images.Grid[images.SatPixel]) `json:"-" yaml:"-"`
}

// DefaultConfig returns a 3x3 naive blur with the two-pass SAT strategy.
func DefaultConfig() *Config {
	return &Config{
		KernelSize: 3,
		Mode:       ModeNaive,
		Strategy:   kernels.StrategyTwoPass,
		BatchSize:  kernels.DefaultBatchSize,
	}
}

// Validate checks every field for a usable value.
func (c *Config) Validate() error {
	if !kernels.ValidKernel(c.KernelSize) {
		return errors.Wrapf(ErrInvalidKernel, "kernel_size %d", c.KernelSize)
	}
	if _, err := c.Mode.MarshalText(); err != nil {
		return err
	}
	if c.Mode == ModeSAT && !kernels.SATKernelFits(c.KernelSize) {
		return errors.Wrapf(ErrInvalidKernel, "kernel_size %d overflows the summed-area table", c.KernelSize)
	}
	if _, err := c.Strategy.MarshalText(); err != nil {
		return err
	}
	if c.BatchSize < 0 {
		return errors.Errorf("batch_size must not be negative, got %d", c.BatchSize)
	}
	if c.Workers < 0 {
		return errors.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.MaxSide < 0 {
		return errors.Errorf("max_side must not be negative, got %d", c.MaxSide)
	}
	return nil
}

// LoadConfig reads a YAML file on top of DefaultConfig and validates it.
//
// Arguments:
//   - path: Location of the YAML document.
//
// Returns:
//   - The merged configuration.
//   - error if the file cannot be read, parsed or validated.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config")
	}
	return ParseConfig(data)
}

// ParseConfig is LoadConfig over an in-memory YAML document.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}
