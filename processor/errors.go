package processor

import "github.com/pkg/errors"

var (
	// ErrDecode reports that Load could not decode the input bytes. The
	// previously loaded image, if any, is kept.
	ErrDecode = errors.New("processor: failed to decode image")
	// ErrNotLoaded reports a filter request before any successful Load.
	ErrNotLoaded = errors.New("processor: no image loaded")
	// ErrInvalidKernel reports a kernel size that is not a positive odd integer,
	// or one whose window sums overflow the summed-area table in ModeSAT.
	ErrInvalidKernel = errors.New("processor: invalid kernel size")
	// ErrInvalidMode reports an unknown filter mode.
	ErrInvalidMode = errors.New("processor: unknown filter mode")
)

// DecodeError carries the codec failure behind ErrDecode.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return ErrDecode.Error() + ": " + e.Err.Error()
}

// Unwrap returns the underlying codec error.
func (e *DecodeError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrDecode) hold for every DecodeError.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }
