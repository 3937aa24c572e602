package sight

import (
	"math"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidRayCount is returned for a ray count below 1.
	ErrInvalidRayCount = errors.New("ray count must be at least 1")
	// ErrInvalidRayLength is returned for a ray length that is not positive.
	ErrInvalidRayLength = errors.New("ray length must be positive")
)

// Config holds the parameters of one visibility computation. It is a plain
// value: callers that change settings pass a new Config on the next call.
type Config struct {
	RayCount        int     // Number of scan lines in the fan
	RayLength       float64 // Length of every scan line
	ClipToRayLength bool    // Unblocked rays end at RayLength instead of being dropped
	Workers         int     // Goroutines resolving rays; 0 or 1 resolves on the caller's goroutine
}

// DefaultConfig returns the settings the demo starts with.
func DefaultConfig() Config {
	return Config{
		RayCount:        1000,
		RayLength:       200,
		ClipToRayLength: true,
		Workers:         1,
	}
}

// Validate reports whether the configuration can produce a scan fan.
func (c Config) Validate() error {
	if c.RayCount < 1 {
		return errors.Wrapf(ErrInvalidRayCount, "got %d", c.RayCount)
	}
	if !(c.RayLength > 0) || math.IsInf(c.RayLength, 1) {
		return errors.Wrapf(ErrInvalidRayLength, "got %v", c.RayLength)
	}
	return nil
}
