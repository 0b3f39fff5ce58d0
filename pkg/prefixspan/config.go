package prefixspan

import (
	"errors"
	"fmt"
	"math"
)

// Default run parameters.
const (
	DefaultMaxPatternLength = 1000
	DefaultMinPatternLength = 1
	DefaultMinSupport       = 0.5
)

var (
	// ErrInvalidMaxLength is returned when the maximum pattern length is below 1.
	ErrInvalidMaxLength = errors.New("prefixspan: maximum pattern length must be >= 1")

	// ErrInvalidMinLength is returned when the minimum pattern length is below 1.
	ErrInvalidMinLength = errors.New("prefixspan: minimum pattern length must be >= 1")

	// ErrInvalidSupport is returned when the relative support is outside [0, 1].
	ErrInvalidSupport = errors.New("prefixspan: minimum support must be in [0, 1]")
)

// Config holds the parameters of one mining run.
type Config struct {
	// MaxPatternLength caps the item count of explored patterns.
	MaxPatternLength int `json:"max_pattern_length" mapstructure:"max_pattern_length"`

	// MinPatternLength suppresses output of shorter patterns. It never
	// limits the search itself.
	MinPatternLength int `json:"min_pattern_length" mapstructure:"min_pattern_length"`

	// MinSupport is the relative support threshold.
	MinSupport float64 `json:"min_support" mapstructure:"min_support"`
}

// DefaultConfig returns the default run parameters.
func DefaultConfig() Config {
	return Config{
		MaxPatternLength: DefaultMaxPatternLength,
		MinPatternLength: DefaultMinPatternLength,
		MinSupport:       DefaultMinSupport,
	}
}

// Validate checks the configuration bounds.
func (c Config) Validate() error {
	if c.MaxPatternLength < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxLength, c.MaxPatternLength)
	}

	if c.MinPatternLength < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidMinLength, c.MinPatternLength)
	}

	if math.IsNaN(c.MinSupport) || c.MinSupport < 0 || c.MinSupport > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSupport, c.MinSupport)
	}

	return nil
}

// AbsoluteSupport converts a relative threshold into a sequence count:
// max(1, ceil(relative * sequences)).
func AbsoluteSupport(relative float64, sequences int) int {
	abs := int(math.Ceil(relative * float64(sequences)))
	if abs <= 0 {
		return 1
	}

	return abs
}
