package prefixspan_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/seqfang/pkg/prefixspan"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*prefixspan.Config)
		wantErr error
	}{
		{name: "defaults", mutate: func(*prefixspan.Config) {}},
		{name: "zero_support", mutate: func(c *prefixspan.Config) { c.MinSupport = 0 }},
		{name: "full_support", mutate: func(c *prefixspan.Config) { c.MinSupport = 1 }},
		{name: "negative_support", mutate: func(c *prefixspan.Config) { c.MinSupport = -0.1 }, wantErr: prefixspan.ErrInvalidSupport},
		{name: "support_above_one", mutate: func(c *prefixspan.Config) { c.MinSupport = 1.5 }, wantErr: prefixspan.ErrInvalidSupport},
		{name: "nan_support", mutate: func(c *prefixspan.Config) { c.MinSupport = math.NaN() }, wantErr: prefixspan.ErrInvalidSupport},
		{name: "zero_max_length", mutate: func(c *prefixspan.Config) { c.MaxPatternLength = 0 }, wantErr: prefixspan.ErrInvalidMaxLength},
		{name: "zero_min_length", mutate: func(c *prefixspan.Config) { c.MinPatternLength = 0 }, wantErr: prefixspan.ErrInvalidMinLength},
		{name: "min_above_max", mutate: func(c *prefixspan.Config) { c.MinPatternLength, c.MaxPatternLength = 5, 2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := prefixspan.DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := prefixspan.DefaultConfig()

	assert.Equal(t, 1000, cfg.MaxPatternLength)
	assert.Equal(t, 1, cfg.MinPatternLength)
	assert.InDelta(t, 0.5, cfg.MinSupport, 0)
}

func TestAbsoluteSupport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		relative  float64
		sequences int
		want      int
	}{
		{name: "half_of_three", relative: 0.5, sequences: 3, want: 2},
		{name: "half_of_four", relative: 0.5, sequences: 4, want: 2},
		{name: "zero_clamps_to_one", relative: 0, sequences: 10, want: 1},
		{name: "empty_database", relative: 0.5, sequences: 0, want: 1},
		{name: "full", relative: 1, sequences: 7, want: 7},
		{name: "tiny_rounds_up", relative: 0.01, sequences: 10, want: 1},
		{name: "third_of_ten", relative: 0.3, sequences: 10, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, prefixspan.AbsoluteSupport(tt.relative, tt.sequences))
		})
	}
}
