package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/seqfang/pkg/observability"
	"github.com/Sumatoshi-tech/seqfang/pkg/prefixspan"
	"github.com/Sumatoshi-tech/seqfang/pkg/report"
	"github.com/Sumatoshi-tech/seqfang/pkg/seqdb"
)

// Tool name constants.
const (
	ToolNameMine  = "prefixspan_mine"
	ToolNameStats = "seqdb_stats"
)

// Input limits.
const (
	// MaxSequencesInputBytes is the maximum allowed size for inline sequences (1 MB).
	MaxSequencesInputBytes = 1 << 20

	// DefaultPatternLimit caps the patterns returned when the caller sets no limit.
	DefaultPatternLimit = 1000
)

// Sentinel errors for tool input validation.
var (
	// ErrEmptySequences indicates the sequences parameter is empty.
	ErrEmptySequences = errors.New("sequences parameter is required and must not be empty")
	// ErrSequencesTooLarge indicates the sequences input exceeds the size limit.
	ErrSequencesTooLarge = errors.New("sequences input exceeds maximum size")
	// ErrInvalidLimit indicates a negative pattern limit.
	ErrInvalidLimit = errors.New("limit must not be negative")
)

// Input types (auto-generate JSON schemas via struct tags).

// MineInput is the input schema for the prefixspan_mine tool.
type MineInput struct {
	Sequences        string   `json:"sequences"                    jsonschema:"sequence database, one sequence per line"`
	MinSupport       *float64 `json:"min_support,omitempty"        jsonschema:"relative support threshold in [0,1] (default 0.5)"`
	MaxPatternLength int      `json:"max_pattern_length,omitempty" jsonschema:"maximum items per pattern (default 1000)"`
	MinPatternLength int      `json:"min_pattern_length,omitempty" jsonschema:"minimum items per reported pattern (default 1)"`
	Limit            int      `json:"limit,omitempty"              jsonschema:"maximum patterns returned (default 1000)"`
}

// StatsInput is the input schema for the seqdb_stats tool.
type StatsInput struct {
	Sequences string `json:"sequences" jsonschema:"sequence database, one sequence per line"`
}

// MineOutput is the structured result of prefixspan_mine.
type MineOutput struct {
	Result    prefixspan.Result `json:"result"`
	Patterns  []report.Pattern  `json:"patterns"`
	Truncated bool              `json:"truncated"`
}

// Output type (used as structured output for generic AddTool).

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

type toolHandler struct {
	logger *slog.Logger
	tracer trace.Tracer
	mining *observability.MiningMetrics
}

func (h *toolHandler) handleMine(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input MineInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	db, err := loadSequences(input.Sequences)
	if err != nil {
		return errorResult(err)
	}

	cfg := mineConfig(input)

	limit := input.Limit
	if limit < 0 {
		return errorResult(fmt.Errorf("%w: %d", ErrInvalidLimit, limit))
	}

	if limit == 0 {
		limit = DefaultPatternLimit
	}

	sink := &boundedCollector{limit: limit, patterns: []report.Pattern{}}

	opts := []prefixspan.Option{prefixspan.WithLogger(h.logger)}
	if h.tracer != nil {
		opts = append(opts, prefixspan.WithTracer(h.tracer))
	}

	if h.mining != nil {
		opts = append(opts, prefixspan.WithMetrics(h.mining))
	}

	miner, err := prefixspan.New(cfg, sink, opts...)
	if err != nil {
		return errorResult(err)
	}

	res, err := miner.Run(ctx, db)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(MineOutput{
		Result:    res,
		Patterns:  sink.patterns,
		Truncated: sink.dropped > 0,
	})
}

func (h *toolHandler) handleStats(
	_ context.Context, _ *mcpsdk.CallToolRequest, input StatsInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	db, err := loadSequences(input.Sequences)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(db.Stats())
}

func mineConfig(input MineInput) prefixspan.Config {
	cfg := prefixspan.DefaultConfig()

	if input.MinSupport != nil {
		cfg.MinSupport = *input.MinSupport
	}

	if input.MaxPatternLength != 0 {
		cfg.MaxPatternLength = input.MaxPatternLength
	}

	if input.MinPatternLength != 0 {
		cfg.MinPatternLength = input.MinPatternLength
	}

	return cfg
}

func loadSequences(text string) (*seqdb.Database, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptySequences
	}

	if len(text) > MaxSequencesInputBytes {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrSequencesTooLarge, len(text), MaxSequencesInputBytes)
	}

	return seqdb.Load(strings.NewReader(text))
}

// boundedCollector keeps the first limit patterns and counts the rest.
type boundedCollector struct {
	limit    int
	patterns []report.Pattern
	dropped  int
}

func (b *boundedCollector) Report(p report.Pattern) error {
	if len(b.patterns) >= b.limit {
		b.dropped++

		return nil
	}

	cp := report.Pattern{Itemsets: make([][]int, len(p.Itemsets)), Support: p.Support}
	for i, set := range p.Itemsets {
		cp.Itemsets[i] = append([]int(nil), set...)
	}

	b.patterns = append(b.patterns, cp)

	return nil
}

func (b *boundedCollector) Close() error { return nil }

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}
