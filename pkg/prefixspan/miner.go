// Package prefixspan mines frequent sequential patterns with the PrefixSpan
// projection-growth algorithm.
//
// A run indexes the items of a seqdb.Database, prunes infrequent items in
// place, and then grows patterns depth-first over pseudo-projections. Two
// growth strategies exist: a flat one for databases where every itemset has
// a single item and a general one with i- and s-extensions. The strategy is
// chosen once per run from the item index.
package prefixspan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/seqfang/pkg/observability"
	"github.com/Sumatoshi-tech/seqfang/pkg/report"
	"github.com/Sumatoshi-tech/seqfang/pkg/seqdb"
)

// Algorithm names the growth strategy used by a run.
type Algorithm string

const (
	// AlgorithmFlat grows single-item-per-itemset databases.
	AlgorithmFlat Algorithm = "flat"
	// AlgorithmItemset grows databases containing multi-item itemsets.
	AlgorithmItemset Algorithm = "itemset"
)

const spanRun = "prefixspan.run"

// Result summarizes a completed run.
type Result struct {
	Elapsed       time.Duration `json:"elapsed"`
	PatternCount  int           `json:"pattern_count"`
	Algorithm     Algorithm     `json:"algorithm"`
	SequenceCount int           `json:"sequence_count"`
	MinSupportAbs int           `json:"min_support_abs"`
	FrequentItems int           `json:"frequent_items"`
}

// ElapsedMillis returns the wall-clock run time in milliseconds.
func (r Result) ElapsedMillis() int64 {
	return r.Elapsed.Milliseconds()
}

// Option configures a Miner.
type Option func(*Miner)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Miner) { m.logger = logger }
}

// WithTracer sets the tracer used for the run span.
func WithTracer(tracer trace.Tracer) Option {
	return func(m *Miner) { m.tracer = tracer }
}

// WithMetrics records every completed run.
func WithMetrics(metrics *observability.MiningMetrics) Option {
	return func(m *Miner) { m.metrics = metrics }
}

// Miner runs PrefixSpan with a fixed configuration and reporter. A Miner
// must not run concurrently with itself.
type Miner struct {
	cfg      Config
	reporter report.Reporter
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *observability.MiningMetrics
}

// New validates cfg and returns a miner emitting to reporter.
func New(cfg Config, reporter report.Reporter, opts ...Option) (*Miner, error) {
	if reporter == nil {
		return nil, report.ErrNoOutput
	}

	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	m := &Miner{cfg: cfg, reporter: reporter}

	for _, opt := range opts {
		opt(m)
	}

	if m.logger == nil {
		m.logger = observability.DiscardLogger()
	}

	if m.tracer == nil {
		m.tracer = nooptrace.NewTracerProvider().Tracer("")
	}

	return m, nil
}

// Config returns the run parameters.
func (m *Miner) Config() Config {
	return m.cfg
}

// Run mines db, pruning it in place. The database must not be used for
// another run afterwards. The context carries telemetry only; a run always
// completes or fails.
func (m *Miner) Run(ctx context.Context, db *seqdb.Database) (Result, error) {
	start := time.Now()

	ctx, span := m.tracer.Start(ctx, spanRun, trace.WithAttributes(
		attribute.Int("prefixspan.sequences", db.Size()),
		attribute.Float64("prefixspan.min_support", m.cfg.MinSupport),
		attribute.Int("prefixspan.max_length", m.cfg.MaxPatternLength),
		attribute.Int("prefixspan.min_length", m.cfg.MinPatternLength),
	))
	defer span.End()

	r := &run{
		db:     db,
		minsup: AbsoluteSupport(m.cfg.MinSupport, db.Size()),
		maxLen: m.cfg.MaxPatternLength,
		buf:    newScratch(),
		writer: &patternWriter{minLen: m.cfg.MinPatternLength, reporter: m.reporter},
	}

	res := Result{SequenceCount: db.Size(), MinSupportAbs: r.minsup}

	m.logger.InfoContext(ctx, "mining started",
		"sequences", db.Size(), "min_support_abs", r.minsup,
		"max_length", m.cfg.MaxPatternLength, "min_length", m.cfg.MinPatternLength)

	idx := FindFrequentItems(db)
	g := selectGrower(idx.MultiItem)
	res.Algorithm = g.algorithm()

	g.prune(db, idx, r.minsup)

	frequent := idx.Frequent(r.minsup)
	res.FrequentItems = len(frequent)

	m.logger.DebugContext(ctx, "database pruned",
		"algorithm", res.Algorithm, "items", len(idx.Order), "frequent_items", len(frequent),
		"remaining_sequences", db.Present())

	err := r.mine(g, idx, frequent)

	res.PatternCount = r.writer.count
	res.Elapsed = time.Since(start)

	span.SetAttributes(
		attribute.String("prefixspan.algorithm", string(res.Algorithm)),
		attribute.Int("prefixspan.patterns", res.PatternCount),
	)

	if m.metrics != nil {
		m.metrics.RecordRun(ctx, string(res.Algorithm), res.PatternCount, res.FrequentItems, res.Elapsed, err)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return res, fmt.Errorf("mine patterns: %w", err)
	}

	m.logger.InfoContext(ctx, "mining completed",
		"algorithm", res.Algorithm, "patterns", res.PatternCount, "elapsed_ms", res.ElapsedMillis())

	return res, nil
}

// grower is one of the two growth strategies.
type grower interface {
	algorithm() Algorithm
	prune(db *seqdb.Database, idx *ItemIndex, minsup int)
	project(db *seqdb.Database, item int, sids []int) []seqdb.PseudoSequence
	grow(r *run, projected []seqdb.PseudoSequence, depth, last int) error
}

func selectGrower(multiItem bool) grower {
	if multiItem {
		return itemsetGrower{}
	}

	return flatGrower{}
}

// run holds the state of one search.
type run struct {
	db     *seqdb.Database
	minsup int
	maxLen int
	buf    *scratch
	writer *patternWriter
}

func (r *run) mine(g grower, idx *ItemIndex, frequent []int) error {
	for _, item := range frequent {
		sids := idx.Sequences[item]

		err := r.writer.emitSingle(item, len(sids))
		if err != nil {
			return err
		}

		if r.maxLen <= 1 {
			continue
		}

		r.buf.put(0, item)

		err = g.grow(r, g.project(r.db, item, sids), 2, 0)
		if err != nil {
			return err
		}
	}

	return nil
}
