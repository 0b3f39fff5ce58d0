package report

import (
	"errors"
	"slices"
	"sort"
	"sync"
)

// Chain forwards every pattern to each reporter in order.
type Chain struct {
	Reporters []Reporter
}

// Report forwards p, stopping at the first error.
func (c *Chain) Report(p Pattern) error {
	for _, r := range c.Reporters {
		err := r.Report(p)
		if err != nil {
			return err
		}
	}

	return nil
}

// Close closes every reporter and joins their errors.
func (c *Chain) Close() error {
	errs := make([]error, 0, len(c.Reporters))
	for _, r := range c.Reporters {
		errs = append(errs, r.Close())
	}

	return errors.Join(errs...)
}

// Collector keeps every reported pattern in memory.
type Collector struct {
	mu       sync.Mutex
	patterns []Pattern
}

// Report appends a copy of p.
func (c *Collector) Report(p Pattern) error {
	cp := Pattern{Itemsets: make([][]int, len(p.Itemsets)), Support: p.Support}
	for i, set := range p.Itemsets {
		cp.Itemsets[i] = slices.Clone(set)
	}

	c.mu.Lock()
	c.patterns = append(c.patterns, cp)
	c.mu.Unlock()

	return nil
}

// Close is a no-op.
func (c *Collector) Close() error { return nil }

// Patterns returns the collected patterns in report order.
func (c *Collector) Patterns() []Pattern {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.patterns)
}

// Supports maps each collected pattern's text form to its support.
func (c *Collector) Supports() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]int, len(c.patterns))
	for _, p := range c.patterns {
		out[p.String()] = p.Support
	}

	return out
}

// LengthBucket aggregates the patterns of one length.
type LengthBucket struct {
	Length     int
	Count      int
	MaxSupport int
}

// Histogram tracks how many patterns of each length were reported and keeps
// the patterns with the highest support.
type Histogram struct {
	TopN int

	buckets map[int]*LengthBucket
	top     []Pattern
}

// NewHistogram returns a histogram that retains the topN best-supported patterns.
func NewHistogram(topN int) *Histogram {
	return &Histogram{TopN: topN, buckets: make(map[int]*LengthBucket)}
}

// Report counts p.
func (h *Histogram) Report(p Pattern) error {
	n := p.Length()

	b, ok := h.buckets[n]
	if !ok {
		b = &LengthBucket{Length: n}
		h.buckets[n] = b
	}

	b.Count++
	b.MaxSupport = max(b.MaxSupport, p.Support)

	if h.TopN > 0 {
		h.pushTop(p)
	}

	return nil
}

// pushTop keeps h.top sorted by descending support, ties in report order.
func (h *Histogram) pushTop(p Pattern) {
	if len(h.top) == h.TopN && h.top[len(h.top)-1].Support >= p.Support {
		return
	}

	idx := sort.Search(len(h.top), func(i int) bool { return h.top[i].Support < p.Support })

	cp := Pattern{Itemsets: make([][]int, len(p.Itemsets)), Support: p.Support}
	for i, set := range p.Itemsets {
		cp.Itemsets[i] = slices.Clone(set)
	}

	h.top = slices.Insert(h.top, idx, cp)
	if len(h.top) > h.TopN {
		h.top = h.top[:h.TopN]
	}
}

// Close is a no-op.
func (h *Histogram) Close() error { return nil }

// Buckets returns the per-length aggregates ordered by length.
func (h *Histogram) Buckets() []LengthBucket {
	out := make([]LengthBucket, 0, len(h.buckets))
	for _, b := range h.buckets {
		out = append(out, *b)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Length < out[j].Length })

	return out
}

// Top returns the retained best-supported patterns.
func (h *Histogram) Top() []Pattern {
	return slices.Clone(h.top)
}
