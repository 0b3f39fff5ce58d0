package prefixspan

import (
	"github.com/Sumatoshi-tech/seqfang/pkg/report"
	"github.com/Sumatoshi-tech/seqfang/pkg/seqdb"
)

// patternWriter applies the output-only minimum length gate and hands
// accepted patterns to the reporter.
type patternWriter struct {
	minLen   int
	reporter report.Reporter
	count    int
}

// emitSingle reports a length-1 pattern straight from its support list.
func (w *patternWriter) emitSingle(item, support int) error {
	if w.minLen > 1 {
		return nil
	}

	w.count++

	return w.reporter.Report(report.Pattern{Itemsets: [][]int{{item}}, Support: support})
}

// emit decodes a buffer prefix and reports it with the given support.
func (w *patternWriter) emit(prefix []int, support int) error {
	if itemCount(prefix) < w.minLen {
		return nil
	}

	w.count++

	return w.reporter.Report(report.Pattern{Itemsets: decodeItemsets(prefix), Support: support})
}

func itemCount(tokens []int) int {
	n := 0

	for _, tok := range tokens {
		if tok > 0 {
			n++
		}
	}

	return n
}

// decodeItemsets groups the items between separators. The run before the
// first separator is an itemset of its own.
func decodeItemsets(tokens []int) [][]int {
	var (
		out     [][]int
		current []int
	)

	for _, tok := range tokens {
		switch {
		case tok == seqdb.Separator:
			if len(current) > 0 {
				out = append(out, current)
				current = nil
			}
		case tok > 0:
			current = append(current, tok)
		}
	}

	if len(current) > 0 {
		out = append(out, current)
	}

	return out
}
