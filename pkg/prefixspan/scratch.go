package prefixspan

import "github.com/Sumatoshi-tech/seqfang/pkg/seqdb"

// initialScratch is the starting capacity of the pattern buffer.
const initialScratch = 64

// scratch encodes the pattern under exploration with sequence tokens. A
// recursive call only writes past its parent's last position, so siblings
// overwrite each other's tail without any cleanup.
type scratch struct {
	tokens []int
}

func newScratch() *scratch {
	return &scratch{tokens: make([]int, initialScratch)}
}

func (s *scratch) put(pos, tok int) {
	if pos >= len(s.tokens) {
		grown := make([]int, max(2*len(s.tokens), pos+1))
		copy(grown, s.tokens)
		s.tokens = grown
	}

	s.tokens[pos] = tok
}

func (s *scratch) at(pos int) int {
	return s.tokens[pos]
}

// prefix returns the tokens up to and including last.
func (s *scratch) prefix(last int) []int {
	return s.tokens[:last+1]
}

// lastItemsetStart returns the position of the first item of the itemset
// that ends at last.
func (s *scratch) lastItemsetStart(last int) int {
	start := last
	for start > 0 && s.tokens[start-1] != seqdb.Separator {
		start--
	}

	return start
}

// candidates groups pseudo-projections by extension item. Lists are appended
// sequence by sequence, so comparing against the last recorded id is enough
// to keep one entry per sequence.
type candidates struct {
	order []int
	lists map[int][]seqdb.PseudoSequence
}

func newCandidates() *candidates {
	return &candidates{lists: make(map[int][]seqdb.PseudoSequence)}
}

func (c *candidates) add(item, sid, offset int) {
	lst, ok := c.lists[item]
	if !ok {
		c.order = append(c.order, item)
	}

	if n := len(lst); n > 0 && lst[n-1].SequenceID == sid {
		return
	}

	c.lists[item] = append(lst, seqdb.PseudoSequence{SequenceID: sid, Offset: offset})
}
