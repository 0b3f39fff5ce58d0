package prefixspan

import "github.com/Sumatoshi-tech/seqfang/pkg/seqdb"

// flatGrower mines databases where every itemset holds a single item, so
// every extension opens a new itemset.
type flatGrower struct{}

func (flatGrower) algorithm() Algorithm { return AlgorithmFlat }

func (flatGrower) prune(db *seqdb.Database, idx *ItemIndex, minsup int) {
	pruneFlat(db, idx, minsup)
}

// project points past the first occurrence of item in each sequence.
// Sequences where nothing follows still count towards the item's support
// but cannot grow the pattern further.
func (flatGrower) project(db *seqdb.Database, item int, sids []int) []seqdb.PseudoSequence {
	projected := make([]seqdb.PseudoSequence, 0, len(sids))

	for _, sid := range sids {
		seq, ok := db.Get(sid)
		if !ok {
			continue
		}

		for j := 0; seq[j] != seqdb.Terminator; j++ {
			if seq[j] != item {
				continue
			}

			if seq[j+1] != seqdb.Terminator {
				projected = append(projected, seqdb.PseudoSequence{SequenceID: sid, Offset: j + 1})
			}

			break
		}
	}

	return projected
}

func (g flatGrower) grow(r *run, projected []seqdb.PseudoSequence, depth, last int) error {
	cands := newCandidates()

	for _, ps := range projected {
		seq, _ := r.db.Get(ps.SequenceID)

		for i := ps.Offset; seq[i] != seqdb.Terminator; i++ {
			if tok := seq[i]; tok > 0 {
				cands.add(tok, ps.SequenceID, i+1)
			}
		}
	}

	for _, item := range cands.order {
		pseqs := cands.lists[item]
		if len(pseqs) < r.minsup {
			continue
		}

		r.buf.put(last+1, seqdb.Separator)
		r.buf.put(last+2, item)

		err := r.writer.emit(r.buf.prefix(last+2), len(pseqs))
		if err != nil {
			return err
		}

		if depth < r.maxLen {
			err = g.grow(r, pseqs, depth+1, last+2)
			if err != nil {
				return err
			}
		}
	}

	return nil
}
