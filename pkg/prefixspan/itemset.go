package prefixspan

import "github.com/Sumatoshi-tech/seqfang/pkg/seqdb"

// itemsetGrower mines databases with multi-item itemsets. A pattern grows
// either by an i-extension (the item joins the pattern's last itemset) or by
// an s-extension (the item opens a new itemset).
type itemsetGrower struct{}

func (itemsetGrower) algorithm() Algorithm { return AlgorithmItemset }

func (itemsetGrower) prune(db *seqdb.Database, idx *ItemIndex, minsup int) {
	pruneItemsets(db, idx, minsup)
}

// project points past the first occurrence of item in each sequence, unless
// the occurrence is followed only by the terminator or by a closing
// separator and the terminator.
func (itemsetGrower) project(db *seqdb.Database, item int, sids []int) []seqdb.PseudoSequence {
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

			next := seq[j+1]
			exhausted := next == seqdb.Terminator ||
				(next == seqdb.Separator && seq[j+2] == seqdb.Terminator)

			if !exhausted {
				projected = append(projected, seqdb.PseudoSequence{SequenceID: sid, Offset: j + 1})
			}

			break
		}
	}

	return projected
}

// grow scans each projection once, classifying every item occurrence.
//
// While still inside the itemset that produced the match (the postfix
// itemset), items are i-extension candidates. Items of later itemsets are
// s-extension candidates; inside such an itemset the scan also tries to
// re-match the pattern's last itemset, and once it succeeds the remaining
// items of that itemset are candidates of both kinds.
func (g itemsetGrower) grow(r *run, projected []seqdb.PseudoSequence, depth, last int) error {
	lastStart := r.buf.lastItemsetStart(last)

	postfix := newCandidates()
	normal := newCandidates()

	for _, ps := range projected {
		sid := ps.SequenceID
		seq, _ := r.db.Get(sid)

		inPostfixItemset := seq[ps.Offset-1] != seqdb.Separator
		firstItemset := true
		matchCursor := lastStart

		for i := ps.Offset; seq[i] != seqdb.Terminator; i++ {
			tok := seq[i]

			if tok == seqdb.Separator {
				firstItemset = false
				inPostfixItemset = false
				matchCursor = lastStart

				continue
			}

			if inPostfixItemset {
				postfix.add(tok, sid, i+1)

				if !firstItemset {
					normal.add(tok, sid, i+1)
				}

				continue
			}

			normal.add(tok, sid, i+1)

			if r.buf.at(matchCursor) == tok {
				matchCursor++
				if matchCursor > last {
					inPostfixItemset = true
				}
			}
		}
	}

	for _, item := range postfix.order {
		pseqs := postfix.lists[item]
		if len(pseqs) < r.minsup {
			continue
		}

		pos := last + 1
		r.buf.put(pos, item)

		err := g.accept(r, pseqs, depth, pos)
		if err != nil {
			return err
		}
	}

	for _, item := range normal.order {
		pseqs := normal.lists[item]
		if len(pseqs) < r.minsup {
			continue
		}

		pos := last + 2
		r.buf.put(last+1, seqdb.Separator)
		r.buf.put(pos, item)

		err := g.accept(r, pseqs, depth, pos)
		if err != nil {
			return err
		}
	}

	return nil
}

func (g itemsetGrower) accept(r *run, pseqs []seqdb.PseudoSequence, depth, pos int) error {
	err := r.writer.emit(r.buf.prefix(pos), len(pseqs))
	if err != nil {
		return err
	}

	if depth < r.maxLen {
		return g.grow(r, pseqs, depth+1, pos)
	}

	return nil
}
