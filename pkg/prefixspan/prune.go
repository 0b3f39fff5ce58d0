package prefixspan

import "github.com/Sumatoshi-tech/seqfang/pkg/seqdb"

// pruneFlat rewrites every sequence keeping only frequent items. Separators
// are dropped: with one item per itemset every growth step inserts its own.
func pruneFlat(db *seqdb.Database, idx *ItemIndex, minsup int) {
	for sid := range db.Size() {
		seq, ok := db.Get(sid)
		if !ok {
			continue
		}

		w := 0

		for _, tok := range seq {
			if tok == seqdb.Terminator {
				break
			}

			if tok > 0 && idx.Support(tok) >= minsup {
				seq[w] = tok
				w++
			}
		}

		finishPruned(db, sid, seq, w, w)
	}
}

// pruneItemsets rewrites every sequence keeping only frequent items and the
// separators that close a non-empty itemset.
func pruneItemsets(db *seqdb.Database, idx *ItemIndex, minsup int) {
	for sid := range db.Size() {
		seq, ok := db.Get(sid)
		if !ok {
			continue
		}

		w, kept, inItemset := 0, 0, 0

		for _, tok := range seq {
			if tok == seqdb.Terminator {
				break
			}

			switch {
			case tok > 0:
				if idx.Support(tok) >= minsup {
					seq[w] = tok
					w++
					kept++
					inItemset++
				}
			case tok == seqdb.Separator:
				if inItemset > 0 {
					seq[w] = seqdb.Separator
					w++
					inItemset = 0
				}
			}
		}

		finishPruned(db, sid, seq, w, kept)
	}
}

// finishPruned terminates a rewritten sequence at w, or removes it when no
// item survived.
func finishPruned(db *seqdb.Database, sid int, seq seqdb.Sequence, w, kept int) {
	if kept == 0 {
		db.Remove(sid)

		return
	}

	seq[w] = seqdb.Terminator
	db.Truncate(sid, w+1)
}
