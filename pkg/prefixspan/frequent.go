package prefixspan

import "github.com/Sumatoshi-tech/seqfang/pkg/seqdb"

// ItemIndex maps every item to the sequences containing it.
type ItemIndex struct {
	// Order lists items in first-appearance order.
	Order []int

	// Sequences holds, per item, the ascending distinct ids of the
	// sequences containing it at least once.
	Sequences map[int][]int

	// MultiItem is set when any itemset anywhere holds more than one item.
	MultiItem bool
}

// Support returns the number of sequences containing item.
func (idx *ItemIndex) Support(item int) int {
	return len(idx.Sequences[item])
}

// Frequent returns the items whose support reaches minsup, in index order.
func (idx *ItemIndex) Frequent(minsup int) []int {
	out := make([]int, 0, len(idx.Order))

	for _, item := range idx.Order {
		if idx.Support(item) >= minsup {
			out = append(out, item)
		}
	}

	return out
}

// FindFrequentItems scans the database once, recording for every item the
// sequences that contain it and detecting multi-item itemsets.
func FindFrequentItems(db *seqdb.Database) *ItemIndex {
	idx := &ItemIndex{Sequences: make(map[int][]int)}

	for sid := range db.Size() {
		seq, ok := db.Get(sid)
		if !ok {
			continue
		}

		seen := make(map[int]struct{})
		inItemset := 0

	scan:
		for _, tok := range seq {
			switch {
			case tok > 0:
				if _, dup := seen[tok]; !dup {
					seen[tok] = struct{}{}

					if _, known := idx.Sequences[tok]; !known {
						idx.Order = append(idx.Order, tok)
					}

					idx.Sequences[tok] = append(idx.Sequences[tok], sid)
				}

				inItemset++
				if inItemset > 1 {
					idx.MultiItem = true
				}
			case tok == seqdb.Separator:
				inItemset = 0
			case tok == seqdb.Terminator:
				break scan
			}
		}
	}

	return idx
}
