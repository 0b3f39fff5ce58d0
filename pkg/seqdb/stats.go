package seqdb

// Stats summarizes the shape of a database.
type Stats struct {
	Sequences      int     `json:"sequences"        yaml:"sequences"`
	Present        int     `json:"present"          yaml:"present"`
	Tokens         int     `json:"tokens"           yaml:"tokens"`
	Items          int     `json:"items"            yaml:"items"`
	DistinctItems  int     `json:"distinct_items"   yaml:"distinct_items"`
	Itemsets       int     `json:"itemsets"         yaml:"itemsets"`
	MaxItemsets    int     `json:"max_itemsets"     yaml:"max_itemsets"`
	MaxItemsetSize int     `json:"max_itemset_size" yaml:"max_itemset_size"`
	AvgItemsets    float64 `json:"avg_itemsets"     yaml:"avg_itemsets"`
	MultiItem      bool    `json:"multi_item"       yaml:"multi_item"`
}

// Stats walks every present sequence once.
func (db *Database) Stats() Stats {
	st := Stats{Sequences: db.Size()}
	distinct := make(map[int]struct{})

	for id := range db.slots {
		seq, ok := db.Get(id)
		if !ok {
			continue
		}

		st.Present++
		st.Tokens += len(seq)

		itemsets, inItemset := 0, 0

		for _, tok := range seq {
			switch {
			case tok > 0:
				st.Items++
				distinct[tok] = struct{}{}
				inItemset++
			case tok == Separator:
				if inItemset > 0 {
					itemsets++
				}

				inItemset = 0
			}

			if inItemset > st.MaxItemsetSize {
				st.MaxItemsetSize = inItemset
			}

			if tok == Terminator {
				break
			}
		}

		if inItemset > 0 {
			itemsets++
		}

		st.Itemsets += itemsets
		st.MaxItemsets = max(st.MaxItemsets, itemsets)
	}

	st.DistinctItems = len(distinct)
	st.MultiItem = st.MaxItemsetSize > 1

	if st.Present > 0 {
		st.AvgItemsets = float64(st.Itemsets) / float64(st.Present)
	}

	return st
}
