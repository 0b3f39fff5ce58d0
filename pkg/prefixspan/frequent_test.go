package prefixspan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/seqfang/pkg/prefixspan"
	"github.com/Sumatoshi-tech/seqfang/pkg/seqdb"
)

func TestFindFrequentItems(t *testing.T) {
	t.Parallel()

	db := seqdb.FromTokens([][]int{
		{3, -1, 1, -1, 3, -2},
		{1, -1, 2, -2},
		{2, -1, 2, -1, 4, -2},
	})

	idx := prefixspan.FindFrequentItems(db)

	assert.Equal(t, []int{3, 1, 2, 4}, idx.Order, "first-appearance order")
	assert.Equal(t, []int{0}, idx.Sequences[3], "one entry per sequence")
	assert.Equal(t, []int{0, 1}, idx.Sequences[1])
	assert.Equal(t, []int{1, 2}, idx.Sequences[2])
	assert.Equal(t, 1, idx.Support(4))
	assert.Zero(t, idx.Support(99))
	assert.False(t, idx.MultiItem)
	assert.Equal(t, []int{1, 2}, idx.Frequent(2))
}

func TestFindFrequentItems_MultiItemDetection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		seqs [][]int
		want bool
	}{
		{name: "single_items", seqs: [][]int{{1, -1, 2, -2}, {3, -2}}, want: false},
		{name: "pair_in_first_itemset", seqs: [][]int{{1, 2, -1, 3, -2}}, want: true},
		{name: "pair_in_later_sequence", seqs: [][]int{{1, -2}, {4, -1, 5, 6, -2}}, want: true},
		{name: "repeated_item_in_itemset", seqs: [][]int{{7, 7, -2}}, want: true},
		{name: "tokens_after_terminator", seqs: [][]int{{1, -2, 2, 3, -2}}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			idx := prefixspan.FindFrequentItems(seqdb.FromTokens(tt.seqs))
			assert.Equal(t, tt.want, idx.MultiItem)
		})
	}
}

func TestFindFrequentItems_SkipsAbsentSequences(t *testing.T) {
	t.Parallel()

	db := seqdb.FromTokens([][]int{{1, -2}, {1, -1, 2, -2}})
	db.Remove(0)

	idx := prefixspan.FindFrequentItems(db)

	assert.Equal(t, []int{1}, idx.Sequences[1])
	assert.Equal(t, []int{1, 2}, idx.Order)
}
