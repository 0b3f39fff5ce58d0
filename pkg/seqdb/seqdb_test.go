package seqdb_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/seqfang/pkg/seqdb"
)

func TestLoad_ParsesLines(t *testing.T) {
	t.Parallel()

	input := "1,-1,2,-1,3,-1,-2\n\n  1, -1 ,3,-1\n1,2,-1,3,-2\n"

	db, err := seqdb.Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 3, db.Size())

	seq, ok := db.Get(0)
	require.True(t, ok)
	assert.Equal(t, seqdb.Sequence{1, -1, 2, -1, 3, -1, -2}, seq)

	seq, ok = db.Get(1)
	require.True(t, ok)
	assert.Equal(t, seqdb.Sequence{1, -1, 3, -1, -2}, seq, "terminator appended")

	seq, ok = db.Get(2)
	require.True(t, ok)
	assert.Equal(t, 3, seq.ItemCount())
}

func TestLoad_IgnoresTokensAfterTerminator(t *testing.T) {
	t.Parallel()

	db, err := seqdb.Load(strings.NewReader("4,-1,-2,5,-1,-2"))
	require.NoError(t, err)

	seq, ok := db.Get(0)
	require.True(t, ok)
	assert.Equal(t, seqdb.Sequence{4, -1, -2}, seq)
}

func TestLoad_MalformedToken(t *testing.T) {
	t.Parallel()

	_, err := seqdb.Load(strings.NewReader("1,-1,-2\n1,x,-2\n"))
	require.ErrorIs(t, err, seqdb.ErrMalformedToken)
	assert.Contains(t, err.Error(), "line 2")
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	t.Run("plain", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(dir, "plain.csv")
		require.NoError(t, os.WriteFile(path, []byte("1,-1,2,-2\n3,-2\n"), 0o600))

		db, err := seqdb.LoadFile(path, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, db.Size())
	})

	t.Run("lz4", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(dir, "compressed.csv.lz4")

		f, err := os.Create(path)
		require.NoError(t, err)

		zw := lz4.NewWriter(f)
		_, err = zw.Write([]byte("1,2,-1,3,-2\n"))
		require.NoError(t, err)
		require.NoError(t, zw.Close())
		require.NoError(t, f.Close())

		db, err := seqdb.LoadFile(path, 0)
		require.NoError(t, err)
		require.Equal(t, 1, db.Size())

		seq, ok := db.Get(0)
		require.True(t, ok)
		assert.Equal(t, seqdb.Sequence{1, 2, -1, 3, -2}, seq)
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()

		_, err := seqdb.LoadFile(filepath.Join(dir, "nope.csv"), 0)
		assert.ErrorIs(t, err, seqdb.ErrOpenInput)
	})

	t.Run("too_large", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(dir, "big.csv")
		require.NoError(t, os.WriteFile(path, []byte("1,-1,2,-1,3,-1,4,-2\n"), 0o600))

		_, err := seqdb.LoadFile(path, 4)
		assert.ErrorIs(t, err, seqdb.ErrInputTooLarge)
	})
}

func TestDatabase_RemoveAndTruncate(t *testing.T) {
	t.Parallel()

	db := seqdb.FromTokens([][]int{{1, -1, 2, -1}, {3, -1, -2}})
	require.Equal(t, 2, db.Size())
	assert.Equal(t, 2, db.Present())

	seq, ok := db.Get(0)
	require.True(t, ok)
	assert.Equal(t, seqdb.Sequence{1, -1, 2, -1, -2}, seq)

	seq[0] = 2
	seq[1] = seqdb.Terminator
	db.Truncate(0, 2)

	seq, ok = db.Get(0)
	require.True(t, ok)
	assert.Equal(t, seqdb.Sequence{2, -2}, seq)

	db.Remove(1)

	_, ok = db.Get(1)
	assert.False(t, ok)
	assert.Equal(t, 1, db.Present())
	assert.Equal(t, 2, db.Size(), "removed slots keep their id")
}

func TestDatabase_Stats(t *testing.T) {
	t.Parallel()

	db := seqdb.FromTokens([][]int{
		{1, 2, -1, 3, -1, -2},
		{1, -1, 3, -2},
		{},
	})

	st := db.Stats()
	assert.Equal(t, 3, st.Sequences)
	assert.Equal(t, 3, st.Present)
	assert.Equal(t, 5, st.Items)
	assert.Equal(t, 3, st.DistinctItems)
	assert.Equal(t, 4, st.Itemsets)
	assert.Equal(t, 2, st.MaxItemsets)
	assert.Equal(t, 2, st.MaxItemsetSize)
	assert.True(t, st.MultiItem)
	assert.InDelta(t, 4.0/3.0, st.AvgItemsets, 1e-9)
}
