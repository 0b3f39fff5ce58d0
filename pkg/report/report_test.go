package report_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/seqfang/pkg/report"
)

var errBoom = errors.New("boom")

type failingReporter struct{}

func (failingReporter) Report(report.Pattern) error { return errBoom }
func (failingReporter) Close() error                { return errBoom }

func TestPattern_StringAndLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern report.Pattern
		want    string
		length  int
	}{
		{name: "single", pattern: report.Pattern{Itemsets: [][]int{{1}}}, want: "{1}", length: 1},
		{name: "itemset", pattern: report.Pattern{Itemsets: [][]int{{1, 2}}}, want: "{1 2}", length: 2},
		{name: "sequence", pattern: report.Pattern{Itemsets: [][]int{{1, 2}, {3}}}, want: "{1 2} {3}", length: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.pattern.String())
			assert.Equal(t, tt.length, tt.pattern.Length())
		})
	}
}

func TestFormatRecord_PadsToColumn(t *testing.T) {
	t.Parallel()

	got := report.FormatRecord(report.Pattern{Itemsets: [][]int{{1}, {3}}, Support: 2})
	assert.Equal(t, "{1} {3}"+strings.Repeat(" ", report.TextColumnWidth-len("{1} {3}"))+" #SUP: 2", got)

	long := report.Pattern{Itemsets: [][]int{{100000, 200000, 300000}, {400000, 500000, 600000}}, Support: 7}
	assert.Equal(t, long.String()+" #SUP: 7", report.FormatRecord(long), "no truncation past the column")
}

func TestNewWriter_Formats(t *testing.T) {
	t.Parallel()

	p := report.Pattern{Itemsets: [][]int{{1, 2}, {3}}, Support: 4}

	t.Run("text", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		w, err := report.NewWriter(&buf, report.FormatText)
		require.NoError(t, err)
		require.NoError(t, w.Report(p))
		require.NoError(t, w.Close())
		assert.Equal(t, report.FormatRecord(p)+"\n", buf.String())
		assert.Equal(t, 1, w.Written())
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		w, err := report.NewWriter(&buf, report.FormatJSON)
		require.NoError(t, err)
		require.NoError(t, w.Report(p))
		require.NoError(t, w.Close())
		assert.JSONEq(t, `{"itemsets":[[1,2],[3]],"support":4}`, buf.String())
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		w, err := report.NewWriter(&buf, report.FormatYAML)
		require.NoError(t, err)
		require.NoError(t, w.Report(p))
		require.NoError(t, w.Report(report.Pattern{Itemsets: [][]int{{5}}, Support: 1}))
		require.NoError(t, w.Close())

		var decoded []report.Pattern
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		require.Len(t, decoded, 2)
		assert.Equal(t, p, decoded[0])
	})

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()

		_, err := report.NewWriter(&bytes.Buffer{}, "xml")
		assert.ErrorIs(t, err, report.ErrUnknownFormat)
	})
}

func TestCreate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := report.Pattern{Itemsets: [][]int{{9}}, Support: 3}

	t.Run("empty_path", func(t *testing.T) {
		t.Parallel()

		_, err := report.Create("  ", report.FormatText)
		assert.ErrorIs(t, err, report.ErrNoOutput)
	})

	t.Run("missing_dir", func(t *testing.T) {
		t.Parallel()

		_, err := report.Create(filepath.Join(dir, "no", "such", "out.txt"), report.FormatText)
		assert.ErrorIs(t, err, report.ErrCreateOutput)
	})

	t.Run("plain_file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(dir, "out.txt")

		w, err := report.Create(path, report.FormatText)
		require.NoError(t, err)
		require.NoError(t, w.Report(p))
		require.NoError(t, w.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, report.FormatRecord(p)+"\n", string(data))
	})

	t.Run("lz4_file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(dir, "out.txt.lz4")

		w, err := report.Create(path, report.FormatText)
		require.NoError(t, err)
		require.NoError(t, w.Report(p))
		require.NoError(t, w.Close())

		f, err := os.Open(path)
		require.NoError(t, err)

		defer f.Close()

		var buf bytes.Buffer

		_, err = buf.ReadFrom(lz4.NewReader(f))
		require.NoError(t, err)
		assert.Equal(t, report.FormatRecord(p)+"\n", buf.String())
	})
}

func TestChain(t *testing.T) {
	t.Parallel()

	first := &report.Collector{}
	second := &report.Collector{}
	chain := &report.Chain{Reporters: []report.Reporter{first, second}}

	require.NoError(t, chain.Report(report.Pattern{Itemsets: [][]int{{1}}, Support: 1}))
	require.NoError(t, chain.Close())
	assert.Len(t, first.Patterns(), 1)
	assert.Len(t, second.Patterns(), 1)

	failing := &report.Chain{Reporters: []report.Reporter{failingReporter{}, second}}
	require.ErrorIs(t, failing.Report(report.Pattern{Itemsets: [][]int{{2}}, Support: 1}), errBoom)
	assert.Len(t, second.Patterns(), 1, "chain stops at the first error")
	assert.ErrorIs(t, failing.Close(), errBoom)
}

func TestCollector_CopiesItemsets(t *testing.T) {
	t.Parallel()

	c := &report.Collector{}
	items := []int{1, 2}

	require.NoError(t, c.Report(report.Pattern{Itemsets: [][]int{items}, Support: 5}))

	items[0] = 99

	assert.Equal(t, map[string]int{"{1 2}": 5}, c.Supports())
}

func TestHistogram(t *testing.T) {
	t.Parallel()

	h := report.NewHistogram(2)

	for _, p := range []report.Pattern{
		{Itemsets: [][]int{{1}}, Support: 5},
		{Itemsets: [][]int{{2}}, Support: 7},
		{Itemsets: [][]int{{1}, {2}}, Support: 5},
		{Itemsets: [][]int{{1, 2}}, Support: 3},
	} {
		require.NoError(t, h.Report(p))
	}

	assert.Equal(t, []report.LengthBucket{
		{Length: 1, Count: 2, MaxSupport: 7},
		{Length: 2, Count: 2, MaxSupport: 5},
	}, h.Buckets())

	top := h.Top()
	require.Len(t, top, 2)
	assert.Equal(t, "{2}", top[0].String())
	assert.Equal(t, "{1}", top[1].String(), "ties keep report order")
}

func TestValidateJSON(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		`{"itemsets":[[1,2],[3]],"support":2}`,
		``,
		`{"itemsets":[],"support":0}`,
		`not json`,
	}, "\n")

	v, err := report.ValidateJSON(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 3, v.Records)
	assert.False(t, v.Valid())

	lines := make(map[int]bool)
	for _, e := range v.Errors {
		lines[e.Line] = true
	}

	assert.Equal(t, map[int]bool{3: true, 4: true}, lines)
}

func TestValidateJSON_WriterOutputIsValid(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	w, err := report.NewWriter(&buf, report.FormatJSON)
	require.NoError(t, err)
	require.NoError(t, w.Report(report.Pattern{Itemsets: [][]int{{1}, {2, 3}}, Support: 1}))
	require.NoError(t, w.Close())

	v, err := report.ValidateJSON(&buf)
	require.NoError(t, err)
	assert.True(t, v.Valid())
	assert.Equal(t, 1, v.Records)
}
