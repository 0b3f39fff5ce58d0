package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/seqfang/pkg/config"
	"github.com/Sumatoshi-tech/seqfang/pkg/prefixspan"
	"github.com/Sumatoshi-tech/seqfang/pkg/report"
	"github.com/Sumatoshi-tech/seqfang/pkg/seqdb"
)

// avgPrecision is the number of decimals shown for averages.
const avgPrecision = 2

// DatabaseProfile is the stats command output.
type DatabaseProfile struct {
	seqdb.Stats `yaml:",inline"`

	Algorithm     prefixspan.Algorithm `json:"algorithm"       yaml:"algorithm"`
	MinSupport    float64              `json:"min_support"     yaml:"min_support"`
	MinSupportAbs int                  `json:"min_support_abs" yaml:"min_support_abs"`
	FrequentItems int                  `json:"frequent_items"  yaml:"frequent_items"`
}

// StatsCommand holds the flags of the stats command.
type StatsCommand struct {
	inputPath  string
	format     string
	minSupport float64
	maxSize    string
}

// NewStatsCommand creates the stats command.
func NewStatsCommand() *cobra.Command {
	sc := &StatsCommand{}

	cmd := &cobra.Command{
		Use:   "stats [input]",
		Short: "Profile a sequence database",
		Long: `Print the shape of a sequence database: sequence, item and itemset counts,
how many items are frequent at the given minimum support, and which growth
path (flat or itemset) a mining run would take.`,
		Args: cobra.MaximumNArgs(1),
		RunE: sc.run,
	}

	cmd.Flags().StringVarP(&sc.inputPath, "input", "i", "", "Input sequence database")
	cmd.Flags().StringVar(&sc.format, "format", report.FormatText, "Output format: text, json, yaml")
	cmd.Flags().Float64Var(&sc.minSupport, "min-support", config.DefaultMiningMinSupport, "Relative minimum support in [0,1]")
	cmd.Flags().StringVar(&sc.maxSize, "max-size", config.DefaultInputMaxSize, "Reject inputs larger than this (e.g. 512MB)")

	return cmd
}

func (sc *StatsCommand) run(cmd *cobra.Command, args []string) error {
	inputPath := sc.inputPath
	if len(args) > 0 {
		inputPath = args[0]
	}

	if inputPath == "" {
		return ErrNoInput
	}

	mining := prefixspan.DefaultConfig()
	mining.MinSupport = sc.minSupport

	err := mining.Validate()
	if err != nil {
		return err
	}

	limits := config.Config{Input: config.InputConfig{MaxSize: sc.maxSize}}

	maxBytes, err := limits.MaxInputBytes()
	if err != nil {
		return err
	}

	db, err := seqdb.LoadFile(inputPath, maxBytes)
	if err != nil {
		return err
	}

	profile := Profile(db, sc.minSupport)

	return writeProfile(cmd.OutOrStdout(), sc.format, inputPath, profile)
}

// Profile computes the database statistics and the item index figures a
// run at minSupport would start from.
func Profile(db *seqdb.Database, minSupport float64) DatabaseProfile {
	idx := prefixspan.FindFrequentItems(db)
	minsup := prefixspan.AbsoluteSupport(minSupport, db.Size())

	algorithm := prefixspan.AlgorithmFlat
	if idx.MultiItem {
		algorithm = prefixspan.AlgorithmItemset
	}

	return DatabaseProfile{
		Stats:         db.Stats(),
		Algorithm:     algorithm,
		MinSupport:    minSupport,
		MinSupportAbs: minsup,
		FrequentItems: len(idx.Frequent(minsup)),
	}
}

func writeProfile(w io.Writer, format, inputPath string, p DatabaseProfile) error {
	switch format {
	case report.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		err := enc.Encode(p)
		if err != nil {
			return fmt.Errorf("encode stats: %w", err)
		}

		return nil
	case report.FormatYAML:
		data, err := yaml.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode stats: %w", err)
		}

		_, err = w.Write(data)

		return err
	case report.FormatText:
		writeProfileTable(w, inputPath, p)

		return nil
	default:
		return fmt.Errorf("%w: %q", report.ErrUnknownFormat, format)
	}
}

func writeProfileTable(w io.Writer, inputPath string, p DatabaseProfile) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle(inputPath)

	tbl.AppendHeader(table.Row{"Metric", "Value"})
	tbl.AppendRows([]table.Row{
		{"Sequences", humanize.Comma(int64(p.Sequences))},
		{"Non-empty sequences", humanize.Comma(int64(p.Present))},
		{"Tokens", humanize.Comma(int64(p.Tokens))},
		{"Items", humanize.Comma(int64(p.Items))},
		{"Distinct items", humanize.Comma(int64(p.DistinctItems))},
		{"Itemsets", humanize.Comma(int64(p.Itemsets))},
		{"Max itemsets per sequence", humanize.Comma(int64(p.MaxItemsets))},
		{"Avg itemsets per sequence", strconv.FormatFloat(p.AvgItemsets, 'f', avgPrecision, 64)},
		{"Max itemset size", humanize.Comma(int64(p.MaxItemsetSize))},
	})
	tbl.AppendSeparator()
	tbl.AppendRows([]table.Row{
		{"Min support", fmt.Sprintf("%s (%s sequences)",
			strconv.FormatFloat(p.MinSupport, 'g', -1, 64), humanize.Comma(int64(p.MinSupportAbs)))},
		{"Frequent items", humanize.Comma(int64(p.FrequentItems))},
		{"Algorithm", string(p.Algorithm)},
	})

	tbl.Render()
}
