package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/seqfang/pkg/config"
	"github.com/Sumatoshi-tech/seqfang/pkg/observability"
	"github.com/Sumatoshi-tech/seqfang/pkg/plot"
	"github.com/Sumatoshi-tech/seqfang/pkg/prefixspan"
	"github.com/Sumatoshi-tech/seqfang/pkg/report"
	"github.com/Sumatoshi-tech/seqfang/pkg/seqdb"
	"github.com/Sumatoshi-tech/seqfang/pkg/version"
)

// plotTopN is the number of highest-support patterns shown in the plot.
const plotTopN = 20

// ErrNoInput is returned when no input path is given.
var ErrNoInput = errors.New("input path must be provided (argument or --input)")

// MineCommand holds the flags of the mine command.
type MineCommand struct {
	configPath   string
	inputPath    string
	outputPath   string
	format       string
	plotPath     string
	metricsFile  string
	logLevel     string
	otlpEndpoint string
	minSupport   float64
	maxLength    int
	minLength    int
	logJSON      bool
	noColor      bool
}

// NewMineCommand creates the mine command.
func NewMineCommand() *cobra.Command {
	mc := &MineCommand{}

	cmd := &cobra.Command{
		Use:   "mine [input]",
		Short: "Mine frequent sequential patterns",
		Long: `Mine every frequent sequential pattern of a sequence database with PrefixSpan.

The input holds one sequence per line as comma-separated integer tokens:
positive items, -1 closing an itemset and -2 ending the sequence. Files
ending in .lz4 are decompressed. Patterns are written as text, JSON lines
or YAML; "-" writes to standard output.

Examples:
  seqfang mine data.txt -o patterns.txt --min-support 0.4
  seqfang mine -i data.txt.lz4 -o - --format json --max-length 3
  seqfang mine data.txt -o patterns.txt --plot patterns.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: mc.run,
	}

	cmd.Flags().StringVar(&mc.configPath, "config", "", "Config file (default: .seqfang.yaml in CWD or $HOME)")
	cmd.Flags().StringVarP(&mc.inputPath, "input", "i", "", "Input sequence database")
	cmd.Flags().StringVarP(&mc.outputPath, "output", "o", config.DefaultOutputPath, `Output path ("-" for stdout, .lz4 to compress)`)
	cmd.Flags().StringVar(&mc.format, "format", config.DefaultOutputFormat, "Output format: text, json, yaml")
	cmd.Flags().Float64Var(&mc.minSupport, "min-support", config.DefaultMiningMinSupport, "Relative minimum support in [0,1]")
	cmd.Flags().IntVar(&mc.maxLength, "max-length", config.DefaultMiningMaxPatternLength, "Maximum items per pattern")
	cmd.Flags().IntVar(&mc.minLength, "min-length", config.DefaultMiningMinPatternLength, "Minimum items per reported pattern")
	cmd.Flags().StringVar(&mc.plotPath, "plot", "", "Write an HTML chart of the patterns to this path")
	cmd.Flags().StringVar(&mc.metricsFile, "metrics-file", "", "Write run metrics in Prometheus text format to this path")
	cmd.Flags().StringVar(&mc.logLevel, "log-level", config.DefaultLoggingLevel, "Log level: debug, info, warn, error")
	cmd.Flags().BoolVar(&mc.logJSON, "log-json", false, "Emit JSON logs")
	cmd.Flags().StringVar(&mc.otlpEndpoint, "otlp-endpoint", "", "OTLP gRPC collector address")
	cmd.Flags().BoolVar(&mc.noColor, "no-color", false, "Disable colored output")

	return cmd
}

func (mc *MineCommand) run(cmd *cobra.Command, args []string) (err error) {
	applyColor(mc.noColor)

	cfg, err := config.LoadConfig(mc.configPath)
	if err != nil {
		return err
	}

	mc.applyFlags(cmd, cfg)

	err = cfg.Validate()
	if err != nil {
		return err
	}

	inputPath := mc.inputPath
	if len(args) > 0 {
		inputPath = args[0]
	}

	if inputPath == "" {
		return ErrNoInput
	}

	if cfg.Output.Path == "" {
		return report.ErrNoOutput
	}

	providers, err := observability.Init(cfg.Observability(observability.ModeCLI, version.Version))
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	defer func() {
		shutdownErr := providers.Shutdown(context.Background())
		if shutdownErr != nil {
			err = errors.Join(err, fmt.Errorf("observability shutdown: %w", shutdownErr))
		}
	}()

	mining, err := observability.NewMiningMetrics(providers.Meter)
	if err != nil {
		return err
	}

	res, err := mc.mine(cmd.Context(), cfg, inputPath, providers, mining)
	if err != nil {
		return err
	}

	if !persistentBool(cmd, flagQuiet) {
		writeRunSummary(cmd.ErrOrStderr(), inputPath, cfg, res)
	}

	return nil
}

func (mc *MineCommand) mine(
	ctx context.Context,
	cfg *config.Config,
	inputPath string,
	providers observability.Providers,
	mining *observability.MiningMetrics,
) (prefixspan.Result, error) {
	maxBytes, err := cfg.MaxInputBytes()
	if err != nil {
		return prefixspan.Result{}, err
	}

	db, err := seqdb.LoadFile(inputPath, maxBytes)
	if err != nil {
		return prefixspan.Result{}, err
	}

	out, err := report.Create(cfg.Output.Path, cfg.Output.Format)
	if err != nil {
		return prefixspan.Result{}, err
	}

	var (
		sink report.Reporter = out
		hist *report.Histogram
	)

	if cfg.Output.Plot != "" {
		hist = report.NewHistogram(plotTopN)
		sink = &report.Chain{Reporters: []report.Reporter{out, hist}}
	}

	miner, err := prefixspan.New(cfg.Mining, sink,
		prefixspan.WithLogger(providers.Logger),
		prefixspan.WithTracer(providers.Tracer),
		prefixspan.WithMetrics(mining),
	)
	if err != nil {
		return prefixspan.Result{}, errors.Join(err, sink.Close())
	}

	res, runErr := miner.Run(ctx, db)

	err = errors.Join(runErr, sink.Close())
	if err != nil {
		return res, err
	}

	providers.Logger.LogAttrs(ctx, slog.LevelInfo, "patterns written",
		slog.String("output", cfg.Output.Path),
		slog.Int("patterns", out.Written()),
	)

	if hist != nil {
		err = plot.WriteFile(cfg.Output.Plot, hist, plot.Summary{
			Sequences:     res.SequenceCount,
			MinSupportAbs: res.MinSupportAbs,
			Patterns:      res.PatternCount,
			Algorithm:     string(res.Algorithm),
		})
		if err != nil {
			return res, err
		}
	}

	return res, nil
}

// applyFlags overrides config values with flags the user set explicitly.
func (mc *MineCommand) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("output") {
		cfg.Output.Path = mc.outputPath
	}

	if flags.Changed("format") {
		cfg.Output.Format = mc.format
	}

	if flags.Changed("plot") {
		cfg.Output.Plot = mc.plotPath
	}

	if flags.Changed("min-support") {
		cfg.Mining.MinSupport = mc.minSupport
	}

	if flags.Changed("max-length") {
		cfg.Mining.MaxPatternLength = mc.maxLength
	}

	if flags.Changed("min-length") {
		cfg.Mining.MinPatternLength = mc.minLength
	}

	if flags.Changed("metrics-file") {
		cfg.Telemetry.MetricsFile = mc.metricsFile
	}

	if flags.Changed("otlp-endpoint") {
		cfg.Telemetry.OTLPEndpoint = mc.otlpEndpoint
	}

	if flags.Changed("log-json") {
		cfg.Logging.JSON = mc.logJSON
	}

	switch {
	case flags.Changed("log-level"):
		cfg.Logging.Level = mc.logLevel
	case persistentBool(cmd, flagVerbose):
		cfg.Logging.Level = slog.LevelDebug.String()
	}
}

func writeRunSummary(w io.Writer, inputPath string, cfg *config.Config, res prefixspan.Result) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle(color.New(color.Bold).Sprint("PrefixSpan run"))

	tbl.AppendRows([]table.Row{
		{"Input", inputPath},
		{"Output", cfg.Output.Path},
		{"Sequences", humanize.Comma(int64(res.SequenceCount))},
		{"Min support", fmt.Sprintf("%s (%s sequences)",
			strconv.FormatFloat(cfg.Mining.MinSupport, 'g', -1, 64), humanize.Comma(int64(res.MinSupportAbs)))},
		{"Frequent items", humanize.Comma(int64(res.FrequentItems))},
		{"Algorithm", string(res.Algorithm)},
		{"Patterns", color.New(color.FgGreen).Sprint(humanize.Comma(int64(res.PatternCount)))},
		{"Elapsed", fmt.Sprintf("%d ms", res.ElapsedMillis())},
	})

	tbl.Render()
}
