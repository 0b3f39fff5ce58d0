package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/seqfang/pkg/mcp"
	"github.com/Sumatoshi-tech/seqfang/pkg/observability"
	"github.com/Sumatoshi-tech/seqfang/pkg/version"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes seqfang as tools that AI agents can discover and invoke:
  - prefixspan_mine: Mine frequent sequential patterns from inline sequences
  - seqdb_stats: Profile a sequence database`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			providers, err := observability.Init(mcpObservabilityConfig(debug))
			if err != nil {
				return err
			}

			defer func() {
				shutdownErr := providers.Shutdown(context.Background())
				if shutdownErr != nil {
					providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
				}
			}()

			red, err := observability.NewREDMetrics(providers.Meter)
			if err != nil {
				return err
			}

			mining, err := observability.NewMiningMetrics(providers.Meter)
			if err != nil {
				return err
			}

			deps := mcp.ServerDeps{
				Logger:  providers.Logger,
				Metrics: red,
				Mining:  mining,
				Tracer:  providers.Tracer,
			}

			return mcp.NewServer(deps).Run(cobraCmd.Context())
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging to stderr")

	return cmd
}

func mcpObservabilityConfig(debug bool) observability.Config {
	cfg := observability.DefaultConfig()
	cfg.ServiceVersion = version.Version
	cfg.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	cfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"))
	cfg.OTLPInsecure = os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true"
	cfg.Mode = observability.ModeMCP
	cfg.LogJSON = true

	if debug {
		cfg.LogLevel = slog.LevelDebug
	}

	return cfg
}
