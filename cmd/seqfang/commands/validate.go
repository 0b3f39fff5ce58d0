package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/pierrec/lz4/v4"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/seqfang/pkg/report"
)

// ErrValidationFailed is returned when a JSON pattern output has invalid records.
var ErrValidationFailed = errors.New("pattern output failed validation")

// lz4Suffix marks lz4 compressed files.
const lz4Suffix = ".lz4"

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	var colorize, noColor bool

	cmd := &cobra.Command{
		Use:   "validate <file.json|->",
		Short: "Validate a JSON pattern output against the pattern schema",
		Long: `Validate a JSON-lines pattern output (mine --format json) against the
embedded pattern schema.

Examples:
  seqfang validate patterns.json
  seqfang validate - < patterns.json
  seqfang validate patterns.json.lz4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				color.NoColor = true //nolint:reassign // intentional override of library global
			} else if colorize {
				color.NoColor = false //nolint:reassign // intentional override of library global
			}

			return runValidate(cmd.InOrStdin(), cmd.OutOrStdout(), args[0], persistentBool(cmd, flagQuiet))
		},
	}

	cmd.Flags().BoolVar(&colorize, "color", false, "force colored output")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")

	return cmd
}

func runValidate(stdin io.Reader, out io.Writer, inputPath string, quiet bool) error {
	input, label, closeInput, err := openValidateInput(stdin, inputPath)
	if err != nil {
		return err
	}
	defer closeInput()

	res, err := report.ValidateJSON(input)
	if err != nil {
		return fmt.Errorf("validate %s: %w", label, err)
	}

	if res.Valid() {
		if !quiet {
			color.New(color.FgGreen).Fprintf(out, "Patterns are valid (%s)\n", label)
			fmt.Fprintf(out, "  Records: %d\n", res.Records)
		}

		return nil
	}

	color.New(color.FgRed).Fprintf(out, "Pattern validation failed (%s)\n", label)
	color.New(color.FgYellow).Fprintf(out, "  Schema errors: %d in %d records\n", len(res.Errors), res.Records)

	fmt.Fprintf(out, "\nErrors:\n")

	for _, verr := range res.Errors {
		if verr.Field != "" {
			color.New(color.FgRed).Fprintf(out, "  - line %d: %s: %s\n", verr.Line, verr.Field, verr.Message)
		} else {
			color.New(color.FgRed).Fprintf(out, "  - line %d: %s\n", verr.Line, verr.Message)
		}
	}

	return fmt.Errorf("%w: %s", ErrValidationFailed, label)
}

func openValidateInput(stdin io.Reader, inputPath string) (io.Reader, string, func(), error) {
	if inputPath == report.StdoutPath {
		return stdin, "stdin", func() {}, nil
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return nil, "", nil, fmt.Errorf("open %s: %w", inputPath, err)
	}

	closeFile := func() { _ = f.Close() }

	if strings.HasSuffix(inputPath, lz4Suffix) {
		return lz4.NewReader(f), inputPath, closeFile, nil
	}

	return f, inputPath, closeFile, nil
}
