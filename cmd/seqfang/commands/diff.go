package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/seqfang/pkg/compare"
)

// ErrOutputsDiffer is returned when two pattern outputs do not match.
var ErrOutputsDiffer = errors.New("pattern outputs differ")

// NewDiffCommand creates the diff command.
func NewDiffCommand() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "diff <before> <after>",
		Short: "Compare two pattern outputs",
		Long: `Compare two text pattern outputs ignoring record order and column padding.

Lines only in <before> are printed with "-", lines only in <after> with "+".
The command fails when the outputs differ, so two runs over the same input
can be checked for identical results. Files ending in .lz4 are decompressed.

Examples:
  seqfang diff run1.txt run2.txt
  seqfang diff --no-color run1.txt.lz4 run2.txt`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyColor(noColor)

			res, err := compare.Files(args[0], args[1])
			if err != nil {
				return err
			}

			if !persistentBool(cmd, flagQuiet) {
				writeDiff(cmd.OutOrStdout(), res)
			}

			if !res.Equal() {
				return fmt.Errorf("%w: %d removed, %d added", ErrOutputsDiffer, len(res.Removed), len(res.Added))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}

func writeDiff(w io.Writer, res compare.Result) {
	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)

	for _, line := range res.Removed {
		removed.Fprintf(w, "- %s\n", line)
	}

	for _, line := range res.Added {
		added.Fprintf(w, "+ %s\n", line)
	}

	fmt.Fprintf(w, "%d common, %d removed, %d added\n", res.Common, len(res.Removed), len(res.Added))
}
