package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/texturagen/textura/pkg/textclean"
)

// textCommand creates the text command group.
func (c *CLI) textCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "text",
		Short: "Prepare the text corpus",
	}
	cmd.AddCommand(c.textCleanCommand())
	return cmd
}

// textCleanCommand creates the "text clean" subcommand that normalizes the
// corpus tree in place.
func (c *CLI) textCleanCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "clean <texts-dir>",
		Short: "Normalize corpus files to clean UTF-8",
		Long: `Normalize every text file in the corpus tree: re-decode files that are
not valid UTF-8 as Windows-1252, and replace guillemets with plain angle
brackets so dialogue markers stay inside the required glyph set.

Use --dry-run to see what would change without rewriting anything.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spinner := newSpinnerWithContext(cmd.Context(), "Cleaning texts...")
			spinner.Start()

			report, err := textclean.Clean(textclean.Options{
				Root:   args[0],
				DryRun: dryRun,
				Logger: c.Logger,
			})
			if err != nil {
				spinner.StopWithError("Cleaning failed")
				return err
			}
			spinner.Stop()

			if dryRun && report.Rewritten > 0 {
				printInfo("Dry run: %d files would be rewritten", report.Rewritten)
			}
			printSuccess("Cleaned %d files", report.Files)
			printCounts(
				[2]string{"rewritten", fmt.Sprint(report.Rewritten)},
				[2]string{"re-encoded", fmt.Sprint(report.Reencoded)},
			)
			if report.Errors > 0 {
				printWarning("%d entries could not be read and were skipped", report.Errors)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report without rewriting")

	return cmd
}
