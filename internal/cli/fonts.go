package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/texturagen/textura/pkg/fontcat"
	"github.com/texturagen/textura/pkg/fontcheck"
	"github.com/texturagen/textura/pkg/pipeline"
)

// fontsCommand creates the fonts command group.
func (c *CLI) fontsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fonts",
		Short: "Inspect and verify the font tree",
	}
	cmd.AddCommand(c.fontsScanCommand())
	cmd.AddCommand(c.fontsVerifyCommand())
	return cmd
}

// fontsScanCommand creates the "fonts scan" subcommand. It runs the same
// catalog build as generate and lists the families that would be used.
func (c *CLI) fontsScanCommand() *cobra.Command {
	var (
		style          string
		maxPerCategory int
		seed           int64
	)

	cmd := &cobra.Command{
		Use:   "scan <fonts-dir>",
		Short: "List the font families a generation run would use",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			timer := newStageTimer(c.Logger)
			fonts, stats, err := fontcat.Scan(fontcat.Options{
				Root:           args[0],
				Style:          fontcat.Style(style),
				MaxPerCategory: maxPerCategory,
				Seed:           seed,
				Logger:         c.Logger,
			})
			if err != nil {
				printError("Scan failed: %v", err)
				return err
			}
			timer.done(fmt.Sprintf("Scanned %d families", stats.Used))

			for _, f := range fonts {
				printDetail("%-24s %s/%s", f.Family, f.Category, filepath.Base(f.Path))
			}
			printNewline()
			printSuccess("%d families usable as %s", stats.Used, style)
			printCounts(
				[2]string{"with bold", fmt.Sprint(stats.WithBold)},
				[2]string{"without bold", fmt.Sprint(stats.WithoutBold)},
				[2]string{"skipped", fmt.Sprint(stats.Skipped)},
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&style, "style", string(fontcat.StyleNormal), "font style filter: normal, bold")
	cmd.Flags().IntVar(&maxPerCategory, "max-per-category", 0, "limit font families per category (0 = all)")
	cmd.Flags().Int64Var(&seed, "seed", pipeline.DefaultSeed, "random seed for per-category sampling")

	return cmd
}

// fontsVerifyCommand creates the "fonts verify" subcommand that removes
// families unable to render the required glyph set.
func (c *CLI) fontsVerifyCommand() *cobra.Command {
	var (
		glyphs string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "verify <fonts-dir>",
		Short: "Remove font families that cannot render the required glyphs",
		Long: `Verify that every font family in the tree can render the required glyph
set, and delete the family folders that cannot. Each font file must both map
the required characters in its cmap and produce a positive advance when the
glyphs are shaped.

Use --dry-run to see what would be removed without deleting anything.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spinner := newSpinnerWithContext(cmd.Context(), "Verifying fonts...")
			spinner.Start()

			report, err := fontcheck.Verify(fontcheck.Options{
				Root:     args[0],
				Required: []rune(glyphs),
				DryRun:   dryRun,
				Logger:   c.Logger,
			})
			if err != nil {
				spinner.StopWithError("Verification failed")
				return err
			}
			spinner.Stop()

			for _, issue := range report.Issues {
				name := issue.FontName
				if name == "" {
					name = issue.Family
				}
				printWarning("%s/%s: %s [%s] %s", issue.Category, issue.Family, issue.File, name, issue.Reason)
			}
			if dryRun && report.FamiliesInvalid > 0 {
				printInfo("Dry run: %d families would be removed", report.FamiliesInvalid)
			}
			printSuccess("Verified %d families (%d files)", report.FamiliesChecked, report.FilesChecked)
			printCounts(
				[2]string{"valid", fmt.Sprint(report.FamiliesValid)},
				[2]string{"invalid", fmt.Sprint(report.FamiliesInvalid)},
				[2]string{"removed", fmt.Sprint(report.FamiliesRemoved)},
			)
			if report.Errors > 0 {
				printWarning("%d entries could not be read and were skipped", report.Errors)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&glyphs, "glyphs", string(fontcheck.DefaultRequired), "required glyphs every font must render")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report without deleting")

	return cmd
}
