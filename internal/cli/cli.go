// Package cli implements the textura command-line interface.
//
// This package provides commands for generating rendered text datasets,
// inspecting and verifying font trees, and cleaning text corpora. The CLI
// is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - generate: Render a train/validation/test dataset from fonts and texts
//   - fonts: Inspect the font catalog and verify glyph coverage
//   - text: Normalize the text corpus in place
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/texturagen/textura/pkg/buildinfo"
	"github.com/texturagen/textura/pkg/pipeline"
)

// appName is the application name used for display.
const appName = "textura"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Textura renders text corpora into recognition training datasets",
		Long:         `Textura is a CLI tool for generating synthetic text-recognition datasets: it renders a segmented text corpus with a catalog of fonts into fixed-height images partitioned into train, validation, and test subsets with line-delimited ground truth.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.fontsCommand())
	root.AddCommand(c.textCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}
