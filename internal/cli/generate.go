package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/texturagen/textura/pkg/fontcat"
	"github.com/texturagen/textura/pkg/pipeline"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	fontsDir  string
	textsDir  string
	outputDir string

	granularity    string
	style          string
	trainFraction  float64
	valFraction    float64
	maxUnits       int
	chunkWords     int
	targetHeight   int
	workers        int
	maxPerCategory int
	seed           int64

	config string // optional TOML profile
	plain  bool   // disable the live progress bar
}

// profile mirrors generateOpts for TOML decoding. Pointer fields
// distinguish "absent from the file" from an explicit zero.
type profile struct {
	Fonts          string   `toml:"fonts"`
	Texts          string   `toml:"texts"`
	Output         string   `toml:"output"`
	Granularity    string   `toml:"granularity"`
	Style          string   `toml:"style"`
	TrainFraction  *float64 `toml:"train_fraction"`
	ValFraction    *float64 `toml:"val_fraction"`
	MaxUnits       *int     `toml:"max_units"`
	ChunkWords     *int     `toml:"chunk_words"`
	TargetHeight   *int     `toml:"target_height"`
	Workers        *int     `toml:"workers"`
	MaxPerCategory *int     `toml:"max_per_category"`
	Seed           *int64   `toml:"seed"`
}

// generateCommand creates the generate command that runs the full pipeline.
func (c *CLI) generateCommand() *cobra.Command {
	opts := generateOpts{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a rendered text dataset",
		Long: `Generate a rendered text dataset from a font tree and a text corpus.

The command scans the font tree, segments the corpus into fixed-size word
chunks, assigns every (text, font) pair to a train/validation/test subset,
renders each pair into a fixed-height PNG, and writes per-subset JSONL
manifests plus a dataset descriptor.

The same seed always produces the same dataset, regardless of worker count.

Examples:
  textura generate --fonts fonts/ --texts books/ --output dataset/
  textura generate --fonts fonts/ --texts books/ --output dataset/ --style bold --granularity words
  textura generate --config catalan.toml --workers 8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.config != "" {
				if err := opts.applyProfile(cmd, opts.config); err != nil {
					return err
				}
			}
			return c.runGenerate(cmd.Context(), opts)
		},
	}

	bindGenerateFlags(cmd, &opts)

	return cmd
}

// bindGenerateFlags registers the generate flags on cmd, bound to opts.
func bindGenerateFlags(cmd *cobra.Command, opts *generateOpts) {
	cmd.Flags().StringVar(&opts.fontsDir, "fonts", "", "font tree root (category/family/*.ttf)")
	cmd.Flags().StringVar(&opts.textsDir, "texts", "", "text corpus root (group/*.txt)")
	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", "", "output dataset directory")
	cmd.Flags().StringVar(&opts.granularity, "granularity", string(pipeline.GranularityLines), "render granularity: lines, words")
	cmd.Flags().StringVar(&opts.style, "style", string(fontcat.StyleNormal), "font style filter: normal, bold")
	cmd.Flags().Float64Var(&opts.trainFraction, "train-fraction", pipeline.DefaultTrainFraction, "share of units assigned to train")
	cmd.Flags().Float64Var(&opts.valFraction, "val-fraction", pipeline.DefaultValFraction, "share of units assigned to validation")
	cmd.Flags().IntVar(&opts.maxUnits, "max-units", 0, "limit text units (0 = all)")
	cmd.Flags().IntVar(&opts.chunkWords, "chunk-words", 0, "words per text unit (0 = 5)")
	cmd.Flags().IntVar(&opts.targetHeight, "height", pipeline.DefaultTargetHeight, "output image height in pixels")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 1, "render workers (0 = all CPUs)")
	cmd.Flags().IntVar(&opts.maxPerCategory, "max-per-category", 0, "limit font families per category (0 = all)")
	cmd.Flags().Int64Var(&opts.seed, "seed", pipeline.DefaultSeed, "random seed for sampling and the split shuffle")
	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "TOML profile with generation settings")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "disable the live progress bar")
}

// applyProfile loads the TOML profile and fills in every option the user
// did not set explicitly on the command line. Flags win over the profile.
func (o *generateOpts) applyProfile(cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read profile %s: %w", path, err)
	}
	var p profile
	if err := toml.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("parse profile %s: %w", path, err)
	}

	set := cmd.Flags().Changed
	if p.Fonts != "" && !set("fonts") {
		o.fontsDir = p.Fonts
	}
	if p.Texts != "" && !set("texts") {
		o.textsDir = p.Texts
	}
	if p.Output != "" && !set("output") {
		o.outputDir = p.Output
	}
	if p.Granularity != "" && !set("granularity") {
		o.granularity = p.Granularity
	}
	if p.Style != "" && !set("style") {
		o.style = p.Style
	}
	if p.TrainFraction != nil && !set("train-fraction") {
		o.trainFraction = *p.TrainFraction
	}
	if p.ValFraction != nil && !set("val-fraction") {
		o.valFraction = *p.ValFraction
	}
	if p.MaxUnits != nil && !set("max-units") {
		o.maxUnits = *p.MaxUnits
	}
	if p.ChunkWords != nil && !set("chunk-words") {
		o.chunkWords = *p.ChunkWords
	}
	if p.TargetHeight != nil && !set("height") {
		o.targetHeight = *p.TargetHeight
	}
	if p.Workers != nil && !set("workers") {
		o.workers = *p.Workers
	}
	if p.MaxPerCategory != nil && !set("max-per-category") {
		o.maxPerCategory = *p.MaxPerCategory
	}
	if p.Seed != nil && !set("seed") {
		o.seed = *p.Seed
	}
	return nil
}

// pipelineOptions converts the CLI flags into pipeline options.
func (o generateOpts) pipelineOptions() pipeline.Options {
	opts := pipeline.Options{
		FontsDir:       o.fontsDir,
		TextsDir:       o.textsDir,
		OutputDir:      o.outputDir,
		Granularity:    pipeline.Granularity(o.granularity),
		Style:          fontcat.Style(o.style),
		MaxUnits:       o.maxUnits,
		ChunkWords:     o.chunkWords,
		TargetHeight:   o.targetHeight,
		Workers:        o.workers,
		MaxPerCategory: o.maxPerCategory,
	}
	opts.SetSeed(o.seed)
	opts.SetSplit(o.trainFraction, o.valFraction)
	return opts
}

// runGenerate executes the pipeline and prints the end-of-run report.
func (c *CLI) runGenerate(ctx context.Context, opts generateOpts) error {
	popts := opts.pipelineOptions()
	popts.Logger = c.Logger

	var bar *renderProgress
	if !opts.plain {
		bar = newRenderProgress("Rendering")
		popts.Progress = bar.update
	}

	start := time.Now()
	result, err := c.newRunner().Generate(ctx, popts)
	if bar != nil {
		bar.finish()
	}
	if err != nil {
		printError("Generation failed: %v", err)
		return err
	}

	total := result.Descriptor.TotalSamples
	printSuccess("Generated %d samples in %s", total, time.Since(start).Round(time.Millisecond))
	printCounts(
		[2]string{"train", fmt.Sprint(result.Rendered[pipeline.SubsetTrain])},
		[2]string{"validation", fmt.Sprint(result.Rendered[pipeline.SubsetValidation])},
		[2]string{"test", fmt.Sprint(result.Rendered[pipeline.SubsetTest])},
	)
	printCounts(
		[2]string{"fonts", fmt.Sprint(result.FontStats.Used)},
		[2]string{"units", fmt.Sprint(result.TextStats.Units)},
	)
	printKeyValue("run id", result.Descriptor.RunID)
	if result.Failed > 0 {
		printWarning("%d items failed to render and were skipped", result.Failed)
	}
	printFile(opts.outputDir)
	return nil
}
