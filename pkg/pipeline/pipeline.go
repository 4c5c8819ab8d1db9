// Package pipeline implements the dataset generation pipeline for textura.
//
// The pipeline turns a font catalog and a segmented text corpus into a
// train/validation/test partitioned collection of rendered text images with
// line-delimited ground-truth metadata:
//
//	catalog + units → plan → execute (render workers) → sink
//
// Planning assigns every work item its subset and a subset-local sequence
// number before any parallel execution begins. Output paths derive solely
// from (subset, sequence number), so concurrent workers never coordinate and
// never collide.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.Options{
//	    FontsDir:  "fonts",
//	    TextsDir:  "data",
//	    OutputDir: "out",
//	}
//	result, err := runner.Generate(ctx, opts)
package pipeline

import (
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/texturagen/textura/pkg/errors"
	"github.com/texturagen/textura/pkg/fontcat"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Config Profiles
// =============================================================================

const (
	// DefaultTargetHeight is the fixed pixel height of every rendered image.
	DefaultTargetHeight = 128

	// DefaultTrainFraction is the share of text units assigned to train.
	DefaultTrainFraction = 0.8

	// DefaultValFraction is the share of text units assigned to validation.
	// The test subset receives the remainder.
	DefaultValFraction = 0.1

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = int64(42)
)

// Render geometry constants. The 0.70 initial fraction and single 0.80
// correction pass reproduce the established corpus geometry; tightening the
// correction to convergence would silently change every output image.
const (
	glyphSizeFraction = 0.70
	sizeCorrection    = 0.80
	minImageWidth     = 10
)

// Granularity selects whether a text unit renders as one image or as one
// image per word.
type Granularity string

const (
	GranularityLines Granularity = "lines"
	GranularityWords Granularity = "words"
)

// ValidGranularities is the set of supported render granularities.
var ValidGranularities = map[Granularity]bool{
	GranularityLines: true,
	GranularityWords: true,
}

// Subset is one of the three disjoint corpus partitions.
type Subset string

const (
	SubsetTrain      Subset = "train"
	SubsetValidation Subset = "validation"
	SubsetTest       Subset = "test"
)

// Subsets lists the partitions in their fixed planning order.
var Subsets = []Subset{SubsetTrain, SubsetValidation, SubsetTest}

// Options configures a generation run.
type Options struct {
	// Input/output trees.
	FontsDir  string
	TextsDir  string
	OutputDir string

	// Render granularity: lines (default) or words.
	Granularity Granularity

	// Style filter for the font catalog: normal (default) or bold.
	Style fontcat.Style

	// Split proportions. TrainFraction + ValFraction must not exceed 1;
	// the test subset receives the remainder. Leaving both zero selects
	// the 0.8/0.1 defaults; use SetSplit for an explicit all-test split.
	TrainFraction float64
	ValFraction   float64

	// MaxUnits truncates the text corpus before shuffling. 0 = unlimited.
	MaxUnits int

	// ChunkWords is the words-per-unit chunk size. 0 = 5.
	ChunkWords int

	// TargetHeight is the output image height in pixels. 0 = 128.
	TargetHeight int

	// Workers sizes the render pool. 1 = sequential, 0 = all hardware
	// parallelism.
	Workers int

	// MaxPerCategory caps qualifying font families per category. 0 = all.
	MaxPerCategory int

	// Seed drives every random decision of the run (category sampling and
	// the planner shuffle).
	Seed int64

	// Logger receives structured progress output. Nil = log.Default().
	Logger *log.Logger

	// Progress, if set, is invoked after every completed work item with the
	// number of finished items and the planned total. Called from the
	// collecting goroutine only.
	Progress func(done, total int)

	seedSet  bool // distinguishes an explicit Seed 0 from "use default"
	splitSet bool // distinguishes an explicit (0, 0) split from "use defaults"
}

// SetSeed sets an explicit seed, including zero.
func (o *Options) SetSeed(seed int64) {
	o.Seed = seed
	o.seedSet = true
}

// SetSplit sets explicit split fractions, including (0, 0), which assigns
// every unit to the test subset.
func (o *Options) SetSplit(train, val float64) {
	o.TrainFraction = train
	o.ValFraction = val
	o.splitSet = true
}

// ValidateAndSetDefaults checks the options and fills defaults in place.
func (o *Options) ValidateAndSetDefaults() error {
	if o.FontsDir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "fonts directory is required")
	}
	if o.TextsDir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "texts directory is required")
	}
	if o.OutputDir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "output directory is required")
	}

	if o.Granularity == "" {
		o.Granularity = GranularityLines
	}
	if !ValidGranularities[o.Granularity] {
		return errors.New(errors.ErrCodeInvalidGranularity,
			"unknown granularity %q (valid: lines, words)", o.Granularity)
	}

	if o.Style == "" {
		o.Style = fontcat.StyleNormal
	}
	if !fontcat.ValidStyles[o.Style] {
		return errors.New(errors.ErrCodeInvalidStyle,
			"unknown style %q (valid: normal, bold)", o.Style)
	}

	if o.TrainFraction == 0 && o.ValFraction == 0 && !o.splitSet {
		o.TrainFraction = DefaultTrainFraction
		o.ValFraction = DefaultValFraction
	}
	if o.TrainFraction < 0 || o.ValFraction < 0 {
		return errors.New(errors.ErrCodeInvalidSplit,
			"split fractions must be non-negative (train=%v, val=%v)", o.TrainFraction, o.ValFraction)
	}
	// Tolerate float noise so 0.9+0.1 stays a valid split.
	if sum := o.TrainFraction + o.ValFraction; sum > 1+1e-9 {
		return errors.New(errors.ErrCodeInvalidSplit,
			"train+val fractions exceed 1 (%v); the test subset share would be negative", sum)
	}

	if o.MaxUnits < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max units must be non-negative")
	}
	if o.TargetHeight == 0 {
		o.TargetHeight = DefaultTargetHeight
	}
	if o.TargetHeight < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "target height must be positive")
	}

	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "workers must be non-negative")
	}
	if o.Workers == 0 {
		o.Workers = runtime.NumCPU()
	}

	if o.Seed == 0 && !o.seedSet {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return nil
}
