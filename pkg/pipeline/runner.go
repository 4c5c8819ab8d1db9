package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/texturagen/textura/pkg/fontcat"
	"github.com/texturagen/textura/pkg/observability"
	"github.com/texturagen/textura/pkg/textseg"
)

// Runner encapsulates end-to-end dataset generation.
//
// The Runner is stateless except for the logger - it doesn't store run
// results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger falls back to log.Default().
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Result carries everything a caller needs for the end-of-run report.
type Result struct {
	Fonts      []fontcat.Font
	FontStats  fontcat.Stats
	TextStats  textseg.Stats
	Planned    map[Subset]int // expected items per subset
	Rendered   map[Subset]int // samples actually produced per subset
	Failed     int            // items skipped due to render failures
	Descriptor Descriptor

	Stats struct {
		CatalogTime time.Duration
		SegmentTime time.Duration
		PlanTime    time.Duration
		RenderTime  time.Duration
		SinkTime    time.Duration
	}
}

// Generate runs the complete catalog → segment → plan → execute → sink
// pipeline.
//
// Configuration errors (invalid options, empty catalog, empty corpus) and
// sink failures abort the run; per-item render failures and per-source read
// failures are absorbed into counters as the stages prescribe.
func (r *Runner) Generate(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if opts.Logger == nil || opts.Logger == log.Default() {
		opts.Logger = r.Logger
	}

	result := &Result{}

	// Stage 1: font catalog
	catalogStart := time.Now()
	fonts, fontStats, err := fontcat.Scan(fontcat.Options{
		Root:           opts.FontsDir,
		Style:          opts.Style,
		MaxPerCategory: opts.MaxPerCategory,
		Seed:           opts.Seed,
		Logger:         opts.Logger,
	})
	result.Stats.CatalogTime = time.Since(catalogStart)
	observability.Dataset().OnCatalogComplete(ctx, len(fonts), result.Stats.CatalogTime, err)
	if err != nil {
		return nil, err
	}
	result.Fonts = fonts
	result.FontStats = fontStats
	r.Logger.Info("scanned fonts",
		"used", fontStats.Used,
		"skipped", fontStats.Skipped,
		"with_bold", fontStats.WithBold,
		"without_bold", fontStats.WithoutBold,
		"duration", result.Stats.CatalogTime.Round(time.Millisecond))

	// Stage 2: text segmentation
	segmentStart := time.Now()
	units, textStats, err := textseg.Load(textseg.Options{
		Root:       opts.TextsDir,
		ChunkWords: opts.ChunkWords,
		Logger:     opts.Logger,
	})
	result.Stats.SegmentTime = time.Since(segmentStart)
	observability.Dataset().OnSegmentComplete(ctx, len(units), result.Stats.SegmentTime, err)
	if err != nil {
		return nil, err
	}
	result.TextStats = textStats
	r.Logger.Info("segmented texts",
		"files", textStats.Files,
		"skipped", textStats.Skipped,
		"units", textStats.Units,
		"duration", result.Stats.SegmentTime.Round(time.Millisecond))

	// Stage 3: plan (fatal on empty inputs, before any output exists)
	planStart := time.Now()
	plan, err := BuildPlan(units, fonts, opts)
	result.Stats.PlanTime = time.Since(planStart)
	if err != nil {
		observability.Dataset().OnPlanComplete(ctx, 0, result.Stats.PlanTime, err)
		return nil, err
	}
	observability.Dataset().OnPlanComplete(ctx, len(plan.Items), result.Stats.PlanTime, nil)
	result.Planned = plan.Expected
	r.Logger.Info("planned work items",
		"total", len(plan.Items),
		"train", plan.Expected[SubsetTrain],
		"validation", plan.Expected[SubsetValidation],
		"test", plan.Expected[SubsetTest],
		"workers", opts.Workers)

	// Stage 4: execute
	renderStart := time.Now()
	observability.Dataset().OnRenderStart(ctx, plan.Total())
	manifests, execStats, err := Execute(plan, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Dataset().OnRenderComplete(ctx, execStats.Rendered, execStats.Failed, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Failed = execStats.Failed
	result.Rendered = make(map[Subset]int, len(Subsets))
	for subset, records := range manifests {
		result.Rendered[subset] = len(records)
	}
	r.Logger.Info("rendered samples",
		"rendered", execStats.Rendered,
		"failed", execStats.Failed,
		"duration", result.Stats.RenderTime.Round(time.Millisecond))

	// Stage 5: sink (fatal on failure)
	sinkStart := time.Now()
	err = WriteManifests(opts.OutputDir, manifests)
	if err == nil {
		result.Descriptor = NewDescriptor(manifests, opts, len(fonts))
		err = WriteDescriptor(opts.OutputDir, result.Descriptor)
	}
	result.Stats.SinkTime = time.Since(sinkStart)
	observability.Dataset().OnSinkComplete(ctx, execStats.Rendered, result.Stats.SinkTime, err)
	if err != nil {
		return nil, err
	}
	r.Logger.Info("wrote metadata",
		"samples", result.Descriptor.TotalSamples,
		"run_id", result.Descriptor.RunID)

	return result, nil
}
