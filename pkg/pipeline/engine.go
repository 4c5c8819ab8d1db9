package pipeline

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/texturagen/textura/pkg/errors"
)

// Manifests holds the collected metadata records per subset, sorted by
// sequence number once execution completes.
type Manifests map[Subset][]Record

// ExecStats reports execution counters.
type ExecStats struct {
	Rendered int
	Failed   int
}

// Execute runs every planned work item through the render worker and
// collects the surviving records, partitioned by subset.
//
// Workers = 1 renders sequentially in planned order; otherwise items are
// dispatched in chunks to a fixed pool and collected in completion order.
// Either way the output path of every sample is fixed by the plan, so both
// strategies produce identical (subset, sequence) → file assignments.
func Execute(plan *Plan, opts Options) (Manifests, ExecStats, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, ExecStats{}, err
	}

	for _, subset := range Subsets {
		dir := filepath.Join(opts.OutputDir, string(subset))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, ExecStats{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "create output directory %s", dir)
		}
	}

	var outcomes []outcome
	if opts.Workers <= 1 {
		outcomes = executeSequential(plan, opts)
	} else {
		outcomes = executeParallel(plan, opts)
	}

	return collect(outcomes, opts)
}

// outcome is the per-item result crossing the worker boundary. Failures
// travel as values, never as panics.
type outcome struct {
	record Record
	err    error
}

func executeSequential(plan *Plan, opts Options) []outcome {
	total := plan.Total()
	outcomes := make([]outcome, 0, len(plan.Items))
	for i, item := range plan.Items {
		rec, err := renderItem(item, opts.OutputDir, opts.TargetHeight)
		outcomes = append(outcomes, outcome{record: rec, err: err})
		if opts.Progress != nil {
			opts.Progress(i+1, total)
		}
	}
	return outcomes
}

// executeParallel fans the items out to a fixed worker pool. Dispatch is
// chunked to amortize channel overhead while keeping load balancing; the
// collection buffer is owned exclusively by this goroutine. Workers share
// nothing mutable: every output path was fixed at planning time.
func executeParallel(plan *Plan, opts Options) []outcome {
	items := plan.Items
	total := plan.Total()

	chunkSize := len(items) / (opts.Workers * 4)
	if chunkSize < 1 {
		chunkSize = 1
	}

	jobs := make(chan []WorkItem)
	results := make(chan outcome, opts.Workers)

	var wg sync.WaitGroup
	for w := 0; w < opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batch := range jobs {
				for _, item := range batch {
					rec, err := renderItem(item, opts.OutputDir, opts.TargetHeight)
					results <- outcome{record: rec, err: err}
				}
			}
		}()
	}

	go func() {
		for start := 0; start < len(items); start += chunkSize {
			end := start + chunkSize
			if end > len(items) {
				end = len(items)
			}
			jobs <- items[start:end]
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	outcomes := make([]outcome, 0, len(items))
	for out := range results {
		outcomes = append(outcomes, out)
		if opts.Progress != nil {
			opts.Progress(len(outcomes), total)
		}
	}
	return outcomes
}

// collect partitions the outcomes into per-subset manifests. Failed items
// are skipped and counted; they are not samples. A record with an unknown
// subset tag indicates a planning defect; it is filed under train with a
// warning rather than dropped.
func collect(outcomes []outcome, opts Options) (Manifests, ExecStats, error) {
	manifests := make(Manifests, len(Subsets))
	for _, subset := range Subsets {
		manifests[subset] = nil
	}

	var stats ExecStats
	for _, out := range outcomes {
		if out.err != nil {
			stats.Failed++
			opts.Logger.Debug("render failed, skipping item", "err", out.err)
			continue
		}
		subset := out.record.Subset
		if _, ok := manifests[subset]; !ok {
			opts.Logger.Warn("record with unknown subset tag, filing under train",
				"subset", subset, "image", out.record.Image)
			subset = SubsetTrain
		}
		manifests[subset] = append(manifests[subset], out.record)
		stats.Rendered++
	}

	// Completion order is arbitrary under the parallel strategy; normalize
	// so manifests are identical for any worker count.
	for _, records := range manifests {
		sort.Slice(records, func(i, j int) bool { return records[i].Seq < records[j].Seq })
	}
	return manifests, stats, nil
}
