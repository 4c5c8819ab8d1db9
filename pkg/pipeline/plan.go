package pipeline

import (
	"math"
	"math/rand"

	"github.com/texturagen/textura/pkg/errors"
	"github.com/texturagen/textura/pkg/fontcat"
	"github.com/texturagen/textura/pkg/textseg"
)

// WorkItem is one planned rendering task. The subset and sequence number
// are fixed at planning time; workers never allocate identifiers.
type WorkItem struct {
	Text        string // exact caption to render (chunk, or single word)
	Unit        textseg.Unit
	Font        fontcat.Font
	Granularity Granularity
	Subset      Subset
	Seq         int // dense per-subset sequence number, assigned pre-dispatch
}

// Plan is the complete, order-independent task list for one run.
type Plan struct {
	Items []WorkItem

	// Units is the number of text units assigned to each subset.
	Units map[Subset]int

	// Expected is the per-subset item count computed independently of the
	// expansion loop (unit/word counts × font count). A mismatch with the
	// emitted counts signals a planning bug; it also sizes the progress
	// indicator before any rendering starts.
	Expected map[Subset]int
}

// Total returns the expected total item count across subsets.
func (p *Plan) Total() int {
	total := 0
	for _, n := range p.Expected {
		total += n
	}
	return total
}

// BuildPlan computes the cross product of fonts × units with subset
// assignment and sequence-number pre-allocation.
//
// The shuffle, the contiguous split, and the fixed nested expansion order
// (subset → font → unit → word) make the result fully deterministic for a
// fixed seed and inputs: running the planner twice yields identical items.
func BuildPlan(units []textseg.Unit, fonts []fontcat.Font, opts Options) (*Plan, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if len(fonts) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyFontCatalog,
			"no usable fonts for style %q under %s", opts.Style, opts.FontsDir)
	}
	if len(units) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyTextCorpus,
			"no text units found under %s", opts.TextsDir)
	}

	if opts.MaxUnits > 0 && len(units) > opts.MaxUnits {
		units = units[:opts.MaxUnits]
	}

	// Shuffle so subset membership is uncorrelated with source order.
	shuffled := make([]textseg.Unit, len(units))
	copy(shuffled, units)
	rng := rand.New(rand.NewSource(opts.Seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	bySubset := splitUnits(shuffled, opts.TrainFraction, opts.ValFraction)

	plan := &Plan{
		Units:    make(map[Subset]int, len(Subsets)),
		Expected: make(map[Subset]int, len(Subsets)),
	}

	for _, subset := range Subsets {
		subsetUnits := bySubset[subset]
		plan.Units[subset] = len(subsetUnits)
		plan.Expected[subset] = expectedItems(subsetUnits, len(fonts), opts.Granularity)

		seq := 0
		for _, font := range fonts {
			for _, unit := range subsetUnits {
				for _, text := range captions(unit, opts.Granularity) {
					plan.Items = append(plan.Items, WorkItem{
						Text:        text,
						Unit:        unit,
						Font:        font,
						Granularity: opts.Granularity,
						Subset:      subset,
						Seq:         seq,
					})
					seq++
				}
			}
		}
	}

	return plan, nil
}

// splitUnits partitions the shuffled units into three contiguous ranges.
// Train takes round(n·pTrain), validation the next round(n·pVal), test the
// remainder, so the three counts always sum to n.
func splitUnits(units []textseg.Unit, trainFrac, valFrac float64) map[Subset][]textseg.Unit {
	n := len(units)
	nTrain := int(math.Round(float64(n) * trainFrac))
	if nTrain > n {
		nTrain = n
	}
	nVal := int(math.Round(float64(n) * valFrac))
	if nTrain+nVal > n {
		nVal = n - nTrain
	}
	return map[Subset][]textseg.Unit{
		SubsetTrain:      units[:nTrain],
		SubsetValidation: units[nTrain : nTrain+nVal],
		SubsetTest:       units[nTrain+nVal:],
	}
}

// captions expands one unit into the texts to render for the granularity.
// A unit with no words contributes nothing in per-word mode.
func captions(unit textseg.Unit, granularity Granularity) []string {
	if granularity == GranularityWords {
		return unit.Words()
	}
	return []string{unit.Text}
}

// expectedItems counts items for one subset without running the expansion.
func expectedItems(units []textseg.Unit, fontCount int, granularity Granularity) int {
	if granularity == GranularityWords {
		words := 0
		for _, u := range units {
			words += len(u.Words())
		}
		return words * fontCount
	}
	return len(units) * fontCount
}
