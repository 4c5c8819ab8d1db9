// Package fontcat builds a usable font catalog from a directory tree.
//
// The expected layout is category folders containing one folder per font
// family, each holding one or more .ttf/.otf files:
//
//	fonts/
//	  serif/
//	    Lora/
//	      Lora-Regular.ttf
//	      Lora-Bold.ttf
//	  script/
//	    GreatVibes/
//	      GreatVibes.otf
//
// Scan selects at most one file per family matching the requested style,
// classifies variants via a pluggable Classifier, and returns value-typed
// statistics so the caller folds counters instead of sharing mutable state.
package fontcat

import (
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/texturagen/textura/pkg/errors"
)

// Style is the requested font style for a generation run.
type Style string

const (
	StyleNormal Style = "normal"
	StyleBold   Style = "bold"
)

// ValidStyles is the set of supported style filters.
var ValidStyles = map[Style]bool{
	StyleNormal: true,
	StyleBold:   true,
}

// Font is one usable font family selected from the tree.
// Immutable after the catalog build.
type Font struct {
	Path     string // selected font file
	Family   string // family folder name
	Category string // category folder name
	Style    Style  // style actually selected
}

// Stats reports catalog build counters.
type Stats struct {
	WithBold    int // families that have a bold-like file
	WithoutBold int // families without one
	Used        int // families included in the catalog
	Skipped     int // families skipped (no matching style, or read error)
}

// Options configures a catalog scan.
type Options struct {
	Root           string
	Style          Style
	MaxPerCategory int   // cap qualifying families per category; 0 = unlimited
	Seed           int64 // seeds the shuffle used when the cap triggers sampling
	Classifier     Classifier
	Logger         *log.Logger
}

// Scan walks the font tree and builds the catalog.
//
// A single unreadable family is skipped and counted, never fatal; only a
// missing or unreadable root aborts the scan. The result is deterministic
// for a fixed tree, style, and seed.
func Scan(opts Options) ([]Font, Stats, error) {
	var stats Stats

	if opts.Classifier == nil {
		opts.Classifier = DefaultClassifier()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if !ValidStyles[opts.Style] {
		return nil, stats, errors.New(errors.ErrCodeInvalidStyle, "unknown font style %q", opts.Style)
	}

	categories, err := os.ReadDir(opts.Root)
	if err != nil {
		return nil, stats, errors.Wrap(errors.ErrCodeInvalidPath, err, "read font tree %s", opts.Root)
	}

	rng := rand.New(rand.NewSource(opts.Seed))

	var catalog []Font
	for _, category := range categories {
		if !category.IsDir() {
			continue
		}
		picked := scanCategory(opts, category.Name(), &stats, logger)

		// Cap per category by shuffle-then-truncate so the sample is uniform.
		if opts.MaxPerCategory > 0 && len(picked) > opts.MaxPerCategory {
			rng.Shuffle(len(picked), func(i, j int) {
				picked[i], picked[j] = picked[j], picked[i]
			})
			dropped := picked[opts.MaxPerCategory:]
			stats.Used -= len(dropped)
			stats.Skipped += len(dropped)
			picked = picked[:opts.MaxPerCategory]
		}
		catalog = append(catalog, picked...)
	}

	return catalog, stats, nil
}

// scanCategory collects the qualifying families of one category folder.
func scanCategory(opts Options, category string, stats *Stats, logger *log.Logger) []Font {
	dir := filepath.Join(opts.Root, category)
	families, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn("skipping unreadable category", "category", category, "err", err)
		return nil
	}

	var picked []Font
	for _, family := range families {
		if !family.IsDir() {
			continue
		}
		f, ok := scanFamily(opts, category, family.Name(), stats, logger)
		if ok {
			picked = append(picked, f)
			stats.Used++
		}
	}
	return picked
}

// scanFamily classifies one family folder and selects a file for the
// requested style, if any.
func scanFamily(opts Options, category, family string, stats *Stats, logger *log.Logger) (Font, bool) {
	dir := filepath.Join(opts.Root, category, family)
	entries, err := os.ReadDir(dir)
	if err != nil {
		stats.Skipped++
		logger.Warn("skipping unreadable family", "family", family, "err", err)
		return Font{}, false
	}

	var fontFiles int
	var normal, bold []string
	for _, e := range entries {
		if e.IsDir() || !isFontFile(e.Name()) {
			continue
		}
		fontFiles++
		switch opts.Classifier.Classify(e.Name()) {
		case KindNormal:
			normal = append(normal, e.Name())
		case KindBold:
			bold = append(bold, e.Name())
		}
	}
	if fontFiles == 0 {
		// Not a font family folder at all; ignore without counting.
		return Font{}, false
	}

	if len(bold) > 0 {
		stats.WithBold++
	} else {
		stats.WithoutBold++
	}

	var candidates []string
	switch opts.Style {
	case StyleBold:
		candidates = bold
	default:
		candidates = normal
	}
	if len(candidates) == 0 {
		stats.Skipped++
		logger.Debug("skipping family without requested style",
			"category", category, "family", family, "style", opts.Style)
		return Font{}, false
	}

	// Selection must stay deterministic regardless of how candidates were
	// accumulated.
	sort.Strings(candidates)

	return Font{
		Path:     filepath.Join(dir, candidates[0]),
		Family:   family,
		Category: category,
		Style:    opts.Style,
	}, true
}

func isFontFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ttf", ".otf":
		return true
	}
	return false
}
