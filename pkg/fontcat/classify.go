package fontcat

import (
	"path/filepath"
	"strings"
)

// Kind is the style classification of a single font file.
type Kind int

const (
	// KindNormal is a file with no style markers in its name.
	KindNormal Kind = iota
	// KindBold is a file with a bold-weight marker and no slant marker.
	KindBold
	// KindAmbiguous is a file combining bold-weight and slant markers
	// (e.g. "Family-BoldItalic.ttf"); usable for neither style filter.
	KindAmbiguous
	// KindUnusable is a file with a slant marker only (italic/oblique).
	KindUnusable
)

// String returns the human-readable name of the classification.
func (k Kind) String() string {
	switch k {
	case KindNormal:
		return "normal"
	case KindBold:
		return "bold"
	case KindAmbiguous:
		return "ambiguous"
	default:
		return "unusable"
	}
}

// Classifier decides the style of a font file from its name.
//
// Filename-based classification is inherently best-effort; the interface
// exists so alternative policies (e.g. OS/2 table inspection) can be swapped
// in, and so tests can exercise the catalog with synthetic names.
type Classifier interface {
	Classify(filename string) Kind
}

// MarkerClassifier classifies font files by marker substrings in the
// lowercased base name. This matches the common foundry naming convention
// ("Family-Bold.ttf", "Family Heavy Oblique.otf", ...).
type MarkerClassifier struct {
	BoldMarkers  []string
	SlantMarkers []string
}

// DefaultClassifier returns the marker sets used by the stock pipeline.
func DefaultClassifier() *MarkerClassifier {
	return &MarkerClassifier{
		BoldMarkers:  []string{"bold", "bd", "heavy", "black"},
		SlantMarkers: []string{"italic", "oblique"},
	}
}

// Classify implements Classifier.
func (c *MarkerClassifier) Classify(filename string) Kind {
	name := strings.ToLower(filepath.Base(filename))

	bold := containsAny(name, c.BoldMarkers)
	slant := containsAny(name, c.SlantMarkers)

	switch {
	case bold && slant:
		return KindAmbiguous
	case bold:
		return KindBold
	case slant:
		return KindUnusable
	default:
		return KindNormal
	}
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
