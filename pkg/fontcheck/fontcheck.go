// Package fontcheck verifies that fonts in a font tree can actually render
// a required glyph set, and removes family folders that cannot.
//
// Declaring a character in the cmap is not the same as being able to draw
// it: some free fonts map required codepoints to empty glyphs. Every font
// file therefore passes two tests:
//
//  1. cmap coverage - each required rune resolves to a non-notdef glyph
//     (seehuhn.de/go/sfnt).
//  2. render probe - each required rune reports a positive advance when
//     shaped at a fixed size (golang.org/x/image opentype).
//
// A family folder with any failing file is non-conforming and is deleted,
// so the downstream catalog build only ever sees fonts that can draw the
// corpus alphabet.
package fontcheck

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"seehuhn.de/go/sfnt"

	"github.com/texturagen/textura/pkg/errors"
)

// DefaultRequired is the stock required glyph set: the Catalan middle dot
// and cedilla, digits, and the punctuation the cleaned corpus uses.
var DefaultRequired = []rune("·ç0123456789-<>()")

// probeSize is the glyph size used by the render probe.
const probeSize = 32

// Options configures a verification pass.
type Options struct {
	Root     string
	Required []rune // nil = DefaultRequired
	DryRun   bool   // report, but do not delete
	Logger   *log.Logger
}

// Issue describes one non-conforming font file.
type Issue struct {
	Category string
	Family   string // family folder name
	File     string
	FontName string // family name declared inside the font, if parseable
	Reason   string
}

// Report summarizes a verification pass.
type Report struct {
	FilesChecked    int
	FamiliesChecked int
	FamiliesValid   int
	FamiliesInvalid int
	FamiliesRemoved int
	Errors          int // unreadable directories, counted and skipped
	Issues          []Issue
}

// Verify checks every family folder under the tree and removes the
// non-conforming ones (unless DryRun is set).
func Verify(opts Options) (Report, error) {
	var report Report

	if opts.Required == nil {
		opts.Required = DefaultRequired
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	categories, err := os.ReadDir(opts.Root)
	if err != nil {
		return report, errors.Wrap(errors.ErrCodeInvalidPath, err, "read font tree %s", opts.Root)
	}

	for _, category := range categories {
		if !category.IsDir() {
			continue
		}
		categoryDir := filepath.Join(opts.Root, category.Name())
		families, err := os.ReadDir(categoryDir)
		if err != nil {
			report.Errors++
			logger.Warn("skipping unreadable category", "category", category.Name(), "err", err)
			continue
		}
		for _, family := range families {
			if !family.IsDir() {
				continue
			}
			verifyFamily(&report, opts, logger, category.Name(), family.Name())
		}
	}

	return report, nil
}

func verifyFamily(report *Report, opts Options, logger *log.Logger, category, family string) {
	dir := filepath.Join(opts.Root, category, family)
	entries, err := os.ReadDir(dir)
	if err != nil {
		report.Errors++
		logger.Warn("skipping unreadable family", "family", family, "err", err)
		return
	}

	checked := 0
	valid := true
	for _, e := range entries {
		if e.IsDir() || !isFontFile(e.Name()) {
			continue
		}
		checked++
		report.FilesChecked++
		if name, err := Check(filepath.Join(dir, e.Name()), opts.Required); err != nil {
			valid = false
			report.Issues = append(report.Issues, Issue{
				Category: category,
				Family:   family,
				File:     e.Name(),
				FontName: name,
				Reason:   err.Error(),
			})
			logger.Debug("non-conforming font", "family", family, "file", e.Name(), "reason", err)
		}
	}
	if checked == 0 {
		return
	}

	report.FamiliesChecked++
	if valid {
		report.FamiliesValid++
		return
	}
	report.FamiliesInvalid++
	if opts.DryRun {
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		report.Errors++
		logger.Warn("failed to remove family folder", "family", family, "err", err)
		return
	}
	report.FamiliesRemoved++
	logger.Info("removed non-conforming family", "category", category, "family", family)
}

// Check verifies one font file against the required glyph set and returns
// the family name the font declares about itself. It never panics: parser
// crashes on hostile files are converted to errors.
func Check(path string, required []rune) (family string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("font parser crashed: %v", r)
		}
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read: %w", err)
	}

	family, err = checkCmap(data, required)
	if err != nil {
		return family, err
	}
	return family, checkRender(data, required)
}

// checkCmap verifies that every required rune maps to a real glyph.
func checkCmap(data []byte, required []rune) (string, error) {
	info, err := sfnt.Read(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse sfnt: %w", err)
	}
	subtable, err := info.CMapTable.GetBest()
	if err != nil {
		return info.FamilyName, fmt.Errorf("no usable character map: %w", err)
	}

	var missing []rune
	for _, r := range required {
		if subtable.Lookup(r) == 0 {
			missing = append(missing, r)
		}
	}
	if len(missing) > 0 {
		return info.FamilyName, fmt.Errorf("missing in cmap: %q", string(missing))
	}
	return info.FamilyName, nil
}

// checkRender verifies that every required rune shapes with a positive
// advance, catching mapped-but-empty glyphs.
func checkRender(data []byte, required []rune) error {
	fnt, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse opentype: %w", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    probeSize,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return fmt.Errorf("open face: %w", err)
	}
	defer face.Close()

	var unrenderable []rune
	for _, r := range required {
		advance, ok := face.GlyphAdvance(r)
		if !ok || advance <= 0 {
			unrenderable = append(unrenderable, r)
		}
	}
	if len(unrenderable) > 0 {
		return fmt.Errorf("cannot render: %q", string(unrenderable))
	}
	return nil
}

func isFontFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ttf", ".otf":
		return true
	}
	return false
}
