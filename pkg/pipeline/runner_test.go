package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/texturagen/textura/pkg/errors"
)

// writeCorpusFixtures builds a minimal font tree and text tree on disk.
func writeCorpusFixtures(t *testing.T) (fontsDir, textsDir string) {
	t.Helper()

	fontsDir = t.TempDir()
	family := filepath.Join(fontsDir, "sans", "Go")
	if err := os.MkdirAll(family, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(family, "Go-Regular.ttf"), goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(family, "Go-Bold.ttf"), gobold.TTF, 0o644); err != nil {
		t.Fatal(err)
	}

	textsDir = t.TempDir()
	book := filepath.Join(textsDir, "tirant")
	if err := os.MkdirAll(book, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "lo cavaller anava tot sol per la ribera\nla mar era tranquila i clara\n"
	if err := os.WriteFile(filepath.Join(book, "ch1.txt"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return fontsDir, textsDir
}

func TestRunnerGenerate(t *testing.T) {
	fontsDir, textsDir := writeCorpusFixtures(t)
	outDir := t.TempDir()

	runner := NewRunner(log.New(io.Discard))
	result, err := runner.Generate(context.Background(), Options{
		FontsDir:      fontsDir,
		TextsDir:      textsDir,
		OutputDir:     outDir,
		TrainFraction: 0.5,
		ValFraction:   0.25,
		TargetHeight:  48,
		Workers:       2,
	})
	if err != nil {
		t.Fatal(err)
	}

	if result.FontStats.Used != 1 {
		t.Errorf("FontStats = %+v, want one family used", result.FontStats)
	}
	if result.TextStats.Units == 0 {
		t.Errorf("TextStats = %+v", result.TextStats)
	}
	if result.Failed != 0 {
		t.Errorf("Failed = %d", result.Failed)
	}

	total := 0
	for _, subset := range Subsets {
		total += result.Rendered[subset]
		if result.Rendered[subset] != result.Planned[subset] {
			t.Errorf("%s: rendered %d of %d planned", subset, result.Rendered[subset], result.Planned[subset])
		}
	}
	if result.Descriptor.TotalSamples != total {
		t.Errorf("descriptor total = %d, rendered = %d", result.Descriptor.TotalSamples, total)
	}
	if result.Descriptor.FontFamilies != 1 || result.Descriptor.Style != "normal" {
		t.Errorf("descriptor = %+v", result.Descriptor)
	}

	// Corpus tree: subset manifests plus the root descriptor.
	for _, subset := range Subsets {
		if _, err := os.Stat(filepath.Join(outDir, string(subset), ManifestFileName)); err != nil {
			t.Errorf("missing %s manifest: %v", subset, err)
		}
	}
	if _, err := os.Stat(filepath.Join(outDir, DescriptorFileName)); err != nil {
		t.Errorf("missing descriptor: %v", err)
	}
}

func TestRunnerGenerateBoldStyle(t *testing.T) {
	fontsDir, textsDir := writeCorpusFixtures(t)

	runner := NewRunner(log.New(io.Discard))
	result, err := runner.Generate(context.Background(), Options{
		FontsDir:  fontsDir,
		TextsDir:  textsDir,
		OutputDir: t.TempDir(),
		Style:     "bold",
		MaxUnits:  2,
		Workers:   1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.FontStats.Used != 1 || result.FontStats.WithBold != 1 {
		t.Errorf("FontStats = %+v", result.FontStats)
	}
	if result.Descriptor.Style != "bold" {
		t.Errorf("Style = %q", result.Descriptor.Style)
	}
}

func TestRunnerGenerateEmptyCorpusFatal(t *testing.T) {
	fontsDir, _ := writeCorpusFixtures(t)
	emptyTexts := t.TempDir()
	outDir := t.TempDir()

	runner := NewRunner(log.New(io.Discard))
	_, err := runner.Generate(context.Background(), Options{
		FontsDir:  fontsDir,
		TextsDir:  emptyTexts,
		OutputDir: outDir,
		Workers:   1,
	})
	if !errors.Is(err, errors.ErrCodeEmptyTextCorpus) {
		t.Fatalf("err = %v, want EMPTY_TEXT_CORPUS", err)
	}

	// Fatal before dispatch: no partial output was produced.
	entries, readErr := os.ReadDir(outDir)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if len(entries) != 0 {
		t.Errorf("output dir should stay empty on fatal config error, has %v", entries)
	}
}

func TestRunnerGenerateEmptyCatalogFatal(t *testing.T) {
	_, textsDir := writeCorpusFixtures(t)
	emptyFonts := t.TempDir()

	runner := NewRunner(log.New(io.Discard))
	_, err := runner.Generate(context.Background(), Options{
		FontsDir:  emptyFonts,
		TextsDir:  textsDir,
		OutputDir: t.TempDir(),
		Workers:   1,
	})
	if !errors.Is(err, errors.ErrCodeEmptyFontCatalog) {
		t.Fatalf("err = %v, want EMPTY_FONT_CATALOG", err)
	}
}
