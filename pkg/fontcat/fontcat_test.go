package fontcat

import (
	"os"
	"path/filepath"
	"testing"
)

// writeTree creates a synthetic font tree: category → family → files.
// File contents are irrelevant to the catalog builder.
func writeTree(t *testing.T, tree map[string]map[string][]string) string {
	t.Helper()
	root := t.TempDir()
	for category, families := range tree {
		for family, files := range families {
			dir := filepath.Join(root, category, family)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				t.Fatal(err)
			}
			for _, f := range files {
				if err := os.WriteFile(filepath.Join(dir, f), []byte("stub"), 0o644); err != nil {
					t.Fatal(err)
				}
			}
		}
	}
	return root
}

func TestScanStyleSelection(t *testing.T) {
	root := writeTree(t, map[string]map[string][]string{
		"serif": {
			"Lora": {"Lora.ttf", "Lora-Bold.ttf"},
		},
	})

	// Normal filter picks the regular file.
	fonts, stats, err := Scan(Options{Root: root, Style: StyleNormal})
	if err != nil {
		t.Fatal(err)
	}
	if len(fonts) != 1 {
		t.Fatalf("fonts = %d, want 1", len(fonts))
	}
	if filepath.Base(fonts[0].Path) != "Lora.ttf" {
		t.Errorf("normal filter selected %s, want Lora.ttf", fonts[0].Path)
	}
	if stats.WithBold != 1 || stats.Used != 1 || stats.Skipped != 0 {
		t.Errorf("stats = %+v", stats)
	}

	// Bold filter picks the bold file from the same family.
	fonts, _, err = Scan(Options{Root: root, Style: StyleBold})
	if err != nil {
		t.Fatal(err)
	}
	if len(fonts) != 1 || filepath.Base(fonts[0].Path) != "Lora-Bold.ttf" {
		t.Errorf("bold filter selected %v, want Lora-Bold.ttf", fonts)
	}
	if fonts[0].Family != "Lora" || fonts[0].Category != "serif" || fonts[0].Style != StyleBold {
		t.Errorf("font metadata = %+v", fonts[0])
	}
}

func TestScanItalicOnlyFamilyExcluded(t *testing.T) {
	root := writeTree(t, map[string]map[string][]string{
		"serif": {
			"Slanty": {"Slanty-Italic.ttf"},
		},
	})

	for _, style := range []Style{StyleNormal, StyleBold} {
		fonts, stats, err := Scan(Options{Root: root, Style: style})
		if err != nil {
			t.Fatal(err)
		}
		if len(fonts) != 0 {
			t.Errorf("style %s: italic-only family should be excluded, got %v", style, fonts)
		}
		if stats.Skipped != 1 {
			t.Errorf("style %s: Skipped = %d, want 1", style, stats.Skipped)
		}
	}
}

func TestScanBoldFilterSkipsFamiliesWithoutBold(t *testing.T) {
	root := writeTree(t, map[string]map[string][]string{
		"sans": {
			"Plain":  {"Plain.ttf"},
			"Strong": {"Strong.ttf", "Strong-Heavy.otf"},
		},
	})

	fonts, stats, err := Scan(Options{Root: root, Style: StyleBold})
	if err != nil {
		t.Fatal(err)
	}
	if len(fonts) != 1 || fonts[0].Family != "Strong" {
		t.Fatalf("fonts = %+v, want only Strong", fonts)
	}
	if stats.WithBold != 1 || stats.WithoutBold != 1 {
		t.Errorf("bold tallies = %+v", stats)
	}
	if stats.Used != 1 || stats.Skipped != 1 {
		t.Errorf("usage tallies = %+v", stats)
	}
}

func TestScanNonFontFoldersIgnored(t *testing.T) {
	root := writeTree(t, map[string]map[string][]string{
		"misc": {
			"NotAFont": {"readme.txt", "license.md"},
			"Real":     {"Real.ttf"},
		},
	})

	fonts, stats, err := Scan(Options{Root: root, Style: StyleNormal})
	if err != nil {
		t.Fatal(err)
	}
	if len(fonts) != 1 || fonts[0].Family != "Real" {
		t.Errorf("fonts = %+v", fonts)
	}
	// Folders without font files contribute to no counter.
	if stats.WithBold+stats.WithoutBold != 1 {
		t.Errorf("counted a folder without font files: %+v", stats)
	}
}

func TestScanMaxPerCategory(t *testing.T) {
	families := map[string][]string{}
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		families[name] = []string{name + ".ttf"}
	}
	root := writeTree(t, map[string]map[string][]string{"sans": families})

	fonts, stats, err := Scan(Options{Root: root, Style: StyleNormal, MaxPerCategory: 2, Seed: 7})
	if err != nil {
		t.Fatal(err)
	}
	if len(fonts) != 2 {
		t.Fatalf("fonts = %d, want 2", len(fonts))
	}
	if stats.Used != 2 || stats.Skipped != 3 {
		t.Errorf("stats = %+v", stats)
	}

	// Same seed, same subset.
	again, _, err := Scan(Options{Root: root, Style: StyleNormal, MaxPerCategory: 2, Seed: 7})
	if err != nil {
		t.Fatal(err)
	}
	for i := range fonts {
		if fonts[i] != again[i] {
			t.Errorf("selection not deterministic under fixed seed: %v vs %v", fonts, again)
		}
	}
}

func TestScanInvalidInputs(t *testing.T) {
	if _, _, err := Scan(Options{Root: t.TempDir(), Style: "slanted"}); err == nil {
		t.Error("unknown style should fail")
	}
	if _, _, err := Scan(Options{Root: filepath.Join(t.TempDir(), "missing"), Style: StyleNormal}); err == nil {
		t.Error("missing root should fail")
	}
}
