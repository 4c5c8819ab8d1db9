package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/texturagen/textura/pkg/fontcat"
	"github.com/texturagen/textura/pkg/pipeline"
)

func newTestGenerateCmd() (*cobra.Command, *generateOpts) {
	opts := &generateOpts{}
	cmd := &cobra.Command{Use: "generate", RunE: func(*cobra.Command, []string) error { return nil }}
	bindGenerateFlags(cmd, opts)
	return cmd, opts
}

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestApplyProfileFillsUnsetOptions(t *testing.T) {
	cmd, opts := newTestGenerateCmd()
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}

	path := writeProfile(t, `
fonts = "fonts"
texts = "books"
output = "dataset"
style = "bold"
granularity = "words"
train_fraction = 0.7
val_fraction = 0.2
workers = 8
seed = 7
`)
	if err := opts.applyProfile(cmd, path); err != nil {
		t.Fatal(err)
	}

	if opts.fontsDir != "fonts" || opts.textsDir != "books" || opts.outputDir != "dataset" {
		t.Errorf("paths = %q/%q/%q", opts.fontsDir, opts.textsDir, opts.outputDir)
	}
	if opts.style != "bold" || opts.granularity != "words" {
		t.Errorf("style/granularity = %q/%q", opts.style, opts.granularity)
	}
	if opts.trainFraction != 0.7 || opts.valFraction != 0.2 {
		t.Errorf("fractions = %v/%v", opts.trainFraction, opts.valFraction)
	}
	if opts.workers != 8 || opts.seed != 7 {
		t.Errorf("workers/seed = %d/%d", opts.workers, opts.seed)
	}
}

func TestApplyProfileFlagsWin(t *testing.T) {
	cmd, opts := newTestGenerateCmd()
	cmd.SetArgs([]string{"--workers", "4", "--fonts", "cli-fonts"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}

	path := writeProfile(t, `
fonts = "profile-fonts"
workers = 16
texts = "books"
`)
	if err := opts.applyProfile(cmd, path); err != nil {
		t.Fatal(err)
	}

	if opts.workers != 4 {
		t.Errorf("workers = %d, explicit flag should win over the profile", opts.workers)
	}
	if opts.fontsDir != "cli-fonts" {
		t.Errorf("fontsDir = %q, explicit flag should win over the profile", opts.fontsDir)
	}
	if opts.textsDir != "books" {
		t.Errorf("textsDir = %q, profile should fill unset options", opts.textsDir)
	}
}

func TestApplyProfileBadFile(t *testing.T) {
	cmd, opts := newTestGenerateCmd()

	if err := opts.applyProfile(cmd, filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing profile should be an error")
	}

	bad := writeProfile(t, "workers = {{not toml")
	if err := opts.applyProfile(cmd, bad); err == nil {
		t.Error("malformed profile should be an error")
	}
}

func TestPipelineOptions(t *testing.T) {
	opts := generateOpts{
		fontsDir:      "f",
		textsDir:      "t",
		outputDir:     "o",
		granularity:   "words",
		style:         "bold",
		trainFraction: 0.6,
		valFraction:   0.2,
		targetHeight:  64,
		workers:       3,
		seed:          0,
	}

	popts := opts.pipelineOptions()
	if popts.Granularity != pipeline.GranularityWords || popts.Style != fontcat.StyleBold {
		t.Errorf("granularity/style = %q/%q", popts.Granularity, popts.Style)
	}
	if popts.TrainFraction != 0.6 || popts.ValFraction != 0.2 {
		t.Errorf("fractions = %v/%v", popts.TrainFraction, popts.ValFraction)
	}

	// The CLI always passes the seed through explicitly, so a zero seed
	// must survive validation.
	if err := popts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if popts.Seed != 0 {
		t.Errorf("Seed = %d, explicit zero should be preserved", popts.Seed)
	}
}
