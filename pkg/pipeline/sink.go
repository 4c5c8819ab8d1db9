package pipeline

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/texturagen/textura/pkg/errors"
)

// ManifestFileName is the per-subset metadata stream file name.
const ManifestFileName = "metadata.jsonl"

// DescriptorFileName is the corpus-level descriptor at the output root.
const DescriptorFileName = "dataset.json"

// RecordSchema declares the manifest line fields, in order. Stored in the
// descriptor so downstream loaders need not hardcode the schema.
var RecordSchema = []string{
	"image", "text", "font_name", "font_category", "font_style", "source_group", "granularity",
}

// Descriptor summarizes a generated corpus.
type Descriptor struct {
	RunID        string         `json:"run_id"`
	GeneratedAt  time.Time      `json:"generated_at"`
	Granularity  string         `json:"granularity"`
	Style        string         `json:"style"`
	FontFamilies int            `json:"font_families"`
	TotalSamples int            `json:"total_samples"`
	Subsets      map[string]int `json:"subsets"`
	Schema       []string       `json:"schema"`
}

// NewDescriptor builds the descriptor for one run's manifests.
func NewDescriptor(manifests Manifests, opts Options, fontFamilies int) Descriptor {
	d := Descriptor{
		RunID:        uuid.NewString(),
		GeneratedAt:  time.Now().UTC(),
		Granularity:  string(opts.Granularity),
		Style:        string(opts.Style),
		FontFamilies: fontFamilies,
		Subsets:      make(map[string]int, len(Subsets)),
		Schema:       RecordSchema,
	}
	for subset, records := range manifests {
		d.Subsets[string(subset)] = len(records)
		d.TotalSamples += len(records)
	}
	return d
}

// WriteManifests writes one line-delimited JSON metadata stream per subset
// directory. Any write failure is fatal: a corpus with partial ground truth
// is silently corrupt, so the caller must abort.
func WriteManifests(outputDir string, manifests Manifests) error {
	for _, subset := range Subsets {
		path := filepath.Join(outputDir, string(subset), ManifestFileName)
		if err := writeManifest(path, manifests[subset]); err != nil {
			return err
		}
	}
	return nil
}

func writeManifest(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSinkFailed, err, "create manifest %s", path)
	}

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			f.Close()
			return errors.Wrap(errors.ErrCodeSinkFailed, err, "write manifest %s", path)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return errors.Wrap(errors.ErrCodeSinkFailed, err, "flush manifest %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeSinkFailed, err, "close manifest %s", path)
	}
	return nil
}

// WriteDescriptor writes the corpus-level descriptor file. Fatal on failure
// for the same reason as WriteManifests.
func WriteDescriptor(outputDir string, d Descriptor) error {
	path := filepath.Join(outputDir, DescriptorFileName)
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeSinkFailed, err, "marshal descriptor")
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeSinkFailed, err, "write descriptor %s", path)
	}
	return nil
}
