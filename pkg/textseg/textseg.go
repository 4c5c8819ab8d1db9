// Package textseg loads plain-text sources and segments them into
// fixed-size word chunks.
//
// The expected layout is source-group folders (one per book or document
// collection) containing .txt files:
//
//	data/
//	  tirant-lo-blanc/
//	    chapter-01.txt
//	    chapter-02.txt
//
// Each non-empty line is split into whitespace words and re-chunked into
// consecutive groups of ChunkWords words; each chunk becomes one Unit.
// Discovery order (group, file, line, chunk) is preserved; the planner
// applies its own shuffle afterwards.
package textseg

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/texturagen/textura/pkg/errors"
)

// DefaultChunkWords is the number of words per text unit.
const DefaultChunkWords = 5

// Unit is one labeled chunk of text. Immutable after segmentation.
type Unit struct {
	Text  string // the chunk content, single-space joined
	Group string // source-group folder name
	File  string // originating file name
}

// Words returns the whitespace-delimited words of the unit.
func (u Unit) Words() []string {
	return strings.Fields(u.Text)
}

// Stats reports segmentation counters.
type Stats struct {
	Files   int // files read successfully
	Skipped int // files skipped (unreadable or not valid UTF-8)
	Units   int // units produced
}

// Options configures a segmentation pass.
type Options struct {
	Root       string
	ChunkWords int // 0 = DefaultChunkWords
	Logger     *log.Logger
}

// Load reads every text file under the tree and segments it into units.
//
// A file that cannot be read or is not valid UTF-8 is skipped and logged;
// only a missing or unreadable root is fatal.
func Load(opts Options) ([]Unit, Stats, error) {
	var stats Stats

	if opts.ChunkWords <= 0 {
		opts.ChunkWords = DefaultChunkWords
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	groups, err := os.ReadDir(opts.Root)
	if err != nil {
		return nil, stats, errors.Wrap(errors.ErrCodeInvalidPath, err, "read text tree %s", opts.Root)
	}

	var units []Unit
	for _, group := range groups {
		if !group.IsDir() {
			continue
		}
		dir := filepath.Join(opts.Root, group.Name())
		files, err := os.ReadDir(dir)
		if err != nil {
			logger.Warn("skipping unreadable source group", "group", group.Name(), "err", err)
			continue
		}
		for _, file := range files {
			if file.IsDir() || !strings.EqualFold(filepath.Ext(file.Name()), ".txt") {
				continue
			}
			data, err := os.ReadFile(filepath.Join(dir, file.Name()))
			if err != nil {
				stats.Skipped++
				logger.Warn("skipping unreadable text file", "file", file.Name(), "err", err)
				continue
			}
			if !utf8.Valid(data) {
				stats.Skipped++
				logger.Warn("skipping non-UTF-8 text file", "file", file.Name())
				continue
			}
			stats.Files++
			units = appendUnits(units, string(data), group.Name(), file.Name(), opts.ChunkWords)
		}
	}

	stats.Units = len(units)
	return units, stats, nil
}

// appendUnits segments one file's content into chunked units.
func appendUnits(units []Unit, content, group, file string, chunkWords int) []Unit {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		words := strings.Fields(line)
		for i := 0; i < len(words); i += chunkWords {
			end := i + chunkWords
			if end > len(words) {
				end = len(words)
			}
			units = append(units, Unit{
				Text:  strings.Join(words[i:end], " "),
				Group: group,
				File:  file,
			})
		}
	}
	return units
}
