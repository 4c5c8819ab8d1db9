// Package textclean normalizes a text corpus tree in place so that the
// segmentation stage only ever sees clean UTF-8.
//
// Two fixes are applied to every .txt file under the group folders:
//
//   - files that are not valid UTF-8 are re-decoded as Windows-1252, the
//     encoding the source scans ship in (golang.org/x/text).
//   - guillemets are replaced with plain angle brackets, so dialogue
//     markers stay inside the glyph set the font catalog guarantees.
package textclean

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"golang.org/x/text/encoding/charmap"

	"github.com/texturagen/textura/pkg/errors"
)

// guillemetReplacer maps dialogue guillemets onto the ASCII angle
// brackets carried by the required glyph set.
var guillemetReplacer = strings.NewReplacer("«", "<", "»", ">")

// Options configures a cleaning pass.
type Options struct {
	Root   string
	DryRun bool // report, but do not rewrite
	Logger *log.Logger
}

// Report summarizes a cleaning pass.
type Report struct {
	Files     int // .txt files inspected
	Rewritten int // files whose content changed
	Reencoded int // files recovered from Windows-1252
	Errors    int // unreadable entries, counted and skipped
}

// Clean normalizes every text file under the group folders of the tree.
func Clean(opts Options) (Report, error) {
	var report Report

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	groups, err := os.ReadDir(opts.Root)
	if err != nil {
		return report, errors.Wrap(errors.ErrCodeInvalidPath, err, "read text tree %s", opts.Root)
	}

	for _, group := range groups {
		if !group.IsDir() {
			continue
		}
		groupDir := filepath.Join(opts.Root, group.Name())
		files, err := os.ReadDir(groupDir)
		if err != nil {
			report.Errors++
			logger.Warn("skipping unreadable group", "group", group.Name(), "err", err)
			continue
		}
		for _, f := range files {
			if f.IsDir() || !strings.EqualFold(filepath.Ext(f.Name()), ".txt") {
				continue
			}
			cleanFile(&report, opts, logger, filepath.Join(groupDir, f.Name()))
		}
	}

	return report, nil
}

func cleanFile(report *Report, opts Options, logger *log.Logger, path string) {
	report.Files++

	data, err := os.ReadFile(path)
	if err != nil {
		report.Errors++
		logger.Warn("skipping unreadable file", "file", path, "err", err)
		return
	}

	text, reencoded, err := decode(data)
	if err != nil {
		report.Errors++
		logger.Warn("skipping undecodable file", "file", path, "err", err)
		return
	}
	if reencoded {
		report.Reencoded++
	}

	cleaned := CleanText(text)
	if cleaned == string(data) {
		return
	}

	report.Rewritten++
	if opts.DryRun {
		logger.Debug("would rewrite", "file", path)
		return
	}
	if err := os.WriteFile(path, []byte(cleaned), 0o644); err != nil {
		report.Errors++
		report.Rewritten--
		logger.Warn("failed to rewrite file", "file", path, "err", err)
		return
	}
	logger.Debug("rewrote", "file", path, "reencoded", reencoded)
}

// CleanText applies the content-level fixes to one file's text.
func CleanText(s string) string {
	return guillemetReplacer.Replace(s)
}

// decode returns the file content as UTF-8, falling back to a
// Windows-1252 interpretation when the raw bytes are not valid UTF-8.
func decode(data []byte) (text string, reencoded bool, err error) {
	if utf8.Valid(data) {
		return string(data), false, nil
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", false, err
	}
	return string(decoded), true, nil
}
