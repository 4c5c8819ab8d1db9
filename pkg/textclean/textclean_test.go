package textclean

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/charmbracelet/log"
)

func writeGroupFile(t *testing.T, root, group, name string, data []byte) string {
	t.Helper()
	dir := filepath.Join(root, group)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"cap canvi", "cap canvi"},
		{"«Bon dia» digué", "<Bon dia> digué"},
		{"««»»", "<<>>"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanText(tt.in); got != tt.want {
			t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanReplacesGuillemets(t *testing.T) {
	root := t.TempDir()
	path := writeGroupFile(t, root, "tirant", "ch1.txt", []byte("«Hola» va dir\n"))
	clean := writeGroupFile(t, root, "tirant", "ch2.txt", []byte("ja net\n"))

	report, err := Clean(Options{Root: root, Logger: log.New(io.Discard)})
	if err != nil {
		t.Fatal(err)
	}

	if report.Files != 2 || report.Rewritten != 1 || report.Reencoded != 0 {
		t.Errorf("report = %+v", report)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "<Hola> va dir\n" {
		t.Errorf("content = %q", got)
	}

	untouched, err := os.ReadFile(clean)
	if err != nil {
		t.Fatal(err)
	}
	if string(untouched) != "ja net\n" {
		t.Errorf("clean file changed: %q", untouched)
	}
}

func TestCleanReencodesWindows1252(t *testing.T) {
	root := t.TempDir()
	// "caçador" with a Windows-1252 ç (0xE7), invalid as UTF-8.
	raw := []byte{'c', 'a', 0xE7, 'a', 'd', 'o', 'r', '\n'}
	path := writeGroupFile(t, root, "tirant", "ch1.txt", raw)

	report, err := Clean(Options{Root: root, Logger: log.New(io.Discard)})
	if err != nil {
		t.Fatal(err)
	}

	if report.Reencoded != 1 || report.Rewritten != 1 {
		t.Errorf("report = %+v", report)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !utf8.Valid(got) {
		t.Fatalf("rewritten file is not UTF-8: %q", got)
	}
	if string(got) != "caçador\n" {
		t.Errorf("content = %q", got)
	}
}

func TestCleanDryRun(t *testing.T) {
	root := t.TempDir()
	path := writeGroupFile(t, root, "tirant", "ch1.txt", []byte("«Hola»\n"))

	report, err := Clean(Options{Root: root, DryRun: true, Logger: log.New(io.Discard)})
	if err != nil {
		t.Fatal(err)
	}
	if report.Rewritten != 1 {
		t.Errorf("report = %+v", report)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "«Hola»\n" {
		t.Errorf("dry run must not rewrite, content = %q", got)
	}
}

func TestCleanIgnoresNonTextFiles(t *testing.T) {
	root := t.TempDir()
	writeGroupFile(t, root, "tirant", "cover.png", []byte{0xFF, 0xFE, 0x00})

	report, err := Clean(Options{Root: root, Logger: log.New(io.Discard)})
	if err != nil {
		t.Fatal(err)
	}
	if report.Files != 0 {
		t.Errorf("report = %+v", report)
	}
}

func TestCleanMissingRoot(t *testing.T) {
	_, err := Clean(Options{
		Root:   filepath.Join(t.TempDir(), "missing"),
		Logger: log.New(io.Discard),
	})
	if err == nil {
		t.Fatal("expected an error for a missing text tree")
	}
}
