package dump

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/CedarBible/core/book"
	"github.com/FocuswithJustin/CedarBible/core/entry"
	cedarerrors "github.com/FocuswithJustin/CedarBible/core/errors"
)

func processedBook(t *testing.T) *book.Book {
	t.Helper()
	b, err := book.New("MAT", "test work", book.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	lines := [][2]string{
		{"id", "MAT"},
		{"h", "Matthew"},
		{"c", "1"},
		{"p", ""},
		{"v", "1 In the beginning."},
		{"v", "2 The second verse."},
	}
	for _, ln := range lines {
		if err := b.AddLine(ln[0], ln[1]); err != nil {
			t.Fatalf("AddLine(%q): %v", ln[0], err)
		}
	}
	if err := b.ProcessLines(); err != nil {
		t.Fatalf("ProcessLines: %v", err)
	}
	return b
}

func TestRenderEntry(t *testing.T) {
	tests := []struct {
		e    entry.Entry
		want string
	}{
		{entry.Entry{Marker: "p"}, `\p`},
		{entry.Entry{Marker: "v", OriginalMarker: "v", OriginalText: "1"}, `\v=1`},
		{entry.Entry{Marker: "s1", OriginalMarker: "s", OriginalText: "Heading"}, `\s1<<s=Heading`},
		{entry.Entry{Marker: "v~", OriginalText: "Verse text."}, `\v~=Verse text.`},
	}
	for _, tt := range tests {
		if got := renderEntry(tt.e); got != tt.want {
			t.Errorf("renderEntry(%+v) = %q, want %q", tt.e, got, tt.want)
		}
	}
}

func TestWriteBook(t *testing.T) {
	b := processedBook(t)
	dir := t.TempDir()

	meta, err := WriteBook(dir, b)
	if err != nil {
		t.Fatalf("WriteBook: %v", err)
	}
	if meta.FormatVersion != FormatVersion {
		t.Errorf("FormatVersion = %q, want %q", meta.FormatVersion, FormatVersion)
	}
	if meta.Book != "MAT" || meta.WorkName != "test work" {
		t.Errorf("metadata identity = %q/%q", meta.Book, meta.WorkName)
	}
	if _, err := uuid.Parse(meta.RunID); err != nil {
		t.Errorf("RunID %q is not a UUID: %v", meta.RunID, err)
	}
	if len(meta.BLAKE3) != 64 {
		t.Errorf("BLAKE3 = %q, want 64 hex chars", meta.BLAKE3)
	}

	found := false
	for _, k := range meta.Keys {
		if k == "1:1" {
			found = true
		}
	}
	if !found {
		t.Errorf("Keys = %v, want to contain 1:1", meta.Keys)
	}

	data, err := os.ReadFile(filepath.Join(dir, "MAT_1_1.txt"))
	if err != nil {
		t.Fatalf("read verse file: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "\\v=1 In the beginning.\n") {
		t.Errorf("verse file missing verse marker line:\n%s", content)
	}
	if !strings.Contains(content, "\\v~=In the beginning.\n") {
		t.Errorf("verse file missing verse text line:\n%s", content)
	}

	got, err := ReadMetadata(dir)
	if err != nil {
		t.Fatalf("ReadMetadata: %v", err)
	}
	if got.BLAKE3 != meta.BLAKE3 || got.RunID != meta.RunID {
		t.Errorf("ReadMetadata = %+v, want %+v", got, meta)
	}
}

func TestWriteBookDeterministicHash(t *testing.T) {
	m1, err := WriteBook(t.TempDir(), processedBook(t))
	if err != nil {
		t.Fatal(err)
	}
	m2, err := WriteBook(t.TempDir(), processedBook(t))
	if err != nil {
		t.Fatal(err)
	}
	if m1.BLAKE3 != m2.BLAKE3 {
		t.Errorf("hashes differ for identical content: %s vs %s", m1.BLAKE3, m2.BLAKE3)
	}
	if m1.RunID == m2.RunID {
		t.Error("run IDs should differ between runs")
	}
}

func TestWriteBookUnprocessed(t *testing.T) {
	b, err := book.New("MAT", "test work", book.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := WriteBook(t.TempDir(), b); !errors.Is(err, cedarerrors.ErrNotProcessed) {
		t.Errorf("WriteBook unprocessed err = %v, want ErrNotProcessed", err)
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	b := processedBook(t)
	src := t.TempDir()
	meta, err := WriteBook(src, b)
	if err != nil {
		t.Fatal(err)
	}

	archivePath := filepath.Join(t.TempDir(), "mat.tar.xz")
	if err := Archive(src, archivePath); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	dest := t.TempDir()
	if err := Unarchive(archivePath, dest); err != nil {
		t.Fatalf("Unarchive: %v", err)
	}

	got, err := ReadMetadata(dest)
	if err != nil {
		t.Fatalf("ReadMetadata after extract: %v", err)
	}
	if got.BLAKE3 != meta.BLAKE3 {
		t.Errorf("extracted hash = %s, want %s", got.BLAKE3, meta.BLAKE3)
	}

	srcEntries, _ := os.ReadDir(src)
	destEntries, _ := os.ReadDir(dest)
	if len(srcEntries) != len(destEntries) {
		t.Errorf("extracted %d files, want %d", len(destEntries), len(srcEntries))
	}
}
