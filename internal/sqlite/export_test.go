package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/FocuswithJustin/CedarBible/core/bible"
	"github.com/FocuswithJustin/CedarBible/core/book"
)

func exportWork(t *testing.T) *bible.Bible {
	t.Helper()
	v := bible.New("test work", book.DefaultConfig())
	mrk, err := v.NewBook("MRK")
	if err != nil {
		t.Fatal(err)
	}
	lines := [][2]string{
		{"id", "MRK"},
		{"h", "Mark"},
		{"c", "1"},
		{"s1", "John the Baptist"},
		{"p", ""},
		{"v", "1 The beginning of the gospel."},
		{"v", "2 As it is written."},
		{"c", "2"},
		{"p", ""},
		{"v", "1 He entered Capernaum."},
	}
	for _, ln := range lines {
		if err := mrk.AddLine(ln[0], ln[1]); err != nil {
			t.Fatalf("AddLine(%q): %v", ln[0], err)
		}
	}
	if err := v.ProcessAll(context.Background()); err != nil {
		t.Fatalf("ProcessAll: %v", err)
	}
	if err := v.MakeSectionIndexes(); err != nil {
		t.Fatalf("MakeSectionIndexes: %v", err)
	}
	return v
}

func TestDriverSelection(t *testing.T) {
	if IsCGO() {
		if DriverName() != "sqlite3" {
			t.Errorf("DriverName() = %q, want sqlite3 in cgo mode", DriverName())
		}
		return
	}
	if DriverName() != "sqlite" || DriverType() != "purego" {
		t.Errorf("driver = %s/%s, want sqlite/purego", DriverName(), DriverType())
	}
}

func TestExportFile(t *testing.T) {
	v := exportWork(t)
	path := filepath.Join(t.TempDir(), "export.db")
	if err := ExportFile(context.Background(), path, v); err != nil {
		t.Fatalf("ExportFile: %v", err)
	}

	db, err := OpenReadOnly(path)
	if err != nil {
		t.Fatalf("OpenReadOnly: %v", err)
	}
	defer db.Close()

	var bookCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM books`).Scan(&bookCount); err != nil {
		t.Fatalf("count books: %v", err)
	}
	if bookCount != 1 {
		t.Errorf("books rows = %d, want 1", bookCount)
	}

	var title string
	var chapters, verses int
	if err := db.QueryRow(
		`SELECT title, chapter_count, verse_count FROM books WHERE bbb = ?`,
		"MRK").Scan(&title, &chapters, &verses); err != nil {
		t.Fatalf("select MRK book row: %v", err)
	}
	if title != "Mark" || chapters != 2 || verses != 3 {
		t.Errorf("MRK row = %q/%d/%d, want Mark/2/3", title, chapters, verses)
	}

	var text string
	if err := db.QueryRow(
		`SELECT text FROM verses WHERE bbb = ? AND chapter = ? AND verse = ?`,
		"MRK", "1", "2").Scan(&text); err != nil {
		t.Fatalf("select verse row: %v", err)
	}
	if want := "As it is written."; text != want {
		t.Errorf("verse text = %q, want %q", text, want)
	}

	var sections int
	if err := db.QueryRow(
		`SELECT COUNT(*) FROM sections WHERE bbb = ?`, "MRK").Scan(&sections); err != nil {
		t.Fatalf("count sections: %v", err)
	}
	if sections == 0 {
		t.Error("expected at least one section row for MRK")
	}
}

func TestExportWorkIdempotent(t *testing.T) {
	v := exportWork(t)
	path := filepath.Join(t.TempDir(), "export.db")
	if err := ExportFile(context.Background(), path, v); err != nil {
		t.Fatalf("first export: %v", err)
	}
	// INSERT OR REPLACE keeps a re-export from failing on primary keys.
	if err := ExportFile(context.Background(), path, v); err != nil {
		t.Errorf("second export err = %v, want nil", err)
	}
}
