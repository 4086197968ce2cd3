package bible

import (
	"context"
	"errors"
	"testing"

	"github.com/FocuswithJustin/CedarBible/core/book"
	cedarerrors "github.com/FocuswithJustin/CedarBible/core/errors"
	"github.com/FocuswithJustin/CedarBible/core/ref"
)

func fillBook(t *testing.T, b *book.Book, lines [][2]string) {
	t.Helper()
	for _, ln := range lines {
		if err := b.AddLine(ln[0], ln[1]); err != nil {
			t.Fatalf("AddLine(%q, %q): %v", ln[0], ln[1], err)
		}
	}
}

func testWork(t *testing.T) *Bible {
	t.Helper()
	v := New("test work", book.DefaultConfig())

	mrk, err := v.NewBook("MRK")
	if err != nil {
		t.Fatalf("NewBook(MRK): %v", err)
	}
	fillBook(t, mrk, [][2]string{
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
	})

	mat, err := v.NewBook("MAT")
	if err != nil {
		t.Fatalf("NewBook(MAT): %v", err)
	}
	fillBook(t, mat, [][2]string{
		{"id", "MAT"},
		{"h", "Matthew"},
		{"c", "1"},
		{"p", ""},
		{"v", "1 The book of the genealogy."},
	})

	return v
}

func TestAddBookRejectsDuplicate(t *testing.T) {
	v := testWork(t)
	b, err := book.New("MAT", "test work", book.DefaultConfig())
	if err != nil {
		t.Fatalf("book.New: %v", err)
	}
	if err := v.AddBook(b); !errors.Is(err, cedarerrors.ErrInvalidInput) {
		t.Errorf("AddBook duplicate err = %v, want ErrInvalidInput", err)
	}
}

func TestBookLookup(t *testing.T) {
	v := testWork(t)
	if _, err := v.Book("MRK"); err != nil {
		t.Errorf("Book(MRK) err = %v", err)
	}
	if _, err := v.Book("LUK"); !errors.Is(err, cedarerrors.ErrNotFound) {
		t.Errorf("Book(LUK) err = %v, want ErrNotFound", err)
	}
	if got := v.BookCodes(); len(got) != 2 || got[0] != "MRK" || got[1] != "MAT" {
		t.Errorf("BookCodes() = %v, want [MRK MAT]", got)
	}
}

func TestDiscoverRequiresProcessing(t *testing.T) {
	v := testWork(t)
	if _, err := v.Discover(); !errors.Is(err, cedarerrors.ErrNotProcessed) {
		t.Errorf("Discover before processing err = %v, want ErrNotProcessed", err)
	}
}

func TestProcessAllAndDiscover(t *testing.T) {
	v := testWork(t)
	if err := v.ProcessAll(context.Background()); err != nil {
		t.Fatalf("ProcessAll: %v", err)
	}
	for _, b := range v.Books() {
		if !b.Processed() {
			t.Errorf("book %s not processed", b.BBB)
		}
		if b.CVIndex() == nil {
			t.Errorf("book %s has no CV index", b.BBB)
		}
	}

	d, err := v.Discover()
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	mrk := d["MRK"]
	if mrk.ChapterCount != 2 || mrk.VerseCount != 3 {
		t.Errorf("MRK discovery = %+v, want 2 chapters, 3 verses", mrk)
	}
	if !mrk.HasSectionHeadings || mrk.SectionHeadingCount != 1 {
		t.Errorf("MRK discovery = %+v, want one section heading", mrk)
	}
	if mat := d["MAT"]; mat.HasSectionHeadings {
		t.Errorf("MAT discovery = %+v, want no section headings", mat)
	}
}

func TestProcessAllIdempotentPerBook(t *testing.T) {
	v := testWork(t)
	if err := v.ProcessAll(context.Background()); err != nil {
		t.Fatalf("first ProcessAll: %v", err)
	}
	// Already-processed books are skipped, not re-run.
	if err := v.ProcessAll(context.Background()); err != nil {
		t.Errorf("second ProcessAll err = %v, want nil", err)
	}
}

func TestMakeSectionIndexes(t *testing.T) {
	v := testWork(t)
	if err := v.ProcessAll(context.Background()); err != nil {
		t.Fatalf("ProcessAll: %v", err)
	}
	if err := v.MakeSectionIndexes(); err != nil {
		t.Fatalf("MakeSectionIndexes: %v", err)
	}
	for _, b := range v.Books() {
		if b.SectionIndex() == nil {
			t.Errorf("book %s has no section index", b.BBB)
		}
	}
	if err := v.MakeSectionIndexes(); !errors.Is(err, cedarerrors.ErrAlreadyProcessed) {
		t.Errorf("second MakeSectionIndexes err = %v, want ErrAlreadyProcessed", err)
	}
}

func TestGetVerseText(t *testing.T) {
	v := testWork(t)
	if err := v.ProcessAll(context.Background()); err != nil {
		t.Fatalf("ProcessAll: %v", err)
	}
	got, err := v.GetVerseText("MRK", ref.Key{C: "1", V: "2"})
	if err != nil {
		t.Fatalf("GetVerseText: %v", err)
	}
	if want := "As it is written."; got != want {
		t.Errorf("GetVerseText(MRK 1:2) = %q, want %q", got, want)
	}
	if _, err := v.GetVerseText("LUK", ref.Key{C: "1", V: "1"}); !errors.Is(err, cedarerrors.ErrNotFound) {
		t.Errorf("GetVerseText(LUK) err = %v, want ErrNotFound", err)
	}
}

func TestGetVersification(t *testing.T) {
	v := testWork(t)
	if err := v.ProcessAll(context.Background()); err != nil {
		t.Fatalf("ProcessAll: %v", err)
	}
	all, err := v.GetVersification()
	if err != nil {
		t.Fatalf("GetVersification: %v", err)
	}
	mrk := all["MRK"]
	want := [][2]string{{"1", "2"}, {"2", "1"}}
	if len(mrk.Chapters) != len(want) {
		t.Fatalf("MRK chapters = %v, want %v", mrk.Chapters, want)
	}
	for i := range want {
		if mrk.Chapters[i] != want[i] {
			t.Errorf("MRK chapter %d = %v, want %v", i, mrk.Chapters[i], want[i])
		}
	}
}

func TestCanonicalOrder(t *testing.T) {
	v := testWork(t)
	v.CanonicalOrder()
	if got := v.BookCodes(); got[0] != "MAT" || got[1] != "MRK" {
		t.Errorf("BookCodes after CanonicalOrder = %v, want [MAT MRK]", got)
	}
}
