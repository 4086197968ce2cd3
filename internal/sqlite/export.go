package sqlite

import (
	"context"
	"database/sql"

	"github.com/FocuswithJustin/CedarBible/core/bible"
	"github.com/FocuswithJustin/CedarBible/core/book"
	"github.com/FocuswithJustin/CedarBible/core/books"
	cedarerrors "github.com/FocuswithJustin/CedarBible/core/errors"
	"github.com/FocuswithJustin/CedarBible/internal/logging"
)

// schema creates the export tables. Chapters and verses stay TEXT because
// verse labels can be bridges ("2-3") or carry letter suffixes.
const schema = `
CREATE TABLE IF NOT EXISTS books (
	bbb TEXT PRIMARY KEY,
	work_name TEXT NOT NULL,
	title TEXT NOT NULL,
	reference_number INTEGER NOT NULL,
	chapter_count INTEGER NOT NULL,
	verse_count INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS verses (
	bbb TEXT NOT NULL,
	chapter TEXT NOT NULL,
	verse TEXT NOT NULL,
	text TEXT NOT NULL,
	PRIMARY KEY (bbb, chapter, verse)
);
CREATE TABLE IF NOT EXISTS sections (
	bbb TEXT NOT NULL,
	ord INTEGER NOT NULL,
	start_chapter TEXT NOT NULL,
	start_verse TEXT NOT NULL,
	end_chapter TEXT NOT NULL,
	end_verse TEXT NOT NULL,
	reason TEXT NOT NULL,
	name TEXT NOT NULL,
	PRIMARY KEY (bbb, ord)
);
`

// ExportFile exports a processed work into a new or existing database
// file at path.
func ExportFile(ctx context.Context, path string, v *bible.Bible) error {
	db, err := Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	return ExportWork(ctx, db, v)
}

// ExportWork writes the work's books, verse texts, and sections (where
// built) into db. Every book must have been processed.
func ExportWork(ctx context.Context, db *sql.DB, v *bible.Bible) error {
	discovery, err := v.Discover()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return cedarerrors.Wrap(err, "create export schema")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return cedarerrors.Wrap(err, "begin export transaction")
	}
	defer tx.Rollback()

	for _, b := range v.Books() {
		d := discovery[b.BBB]
		refNum, err := books.LoadData().ReferenceNumber(b.BBB)
		if err != nil {
			refNum = 0
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO books
			 (bbb, work_name, title, reference_number, chapter_count, verse_count)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			b.BBB, b.WorkName, b.GetAssumedBookNames()[0],
			refNum, d.ChapterCount, d.VerseCount); err != nil {
			return cedarerrors.Wrapf(err, "export book row %s", b.BBB)
		}

		if err := exportVerses(ctx, tx, b.BBB, v); err != nil {
			return err
		}
		if err := exportSections(ctx, tx, b); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return cedarerrors.Wrap(err, "commit export")
	}
	logging.BookEvent("", "sqlite-export", v.Len(), "work", v.Name)
	return nil
}

func exportVerses(ctx context.Context, tx *sql.Tx, bbb string, v *bible.Bible) error {
	b, err := v.Book(bbb)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO verses (bbb, chapter, verse, text) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return cedarerrors.Wrap(err, "prepare verse insert")
	}
	defer stmt.Close()

	for _, key := range b.CVIndex().Keys() {
		text, err := b.GetVerseText(key)
		if err != nil {
			return cedarerrors.Wrapf(err, "verse text %s %s:%s", bbb, key.C, key.V)
		}
		if text == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, bbb, key.C, key.V, text); err != nil {
			return cedarerrors.Wrapf(err, "export verse %s %s:%s", bbb, key.C, key.V)
		}
	}
	return nil
}

// exportSections writes the book's section records. Books whose section
// index has not been built are skipped.
func exportSections(ctx context.Context, tx *sql.Tx, b *book.Book) error {
	idx := b.SectionIndex()
	if idx == nil {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO sections
		 (bbb, ord, start_chapter, start_verse, end_chapter, end_verse, reason, name)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return cedarerrors.Wrap(err, "prepare section insert")
	}
	defer stmt.Close()

	for ord, key := range idx.Keys() {
		sec, ok := idx.LookupExact(key)
		if !ok {
			return cedarerrors.NewNotFound("section", b.BBB+" "+key.C+":"+key.V)
		}
		end := sec.EndKey()
		if _, err := stmt.ExecContext(ctx, b.BBB, ord,
			key.C, key.V, end.C, end.V,
			sec.ReasonMarker(), sec.SectionName()); err != nil {
			return cedarerrors.Wrapf(err, "export section %s %s:%s", b.BBB, key.C, key.V)
		}
	}
	return nil
}
