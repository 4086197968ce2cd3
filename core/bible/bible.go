// Package bible is the work-level container: an ordered collection of
// books sharing one processing configuration. It runs the per-book
// pipeline across books in parallel, discovers per-book layout facts
// (section headings, chapter and verse counts), and feeds those into the
// section-index builds that need container-level knowledge.
package bible

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/FocuswithJustin/CedarBible/core/book"
	"github.com/FocuswithJustin/CedarBible/core/books"
	cedarerrors "github.com/FocuswithJustin/CedarBible/core/errors"
	"github.com/FocuswithJustin/CedarBible/core/ref"
	"github.com/FocuswithJustin/CedarBible/internal/logging"
)

// Discovery holds the per-book facts gathered from the processed entries.
// Section-index builds consume HasSectionHeadings; the rest feed reports.
type Discovery struct {
	BBB                 string
	ChapterCount        int
	VerseCount          int
	SectionHeadingCount int
	HasSectionHeadings  bool
}

// Bible owns the books of one work in insertion order.
type Bible struct {
	Name string

	cfg       book.ProcessingConfig
	order     []string
	books     map[string]*book.Book
	discovery map[string]Discovery
	sectioned bool
}

// New creates an empty container. Every book added through NewBook
// inherits cfg.
func New(name string, cfg book.ProcessingConfig) *Bible {
	return &Bible{
		Name:  name,
		cfg:   cfg,
		books: make(map[string]*book.Book),
	}
}

// NewBook creates a book for bbb with the container's work name and
// configuration and registers it.
func (v *Bible) NewBook(bbb string) (*book.Book, error) {
	b, err := book.New(bbb, v.Name, v.cfg)
	if err != nil {
		return nil, err
	}
	if err := v.AddBook(b); err != nil {
		return nil, err
	}
	return b, nil
}

// AddBook registers an externally constructed book. A second book with
// the same code is rejected.
func (v *Bible) AddBook(b *book.Book) error {
	if _, ok := v.books[b.BBB]; ok {
		return cedarerrors.NewValidation("book", "book "+b.BBB+" already added")
	}
	v.books[b.BBB] = b
	v.order = append(v.order, b.BBB)
	return nil
}

// Book returns the book for bbb.
func (v *Bible) Book(bbb string) (*book.Book, error) {
	b, ok := v.books[bbb]
	if !ok {
		return nil, cedarerrors.NewNotFound("book", bbb)
	}
	return b, nil
}

// Books returns the books in insertion order.
func (v *Bible) Books() []*book.Book {
	out := make([]*book.Book, 0, len(v.order))
	for _, bbb := range v.order {
		out = append(out, v.books[bbb])
	}
	return out
}

// BookCodes returns the book codes in insertion order.
func (v *Bible) BookCodes() []string {
	out := make([]string, len(v.order))
	copy(out, v.order)
	return out
}

// Len returns the number of registered books.
func (v *Bible) Len() int { return len(v.order) }

// ProcessAll runs ProcessLines on every unprocessed book. Books are
// independent, so they run concurrently, capped at GOMAXPROCS. The first
// failure cancels the remaining work.
func (v *Bible) ProcessAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, bbb := range v.order {
		b := v.books[bbb]
		if b.Processed() {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := b.ProcessLines(); err != nil {
				logging.ProcessingError(b.BBB, "process", err)
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	logging.BookEvent("", "processed", len(v.order), "work", v.Name)
	return nil
}

// Discover scans every processed book and caches its layout facts. All
// books must have been processed first.
func (v *Bible) Discover() (map[string]Discovery, error) {
	if v.discovery != nil {
		return v.discovery, nil
	}
	results := make(map[string]Discovery, len(v.order))
	for _, bbb := range v.order {
		b := v.books[bbb]
		if !b.Processed() {
			return nil, cedarerrors.Wrapf(cedarerrors.ErrNotProcessed,
				"discover: book %s", bbb)
		}
		d := Discovery{BBB: bbb}
		for _, e := range b.Entries() {
			switch e.Marker {
			case "c":
				d.ChapterCount++
			case "v":
				d.VerseCount++
			case "s", "s1", "s2", "s3", "s4":
				d.SectionHeadingCount++
			}
		}
		d.HasSectionHeadings = d.SectionHeadingCount > 0
		results[bbb] = d
	}
	v.discovery = results
	return results, nil
}

// MakeSectionIndexes builds the section index for every book, running
// Discover first if needed. Index builds share the books data singleton,
// so they run sequentially. One-shot.
func (v *Bible) MakeSectionIndexes() error {
	if v.sectioned {
		return cedarerrors.Wrap(cedarerrors.ErrAlreadyProcessed,
			"section indexes already built")
	}
	discovery, err := v.Discover()
	if err != nil {
		return err
	}
	for _, bbb := range v.order {
		if err := v.books[bbb].MakeSectionIndex(discovery[bbb].HasSectionHeadings); err != nil {
			return cedarerrors.Wrapf(err, "section index for %s", bbb)
		}
	}
	v.sectioned = true
	logging.BookEvent("", "section-indexes", len(v.order), "work", v.Name)
	return nil
}

// GetVerseText returns the clean text of one verse of one book.
func (v *Bible) GetVerseText(bbb string, key ref.Key) (string, error) {
	b, err := v.Book(bbb)
	if err != nil {
		return "", err
	}
	return b.GetVerseText(key)
}

// CriticalNotices collects the critical notices of every book in
// insertion order.
func (v *Bible) CriticalNotices() []book.Notice {
	var out []book.Notice
	for _, bbb := range v.order {
		out = append(out, v.books[bbb].Notices().Critical()...)
	}
	return out
}

// GetVersification aggregates per-book versification reports, keyed by
// book code. Books without anomalies contribute only their chapter list.
func (v *Bible) GetVersification() (map[string]*book.Versification, error) {
	out := make(map[string]*book.Versification, len(v.order))
	for _, bbb := range v.order {
		vs, err := v.books[bbb].GetVersification()
		if err != nil {
			return nil, cedarerrors.Wrapf(err, "versification for %s", bbb)
		}
		out[bbb] = vs
	}
	return out, nil
}

// CanonicalOrder reorders the registered books by reference number,
// leaving any code without one at the end in insertion order.
func (v *Bible) CanonicalOrder() {
	codes := books.LoadData()
	ordered := make([]string, len(v.order))
	copy(ordered, v.order)
	// Insertion sort: book counts are small and stability matters.
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0; j-- {
			a, errA := codes.ReferenceNumber(ordered[j-1])
			b, errB := codes.ReferenceNumber(ordered[j])
			if errA == nil && errB == nil && a > b {
				ordered[j-1], ordered[j] = ordered[j], ordered[j-1]
			} else {
				break
			}
		}
	}
	v.order = ordered
}
