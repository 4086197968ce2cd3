// Package book holds one Bible book's raw lines, turns them into the
// processed entry sequence, and owns the indexes built over it.
//
// A Book's lifecycle is strictly one-way: raw lines accumulate through
// AddLine and friends, ProcessLines runs exactly once, and from then on the
// entry list is read-only apart from SetCleanText. The chapter/verse index
// is built as part of processing; the section index is opt-in because it
// needs container-level discovery data.
package book

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/CedarBible/core/books"
	"github.com/FocuswithJustin/CedarBible/core/entry"
	cedarerrors "github.com/FocuswithJustin/CedarBible/core/errors"
	"github.com/FocuswithJustin/CedarBible/core/index"
	"github.com/FocuswithJustin/CedarBible/core/marker"
	"github.com/FocuswithJustin/CedarBible/core/ref"
	"github.com/FocuswithJustin/CedarBible/internal/logging"
)

// ProcessingConfig controls the strictness and fixup behavior of the
// processing pipeline.
type ProcessingConfig struct {
	// Strict makes invariant violations and leftover note markup fatal and
	// turns on the index self-checks.
	Strict bool
	// MaxNoncriticalNotices caps how many low-priority content notices are
	// retained per book; further ones are counted but dropped. Zero means
	// unlimited.
	MaxNoncriticalNotices int
	// ReplaceAngleBrackets rewrites << >> < > into curly quote marks.
	ReplaceAngleBrackets bool
	// ReplaceStraightQuotes rewrites straight double quotes into curly
	// quote marks using a positional rule table.
	ReplaceStraightQuotes bool
}

// DefaultConfig matches how bulk ingestion runs: tolerant, with fixups on.
func DefaultConfig() ProcessingConfig {
	return ProcessingConfig{
		ReplaceAngleBrackets:  true,
		ReplaceStraightQuotes: false,
	}
}

// RawLine is one (marker, text) pair as delivered by a format loader.
type RawLine struct {
	Marker string
	Text   string
}

// Book is one book of a work: raw lines before processing, the processed
// entry list and indexes after.
type Book struct {
	BBB      string
	WorkName string

	cfg       ProcessingConfig
	rawLines  []RawLine
	entries   entry.List
	processed bool

	notices *NoticeList

	cvIndex      *index.CVIndex
	sectionIndex *index.SectionIndex

	// one-time-per-book warning latches for quote fixups
	warnedAngleBrackets bool
	warnedDoubleQuotes  bool
}

// New creates an empty book for the given code and work.
func New(bbb, workName string, cfg ProcessingConfig) (*Book, error) {
	if !books.LoadData().IsValidBBB(bbb) {
		return nil, cedarerrors.NewValidation("bbb", "unknown book code "+bbb)
	}
	return &Book{
		BBB:      bbb,
		WorkName: workName,
		cfg:      cfg,
		notices:  NewNoticeList(bbb, cfg.MaxNoncriticalNotices),
	}, nil
}

// Notices returns the book's collected content-quality notices.
func (b *Book) Notices() *NoticeList { return b.notices }

// Len returns the number of processed entries, or raw lines before
// processing.
func (b *Book) Len() int {
	if b.processed {
		return len(b.entries)
	}
	return len(b.rawLines)
}

// Entries returns the processed entry list. It is nil before ProcessLines.
func (b *Book) Entries() entry.List { return b.entries }

// Processed reports whether ProcessLines has run.
func (b *Book) Processed() bool { return b.processed }

// RawLines returns the raw lines accumulated so far. It is nil after
// processing, which releases them.
func (b *Book) RawLines() []RawLine { return b.rawLines }

// CVIndex returns the chapter/verse index, nil before processing.
func (b *Book) CVIndex() *index.CVIndex { return b.cvIndex }

// SectionIndex returns the section index, nil until MakeSectionIndex runs.
func (b *Book) SectionIndex() *index.SectionIndex { return b.sectionIndex }

// AddLine appends one raw line. The marker must be known to the registry,
// the text must not contain line breaks, and the book must not have been
// processed yet.
func (b *Book) AddLine(m, text string) error {
	if b.processed {
		return cedarerrors.Wrap(cedarerrors.ErrAlreadyProcessed, "AddLine on "+b.BBB)
	}
	if !marker.IsValid(m) {
		logging.ProcessingError(b.BBB, "AddLine", cedarerrors.NewValidation("marker", "unknown marker "+m))
		return cedarerrors.NewValidation("marker", "unknown marker "+m)
	}
	if strings.ContainsAny(text, "\n\r") {
		return cedarerrors.NewValidation("text", "line break inside raw line for marker "+m)
	}
	b.rawLines = append(b.rawLines, RawLine{Marker: m, Text: text})
	return nil
}

// AppendToLastLine concatenates additional text onto the most recent raw
// line, inserting a single space where joining would glue two words (or
// text onto a bare verse number) together. A non-empty expectedLastMarker
// that does not match the actual last marker is reported; in strict mode it
// is an error.
func (b *Book) AppendToLastLine(additionalText, expectedLastMarker string) error {
	if b.processed {
		return cedarerrors.Wrap(cedarerrors.ErrAlreadyProcessed, "AppendToLastLine on "+b.BBB)
	}
	if len(b.rawLines) == 0 {
		return cedarerrors.NewValidation("rawLines", "AppendToLastLine with no lines in "+b.BBB)
	}
	if additionalText == "" {
		return cedarerrors.NewValidation("text", "AppendToLastLine with empty text")
	}
	last := &b.rawLines[len(b.rawLines)-1]
	if expectedLastMarker != "" && last.Marker != expectedLastMarker {
		b.notices.Add(67, "", "", fmt.Sprintf("Appending to %s line, expected %s", last.Marker, expectedLastMarker))
		if b.cfg.Strict {
			return cedarerrors.NewValidation("marker",
				fmt.Sprintf("last line is %s, expected %s", last.Marker, expectedLastMarker))
		}
	}
	if last.Text != "" && !strings.HasSuffix(last.Text, " ") && !strings.HasPrefix(additionalText, " ") {
		last.Text += " "
	}
	last.Text += additionalText
	return nil
}

// verseSegmentCleanups normalizes strings carrying embedded logical-newline
// placeholders before they get split into individual lines.
var verseSegmentCleanups = [][2]string{
	{`\NL*\NL*`, `\NL*`},                   // collapsed blank segments
	{`\p\NL*\p\NL*`, `\p\NL*`},             // redundant paragraph restart
	{`\sp\NL*\p\NL*`, `\p\NL*\sp\NL*`},     // speaker label belongs after the paragraph open
	{`\q1\NL*\q1\NL*`, `\q1\NL*`},          // doubled poetry line
}

// AddVerseSegments splits a verse string containing embedded `\NL*`
// logical-newline placeholders into individual AddLine calls: the verse
// number plus its first segment, then one line per `\marker rest` segment.
func (b *Book) AddVerseSegments(verseLabel, text, location string) error {
	if b.processed {
		return cedarerrors.Wrap(cedarerrors.ErrAlreadyProcessed, "AddVerseSegments on "+b.BBB)
	}
	for _, sub := range verseSegmentCleanups {
		text = strings.ReplaceAll(text, sub[0], sub[1])
	}
	segments := strings.Split(text, `\NL*`)

	first := strings.TrimSpace(segments[0])
	verseText := verseLabel
	if first != "" {
		verseText += " " + first
	}
	if err := b.AddLine("v", verseText); err != nil {
		return cedarerrors.Wrapf(err, "verse segments at %s", location)
	}
	for _, seg := range segments[1:] {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if !strings.HasPrefix(seg, `\`) {
			// A segment with no marker continues the previous line.
			if err := b.AppendToLastLine(seg, ""); err != nil {
				return cedarerrors.Wrapf(err, "verse segments at %s", location)
			}
			continue
		}
		m, rest := seg[1:], ""
		if sp := strings.IndexByte(m, ' '); sp >= 0 {
			m, rest = m[:sp], m[sp+1:]
		}
		if err := b.AddLine(m, rest); err != nil {
			return cedarerrors.Wrapf(err, "verse segments at %s", location)
		}
	}
	return nil
}

// SetCleanText replaces one processed entry's clean text, e.g. after an
// external normalization pass, before re-querying the indexes.
func (b *Book) SetCleanText(i int, text string) error {
	if !b.processed {
		return cedarerrors.Wrap(cedarerrors.ErrNotProcessed, "SetCleanText on "+b.BBB)
	}
	if i < 0 || i >= len(b.entries) {
		return cedarerrors.NewValidation("index", fmt.Sprintf("entry %d out of range", i))
	}
	b.entries[i].CleanText = text
	return nil
}

// GetField returns the adjusted text of the first entry carrying the given
// (standardized) marker, or an error if the book has no such field.
func (b *Book) GetField(fieldName string) (string, error) {
	if !b.processed {
		return "", cedarerrors.Wrap(cedarerrors.ErrNotProcessed, "GetField on "+b.BBB)
	}
	std := fieldName
	if s, ok := marker.ToStandard(fieldName); ok {
		std = s
	}
	for i := range b.entries {
		if b.entries[i].Marker == std {
			return b.entries[i].AdjustedText, nil
		}
	}
	return "", cedarerrors.NewNotFound("field", b.BBB+" "+fieldName)
}

// GetAssumedBookNames deduces the book's display names, best guess first:
// the running header, then the main title when the header looks unhelpful,
// then the English name as a last resort.
func (b *Book) GetAssumedBookNames() []string {
	var results []string

	header, err := b.GetField("h")
	if err == nil && header != "" {
		if header == strings.ToUpper(header) {
			header = titleCase(header)
		}
		results = append(results, header)
	}

	// Ignore the main title when there is an mt2 (e.g. mt1 "Corinthians"
	// under mt2 "First") unless the header already carries the number.
	headerNumbered := len(header) >= 4 && header[0] >= '0' && header[0] <= '9' && header[1] == ' '
	if _, err := b.GetField("mt2"); err == nil && !headerNumbered {
		if mt1, err := b.GetField("mt1"); err == nil && mt1 != "" {
			if mt1 == strings.ToUpper(mt1) {
				mt1 = titleCase(mt1)
			}
			if len(results) == 0 || results[0] != mt1 {
				results = append(results, mt1)
			}
		}
	} else if len(results) == 0 {
		if mt1, err := b.GetField("mt1"); err == nil && mt1 != "" {
			results = append(results, mt1)
		}
	}

	if len(results) == 0 {
		results = append(results, books.LoadData().EnglishName(b.BBB))
	}
	return results
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// GetVerseText returns the concatenated clean text of one verse, resolving
// bridges and suffixes through the non-strict index lookup.
func (b *Book) GetVerseText(key ref.Key) (string, error) {
	if b.cvIndex == nil {
		return "", cedarerrors.Wrap(cedarerrors.ErrNotProcessed, "GetVerseText on "+b.BBB)
	}
	entries, err := b.cvIndex.GetVerseEntries(key, false)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for i := range entries {
		m := entries[i].Marker
		if m != marker.VerseText && m != marker.ParaText && m != marker.ChapterText {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(entries[i].CleanText)
	}
	return sb.String(), nil
}

// MakeCVIndex builds the chapter/verse index. ProcessLines calls it; a
// second call is refused.
func (b *Book) MakeCVIndex() error {
	if !b.processed {
		return cedarerrors.Wrap(cedarerrors.ErrNotProcessed, "MakeCVIndex on "+b.BBB)
	}
	if b.cvIndex != nil {
		return cedarerrors.Wrap(cedarerrors.ErrAlreadyProcessed, "CV index already built for "+b.BBB)
	}
	idx, err := index.BuildCVIndex(b.BBB, b.WorkName, b.entries, b.cfg.Strict)
	if err != nil {
		return err
	}
	b.cvIndex = idx
	return nil
}

// MakeSectionIndex builds the section index. It is opt-in because the
// hasSectionHeadings flag comes from work-level discovery. A second call is
// refused.
func (b *Book) MakeSectionIndex(hasSectionHeadings bool) error {
	if !b.processed {
		return cedarerrors.Wrap(cedarerrors.ErrNotProcessed, "MakeSectionIndex on "+b.BBB)
	}
	if b.sectionIndex != nil {
		return cedarerrors.Wrap(cedarerrors.ErrAlreadyProcessed, "section index already built for "+b.BBB)
	}
	idx, err := index.BuildSectionIndex(b.BBB, b.WorkName, b.entries,
		hasSectionHeadings, b.GetAssumedBookNames()[0], b.cfg.Strict)
	if err != nil {
		return err
	}
	b.sectionIndex = idx
	return nil
}
