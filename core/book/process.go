package book

import (
	"strings"

	"github.com/FocuswithJustin/CedarBible/core/books"
	"github.com/FocuswithJustin/CedarBible/core/entry"
	cedarerrors "github.com/FocuswithJustin/CedarBible/core/errors"
	"github.com/FocuswithJustin/CedarBible/core/marker"
	"github.com/FocuswithJustin/CedarBible/internal/logging"
)

// ProcessLines converts the raw lines into the processed entry sequence:
// markers standardized, chapter and verse lines split, notes extracted,
// nesting markers inserted, verse starts annotated, and the chapter/verse
// index built. It runs exactly once; the raw lines are released afterwards.
func (b *Book) ProcessLines() error {
	if b.processed {
		return cedarerrors.Wrap(cedarerrors.ErrAlreadyProcessed, "ProcessLines on "+b.BBB)
	}
	if len(b.rawLines) == 0 {
		return cedarerrors.NewValidation("rawLines", "no lines to process in "+b.BBB)
	}

	p := &lineProcessor{book: b, c: "0", v: "0"}
	for _, raw := range b.rawLines {
		p.line(raw.Marker, raw.Text)
	}

	entries := insertNestingMarkers(b.BBB, p.out, b.notices)
	entries = annotateVerseStarts(entries)

	b.entries = entries
	b.rawLines = nil
	b.processed = true
	logging.BookEvent(b.BBB, "processed", len(entries), "notices", b.notices.Len())

	return b.MakeCVIndex()
}

// lineProcessor carries the per-line pass state: current chapter and verse,
// whether a chapter marker has been seen, and the pending chapter display
// label for the next c# insertion.
type lineProcessor struct {
	book *Book
	out  entry.List

	c, v        string
	seenChapter bool

	// chapterLabel is a cl seen before any chapter: it prefixes every
	// chapter's display number. pendingDisplay is the display text for the
	// next c# entry, emitted just before the chapter's first verse.
	chapterLabel   string
	pendingDisplay string
}

func (p *lineProcessor) line(m, text string) {
	b := p.book

	std, known := marker.ToStandard(m)
	if !known {
		b.notices.Add(85, p.c, p.v, "Unknown marker "+m)
	}

	switch std {
	case "c":
		p.chapter(m, text)
		return
	case "cl":
		if !p.seenChapter {
			// A chapter label before chapter one names every chapter.
			p.chapterLabel = text
			p.emitSegments(marker.ChapterLabelPre, m, text)
			return
		}
		p.pendingDisplay = text
	case "cp":
		p.pendingDisplay = text
	case "v":
		p.verse(m, text)
		return
	}

	p.emitSegments(std, m, text)
}

// chapter handles a c line: the chapter number becomes the entry text, any
// trailing text is carried over into a synthesized chapter-text entry.
func (p *lineProcessor) chapter(m, text string) {
	b := p.book

	num, rest := text, ""
	if sp := strings.IndexByte(text, ' '); sp >= 0 {
		num, rest = text[:sp], strings.TrimLeft(text[sp+1:], " ")
	}
	if num == "" {
		b.notices.Add(81, p.c, p.v, "Chapter marker without chapter number")
	} else if !allDigits(num) {
		b.notices.Add(82, num, "", "Chapter number "+num+" is not a plain number")
	}

	p.c, p.v = num, "0"
	p.seenChapter = true
	p.out = append(p.out, entry.Entry{
		Marker:         "c",
		OriginalMarker: m,
		AdjustedText:   num,
		CleanText:      num,
		OriginalText:   text,
	})

	p.pendingDisplay = num
	if p.chapterLabel != "" {
		p.pendingDisplay = p.chapterLabel + " " + num
	}

	if rest != "" {
		b.notices.Add(28, p.c, p.v, "Removed extra text after chapter number")
		p.emitSegments(marker.ChapterText, "", rest)
	}
}

// verse handles a v line: the verse number becomes its own entry and the
// remaining text continues as synthesized verse text. Books without any c
// line get chapter one inserted on the first verse.
func (p *lineProcessor) verse(m, text string) {
	b := p.book

	if !p.seenChapter {
		b.notices.Add(68, "1", "", "Inserted chapter marker before first verse")
		p.insertChapterOne()
	}

	// Exactly one separator space is consumed; any further leading
	// spaces belong to the verse text.
	verseBit, rest := text, ""
	if sp := strings.IndexByte(text, ' '); sp >= 0 {
		verseBit, rest = text[:sp], text[sp+1:]
	}
	if verseBit == "" {
		b.notices.Add(86, p.c, p.v, "Verse marker without verse number")
	}
	p.v = verseBit

	if p.pendingDisplay != "" {
		if !singleChapterBook(b.BBB) {
			p.emit(marker.ChapterDisplay, "", p.pendingDisplay)
		}
		p.pendingDisplay = ""
	}

	adjText, cleanText, extras := b.fixLine(p.c, p.v, m, verseBit)
	for _, x := range extras {
		if x.Type == entry.VersePrint {
			p.emit(marker.VersePrint, "", x.CleanText)
		}
	}
	p.out = append(p.out, entry.Entry{
		Marker:         "v",
		OriginalMarker: m,
		AdjustedText:   adjText,
		CleanText:      cleanText,
		Extras:         extras,
		OriginalText:   text,
	})

	if rest == "" {
		return
	}
	p.emitSegments(marker.VerseText, "", rest)
}

// insertChapterOne splices a synthesized chapter-one entry, placed before a
// directly preceding paragraph-type entry so the chapter opens the
// paragraph rather than interrupting it.
func (p *lineProcessor) insertChapterOne() {
	c1 := entry.Entry{Marker: "c", AdjustedText: "1", CleanText: "1", OriginalText: "1"}
	at := len(p.out)
	if at > 0 && marker.IsParagraph(p.out[at-1].Marker) {
		at--
	}
	p.out = append(p.out, entry.Entry{})
	copy(p.out[at+1:], p.out[at:])
	p.out[at] = c1

	p.c, p.v = "1", "0"
	p.seenChapter = true
	p.pendingDisplay = "1"
	if p.chapterLabel != "" {
		p.pendingDisplay = p.chapterLabel + " 1"
	}
}

// emitSegments splits text on embedded newline markers and emits one entry
// per segment. The first segment keeps the given marker; later segments
// take the embedded marker found in the text.
func (p *lineProcessor) emitSegments(std, orig, text string) {
	b := p.book
	segments := splitEmbeddedMarkers(std, text)
	if len(segments) > 1 {
		b.notices.Add(96, p.c, p.v, "Newline marker found within "+std+" line")
	}
	for i, seg := range segments {
		segMarker := seg.Marker
		segOrig := orig
		if i > 0 {
			if s, ok := marker.ToStandard(segMarker); ok {
				segMarker = s
			}
			segOrig = seg.Marker
		}
		p.emitOne(segMarker, segOrig, seg.Text)
	}
}

// emitOne runs the note extractor over one segment and appends the entry,
// dropping verse-text segments left completely empty. A paragraph-type
// marker carrying text splits into the bare marker plus a paragraph-text
// entry, keeping all Bible text in v~/p~ entries.
func (p *lineProcessor) emitOne(std, orig, text string) {
	b := p.book
	if marker.IsParagraph(std) && text != "" {
		p.out = append(p.out, entry.Entry{Marker: std, OriginalMarker: orig})
		p.emitOne(marker.ParaText, "", text)
		return
	}
	adjText, cleanText, extras := b.fixLine(p.c, p.v, std, text)
	for _, x := range extras {
		if x.Type == entry.VersePrint {
			p.spliceVersePrint(x.CleanText)
		}
	}

	if cleanText == "" && len(extras) == 0 {
		switch {
		case std == marker.VerseText || std == marker.ParaText:
			b.notices.Add(54, p.c, p.v, "Dropped completely empty verse text segment")
			return
		case marker.Content(std) == marker.ContentAlways:
			b.notices.Add(57, p.c, p.v, "Marker "+std+" should have text")
		}
	}
	if marker.Content(std) == marker.ContentNever && cleanText != "" {
		b.notices.Add(83, p.c, p.v, "Marker "+std+" should not carry text")
	}

	p.out = append(p.out, entry.Entry{
		Marker:         std,
		OriginalMarker: orig,
		AdjustedText:   adjText,
		CleanText:      cleanText,
		Extras:         extras,
		OriginalText:   text,
	})
}

// spliceVersePrint inserts a vp# entry immediately before the most recent
// verse entry, which the published verse number overrides.
func (p *lineProcessor) spliceVersePrint(text string) {
	vp := entry.Entry{Marker: marker.VersePrint, AdjustedText: text, CleanText: text, OriginalText: text}
	for k := len(p.out) - 1; k >= 0; k-- {
		if p.out[k].Marker != "v" {
			continue
		}
		p.out = append(p.out, entry.Entry{})
		copy(p.out[k+1:], p.out[k:])
		p.out[k] = vp
		return
	}
	p.out = append(p.out, vp)
}

// emit appends a synthesized entry whose three text fields coincide.
func (p *lineProcessor) emit(m, orig, text string) {
	p.out = append(p.out, entry.Entry{
		Marker:         m,
		OriginalMarker: orig,
		AdjustedText:   text,
		CleanText:      text,
		OriginalText:   text,
	})
}

// splitEmbeddedMarkers cuts text at every embedded newline-class marker
// token. The result always has at least one segment; the first carries the
// incoming marker.
func splitEmbeddedMarkers(m, text string) []RawLine {
	segments := []RawLine{{Marker: m}}
	start := 0
	i := 0
	for i < len(text) {
		if text[i] != '\\' {
			i++
			continue
		}
		j := i + 1
		for j < len(text) && isLowerAlnum(text[j]) {
			j++
		}
		token := text[i+1 : j]
		atEnd := j >= len(text)
		if token == "" || (!atEnd && text[j] != ' ') || !marker.IsNewline(token) {
			i = j
			continue
		}
		segments[len(segments)-1].Text = strings.TrimRight(text[start:i], " ")
		rest := ""
		if !atEnd {
			rest = text[j+1:]
		}
		segments = append(segments, RawLine{Marker: token})
		text = rest
		start, i = 0, 0
	}
	segments[len(segments)-1].Text = strings.TrimRight(text[start:], " ")
	return segments
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func singleChapterBook(bbb string) bool {
	return books.LoadData().IsSingleChapterBook(bbb)
}
