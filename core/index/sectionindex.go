package index

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/CedarBible/core/books"
	"github.com/FocuswithJustin/CedarBible/core/entry"
	cedarerrors "github.com/FocuswithJustin/CedarBible/core/errors"
	"github.com/FocuswithJustin/CedarBible/core/marker"
	"github.com/FocuswithJustin/CedarBible/core/ref"
	"github.com/FocuswithJustin/CedarBible/internal/logging"
)

// SectionEntry is one immutable section index record: the inclusive
// chapter/verse and entry-offset span of a titled section, the marker that
// triggered the boundary, and the section's display name.
type SectionEntry struct {
	startC, startV string
	endC, endV     string
	startIx, endIx int
	reasonMarker   string
	sectionName    string
	context        []string
}

// StartKey returns the (chapter, verse) where the section starts.
func (e SectionEntry) StartKey() ref.Key { return ref.Key{C: e.startC, V: e.startV} }

// EndKey returns the (chapter, verse) where the section ends, inclusive.
func (e SectionEntry) EndKey() ref.Key { return ref.Key{C: e.endC, V: e.endV} }

// StartIndex returns the offset of the section's first entry.
func (e SectionEntry) StartIndex() int { return e.startIx }

// EndIndex returns the offset of the section's last entry, inclusive.
func (e SectionEntry) EndIndex() int { return e.endIx }

// ReasonMarker returns the marker that opened the section, e.g. "s1" or
// "c", or a combined form like "c/s1" for merged boundaries.
func (e SectionEntry) ReasonMarker() string { return e.reasonMarker }

// SectionName returns the section's human-readable title.
func (e SectionEntry) SectionName() string { return e.sectionName }

// NumLines returns the number of entries the section spans.
func (e SectionEntry) NumLines() int { return e.endIx - e.startIx + 1 }

// Context returns a copy of the open-marker stack at the section's start.
func (e SectionEntry) Context() []string {
	out := make([]string, len(e.context))
	copy(out, e.context)
	return out
}

func (e SectionEntry) String() string {
	return fmt.Sprintf("SectionEntry(%s:%s-%s:%s ix=%d-%d %s=%q)",
		e.startC, e.startV, e.endC, e.endV, e.startIx, e.endIx, e.reasonMarker, e.sectionName)
}

// withEndV returns a copy whose end verse label is replaced. Used when a
// later section boundary splits a verse, never to mutate in place.
func (e SectionEntry) withEndV(v string) SectionEntry {
	e.endV = v
	return e
}

// SectionIndex is the titled-section index over one book's processed
// entries, keyed by where each section starts.
type SectionIndex struct {
	bbb      string
	workName string
	entries  entry.List
	keys     []ref.Key
	data     map[ref.Key]SectionEntry
}

// proverbsChapterSections lists the Proverbs chapters that are collections
// of independent sayings. They become chapter-level sections even when the
// book has real headings, so sections do not span unhelpfully large ranges.
var proverbsChapterSections = map[string]bool{
	"11": true, "12": true, "13": true, "14": true, "15": true,
	"16": true, "17": true, "18": true, "19": true, "20": true,
	"21": true, "22": true, "26": true, "27": true, "28": true, "29": true,
}

// BuildSectionIndex walks the processed entries and builds the section
// index. hasSectionHeadings comes from container-level discovery; books
// without chapters get an empty index.
func BuildSectionIndex(bbb, workName string, entries entry.List,
	hasSectionHeadings bool, bookTitle string, strict bool) (*SectionIndex, error) {

	idx := &SectionIndex{
		bbb:      bbb,
		workName: workName,
		entries:  entries,
		data:     make(map[ref.Key]SectionEntry),
	}
	if books.LoadData().IsNonChapterBook(bbb) || len(entries) == 0 {
		return idx, nil
	}

	needToSaveByChapter := !hasSectionHeadings || !books.LoadData().ContinuesThroughChapters(bbb)
	idx.build(needToSaveByChapter, bookTitle)
	idx.fillContexts()
	logging.BookEvent(bbb, "section-index", len(idx.keys))
	if strict {
		if err := idx.Check(); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

func (x *SectionIndex) build(needToSaveByChapter bool, bookTitle string) {
	lastC, lastV := "-1", ""
	strC, strV := "-1", "-1"
	startC, startV := "-1", "0"
	lastReason, lastName := "Intro", x.bbb
	savedJ := 0

	var j int
	for j = range x.entries {
		m, text := x.entries[j].Marker, x.entries[j].CleanText

		switch {
		case m == "c":
			if strC == "-1" {
				// The first chapter closes out the introduction section.
				if j-1 >= savedJ {
					x.save(startC, startV, strC, strV, savedJ, j-1, lastReason, lastName)
				}
				savedJ = j
				startC, startV = text, "0"
				lastReason, lastName = m, ""
			}
			strC, strV = text, "0"
			if needToSaveByChapter || (x.bbb == "PRO" && proverbsChapterSections[text]) {
				if lastName != "" {
					x.save(startC, startV, lastC, lastV, savedJ, j-1, lastReason, lastName)
					lastReason = m
				}
				savedJ = j
				startC, startV = strC, strV
				lastReason, lastName = m, bookTitle+" "+strC
			}
		case m == "v" || m == marker.VerseStart:
			// The verse-start annotation comes before any heading at the
			// same position, so strV is current when a heading arrives.
			strV = text
		case strC == "-1":
			// Still in the introduction: track the line number as the
			// running "verse" position.
			lastV = strV
			strV = strconv.Itoa(j)
		}

		switch {
		case m == "s1" || m == "ms1" || m == "is1":
			endC, endV := lastC, lastV
			if lastName != "" {
				if j-1 == savedJ || chapterNum(endC) < chapterNum(startC) {
					// Degenerate previous section: collapse its end onto
					// its own start.
					endC, endV = startC, startV
				}
				x.save(startC, startV, endC, endV, savedJ, j-1, lastReason, lastName)
			}
			savedJ = j
			startC = strC
			if strC == "-1" {
				startV = strconv.Itoa(j)
			} else {
				startV = strV
			}
			lastReason, lastName = m, text
		case m == marker.VerseText || m == marker.ParaText:
			if lastName == "" {
				lastName = bookTitle + " " + strC
			}
		}

		if m == "v" {
			lastC, lastV = strC, strV
		}
	}
	x.save(startC, startV, strC, strV, savedJ, j, lastReason, lastName)
}

// save closes out a pending section and records it, applying the bridge
// truncation, short-entry merge, mid-verse split, and collision rules.
// Both index positions are inclusive.
func (x *SectionIndex) save(startC, startV, endC, endV string, startIx, endIx int, reason, name string) {
	// A bridged start keeps its first number, a bridged end its second.
	if i := strings.IndexByte(startV, '-'); i >= 0 {
		startV = startV[:i]
	}
	if i := strings.IndexByte(endV, '-'); i >= 0 {
		endV = endV[i+1:]
	}

	// No verse-start annotation precedes a major section heading, so the
	// tracked verse is still the previous one.
	if reason == "ms1" && startC == endC {
		startV = strconv.Itoa(verseNum(startV) + 1)
		if verseNum(endV) < verseNum(startV) {
			endV = startV
		}
	}

	if reason != "c" && endV == "0" {
		logging.InvariantViolation(x.bbb, "section-index-span",
			"section ends at chapter introduction", "reason", reason)
	}
	if chapterNum(endC) < chapterNum(startC) ||
		(endC == startC && verseNum(endV) < verseNum(startV)) {
		logging.InvariantViolation(x.bbb, "section-index-span",
			"section span goes backwards",
			"start", startC+":"+startV, "end", endC+":"+endV)
	}

	// A very short chapter or major-heading section right before a real
	// heading merges forward into it.
	if n := len(x.keys); n > 0 {
		lastKey := x.keys[n-1]
		last := x.data[lastKey]
		if last.NumLines() < 4 && reason == "s1" &&
			(last.reasonMarker == "c" || last.reasonMarker == "ms1") {
			startV, startIx = last.startV, last.startIx
			reason = last.reasonMarker + "/" + reason
			name = last.sectionName + "/" + name
			delete(x.data, lastKey)
			x.keys = x.keys[:n-1]
		}
	}

	// startV was the verse current when the boundary marker appeared; if
	// the span opens with its own verse number, or opens mid-verse, the
	// start label needs adjusting.
	for i := startIx; i < endIx && i < len(x.entries); i++ {
		m, text := x.entries[i].Marker, x.entries[i].CleanText
		if m == "v" {
			if text != startV && !strings.Contains(text, "-") {
				startV = text
			}
			break
		}
		if m == marker.VerseText || m == marker.ParaText {
			// The boundary landed between a verse number and its text:
			// split the verse, ending the previous section at "a" and
			// starting this one at "b".
			if n := len(x.keys); n > 0 {
				lastKey := x.keys[n-1]
				last := x.data[lastKey]
				if last.endC == startC && last.endV == startV {
					x.data[lastKey] = last.withEndV(last.endV + "a")
				} else {
					logging.InvariantViolation(x.bbb, "section-index-split",
						"mid-verse split does not align with previous section end",
						"at", startC+":"+startV)
				}
			}
			startV += "b"
			break
		}
	}

	// An exact collision with the previous section's end gets an "a"
	// suffix to keep the keys distinct and ordered.
	if n := len(x.keys); n > 0 {
		last := x.data[x.keys[n-1]]
		if startC == last.endC && startV == last.endV && isDigits(startV) {
			startV += "a"
		}
	}

	key := ref.Key{C: startC, V: startV}
	if _, dup := x.data[key]; dup {
		logging.Warn("rewriting section index entry",
			"book", x.bbb, "work", x.workName, "key", key.String())
	} else {
		x.keys = append(x.keys, key)
	}
	x.data[key] = SectionEntry{
		startC: startC, startV: startV,
		endC: endC, endV: endV,
		startIx: startIx, endIx: endIx,
		reasonMarker: reason, sectionName: name,
	}
}

// fillContexts replays the open/close markers across the entries in
// document order, snapshotting the stack at each section start. Entries
// between sections (a chapter line absorbed by neither) still advance the
// stack.
func (x *SectionIndex) fillContexts() {
	var context []string
	pos := 0
	for _, key := range x.keys {
		e := x.data[key]
		if e.startIx > pos {
			context = replayContext(x.bbb, key, x.entries[pos:e.startIx], context)
			pos = e.startIx
		}
		snapshot := make([]string, len(context))
		copy(snapshot, context)
		e.context = snapshot
		x.data[key] = e
		end := e.endIx + 1
		if end > len(x.entries) {
			end = len(x.entries)
		}
		if end > pos {
			context = replayContext(x.bbb, key, x.entries[pos:end], context)
			pos = end
		}
	}
}

// Len returns the number of sections.
func (x *SectionIndex) Len() int { return len(x.keys) }

// Contains reports whether a section starts at the exact key.
func (x *SectionIndex) Contains(key ref.Key) bool {
	_, ok := x.data[key]
	return ok
}

// Keys returns the section start keys in document order.
func (x *SectionIndex) Keys() []ref.Key {
	out := make([]ref.Key, len(x.keys))
	copy(out, x.keys)
	return out
}

// LookupExact returns the section record starting at the exact key.
func (x *SectionIndex) LookupExact(key ref.Key) (SectionEntry, bool) {
	e, ok := x.data[key]
	return e, ok
}

// GetSectionEntries returns the processed entries of the section starting
// at the key.
func (x *SectionIndex) GetSectionEntries(key ref.Key) (entry.List, error) {
	e, ok := x.data[key]
	if !ok {
		return nil, cedarerrors.NewNotFound("section", x.bbb+" "+key.String())
	}
	return x.entries[e.startIx : e.endIx+1], nil
}

// GetSectionEntriesWithContext returns the section's entries plus the
// open-marker context at its start.
func (x *SectionIndex) GetSectionEntriesWithContext(key ref.Key) (entry.List, []string, error) {
	e, ok := x.data[key]
	if !ok {
		return nil, nil, cedarerrors.NewNotFound("section", x.bbb+" "+key.String())
	}
	return x.entries[e.startIx : e.endIx+1], e.Context(), nil
}

// Check runs the internal consistency checks over the built section index.
func (x *SectionIndex) Check() error {
	for i, key := range x.keys {
		e := x.data[key]
		if e.endIx < e.startIx {
			return cedarerrors.NewInvariant(x.bbb, "section-index-span",
				"section "+key.String()+" has negative length")
		}
		if key.C != "-1" && !isDigits(key.C) {
			return cedarerrors.NewInvariant(x.bbb, "section-index-keys",
				"non-numeric chapter key "+key.String())
		}
		if ref.DigitPrefix(key.V) == "" {
			return cedarerrors.NewInvariant(x.bbb, "section-index-keys",
				"non-numeric verse key "+key.String())
		}
		if chapterNum(e.endC) < chapterNum(e.startC) ||
			(e.endC == e.startC && verseNum(e.endV) < verseNum(e.startV)) {
			return cedarerrors.NewInvariant(x.bbb, "section-index-span",
				"section "+key.String()+" spans backwards to "+e.endC+":"+e.endV)
		}
		if i > 0 {
			prev := x.data[x.keys[i-1]]
			if prev.endIx > e.startIx {
				return cedarerrors.NewInvariant(x.bbb, "section-index-span",
					"section "+key.String()+" overlaps the previous section")
			}
		}
	}
	return nil
}

// chapterNum parses a chapter label, treating the introduction as -1 and
// anything unparseable as 0.
func chapterNum(c string) int {
	n, err := strconv.Atoi(c)
	if err != nil {
		return 0
	}
	return n
}

// verseNum parses the leading number of a verse label, ignoring any letter
// suffix.
func verseNum(v string) int {
	n, err := strconv.Atoi(ref.DigitPrefix(v))
	if err != nil {
		return 0
	}
	return n
}
