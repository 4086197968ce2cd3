// Package index builds the chapter/verse and section lookup indexes over a
// book's processed entry sequence.
//
// A CVIndex maps (chapter, verse) keys to contiguous spans of the processed
// entries, where chapter "-1" holds the book introduction (each line its own
// auto-numbered "verse") and verse "0" holds each chapter's introduction.
// A SectionIndex is a coarser structure keyed by where each titled section
// starts. Both are built once, after processing, and are read-only afterwards.
package index

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/CedarBible/core/entry"
	cedarerrors "github.com/FocuswithJustin/CedarBible/core/errors"
	"github.com/FocuswithJustin/CedarBible/core/marker"
	"github.com/FocuswithJustin/CedarBible/core/ref"
	"github.com/FocuswithJustin/CedarBible/internal/logging"
)

// CVEntry is one immutable chapter/verse index record: a span of entries
// plus a snapshot of the marker context open at the start of the span.
type CVEntry struct {
	entryIndex int
	entryCount int
	context    []string
}

// EntryIndex returns the offset of the first entry in the span.
func (e CVEntry) EntryIndex() int { return e.entryIndex }

// EntryCount returns the number of entries in the span.
func (e CVEntry) EntryCount() int { return e.entryCount }

// NextEntryIndex returns the offset just past the end of the span.
func (e CVEntry) NextEntryIndex() int { return e.entryIndex + e.entryCount }

// Context returns a copy of the open-marker stack at the start of the span,
// e.g. ["chapters", "c", "s1", "p"] for a typical verse.
func (e CVEntry) Context() []string {
	out := make([]string, len(e.context))
	copy(out, e.context)
	return out
}

func (e CVEntry) String() string {
	return fmt.Sprintf("CVEntry(ix=%d, count=%d, context=%v)", e.entryIndex, e.entryCount, e.context)
}

// merge combines a duplicate span into this one, keeping the original offset
// and summing the counts. Both records stay immutable; a new one is returned.
func (e CVEntry) merge(other CVEntry) CVEntry {
	return CVEntry{entryIndex: e.entryIndex, entryCount: e.entryCount + other.entryCount, context: e.context}
}

// CVIndex is the chapter/verse index over one book's processed entries.
// Keys iterate in insertion order, which is document order.
type CVIndex struct {
	bbb      string
	workName string
	entries  entry.List
	keys     []ref.Key
	data     map[ref.Key]CVEntry
}

// BuildCVIndex walks the processed entries and builds the chapter/verse
// index. When strict is set the self-check runs after the build and its
// first hard failure is returned as an error.
func BuildCVIndex(bbb, workName string, entries entry.List, strict bool) (*CVIndex, error) {
	idx := &CVIndex{
		bbb:      bbb,
		workName: workName,
		entries:  entries,
		data:     make(map[ref.Key]CVEntry),
	}
	idx.build()
	logging.BookEvent(bbb, "cv-index", len(idx.keys))
	if strict {
		if err := idx.Check(); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// span is the mutable first-pass accumulator; it becomes an immutable
// CVEntry once the context pass has run.
type span struct {
	start int
	count int
}

func (x *CVIndex) build() {
	spans := make(map[ref.Key]span)

	var (
		pending    *ref.Key
		pendingIx  int
		lineCount  int
		duplicates []ref.Key
	)
	strC, strV := "-1", "0"

	flush := func() {
		if pending == nil {
			return
		}
		key := *pending
		if prev, ok := spans[key]; ok {
			// A key written twice is merged, keeping the first offset.
			// The spans must be adjacent or text between them is lost.
			if prev.start+prev.count != pendingIx {
				logging.InvariantViolation(x.bbb, "cv-index-merge",
					"non-adjacent duplicate spans for "+key.String(),
					"first_end", prev.start+prev.count, "second_start", pendingIx)
			}
			spans[key] = span{start: prev.start, count: prev.count + lineCount}
			duplicates = append(duplicates, key)
		} else {
			spans[key] = span{start: pendingIx, count: lineCount}
			x.keys = append(x.keys, key)
		}
		pending = nil
		lineCount = 0
	}

	for j := range x.entries {
		m := x.entries[j].Marker
		switch {
		case m == "c":
			// A chapter always starts a clean new index entry. Anything
			// before the first verse number files under verse "0".
			flush()
			strC, strV = x.entries[j].CleanText, "0"
			key := ref.Key{C: strC, V: strV}
			pending, pendingIx = &key, j
			lineCount++

		case m == "v":
			if strC == "-1" {
				logging.InvariantViolation(x.bbb, "cv-index-order",
					"verse marker before any chapter marker", "offset", j)
				lineCount++
				continue
			}
			// Pull back structural lines that precede the verse number:
			// a heading or paragraph open right before a verse belongs
			// to that verse's presentation, not the previous verse.
			revertTo := j
			for revertTo >= 1 && lineCount > 0 {
				prev := x.entries[revertTo-1].Marker
				if prev == "c" || prev == "v" || prev == marker.VerseText || prev == marker.ParaText || marker.IsClose(prev) {
					break
				}
				revertTo--
				lineCount--
			}
			flush()
			// Bridged ranges, comma lists, and lettered sub-verses stay
			// verbatim as keys; fuzzy lookup resolves them later.
			strV = x.entries[j].CleanText
			key := ref.Key{C: strC, V: strV}
			pending, pendingIx = &key, revertTo
			lineCount = (j - revertTo) + 1

		case strC == "-1":
			// Still in the book introduction: every line is its own
			// "verse" entry, numbered from 0.
			key := ref.Key{C: strC, V: strV}
			spans[key] = span{start: j, count: 1}
			x.keys = append(x.keys, key)
			strV = incr(strV)

		default:
			lineCount++
		}
	}
	flush()

	if len(duplicates) > 0 {
		labels := make([]string, len(duplicates))
		for i, k := range duplicates {
			labels[i] = k.String()
		}
		logging.Warn("combined duplicate index entries",
			"book", x.bbb, "work", x.workName, "keys", strings.Join(labels, " "))
	}

	// Second pass: replay open/close markers across the spans in document
	// order so each entry gets a snapshot of the context open at its start.
	var context []string
	for _, key := range x.keys {
		sp := spans[key]
		snapshot := make([]string, len(context))
		copy(snapshot, context)
		x.data[key] = CVEntry{entryIndex: sp.start, entryCount: sp.count, context: snapshot}
		context = replayContext(x.bbb, key, x.entries[sp.start:sp.start+sp.count], context)
	}
	if len(context) != 0 {
		logging.InvariantViolation(x.bbb, "cv-index-context",
			"context stack not empty at end of book", "open", strings.Join(context, " "))
	}
}

// replayContext pushes nesting markers and pops their close markers,
// returning the updated stack. The verse close marker is skipped because
// verse spans are what the stack describes.
func replayContext(bbb string, key ref.Key, entries entry.List, context []string) []string {
	for i := range entries {
		m := entries[i].Marker
		if marker.IsClose(m) && m != marker.Close("v") {
			opened := marker.Opened(m)
			removed := false
			for k, cm := range context {
				// Remove the first open occurrence: s1 can stay open
				// across a chapter boundary.
				if cm == opened {
					context = append(context[:k], context[k+1:]...)
					removed = true
					break
				}
			}
			if !removed {
				logging.InvariantViolation(bbb, "index-nesting",
					"close marker without matching open around "+key.String(), "marker", m)
			}
		}
		if m != "v" && marker.IsNesting(m) {
			context = append(context, m)
		}
	}
	return context
}

func incr(v string) string {
	n := 0
	for _, c := range v {
		if c < '0' || c > '9' {
			return v
		}
		n = n*10 + int(c-'0')
	}
	return fmt.Sprintf("%d", n+1)
}

// Len returns the number of index keys.
func (x *CVIndex) Len() int { return len(x.keys) }

// Contains reports whether the exact key exists.
func (x *CVIndex) Contains(key ref.Key) bool {
	_, ok := x.data[key]
	return ok
}

// Keys returns the index keys in insertion (document) order.
func (x *CVIndex) Keys() []ref.Key {
	out := make([]ref.Key, len(x.keys))
	copy(out, x.keys)
	return out
}

// LookupExact returns the index record for the exact key, if present.
func (x *CVIndex) LookupExact(key ref.Key) (CVEntry, bool) {
	e, ok := x.data[key]
	return e, ok
}

// LookupWithFallback tries the exact key, then the key with any letter
// suffix stripped, then any bridged or listed key in the same chapter
// covering the requested verse number.
func (x *CVIndex) LookupWithFallback(key ref.Key) (CVEntry, error) {
	if e, ok := x.data[key]; ok {
		return e, nil
	}
	if stripped := ref.DigitPrefix(key.V); stripped != key.V && stripped != "" {
		if e, ok := x.data[ref.Key{C: key.C, V: stripped}]; ok {
			return e, nil
		}
	}
	if covered, ok := x.coveringKey(key); ok {
		return x.data[covered], nil
	}
	return CVEntry{}, cedarerrors.NewNotFound("verse", x.bbb+" "+key.String())
}

// coveringKey scans the chapter for a range or list key whose span covers
// the requested verse number.
func (x *CVIndex) coveringKey(key ref.Key) (ref.Key, bool) {
	want, err := ref.ParseVerse(ref.DigitPrefix(key.V))
	if err != nil {
		return ref.Key{}, false
	}
	n := want.First()
	for _, k := range x.keys {
		if k.C != key.C || k.V == key.V {
			continue
		}
		spanLabel, err := ref.ParseVerse(k.V)
		if err != nil {
			continue
		}
		if spanLabel.Covers(n) {
			return k, true
		}
	}
	return ref.Key{}, false
}

// GetVerseEntries returns the processed entries for one verse. With strict
// set only an exact key matches; otherwise bridged entries covering the
// requested verse are found too.
func (x *CVIndex) GetVerseEntries(key ref.Key, strict bool) (entry.List, error) {
	e, err := x.lookup(key, strict)
	if err != nil {
		return nil, err
	}
	return x.entries[e.EntryIndex():e.NextEntryIndex()], nil
}

// GetVerseEntriesWithContext returns the entries for one verse along with
// the open-marker context at the start of its span. When complete is set,
// every key in the chapter whose range, list, or suffixed label covers the
// requested verse number contributes its entries, concatenated in document
// order; the context comes from the first match.
func (x *CVIndex) GetVerseEntriesWithContext(key ref.Key, strict, complete bool) (entry.List, []string, error) {
	if !complete {
		e, err := x.lookup(key, strict)
		if err != nil {
			return nil, nil, err
		}
		return x.entries[e.EntryIndex():e.NextEntryIndex()], e.Context(), nil
	}

	want, perr := ref.ParseVerse(ref.DigitPrefix(key.V))
	var out entry.List
	var context []string
	for _, k := range x.keys {
		if k.C != key.C {
			continue
		}
		match := k.V == key.V
		if !match && perr == nil {
			if kSpan, err := ref.ParseVerse(k.V); err == nil && kSpan.Covers(want.First()) {
				match = true
			}
		}
		if !match {
			continue
		}
		e := x.data[k]
		if out == nil {
			context = e.Context()
		}
		out = append(out, x.entries[e.EntryIndex():e.NextEntryIndex()]...)
	}
	if out == nil {
		return nil, nil, cedarerrors.NewNotFound("verse", x.bbb+" "+key.String())
	}
	return out, context, nil
}

// GetChapterEntriesWithContext returns every entry from the start of the
// chapter's verse-0 span up to the start of the next chapter, plus the
// context at the chapter's start. The introduction is chapter "-1".
func (x *CVIndex) GetChapterEntriesWithContext(chapter string) (entry.List, []string, error) {
	start, end := -1, len(x.entries)
	var context []string
	inChapter := false
	for _, k := range x.keys {
		e := x.data[k]
		if k.C == chapter {
			if !inChapter {
				start = e.EntryIndex()
				context = e.Context()
				inChapter = true
			}
			continue
		}
		if inChapter {
			end = e.EntryIndex()
			break
		}
	}
	if start < 0 {
		return nil, nil, cedarerrors.NewNotFound("chapter", x.bbb+" "+chapter)
	}
	return x.entries[start:end], context, nil
}

// GetContextVerseDataRange concatenates single-verse lookups from startKey
// through endKey inclusive, rolling into the next chapter when a chapter's
// verses are exhausted. In strict mode a missing verse is an error;
// otherwise it is logged and skipped.
func (x *CVIndex) GetContextVerseDataRange(startKey, endKey ref.Key, strict bool) (entry.List, error) {
	startSpan, err := ref.ParseVerse(ref.DigitPrefix(startKey.V))
	if err != nil {
		return nil, cedarerrors.NewValidation("startKey", "unparseable verse label "+startKey.V)
	}
	endSpan, err := ref.ParseVerse(ref.DigitPrefix(endKey.V))
	if err != nil {
		return nil, cedarerrors.NewValidation("endKey", "unparseable verse label "+endKey.V)
	}

	var out entry.List
	c, v := startKey.C, startSpan.First()
	for {
		key := ref.Key{C: c, V: fmt.Sprintf("%d", v)}
		entries, lerr := x.GetVerseEntries(key, false)
		if lerr != nil {
			if strict {
				return nil, lerr
			}
			logging.Warn("missing verse in range query",
				"book", x.bbb, "key", key.String())
		} else {
			out = append(out, entries...)
		}
		if c == endKey.C && v >= endSpan.Last() {
			break
		}
		if v >= x.maxVerse(c) {
			next, ok := x.nextChapter(c)
			if !ok {
				if strict {
					return nil, cedarerrors.NewNotFound("chapter after", x.bbb+" "+c)
				}
				break
			}
			c, v = next, 1
		} else {
			v++
		}
	}
	return out, nil
}

// maxVerse returns the highest verse number keyed in a chapter, counting
// the far end of bridges.
func (x *CVIndex) maxVerse(chapter string) int {
	high := 0
	for _, k := range x.keys {
		if k.C != chapter {
			continue
		}
		if s, err := ref.ParseVerse(k.V); err == nil && s.Last() > high {
			high = s.Last()
		}
	}
	return high
}

// nextChapter returns the chapter label keyed immediately after the given
// one in document order.
func (x *CVIndex) nextChapter(chapter string) (string, bool) {
	seen := false
	for _, k := range x.keys {
		if k.C == chapter {
			seen = true
			continue
		}
		if seen {
			return k.C, true
		}
	}
	return "", false
}

func (x *CVIndex) lookup(key ref.Key, strict bool) (CVEntry, error) {
	if strict {
		if e, ok := x.data[key]; ok {
			return e, nil
		}
		return CVEntry{}, cedarerrors.NewNotFound("verse", x.bbb+" "+key.String())
	}
	return x.LookupWithFallback(key)
}
