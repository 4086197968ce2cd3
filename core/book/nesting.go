package book

import (
	"github.com/FocuswithJustin/CedarBible/core/entry"
	"github.com/FocuswithJustin/CedarBible/core/marker"
)

// insertNestingMarkers re-emits the entry list with synthetic container
// opens (headers, intro, iot, ilist, chapters, list) and ¬-prefixed close
// entries interleaved, so every structural marker is eventually closed and
// the whole book forms one balanced nesting. ¬c and ¬v carry the chapter
// and verse number just closed as payload text.
func insertNestingMarkers(bbb string, in entry.List, notices *NoticeList) entry.List {
	n := &nester{
		bbb:     bbb,
		in:      in,
		out:     make(entry.List, 0, len(in)+len(in)/3),
		notices: notices,
		c:       "0",
		v:       "0",
	}
	for i := range in {
		n.step(i)
	}
	// End of book: close everything still open, innermost first.
	for len(n.stack) > 0 {
		top := n.stack[len(n.stack)-1]
		payload := ""
		switch top {
		case "c":
			payload = n.c
		case "v":
			payload = n.v
		}
		n.closeTop(payload)
	}
	return n.out
}

type nester struct {
	bbb     string
	in      entry.List
	out     entry.List
	notices *NoticeList

	stack []string
	// lastParagraph and lastHeading can legitimately span chapter
	// boundaries, so they get their own closing rules.
	lastParagraph string
	lastHeading   string
	seenChapters  bool
	c, v          string
}

func (n *nester) step(i int) {
	e := n.in[i]
	m := e.Marker

	// Containers that open lazily ahead of their first member.
	if marker.IsHeader(m) && !n.has(marker.Headers) && !n.has(marker.Intro) && !n.seenChapters {
		n.openContainer(marker.Headers)
	}
	if marker.IsIntro(m) && !n.has(marker.Intro) && !(m == "iex" && n.has("c")) {
		n.closeContainerIf(marker.Headers)
		n.openContainer(marker.Intro)
	}
	if m == "iot" && !n.has(marker.IOT) {
		// The outline title entry itself acts as the container open.
		n.push(marker.IOT)
	} else if marker.IsIntroOutline(m) && !n.has(marker.IOT) {
		n.openContainer(marker.IOT)
	}
	if marker.IsIntroList(m) && !n.has(marker.IList) {
		n.openContainer(marker.IList)
	}

	switch {
	case m == "c":
		n.onChapter(i, e)
	case m == marker.VersePrint:
		n.closeVerseIfOpen()
	case m == "v":
		n.onVerse(i, e)
	case marker.IsHeadingBlock(m):
		n.onHeadingBlock(i, m)
	case marker.IsMainList(m):
		n.onList(i, m)
	case marker.IsHeading(m):
		n.onHeading(i)
	case marker.IsParagraph(m):
		n.onParagraph(i, m)
	case marker.Content(m) == marker.ContentNever && !marker.IsNesting(m) && !marker.IsHeader(m):
		// b, ib, nb and friends break structure without opening anything.
		n.closeLoop(i)
	}

	n.out = append(n.out, e)

	// Intro outline and list containers close as soon as their family ends.
	if (m == "iot" || marker.IsIntroOutline(m)) && n.has(marker.IOT) &&
		!familyContinues(n.in, i, marker.IsIntroOutline) {
		n.closeAnywhere(marker.IOT, "")
	}
	if marker.IsIntroList(m) && n.has(marker.IList) &&
		!familyContinues(n.in, i, marker.IsIntroList) {
		n.closeAnywhere(marker.IList, "")
	}
}

func (n *nester) onChapter(i int, e entry.Entry) {
	n.closeContainerIf(marker.Headers)
	n.closeContainerIf(marker.Intro)
	n.closeVerseIfOpen()

	if !n.seenChapters {
		n.openContainer(marker.Chapters)
		n.seenChapters = true
	} else if t := n.top(); marker.IsParagraph(t) || marker.IsHeading(t) {
		// Don't let a paragraph trail uselessly across an empty chapter
		// boundary when the new chapter immediately restarts one.
		if next := nextRelevantMarker(n.in, i); marker.IsParagraph(next) || marker.IsHeading(next) {
			n.closeTop("")
			if t == n.lastParagraph {
				n.lastParagraph = ""
			}
		}
	}

	if n.has("c") {
		n.closeAnywhere("c", n.c)
	}
	n.push("c")
	n.c, n.v = e.CleanText, "0"
}

func (n *nester) onVerse(i int, e entry.Entry) {
	for {
		t := n.top()
		if t == "v" {
			n.closeTop(n.v)
			continue
		}
		if n.lastParagraph != "" && t == n.lastParagraph && paragraphHasEnded(n.in, i) {
			n.closeTop("")
			n.maybeCloseList(i)
			n.lastParagraph = ""
			continue
		}
		break
	}
	n.closeVerseIfOpen() // out-of-order leftover
	n.push("v")
	n.v = e.CleanText
}

func (n *nester) onHeading(i int) {
	n.closeLoop(i)
	if n.lastParagraph != "" && n.has(n.lastParagraph) {
		// A heading always ends the running paragraph, even when it lands
		// mid-verse with the verse still open above the paragraph.
		n.closeAnywhere(n.lastParagraph, "")
		n.maybeCloseList(i)
		n.lastParagraph = ""
	}
	if n.has("v") && verseHasEnded(n.in, i) {
		n.notices.Add(17, n.c, n.v, "Closing out-of-order verse before heading")
		n.closeAnywhere("v", n.v)
	}
	// Headings are not containers: nothing is pushed.
}

func (n *nester) onHeadingBlock(i int, m string) {
	n.closeContainerIf(marker.Headers)
	n.closeContainerIf(marker.Intro)
	n.closeLoop(i)
	if n.lastParagraph != "" && n.has(n.lastParagraph) {
		n.closeAnywhere(n.lastParagraph, "")
		n.maybeCloseList(i)
		n.lastParagraph = ""
	}
	if n.lastHeading != "" && n.has(n.lastHeading) {
		n.closeAnywhere(n.lastHeading, "")
		n.lastHeading = ""
	}
	// A major section spanning chapters closes the current chapter only
	// when a fresh chapter marker is about to follow it.
	if n.has("c") && nextRelevantMarker(n.in, i) == "c" {
		n.closeAnywhere("c", n.c)
	}
	if !n.seenChapters {
		n.openContainer(marker.Chapters)
		n.seenChapters = true
	}
	n.push(m)
	n.lastHeading = m
}

func (n *nester) onList(i int, m string) {
	n.closeLoop(i)
	if !n.has(marker.List) {
		n.openContainer(marker.List)
	}
	n.push(m)
	n.lastParagraph = m
}

func (n *nester) onParagraph(i int, m string) {
	n.closeLoop(i)
	if n.lastParagraph != "" && n.has(n.lastParagraph) {
		// Previous paragraph is still open below a mid-verse marker.
		n.closeAnywhere(n.lastParagraph, "")
		n.maybeCloseList(i)
	}
	n.push(m)
	n.lastParagraph = m
}

// closeLoop runs the shared verse/paragraph/heading top-of-stack closing
// rules to quiescence.
func (n *nester) closeLoop(i int) {
	for {
		t := n.top()
		if t == "v" && verseHasEnded(n.in, i) {
			n.closeTop(n.v)
			continue
		}
		if n.lastParagraph != "" && t == n.lastParagraph {
			n.closeTop("")
			n.maybeCloseList(i)
			n.lastParagraph = ""
			continue
		}
		if n.lastHeading != "" && t == n.lastHeading && sectionHasEnded(n.in, i) {
			n.closeTop("")
			n.lastHeading = ""
			continue
		}
		return
	}
}

// maybeCloseList closes the list container after its last member closed.
// The scan starts at the current entry so an incoming list member keeps the
// container open.
func (n *nester) maybeCloseList(i int) {
	if n.has(marker.List) && !familyContinues(n.in, i-1, marker.IsMainList) {
		n.closeAnywhere(marker.List, "")
	}
}

func (n *nester) closeVerseIfOpen() {
	if !n.has("v") {
		return
	}
	if n.top() != "v" {
		n.notices.Add(17, n.c, n.v, "Closing out-of-order verse")
	}
	n.closeAnywhere("v", n.v)
}

func (n *nester) has(m string) bool {
	for _, s := range n.stack {
		if s == m {
			return true
		}
	}
	return false
}

func (n *nester) top() string {
	if len(n.stack) == 0 {
		return ""
	}
	return n.stack[len(n.stack)-1]
}

func (n *nester) push(m string) {
	n.stack = append(n.stack, m)
}

// openContainer pushes a synthetic container and emits its open entry.
func (n *nester) openContainer(m string) {
	n.push(m)
	n.out = append(n.out, entry.Entry{Marker: m})
}

// closeTop pops the innermost open marker and emits its close entry.
func (n *nester) closeTop(payload string) {
	m := n.stack[len(n.stack)-1]
	n.stack = n.stack[:len(n.stack)-1]
	n.emitClose(m, payload)
}

// closeAnywhere closes the topmost occurrence of m, wherever it sits in
// the stack. Markers above it stay open.
func (n *nester) closeAnywhere(m, payload string) {
	for k := len(n.stack) - 1; k >= 0; k-- {
		if n.stack[k] != m {
			continue
		}
		n.stack = append(n.stack[:k], n.stack[k+1:]...)
		n.emitClose(m, payload)
		return
	}
}

func (n *nester) closeContainerIf(m string) {
	if n.has(m) {
		n.closeAnywhere(m, "")
	}
}

func (n *nester) emitClose(m, payload string) {
	n.out = append(n.out, entry.Entry{
		Marker:       marker.Close(m),
		AdjustedText: payload,
		CleanText:    payload,
		OriginalText: payload,
	})
}

// lookaheadSkip lists markers that never decide whether a block continues.
func lookaheadSkip(m string) bool {
	switch m {
	case marker.ChapterDisplay, marker.VersePrint, marker.ChapterText,
		"cl", "cp", "rem", "d", "sp", "r":
		return true
	}
	return false
}

// nextRelevantMarker returns the first marker after position i that is not
// purely informational.
func nextRelevantMarker(in entry.List, i int) string {
	for k := i + 1; k < len(in); k++ {
		if !lookaheadSkip(in[k].Marker) {
			return in[k].Marker
		}
	}
	return ""
}

// verseHasEnded reports whether no more text of the current verse follows
// position i. Paragraph markers do not end a verse by themselves.
func verseHasEnded(in entry.List, i int) bool {
	for k := i + 1; k < len(in); k++ {
		m := in[k].Marker
		switch {
		case m == marker.VerseText || m == marker.ParaText:
			return false
		case m == "v" || m == "c" || marker.IsHeading(m) || marker.IsHeadingBlock(m):
			return true
		}
	}
	return true
}

// paragraphHasEnded reports whether no more verse material belonging to the
// current paragraph follows position i.
func paragraphHasEnded(in entry.List, i int) bool {
	for k := i + 1; k < len(in); k++ {
		m := in[k].Marker
		switch {
		case m == "v" || m == marker.VerseText || m == marker.ParaText:
			return false
		case m == "c" || marker.IsParagraph(m) || marker.IsHeading(m) || marker.IsHeadingBlock(m):
			return true
		}
	}
	return true
}

// sectionHasEnded reports whether the open major-section block ends before
// any further verse material.
func sectionHasEnded(in entry.List, i int) bool {
	for k := i + 1; k < len(in); k++ {
		m := in[k].Marker
		switch {
		case marker.IsHeadingBlock(m):
			return true
		case m == "v" || m == "c" || m == marker.VerseText || m == marker.ParaText:
			return false
		}
	}
	return false
}

// familyContinues reports whether another marker satisfying pred occurs
// after position i with only verse-continuation material in between.
func familyContinues(in entry.List, i int, pred func(string) bool) bool {
	for k := i + 1; k < len(in); k++ {
		m := in[k].Marker
		if pred(m) {
			return true
		}
		switch m {
		case marker.VerseText, marker.ParaText, marker.ChapterDisplay,
			marker.VersePrint, "v":
			continue
		}
		return false
	}
	return false
}
