package book

import (
	"github.com/FocuswithJustin/CedarBible/core/entry"
	"github.com/FocuswithJustin/CedarBible/core/marker"
)

// precedesVerse reports markers that present material belonging to the
// verse that follows them: headings, speaker labels, parallel-reference
// lines, paragraph and list openers, table rows.
func precedesVerse(m string) bool {
	switch m {
	case "sp", "r", "d", "tr":
		return true
	}
	return marker.IsHeading(m) || marker.IsHeadingBlock(m) ||
		marker.IsParagraph(m) || marker.IsMainList(m)
}

// verseLookaheadSkip reports markers to pass over while scanning for the
// upcoming verse number.
func verseLookaheadSkip(m string) bool {
	if marker.IsClose(m) || precedesVerse(m) {
		return true
	}
	switch m {
	case marker.ChapterDisplay, marker.VersePrint, "cl", "cp", "c":
		return true
	}
	return false
}

// annotateVerseStarts inserts a synthetic v= entry before every marker that
// presents material for an upcoming verse, carrying that verse's number, so
// consumers can tell which verse a heading or paragraph opener belongs to
// without scanning forward themselves. Stacked markers before the same
// verse each get their own v= entry.
func annotateVerseStarts(in entry.List) entry.List {
	out := make(entry.List, 0, len(in)+8)
	for i := range in {
		if precedesVerse(in[i].Marker) {
			if num, ok := upcomingVerse(in, i); ok {
				out = append(out, entry.Entry{
					Marker:       marker.VerseStart,
					AdjustedText: num,
					CleanText:    num,
					OriginalText: num,
				})
			}
		}
		out = append(out, in[i])
	}
	return out
}

// upcomingVerse finds the verse number starting within the next four
// entries after i, skipping structural markers that may stand between a
// heading and its verse.
func upcomingVerse(in entry.List, i int) (string, bool) {
	budget := 4
	for k := i + 1; k < len(in) && budget > 0; k++ {
		m := in[k].Marker
		if m == "v" {
			return in[k].CleanText, true
		}
		if !verseLookaheadSkip(m) {
			return "", false
		}
		budget--
	}
	return "", false
}
