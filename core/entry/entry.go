// Package entry defines the processed-line representation: the Entry
// record emitted by the line processor and the Extra records holding
// footnotes, cross-references, and other material pulled out of the text.
package entry

import (
	"fmt"
	"regexp"
	"strings"
)

// ExtraType classifies material extracted from a line into an Extra.
type ExtraType string

const (
	// Footnote is a \f ...\f* note.
	Footnote ExtraType = "fn"
	// Endnote is a \fe ...\fe* note.
	Endnote ExtraType = "en"
	// CrossReference is a \x ...\x* reference.
	CrossReference ExtraType = "xr"
	// Figure is a \fig ...\fig* illustration reference.
	Figure ExtraType = "fig"
	// Strongs is a \str ...\str* Strong's number.
	Strongs ExtraType = "str"
	// Semantic is a \sem ...\sem* semantic annotation.
	Semantic ExtraType = "sem"
	// WordAttributes holds the attribute list split off a \w field.
	WordAttributes ExtraType = "ww"
	// VersePrint is a \vp ...\vp* published verse number override.
	VersePrint ExtraType = "vp"
)

// USFMMarker returns the USFM marker used to rewrap this extra type when
// reconstructing full text.
func (t ExtraType) USFMMarker() string {
	switch t {
	case Footnote:
		return "f"
	case Endnote:
		return "fe"
	case CrossReference:
		return "x"
	case Figure:
		return "fig"
	case Strongs:
		return "str"
	case Semantic:
		return "sem"
	case WordAttributes:
		return "ww"
	case VersePrint:
		return "vp"
	}
	return string(t)
}

// IsValid reports whether t is one of the defined extra types.
func (t ExtraType) IsValid() bool {
	switch t {
	case Footnote, Endnote, CrossReference, Figure, Strongs, Semantic,
		WordAttributes, VersePrint:
		return true
	}
	return false
}

// Extra is one piece of material extracted from a line. Text holds the
// note body without its open/close delimiters and must be non-empty;
// Index is the offset into the owning entry's AdjustedText where the note
// was excised.
type Extra struct {
	Type      ExtraType
	Index     int
	Text      string
	CleanText string
	Location  string // "BBB C:V" for diagnostics
}

// String renders the extra for diagnostics.
func (x Extra) String() string {
	return fmt.Sprintf("%s@%d=%q", x.Type, x.Index, x.Text)
}

// Entry is one processed line. Synthesized entries (close markers, split
// verse text) have an empty OriginalMarker.
//
// AdjustedText has notes and attributes extracted but character formatting
// still present; CleanText additionally has all inline formatting
// stripped; OriginalText is the line as loaded, before any fixups.
type Entry struct {
	Marker         string
	OriginalMarker string
	AdjustedText   string
	CleanText      string
	Extras         []Extra
	OriginalText   string
}

// String renders the entry for diagnostics.
func (e Entry) String() string {
	if e.CleanText != "" {
		return fmt.Sprintf("%s=%q", e.Marker, e.CleanText)
	}
	return e.Marker
}

var (
	wordFieldRE = regexp.MustCompile(`\\w (.+?)\\w\*`)
)

// FullText reconstructs the line text with all extras reinserted at their
// recorded positions, wrapped in their USFM delimiters. Spaces adjacent to
// an excised note may not be recovered exactly.
func (e Entry) FullText() string {
	result := e.AdjustedText
	offset := 0
	for _, x := range e.Extras {
		ix := x.Index + offset
		if ix > len(result) {
			ix = len(result)
		}
		usfm := x.Type.USFMMarker()
		result = result[:ix] + "\\" + usfm + " " + x.Text + "\\" + usfm + "*" + result[ix:]
		offset += len(x.Text) + 2*len(usfm) + 4
	}
	if len(e.Extras) > 0 && strings.Contains(result, "\\ww ") {
		// The visible word is duplicated inside the reattached \ww field,
		// so remove the inline \w copy and convert \ww back to \w.
		result = wordFieldRE.ReplaceAllString(result, "")
		result = strings.ReplaceAll(result, "\\ww ", "\\w ")
		result = strings.ReplaceAll(result, "\\ww*", "\\w*")
	}
	return result
}

// List is an ordered sequence of entries.
type List []Entry

// ContainsMarker reports whether any entry in the list has the given
// marker.
func (l List) ContainsMarker(marker string) bool {
	for _, e := range l {
		if e.Marker == marker {
			return true
		}
	}
	return false
}

// Markers returns the marker of every entry, in order.
func (l List) Markers() []string {
	out := make([]string, len(l))
	for i, e := range l {
		out[i] = e.Marker
	}
	return out
}

// String renders a compact summary of the list for diagnostics.
func (l List) String() string {
	var b strings.Builder
	for i, e := range l {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(e.Marker)
	}
	return b.String()
}
