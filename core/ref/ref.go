// Package ref parses chapter/verse keys and verse labels as they occur in
// the index: plain numbers ("5"), bridged ranges ("5-7"), comma lists
// ("3,5"), and lettered sub-verses ("4b").
package ref

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/CedarBible/core/errors"
)

// Key identifies one chapter/verse slot in an index. Chapter "-1" is the
// book introduction; verse "0" is the chapter introduction.
type Key struct {
	C string
	V string
}

// String renders the key as "C:V".
func (k Key) String() string {
	return k.C + ":" + k.V
}

// Segment is one verse reference within a label: a number plus an optional
// single-letter sub-verse suffix.
type Segment struct {
	Number int
	Suffix string
}

// Span is a parsed verse label. Plain labels have one segment; bridges and
// comma lists have two or more.
type Span struct {
	Label    string
	Segments []Segment
	bridge   bool
	list     bool
}

// verse label grammar

var verseLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "SubVerse", Pattern: `[a-z]`},
	{Name: "Punct", Pattern: `[,\-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var verseParser = participle.MustBuild[verseGrammar](
	participle.Lexer(verseLexer),
	participle.Elide("Whitespace"),
)

type verseGrammar struct {
	First segGrammar   `parser:"@@"`
	Rest  []extGrammar `parser:"@@*"`
}

type segGrammar struct {
	Number int    `parser:"@Int"`
	Suffix string `parser:"@SubVerse?"`
}

type extGrammar struct {
	Sep string     `parser:"@(\"-\" | \",\")"`
	Seg segGrammar `parser:"@@"`
}

// ParseVerse parses a verse label into a Span.
func ParseVerse(label string) (*Span, error) {
	g, err := verseParser.ParseString("", label)
	if err != nil {
		return nil, &errors.ParseError{Format: "verse label", Message: label, Err: err}
	}
	s := &Span{
		Label:    label,
		Segments: []Segment{{Number: g.First.Number, Suffix: g.First.Suffix}},
	}
	for _, ext := range g.Rest {
		s.Segments = append(s.Segments, Segment{Number: ext.Seg.Number, Suffix: ext.Seg.Suffix})
		switch ext.Sep {
		case "-":
			s.bridge = true
		case ",":
			s.list = true
		}
	}
	return s, nil
}

// First returns the first verse number in the span.
func (s *Span) First() int {
	return s.Segments[0].Number
}

// Last returns the final verse number in the span.
func (s *Span) Last() int {
	return s.Segments[len(s.Segments)-1].Number
}

// IsBridge reports whether the label bridges a range of verses ("5-7").
func (s *Span) IsBridge() bool {
	return s.bridge
}

// IsList reports whether the label is a comma list ("3,5").
func (s *Span) IsList() bool {
	return s.list
}

// Covers reports whether verse number n falls inside the span. A bridge
// covers every number in its range; a list covers its members; a plain
// label covers only its own number (suffixed or not).
func (s *Span) Covers(n int) bool {
	if s.bridge && !s.list {
		return n >= s.First() && n <= s.Last()
	}
	for _, seg := range s.Segments {
		if seg.Number == n {
			return true
		}
	}
	return false
}

// String returns the original label.
func (s *Span) String() string {
	return s.Label
}

// DigitPrefix returns the leading decimal digits of a verse label, e.g.
// "17" from "17-18" or "4" from "4b". Empty when the label does not start
// with a digit.
func DigitPrefix(label string) string {
	i := 0
	for i < len(label) && label[i] >= '0' && label[i] <= '9' {
		i++
	}
	return label[:i]
}

// BridgeStart returns the number before the first hyphen of a bridged
// label, or the label itself when not bridged.
func BridgeStart(label string) string {
	if ix := strings.IndexByte(label, '-'); ix >= 0 {
		return label[:ix]
	}
	return label
}

// BridgeEnd returns the number after the last hyphen of a bridged label,
// or the label itself when not bridged.
func BridgeEnd(label string) string {
	if ix := strings.LastIndexByte(label, '-'); ix >= 0 {
		return label[ix+1:]
	}
	return label
}
