package book

import (
	"sort"
	"strings"
	"sync"

	"github.com/FocuswithJustin/CedarBible/core/entry"
	"github.com/FocuswithJustin/CedarBible/core/marker"
)

var (
	charFormsOnce sync.Once
	charForms     []string
)

// noteOpens pairs each extractable note family with its USFM open tag, in
// scan order. The extractor always takes the earliest open found, so the
// order here only breaks ties (which cannot happen, the tags differ).
var noteOpens = []struct {
	tag string
	typ entry.ExtraType
}{
	{`\f `, entry.Footnote},
	{`\fe `, entry.Endnote},
	{`\x `, entry.CrossReference},
	{`\fig `, entry.Figure},
	{`\str `, entry.Strongs},
	{`\sem `, entry.Semantic},
	{`\vp `, entry.VersePrint},
}

// straightQuoteRules maps straight double quotes to curly ones by their
// surrounding punctuation. Applied in order; a leading quote is handled
// separately.
var straightQuoteRules = [][2]string{
	{` "`, " “"}, {`;"`, ";“"}, {`("`, "(“"}, {`["`, "[“"},
	{`."`, ".”"}, {`,"`, ",”"}, {`?"`, "?”"}, {`!"`, "!”"},
	{`)"`, ")”"}, {`]"`, "]”"}, {`*"`, "*”"},
	{`";`, "”;"}, {`"(`, "”("}, {`"[`, "”["},
	{`" `, "” "}, {`",`, "”,"}, {`".`, "”."},
	{`"?`, "”?"}, {`"!`, "”!"},
}

// fixLine normalizes one line's text and pulls its notes out. It returns
// the adjusted text (notes excised, entities escaped), the clean text
// (entities decoded, all inline formatting stripped), and the extracted
// extras in left-to-right order.
func (b *Book) fixLine(c, v, m, text string) (adjText, cleanText string, extras []entry.Extra) {
	adjText = text
	location := b.BBB + "_" + c + ":" + v

	if strings.HasSuffix(adjText, " ") {
		b.notices.Add(10, c, v, "Removed trailing space in "+m+" line")
		adjText = strings.TrimRight(adjText, " ")
	}

	// Attributes come out first so their payloads escape the quote and
	// entity fixups below.
	adjText, extras = b.extractWordAttributes(c, v, adjText, location, extras)

	// Angle-bracket quotation guillemet substitutes.
	if strings.ContainsAny(adjText, "<>") {
		if !b.warnedAngleBrackets {
			b.warnedAngleBrackets = true
			b.notices.Add(3, c, v, "Book contains angle brackets (perhaps used as quotation marks)")
		}
		if b.cfg.ReplaceAngleBrackets {
			adjText = strings.ReplaceAll(adjText, "<<", "“")
			adjText = strings.ReplaceAll(adjText, ">>", "”")
			adjText = strings.ReplaceAll(adjText, "<", "‘")
			adjText = strings.ReplaceAll(adjText, ">", "’")
		}
	}

	if strings.Contains(adjText, `"`) {
		if b.cfg.ReplaceStraightQuotes {
			if !b.warnedDoubleQuotes {
				b.warnedDoubleQuotes = true
				b.notices.Add(8, c, v, "Book contains straight quote signs (being replaced)")
			}
			if strings.HasPrefix(adjText, `"`) {
				adjText = "“" + adjText[1:]
			}
			for _, rule := range straightQuoteRules {
				adjText = strings.ReplaceAll(adjText, rule[0], rule[1])
			}
		} else if !b.warnedDoubleQuotes {
			b.warnedDoubleQuotes = true
			b.notices.Add(58, c, v, "Book contains straight quote signs")
		}
	}

	// Escape reserved characters; anything still left is source damage.
	adjText = strings.ReplaceAll(adjText, "&", "&amp;")
	if strings.ContainsAny(adjText, "<>") {
		b.notices.Add(12, c, v, "Found angle brackets in "+m+" line")
		adjText = strings.ReplaceAll(adjText, "<", "&lt;")
		adjText = strings.ReplaceAll(adjText, ">", "&gt;")
	}
	if strings.Contains(adjText, `"`) {
		b.notices.Add(11, c, v, "Found straight quote sign in "+m+" line")
		adjText = strings.ReplaceAll(adjText, `"`, "&quot;")
	}

	adjText, extras = b.extractNotes(c, v, adjText, location, extras)

	if i := strings.Index(strings.ToLower(adjText), `\f`); i >= 0 {
		b.notices.Add(82, c, v, "Unmatched footnote markup left in "+m+" line")
	} else if i := strings.Index(strings.ToLower(adjText), `\x`); i >= 0 {
		b.notices.Add(82, c, v, "Unmatched cross-reference markup left in "+m+" line")
	}

	if strings.HasSuffix(adjText, " ") {
		b.notices.Add(10, c, v, "Removed trailing space after note extraction in "+m+" line")
		adjText = strings.TrimRight(adjText, " ")
	}

	// Attribute extras were collected before the note scan; restore
	// ascending excision order so reinsertion walks left to right.
	sort.SliceStable(extras, func(i, j int) bool {
		return extras[i].Index < extras[j].Index
	})

	cleanText = b.makeCleanText(c, v, adjText)
	return adjText, cleanText, extras
}

// extractWordAttributes splits the attribute payload off every \w field so
// the visible word stays inline and the attributes move to a ww extra.
func (b *Book) extractWordAttributes(c, v, adjText, location string, extras []entry.Extra) (string, []entry.Extra) {
	searchFrom := 0
	for {
		rel := strings.Index(adjText[searchFrom:], `\w `)
		if rel < 0 {
			break
		}
		ix1 := searchFrom + rel
		end := strings.Index(adjText[ix1:], `\w*`)
		if end < 0 {
			b.notices.Add(84, c, v, "Word field is missing its close marker")
			break
		}
		end += ix1
		inner := adjText[ix1+3 : end]
		bar := strings.IndexByte(inner, '|')
		if bar < 0 {
			searchFrom = end + 3
			continue
		}
		visible := inner[:bar]
		adjText = adjText[:ix1] + `\w ` + visible + adjText[end:]
		extras = append(extras, entry.Extra{
			Type:      entry.WordAttributes,
			Index:     ix1,
			Text:      inner,
			CleanText: visible,
			Location:  location,
		})
		searchFrom = ix1 + 3 + len(visible) + 3
	}
	return adjText, extras
}

// extractNotes excises footnote-family fields from adjText, left to right,
// recording each as an Extra anchored at its excision offset. When the
// excision would glue two words together, exactly one space is inserted at
// the junction.
func (b *Book) extractNotes(c, v, adjText, location string, extras []entry.Extra) (string, []entry.Extra) {
	for {
		lc := strings.ToLower(adjText)
		ix1 := -1
		var openTag string
		var typ entry.ExtraType
		for _, open := range noteOpens {
			if i := strings.Index(lc, open.tag); i >= 0 && (ix1 < 0 || i < ix1) {
				ix1, openTag, typ = i, open.tag, open.typ
			}
		}
		if ix1 < 0 {
			return adjText, extras
		}

		closeTag := `\` + strings.TrimSpace(openTag[1:]) + `*`
		ix2 := strings.Index(lc, closeTag)
		closeLen := len(closeTag)
		if ix2 < 0 {
			b.notices.Add(84, c, v, "Missing close marker for "+strings.TrimSpace(openTag))
			ix2, closeLen = len(adjText), 0
		}
		if ix2 < ix1 {
			b.notices.Add(84, c, v, "Close marker before open marker for "+strings.TrimSpace(openTag))
			ix1, ix2 = ix2, ix1
		}
		if typ == entry.Footnote && ix1 > 0 && adjText[ix1-1] == ' ' {
			b.notices.Add(52, c, v, "Found footnote preceded by a space")
		}

		note := adjText[ix1+len(openTag) : ix2]
		if note == "" {
			b.notices.Add(53, c, v, "Found empty "+string(typ)+" field")
		}
		if strings.HasPrefix(note, " ") {
			b.notices.Add(12, c, v, "Found "+string(typ)+" field starting with a space")
			note = strings.TrimLeft(note, " ")
		}
		if strings.HasSuffix(note, " ") {
			b.notices.Add(11, c, v, "Found "+string(typ)+" field ending with a space")
			note = strings.TrimRight(note, " ")
		}

		adjText = adjText[:ix1] + adjText[ix2+closeLen:]
		// Normalize the junction to at most one space between the halves.
		if ix1 > 0 && ix1 < len(adjText) {
			left, right := adjText[ix1-1] == ' ', adjText[ix1] == ' '
			switch {
			case !left && !right:
				adjText = adjText[:ix1] + " " + adjText[ix1:]
			case left && right:
				adjText = adjText[:ix1] + adjText[ix1+1:]
			}
		}

		if note == "" {
			continue
		}
		extras = append(extras, entry.Extra{
			Type:      typ,
			Index:     ix1,
			Text:      note,
			CleanText: b.cleanNote(c, v, typ, note),
			Location:  location,
		})
	}
}

// cleanNote reduces a raw note body to displayable text: caller sign and
// internal structure markers removed, entities decoded.
func (b *Book) cleanNote(c, v string, typ entry.ExtraType, note string) string {
	s := note
	switch typ {
	case entry.Footnote, entry.Endnote, entry.CrossReference:
		if len(s) >= 2 && s[1] == ' ' && (s[0] == '+' || s[0] == '-' || isCaller(s[0])) {
			s = s[2:]
		}
		if s != "" && s[0] != '\\' {
			b.notices.Add(47, c, v, "Note is missing an internal content marker")
		}
	}
	s = stripBackslashTokens(s)
	s = decodeEntities(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

func isCaller(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') || ch == '*'
}

// makeCleanText strips all inline formatting from adjusted text: entities
// decoded, character markers removed per their closure rules, unknown
// backslash fields dropped.
func (b *Book) makeCleanText(c, v, adjText string) string {
	clean := decodeEntities(adjText)
	if !strings.Contains(clean, `\`) {
		return clean
	}

	for _, cm := range characterMarkerForms() {
		open := `\` + cm + ` `
		if strings.Contains(clean, open) {
			clean = strings.ReplaceAll(clean, open, "")
		}
		closeTag := `\` + cm + `*`
		switch marker.Closure(cm) {
		case marker.ClosureAlways, marker.ClosureOptional:
			if strings.Contains(clean, closeTag) {
				clean = strings.ReplaceAll(clean, closeTag, "")
			}
		}
	}

	// Anything still backslashed is unknown markup.
	for {
		ix := strings.IndexByte(clean, '\\')
		if ix < 0 {
			break
		}
		sp := strings.IndexByte(clean[ix:], ' ')
		star := strings.IndexByte(clean[ix:], '*')
		switch {
		case sp < 0 && star < 0:
			b.notices.Add(92, c, v, "Unterminated unknown marker field: "+clean[ix:])
			clean = clean[:ix]
		case star >= 0 && (sp < 0 || star < sp):
			b.notices.Add(12, c, v, "Removed unknown marker field: "+clean[ix:ix+star+1])
			clean = clean[:ix] + clean[ix+star+1:]
		default:
			b.notices.Add(12, c, v, "Removed unknown marker: "+clean[ix:ix+sp])
			clean = clean[:ix] + clean[ix+sp+1:]
		}
	}
	clean = strings.Join(strings.Fields(clean), " ")
	return clean
}

// stripBackslashTokens removes every backslash marker token (with its
// trailing space) and close token from s, keeping the text between them.
func stripBackslashTokens(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); {
		if s[i] != '\\' {
			sb.WriteByte(s[i])
			i++
			continue
		}
		j := i + 1
		for j < len(s) && (isLowerAlnum(s[j])) {
			j++
		}
		if j < len(s) && s[j] == '*' {
			j++
		} else if j < len(s) && s[j] == ' ' {
			j++
		}
		i = j
	}
	return sb.String()
}

func isLowerAlnum(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9')
}

func decodeEntities(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&amp;", "&")
	return s
}

// characterMarkerForms returns every inline character marker including the
// numbered variants, computed once.
func characterMarkerForms() []string {
	charFormsOnce.Do(func() {
		for _, raw := range marker.CharacterMarkers() {
			charForms = append(charForms, raw)
			for n := 1; n <= marker.HighestNumber(raw); n++ {
				charForms = append(charForms, raw+string(rune('0'+n)))
			}
		}
	})
	return charForms
}
