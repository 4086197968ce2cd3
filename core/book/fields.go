package book

import (
	"strconv"
	"strings"

	cedarerrors "github.com/FocuswithJustin/CedarBible/core/errors"
	"github.com/FocuswithJustin/CedarBible/core/ref"
)

// Versification describes the chapter/verse shape actually observed in the
// processed entries: the last verse number per chapter plus the anomalies
// found on the way.
type Versification struct {
	// Chapters holds (chapter label, last verse label) pairs in book order.
	Chapters [][2]string
	// Omitted lists verses skipped over by the numbering.
	Omitted []ref.Key
	// Combined lists bridged or comma-joined verse labels.
	Combined []ref.Key
	// Reordered lists verses numbered lower than their predecessor.
	Reordered []ref.Key
}

// GetVersification scans the processed entries and reports the observed
// versification. Verse labels keep bridges and comma lists; letters and
// brackets are stripped before numeric comparison.
func (b *Book) GetVersification() (*Versification, error) {
	if !b.processed {
		return nil, cedarerrors.Wrap(cedarerrors.ErrNotProcessed, "GetVersification on "+b.BBB)
	}

	result := &Versification{}
	chapter := ""
	lastVerse := 0

	flush := func() {
		if chapter != "" {
			result.Chapters = append(result.Chapters, [2]string{chapter, strconv.Itoa(lastVerse)})
		}
	}

	for i := range b.entries {
		e := b.entries[i]
		switch e.Marker {
		case "c":
			flush()
			chapter = e.CleanText
			lastVerse = 0
		case "v":
			lastVerse = b.versifyVerse(result, chapter, e.CleanText, lastVerse)
		}
	}
	flush()
	return result, nil
}

// versifyVerse folds one verse label into the running versification and
// returns the new last-verse number.
func (b *Book) versifyVerse(result *Versification, chapter, label string, lastVerse int) int {
	digits := stripVerseDecorations(label)
	if digits == "" {
		b.notices.Add(86, chapter, label, "Verse label has no number")
		return lastVerse
	}

	first, last := digits, digits
	switch {
	case strings.ContainsAny(digits, "-–"):
		parts := strings.FieldsFunc(digits, func(r rune) bool { return r == '-' || r == '–' })
		if len(parts) == 2 {
			first, last = parts[0], parts[1]
			result.Combined = append(result.Combined, ref.Key{C: chapter, V: label})
		} else {
			b.notices.Add(83, chapter, label, "Malformed verse bridge")
			first, last = parts[0], parts[len(parts)-1]
		}
	case strings.Contains(digits, ","):
		parts := strings.Split(digits, ",")
		first, last = parts[0], parts[len(parts)-1]
		result.Combined = append(result.Combined, ref.Key{C: chapter, V: label})
	}

	firstNum, err1 := strconv.Atoi(first)
	lastNum, err2 := strconv.Atoi(last)
	if err1 != nil || err2 != nil {
		b.notices.Add(86, chapter, label, "Unparseable verse number "+label)
		return lastVerse
	}

	switch {
	case firstNum == lastVerse+1:
		// expected
	case firstNum > lastVerse+1:
		for missing := lastVerse + 1; missing < firstNum; missing++ {
			result.Omitted = append(result.Omitted, ref.Key{C: chapter, V: strconv.Itoa(missing)})
		}
		b.notices.Add(34, chapter, label, "Verse numbering jump")
	case firstNum == lastVerse:
		b.notices.Add(76, chapter, label, "Repeated verse number")
	default:
		result.Reordered = append(result.Reordered, ref.Key{C: chapter, V: label})
		b.notices.Add(75, chapter, label, "Verse out of sequence")
	}
	if lastNum < firstNum {
		b.notices.Add(83, chapter, label, "Verse bridge runs backwards")
		lastNum = firstNum
	}
	return lastNum
}

// stripVerseDecorations removes sub-verse letters and editorial brackets
// from a verse label, keeping digits, hyphens, en-dashes and commas.
func stripVerseDecorations(label string) string {
	var sb strings.Builder
	for _, r := range label {
		switch {
		case r >= '0' && r <= '9', r == '-', r == ',', r == '–':
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
