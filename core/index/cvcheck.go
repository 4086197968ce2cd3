package index

import (
	"sort"
	"strconv"
	"strings"

	cedarerrors "github.com/FocuswithJustin/CedarBible/core/errors"
	"github.com/FocuswithJustin/CedarBible/core/marker"
	"github.com/FocuswithJustin/CedarBible/core/ref"
	"github.com/FocuswithJustin/CedarBible/internal/logging"
)

// Check runs the internal consistency checks over the built index. Defects
// that point at a broken build are returned as an error; likely source
// encoding problems are only logged.
func (x *CVIndex) Check() error {
	for _, key := range x.keys {
		if key.C != "-1" && !isDigits(key.C) {
			return cedarerrors.NewInvariant(x.bbb, "cv-index-keys",
				"non-numeric chapter key "+key.String())
		}
		if _, err := ref.ParseVerse(key.V); err != nil {
			return cedarerrors.NewInvariant(x.bbb, "cv-index-keys",
				"unparseable verse key "+key.String())
		}
	}

	for _, key := range sortedCVKeys(x.keys) {
		e := x.data[key]
		entries := x.entries[e.EntryIndex():e.NextEntryIndex()]

		found := entries.Markers()
		anyText := false
		vCount := 0
		for i := range entries {
			m := entries[i].Marker
			if m == "v" {
				vCount++
			}
			if m != "c" && m != "v" && (entries[i].CleanText != "" || len(entries[i].Extras) > 0) {
				anyText = true
			}
		}
		if vCount > 1 {
			logging.InvariantViolation(x.bbb, "cv-index-span",
				"multiple verse markers in one span at "+key.String())
		}

		if key.C != "-1" {
			if key.V == "0" {
				if !entries.ContainsMarker("c") {
					return cedarerrors.NewInvariant(x.bbb, "cv-index-span",
						"chapter introduction without chapter marker at "+key.String())
				}
			} else if !entries.ContainsMarker("v") {
				return cedarerrors.NewInvariant(x.bbb, "cv-index-span",
					"verse span without verse marker at "+key.String())
			}
			x.checkMarkerOrder(key, found, anyText)
		}

		// The chapter and verse numbers recorded in the entries must match
		// the key they are filed under.
		for i := range entries {
			m, text := entries[i].Marker, entries[i].CleanText
			switch m {
			case "c", marker.ChapterDisplay:
				if text != key.C {
					return cedarerrors.NewInvariant(x.bbb, "cv-index-keys",
						"chapter text "+text+" filed under "+key.String())
				}
			case "v":
				if text != key.V && !strings.ContainsAny(text, "-,") {
					return cedarerrors.NewInvariant(x.bbb, "cv-index-keys",
						"verse text "+text+" filed under "+key.String())
				}
			}
		}
	}
	return nil
}

// checkMarkerOrder flags marker sequences that usually indicate a source
// encoding defect. These are advisory: the source is at fault, not the
// index, so they log rather than fail.
func (x *CVIndex) checkMarkerOrder(key ref.Key, found []string, anyText bool) {
	next := func(j int) string {
		// Skip over remark markers when looking ahead.
		for k := j + 1; k < len(found); k++ {
			if found[k] != "rem" {
				return found[k]
			}
		}
		return ""
	}
	for j, m := range found {
		nm := next(j)
		switch {
		case m == marker.ChapterDisplay:
			if nm != "v" && nm != marker.VersePrint {
				logging.ContentNotice(x.bbb, 70, key.C, key.V,
					"chapter display marker not followed by verse")
			}
		case m == "v":
			if j != len(found)-1 && nm != marker.VerseText && nm != marker.Close("v") {
				logging.ContentNotice(x.bbb, 70, key.C, key.V,
					"verse marker not followed by verse text")
			}
		case m == marker.VerseText || m == marker.ParaText:
			if nm == marker.VerseText || nm == marker.ParaText {
				logging.ContentNotice(x.bbb, 70, key.C, key.V,
					"consecutive text continuation markers")
			}
		}
		if anyText && marker.IsParagraph(m) {
			if nm != "v" && nm != marker.ParaText && nm != marker.VersePrint &&
				nm != marker.ChapterDisplay && nm != marker.Close(m) {
				logging.ContentNotice(x.bbb, 70, key.C, key.V,
					"paragraph marker "+m+" not followed by verse content")
			}
		}
	}
}

// sortedCVKeys orders keys by numeric chapter and first verse number so the
// checks can walk the index sequentially.
func sortedCVKeys(keys []ref.Key) []ref.Key {
	out := make([]ref.Key, len(keys))
	copy(out, keys)
	rank := func(k ref.Key) int {
		c, err := strconv.Atoi(k.C)
		if err != nil {
			c = 0
		}
		v := 0
		if s, err := ref.ParseVerse(k.V); err == nil {
			v = s.First()
		}
		return c*1000 + v
	}
	sort.SliceStable(out, func(i, j int) bool { return rank(out[i]) < rank(out[j]) })
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
