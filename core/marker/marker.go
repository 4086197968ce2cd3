// Package marker provides the USFM marker registry: a closed, immutable
// classification table consulted by the line processor, the nesting pass,
// and the index builders. The table is built once at init and never
// mutated, so all queries are safe for concurrent use.
package marker

import (
	"sort"
	"strings"
)

// ContentType describes whether a marker carries text on its line.
type ContentType byte

const (
	// ContentAlways means the marker always carries text.
	ContentAlways ContentType = 'A'
	// ContentSometimes means the marker may or may not carry text.
	ContentSometimes ContentType = 'S'
	// ContentNever means the marker never carries text.
	ContentNever ContentType = 'N'
)

// ClosureType describes whether a marker requires a matching *-close.
type ClosureType byte

const (
	// ClosureAlways means a close marker is required.
	ClosureAlways ClosureType = 'A'
	// ClosureOptional means a close marker may be present.
	ClosureOptional ClosureType = 'O'
	// ClosureSelf means the marker closes itself (milestones).
	ClosureSelf ClosureType = 'S'
	// ClosureNever means the marker takes no close marker.
	ClosureNever ClosureType = 'N'
)

// Info is the registry record for one raw (unnumbered) marker.
type Info struct {
	Newline       bool        // starts its own line, as opposed to inline character markup
	Character     bool        // inline character formatting (displayed within the text)
	Note          bool        // footnote/endnote/cross-reference family (content pulled out of the text)
	HighestNumber int         // highest numbered variant, 0 if not numberable (s -> s1..s4 gives 4)
	Content       ContentType
	Closure       ClosureType
}

// registry maps raw marker names to their records. Numbered variants
// (s1, q2, ...) resolve through their raw form.
var registry = rawTable

// combined maps every acceptable marker (raw and numbered) to its raw form.
var combined map[string]string

// standard maps numberable raw markers to their canonical numbered form
// (s -> s1). Non-numberable markers are absent.
var standard map[string]string

func init() {
	combined = make(map[string]string, len(registry)*2)
	standard = make(map[string]string, 32)
	for raw, info := range registry {
		combined[raw] = raw
		if info.HighestNumber > 0 {
			standard[raw] = raw + "1"
			for n := 1; n <= info.HighestNumber; n++ {
				combined[raw+itoa(n)] = raw
			}
		}
	}
}

func itoa(n int) string {
	// registry suffixes are single digits
	return string(rune('0' + n))
}

// IsValid reports whether marker is in the registry, including numbered
// variants.
func IsValid(marker string) bool {
	_, ok := combined[marker]
	return ok
}

// ToRaw strips any numeric suffix, s1 -> s. The second result is false for
// markers not in the registry.
func ToRaw(marker string) (string, bool) {
	raw, ok := combined[marker]
	return raw, ok
}

// ToStandard canonicalizes a marker: numberable markers gain an explicit
// "1" suffix (s -> s1, q -> q1); everything else is returned unchanged.
// Unknown markers come back unchanged with ok=false.
func ToStandard(marker string) (string, bool) {
	if std, ok := standard[marker]; ok {
		return std, true
	}
	if _, ok := combined[marker]; ok {
		return marker, true
	}
	return marker, false
}

// IsNewline reports whether marker begins a new line of its own.
func IsNewline(marker string) bool {
	raw, ok := combined[marker]
	if !ok {
		return false
	}
	return registry[raw].Newline
}

// IsCharacter reports whether marker is inline character markup.
func IsCharacter(marker string) bool {
	raw, ok := combined[marker]
	if !ok {
		return false
	}
	return registry[raw].Character
}

// IsNote reports whether marker belongs to the footnote/cross-reference
// family.
func IsNote(marker string) bool {
	raw, ok := combined[marker]
	if !ok {
		return false
	}
	return registry[raw].Note
}

// IsNumberable reports whether marker takes numbered variants.
func IsNumberable(marker string) bool {
	raw, ok := combined[marker]
	if !ok {
		return false
	}
	return registry[raw].HighestNumber > 0
}

// HighestNumber returns the highest numbered variant for marker, 0 when it
// is not numberable or not known.
func HighestNumber(marker string) int {
	raw, ok := combined[marker]
	if !ok {
		return 0
	}
	return registry[raw].HighestNumber
}

// Content returns the marker's content type. Unknown markers report
// ContentSometimes so the caller never drops text it cannot classify.
func Content(marker string) ContentType {
	raw, ok := combined[marker]
	if !ok {
		return ContentSometimes
	}
	return registry[raw].Content
}

// Closure returns the marker's closure type. Unknown markers report
// ClosureNever.
func Closure(marker string) ClosureType {
	raw, ok := combined[marker]
	if !ok {
		return ClosureNever
	}
	return registry[raw].Closure
}

// CharacterMarkers returns the sorted list of inline character markers,
// raw forms only.
func CharacterMarkers() []string {
	var out []string
	for raw, info := range registry {
		if info.Character {
			out = append(out, raw)
		}
	}
	sort.Strings(out)
	return out
}

// NewlineMarkers returns the sorted list of newline markers including the
// numbered variants (q, q1..q4, ...).
func NewlineMarkers() []string {
	var out []string
	for raw, info := range registry {
		if !info.Newline {
			continue
		}
		out = append(out, raw)
		for n := 1; n <= info.HighestNumber; n++ {
			out = append(out, raw+itoa(n))
		}
	}
	sort.Strings(out)
	return out
}

// Close returns the synthetic close marker for an open marker: c -> ¬c.
func Close(marker string) string {
	return closePrefix + marker
}

// IsClose reports whether marker is a synthetic close marker.
func IsClose(marker string) bool {
	return strings.HasPrefix(marker, closePrefix)
}

// Opened returns the marker a close marker closes: ¬c -> c. Non-close
// markers come back unchanged.
func Opened(marker string) string {
	return strings.TrimPrefix(marker, closePrefix)
}

const closePrefix = "¬"
