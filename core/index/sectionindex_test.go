package index

import (
	"reflect"
	"testing"

	cedarerrors "github.com/FocuswithJustin/CedarBible/core/errors"
	"github.com/FocuswithJustin/CedarBible/core/ref"
)

func TestSectionIndexByChapter(t *testing.T) {
	// Jonah has no section headings, so every chapter becomes its own
	// section named after the book.
	entries := mk(
		"id", "JNA",
		"ip", "Jonah ran from God.",
		"chapters", "",
		"c", "1",
		"c#", "1",
		"p", "",
		"v", "1",
		"v~", "The word of the LORD came to Jonah.",
		"¬v", "",
		"v", "2",
		"v~", "Go to the great city of Nineveh.",
		"¬v", "",
		"¬p", "",
		"¬c", "",
		"c", "2",
		"c#", "2",
		"p", "",
		"v", "1",
		"v~", "From inside the fish Jonah prayed.",
		"¬v", "",
		"¬p", "",
		"¬c", "",
		"¬chapters", "",
	)
	idx, err := BuildSectionIndex("JNA", "TestWork", entries, false, "Jonah", true)
	if err != nil {
		t.Fatalf("BuildSectionIndex() error = %v", err)
	}

	want := []ref.Key{{C: "-1", V: "0"}, {C: "1", V: "1"}, {C: "2", V: "1"}}
	if got := idx.Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}

	intro, _ := idx.LookupExact(ref.Key{C: "-1", V: "0"})
	if intro.ReasonMarker() != "Intro" || intro.StartIndex() != 0 || intro.EndIndex() != 2 {
		t.Errorf("intro section = %v, want Intro spanning entries 0-2", intro)
	}

	one, _ := idx.LookupExact(ref.Key{C: "1", V: "1"})
	if one.SectionName() != "Jonah 1" || one.ReasonMarker() != "c" {
		t.Errorf("chapter 1 section = %v, want c=%q", one, "Jonah 1")
	}
	if one.StartIndex() != 3 || one.EndIndex() != 13 {
		t.Errorf("chapter 1 section spans %d-%d, want 3-13", one.StartIndex(), one.EndIndex())
	}
	if end := one.EndKey(); end != (ref.Key{C: "1", V: "2"}) {
		t.Errorf("chapter 1 section ends at %v, want 1:2", end)
	}

	two, _ := idx.LookupExact(ref.Key{C: "2", V: "1"})
	if two.SectionName() != "Jonah 2" || two.EndIndex() != len(entries)-1 {
		t.Errorf("chapter 2 section = %v, want %q ending at the last entry", two, "Jonah 2")
	}
}

func TestSectionIndexShortEntryMerge(t *testing.T) {
	// Psalms saves by chapter (each psalm is independent), so each c makes
	// a short boundary that merges into the s1 heading right after it.
	entries := mk(
		"id", "PSA",
		"chapters", "",
		"c", "3",
		"c#", "3",
		"s1", "A morning prayer",
		"p", "",
		"v", "1",
		"v~", "LORD, how many are my foes.",
		"¬v", "",
		"v", "2",
		"v~", "Many are saying of me.",
		"¬v", "",
		"¬p", "",
		"¬s1", "",
		"¬c", "",
		"c", "4",
		"c#", "4",
		"s1", "An evening prayer",
		"p", "",
		"v", "1",
		"v~", "Answer me when I call.",
		"¬v", "",
		"¬p", "",
		"¬s1", "",
		"¬c", "",
		"¬chapters", "",
	)
	idx, err := BuildSectionIndex("PSA", "TestWork", entries, true, "Psalms", true)
	if err != nil {
		t.Fatalf("BuildSectionIndex() error = %v", err)
	}

	want := []ref.Key{{C: "-1", V: "0"}, {C: "3", V: "1"}, {C: "4", V: "1"}}
	if got := idx.Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}

	three, _ := idx.LookupExact(ref.Key{C: "3", V: "1"})
	if three.ReasonMarker() != "c/s1" {
		t.Errorf("merged section reason = %q, want %q", three.ReasonMarker(), "c/s1")
	}
	if three.SectionName() != "Psalms 3/A morning prayer" {
		t.Errorf("merged section name = %q, want %q", three.SectionName(), "Psalms 3/A morning prayer")
	}
	if three.StartIndex() != 2 || three.EndIndex() != 14 {
		t.Errorf("merged section spans %d-%d, want 2-14", three.StartIndex(), three.EndIndex())
	}
	if end := three.EndKey(); end != (ref.Key{C: "3", V: "2"}) {
		t.Errorf("merged section ends at %v, want 3:2", end)
	}

	four, _ := idx.LookupExact(ref.Key{C: "4", V: "1"})
	if four.ReasonMarker() != "c/s1" || four.SectionName() != "Psalms 4/An evening prayer" {
		t.Errorf("second merged section = %v", four)
	}
	if four.StartIndex() != 15 || four.EndIndex() != len(entries)-1 {
		t.Errorf("second merged section spans %d-%d, want 15-%d",
			four.StartIndex(), four.EndIndex(), len(entries)-1)
	}
}

func TestSectionIndexMidVerseSplit(t *testing.T) {
	// A heading between a verse number and its continuation text splits the
	// verse: the first section ends at 2a, the next starts at 2b.
	entries := mk(
		"id", "MAT",
		"chapters", "",
		"c", "1",
		"c#", "1",
		"s1", "First heading",
		"p", "",
		"v", "1",
		"v~", "Verse one.",
		"¬v", "",
		"v", "2",
		"v~", "First half of verse two.",
		"¬p", "",
		"¬s1", "",
		"s1", "Second heading",
		"p", "",
		"p~", "Second half of verse two.",
		"¬v", "",
		"¬p", "",
		"¬s1", "",
		"¬c", "",
		"¬chapters", "",
	)
	idx, err := BuildSectionIndex("MAT", "TestWork", entries, true, "Matthew", true)
	if err != nil {
		t.Fatalf("BuildSectionIndex() error = %v", err)
	}

	want := []ref.Key{{C: "-1", V: "0"}, {C: "1", V: "1"}, {C: "1", V: "2b"}}
	if got := idx.Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}

	first, _ := idx.LookupExact(ref.Key{C: "1", V: "1"})
	if end := first.EndKey(); end != (ref.Key{C: "1", V: "2a"}) {
		t.Errorf("first section ends at %v, want 1:2a", end)
	}
	second, _ := idx.LookupExact(ref.Key{C: "1", V: "2b"})
	if second.SectionName() != "Second heading" || second.ReasonMarker() != "s1" {
		t.Errorf("second section = %v", second)
	}
}

func TestSectionIndexBridgeTruncation(t *testing.T) {
	// A bridged end verse keeps the second number of the bridge.
	entries := mk(
		"id", "JNA",
		"chapters", "",
		"c", "1",
		"c#", "1",
		"p", "",
		"v", "1-2",
		"v~", "Bridged opening.",
		"¬v", "",
		"¬p", "",
		"¬c", "",
		"¬chapters", "",
	)
	idx, err := BuildSectionIndex("JNA", "TestWork", entries, false, "Jonah", true)
	if err != nil {
		t.Fatalf("BuildSectionIndex() error = %v", err)
	}

	// The bridged label is skipped by the start-verse adjustment, so the
	// chapter section keeps its verse-0 start; only the end is truncated
	// to the second number of the bridge.
	key := ref.Key{C: "1", V: "0"}
	e, ok := idx.LookupExact(key)
	if !ok {
		t.Fatalf("Keys() = %v, want a section at %v", idx.Keys(), key)
	}
	if end := e.EndKey(); end != (ref.Key{C: "1", V: "2"}) {
		t.Errorf("bridged section ends at %v, want 1:2", end)
	}
}

func TestSectionIndexNonChapterBook(t *testing.T) {
	entries := mk("id", "FRT", "ip", "Front matter text.")
	idx, err := BuildSectionIndex("FRT", "TestWork", entries, false, "Front Matter", true)
	if err != nil {
		t.Fatalf("BuildSectionIndex() error = %v", err)
	}
	if idx.Len() != 0 {
		t.Errorf("Len() = %d, want 0 for a non-chapter book", idx.Len())
	}
}

func TestSectionIndexLookups(t *testing.T) {
	entries := mk(
		"id", "JNA",
		"chapters", "",
		"c", "1",
		"c#", "1",
		"p", "",
		"v", "1",
		"v~", "The word of the LORD.",
		"¬v", "",
		"¬p", "",
		"¬c", "",
		"¬chapters", "",
	)
	idx, err := BuildSectionIndex("JNA", "TestWork", entries, false, "Jonah", true)
	if err != nil {
		t.Fatalf("BuildSectionIndex() error = %v", err)
	}

	key := ref.Key{C: "1", V: "1"}
	got, context, err := idx.GetSectionEntriesWithContext(key)
	if err != nil {
		t.Fatalf("GetSectionEntriesWithContext(%v) error = %v", key, err)
	}
	if got[0].Marker != "c" || got[len(got)-1].Marker != "¬chapters" {
		t.Errorf("section spans %q..%q, want c..¬chapters", got[0].Marker, got[len(got)-1].Marker)
	}
	if want := []string{"chapters"}; !reflect.DeepEqual(context, want) {
		t.Errorf("section context = %v, want %v", context, want)
	}

	if _, err := idx.GetSectionEntries(ref.Key{C: "7", V: "7"}); !cedarerrors.Is(err, cedarerrors.ErrNotFound) {
		t.Errorf("GetSectionEntries(7:7) error = %v, want ErrNotFound", err)
	}
}

func TestSectionIndexMonotonicSpans(t *testing.T) {
	entries := mk(
		"id", "PSA",
		"chapters", "",
		"c", "3",
		"c#", "3",
		"s1", "A morning prayer",
		"p", "",
		"v", "1",
		"v~", "Text.",
		"¬v", "",
		"¬p", "",
		"¬s1", "",
		"¬c", "",
		"c", "4",
		"c#", "4",
		"p", "",
		"v", "1",
		"v~", "Text.",
		"¬v", "",
		"¬p", "",
		"¬c", "",
		"¬chapters", "",
	)
	idx, err := BuildSectionIndex("PSA", "TestWork", entries, true, "Psalms", true)
	if err != nil {
		t.Fatalf("BuildSectionIndex() error = %v", err)
	}

	keys := idx.Keys()
	for i := 1; i < len(keys); i++ {
		prev, _ := idx.LookupExact(keys[i-1])
		cur, _ := idx.LookupExact(keys[i])
		if prev.EndIndex() > cur.StartIndex() {
			t.Errorf("section %v (ends %d) overlaps section %v (starts %d)",
				keys[i-1], prev.EndIndex(), keys[i], cur.StartIndex())
		}
		if cur.EndIndex() < cur.StartIndex() {
			t.Errorf("section %v has end %d before start %d", keys[i], cur.EndIndex(), cur.StartIndex())
		}
	}
}
