package index

import (
	"reflect"
	"testing"

	"github.com/FocuswithJustin/CedarBible/core/entry"
	cedarerrors "github.com/FocuswithJustin/CedarBible/core/errors"
	"github.com/FocuswithJustin/CedarBible/core/ref"
)

// mk builds a processed entry list from alternating marker/text pairs.
func mk(pairs ...string) entry.List {
	if len(pairs)%2 != 0 {
		panic("mk: odd number of arguments")
	}
	out := make(entry.List, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, entry.Entry{
			Marker:         pairs[i],
			OriginalMarker: pairs[i],
			AdjustedText:   pairs[i+1],
			CleanText:      pairs[i+1],
			OriginalText:   pairs[i+1],
		})
	}
	return out
}

func twoChapterBook() entry.List {
	return mk(
		"id", "MAT",
		"headers", "",
		"h", "Matthew",
		"¬headers", "",
		"chapters", "",
		"c", "1",
		"c#", "1",
		"s1", "Genealogy",
		"p", "",
		"v", "1",
		"v~", "The record of the genealogy.",
		"¬v", "",
		"v", "2",
		"v~", "Abraham was the father of Isaac.",
		"¬v", "",
		"¬p", "",
		"¬s1", "",
		"¬c", "",
		"c", "2",
		"c#", "2",
		"p", "",
		"v", "1",
		"v~", "After Jesus was born.",
		"¬v", "",
		"¬p", "",
		"¬c", "",
		"¬chapters", "",
	)
}

func bridgeBook() entry.List {
	return mk(
		"id", "JNA",
		"chapters", "",
		"c", "3",
		"c#", "3",
		"p", "",
		"v", "4",
		"v~", "Yet forty days.",
		"¬v", "",
		"v", "5-7",
		"v~", "The people of Nineveh believed God.",
		"¬v", "",
		"¬p", "",
		"¬c", "",
		"¬chapters", "",
	)
}

func TestBuildCVIndexKeys(t *testing.T) {
	idx, err := BuildCVIndex("MAT", "TestWork", twoChapterBook(), true)
	if err != nil {
		t.Fatalf("BuildCVIndex() error = %v", err)
	}

	want := []ref.Key{
		{C: "-1", V: "0"}, {C: "-1", V: "1"}, {C: "-1", V: "2"},
		{C: "-1", V: "3"}, {C: "-1", V: "4"},
		{C: "1", V: "0"}, {C: "1", V: "1"}, {C: "1", V: "2"},
		{C: "2", V: "0"}, {C: "2", V: "1"},
	}
	if got := idx.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
	if idx.Len() != len(want) {
		t.Errorf("Len() = %d, want %d", idx.Len(), len(want))
	}
}

func TestCVIndexSpans(t *testing.T) {
	entries := twoChapterBook()
	idx, err := BuildCVIndex("MAT", "TestWork", entries, true)
	if err != nil {
		t.Fatalf("BuildCVIndex() error = %v", err)
	}

	tests := []struct {
		key        ref.Key
		wantIx     int
		wantCount  int
		wantMarker string
	}{
		{ref.Key{C: "-1", V: "0"}, 0, 1, "id"},
		{ref.Key{C: "1", V: "0"}, 5, 1, "c"},
		{ref.Key{C: "1", V: "1"}, 6, 6, "c#"}, // c#, s1 and p pulled back into the verse
		{ref.Key{C: "1", V: "2"}, 12, 6, "v"},
		{ref.Key{C: "2", V: "0"}, 18, 1, "c"},
		{ref.Key{C: "2", V: "1"}, 19, 8, "c#"},
	}
	for _, tt := range tests {
		e, ok := idx.LookupExact(tt.key)
		if !ok {
			t.Errorf("LookupExact(%v) not found", tt.key)
			continue
		}
		if e.EntryIndex() != tt.wantIx || e.EntryCount() != tt.wantCount {
			t.Errorf("LookupExact(%v) = (ix=%d, count=%d), want (ix=%d, count=%d)",
				tt.key, e.EntryIndex(), e.EntryCount(), tt.wantIx, tt.wantCount)
		}
		if m := entries[e.EntryIndex()].Marker; m != tt.wantMarker {
			t.Errorf("span for %v starts at marker %q, want %q", tt.key, m, tt.wantMarker)
		}
	}
}

func TestCVIndexCoverage(t *testing.T) {
	entries := twoChapterBook()
	idx, err := BuildCVIndex("MAT", "TestWork", entries, true)
	if err != nil {
		t.Fatalf("BuildCVIndex() error = %v", err)
	}

	covered := make([]int, len(entries))
	for _, key := range idx.Keys() {
		e, _ := idx.LookupExact(key)
		for i := e.EntryIndex(); i < e.NextEntryIndex(); i++ {
			covered[i]++
		}
	}
	for i, n := range covered {
		if n != 1 {
			t.Errorf("entry %d (%s) covered %d times, want exactly once", i, entries[i].Marker, n)
		}
	}
}

func TestCVIndexContexts(t *testing.T) {
	idx, err := BuildCVIndex("MAT", "TestWork", twoChapterBook(), true)
	if err != nil {
		t.Fatalf("BuildCVIndex() error = %v", err)
	}

	tests := []struct {
		key  ref.Key
		want []string
	}{
		{ref.Key{C: "-1", V: "0"}, []string{}},
		{ref.Key{C: "-1", V: "2"}, []string{"headers"}},
		{ref.Key{C: "1", V: "0"}, []string{"chapters"}},
		{ref.Key{C: "1", V: "1"}, []string{"chapters", "c"}},
		{ref.Key{C: "1", V: "2"}, []string{"chapters", "c", "s1", "p"}},
		{ref.Key{C: "2", V: "1"}, []string{"chapters", "c"}},
	}
	for _, tt := range tests {
		e, ok := idx.LookupExact(tt.key)
		if !ok {
			t.Fatalf("LookupExact(%v) not found", tt.key)
		}
		if got := e.Context(); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Context(%v) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestCVIndexBridgeLookup(t *testing.T) {
	idx, err := BuildCVIndex("JNA", "TestWork", bridgeBook(), true)
	if err != nil {
		t.Fatalf("BuildCVIndex() error = %v", err)
	}

	if !idx.Contains(ref.Key{C: "3", V: "5-7"}) {
		t.Fatal("bridged key 3:5-7 missing from index")
	}
	if idx.Contains(ref.Key{C: "3", V: "6"}) {
		t.Fatal("unexpected exact key 3:6 in index")
	}

	// Non-strict lookup resolves a verse inside the bridge.
	got, err := idx.GetVerseEntries(ref.Key{C: "3", V: "6"}, false)
	if err != nil {
		t.Fatalf("GetVerseEntries(3:6, strict=false) error = %v", err)
	}
	want, err := idx.GetVerseEntries(ref.Key{C: "3", V: "5-7"}, true)
	if err != nil {
		t.Fatalf("GetVerseEntries(3:5-7, strict=true) error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("bridge fallback returned %d entries, want the 3:5-7 span of %d", len(got), len(want))
	}

	// Strict lookup must fail with a not-found error.
	if _, err := idx.GetVerseEntries(ref.Key{C: "3", V: "6"}, true); !cedarerrors.Is(err, cedarerrors.ErrNotFound) {
		t.Errorf("GetVerseEntries(3:6, strict=true) error = %v, want ErrNotFound", err)
	}
}

func TestCVIndexSuffixFallback(t *testing.T) {
	entries := mk(
		"c", "4",
		"v", "8b",
		"v~", "second half of the verse",
	)
	idx, err := BuildCVIndex("GEN", "TestWork", entries, false)
	if err != nil {
		t.Fatalf("BuildCVIndex() error = %v", err)
	}

	// Asking for the suffixed label when only the plain key exists would be
	// the usual direction, but the index stores labels verbatim: the plain
	// query falls back onto 4:8b via the chapter scan.
	if _, err := idx.GetVerseEntries(ref.Key{C: "4", V: "8"}, false); err != nil {
		t.Errorf("GetVerseEntries(4:8, strict=false) error = %v", err)
	}
	if _, err := idx.LookupWithFallback(ref.Key{C: "4", V: "8c"}); err != nil {
		t.Errorf("LookupWithFallback(4:8c) error = %v", err)
	}
}

func TestCVIndexDuplicateKeysMerged(t *testing.T) {
	entries := mk(
		"c", "1",
		"v", "1",
		"v~", "first copy",
		"v", "1",
		"v~", "second copy",
	)
	idx, err := BuildCVIndex("GEN", "TestWork", entries, false)
	if err != nil {
		t.Fatalf("BuildCVIndex() error = %v", err)
	}

	e, ok := idx.LookupExact(ref.Key{C: "1", V: "1"})
	if !ok {
		t.Fatal("merged key 1:1 missing from index")
	}
	if e.EntryIndex() != 1 || e.EntryCount() != 4 {
		t.Errorf("merged entry = (ix=%d, count=%d), want (ix=1, count=4)", e.EntryIndex(), e.EntryCount())
	}
	want := []ref.Key{{C: "1", V: "0"}, {C: "1", V: "1"}}
	if got := idx.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestCVIndexCompleteLookup(t *testing.T) {
	idx, err := BuildCVIndex("JNA", "TestWork", bridgeBook(), true)
	if err != nil {
		t.Fatalf("BuildCVIndex() error = %v", err)
	}

	entries, context, err := idx.GetVerseEntriesWithContext(ref.Key{C: "3", V: "5"}, false, true)
	if err != nil {
		t.Fatalf("GetVerseEntriesWithContext(3:5, complete) error = %v", err)
	}
	if len(entries) == 0 || entries[0].Marker != "v" || entries[0].CleanText != "5-7" {
		t.Errorf("complete lookup entries start with %v, want the 5-7 verse marker", entries[0])
	}
	if want := []string{"chapters", "c", "p"}; !reflect.DeepEqual(context, want) {
		t.Errorf("complete lookup context = %v, want %v", context, want)
	}

	if _, _, err := idx.GetVerseEntriesWithContext(ref.Key{C: "3", V: "99"}, false, true); !cedarerrors.Is(err, cedarerrors.ErrNotFound) {
		t.Errorf("GetVerseEntriesWithContext(3:99) error = %v, want ErrNotFound", err)
	}
}

func TestCVIndexChapterLookup(t *testing.T) {
	entries := bridgeBook()
	idx, err := BuildCVIndex("JNA", "TestWork", entries, true)
	if err != nil {
		t.Fatalf("BuildCVIndex() error = %v", err)
	}

	got, context, err := idx.GetChapterEntriesWithContext("3")
	if err != nil {
		t.Fatalf("GetChapterEntriesWithContext(3) error = %v", err)
	}
	// Everything from the c marker to the end of the book: there is no
	// following chapter.
	if len(got) != len(entries)-2 {
		t.Errorf("chapter 3 has %d entries, want %d", len(got), len(entries)-2)
	}
	if got[0].Marker != "c" {
		t.Errorf("chapter 3 starts with %q, want c", got[0].Marker)
	}
	if want := []string{"chapters"}; !reflect.DeepEqual(context, want) {
		t.Errorf("chapter 3 context = %v, want %v", context, want)
	}

	intro, _, err := idx.GetChapterEntriesWithContext("-1")
	if err != nil {
		t.Fatalf("GetChapterEntriesWithContext(-1) error = %v", err)
	}
	if len(intro) != 2 {
		t.Errorf("introduction has %d entries, want 2", len(intro))
	}

	if _, _, err := idx.GetChapterEntriesWithContext("9"); !cedarerrors.Is(err, cedarerrors.ErrNotFound) {
		t.Errorf("GetChapterEntriesWithContext(9) error = %v, want ErrNotFound", err)
	}
}

func TestCVIndexVerseDataRange(t *testing.T) {
	idx, err := BuildCVIndex("JNA", "TestWork", bridgeBook(), true)
	if err != nil {
		t.Fatalf("BuildCVIndex() error = %v", err)
	}

	got, err := idx.GetContextVerseDataRange(ref.Key{C: "3", V: "4"}, ref.Key{C: "3", V: "5"}, false)
	if err != nil {
		t.Fatalf("GetContextVerseDataRange(3:4-3:5) error = %v", err)
	}
	// Verse 4 spans five entries, the 5-7 bridge six.
	if len(got) != 11 {
		t.Errorf("range query returned %d entries, want 11", len(got))
	}

	// Strict mode surfaces the gap at a verse that does not exist.
	if _, err := idx.GetContextVerseDataRange(ref.Key{C: "3", V: "1"}, ref.Key{C: "3", V: "4"}, true); !cedarerrors.Is(err, cedarerrors.ErrNotFound) {
		t.Errorf("strict range over missing verses error = %v, want ErrNotFound", err)
	}
}

func TestCVIndexVerseDataRangeRollsChapters(t *testing.T) {
	idx, err := BuildCVIndex("MAT", "TestWork", twoChapterBook(), true)
	if err != nil {
		t.Fatalf("BuildCVIndex() error = %v", err)
	}

	got, err := idx.GetContextVerseDataRange(ref.Key{C: "1", V: "2"}, ref.Key{C: "2", V: "1"}, true)
	if err != nil {
		t.Fatalf("GetContextVerseDataRange(1:2-2:1) error = %v", err)
	}
	// 1:2 spans six entries, 2:1 eight.
	if len(got) != 14 {
		t.Errorf("cross-chapter range returned %d entries, want 14", len(got))
	}
}

func TestCVIndexCheckCatchesMisfiledChapter(t *testing.T) {
	entries := mk(
		"c", "1",
		"c#", "2", // display number disagrees with the chapter
		"v", "1",
		"v~", "text",
	)
	idx, err := BuildCVIndex("GEN", "TestWork", entries, false)
	if err != nil {
		t.Fatalf("BuildCVIndex() error = %v", err)
	}
	if err := idx.Check(); err == nil {
		t.Error("Check() = nil, want misfiled chapter error")
	}
}
