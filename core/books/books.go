// Package books provides the Bible book-code registry: reference numbers,
// USFM abbreviations, English names, and per-book structural facts needed
// by the indexing pipeline. The registry is a process-wide singleton
// loaded once and safe for concurrent reads.
package books

import (
	"sync"

	"github.com/FocuswithJustin/CedarBible/core/errors"
)

// bookInfo is one registry row.
type bookInfo struct {
	referenceNumber int    // canonical ordering number (GEN=1 ... REV=66)
	usfmAbbrev      string // abbreviation used in USFM \id lines
	usfmNumber      string // two-digit USFM file-number prefix
	englishName     string
	singleChapter   bool
}

// Codes is the loaded registry. Obtain it with LoadData.
type Codes struct {
	byBBB  map[string]bookInfo
	byUSFM map[string]string // USFM abbreviation -> BBB
}

var (
	loadOnce sync.Once
	loaded   *Codes
)

// LoadData returns the singleton registry, loading it on first call.
func LoadData() *Codes {
	loadOnce.Do(func() {
		c := &Codes{
			byBBB:  bookTable,
			byUSFM: make(map[string]string, len(bookTable)),
		}
		for bbb, info := range bookTable {
			c.byUSFM[info.usfmAbbrev] = bbb
		}
		loaded = c
	})
	return loaded
}

// IsValidBBB reports whether BBB is a known book code.
func (c *Codes) IsValidBBB(bbb string) bool {
	_, ok := c.byBBB[bbb]
	return ok
}

// ReferenceNumber returns the canonical ordering number for BBB.
func (c *Codes) ReferenceNumber(bbb string) (int, error) {
	info, ok := c.byBBB[bbb]
	if !ok {
		return 0, errors.NewNotFound("book code", bbb)
	}
	return info.referenceNumber, nil
}

// FromUSFM maps a USFM \id abbreviation (e.g. "1SA") to its BBB ("SA1").
func (c *Codes) FromUSFM(abbrev string) (string, error) {
	bbb, ok := c.byUSFM[abbrev]
	if !ok {
		return "", errors.NewNotFound("USFM book abbreviation", abbrev)
	}
	return bbb, nil
}

// USFMAbbreviation returns the USFM \id abbreviation for BBB.
func (c *Codes) USFMAbbreviation(bbb string) (string, error) {
	info, ok := c.byBBB[bbb]
	if !ok {
		return "", errors.NewNotFound("book code", bbb)
	}
	return info.usfmAbbrev, nil
}

// USFMNumber returns the two-digit USFM file-number string for BBB.
func (c *Codes) USFMNumber(bbb string) (string, error) {
	info, ok := c.byBBB[bbb]
	if !ok {
		return "", errors.NewNotFound("book code", bbb)
	}
	return info.usfmNumber, nil
}

// EnglishName returns a typical English name for BBB, or BBB itself when
// the code is unknown.
func (c *Codes) EnglishName(bbb string) string {
	if info, ok := c.byBBB[bbb]; ok {
		return info.englishName
	}
	return bbb
}

// IsSingleChapterBook reports whether BBB contains exactly one chapter.
func (c *Codes) IsSingleChapterBook(bbb string) bool {
	info, ok := c.byBBB[bbb]
	return ok && info.singleChapter
}

// ContinuesThroughChapters reports whether the book's storyline runs
// across chapter boundaries. Books like Psalms, where each chapter is an
// independent unit, report false.
func (c *Codes) ContinuesThroughChapters(bbb string) bool {
	switch bbb {
	case "PSA", "PS2", "LAM":
		return false
	}
	return true
}

// IsNonChapterBook reports peripheral book codes (front matter, glossary,
// concordance, ...) that have no chapter/verse structure and therefore get
// no section index.
func (c *Codes) IsNonChapterBook(bbb string) bool {
	_, ok := nonChapterBooks[bbb]
	return ok
}

// nonChapterBooks are peripheral sections without CV structure.
var nonChapterBooks = map[string]struct{}{
	"FRT": {}, "PRF": {}, "ACK": {}, "INT": {}, "TOC": {}, "GLS": {},
	"CNC": {}, "NDX": {}, "TDX": {}, "BAK": {}, "OTH": {},
	"XXA": {}, "XXB": {}, "XXC": {}, "XXD": {}, "XXE": {}, "XXF": {}, "XXG": {},
}

// bookTable holds the 66 canonical books. BBB codes put the number last
// (SA1, CO2) so every code is a legal identifier prefix; USFM abbreviations
// put it first (1SA, 2CO).
var bookTable = map[string]bookInfo{
	"GEN": {1, "GEN", "01", "Genesis", false},
	"EXO": {2, "EXO", "02", "Exodus", false},
	"LEV": {3, "LEV", "03", "Leviticus", false},
	"NUM": {4, "NUM", "04", "Numbers", false},
	"DEU": {5, "DEU", "05", "Deuteronomy", false},
	"JOS": {6, "JOS", "06", "Joshua", false},
	"JDG": {7, "JDG", "07", "Judges", false},
	"RUT": {8, "RUT", "08", "Ruth", false},
	"SA1": {9, "1SA", "09", "1 Samuel", false},
	"SA2": {10, "2SA", "10", "2 Samuel", false},
	"KI1": {11, "1KI", "11", "1 Kings", false},
	"KI2": {12, "2KI", "12", "2 Kings", false},
	"CH1": {13, "1CH", "13", "1 Chronicles", false},
	"CH2": {14, "2CH", "14", "2 Chronicles", false},
	"EZR": {15, "EZR", "15", "Ezra", false},
	"NEH": {16, "NEH", "16", "Nehemiah", false},
	"EST": {17, "EST", "17", "Esther", false},
	"JOB": {18, "JOB", "18", "Job", false},
	"PSA": {19, "PSA", "19", "Psalms", false},
	"PRO": {20, "PRO", "20", "Proverbs", false},
	"ECC": {21, "ECC", "21", "Ecclesiastes", false},
	"SNG": {22, "SNG", "22", "Song of Songs", false},
	"ISA": {23, "ISA", "23", "Isaiah", false},
	"JER": {24, "JER", "24", "Jeremiah", false},
	"LAM": {25, "LAM", "25", "Lamentations", false},
	"EZE": {26, "EZK", "26", "Ezekiel", false},
	"DAN": {27, "DAN", "27", "Daniel", false},
	"HOS": {28, "HOS", "28", "Hosea", false},
	"JOL": {29, "JOL", "29", "Joel", false},
	"AMO": {30, "AMO", "30", "Amos", false},
	"OBA": {31, "OBA", "31", "Obadiah", true},
	"JNA": {32, "JON", "32", "Jonah", false},
	"MIC": {33, "MIC", "33", "Micah", false},
	"NAH": {34, "NAM", "34", "Nahum", false},
	"HAB": {35, "HAB", "35", "Habakkuk", false},
	"ZEP": {36, "ZEP", "36", "Zephaniah", false},
	"HAG": {37, "HAG", "37", "Haggai", false},
	"ZEC": {38, "ZEC", "38", "Zechariah", false},
	"MAL": {39, "MAL", "39", "Malachi", false},
	"MAT": {40, "MAT", "41", "Matthew", false},
	"MRK": {41, "MRK", "42", "Mark", false},
	"LUK": {42, "LUK", "43", "Luke", false},
	"JHN": {43, "JHN", "44", "John", false},
	"ACT": {44, "ACT", "45", "Acts", false},
	"ROM": {45, "ROM", "46", "Romans", false},
	"CO1": {46, "1CO", "47", "1 Corinthians", false},
	"CO2": {47, "2CO", "48", "2 Corinthians", false},
	"GAL": {48, "GAL", "49", "Galatians", false},
	"EPH": {49, "EPH", "50", "Ephesians", false},
	"PHP": {50, "PHP", "51", "Philippians", false},
	"COL": {51, "COL", "52", "Colossians", false},
	"TH1": {52, "1TH", "53", "1 Thessalonians", false},
	"TH2": {53, "2TH", "54", "2 Thessalonians", false},
	"TI1": {54, "1TI", "55", "1 Timothy", false},
	"TI2": {55, "2TI", "56", "2 Timothy", false},
	"TIT": {56, "TIT", "57", "Titus", false},
	"PHM": {57, "PHM", "58", "Philemon", true},
	"HEB": {58, "HEB", "59", "Hebrews", false},
	"JAM": {59, "JAS", "60", "James", false},
	"PE1": {60, "1PE", "61", "1 Peter", false},
	"PE2": {61, "2PE", "62", "2 Peter", false},
	"JN1": {62, "1JN", "63", "1 John", false},
	"JN2": {63, "2JN", "64", "2 John", true},
	"JN3": {64, "3JN", "65", "3 John", true},
	"JDE": {65, "JUD", "66", "Jude", true},
	"REV": {66, "REV", "67", "Revelation", false},
}
