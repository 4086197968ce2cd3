package marker

// Synthesized markers added by the line processor and nesting pass. These
// never appear in source files.
const (
	// ChapterText holds note material found after a chapter number.
	ChapterText = "c~"
	// ChapterDisplay is the chapter number as it should be displayed
	// (reflects any cp override).
	ChapterDisplay = "c#"
	// VerseStart announces that a verse will begin after upcoming
	// structural material.
	VerseStart = "v="
	// VerseText is the text of a verse, split from its number.
	VerseText = "v~"
	// ParaText is verse text continuing after a mid-verse paragraph break.
	ParaText = "p~"
	// ChapterLabelPre is a cl marker that appeared before any c marker.
	ChapterLabelPre = "cl¤"
	// VersePrint is the verse number as it should be displayed (vp
	// override), spliced in before the verse entry it modifies.
	VersePrint = "vp#"
)

// Synthesized structural containers opened by the nesting pass.
const (
	Headers  = "headers"
	Intro    = "intro"
	IOT      = "iot"
	IList    = "ilist"
	Chapters = "chapters"
	List     = "list"
)

// set is a string membership set.
type set map[string]struct{}

func makeSet(markers ...string) set {
	s := make(set, len(markers))
	for _, m := range markers {
		s[m] = struct{}{}
	}
	return s
}

func (s set) has(m string) bool {
	_, ok := s[m]
	return ok
}

var (
	headerSet = makeSet("id", "usfm", "ide", "sts", "h",
		"toc1", "toc2", "toc3", "rem", ChapterLabelPre)

	titleSet = makeSet("mt", "mt1", "mt2", "mt3", "mt4",
		"mte", "mte1", "mte2", "mte3", "mte4",
		"imt", "imt1", "imt2", "imt3", "imt4",
		"imte", "imte1", "imte2", "imte3", "imte4")

	introParagraphSet = makeSet("ip", "ipi", "im", "imi", "ipq", "imq", "ipr",
		"iq", "iq1", "iq2", "iq3", "iq4",
		"iot", "io", "io1", "io2", "io3", "io4",
		"ili", "ili1", "ili2", "ili3", "ili4",
		"iex", "iqt")

	introSet = makeSet("imt", "imt1", "imt2", "imt3", "imt4",
		"imte", "imte1", "imte2", "imte3", "imte4",
		"is", "is1", "is2", "is3", "is4",
		"ip", "ipi", "im", "imi", "ipq", "imq", "ipr",
		"iq", "iq1", "iq2", "iq3", "iq4",
		"iot", "io", "io1", "io2", "io3", "io4",
		"ili", "ili1", "ili2", "ili3", "ili4",
		"iex", "iqt")

	headingSet = makeSet("s", "s1", "s2", "s3", "s4",
		"is", "is1", "is2", "is3", "is4", "qa", "qc")

	headingBlockSet = makeSet("ms", "ms1", "ms2", "ms3", "ms4", "mr")

	paragraphSet = makeSet("p", "pc", "pr", "m", "mi",
		"pm", "pmo", "pmc", "pmr", "cls",
		"pi", "pi1", "pi2", "pi3", "pi4",
		"ph", "ph1", "ph2", "ph3", "ph4",
		"q", "q1", "q2", "q3", "q4", "qr",
		"qm", "qm1", "qm2", "qm3", "qm4",
		"li", "li1", "li2", "li3", "li4")

	mainListSet = makeSet("li", "li1", "li2", "li3", "li4",
		"lim", "lim1", "lim2", "lim3", "lim4")

	introListSet = makeSet("ili", "ili1", "ili2", "ili3", "ili4")

	introOutlineSet = makeSet("io", "io1", "io2", "io3", "io4")

	addedContainerSet = makeSet(Headers, Intro, IOT, IList, Chapters, List)

	addedContentSet = makeSet(ChapterText, ChapterDisplay, VerseStart,
		VerseText, ParaText, ChapterLabelPre, VersePrint)
)

// IsHeader reports header-block markers (id, h, toc*, rem, ...).
func IsHeader(m string) bool { return headerSet.has(m) }

// IsTitle reports main/introduction title markers (mt*, imt*, ...).
func IsTitle(m string) bool { return titleSet.has(m) }

// IsIntro reports introduction markers of any kind.
func IsIntro(m string) bool { return introSet.has(m) }

// IsIntroParagraph reports introduction paragraph markers.
func IsIntroParagraph(m string) bool { return introParagraphSet.has(m) }

// IsHeading reports section-heading markers (s*, is*, qa, qc).
func IsHeading(m string) bool { return headingSet.has(m) }

// IsHeadingBlock reports major-section heading markers (ms*, mr) which act
// as genuine multi-entry containers.
func IsHeadingBlock(m string) bool { return headingBlockSet.has(m) }

// IsParagraph reports Bible paragraph/poetry markers.
func IsParagraph(m string) bool { return paragraphSet.has(m) }

// IsMainList reports main-text list member markers (li*, lim*).
func IsMainList(m string) bool { return mainListSet.has(m) }

// IsIntroList reports introduction list member markers (ili*).
func IsIntroList(m string) bool { return introListSet.has(m) }

// IsIntroOutline reports introduction outline entry markers (io*).
func IsIntroOutline(m string) bool { return introOutlineSet.has(m) }

// IsAddedContainer reports the synthesized structural containers.
func IsAddedContainer(m string) bool { return addedContainerSet.has(m) }

// IsAddedContent reports the synthesized content markers (c~, v~, ...).
func IsAddedContent(m string) bool { return addedContentSet.has(m) }

// IsNesting reports markers that participate in the context-marker stack:
// section headings, c, v, paragraph markers, and the synthesized
// containers.
func IsNesting(m string) bool {
	if m == "c" || m == "v" {
		return true
	}
	return headingSet.has(m) || headingBlockSet.has(m) ||
		paragraphSet.has(m) || addedContainerSet.has(m)
}

// IsPreChapter reports markers legitimately occurring before the first
// chapter marker.
func IsPreChapter(m string) bool {
	return headerSet.has(m) || titleSet.has(m) || introSet.has(m) || m == "ie"
}
