package marker

// rawTable is the static registry data, keyed by raw (unnumbered) marker.
// Derived lookup maps are built from it once at init.
var rawTable = map[string]Info{
	// Identification and headers
	"id":   {Newline: true, Content: ContentAlways, Closure: ClosureNever},
	"usfm": {Newline: true, Content: ContentAlways, Closure: ClosureNever},
	"ide":  {Newline: true, Content: ContentAlways, Closure: ClosureNever},
	"sts":  {Newline: true, Content: ContentAlways, Closure: ClosureNever},
	"rem":  {Newline: true, Content: ContentAlways, Closure: ClosureNever},
	"h":    {Newline: true, Content: ContentAlways, Closure: ClosureNever},
	"toc":  {Newline: true, HighestNumber: 3, Content: ContentAlways, Closure: ClosureNever},
	"toca": {Newline: true, HighestNumber: 3, Content: ContentAlways, Closure: ClosureNever},

	// Titles
	"mt":   {Newline: true, HighestNumber: 4, Content: ContentAlways, Closure: ClosureNever},
	"mte":  {Newline: true, HighestNumber: 4, Content: ContentAlways, Closure: ClosureNever},
	"imt":  {Newline: true, HighestNumber: 4, Content: ContentAlways, Closure: ClosureNever},
	"imte": {Newline: true, HighestNumber: 4, Content: ContentAlways, Closure: ClosureNever},

	// Introduction
	"is":  {Newline: true, HighestNumber: 4, Content: ContentAlways, Closure: ClosureNever},
	"ip":  {Newline: true, Content: ContentAlways, Closure: ClosureNever},
	"ipi": {Newline: true, Content: ContentAlways, Closure: ClosureNever},
	"im":  {Newline: true, Content: ContentAlways, Closure: ClosureNever},
	"imi": {Newline: true, Content: ContentAlways, Closure: ClosureNever},
	"ipq": {Newline: true, Content: ContentAlways, Closure: ClosureNever},
	"imq": {Newline: true, Content: ContentAlways, Closure: ClosureNever},
	"ipr": {Newline: true, Content: ContentAlways, Closure: ClosureNever},
	"iq":  {Newline: true, HighestNumber: 4, Content: ContentAlways, Closure: ClosureNever},
	"ib":  {Newline: true, Content: ContentNever, Closure: ClosureNever},
	"ili": {Newline: true, HighestNumber: 4, Content: ContentAlways, Closure: ClosureNever},
	"iot": {Newline: true, Content: ContentAlways, Closure: ClosureNever},
	"io":  {Newline: true, HighestNumber: 4, Content: ContentAlways, Closure: ClosureNever},
	"iex": {Newline: true, Content: ContentAlways, Closure: ClosureNever},
	"ie":  {Newline: true, Content: ContentNever, Closure: ClosureNever},
	"iqt": {Character: true, Content: ContentAlways, Closure: ClosureAlways},

	// Chapters and verses
	"c":  {Newline: true, Content: ContentAlways, Closure: ClosureNever},
	"ca": {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"cl": {Newline: true, Content: ContentAlways, Closure: ClosureNever},
	"cp": {Newline: true, Content: ContentAlways, Closure: ClosureNever},
	"cd": {Newline: true, Content: ContentAlways, Closure: ClosureNever},
	"v":  {Newline: true, Content: ContentAlways, Closure: ClosureNever},
	"va": {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"vp": {Character: true, Content: ContentAlways, Closure: ClosureAlways},

	// Headings
	"s":  {Newline: true, HighestNumber: 4, Content: ContentAlways, Closure: ClosureNever},
	"sr": {Newline: true, Content: ContentAlways, Closure: ClosureNever},
	"r":  {Newline: true, Content: ContentAlways, Closure: ClosureNever},
	"d":  {Newline: true, Content: ContentAlways, Closure: ClosureNever},
	"sp": {Newline: true, Content: ContentAlways, Closure: ClosureNever},
	"ms": {Newline: true, HighestNumber: 4, Content: ContentAlways, Closure: ClosureNever},
	"mr": {Newline: true, Content: ContentAlways, Closure: ClosureNever},
	"qa": {Newline: true, Content: ContentAlways, Closure: ClosureNever},

	// Paragraphs
	"p":   {Newline: true, Content: ContentSometimes, Closure: ClosureNever},
	"m":   {Newline: true, Content: ContentSometimes, Closure: ClosureNever},
	"po":  {Newline: true, Content: ContentSometimes, Closure: ClosureNever},
	"pr":  {Newline: true, Content: ContentAlways, Closure: ClosureNever},
	"cls": {Newline: true, Content: ContentAlways, Closure: ClosureNever},
	"pmo": {Newline: true, Content: ContentSometimes, Closure: ClosureNever},
	"pm":  {Newline: true, Content: ContentSometimes, Closure: ClosureNever},
	"pmc": {Newline: true, Content: ContentSometimes, Closure: ClosureNever},
	"pmr": {Newline: true, Content: ContentSometimes, Closure: ClosureNever},
	"pi":  {Newline: true, HighestNumber: 4, Content: ContentSometimes, Closure: ClosureNever},
	"mi":  {Newline: true, Content: ContentSometimes, Closure: ClosureNever},
	"nb":  {Newline: true, Content: ContentNever, Closure: ClosureNever},
	"pc":  {Newline: true, Content: ContentAlways, Closure: ClosureNever},
	"ph":  {Newline: true, HighestNumber: 4, Content: ContentSometimes, Closure: ClosureNever},
	"b":   {Newline: true, Content: ContentNever, Closure: ClosureNever},

	// Poetry
	"q":   {Newline: true, HighestNumber: 4, Content: ContentSometimes, Closure: ClosureNever},
	"qr":  {Newline: true, Content: ContentAlways, Closure: ClosureNever},
	"qc":  {Newline: true, Content: ContentAlways, Closure: ClosureNever},
	"qm":  {Newline: true, HighestNumber: 4, Content: ContentSometimes, Closure: ClosureNever},
	"qd":  {Newline: true, Content: ContentAlways, Closure: ClosureNever},
	"qs":  {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"qac": {Character: true, Content: ContentAlways, Closure: ClosureAlways},

	// Lists
	"lh":   {Newline: true, Content: ContentAlways, Closure: ClosureNever},
	"li":   {Newline: true, HighestNumber: 4, Content: ContentSometimes, Closure: ClosureNever},
	"lf":   {Newline: true, Content: ContentAlways, Closure: ClosureNever},
	"lim":  {Newline: true, HighestNumber: 4, Content: ContentSometimes, Closure: ClosureNever},
	"litl": {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"lik":  {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"liv":  {Character: true, HighestNumber: 5, Content: ContentAlways, Closure: ClosureAlways},

	// Tables
	"tr":  {Newline: true, Content: ContentSometimes, Closure: ClosureNever},
	"th":  {Character: true, HighestNumber: 4, Content: ContentSometimes, Closure: ClosureNever},
	"thr": {Character: true, HighestNumber: 4, Content: ContentSometimes, Closure: ClosureNever},
	"tc":  {Character: true, HighestNumber: 4, Content: ContentSometimes, Closure: ClosureNever},
	"tcr": {Character: true, HighestNumber: 4, Content: ContentSometimes, Closure: ClosureNever},

	// Footnotes, endnotes, cross-references
	"f":   {Note: true, Content: ContentAlways, Closure: ClosureAlways},
	"fe":  {Note: true, Content: ContentAlways, Closure: ClosureAlways},
	"ef":  {Note: true, Content: ContentAlways, Closure: ClosureAlways},
	"x":   {Note: true, Content: ContentAlways, Closure: ClosureAlways},
	"ex":  {Note: true, Content: ContentAlways, Closure: ClosureAlways},
	"fig": {Note: true, Content: ContentAlways, Closure: ClosureAlways},

	// Note-internal markers
	"fr":  {Note: true, Content: ContentAlways, Closure: ClosureNever},
	"ft":  {Note: true, Content: ContentAlways, Closure: ClosureNever},
	"fk":  {Note: true, Content: ContentAlways, Closure: ClosureNever},
	"fq":  {Note: true, Content: ContentAlways, Closure: ClosureNever},
	"fqa": {Note: true, Content: ContentAlways, Closure: ClosureNever},
	"fl":  {Note: true, Content: ContentAlways, Closure: ClosureNever},
	"fw":  {Note: true, Content: ContentAlways, Closure: ClosureNever},
	"fp":  {Note: true, Content: ContentAlways, Closure: ClosureNever},
	"fv":  {Note: true, Content: ContentAlways, Closure: ClosureOptional},
	"fdc": {Note: true, Content: ContentAlways, Closure: ClosureAlways},
	"fm":  {Note: true, Content: ContentAlways, Closure: ClosureAlways},
	"xo":  {Note: true, Content: ContentAlways, Closure: ClosureNever},
	"xk":  {Note: true, Content: ContentAlways, Closure: ClosureNever},
	"xq":  {Note: true, Content: ContentAlways, Closure: ClosureNever},
	"xt":  {Note: true, Content: ContentAlways, Closure: ClosureOptional},
	"xta": {Note: true, Content: ContentAlways, Closure: ClosureNever},
	"xop": {Note: true, Content: ContentAlways, Closure: ClosureOptional},
	"xot": {Note: true, Content: ContentAlways, Closure: ClosureOptional},
	"xnt": {Note: true, Content: ContentAlways, Closure: ClosureOptional},
	"xdc": {Note: true, Content: ContentAlways, Closure: ClosureAlways},

	// Character formatting
	"add":   {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"addpn": {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"bk":    {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"dc":    {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"em":    {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"bd":    {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"it":    {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"bdit":  {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"no":    {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"sc":    {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"sup":   {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"nd":    {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"ord":   {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"pn":    {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"png":   {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"pro":   {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"qt":    {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"rq":    {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"sig":   {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"sls":   {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"tl":    {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"wj":    {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"w":     {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"wa":    {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"wg":    {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"wh":    {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"ndx":   {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"rb":    {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"k":     {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"jmp":   {Character: true, Content: ContentAlways, Closure: ClosureAlways},

	// Sidebars and extended content
	"esb":    {Newline: true, Content: ContentNever, Closure: ClosureNever},
	"esbe":   {Newline: true, Content: ContentNever, Closure: ClosureNever},
	"cat":    {Character: true, Content: ContentAlways, Closure: ClosureAlways},
	"periph": {Newline: true, Content: ContentAlways, Closure: ClosureNever},
}
