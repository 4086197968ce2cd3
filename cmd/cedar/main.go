// Command cedar processes USFM/USX Bible texts into indexed, queryable
// form: verse and chapter lookups, section listings, debug dumps, and
// SQLite exports.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/CedarBible/core/bible"
	"github.com/FocuswithJustin/CedarBible/core/books"
	cedarerrors "github.com/FocuswithJustin/CedarBible/core/errors"
	"github.com/FocuswithJustin/CedarBible/core/ref"
	"github.com/FocuswithJustin/CedarBible/internal/config"
	"github.com/FocuswithJustin/CedarBible/internal/dump"
	"github.com/FocuswithJustin/CedarBible/internal/formats/usfm"
	"github.com/FocuswithJustin/CedarBible/internal/formats/usx"
	"github.com/FocuswithJustin/CedarBible/internal/logging"
	"github.com/FocuswithJustin/CedarBible/internal/sqlite"
)

const version = "0.1.0"

// CLI defines the command-line interface for cedar.
var CLI struct {
	// Global flags
	Config    string `help:"YAML config file path" type:"path"`
	Work      string `help:"Work name recorded in indexes and exports"`
	Format    string `help:"Input format" enum:"auto,usfm,usx" default:"auto"`
	Strict    bool   `help:"Fail on invariant violations and run index self-checks"`
	LogLevel  string `help:"Log level" enum:"debug,info,warn,error" default:"info"`
	LogFormat string `help:"Log output format" enum:"json,text" default:"json"`

	Process  ProcessCmd  `cmd:"" help:"Process an input directory and report notices"`
	Verse    VerseCmd    `cmd:"" help:"Print the text of one verse"`
	Chapter  ChapterCmd  `cmd:"" help:"Print the text of one chapter"`
	Sections SectionsCmd `cmd:"" help:"List the titled sections of a book"`
	Dump     DumpCmd     `cmd:"" help:"Write the per-verse debug dump"`
	Export   ExportGroup `cmd:"" help:"Export processed data"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// loadSettings merges the config file (if any) under the global flags.
func loadSettings() (*config.Config, error) {
	path := CLI.Config
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if CLI.Work != "" {
		cfg.WorkName = CLI.Work
	}
	if cfg.WorkName == "" {
		cfg.WorkName = "unnamed work"
	}
	if CLI.Format != "auto" {
		cfg.Format = CLI.Format
	}
	if CLI.Strict {
		cfg.Strict = true
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = CLI.LogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = CLI.LogFormat
	}
	initLogging(cfg)
	return cfg, nil
}

func initLogging(cfg *config.Config) {
	level := logging.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = logging.LevelDebug
	case "warn":
		level = logging.LevelWarn
	case "error":
		level = logging.LevelError
	}
	format := logging.FormatJSON
	if cfg.LogFormat == "text" {
		format = logging.FormatText
	}
	logging.InitLogger(level, format)
}

// loadWork reads every book file in dir with the configured or detected
// format and processes the whole work.
func loadWork(ctx context.Context, dir string, cfg *config.Config) (*bible.Bible, error) {
	format := cfg.Format
	if format == "" || format == "auto" {
		format = detectFormat(dir)
	}
	var (
		v   *bible.Bible
		err error
	)
	switch format {
	case "usx":
		v, err = usx.LoadDir(dir, cfg.WorkName, cfg.Processing())
	default:
		v, err = usfm.LoadDir(dir, cfg.WorkName, cfg.Processing())
	}
	if err != nil {
		return nil, err
	}
	if err := v.ProcessAll(ctx); err != nil {
		return nil, err
	}
	return v, nil
}

// detectFormat picks usx when the directory holds any .usx file.
func detectFormat(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "usfm"
	}
	for _, e := range entries {
		if !e.IsDir() && usx.HasUSXExtension(e.Name()) {
			return "usx"
		}
	}
	return "usfm"
}

// parseRef parses "MAT 1:2" or "MAT 1" into a book code, chapter, and
// optional verse.
func parseRef(s string) (bbb, c, v string, err error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return "", "", "", cedarerrors.NewValidation("reference", s)
	}
	bbb = strings.ToUpper(fields[0])
	if !books.LoadData().IsValidBBB(bbb) {
		mapped, mapErr := books.LoadData().FromUSFM(fields[0])
		if mapErr != nil {
			return "", "", "", cedarerrors.NewNotFound("book code", fields[0])
		}
		bbb = mapped
	}
	c = fields[1]
	if i := strings.IndexByte(c, ':'); i >= 0 {
		c, v = c[:i], c[i+1:]
	}
	if c == "" {
		return "", "", "", cedarerrors.NewValidation("reference", s)
	}
	return bbb, c, v, nil
}

// ProcessCmd processes a directory and reports counts and notices.
type ProcessCmd struct {
	Input   string `arg:"" help:"Directory of USFM/USX files" type:"existingdir"`
	Notices bool   `help:"Print every collected notice, not just critical ones"`
}

func (cmd *ProcessCmd) Run() error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	v, err := loadWork(context.Background(), cmd.Input, cfg)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d books processed\n", v.Name, v.Len())
	for _, b := range v.Books() {
		fmt.Printf("  %s: %d entries, %d notices (%d suppressed)\n",
			b.BBB, b.Len(), b.Notices().Len(), b.Notices().Suppressed())
		notices := b.Notices().Critical()
		if cmd.Notices {
			notices = b.Notices().All()
		}
		for _, n := range notices {
			fmt.Printf("    %s\n", n)
		}
	}
	return nil
}

// VerseCmd prints one verse.
type VerseCmd struct {
	Input string `arg:"" help:"Directory of USFM/USX files" type:"existingdir"`
	Ref   string `arg:"" help:"Verse reference, e.g. 'MAT 1:2'"`
}

func (cmd *VerseCmd) Run() error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	bbb, c, verse, err := parseRef(cmd.Ref)
	if err != nil {
		return err
	}
	if verse == "" {
		return cedarerrors.NewValidation("reference", cmd.Ref+" (missing verse)")
	}
	v, err := loadWork(context.Background(), cmd.Input, cfg)
	if err != nil {
		return err
	}
	text, err := v.GetVerseText(bbb, ref.Key{C: c, V: verse})
	if err != nil {
		return err
	}
	fmt.Printf("%s %s:%s %s\n", bbb, c, verse, text)
	return nil
}

// ChapterCmd prints every verse of a chapter.
type ChapterCmd struct {
	Input string `arg:"" help:"Directory of USFM/USX files" type:"existingdir"`
	Ref   string `arg:"" help:"Chapter reference, e.g. 'MAT 1'"`
}

func (cmd *ChapterCmd) Run() error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	bbb, c, _, err := parseRef(cmd.Ref)
	if err != nil {
		return err
	}
	v, err := loadWork(context.Background(), cmd.Input, cfg)
	if err != nil {
		return err
	}
	b, err := v.Book(bbb)
	if err != nil {
		return err
	}
	printed := 0
	for _, key := range b.CVIndex().Keys() {
		if key.C != c || key.V == "0" {
			continue
		}
		text, err := b.GetVerseText(key)
		if err != nil || text == "" {
			continue
		}
		fmt.Printf("%s %s\n", key.V, text)
		printed++
	}
	if printed == 0 {
		return cedarerrors.NewNotFound("chapter", bbb+" "+c)
	}
	return nil
}

// SectionsCmd lists the titled sections of one book.
type SectionsCmd struct {
	Input string `arg:"" help:"Directory of USFM/USX files" type:"existingdir"`
	Book  string `arg:"" help:"Book code, e.g. MAT"`
}

func (cmd *SectionsCmd) Run() error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	v, err := loadWork(context.Background(), cmd.Input, cfg)
	if err != nil {
		return err
	}
	if err := v.MakeSectionIndexes(); err != nil {
		return err
	}
	b, err := v.Book(strings.ToUpper(cmd.Book))
	if err != nil {
		return err
	}
	idx := b.SectionIndex()
	for _, key := range idx.Keys() {
		sec, ok := idx.LookupExact(key)
		if !ok {
			continue
		}
		end := sec.EndKey()
		fmt.Printf("%s:%s-%s:%s  [%s] %s\n",
			key.C, key.V, end.C, end.V, sec.ReasonMarker(), sec.SectionName())
	}
	return nil
}

// DumpCmd writes the per-verse debug dump.
type DumpCmd struct {
	Input   string `arg:"" help:"Directory of USFM/USX files" type:"existingdir"`
	Out     string `arg:"" help:"Output directory for the dump" type:"path"`
	Archive bool   `help:"Also pack the dump into <out>.tar.xz"`
}

func (cmd *DumpCmd) Run() error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	v, err := loadWork(context.Background(), cmd.Input, cfg)
	if err != nil {
		return err
	}
	metas, err := dump.WriteWork(cmd.Out, v)
	if err != nil {
		return err
	}
	for _, b := range v.Books() {
		meta := metas[b.BBB]
		fmt.Printf("%s: %d keys, blake3 %s\n", b.BBB, len(meta.Keys), meta.BLAKE3)
	}
	if cmd.Archive {
		archivePath := strings.TrimSuffix(cmd.Out, string(filepath.Separator)) + ".tar.xz"
		if err := dump.Archive(cmd.Out, archivePath); err != nil {
			return err
		}
		fmt.Printf("archived to %s\n", archivePath)
	}
	return nil
}

// ExportGroup holds the export targets.
type ExportGroup struct {
	Sqlite ExportSqliteCmd `cmd:"" help:"Export books, verses, and sections to SQLite"`
}

// ExportSqliteCmd exports the processed work to a SQLite database.
type ExportSqliteCmd struct {
	Input string `arg:"" help:"Directory of USFM/USX files" type:"existingdir"`
	Out   string `arg:"" help:"SQLite database path" type:"path"`
}

func (cmd *ExportSqliteCmd) Run() error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	ctx := context.Background()
	v, err := loadWork(ctx, cmd.Input, cfg)
	if err != nil {
		return err
	}
	if err := v.MakeSectionIndexes(); err != nil {
		return err
	}
	if err := sqlite.ExportFile(ctx, cmd.Out, v); err != nil {
		return err
	}
	fmt.Printf("exported %d books to %s (%s driver)\n",
		v.Len(), cmd.Out, sqlite.DriverType())
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (cmd *VersionCmd) Run() error {
	fmt.Printf("cedar version %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("cedar"),
		kong.Description("CedarBible - USFM/USX processing and indexing"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
