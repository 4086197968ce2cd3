// Package usfm loads USFM (Unified Standard Format Marker) files into
// books. A USFM file is line oriented: each line starts with a backslash
// marker, continuation lines without one belong to the previous marker,
// and the \id line names the book.
package usfm

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/FocuswithJustin/CedarBible/core/bible"
	"github.com/FocuswithJustin/CedarBible/core/book"
	"github.com/FocuswithJustin/CedarBible/core/books"
	cedarerrors "github.com/FocuswithJustin/CedarBible/core/errors"
	"github.com/FocuswithJustin/CedarBible/core/marker"
	"github.com/FocuswithJustin/CedarBible/internal/logging"
)

var extensions = []string{".usfm", ".sfm", ".usf"}

// HasUSFMExtension reports whether path carries one of the usual USFM
// file extensions.
func HasUSFMExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// fileLine is one marker line as read from disk, before any combining.
type fileLine struct {
	marker string
	text   string
}

// readLines splits a USFM file into marker lines. Blank lines and '#'
// comment lines are dropped; a line without a leading backslash continues
// the previous marker's text. The marker token ends at the first space,
// '*', or embedded backslash.
func readLines(path string) ([]fileLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, cedarerrors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	var lines []fileLine
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	first := true
	for sc.Scan() {
		line := sc.Text()
		if first {
			line = strings.TrimPrefix(line, "\uFEFF")
			first = false
		}
		if line == "" || line[0] == '#' {
			continue
		}
		if line[0] != '\\' {
			if len(lines) == 0 {
				logging.ProcessingError("", "usfm-read",
					cedarerrors.NewValidation("line", "text before first marker"),
					"path", path)
				continue
			}
			last := &lines[len(lines)-1]
			last.text += " " + line
			continue
		}
		m, text := splitMarkerLine(line[1:])
		lines = append(lines, fileLine{marker: m, text: text})
	}
	if err := sc.Err(); err != nil {
		return nil, cedarerrors.Wrapf(err, "read %s", path)
	}
	return lines, nil
}

// splitMarkerLine splits "marker rest" where the marker token ends at the
// first space, '*', or backslash. The separating space is dropped.
func splitMarkerLine(s string) (string, string) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ':
			return s[:i], s[i+1:]
		case '*':
			return s[:i+1], s[i+1:]
		case '\\':
			return s[:i], s[i:]
		}
	}
	return s, ""
}

// LoadFile reads one USFM file into a new book. The book code comes from
// the file's \id line.
func LoadFile(path, workName string, cfg book.ProcessingConfig) (*book.Book, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}
	bbb, err := bookCode(lines)
	if err != nil {
		return nil, cedarerrors.Wrapf(err, "no usable \\id line in %s", path)
	}
	b, err := book.New(bbb, workName, cfg)
	if err != nil {
		return nil, err
	}
	if err := fill(b, lines); err != nil {
		return nil, err
	}
	logging.BookEvent(bbb, "usfm-load", b.Len(), "path", path)
	return b, nil
}

// bookCode finds the first \id line and maps its USFM abbreviation to a
// book code.
func bookCode(lines []fileLine) (string, error) {
	for _, ln := range lines {
		if ln.marker != "id" {
			continue
		}
		fields := strings.Fields(ln.text)
		if len(fields) == 0 {
			return "", cedarerrors.NewValidation("id", "empty \\id line")
		}
		return books.LoadData().FromUSFM(fields[0])
	}
	return "", cedarerrors.NewNotFound("marker", "id")
}

// fill feeds the file lines into the book. The loop runs one line behind
// so a line starting with an internal character marker can be folded back
// into the previous newline marker's text.
func fill(b *book.Book, lines []fileLine) error {
	c, v := "0", "0"
	lastMarker, lastText := "", ""
	flush := func() error {
		if lastMarker == "" {
			return nil
		}
		err := b.AddLine(lastMarker, lastText)
		if cedarerrors.Is(err, cedarerrors.ErrInvalidInput) {
			b.Notices().Add(85, c, v, "Unknown marker \\"+lastMarker+" dropped")
			return nil
		}
		return err
	}
	for _, ln := range lines {
		if fields := strings.Fields(ln.text); len(fields) > 0 {
			switch ln.marker {
			case "c":
				c, v = fields[0], "0"
			case "v":
				v = fields[0]
			}
		}
		if marker.IsNewline(ln.marker) || !marker.IsValid(ln.marker) {
			if err := flush(); err != nil {
				return err
			}
			lastMarker, lastText = ln.marker, ln.text
			continue
		}
		// Internal marker opening a line: it belongs to the previous line.
		b.Notices().Add(12, c, v,
			"Internal marker \\"+ln.marker+" at start of line")
		lastText += "\\" + ln.marker + " " + ln.text
	}
	return flush()
}

// LoadDir reads every USFM file in dir into one work. Files are read in
// name order and the resulting books are put in canonical order.
func LoadDir(dir, workName string, cfg book.ProcessingConfig) (*bible.Bible, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, cedarerrors.Wrapf(err, "read dir %s", dir)
	}
	v := bible.New(workName, cfg)
	for _, e := range entries {
		if e.IsDir() || !HasUSFMExtension(e.Name()) {
			continue
		}
		b, err := LoadFile(filepath.Join(dir, e.Name()), workName, cfg)
		if err != nil {
			return nil, err
		}
		if err := v.AddBook(b); err != nil {
			return nil, err
		}
	}
	if v.Len() == 0 {
		return nil, cedarerrors.NewNotFound("usfm files", dir)
	}
	v.CanonicalOrder()
	return v, nil
}
