// Package usx loads USX files, the XML flavor of USFM used by Paratext
// and the Digital Bible Library. Markers arrive as style attributes on
// <para>, <char>, <note>, and milestone elements; the loader flattens
// each paragraph back into backslash-marker raw lines so the books go
// through the same processing pipeline as USFM input.
package usx

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/FocuswithJustin/CedarBible/core/bible"
	"github.com/FocuswithJustin/CedarBible/core/book"
	"github.com/FocuswithJustin/CedarBible/core/books"
	cedarerrors "github.com/FocuswithJustin/CedarBible/core/errors"
	"github.com/FocuswithJustin/CedarBible/internal/logging"
)

// HasUSXExtension reports whether path looks like a USX file.
func HasUSXExtension(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".usx")
}

// LoadFile reads one USX file into a new book. The book code comes from
// the <book> element's code attribute.
func LoadFile(path, workName string, cfg book.ProcessingConfig) (*book.Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, cedarerrors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	doc, err := xmlquery.Parse(f)
	if err != nil {
		return nil, cedarerrors.Wrapf(err, "parse %s", path)
	}

	bookNode := xmlquery.FindOne(doc, "//usx/book")
	if bookNode == nil {
		return nil, cedarerrors.NewNotFound("book element", path)
	}
	code := bookNode.SelectAttr("code")
	bbb, err := books.LoadData().FromUSFM(code)
	if err != nil {
		return nil, cedarerrors.Wrapf(err, "book code %q in %s", code, path)
	}

	b, err := book.New(bbb, workName, cfg)
	if err != nil {
		return nil, err
	}
	l := &loader{book: b, c: "0", v: "0"}
	if err := l.usx(xmlquery.FindOne(doc, "//usx")); err != nil {
		return nil, err
	}
	logging.BookEvent(bbb, "usx-load", b.Len(), "path", path)
	return b, nil
}

type loader struct {
	book *book.Book
	c, v string
}

// usx walks the top-level children of the <usx> element.
func (l *loader) usx(root *xmlquery.Node) error {
	for n := root.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != xmlquery.ElementNode {
			continue
		}
		var err error
		switch n.Data {
		case "book":
			err = l.bookElement(n)
		case "chapter":
			err = l.chapterElement(n)
		case "para":
			err = l.paraElement(n)
		default:
			l.book.Notices().Add(85, l.c, l.v,
				"Unhandled USX element <"+n.Data+">")
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (l *loader) bookElement(n *xmlquery.Node) error {
	text := collapseSpace(n.InnerText())
	line := n.SelectAttr("code")
	if text != "" {
		line += " " + text
	}
	return l.book.AddLine("id", strings.TrimSpace(line))
}

func (l *loader) chapterElement(n *xmlquery.Node) error {
	if n.SelectAttr("eid") != "" {
		return nil // end milestone
	}
	num := n.SelectAttr("number")
	l.c, l.v = num, "0"
	return l.book.AddLine("c", num)
}

// paraElement flattens a <para> into raw lines: the pre-verse chunk keeps
// the paragraph's style marker, each <verse> milestone starts a "v" line.
func (l *loader) paraElement(n *xmlquery.Node) error {
	style := n.SelectAttr("style")
	var text strings.Builder
	flush := func(m, label string) error {
		chunk := strings.TrimSpace(collapseSpace(text.String()))
		text.Reset()
		if label != "" {
			if chunk == "" {
				chunk = label
			} else {
				chunk = label + " " + chunk
			}
		}
		err := l.book.AddLine(m, chunk)
		if cedarerrors.Is(err, cedarerrors.ErrInvalidInput) {
			l.book.Notices().Add(85, l.c, l.v, "Unknown marker \\"+m+" dropped")
			return nil
		}
		return err
	}

	pendingVerse := ""
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == "verse" {
			if c.SelectAttr("eid") != "" {
				continue
			}
			// Flush whatever came before this verse milestone.
			if pendingVerse == "" {
				if err := flush(style, ""); err != nil {
					return err
				}
			} else if err := flush("v", pendingVerse); err != nil {
				return err
			}
			pendingVerse = c.SelectAttr("number")
			l.v = pendingVerse
			continue
		}
		text.WriteString(inlineText(c))
	}
	if pendingVerse == "" {
		return flush(style, "")
	}
	return flush("v", pendingVerse)
}

// inlineText renders one inline node back to backslash-marker form.
func inlineText(n *xmlquery.Node) string {
	switch n.Type {
	case xmlquery.TextNode, xmlquery.CharDataNode:
		return n.Data
	case xmlquery.ElementNode:
	default:
		return ""
	}

	var inner strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		inner.WriteString(inlineText(c))
	}
	style := n.SelectAttr("style")
	switch n.Data {
	case "char":
		open := `\` + style + ` `
		if attrs := charAttributes(n); attrs != "" {
			return open + inner.String() + "|" + attrs + `\` + style + `*`
		}
		return open + inner.String() + `\` + style + `*`
	case "note":
		caller := n.SelectAttr("caller")
		if caller == "" {
			caller = "+"
		}
		return `\` + style + ` ` + caller + ` ` + inner.String() + `\` + style + `*`
	case "optbreak":
		return " "
	default:
		return inner.String()
	}
}

// charAttributes rebuilds the USFM attribute suffix of a <char> element
// (strong, lemma and friends). Style and closed are USX bookkeeping, not
// text attributes.
func charAttributes(n *xmlquery.Node) string {
	var parts []string
	for _, a := range n.Attr {
		switch a.Name.Local {
		case "style", "closed":
			continue
		}
		parts = append(parts, a.Name.Local+`="`+a.Value+`"`)
	}
	return strings.Join(parts, " ")
}

// collapseSpace squeezes whitespace runs (including newlines from XML
// pretty-printing) to single spaces, keeping edge spaces intact.
func collapseSpace(s string) string {
	var out strings.Builder
	out.Grow(len(s))
	space := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			space = true
			continue
		}
		if space {
			out.WriteByte(' ')
		}
		space = false
		out.WriteRune(r)
	}
	if space {
		out.WriteByte(' ')
	}
	return out.String()
}

// LoadDir reads every USX file in dir into one work in canonical order.
func LoadDir(dir, workName string, cfg book.ProcessingConfig) (*bible.Bible, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, cedarerrors.Wrapf(err, "read dir %s", dir)
	}
	v := bible.New(workName, cfg)
	for _, e := range entries {
		if e.IsDir() || !HasUSXExtension(e.Name()) {
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
		return nil, cedarerrors.NewNotFound("usx files", dir)
	}
	v.CanonicalOrder()
	return v, nil
}
