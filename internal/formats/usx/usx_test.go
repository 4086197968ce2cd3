package usx

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/FocuswithJustin/CedarBible/core/book"
	cedarerrors "github.com/FocuswithJustin/CedarBible/core/errors"
	"github.com/FocuswithJustin/CedarBible/core/ref"
)

const markUSX = `<?xml version="1.0" encoding="UTF-8"?>
<usx version="3.0">
  <book code="MRK" style="id">Gospel of Mark</book>
  <para style="h">Mark</para>
  <chapter number="1" style="c" sid="MRK 1"/>
  <para style="s1">John the Baptist</para>
  <para style="p"><verse number="1" style="v" sid="MRK 1:1"/>The beginning of the <char style="nd">gospel</char>.<verse eid="MRK 1:1"/> <verse number="2" style="v" sid="MRK 1:2"/>As it is written.<note caller="+" style="f"><char style="ft">An early note.</char></note><verse eid="MRK 1:2"/></para>
  <chapter eid="MRK 1"/>
</usx>
`

func writeUSX(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileRawLines(t *testing.T) {
	dir := t.TempDir()
	path := writeUSX(t, dir, "mrk.usx", markUSX)

	b, err := LoadFile(path, "test work", book.DefaultConfig())
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if b.BBB != "MRK" {
		t.Errorf("BBB = %q, want MRK", b.BBB)
	}
	want := []book.RawLine{
		{Marker: "id", Text: "MRK Gospel of Mark"},
		{Marker: "h", Text: "Mark"},
		{Marker: "c", Text: "1"},
		{Marker: "s1", Text: "John the Baptist"},
		{Marker: "p", Text: ""},
		{Marker: "v", Text: `1 The beginning of the \nd gospel\nd*.`},
		{Marker: "v", Text: `2 As it is written.\f + \ft An early note.\ft*\f*`},
	}
	raw := b.RawLines()
	if len(raw) != len(want) {
		t.Fatalf("got %d raw lines %v, want %d", len(raw), raw, len(want))
	}
	for i := range want {
		if raw[i] != want[i] {
			t.Errorf("line %d = %+v, want %+v", i, raw[i], want[i])
		}
	}
}

func TestLoadFileProcessable(t *testing.T) {
	dir := t.TempDir()
	path := writeUSX(t, dir, "mrk.usx", markUSX)

	b, err := LoadFile(path, "test work", book.DefaultConfig())
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if err := b.ProcessLines(); err != nil {
		t.Fatalf("ProcessLines: %v", err)
	}
	got, err := b.GetVerseText(ref.Key{C: "1", V: "2"})
	if err != nil {
		t.Fatalf("GetVerseText: %v", err)
	}
	if want := "As it is written."; got != want {
		t.Errorf("GetVerseText(1:2) = %q, want %q", got, want)
	}
}

func TestInlineTextCharAttributes(t *testing.T) {
	dir := t.TempDir()
	path := writeUSX(t, dir, "mat.usx", `<?xml version="1.0"?>
<usx version="3.0">
  <book code="MAT" style="id"/>
  <chapter number="1" style="c"/>
  <para style="p"><verse number="1" style="v"/>the <char style="w" strong="H2587">gracious</char> king</para>
</usx>
`)
	b, err := LoadFile(path, "test work", book.DefaultConfig())
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	raw := b.RawLines()
	last := raw[len(raw)-1]
	if want := `1 the \w gracious|strong="H2587"\w* king`; last.Text != want {
		t.Errorf("verse line = %q, want %q", last.Text, want)
	}
}

func TestLoadFileNoBookElement(t *testing.T) {
	dir := t.TempDir()
	path := writeUSX(t, dir, "bad.usx", `<?xml version="1.0"?><usx version="3.0"><para style="p">x</para></usx>`)
	if _, err := LoadFile(path, "test work", book.DefaultConfig()); !errors.Is(err, cedarerrors.ErrNotFound) {
		t.Errorf("LoadFile err = %v, want ErrNotFound", err)
	}
}

func TestCollapseSpace(t *testing.T) {
	tests := []struct{ in, want string }{
		{"a\n    b", "a b"},
		{"  a  b  ", " a b "},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := collapseSpace(tt.in); got != tt.want {
			t.Errorf("collapseSpace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadDirCanonicalOrder(t *testing.T) {
	dir := t.TempDir()
	writeUSX(t, dir, "b-mrk.usx", `<?xml version="1.0"?><usx version="3.0"><book code="MRK" style="id"/><chapter number="1" style="c"/><para style="p"><verse number="1" style="v"/>Mark.</para></usx>`)
	writeUSX(t, dir, "a-luk.usx", `<?xml version="1.0"?><usx version="3.0"><book code="LUK" style="id"/><chapter number="1" style="c"/><para style="p"><verse number="1" style="v"/>Luke.</para></usx>`)

	v, err := LoadDir(dir, "test work", book.DefaultConfig())
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if got := v.BookCodes(); len(got) != 2 || got[0] != "MRK" || got[1] != "LUK" {
		t.Errorf("BookCodes() = %v, want [MRK LUK]", got)
	}
}
