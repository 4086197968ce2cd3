// Package dump writes the on-disk debug dump of a processed book: one
// text file per book introduction and per verse, each line rendering one
// entry as \marker, with <<originalMarker appended when the raw marker
// differed and =originalText appended when the entry carried text. A
// metadata file records the format version, work name, run ID, content
// hash, and the ordered key list, so dumps can be diffed between runs.
package dump

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/CedarBible/core/bible"
	"github.com/FocuswithJustin/CedarBible/core/book"
	"github.com/FocuswithJustin/CedarBible/core/entry"
	cedarerrors "github.com/FocuswithJustin/CedarBible/core/errors"
	"github.com/FocuswithJustin/CedarBible/internal/logging"
)

// FormatVersion identifies the dump layout. Bump it when the line or
// metadata format changes.
const FormatVersion = "1.0"

// MetadataFilename is the per-book metadata file name.
const MetadataFilename = "metadata.json"

// Metadata describes one book's dump.
type Metadata struct {
	FormatVersion string   `json:"format_version"`
	WorkName      string   `json:"work_name"`
	Book          string   `json:"book"`
	RunID         string   `json:"run_id"`
	BLAKE3        string   `json:"blake3"`
	Keys          []string `json:"keys"`
}

// renderEntry formats one entry as a dump line.
func renderEntry(e entry.Entry) string {
	var sb strings.Builder
	sb.WriteByte('\\')
	sb.WriteString(e.Marker)
	if e.OriginalMarker != "" && e.OriginalMarker != e.Marker {
		sb.WriteString("<<")
		sb.WriteString(e.OriginalMarker)
	}
	if e.OriginalText != "" {
		sb.WriteByte('=')
		sb.WriteString(e.OriginalText)
	}
	return sb.String()
}

// fileName maps a CV key to its dump file. The book introduction is
// chapter -1 in the index.
func fileName(bbb, c, v string) string {
	if c == "-1" {
		return bbb + "_intro_" + v + ".txt"
	}
	return bbb + "_" + c + "_" + v + ".txt"
}

// WriteBook dumps one processed book into dir and returns its metadata.
// The content hash covers every dump file in key order, so identical
// processing output hashes identically regardless of run ID.
func WriteBook(dir string, b *book.Book) (*Metadata, error) {
	idx := b.CVIndex()
	if idx == nil {
		return nil, cedarerrors.Wrapf(cedarerrors.ErrNotProcessed, "dump %s", b.BBB)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, cedarerrors.Wrapf(err, "create dump dir %s", dir)
	}

	meta := &Metadata{
		FormatVersion: FormatVersion,
		WorkName:      b.WorkName,
		Book:          b.BBB,
		RunID:         uuid.New().String(),
	}
	hasher := blake3.New()
	for _, key := range idx.Keys() {
		entries, err := idx.GetVerseEntries(key, false)
		if err != nil {
			return nil, cedarerrors.Wrapf(err, "dump %s %s:%s", b.BBB, key.C, key.V)
		}
		var sb strings.Builder
		for _, e := range entries {
			sb.WriteString(renderEntry(e))
			sb.WriteByte('\n')
		}
		content := []byte(sb.String())
		name := fileName(b.BBB, key.C, key.V)
		if err := os.WriteFile(filepath.Join(dir, name), content, 0644); err != nil {
			return nil, cedarerrors.Wrapf(err, "write %s", name)
		}
		hasher.Write(content)
		meta.Keys = append(meta.Keys, key.C+":"+key.V)
	}
	meta.BLAKE3 = hex.EncodeToString(hasher.Sum(nil))

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, cedarerrors.Wrap(err, "marshal dump metadata")
	}
	if err := os.WriteFile(filepath.Join(dir, MetadataFilename), data, 0644); err != nil {
		return nil, cedarerrors.Wrapf(err, "write %s", MetadataFilename)
	}
	logging.BookEvent(b.BBB, "dump", len(meta.Keys), "dir", dir)
	return meta, nil
}

// WriteWork dumps every book of a work into per-book subdirectories.
func WriteWork(dir string, v *bible.Bible) (map[string]*Metadata, error) {
	out := make(map[string]*Metadata, v.Len())
	for _, b := range v.Books() {
		meta, err := WriteBook(filepath.Join(dir, b.BBB), b)
		if err != nil {
			return nil, err
		}
		out[b.BBB] = meta
	}
	return out, nil
}

// ReadMetadata loads a dump directory's metadata file.
func ReadMetadata(dir string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(dir, MetadataFilename))
	if err != nil {
		return nil, cedarerrors.Wrapf(err, "read %s", MetadataFilename)
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, cedarerrors.Wrap(err, "unmarshal dump metadata")
	}
	return &meta, nil
}
