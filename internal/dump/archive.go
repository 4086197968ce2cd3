package dump

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	cedarerrors "github.com/FocuswithJustin/CedarBible/core/errors"
)

// Archive packs a dump directory into a single .tar.xz file. Entries are
// stored with paths relative to dir, in directory-walk order.
func Archive(dir, outPath string) error {
	out, err := os.Create(outPath)
	if err != nil {
		return cedarerrors.Wrapf(err, "create %s", outPath)
	}
	defer out.Close()

	xzw, err := xz.NewWriter(out)
	if err != nil {
		return cedarerrors.Wrap(err, "xz writer")
	}
	tw := tar.NewWriter(xzw)

	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(tw, f)
		f.Close()
		return err
	})
	if err != nil {
		return cedarerrors.Wrapf(err, "archive %s", dir)
	}
	if err := tw.Close(); err != nil {
		return cedarerrors.Wrap(err, "close tar")
	}
	if err := xzw.Close(); err != nil {
		return cedarerrors.Wrap(err, "close xz")
	}
	return out.Close()
}

// Unarchive unpacks a .tar.xz dump archive into destDir.
func Unarchive(archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return cedarerrors.Wrapf(err, "open %s", archivePath)
	}
	defer f.Close()

	xzr, err := xz.NewReader(f)
	if err != nil {
		return cedarerrors.Wrap(err, "xz reader")
	}
	tr := tar.NewReader(xzr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return cedarerrors.Wrap(err, "read tar")
		}
		name := filepath.FromSlash(hdr.Name)
		// Keep extraction inside destDir.
		if strings.Contains(name, "..") || filepath.IsAbs(name) {
			return cedarerrors.NewValidation("archive entry", hdr.Name)
		}
		target := filepath.Join(destDir, name)
		if hdr.Typeflag == tar.TypeDir {
			if err := os.MkdirAll(target, 0755); err != nil {
				return cedarerrors.Wrapf(err, "create dir %s", target)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return cedarerrors.Wrapf(err, "create dir for %s", target)
		}
		out, err := os.Create(target)
		if err != nil {
			return cedarerrors.Wrapf(err, "create %s", target)
		}
		if _, err := io.Copy(out, tr); err != nil {
			out.Close()
			return cedarerrors.Wrapf(err, "extract %s", hdr.Name)
		}
		if err := out.Close(); err != nil {
			return cedarerrors.Wrapf(err, "close %s", target)
		}
	}
}
