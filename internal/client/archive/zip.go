package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ExtractZip unpacks the zip archive at archivePath into destDir, consulting
// rep before any entry is written: skipped content never touches disk.
// Directory entries (names ending in "/") carry no content and are ignored;
// entries whose resolved path would escape destDir are rejected and counted
// as skipped.
func ExtractZip(archivePath, destDir string, rep *Report) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open zip %s: %w", filepath.Base(archivePath), err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		name := f.Name
		if strings.HasSuffix(name, "/") {
			// Directories end with a slash per the zip spec.
			continue
		}
		size := int64(f.UncompressedSize64)

		target, ok := safeJoin(destDir, name)
		if !ok {
			rep.Exclude(name, size)
			continue
		}
		if !rep.Add(name, size) {
			continue
		}

		if err := writeZipEntry(f, target); err != nil {
			return fmt.Errorf("extract %s: %w", name, err)
		}
	}

	return nil
}

func writeZipEntry(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	if err := os.MkdirAll(filepath.Dir(target), 0o770); err != nil {
		return err
	}

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// safeJoin resolves an archive member name under dir, rejecting absolute
// paths and ".." traversal out of dir.
func safeJoin(dir, name string) (string, bool) {
	if filepath.IsAbs(name) {
		return "", false
	}
	target := filepath.Join(dir, filepath.FromSlash(name))
	prefix := filepath.Clean(dir) + string(os.PathSeparator)
	if !strings.HasPrefix(target, prefix) {
		return "", false
	}
	return target, true
}
