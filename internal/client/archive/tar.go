package archive

import (
	"archive/tar"
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ExtractTar unpacks the tar archive at archivePath into destDir. Gzip
// compression is detected from the magic bytes, so both .tar and .tar.gz
// submissions are handled. The same filter-before-write policy as ExtractZip
// applies: skipped entries are tallied but never written. Only regular files
// are materialized; directories are implied by their children and special
// entries (symlinks, devices) are ignored.
func ExtractTar(archivePath, destDir string, rep *Report) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open tar %s: %w", filepath.Base(archivePath), err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	var r io.Reader = br
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return fmt.Errorf("gzip %s: %w", filepath.Base(archivePath), err)
		}
		defer gz.Close()
		r = gz
	}

	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read tar %s: %w", filepath.Base(archivePath), err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		name := hdr.Name
		size := hdr.Size

		target, ok := safeJoin(destDir, name)
		if !ok {
			rep.Exclude(name, size)
			continue
		}
		if !rep.Add(name, size) {
			continue
		}

		if err := writeTarEntry(tr, target); err != nil {
			return fmt.Errorf("extract %s: %w", name, err)
		}
	}

	return nil
}

func writeTarEntry(tr *tar.Reader, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o770); err != nil {
		return err
	}

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, tr); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
