// Package contenttype routes attachment content types to a handling strategy.
//
// Classification happens once, through a single lookup table, and the result
// is switched exhaustively by the download processor. Types the table does not
// know can be re-classified by sniffing the downloaded file's magic bytes.
package contenttype

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Kind is the handling strategy for an attachment.
type Kind int

const (
	// Unsupported attachments are left on disk untouched and reported.
	Unsupported Kind = iota
	// Zip archives are extracted in place.
	Zip
	// Tar archives (optionally gzip-compressed) are extracted in place.
	Tar
	// StoreAsIs files need no unpacking; the download itself is the result.
	StoreAsIs
)

func (k Kind) String() string {
	switch k {
	case Zip:
		return "zip"
	case Tar:
		return "tar"
	case StoreAsIs:
		return "store-as-is"
	default:
		return "unsupported"
	}
}

var kinds = map[string]Kind{
	"application/zip":              Zip,
	"application/x-zip-compressed": Zip,

	"application/x-tar":  Tar,
	"application/gzip":   Tar,
	"application/x-gzip": Tar,

	"application/json":     StoreAsIs,
	"application/pdf":      StoreAsIs,
	"application/sql":      StoreAsIs,
	"text/javascript":      StoreAsIs,
	"text/plain":           StoreAsIs,
	"text/markdown":        StoreAsIs,
	"text/x-python":        StoreAsIs,
	"text/x-python-script": StoreAsIs,
	"text/x-sql":           StoreAsIs,
}

// Classify maps a MIME-type-like content-type string to a Kind. Parameters
// ("; charset=utf-8") are ignored. Unknown types are Unsupported.
func Classify(contentType string) Kind {
	ct := contentType
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	ct = strings.ToLower(strings.TrimSpace(ct))
	return kinds[ct]
}

// Sniff inspects the file at path and classifies it by its detected MIME
// type. It is the fallback for attachments whose declared content type is
// generic or unknown. The detected type string is returned alongside the Kind.
func Sniff(path string) (Kind, string, error) {
	m, err := mimetype.DetectFile(path)
	if err != nil {
		return Unsupported, "", fmt.Errorf("detect %s: %w", path, err)
	}
	return Classify(m.String()), m.String(), nil
}
