package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/dmitrijs2005/canvasctl/internal/common"
)

// DownloadError reports a failed attachment fetch, carrying the source URL
// and the underlying cause. Callers treat it as recoverable: warn and move on
// to the next attachment.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// Fetcher streams remote attachments to local files.
type Fetcher struct {
	hc *http.Client
}

// NewFetcher builds a Fetcher; hc may be nil to use http.DefaultClient.
// Attachment URLs are pre-signed by Canvas, so no auth header is attached.
func NewFetcher(hc *http.Client) *Fetcher {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Fetcher{hc: hc}
}

// Fetch streams the resource at url to destPath without buffering the whole
// payload in memory. Any network or filesystem failure comes back as a
// *DownloadError.
func (f *Fetcher) Fetch(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &DownloadError{URL: url, Err: err}
	}

	resp, err := f.hc.Do(req)
	if err != nil {
		return &DownloadError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &DownloadError{URL: url, Err: fmt.Errorf("%w: %s", common.ErrUnexpectedStatus, resp.Status)}
	}

	out, err := os.Create(destPath)
	if err != nil {
		return &DownloadError{URL: url, Err: err}
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return &DownloadError{URL: url, Err: err}
	}
	if err := out.Close(); err != nil {
		return &DownloadError{URL: url, Err: err}
	}
	return nil
}
