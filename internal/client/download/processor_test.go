package download

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/canvasctl/internal/client/models"
	"github.com/dmitrijs2005/canvasctl/internal/client/paths"
	"github.com/dmitrijs2005/canvasctl/internal/client/store"
	"github.com/dmitrijs2005/canvasctl/internal/client/ui"
	"github.com/dmitrijs2005/canvasctl/internal/logging"
)

// fakeStore records the calls the processor makes; everything else panics
// via the embedded nil interface.
type fakeStore struct {
	store.Store
	cached   []*models.Submission
	replaced map[int][]models.FileInfo
}

func newFakeStore() *fakeStore {
	return &fakeStore{replaced: make(map[int][]models.FileInfo)}
}

func (f *fakeStore) CacheSubmission(ctx context.Context, sub *models.Submission) error {
	f.cached = append(f.cached, sub)
	return nil
}

func (f *fakeStore) ReplaceStudentFiles(ctx context.Context, studentID int, files []models.FileInfo) error {
	f.replaced[studentID] = files
	return nil
}

func newTestProcessor(t *testing.T, st store.Store, hc *http.Client) (*Processor, string) {
	t.Helper()
	base := t.TempDir()
	res := paths.NewResolver(base, "COS 243", "Lab 1")
	console := ui.New(io.Discard)
	log := logging.NewTextLogger(io.Discard, slog.LevelError)
	return NewProcessor(st, res, NewFetcher(hc), console, log), base
}

func zipBytes(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestProcessSubmission_Unsubmitted(t *testing.T) {
	st := newFakeStore()
	p, _ := newTestProcessor(t, st, nil)

	sub := &models.Submission{
		ID:             11,
		SubmissionType: models.SubmissionTypeUpload,
		WorkflowState:  models.WorkflowStateUnsubmitted,
		User:           models.Student{ID: 5, Name: "Jane Doe", SortableName: "Doe, Jane"},
	}

	res, err := p.ProcessSubmission(context.Background(), sub, Options{})
	require.NoError(t, err)
	require.Empty(t, res.Files)

	// The cache is updated and the file list reset even for empty work.
	require.Len(t, st.cached, 1)
	files, ok := st.replaced[5]
	require.True(t, ok)
	require.Empty(t, files)
}

func TestProcessSubmission_TextEntry(t *testing.T) {
	st := newFakeStore()
	p, base := newTestProcessor(t, st, nil)

	body := "<h1>Answer</h1><p>It depends.</p>"
	sub := &models.Submission{
		ID:             12,
		Body:           body,
		SubmissionType: models.SubmissionTypeTextEntry,
		WorkflowState:  models.WorkflowStateSubmitted,
		User:           models.Student{ID: 6, Name: "Jane Doe", SortableName: "Doe, Jane"},
	}

	res, err := p.ProcessSubmission(context.Background(), sub, Options{})
	require.NoError(t, err)
	require.Len(t, res.Files, 2)
	require.Equal(t, FileNameHTML, res.Files[0].Name)
	require.Equal(t, FileNameMD, res.Files[1].Name)

	dir := filepath.Join(base, "cos-243", "lab-1", "doe-jane")

	html, err := os.ReadFile(filepath.Join(dir, FileNameHTML))
	require.NoError(t, err)
	require.Equal(t, body, string(html))
	require.Equal(t, int64(len(html)), res.Files[0].Size)

	md, err := os.ReadFile(filepath.Join(dir, FileNameMD))
	require.NoError(t, err)
	require.Contains(t, string(md), "# Answer")
	require.Equal(t, int64(len(md)), res.Files[1].Size)

	require.Equal(t, res.Files, st.replaced[6])
}

func TestProcessSubmission_UploadZip(t *testing.T) {
	payload := zipBytes(t, map[string]string{
		"hw/main.go":               "package main\n",
		"hw/node_modules/x/mod.js": "noise\n",
		"hw/node_modules/y/mod.js": "noise\n",
	})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	st := newFakeStore()
	p, base := newTestProcessor(t, st, srv.Client())

	sub := &models.Submission{
		ID:             13,
		SubmissionType: models.SubmissionTypeUpload,
		WorkflowState:  models.WorkflowStateSubmitted,
		User:           models.Student{ID: 7, Name: "Jane Doe", SortableName: "Doe, Jane"},
		Attachments: []models.Attachment{{
			ID:          1,
			DisplayName: "hw.zip",
			ContentType: "application/zip",
			Size:        int64(len(payload)),
			URL:         srv.URL + "/files/1",
		}},
	}

	res, err := p.ProcessSubmission(context.Background(), sub, Options{})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	require.Equal(t, "hw/main.go", res.Files[0].Name)
	require.Equal(t, 2, res.Skipped)
	require.Empty(t, res.Warnings)

	dir := filepath.Join(base, "cos-243", "lab-1", "doe-jane")
	_, err = os.Stat(filepath.Join(dir, "hw", "main.go"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "hw", "node_modules"))
	require.True(t, os.IsNotExist(err))

	require.Equal(t, res.Files, st.replaced[7])
}

func TestProcessSubmission_UploadSniffsDeclaredOctetStream(t *testing.T) {
	payload := zipBytes(t, map[string]string{"report.txt": "all good\n"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	st := newFakeStore()
	p, _ := newTestProcessor(t, st, srv.Client())

	sub := &models.Submission{
		ID:             14,
		SubmissionType: models.SubmissionTypeUpload,
		WorkflowState:  models.WorkflowStateSubmitted,
		User:           models.Student{ID: 8, SortableName: "Doe, Jane"},
		Attachments: []models.Attachment{{
			DisplayName: "mystery.bin",
			ContentType: "application/octet-stream",
			Size:        int64(len(payload)),
			URL:         srv.URL + "/files/2",
		}},
	}

	res, err := p.ProcessSubmission(context.Background(), sub, Options{})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	require.Equal(t, "report.txt", res.Files[0].Name)
}

func TestProcessSubmission_OversizeNeverFetched(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	st := newFakeStore()
	p, _ := newTestProcessor(t, st, srv.Client())

	sub := &models.Submission{
		ID:             15,
		SubmissionType: models.SubmissionTypeUpload,
		WorkflowState:  models.WorkflowStateSubmitted,
		User:           models.Student{ID: 9, SortableName: "Doe, Jane"},
		Attachments: []models.Attachment{{
			DisplayName: "huge.zip",
			ContentType: "application/zip",
			Size:        5 << 20,
			URL:         srv.URL + "/files/3",
		}},
	}

	res, err := p.ProcessSubmission(context.Background(), sub, Options{MaxSize: 1 << 20})
	require.NoError(t, err)
	require.Empty(t, res.Files)
	require.Len(t, res.Warnings, 1)
	require.Equal(t, int64(0), hits.Load())
}

func TestProcessSubmission_URL(t *testing.T) {
	st := newFakeStore()
	p, base := newTestProcessor(t, st, nil)

	sub := &models.Submission{
		ID:             16,
		URL:            "https://example.com/demo",
		SubmissionType: models.SubmissionTypeURL,
		WorkflowState:  models.WorkflowStateSubmitted,
		User:           models.Student{ID: 10, SortableName: "Doe, Jane"},
	}

	res, err := p.ProcessSubmission(context.Background(), sub, Options{})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	require.Equal(t, FileNameURL, res.Files[0].Name)

	data, err := os.ReadFile(filepath.Join(base, "cos-243", "lab-1", "doe-jane", FileNameURL))
	require.NoError(t, err)
	require.Equal(t, "https://example.com/demo\n", string(data))
}

func TestProcessSubmission_Quiz(t *testing.T) {
	st := newFakeStore()
	p, _ := newTestProcessor(t, st, nil)

	sub := &models.Submission{
		ID:             17,
		SubmissionType: models.SubmissionTypeQuiz,
		WorkflowState:  models.WorkflowStateGraded,
		User:           models.Student{ID: 11, SortableName: "Doe, Jane"},
	}

	res, err := p.ProcessSubmission(context.Background(), sub, Options{})
	require.NoError(t, err)
	require.Empty(t, res.Files)
	require.Empty(t, res.Warnings)
}

func TestProcessSubmission_UnknownType(t *testing.T) {
	st := newFakeStore()
	p, _ := newTestProcessor(t, st, nil)

	sub := &models.Submission{
		ID:             18,
		SubmissionType: "media_recording",
		WorkflowState:  models.WorkflowStateSubmitted,
		User:           models.Student{ID: 12, SortableName: "Doe, Jane"},
	}

	res, err := p.ProcessSubmission(context.Background(), sub, Options{})
	require.NoError(t, err)
	require.Empty(t, res.Files)
	require.Len(t, res.Warnings, 1)
	require.Empty(t, st.replaced[12])
}

func TestProcessSubmission_FailedDownloadIsRecoverable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/files/bad" {
			http.Error(w, "gone", http.StatusGone)
			return
		}
		_, _ = w.Write([]byte("notes\n"))
	}))
	defer srv.Close()

	st := newFakeStore()
	p, _ := newTestProcessor(t, st, srv.Client())

	sub := &models.Submission{
		ID:             19,
		SubmissionType: models.SubmissionTypeUpload,
		WorkflowState:  models.WorkflowStateSubmitted,
		User:           models.Student{ID: 13, SortableName: "Doe, Jane"},
		Attachments: []models.Attachment{
			{DisplayName: "gone.txt", ContentType: "text/plain", Size: 4, URL: srv.URL + "/files/bad"},
			{DisplayName: "notes.txt", ContentType: "text/plain", Size: 6, URL: srv.URL + "/files/ok"},
		},
	}

	res, err := p.ProcessSubmission(context.Background(), sub, Options{})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	require.Equal(t, "notes.txt", res.Files[0].Name)
	require.Len(t, res.Warnings, 1)
}
