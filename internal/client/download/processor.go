// Package download implements the submission download pipeline: fetching
// attachments, routing them by content type, extracting archives with
// keep/skip classification, and recording the resulting file lists in the
// local store.
package download

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/canvasctl/internal/client/archive"
	"github.com/dmitrijs2005/canvasctl/internal/client/contenttype"
	"github.com/dmitrijs2005/canvasctl/internal/client/models"
	"github.com/dmitrijs2005/canvasctl/internal/client/paths"
	"github.com/dmitrijs2005/canvasctl/internal/client/store"
	"github.com/dmitrijs2005/canvasctl/internal/client/ui"
	"github.com/dmitrijs2005/canvasctl/internal/logging"
)

// Fixed filenames for non-upload submission types.
const (
	FileNameHTML = "submission.html"
	FileNameMD   = "submission.md"
	FileNameURL  = "url.txt"
)

// Options tune one download run.
type Options struct {
	// MaxSize skips attachments larger than this many bytes; 0 means no limit.
	MaxSize int64
	// ShowDetails dumps each submission as JSON before processing.
	ShowDetails bool
}

// Processor turns one submission into files on disk plus an updated
// per-student file list in the store. Submissions are handled one at a time;
// there is no concurrent processing by design (the LMS endpoints are
// rate-sensitive and sequential output keeps the progress readable).
type Processor struct {
	store   store.Store
	paths   *paths.Resolver
	fetcher *Fetcher
	rules   archive.SkipRules
	conv    *md.Converter
	console *ui.Console
	log     logging.Logger
}

func NewProcessor(st store.Store, res *paths.Resolver, fetcher *Fetcher, console *ui.Console, log logging.Logger) *Processor {
	return &Processor{
		store:   st,
		paths:   res,
		fetcher: fetcher,
		rules:   archive.DefaultSkipRules(),
		conv:    md.NewConverter("", true, &md.Options{HeadingStyle: "atx"}),
		console: console,
		log:     log,
	}
}

// SetSkipRules overrides the noise markers used during extraction.
func (p *Processor) SetSkipRules(rules archive.SkipRules) {
	p.rules = rules
}

// ProcessSubmission runs the per-submission state machine:
//
//	workflow_state unsubmitted -> record empty file list, done
//	text entry -> write submission.html + converted submission.md
//	upload     -> fetch each attachment (subject to MaxSize) and dispatch on
//	              its content type
//	url        -> write url.txt
//	quiz       -> nothing to do
//	none       -> nothing submitted
//	other      -> reported, no file action
//
// The submission projection is cached up front; the student's file list is
// replaced atomically with the kept files once processing finishes. Returned
// errors are fatal (store or filesystem); recoverable conditions end up in
// the Result's warnings.
func (p *Processor) ProcessSubmission(ctx context.Context, sub *models.Submission, opts Options) (*Result, error) {
	res := &Result{SubmissionID: sub.ID, StudentID: sub.User.ID}

	p.console.SubmissionHeader(sub.ID, sub.User.Name, sub.User.ID, sub.SubmissionType.Label())
	if opts.ShowDetails {
		if details, err := json.MarshalIndent(sub, "", "  "); err == nil {
			p.console.Println(string(details))
		}
	}

	if err := p.store.CacheSubmission(ctx, sub); err != nil {
		return nil, fmt.Errorf("cache submission %d: %w", sub.ID, err)
	}

	files := []models.FileInfo{}

	if sub.WorkflowState == models.WorkflowStateUnsubmitted {
		p.console.Problem("Workflow state shows nothing submitted")
		if err := p.store.ReplaceStudentFiles(ctx, sub.User.ID, files); err != nil {
			return nil, fmt.Errorf("replace files for student %d: %w", sub.User.ID, err)
		}
		return res, nil
	}

	switch sub.SubmissionType {
	case models.SubmissionTypeTextEntry:
		kept, err := p.processTextEntry(sub, res)
		if err != nil {
			return nil, err
		}
		files = append(files, kept...)

	case models.SubmissionTypeUpload:
		if len(sub.Attachments) == 0 {
			p.console.Problem("NO SUBMISSION: upload without attachments")
			res.Warnf("submission %d has no attachments", sub.ID)
			break
		}
		for _, att := range sub.Attachments {
			p.console.AttachmentLine(att.DisplayName, att.Size, att.ContentType)

			if opts.MaxSize > 0 && att.Size > opts.MaxSize {
				msg := fmt.Sprintf("Too large [%s > %s]",
					humanize.Bytes(uint64(att.Size)), humanize.Bytes(uint64(opts.MaxSize)))
				p.console.Notice(msg)
				res.Warnf("skipped oversize attachment %s (%d bytes)", att.DisplayName, att.Size)
				continue
			}

			files = append(files, p.processAttachment(ctx, sub, att, res)...)
		}

	case models.SubmissionTypeURL:
		fi, err := p.writeStudentFile(sub.User, FileNameURL, sub.URL+"\n")
		if err != nil {
			return nil, err
		}
		p.console.Success(sub.URL)
		files = append(files, fi)

	case models.SubmissionTypeQuiz:
		p.console.Success("Nothing to do for a quiz")

	case models.SubmissionTypeNone, "":
		p.console.Problem("Nothing submitted by this student")

	default:
		p.console.Problem(fmt.Sprintf("Not set up to handle submission type '%s'", sub.SubmissionType))
		res.Warnf("unhandled submission type %q for submission %d", sub.SubmissionType, sub.ID)
		p.log.Error(ctx, "unhandled submission type", "type", string(sub.SubmissionType), "submission_id", sub.ID)
	}

	if err := p.store.ReplaceStudentFiles(ctx, sub.User.ID, files); err != nil {
		return nil, fmt.Errorf("replace files for student %d: %w", sub.User.ID, err)
	}
	res.Files = files
	return res, nil
}

// processTextEntry writes the raw HTML body and its Markdown rendering as the
// two fixed-name files for the student.
func (p *Processor) processTextEntry(sub *models.Submission, res *Result) ([]models.FileInfo, error) {
	var files []models.FileInfo

	fi, err := p.writeStudentFile(sub.User, FileNameHTML, sub.Body)
	if err != nil {
		return nil, err
	}
	files = append(files, fi)

	converted, err := p.conv.ConvertString(sub.Body)
	if err != nil {
		res.Warnf("markdown conversion failed for submission %d: %v", sub.ID, err)
		p.console.Warning(fmt.Sprintf("Problem converting text entry: %v", err))
		return files, nil
	}

	fi, err = p.writeStudentFile(sub.User, FileNameMD, converted)
	if err != nil {
		return nil, err
	}
	files = append(files, fi)
	return files, nil
}

// processAttachment fetches one attachment and dispatches on its content
// type. Every failure here is recoverable: it is recorded as a warning and an
// empty kept list comes back, leaving sibling attachments unaffected.
func (p *Processor) processAttachment(ctx context.Context, sub *models.Submission, att models.Attachment, res *Result) []models.FileInfo {
	dest, err := p.paths.SubmissionPath(sub.User, att.DisplayName)
	if err != nil {
		res.Warnf("resolve path for %s: %v", att.DisplayName, err)
		p.console.Warning(fmt.Sprintf("Problem with download: %v", err))
		return nil
	}

	if err := p.fetcher.Fetch(ctx, att.URL, dest); err != nil {
		res.Warnf("download %s: %v", att.DisplayName, err)
		p.console.Warning(fmt.Sprintf("Problem with download: %v", err))
		return nil
	}

	kind := contenttype.Classify(att.ContentType)
	if kind == contenttype.Unsupported {
		if sniffed, detected, err := contenttype.Sniff(dest); err == nil && sniffed != contenttype.Unsupported {
			p.log.Debug(ctx, "content type from sniffing", "declared", att.ContentType, "detected", detected)
			kind = sniffed
		}
	}

	rep := archive.NewReport(p.rules)
	rep.SetProgress(func(fi models.FileInfo) {
		p.console.EntryLine(fi.Name, fi.Size)
	})
	dir := filepath.Dir(dest)

	switch kind {
	case contenttype.Zip:
		p.console.Info("Zip file")
		if err := archive.ExtractZip(dest, dir, rep); err != nil {
			res.Warnf("extract %s: %v", att.DisplayName, err)
			p.console.Warning(fmt.Sprintf("Problem extracting zip file: %v", err))
			return nil
		}
		p.console.Summary(rep.Summary(), rep.SkippedCount() > 0)

	case contenttype.Tar:
		p.console.Info("Tar file")
		if err := archive.ExtractTar(dest, dir, rep); err != nil {
			res.Warnf("extract %s: %v", att.DisplayName, err)
			p.console.Warning(fmt.Sprintf("Problem extracting tar file: %v", err))
			return nil
		}
		p.console.Summary(rep.Summary(), rep.SkippedCount() > 0)

	case contenttype.StoreAsIs:
		rep.Add(att.DisplayName, att.Size)
		p.console.Success("No processing required")

	case contenttype.Unsupported:
		res.Warnf("not configured to process %s (%s)", att.DisplayName, att.ContentType)
		p.console.Warning(fmt.Sprintf("Not configured to process %s (%s)", att.DisplayName, att.ContentType))
		return nil
	}

	res.Skipped += rep.SkippedCount()
	return rep.Kept()
}

// writeStudentFile materializes one fixed-name file in the student's
// directory and returns its FileInfo record.
func (p *Processor) writeStudentFile(student models.Student, name, content string) (models.FileInfo, error) {
	path, err := p.paths.SubmissionPath(student, name)
	if err != nil {
		return models.FileInfo{}, err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return models.FileInfo{}, fmt.Errorf("write %s: %w", path, err)
	}
	return models.FileInfo{Name: name, Size: int64(len(content))}, nil
}
