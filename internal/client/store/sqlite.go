package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/canvasctl/internal/client/models"
	"github.com/dmitrijs2005/canvasctl/internal/common"
	"github.com/dmitrijs2005/canvasctl/internal/dbx"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Selection kinds: one row per current choice, JSON payload.
const (
	kindTerm              = "term"
	kindCourse            = "course"
	kindAssignment        = "assignment"
	kindSubmissionSummary = "submission_summary"
)

// SQLiteStore implements Store over a single SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// Open opens (creating if needed) the SQLite database at dsn and applies the
// embedded goose migrations.
func Open(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db %s: %w", dsn, err)
	}

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", dsn, err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) getSelection(ctx context.Context, q dbx.DBTX, kind string, out any) error {
	var payload string
	err := q.QueryRowContext(ctx, `SELECT payload FROM selection WHERE kind = ?`, kind).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get selection %s: %w", kind, err)
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("decode selection %s: %w", kind, err)
	}
	return nil
}

func (s *SQLiteStore) setSelection(ctx context.Context, q dbx.DBTX, kind string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode selection %s: %w", kind, err)
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO selection (kind, payload) VALUES (?, ?)
		ON CONFLICT(kind) DO UPDATE SET payload = excluded.payload`,
		kind, string(payload))
	if err != nil {
		return fmt.Errorf("set selection %s: %w", kind, err)
	}
	return nil
}

func (s *SQLiteStore) Term(ctx context.Context) (*models.Term, error) {
	var term models.Term
	if err := s.getSelection(ctx, s.db, kindTerm, &term); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNoCurrentTerm
		}
		return nil, err
	}
	return &term, nil
}

func (s *SQLiteStore) SetTerm(ctx context.Context, term models.Term) error {
	return s.setSelection(ctx, s.db, kindTerm, term)
}

func (s *SQLiteStore) Course(ctx context.Context) (*models.Course, error) {
	var course models.Course
	if err := s.getSelection(ctx, s.db, kindCourse, &course); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNoCurrentCourse
		}
		return nil, err
	}
	return &course, nil
}

func (s *SQLiteStore) SetCourse(ctx context.Context, course models.Course, students []models.Student, groups []models.AssignmentGroup, categories []models.GroupCategory) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.setSelection(ctx, tx, kindCourse, course); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM students`); err != nil {
			return fmt.Errorf("clear students: %w", err)
		}
		for _, st := range students {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO students (id, name, sortable_name, short_name, login_id) VALUES (?, ?, ?, ?, ?)`,
				st.ID, st.Name, st.SortableName, st.ShortName, st.LoginID)
			if err != nil {
				return fmt.Errorf("insert student %d: %w", st.ID, err)
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM assignment_groups`); err != nil {
			return fmt.Errorf("clear assignment groups: %w", err)
		}
		for _, g := range groups {
			if _, err := tx.ExecContext(ctx, `INSERT INTO assignment_groups (id, name) VALUES (?, ?)`, g.ID, g.Name); err != nil {
				return fmt.Errorf("insert assignment group %d: %w", g.ID, err)
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM group_categories`); err != nil {
			return fmt.Errorf("clear group categories: %w", err)
		}
		for _, cat := range categories {
			payload, err := json.Marshal(cat.Groups)
			if err != nil {
				return fmt.Errorf("encode groups for category %d: %w", cat.ID, err)
			}
			_, err = tx.ExecContext(ctx, `INSERT INTO group_categories (id, name, payload) VALUES (?, ?, ?)`,
				cat.ID, cat.Name, string(payload))
			if err != nil {
				return fmt.Errorf("insert group category %d: %w", cat.ID, err)
			}
		}

		// Roster changed; stale grading state would refer to the old course.
		if _, err := tx.ExecContext(ctx, `DELETE FROM submissions`); err != nil {
			return fmt.Errorf("clear submissions: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM student_files`); err != nil {
			return fmt.Errorf("clear student files: %w", err)
		}
		return nil
	})
}

func (s *SQLiteStore) Assignment(ctx context.Context) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := s.getSelection(ctx, s.db, kindAssignment, &assignment); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNoCurrentAssignment
		}
		return nil, err
	}
	return &assignment, nil
}

func (s *SQLiteStore) SetAssignment(ctx context.Context, assignment models.Assignment, summary models.SubmissionSummary) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.setSelection(ctx, tx, kindAssignment, assignment); err != nil {
			return err
		}
		if err := s.setSelection(ctx, tx, kindSubmissionSummary, summary); err != nil {
			return err
		}
		// The comment bank is per assignment.
		if _, err := tx.ExecContext(ctx, `DELETE FROM comments`); err != nil {
			return fmt.Errorf("clear comments: %w", err)
		}
		return nil
	})
}

func (s *SQLiteStore) SubmissionSummary(ctx context.Context) (*models.SubmissionSummary, error) {
	var summary models.SubmissionSummary
	if err := s.getSelection(ctx, s.db, kindSubmissionSummary, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *SQLiteStore) Students(ctx context.Context) ([]models.Student, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, sortable_name, short_name, login_id FROM students ORDER BY sortable_name`)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	var students []models.Student
	for rows.Next() {
		var st models.Student
		if err := rows.Scan(&st.ID, &st.Name, &st.SortableName, &st.ShortName, &st.LoginID); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, st)
	}
	return students, rows.Err()
}

func (s *SQLiteStore) Student(ctx context.Context, id int) (*models.Student, error) {
	var st models.Student
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, sortable_name, short_name, login_id FROM students WHERE id = ?`, id).
		Scan(&st.ID, &st.Name, &st.SortableName, &st.ShortName, &st.LoginID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("student %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get student %d: %w", id, err)
	}
	return &st, nil
}

func (s *SQLiteStore) AssignmentGroups(ctx context.Context) ([]models.AssignmentGroup, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM assignment_groups ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list assignment groups: %w", err)
	}
	defer rows.Close()

	var groups []models.AssignmentGroup
	for rows.Next() {
		var g models.AssignmentGroup
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("scan assignment group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (s *SQLiteStore) GroupCategories(ctx context.Context) ([]models.GroupCategory, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, payload FROM group_categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list group categories: %w", err)
	}
	defer rows.Close()

	var categories []models.GroupCategory
	for rows.Next() {
		var cat models.GroupCategory
		var payload string
		if err := rows.Scan(&cat.ID, &cat.Name, &payload); err != nil {
			return nil, fmt.Errorf("scan group category: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &cat.Groups); err != nil {
			return nil, fmt.Errorf("decode groups for category %d: %w", cat.ID, err)
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

func (s *SQLiteStore) CacheSubmission(ctx context.Context, submission *models.Submission) error {
	p := submission.Projection()

	var gradedAt any
	if p.GradedAt != nil {
		gradedAt = p.GradedAt.Format(time.RFC3339)
	}
	var score any
	if p.Score != nil {
		score = *p.Score
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO submissions (student_id, id, grade, score, grader_id, graded_at, workflow_state)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(student_id) DO UPDATE SET
			id = excluded.id,
			grade = excluded.grade,
			score = excluded.score,
			grader_id = excluded.grader_id,
			graded_at = excluded.graded_at,
			workflow_state = excluded.workflow_state`,
		submission.User.ID, p.ID, p.Grade, score, p.GraderID, gradedAt, p.WorkflowState)
	if err != nil {
		return fmt.Errorf("cache submission for student %d: %w", submission.User.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Submission(ctx context.Context, studentID int) (*models.SubmissionProjection, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, grade, score, grader_id, graded_at, workflow_state
		FROM submissions WHERE student_id = ?`, studentID)

	p, err := scanProjection(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("submission for student %d: %w", studentID, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get submission for student %d: %w", studentID, err)
	}
	return p, nil
}

func scanProjection(scan func(...any) error) (*models.SubmissionProjection, error) {
	var p models.SubmissionProjection
	var grade sql.NullString
	var score sql.NullFloat64
	var graderID sql.NullInt64
	var gradedAt sql.NullString

	if err := scan(&p.ID, &grade, &score, &graderID, &gradedAt, &p.WorkflowState); err != nil {
		return nil, err
	}

	p.Grade = grade.String
	if score.Valid {
		v := score.Float64
		p.Score = &v
	}
	p.GraderID = int(graderID.Int64)
	if gradedAt.Valid && gradedAt.String != "" {
		if t, err := time.Parse(time.RFC3339, gradedAt.String); err == nil {
			p.GradedAt = &t
		}
	}
	return &p, nil
}

func (s *SQLiteStore) StudentStatuses(ctx context.Context) ([]StudentStatus, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT st.id, st.name, st.sortable_name, st.short_name, st.login_id,
		       sub.id, sub.grade, sub.score, sub.grader_id, sub.graded_at, sub.workflow_state,
		       COALESCE(f.cnt, 0)
		FROM students st
		LEFT JOIN submissions sub ON sub.student_id = st.id
		LEFT JOIN (SELECT student_id, COUNT(*) AS cnt FROM student_files GROUP BY student_id) f
		       ON f.student_id = st.id
		ORDER BY st.sortable_name`)
	if err != nil {
		return nil, fmt.Errorf("list student statuses: %w", err)
	}
	defer rows.Close()

	var statuses []StudentStatus
	for rows.Next() {
		var st models.Student
		var subID sql.NullInt64
		var grade sql.NullString
		var score sql.NullFloat64
		var graderID sql.NullInt64
		var gradedAt sql.NullString
		var workflowState sql.NullString
		var fileCount int

		err := rows.Scan(&st.ID, &st.Name, &st.SortableName, &st.ShortName, &st.LoginID,
			&subID, &grade, &score, &graderID, &gradedAt, &workflowState, &fileCount)
		if err != nil {
			return nil, fmt.Errorf("scan student status: %w", err)
		}

		status := StudentStatus{Student: st, FileCount: fileCount}
		if subID.Valid {
			p := models.SubmissionProjection{
				ID:            int(subID.Int64),
				Grade:         grade.String,
				GraderID:      int(graderID.Int64),
				WorkflowState: workflowState.String,
			}
			if score.Valid {
				v := score.Float64
				p.Score = &v
			}
			if gradedAt.Valid && gradedAt.String != "" {
				if t, err := time.Parse(time.RFC3339, gradedAt.String); err == nil {
					p.GradedAt = &t
				}
			}
			status.Submission = &p
		}
		statuses = append(statuses, status)
	}
	return statuses, rows.Err()
}

func (s *SQLiteStore) StudentFiles(ctx context.Context, studentID int) ([]models.FileInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, size FROM student_files WHERE student_id = ? ORDER BY rowid`, studentID)
	if err != nil {
		return nil, fmt.Errorf("list files for student %d: %w", studentID, err)
	}
	defer rows.Close()

	var files []models.FileInfo
	for rows.Next() {
		var fi models.FileInfo
		if err := rows.Scan(&fi.Name, &fi.Size); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, fi)
	}
	return files, rows.Err()
}

// ReplaceStudentFiles swaps the student's file list for the given one in a
// single transaction, so a crash cannot leave the list half-updated or
// cleared without its replacement.
func (s *SQLiteStore) ReplaceStudentFiles(ctx context.Context, studentID int, files []models.FileInfo) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM student_files WHERE student_id = ?`, studentID); err != nil {
			return fmt.Errorf("clear files for student %d: %w", studentID, err)
		}
		for _, fi := range files {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO student_files (student_id, name, size) VALUES (?, ?, ?)`,
				studentID, fi.Name, fi.Size); err != nil {
				return fmt.Errorf("insert file %s for student %d: %w", fi.Name, studentID, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) Comments(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT body FROM comments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []string
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, body)
	}
	return comments, rows.Err()
}

func (s *SQLiteStore) AddComment(ctx context.Context, comment string) error {
	if _, err := s.db.ExecContext(ctx, `INSERT INTO comments (body) VALUES (?)`, comment); err != nil {
		return fmt.Errorf("add comment: %w", err)
	}
	return nil
}
