package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/canvasctl/internal/client/models"
	"github.com/dmitrijs2005/canvasctl/internal/common"
	"github.com/dmitrijs2005/canvasctl/internal/logging"
)

// HTTPClient talks to a Canvas instance over its /api/v1 REST surface.
type HTTPClient struct {
	apiURL    string
	token     string
	accountID int
	pageSize  int
	hc        *http.Client
	log       logging.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a client for the Canvas instance at baseURL (without
// the /api/v1 suffix). hc may be nil, in which case http.DefaultClient is
// used.
func NewHTTPClient(baseURL, token string, accountID, pageSize int, hc *http.Client, log logging.Logger) *HTTPClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &HTTPClient{
		apiURL:    strings.TrimRight(baseURL, "/") + "/api/v1",
		token:     token,
		accountID: accountID,
		pageSize:  pageSize,
		hc:        hc,
		log:       log,
	}
}

func (c *HTTPClient) endpoint(pathFmt string, args ...any) string {
	return c.apiURL + "/" + fmt.Sprintf(pathFmt, args...)
}

func (c *HTTPClient) newRequest(ctx context.Context, method, rawURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", rawURL, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do runs one request and decodes the JSON response into out (unless out is
// nil). Non-2xx statuses map to common.ErrUnexpectedStatus.
func (c *HTTPClient) do(ctx context.Context, method, rawURL string, body io.Reader, out any) error {
	req, err := c.newRequest(ctx, method, rawURL, body)
	if err != nil {
		return err
	}

	c.log.Debug(ctx, "api request", "method", method, "url", rawURL, "request_id", req.Header.Get("X-Request-Id"))

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: %w: %s", method, rawURL, common.ErrUnexpectedStatus, resp.Status)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return nil
}

// getPage fetches one page of a list endpoint and returns the decoded slice
// together with the rel="next" target from the Link header, if any.
func getPage[T any](ctx context.Context, c *HTTPClient, rawURL string) ([]T, string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", err
	}

	c.log.Debug(ctx, "api request", "method", http.MethodGet, "url", rawURL, "request_id", req.Header.Get("X-Request-Id"))

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("GET %s: %w: %s", rawURL, common.ErrUnexpectedStatus, resp.Status)
	}

	var page []T
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", rawURL, err)
	}

	return page, nextLink(resp.Header.Get("Link")), nil
}

// getAll walks a paginated list endpoint until no rel="next" link remains.
func getAll[T any](ctx context.Context, c *HTTPClient, path string, query url.Values) ([]T, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("per_page", strconv.Itoa(c.pageSize))

	next := c.endpoint("%s", path) + "?" + query.Encode()
	var all []T
	for next != "" {
		page, n, err := getPage[T](ctx, c, next)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		next = n
	}
	return all, nil
}

// nextLink extracts the rel="next" target from an RFC 5988 Link header.
func nextLink(header string) string {
	for _, part := range strings.Split(header, ",") {
		sections := strings.Split(part, ";")
		if len(sections) < 2 {
			continue
		}
		target := strings.TrimSpace(sections[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}
		for _, param := range sections[1:] {
			if strings.TrimSpace(param) == `rel="next"` {
				return strings.Trim(target, "<>")
			}
		}
	}
	return ""
}

func (c *HTTPClient) GetTerms(ctx context.Context) ([]models.Term, error) {
	var out struct {
		EnrollmentTerms []models.Term `json:"enrollment_terms"`
	}
	if err := c.do(ctx, http.MethodGet, c.endpoint("accounts/%d/terms", c.accountID), nil, &out); err != nil {
		return nil, err
	}

	terms := out.EnrollmentTerms
	sort.SliceStable(terms, func(i, j int) bool {
		return terms[i].Date().After(terms[j].Date())
	})
	return terms, nil
}

func (c *HTTPClient) GetCourses(ctx context.Context, termID int) ([]models.Course, error) {
	query := url.Values{}
	query.Set("include[]", "term")
	courses, err := getAll[models.Course](ctx, c, "courses", query)
	if err != nil {
		return nil, err
	}

	var inTerm []models.Course
	for _, course := range courses {
		if course.Term != nil && course.Term.ID == termID {
			inTerm = append(inTerm, course)
		}
	}
	return inTerm, nil
}

func (c *HTTPClient) GetStudents(ctx context.Context, courseID int) ([]models.Student, error) {
	return getAll[models.Student](ctx, c, fmt.Sprintf("courses/%d/students", courseID), nil)
}

func (c *HTTPClient) GetOneStudent(ctx context.Context, courseID, userID int) (*models.Student, error) {
	var student models.Student
	if err := c.do(ctx, http.MethodGet, c.endpoint("courses/%d/users/%d", courseID, userID), nil, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

func (c *HTTPClient) GetAssignments(ctx context.Context, courseID int) ([]models.Assignment, error) {
	return getAll[models.Assignment](ctx, c, fmt.Sprintf("courses/%d/assignments", courseID), nil)
}

func (c *HTTPClient) GetOneAssignment(ctx context.Context, courseID, assignmentID int) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := c.do(ctx, http.MethodGet, c.endpoint("courses/%d/assignments/%d", courseID, assignmentID), nil, &assignment); err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (c *HTTPClient) GetAssignmentGroups(ctx context.Context, courseID int) ([]models.AssignmentGroup, error) {
	return getAll[models.AssignmentGroup](ctx, c, fmt.Sprintf("courses/%d/assignment_groups", courseID), nil)
}

func (c *HTTPClient) GetGroupCategories(ctx context.Context, courseID int) ([]models.GroupCategory, error) {
	var categories []models.GroupCategory
	if err := c.do(ctx, http.MethodGet, c.endpoint("courses/%d/group_categories", courseID), nil, &categories); err != nil {
		return nil, err
	}

	groups, err := getAll[models.Group](ctx, c, fmt.Sprintf("courses/%d/groups", courseID), nil)
	if err != nil {
		return nil, err
	}

	// Membership requires one call per group; sequential on purpose, the
	// endpoints are rate-sensitive.
	for i := range groups {
		members, err := getAll[models.GroupMember](ctx, c, fmt.Sprintf("groups/%d/users", groups[i].ID), nil)
		if err != nil {
			return nil, err
		}
		groups[i].Members = members
	}

	for i := range categories {
		for _, g := range groups {
			if g.GroupCategoryID == categories[i].ID {
				categories[i].Groups = append(categories[i].Groups, g)
			}
		}
	}
	return categories, nil
}

func (c *HTTPClient) GetSubmissions(ctx context.Context, courseID, assignmentID int) ([]models.Submission, error) {
	query := url.Values{}
	query.Add("include[]", "user")
	query.Add("include[]", "submission_comments")
	return getAll[models.Submission](ctx, c, fmt.Sprintf("courses/%d/assignments/%d/submissions", courseID, assignmentID), query)
}

func (c *HTTPClient) GetOneSubmission(ctx context.Context, courseID, assignmentID, userID int) (*models.Submission, error) {
	rawURL := c.endpoint("courses/%d/assignments/%d/submissions/%d", courseID, assignmentID, userID) + "?include[]=user&include[]=submission_comments"
	var submission models.Submission
	if err := c.do(ctx, http.MethodGet, rawURL, nil, &submission); err != nil {
		return nil, err
	}
	return &submission, nil
}

func (c *HTTPClient) GetSubmissionSummary(ctx context.Context, courseID, assignmentID int) (*models.SubmissionSummary, error) {
	var summary models.SubmissionSummary
	if err := c.do(ctx, http.MethodGet, c.endpoint("courses/%d/assignments/%d/submission_summary", courseID, assignmentID), nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *HTTPClient) GradeSubmission(ctx context.Context, courseID, assignmentID, userID int, score float64, comment string) error {
	payload := map[string]any{
		"submission": map[string]any{
			"posted_grade": strconv.FormatFloat(score, 'f', -1, 64),
		},
	}
	if comment != "" {
		payload["comment"] = map[string]any{"text_comment": comment}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal grade: %w", err)
	}

	rawURL := c.endpoint("courses/%d/assignments/%d/submissions/%d", courseID, assignmentID, userID)
	return c.do(ctx, http.MethodPut, rawURL, bytes.NewReader(body), nil)
}
