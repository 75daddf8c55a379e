package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/canvasctl/internal/client/models"
	"github.com/dmitrijs2005/canvasctl/internal/common"
	"github.com/dmitrijs2005/canvasctl/internal/logging"
)

func newTestClient(srv *httptest.Server) *HTTPClient {
	log := logging.NewTextLogger(io.Discard, slog.LevelError)
	return NewHTTPClient(srv.URL, "secret-token", 1, 2, srv.Client(), log)
}

func TestAuthAndRequestIDHeaders(t *testing.T) {
	var gotAuth, gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-Id")
		_, _ = w.Write([]byte(`{"enrollment_terms": []}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.GetTerms(context.Background())
	require.NoError(t, err)

	require.Equal(t, "Bearer secret-token", gotAuth)
	require.NotEmpty(t, gotReqID)
}

func TestGetTerms_SortedNewestFirst(t *testing.T) {
	old := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	mid := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/accounts/1/terms", r.URL.Path)
		payload := map[string]any{"enrollment_terms": []models.Term{
			{ID: 1, Name: "Spring 2024", EndAt: &old},
			{ID: 3, Name: "Spring 2026", EndAt: &recent},
			{ID: 2, Name: "Spring 2025", StartAt: &mid},
		}}
		require.NoError(t, json.NewEncoder(w).Encode(payload))
	}))
	defer srv.Close()

	terms, err := newTestClient(srv).GetTerms(context.Background())
	require.NoError(t, err)
	require.Equal(t, []int{3, 2, 1}, []int{terms[0].ID, terms[1].ID, terms[2].ID})
}

func TestPaginationFollowsLinkHeader(t *testing.T) {
	var perPage []string
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/courses/100/students", r.URL.Path)
		perPage = append(perPage, r.URL.Query().Get("per_page"))

		switch r.URL.Query().Get("page") {
		case "", "1":
			// Only page 1 advertises a rel="next" target.
			w.Header().Set("Link", fmt.Sprintf(
				`<%s/api/v1/courses/100/students?page=2&per_page=2>; rel="next", <%s/api/v1/courses/100/students?page=1>; rel="first"`,
				srv.URL, srv.URL))
			_, _ = w.Write([]byte(`[{"id": 1, "sortable_name": "Doe, Jane"}, {"id": 2, "sortable_name": "Ada, Al"}]`))
		case "2":
			_, _ = w.Write([]byte(`[{"id": 3, "sortable_name": "Cho, Ben"}]`))
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	}))
	defer srv.Close()

	students, err := newTestClient(srv).GetStudents(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, students, 3)
	require.Equal(t, 3, students[2].ID)

	// Both requests carried the configured page size.
	require.Equal(t, []string{"2", "2"}, perPage)
}

func TestGradeSubmission(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	err := newTestClient(srv).GradeSubmission(context.Background(), 100, 10, 5, 18.5, "Nice work")
	require.NoError(t, err)

	require.Equal(t, http.MethodPut, gotMethod)
	require.Equal(t, "/api/v1/courses/100/assignments/10/submissions/5", gotPath)

	submission, ok := gotBody["submission"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "18.5", submission["posted_grade"])

	comment, ok := gotBody["comment"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "Nice work", comment["text_comment"])
}

func TestGradeSubmission_NoComment(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	require.NoError(t, newTestClient(srv).GradeSubmission(context.Background(), 100, 10, 5, 20, ""))
	_, hasComment := gotBody["comment"]
	require.False(t, hasComment)
}

func TestUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).GetTerms(context.Background())
	require.ErrorIs(t, err, common.ErrUnexpectedStatus)

	_, err = newTestClient(srv).GetStudents(context.Background(), 100)
	require.ErrorIs(t, err, common.ErrUnexpectedStatus)
}

func TestGetCourses_FiltersByTerm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "term", r.URL.Query().Get("include[]"))
		_, _ = w.Write([]byte(`[
			{"id": 1, "name": "Old", "term": {"id": 7}},
			{"id": 2, "name": "Current", "term": {"id": 8}},
			{"id": 3, "name": "No term"}
		]`))
	}))
	defer srv.Close()

	courses, err := newTestClient(srv).GetCourses(context.Background(), 8)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.Equal(t, 2, courses[0].ID)
}

func TestNextLink(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{
			name:     "next present",
			header:   `<https://canvas/api/v1/courses?page=2>; rel="next", <https://canvas/api/v1/courses?page=1>; rel="first"`,
			expected: "https://canvas/api/v1/courses?page=2",
		},
		{
			name:     "no next",
			header:   `<https://canvas/api/v1/courses?page=1>; rel="first", <https://canvas/api/v1/courses?page=1>; rel="last"`,
			expected: "",
		},
		{
			name:     "empty header",
			header:   "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, nextLink(tt.header))
		})
	}
}
