package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	session "github.com/civicfix/go-session"
)

func validReport() session.IssueReport {
	return session.IssueReport{
		Title:       "Pothole on 5th Main",
		Description: "Large pothole near the bus stop, grows after every rain.",
		Category:    session.CategoryRoad,
		Location:    "5th Main Road, Ward 12",
		Status:      session.StatusOpen,
		CreatedBy:   "citizen@example.com",
		ImagePath:   "uploads/pothole.jpg",
	}
}

func TestValidateIssueReportAcceptsCompleteReport(t *testing.T) {
	assert.Empty(t, session.ValidateIssueReport(validReport()))
}

func TestValidateIssueReportFieldRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*session.IssueReport)
		field   string
		message string
	}{
		{
			name:    "title empty",
			mutate:  func(r *session.IssueReport) { r.Title = "" },
			field:   "title",
			message: "Title must be at least 5 characters!",
		},
		{
			name:    "title too short",
			mutate:  func(r *session.IssueReport) { r.Title = "Pot" },
			field:   "title",
			message: "Title must be at least 5 characters!",
		},
		{
			name:    "description too short",
			mutate:  func(r *session.IssueReport) { r.Description = "broken" },
			field:   "description",
			message: "Description must be at least 15 characters!",
		},
		{
			name:    "category missing",
			mutate:  func(r *session.IssueReport) { r.Category = "" },
			field:   "category",
			message: "Please select the category",
		},
		{
			name:    "image missing",
			mutate:  func(r *session.IssueReport) { r.ImagePath = "" },
			field:   "image",
			message: "Please upload an image",
		},
		{
			name:    "location too short",
			mutate:  func(r *session.IssueReport) { r.Location = "5t" },
			field:   "location",
			message: "Location must be at least 3 characters long",
		},
		{
			name:    "unknown status",
			mutate:  func(r *session.IssueReport) { r.Status = "Closed" },
			field:   "status",
			message: "Invalid status",
		},
		{
			name:    "negative upvotes",
			mutate:  func(r *session.IssueReport) { r.Upvotes = -1 },
			field:   "upvotes",
			message: "Upvotes cannot be negative",
		},
		{
			name:    "created by missing",
			mutate:  func(r *session.IssueReport) { r.CreatedBy = "" },
			field:   "createdBy",
			message: "Created By is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := validReport()
			tt.mutate(&report)

			got := session.ValidateIssueReport(report)
			assert.Equal(t, map[string]string{tt.field: tt.message}, got)
		})
	}
}

func TestValidateIssueReportEmptyStatusAllowed(t *testing.T) {
	report := validReport()
	report.Status = ""
	assert.Empty(t, session.ValidateIssueReport(report))
}

func TestClientCreateIssue(t *testing.T) {
	id := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/issues", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var report session.IssueReport
		require.NoError(t, json.NewDecoder(r.Body).Decode(&report))

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(session.Issue{
			ID:        id,
			Title:     report.Title,
			Status:    session.StatusOpen,
			CreatedBy: report.CreatedBy,
		})
	}))
	defer server.Close()

	client := session.NewClient(&session.SimpleConfig{BaseURL: server.URL})

	issue, err := client.CreateIssue(context.Background(), "tok", validReport())
	require.NoError(t, err)
	assert.Equal(t, id, issue.ID)
	assert.Equal(t, "Pothole on 5th Main", issue.Title)
}

func TestClientListIssues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		json.NewEncoder(w).Encode([]session.Issue{
			{ID: uuid.New(), Title: "Pothole on 5th Main", Upvotes: 3},
			{ID: uuid.New(), Title: "Streetlight out", Upvotes: 1},
		})
	}))
	defer server.Close()

	client := session.NewClient(&session.SimpleConfig{BaseURL: server.URL})

	issues, err := client.ListIssues(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, 3, issues[0].Upvotes)
}

func TestClientUpvoteIssue(t *testing.T) {
	id := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/issues/"+id.String()+"/upvote", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := session.NewClient(&session.SimpleConfig{BaseURL: server.URL})

	require.NoError(t, client.UpvoteIssue(context.Background(), "tok", id))
}

func TestClientIssueRequestsSurfaceFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := session.NewClient(&session.SimpleConfig{BaseURL: server.URL})
	ctx := context.Background()

	_, err := client.CreateIssue(ctx, "tok", validReport())
	assert.True(t, session.IsNetworkError(err))

	_, err = client.ListIssues(ctx, "tok")
	assert.True(t, session.IsNetworkError(err))

	err = client.UpvoteIssue(ctx, "tok", uuid.New())
	assert.True(t, session.IsNetworkError(err))
}
