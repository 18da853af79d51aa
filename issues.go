package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// Issue categories and statuses accepted by the backend.
const (
	CategoryRoad        = "Road"
	CategoryElectricity = "Electricity"
	CategoryWater       = "Water"
	CategoryGarbage     = "Garbage"
	CategoryOther       = "Other"
)

const (
	StatusOpen       = "Open"
	StatusInProgress = "In Progress"
	StatusResolved   = "Resolved"
)

// IssueReport is the payload for reporting a local infrastructure issue.
type IssueReport struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	Status      string `json:"status,omitempty"`
	Upvotes     int    `json:"upvotes"`
	CreatedBy   string `json:"createdBy"`
	ImagePath   string `json:"image"`
}

// Issue is a reported issue as returned by the backend.
type Issue struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Location    string     `json:"location"`
	Status      string     `json:"status"`
	Upvotes     int        `json:"upvotes"`
	CreatedBy   string     `json:"createdBy"`
	ImagePath   string     `json:"image,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// ValidateIssueReport aggregates per-field validation for the report form.
// An empty map means the report may be submitted.
func ValidateIssueReport(r IssueReport) map[string]string {
	fieldErrors := map[string]string{}

	checks := map[string]error{
		"title": validation.Validate(r.Title,
			validation.Required.Error("Title must be at least 5 characters!"),
			validation.Length(5, 0).Error("Title must be at least 5 characters!"),
		),
		"description": validation.Validate(r.Description,
			validation.Required.Error("Description must be at least 15 characters!"),
			validation.Length(15, 0).Error("Description must be at least 15 characters!"),
		),
		"category": validation.Validate(r.Category,
			validation.Required.Error("Please select the category"),
		),
		"image": validation.Validate(r.ImagePath,
			validation.Required.Error("Please upload an image"),
		),
		"location": validation.Validate(r.Location,
			validation.Required.Error("Location must be at least 3 characters long"),
			validation.Length(3, 0).Error("Location must be at least 3 characters long"),
		),
		"status": validation.Validate(r.Status,
			validation.In(StatusOpen, StatusInProgress, StatusResolved).Error("Invalid status"),
		),
		"upvotes": validation.Validate(r.Upvotes,
			validation.Min(0).Error("Upvotes cannot be negative"),
		),
		"createdBy": validation.Validate(r.CreatedBy,
			validation.Required.Error("Created By is required"),
		),
	}

	for name, err := range checks {
		if err != nil {
			fieldErrors[name] = err.Error()
		}
	}

	return fieldErrors
}

// CreateIssue submits a validated report. The bearer token comes from the
// current session.
func (c *Client) CreateIssue(ctx context.Context, token string, report IssueReport) (*Issue, error) {
	res, err := c.doJSON(ctx, http.MethodPost, c.config.GetIssuesPath(), token, report)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, issueRequestError("could not create issue", res.StatusCode)
	}

	issue := &Issue{}
	if err := decodeJSON(res.Body, issue); err != nil {
		return nil, err
	}

	return issue, nil
}

// ListIssues fetches all reported issues visible to the session.
func (c *Client) ListIssues(ctx context.Context, token string) ([]Issue, error) {
	res, err := c.doJSON(ctx, http.MethodGet, c.config.GetIssuesPath(), token, nil)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, issueRequestError("could not list issues", res.StatusCode)
	}

	issues := []Issue{}
	if err := decodeJSON(res.Body, &issues); err != nil {
		return nil, err
	}

	return issues, nil
}

// UpvoteIssue registers a single upvote for the issue.
func (c *Client) UpvoteIssue(ctx context.Context, token string, id uuid.UUID) error {
	path := fmt.Sprintf("%s/%s/upvote", c.config.GetIssuesPath(), id)

	res, err := c.doJSON(ctx, http.MethodPost, path, token, nil)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return issueRequestError("could not upvote issue", res.StatusCode)
	}

	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "could not encode payload")
		}
		body = bytes.NewReader(encoded)
	}

	url := c.config.GetBaseURL() + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, goerrors.Wrap(err, ErrNetworkFailure.Category, ErrNetworkFailure.Message).
			WithTextCode(ErrNetworkFailure.TextCode)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, goerrors.Wrap(err, ErrNetworkFailure.Category, ErrNetworkFailure.Message).
			WithTextCode(ErrNetworkFailure.TextCode)
	}

	return res, nil
}

func issueRequestError(message string, status int) error {
	return goerrors.New(message, goerrors.CategoryOperation).
		WithTextCode(TextCodeNetworkFailure).
		WithMetadata(map[string]any{"status": status})
}

func decodeJSON(r io.Reader, target any) error {
	body, err := io.ReadAll(r)
	if err != nil {
		return goerrors.Wrap(err, ErrNetworkFailure.Category, ErrNetworkFailure.Message).
			WithTextCode(ErrNetworkFailure.TextCode)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return ErrMalformedResponse
	}
	return nil
}
