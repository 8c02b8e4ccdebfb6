// Package backend is the client of the remote complaint REST API. Every
// response is wrapped in the {status, message, data, errors} envelope; the
// client unwraps it and turns failures into *APIError values.
package backend

import (
	"aduan/frontend/internal/models"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Backend is everything the front-end asks of the API. The bearer token is
// taken from the context (see WithToken).
type Backend interface {
	Login(ctx context.Context, creds models.Credentials) (models.AuthResult, error)
	Register(ctx context.Context, reg models.Registration) (models.AuthResult, error)
	Profile(ctx context.Context) (models.User, error)
	UpdateProfile(ctx context.Context, name string) (models.User, error)

	CreateComplaint(ctx context.Context, form models.ComplaintForm) (models.Complaint, error)
	ListComplaints(ctx context.Context, f models.ComplaintFilters) (models.ComplaintPage, error)
	GetComplaint(ctx context.Context, id string) (models.Complaint, error)
	UpdateComplaint(ctx context.Context, id string, form models.ComplaintForm) (models.Complaint, error)
	DeleteComplaint(ctx context.Context, id string) error
	VerifyComplaint(ctx context.Context, id string, v models.Verification) (models.Complaint, error)
	TakeComplaint(ctx context.Context, id string) (models.Complaint, error)
	ProcessComplaint(ctx context.Context, id, processNotes string) (models.Complaint, error)
	FinishComplaint(ctx context.Context, id, completionNotes string) (models.Complaint, error)

	ListAllComplaints(ctx context.Context, f models.ComplaintFilters) (models.ComplaintPage, error)
	DashboardStats(ctx context.Context) (models.DashboardStats, error)
	ListUsers(ctx context.Context, f models.UserFilters) (models.UserPage, error)
	ListTechnicians(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, reg models.Registration) (models.User, error)
	UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (models.User, error)
	DeleteUser(ctx context.Context, id string) error

	ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error)
	CreateCategory(ctx context.Context, in models.CategoryInput) (models.Category, error)
	UpdateCategory(ctx context.Context, id string, upd CategoryUpdate) (models.Category, error)
	DeleteCategory(ctx context.Context, id string, force bool) error
	RestoreCategory(ctx context.Context, id string) (models.Category, error)
	CategoryStats(ctx context.Context) ([]models.CategoryUsage, error)
}

type tokenKey struct{}

// WithToken returns a context whose API calls carry the bearer token.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the bearer token stored by WithToken.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok && token != ""
}

// Client implements Backend over HTTP.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient Constructor
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

var _ Backend = (*Client)(nil)

// doJSON sends payload (if any) as JSON and decodes the envelope's data into out.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, payload, out any) (*models.Envelope, error) {
	var body io.Reader
	contentType := ""
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("backend: encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, query, body, contentType, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) (*models.Envelope, error) {
	target := c.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("backend: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token, ok := TokenFromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("backend: read %s %s: %w", method, path, err)
	}

	var env models.Envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Method: method, Path: path, StatusCode: resp.StatusCode}
		if decodeErr == nil {
			apiErr.Message = env.Message
			apiErr.Errors = env.Errors
		}
		return nil, apiErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("backend: decode %s %s: %w", method, path, decodeErr)
	}
	if !env.OK() {
		return nil, &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Message: env.Message, Errors: env.Errors}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return &env, nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return nil, fmt.Errorf("backend: decode data %s %s: %w", method, path, err)
	}
	return &env, nil
}
