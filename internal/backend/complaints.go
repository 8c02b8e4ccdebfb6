package backend

import (
	"aduan/frontend/internal/models"
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
)

type complaintData struct {
	Complaint models.Complaint `json:"complaint"`
}

func complaintPath(id string) string {
	return "/complaints/" + url.PathEscape(id)
}

func (c *Client) CreateComplaint(ctx context.Context, form models.ComplaintForm) (models.Complaint, error) {
	return c.sendComplaintForm(ctx, http.MethodPost, "/complaints", form)
}

func (c *Client) UpdateComplaint(ctx context.Context, id string, form models.ComplaintForm) (models.Complaint, error) {
	return c.sendComplaintForm(ctx, http.MethodPut, complaintPath(id), form)
}

func (c *Client) sendComplaintForm(ctx context.Context, method, path string, form models.ComplaintForm) (models.Complaint, error) {
	body, contentType, err := encodeComplaintForm(form)
	if err != nil {
		return models.Complaint{}, fmt.Errorf("backend: encode %s %s: %w", method, path, err)
	}
	var out complaintData
	_, err = c.do(ctx, method, path, nil, body, contentType, &out)
	return out.Complaint, err
}

// encodeComplaintForm builds the multipart body the complaint endpoints take.
// The attachment part keeps the sniffed content type instead of
// application/octet-stream.
func encodeComplaintForm(form models.ComplaintForm) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := []struct{ name, value string }{
		{"title", form.Title},
		{"description", form.Description},
		{"category", form.Category},
		{"priority", string(form.Priority)},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}

	if a := form.Attachment; a != nil && len(a.Data) > 0 {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="attachment"; filename="%s"`, escapeQuotes(a.Filename)))
		ct := a.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(a.Data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }

// ListComplaints returns the page the API scopes to the caller's role.
func (c *Client) ListComplaints(ctx context.Context, f models.ComplaintFilters) (models.ComplaintPage, error) {
	return c.listComplaints(ctx, "/complaints", f)
}

// ListAllComplaints is the administrator's unscoped listing.
func (c *Client) ListAllComplaints(ctx context.Context, f models.ComplaintFilters) (models.ComplaintPage, error) {
	return c.listComplaints(ctx, "/admin/complaints", f)
}

func (c *Client) listComplaints(ctx context.Context, path string, f models.ComplaintFilters) (models.ComplaintPage, error) {
	var page models.ComplaintPage
	env, err := c.doJSON(ctx, http.MethodGet, path, f.Values(), nil, &page)
	if err != nil {
		return models.ComplaintPage{}, err
	}
	if page.Pagination == (models.Pagination{}) && env.Pagination != nil {
		page.Pagination = *env.Pagination
	}
	return page, nil
}

func (c *Client) GetComplaint(ctx context.Context, id string) (models.Complaint, error) {
	var out complaintData
	_, err := c.doJSON(ctx, http.MethodGet, complaintPath(id), nil, nil, &out)
	return out.Complaint, err
}

func (c *Client) DeleteComplaint(ctx context.Context, id string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, complaintPath(id), nil, nil, nil)
	return err
}

func (c *Client) VerifyComplaint(ctx context.Context, id string, v models.Verification) (models.Complaint, error) {
	var out complaintData
	_, err := c.doJSON(ctx, http.MethodPut, complaintPath(id)+"/verify", nil, v, &out)
	return out.Complaint, err
}

func (c *Client) TakeComplaint(ctx context.Context, id string) (models.Complaint, error) {
	var out complaintData
	_, err := c.doJSON(ctx, http.MethodPut, complaintPath(id)+"/take", nil, nil, &out)
	return out.Complaint, err
}

func (c *Client) ProcessComplaint(ctx context.Context, id, processNotes string) (models.Complaint, error) {
	var out complaintData
	payload := map[string]string{"processNotes": processNotes}
	_, err := c.doJSON(ctx, http.MethodPut, complaintPath(id)+"/process", nil, payload, &out)
	return out.Complaint, err
}

func (c *Client) FinishComplaint(ctx context.Context, id, completionNotes string) (models.Complaint, error) {
	var out complaintData
	payload := map[string]string{"completionNotes": completionNotes}
	_, err := c.doJSON(ctx, http.MethodPut, complaintPath(id)+"/finish", nil, payload, &out)
	return out.Complaint, err
}
