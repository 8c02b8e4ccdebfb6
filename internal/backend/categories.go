package backend

import (
	"aduan/frontend/internal/models"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// CategoryUpdate is a partial update; nil fields are left unchanged.
type CategoryUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

type categoryData struct {
	Category models.Category `json:"category"`
}

func categoryPath(id string) string {
	return "/categories/" + url.PathEscape(id)
}

func (c *Client) ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	var query url.Values
	if includeInactive {
		query = url.Values{"includeInactive": {"true"}}
	}
	var out struct {
		Categories []models.Category `json:"categories"`
	}
	_, err := c.doJSON(ctx, http.MethodGet, "/categories", query, nil, &out)
	return out.Categories, err
}

func (c *Client) CreateCategory(ctx context.Context, in models.CategoryInput) (models.Category, error) {
	var out categoryData
	_, err := c.doJSON(ctx, http.MethodPost, "/categories", nil, in, &out)
	return out.Category, err
}

func (c *Client) UpdateCategory(ctx context.Context, id string, upd CategoryUpdate) (models.Category, error) {
	var out categoryData
	_, err := c.doJSON(ctx, http.MethodPut, categoryPath(id), nil, upd, &out)
	return out.Category, err
}

// DeleteCategory deactivates a category, or removes it for good when force is
// set. The API answers 409 when complaints still reference it.
func (c *Client) DeleteCategory(ctx context.Context, id string, force bool) error {
	var query url.Values
	if force {
		query = url.Values{"force": {"true"}}
	}
	_, err := c.doJSON(ctx, http.MethodDelete, categoryPath(id), query, nil, nil)
	return err
}

func (c *Client) RestoreCategory(ctx context.Context, id string) (models.Category, error) {
	var out categoryData
	_, err := c.doJSON(ctx, http.MethodPost, categoryPath(id)+"/restore", nil, nil, &out)
	return out.Category, err
}

// CategoryStats accepts either a bare array or an object wrapping one under
// "stats" or "categories".
func (c *Client) CategoryStats(ctx context.Context) ([]models.CategoryUsage, error) {
	var raw json.RawMessage
	if _, err := c.doJSON(ctx, http.MethodGet, "/categories/stats", nil, nil, &raw); err != nil {
		return nil, err
	}
	return decodeCategoryUsage(raw)
}

func decodeCategoryUsage(raw json.RawMessage) ([]models.CategoryUsage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var rows []models.CategoryUsage
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, fmt.Errorf("backend: decode category stats: %w", err)
		}
		return rows, nil
	}
	var wrapped struct {
		Stats      []models.CategoryUsage `json:"stats"`
		Categories []models.CategoryUsage `json:"categories"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("backend: decode category stats: %w", err)
	}
	if wrapped.Stats != nil {
		return wrapped.Stats, nil
	}
	return wrapped.Categories, nil
}
