package backend

import (
	"aduan/frontend/internal/models"
	"context"
	"net/http"
	"net/url"
)

func (c *Client) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	var out models.DashboardStats
	_, err := c.doJSON(ctx, http.MethodGet, "/admin/stats", nil, nil, &out)
	return out, err
}

func (c *Client) ListUsers(ctx context.Context, f models.UserFilters) (models.UserPage, error) {
	var page models.UserPage
	env, err := c.doJSON(ctx, http.MethodGet, "/admin/users", f.Values(), nil, &page)
	if err != nil {
		return models.UserPage{}, err
	}
	if page.Pagination == (models.Pagination{}) && env.Pagination != nil {
		page.Pagination = *env.Pagination
	}
	return page, nil
}

// ListTechnicians is open to the reviewing office as well as administrators.
func (c *Client) ListTechnicians(ctx context.Context) ([]models.User, error) {
	var out struct {
		Users []models.User `json:"users"`
	}
	_, err := c.doJSON(ctx, http.MethodGet, "/users/technicians", nil, nil, &out)
	return out.Users, err
}

func (c *Client) CreateUser(ctx context.Context, reg models.Registration) (models.User, error) {
	var out userData
	_, err := c.doJSON(ctx, http.MethodPost, "/admin/users", nil, reg, &out)
	return out.User, err
}

func (c *Client) UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (models.User, error) {
	var out userData
	_, err := c.doJSON(ctx, http.MethodPut, "/admin/users/"+url.PathEscape(id), nil, upd, &out)
	return out.User, err
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "/admin/users/"+url.PathEscape(id), nil, nil, nil)
	return err
}
