package backend

import (
	"aduan/frontend/internal/models"
	"context"
	"net/http"
)

type userData struct {
	User models.User `json:"user"`
}

func (c *Client) Login(ctx context.Context, creds models.Credentials) (models.AuthResult, error) {
	var out models.AuthResult
	_, err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, creds, &out)
	return out, err
}

func (c *Client) Register(ctx context.Context, reg models.Registration) (models.AuthResult, error) {
	var out models.AuthResult
	_, err := c.doJSON(ctx, http.MethodPost, "/auth/register", nil, reg, &out)
	return out, err
}

// Profile re-validates the token in ctx and returns its owner.
func (c *Client) Profile(ctx context.Context) (models.User, error) {
	var out userData
	_, err := c.doJSON(ctx, http.MethodGet, "/auth/profile", nil, nil, &out)
	return out.User, err
}

func (c *Client) UpdateProfile(ctx context.Context, name string) (models.User, error) {
	var out userData
	payload := map[string]string{"name": name}
	_, err := c.doJSON(ctx, http.MethodPut, "/auth/profile", nil, payload, &out)
	return out.User, err
}
