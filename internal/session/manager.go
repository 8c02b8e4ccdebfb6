package session

import (
	"aduan/frontend/internal/backend"
	"aduan/frontend/internal/models"
	"context"
	"errors"
	"log"

	"github.com/gin-gonic/gin"
)

// AuthAPI is the part of the backend the session needs.
type AuthAPI interface {
	Login(ctx context.Context, creds models.Credentials) (models.AuthResult, error)
	Register(ctx context.Context, reg models.Registration) (models.AuthResult, error)
	Profile(ctx context.Context) (models.User, error)
}

var ErrMalformedAuth = errors.New("session: login response has no token or user")

type Manager struct {
	API     AuthAPI
	Cookies *CookieStore
}

func NewManager(api AuthAPI, cookies *CookieStore) *Manager {
	return &Manager{API: api, Cookies: cookies}
}

// Bootstrap revalidates the persisted session against the API once. A session
// the API does not confirm is cleared, never retried. If the browser gave up
// on the request while the profile was loading, the state stays Pending and
// the cookies are left alone.
func (m *Manager) Bootstrap(c *gin.Context) State {
	user, token, err := m.Cookies.Load(c)
	if err != nil {
		if !errors.Is(err, ErrNoSession) {
			log.Printf("WARNING: discarding session cookie: %v", err)
			m.Cookies.Clear(c)
		}
		return Anonymous{}
	}

	ctx := backend.WithToken(c.Request.Context(), token)
	profile, err := m.API.Profile(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return Pending{}
		}
		log.Printf("WARNING: session of %s rejected on revalidation: %v", user.Username, err)
		m.Cookies.Clear(c)
		return Anonymous{}
	}
	if profile.ID == "" {
		log.Printf("WARNING: session of %s revalidated to an empty profile", user.Username)
		m.Cookies.Clear(c)
		return Anonymous{}
	}

	if profile != user {
		if err := m.Cookies.Save(c, profile, token); err != nil {
			log.Printf("ERROR: failed to refresh session cookie: %v", err)
		}
	}
	return Authenticated{User: profile, Token: token}
}

// Login exchanges credentials for a session and persists it.
func (m *Manager) Login(c *gin.Context, creds models.Credentials) (Authenticated, error) {
	res, err := m.API.Login(c.Request.Context(), creds)
	if err != nil {
		return Authenticated{}, err
	}
	return m.establish(c, res)
}

// Register creates the account, then logs it in.
func (m *Manager) Register(c *gin.Context, reg models.Registration) (Authenticated, error) {
	res, err := m.API.Register(c.Request.Context(), reg)
	if err != nil {
		return Authenticated{}, err
	}
	return m.establish(c, res)
}

func (m *Manager) establish(c *gin.Context, res models.AuthResult) (Authenticated, error) {
	if res.Token == "" || res.User.ID == "" {
		return Authenticated{}, ErrMalformedAuth
	}
	if err := m.Cookies.Save(c, res.User, res.Token); err != nil {
		return Authenticated{}, err
	}
	log.Printf("INFO: %s logged in as %s", res.User.Username, res.User.Role)
	auth := Authenticated{User: res.User, Token: res.Token}
	set(c, auth)
	return auth, nil
}

// Logout drops the session locally. The API is not called, so it cannot fail.
func (m *Manager) Logout(c *gin.Context) {
	m.Cookies.Clear(c)
	set(c, Anonymous{})
}
