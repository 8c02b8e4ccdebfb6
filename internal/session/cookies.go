package session

import (
	"aduan/frontend/internal/config"
	"aduan/frontend/internal/models"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	jwt "github.com/golang-jwt/jwt/v5"
)

var ErrNoSession = errors.New("session: no persisted session")

// userClaims is the payload of the signed user cookie.
type userClaims struct {
	User models.User `json:"user"`
	jwt.RegisteredClaims
}

// CookieStore persists the session in the token and user cookies. The user
// cookie is an HS256 token signed with Secret so it cannot be edited in the
// browser to claim another role.
type CookieStore struct {
	Secret   []byte
	Secure   bool
	Lifetime time.Duration
	now      func() time.Time
}

func NewCookieStore(cfg config.SessionConfig) *CookieStore {
	return &CookieStore{
		Secret:   []byte(cfg.Secret),
		Secure:   cfg.SecureCookie,
		Lifetime: config.SessionLifetime,
		now:      time.Now,
	}
}

func (s *CookieStore) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// Save writes both cookies. They expire after Lifetime, or when the API
// token does if that comes first.
func (s *CookieStore) Save(c *gin.Context, user models.User, token string) error {
	now := s.clock()
	expires := now.Add(s.Lifetime)
	if exp, ok := tokenExpiry(token); ok && exp.Before(expires) {
		expires = exp
	}

	claims := userClaims{
		User: user,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return fmt.Errorf("session: sign user cookie: %w", err)
	}

	maxAge := int(expires.Sub(now).Seconds())
	s.set(c, config.TokenCookie, token, maxAge)
	s.set(c, config.UserCookie, signed, maxAge)
	return nil
}

// Load returns the persisted user and token.
func (s *CookieStore) Load(c *gin.Context) (models.User, string, error) {
	token, err := c.Cookie(config.TokenCookie)
	if err != nil || token == "" {
		return models.User{}, "", ErrNoSession
	}
	raw, err := c.Cookie(config.UserCookie)
	if err != nil || raw == "" {
		return models.User{}, "", ErrNoSession
	}

	var claims userClaims
	_, err = jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.clock))
	if err != nil {
		return models.User{}, "", fmt.Errorf("session: user cookie: %w", err)
	}
	if claims.User.ID == "" {
		return models.User{}, "", errors.New("session: user cookie has no user")
	}
	return claims.User, token, nil
}

// Clear expires both cookies.
func (s *CookieStore) Clear(c *gin.Context) {
	s.set(c, config.TokenCookie, "", -1)
	s.set(c, config.UserCookie, "", -1)
}

func (s *CookieStore) set(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", s.Secure, true)
}

// tokenExpiry reads the exp claim of the API token without verifying it; the
// API is the one that verifies.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
